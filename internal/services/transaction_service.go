package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "quantumpartners/internal/errors"
	"quantumpartners/internal/metrics"
	"quantumpartners/internal/models"
	"quantumpartners/internal/money"
)

// transactionService handles the funding side of the ledger.
type transactionService struct {
	db            *gorm.DB
	users         UserServicer
	notifications NotificationServicer
	metrics       *metrics.Metrics
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, users UserServicer, notifications NotificationServicer, m *metrics.Metrics) TransactionServicer {
	return &transactionService{db: db, users: users, notifications: notifications, metrics: m}
}

// CreateDeposit records a pending deposit request. The balance is not
// touched here, and approving the request later does not credit it either;
// crediting is a manual admin step against the user record.
func (s *transactionService) CreateDeposit(userID string, req DepositRequest) (*models.Transaction, error) {
	if req.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	deposit := &models.Transaction{
		UserID:        userID,
		Type:          models.TransactionTypeDeposit,
		Amount:        req.Amount,
		Method:        req.Method,
		Currency:      currency,
		WalletAddress: req.WalletAddress,
		Reference:     req.Reference,
		Status:        models.TransactionStatusPending,
	}

	if err := s.db.Create(deposit).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.notifications.Append(userID, models.NotificationTypeDeposit,
		fmt.Sprintf("Deposit request of %g %s via %s", deposit.Amount, deposit.Currency, deposit.Method))

	return deposit, nil
}

// CreateWithdrawal debits the selected ledger field immediately and records
// a pending withdrawal request.
//
// The debit is unconditional: the client computes and enforces the USD
// amount and the server applies it without a floor check, so the field can
// go negative. Two concurrent requests can also both read the same pre-debit
// value. Both gaps are documented platform behavior.
func (s *transactionService) CreateWithdrawal(userID string, req WithdrawalRequest) (*models.Transaction, error) {
	if req.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	switch req.AccountField {
	case "balance":
		user.Balance = money.Sub(user.Balance, req.USDAmount, money.ScaleWithdrawal)
		if err := s.db.Model(user).Update("balance", user.Balance).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	case "profit":
		user.Profit = money.Sub(user.Profit, req.USDAmount, money.ScaleWithdrawal)
		if err := s.db.Model(user).Update("profit", user.Profit).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	default:
		return nil, apperrors.ErrInvalidAccountType
	}
	s.metrics.CountLedgerWrite("withdrawal_debit")

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	withdrawal := &models.Transaction{
		UserID:        userID,
		Type:          models.TransactionTypeWithdrawal,
		Amount:        req.Amount,
		Method:        req.Method,
		Currency:      currency,
		WalletAddress: req.WalletAddress,
		Reference:     req.Reference,
		Status:        models.TransactionStatusPending,
	}

	if err := s.db.Create(withdrawal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.notifications.Append(userID, models.NotificationTypeWithdrawal,
		fmt.Sprintf("Withdrawal request of %g %s via %s", withdrawal.Amount, withdrawal.Currency, withdrawal.Method))

	return withdrawal, nil
}

// GetRecentTransactions returns the user's most recent funding requests.
func (s *transactionService) GetRecentTransactions(userID string, limit int) ([]models.TransactionSummary, error) {
	var transactions []models.Transaction
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summaries := make([]models.TransactionSummary, 0, len(transactions))
	for i := range transactions {
		summaries = append(summaries, transactions[i].Summary())
	}
	return summaries, nil
}

// GetUserStats aggregates the user's funding history grouped by direction.
func (s *transactionService) GetUserStats(userID string) (*TransactionStats, error) {
	type row struct {
		Type           models.TransactionType
		TotalAmount    float64
		TotalCount     int64
		PendingAmount  float64
		ApprovedAmount float64
		RejectedAmount float64
	}

	var rows []row
	err := s.db.Model(&models.Transaction{}).
		Select(`type,
			COALESCE(SUM(amount), 0) AS total_amount,
			COUNT(*) AS total_count,
			COALESCE(SUM(CASE WHEN status = 'pending' THEN amount ELSE 0 END), 0) AS pending_amount,
			COALESCE(SUM(CASE WHEN status = 'approved' THEN amount ELSE 0 END), 0) AS approved_amount,
			COALESCE(SUM(CASE WHEN status = 'rejected' THEN amount ELSE 0 END), 0) AS rejected_amount`).
		Where("user_id = ?", userID).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	stats := &TransactionStats{}
	for _, r := range rows {
		side := TransactionTypeStats{
			TotalAmount:    r.TotalAmount,
			TotalCount:     r.TotalCount,
			PendingAmount:  r.PendingAmount,
			ApprovedAmount: r.ApprovedAmount,
			RejectedAmount: r.RejectedAmount,
		}
		switch r.Type {
		case models.TransactionTypeDeposit:
			stats.Deposits = side
		case models.TransactionTypeWithdrawal:
			stats.Withdrawals = side
		}
	}
	return stats, nil
}

// getTransactionByID retrieves a transaction row without an ownership
// filter; admin use.
func getTransactionByID(db *gorm.DB, transactionID string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := db.Where("id = ?", transactionID).First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &tx, nil
}
