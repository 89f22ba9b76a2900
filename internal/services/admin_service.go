package services

import (
	"time"

	"gorm.io/gorm"

	apperrors "quantumpartners/internal/errors"
	"quantumpartners/internal/logger"
	"quantumpartners/internal/mailer"
	"quantumpartners/internal/metrics"
	"quantumpartners/internal/models"
)

// adminService implements the override tooling used by the admin dashboard.
// Everything here mutates ledger and lifecycle state directly: absolute
// value sets, status moves without transition guards, manual cascades.
type adminService struct {
	db            *gorm.DB
	users         UserServicer
	notifications NotificationServicer
	mail          mailer.Mailer
	metrics       *metrics.Metrics
}

// NewAdminService creates a new AdminServicer.
func NewAdminService(db *gorm.DB, users UserServicer, notifications NotificationServicer, mail mailer.Mailer, m *metrics.Metrics) AdminServicer {
	return &adminService{db: db, users: users, notifications: notifications, mail: mail, metrics: m}
}

// UpdateUserLedger sets balance and/or profit to the supplied absolute
// decimal strings. These are not deltas; whatever the admin types replaces
// the stored value.
func (s *adminService) UpdateUserLedger(userID string, balance, profit *string) (*models.User, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if balance != nil {
		updates["balance"] = *balance
		user.Balance = *balance
	}
	if profit != nil {
		updates["profit"] = *profit
		user.Profit = *profit
	}

	if len(updates) > 0 {
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		s.metrics.CountLedgerWrite("admin_override")
	}

	return user, nil
}

// UpdateTransactionStatus sets a funding request to any status in the enum,
// regardless of its current state, and stamps who processed it. Approving a
// deposit does NOT credit the user's balance; crediting is a separate manual
// step via UpdateUserLedger.
func (s *adminService) UpdateTransactionStatus(transactionID string, status models.TransactionStatus, processedBy string) (*models.Transaction, error) {
	tx, err := getTransactionByID(s.db, transactionID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	tx.Status = status
	tx.ProcessedAt = &now
	tx.ProcessedBy = &processedBy
	if err := s.db.Model(tx).Select("status", "processed_at", "processed_by").Updates(tx).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return tx, nil
}

// UpdateTradeStatus sets a trade to any status in the enum regardless of its
// current state. There is no transition guard; completed trades can be moved
// back to pending.
func (s *adminService) UpdateTradeStatus(tradeID string, status models.TradeStatus) (*models.Trade, error) {
	trade, err := getTradeByID(s.db, tradeID)
	if err != nil {
		return nil, err
	}

	trade.Status = status
	if err := s.db.Model(trade).Update("status", status).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return trade, nil
}

// NotifyUser appends a feed entry and optionally emails the user. The two
// side effects are independent: a delivery failure is logged and swallowed,
// and never rolls back the append.
func (s *adminService) NotifyUser(userID, title, text, emailSubject, emailBody string) error {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return err
	}

	notificationType := models.NotificationTypeAdmin
	switch models.NotificationType(title) {
	case models.NotificationTypeDeposit, models.NotificationTypeWithdrawal,
		models.NotificationTypeLogin, models.NotificationTypePasswordChange,
		models.NotificationTypeTrade, models.NotificationTypeActivation,
		models.NotificationTypeGeneral, models.NotificationTypeAdmin:
		notificationType = models.NotificationType(title)
	}
	s.notifications.Append(userID, notificationType, text)

	if user.Email != "" && emailSubject != "" && emailBody != "" {
		if err := s.mail.SendAdminNotification(user.Email, user.Username, emailSubject, emailBody); err != nil {
			logger.Get().Errorw("admin notification email failed",
				"error", err,
				"user_id", userID,
			)
		}
	}

	return nil
}

// ListUsers returns every user in admin projection, notifications included.
func (s *adminService) ListUsers() ([]models.AdminProfile, error) {
	var users []models.User
	if err := s.db.Preload("Notifications").Find(&users).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	profiles := make([]models.AdminProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].AdminProfile())
	}
	return profiles, nil
}

// ListTrades returns all trades, newest first, with owner identity preloaded.
func (s *adminService) ListTrades() ([]models.Trade, error) {
	var trades []models.Trade
	if err := s.db.Preload("User", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "username", "email")
	}).Order("created_at DESC").Find(&trades).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return trades, nil
}

// ListTransactions returns all funding requests, newest first, with owner
// identity preloaded.
func (s *adminService) ListTransactions() ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := s.db.Preload("User", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "username", "email")
	}).Order("created_at DESC").Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

// DeleteUser removes a user and everything attached to them. The fan-out is
// three separate deletes in fixed order (trades, transactions, then the
// user); a failure partway leaves earlier deletes in place.
func (s *adminService) DeleteUser(userID string) error {
	if err := s.db.Where("user_id = ?", userID).Delete(&models.Trade{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Where("user_id = ?", userID).Delete(&models.Transaction{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Where("user_id = ?", userID).Delete(&models.Notification{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	res := s.db.Where("id = ?", userID).Delete(&models.User{})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// DeleteTrade removes a single trade.
func (s *adminService) DeleteTrade(tradeID string) error {
	res := s.db.Where("id = ?", tradeID).Delete(&models.Trade{})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrTradeNotFound
	}
	return nil
}

// DeleteTransaction removes a single funding request.
func (s *adminService) DeleteTransaction(transactionID string) error {
	res := s.db.Where("id = ?", transactionID).Delete(&models.Transaction{})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}
