package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "quantumpartners/internal/errors"
	"quantumpartners/internal/metrics"
	"quantumpartners/internal/models"
	"quantumpartners/internal/money"
	"quantumpartners/internal/pagination"
)

// tradeService handles the trade side of the ledger.
type tradeService struct {
	db            *gorm.DB
	users         UserServicer
	notifications NotificationServicer
	metrics       *metrics.Metrics
}

// NewTradeService creates a new TradeServicer.
func NewTradeService(db *gorm.DB, users UserServicer, notifications NotificationServicer, m *metrics.Metrics) TradeServicer {
	return &tradeService{db: db, users: users, notifications: notifications, metrics: m}
}

// InitiateTrade debits the user's balance and records a pending trade.
//
// The balance write and the trade insert are two separate store operations
// with nothing spanning them; a crash in between leaves the balance debited
// with no trade row. Concurrent requests against the same account race on
// the balance read. Both are long-standing platform behavior and the admin
// tooling is the compensation path.
func (s *tradeService) InitiateTrade(userID string, req InitiateTradeRequest) (*models.Trade, error) {
	if req.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if !money.Covers(user.Balance, req.Amount) {
		return nil, apperrors.ErrInsufficientBalance
	}

	user.Balance = money.Sub(user.Balance, req.Amount, money.ScaleBalance)
	if err := s.db.Model(user).Update("balance", user.Balance).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	s.metrics.CountLedgerWrite("trade_debit")

	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}

	trade := &models.Trade{
		UserID:         userID,
		Type:           req.Type,
		Amount:         req.Amount,
		Fees:           req.Fee,
		Duration:       req.Duration,
		MaturityAmount: req.MaturityAmount,
		MaturityDate:   req.MaturityDate,
		Profit:         req.Profit,
		Date:           date,
		Invoice:        req.Invoice,
		Notes:          req.Notes,
		Status:         models.TradeStatusPending,
	}

	if err := s.db.Create(trade).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.notifications.Append(userID, models.NotificationTypeTrade,
		fmt.Sprintf("New %s trade initiated for %g with invoice %s.", trade.Type, trade.Amount, trade.Invoice))

	return trade, nil
}

// GetUserTrades retrieves a paginated, filtered list of the user's trades,
// newest first.
func (s *tradeService) GetUserTrades(userID string, page pagination.PageRequest, filter TradeFilter) (*pagination.PageResponse[models.TradeSummary], error) {
	page.Defaults()

	base := s.db.Model(&models.Trade{}).Where("user_id = ?", userID)
	if filter.Status != nil {
		base = base.Where("status = ?", *filter.Status)
	}
	if filter.Type != nil {
		base = base.Where("type = ?", *filter.Type)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var trades []models.Trade
	if err := base.Scopes(pagination.Paginate(page)).
		Order("created_at DESC").
		Find(&trades).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summaries := make([]models.TradeSummary, 0, len(trades))
	for i := range trades {
		summaries = append(summaries, trades[i].Summary())
	}

	result := pagination.NewPageResponse(summaries, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetRecentTrades returns the user's most recent trades.
func (s *tradeService) GetRecentTrades(userID string, limit int) ([]models.TradeSummary, error) {
	var trades []models.Trade
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&trades).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summaries := make([]models.TradeSummary, 0, len(trades))
	for i := range trades {
		summaries = append(summaries, trades[i].Summary())
	}
	return summaries, nil
}

// GetUserStats aggregates the user's trading history.
func (s *tradeService) GetUserStats(userID string) (*TradeStats, error) {
	var stats TradeStats
	err := s.db.Model(&models.Trade{}).
		Select(`COUNT(*) AS total_trades,
			COALESCE(SUM(total_value), 0) AS total_volume,
			COALESCE(SUM(fees), 0) AS total_fees,
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0) AS completed_trades,
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0) AS pending_trades`).
		Where("user_id = ?", userID).
		Scan(&stats).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &stats, nil
}

// getTradeByID retrieves a trade row without an ownership filter; admin use.
func getTradeByID(db *gorm.DB, tradeID string) (*models.Trade, error) {
	var trade models.Trade
	if err := db.Where("id = ?", tradeID).First(&trade).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTradeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &trade, nil
}
