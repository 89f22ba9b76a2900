package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	apperrors "quantumpartners/internal/errors"
	"quantumpartners/internal/logger"
	"quantumpartners/internal/metrics"
	"quantumpartners/internal/models"
	"quantumpartners/internal/money"
)

// MaturitySweeper advances pending trades whose maturity date has passed.
// Historically matured trades sat pending until an admin moved them; the
// sweep is opt-in and stays off unless explicitly enabled so deployments
// that rely on the manual flow keep it.
type MaturitySweeper struct {
	db            *gorm.DB
	users         UserServicer
	notifications NotificationServicer
	metrics       *metrics.Metrics
	cron          *cron.Cron
}

// NewMaturitySweeper creates a sweeper. Call Start to schedule it.
func NewMaturitySweeper(db *gorm.DB, users UserServicer, notifications NotificationServicer, m *metrics.Metrics) *MaturitySweeper {
	return &MaturitySweeper{
		db:            db,
		users:         users,
		notifications: notifications,
		metrics:       m,
		cron:          cron.New(),
	}
}

// Start schedules the sweep with the given cron spec (e.g. "@every 5m").
func (s *MaturitySweeper) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, func() {
		if err := s.Sweep(time.Now()); err != nil {
			logger.Get().Errorw("maturity sweep failed", "error", err)
		}
	}); err != nil {
		return err
	}
	s.cron.Start()
	logger.Get().Infow("maturity sweep scheduled", "spec", spec)
	return nil
}

// Stop stops the scheduler.
func (s *MaturitySweeper) Stop() {
	s.cron.Stop()
}

// Sweep completes every pending trade matured at or before now, credits the
// trade's profit to the owner's profit field, and appends a feed entry.
// Each trade is handled independently; one failure does not stop the rest.
func (s *MaturitySweeper) Sweep(now time.Time) error {
	var matured []models.Trade
	if err := s.db.Where("status = ? AND maturity_date <= ?", models.TradeStatusPending, now).
		Find(&matured).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for i := range matured {
		trade := &matured[i]
		if err := s.completeTrade(trade); err != nil {
			logger.Get().Errorw("failed to complete matured trade",
				"error", err,
				"trade_id", trade.ID,
				"user_id", trade.UserID,
			)
		}
	}

	if len(matured) > 0 {
		logger.Get().Infow("maturity sweep finished", "matured", len(matured))
	}
	return nil
}

func (s *MaturitySweeper) completeTrade(trade *models.Trade) error {
	user, err := s.users.GetUserByID(trade.UserID)
	if err != nil {
		return err
	}

	trade.Status = models.TradeStatusCompleted
	if err := s.db.Model(trade).Update("status", trade.Status).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user.Profit = money.Add(user.Profit, trade.Profit, money.ScaleBalance)
	if err := s.db.Model(user).Update("profit", user.Profit).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	s.metrics.CountLedgerWrite("maturity_credit")

	s.notifications.Append(trade.UserID, models.NotificationTypeTrade,
		fmt.Sprintf("%s trade %s matured: %g profit credited.", trade.Type, trade.Invoice, trade.Profit))

	return nil
}
