package models

import (
	"time"

	"gorm.io/gorm"
)

// PlanType is the fixed investment plan a trade belongs to.
type PlanType string

const (
	PlanTypeStarter PlanType = "Starter"
	PlanTypePro     PlanType = "Pro"
	PlanTypeElite   PlanType = "Elite"
)

// TradeStatus represents the lifecycle state of a trade.
type TradeStatus string

const (
	TradeStatusPending   TradeStatus = "pending"
	TradeStatusCompleted TradeStatus = "completed"
	TradeStatusCancelled TradeStatus = "cancelled"
	TradeStatusFailed    TradeStatus = "failed"
)

// Trade is a fixed-plan investment record. Maturity amount, maturity date
// and profit are client-supplied at initiation and never recomputed
// server-side, so maturity_amount == amount + profit is not enforced.
type Trade struct {
	Base
	UserID         string      `gorm:"type:uuid;not null;index:idx_trades_user_created" json:"user_id"`
	Type           PlanType    `gorm:"not null" json:"type"`
	Amount         float64     `gorm:"not null" json:"amount"`
	Duration       string      `gorm:"not null" json:"duration"`
	MaturityAmount float64     `gorm:"not null" json:"maturity_amount"`
	MaturityDate   time.Time   `gorm:"not null" json:"maturity_date"`
	Profit         float64     `gorm:"not null" json:"profit"`
	Date           time.Time   `gorm:"not null" json:"date"`
	Invoice        string      `gorm:"not null" json:"invoice"`
	Notes          string      `gorm:"size:500" json:"notes"`
	Status         TradeStatus `gorm:"not null;default:'pending';index" json:"status"`
	TotalValue     float64     `gorm:"not null;default:0" json:"totalValue"`
	Fees           float64     `gorm:"not null;default:0" json:"fees"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// BeforeSave keeps totalValue in lockstep with the maturity amount.
func (t *Trade) BeforeSave(tx *gorm.DB) error {
	t.TotalValue = t.MaturityAmount
	return nil
}

// TradeSummary is the wire projection of a trade.
type TradeSummary struct {
	ID             string      `json:"id"`
	Type           PlanType    `json:"type"`
	Amount         float64     `json:"amount"`
	Duration       string      `json:"duration"`
	MaturityAmount float64     `json:"maturity_amount"`
	MaturityDate   time.Time   `json:"maturity_date"`
	Profit         float64     `json:"profit"`
	Date           time.Time   `json:"date"`
	Invoice        string      `json:"invoice"`
	Notes          string      `json:"notes"`
	TotalValue     float64     `json:"totalValue"`
	Fees           float64     `json:"fees"`
	Status         TradeStatus `json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
}

// Summary returns the wire projection of the trade.
func (t *Trade) Summary() TradeSummary {
	return TradeSummary{
		ID:             t.ID,
		Type:           t.Type,
		Amount:         t.Amount,
		Duration:       t.Duration,
		MaturityAmount: t.MaturityAmount,
		MaturityDate:   t.MaturityDate,
		Profit:         t.Profit,
		Date:           t.Date,
		Invoice:        t.Invoice,
		Notes:          t.Notes,
		TotalValue:     t.TotalValue,
		Fees:           t.Fees,
		Status:         t.Status,
		CreatedAt:      t.CreatedAt,
	}
}
