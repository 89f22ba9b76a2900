package models

import (
	"crypto/rand"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// TransactionType represents the direction of a funding request.
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
)

// TransactionStatus represents the lifecycle state of a funding request.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusApproved  TransactionStatus = "approved"
	TransactionStatusRejected  TransactionStatus = "rejected"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// Transaction is a deposit or withdrawal request. Requests are created
// pending and only ever transitioned by an admin; nothing reconciles them
// against an external payment rail.
type Transaction struct {
	Base
	UserID        string            `gorm:"type:uuid;not null;index:idx_transactions_user_created" json:"user_id"`
	Type          TransactionType   `gorm:"not null;index" json:"type"`
	Amount        float64           `gorm:"not null" json:"amount"`
	Status        TransactionStatus `gorm:"not null;default:'pending';index" json:"status"`
	Method        string            `gorm:"not null" json:"method"`
	Currency      string            `gorm:"not null;default:'USD'" json:"currency"`
	TransactionID string            `gorm:"uniqueIndex" json:"transaction_id"`
	WalletAddress string            `json:"wallet_address"`
	Reference     string            `json:"reference"`
	Notes         string            `gorm:"size:500" json:"notes"`
	ProcessedAt   *time.Time        `json:"processed_at,omitempty"`
	ProcessedBy   *string           `gorm:"type:uuid" json:"processed_by,omitempty"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

const externalIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// BeforeCreate assigns the record ID and a generated external transaction ID
// of the form TXN<unix-millis><6 random uppercase characters>. The timestamp
// prefix makes collisions unlikely but the scheme is not race-proof; the
// unique index is the actual guard.
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if err := t.Base.BeforeCreate(tx); err != nil {
		return err
	}
	if t.TransactionID == "" {
		suffix := make([]byte, 6)
		if _, err := rand.Read(suffix); err != nil {
			return err
		}
		for i := range suffix {
			suffix[i] = externalIDAlphabet[int(suffix[i])%len(externalIDAlphabet)]
		}
		t.TransactionID = fmt.Sprintf("TXN%d%s", time.Now().UnixMilli(), suffix)
	}
	return nil
}

// TransactionSummary is the wire projection of a funding request.
type TransactionSummary struct {
	ID            string            `json:"id"`
	Type          TransactionType   `json:"type"`
	Amount        float64           `json:"amount"`
	Currency      string            `json:"currency"`
	Status        TransactionStatus `json:"status"`
	Method        string            `json:"method"`
	TransactionID string            `json:"transaction_id"`
	CreatedAt     time.Time         `json:"created_at"`
}

// Summary returns the wire projection of the transaction.
func (t *Transaction) Summary() TransactionSummary {
	return TransactionSummary{
		ID:            t.ID,
		Type:          t.Type,
		Amount:        t.Amount,
		Currency:      t.Currency,
		Status:        t.Status,
		Method:        t.Method,
		TransactionID: t.TransactionID,
		CreatedAt:     t.CreatedAt,
	}
}
