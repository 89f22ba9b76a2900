package models

import "time"

// NotificationType classifies entries in a user's activity feed.
type NotificationType string

const (
	NotificationTypeDeposit        NotificationType = "deposit"
	NotificationTypeWithdrawal     NotificationType = "withdrawal"
	NotificationTypeLogin          NotificationType = "login"
	NotificationTypePasswordChange NotificationType = "password-change"
	NotificationTypeTrade          NotificationType = "trade"
	NotificationTypeActivation     NotificationType = "activation"
	NotificationTypeGeneral        NotificationType = "general"
	NotificationTypeAdmin          NotificationType = "admin"
)

// Notification is a single entry in a user's activity feed. The feed is
// append-only and unbounded; pagination happens in memory at read time.
type Notification struct {
	Base
	UserID  string           `gorm:"type:uuid;not null;index" json:"user_id"`
	Type    NotificationType `gorm:"not null" json:"type"`
	Message string           `gorm:"not null" json:"message"`
	Date    time.Time        `gorm:"not null" json:"date"`
	Read    bool             `gorm:"default:false" json:"read"`
}
