package models

import "time"

// User represents a platform account. Balance and profit are stored as
// decimal strings and mutated by direct assignment; there is no journal
// behind them beyond the notification feed.
type User struct {
	Base
	Username    string `gorm:"uniqueIndex;not null" json:"username"`
	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	Phone       string `gorm:"not null" json:"phone"`
	Nationality string `gorm:"not null" json:"nationality"`
	Fullname    string `gorm:"not null" json:"fullname"`
	Password    string `gorm:"not null" json:"-"`

	Balance string `gorm:"not null;default:'0'" json:"balance"`
	Profit  string `gorm:"not null;default:'0'" json:"profit"`

	IsActivated bool `gorm:"default:false" json:"is_activated"`
	IsAdmin     bool `gorm:"default:false" json:"is_admin"`

	ActivationKey      *string    `gorm:"size:16" json:"-"`
	ResetPasswordToken *string    `gorm:"size:64;index" json:"-"`
	ResetTokenExpiry   *time.Time `json:"-"`

	Notifications []Notification `gorm:"foreignKey:UserID" json:"notifications,omitempty"`
	Trades        []Trade        `gorm:"foreignKey:UserID" json:"trades,omitempty"`
	Transactions  []Transaction  `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
}

// Profile is the public projection of a user, safe to return to the owner.
type Profile struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Nationality string    `json:"nationality"`
	Fullname    string    `json:"fullname"`
	IsActivated bool      `json:"is_activated"`
	Balance     string    `json:"balance"`
	Profit      string    `json:"profit"`
	IsAdmin     bool      `json:"is_admin"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Profile returns the public projection of the user.
func (u *User) Profile() Profile {
	return Profile{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Phone:       u.Phone,
		Nationality: u.Nationality,
		Fullname:    u.Fullname,
		IsActivated: u.IsActivated,
		Balance:     u.Balance,
		Profit:      u.Profit,
		IsAdmin:     u.IsAdmin,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// AdminProfile is the projection returned to the admin dashboard. It exposes
// credential state so support staff can resend keys and tokens.
type AdminProfile struct {
	Profile
	PasswordHash       string         `json:"password"`
	ActivationKey      *string        `json:"activation_key"`
	ResetPasswordToken *string        `json:"reset_password_token"`
	ResetTokenExpiry   *time.Time     `json:"reset_token_expiry"`
	Notifications      []Notification `json:"notifications"`
}

// AdminProfile returns the admin projection of the user.
func (u *User) AdminProfile() AdminProfile {
	return AdminProfile{
		Profile:            u.Profile(),
		PasswordHash:       u.Password,
		ActivationKey:      u.ActivationKey,
		ResetPasswordToken: u.ResetPasswordToken,
		ResetTokenExpiry:   u.ResetTokenExpiry,
		Notifications:      u.Notifications,
	}
}
