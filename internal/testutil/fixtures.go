package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"quantumpartners/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates an activated user with a zero balance, a hashed
// password and a unique email and username.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithBalance(t, db, "0")
}

// CreateTestUserWithBalance creates an activated user with the given
// balance string.
func CreateTestUserWithBalance(t *testing.T, db *gorm.DB, balance string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	n := nextID()
	user := &models.User{
		Username:    fmt.Sprintf("user%d", n),
		Email:       fmt.Sprintf("user%d@test.com", n),
		Phone:       "+15550000000",
		Nationality: "Testland",
		Fullname:    fmt.Sprintf("Test User %d", n),
		Password:    string(hash),
		Balance:     balance,
		Profit:      "0",
		IsActivated: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAdmin creates an activated admin user.
func CreateTestAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	admin := CreateTestUser(t, db)
	if err := db.Model(admin).Update("is_admin", true).Error; err != nil {
		t.Fatalf("failed to promote test admin: %v", err)
	}
	admin.IsAdmin = true
	return admin
}

// CreateUnactivatedUser creates a user that has registered but not yet
// activated, with the given activation key.
func CreateUnactivatedUser(t *testing.T, db *gorm.DB, activationKey string) *models.User {
	t.Helper()

	user := CreateTestUser(t, db)
	updates := map[string]interface{}{
		"is_activated":   false,
		"activation_key": activationKey,
	}
	if err := db.Model(user).Updates(updates).Error; err != nil {
		t.Fatalf("failed to deactivate test user: %v", err)
	}
	user.IsActivated = false
	user.ActivationKey = &activationKey
	return user
}

// CreateTestTrade creates a pending trade for the given user.
func CreateTestTrade(t *testing.T, db *gorm.DB, userID string, amount float64) *models.Trade {
	t.Helper()

	n := nextID()
	trade := &models.Trade{
		UserID:         userID,
		Type:           models.PlanTypeStarter,
		Amount:         amount,
		Duration:       "30 days",
		MaturityAmount: amount * 1.1,
		MaturityDate:   time.Now().Add(30 * 24 * time.Hour),
		Profit:         amount * 0.1,
		Date:           time.Now(),
		Invoice:        fmt.Sprintf("INV-%d", n),
		Status:         models.TradeStatusPending,
	}
	if err := db.Create(trade).Error; err != nil {
		t.Fatalf("failed to create test trade: %v", err)
	}
	return trade
}

// CreateMaturedTrade creates a pending trade whose maturity date is already
// in the past.
func CreateMaturedTrade(t *testing.T, db *gorm.DB, userID string, amount, profit float64) *models.Trade {
	t.Helper()

	n := nextID()
	trade := &models.Trade{
		UserID:         userID,
		Type:           models.PlanTypePro,
		Amount:         amount,
		Duration:       "7 days",
		MaturityAmount: amount + profit,
		MaturityDate:   time.Now().Add(-time.Hour),
		Profit:         profit,
		Date:           time.Now().Add(-8 * 24 * time.Hour),
		Invoice:        fmt.Sprintf("INV-%d", n),
		Status:         models.TradeStatusPending,
	}
	if err := db.Create(trade).Error; err != nil {
		t.Fatalf("failed to create matured test trade: %v", err)
	}
	return trade
}

// CreateTestTransaction creates a pending funding request of the given type.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID string, txType models.TransactionType, amount float64) *models.Transaction {
	t.Helper()

	txn := &models.Transaction{
		UserID:   userID,
		Type:     txType,
		Amount:   amount,
		Status:   models.TransactionStatusPending,
		Method:   "bitcoin",
		Currency: "USD",
	}
	if err := db.Create(txn).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return txn
}

// CreateTestNotification creates a notification in the user's feed.
func CreateTestNotification(t *testing.T, db *gorm.DB, userID string, nType models.NotificationType, message string) *models.Notification {
	t.Helper()

	notification := &models.Notification{
		UserID:  userID,
		Type:    nType,
		Message: message,
		Date:    time.Now(),
	}
	if err := db.Create(notification).Error; err != nil {
		t.Fatalf("failed to create test notification: %v", err)
	}
	return notification
}
