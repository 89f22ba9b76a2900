package testutil_test

import (
	"strings"
	"testing"

	"quantumpartners/internal/errors"
	"quantumpartners/internal/models"
	"quantumpartners/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"users", "notifications", "trades", "transactions"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUserWithBalance(t, db, "500.00")
	if user.ID == "" {
		t.Fatal("user should have an ID")
	}
	if user.Balance != "500.00" {
		t.Errorf("expected balance 500.00, got %s", user.Balance)
	}
	if !user.IsActivated {
		t.Error("fixture user should be activated")
	}

	admin := testutil.CreateTestAdmin(t, db)
	if !admin.IsAdmin {
		t.Error("fixture admin should have is_admin set")
	}

	trade := testutil.CreateTestTrade(t, db, user.ID, 100)
	if trade.Status != models.TradeStatusPending {
		t.Errorf("expected pending trade, got %s", trade.Status)
	}
	if trade.TotalValue != trade.MaturityAmount {
		t.Errorf("expected totalValue %f to track maturity amount %f", trade.TotalValue, trade.MaturityAmount)
	}

	txn := testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeDeposit, 250)
	if !strings.HasPrefix(txn.TransactionID, "TXN") {
		t.Errorf("expected generated transaction ID with TXN prefix, got %q", txn.TransactionID)
	}

	notification := testutil.CreateTestNotification(t, db, user.ID, models.NotificationTypeGeneral, "hello")
	if notification.Read {
		t.Error("new notification should be unread")
	}
}

func TestAssertAppError(t *testing.T) {
	testutil.AssertAppError(t, errors.ErrUserNotFound, "USER_NOT_FOUND")
	testutil.AssertAppError(t, errors.Wrap(errors.ErrInsufficientBalance, errors.ErrInvalidInput), "INSUFFICIENT_BALANCE")
}
