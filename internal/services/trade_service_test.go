package services

import (
	"testing"
	"time"

	"quantumpartners/internal/models"
	"quantumpartners/internal/pagination"
	"quantumpartners/internal/testutil"
)

func TestInitiateTrade(t *testing.T) {
	t.Run("debits_balance_and_creates_pending_trade", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		users := NewUserService(db)
		notifications := NewNotificationService(db)
		svc := NewTradeService(db, users, notifications, nil)
		user := testutil.CreateTestUserWithBalance(t, db, "100.00")

		trade, err := svc.InitiateTrade(user.ID, InitiateTradeRequest{
			Type:           models.PlanTypeStarter,
			Amount:         50,
			Duration:       "30 days",
			MaturityAmount: 55,
			MaturityDate:   time.Now().Add(30 * 24 * time.Hour),
			Profit:         5,
			Invoice:        "INV-1001",
		})
		testutil.AssertNoError(t, err)

		if trade.Status != models.TradeStatusPending {
			t.Errorf("expected pending trade, got %s", trade.Status)
		}
		if trade.Amount != 50 {
			t.Errorf("expected amount 50, got %f", trade.Amount)
		}
		if trade.TotalValue != 55 {
			t.Errorf("expected totalValue 55, got %f", trade.TotalValue)
		}

		var fresh models.User
		db.First(&fresh, "id = ?", user.ID)
		if fresh.Balance != "50.00" {
			t.Errorf("expected balance 50.00 after debit, got %s", fresh.Balance)
		}

		var notification models.Notification
		db.Where("user_id = ?", user.ID).First(&notification)
		if notification.Type != models.NotificationTypeTrade {
			t.Errorf("expected trade notification, got %s", notification.Type)
		}
	})

	t.Run("insufficient_balance_writes_nothing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		users := NewUserService(db)
		notifications := NewNotificationService(db)
		svc := NewTradeService(db, users, notifications, nil)
		user := testutil.CreateTestUserWithBalance(t, db, "30.00")

		_, err := svc.InitiateTrade(user.ID, InitiateTradeRequest{
			Type:    models.PlanTypeStarter,
			Amount:  50,
			Invoice: "INV-1002",
		})
		testutil.AssertAppError(t, err, "INSUFFICIENT_BALANCE")

		var fresh models.User
		db.First(&fresh, "id = ?", user.ID)
		if fresh.Balance != "30.00" {
			t.Errorf("balance should be untouched, got %s", fresh.Balance)
		}

		var tradeCount, notificationCount int64
		db.Model(&models.Trade{}).Where("user_id = ?", user.ID).Count(&tradeCount)
		db.Model(&models.Notification{}).Where("user_id = ?", user.ID).Count(&notificationCount)
		if tradeCount != 0 {
			t.Errorf("expected no trades, got %d", tradeCount)
		}
		if notificationCount != 0 {
			t.Errorf("expected no notifications, got %d", notificationCount)
		}
	})

	t.Run("exact_balance_is_sufficient", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		users := NewUserService(db)
		notifications := NewNotificationService(db)
		svc := NewTradeService(db, users, notifications, nil)
		user := testutil.CreateTestUserWithBalance(t, db, "50.00")

		_, err := svc.InitiateTrade(user.ID, InitiateTradeRequest{
			Type:    models.PlanTypePro,
			Amount:  50,
			Invoice: "INV-1003",
		})
		testutil.AssertNoError(t, err)

		var fresh models.User
		db.First(&fresh, "id = ?", user.ID)
		if fresh.Balance != "0.00" {
			t.Errorf("expected balance 0.00, got %s", fresh.Balance)
		}
	})

	t.Run("malformed_balance_reads_as_zero", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		users := NewUserService(db)
		notifications := NewNotificationService(db)
		svc := NewTradeService(db, users, notifications, nil)
		user := testutil.CreateTestUserWithBalance(t, db, "not-a-number")

		_, err := svc.InitiateTrade(user.ID, InitiateTradeRequest{
			Type:    models.PlanTypeStarter,
			Amount:  10,
			Invoice: "INV-1004",
		})
		testutil.AssertAppError(t, err, "INSUFFICIENT_BALANCE")
	})

	t.Run("non_positive_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		users := NewUserService(db)
		notifications := NewNotificationService(db)
		svc := NewTradeService(db, users, notifications, nil)
		user := testutil.CreateTestUserWithBalance(t, db, "100.00")

		_, err := svc.InitiateTrade(user.ID, InitiateTradeRequest{Amount: 0})
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.InitiateTrade(user.ID, InitiateTradeRequest{Amount: -5})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("unknown_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		users := NewUserService(db)
		notifications := NewNotificationService(db)
		svc := NewTradeService(db, users, notifications, nil)

		_, err := svc.InitiateTrade("01890000-0000-7000-8000-000000000000", InitiateTradeRequest{Amount: 10})
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestGetUserTrades(t *testing.T) {
	t.Run("paginates_newest_first", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		users := NewUserService(db)
		notifications := NewNotificationService(db)
		svc := NewTradeService(db, users, notifications, nil)
		user := testutil.CreateTestUser(t, db)

		for i := 0; i < 5; i++ {
			testutil.CreateTestTrade(t, db, user.ID, float64(10*(i+1)))
		}

		page, err := svc.GetUserTrades(user.ID, pagination.PageRequest{Page: 1, PageSize: 3}, TradeFilter{})
		testutil.AssertNoError(t, err)

		if page.TotalItems != 5 {
			t.Errorf("expected 5 total items, got %d", page.TotalItems)
		}
		if page.TotalPages != 2 {
			t.Errorf("expected 2 total pages, got %d", page.TotalPages)
		}
		if len(page.Data) != 3 {
			t.Errorf("expected 3 trades on first page, got %d", len(page.Data))
		}
	})

	t.Run("filters_by_status_and_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		users := NewUserService(db)
		notifications := NewNotificationService(db)
		svc := NewTradeService(db, users, notifications, nil)
		user := testutil.CreateTestUser(t, db)

		trade := testutil.CreateTestTrade(t, db, user.ID, 100)
		testutil.CreateTestTrade(t, db, user.ID, 200)
		db.Model(trade).Update("status", models.TradeStatusCompleted)

		completed := models.TradeStatusCompleted
		page, err := svc.GetUserTrades(user.ID, pagination.PageRequest{}, TradeFilter{Status: &completed})
		testutil.AssertNoError(t, err)
		if len(page.Data) != 1 {
			t.Fatalf("expected 1 completed trade, got %d", len(page.Data))
		}
		if page.Data[0].Status != models.TradeStatusCompleted {
			t.Errorf("expected completed status, got %s", page.Data[0].Status)
		}

		elite := models.PlanTypeElite
		page, err = svc.GetUserTrades(user.ID, pagination.PageRequest{}, TradeFilter{Type: &elite})
		testutil.AssertNoError(t, err)
		if len(page.Data) != 0 {
			t.Errorf("expected no Elite trades, got %d", len(page.Data))
		}
	})

	t.Run("does_not_leak_other_users", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		users := NewUserService(db)
		notifications := NewNotificationService(db)
		svc := NewTradeService(db, users, notifications, nil)
		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		testutil.CreateTestTrade(t, db, other.ID, 100)

		page, err := svc.GetUserTrades(owner.ID, pagination.PageRequest{}, TradeFilter{})
		testutil.AssertNoError(t, err)
		if len(page.Data) != 0 {
			t.Errorf("expected no trades for owner, got %d", len(page.Data))
		}
	})
}

func TestGetTradeStats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	users := NewUserService(db)
	notifications := NewNotificationService(db)
	svc := NewTradeService(db, users, notifications, nil)
	user := testutil.CreateTestUser(t, db)

	testutil.CreateTestTrade(t, db, user.ID, 100)
	completed := testutil.CreateTestTrade(t, db, user.ID, 200)
	db.Model(completed).Update("status", models.TradeStatusCompleted)

	stats, err := svc.GetUserStats(user.ID)
	testutil.AssertNoError(t, err)

	if stats.TotalTrades != 2 {
		t.Errorf("expected 2 trades, got %d", stats.TotalTrades)
	}
	if stats.CompletedTrades != 1 {
		t.Errorf("expected 1 completed trade, got %d", stats.CompletedTrades)
	}
	if stats.PendingTrades != 1 {
		t.Errorf("expected 1 pending trade, got %d", stats.PendingTrades)
	}
}
