package integration

import (
	"fmt"
	"net/http"
	"testing"

	"quantumpartners/internal/models"
)

func TestAdminFlow_RequiresAdminClaim(t *testing.T) {
	app := setupApp(t)
	_, token := app.setupFundedUser(t, "civilian", "0")

	rec := app.request("GET", "/api/admin/users", "", token)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAdminFlow_LedgerOverride(t *testing.T) {
	app := setupApp(t)
	_, adminToken := app.setupAdmin(t, "boss")
	userID, _ := app.setupFundedUser(t, "client", "100.00")

	body := fmt.Sprintf(`{"user_id":%q,"balance":"5000.00","profit":"250.00"}`, userID)
	rec := app.request("POST", "/api/admin/user/update", body, adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("user/update failed: %d %s", rec.Code, rec.Body.String())
	}
	user := data(t, rec)["user"].(map[string]interface{})
	if user["balance"] != "5000.00" {
		t.Errorf("expected balance 5000.00, got %v", user["balance"])
	}
	if user["profit"] != "250.00" {
		t.Errorf("expected profit 250.00, got %v", user["profit"])
	}

	var row models.User
	app.DB.First(&row, "id = ?", userID)
	if row.Balance != "5000.00" {
		t.Errorf("expected persisted balance, got %s", row.Balance)
	}
}

func TestAdminFlow_TransactionStatusMoves(t *testing.T) {
	app := setupApp(t)
	adminID, adminToken := app.setupAdmin(t, "approver")
	userID, userToken := app.setupFundedUser(t, "funder", "10.00")

	rec := app.request("POST", "/api/trading/deposit", `{"amount":500,"method":"bitcoin"}`, userToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("deposit failed: %d %s", rec.Code, rec.Body.String())
	}
	txnID := data(t, rec)["transaction"].(map[string]interface{})["id"].(string)

	// Approve.
	body := fmt.Sprintf(`{"transaction_id":%q,"status":"approved"}`, txnID)
	rec = app.request("POST", "/api/admin/transaction/update", body, adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("transaction/update failed: %d %s", rec.Code, rec.Body.String())
	}
	txn := data(t, rec)["transaction"].(map[string]interface{})
	if txn["status"] != "approved" {
		t.Errorf("expected approved, got %v", txn["status"])
	}

	// Approval does not credit the balance.
	var row models.User
	app.DB.First(&row, "id = ?", userID)
	if row.Balance != "10.00" {
		t.Errorf("approval must not credit balance, got %s", row.Balance)
	}

	// ProcessedBy is stamped with the admin.
	var txnRow models.Transaction
	app.DB.First(&txnRow, "id = ?", txnID)
	if txnRow.ProcessedBy == nil || *txnRow.ProcessedBy != adminID {
		t.Error("expected processedBy stamped with the admin ID")
	}

	// Backwards move is accepted.
	body = fmt.Sprintf(`{"transaction_id":%q,"status":"pending"}`, txnID)
	rec = app.request("POST", "/api/admin/transaction/update", body, adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("backwards move failed: %d %s", rec.Code, rec.Body.String())
	}
}

func TestAdminFlow_TradeStatusMoves(t *testing.T) {
	app := setupApp(t)
	_, adminToken := app.setupAdmin(t, "trademaster")
	userID, userToken := app.setupFundedUser(t, "tradeclient", "500.00")

	rec := app.request("POST", "/api/trading/inittrade",
		`{"type":"Elite","amount":200,"profit":20,"invoice":"INV-ADM"}`, userToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("inittrade failed: %d %s", rec.Code, rec.Body.String())
	}
	tradeID := data(t, rec)["trade"].(map[string]interface{})["id"].(string)

	body := fmt.Sprintf(`{"trade_id":%q,"status":"completed"}`, tradeID)
	rec = app.request("POST", "/api/admin/trade/update", body, adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("trade/update failed: %d %s", rec.Code, rec.Body.String())
	}

	// Completing the trade does not credit profit.
	var row models.User
	app.DB.First(&row, "id = ?", userID)
	if row.Profit != "0" {
		t.Errorf("profit should be untouched, got %s", row.Profit)
	}

	body = fmt.Sprintf(`{"trade_id":%q,"status":"pending"}`, tradeID)
	rec = app.request("POST", "/api/admin/trade/update", body, adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("backwards trade move failed: %d %s", rec.Code, rec.Body.String())
	}
}

func TestAdminFlow_NotifyAndListings(t *testing.T) {
	app := setupApp(t)
	_, adminToken := app.setupAdmin(t, "announcer")
	userID, userToken := app.setupFundedUser(t, "audience", "100.00")

	app.request("POST", "/api/trading/inittrade", `{"type":"Starter","amount":10,"invoice":"INV-L"}`, userToken)
	app.request("POST", "/api/trading/deposit", `{"amount":5,"method":"bank"}`, userToken)

	body := fmt.Sprintf(`{"user_id":%q,"title":"Maintenance window","text":"Scheduled downtime on Friday"}`, userID)
	rec := app.request("POST", "/api/admin/user/notify", body, adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("user/notify failed: %d %s", rec.Code, rec.Body.String())
	}
	var entry models.Notification
	app.DB.Where("user_id = ? AND message = ?", userID, "Scheduled downtime on Friday").First(&entry)
	if entry.Type != models.NotificationTypeAdmin {
		t.Errorf("expected admin fallback type, got %s", entry.Type)
	}

	rec = app.request("GET", "/api/admin/users", "", adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("users failed: %d %s", rec.Code, rec.Body.String())
	}
	users := data(t, rec)["users"].([]interface{})
	if len(users) != 2 {
		t.Errorf("expected 2 users, got %d", len(users))
	}
	// Admin projection includes credential state.
	first := users[0].(map[string]interface{})
	if _, ok := first["password"]; !ok {
		t.Error("admin projection should expose the password hash")
	}

	rec = app.request("GET", "/api/admin/trades", "", adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("trades failed: %d %s", rec.Code, rec.Body.String())
	}
	trades := data(t, rec)["trades"].([]interface{})
	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}
	owner := trades[0].(map[string]interface{})["user"].(map[string]interface{})
	if owner["username"] != "audience" {
		t.Errorf("expected owner preloaded, got %v", owner["username"])
	}

	rec = app.request("GET", "/api/admin/transactions", "", adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("transactions failed: %d %s", rec.Code, rec.Body.String())
	}
	transactions := data(t, rec)["transactions"].([]interface{})
	if len(transactions) != 1 {
		t.Errorf("expected 1 transaction, got %d", len(transactions))
	}
}

func TestAdminFlow_Deletes(t *testing.T) {
	app := setupApp(t)
	_, adminToken := app.setupAdmin(t, "reaper")
	userID, userToken := app.setupFundedUser(t, "target", "100.00")

	app.request("POST", "/api/trading/inittrade", `{"type":"Starter","amount":10,"invoice":"INV-D"}`, userToken)
	app.request("POST", "/api/trading/deposit", `{"amount":5,"method":"bank"}`, userToken)

	rec := app.request("DELETE", "/api/admin/user/"+userID, "", adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete user failed: %d %s", rec.Code, rec.Body.String())
	}

	var count int64
	app.DB.Model(&models.User{}).Where("id = ?", userID).Count(&count)
	if count != 0 {
		t.Error("user should be gone")
	}
	app.DB.Model(&models.Trade{}).Where("user_id = ?", userID).Count(&count)
	if count != 0 {
		t.Error("trades should be gone")
	}
	app.DB.Model(&models.Transaction{}).Where("user_id = ?", userID).Count(&count)
	if count != 0 {
		t.Error("transactions should be gone")
	}

	rec = app.request("DELETE", "/api/admin/user/"+userID, "", adminToken)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 deleting twice, got %d: %s", rec.Code, rec.Body.String())
	}

	// Malformed path ID is rejected before hitting the service.
	rec = app.request("DELETE", "/api/admin/trade/not-a-uuid", "", adminToken)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed ID, got %d: %s", rec.Code, rec.Body.String())
	}
}
