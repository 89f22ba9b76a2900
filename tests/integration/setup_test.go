package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"quantumpartners/internal/handlers"
	"quantumpartners/internal/logger"
	"quantumpartners/internal/mailer"
	"quantumpartners/internal/middleware"
	"quantumpartners/internal/models"
	"quantumpartners/internal/services"
	"quantumpartners/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Notification{},
		&models.Trade{},
		&models.Transaction{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	userService := services.NewUserService(db)
	notificationService := services.NewNotificationService(db)
	tradeService := services.NewTradeService(db, userService, notificationService, nil)
	transactionService := services.NewTransactionService(db, userService, notificationService, nil)
	adminService := services.NewAdminService(db, userService, notificationService, mailer.LogMailer{}, nil)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, notificationService, mailer.LogMailer{})
	tradingHandler := handlers.NewTradingHandler(tradeService, transactionService, notificationService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	api := router.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/activate", authHandler.Activate)
	auth.POST("/actkeyrequest", authHandler.RequestActivationKey)
	auth.POST("/forgotpwd", authHandler.ForgotPassword)
	auth.POST("/changepwd", authHandler.ChangePassword)

	authProtected := auth.Group("/")
	authProtected.Use(middleware.AuthMiddleware())
	authProtected.GET("/me", authHandler.GetCurrentUser)
	authProtected.POST("/updatepwd", authHandler.UpdatePassword)
	authProtected.POST("/updateinfo", authHandler.UpdateInfo)
	authProtected.POST("/notifications/clear", authHandler.ClearNotifications)
	authProtected.DELETE("/notifications/:id", authHandler.DeleteNotification)

	trading := api.Group("/trading")
	trading.Use(middleware.AuthMiddleware())
	trading.POST("/inittrade", tradingHandler.InitTrade)
	trading.POST("/deposit", tradingHandler.Deposit)
	trading.POST("/withdraw", tradingHandler.Withdraw)
	trading.GET("/trades", tradingHandler.GetTrades)
	trading.GET("/activities", tradingHandler.GetActivities)
	trading.POST("/notifications/read", tradingHandler.MarkNotificationsRead)
	trading.GET("/stats", tradingHandler.GetStats)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	admin.POST("/user/update", adminHandler.UpdateUserLedger)
	admin.POST("/transaction/update", adminHandler.UpdateTransactionStatus)
	admin.POST("/trade/update", adminHandler.UpdateTradeStatus)
	admin.POST("/user/notify", adminHandler.NotifyUser)
	admin.GET("/users", adminHandler.ListUsers)
	admin.GET("/trades", adminHandler.ListTrades)
	admin.GET("/transactions", adminHandler.ListTransactions)
	admin.DELETE("/user/:id", adminHandler.DeleteUser)
	admin.DELETE("/trade/:id", adminHandler.DeleteTrade)
	admin.DELETE("/transaction/:id", adminHandler.DeleteTransaction)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// data unwraps the "data" envelope of a success response.
func data(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	result := parseJSON(t, rec)
	d, ok := result["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected data envelope, got: %s", rec.Body.String())
	}
	return d
}

// errorCode extracts the error code of an error response.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	result := parseJSON(t, rec)
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error envelope, got: %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

// registerUser registers a user, activates it via the key stored on the row,
// and returns the user ID.
func (app *testApp) registerUser(t *testing.T, username, email, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"username":%q,"email":%q,"phone":"+15550000000","nationality":"Testland","fullname":"Test User","password":%q}`, username, email, password)
	rec := app.request("POST", "/api/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	user := data(t, rec)["user"].(map[string]interface{})
	userID := user["id"].(string)

	var row models.User
	if err := app.DB.First(&row, "id = ?", userID).Error; err != nil {
		t.Fatalf("failed to load registered user: %v", err)
	}
	if row.ActivationKey == nil {
		t.Fatal("registered user should carry an activation key")
	}

	rec = app.request("POST", "/api/auth/activate",
		fmt.Sprintf(`{"activation_key":%q}`, *row.ActivationKey), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("activate failed: %d %s", rec.Code, rec.Body.String())
	}
	return userID
}

// loginUser logs in and returns the JWT.
func (app *testApp) loginUser(t *testing.T, identifier, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"identifier":%q,"password":%q}`, identifier, password)
	rec := app.request("POST", "/api/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	return data(t, rec)["token"].(string)
}

// setupFundedUser registers, activates, logs in and sets the balance
// directly, returning the user ID and token.
func (app *testApp) setupFundedUser(t *testing.T, username, balance string) (string, string) {
	t.Helper()
	userID := app.registerUser(t, username, username+"@test.com", "password123")
	token := app.loginUser(t, username, "password123")
	if err := app.DB.Model(&models.User{}).Where("id = ?", userID).Update("balance", balance).Error; err != nil {
		t.Fatalf("failed to fund user: %v", err)
	}
	return userID, token
}

// setupAdmin registers a user and promotes it to admin, returning the user
// ID and a token minted after the promotion so the admin claim is present.
func (app *testApp) setupAdmin(t *testing.T, username string) (string, string) {
	t.Helper()
	userID := app.registerUser(t, username, username+"@test.com", "password123")
	if err := app.DB.Model(&models.User{}).Where("id = ?", userID).Update("is_admin", true).Error; err != nil {
		t.Fatalf("failed to promote admin: %v", err)
	}
	token := app.loginUser(t, username, "password123")
	return userID, token
}
