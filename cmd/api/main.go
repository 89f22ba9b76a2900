package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"quantumpartners/internal/config"
	"quantumpartners/internal/database"
	"quantumpartners/internal/handlers"
	"quantumpartners/internal/logger"
	"quantumpartners/internal/mailer"
	"quantumpartners/internal/metrics"
	"quantumpartners/internal/middleware"
	"quantumpartners/internal/services"
	"quantumpartners/internal/validator"

	_ "quantumpartners/internal/docs" // Import swagger docs
)

// @title           Quantum Partners API
// @version         1.0
// @description     Investment platform backend: accounts, trades, funding requests and admin tooling.

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Register custom validators
	validator.Register()

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	m := metrics.New()
	mail := mailer.FromConfig(appConfig)
	userService := services.NewUserService(db)
	notificationService := services.NewNotificationService(db)
	tradeService := services.NewTradeService(db, userService, notificationService, m)
	transactionService := services.NewTransactionService(db, userService, notificationService, m)
	adminService := services.NewAdminService(db, userService, notificationService, mail, m)

	// Maturity sweeper is opt-in; when disabled trades stay pending until an
	// admin moves them.
	if appConfig.MaturitySweepEnabled {
		sweeper := services.NewMaturitySweeper(db, userService, notificationService, m)
		if err := sweeper.Start(appConfig.MaturitySweepSpec); err != nil {
			return fmt.Errorf("failed to start maturity sweeper: %w", err)
		}
		defer sweeper.Stop()
		log.Infof("Maturity sweeper running on schedule %q", appConfig.MaturitySweepSpec)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, notificationService, mail)
	tradingHandler := handlers.NewTradingHandler(tradeService, transactionService, notificationService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.Metrics(m))
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	// Prometheus exposition
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))

	api := router.Group("/api")

	// Auth routes: public endpoints plus the authenticated profile surface
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

	// Trading routes
	trading := api.Group("/trading")
	trading.Use(middleware.AuthMiddleware())
	trading.POST("/inittrade", tradingHandler.InitTrade)
	trading.POST("/deposit", tradingHandler.Deposit)
	trading.POST("/withdraw", tradingHandler.Withdraw)
	trading.GET("/trades", tradingHandler.GetTrades)
	trading.GET("/activities", tradingHandler.GetActivities)
	trading.POST("/notifications/read", tradingHandler.MarkNotificationsRead)
	trading.GET("/stats", tradingHandler.GetStats)

	// Admin routes
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

	log.Infof("Starting Quantum Partners backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
