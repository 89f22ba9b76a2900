package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "quantumpartners/internal/errors"
	"quantumpartners/internal/models"
	"quantumpartners/internal/pagination"
	"quantumpartners/internal/services"
)

// TradingHandler exposes the ledger controller: trades, deposits,
// withdrawals and the activity feed.
type TradingHandler struct {
	tradeService        services.TradeServicer
	transactionService  services.TransactionServicer
	notificationService services.NotificationServicer
}

// NewTradingHandler creates a new TradingHandler
func NewTradingHandler(tradeService services.TradeServicer, transactionService services.TransactionServicer, notificationService services.NotificationServicer) *TradingHandler {
	return &TradingHandler{
		tradeService:        tradeService,
		transactionService:  transactionService,
		notificationService: notificationService,
	}
}

// InitTradeRequest represents the trade initiation payload. Profit and
// maturity values are supplied by the client and stored as-is.
type InitTradeRequest struct {
	Type           models.PlanType `json:"type" binding:"required,plan_type"`
	Amount         float64         `json:"amount" binding:"required,gt=0"`
	Fee            float64         `json:"fee" binding:"omitempty,gte=0"`
	Duration       string          `json:"duration" binding:"omitempty,max=50"`
	MaturityAmount float64         `json:"maturity_amount" binding:"omitempty,gte=0"`
	MaturityDate   time.Time       `json:"maturity_date" binding:"omitempty"`
	Profit         float64         `json:"profit" binding:"omitempty"`
	Date           time.Time       `json:"date" binding:"omitempty"`
	Invoice        string          `json:"invoice" binding:"omitempty,max=50"`
	Notes          string          `json:"notes" binding:"omitempty,max=500"`
}

// InitTrade debits the balance and records a pending trade
// @Summary     Initiate a trade
// @Description Debit the balance by the trade amount and record a pending trade
// @Tags        trading
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body InitTradeRequest true "Trade parameters"
// @Success     201 {object} models.TradeSummary "Trade initiated"
// @Failure     400 {object} ErrorResponse "Insufficient balance or invalid input"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /trading/inittrade [post]
func (h *TradingHandler) InitTrade(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req InitTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	trade, err := h.tradeService.InitiateTrade(userID, services.InitiateTradeRequest{
		Type:           req.Type,
		Amount:         req.Amount,
		Fee:            req.Fee,
		Duration:       req.Duration,
		MaturityAmount: req.MaturityAmount,
		MaturityDate:   req.MaturityDate,
		Profit:         req.Profit,
		Date:           req.Date,
		Invoice:        req.Invoice,
		Notes:          req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Trade initiated successfully",
		"data":    gin.H{"trade": trade.Summary()},
	})
}

// DepositRequest represents the deposit logging payload.
type DepositRequest struct {
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	Method        string  `json:"method" binding:"required,max=50"`
	Currency      string  `json:"currency" binding:"omitempty,max=10"`
	WalletAddress string  `json:"wallet_address" binding:"omitempty,max=255"`
	Reference     string  `json:"reference" binding:"omitempty,max=255"`
}

// Deposit records a pending deposit request. The balance is never touched
// here; crediting is a manual back-office step.
// @Summary     Log a deposit request
// @Tags        trading
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body DepositRequest true "Deposit parameters"
// @Success     201 {object} models.TransactionSummary "Deposit logged"
// @Router      /trading/deposit [post]
func (h *TradingHandler) Deposit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	txn, err := h.transactionService.CreateDeposit(userID, services.DepositRequest{
		Amount:        req.Amount,
		Method:        req.Method,
		Currency:      req.Currency,
		WalletAddress: req.WalletAddress,
		Reference:     req.Reference,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Deposit request logged successfully",
		"data":    gin.H{"transaction": txn.Summary()},
	})
}

// WithdrawRequest represents the withdrawal payload. AccountType selects
// which ledger field (balance or profit) is debited by USDAmount.
type WithdrawRequest struct {
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	USDAmount     float64 `json:"usd_amount" binding:"required,gt=0"`
	Method        string  `json:"method" binding:"required,max=50"`
	AccountType   string  `json:"account_type" binding:"required,account_field"`
	Currency      string  `json:"currency" binding:"omitempty,max=10"`
	WalletAddress string  `json:"wallet_address" binding:"omitempty,max=255"`
	Reference     string  `json:"reference" binding:"omitempty,max=255"`
}

// Withdraw debits the chosen account field and records a pending withdrawal
// @Summary     Request a withdrawal
// @Tags        trading
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body WithdrawRequest true "Withdrawal parameters"
// @Success     201 {object} models.TransactionSummary "Withdrawal logged"
// @Failure     400 {object} ErrorResponse "Invalid account type"
// @Router      /trading/withdraw [post]
func (h *TradingHandler) Withdraw(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	txn, err := h.transactionService.CreateWithdrawal(userID, services.WithdrawalRequest{
		Amount:        req.Amount,
		USDAmount:     req.USDAmount,
		Method:        req.Method,
		AccountField:  req.AccountType,
		Currency:      req.Currency,
		WalletAddress: req.WalletAddress,
		Reference:     req.Reference,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Withdrawal request logged successfully",
		"data":    gin.H{"transaction": txn.Summary()},
	})
}

// TradeListQuery holds pagination and filter parameters for listing trades.
type TradeListQuery struct {
	pagination.PageRequest
	Status *models.TradeStatus `form:"status" binding:"omitempty,trade_status"`
	Type   *models.PlanType    `form:"type" binding:"omitempty,plan_type"`
}

// GetTrades lists the user's trades with stats
// @Summary     List trades
// @Tags        trading
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number" default(1)
// @Param       page_size query int false "Page size" default(20)
// @Param       status query string false "Filter by status" Enums(pending, completed, cancelled, failed)
// @Param       type query string false "Filter by plan" Enums(Starter, Pro, Elite)
// @Success     200 {object} map[string]interface{} "Trades with stats"
// @Router      /trading/trades [get]
func (h *TradingHandler) GetTrades(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query TradeListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	query.Defaults()

	trades, err := h.tradeService.GetUserTrades(userID, query.PageRequest, services.TradeFilter{
		Status: query.Status,
		Type:   query.Type,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	stats, err := h.tradeService.GetUserStats(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Trades fetched successfully",
		"data": gin.H{
			"trades": trades,
			"stats":  stats,
		},
	})
}

// ActivitiesQuery holds pagination and filter parameters for the feed.
type ActivitiesQuery struct {
	pagination.PageRequest
	Type *models.NotificationType `form:"type" binding:"omitempty,notification_type"`
}

// GetActivities returns the activity feed: notifications, recent trades,
// recent transactions and funding stats in one response.
// @Summary     Get activity feed
// @Tags        trading
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number" default(1)
// @Param       page_size query int false "Page size" default(20)
// @Param       type query string false "Filter notifications by type"
// @Success     200 {object} map[string]interface{} "Activity feed"
// @Router      /trading/activities [get]
func (h *TradingHandler) GetActivities(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query ActivitiesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	query.Defaults()

	notifications, err := h.notificationService.ListForUser(userID, query.Type, query.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recentTrades, err := h.tradeService.GetRecentTrades(userID, 5)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recentTransactions, err := h.transactionService.GetRecentTransactions(userID, 5)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionStats, err := h.transactionService.GetUserStats(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Activities fetched successfully",
		"data": gin.H{
			"notifications":       notifications,
			"recent_trades":       recentTrades,
			"recent_transactions": recentTransactions,
			"transaction_stats":   transactionStats,
		},
	})
}

// MarkNotificationsRead marks every notification in the feed as read
// @Summary     Mark all notifications read
// @Tags        trading
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Notifications marked read"
// @Router      /trading/notifications/read [post]
func (h *TradingHandler) MarkNotificationsRead(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.notificationService.MarkAllRead(userID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

// GetStats returns trade and funding statistics
// @Summary     Get account statistics
// @Tags        trading
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Trade and transaction stats"
// @Router      /trading/stats [get]
func (h *TradingHandler) GetStats(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tradeStats, err := h.tradeService.GetUserStats(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionStats, err := h.transactionService.GetUserStats(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Statistics fetched successfully",
		"data": gin.H{
			"trade_stats":       tradeStats,
			"transaction_stats": transactionStats,
		},
	})
}
