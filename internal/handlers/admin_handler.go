package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "quantumpartners/internal/errors"
	"quantumpartners/internal/models"
	"quantumpartners/internal/services"
)

// AdminHandler exposes the back-office override surface.
type AdminHandler struct {
	adminService services.AdminServicer
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(adminService services.AdminServicer) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// UpdateUserLedgerRequest carries absolute replacement values for the
// ledger fields. Omitted fields are left unchanged.
type UpdateUserLedgerRequest struct {
	UserID  string  `json:"user_id" binding:"required,uuid"`
	Balance *string `json:"balance" binding:"omitempty,max=50"`
	Profit  *string `json:"profit" binding:"omitempty,max=50"`
}

// UpdateUserLedger sets a user's balance and/or profit to absolute values
// @Summary     Override user ledger fields
// @Description Set balance and/or profit to absolute values, not deltas
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateUserLedgerRequest true "Ledger override"
// @Success     200 {object} models.AdminProfile "User updated"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /admin/user/update [post]
func (h *AdminHandler) UpdateUserLedger(c *gin.Context) {
	var req UpdateUserLedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.adminService.UpdateUserLedger(req.UserID, req.Balance, req.Profit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"data":    gin.H{"user": user.AdminProfile()},
	})
}

// UpdateTransactionStatusRequest moves a transaction to any status.
type UpdateTransactionStatusRequest struct {
	TransactionID string                   `json:"transaction_id" binding:"required,uuid"`
	Status        models.TransactionStatus `json:"status" binding:"required,transaction_status"`
}

// UpdateTransactionStatus sets a transaction's status without transition
// guards. Approving a deposit does not credit the balance.
// @Summary     Override transaction status
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateTransactionStatusRequest true "Status override"
// @Success     200 {object} models.TransactionSummary "Transaction updated"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /admin/transaction/update [post]
func (h *AdminHandler) UpdateTransactionStatus(c *gin.Context) {
	adminID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	txn, err := h.adminService.UpdateTransactionStatus(req.TransactionID, req.Status, adminID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Transaction updated successfully",
		"data":    gin.H{"transaction": txn.Summary()},
	})
}

// UpdateTradeStatusRequest moves a trade to any status.
type UpdateTradeStatusRequest struct {
	TradeID string             `json:"trade_id" binding:"required,uuid"`
	Status  models.TradeStatus `json:"status" binding:"required,trade_status"`
}

// UpdateTradeStatus sets a trade's status without transition guards
// @Summary     Override trade status
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateTradeStatusRequest true "Status override"
// @Success     200 {object} models.TradeSummary "Trade updated"
// @Failure     404 {object} ErrorResponse "Trade not found"
// @Router      /admin/trade/update [post]
func (h *AdminHandler) UpdateTradeStatus(c *gin.Context) {
	var req UpdateTradeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	trade, err := h.adminService.UpdateTradeStatus(req.TradeID, req.Status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Trade updated successfully",
		"data":    gin.H{"trade": trade.Summary()},
	})
}

// NotifyUserRequest carries an admin-authored notification and an optional
// email to send alongside it.
type NotifyUserRequest struct {
	UserID       string `json:"user_id" binding:"required,uuid"`
	Title        string `json:"title" binding:"omitempty,max=50"`
	Text         string `json:"text" binding:"required,max=1000"`
	EmailSubject string `json:"email_subject" binding:"omitempty,max=255"`
	EmailBody    string `json:"email_body" binding:"omitempty,max=5000"`
}

// NotifyUser appends a notification and optionally emails the user. Email
// delivery failures are logged, not surfaced, and never roll back the
// notification.
// @Summary     Notify a user
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body NotifyUserRequest true "Notification content"
// @Success     200 {object} map[string]interface{} "Notification sent"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /admin/user/notify [post]
func (h *AdminHandler) NotifyUser(c *gin.Context) {
	var req NotifyUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.adminService.NotifyUser(req.UserID, req.Title, req.Text, req.EmailSubject, req.EmailBody); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification sent successfully"})
}

// ListUsers returns every user in the admin projection
// @Summary     List all users
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.AdminProfile
// @Router      /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.adminService.ListUsers()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Users fetched successfully",
		"data":    gin.H{"users": users},
	})
}

// ListTrades returns every trade with owner details
// @Summary     List all trades
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Trade
// @Router      /admin/trades [get]
func (h *AdminHandler) ListTrades(c *gin.Context) {
	trades, err := h.adminService.ListTrades()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Trades fetched successfully",
		"data":    gin.H{"trades": trades},
	})
}

// ListTransactions returns every transaction with owner details
// @Summary     List all transactions
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Transaction
// @Router      /admin/transactions [get]
func (h *AdminHandler) ListTransactions(c *gin.Context) {
	transactions, err := h.adminService.ListTransactions()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Transactions fetched successfully",
		"data":    gin.H{"transactions": transactions},
	})
}

// DeleteUser removes a user and their trades and transactions
// @Summary     Delete a user
// @Description Delete the user's trades, then transactions, then the user
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "User ID"
// @Success     200 {object} map[string]interface{} "User deleted"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /admin/user/{id} [delete]
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.adminService.DeleteUser(userID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// DeleteTrade removes one trade
// @Summary     Delete a trade
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Trade ID"
// @Success     200 {object} map[string]interface{} "Trade deleted"
// @Failure     404 {object} ErrorResponse "Trade not found"
// @Router      /admin/trade/{id} [delete]
func (h *AdminHandler) DeleteTrade(c *gin.Context) {
	tradeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.adminService.DeleteTrade(tradeID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Trade deleted successfully"})
}

// DeleteTransaction removes one transaction
// @Summary     Delete a transaction
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} map[string]interface{} "Transaction deleted"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /admin/transaction/{id} [delete]
func (h *AdminHandler) DeleteTransaction(c *gin.Context) {
	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.adminService.DeleteTransaction(transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}
