package services

import (
	"time"

	"quantumpartners/internal/models"
	"quantumpartners/internal/pagination"
)

// UserServicer defines the contract for user and credential-state logic.
type UserServicer interface {
	CreateUser(username, email, phone, nationality, fullname, password string) (*models.User, string, error)
	FindByEmailOrUsername(identifier string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	Activate(activationKey string) (*models.User, error)
	RegenerateActivationKey(email string) (*models.User, string, error)
	GenerateResetToken(email string) (*models.User, string, error)
	ChangePasswordWithToken(token, newPassword string) (*models.User, error)
	UpdatePassword(userID, currentPassword, newPassword string) (*models.User, error)
	UpdateInfo(userID, phone, nationality, fullname string) (*models.User, error)
}

// NotificationServicer defines the contract for the per-user activity feed.
type NotificationServicer interface {
	Append(userID string, notificationType models.NotificationType, message string)
	ListForUser(userID string, typeFilter *models.NotificationType, page pagination.PageRequest) (*pagination.PageResponse[models.Notification], error)
	MarkAllRead(userID string) error
	Delete(userID, notificationID string) error
	Clear(userID string) error
}

// TradeFilter holds optional filter parameters for listing trades.
type TradeFilter struct {
	Status *models.TradeStatus
	Type   *models.PlanType
}

// TradeStats aggregates a user's trading history.
type TradeStats struct {
	TotalTrades     int64   `json:"total_trades"`
	TotalVolume     float64 `json:"total_volume"`
	TotalFees       float64 `json:"total_fees"`
	CompletedTrades int64   `json:"completed_trades"`
	PendingTrades   int64   `json:"pending_trades"`
}

// TradeServicer defines the contract for the trade side of the ledger.
type TradeServicer interface {
	InitiateTrade(userID string, req InitiateTradeRequest) (*models.Trade, error)
	GetUserTrades(userID string, page pagination.PageRequest, filter TradeFilter) (*pagination.PageResponse[models.TradeSummary], error)
	GetRecentTrades(userID string, limit int) ([]models.TradeSummary, error)
	GetUserStats(userID string) (*TradeStats, error)
}

// InitiateTradeRequest carries the client-supplied trade parameters. Profit
// and maturity values come from the client and are stored as-is.
type InitiateTradeRequest struct {
	Type           models.PlanType
	Amount         float64
	Fee            float64
	Duration       string
	MaturityAmount float64
	MaturityDate   time.Time
	Profit         float64
	Date           time.Time
	Invoice        string
	Notes          string
}

// TransactionTypeStats aggregates one side (deposits or withdrawals) of a
// user's funding history.
type TransactionTypeStats struct {
	TotalAmount    float64 `json:"total_amount"`
	TotalCount     int64   `json:"total_count"`
	PendingAmount  float64 `json:"pending_amount"`
	ApprovedAmount float64 `json:"approved_amount"`
	RejectedAmount float64 `json:"rejected_amount"`
}

// TransactionStats groups funding statistics by direction.
type TransactionStats struct {
	Deposits    TransactionTypeStats `json:"deposits"`
	Withdrawals TransactionTypeStats `json:"withdrawals"`
}

// DepositRequest carries the client-supplied deposit parameters.
type DepositRequest struct {
	Amount        float64
	Method        string
	Currency      string
	WalletAddress string
	Reference     string
}

// WithdrawalRequest carries the client-supplied withdrawal parameters.
// AccountField selects which ledger field is debited; USDAmount is the
// client-computed USD value actually subtracted from it.
type WithdrawalRequest struct {
	Amount        float64
	USDAmount     float64
	Method        string
	AccountField  string
	Currency      string
	WalletAddress string
	Reference     string
}

// TransactionServicer defines the contract for the funding side of the ledger.
type TransactionServicer interface {
	CreateDeposit(userID string, req DepositRequest) (*models.Transaction, error)
	CreateWithdrawal(userID string, req WithdrawalRequest) (*models.Transaction, error)
	GetRecentTransactions(userID string, limit int) ([]models.TransactionSummary, error)
	GetUserStats(userID string) (*TransactionStats, error)
}

// AdminServicer defines the contract for admin override tooling. These
// operations mutate ledger and lifecycle state directly, bypassing the
// normal flows.
type AdminServicer interface {
	UpdateUserLedger(userID string, balance, profit *string) (*models.User, error)
	UpdateTransactionStatus(transactionID string, status models.TransactionStatus, processedBy string) (*models.Transaction, error)
	UpdateTradeStatus(tradeID string, status models.TradeStatus) (*models.Trade, error)
	NotifyUser(userID, title, text, emailSubject, emailBody string) error
	ListUsers() ([]models.AdminProfile, error)
	ListTrades() ([]models.Trade, error)
	ListTransactions() ([]models.Transaction, error)
	DeleteUser(userID string) error
	DeleteTrade(tradeID string) error
	DeleteTransaction(transactionID string) error
}
