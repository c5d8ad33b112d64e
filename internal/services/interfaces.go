package services

import (
	"time"

	"dompet/internal/models"
	"dompet/internal/pagination"
)

// WalletLimits holds the per-period expense limits of a wallet. Zero means
// no limit.
type WalletLimits struct {
	Daily   int64
	Weekly  int64
	Monthly int64
}

// WalletUpdateFields holds the optional fields of a wallet edit. Nil fields
// are left untouched.
type WalletUpdateFields struct {
	Name         *string
	Kind         *models.WalletKind
	DailyLimit   *int64
	WeeklyLimit  *int64
	MonthlyLimit *int64
	IsFrozen     *bool
}

// WalletServicer defines the contract for wallet-related business logic.
type WalletServicer interface {
	CreateWallet(userID, name string, kind models.WalletKind, initialBalance int64, limits WalletLimits) (*models.Wallet, error)
	GetUserWallets(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Wallet], error)
	GetWalletByID(userID, walletID string) (*models.Wallet, error)
	UpdateWallet(userID, walletID string, fields WalletUpdateFields) (*models.Wallet, error)
	SetWalletBalance(userID, walletID string, balance int64) (*models.Wallet, error)
	DeleteWallet(userID, walletID string) error
}

// CategoryUpdateFields holds the optional fields of a category edit. The
// type of a category is fixed at creation.
type CategoryUpdateFields struct {
	Name  *string
	Icon  *string
	Color *string
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, name string, categoryType models.CategoryType, icon, color string) (*models.Category, error)
	GetUserCategories(userID string, categoryType *models.CategoryType, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	UpdateCategory(userID, categoryID string, fields CategoryUpdateFields) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	Type       *models.TransactionType
	CategoryID *string
	WalletID   *string
	MinAmount  *int64
	MaxAmount  *int64
}

// TransactionUpdateFields holds the optional fields of a transaction edit.
type TransactionUpdateFields struct {
	WalletID   *string
	CategoryID *string
	Type       *models.TransactionType
	Amount     *int64
	Date       *time.Time
	Note       *string
	ReceiptURL *string
}

// LedgerResult is returned by every balance-affecting operation: the
// transaction as persisted and the wallets it touched, reloaded after the
// write.
type LedgerResult struct {
	Transaction *models.Transaction `json:"transaction"`
	Wallets     []models.Wallet     `json:"wallets"`
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID, walletID, categoryID string, transactionType models.TransactionType, amount int64, note, receiptURL string, date time.Time) (*LedgerResult, error)
	UpdateTransaction(userID, transactionID string, fields TransactionUpdateFields) (*LedgerResult, error)
	DeleteTransaction(userID, transactionID string) (*LedgerResult, error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetWalletTransactions(userID, walletID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
}

// TransferResult holds both legs of a transfer and the two wallets after
// the move.
type TransferResult struct {
	TransferID string              `json:"transfer_id"`
	Outgoing   *models.Transaction `json:"outgoing"`
	Incoming   *models.Transaction `json:"incoming"`
	Wallets    []models.Wallet     `json:"wallets"`
}

// TransferServicer defines the contract for moving money between wallets.
type TransferServicer interface {
	CreateTransfer(userID, fromWalletID, toWalletID string, amount int64, note string, date time.Time) (*TransferResult, error)
}

// NotificationServicer defines the contract for derived limit notifications.
type NotificationServicer interface {
	GetNotifications(userID string) ([]models.Notification, error)
	MarkRead(userID, notificationID string) error
	MarkAllRead(userID string) error
	Dismiss(userID, notificationID string) error
}

// CardInput holds the writable fields of a saved card.
type CardInput struct {
	Alias      string
	HolderName string
	CardNumber string
	Expiry     string
	CVV        string
	Network    models.CardNetwork
	Color      string
	BankName   string
}

// CardUpdateFields holds the optional fields of a saved-card edit.
type CardUpdateFields struct {
	Alias      *string
	HolderName *string
	CardNumber *string
	Expiry     *string
	CVV        *string
	Network    *models.CardNetwork
	Color      *string
	BankName   *string
}

// CardServicer defines the contract for saved payment-card metadata.
type CardServicer interface {
	CreateCard(userID string, in CardInput) (*models.SavedCard, error)
	GetUserCards(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.SavedCard], error)
	GetCardByID(userID, cardID string) (*models.SavedCard, error)
	UpdateCard(userID, cardID string, fields CardUpdateFields) (*models.SavedCard, error)
	DeleteCard(userID, cardID string) error
}

// PreferencesUpdateFields holds a partial preferences merge.
type PreferencesUpdateFields struct {
	ColorScheme        *string
	LegacyDailyLimit   *int64
	LegacyWeeklyLimit  *int64
	LegacyMonthlyLimit *int64
	SetupCompleted     *bool
}

// PreferencesServicer defines the contract for per-user preferences.
type PreferencesServicer interface {
	GetPreferences(userID string) (*models.UserPreferences, error)
	UpdatePreferences(userID string, fields PreferencesUpdateFields) (*models.UserPreferences, error)
}

// CategoryTotal is the expense or income total of one category in a period.
type CategoryTotal struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Total      int64  `json:"total"`
	Count      int64  `json:"count"`
	// Percentage of the period's total of the same type, two decimals.
	Percentage string `json:"percentage"`
}

// PeriodSummary aggregates a user's ledger between two dates.
type PeriodSummary struct {
	From         time.Time       `json:"from"`
	To           time.Time       `json:"to"`
	Income       int64           `json:"income"`
	Expense      int64           `json:"expense"`
	Net          int64           `json:"net"`
	TotalBalance int64           `json:"total_balance"`
	Categories   []CategoryTotal `json:"categories"`
}

// MonthTotal is one month of a yearly summary.
type MonthTotal struct {
	Month   string `json:"month"`
	Income  int64  `json:"income"`
	Expense int64  `json:"expense"`
	Net     int64  `json:"net"`
}

// StatsServicer defines the contract for aggregated statistics. Transfer
// legs are excluded from income and expense totals.
type StatsServicer interface {
	GetSummary(userID string, from, to time.Time) (*PeriodSummary, error)
	GetMonthlySummary(userID string, year int) ([]MonthTotal, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
