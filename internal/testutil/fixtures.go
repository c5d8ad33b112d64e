package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"dompet/internal/models"
	"dompet/internal/uuid"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// NewUserID returns a fresh owner id. Owners are identified by the token
// subject only; there is no users table.
func NewUserID() string {
	return uuid.New()
}

// CreateTestWallet creates a cash wallet with zero balance.
func CreateTestWallet(t *testing.T, db *gorm.DB, userID string) *models.Wallet {
	t.Helper()
	return CreateTestWalletWithBalance(t, db, userID, 0)
}

// CreateTestWalletWithBalance creates a cash wallet with the given balance.
func CreateTestWalletWithBalance(t *testing.T, db *gorm.DB, userID string, balance int64) *models.Wallet {
	t.Helper()

	wallet := &models.Wallet{
		UserID:  userID,
		Name:    fmt.Sprintf("Test Wallet %d", nextID()),
		Kind:    models.WalletKindCash,
		Balance: balance,
	}
	if err := db.Create(wallet).Error; err != nil {
		t.Fatalf("failed to create test wallet: %v", err)
	}
	return wallet
}

// CreateFrozenWallet creates a frozen wallet with the given balance.
func CreateFrozenWallet(t *testing.T, db *gorm.DB, userID string, balance int64) *models.Wallet {
	t.Helper()

	wallet := CreateTestWalletWithBalance(t, db, userID, balance)
	if err := db.Model(wallet).Update("is_frozen", true).Error; err != nil {
		t.Fatalf("failed to freeze test wallet: %v", err)
	}
	wallet.IsFrozen = true
	return wallet
}

// SetWalletLimits sets the daily, weekly and monthly limits of a wallet.
func SetWalletLimits(t *testing.T, db *gorm.DB, wallet *models.Wallet, daily, weekly, monthly int64) {
	t.Helper()

	if err := db.Model(wallet).Updates(map[string]interface{}{
		"daily_limit":   daily,
		"weekly_limit":  weekly,
		"monthly_limit": monthly,
	}).Error; err != nil {
		t.Fatalf("failed to set wallet limits: %v", err)
	}
	wallet.DailyLimit, wallet.WeeklyLimit, wallet.MonthlyLimit = daily, weekly, monthly
}

// CreateTestCategory creates a category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   fmt.Sprintf("Test Category %d", nextID()),
		Type:   categoryType,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction inserts a transaction row dated now without
// touching the wallet balance.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, walletID, categoryID string, txType models.TransactionType, amount int64) *models.Transaction {
	t.Helper()
	return CreateTestTransactionAt(t, db, userID, walletID, categoryID, txType, amount, time.Now())
}

// CreateTestTransactionAt is CreateTestTransaction with an explicit date.
func CreateTestTransactionAt(t *testing.T, db *gorm.DB, userID, walletID, categoryID string, txType models.TransactionType, amount int64, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:     userID,
		WalletID:   walletID,
		CategoryID: categoryID,
		Type:       txType,
		Amount:     amount,
		Date:       date.UTC(),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// ReloadWallet reads a wallet back from the store.
func ReloadWallet(t *testing.T, db *gorm.DB, walletID string) *models.Wallet {
	t.Helper()

	var wallet models.Wallet
	if err := db.Where("id = ?", walletID).First(&wallet).Error; err != nil {
		t.Fatalf("failed to reload wallet %s: %v", walletID, err)
	}
	return &wallet
}

// CountTransactions counts the transaction rows of a user.
func CountTransactions(t *testing.T, db *gorm.DB, userID string) int64 {
	t.Helper()

	var count int64
	if err := db.Model(&models.Transaction{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		t.Fatalf("failed to count transactions: %v", err)
	}
	return count
}
