package models

import "time"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether t is income or expense.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Sign returns +1 for income and -1 for expense.
func (t TransactionType) Sign() int64 {
	if t == TransactionTypeIncome {
		return 1
	}
	return -1
}

// Effect returns the signed balance delta of amount under t.
func (t TransactionType) Effect(amount int64) int64 {
	return t.Sign() * amount
}

// Transaction is a single income or expense routed through exactly one
// wallet. Amount is always a positive magnitude; the sign comes from Type.
type Transaction struct {
	Base
	UserID     string          `gorm:"not null;index" json:"user_id"`
	WalletID   string          `gorm:"not null;index" json:"wallet_id"`
	CategoryID string          `gorm:"not null" json:"category_id"`
	Type       TransactionType `gorm:"not null" json:"type"`
	Amount     int64           `gorm:"type:bigint;not null" json:"amount"`
	Date       time.Time       `gorm:"not null;index" json:"date"`
	Note       string          `json:"note"`
	ReceiptURL string          `json:"receipt_url,omitempty"`

	// TransferID links the two legs of a transfer.
	TransferID *string `gorm:"index" json:"transfer_id,omitempty"`
}

// Effect returns the signed balance delta this transaction applies to its wallet.
func (t *Transaction) Effect() int64 {
	return t.Type.Effect(t.Amount)
}
