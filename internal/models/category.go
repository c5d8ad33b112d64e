package models

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Reserved category ids tag the two legs of a transfer. They are not rows
// in the categories table.
const (
	CategoryTransferOut = "transfer-out"
	CategoryTransferIn  = "transfer-in"
)

// ReservedCategoryType returns the transaction type implied by a reserved
// transfer category id.
func ReservedCategoryType(id string) (TransactionType, bool) {
	switch id {
	case CategoryTransferOut:
		return TransactionTypeExpense, true
	case CategoryTransferIn:
		return TransactionTypeIncome, true
	}
	return "", false
}

// Category represents a transaction category. Icon and Color are purely
// presentational; the ledger only ever reads Type.
type Category struct {
	Base
	UserID string       `gorm:"not null;index" json:"user_id"`
	Name   string       `gorm:"not null" json:"name"`
	Type   CategoryType `gorm:"not null" json:"type"`
	Icon   string       `json:"icon"`
	Color  string       `json:"color"`
}
