package models

// WalletKind represents the kind of money holder a wallet models.
type WalletKind string

const (
	WalletKindCash    WalletKind = "cash"
	WalletKindBank    WalletKind = "bank"
	WalletKindEWallet WalletKind = "e-wallet"
)

// Valid reports whether k is a known wallet kind.
func (k WalletKind) Valid() bool {
	switch k {
	case WalletKindCash, WalletKindBank, WalletKindEWallet:
		return true
	}
	return false
}

// Wallet is a named money-holding account with a running balance.
// Balance always equals the starting balance (or the latest override)
// plus the signed effect of every live transaction routed through it.
type Wallet struct {
	Base
	UserID       string     `gorm:"not null;index" json:"user_id"`
	Name         string     `gorm:"not null" json:"name"`
	Kind         WalletKind `gorm:"not null" json:"kind"`
	Balance      int64      `gorm:"type:bigint;not null;default:0" json:"balance"`
	DailyLimit   int64      `gorm:"type:bigint;not null;default:0" json:"daily_limit"`
	WeeklyLimit  int64      `gorm:"type:bigint;not null;default:0" json:"weekly_limit"`
	MonthlyLimit int64      `gorm:"type:bigint;not null;default:0" json:"monthly_limit"`
	IsFrozen     bool       `gorm:"not null;default:false" json:"is_frozen"`
}

// HasLimits reports whether any expense limit is configured.
func (w *Wallet) HasLimits() bool {
	return w.DailyLimit > 0 || w.WeeklyLimit > 0 || w.MonthlyLimit > 0
}
