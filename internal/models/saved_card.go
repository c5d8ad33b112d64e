package models

// CardNetwork represents the payment network of a saved card.
type CardNetwork string

const (
	CardNetworkVisa       CardNetwork = "visa"
	CardNetworkMastercard CardNetwork = "mastercard"
	CardNetworkJCB        CardNetwork = "jcb"
	CardNetworkAmex       CardNetwork = "amex"
	CardNetworkGPN        CardNetwork = "gpn"
	CardNetworkOther      CardNetwork = "other"
)

// SavedCard is payment-card metadata kept for the user's reference. It has
// no relationship with wallets or transactions.
//
// CardNumber and CVV never reach the store in clear: the service seals them
// into CardNumberSealed and CVVSealed and only Last4 is kept readable.
type SavedCard struct {
	Base
	UserID     string      `gorm:"not null;index" json:"user_id"`
	Alias      string      `gorm:"not null" json:"alias"`
	HolderName string      `gorm:"not null" json:"holder_name"`
	Last4      string      `gorm:"size:4;not null" json:"last4"`
	Expiry     string      `gorm:"size:5;not null" json:"expiry"`
	Network    CardNetwork `gorm:"not null" json:"network"`
	Color      string      `json:"color"`
	BankName   string      `json:"bank_name,omitempty"`

	CardNumberSealed string `gorm:"column:card_number_sealed;not null" json:"-"`
	CVVSealed        string `gorm:"column:cvv_sealed;not null" json:"-"`

	CardNumber string `gorm:"-" json:"card_number,omitempty"`
	CVV        string `gorm:"-" json:"cvv,omitempty"`
}
