// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"dompet/internal/models"
)

var cardExpiryRegex = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("wallet_kind", validateWalletKind)
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("category_type", validateCategoryType)
		_ = v.RegisterValidation("card_network", validateCardNetwork)
		_ = v.RegisterValidation("card_expiry", validateCardExpiry)
		_ = v.RegisterValidation("color_scheme", validateColorScheme)
	}
}

func validateWalletKind(fl validator.FieldLevel) bool {
	return models.WalletKind(fl.Field().String()).Valid()
}

func validateTransactionType(fl validator.FieldLevel) bool {
	return models.TransactionType(fl.Field().String()).Valid()
}

func validateCategoryType(fl validator.FieldLevel) bool {
	switch models.CategoryType(fl.Field().String()) {
	case models.CategoryTypeIncome, models.CategoryTypeExpense:
		return true
	}
	return false
}

func validateCardNetwork(fl validator.FieldLevel) bool {
	switch models.CardNetwork(fl.Field().String()) {
	case models.CardNetworkVisa, models.CardNetworkMastercard, models.CardNetworkJCB,
		models.CardNetworkAmex, models.CardNetworkGPN, models.CardNetworkOther:
		return true
	}
	return false
}

func validateCardExpiry(fl validator.FieldLevel) bool {
	return cardExpiryRegex.MatchString(fl.Field().String())
}

func validateColorScheme(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "system", "light", "dark":
		return true
	}
	return false
}
