package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "dompet/internal/errors"
	"dompet/internal/models"
	"dompet/internal/pagination"
	"dompet/internal/uuid"
)

// walletService handles wallet-related business logic.
type walletService struct {
	db *gorm.DB
}

// NewWalletService creates a new WalletServicer.
func NewWalletService(db *gorm.DB) WalletServicer {
	return &walletService{db: db}
}

// CreateWallet creates a wallet whose balance starts at initialBalance.
func (s *walletService) CreateWallet(userID, name string, kind models.WalletKind, initialBalance int64, limits WalletLimits) (*models.Wallet, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "wallet name is required")
	}
	if !kind.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "wallet kind must be cash, bank or e-wallet")
	}
	if limits.Daily < 0 || limits.Weekly < 0 || limits.Monthly < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "limits cannot be negative")
	}

	wallet := &models.Wallet{
		UserID:       userID,
		Name:         name,
		Kind:         kind,
		Balance:      initialBalance,
		DailyLimit:   limits.Daily,
		WeeklyLimit:  limits.Weekly,
		MonthlyLimit: limits.Monthly,
	}
	if err := s.db.Create(wallet).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return wallet, nil
}

// GetUserWallets retrieves a paginated list of wallets for a user.
func (s *walletService) GetUserWallets(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Wallet], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Wallet{}).Where("user_id = ?", userID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	order := page.OrderClause(map[string]string{
		"name":       "name",
		"balance":    "balance",
		"created_at": "created_at",
	}, "created_at ASC")

	var wallets []models.Wallet
	if err := base.Scopes(pagination.Paginate(page)).Order(order).Find(&wallets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(wallets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetWalletByID retrieves a wallet by ID for a specific user
func (s *walletService) GetWalletByID(userID, walletID string) (*models.Wallet, error) {
	return findWallet(s.db, userID, walletID)
}

func findWallet(db *gorm.DB, userID, walletID string) (*models.Wallet, error) {
	if !uuid.IsValid(walletID) {
		return nil, apperrors.ErrWalletNotFound
	}
	var wallet models.Wallet
	if err := db.Where("id = ? AND user_id = ?", walletID, userID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrWalletNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &wallet, nil
}

// UpdateWallet renames, re-kinds, re-limits or (un)freezes a wallet. The
// balance is never touched here.
func (s *walletService) UpdateWallet(userID, walletID string, fields WalletUpdateFields) (*models.Wallet, error) {
	wallet, err := s.GetWalletByID(userID, walletID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Name != nil {
		name := strings.TrimSpace(*fields.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "wallet name cannot be empty")
		}
		updates["name"] = name
	}
	if fields.Kind != nil {
		if !fields.Kind.Valid() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "wallet kind must be cash, bank or e-wallet")
		}
		updates["kind"] = *fields.Kind
	}
	for column, limit := range map[string]*int64{
		"daily_limit":   fields.DailyLimit,
		"weekly_limit":  fields.WeeklyLimit,
		"monthly_limit": fields.MonthlyLimit,
	} {
		if limit == nil {
			continue
		}
		if *limit < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "limits cannot be negative")
		}
		updates[column] = *limit
	}
	if fields.IsFrozen != nil {
		updates["is_frozen"] = *fields.IsFrozen
	}

	if len(updates) > 0 {
		if err := s.db.Model(wallet).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		// Reload to get fresh data
		return s.GetWalletByID(userID, walletID)
	}
	return wallet, nil
}

// SetWalletBalance overrides the balance directly, as during onboarding.
// Frozen wallets are rejected like any other balance change.
func (s *walletService) SetWalletBalance(userID, walletID string, balance int64) (*models.Wallet, error) {
	wallet, err := s.GetWalletByID(userID, walletID)
	if err != nil {
		return nil, err
	}
	if wallet.IsFrozen {
		return nil, apperrors.ErrWalletFrozen
	}

	res := s.db.Model(&models.Wallet{}).
		Where("id = ? AND user_id = ?", walletID, userID).
		Update("balance", balance)
	if res.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.ErrWalletNotFound
	}
	return s.GetWalletByID(userID, walletID)
}

// DeleteWallet removes a wallet that no transaction references.
func (s *walletService) DeleteWallet(userID, walletID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		wallet, err := findWallet(tx, userID, walletID)
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Transaction{}).
			Where("wallet_id = ? AND user_id = ?", walletID, userID).
			Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return apperrors.ErrWalletHasTransactions
		}

		if err := tx.Delete(wallet).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}
