package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "dompet/internal/errors"
	"dompet/internal/models"
	"dompet/internal/pagination"
	"dompet/internal/uuid"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

var transactionSortColumns = map[string]string{
	"date":       "date",
	"amount":     "amount",
	"created_at": "created_at",
}

// CreateTransaction records an income or expense and applies it to the
// wallet balance in the same database transaction.
func (s *transactionService) CreateTransaction(
	userID string,
	walletID string,
	categoryID string,
	transactionType models.TransactionType,
	amount int64,
	note string,
	receiptURL string,
	date time.Time,
) (*LedgerResult, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if walletID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "wallet ID is required")
	}
	if !transactionType.Valid() {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if date.IsZero() {
		date = time.Now()
	}

	transaction := &models.Transaction{
		UserID:     userID,
		WalletID:   walletID,
		CategoryID: categoryID,
		Type:       transactionType,
		Amount:     amount,
		Date:       date.UTC(),
		Note:       note,
		ReceiptURL: receiptURL,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := writableWallet(tx, userID, walletID); err != nil {
			return err
		}
		if err := checkCategory(tx, userID, categoryID, transactionType); err != nil {
			return err
		}
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return ApplyEffect(tx, userID, EffectOf(transaction))
	})
	if err != nil {
		return nil, err
	}

	wallets, err := reloadWallets(s.db, userID, walletID)
	if err != nil {
		return nil, err
	}
	return &LedgerResult{Transaction: transaction, Wallets: wallets}, nil
}

// writableWallet loads a wallet and rejects it when frozen.
func writableWallet(tx *gorm.DB, userID, walletID string) (*models.Wallet, error) {
	wallet, err := findWallet(tx, userID, walletID)
	if err != nil {
		return nil, err
	}
	if wallet.IsFrozen {
		return nil, apperrors.WithMessage(apperrors.ErrWalletFrozen, "wallet "+wallet.Name+" is frozen")
	}
	return wallet, nil
}

// checkCategory verifies the category belongs to the user and matches the
// transaction type. Transfer categories are reserved for transfers.
func checkCategory(tx *gorm.DB, userID, categoryID string, transactionType models.TransactionType) error {
	if _, reserved := models.ReservedCategoryType(categoryID); reserved {
		return apperrors.ErrReservedCategory
	}
	if categoryID == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category ID is required")
	}
	category, err := findCategory(tx, userID, categoryID)
	if err != nil {
		return err
	}
	if string(category.Type) != string(transactionType) {
		return apperrors.ErrCategoryTypeMismatch
	}
	return nil
}

// UpdateTransaction merges fields into a transaction. The old ledger effect
// is always taken from the stored row; the balance is only touched when
// the wallet, type or amount changes.
func (s *transactionService) UpdateTransaction(userID, transactionID string, fields TransactionUpdateFields) (*LedgerResult, error) {
	if fields.Amount != nil && *fields.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if fields.Type != nil && !fields.Type.Valid() {
		return nil, apperrors.ErrInvalidTransactionType
	}

	var (
		updated models.Transaction
		touched []string
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := findTransaction(tx, userID, transactionID)
		if err != nil {
			return err
		}
		if _, err := writableWallet(tx, userID, existing.WalletID); err != nil {
			return err
		}

		next := *existing
		updates := make(map[string]interface{})
		if fields.WalletID != nil && *fields.WalletID != existing.WalletID {
			next.WalletID = *fields.WalletID
			updates["wallet_id"] = next.WalletID
		}
		if fields.Type != nil && *fields.Type != existing.Type {
			next.Type = *fields.Type
			updates["type"] = next.Type
		}
		if fields.Amount != nil && *fields.Amount != existing.Amount {
			next.Amount = *fields.Amount
			updates["amount"] = next.Amount
		}
		if fields.CategoryID != nil && *fields.CategoryID != existing.CategoryID {
			next.CategoryID = *fields.CategoryID
			updates["category_id"] = next.CategoryID
		}
		if fields.Date != nil {
			updates["date"] = fields.Date.UTC()
		}
		if fields.Note != nil {
			updates["note"] = *fields.Note
		}
		if fields.ReceiptURL != nil {
			updates["receipt_url"] = *fields.ReceiptURL
		}

		moved := next.WalletID != existing.WalletID || next.Type != existing.Type || next.Amount != existing.Amount
		recategorised := next.CategoryID != existing.CategoryID || next.Type != existing.Type

		if existing.TransferID != nil && (moved || recategorised) {
			return apperrors.WithMessage(apperrors.ErrInvalidTransfer, "transfer legs can only change date, note or receipt")
		}
		if next.WalletID != existing.WalletID {
			if _, err := writableWallet(tx, userID, next.WalletID); err != nil {
				return err
			}
		}
		if recategorised {
			if err := checkCategory(tx, userID, next.CategoryID, next.Type); err != nil {
				return err
			}
		}

		if moved {
			if err := MoveEffect(tx, userID, EffectOf(existing), EffectOf(&next)); err != nil {
				return err
			}
		}
		if len(updates) > 0 {
			if err := tx.Model(&models.Transaction{}).
				Where("id = ? AND user_id = ?", transactionID, userID).
				Updates(updates).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		reloaded, err := findTransaction(tx, userID, transactionID)
		if err != nil {
			return err
		}
		updated = *reloaded
		touched = []string{existing.WalletID, next.WalletID}
		return nil
	})
	if err != nil {
		return nil, err
	}

	wallets, err := reloadWallets(s.db, userID, touched...)
	if err != nil {
		return nil, err
	}
	return &LedgerResult{Transaction: &updated, Wallets: wallets}, nil
}

// DeleteTransaction reverts a transaction's effect and removes it. Deleting
// either leg of a transfer removes both legs.
func (s *transactionService) DeleteTransaction(userID, transactionID string) (*LedgerResult, error) {
	var (
		deleted *models.Transaction
		touched []string
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := findTransaction(tx, userID, transactionID)
		if err != nil {
			return err
		}
		deleted = existing

		legs := []models.Transaction{*existing}
		if existing.TransferID != nil {
			legs = nil
			if err := tx.Where("transfer_id = ? AND user_id = ?", *existing.TransferID, userID).
				Find(&legs).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		for i := range legs {
			if _, err := writableWallet(tx, userID, legs[i].WalletID); err != nil {
				return err
			}
		}
		for i := range legs {
			if err := RevertEffect(tx, userID, EffectOf(&legs[i])); err != nil {
				return err
			}
			if err := tx.Delete(&legs[i]).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			touched = append(touched, legs[i].WalletID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	wallets, err := reloadWallets(s.db, userID, touched...)
	if err != nil {
		return nil, err
	}
	return &LedgerResult{Transaction: deleted, Wallets: wallets}, nil
}

func findTransaction(db *gorm.DB, userID, transactionID string) (*models.Transaction, error) {
	if !uuid.IsValid(transactionID) {
		return nil, apperrors.ErrTransactionNotFound
	}
	var transaction models.Transaction
	if err := db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	return findTransaction(s.db, userID, transactionID)
}

// GetUserTransactions retrieves a paginated, filtered list of a user's transactions.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order(page.OrderClause(transactionSortColumns, "date DESC")).
		Order("id DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetWalletTransactions lists the transactions routed through one wallet.
func (s *transactionService) GetWalletTransactions(userID, walletID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if _, err := findWallet(s.db, userID, walletID); err != nil {
		return nil, err
	}
	filter.WalletID = &walletID
	return s.GetUserTransactions(userID, page, filter)
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", f.FromDate.UTC())
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", f.ToDate.UTC())
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.WalletID != nil {
		q = q.Where("wallet_id = ?", *f.WalletID)
	}
	if f.MinAmount != nil {
		q = q.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("amount <= ?", *f.MaxAmount)
	}
	return q
}
