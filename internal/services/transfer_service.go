package services

import (
	"time"

	"gorm.io/gorm"

	apperrors "dompet/internal/errors"
	"dompet/internal/models"
	"dompet/internal/uuid"
)

// transferService moves money between two wallets of the same user.
type transferService struct {
	db          *gorm.DB
	checkFrozen bool
}

// NewTransferService creates a new TransferServicer. Frozen wallets only
// block transfers when checkFrozen is set.
func NewTransferService(db *gorm.DB, checkFrozen bool) TransferServicer {
	return &transferService{db: db, checkFrozen: checkFrozen}
}

// CreateTransfer writes an expense leg on the source wallet and an income
// leg on the target wallet, linked by a shared transfer id, and moves the
// balances. Either everything commits or nothing does.
func (s *transferService) CreateTransfer(userID, fromWalletID, toWalletID string, amount int64, note string, date time.Time) (*TransferResult, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidTransfer, "amount must be greater than zero")
	}
	if fromWalletID == "" || toWalletID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidTransfer, "source and target wallets are required")
	}
	if fromWalletID == toWalletID {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidTransfer, "source and target wallets must differ")
	}
	if date.IsZero() {
		date = time.Now()
	}

	transferID := uuid.New()
	var outgoing, incoming *models.Transaction

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Both wallets are read before anything is written.
		source, err := findWallet(tx, userID, fromWalletID)
		if err != nil {
			return err
		}
		target, err := findWallet(tx, userID, toWalletID)
		if err != nil {
			return err
		}
		if s.checkFrozen && (source.IsFrozen || target.IsFrozen) {
			return apperrors.WithMessage(apperrors.ErrWalletFrozen, "transfers are not allowed on frozen wallets")
		}

		outgoing = &models.Transaction{
			UserID:     userID,
			WalletID:   source.ID,
			CategoryID: models.CategoryTransferOut,
			Type:       models.TransactionTypeExpense,
			Amount:     amount,
			Date:       date.UTC(),
			Note:       transferNote("Transfer to "+target.Name, note),
			TransferID: &transferID,
		}
		incoming = &models.Transaction{
			UserID:     userID,
			WalletID:   target.ID,
			CategoryID: models.CategoryTransferIn,
			Type:       models.TransactionTypeIncome,
			Amount:     amount,
			Date:       date.UTC(),
			Note:       transferNote("Transfer from "+source.Name, note),
			TransferID: &transferID,
		}

		for _, leg := range []*models.Transaction{outgoing, incoming} {
			if err := tx.Create(leg).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrTransferFailed, err)
			}
		}
		for _, leg := range []*models.Transaction{outgoing, incoming} {
			if err := ApplyEffect(tx, userID, EffectOf(leg)); err != nil {
				return apperrors.Wrap(apperrors.ErrTransferFailed, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	wallets, err := reloadWallets(s.db, userID, fromWalletID, toWalletID)
	if err != nil {
		return nil, err
	}
	return &TransferResult{
		TransferID: transferID,
		Outgoing:   outgoing,
		Incoming:   incoming,
		Wallets:    wallets,
	}, nil
}

func transferNote(base, note string) string {
	if note == "" {
		return base
	}
	return base + ": " + note
}
