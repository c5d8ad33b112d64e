package services

import (
	"gorm.io/gorm"

	apperrors "dompet/internal/errors"
	"dompet/internal/models"
)

// Effect is the ledger footprint of a transaction: which wallet it touches
// and by how much.
type Effect struct {
	WalletID string
	Type     models.TransactionType
	Amount   int64
}

// EffectOf returns the effect of a persisted transaction.
func EffectOf(t *models.Transaction) Effect {
	return Effect{WalletID: t.WalletID, Type: t.Type, Amount: t.Amount}
}

func (e Effect) delta() int64 {
	return e.Type.Effect(e.Amount)
}

// ApplyEffect adds the signed amount to the wallet balance.
func ApplyEffect(tx *gorm.DB, userID string, e Effect) error {
	return adjustBalance(tx, userID, e.WalletID, e.delta())
}

// RevertEffect undoes ApplyEffect.
func RevertEffect(tx *gorm.DB, userID string, e Effect) error {
	return adjustBalance(tx, userID, e.WalletID, -e.delta())
}

// MoveEffect replaces old with next. On the same wallet the two deltas are
// combined into a single write, and nothing is written when they cancel.
func MoveEffect(tx *gorm.DB, userID string, old, next Effect) error {
	if old.WalletID == next.WalletID {
		net := next.delta() - old.delta()
		if net == 0 {
			return nil
		}
		return adjustBalance(tx, userID, old.WalletID, net)
	}
	if err := RevertEffect(tx, userID, old); err != nil {
		return err
	}
	return ApplyEffect(tx, userID, next)
}

// adjustBalance increments the balance in the store rather than writing a
// value read earlier, so concurrent writers cannot lose each other's delta.
func adjustBalance(tx *gorm.DB, userID, walletID string, delta int64) error {
	res := tx.Model(&models.Wallet{}).
		Where("id = ? AND user_id = ?", walletID, userID).
		Update("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrWalletNotFound
	}
	return nil
}

// reloadWallets reads the given wallets back in argument order, skipping
// duplicates.
func reloadWallets(db *gorm.DB, userID string, walletIDs ...string) ([]models.Wallet, error) {
	seen := make(map[string]struct{}, len(walletIDs))
	ids := make([]string, 0, len(walletIDs))
	for _, id := range walletIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	var found []models.Wallet
	if err := db.Where("id IN ? AND user_id = ?", ids, userID).Find(&found).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	byID := make(map[string]models.Wallet, len(found))
	for _, w := range found {
		byID[w.ID] = w
	}
	out := make([]models.Wallet, 0, len(ids))
	for _, id := range ids {
		if w, ok := byID[id]; ok {
			out = append(out, w)
		}
	}
	return out, nil
}
