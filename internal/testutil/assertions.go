package testutil

import (
	"errors"
	"testing"

	"gorm.io/gorm"

	apperrors "dompet/internal/errors"
	"dompet/internal/models"
)

// AssertAppError checks that err is an *AppError with the expected error code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertBalance fails the test if the stored wallet balance differs from want.
func AssertBalance(t *testing.T, got, want int64) {
	t.Helper()

	if got != want {
		t.Errorf("expected balance %d, got %d", want, got)
	}
}

// AssertLedgerBalance checks that a wallet's stored balance equals opening
// plus the signed effect of every transaction still routed through it.
func AssertLedgerBalance(t *testing.T, db *gorm.DB, walletID string, opening int64) {
	t.Helper()

	var txs []models.Transaction
	if err := db.Where("wallet_id = ?", walletID).Find(&txs).Error; err != nil {
		t.Fatalf("failed to load transactions for wallet %s: %v", walletID, err)
	}
	want := opening
	for i := range txs {
		want += txs[i].Effect()
	}

	if got := ReloadWallet(t, db, walletID).Balance; got != want {
		t.Errorf("wallet %s: balance %d does not match ledger total %d", walletID, got, want)
	}
}
