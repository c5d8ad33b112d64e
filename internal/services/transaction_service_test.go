package services

import (
	"testing"
	"time"

	"dompet/internal/models"
	"dompet/internal/pagination"
	"dompet/internal/testutil"
)

func ptr[T any](v T) *T { return &v }

func TestCreateTransaction(t *testing.T) {
	t.Run("income_increases_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		userID := testutil.NewUserID()
		wallet := testutil.CreateTestWallet(t, db, userID)
		cat := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeIncome)

		res, err := svc.CreateTransaction(userID, wallet.ID, cat.ID, models.TransactionTypeIncome, 5000, "Salary", "", time.Now())
		testutil.AssertNoError(t, err)

		if res.Transaction.ID == "" {
			t.Fatal("expected transaction ID")
		}
		if len(res.Wallets) != 1 || res.Wallets[0].Balance != 5000 {
			t.Errorf("expected returned wallet balance 5000, got %+v", res.Wallets)
		}
		testutil.AssertBalance(t, testutil.ReloadWallet(t, db, wallet.ID).Balance, 5000)
	})

	t.Run("expense_decreases_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		userID := testutil.NewUserID()
		wallet := testutil.CreateTestWalletWithBalance(t, db, userID, 10000)
		cat := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeExpense)

		_, err := svc.CreateTransaction(userID, wallet.ID, cat.ID, models.TransactionTypeExpense, 3000, "Lunch", "", time.Now())
		testutil.AssertNoError(t, err)
		testutil.AssertBalance(t, testutil.ReloadWallet(t, db, wallet.ID).Balance, 7000)
	})

	t.Run("zero_date_defaults_to_now", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		userID := testutil.NewUserID()
		wallet := testutil.CreateTestWallet(t, db, userID)
		cat := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeIncome)

		before := time.Now().Add(-time.Second)
		res, err := svc.CreateTransaction(userID, wallet.ID, cat.ID, models.TransactionTypeIncome, 1, "", "", time.Time{})
		testutil.AssertNoError(t, err)
		if res.Transaction.Date.Before(before) {
			t.Errorf("expected date near now, got %v", res.Transaction.Date)
		}
	})

	t.Run("non_positive_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		userID := testutil.NewUserID()
		wallet := testutil.CreateTestWallet(t, db, userID)
		cat := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeIncome)

		for _, amount := range []int64{0, -100} {
			_, err := svc.CreateTransaction(userID, wallet.ID, cat.ID, models.TransactionTypeIncome, amount, "", "", time.Now())
			testutil.AssertAppError(t, err, "INVALID_INPUT")
		}
		if n := testutil.CountTransactions(t, db, userID); n != 0 {
			t.Errorf("expected no transactions, got %d", n)
		}
	})

	t.Run("invalid_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		userID := testutil.NewUserID()
		wallet := testutil.CreateTestWallet(t, db, userID)

		_, err := svc.CreateTransaction(userID, wallet.ID, "", "transfer", 100, "", "", time.Now())
		testutil.AssertAppError(t, err, "INVALID_TRANSACTION_TYPE")
	})

	t.Run("wrong_user_wallet", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		owner := testutil.NewUserID()
		intruder := testutil.NewUserID()
		wallet := testutil.CreateTestWalletWithBalance(t, db, owner, 100)
		cat := testutil.CreateTestCategory(t, db, intruder, models.CategoryTypeExpense)

		_, err := svc.CreateTransaction(intruder, wallet.ID, cat.ID, models.TransactionTypeExpense, 50, "", "", time.Now())
		testutil.AssertAppError(t, err, "WALLET_NOT_FOUND")
		testutil.AssertBalance(t, testutil.ReloadWallet(t, db, wallet.ID).Balance, 100)
	})

	t.Run("frozen_wallet", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		userID := testutil.NewUserID()
		wallet := testutil.CreateFrozenWallet(t, db, userID, 100)
		cat := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeExpense)

		_, err := svc.CreateTransaction(userID, wallet.ID, cat.ID, models.TransactionTypeExpense, 50, "", "", time.Now())
		testutil.AssertAppError(t, err, "WALLET_FROZEN")
		testutil.AssertBalance(t, testutil.ReloadWallet(t, db, wallet.ID).Balance, 100)
		if n := testutil.CountTransactions(t, db, userID); n != 0 {
			t.Errorf("expected no transactions, got %d", n)
		}
	})

	t.Run("category_type_mismatch", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		userID := testutil.NewUserID()
		wallet := testutil.CreateTestWallet(t, db, userID)
		cat := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeIncome)

		_, err := svc.CreateTransaction(userID, wallet.ID, cat.ID, models.TransactionTypeExpense, 50, "", "", time.Now())
		testutil.AssertAppError(t, err, "CATEGORY_TYPE_MISMATCH")
	})

	t.Run("other_users_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		userID := testutil.NewUserID()
		wallet := testutil.CreateTestWallet(t, db, userID)
		cat := testutil.CreateTestCategory(t, db, testutil.NewUserID(), models.CategoryTypeExpense)

		_, err := svc.CreateTransaction(userID, wallet.ID, cat.ID, models.TransactionTypeExpense, 50, "", "", time.Now())
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("reserved_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		userID := testutil.NewUserID()
		wallet := testutil.CreateTestWallet(t, db, userID)

		_, err := svc.CreateTransaction(userID, wallet.ID, models.CategoryTransferOut, models.TransactionTypeExpense, 50, "", "", time.Now())
		testutil.AssertAppError(t, err, "RESERVED_CATEGORY")
	})
}

func TestUpdateTransaction(t *testing.T) {
	setup := func(t *testing.T) (TransactionServicer, string, *models.Wallet, *models.Category, *models.Transaction, func()) {
		db := testutil.SetupTestDB(t)
		svc := NewTransactionService(db)
		userID := testutil.NewUserID()
		wallet := testutil.CreateTestWalletWithBalance(t, db, userID, 1000)
		cat := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeExpense)
		res, err := svc.CreateTransaction(userID, wallet.ID, cat.ID, models.TransactionTypeExpense, 100, "coffee", "", time.Now())
		testutil.AssertNoError(t, err)
		return svc, userID, wallet, cat, res.Transaction, func() { testutil.TeardownTestDB(t, db) }
	}

	t.Run("amount_change_applies_net_delta", func(t *testing.T) {
		svc, userID, wallet, _, tx, done := setup(t)
		defer done()

		res, err := svc.UpdateTransaction(userID, tx.ID, TransactionUpdateFields{Amount: ptr[int64](150)})
		testutil.AssertNoError(t, err)
		if res.Transaction.Amount != 150 {
			t.Errorf("expected amount 150, got %d", res.Transaction.Amount)
		}
		if len(res.Wallets) != 1 || res.Wallets[0].ID != wallet.ID {
			t.Fatalf("expected the one touched wallet, got %+v", res.Wallets)
		}
		testutil.AssertBalance(t, res.Wallets[0].Balance, 850)
	})

	t.Run("note_only_keeps_balance", func(t *testing.T) {
		svc, userID, _, _, tx, done := setup(t)
		defer done()

		res, err := svc.UpdateTransaction(userID, tx.ID, TransactionUpdateFields{
			Note: ptr("tea"),
			Date: ptr(time.Now().Add(-24 * time.Hour)),
		})
		testutil.AssertNoError(t, err)
		if res.Transaction.Note != "tea" {
			t.Errorf("expected note tea, got %q", res.Transaction.Note)
		}
		testutil.AssertBalance(t, res.Wallets[0].Balance, 900)
	})

	t.Run("same_values_do_not_move_balance", func(t *testing.T) {
		svc, userID, _, _, tx, done := setup(t)
		defer done()

		res, err := svc.UpdateTransaction(userID, tx.ID, TransactionUpdateFields{
			Amount: ptr[int64](100),
			Type:   ptr(models.TransactionTypeExpense),
		})
		testutil.AssertNoError(t, err)
		testutil.AssertBalance(t, res.Wallets[0].Balance, 900)
	})

	t.Run("move_to_other_wallet", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		userID := testutil.NewUserID()
		a := testutil.CreateTestWalletWithBalance(t, db, userID, 1000)
		b := testutil.CreateTestWalletWithBalance(t, db, userID, 500)
		c := testutil.CreateTestWalletWithBalance(t, db, userID, 7)
		cat := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeExpense)
		created, err := svc.CreateTransaction(userID, a.ID, cat.ID, models.TransactionTypeExpense, 100, "", "", time.Now())
		testutil.AssertNoError(t, err)

		res, err := svc.UpdateTransaction(userID, created.Transaction.ID, TransactionUpdateFields{WalletID: ptr(b.ID)})
		testutil.AssertNoError(t, err)

		if len(res.Wallets) != 2 {
			t.Fatalf("expected both wallets returned, got %d", len(res.Wallets))
		}
		testutil.AssertBalance(t, testutil.ReloadWallet(t, db, a.ID).Balance, 1000)
		testutil.AssertBalance(t, testutil.ReloadWallet(t, db, b.ID).Balance, 400)
		testutil.AssertBalance(t, testutil.ReloadWallet(t, db, c.ID).Balance, 7)
	})

	t.Run("type_change_requires_matching_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		userID := testutil.NewUserID()
		wallet := testutil.CreateTestWalletWithBalance(t, db, userID, 1000)
		expenseCat := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeExpense)
		incomeCat := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeIncome)
		created, err := svc.CreateTransaction(userID, wallet.ID, expenseCat.ID, models.TransactionTypeExpense, 100, "", "", time.Now())
		testutil.AssertNoError(t, err)

		_, err = svc.UpdateTransaction(userID, created.Transaction.ID, TransactionUpdateFields{Type: ptr(models.TransactionTypeIncome)})
		testutil.AssertAppError(t, err, "CATEGORY_TYPE_MISMATCH")
		testutil.AssertBalance(t, testutil.ReloadWallet(t, db, wallet.ID).Balance, 900)

		res, err := svc.UpdateTransaction(userID, created.Transaction.ID, TransactionUpdateFields{
			Type:       ptr(models.TransactionTypeIncome),
			CategoryID: ptr(incomeCat.ID),
		})
		testutil.AssertNoError(t, err)
		testutil.AssertBalance(t, res.Wallets[0].Balance, 1100)
	})

	t.Run("old_wallet_frozen", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		userID := testutil.NewUserID()
		wallet := testutil.CreateTestWalletWithBalance(t, db, userID, 1000)
		cat := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeExpense)
		tx := testutil.CreateTestTransaction(t, db, userID, wallet.ID, cat.ID, models.TransactionTypeExpense, 100)
		db.Model(wallet).Update("is_frozen", true)

		_, err := svc.UpdateTransaction(userID, tx.ID, TransactionUpdateFields{Amount: ptr[int64](300)})
		testutil.AssertAppError(t, err, "WALLET_FROZEN")
		testutil.AssertBalance(t, testutil.ReloadWallet(t, db, wallet.ID).Balance, 1000)
	})

	t.Run("new_wallet_frozen", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		userID := testutil.NewUserID()
		a := testutil.CreateTestWalletWithBalance(t, db, userID, 1000)
		b := testutil.CreateFrozenWallet(t, db, userID, 500)
		cat := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeExpense)
		created, err := svc.CreateTransaction(userID, a.ID, cat.ID, models.TransactionTypeExpense, 100, "", "", time.Now())
		testutil.AssertNoError(t, err)

		_, err = svc.UpdateTransaction(userID, created.Transaction.ID, TransactionUpdateFields{WalletID: ptr(b.ID)})
		testutil.AssertAppError(t, err, "WALLET_FROZEN")
		testutil.AssertBalance(t, testutil.ReloadWallet(t, db, a.ID).Balance, 900)
		testutil.AssertBalance(t, testutil.ReloadWallet(t, db, b.ID).Balance, 500)
	})

	t.Run("not_found_for_other_user", func(t *testing.T) {
		svc, _, _, _, tx, done := setup(t)
		defer done()

		_, err := svc.UpdateTransaction(testutil.NewUserID(), tx.ID, TransactionUpdateFields{Note: ptr("x")})
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})

	t.Run("invalid_amount", func(t *testing.T) {
		svc, userID, _, _, tx, done := setup(t)
		defer done()

		_, err := svc.UpdateTransaction(userID, tx.ID, TransactionUpdateFields{Amount: ptr[int64](0)})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestDeleteTransaction(t *testing.T) {
	t.Run("round_trip_restores_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		userID := testutil.NewUserID()
		wallet := testutil.CreateTestWalletWithBalance(t, db, userID, 1000)
		cat := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeExpense)

		created, err := svc.CreateTransaction(userID, wallet.ID, cat.ID, models.TransactionTypeExpense, 400, "", "", time.Now())
		testutil.AssertNoError(t, err)

		res, err := svc.DeleteTransaction(userID, created.Transaction.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertBalance(t, res.Wallets[0].Balance, 1000)

		_, err = svc.GetTransactionByID(userID, created.Transaction.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})

	t.Run("frozen_wallet", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		userID := testutil.NewUserID()
		wallet := testutil.CreateTestWalletWithBalance(t, db, userID, 1000)
		cat := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeExpense)
		tx := testutil.CreateTestTransaction(t, db, userID, wallet.ID, cat.ID, models.TransactionTypeExpense, 100)
		db.Model(wallet).Update("is_frozen", true)

		_, err := svc.DeleteTransaction(userID, tx.ID)
		testutil.AssertAppError(t, err, "WALLET_FROZEN")
		if n := testutil.CountTransactions(t, db, userID); n != 1 {
			t.Errorf("expected transaction kept, got %d rows", n)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)

		_, err := svc.DeleteTransaction(testutil.NewUserID(), testutil.NewUserID())
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
		_, err = svc.DeleteTransaction(testutil.NewUserID(), "not-a-uuid")
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestBalanceMatchesHistory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTransactionService(db)
	userID := testutil.NewUserID()
	a := testutil.CreateTestWallet(t, db, userID)
	b := testutil.CreateTestWallet(t, db, userID)
	income := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeIncome)
	expense := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeExpense)

	r1, err := svc.CreateTransaction(userID, a.ID, income.ID, models.TransactionTypeIncome, 5000, "", "", time.Now())
	testutil.AssertNoError(t, err)
	r2, err := svc.CreateTransaction(userID, a.ID, expense.ID, models.TransactionTypeExpense, 1200, "", "", time.Now())
	testutil.AssertNoError(t, err)
	_, err = svc.CreateTransaction(userID, b.ID, expense.ID, models.TransactionTypeExpense, 300, "", "", time.Now())
	testutil.AssertNoError(t, err)
	_, err = svc.UpdateTransaction(userID, r2.Transaction.ID, TransactionUpdateFields{WalletID: ptr(b.ID), Amount: ptr[int64](700)})
	testutil.AssertNoError(t, err)
	_, err = svc.UpdateTransaction(userID, r1.Transaction.ID, TransactionUpdateFields{Amount: ptr[int64](4000)})
	testutil.AssertNoError(t, err)
	_, err = svc.DeleteTransaction(userID, r1.Transaction.ID)
	testutil.AssertNoError(t, err)

	testutil.AssertLedgerBalance(t, db, a.ID, 0)
	testutil.AssertLedgerBalance(t, db, b.ID, 0)
}

func TestGetUserTransactions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTransactionService(db)
	userID := testutil.NewUserID()
	a := testutil.CreateTestWallet(t, db, userID)
	b := testutil.CreateTestWallet(t, db, userID)
	cat := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeExpense)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	testutil.CreateTestTransactionAt(t, db, userID, a.ID, cat.ID, models.TransactionTypeExpense, 100, base)
	testutil.CreateTestTransactionAt(t, db, userID, a.ID, cat.ID, models.TransactionTypeExpense, 500, base.AddDate(0, 0, 1))
	testutil.CreateTestTransactionAt(t, db, userID, b.ID, cat.ID, models.TransactionTypeIncome, 300, base.AddDate(0, 0, 2))
	testutil.CreateTestTransactionAt(t, db, testutil.NewUserID(), a.ID, cat.ID, models.TransactionTypeExpense, 999, base)

	t.Run("default_sort_is_newest_first", func(t *testing.T) {
		page, err := svc.GetUserTransactions(userID, pagination.PageRequest{}, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 3 {
			t.Fatalf("expected 3 items, got %d", page.TotalItems)
		}
		if page.Data[0].Amount != 300 || page.Data[2].Amount != 100 {
			t.Errorf("unexpected order: %d, %d, %d", page.Data[0].Amount, page.Data[1].Amount, page.Data[2].Amount)
		}
	})

	t.Run("sort_by_amount", func(t *testing.T) {
		page, err := svc.GetUserTransactions(userID, pagination.PageRequest{Sort: "-amount"}, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if page.Data[0].Amount != 500 {
			t.Errorf("expected largest first, got %d", page.Data[0].Amount)
		}
	})

	t.Run("filters", func(t *testing.T) {
		from := base.AddDate(0, 0, 1)
		page, err := svc.GetUserTransactions(userID, pagination.PageRequest{}, TransactionFilter{
			FromDate: &from,
			Type:     ptr(models.TransactionTypeExpense),
		})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 1 || page.Data[0].Amount != 500 {
			t.Errorf("expected the 500 expense only, got %+v", page.Data)
		}

		page, err = svc.GetUserTransactions(userID, pagination.PageRequest{}, TransactionFilter{MinAmount: ptr[int64](200), MaxAmount: ptr[int64](400)})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 1 || page.Data[0].Amount != 300 {
			t.Errorf("expected the 300 income only, got %+v", page.Data)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		page, err := svc.GetUserTransactions(userID, pagination.PageRequest{Page: 2, PageSize: 2}, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if len(page.Data) != 1 || page.TotalPages != 2 {
			t.Errorf("expected 1 item on page 2 of 2, got %d items, %d pages", len(page.Data), page.TotalPages)
		}
	})

	t.Run("wallet_transactions", func(t *testing.T) {
		page, err := svc.GetWalletTransactions(userID, b.ID, pagination.PageRequest{}, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 1 {
			t.Errorf("expected 1 transaction on wallet b, got %d", page.TotalItems)
		}

		_, err = svc.GetWalletTransactions(testutil.NewUserID(), b.ID, pagination.PageRequest{}, TransactionFilter{})
		testutil.AssertAppError(t, err, "WALLET_NOT_FOUND")
	})
}
