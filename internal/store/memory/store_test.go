package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/envelope/internal/account"
	"github.com/MrJamesThe3rd/envelope/internal/apperr"
	"github.com/MrJamesThe3rd/envelope/internal/category"
	"github.com/MrJamesThe3rd/envelope/internal/matching"
	"github.com/MrJamesThe3rd/envelope/internal/store/memory"
	"github.com/MrJamesThe3rd/envelope/internal/transaction"
)

func TestStore_RollsBackFailedUnitOfWork(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	userID := uuid.New()

	a := &account.Account{UserID: userID, Name: "Main", Type: account.TypeCash}
	require.NoError(t, s.Accounts().CreateAccount(ctx, a))

	boom := errors.New("boom")

	err := s.LedgerTransactor().InTx(ctx, func(st transaction.Stores) error {
		row := &transaction.Transaction{UserID: userID, AccountID: a.ID, Date: time.Now(), Label: "x", Amount: decimal.NewFromInt(5)}
		if err := st.Transactions.CreateTransaction(ctx, row); err != nil {
			return err
		}

		return boom
	})
	require.ErrorIs(t, err, boom)

	err = s.LedgerTransactor().InTx(ctx, func(st transaction.Stores) error {
		ledger, err := st.Transactions.ListLedger(ctx, userID, a.ID)
		assert.Empty(t, ledger)

		return err
	})
	require.NoError(t, err)
}

func TestStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	userID := uuid.New()

	a := &account.Account{UserID: userID, Name: "Main", Type: account.TypeCash}
	require.NoError(t, s.Accounts().CreateAccount(ctx, a))

	got, err := s.Accounts().GetAccount(ctx, userID, a.ID)
	require.NoError(t, err)

	got.Name = "Changed"

	again, err := s.Accounts().GetAccount(ctx, userID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Main", again.Name)

	_, err = s.Accounts().GetAccount(ctx, uuid.New(), a.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestStore_SystemCategoryConflict(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	userID := uuid.New()

	require.NoError(t, s.Categories().CreateCategory(ctx, &category.Category{UserID: userID, Name: "Income", Kind: category.KindIncome}))

	err := s.Categories().CreateCategory(ctx, &category.Category{UserID: userID, Name: "Salary", Kind: category.KindIncome})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	// other users and expense categories are unaffected
	require.NoError(t, s.Categories().CreateCategory(ctx, &category.Category{UserID: uuid.New(), Name: "Income", Kind: category.KindIncome}))
	require.NoError(t, s.Categories().CreateCategory(ctx, &category.Category{UserID: userID, Name: "Food", Kind: category.KindExpense}))
	require.NoError(t, s.Categories().CreateCategory(ctx, &category.Category{UserID: userID, Name: "Food", Kind: category.KindExpense}))
}

func TestStore_DeleteCategoryCascades(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	userID := uuid.New()

	a := &account.Account{UserID: userID, Name: "Main", Type: account.TypeCash}
	require.NoError(t, s.Accounts().CreateAccount(ctx, a))

	food := &category.Category{UserID: userID, Name: "Food", Kind: category.KindExpense}
	require.NoError(t, s.Categories().CreateCategory(ctx, food))

	var spent *transaction.Transaction

	err := s.LedgerTransactor().InTx(ctx, func(st transaction.Stores) error {
		spent = &transaction.Transaction{UserID: userID, AccountID: a.ID, Date: time.Now(), Label: "x", Amount: decimal.NewFromInt(-5), CategoryID: &food.ID}
		return st.Transactions.CreateTransaction(ctx, spent)
	})
	require.NoError(t, err)

	_, err = matching.NewService(s.Rules(), s.Categories()).Learn(ctx, userID, "bakery", food.ID)
	require.NoError(t, err)

	require.NoError(t, s.Categories().DeleteCategory(ctx, userID, food.ID))

	err = s.LedgerTransactor().InTx(ctx, func(st transaction.Stores) error {
		got, err := st.Transactions.GetTransaction(ctx, userID, spent.ID)
		if err != nil {
			return err
		}

		assert.Nil(t, got.CategoryID)

		return nil
	})
	require.NoError(t, err)

	rules, err := s.Rules().ListRules(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestStore_ListTransactionsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	userID := uuid.New()

	a := &account.Account{UserID: userID, Name: "Main", Type: account.TypeCash}
	require.NoError(t, s.Accounts().CreateAccount(ctx, a))

	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	err := s.LedgerTransactor().InTx(ctx, func(st transaction.Stores) error {
		for _, label := range []string{"first", "second", "third"} {
			if err := st.Transactions.CreateTransaction(ctx, &transaction.Transaction{
				UserID: userID, AccountID: a.ID, Date: date, Label: label, Amount: decimal.NewFromInt(1),
			}); err != nil {
				return err
			}
		}

		txs, err := st.Transactions.ListTransactions(ctx, userID, transaction.ListFilter{AccountID: a.ID, Take: 2})
		if err != nil {
			return err
		}

		require.Len(t, txs, 2)
		assert.Equal(t, "third", txs[0].Label)
		assert.Equal(t, "second", txs[1].Label)

		return nil
	})
	require.NoError(t, err)
}
