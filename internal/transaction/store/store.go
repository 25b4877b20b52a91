package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	accountStore "github.com/MrJamesThe3rd/envelope/internal/account/store"
	"github.com/MrJamesThe3rd/envelope/internal/apperr"
	budgetStore "github.com/MrJamesThe3rd/envelope/internal/budget/store"
	categoryStore "github.com/MrJamesThe3rd/envelope/internal/category/store"
	"github.com/MrJamesThe3rd/envelope/internal/database"
	"github.com/MrJamesThe3rd/envelope/internal/transaction"
)

type Store struct {
	db database.Querier
}

func New(db database.Querier) *Store {
	return &Store{db: db}
}

// Transactor runs transaction units of work on a single Postgres
// transaction shared by every store.
type Transactor struct {
	db *sql.DB
}

func NewTransactor(db *sql.DB) *Transactor {
	return &Transactor{db: db}
}

func (t *Transactor) InTx(ctx context.Context, fn func(st transaction.Stores) error) error {
	return database.InTx(ctx, t.db, func(tx *sql.Tx) error {
		return fn(transaction.Stores{
			Transactions: New(tx),
			Accounts:     accountStore.New(tx),
			Categories:   categoryStore.New(tx),
			Budget:       budgetStore.New(tx),
		})
	})
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanTransaction reads a transaction row from the scanner and returns a populated Transaction.
// Expected column order: id, user_id, account_id, date, label, amount, category_id, status, type,
// linked_transaction_id, created_at, updated_at
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var t transaction.Transaction

	var statusStr, typeStr string

	if err := s.Scan(
		&t.ID, &t.UserID, &t.AccountID, &t.Date, &t.Label, &t.Amount, &t.CategoryID,
		&statusStr, &typeStr, &t.LinkedTransactionID, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}

	t.Date = transaction.Day(t.Date)
	t.Status = transaction.Status(statusStr)
	t.Type = transaction.Type(typeStr)

	return &t, nil
}

const selectTransactionColumns = `
	t.id, t.user_id, t.account_id, t.date, t.label, t.amount, t.category_id, t.status, t.type,
	t.linked_transaction_id, t.created_at, t.updated_at
`

// CreateTransaction inserts t. created_at uses the wall clock rather than
// the transaction start so rows of one batch keep their insertion order.
func (s *Store) CreateTransaction(ctx context.Context, t *transaction.Transaction) error {
	query := `
		INSERT INTO transactions (user_id, account_id, date, label, amount, category_id, status, type, linked_transaction_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, clock_timestamp())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		t.UserID,
		t.AccountID,
		t.Date,
		t.Label,
		t.Amount,
		t.CategoryID,
		t.Status,
		t.Type,
		t.LinkedTransactionID,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperr.Conflict("account already has an initial transaction")
		}

		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, userID, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.id = $1 AND t.user_id = $2`

	t, err := scanTransaction(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return t, nil
}

func (s *Store) FindInitial(ctx context.Context, userID, accountID uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.account_id = $1 AND t.user_id = $2 AND t.type = $3`

	t, err := scanTransaction(s.db.QueryRowContext(ctx, query, accountID, userID, transaction.TypeInitial))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("finding initial transaction: %w", err)
	}

	return t, nil
}

func (s *Store) ListTransactions(ctx context.Context, userID uuid.UUID, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.user_id = $1 AND t.account_id = $2`

	args := []any{userID, filter.AccountID}

	argIdx := 3

	if filter.DateFrom != nil {
		query += fmt.Sprintf(" AND t.date >= $%d", argIdx)

		args = append(args, *filter.DateFrom)
		argIdx++
	}

	if filter.DateTo != nil {
		query += fmt.Sprintf(" AND t.date <= $%d", argIdx)

		args = append(args, *filter.DateTo)
		argIdx++
	}

	if filter.Search != "" {
		query += fmt.Sprintf(" AND t.label ILIKE $%d", argIdx)

		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND t.status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.Type != nil {
		query += fmt.Sprintf(" AND t.type = $%d", argIdx)

		args = append(args, *filter.Type)
		argIdx++
	}

	query += fmt.Sprintf(" ORDER BY t.date DESC, t.created_at DESC, t.id DESC OFFSET $%d LIMIT $%d", argIdx, argIdx+1)

	args = append(args, filter.Skip, filter.Take)

	return s.queryTransactions(ctx, "listing transactions", query, args...)
}

func (s *Store) ListLedger(ctx context.Context, userID, accountID uuid.UUID) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.user_id = $1 AND t.account_id = $2
		ORDER BY t.date ASC, t.created_at ASC, t.id ASC`

	return s.queryTransactions(ctx, "loading ledger", query, userID, accountID)
}

func (s *Store) queryTransactions(ctx context.Context, what, query string, args ...any) ([]*transaction.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txs, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, t *transaction.Transaction) error {
	query := `
		UPDATE transactions
		SET date = $1, label = $2, amount = $3, category_id = $4, status = $5, type = $6,
			linked_transaction_id = $7, updated_at = NOW()
		WHERE id = $8 AND user_id = $9
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		t.Date,
		t.Label,
		t.Amount,
		t.CategoryID,
		t.Status,
		t.Type,
		t.LinkedTransactionID,
		t.ID,
		t.UserID,
	).Scan(&t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return transaction.ErrNotFound
		}

		return fmt.Errorf("updating transaction: %w", err)
	}

	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, userID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	if n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

// FindDuplicates returns the account's transactions that share date, amount
// and label with one of params.
func (s *Store) FindDuplicates(ctx context.Context, userID, accountID uuid.UUID, params []transaction.CreateParams) ([]*transaction.Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	type lookupKey struct {
		Date   string
		Amount string
		Label  string
	}

	// Find min/max dates and build lookup set.
	minDate := params[0].Date
	maxDate := params[0].Date
	keySet := make(map[lookupKey]struct{}, len(params))

	for _, p := range params {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}

		if p.Date.After(maxDate) {
			maxDate = p.Date
		}

		keySet[lookupKey{
			Date:   p.Date.Format("2006-01-02"),
			Amount: p.Amount.StringFixed(2),
			Label:  p.Label,
		}] = struct{}{}
	}

	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.user_id = $1 AND t.account_id = $2 AND t.date >= $3 AND t.date <= $4
		ORDER BY t.date ASC`

	candidates, err := s.queryTransactions(ctx, "finding duplicates", query, userID, accountID, minDate, maxDate)
	if err != nil {
		return nil, err
	}

	var duplicates []*transaction.Transaction

	for _, t := range candidates {
		k := lookupKey{
			Date:   t.Date.Format("2006-01-02"),
			Amount: t.Amount.StringFixed(2),
			Label:  t.Label,
		}

		if _, found := keySet[k]; found {
			duplicates = append(duplicates, t)
		}
	}

	return duplicates, nil
}
