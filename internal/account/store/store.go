package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/envelope/internal/account"
	"github.com/MrJamesThe3rd/envelope/internal/database"
)

type Store struct {
	db database.Querier
}

func New(db database.Querier) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Expected column order: id, user_id, name, type, currency, archived, initial_balance,
// current_balance, pointed_balance, reconciled_balance, created_at, updated_at
func scanAccount(s scanner) (*account.Account, error) {
	var a account.Account

	var typeStr string

	if err := s.Scan(
		&a.ID, &a.UserID, &a.Name, &typeStr, &a.Currency, &a.Archived,
		&a.InitialBalance, &a.CurrentBalance, &a.PointedBalance, &a.ReconciledBalance,
		&a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}

	a.Type = account.Type(typeStr)

	return &a, nil
}

const selectAccountColumns = `
	id, user_id, name, type, currency, archived, initial_balance,
	current_balance, pointed_balance, reconciled_balance, created_at, updated_at
`

func (s *Store) CreateAccount(ctx context.Context, a *account.Account) error {
	query := `
		INSERT INTO accounts (user_id, name, type, currency, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, a.UserID, a.Name, a.Type, a.Currency).
		Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating account: %w", err)
	}

	return nil
}

func (s *Store) GetAccount(ctx context.Context, userID, id uuid.UUID) (*account.Account, error) {
	query := `SELECT ` + selectAccountColumns + ` FROM accounts WHERE id = $1 AND user_id = $2`

	return s.getAccount(ctx, query, id, userID)
}

// GetAccountForUpdate loads the account and locks its row until the
// surrounding transaction ends.
func (s *Store) GetAccountForUpdate(ctx context.Context, userID, id uuid.UUID) (*account.Account, error) {
	query := `SELECT ` + selectAccountColumns + ` FROM accounts WHERE id = $1 AND user_id = $2 FOR UPDATE`

	return s.getAccount(ctx, query, id, userID)
}

func (s *Store) getAccount(ctx context.Context, query string, args ...any) (*account.Account, error) {
	a, err := scanAccount(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, account.ErrNotFound
		}

		return nil, fmt.Errorf("getting account: %w", err)
	}

	return a, nil
}

func (s *Store) ListAccounts(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*account.Account, error) {
	query := `SELECT ` + selectAccountColumns + ` FROM accounts WHERE user_id = $1`
	if !includeArchived {
		query += " AND NOT archived"
	}

	query += " ORDER BY name ASC, created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account

	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}

		accounts = append(accounts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating account rows: %w", err)
	}

	return accounts, nil
}

func (s *Store) UpdateAccount(ctx context.Context, a *account.Account) error {
	query := `
		UPDATE accounts
		SET name = $1, type = $2, currency = $3, updated_at = NOW()
		WHERE id = $4 AND user_id = $5
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query, a.Name, a.Type, a.Currency, a.ID, a.UserID).Scan(&a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return account.ErrNotFound
		}

		return fmt.Errorf("updating account: %w", err)
	}

	return nil
}

func (s *Store) ArchiveAccount(ctx context.Context, userID, id uuid.UUID) error {
	query := `UPDATE accounts SET archived = TRUE, updated_at = NOW() WHERE id = $1 AND user_id = $2`

	res, err := s.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("archiving account: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("archiving account: %w", err)
	}

	if n == 0 {
		return account.ErrNotFound
	}

	return nil
}

// UpdateBalances persists the four derived balance fields of a.
func (s *Store) UpdateBalances(ctx context.Context, a *account.Account) error {
	query := `
		UPDATE accounts
		SET initial_balance = $1, current_balance = $2, pointed_balance = $3, reconciled_balance = $4, updated_at = NOW()
		WHERE id = $5 AND user_id = $6
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		a.InitialBalance, a.CurrentBalance, a.PointedBalance, a.ReconciledBalance, a.ID, a.UserID,
	).Scan(&a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return account.ErrNotFound
		}

		return fmt.Errorf("updating account balances: %w", err)
	}

	return nil
}
