package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/envelope/internal/apperr"
	"github.com/MrJamesThe3rd/envelope/internal/budget"
	budgetStore "github.com/MrJamesThe3rd/envelope/internal/budget/store"
	"github.com/MrJamesThe3rd/envelope/internal/category"
	"github.com/MrJamesThe3rd/envelope/internal/database"
)

type Store struct {
	db database.Querier
}

func New(db database.Querier) *Store {
	return &Store{db: db}
}

// Transactor runs category units of work on a Postgres transaction shared
// with the budget tables.
type Transactor struct {
	db *sql.DB
}

func NewTransactor(db *sql.DB) *Transactor {
	return &Transactor{db: db}
}

func (t *Transactor) InTx(ctx context.Context, fn func(st category.Stores) error) error {
	return database.InTx(ctx, t.db, func(tx *sql.Tx) error {
		return fn(category.Stores{
			Categories: New(tx),
			Budget:     budget.CategorySync{Repo: budgetStore.New(tx)},
		})
	})
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCategory(s scanner) (*category.Category, error) {
	var c category.Category

	var kind string

	if err := s.Scan(&c.ID, &c.UserID, &c.Name, &kind, &c.ParentID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}

	c.Kind = category.Kind(kind)

	return &c, nil
}

const selectCategoryColumns = `id, user_id, name, kind, parent_id, created_at, updated_at`

// CreateCategory inserts c. A second system category of the same kind for
// the user is reported as a conflict without aborting the surrounding
// transaction.
func (s *Store) CreateCategory(ctx context.Context, c *category.Category) error {
	query := `
		INSERT INTO categories (user_id, name, kind, parent_id, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id, kind) WHERE kind <> 'EXPENSE' DO NOTHING
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, c.UserID, c.Name, c.Kind, c.ParentID).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.Conflict("a %s category already exists", c.Kind)
		}

		return fmt.Errorf("creating category: %w", err)
	}

	return nil
}

func (s *Store) GetCategory(ctx context.Context, userID, id uuid.UUID) (*category.Category, error) {
	query := `SELECT ` + selectCategoryColumns + ` FROM categories WHERE id = $1 AND user_id = $2`

	c, err := scanCategory(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, category.ErrNotFound
		}

		return nil, fmt.Errorf("getting category: %w", err)
	}

	return c, nil
}

func (s *Store) FindSystemCategory(ctx context.Context, userID uuid.UUID, kind category.Kind) (*category.Category, error) {
	query := `SELECT ` + selectCategoryColumns + ` FROM categories WHERE user_id = $1 AND kind = $2 LIMIT 1`

	c, err := scanCategory(s.db.QueryRowContext(ctx, query, userID, kind))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, category.ErrNotFound
		}

		return nil, fmt.Errorf("finding %s category: %w", kind, err)
	}

	return c, nil
}

// ListCategories returns groups before their children, each level by name.
func (s *Store) ListCategories(ctx context.Context, userID uuid.UUID) ([]*category.Category, error) {
	query := `SELECT ` + selectCategoryColumns + `
		FROM categories
		WHERE user_id = $1
		ORDER BY parent_id IS NOT NULL, name ASC, created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []*category.Category

	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category rows: %w", err)
	}

	return categories, nil
}

func (s *Store) UpdateCategory(ctx context.Context, c *category.Category) error {
	query := `
		UPDATE categories
		SET name = $1, parent_id = $2, updated_at = NOW()
		WHERE id = $3 AND user_id = $4
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query, c.Name, c.ParentID, c.ID, c.UserID).Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return category.ErrNotFound
		}

		return fmt.Errorf("updating category: %w", err)
	}

	return nil
}

func (s *Store) DeleteCategory(ctx context.Context, userID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}

	if n == 0 {
		return category.ErrNotFound
	}

	return nil
}

func (s *Store) CountChildren(ctx context.Context, userID, id uuid.UUID) (int, error) {
	var n int

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE user_id = $1 AND parent_id = $2`, userID, id,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting child categories: %w", err)
	}

	return n, nil
}
