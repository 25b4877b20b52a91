package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/envelope/internal/database"
	"github.com/MrJamesThe3rd/envelope/internal/matching"
)

type Store struct {
	db database.Querier
}

func New(db database.Querier) *Store {
	return &Store{db: db}
}

const selectRuleColumns = `id, user_id, pattern, category_id, created_at`

func (s *Store) FindMatch(ctx context.Context, userID uuid.UUID, label string) (*matching.Rule, error) {
	query := `SELECT ` + selectRuleColumns + `
		FROM category_rules
		WHERE user_id = $1 AND $2 ILIKE '%' || pattern || '%'
		ORDER BY LENGTH(pattern) DESC, created_at DESC
		LIMIT 1
	`

	var r matching.Rule

	err := s.db.QueryRowContext(ctx, query, userID, label).Scan(&r.ID, &r.UserID, &r.Pattern, &r.CategoryID, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("finding match: %w", err)
	}

	return &r, nil
}

func (s *Store) SaveRule(ctx context.Context, r *matching.Rule) error {
	query := `
		INSERT INTO category_rules (user_id, pattern, category_id, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, pattern) DO UPDATE SET category_id = EXCLUDED.category_id
		RETURNING id, created_at
	`

	if err := s.db.QueryRowContext(ctx, query, r.UserID, r.Pattern, r.CategoryID).Scan(&r.ID, &r.CreatedAt); err != nil {
		return fmt.Errorf("saving rule: %w", err)
	}

	return nil
}

func (s *Store) ListRules(ctx context.Context, userID uuid.UUID) ([]*matching.Rule, error) {
	query := `SELECT ` + selectRuleColumns + ` FROM category_rules WHERE user_id = $1 ORDER BY pattern ASC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing rules: %w", err)
	}
	defer rows.Close()

	var rules []*matching.Rule

	for rows.Next() {
		var r matching.Rule
		if err := rows.Scan(&r.ID, &r.UserID, &r.Pattern, &r.CategoryID, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning rule: %w", err)
		}

		rules = append(rules, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rule rows: %w", err)
	}

	return rules, nil
}

func (s *Store) DeleteRule(ctx context.Context, userID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM category_rules WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting rule: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting rule: %w", err)
	}

	if n == 0 {
		return matching.ErrNotFound
	}

	return nil
}
