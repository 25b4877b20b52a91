package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/envelope/internal/apperr"
	"github.com/MrJamesThe3rd/envelope/internal/budget"
	"github.com/MrJamesThe3rd/envelope/internal/category"
	"github.com/MrJamesThe3rd/envelope/internal/database"
)

type Store struct {
	db database.Querier
}

func New(db database.Querier) *Store {
	return &Store{db: db}
}

// Transactor runs budget units of work on a Postgres transaction.
type Transactor struct {
	db *sql.DB
}

func NewTransactor(db *sql.DB) *Transactor {
	return &Transactor{db: db}
}

func (t *Transactor) InTx(ctx context.Context, fn func(repo budget.Repository) error) error {
	return database.InTx(ctx, t.db, func(tx *sql.Tx) error {
		return fn(New(tx))
	})
}

type scanner interface {
	Scan(dest ...any) error
}

const selectMonthColumns = `
	id, user_id, month, income, available_carryover, assigned, activity, available, created_at, updated_at
`

func scanMonth(s scanner) (*budget.Month, error) {
	var m budget.Month

	if err := s.Scan(
		&m.ID, &m.UserID, &m.Month, &m.Income, &m.AvailableCarryover,
		&m.Assigned, &m.Activity, &m.Available, &m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return nil, err
	}

	m.Month = m.Month.UTC()

	return &m, nil
}

func (s *Store) getMonth(ctx context.Context, query string, args ...any) (*budget.Month, error) {
	m, err := scanMonth(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, budget.ErrMonthNotFound
		}

		return nil, fmt.Errorf("getting budget month: %w", err)
	}

	return m, nil
}

func (s *Store) FindMonth(ctx context.Context, userID uuid.UUID, month time.Time) (*budget.Month, error) {
	start := budget.StartOfMonth(month)
	query := `SELECT ` + selectMonthColumns + `
		FROM budget_months
		WHERE user_id = $1 AND month >= $2 AND month < $3
		ORDER BY month ASC
		LIMIT 1`

	return s.getMonth(ctx, query, userID, start, start.AddDate(0, 1, 0))
}

// FindMonthForUpdate locks the month row until the surrounding transaction
// ends. A concurrent recalculation of the same month waits here and then
// reads the activity the other one committed.
func (s *Store) FindMonthForUpdate(ctx context.Context, userID uuid.UUID, month time.Time) (*budget.Month, error) {
	start := budget.StartOfMonth(month)
	query := `SELECT ` + selectMonthColumns + `
		FROM budget_months
		WHERE user_id = $1 AND month >= $2 AND month < $3
		ORDER BY month ASC
		LIMIT 1
		FOR UPDATE`

	return s.getMonth(ctx, query, userID, start, start.AddDate(0, 1, 0))
}

func (s *Store) FirstMonthWithCategory(ctx context.Context, userID, categoryID uuid.UUID) (*budget.Month, error) {
	query := `SELECT ` + selectMonthColumns + `
		FROM budget_months
		WHERE user_id = $1 AND (
			EXISTS (SELECT 1 FROM budget_category_groups g
				WHERE g.month_id = budget_months.id AND g.category_id = $2)
			OR EXISTS (SELECT 1 FROM budget_category_entries e
				JOIN budget_category_groups g ON g.id = e.group_id
				WHERE g.month_id = budget_months.id AND e.category_id = $2)
		)
		ORDER BY month ASC
		LIMIT 1`

	return s.getMonth(ctx, query, userID, categoryID)
}

func (s *Store) GetMonth(ctx context.Context, userID, id uuid.UUID) (*budget.Month, error) {
	query := `SELECT ` + selectMonthColumns + ` FROM budget_months WHERE id = $1 AND user_id = $2`

	return s.getMonth(ctx, query, id, userID)
}

// CreateMonth inserts m, reporting a conflict when another unit of work
// created the same month first.
func (s *Store) CreateMonth(ctx context.Context, m *budget.Month) error {
	query := `
		INSERT INTO budget_months (user_id, month, income, available_carryover, assigned, activity, available, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (user_id, month) DO NOTHING
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		m.UserID, m.Month, m.Income, m.AvailableCarryover, m.Assigned, m.Activity, m.Available,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.Conflict("budget month %s already exists", budget.MonthKey(m.Month))
		}

		return fmt.Errorf("creating budget month: %w", err)
	}

	return nil
}

func (s *Store) UpdateMonth(ctx context.Context, m *budget.Month) error {
	query := `
		UPDATE budget_months
		SET month = $1, income = $2, available_carryover = $3, assigned = $4, activity = $5, available = $6, updated_at = NOW()
		WHERE id = $7 AND user_id = $8
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		m.Month, m.Income, m.AvailableCarryover, m.Assigned, m.Activity, m.Available, m.ID, m.UserID,
	).Scan(&m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return budget.ErrMonthNotFound
		}

		return fmt.Errorf("updating budget month: %w", err)
	}

	return nil
}

func (s *Store) ListMonthsFrom(ctx context.Context, userID uuid.UUID, from time.Time) ([]*budget.Month, error) {
	query := `SELECT ` + selectMonthColumns + `
		FROM budget_months
		WHERE user_id = $1 AND month >= $2
		ORDER BY month ASC`

	rows, err := s.db.QueryContext(ctx, query, userID, budget.StartOfMonth(from))
	if err != nil {
		return nil, fmt.Errorf("listing budget months: %w", err)
	}
	defer rows.Close()

	var months []*budget.Month

	for rows.Next() {
		m, err := scanMonth(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning budget month: %w", err)
		}

		months = append(months, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating budget month rows: %w", err)
	}

	return months, nil
}

func (s *Store) ListExpenseCategories(ctx context.Context, userID uuid.UUID) ([]*category.Category, error) {
	query := `
		SELECT id, user_id, name, kind, parent_id, created_at, updated_at
		FROM categories
		WHERE user_id = $1 AND kind = $2
		ORDER BY parent_id IS NOT NULL, name ASC`

	rows, err := s.db.QueryContext(ctx, query, userID, category.KindExpense)
	if err != nil {
		return nil, fmt.Errorf("listing expense categories: %w", err)
	}
	defer rows.Close()

	var cats []*category.Category

	for rows.Next() {
		var (
			c    category.Category
			kind string
		)

		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &kind, &c.ParentID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		c.Kind = category.Kind(kind)
		cats = append(cats, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category rows: %w", err)
	}

	return cats, nil
}

func (s *Store) ListGroups(ctx context.Context, monthID uuid.UUID) ([]*budget.Group, error) {
	query := `
		SELECT g.id, m.user_id, g.month_id, g.category_id, g.assigned, g.activity, g.available
		FROM budget_category_groups g
		JOIN budget_months m ON m.id = g.month_id
		WHERE g.month_id = $1`

	rows, err := s.db.QueryContext(ctx, query, monthID)
	if err != nil {
		return nil, fmt.Errorf("listing budget groups: %w", err)
	}
	defer rows.Close()

	var groups []*budget.Group

	for rows.Next() {
		var g budget.Group
		if err := rows.Scan(&g.ID, &g.UserID, &g.MonthID, &g.CategoryID, &g.Assigned, &g.Activity, &g.Available); err != nil {
			return nil, fmt.Errorf("scanning budget group: %w", err)
		}

		groups = append(groups, &g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating budget group rows: %w", err)
	}

	return groups, nil
}

func (s *Store) CreateGroup(ctx context.Context, g *budget.Group) error {
	query := `
		INSERT INTO budget_category_groups (month_id, category_id, assigned, activity, available)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	if err := s.db.QueryRowContext(ctx, query, g.MonthID, g.CategoryID, g.Assigned, g.Activity, g.Available).Scan(&g.ID); err != nil {
		if database.IsUniqueViolation(err) {
			return apperr.Conflict("budget group already exists")
		}

		return fmt.Errorf("creating budget group: %w", err)
	}

	return nil
}

func (s *Store) UpdateGroup(ctx context.Context, g *budget.Group) error {
	query := `UPDATE budget_category_groups SET assigned = $1, activity = $2, available = $3 WHERE id = $4`

	if _, err := s.db.ExecContext(ctx, query, g.Assigned, g.Activity, g.Available, g.ID); err != nil {
		return fmt.Errorf("updating budget group: %w", err)
	}

	return nil
}

func (s *Store) ListEntries(ctx context.Context, monthID uuid.UUID) ([]*budget.Entry, error) {
	query := `
		SELECT e.id, m.user_id, e.group_id, e.category_id, e.assigned, e.activity, e.available
		FROM budget_category_entries e
		JOIN budget_category_groups g ON g.id = e.group_id
		JOIN budget_months m ON m.id = g.month_id
		WHERE g.month_id = $1`

	rows, err := s.db.QueryContext(ctx, query, monthID)
	if err != nil {
		return nil, fmt.Errorf("listing budget entries: %w", err)
	}
	defer rows.Close()

	var entries []*budget.Entry

	for rows.Next() {
		var e budget.Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.GroupID, &e.CategoryID, &e.Assigned, &e.Activity, &e.Available); err != nil {
			return nil, fmt.Errorf("scanning budget entry: %w", err)
		}

		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating budget entry rows: %w", err)
	}

	return entries, nil
}

func (s *Store) CreateEntry(ctx context.Context, e *budget.Entry) error {
	query := `
		INSERT INTO budget_category_entries (group_id, category_id, assigned, activity, available)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	if err := s.db.QueryRowContext(ctx, query, e.GroupID, e.CategoryID, e.Assigned, e.Activity, e.Available).Scan(&e.ID); err != nil {
		if database.IsUniqueViolation(err) {
			return apperr.Conflict("budget entry already exists")
		}

		return fmt.Errorf("creating budget entry: %w", err)
	}

	return nil
}

func (s *Store) UpdateEntry(ctx context.Context, e *budget.Entry) error {
	query := `
		UPDATE budget_category_entries
		SET group_id = $1, assigned = $2, activity = $3, available = $4
		WHERE id = $5
	`

	if _, err := s.db.ExecContext(ctx, query, e.GroupID, e.Assigned, e.Activity, e.Available, e.ID); err != nil {
		return fmt.Errorf("updating budget entry: %w", err)
	}

	return nil
}

func (s *Store) SumByCategoryKind(ctx context.Context, userID uuid.UUID, kind category.Kind, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(t.amount), 0)
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1 AND c.kind = $2 AND t.date >= $3 AND t.date < $4
	`

	var sum decimal.Decimal
	if err := s.db.QueryRowContext(ctx, query, userID, kind, from, to).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("summing %s transactions: %w", kind, err)
	}

	return sum, nil
}

func (s *Store) ActivityByCategory(ctx context.Context, userID uuid.UUID, from, to time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	query := `
		SELECT category_id, SUM(amount)
		FROM transactions
		WHERE user_id = $1 AND category_id IS NOT NULL AND date >= $2 AND date < $3
		GROUP BY category_id
	`

	rows, err := s.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("summing category activity: %w", err)
	}
	defer rows.Close()

	activity := make(map[uuid.UUID]decimal.Decimal)

	for rows.Next() {
		var (
			id  uuid.UUID
			sum decimal.Decimal
		)

		if err := rows.Scan(&id, &sum); err != nil {
			return nil, fmt.Errorf("scanning category activity: %w", err)
		}

		activity[id] = sum
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category activity rows: %w", err)
	}

	return activity, nil
}

func (s *Store) MonthlyActivity(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]budget.CategoryActivity, error) {
	query := `
		SELECT category_id, date_trunc('month', date)::date AS month, SUM(amount)
		FROM transactions
		WHERE user_id = $1 AND category_id IS NOT NULL AND date >= $2 AND date < $3
		GROUP BY category_id, month
		ORDER BY month ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("loading monthly activity: %w", err)
	}
	defer rows.Close()

	var history []budget.CategoryActivity

	for rows.Next() {
		var a budget.CategoryActivity
		if err := rows.Scan(&a.CategoryID, &a.Month, &a.Amount); err != nil {
			return nil, fmt.Errorf("scanning monthly activity: %w", err)
		}

		history = append(history, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating monthly activity rows: %w", err)
	}

	return history, nil
}
