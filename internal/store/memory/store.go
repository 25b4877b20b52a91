// Package memory is an in-process implementation of every repository. It
// backs the API when no database is configured and drives the service
// tests. Units of work are serialized by a single lock and rolled back by
// restoring a snapshot.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/envelope/internal/account"
	"github.com/MrJamesThe3rd/envelope/internal/budget"
	"github.com/MrJamesThe3rd/envelope/internal/category"
	"github.com/MrJamesThe3rd/envelope/internal/matching"
	"github.com/MrJamesThe3rd/envelope/internal/transaction"
)

type data struct {
	accounts     map[uuid.UUID]account.Account
	categories   map[uuid.UUID]category.Category
	transactions map[uuid.UUID]transaction.Transaction
	months       map[uuid.UUID]budget.Month
	groups       map[uuid.UUID]budget.Group
	entries      map[uuid.UUID]budget.Entry
	rules        map[uuid.UUID]matching.Rule
}

func newData() *data {
	return &data{
		accounts:     make(map[uuid.UUID]account.Account),
		categories:   make(map[uuid.UUID]category.Category),
		transactions: make(map[uuid.UUID]transaction.Transaction),
		months:       make(map[uuid.UUID]budget.Month),
		groups:       make(map[uuid.UUID]budget.Group),
		entries:      make(map[uuid.UUID]budget.Entry),
		rules:        make(map[uuid.UUID]matching.Rule),
	}
}

// clone copies every table. Rows are values, so the copy shares nothing
// that a later write could change.
func (d *data) clone() *data {
	return &data{
		accounts:     maps.Clone(d.accounts),
		categories:   maps.Clone(d.categories),
		transactions: maps.Clone(d.transactions),
		months:       maps.Clone(d.months),
		groups:       maps.Clone(d.groups),
		entries:      maps.Clone(d.entries),
		rules:        maps.Clone(d.rules),
	}
}

type Store struct {
	mu   sync.Mutex
	data *data
	last time.Time
	now  func() time.Time
}

func New() *Store {
	return &Store{data: newData(), now: time.Now}
}

// tick returns a strictly increasing timestamp so rows created in one unit
// of work keep their insertion order.
func (s *Store) tick() time.Time {
	t := s.now().UTC()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}

	s.last = t

	return t
}

// do runs fn under the store lock. Writes made by a failing fn are undone.
func (s *Store) do(fn func(r *repo) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()

	if err := fn(&repo{d: s.data, tick: s.tick}); err != nil {
		s.data = snapshot
		return err
	}

	return nil
}

type budgetTransactor struct{ s *Store }

func (t budgetTransactor) InTx(ctx context.Context, fn func(repo budget.Repository) error) error {
	return t.s.do(func(r *repo) error { return fn(r) })
}

// BudgetTransactor runs budget units of work against the store.
func (s *Store) BudgetTransactor() budget.Transactor {
	return budgetTransactor{s: s}
}

type ledgerTransactor struct{ s *Store }

func (t ledgerTransactor) InTx(ctx context.Context, fn func(st transaction.Stores) error) error {
	return t.s.do(func(r *repo) error {
		return fn(transaction.Stores{Transactions: r, Accounts: r, Categories: r, Budget: r})
	})
}

// LedgerTransactor runs transaction units of work against the store.
func (s *Store) LedgerTransactor() transaction.Transactor {
	return ledgerTransactor{s: s}
}

type categoryTransactor struct{ s *Store }

func (t categoryTransactor) InTx(ctx context.Context, fn func(st category.Stores) error) error {
	return t.s.do(func(r *repo) error {
		return fn(category.Stores{Categories: r, Budget: budget.CategorySync{Repo: r}})
	})
}

// CategoryTransactor runs category units of work against the store.
func (s *Store) CategoryTransactor() category.Transactor {
	return categoryTransactor{s: s}
}

// Accounts returns the store as an account.Repository.
func (s *Store) Accounts() account.Repository { return accounts{s} }

// Categories returns the store as a category.Repository.
func (s *Store) Categories() category.Repository { return categories{s} }

// Rules returns the store as a matching.Repository.
func (s *Store) Rules() matching.Repository { return rules{s} }

type accounts struct{ s *Store }

func (a accounts) CreateAccount(ctx context.Context, acc *account.Account) error {
	return a.s.do(func(r *repo) error { return r.CreateAccount(ctx, acc) })
}

func (a accounts) GetAccount(ctx context.Context, userID, id uuid.UUID) (got *account.Account, err error) {
	err = a.s.do(func(r *repo) error {
		got, err = r.GetAccount(ctx, userID, id)
		return err
	})

	return got, err
}

func (a accounts) ListAccounts(ctx context.Context, userID uuid.UUID, includeArchived bool) (got []*account.Account, err error) {
	err = a.s.do(func(r *repo) error {
		got, err = r.ListAccounts(ctx, userID, includeArchived)
		return err
	})

	return got, err
}

func (a accounts) UpdateAccount(ctx context.Context, acc *account.Account) error {
	return a.s.do(func(r *repo) error { return r.UpdateAccount(ctx, acc) })
}

func (a accounts) ArchiveAccount(ctx context.Context, userID, id uuid.UUID) error {
	return a.s.do(func(r *repo) error { return r.ArchiveAccount(ctx, userID, id) })
}

type categories struct{ s *Store }

func (c categories) CreateCategory(ctx context.Context, cat *category.Category) error {
	return c.s.do(func(r *repo) error { return r.CreateCategory(ctx, cat) })
}

func (c categories) GetCategory(ctx context.Context, userID, id uuid.UUID) (got *category.Category, err error) {
	err = c.s.do(func(r *repo) error {
		got, err = r.GetCategory(ctx, userID, id)
		return err
	})

	return got, err
}

func (c categories) ListCategories(ctx context.Context, userID uuid.UUID) (got []*category.Category, err error) {
	err = c.s.do(func(r *repo) error {
		got, err = r.ListCategories(ctx, userID)
		return err
	})

	return got, err
}

func (c categories) UpdateCategory(ctx context.Context, cat *category.Category) error {
	return c.s.do(func(r *repo) error { return r.UpdateCategory(ctx, cat) })
}

func (c categories) DeleteCategory(ctx context.Context, userID, id uuid.UUID) error {
	return c.s.do(func(r *repo) error { return r.DeleteCategory(ctx, userID, id) })
}

func (c categories) CountChildren(ctx context.Context, userID, id uuid.UUID) (n int, err error) {
	err = c.s.do(func(r *repo) error {
		n, err = r.CountChildren(ctx, userID, id)
		return err
	})

	return n, err
}

func (c categories) FindSystemCategory(ctx context.Context, userID uuid.UUID, kind category.Kind) (got *category.Category, err error) {
	err = c.s.do(func(r *repo) error {
		got, err = r.FindSystemCategory(ctx, userID, kind)
		return err
	})

	return got, err
}

type rules struct{ s *Store }

func (m rules) FindMatch(ctx context.Context, userID uuid.UUID, label string) (got *matching.Rule, err error) {
	err = m.s.do(func(r *repo) error {
		got, err = r.FindMatch(ctx, userID, label)
		return err
	})

	return got, err
}

func (m rules) SaveRule(ctx context.Context, rule *matching.Rule) error {
	return m.s.do(func(r *repo) error { return r.SaveRule(ctx, rule) })
}

func (m rules) ListRules(ctx context.Context, userID uuid.UUID) (got []*matching.Rule, err error) {
	err = m.s.do(func(r *repo) error {
		got, err = r.ListRules(ctx, userID)
		return err
	})

	return got, err
}

func (m rules) DeleteRule(ctx context.Context, userID, id uuid.UUID) error {
	return m.s.do(func(r *repo) error { return r.DeleteRule(ctx, userID, id) })
}
