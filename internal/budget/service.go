package budget

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/envelope/internal/category"
	"github.com/MrJamesThe3rd/envelope/internal/event"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=budget
type Repository interface {
	// FindMonth returns the month row of userID whose date falls in the
	// calendar month of month.
	FindMonth(ctx context.Context, userID uuid.UUID, month time.Time) (*Month, error)
	// FindMonthForUpdate is FindMonth holding a lock on the row until the
	// unit of work ends, so recalculations of one month run one at a time.
	FindMonthForUpdate(ctx context.Context, userID uuid.UUID, month time.Time) (*Month, error)
	GetMonth(ctx context.Context, userID, id uuid.UUID) (*Month, error)
	CreateMonth(ctx context.Context, m *Month) error
	UpdateMonth(ctx context.Context, m *Month) error
	ListMonthsFrom(ctx context.Context, userID uuid.UUID, from time.Time) ([]*Month, error)
	// FirstMonthWithCategory returns the earliest month row of userID with a
	// group or entry for categoryID.
	FirstMonthWithCategory(ctx context.Context, userID, categoryID uuid.UUID) (*Month, error)

	ListExpenseCategories(ctx context.Context, userID uuid.UUID) ([]*category.Category, error)

	ListGroups(ctx context.Context, monthID uuid.UUID) ([]*Group, error)
	CreateGroup(ctx context.Context, g *Group) error
	UpdateGroup(ctx context.Context, g *Group) error

	ListEntries(ctx context.Context, monthID uuid.UUID) ([]*Entry, error)
	CreateEntry(ctx context.Context, e *Entry) error
	UpdateEntry(ctx context.Context, e *Entry) error

	// SumByCategoryKind sums the user's transactions dated in [from, to)
	// whose category has the given kind.
	SumByCategoryKind(ctx context.Context, userID uuid.UUID, kind category.Kind, from, to time.Time) (decimal.Decimal, error)
	// ActivityByCategory sums the user's transactions dated in [from, to) per category.
	ActivityByCategory(ctx context.Context, userID uuid.UUID, from, to time.Time) (map[uuid.UUID]decimal.Decimal, error)
	// MonthlyActivity sums the user's transactions dated in [from, to) per category and month.
	MonthlyActivity(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]CategoryActivity, error)
}

// Transactor runs fn inside a single unit of work. Every write made through
// the Repository passed to fn is committed together or not at all.
type Transactor interface {
	InTx(ctx context.Context, fn func(repo Repository) error) error
}

type Service struct {
	tx     Transactor
	events event.Publisher
}

func NewService(tx Transactor, events event.Publisher) *Service {
	return &Service{tx: tx, events: events}
}

// EntryPatch changes a budget entry. Assigned wins over Available; Activity
// is derived from the ledger and ignored.
type EntryPatch struct {
	Assigned  *decimal.Decimal
	Activity  *decimal.Decimal
	Available *decimal.Decimal
}

// GetMonth recalculates and returns the month named by ref (a YYYY-MM key or
// a month id) with its groups, entries and entry metrics.
func (s *Service) GetMonth(ctx context.Context, userID uuid.UUID, ref string) (*Month, error) {
	r, err := ParseMonthRef(ref)
	if err != nil {
		return nil, err
	}

	var (
		view *Month
		cs   *ChangeSet
	)

	err = s.tx.InTx(ctx, func(repo Repository) error {
		month, err := resolve(ctx, repo, userID, r)
		if err != nil {
			return err
		}

		cs, err = Recalculate(ctx, repo, userID, month)
		if err != nil {
			return err
		}

		view, err = loadView(ctx, repo, userID, month)

		return err
	})
	if err != nil {
		return nil, err
	}

	cs.Publish(s.events)

	return view, nil
}

// UpdateEntry sets the assigned amount of the entry of categoryID in the
// month named by ref and recalculates that month and every later one.
func (s *Service) UpdateEntry(ctx context.Context, userID uuid.UUID, ref string, categoryID uuid.UUID, patch EntryPatch) (*Entry, error) {
	r, err := ParseMonthRef(ref)
	if err != nil {
		return nil, err
	}

	var (
		updated *Entry
		cs      = NewChangeSet()
	)

	err = s.tx.InTx(ctx, func(repo Repository) error {
		month, err := resolve(ctx, repo, userID, r)
		if err != nil {
			return err
		}

		st, err := EnsureMonthStructure(ctx, repo, userID, month)
		if err != nil {
			return err
		}

		i := slices.IndexFunc(st.Entries, func(e *Entry) bool { return e.CategoryID == categoryID })
		if i < 0 {
			return ErrEntryNotFound
		}

		e := st.Entries[i]

		assigned := e.Assigned
		switch {
		case patch.Assigned != nil:
			assigned = *patch.Assigned
		case patch.Available != nil:
			assigned = patch.Available.Sub(e.Activity)
		}

		if !assigned.Equal(e.Assigned) {
			e.Assigned = assigned
			e.Available = assigned.Add(e.Activity)

			if err := repo.UpdateEntry(ctx, e); err != nil {
				return fmt.Errorf("updating budget entry: %w", err)
			}

			cs.AddEntry(e)
		}

		changed, err := RecalculateFrom(ctx, repo, userID, month)
		if err != nil {
			return err
		}

		cs.Merge(changed)

		updated = e
		if latest, ok := cs.Entry(e.ID); ok {
			updated = latest
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	cs.Publish(s.events)

	return updated, nil
}

func resolve(ctx context.Context, repo Repository, userID uuid.UUID, r MonthRef) (time.Time, error) {
	if !r.ByID() {
		return r.Month, nil
	}

	m, err := repo.GetMonth(ctx, userID, r.ID)
	if err != nil {
		return time.Time{}, err
	}

	return StartOfMonth(m.Month), nil
}

// loadView reads the month back with nested, named groups and entries.
func loadView(ctx context.Context, repo Repository, userID uuid.UUID, month time.Time) (*Month, error) {
	m, err := repo.FindMonth(ctx, userID, month)
	if err != nil {
		return nil, fmt.Errorf("finding budget month: %w", err)
	}

	cats, err := repo.ListExpenseCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing expense categories: %w", err)
	}

	groups, err := repo.ListGroups(ctx, m.ID)
	if err != nil {
		return nil, fmt.Errorf("listing budget groups: %w", err)
	}

	entries, err := repo.ListEntries(ctx, m.ID)
	if err != nil {
		return nil, fmt.Errorf("listing budget entries: %w", err)
	}

	history, err := repo.MonthlyActivity(ctx, userID, m.Month.AddDate(0, -metricsWindow, 0), m.Month)
	if err != nil {
		return nil, fmt.Errorf("loading spending history: %w", err)
	}

	applyMetrics(entries, history, m.Month)

	names := expenseNames(cats)
	byGroup := make(map[uuid.UUID]*Group, len(groups))

	for _, g := range groups {
		g.Name = names[g.CategoryID]
		byGroup[g.ID] = g
	}

	for _, e := range entries {
		e.Name = names[e.CategoryID]
		if g, ok := byGroup[e.GroupID]; ok {
			g.Entries = append(g.Entries, e)
		}
	}

	byName := func(a, b string) int { return cmp.Compare(a, b) }

	for _, g := range groups {
		slices.SortFunc(g.Entries, func(a, b *Entry) int { return byName(a.Name, b.Name) })
	}

	slices.SortFunc(groups, func(a, b *Group) int { return byName(a.Name, b.Name) })

	m.Groups = groups

	return m, nil
}
