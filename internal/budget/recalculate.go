package budget

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/envelope/internal/apperr"
	"github.com/MrJamesThe3rd/envelope/internal/category"
	"github.com/MrJamesThe3rd/envelope/internal/event"
)

// ChangeSet collects the budget rows written during a unit of work, one
// entry per row id.
type ChangeSet struct {
	Months  []*Month
	Groups  []*Group
	Entries []*Entry

	index map[uuid.UUID]int
}

func NewChangeSet() *ChangeSet {
	return &ChangeSet{index: make(map[uuid.UUID]int)}
}

func (c *ChangeSet) AddMonth(m *Month) {
	if i, ok := c.index[m.ID]; ok {
		c.Months[i] = m
		return
	}

	c.index[m.ID] = len(c.Months)
	c.Months = append(c.Months, m)
}

func (c *ChangeSet) AddGroup(g *Group) {
	if i, ok := c.index[g.ID]; ok {
		c.Groups[i] = g
		return
	}

	c.index[g.ID] = len(c.Groups)
	c.Groups = append(c.Groups, g)
}

func (c *ChangeSet) AddEntry(e *Entry) {
	if i, ok := c.index[e.ID]; ok {
		c.Entries[i] = e
		return
	}

	c.index[e.ID] = len(c.Entries)
	c.Entries = append(c.Entries, e)
}

// Merge adds every row of other to c.
func (c *ChangeSet) Merge(other *ChangeSet) {
	if other == nil {
		return
	}

	for _, m := range other.Months {
		c.AddMonth(m)
	}

	for _, g := range other.Groups {
		c.AddGroup(g)
	}

	for _, e := range other.Entries {
		c.AddEntry(e)
	}
}

func (c *ChangeSet) Empty() bool {
	return len(c.Months) == 0 && len(c.Groups) == 0 && len(c.Entries) == 0
}

// Entry returns the latest written version of the entry with the given id.
func (c *ChangeSet) Entry(id uuid.UUID) (*Entry, bool) {
	i, ok := c.index[id]
	if !ok || i >= len(c.Entries) || c.Entries[i].ID != id {
		return nil, false
	}

	return c.Entries[i], true
}

// Publish emits one budget.category.updated per entry and group, then one
// budget.month.updated per month.
func (c *ChangeSet) Publish(p event.Publisher) {
	for _, e := range c.Entries {
		p.Notify(event.BudgetCategoryUpdated, e)
	}

	for _, g := range c.Groups {
		p.Notify(event.BudgetCategoryUpdated, g)
	}

	for _, m := range c.Months {
		p.Notify(event.BudgetMonthUpdated, m)
	}
}

// Recalculate recomputes the budget of userID for the calendar month of t
// and writes the rows whose values changed.
//
// Income is the month's INCOME transactions plus the next month's
// INCOME_PLUS_ONE transactions. Carryover is the stored Available of the
// previous month row, or zero when that row does not exist. Each entry's
// activity is the month's sum for its category and its available is
// assigned + activity. Groups sum their entries; the month sums its groups
// and ends with available = carryover + income - assigned.
func Recalculate(ctx context.Context, repo Repository, userID uuid.UUID, t time.Time) (*ChangeSet, error) {
	st, err := EnsureMonthStructure(ctx, repo, userID, t)
	if err != nil {
		return nil, err
	}

	cs := NewChangeSet()
	m := st.Month
	start := m.Month
	next := start.AddDate(0, 1, 0)

	income, err := repo.SumByCategoryKind(ctx, userID, category.KindIncome, start, next)
	if err != nil {
		return nil, fmt.Errorf("summing income: %w", err)
	}

	advance, err := repo.SumByCategoryKind(ctx, userID, category.KindIncomePlusOne, next, next.AddDate(0, 1, 0))
	if err != nil {
		return nil, fmt.Errorf("summing next month income: %w", err)
	}

	income = income.Add(advance)

	carryover := decimal.Zero

	prev, err := repo.FindMonth(ctx, userID, start.AddDate(0, -1, 0))
	switch {
	case err == nil:
		carryover = prev.Available
	case !errors.Is(err, apperr.ErrNotFound):
		return nil, fmt.Errorf("finding previous budget month: %w", err)
	}

	activity, err := repo.ActivityByCategory(ctx, userID, start, next)
	if err != nil {
		return nil, fmt.Errorf("summing category activity: %w", err)
	}

	type totals struct{ assigned, activity, available decimal.Decimal }

	byGroup := make(map[uuid.UUID]*totals, len(st.Groups))
	for _, g := range st.Groups {
		byGroup[g.ID] = &totals{}
	}

	created := make(map[uuid.UUID]bool, st.Created())
	for _, e := range st.CreatedEntries {
		created[e.ID] = true
	}

	for _, g := range st.CreatedGroups {
		created[g.ID] = true
	}

	moved := make(map[uuid.UUID]bool, len(st.MovedEntries))
	for _, e := range st.MovedEntries {
		moved[e.ID] = true
	}

	for _, e := range st.Entries {
		act := activity[e.CategoryID]
		avail := e.Assigned.Add(act)

		if !e.Activity.Equal(act) || !e.Available.Equal(avail) {
			e.Activity = act
			e.Available = avail

			if err := repo.UpdateEntry(ctx, e); err != nil {
				return nil, fmt.Errorf("updating budget entry: %w", err)
			}

			cs.AddEntry(e)
		} else if created[e.ID] || moved[e.ID] {
			cs.AddEntry(e)
		}

		if sum, ok := byGroup[e.GroupID]; ok {
			sum.assigned = sum.assigned.Add(e.Assigned)
			sum.activity = sum.activity.Add(e.Activity)
			sum.available = sum.available.Add(e.Available)
		}
	}

	var assigned, spent decimal.Decimal

	for _, g := range st.Groups {
		sum := byGroup[g.ID]

		if !g.Assigned.Equal(sum.assigned) || !g.Activity.Equal(sum.activity) || !g.Available.Equal(sum.available) {
			g.Assigned = sum.assigned
			g.Activity = sum.activity
			g.Available = sum.available

			if err := repo.UpdateGroup(ctx, g); err != nil {
				return nil, fmt.Errorf("updating budget group: %w", err)
			}

			cs.AddGroup(g)
		} else if created[g.ID] {
			cs.AddGroup(g)
		}

		assigned = assigned.Add(g.Assigned)
		spent = spent.Add(g.Activity)
	}

	available := carryover.Add(income).Sub(assigned)

	if !m.Income.Equal(income) || !m.AvailableCarryover.Equal(carryover) ||
		!m.Assigned.Equal(assigned) || !m.Activity.Equal(spent) || !m.Available.Equal(available) {
		m.Income = income
		m.AvailableCarryover = carryover
		m.Assigned = assigned
		m.Activity = spent
		m.Available = available

		if err := repo.UpdateMonth(ctx, m); err != nil {
			return nil, fmt.Errorf("updating budget month: %w", err)
		}

		cs.AddMonth(m)
	} else if st.MonthCreated || st.MonthRepaired {
		cs.AddMonth(m)
	}

	return cs, nil
}

// RecalculateFrom recalculates every anchor month and every later month
// row of userID, oldest first, so that carryovers chain forward.
func RecalculateFrom(ctx context.Context, repo Repository, userID uuid.UUID, anchors ...time.Time) (*ChangeSet, error) {
	cs := NewChangeSet()
	if len(anchors) == 0 {
		return cs, nil
	}

	months := make([]time.Time, 0, len(anchors))
	for _, a := range anchors {
		months = append(months, StartOfMonth(a))
	}

	earliest := slices.MinFunc(months, func(a, b time.Time) int { return a.Compare(b) })

	existing, err := repo.ListMonthsFrom(ctx, userID, earliest)
	if err != nil {
		return nil, fmt.Errorf("listing budget months: %w", err)
	}

	for _, m := range existing {
		months = append(months, StartOfMonth(m.Month))
	}

	slices.SortFunc(months, func(a, b time.Time) int { return a.Compare(b) })
	months = slices.CompactFunc(months, func(a, b time.Time) bool { return a.Equal(b) })

	for _, month := range months {
		changed, err := Recalculate(ctx, repo, userID, month)
		if err != nil {
			return nil, fmt.Errorf("recalculating %s: %w", MonthKey(month), err)
		}

		cs.Merge(changed)
	}

	return cs, nil
}
