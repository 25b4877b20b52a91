package budget

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/envelope/internal/apperr"
	"github.com/MrJamesThe3rd/envelope/internal/category"
)

// Structure is the month row with its groups and entries after
// EnsureMonthStructure ran.
type Structure struct {
	Month   *Month
	Groups  []*Group
	Entries []*Entry

	MonthCreated   bool
	MonthRepaired  bool
	CreatedGroups  []*Group
	CreatedEntries []*Entry
	MovedEntries   []*Entry
}

// Created returns the number of rows inserted.
func (s *Structure) Created() int {
	n := len(s.CreatedGroups) + len(s.CreatedEntries)
	if s.MonthCreated {
		n++
	}

	return n
}

// Changed reports whether any row was inserted or corrected.
func (s *Structure) Changed() bool {
	return s.Created() > 0 || s.MonthRepaired || len(s.MovedEntries) > 0
}

// EnsureMonthStructure makes sure the month row of userID for the calendar
// month of t exists, with one group per top-level expense category and one
// entry per child category. Calling it on a complete month writes nothing.
func EnsureMonthStructure(ctx context.Context, repo Repository, userID uuid.UUID, t time.Time) (*Structure, error) {
	start := StartOfMonth(t)
	st := &Structure{}

	m, err := ensureMonth(ctx, repo, userID, start, st)
	if err != nil {
		return nil, err
	}

	st.Month = m

	cats, err := repo.ListExpenseCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing expense categories: %w", err)
	}

	groups, err := repo.ListGroups(ctx, m.ID)
	if err != nil {
		return nil, fmt.Errorf("listing budget groups: %w", err)
	}

	groupByCategory := make(map[uuid.UUID]*Group, len(groups))
	for _, g := range groups {
		groupByCategory[g.CategoryID] = g
	}

	for _, c := range cats {
		if !c.IsGroup() {
			continue
		}

		if _, ok := groupByCategory[c.ID]; ok {
			continue
		}

		g := &Group{UserID: userID, MonthID: m.ID, CategoryID: c.ID}
		if err := repo.CreateGroup(ctx, g); err != nil {
			return nil, fmt.Errorf("creating budget group: %w", err)
		}

		groups = append(groups, g)
		groupByCategory[c.ID] = g
		st.CreatedGroups = append(st.CreatedGroups, g)
	}

	entries, err := repo.ListEntries(ctx, m.ID)
	if err != nil {
		return nil, fmt.Errorf("listing budget entries: %w", err)
	}

	entryByCategory := make(map[uuid.UUID]*Entry, len(entries))
	for _, e := range entries {
		entryByCategory[e.CategoryID] = e
	}

	for _, c := range cats {
		if c.IsGroup() {
			continue
		}

		g, ok := groupByCategory[*c.ParentID]
		if !ok {
			continue
		}

		if e, ok := entryByCategory[c.ID]; ok {
			if e.GroupID != g.ID {
				e.GroupID = g.ID
				if err := repo.UpdateEntry(ctx, e); err != nil {
					return nil, fmt.Errorf("moving budget entry: %w", err)
				}

				st.MovedEntries = append(st.MovedEntries, e)
			}

			continue
		}

		e := &Entry{UserID: userID, GroupID: g.ID, CategoryID: c.ID}
		if err := repo.CreateEntry(ctx, e); err != nil {
			return nil, fmt.Errorf("creating budget entry: %w", err)
		}

		entries = append(entries, e)
		st.CreatedEntries = append(st.CreatedEntries, e)
	}

	st.Groups = groups
	st.Entries = entries

	return st, nil
}

func ensureMonth(ctx context.Context, repo Repository, userID uuid.UUID, start time.Time, st *Structure) (*Month, error) {
	m, err := repo.FindMonthForUpdate(ctx, userID, start)
	if err == nil {
		if !m.Month.Equal(start) {
			m.Month = start
			if err := repo.UpdateMonth(ctx, m); err != nil {
				return nil, fmt.Errorf("repairing budget month date: %w", err)
			}

			st.MonthRepaired = true
		}

		return m, nil
	}

	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("finding budget month: %w", err)
	}

	m = &Month{UserID: userID, Month: start}
	if err := repo.CreateMonth(ctx, m); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return repo.FindMonthForUpdate(ctx, userID, start)
		}

		return nil, fmt.Errorf("creating budget month: %w", err)
	}

	st.MonthCreated = true

	return m, nil
}

// expenseNames maps category ids to their names.
func expenseNames(cats []*category.Category) map[uuid.UUID]string {
	names := make(map[uuid.UUID]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}

	return names
}
