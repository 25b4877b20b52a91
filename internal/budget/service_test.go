package budget_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/envelope/internal/account"
	"github.com/MrJamesThe3rd/envelope/internal/apperr"
	"github.com/MrJamesThe3rd/envelope/internal/budget"
	"github.com/MrJamesThe3rd/envelope/internal/category"
	"github.com/MrJamesThe3rd/envelope/internal/event"
	"github.com/MrJamesThe3rd/envelope/internal/store/memory"
	"github.com/MrJamesThe3rd/envelope/internal/transaction"
)

type fixture struct {
	ctx       context.Context
	store     *memory.Store
	userID    uuid.UUID
	accountID uuid.UUID
	groceries uuid.UUID
	rent      uuid.UUID
	events    *event.Recorder
	budget    *budget.Service
	ledger    *transaction.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		ctx:    context.Background(),
		store:  memory.New(),
		userID: uuid.New(),
		events: &event.Recorder{},
	}

	a, err := account.NewService(f.store.Accounts(), event.Nop{}).
		Create(f.ctx, f.userID, account.CreateParams{Name: "Main", Type: account.TypeChecking})
	require.NoError(t, err)

	f.accountID = a.ID

	cats := category.NewService(f.store.CategoryTransactor(), event.Nop{})

	food, err := cats.Create(f.ctx, f.userID, category.CreateParams{Name: "Food"})
	require.NoError(t, err)

	groceries, err := cats.Create(f.ctx, f.userID, category.CreateParams{Name: "Groceries", ParentID: &food.ID})
	require.NoError(t, err)

	home, err := cats.Create(f.ctx, f.userID, category.CreateParams{Name: "Home"})
	require.NoError(t, err)

	rent, err := cats.Create(f.ctx, f.userID, category.CreateParams{Name: "Rent", ParentID: &home.ID})
	require.NoError(t, err)

	f.groceries, f.rent = groceries.ID, rent.ID
	f.budget = budget.NewService(f.store.BudgetTransactor(), f.events)
	f.ledger = transaction.NewService(f.store.LedgerTransactor(), event.Nop{})

	return f
}

func (f *fixture) system(t *testing.T, kind category.Kind) uuid.UUID {
	t.Helper()

	c, err := category.EnsureSystemCategory(f.ctx, f.store.Categories(), f.userID, kind)
	require.NoError(t, err)

	return c.ID
}

func (f *fixture) spend(t *testing.T, date time.Time, amount int64, categoryID uuid.UUID) {
	t.Helper()

	_, err := f.ledger.Create(f.ctx, f.userID, f.accountID, transaction.CreateParams{
		Date:       date,
		Label:      "movement",
		Amount:     decimal.NewFromInt(amount),
		CategoryID: &categoryID,
	})
	require.NoError(t, err)
}

func (f *fixture) month(t *testing.T, key string) *budget.Month {
	t.Helper()

	m, err := f.budget.GetMonth(f.ctx, f.userID, key)
	require.NoError(t, err)

	return m
}

func findEntry(m *budget.Month, categoryID uuid.UUID) *budget.Entry {
	for _, g := range m.Groups {
		for _, e := range g.Entries {
			if e.CategoryID == categoryID {
				return e
			}
		}
	}

	return nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func assertAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Equal(t, want, got.StringFixed(2))
}

func TestService_GetMonth_CarryoverChain(t *testing.T) {
	f := newFixture(t)

	f.spend(t, day(2024, 1, 5), 2000, f.system(t, category.KindIncome))
	f.spend(t, day(2024, 1, 10), -150, f.groceries)

	jan := f.month(t, "2024-01")
	assertAmount(t, "2000.00", jan.Income)
	assertAmount(t, "0.00", jan.AvailableCarryover)
	assertAmount(t, "0.00", jan.Assigned)
	assertAmount(t, "-150.00", jan.Activity)
	assertAmount(t, "2000.00", jan.Available)

	groceries := findEntry(jan, f.groceries)
	require.NotNil(t, groceries)
	assert.Equal(t, "Groceries", groceries.Name)
	assertAmount(t, "-150.00", groceries.Activity)
	assertAmount(t, "-150.00", groceries.Available)

	feb := f.month(t, "2024-02")
	assertAmount(t, "2000.00", feb.AvailableCarryover)
	assertAmount(t, "0.00", feb.Income)
	assertAmount(t, "2000.00", feb.Available)
}

func TestService_GetMonth_GapMonthStartsFromZero(t *testing.T) {
	f := newFixture(t)

	f.spend(t, day(2024, 1, 5), 2000, f.system(t, category.KindIncome))

	// February never existed, so March has nothing to carry over.
	mar := f.month(t, "2024-03")
	assertAmount(t, "0.00", mar.AvailableCarryover)
	assertAmount(t, "0.00", mar.Available)
}

func TestService_GetMonth_IncomeForNextMonth(t *testing.T) {
	f := newFixture(t)

	f.spend(t, day(2024, 2, 25), 1000, f.system(t, category.KindIncomePlusOne))

	jan := f.month(t, "2024-01")
	assertAmount(t, "1000.00", jan.Income)
	assertAmount(t, "1000.00", jan.Available)

	feb := f.month(t, "2024-02")
	assertAmount(t, "0.00", feb.Income)
	assertAmount(t, "1000.00", feb.AvailableCarryover)
}

func TestService_GetMonth_Metrics(t *testing.T) {
	f := newFixture(t)

	f.spend(t, day(2023, 11, 3), -100, f.groceries)
	f.spend(t, day(2023, 12, 3), -200, f.groceries)

	e := findEntry(f.month(t, "2024-01"), f.groceries)
	require.NotNil(t, e)
	assertAmount(t, "200.00", e.RequiredAmount)
	assertAmount(t, "125.00", e.OptimizedAmount)
}

func TestService_GetMonth_ByID(t *testing.T) {
	f := newFixture(t)

	jan := f.month(t, "2024-01")

	again, err := f.budget.GetMonth(f.ctx, f.userID, jan.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "2024-01", again.Key())

	_, err = f.budget.GetMonth(f.ctx, f.userID, uuid.NewString())
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.budget.GetMonth(f.ctx, f.userID, "2024-13")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestService_GetMonth_PublishesOnlyChanges(t *testing.T) {
	f := newFixture(t)

	f.month(t, "2024-01")
	assert.Equal(t, 1, f.events.Count(event.BudgetMonthUpdated))
	assert.Positive(t, f.events.Count(event.BudgetCategoryUpdated))

	f.events.Reset()
	f.month(t, "2024-01")
	assert.Empty(t, f.events.Events())
}

func TestService_UpdateEntry(t *testing.T) {
	type testCase struct {
		name          string
		patch         budget.EntryPatch
		wantAssigned  string
		wantAvailable string
	}

	tests := []testCase{
		{
			name:          "Assigned",
			patch:         budget.EntryPatch{Assigned: new(decimal.NewFromInt(500))},
			wantAssigned:  "500.00",
			wantAvailable: "350.00",
		},
		{
			name:          "AvailableDerivesAssigned",
			patch:         budget.EntryPatch{Available: new(decimal.NewFromInt(100))},
			wantAssigned:  "250.00",
			wantAvailable: "100.00",
		},
		{
			name: "AssignedWins",
			patch: budget.EntryPatch{
				Assigned:  new(decimal.NewFromInt(40)),
				Available: new(decimal.NewFromInt(900)),
			},
			wantAssigned:  "40.00",
			wantAvailable: "-110.00",
		},
		{
			name:          "ActivityIgnored",
			patch:         budget.EntryPatch{Activity: new(decimal.NewFromInt(-1))},
			wantAssigned:  "0.00",
			wantAvailable: "-150.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.spend(t, day(2024, 1, 5), 2000, f.system(t, category.KindIncome))
			f.spend(t, day(2024, 1, 10), -150, f.groceries)

			e, err := f.budget.UpdateEntry(f.ctx, f.userID, "2024-01", f.groceries, tt.patch)
			require.NoError(t, err)
			assertAmount(t, tt.wantAssigned, e.Assigned)
			assertAmount(t, tt.wantAvailable, e.Available)
			assertAmount(t, "-150.00", e.Activity)
		})
	}
}

func TestService_UpdateEntry_CarriesForward(t *testing.T) {
	f := newFixture(t)

	f.spend(t, day(2024, 1, 5), 2000, f.system(t, category.KindIncome))
	f.month(t, "2024-02")

	f.events.Reset()

	_, err := f.budget.UpdateEntry(f.ctx, f.userID, "2024-01", f.rent, budget.EntryPatch{Assigned: new(decimal.NewFromInt(800))})
	require.NoError(t, err)

	jan := f.month(t, "2024-01")
	assertAmount(t, "800.00", jan.Assigned)
	assertAmount(t, "1200.00", jan.Available)

	feb := f.month(t, "2024-02")
	assertAmount(t, "1200.00", feb.AvailableCarryover)
	assertAmount(t, "1200.00", feb.Available)

	names := f.events.Names()
	require.NotEmpty(t, names)
	assert.Equal(t, event.BudgetCategoryUpdated, names[0])
	assert.Equal(t, event.BudgetMonthUpdated, names[len(names)-1])
}

func TestService_UpdateEntry_UnknownCategory(t *testing.T) {
	f := newFixture(t)

	_, err := f.budget.UpdateEntry(f.ctx, f.userID, "2024-01", uuid.New(), budget.EntryPatch{Assigned: new(decimal.NewFromInt(1))})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestEnsureMonthStructure_Idempotent(t *testing.T) {
	f := newFixture(t)

	var first, second *budget.Structure

	err := f.store.BudgetTransactor().InTx(f.ctx, func(repo budget.Repository) error {
		var err error

		first, err = budget.EnsureMonthStructure(f.ctx, repo, f.userID, day(2024, 5, 17))
		if err != nil {
			return err
		}

		second, err = budget.EnsureMonthStructure(f.ctx, repo, f.userID, day(2024, 5, 1))

		return err
	})
	require.NoError(t, err)

	assert.True(t, first.MonthCreated)
	assert.Len(t, first.CreatedGroups, 2)
	assert.Len(t, first.CreatedEntries, 2)

	assert.False(t, second.Changed())
	assert.Equal(t, first.Month.ID, second.Month.ID)
	assert.Len(t, second.Entries, 2)
}

func TestEnsureMonthStructure_FollowsMovedCategory(t *testing.T) {
	f := newFixture(t)

	jan := f.month(t, "2024-01")
	groceries := findEntry(jan, f.groceries)
	require.NotNil(t, groceries)

	rentEntry := findEntry(jan, f.rent)
	require.NotNil(t, rentEntry)

	cats := category.NewService(f.store.CategoryTransactor(), event.Nop{})
	_, err := cats.Update(f.ctx, f.userID, f.groceries, category.UpdateParams{ParentID: new(rentParent(t, f))})
	require.NoError(t, err)

	moved := findEntry(f.month(t, "2024-01"), f.groceries)
	require.NotNil(t, moved)
	assert.Equal(t, groceries.ID, moved.ID)
	assert.Equal(t, rentEntry.GroupID, moved.GroupID)
}

func rentParent(t *testing.T, f *fixture) uuid.UUID {
	t.Helper()

	c, err := f.store.Categories().GetCategory(f.ctx, f.userID, f.rent)
	require.NoError(t, err)

	return *c.ParentID
}

func TestEnsureMonthStructure_RepairsMonthDate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	stored := &budget.Month{ID: uuid.New(), UserID: userID, Month: day(2024, 1, 15)}

	repo := budget.NewMockRepository(ctrl)
	repo.EXPECT().FindMonthForUpdate(gomock.Any(), userID, day(2024, 1, 1)).Return(stored, nil)
	repo.EXPECT().UpdateMonth(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, m *budget.Month) error {
			assert.Equal(t, day(2024, 1, 1), m.Month)
			return nil
		})
	repo.EXPECT().ListExpenseCategories(gomock.Any(), userID).Return(nil, nil)
	repo.EXPECT().ListGroups(gomock.Any(), stored.ID).Return(nil, nil)
	repo.EXPECT().ListEntries(gomock.Any(), stored.ID).Return(nil, nil)

	st, err := budget.EnsureMonthStructure(ctx, repo, userID, day(2024, 1, 20))
	require.NoError(t, err)
	assert.True(t, st.MonthRepaired)
	assert.False(t, st.MonthCreated)
	assert.True(t, st.Changed())
}

func TestEnsureMonthStructure_LostCreateRace(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	winner := &budget.Month{ID: uuid.New(), UserID: userID, Month: day(2024, 1, 1)}

	repo := budget.NewMockRepository(ctrl)
	gomock.InOrder(
		repo.EXPECT().FindMonthForUpdate(gomock.Any(), userID, day(2024, 1, 1)).Return(nil, budget.ErrMonthNotFound),
		repo.EXPECT().CreateMonth(gomock.Any(), gomock.Any()).Return(apperr.Conflict("exists")),
		repo.EXPECT().FindMonthForUpdate(gomock.Any(), userID, day(2024, 1, 1)).Return(winner, nil),
	)
	repo.EXPECT().ListExpenseCategories(gomock.Any(), userID).Return(nil, nil)
	repo.EXPECT().ListGroups(gomock.Any(), winner.ID).Return(nil, nil)
	repo.EXPECT().ListEntries(gomock.Any(), winner.ID).Return(nil, nil)

	st, err := budget.EnsureMonthStructure(ctx, repo, userID, day(2024, 1, 1))
	require.NoError(t, err)
	assert.False(t, st.MonthCreated)
	assert.Equal(t, winner.ID, st.Month.ID)
}

func TestRecalculate_LocksMonthBeforeReadingLedger(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	stored := &budget.Month{ID: uuid.New(), UserID: userID, Month: day(2024, 2, 1)}

	repo := budget.NewMockRepository(ctrl)
	gomock.InOrder(
		repo.EXPECT().FindMonthForUpdate(gomock.Any(), userID, day(2024, 2, 1)).Return(stored, nil),
		repo.EXPECT().ListExpenseCategories(gomock.Any(), userID).Return(nil, nil),
		repo.EXPECT().ListGroups(gomock.Any(), stored.ID).Return(nil, nil),
		repo.EXPECT().ListEntries(gomock.Any(), stored.ID).Return(nil, nil),
		repo.EXPECT().SumByCategoryKind(gomock.Any(), userID, category.KindIncome, gomock.Any(), gomock.Any()).
			Return(decimal.NewFromInt(500), nil),
		repo.EXPECT().SumByCategoryKind(gomock.Any(), userID, category.KindIncomePlusOne, gomock.Any(), gomock.Any()).
			Return(decimal.Zero, nil),
		repo.EXPECT().FindMonth(gomock.Any(), userID, day(2024, 1, 1)).Return(nil, budget.ErrMonthNotFound),
		repo.EXPECT().ActivityByCategory(gomock.Any(), userID, day(2024, 2, 1), day(2024, 3, 1)).Return(nil, nil),
		repo.EXPECT().UpdateMonth(gomock.Any(), gomock.Any()).Return(nil),
	)

	cs, err := budget.Recalculate(ctx, repo, userID, day(2024, 2, 14))
	require.NoError(t, err)
	require.Len(t, cs.Months, 1)
	assert.True(t, decimal.NewFromInt(500).Equal(cs.Months[0].Available))
}

// stored reads the persisted month row and its groups by category without
// recalculating them.
func (f *fixture) stored(t *testing.T, month time.Time) (*budget.Month, map[uuid.UUID]*budget.Group) {
	t.Helper()

	var (
		m      *budget.Month
		groups = make(map[uuid.UUID]*budget.Group)
	)

	err := f.store.BudgetTransactor().InTx(f.ctx, func(repo budget.Repository) error {
		var err error

		m, err = repo.FindMonth(f.ctx, f.userID, month)
		if err != nil {
			return err
		}

		gs, err := repo.ListGroups(f.ctx, m.ID)
		if err != nil {
			return err
		}

		for _, g := range gs {
			groups[g.CategoryID] = g
		}

		return nil
	})
	require.NoError(t, err)

	return m, groups
}

func TestCategoryDelete_RecalculatesLaterMonths(t *testing.T) {
	f := newFixture(t)

	f.spend(t, day(2024, 1, 5), 2000, f.system(t, category.KindIncome))

	_, err := f.budget.UpdateEntry(f.ctx, f.userID, "2024-01", f.rent, budget.EntryPatch{Assigned: new(decimal.NewFromInt(300))})
	require.NoError(t, err)

	assertAmount(t, "1700.00", f.month(t, "2024-02").AvailableCarryover)

	f.events.Reset()

	cats := category.NewService(f.store.CategoryTransactor(), f.events)
	require.NoError(t, cats.Delete(f.ctx, f.userID, f.rent))

	jan, _ := f.stored(t, day(2024, 1, 1))
	assertAmount(t, "0.00", jan.Assigned)
	assertAmount(t, "2000.00", jan.Available)

	feb, _ := f.stored(t, day(2024, 2, 1))
	assertAmount(t, "2000.00", feb.AvailableCarryover)
	assertAmount(t, "2000.00", feb.Available)

	assert.Equal(t, 1, f.events.Count(event.CategoryDeleted))
	assert.Equal(t, 2, f.events.Count(event.BudgetMonthUpdated))
}

func TestCategoryMove_RegroupsStoredMonths(t *testing.T) {
	f := newFixture(t)

	_, err := f.budget.UpdateEntry(f.ctx, f.userID, "2024-01", f.groceries, budget.EntryPatch{Assigned: new(decimal.NewFromInt(100))})
	require.NoError(t, err)

	f.month(t, "2024-02")

	groceries, err := f.store.Categories().GetCategory(f.ctx, f.userID, f.groceries)
	require.NoError(t, err)

	food, home := *groceries.ParentID, rentParent(t, f)

	cats := category.NewService(f.store.CategoryTransactor(), event.Nop{})
	_, err = cats.Update(f.ctx, f.userID, f.groceries, category.UpdateParams{ParentID: &home})
	require.NoError(t, err)

	for _, month := range []time.Time{day(2024, 1, 1), day(2024, 2, 1)} {
		_, groups := f.stored(t, month)
		require.Contains(t, groups, food)
		require.Contains(t, groups, home)
		assertAmount(t, "0.00", groups[food].Assigned)
	}

	_, jan := f.stored(t, day(2024, 1, 1))
	assertAmount(t, "100.00", jan[home].Assigned)
}
