package category_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/envelope/internal/apperr"
	"github.com/MrJamesThe3rd/envelope/internal/category"
	"github.com/MrJamesThe3rd/envelope/internal/event"
)

// unitOfWork runs every unit of work against repo and budget.
func unitOfWork(ctrl *gomock.Controller, repo category.Repository, budget category.BudgetSync) *category.MockTransactor {
	txr := category.NewMockTransactor(ctrl)
	txr.EXPECT().InTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(st category.Stores) error) error {
			return fn(category.Stores{Categories: repo, Budget: budget})
		}).
		AnyTimes()

	return txr
}

func TestService_Create(t *testing.T) {
	userID := uuid.New()
	groupID := uuid.New()
	leafID := uuid.New()

	group := &category.Category{ID: groupID, UserID: userID, Name: "Home", Kind: category.KindExpense}
	leaf := &category.Category{ID: leafID, UserID: userID, Name: "Rent", Kind: category.KindExpense, ParentID: &groupID}

	type testCase struct {
		name      string
		params    category.CreateParams
		setupMock func(m *category.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "TopLevel",
			params: category.CreateParams{Name: "Home"},
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().CreateCategory(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *category.Category) error {
						assert.Equal(t, category.KindExpense, c.Kind)
						return nil
					})
			},
		},
		{
			name:   "Child",
			params: category.CreateParams{Name: "Electricity", ParentID: &groupID},
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().GetCategory(gomock.Any(), userID, groupID).Return(group, nil)
				m.EXPECT().CreateCategory(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:    "SystemKindRejected",
			params:  category.CreateParams{Name: "Salary", Kind: category.KindIncome},
			wantErr: apperr.ErrValidation,
		},
		{
			name:   "GrandchildRejected",
			params: category.CreateParams{Name: "Deposit", ParentID: &leafID},
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().GetCategory(gomock.Any(), userID, leafID).Return(leaf, nil)
			},
			wantErr: apperr.ErrValidation,
		},
		{
			name:   "ForeignParent",
			params: category.CreateParams{Name: "Deposit", ParentID: &groupID},
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().GetCategory(gomock.Any(), userID, groupID).Return(nil, category.ErrNotFound)
			},
			wantErr: apperr.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := category.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			var rec event.Recorder

			got, err := category.NewService(unitOfWork(ctrl, repo, nil), &rec).Create(context.Background(), userID, tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, rec.Events())

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.params.Name, got.Name)
			assert.Equal(t, []string{event.CategoryCreated}, rec.Names())
		})
	}
}

func TestService_Update(t *testing.T) {
	userID := uuid.New()
	homeID := uuid.New()
	carID := uuid.New()
	rentID := uuid.New()
	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	rent := func() *category.Category {
		return &category.Category{ID: rentID, UserID: userID, Name: "Rent", Kind: category.KindExpense, ParentID: &homeID}
	}

	type testCase struct {
		name       string
		id         uuid.UUID
		params     category.UpdateParams
		setupMock  func(m *category.MockRepository, b *category.MockBudgetSync, c *category.MockChanges)
		wantErr    error
		wantEvents []string
	}

	tests := []testCase{
		{
			name:   "MoveLeafToOtherGroup",
			id:     rentID,
			params: category.UpdateParams{ParentID: &carID},
			setupMock: func(m *category.MockRepository, b *category.MockBudgetSync, c *category.MockChanges) {
				m.EXPECT().GetCategory(gomock.Any(), userID, rentID).Return(rent(), nil)
				m.EXPECT().GetCategory(gomock.Any(), userID, carID).
					Return(&category.Category{ID: carID, UserID: userID, Kind: category.KindExpense}, nil)
				gomock.InOrder(
					m.EXPECT().UpdateCategory(gomock.Any(), gomock.Any()).
						DoAndReturn(func(_ context.Context, c *category.Category) error {
							assert.Equal(t, carID, *c.ParentID)
							return nil
						}),
					b.EXPECT().FirstMonth(gomock.Any(), userID, rentID).Return(jan, true, nil),
					b.EXPECT().RecalculateFrom(gomock.Any(), userID, jan).Return(c, nil),
				)
				c.EXPECT().Publish(gomock.Any()).Do(func(p event.Publisher) {
					p.Notify(event.BudgetMonthUpdated, nil)
				})
			},
			wantEvents: []string{event.CategoryUpdated, event.BudgetMonthUpdated},
		},
		{
			name:   "MoveUnbudgetedLeaf",
			id:     rentID,
			params: category.UpdateParams{ParentID: &carID},
			setupMock: func(m *category.MockRepository, b *category.MockBudgetSync, _ *category.MockChanges) {
				m.EXPECT().GetCategory(gomock.Any(), userID, rentID).Return(rent(), nil)
				m.EXPECT().GetCategory(gomock.Any(), userID, carID).
					Return(&category.Category{ID: carID, UserID: userID, Kind: category.KindExpense}, nil)
				m.EXPECT().UpdateCategory(gomock.Any(), gomock.Any()).Return(nil)
				b.EXPECT().FirstMonth(gomock.Any(), userID, rentID).Return(time.Time{}, false, nil)
			},
			wantEvents: []string{event.CategoryUpdated},
		},
		{
			name:   "RenameLeavesBudgetAlone",
			id:     rentID,
			params: category.UpdateParams{Name: new("Mortgage"), ParentID: &homeID},
			setupMock: func(m *category.MockRepository, _ *category.MockBudgetSync, _ *category.MockChanges) {
				m.EXPECT().GetCategory(gomock.Any(), userID, rentID).Return(rent(), nil)
				m.EXPECT().GetCategory(gomock.Any(), userID, homeID).
					Return(&category.Category{ID: homeID, UserID: userID, Kind: category.KindExpense}, nil)
				m.EXPECT().UpdateCategory(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantEvents: []string{event.CategoryUpdated},
		},
		{
			name:   "DemoteGroupRejected",
			id:     homeID,
			params: category.UpdateParams{ParentID: &carID},
			setupMock: func(m *category.MockRepository, _ *category.MockBudgetSync, _ *category.MockChanges) {
				m.EXPECT().GetCategory(gomock.Any(), userID, homeID).
					Return(&category.Category{ID: homeID, UserID: userID, Kind: category.KindExpense}, nil)
			},
			wantErr: apperr.ErrValidation,
		},
		{
			name:   "SystemCategoryReadOnly",
			id:     homeID,
			params: category.UpdateParams{Name: new("Wages")},
			setupMock: func(m *category.MockRepository, _ *category.MockBudgetSync, _ *category.MockChanges) {
				m.EXPECT().GetCategory(gomock.Any(), userID, homeID).
					Return(&category.Category{ID: homeID, UserID: userID, Kind: category.KindIncome}, nil)
			},
			wantErr: apperr.ErrValidation,
		},
		{
			name:   "RecalculationFailureAborts",
			id:     rentID,
			params: category.UpdateParams{ParentID: &carID},
			setupMock: func(m *category.MockRepository, b *category.MockBudgetSync, _ *category.MockChanges) {
				m.EXPECT().GetCategory(gomock.Any(), userID, rentID).Return(rent(), nil)
				m.EXPECT().GetCategory(gomock.Any(), userID, carID).
					Return(&category.Category{ID: carID, UserID: userID, Kind: category.KindExpense}, nil)
				m.EXPECT().UpdateCategory(gomock.Any(), gomock.Any()).Return(nil)
				b.EXPECT().FirstMonth(gomock.Any(), userID, rentID).Return(jan, true, nil)
				b.EXPECT().RecalculateFrom(gomock.Any(), userID, jan).Return(nil, apperr.Validation("boom"))
			},
			wantErr: apperr.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := category.NewMockRepository(ctrl)
			budget := category.NewMockBudgetSync(ctrl)
			changes := category.NewMockChanges(ctrl)
			tt.setupMock(repo, budget, changes)

			var rec event.Recorder

			_, err := category.NewService(unitOfWork(ctrl, repo, budget), &rec).Update(context.Background(), userID, tt.id, tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, rec.Events())

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantEvents, rec.Names())
		})
	}
}

func TestService_Delete(t *testing.T) {
	userID := uuid.New()
	id := uuid.New()
	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	expense := &category.Category{ID: id, UserID: userID, Name: "Home", Kind: category.KindExpense}

	t.Run("WithChildren", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := category.NewMockRepository(ctrl)
		repo.EXPECT().GetCategory(gomock.Any(), userID, id).Return(expense, nil)
		repo.EXPECT().CountChildren(gomock.Any(), userID, id).Return(2, nil)

		err := category.NewService(unitOfWork(ctrl, repo, nil), event.Nop{}).Delete(context.Background(), userID, id)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("SystemKind", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := category.NewMockRepository(ctrl)
		repo.EXPECT().GetCategory(gomock.Any(), userID, id).
			Return(&category.Category{ID: id, UserID: userID, Kind: category.KindTransfer}, nil)

		err := category.NewService(unitOfWork(ctrl, repo, nil), event.Nop{}).Delete(context.Background(), userID, id)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("RecalculatesFromFirstBudgetedMonth", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := category.NewMockRepository(ctrl)
		budget := category.NewMockBudgetSync(ctrl)
		changes := category.NewMockChanges(ctrl)

		repo.EXPECT().GetCategory(gomock.Any(), userID, id).Return(expense, nil)
		repo.EXPECT().CountChildren(gomock.Any(), userID, id).Return(0, nil)
		gomock.InOrder(
			budget.EXPECT().FirstMonth(gomock.Any(), userID, id).Return(jan, true, nil),
			repo.EXPECT().DeleteCategory(gomock.Any(), userID, id).Return(nil),
			budget.EXPECT().RecalculateFrom(gomock.Any(), userID, jan).Return(changes, nil),
		)
		changes.EXPECT().Publish(gomock.Any()).Do(func(p event.Publisher) {
			p.Notify(event.BudgetMonthUpdated, nil)
		})

		var rec event.Recorder

		require.NoError(t, category.NewService(unitOfWork(ctrl, repo, budget), &rec).Delete(context.Background(), userID, id))
		assert.Equal(t, []string{event.CategoryDeleted, event.BudgetMonthUpdated}, rec.Names())
	})

	t.Run("Unbudgeted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := category.NewMockRepository(ctrl)
		budget := category.NewMockBudgetSync(ctrl)

		repo.EXPECT().GetCategory(gomock.Any(), userID, id).Return(expense, nil)
		repo.EXPECT().CountChildren(gomock.Any(), userID, id).Return(0, nil)
		budget.EXPECT().FirstMonth(gomock.Any(), userID, id).Return(time.Time{}, false, nil)
		repo.EXPECT().DeleteCategory(gomock.Any(), userID, id).Return(nil)

		var rec event.Recorder

		require.NoError(t, category.NewService(unitOfWork(ctrl, repo, budget), &rec).Delete(context.Background(), userID, id))
		assert.Equal(t, []string{event.CategoryDeleted}, rec.Names())
	})
}

func TestEnsureSystemCategory(t *testing.T) {
	userID := uuid.New()

	t.Run("Existing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		existing := &category.Category{ID: uuid.New(), UserID: userID, Kind: category.KindTransfer}

		repo := category.NewMockSystemRepository(ctrl)
		repo.EXPECT().FindSystemCategory(gomock.Any(), userID, category.KindTransfer).Return(existing, nil)

		got, err := category.EnsureSystemCategory(context.Background(), repo, userID, category.KindTransfer)
		require.NoError(t, err)
		assert.Equal(t, existing, got)
	})

	t.Run("CreatedOnFirstUse", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := category.NewMockSystemRepository(ctrl)
		repo.EXPECT().FindSystemCategory(gomock.Any(), userID, category.KindInitial).Return(nil, category.ErrNotFound)
		repo.EXPECT().CreateCategory(gomock.Any(), gomock.Any()).Return(nil)

		got, err := category.EnsureSystemCategory(context.Background(), repo, userID, category.KindInitial)
		require.NoError(t, err)
		assert.Equal(t, "Initial balance", got.Name)
		assert.Equal(t, category.KindInitial, got.Kind)
	})

	t.Run("LostRace", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		winner := &category.Category{ID: uuid.New(), UserID: userID, Kind: category.KindIncome}

		repo := category.NewMockSystemRepository(ctrl)
		gomock.InOrder(
			repo.EXPECT().FindSystemCategory(gomock.Any(), userID, category.KindIncome).Return(nil, category.ErrNotFound),
			repo.EXPECT().CreateCategory(gomock.Any(), gomock.Any()).Return(apperr.Conflict("exists")),
			repo.EXPECT().FindSystemCategory(gomock.Any(), userID, category.KindIncome).Return(winner, nil),
		)

		got, err := category.EnsureSystemCategory(context.Background(), repo, userID, category.KindIncome)
		require.NoError(t, err)
		assert.Equal(t, winner, got)
	})

	t.Run("ExpenseIsNotSystem", func(t *testing.T) {
		_, err := category.EnsureSystemCategory(context.Background(), nil, userID, category.KindExpense)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}
