package category

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/envelope/internal/apperr"
	"github.com/MrJamesThe3rd/envelope/internal/event"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=category
type Repository interface {
	CreateCategory(ctx context.Context, c *Category) error
	GetCategory(ctx context.Context, userID, id uuid.UUID) (*Category, error)
	ListCategories(ctx context.Context, userID uuid.UUID) ([]*Category, error)
	UpdateCategory(ctx context.Context, c *Category) error
	DeleteCategory(ctx context.Context, userID, id uuid.UUID) error
	CountChildren(ctx context.Context, userID, id uuid.UUID) (int, error)
	FindSystemCategory(ctx context.Context, userID uuid.UUID, kind Kind) (*Category, error)
}

// SystemRepository is the subset of Repository needed to provision system
// categories. Other packages pass their own transactional stores here.
type SystemRepository interface {
	CreateCategory(ctx context.Context, c *Category) error
	FindSystemCategory(ctx context.Context, userID uuid.UUID, kind Kind) (*Category, error)
}

// BudgetSync keeps stored budget figures in line with category changes made
// in the same unit of work.
type BudgetSync interface {
	// FirstMonth returns the earliest budget month holding a row for the
	// category. ok is false when no month does.
	FirstMonth(ctx context.Context, userID, categoryID uuid.UUID) (month time.Time, ok bool, err error)
	// RecalculateFrom recalculates every stored budget month of userID from
	// month on.
	RecalculateFrom(ctx context.Context, userID uuid.UUID, month time.Time) (Changes, error)
}

// Changes are budget rows written by a BudgetSync, published after commit.
type Changes interface {
	Publish(p event.Publisher)
}

// Stores are the repositories of one unit of work.
type Stores struct {
	Categories Repository
	Budget     BudgetSync
}

// Transactor runs fn inside a single unit of work spanning all Stores.
type Transactor interface {
	InTx(ctx context.Context, fn func(st Stores) error) error
}

type Service struct {
	tx     Transactor
	events event.Publisher
}

func NewService(tx Transactor, events event.Publisher) *Service {
	return &Service{tx: tx, events: events}
}

type CreateParams struct {
	Name     string
	Kind     Kind
	ParentID *uuid.UUID
}

// UpdateParams renames a category or moves a child category to another group.
type UpdateParams struct {
	Name     *string
	ParentID *uuid.UUID
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*Category, error) {
	if params.Kind != "" && params.Kind != KindExpense {
		return nil, apperr.Validation("categories of kind %s are managed by the system", params.Kind)
	}

	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, apperr.Validation("category name is required")
	}

	c := &Category{
		UserID:   userID,
		Name:     name,
		Kind:     KindExpense,
		ParentID: params.ParentID,
	}

	err := s.tx.InTx(ctx, func(st Stores) error {
		if params.ParentID != nil {
			if err := checkParent(ctx, st.Categories, userID, *params.ParentID); err != nil {
				return err
			}
		}

		return st.Categories.CreateCategory(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	s.events.Notify(event.CategoryCreated, c)

	return c, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Category, error) {
	var c *Category

	err := s.tx.InTx(ctx, func(st Stores) error {
		var err error

		c, err = st.Categories.GetCategory(ctx, userID, id)

		return err
	})
	if err != nil {
		return nil, err
	}

	return c, nil
}

// List returns every category of the user, provisioning the system
// categories first so clients always see the full set.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Category, error) {
	var cats []*Category

	err := s.tx.InTx(ctx, func(st Stores) error {
		for _, kind := range SystemKinds {
			if _, err := EnsureSystemCategory(ctx, st.Categories, userID, kind); err != nil {
				return err
			}
		}

		var err error

		cats, err = st.Categories.ListCategories(ctx, userID)

		return err
	})
	if err != nil {
		return nil, err
	}

	return cats, nil
}

// Update renames or moves c. Moving a child category regroups its budget
// entries, so every stored month from the first one budgeting it is
// recalculated.
func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, params UpdateParams) (*Category, error) {
	var (
		c       *Category
		changes Changes
	)

	err := s.tx.InTx(ctx, func(st Stores) error {
		var err error

		c, err = st.Categories.GetCategory(ctx, userID, id)
		if err != nil {
			return err
		}

		if c.Kind != KindExpense {
			return apperr.Validation("categories of kind %s are read-only", c.Kind)
		}

		if params.Name != nil {
			name := strings.TrimSpace(*params.Name)
			if name == "" {
				return apperr.Validation("category name is required")
			}

			c.Name = name
		}

		moved := false

		if params.ParentID != nil {
			if c.IsGroup() {
				return apperr.Validation("a top-level category cannot be moved under another category")
			}

			if *params.ParentID == c.ID {
				return apperr.Validation("a category cannot be its own parent")
			}

			if err := checkParent(ctx, st.Categories, userID, *params.ParentID); err != nil {
				return err
			}

			moved = *c.ParentID != *params.ParentID
			c.ParentID = params.ParentID
		}

		if err := st.Categories.UpdateCategory(ctx, c); err != nil {
			return err
		}

		if !moved {
			return nil
		}

		changes, err = resettle(ctx, st.Budget, userID, c.ID)

		return err
	})
	if err != nil {
		return nil, err
	}

	s.events.Notify(event.CategoryUpdated, c)
	publish(changes, s.events)

	return c, nil
}

// Delete removes an expense category without children. Its budget rows go
// with it and every stored month from the first one budgeting it is
// recalculated.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	var (
		c       *Category
		changes Changes
	)

	err := s.tx.InTx(ctx, func(st Stores) error {
		var err error

		c, err = st.Categories.GetCategory(ctx, userID, id)
		if err != nil {
			return err
		}

		if c.Kind != KindExpense {
			return apperr.Validation("categories of kind %s cannot be deleted", c.Kind)
		}

		children, err := st.Categories.CountChildren(ctx, userID, id)
		if err != nil {
			return err
		}

		if children > 0 {
			return apperr.Validation("category %q still has %d child categories", c.Name, children)
		}

		from, budgeted, err := st.Budget.FirstMonth(ctx, userID, id)
		if err != nil {
			return err
		}

		if err := st.Categories.DeleteCategory(ctx, userID, id); err != nil {
			return err
		}

		if !budgeted {
			return nil
		}

		changes, err = st.Budget.RecalculateFrom(ctx, userID, from)

		return err
	})
	if err != nil {
		return err
	}

	s.events.Notify(event.CategoryDeleted, c)
	publish(changes, s.events)

	return nil
}

// resettle recalculates the budget from the first month holding a row for
// the category.
func resettle(ctx context.Context, budget BudgetSync, userID, categoryID uuid.UUID) (Changes, error) {
	from, ok, err := budget.FirstMonth(ctx, userID, categoryID)
	if err != nil || !ok {
		return nil, err
	}

	return budget.RecalculateFrom(ctx, userID, from)
}

func publish(changes Changes, p event.Publisher) {
	if changes != nil {
		changes.Publish(p)
	}
}

// checkParent verifies that id names a top-level expense category of the user.
func checkParent(ctx context.Context, repo Repository, userID, id uuid.UUID) error {
	parent, err := repo.GetCategory(ctx, userID, id)
	if err != nil {
		return err
	}

	if parent.Kind != KindExpense || !parent.IsGroup() {
		return apperr.Validation("parent must be a top-level expense category")
	}

	return nil
}

// EnsureSystemCategory returns the user's category of the given system kind,
// creating it on first use.
func EnsureSystemCategory(ctx context.Context, repo SystemRepository, userID uuid.UUID, kind Kind) (*Category, error) {
	if !kind.System() {
		return nil, apperr.Validation("%s is not a system category kind", kind)
	}

	c, err := repo.FindSystemCategory(ctx, userID, kind)
	if err == nil {
		return c, nil
	}

	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	c = &Category{UserID: userID, Name: kind.DefaultName(), Kind: kind}
	if err := repo.CreateCategory(ctx, c); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return repo.FindSystemCategory(ctx, userID, kind)
		}

		return nil, err
	}

	return c, nil
}
