package matching

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/envelope/internal/apperr"
	"github.com/MrJamesThe3rd/envelope/internal/category"
	"github.com/MrJamesThe3rd/envelope/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching
type Repository interface {
	// FindMatch returns the rule with the longest pattern contained in
	// label, or nil when no rule matches.
	FindMatch(ctx context.Context, userID uuid.UUID, label string) (*Rule, error)
	// SaveRule creates the rule or repoints the user's existing rule with
	// the same pattern.
	SaveRule(ctx context.Context, r *Rule) error
	ListRules(ctx context.Context, userID uuid.UUID) ([]*Rule, error)
	DeleteRule(ctx context.Context, userID, id uuid.UUID) error
}

type CategoryReader interface {
	GetCategory(ctx context.Context, userID, id uuid.UUID) (*category.Category, error)
}

type Service struct {
	repo       Repository
	categories CategoryReader
}

func NewService(repo Repository, categories CategoryReader) *Service {
	return &Service{repo: repo, categories: categories}
}

// Suggest returns the category of the best matching rule for label, or nil.
func (s *Service) Suggest(ctx context.Context, userID uuid.UUID, label string) (*uuid.UUID, error) {
	r, err := s.repo.FindMatch(ctx, userID, label)
	if err != nil || r == nil {
		return nil, err
	}

	return &r.CategoryID, nil
}

// Learn remembers that labels containing pattern belong to categoryID.
func (s *Service) Learn(ctx context.Context, userID uuid.UUID, pattern string, categoryID uuid.UUID) (*Rule, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil, apperr.Validation("pattern is required")
	}

	c, err := s.categories.GetCategory(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}

	if c.Kind == category.KindInitial {
		return nil, apperr.Validation("rules cannot target the %s category", c.Name)
	}

	r := &Rule{UserID: userID, Pattern: pattern, CategoryID: categoryID}
	if err := s.repo.SaveRule(ctx, r); err != nil {
		return nil, err
	}

	return r, nil
}

func (s *Service) Rules(ctx context.Context, userID uuid.UUID) ([]*Rule, error) {
	return s.repo.ListRules(ctx, userID)
}

func (s *Service) Forget(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.DeleteRule(ctx, userID, id)
}

// Categorize fills the category of every uncategorized param from the
// user's rules. Lookup failures leave the param uncategorized.
func (s *Service) Categorize(ctx context.Context, userID uuid.UUID, params []transaction.CreateParams) {
	for i, p := range params {
		if p.CategoryID != nil {
			continue
		}

		suggested, err := s.Suggest(ctx, userID, p.Label)
		if err != nil {
			slog.Warn("failed to suggest category", "label", p.Label, "error", err)
			continue
		}

		params[i].CategoryID = suggested
	}
}
