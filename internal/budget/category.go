package budget

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/envelope/internal/apperr"
	"github.com/MrJamesThe3rd/envelope/internal/category"
)

// CategorySync recalculates stored months for the category service, inside
// the unit of work that changed the category.
type CategorySync struct {
	Repo Repository
}

func (s CategorySync) FirstMonth(ctx context.Context, userID, categoryID uuid.UUID) (time.Time, bool, error) {
	m, err := s.Repo.FirstMonthWithCategory(ctx, userID, categoryID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return time.Time{}, false, nil
		}

		return time.Time{}, false, err
	}

	return StartOfMonth(m.Month), true, nil
}

func (s CategorySync) RecalculateFrom(ctx context.Context, userID uuid.UUID, month time.Time) (category.Changes, error) {
	cs, err := RecalculateFrom(ctx, s.Repo, userID, month)
	if err != nil {
		return nil, err
	}

	return cs, nil
}
