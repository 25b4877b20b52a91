package matching

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/envelope/internal/apperr"
)

var ErrNotFound = apperr.NotFound("rule not found")

// Rule assigns CategoryID to transactions whose label contains Pattern,
// compared case-insensitively.
type Rule struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Pattern    string    `json:"pattern"`
	CategoryID uuid.UUID `json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (r *Rule) Owner() uuid.UUID { return r.UserID }
