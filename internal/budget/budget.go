// Package budget keeps the monthly envelope budget consistent with the
// ledger: it lazily builds a month's group and entry rows from the category
// tree and recomputes income, activity, carryover and availability.
package budget

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/envelope/internal/apperr"
)

var (
	ErrMonthNotFound = apperr.NotFound("budget month not found")
	ErrEntryNotFound = apperr.NotFound("budget entry not found")
)

// Month is the budget of one user for one calendar month.
type Month struct {
	ID                 uuid.UUID       `json:"id"`
	UserID             uuid.UUID       `json:"user_id"`
	Month              time.Time       `json:"month"`
	Income             decimal.Decimal `json:"income"`
	AvailableCarryover decimal.Decimal `json:"available_carryover"`
	Assigned           decimal.Decimal `json:"assigned"`
	Activity           decimal.Decimal `json:"activity"`
	Available          decimal.Decimal `json:"available"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          *time.Time      `json:"updated_at,omitempty"`

	// Groups is only populated by Service.GetMonth.
	Groups []*Group `json:"groups,omitempty"`
}

func (m *Month) Owner() uuid.UUID { return m.UserID }

// Key returns the YYYY-MM key of the month.
func (m *Month) Key() string { return MonthKey(m.Month) }

// Group mirrors a top-level expense category for one month and holds the
// totals of its entries.
type Group struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"-"`
	MonthID    uuid.UUID       `json:"month_id"`
	CategoryID uuid.UUID       `json:"category_id"`
	Name       string          `json:"name,omitempty"`
	Assigned   decimal.Decimal `json:"assigned"`
	Activity   decimal.Decimal `json:"activity"`
	Available  decimal.Decimal `json:"available"`

	Entries []*Entry `json:"entries,omitempty"`
}

func (g *Group) Owner() uuid.UUID { return g.UserID }

// Entry is the budget line of a child category for one month.
// Available is always Assigned + Activity.
type Entry struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"-"`
	GroupID    uuid.UUID       `json:"group_id"`
	CategoryID uuid.UUID       `json:"category_id"`
	Name       string          `json:"name,omitempty"`
	Assigned   decimal.Decimal `json:"assigned"`
	Activity   decimal.Decimal `json:"activity"`
	Available  decimal.Decimal `json:"available"`

	// Derived on read, never stored.
	RequiredAmount  decimal.Decimal `json:"required_amount"`
	OptimizedAmount decimal.Decimal `json:"optimized_amount"`
}

func (e *Entry) Owner() uuid.UUID { return e.UserID }

// CategoryActivity is the summed amount of one category's transactions in
// one calendar month.
type CategoryActivity struct {
	CategoryID uuid.UUID
	Month      time.Time
	Amount     decimal.Decimal
}
