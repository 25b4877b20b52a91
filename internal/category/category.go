package category

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/envelope/internal/apperr"
)

// Kind decides how a category's transactions count in the budget.
type Kind string

const (
	KindExpense       Kind = "EXPENSE"
	KindIncome        Kind = "INCOME"
	KindIncomePlusOne Kind = "INCOME_PLUS_ONE"
	KindInitial       Kind = "INITIAL"
	KindTransfer      Kind = "TRANSFER"
)

// SystemKinds are provisioned once per user and are read-only through the API.
var SystemKinds = []Kind{KindIncome, KindIncomePlusOne, KindInitial, KindTransfer}

func (k Kind) Valid() bool {
	switch k {
	case KindExpense, KindIncome, KindIncomePlusOne, KindInitial, KindTransfer:
		return true
	}

	return false
}

// System reports whether categories of this kind are managed by the application.
func (k Kind) System() bool {
	return k.Valid() && k != KindExpense
}

func (k Kind) DefaultName() string {
	switch k {
	case KindIncome:
		return "Income"
	case KindIncomePlusOne:
		return "Income for next month"
	case KindInitial:
		return "Initial balance"
	case KindTransfer:
		return "Transfer"
	}

	return string(k)
}

var ErrNotFound = apperr.NotFound("category not found")

// Category is a budget envelope. Top-level expense categories act as groups
// for their children; nesting is one level deep.
type Category struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Name      string     `json:"name"`
	Kind      Kind       `json:"kind"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func (c *Category) Owner() uuid.UUID { return c.UserID }

// IsGroup reports whether c is a top-level category.
func (c *Category) IsGroup() bool { return c.ParentID == nil }
