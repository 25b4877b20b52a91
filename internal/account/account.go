package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/envelope/internal/apperr"
)

// Type is the kind of financial account.
type Type string

const (
	TypeChecking   Type = "checking"
	TypeSavings    Type = "savings"
	TypeCreditCard Type = "credit_card"
	TypeCash       Type = "cash"
	TypeInvestment Type = "investment"
	TypeLoan       Type = "loan"
	TypeOther      Type = "other"
)

func (t Type) Valid() bool {
	switch t {
	case TypeChecking, TypeSavings, TypeCreditCard, TypeCash, TypeInvestment, TypeLoan, TypeOther:
		return true
	}

	return false
}

// DefaultCurrency is used when an account is created without one.
const DefaultCurrency = "EUR"

var ErrNotFound = apperr.NotFound("account not found")

// Account is a user's bank, cash or card account. The balance fields are
// derived from the account's transactions and only written by the balance
// recompute that follows every transaction mutation.
type Account struct {
	ID                uuid.UUID       `json:"id"`
	UserID            uuid.UUID       `json:"user_id"`
	Name              string          `json:"name"`
	Type              Type            `json:"type"`
	Currency          string          `json:"currency"`
	Archived          bool            `json:"archived"`
	InitialBalance    decimal.Decimal `json:"initial_balance"`
	CurrentBalance    decimal.Decimal `json:"current_balance"`
	PointedBalance    decimal.Decimal `json:"pointed_balance"`
	ReconciledBalance decimal.Decimal `json:"reconciled_balance"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         *time.Time      `json:"updated_at,omitempty"`
}

func (a *Account) Owner() uuid.UUID { return a.UserID }
