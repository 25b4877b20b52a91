package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/envelope/internal/apperr"
)

// Status is how far a transaction has been checked against the bank.
type Status string

const (
	StatusNone       Status = "NONE"
	StatusPointed    Status = "POINTED"
	StatusReconciled Status = "RECONCILED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNone, StatusPointed, StatusReconciled:
		return true
	}

	return false
}

// Type distinguishes regular transactions from the account's opening
// balance and from transfer legs.
type Type string

const (
	TypeNone     Type = "NONE"
	TypeInitial  Type = "INITIAL"
	TypeTransfer Type = "TRANSFER"
)

func (t Type) Valid() bool {
	switch t {
	case TypeNone, TypeInitial, TypeTransfer:
		return true
	}

	return false
}

const (
	InitialLabel  = "Initial balance"
	TransferLabel = "Transfer"
)

var ErrNotFound = apperr.NotFound("transaction not found")

// Transaction is a signed movement on an account. Expenses are negative.
type Transaction struct {
	ID                  uuid.UUID       `json:"id"`
	UserID              uuid.UUID       `json:"user_id"`
	AccountID           uuid.UUID       `json:"account_id"`
	Date                time.Time       `json:"date"`
	Label               string          `json:"label"`
	Amount              decimal.Decimal `json:"amount"`
	CategoryID          *uuid.UUID      `json:"category_id,omitempty"`
	Status              Status          `json:"status"`
	Type                Type            `json:"type"`
	LinkedTransactionID *uuid.UUID      `json:"linked_transaction_id,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           *time.Time      `json:"updated_at,omitempty"`

	// Balance is the account balance right after this transaction. It is
	// derived from the ordered ledger on every read.
	Balance decimal.Decimal `json:"balance"`
}

func (t *Transaction) Owner() uuid.UUID { return t.UserID }

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
