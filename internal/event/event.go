// Package event carries change notifications from the core services to
// subscribers. Delivery is best effort: nothing is persisted or replayed.
package event

import (
	"time"

	"github.com/google/uuid"
)

const (
	AccountCreated  = "account.created"
	AccountUpdated  = "account.updated"
	AccountArchived = "account.archived"

	CategoryCreated = "category.created"
	CategoryUpdated = "category.updated"
	CategoryDeleted = "category.deleted"

	TransactionCreated = "transaction.created"
	TransactionUpdated = "transaction.updated"
	TransactionDeleted = "transaction.deleted"

	BudgetCategoryUpdated = "budget.category.updated"
	BudgetMonthUpdated    = "budget.month.updated"
)

// Publisher accepts notifications. Implementations must not block the caller.
type Publisher interface {
	Notify(name string, payload any)
}

// Owned is implemented by payloads that belong to a single user.
type Owned interface {
	Owner() uuid.UUID
}

// Event is a published notification as seen by subscribers.
type Event struct {
	Name    string    `json:"name"`
	Payload any       `json:"payload"`
	At      time.Time `json:"at"`
}

// OwnerID returns the owning user of the payload, if it has one.
func (e Event) OwnerID() (uuid.UUID, bool) {
	o, ok := e.Payload.(Owned)
	if !ok {
		return uuid.Nil, false
	}

	return o.Owner(), true
}

// Nop discards every notification.
type Nop struct{}

func (Nop) Notify(string, any) {}
