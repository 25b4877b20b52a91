package transaction

import (
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Balances are the three derived balances of an account.
type Balances struct {
	Current    decimal.Decimal
	Pointed    decimal.Decimal
	Reconciled decimal.Decimal
}

// ComputeBalances sums the ledger of one account. Pointed includes
// reconciled transactions.
func ComputeBalances(ledger []*Transaction) Balances {
	var b Balances

	for _, t := range ledger {
		b.Current = b.Current.Add(t.Amount)

		switch t.Status {
		case StatusReconciled:
			b.Reconciled = b.Reconciled.Add(t.Amount)
			b.Pointed = b.Pointed.Add(t.Amount)
		case StatusPointed:
			b.Pointed = b.Pointed.Add(t.Amount)
		}
	}

	return b
}

// SortLedger orders transactions by date, then creation time, then id.
func SortLedger(ledger []*Transaction) {
	slices.SortStableFunc(ledger, func(a, b *Transaction) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}

		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}

		return slices.Compare(a.ID[:], b.ID[:])
	})
}

// RunningBalances folds an ordered ledger into the balance after each
// transaction. An INITIAL transaction resets the running total to its amount.
func RunningBalances(ledger []*Transaction) map[uuid.UUID]decimal.Decimal {
	balances := make(map[uuid.UUID]decimal.Decimal, len(ledger))
	running := decimal.Zero

	for _, t := range ledger {
		if t.Type == TypeInitial {
			running = t.Amount
		} else {
			running = running.Add(t.Amount)
		}

		balances[t.ID] = running
	}

	return balances
}
