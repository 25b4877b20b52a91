package transaction_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/envelope/internal/transaction"
)

func tx(day int, amount int64, status transaction.Status, typ transaction.Type) *transaction.Transaction {
	return &transaction.Transaction{
		ID:        uuid.New(),
		Date:      time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
		Amount:    decimal.NewFromInt(amount),
		Status:    status,
		Type:      typ,
		CreatedAt: time.Date(2024, 1, day, 12, 0, 0, 0, time.UTC),
	}
}

func TestComputeBalances(t *testing.T) {
	ledger := []*transaction.Transaction{
		tx(1, 100, transaction.StatusReconciled, transaction.TypeInitial),
		tx(2, -20, transaction.StatusPointed, transaction.TypeNone),
		tx(3, -5, transaction.StatusNone, transaction.TypeNone),
		tx(4, 40, transaction.StatusReconciled, transaction.TypeNone),
	}

	b := transaction.ComputeBalances(ledger)

	assert.Equal(t, "115", b.Current.String())
	assert.Equal(t, "120", b.Pointed.String())
	assert.Equal(t, "140", b.Reconciled.String())
}

func TestSortLedger(t *testing.T) {
	late := tx(3, 1, transaction.StatusNone, transaction.TypeNone)
	early := tx(1, 2, transaction.StatusNone, transaction.TypeNone)
	sameDayFirst := tx(2, 3, transaction.StatusNone, transaction.TypeNone)
	sameDaySecond := tx(2, 4, transaction.StatusNone, transaction.TypeNone)
	sameDaySecond.CreatedAt = sameDayFirst.CreatedAt.Add(time.Second)

	ledger := []*transaction.Transaction{late, sameDaySecond, early, sameDayFirst}
	transaction.SortLedger(ledger)

	assert.Equal(t, []*transaction.Transaction{early, sameDayFirst, sameDaySecond, late}, ledger)
}

func TestRunningBalances(t *testing.T) {
	type testCase struct {
		name   string
		ledger []*transaction.Transaction
		want   []string
	}

	tests := []testCase{
		{
			name: "FromInitial",
			ledger: []*transaction.Transaction{
				tx(1, 100, transaction.StatusReconciled, transaction.TypeInitial),
				tx(2, 50, transaction.StatusNone, transaction.TypeNone),
				tx(3, -30, transaction.StatusNone, transaction.TypeNone),
			},
			want: []string{"100", "150", "120"},
		},
		{
			name: "InitialResetsTotal",
			ledger: []*transaction.Transaction{
				tx(1, -10, transaction.StatusNone, transaction.TypeNone),
				tx(2, 100, transaction.StatusReconciled, transaction.TypeInitial),
				tx(3, -30, transaction.StatusNone, transaction.TypeNone),
			},
			want: []string{"-10", "100", "70"},
		},
		{
			name:   "Empty",
			ledger: nil,
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balances := transaction.RunningBalances(tt.ledger)

			got := make([]string, 0, len(tt.ledger))
			for _, l := range tt.ledger {
				got = append(got, balances[l.ID].String())
			}

			assert.Equal(t, tt.want, got)
		})
	}
}
