package budget

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	metricsWindow = 12
	// smoothing factor of the optimized amount
	smoothingAlpha = "0.5"
)

// applyMetrics fills RequiredAmount and OptimizedAmount of every entry from
// the category activity of the metricsWindow months before month.
//
// RequiredAmount is what must still be assigned so that the entry covers
// the spending of the most recent month that had any. OptimizedAmount is an
// exponential smoothing of the monthly spending over the window, oldest
// month first, rounded to cents.
func applyMetrics(entries []*Entry, history []CategoryActivity, month time.Time) {
	start := StartOfMonth(month)

	spend := make(map[uuid.UUID][]decimal.Decimal, len(entries))

	for _, h := range history {
		// index 0 is the month right before start
		idx := monthsBetween(StartOfMonth(h.Month), start) - 1
		if idx < 0 || idx >= metricsWindow {
			continue
		}

		s, ok := spend[h.CategoryID]
		if !ok {
			s = make([]decimal.Decimal, metricsWindow)
			spend[h.CategoryID] = s
		}

		if h.Amount.IsNegative() {
			s[idx] = s[idx].Add(h.Amount.Neg())
		}
	}

	alpha := decimal.RequireFromString(smoothingAlpha)
	keep := decimal.NewFromInt(1).Sub(alpha)

	for _, e := range entries {
		e.RequiredAmount = decimal.Zero
		e.OptimizedAmount = decimal.Zero

		s, ok := spend[e.CategoryID]
		if !ok {
			continue
		}

		for _, v := range s {
			if v.IsPositive() {
				if gap := v.Sub(e.Available); gap.IsPositive() {
					e.RequiredAmount = gap
				}

				break
			}
		}

		smoothed := s[metricsWindow-1]
		for i := metricsWindow - 2; i >= 0; i-- {
			smoothed = alpha.Mul(s[i]).Add(keep.Mul(smoothed))
		}

		e.OptimizedAmount = smoothed.Round(2)
	}
}

func monthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}
