package budget

import (
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/envelope/internal/apperr"
)

const monthKeyLayout = "2006-01"

var monthKeyPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// StartOfMonth returns midnight UTC on the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func MonthKey(t time.Time) string {
	return t.Format(monthKeyLayout)
}

// ParseMonthKey parses a YYYY-MM key into the first day of that month.
func ParseMonthKey(key string) (time.Time, error) {
	if !monthKeyPattern.MatchString(key) {
		return time.Time{}, apperr.Validation("invalid month %q, expected YYYY-MM", key)
	}

	t, err := time.Parse(monthKeyLayout, key)
	if err != nil {
		return time.Time{}, apperr.Validation("invalid month %q, expected YYYY-MM", key)
	}

	return t, nil
}

// MonthRef identifies a budget month either by row id or by calendar month.
type MonthRef struct {
	ID    uuid.UUID
	Month time.Time
}

// ParseMonthRef accepts a budget month id or a YYYY-MM key.
func ParseMonthRef(s string) (MonthRef, error) {
	if id, err := uuid.Parse(s); err == nil {
		return MonthRef{ID: id}, nil
	}

	month, err := ParseMonthKey(s)
	if err != nil {
		return MonthRef{}, err
	}

	return MonthRef{Month: month}, nil
}

// ByID reports whether the reference is a row id.
func (r MonthRef) ByID() bool { return r.ID != uuid.Nil }
