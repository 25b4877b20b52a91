package view

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

var (
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	faintStyle    = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// FormatAmount renders an amount with two decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// ColorAmount renders an amount red when negative and green when positive.
// Table cells use FormatAmount instead: styled text breaks column widths.
func ColorAmount(d decimal.Decimal) string {
	switch d.Sign() {
	case -1:
		return negativeStyle.Render(FormatAmount(d))
	case 1:
		return positiveStyle.Render(FormatAmount(d))
	default:
		return FormatAmount(d)
	}
}

func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// ParseAmount parses a user-typed amount. A comma is accepted as the
// decimal separator.
func ParseAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(normalizeAmount(s))
}

func normalizeAmount(s string) string {
	out := make([]rune, 0, len(s))

	for _, r := range s {
		switch r {
		case ' ':
		case ',':
			out = append(out, '.')
		default:
			out = append(out, r)
		}
	}

	return string(out)
}
