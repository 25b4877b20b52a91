package cgd

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseEuropeanAmount parses amounts written with '.' thousands separators
// and a ',' decimal mark: "1.234,56", "-588,74", "10,00".
func parseEuropeanAmount(s string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(s, ".", "")
	clean = strings.ReplaceAll(clean, ",", ".")
	clean = strings.ReplaceAll(clean, " ", "")

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, err
	}

	return d.Round(2), nil
}
