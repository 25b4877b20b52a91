// Package cgd parses CSV exports of Caixa Geral de Depósitos.
package cgd

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/envelope/internal/transaction"
)

const dateLayout = "02-01-2006"

var errNoLayout = errors.New("no matching CGD format found: expected columns for conta, extrato, or cartão")

// Parser recognizes the account, statement and card exports by their
// header row. Preamble rows before the header and footer rows after the
// data are skipped.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]transaction.CreateParams, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	l, cols, header := findLayout(rows)
	if l == nil {
		return nil, errNoLayout
	}

	return parseRows(l, cols, rows[header+1:], header)
}

type columns map[string]int

func findLayout(rows [][]string) (*layout, columns, int) {
	for idx, row := range rows {
		cols := make(columns, len(row))

		for i, cell := range row {
			if name := strings.TrimSpace(cell); name != "" {
				cols[name] = i
			}
		}

		for i := range layouts {
			if cols.has(layouts[i].required()) {
				return &layouts[i], cols, idx
			}
		}
	}

	return nil, nil, 0
}

func (c columns) has(names []string) bool {
	for _, n := range names {
		if _, ok := c[n]; !ok {
			return false
		}
	}

	return true
}

// parseRows turns data rows into params with signed amounts. Rows without
// a date or a non-zero amount are footers and are skipped.
func parseRows(l *layout, cols columns, rows [][]string, header int) ([]transaction.CreateParams, error) {
	var params []transaction.CreateParams

	for i, row := range rows {
		line := header + i + 2

		date, err := time.Parse(dateLayout, cell(row, cols[l.date]))
		if err != nil {
			continue
		}

		amount, ok := rowAmount(l, cols, row)
		if !ok {
			continue
		}

		label := cell(row, cols[l.label])
		if label == "" {
			return nil, fmt.Errorf("row %d: missing description", line)
		}

		params = append(params, transaction.CreateParams{
			Date:   date,
			Label:  label,
			Amount: amount,
			Status: transaction.StatusNone,
			Type:   transaction.TypeNone,
		})
	}

	return params, nil
}

func rowAmount(l *layout, cols columns, row []string) (decimal.Decimal, bool) {
	if l.mode == amountSigned {
		return nonZero(cell(row, cols[l.amount]))
	}

	if d, ok := nonZero(cell(row, cols[l.debit])); ok {
		return d.Abs().Neg(), true
	}

	if d, ok := nonZero(cell(row, cols[l.credit])); ok {
		return d.Abs(), true
	}

	return decimal.Zero, false
}

func nonZero(s string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Zero, false
	}

	d, err := parseEuropeanAmount(s)
	if err != nil || d.IsZero() {
		return decimal.Zero, false
	}

	return d, true
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
