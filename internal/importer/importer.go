// Package importer turns bank statement exports into transaction params
// ready for transaction.Service.ImportBatch.
package importer

import (
	"io"

	"github.com/MrJamesThe3rd/envelope/internal/transaction"
)

type Bank string

const (
	BankCGD Bank = "cgd"
)

// Parser reads one bank's export. Input is always UTF-8; Service decodes
// legacy charsets before calling it.
type Parser interface {
	Parse(r io.Reader) ([]transaction.CreateParams, error)
}
