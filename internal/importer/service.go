package importer

import (
	"io"
	"log/slog"
	"slices"

	"github.com/MrJamesThe3rd/envelope/internal/apperr"
	"github.com/MrJamesThe3rd/envelope/internal/importer/cgd"
	"github.com/MrJamesThe3rd/envelope/internal/transaction"
)

type Service struct {
	parsers map[Bank]Parser
}

func NewService() *Service {
	return &Service{
		parsers: map[Bank]Parser{
			BankCGD: cgd.NewParser(),
		},
	}
}

// Banks returns the supported banks in a stable order.
func (s *Service) Banks() []Bank {
	banks := make([]Bank, 0, len(s.parsers))
	for b := range s.parsers {
		banks = append(banks, b)
	}

	slices.Sort(banks)

	return banks
}

// Import decodes r and parses it with the parser of bank. A file the
// parser cannot read is reported as a validation error.
func (s *Service) Import(bank Bank, r io.Reader) ([]transaction.CreateParams, error) {
	parser, ok := s.parsers[bank]
	if !ok {
		return nil, apperr.Validation("unknown bank: %s", bank)
	}

	utf8r, charset, err := Decode(r)
	if err != nil {
		return nil, apperr.Validation("reading file: %v", err)
	}

	params, err := parser.Parse(utf8r)
	if err != nil {
		return nil, apperr.Validation("%s: %v", bank, err)
	}

	slog.Debug("parsed statement", "bank", bank, "charset", charset, "rows", len(params))

	return params, nil
}
