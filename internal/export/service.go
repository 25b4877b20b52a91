// Package export writes account ledgers as CSV files, one per account or
// bundled in a zip archive.
package export

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/envelope/internal/account"
	"github.com/MrJamesThe3rd/envelope/internal/category"
	"github.com/MrJamesThe3rd/envelope/internal/transaction"
)

// Header is the first row of every exported ledger.
var Header = []string{"date", "label", "amount", "balance", "category", "status", "type"}

type AccountReader interface {
	Get(ctx context.Context, userID, id uuid.UUID) (*account.Account, error)
	List(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*account.Account, error)
}

type TransactionLister interface {
	List(ctx context.Context, userID, accountID uuid.UUID, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

type CategoryLister interface {
	List(ctx context.Context, userID uuid.UUID) ([]*category.Category, error)
}

// Service handles the export of account ledgers.
type Service struct {
	accounts     AccountReader
	transactions TransactionLister
	categories   CategoryLister
}

func NewService(accounts AccountReader, transactions TransactionLister, categories CategoryLister) *Service {
	return &Service{accounts: accounts, transactions: transactions, categories: categories}
}

// Ledger returns every transaction of the account matching filter. Paging
// fields of filter are ignored.
func (s *Service) Ledger(ctx context.Context, userID, accountID uuid.UUID, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	filter.Take = transaction.MaxTake
	filter.Skip = 0

	var all []*transaction.Transaction

	for {
		page, err := s.transactions.List(ctx, userID, accountID, filter)
		if err != nil {
			return nil, fmt.Errorf("listing transactions: %w", err)
		}

		all = append(all, page...)

		if len(page) < filter.Take {
			return all, nil
		}

		filter.Skip += len(page)
	}
}

// WriteAccount writes the ledger of one account as CSV to w.
func (s *Service) WriteAccount(ctx context.Context, w io.Writer, userID, accountID uuid.UUID, filter transaction.ListFilter) error {
	if _, err := s.accounts.Get(ctx, userID, accountID); err != nil {
		return err
	}

	names, err := s.categoryNames(ctx, userID)
	if err != nil {
		return err
	}

	txs, err := s.Ledger(ctx, userID, accountID, filter)
	if err != nil {
		return err
	}

	return writeCSV(w, txs, names)
}

// WriteArchive writes a zip archive with one CSV per account of the user to
// w. Archived accounts are included.
func (s *Service) WriteArchive(ctx context.Context, w io.Writer, userID uuid.UUID, filter transaction.ListFilter) error {
	accounts, err := s.accounts.List(ctx, userID, true)
	if err != nil {
		return fmt.Errorf("listing accounts: %w", err)
	}

	names, err := s.categoryNames(ctx, userID)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	used := make(map[string]int, len(accounts))

	for _, acc := range accounts {
		txs, err := s.Ledger(ctx, userID, acc.ID, filter)
		if err != nil {
			return err
		}

		f, err := zw.Create(FileName(acc, used))
		if err != nil {
			return fmt.Errorf("adding %s to archive: %w", acc.Name, err)
		}

		if err := writeCSV(f, txs, names); err != nil {
			return err
		}
	}

	return zw.Close()
}

func (s *Service) categoryNames(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]string, error) {
	cats, err := s.categories.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	names := make(map[uuid.UUID]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}

	return names, nil
}

func writeCSV(w io.Writer, txs []*transaction.Transaction, categories map[uuid.UUID]string) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, t := range txs {
		var cat string
		if t.CategoryID != nil {
			cat = categories[*t.CategoryID]
		}

		record := []string{
			t.Date.Format("2006-01-02"),
			t.Label,
			t.Amount.StringFixed(2),
			t.Balance.StringFixed(2),
			cat,
			string(t.Status),
			string(t.Type),
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing transaction %s: %w", t.ID, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// FileName returns a file name for the ledger of acc that is safe on any
// file system. used tracks names already handed out so duplicates get a
// numeric suffix.
func FileName(acc *account.Account, used map[string]int) string {
	safe := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}

		return '_'
	}, acc.Name)

	if safe == "" {
		safe = "account"
	}

	used[safe]++
	if n := used[safe]; n > 1 {
		safe = fmt.Sprintf("%s_%d", safe, n)
	}

	return safe + ".csv"
}
