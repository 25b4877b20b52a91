// Package store opens the repositories of the configured backend.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/envelope/internal/account"
	accountStore "github.com/MrJamesThe3rd/envelope/internal/account/store"
	"github.com/MrJamesThe3rd/envelope/internal/budget"
	budgetStore "github.com/MrJamesThe3rd/envelope/internal/budget/store"
	"github.com/MrJamesThe3rd/envelope/internal/category"
	categoryStore "github.com/MrJamesThe3rd/envelope/internal/category/store"
	"github.com/MrJamesThe3rd/envelope/internal/config"
	"github.com/MrJamesThe3rd/envelope/internal/database"
	"github.com/MrJamesThe3rd/envelope/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/envelope/internal/matching/store"
	"github.com/MrJamesThe3rd/envelope/internal/store/memory"
	"github.com/MrJamesThe3rd/envelope/internal/transaction"
	txStore "github.com/MrJamesThe3rd/envelope/internal/transaction/store"
)

// Backend bundles what the services need from one storage backend.
type Backend struct {
	Accounts   account.Repository
	Categories category.Repository
	CategoryTx category.Transactor
	Rules      matching.Repository
	Budget     budget.Transactor
	Ledger     transaction.Transactor

	db *sql.DB
}

// Open connects to the backend named by cfg.Store.Backend. The postgres
// backend applies pending migrations before returning.
func Open(cfg *config.Config) (*Backend, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		slog.Warn("using in-memory store, data is lost on exit")

		return FromMemory(memory.New()), nil
	case config.BackendPostgres:
		db, err := database.New(cfg.ConnectionString())
		if err != nil {
			return nil, err
		}

		if err := database.RunMigrations(db); err != nil {
			db.Close()
			return nil, err
		}

		return &Backend{
			Accounts:   accountStore.New(db),
			Categories: categoryStore.New(db),
			CategoryTx: categoryStore.NewTransactor(db),
			Rules:      matchingStore.New(db),
			Budget:     budgetStore.NewTransactor(db),
			Ledger:     txStore.NewTransactor(db),
			db:         db,
		}, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func FromMemory(st *memory.Store) *Backend {
	return &Backend{
		Accounts:   st.Accounts(),
		Categories: st.Categories(),
		CategoryTx: st.CategoryTransactor(),
		Rules:      st.Rules(),
		Budget:     st.BudgetTransactor(),
		Ledger:     st.LedgerTransactor(),
	}
}

func (b *Backend) Close() error {
	if b.db == nil {
		return nil
	}

	return b.db.Close()
}
