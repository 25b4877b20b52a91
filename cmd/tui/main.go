package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/envelope/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/envelope/internal/account"
	"github.com/MrJamesThe3rd/envelope/internal/budget"
	"github.com/MrJamesThe3rd/envelope/internal/category"
	"github.com/MrJamesThe3rd/envelope/internal/config"
	"github.com/MrJamesThe3rd/envelope/internal/event"
	"github.com/MrJamesThe3rd/envelope/internal/importer"
	"github.com/MrJamesThe3rd/envelope/internal/matching"
	"github.com/MrJamesThe3rd/envelope/internal/store"
	"github.com/MrJamesThe3rd/envelope/internal/transaction"
)

type services struct {
	accounts     *account.Service
	categories   *category.Service
	budget       *budget.Service
	transactions *transaction.Service
	matching     *matching.Service
	importer     *importer.Service
}

type model struct {
	cfg    *config.Config
	userID uuid.UUID
	svc    services

	// stack holds the open views; the menu shows when it is empty.
	stack []view.View
	size  tea.WindowSizeMsg
}

func newModel(cfg *config.Config, userID uuid.UUID, backend *store.Backend) model {
	// Nothing listens for events in the TUI.
	events := event.Nop{}

	return model{
		cfg:    cfg,
		userID: userID,
		svc: services{
			accounts:     account.NewService(backend.Accounts, events),
			categories:   category.NewService(backend.CategoryTx, events),
			budget:       budget.NewService(backend.Budget, events),
			transactions: transaction.NewService(backend.Ledger, events),
			matching:     matching.NewService(backend.Rules, backend.Categories),
			importer:     importer.NewService(),
		},
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) push(v view.View) (tea.Model, tea.Cmd) {
	m.stack = append(m.stack, v)
	size := m.size

	return m, tea.Batch(v.Init(), func() tea.Msg { return size })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.size = msg

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if len(m.stack) == 0 {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				return m.push(view.NewAccountsModel(m.userID, m.svc.accounts, m.svc.transactions))
			case "2":
				return m.push(view.NewBudgetModel(m.userID, m.svc.budget, time.Now()))
			}

			return m, nil
		}

	case view.OpenAccountMsg:
		return m.push(view.NewTransactionsModel(m.userID, msg.Account, m.svc.transactions, m.svc.categories, m.svc.matching))

	case view.OpenImportMsg:
		return m.push(view.NewImportModel(m.userID, msg.Account, m.svc.transactions, m.svc.importer, m.svc.matching))

	case view.BackMsg:
		if len(m.stack) == 0 {
			return m, nil
		}

		m.stack = m.stack[:len(m.stack)-1]
		if len(m.stack) == 0 {
			return m, nil
		}

		// Refresh the uncovered view: balances may have changed.
		return m, m.stack[len(m.stack)-1].Init()
	}

	if len(m.stack) == 0 {
		return m, nil
	}

	top := len(m.stack) - 1
	next, cmd := m.stack[top].Update(msg)
	m.stack[top] = next.(view.View)

	return m, cmd
}

func (m model) View() string {
	if len(m.stack) == 0 {
		return lipgloss.NewStyle().Padding(2).Render(
			m.cfg.App.Name + " TUI\n\n" +
				"1. Accounts\n" +
				"2. Budget\n\n" +
				"q. Quit",
		)
	}

	v := m.stack[len(m.stack)-1]

	return lipgloss.NewStyle().Bold(true).PaddingLeft(1).Render(v.Title()) + "\n" + v.View()
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", cfg.App.Name, err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	// The terminal belongs to the UI; logs go to a file when debugging.
	var logOut io.Writer = io.Discard

	if cfg.Log.Level == "debug" {
		f, err := tea.LogToFile("envelope-tui.log", "")
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()

		logOut = f
	}

	slog.SetDefault(cfg.Logger(logOut).With("app", cfg.App.Name))

	userID, err := cfg.TUIUser()
	if err != nil {
		return err
	}

	backend, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("opening %s store: %w", cfg.Store.Backend, err)
	}
	defer backend.Close()

	_, err = tea.NewProgram(newModel(cfg, userID, backend), tea.WithAltScreen()).Run()

	return err
}
