package view

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/envelope/internal/account"
)

const dbTimeout = 5 * time.Second

// View is implemented by every screen.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// CommonModel is embedded by all views. UserID is the budget owner the
// TUI acts for.
type CommonModel struct {
	UserID uuid.UUID
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// OpenAccountMsg asks the root model to show the ledger of Account.
type OpenAccountMsg struct {
	Account *account.Account
}

// OpenImportMsg asks the root model to start an import into Account.
type OpenImportMsg struct {
	Account *account.Account
}

// DbCtx returns a context with a standard timeout for store operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
