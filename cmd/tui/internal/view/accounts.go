package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/envelope/internal/account"
	"github.com/MrJamesThe3rd/envelope/internal/transaction"
)

type accountsState int

const (
	accountsStateBrowse accountsState = iota
	accountsStateCreate
	accountsStateInitial
)

var accountTypes = []account.Type{
	account.TypeChecking,
	account.TypeSavings,
	account.TypeCreditCard,
	account.TypeCash,
	account.TypeInvestment,
	account.TypeLoan,
	account.TypeOther,
}

type AccountsModel struct {
	CommonModel
	accountService *account.Service
	txService      *transaction.Service

	state    accountsState
	table    table.Model
	accounts []*account.Account
	form     *huh.Form
	archived bool

	loading bool
	err     error
	status  string

	values *accountValues
}

// accountValues is shared by every copy of the model so the open form
// writes where the save command reads.
type accountValues struct {
	name     string
	typ      account.Type
	currency string
	amount   string
}

func NewAccountsModel(userID uuid.UUID, accSvc *account.Service, txSvc *transaction.Service) AccountsModel {
	columns := []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Type", Width: 12},
		{Title: "Cur", Width: 4},
		{Title: "Current", Width: 12},
		{Title: "Pointed", Width: 12},
		{Title: "Reconciled", Width: 12},
		{Title: "", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return AccountsModel{
		CommonModel:    CommonModel{UserID: userID},
		accountService: accSvc,
		txService:      txSvc,
		table:          t,
		loading:        true,
	}
}

func (m AccountsModel) Title() string { return "Accounts" }

func (m AccountsModel) ShortHelp() string {
	if m.state != accountsStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | Enter: ledger | n: new | i: opening balance | u: import | x: archive | h: show archived | r: refresh"
}

func (m AccountsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m AccountsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadAccountsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.accounts = msg.accounts
		m.refreshTable()

		return m, nil

	case accountSavedMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		m.state = accountsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-10, 5))

		return m, nil
	}

	if m.state == accountsStateBrowse {
		return m.updateBrowse(msg)
	}

	return m.updateForm(msg)
}

func (m AccountsModel) selected() *account.Account {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.accounts) {
		return nil
	}

	return m.accounts[idx]
}

func (m AccountsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "h":
			m.archived = !m.archived
			return m, m.loadCmd()
		case "n":
			return m.startCreate()
		case "enter":
			if acc := m.selected(); acc != nil {
				return m, func() tea.Msg { return OpenAccountMsg{Account: acc} }
			}
		case "u":
			if acc := m.selected(); acc != nil && !acc.Archived {
				return m, func() tea.Msg { return OpenImportMsg{Account: acc} }
			}
		case "i":
			if acc := m.selected(); acc != nil {
				return m.startInitial()
			}
		case "x":
			if acc := m.selected(); acc != nil && !acc.Archived {
				return m, m.archiveCmd(acc.ID)
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m AccountsModel) startCreate() (tea.Model, tea.Cmd) {
	m.values = &accountValues{typ: account.TypeChecking, currency: account.DefaultCurrency}

	options := make([]huh.Option[account.Type], len(accountTypes))
	for i, t := range accountTypes {
		options[i] = huh.NewOption(string(t), t)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&m.values.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),
			huh.NewSelect[account.Type]().
				Title("Type").
				Options(options...).
				Value(&m.values.typ),
			huh.NewInput().
				Title("Currency").
				CharLimit(3).
				Value(&m.values.currency),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = accountsStateCreate
	m.table.Blur()

	return m, m.form.Init()
}

func (m AccountsModel) startInitial() (tea.Model, tea.Cmd) {
	m.values = &accountValues{}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Opening balance").
				Placeholder("0.00").
				Value(&m.values.amount).
				Validate(func(s string) error {
					_, err := ParseAmount(s)
					return err
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = accountsStateInitial
	m.table.Blur()

	return m, m.form.Init()
}

func (m AccountsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = accountsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == accountsStateCreate {
		return m, m.createCmd()
	}

	return m, m.initialCmd()
}

func (m AccountsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading accounts...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	shown := "open"
	if m.archived {
		shown = "open + archived"
	}

	header := fmt.Sprintf("Accounts [h] %s", activeStyle(shown))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		faintStyle.Render(m.ShortHelp()),
	)

	if m.state != accountsStateBrowse && m.form != nil {
		title := "New Account"
		if m.state == accountsStateInitial {
			if acc := m.selected(); acc != nil {
				title = "Opening balance of " + acc.Name
			}
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(title + "\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *AccountsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.accounts))
	for _, acc := range m.accounts {
		flag := ""
		if acc.Archived {
			flag = "archived"
		}

		rows = append(rows, table.Row{
			acc.Name,
			string(acc.Type),
			acc.Currency,
			FormatAmount(acc.CurrentBalance),
			FormatAmount(acc.PointedBalance),
			FormatAmount(acc.ReconciledBalance),
			flag,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadAccountsMsg struct {
	accounts []*account.Account
	err      error
}

func (m AccountsModel) loadCmd() tea.Cmd {
	userID, archived := m.UserID, m.archived

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		accounts, err := m.accountService.List(ctx, userID, archived)

		return loadAccountsMsg{accounts: accounts, err: err}
	}
}

type accountSavedMsg struct {
	status string
	err    error
}

func (m AccountsModel) createCmd() tea.Cmd {
	params := account.CreateParams{Name: m.values.name, Type: m.values.typ, Currency: m.values.currency}
	userID := m.UserID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		acc, err := m.accountService.Create(ctx, userID, params)
		if err != nil {
			return accountSavedMsg{err: err}
		}

		return accountSavedMsg{status: fmt.Sprintf("Created %s.", acc.Name)}
	}
}

func (m AccountsModel) initialCmd() tea.Cmd {
	acc := m.selected()
	if acc == nil {
		return nil
	}

	raw := m.values.amount
	userID := m.UserID

	return func() tea.Msg {
		amount, err := ParseAmount(raw)
		if err != nil {
			return accountSavedMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.txService.CreateInitial(ctx, userID, acc.ID, transaction.InitialParams{Amount: amount}); err != nil {
			return accountSavedMsg{err: err}
		}

		return accountSavedMsg{status: fmt.Sprintf("Opening balance of %s set to %s.", acc.Name, FormatAmount(amount))}
	}
}

func (m AccountsModel) archiveCmd(id uuid.UUID) tea.Cmd {
	userID := m.UserID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		acc, err := m.accountService.Archive(ctx, userID, id)
		if err != nil {
			return accountSavedMsg{err: err}
		}

		return accountSavedMsg{status: fmt.Sprintf("Archived %s.", acc.Name)}
	}
}
