package view

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/envelope/internal/account"
	"github.com/MrJamesThe3rd/envelope/internal/category"
	"github.com/MrJamesThe3rd/envelope/internal/matching"
	"github.com/MrJamesThe3rd/envelope/internal/transaction"
)

type txState int

const (
	txStateTimeframe txState = iota
	txStateList
	txStateEditing
)

var txStatuses = []transaction.Status{
	transaction.StatusNone,
	transaction.StatusPointed,
	transaction.StatusReconciled,
}

// txItem wraps a transaction to implement list.Item.
type txItem struct {
	tx       *transaction.Transaction
	category string
}

func (i txItem) Title() string {
	status := faintStyle.Render(fmt.Sprintf("[%s]", i.tx.Status))
	return fmt.Sprintf("%s  %10s  %s  %s", FormatDate(i.tx.Date), ColorAmount(i.tx.Amount), status, i.tx.Label)
}

func (i txItem) Description() string {
	parts := []string{"Balance " + FormatAmount(i.tx.Balance)}

	if i.category != "" {
		parts = append(parts, i.category)
	}

	if i.tx.Type != transaction.TypeNone {
		parts = append(parts, strings.ToLower(string(i.tx.Type)))
	}

	return strings.Join(parts, "  |  ")
}

func (i txItem) FilterValue() string {
	return i.tx.Label
}

// TransactionsModel is the ledger of one account.
type TransactionsModel struct {
	CommonModel
	txService       *transaction.Service
	categoryService *category.Service
	matchingService *matching.Service

	account         *account.Account
	state           txState
	timeframePicker TimeframePicker
	list            list.Model
	form            *huh.Form
	txs             []*transaction.Transaction
	categories      []*category.Category
	selectedTx      *transaction.Transaction

	timeframe string
	from      *time.Time
	to        *time.Time
	loading   bool
	status    string

	values *txValues
}

// txValues is shared by every copy of the model so the open form writes
// where the save command reads.
type txValues struct {
	date       string
	label      string
	amount     string
	categoryID uuid.UUID
	status     transaction.Status
}

func NewTransactionsModel(
	userID uuid.UUID,
	acc *account.Account,
	txSvc *transaction.Service,
	catSvc *category.Service,
	matchSvc *matching.Service,
) TransactionsModel {
	l := list.New([]list.Item{}, txItemDelegate{}, 0, 0)
	l.Title = acc.Name
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(true)
	l.KeyMap.Quit.SetEnabled(false)

	return TransactionsModel{
		CommonModel:     CommonModel{UserID: userID},
		txService:       txSvc,
		categoryService: catSvc,
		matchingService: matchSvc,
		account:         acc,
		timeframePicker: NewTimeframePicker(TimeframeThisMonth),
		list:            l,
	}
}

func (m TransactionsModel) Title() string { return "Ledger: " + m.account.Name }

func (m TransactionsModel) ShortHelp() string {
	switch m.state {
	case txStateTimeframe:
		return "Esc: back | Enter: select"
	case txStateList:
		return "Esc: back | Enter: edit | n: new | x: delete | l: learn rule | /: filter"
	case txStateEditing:
		return "Esc: cancel | Enter/Tab: navigate form"
	}

	return ""
}

func (m TransactionsModel) Init() tea.Cmd {
	return nil
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.timeframe = msg.Label
		m.from, m.to = msg.From, msg.To
		m.loading = true
		m.state = txStateList

		return m, m.loadTxsCmd()

	case loadTxsMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.txs = msg.txs
		m.categories = msg.categories
		m.refreshListItems()

		if len(msg.txs) == 0 {
			m.status = "No transactions found."
		}

		return m, nil

	case saveTxResultMsg:
		m.state = txStateList
		m.form = nil

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = msg.status

		return m, m.loadTxsCmd()

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	}

	switch m.state {
	case txStateTimeframe:
		return m.updateTimeframe(msg)
	case txStateList:
		return m.updateList(msg)
	case txStateEditing:
		return m.updateEditing(msg)
	}

	return m, nil
}

func (m TransactionsModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m TransactionsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc":
			m.state = txStateTimeframe
			return m, nil
		case "enter":
			if item, ok := m.list.SelectedItem().(txItem); ok {
				return m.startEditing(item.tx)
			}
		case "n":
			return m.startEditing(nil)
		case "x":
			if item, ok := m.list.SelectedItem().(txItem); ok {
				return m, m.deleteTxCmd(item.tx)
			}
		case "l":
			if item, ok := m.list.SelectedItem().(txItem); ok {
				return m, m.learnCmd(item.tx)
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

// startEditing opens the form for tx, or for a new transaction when tx is nil.
func (m TransactionsModel) startEditing(tx *transaction.Transaction) (tea.Model, tea.Cmd) {
	m.selectedTx = tx
	m.values = &txValues{date: FormatDate(time.Now()), status: transaction.StatusNone}

	if tx != nil {
		m.values.date = FormatDate(tx.Date)
		m.values.label = tx.Label
		m.values.amount = FormatAmount(tx.Amount)
		m.values.status = tx.Status

		if tx.CategoryID != nil {
			m.values.categoryID = *tx.CategoryID
		} else if tx.Type == transaction.TypeNone {
			// Pre-select the category a rule suggests for the label
			ctx, cancel := DbCtx()
			defer cancel()

			if suggestion, err := m.matchingService.Suggest(ctx, m.UserID, tx.Label); err == nil && suggestion != nil {
				m.values.categoryID = *suggestion
			}
		}
	}

	statusOptions := make([]huh.Option[transaction.Status], len(txStatuses))
	for i, s := range txStatuses {
		statusOptions[i] = huh.NewOption(string(s), s)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.values.date).
				Validate(func(s string) error {
					_, err := time.Parse(time.DateOnly, s)
					return err
				}),
			huh.NewInput().
				Title("Label").
				Value(&m.values.label).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("label cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Amount").
				Placeholder("-12.50").
				Value(&m.values.amount).
				Validate(func(s string) error {
					_, err := ParseAmount(s)
					return err
				}),
			huh.NewSelect[uuid.UUID]().
				Title("Category").
				Options(m.categoryOptions()...).
				Value(&m.values.categoryID),
			huh.NewSelect[transaction.Status]().
				Title("Status").
				Options(statusOptions...).
				Value(&m.values.status),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = txStateEditing

	return m, m.form.Init()
}

func (m TransactionsModel) categoryOptions() []huh.Option[uuid.UUID] {
	options := []huh.Option[uuid.UUID]{huh.NewOption("(none)", uuid.Nil)}

	for _, c := range m.categories {
		if c.IsGroup() && c.Kind == category.KindExpense {
			continue
		}

		options = append(options, huh.NewOption(c.Name, c.ID))
	}

	return options
}

func (m TransactionsModel) categoryName(id *uuid.UUID) string {
	if id == nil {
		return ""
	}

	for _, c := range m.categories {
		if c.ID == *id {
			return c.Name
		}
	}

	return ""
}

func (m TransactionsModel) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = txStateList
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveTxCmd()
}

func (m TransactionsModel) View() string {
	switch m.state {
	case txStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())

	case txStateList:
		if m.loading {
			return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
		}

		header := fmt.Sprintf("%s  |  %s  |  Balance %s",
			m.account.Name, m.timeframe, ColorAmount(m.account.CurrentBalance))

		statusLine := ""
		if m.status != "" {
			statusLine = faintStyle.Render(m.status) + "\n"
		}

		return lipgloss.NewStyle().Padding(1).Render(header + "\n" + statusLine + m.list.View())

	case txStateEditing:
		if m.form == nil {
			return ""
		}

		return lipgloss.NewStyle().Padding(1).Render(m.txInfoView() + "\n" + m.form.View())
	}

	return ""
}

func (m TransactionsModel) txInfoView() string {
	title := "New transaction on " + m.account.Name

	if tx := m.selectedTx; tx != nil {
		title = fmt.Sprintf("Type: %s  |  Balance after: %s", tx.Type, FormatAmount(tx.Balance))
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Render(title)
}

func (m *TransactionsModel) refreshListItems() {
	items := make([]list.Item, len(m.txs))
	for i, tx := range m.txs {
		items[i] = txItem{tx: tx, category: m.categoryName(tx.CategoryID)}
	}

	m.list.SetItems(items)
}

// Messages

type loadTxsMsg struct {
	txs        []*transaction.Transaction
	categories []*category.Category
	err        error
}

func (m TransactionsModel) loadTxsCmd() tea.Cmd {
	userID, accountID := m.UserID, m.account.ID
	filter := transaction.ListFilter{DateFrom: m.from, DateTo: m.to, Take: transaction.MaxTake}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.txService.List(ctx, userID, accountID, filter)
		if err != nil {
			return loadTxsMsg{err: err}
		}

		cats, err := m.categoryService.List(ctx, userID)

		return loadTxsMsg{txs: txs, categories: cats, err: err}
	}
}

type saveTxResultMsg struct {
	status string
	err    error
}

func (m TransactionsModel) saveTxCmd() tea.Cmd {
	tx := m.selectedTx
	userID, accountID := m.UserID, m.account.ID
	rawDate, label, rawAmount := m.values.date, strings.TrimSpace(m.values.label), m.values.amount
	categoryID, status := m.values.categoryID, m.values.status
	txSvc, matchSvc := m.txService, m.matchingService

	return func() tea.Msg {
		date, err := time.Parse(time.DateOnly, rawDate)
		if err != nil {
			return saveTxResultMsg{err: err}
		}

		amount, err := ParseAmount(rawAmount)
		if err != nil {
			return saveTxResultMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		if tx == nil {
			params := transaction.CreateParams{Date: date, Label: label, Amount: amount, Status: status}
			if categoryID != uuid.Nil {
				params.CategoryID = &categoryID
			}

			if _, err := txSvc.Create(ctx, userID, accountID, params); err != nil {
				return saveTxResultMsg{err: err}
			}

			return saveTxResultMsg{status: "Created."}
		}

		var patch transaction.UpdateParams

		if !date.Equal(transaction.Day(tx.Date)) {
			patch.Date = &date
		}

		if label != tx.Label {
			patch.Label = &label
		}

		if !amount.Equal(tx.Amount) {
			patch.Amount = &amount
		}

		if status != tx.Status {
			patch.Status = &status
		}

		categoryChanged := tx.CategoryID == nil && categoryID != uuid.Nil ||
			tx.CategoryID != nil && *tx.CategoryID != categoryID
		if categoryChanged {
			patch.CategoryID = &categoryID
		}

		if _, err := txSvc.Update(ctx, userID, accountID, tx.ID, patch); err != nil {
			return saveTxResultMsg{err: err}
		}

		// Remember the choice for future imports of the same label
		if categoryChanged && categoryID != uuid.Nil && tx.Type == transaction.TypeNone {
			if _, err := matchSvc.Learn(ctx, userID, label, categoryID); err != nil {
				return saveTxResultMsg{status: "Saved, but the rule was not learned: " + err.Error()}
			}
		}

		return saveTxResultMsg{status: "Saved."}
	}
}

func (m TransactionsModel) deleteTxCmd(tx *transaction.Transaction) tea.Cmd {
	userID, accountID := m.UserID, m.account.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.txService.Delete(ctx, userID, accountID, tx.ID); err != nil {
			return saveTxResultMsg{err: err}
		}

		return saveTxResultMsg{status: fmt.Sprintf("Deleted %q.", tx.Label)}
	}
}

func (m TransactionsModel) learnCmd(tx *transaction.Transaction) tea.Cmd {
	userID := m.UserID

	return func() tea.Msg {
		if tx.CategoryID == nil {
			return saveTxResultMsg{err: fmt.Errorf("%q has no category to learn", tx.Label)}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		rule, err := m.matchingService.Learn(ctx, userID, tx.Label, *tx.CategoryID)
		if err != nil {
			return saveTxResultMsg{err: err}
		}

		return saveTxResultMsg{status: fmt.Sprintf("Learned rule %q.", rule.Pattern)}
	}
}

// txItemDelegate renders items in the list.
type txItemDelegate struct{}

func (d txItemDelegate) Height() int                             { return 2 }
func (d txItemDelegate) Spacing() int                            { return 0 }
func (d txItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d txItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(txItem)
	if !ok {
		return
	}

	title := i.Title()
	if index == m.Index() {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintf(w, "    %s\n", faintStyle.Render(i.Description()))
}
