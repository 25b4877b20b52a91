package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/envelope/internal/budget"
)

// budgetRow backs one table row. Group rows have no entry.
type budgetRow struct {
	group *budget.Group
	entry *budget.Entry
}

// BudgetModel shows one budget month and edits assigned amounts.
type BudgetModel struct {
	CommonModel
	budgetService *budget.Service

	month   time.Time
	view    *budget.Month
	rows    []budgetRow
	table   table.Model
	form    *huh.Form
	editing *budget.Entry

	loading bool
	status  string
	err     error

	values *entryValues
}

type entryValues struct {
	assigned string
}

func NewBudgetModel(userID uuid.UUID, svc *budget.Service, now time.Time) BudgetModel {
	columns := []table.Column{
		{Title: "Category", Width: 28},
		{Title: "Assigned", Width: 12},
		{Title: "Activity", Width: 12},
		{Title: "Available", Width: 12},
		{Title: "Required", Width: 12},
		{Title: "Optimized", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(18),
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

	return BudgetModel{
		CommonModel:   CommonModel{UserID: userID},
		budgetService: svc,
		month:         budget.StartOfMonth(now),
		table:         t,
		loading:       true,
	}
}

func (m BudgetModel) Title() string { return "Budget" }

func (m BudgetModel) ShortHelp() string {
	if m.form != nil {
		return "Enter: save | Esc: cancel"
	}

	return "Esc: back | ←/→: month | Enter: assign | r: refresh"
}

func (m BudgetModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m BudgetModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadBudgetMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.view = msg.month
		m.refreshTable()

		return m, nil

	case entrySavedMsg:
		m.form = nil
		m.editing = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("%s: assigned %s.", msg.entry.Name, FormatAmount(msg.entry.Assigned))

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-12, 5))

		return m, nil
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "left", "h":
			m.month = m.month.AddDate(0, -1, 0)
			m.loading = true

			return m, m.loadCmd()
		case "right", "l":
			m.month = m.month.AddDate(0, 1, 0)
			m.loading = true

			return m, m.loadCmd()
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "enter":
			return m.startAssign()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m BudgetModel) startAssign() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.rows) || m.rows[idx].entry == nil {
		return m, nil
	}

	m.editing = m.rows[idx].entry
	m.values = &entryValues{assigned: FormatAmount(m.editing.Assigned)}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Assigned to " + m.editing.Name).
				Value(&m.values.assigned).
				Validate(func(s string) error {
					_, err := ParseAmount(s)
					return err
				}),
		),
	).WithWidth(40).WithShowHelp(false)

	m.table.Blur()

	return m, m.form.Init()
}

func (m BudgetModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.form = nil
		m.editing = nil
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

	return m, m.assignCmd()
}

func (m BudgetModel) View() string {
	header := fmt.Sprintf("Budget %s", activeStyle(budget.MonthKey(m.month)))

	if m.loading {
		return lipgloss.NewStyle().Padding(1).Render(header + "\n\nLoading...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(header + "\n\n" + errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	summary := fmt.Sprintf(
		"Income %s  |  Carryover %s  |  Assigned %s  |  Activity %s  |  To assign %s",
		ColorAmount(m.view.Income),
		ColorAmount(m.view.AvailableCarryover),
		FormatAmount(m.view.Assigned),
		ColorAmount(m.view.Activity),
		ColorAmount(m.view.Available),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left, header, summary, "", tableView, faintStyle.Render(m.ShortHelp()))

	if m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Render(m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *BudgetModel) refreshTable() {
	m.rows = m.rows[:0]
	rows := make([]table.Row, 0)

	for _, g := range m.view.Groups {
		m.rows = append(m.rows, budgetRow{group: g})
		rows = append(rows, table.Row{
			g.Name,
			FormatAmount(g.Assigned),
			FormatAmount(g.Activity),
			FormatAmount(g.Available),
			"",
			"",
		})

		for _, e := range g.Entries {
			m.rows = append(m.rows, budgetRow{group: g, entry: e})
			rows = append(rows, table.Row{
				"  " + e.Name,
				FormatAmount(e.Assigned),
				FormatAmount(e.Activity),
				FormatAmount(e.Available),
				FormatAmount(e.RequiredAmount),
				FormatAmount(e.OptimizedAmount),
			})
		}
	}

	m.table.SetRows(rows)
}

// Messages

type loadBudgetMsg struct {
	month *budget.Month
	err   error
}

func (m BudgetModel) loadCmd() tea.Cmd {
	userID, key := m.UserID, budget.MonthKey(m.month)

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		month, err := m.budgetService.GetMonth(ctx, userID, key)

		return loadBudgetMsg{month: month, err: err}
	}
}

type entrySavedMsg struct {
	entry *budget.Entry
	err   error
}

func (m BudgetModel) assignCmd() tea.Cmd {
	userID, key := m.UserID, budget.MonthKey(m.month)
	entry, raw := m.editing, m.values.assigned

	return func() tea.Msg {
		assigned, err := ParseAmount(raw)
		if err != nil {
			return entrySavedMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		updated, err := m.budgetService.UpdateEntry(ctx, userID, key, entry.CategoryID, budget.EntryPatch{Assigned: &assigned})
		if err != nil {
			return entrySavedMsg{err: err}
		}

		if updated.Name == "" {
			updated.Name = entry.Name
		}

		return entrySavedMsg{entry: updated}
	}
}
