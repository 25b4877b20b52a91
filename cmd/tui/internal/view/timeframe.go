package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Timeframe is a predefined or custom range of transaction dates.
type Timeframe int

const (
	TimeframeThisMonth Timeframe = iota
	TimeframeLastMonth
	TimeframeLast90Days
	TimeframeThisYear
	TimeframeAll
	TimeframeCustom
)

func (t Timeframe) String() string {
	switch t {
	case TimeframeThisMonth:
		return "This Month"
	case TimeframeLastMonth:
		return "Last Month"
	case TimeframeLast90Days:
		return "Last 90 Days"
	case TimeframeThisYear:
		return "This Year"
	case TimeframeAll:
		return "All Time"
	case TimeframeCustom:
		return "Custom Range"
	}

	return "Unknown"
}

// Range returns the inclusive day range of t relative to now. Both ends are
// nil for TimeframeAll.
func (t Timeframe) Range(now time.Time) (from, to *time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	monthStart := today.AddDate(0, 0, 1-today.Day())

	switch t {
	case TimeframeThisMonth:
		return &monthStart, &today
	case TimeframeLastMonth:
		start := monthStart.AddDate(0, -1, 0)
		end := monthStart.AddDate(0, 0, -1)

		return &start, &end
	case TimeframeLast90Days:
		start := today.AddDate(0, 0, -89)
		return &start, &today
	case TimeframeThisYear:
		start := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return &start, &today
	}

	return nil, nil
}

// TimeframeSelectedMsg carries the chosen range. Nil ends are open.
type TimeframeSelectedMsg struct {
	Label string
	From  *time.Time
	To    *time.Time
}

// TimeframePicker selects a date range from a menu or two typed dates.
type TimeframePicker struct {
	selected Timeframe
	custom   bool

	inputs [2]textinput.Model
	focus  int

	now func() time.Time
	err error
}

func NewTimeframePicker(initial Timeframe) TimeframePicker {
	var inputs [2]textinput.Model

	for i, prompt := range []string{"From: ", "To:   "} {
		in := textinput.New()
		in.Placeholder = "YYYY-MM-DD"
		in.CharLimit = 10
		in.Width = 12
		in.Prompt = prompt
		inputs[i] = in
	}

	return TimeframePicker{selected: initial, inputs: inputs, now: time.Now}
}

func (m TimeframePicker) Update(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)

	if m.custom {
		if ok {
			switch keyMsg.String() {
			case "tab", "shift+tab":
				m.inputs[m.focus].Blur()
				m.focus = 1 - m.focus

				return m, m.inputs[m.focus].Focus()
			case "enter":
				return m.submitCustom()
			case "esc":
				m.custom = false
				m.err = nil

				return m, nil
			}
		}

		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)

		return m, cmd
	}

	if !ok {
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyUp:
		if m.selected > TimeframeThisMonth {
			m.selected--
		}
	case tea.KeyDown:
		if m.selected < TimeframeCustom {
			m.selected++
		}
	case tea.KeyEnter:
		if m.selected == TimeframeCustom {
			m.custom = true
			m.focus = 0

			return m, m.inputs[0].Focus()
		}

		from, to := m.selected.Range(m.now())
		label := m.selected.String()

		return m, func() tea.Msg {
			return TimeframeSelectedMsg{Label: label, From: from, To: to}
		}
	}

	return m, nil
}

func (m TimeframePicker) submitCustom() (TimeframePicker, tea.Cmd) {
	var dates [2]time.Time

	for i, in := range m.inputs {
		d, err := time.Parse(time.DateOnly, in.Value())
		if err != nil {
			m.err = fmt.Errorf("invalid date %q (YYYY-MM-DD)", in.Value())
			return m, nil
		}

		dates[i] = d
	}

	if dates[1].Before(dates[0]) {
		m.err = fmt.Errorf("range ends before it starts")
		return m, nil
	}

	m.err = nil
	from, to := dates[0], dates[1]
	label := fmt.Sprintf("%s to %s", FormatDate(from), FormatDate(to))

	return m, func() tea.Msg {
		return TimeframeSelectedMsg{Label: label, From: &from, To: &to}
	}
}

func (m TimeframePicker) View() string {
	errStr := ""
	if m.err != nil {
		errStr = "\n\n" + errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	if m.custom {
		return fmt.Sprintf(
			"Enter Custom Range:\n\n%s\n%s\n\n(Enter to confirm, Tab to switch, Esc to back)%s",
			m.inputs[0].View(), m.inputs[1].View(), errStr,
		)
	}

	s := "Select Timeframe:\n\n"
	for tf := TimeframeThisMonth; tf <= TimeframeCustom; tf++ {
		cursor := " "
		if m.selected == tf {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, tf)
	}

	return s + "\n(Enter to select, Esc to back)" + errStr
}

// IsSelecting reports whether the picker shows the menu rather than the
// custom date inputs.
func (m TimeframePicker) IsSelecting() bool {
	return !m.custom
}
