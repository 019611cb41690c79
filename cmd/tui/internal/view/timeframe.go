package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/spendwise/internal/analytics"
)

// period is one entry of the picker. A nil span means "everything", and the
// custom entry has its own flag because its span comes from user input.
type period struct {
	label  string
	span   func(now time.Time) (time.Time, time.Time)
	custom bool
}

func monthStart(t time.Time, offset int) time.Time {
	return time.Date(t.Year(), t.Month()+time.Month(offset), 1, 0, 0, 0, 0, time.UTC)
}

var periods = []period{
	{label: "This Week", span: func(now time.Time) (time.Time, time.Time) {
		// Weeks start on Monday.
		back := (int(now.Weekday()) + 6) % 7
		return now.AddDate(0, 0, -back), now
	}},
	{label: "This Month", span: func(now time.Time) (time.Time, time.Time) {
		return monthStart(now, 0), now
	}},
	{label: "Last Month", span: func(now time.Time) (time.Time, time.Time) {
		return monthStart(now, -1), monthStart(now, 0).AddDate(0, 0, -1)
	}},
	{label: "Year to Date", span: func(now time.Time) (time.Time, time.Time) {
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC), now
	}},
	{label: "All Time"},
	{label: "Custom Range", custom: true},
}

// normalizeDateRange widens the range to whole UTC days, matching how the
// API reads a date-only "to".
func normalizeDateRange(start, end time.Time) (time.Time, time.Time) {
	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1).Add(-time.Nanosecond)

	return from, to
}

// TimeframeSelectedMsg is emitted once the user has settled on a range.
// Start and End are zero when All is true.
type TimeframeSelectedMsg struct {
	Start time.Time
	End   time.Time
	All   bool
}

// Filter turns the selection into a ledger filter.
func (msg TimeframeSelectedMsg) Filter() analytics.Filter {
	if msg.All {
		return analytics.Filter{}
	}

	return analytics.Filter{From: &msg.Start, To: &msg.End}
}

func selected(start, end time.Time) tea.Cmd {
	start, end = normalizeDateRange(start, end)

	return func() tea.Msg {
		return TimeframeSelectedMsg{Start: start, End: end}
	}
}

// TimeframePicker lists the preset periods and a custom range entry.
type TimeframePicker struct {
	cursor  int
	initial int
	editing bool
	inputs  [2]textinput.Model
	focus   int
	err     error
	now     func() time.Time
}

// NewTimeframePicker starts with the cursor on the named period.
func NewTimeframePicker(initial string) TimeframePicker {
	var inputs [2]textinput.Model

	for i, prompt := range []string{"From: ", "To:   "} {
		in := textinput.New()
		in.Placeholder = time.DateOnly
		in.CharLimit = len(time.DateOnly)
		in.Width = 12
		in.Prompt = prompt
		inputs[i] = in
	}

	p := TimeframePicker{inputs: inputs, now: time.Now}

	for i, per := range periods {
		if per.label == initial {
			p.cursor = i
			p.initial = i
		}
	}

	return p
}

func (m TimeframePicker) Init() tea.Cmd {
	return nil
}

func (m TimeframePicker) Update(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	key, isKey := msg.(tea.KeyMsg)

	if !m.editing {
		if isKey {
			return m.choose(key)
		}

		return m, nil
	}

	if isKey {
		switch key.String() {
		case "esc":
			m.editing = false
			m.err = nil

			return m, nil
		case "tab", "shift+tab":
			m.focus = 1 - m.focus
			m.inputs[m.focus].Focus()
			m.inputs[1-m.focus].Blur()

			return m, textinput.Blink
		case "enter":
			return m.submitCustom()
		}
	}

	var cmds [2]tea.Cmd
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}

	return m, tea.Batch(cmds[0], cmds[1])
}

func (m TimeframePicker) choose(key tea.KeyMsg) (TimeframePicker, tea.Cmd) {
	switch key.Type {
	case tea.KeyUp:
		m.cursor = max(m.cursor-1, 0)
	case tea.KeyDown:
		m.cursor = min(m.cursor+1, len(periods)-1)
	case tea.KeyEnter:
		per := periods[m.cursor]

		switch {
		case per.custom:
			m.editing = true
			m.focus = 0
			m.inputs[0].Focus()
			m.inputs[1].Blur()

			return m, textinput.Blink
		case per.span == nil:
			return m, func() tea.Msg { return TimeframeSelectedMsg{All: true} }
		}

		return m, selected(per.span(m.now().UTC()))
	}

	return m, nil
}

func (m TimeframePicker) submitCustom() (TimeframePicker, tea.Cmd) {
	var bounds [2]time.Time

	for i, in := range m.inputs {
		t, err := time.Parse(time.DateOnly, strings.TrimSpace(in.Value()))
		if err != nil {
			m.err = fmt.Errorf("%sexpected YYYY-MM-DD", in.Prompt)
			return m, nil
		}

		bounds[i] = t
	}

	if bounds[1].Before(bounds[0]) {
		m.err = errors.New("end date is before start date")
		return m, nil
	}

	m.err = nil

	return m, selected(bounds[0], bounds[1])
}

func (m TimeframePicker) View() string {
	var sb strings.Builder

	if m.editing {
		fmt.Fprintf(&sb, "Custom range:\n\n%s\n%s\n\n(Enter to confirm, Tab to switch, Esc to back)",
			m.inputs[0].View(), m.inputs[1].View())
	} else {
		sb.WriteString("Select Timeframe:\n\n")

		for i, per := range periods {
			cursor := " "
			if i == m.cursor {
				cursor = ">"
			}

			fmt.Fprintf(&sb, "%s %s\n", cursor, per.label)
		}

		sb.WriteString("\n(Enter to select, Esc to back)")
	}

	if m.err != nil {
		sb.WriteString(errorStyle.Render(fmt.Sprintf("\n\nError: %v", m.err)))
	}

	return sb.String()
}

// IsSelecting reports whether the preset list is showing.
func (m TimeframePicker) IsSelecting() bool {
	return !m.editing
}

// Reset returns the picker to its starting period.
func (m *TimeframePicker) Reset() {
	m.editing = false
	m.cursor = m.initial
	m.err = nil

	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
}
