package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/spendwise/internal/analytics"
	"github.com/MrJamesThe3rd/spendwise/internal/finance"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

type listMode int

const (
	listBrowsing listMode = iota
	listEditing
	listSearching
	listDeleting
)

var typeChoices = []struct {
	label string
	typ   *finance.Type
}{
	{"All", nil},
	{"Expenses", new(finance.TypeExpense)},
	{"Income", new(finance.TypeIncome)},
}

// presetPeriods are the picker periods usable without typing dates.
func presetPeriods() []period {
	out := make([]period, 0, len(periods))
	for _, p := range periods {
		if !p.custom {
			out = append(out, p)
		}
	}

	return out
}

// ListModel is the ledger browser: a table with type, period and text
// filters, a running summary, inline edit and delete.
type ListModel struct {
	CommonModel
	txService *transaction.Service

	mode   listMode
	table  table.Model
	form   *huh.Form
	search textinput.Model

	txs     []*transaction.Transaction
	summary analytics.Summary

	typeIdx   int
	periodIdx int
	query     string

	loading bool
	err     error
	note    string
}

func NewListModel(userID int64, txSvc *transaction.Service) ListModel {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(lipgloss.Color("245"))
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62"))

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Date", Width: 11},
			{Title: "Type", Width: 8},
			{Title: "Category", Width: 12},
			{Title: "Amount", Width: 11},
			{Title: "Label", Width: 40},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
		table.WithStyles(styles),
	)

	si := textinput.New()
	si.Prompt = "Search: "
	si.Placeholder = "label or category"

	m := ListModel{
		CommonModel: CommonModel{UserID: userID},
		txService:   txSvc,
		table:       t,
		search:      si,
		loading:     true,
	}

	for i, p := range presetPeriods() {
		if p.span == nil {
			m.periodIdx = i
		}
	}

	return m
}

func (m ListModel) Title() string { return "Transactions" }

func (m ListModel) ShortHelp() string {
	switch m.mode {
	case listEditing:
		return "Tab: next field | Esc: cancel"
	case listSearching:
		return "Enter: apply | Esc: cancel"
	case listDeleting:
		return "y: delete | any other key: cancel"
	}

	return "Esc: back | e: edit | x: delete | /: search | t: type | d: period | r: refresh"
}

func (m ListModel) Init() tea.Cmd {
	return m.fetch()
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ledgerMsg:
		m.loading = false
		m.txs, m.summary, m.err = msg.txs, msg.summary, msg.err
		m.table.SetRows(ledgerRows(m.txs))

		return m, nil

	case mutationMsg:
		m.note = msg.note
		if msg.err != nil {
			m.note = fmt.Sprintf("Error: %v", msg.err)
		}

		m.browse()

		return m, m.fetch()

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-12, 5))
		return m, nil
	}

	switch m.mode {
	case listEditing:
		return m.updateForm(msg)
	case listSearching:
		return m.updateSearch(msg)
	case listDeleting:
		if key, ok := msg.(tea.KeyMsg); ok {
			if key.String() == "y" {
				return m, m.deleteCmd()
			}

			m.browse()
		}

		return m, nil
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)

		return m, cmd
	}

	switch key.String() {
	case "esc":
		return m, Back
	case "r":
		return m, m.fetch()
	case "t":
		m.typeIdx = (m.typeIdx + 1) % len(typeChoices)
		return m, m.fetch()
	case "d":
		m.periodIdx = (m.periodIdx + 1) % len(presetPeriods())
		return m, m.fetch()
	case "/":
		m.mode = listSearching
		m.search.SetValue(m.query)
		m.table.Blur()

		return m, m.search.Focus()
	case "e":
		return m.edit()
	case "x":
		if m.selected() != nil {
			m.mode = listDeleting
		}

		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *ListModel) browse() {
	m.mode = listBrowsing
	m.form = nil
	m.search.Blur()
	m.table.Focus()
}

func (m ListModel) selected() *transaction.Transaction {
	if i := m.table.Cursor(); i >= 0 && i < len(m.txs) {
		return m.txs[i]
	}

	return nil
}

func (m ListModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEsc:
			m.browse()
			return m, nil
		case tea.KeyEnter:
			m.query = strings.TrimSpace(m.search.Value())
			m.browse()

			return m, m.fetch()
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)

	return m, cmd
}

func (m ListModel) edit() (tea.Model, tea.Cmd) {
	tx := m.selected()
	if tx == nil {
		return m, nil
	}

	categories := make([]huh.Option[string], len(finance.Categories))
	for i, c := range finance.Categories {
		categories[i] = huh.NewOption(string(c), string(c))
	}

	label, category := tx.Label, tx.Category

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Key("label").Title("Label").Value(&label).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("label is required")
					}

					return nil
				}),
			huh.NewSelect[string]().Key("category").Title("Category").
				Options(categories...).Value(&category),
		),
	).WithWidth(44).WithShowHelp(false)

	m.mode = listEditing
	m.table.Blur()

	return m, m.form.Init()
}

func (m ListModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
		m.browse()
		return m, nil
	}

	next, cmd := m.form.Update(msg)
	if f, ok := next.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.saveCmd()
	}

	return m, cmd
}

// filter builds the ledger query from the current toggles.
func (m ListModel) filter(now time.Time) analytics.Filter {
	f := analytics.Filter{Type: typeChoices[m.typeIdx].typ}

	if p := presetPeriods()[m.periodIdx]; p.span != nil {
		from, to := normalizeDateRange(p.span(now))
		f.From, f.To = &from, &to
	}

	if m.query != "" {
		f.Query = &m.query
	}

	return f
}

func (m ListModel) View() string {
	pad := lipgloss.NewStyle().Padding(1)

	if m.loading {
		return pad.Render("Loading transactions...")
	}

	if m.err != nil {
		return pad.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	accent := lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	filters := fmt.Sprintf("[t] %s  [d] %s",
		accent.Render(typeChoices[m.typeIdx].label),
		accent.Render(presetPeriods()[m.periodIdx].label))
	if m.query != "" {
		filters += fmt.Sprintf("  [/] %q", m.query)
	}

	totals := fmt.Sprintf("Income %s  Expenses %s  Savings %s  (%d rows)",
		m.summary.Income.StringFixed(2), m.summary.Expenses.StringFixed(2),
		m.summary.Savings.StringFixed(2), len(m.txs))

	body := lipgloss.JoinVertical(lipgloss.Left,
		filters,
		totals,
		"",
		lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")).Render(m.table.View()),
	)

	switch m.mode {
	case listEditing:
		side := lipgloss.NewStyle().Padding(1, 2).Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).Render("Edit\n\n" + m.form.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, side)
	case listSearching:
		body += "\n" + m.search.View()
	case listDeleting:
		if tx := m.selected(); tx != nil {
			body += "\n" + errorStyle.Render(fmt.Sprintf("Delete %q? (y/N)", tx.Label))
		}
	}

	if m.note != "" {
		body = lipgloss.NewStyle().Faint(true).Render(m.note) + "\n" + body
	}

	return pad.Render(body)
}

func ledgerRows(txs []*transaction.Transaction) []table.Row {
	rows := make([]table.Row, len(txs))
	for i, tx := range txs {
		rows[i] = table.Row{
			FormatDate(tx.OccurredAt),
			string(tx.Type),
			tx.Category,
			FormatAmount(tx.Amount, tx.Type),
			tx.Label,
		}
	}

	return rows
}

type ledgerMsg struct {
	txs     []*transaction.Transaction
	summary analytics.Summary
	err     error
}

type mutationMsg struct {
	note string
	err  error
}

func (m ListModel) fetch() tea.Cmd {
	userID := m.UserID
	filter := m.filter(time.Now().UTC())

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.txService.List(ctx, userID, filter)
		if err != nil {
			return ledgerMsg{err: err}
		}

		return ledgerMsg{txs: txs, summary: analytics.Summarize(transaction.Records(txs))}
	}
}

func (m ListModel) saveCmd() tea.Cmd {
	tx := m.selected()
	if tx == nil {
		return nil
	}

	userID := m.UserID
	label := strings.TrimSpace(m.form.GetString("label"))
	category := m.form.GetString("category")

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.txService.Update(ctx, userID, tx.ID, transaction.UpdateParams{Label: &label, Category: &category})

		return mutationMsg{note: "Saved.", err: err}
	}
}

func (m ListModel) deleteCmd() tea.Cmd {
	tx := m.selected()
	if tx == nil {
		return nil
	}

	userID := m.UserID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return mutationMsg{note: "Deleted.", err: m.txService.Delete(ctx, userID, tx.ID)}
	}
}
