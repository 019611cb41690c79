package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/spendwise/internal/analytics"
	"github.com/MrJamesThe3rd/spendwise/internal/finance"
	"github.com/MrJamesThe3rd/spendwise/internal/matching"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

type reviewState int

const (
	reviewStateTimeframe reviewState = iota
	reviewStateReviewing
)

// ReviewModel walks through transactions still filed under General and
// lets the user pick a real category. Every answer is learned as a hint.
type ReviewModel struct {
	CommonModel
	txService       *transaction.Service
	matchingService *matching.Service

	state           reviewState
	timeframePicker TimeframePicker

	queue     []*transaction.Transaction
	currentTx *transaction.Transaction

	categoryInput textinput.Model
	patternInput  textinput.Model
	focusIndex    int

	status     string
	loading    bool
	totalCount int
}

func NewReviewModel(userID int64, txSvc *transaction.Service, matchSvc *matching.Service) ReviewModel {
	ci := textinput.New()
	ci.Placeholder = categoryNames()
	ci.Prompt = "Category: "
	ci.Width = 30

	pi := textinput.New()
	pi.Placeholder = "text to match in future labels"
	pi.Prompt = "Pattern:  "
	pi.Width = 40

	return ReviewModel{
		CommonModel:     CommonModel{UserID: userID},
		txService:       txSvc,
		matchingService: matchSvc,
		timeframePicker: NewTimeframePicker("This Week"),
		categoryInput:   ci,
		patternInput:    pi,
		state:           reviewStateTimeframe,
	}
}

func (m ReviewModel) Title() string { return "Review Uncategorized" }

func (m ReviewModel) Init() tea.Cmd {
	return nil
}

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.state = reviewStateReviewing
		m.loading = true

		return m, m.loadCmd(msg.Filter())

	case loadReviewMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error loading transactions: %v", msg.err)
			return m, nil
		}

		m.queue = msg.txs
		m.totalCount = len(m.queue)

		if len(m.queue) == 0 {
			m.status = "Nothing left in General."
			return m, nil
		}

		m.nextTx()

		return m, textinput.Blink

	case reviewSaveMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			return m, nil
		}

		m.nextTx()

		return m, textinput.Blink

	case tea.KeyMsg:
		if m.state == reviewStateTimeframe {
			if msg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
				return m, Back
			}

			var cmd tea.Cmd
			m.timeframePicker, cmd = m.timeframePicker.Update(msg)

			return m, cmd
		}

		if m.loading {
			return m, nil
		}

		switch msg.Type {
		case tea.KeyEsc:
			return m, Back
		case tea.KeyTab, tea.KeyShiftTab:
			m.toggleFocus()
			return m, textinput.Blink
		case tea.KeyEnter:
			if m.currentTx == nil {
				return m, nil
			}

			category, ok := parseCategory(m.categoryInput.Value())
			if !ok {
				m.status = "Unknown category, use one of: " + categoryNames()
				return m, nil
			}

			return m, m.saveAndNextCmd(m.currentTx, category, strings.TrimSpace(m.patternInput.Value()))
		}
	}

	if m.state == reviewStateTimeframe {
		var cmd tea.Cmd
		m.timeframePicker, cmd = m.timeframePicker.Update(msg)

		return m, cmd
	}

	var c1, c2 tea.Cmd
	m.categoryInput, c1 = m.categoryInput.Update(msg)
	m.patternInput, c2 = m.patternInput.Update(msg)

	return m, tea.Batch(c1, c2)
}

func (m *ReviewModel) toggleFocus() {
	m.focusIndex = (m.focusIndex + 1) % 2
	if m.focusIndex == 0 {
		m.categoryInput.Focus()
		m.patternInput.Blur()

		return
	}

	m.categoryInput.Blur()
	m.patternInput.Focus()
}

func (m ReviewModel) View() string {
	if m.state == reviewStateTimeframe {
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())
	}

	var content string

	switch {
	case m.loading:
		content = "Loading transactions..."
	case m.currentTx != nil:
		info := fmt.Sprintf(
			"Date:   %s\nType:   %s\nAmount: %s\nLabel:  %s\n",
			FormatDate(m.currentTx.OccurredAt),
			m.currentTx.Type,
			FormatAmount(m.currentTx.Amount, m.currentTx.Type),
			m.currentTx.Label,
		)
		content = fmt.Sprintf("%s\n\n%s\n%s\n%s\n\n(Enter to save & next, Tab to switch, Esc to quit)",
			m.status, info, m.categoryInput.View(), m.patternInput.View())
	default:
		content = m.status + "\n\n(Esc to back)"
	}

	return lipgloss.NewStyle().Padding(2).Render(content)
}

type loadReviewMsg struct {
	txs []*transaction.Transaction
	err error
}

func (m ReviewModel) loadCmd(filter analytics.Filter) tea.Cmd {
	userID := m.UserID
	filter.Category = new(string(finance.CategoryGeneral))

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.txService.List(ctx, userID, filter)

		return loadReviewMsg{txs: txs, err: err}
	}
}

func (m *ReviewModel) nextTx() {
	if len(m.queue) == 0 {
		m.currentTx = nil
		m.status = "All done! Nothing left in General."
		m.categoryInput.Blur()
		m.patternInput.Blur()

		return
	}

	m.currentTx = m.queue[0]
	m.queue = m.queue[1:]

	m.status = fmt.Sprintf("Reviewing %d/%d", m.totalCount-len(m.queue), m.totalCount)

	m.categoryInput.SetValue("")
	m.patternInput.SetValue(m.currentTx.Label)
	m.focusIndex = 0
	m.categoryInput.Focus()
	m.patternInput.Blur()

	ctx, cancel := DbCtx()
	defer cancel()

	if suggested, err := m.matchingService.Suggest(ctx, m.UserID, m.currentTx.Label); err == nil && suggested.Valid() {
		m.categoryInput.SetValue(string(suggested))
	}
}

type reviewSaveMsg struct {
	err error
}

func (m ReviewModel) saveAndNextCmd(tx *transaction.Transaction, category finance.Category, pattern string) tea.Cmd {
	userID := m.UserID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if pattern != "" {
			if err := m.matchingService.Learn(ctx, userID, pattern, category); err != nil {
				return reviewSaveMsg{err: err}
			}
		}

		_, err := m.txService.Update(ctx, userID, tx.ID, transaction.UpdateParams{
			Category: new(string(category)),
		})

		return reviewSaveMsg{err: err}
	}
}

func parseCategory(s string) (finance.Category, bool) {
	s = strings.TrimSpace(s)

	for _, c := range finance.Categories {
		if strings.EqualFold(s, string(c)) {
			return c, true
		}
	}

	return "", false
}

func categoryNames() string {
	names := make([]string, len(finance.Categories))
	for i, c := range finance.Categories {
		names[i] = string(c)
	}

	return strings.Join(names, ", ")
}
