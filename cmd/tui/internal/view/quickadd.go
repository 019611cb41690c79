package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/spendwise/internal/classifier"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

// QuickAddModel turns a line like "spent 12 on lunch" into a transaction.
// The first Enter previews the proposal, the second one stores it.
type QuickAddModel struct {
	CommonModel
	txService *transaction.Service

	input    textinput.Model
	proposal *classifier.Proposal
	status   string
	err      error
}

func NewQuickAddModel(userID int64, txSvc *transaction.Service) QuickAddModel {
	ti := textinput.New()
	ti.Placeholder = "spent 12.50 on lunch"
	ti.Prompt = "> "
	ti.Width = 50
	ti.Focus()

	return QuickAddModel{
		CommonModel: CommonModel{UserID: userID},
		txService:   txSvc,
		input:       ti,
	}
}

func (m QuickAddModel) Title() string { return "Quick Add" }

func (m QuickAddModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m QuickAddModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case proposeMsg:
		m.err = msg.err
		m.proposal = msg.proposal
		m.status = ""

		return m, nil

	case quickSaveMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.status = fmt.Sprintf("Saved %s %s as %s.", msg.tx.Label, FormatAmount(msg.tx.Amount, msg.tx.Type), msg.tx.Category)
		m.proposal = nil
		m.input.SetValue("")

		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc:
			if m.proposal != nil {
				m.proposal = nil
				return m, nil
			}

			return m, Back
		case tea.KeyEnter:
			if m.proposal != nil {
				return m, m.saveCmd(*m.proposal)
			}

			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}

			return m, m.proposeCmd(text)
		}

		// Editing the text invalidates the preview.
		m.proposal = nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m QuickAddModel) View() string {
	content := "Describe a transaction:\n\n" + m.input.View() + "\n\n"

	switch {
	case m.err != nil && errors.Is(m.err, classifier.ErrUnparseable):
		content += errorStyle.Render("Could not find an amount in that text.")
	case m.err != nil:
		content += errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	case m.proposal != nil:
		content += fmt.Sprintf(
			"Type:     %s\nLabel:    %s\nCategory: %s\nAmount:   %s\nDate:     %s\n\n(Enter to save, Esc to discard)",
			m.proposal.Type,
			m.proposal.Label,
			m.proposal.Category,
			FormatAmount(m.proposal.Amount, m.proposal.Type),
			FormatDate(m.proposal.OccurredAt),
		)
	case m.status != "":
		content += successStyle.Render(m.status)
	}

	return lipgloss.NewStyle().Padding(2).Render(content)
}

type proposeMsg struct {
	proposal *classifier.Proposal
	err      error
}

type quickSaveMsg struct {
	tx  *transaction.Transaction
	err error
}

func (m QuickAddModel) proposeCmd(text string) tea.Cmd {
	userID := m.UserID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		p, err := m.txService.Propose(ctx, userID, text)

		return proposeMsg{proposal: p, err: err}
	}
}

func (m QuickAddModel) saveCmd(p classifier.Proposal) tea.Cmd {
	userID := m.UserID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		tx, err := m.txService.Create(ctx, userID, transaction.CreateParams{
			Type:       p.Type,
			Label:      p.Label,
			Category:   string(p.Category),
			Amount:     p.Amount,
			OccurredAt: &p.OccurredAt,
		})

		return quickSaveMsg{tx: tx, err: err}
	}
}
