package view

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/spendwise/internal/importer"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

const importTimeout = 2 * time.Minute

type importStep int

const (
	importStepFormat importStep = iota
	importStepFile
	importStepRunning
	importStepDuplicates
	importStepDone
)

// ImportModel loads a bank statement. Rows that look like transactions
// already on file are listed so the user can decide which to keep.
type ImportModel struct {
	CommonModel
	txService     *transaction.Service
	importService *importer.Service

	step    importStep
	form    *huh.Form
	family  string
	picker  filepicker.Model
	spinner spinner.Model

	fresh      []transaction.CreateParams
	duplicates list.Model

	outcome string
	failed  bool
}

func NewImportModel(userID int64, txSvc *transaction.Service, impSvc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := ImportModel{
		CommonModel:   CommonModel{UserID: userID},
		txService:     txSvc,
		importService: impSvc,
		picker:        fp,
		spinner:       sp,
	}
	m.form = m.formatForm()

	return m
}

func (m ImportModel) formatForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("family").
				Title("Statement format").
				Options(
					huh.NewOption("Detect automatically", importer.FamilyAuto),
					huh.NewOption("Generic CSV (date, description, amount)", importer.FamilyGeneric),
					huh.NewOption("Caixa Geral de Depositos", importer.FamilyCGD),
				),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ImportModel) Title() string { return "Import Statement" }

func (m ImportModel) ShortHelp() string {
	if m.step == importStepDuplicates {
		return "Space: keep/skip | a: keep all | n: skip all | Enter: save | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
		return m.back()
	}

	switch msg := msg.(type) {
	case importResultMsg:
		return m.showBatch(msg)
	case confirmResultMsg:
		return m.finish(msg.count, msg.err), nil
	}

	switch m.step {
	case importStepFormat:
		return m.updateFormat(msg)
	case importStepFile:
		return m.updateFile(msg)
	case importStepRunning:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case importStepDuplicates:
		return m.updateDuplicates(msg)
	}

	return m, nil
}

func (m ImportModel) back() (tea.Model, tea.Cmd) {
	switch m.step {
	case importStepFormat:
		return m, Back
	case importStepRunning:
		return m, nil
	}

	m.step = importStepFormat
	m.fresh = nil
	m.outcome = ""
	m.failed = false
	m.form = m.formatForm()

	return m, m.form.Init()
}

func (m ImportModel) updateFormat(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.family = m.form.GetString("family")
	m.step = importStepFile

	return m, m.picker.Init()
}

func (m ImportModel) updateFile(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.step = importStepRunning
		return m, tea.Batch(m.spinner.Tick, m.importCmd(path))
	}

	return m, cmd
}

func (m ImportModel) showBatch(msg importResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m.finish(0, msg.err), nil
	}

	if len(msg.result.Conflicts) == 0 {
		return m.finish(len(msg.result.Imported), nil), nil
	}

	items := make([]list.Item, 0, len(msg.result.Conflicts))
	for _, c := range msg.result.Conflicts {
		items = append(items, duplicateItem{Conflict: c})
	}

	d := list.NewDefaultDelegate()
	d.SetSpacing(0)

	m.fresh = msg.result.New
	m.duplicates = list.New(items, d, 90, 20)
	m.duplicates.Title = fmt.Sprintf("%d possible duplicates, %d new rows will be saved", len(items), len(m.fresh))
	m.duplicates.SetShowStatusBar(false)
	m.duplicates.SetFilteringEnabled(false)
	m.duplicates.SetShowHelp(false)
	m.step = importStepDuplicates

	return m, nil
}

func (m ImportModel) updateDuplicates(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case " ":
			if it, ok := m.duplicates.SelectedItem().(duplicateItem); ok {
				it.keep = !it.keep
				m.duplicates.SetItem(m.duplicates.Index(), it)
			}

			return m, nil
		case "a", "n":
			for i, li := range m.duplicates.Items() {
				it := li.(duplicateItem)
				it.keep = key.String() == "a"
				m.duplicates.SetItem(i, it)
			}

			return m, nil
		case "enter":
			return m, m.confirmCmd()
		}
	}

	var cmd tea.Cmd
	m.duplicates, cmd = m.duplicates.Update(msg)

	return m, cmd
}

func (m ImportModel) finish(count int, err error) ImportModel {
	m.step = importStepDone
	m.failed = err != nil
	m.outcome = fmt.Sprintf("Imported %d transactions.", count)

	if err != nil {
		m.outcome = fmt.Sprintf("Error: %v", err)
	}

	return m
}

func (m ImportModel) View() string {
	pad := lipgloss.NewStyle().Padding(1)

	switch m.step {
	case importStepFormat:
		return pad.Render(m.form.View())
	case importStepFile:
		return pad.Render("Pick a statement file:\n\n" + m.picker.View())
	case importStepRunning:
		return pad.Render(m.spinner.View() + " Reading statement...")
	case importStepDuplicates:
		return pad.Render(m.duplicates.View())
	}

	style := successStyle
	if m.failed {
		style = errorStyle
	}

	return pad.Render(style.Render(m.outcome) + "\n\n(Esc to import another)")
}

type importResultMsg struct {
	result *transaction.ImportResult
	err    error
}

type confirmResultMsg struct {
	count int
	err   error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	family := m.family
	userID := m.UserID

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		params, err := m.importService.Import(family, f)
		if err != nil {
			return importResultMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		m.txService.ApplyHints(ctx, userID, params)

		result, err := m.txService.ImportBatch(ctx, userID, params)

		return importResultMsg{result: result, err: err}
	}
}

func (m ImportModel) confirmCmd() tea.Cmd {
	params := append([]transaction.CreateParams(nil), m.fresh...)

	for _, li := range m.duplicates.Items() {
		if it := li.(duplicateItem); it.keep {
			params = append(params, it.Incoming)
		}
	}

	userID := m.UserID

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		txs, err := m.txService.CreateBatch(ctx, userID, params)

		return confirmResultMsg{count: len(txs), err: err}
	}
}

// duplicateItem is one incoming row next to the stored transaction it matched.
type duplicateItem struct {
	transaction.Conflict
	keep bool
}

func (i duplicateItem) Title() string {
	mark := "skip"
	if i.keep {
		mark = "KEEP"
	}

	date := "today"
	if i.Incoming.OccurredAt != nil {
		date = FormatDate(*i.Incoming.OccurredAt)
	}

	return fmt.Sprintf("[%s] %s  %s  %s", mark, date, FormatAmount(i.Incoming.Amount, i.Incoming.Type), i.Incoming.Label)
}

func (i duplicateItem) Description() string {
	e := i.Existing

	return fmt.Sprintf("on file: %s  %s  %s [%s]", FormatDate(e.OccurredAt), FormatAmount(e.Amount, e.Type), e.Label, e.Category)
}

func (i duplicateItem) FilterValue() string { return i.Incoming.Label }
