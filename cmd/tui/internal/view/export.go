package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/spendwise/internal/analytics"
	"github.com/MrJamesThe3rd/spendwise/internal/export"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

const exportTimeout = 2 * time.Minute

const (
	exportFormatCSV = "csv"
	exportFormatZip = "zip"
)

type exportStep int

const (
	exportStepRange exportStep = iota
	exportStepTarget
	exportStepWriting
	exportStepDone
)

// ExportModel writes the transactions of a chosen period to disk, either as
// a bare CSV or as a zip that also carries the summary.
type ExportModel struct {
	CommonModel
	exportService *export.Service

	step    exportStep
	picker  TimeframePicker
	filter  analytics.Filter
	form    *huh.Form
	spinner spinner.Model

	written string
	summary string
	err     error
}

func NewExportModel(userID int64, svc *export.Service) ExportModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ExportModel{
		CommonModel:   CommonModel{UserID: userID},
		exportService: svc,
		picker:        NewTimeframePicker("This Month"),
		spinner:       sp,
	}
}

func (m ExportModel) Title() string { return "Export Transactions" }

func (m ExportModel) ShortHelp() string {
	switch m.step {
	case exportStepWriting:
		return "Exporting..."
	case exportStepDone:
		return "Esc: back to menu"
	}

	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return nil
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, isKey := msg.(tea.KeyMsg)
	esc := isKey && key.Type == tea.KeyEsc

	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.filter = msg.Filter()
		m.form = targetForm()
		m.step = exportStepTarget

		return m, m.form.Init()

	case exportResultMsg:
		m.step = exportStepDone
		m.written, m.summary, m.err = msg.file, msg.summary, msg.err

		return m, nil
	}

	switch m.step {
	case exportStepRange:
		if esc && m.picker.IsSelecting() {
			return m, Back
		}

		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)

		return m, cmd

	case exportStepTarget:
		if esc {
			m.step = exportStepRange
			m.picker.Reset()

			return m, nil
		}

		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}

		if m.form.State != huh.StateCompleted {
			return m, cmd
		}

		m.step = exportStepWriting

		return m, tea.Batch(m.spinner.Tick, m.exportCmd(m.form.GetString("path"), m.form.GetString("format")))

	case exportStepWriting:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case exportStepDone:
		if esc {
			return m, Back
		}
	}

	return m, nil
}

func targetForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("Output directory").
				Description("Created when missing").
				Placeholder("./exports"),

			huh.NewSelect[string]().
				Key("format").
				Title("Format").
				Options(
					huh.NewOption("CSV", exportFormatCSV),
					huh.NewOption("Zip (CSV + summary)", exportFormatZip),
				),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) View() string {
	pad := lipgloss.NewStyle().Padding(1)

	switch m.step {
	case exportStepRange:
		return pad.Render(m.picker.View())
	case exportStepTarget:
		return pad.Render(m.form.View())
	case exportStepWriting:
		return pad.Render(m.spinner.View() + " Exporting transactions...")
	}

	if m.err != nil {
		return pad.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	return pad.Render(lipgloss.JoinVertical(lipgloss.Left,
		successStyle.Bold(true).Render("Export complete"),
		"",
		"Written to "+m.written,
		"",
		m.summary,
	))
}

type exportResultMsg struct {
	file    string
	summary string
	err     error
}

func (m ExportModel) exportCmd(dir, format string) tea.Cmd {
	userID := m.UserID
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		txs, err := m.exportService.Export(ctx, userID, filter)
		if err != nil {
			return exportResultMsg{err: err}
		}

		name, err := writeExport(m.exportService, dir, format, txs, time.Now())
		if err != nil {
			return exportResultMsg{err: err}
		}

		return exportResultMsg{file: name, summary: m.exportService.Summary(txs)}
	}
}

// writeExport stores txs under dir as transactions_YYYYMMDD.<format> and
// returns the file name. An empty dir means ./exports.
func writeExport(svc *export.Service, dir, format string, txs []*transaction.Transaction, now time.Time) (string, error) {
	if dir == "" {
		dir = "./exports"
	}

	if format != exportFormatZip {
		format = exportFormatCSV
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}

	name := filepath.Join(dir, fmt.Sprintf("transactions_%s.%s", now.Format("20060102"), format))

	f, err := os.Create(name)
	if err != nil {
		return "", err
	}

	write := svc.WriteCSV
	if format == exportFormatZip {
		write = svc.WriteArchive
	}

	if err := write(f, txs); err != nil {
		_ = f.Close()
		return "", err
	}

	return name, f.Close()
}
