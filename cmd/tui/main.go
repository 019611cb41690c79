package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/spendwise/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/spendwise/internal/classifier"
	"github.com/MrJamesThe3rd/spendwise/internal/config"
	"github.com/MrJamesThe3rd/spendwise/internal/database"
	"github.com/MrJamesThe3rd/spendwise/internal/export"
	"github.com/MrJamesThe3rd/spendwise/internal/importer"
	"github.com/MrJamesThe3rd/spendwise/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/spendwise/internal/matching/store"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
	txStore "github.com/MrJamesThe3rd/spendwise/internal/transaction/store"
	"github.com/MrJamesThe3rd/spendwise/internal/user"
	userStore "github.com/MrJamesThe3rd/spendwise/internal/user/store"
)

type model struct {
	user *user.User

	txService       *transaction.Service
	matchingService *matching.Service
	importService   *importer.Service
	exportService   *export.Service

	currentView View

	importView   view.ImportModel
	reviewView   view.ReviewModel
	listView     view.ListModel
	quickAddView view.QuickAddModel
	exportView   view.ExportModel
}

type View int

const (
	ViewMenu     View = 0
	ViewImport   View = 1
	ViewReview   View = 2
	ViewList     View = 3
	ViewQuickAdd View = 4
	ViewExport   View = 5
)

// signIn asks for credentials on the terminal and resolves the account the
// session acts for.
func signIn(ctx context.Context, users *user.Service) (*user.User, error) {
	var email, password string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Email").Value(&email),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password),
		),
	)

	if err := form.Run(); err != nil {
		return nil, err
	}

	return users.Login(ctx, email, password)
}

func initialModel() (model, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return model{}, nil, fmt.Errorf("loading config: %w", err)
	}

	if !cfg.UseDatabase() {
		return model{}, nil, errors.New("the console needs DATABASE_URL or DB_HOST to be set")
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		return model{}, nil, fmt.Errorf("connecting to database: %w", err)
	}

	closeDB := func() { _ = db.Close() }

	if err := database.Migrate(db); err != nil {
		closeDB()
		return model{}, nil, fmt.Errorf("migrating database: %w", err)
	}

	u, err := signIn(ctx, user.NewService(userStore.New(db), nil))
	if err != nil {
		closeDB()
		return model{}, nil, err
	}

	matchSvc := matching.NewService(matchingStore.New(db))
	txSvc := transaction.NewService(txStore.New(db), classifier.New(), matchSvc)
	impSvc := importer.NewService()
	expSvc := export.NewService(txSvc)

	return model{
		user:            u,
		txService:       txSvc,
		matchingService: matchSvc,
		importService:   impSvc,
		exportService:   expSvc,
		currentView:     ViewMenu,
		importView:      view.NewImportModel(u.ID, txSvc, impSvc),
	}, closeDB, nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.user.ID, m.txService, m.importService)

				return m, m.importView.Init()
			case "2":
				m.currentView = ViewReview
				m.reviewView = view.NewReviewModel(m.user.ID, m.txService, m.matchingService)

				return m, m.reviewView.Init()
			case "3":
				m.currentView = ViewList
				m.listView = view.NewListModel(m.user.ID, m.txService)

				return m, m.listView.Init()
			case "4":
				m.currentView = ViewQuickAdd
				m.quickAddView = view.NewQuickAddModel(m.user.ID, m.txService)

				return m, m.quickAddView.Init()
			case "5":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.user.ID, m.exportService)

				return m, m.exportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewReview:
		var newModel tea.Model
		newModel, cmd = m.reviewView.Update(msg)
		m.reviewView = newModel.(view.ReviewModel)
	case ViewList:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	case ViewQuickAdd:
		var newModel tea.Model
		newModel, cmd = m.quickAddView.Update(msg)
		m.quickAddView = newModel.(view.QuickAddModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("Spendwise, signed in as %s\n\n", m.user.Email) +
				"1. Import Statement\n" +
				"2. Review Uncategorized\n" +
				"3. Browse Transactions\n" +
				"4. Quick Add\n" +
				"5. Export Transactions\n\n" +
				"q. Quit",
		)
	case ViewImport:
		return m.importView.View()
	case ViewReview:
		return m.reviewView.View()
	case ViewList:
		return m.listView.View()
	case ViewQuickAdd:
		return m.quickAddView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Unknown View"
}

func main() {
	m, closeDB, err := initialModel()
	if err != nil {
		slog.Error("failed to start console", "error", err)
		os.Exit(1)
	}
	defer closeDB()

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
