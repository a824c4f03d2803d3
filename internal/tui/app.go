package tui

import (
	"database/sql"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jhlin/deskctl/internal/board"
	"github.com/jhlin/deskctl/internal/config"
	"github.com/jhlin/deskctl/internal/filter"
	"github.com/jhlin/deskctl/internal/service"
	"github.com/jhlin/deskctl/internal/tui/screens"
)

type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenIssues
	ScreenBoard
	ScreenCustomers
	ScreenViews
)

type App struct {
	db            *sql.DB
	cfg           *config.Config
	client        *service.Client
	store         *filter.Store
	hist          *filter.MemoryHistory
	currentScreen Screen
	width         int
	height        int

	// Screen models
	dashboard *screens.Dashboard
	issues    *screens.Issues
	board     *screens.Board
	customers *screens.Customers
	views     *screens.Views
}

func NewApp(db *sql.DB, cfg *config.Config, client *service.Client, store *filter.Store, hist *filter.MemoryHistory) *App {
	return &App{
		db:            db,
		cfg:           cfg,
		client:        client,
		store:         store,
		hist:          hist,
		currentScreen: ScreenDashboard,
	}
}

func (a *App) Init() tea.Cmd {
	a.dashboard = screens.NewDashboard(a.client)
	a.issues = screens.NewIssues(a.client, a.store, a.hist, a.db, a.cfg.PageSize)
	a.board = screens.NewBoard(board.New(a.client, a.store))
	a.customers = screens.NewCustomers(a.client)
	a.views = screens.NewViews(a.db, a.store)

	return a.dashboard.Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			if a.currentScreen == ScreenDashboard {
				return a, tea.Quit
			}
			// Let individual screens handle 'q' for going back
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.dashboard.SetSize(msg.Width, msg.Height)
		a.issues.SetSize(msg.Width, msg.Height)
		a.board.SetSize(msg.Width, msg.Height)
		a.customers.SetSize(msg.Width, msg.Height)
		a.views.SetSize(msg.Width, msg.Height)

	case screens.NavigateMsg:
		return a.handleNavigation(msg)
	}

	// Update current screen
	var cmd tea.Cmd
	switch a.currentScreen {
	case ScreenDashboard:
		cmd = a.dashboard.Update(msg)
	case ScreenIssues:
		cmd = a.issues.Update(msg)
	case ScreenBoard:
		cmd = a.board.Update(msg)
	case ScreenCustomers:
		cmd = a.customers.Update(msg)
	case ScreenViews:
		cmd = a.views.Update(msg)
	}

	return a, cmd
}

func (a *App) handleNavigation(msg screens.NavigateMsg) (tea.Model, tea.Cmd) {
	switch msg.Screen {
	case "dashboard":
		a.currentScreen = ScreenDashboard
		return a, a.dashboard.Init()
	case "issues":
		a.currentScreen = ScreenIssues
		return a, a.issues.Init()
	case "board":
		a.currentScreen = ScreenBoard
		return a, a.board.Init()
	case "customers":
		a.currentScreen = ScreenCustomers
		return a, a.customers.Init()
	case "views":
		a.currentScreen = ScreenViews
		return a, a.views.Init()
	}
	return a, nil
}

func (a *App) View() string {
	var content string

	switch a.currentScreen {
	case ScreenDashboard:
		content = a.dashboard.View()
	case ScreenIssues:
		content = a.issues.View()
	case ScreenBoard:
		content = a.board.View()
	case ScreenCustomers:
		content = a.customers.View()
	case ScreenViews:
		content = a.views.View()
	}

	return lipgloss.NewStyle().
		Width(a.width).
		Height(a.height).
		Render(content)
}

func Run(db *sql.DB, cfg *config.Config, client *service.Client, store *filter.Store, hist *filter.MemoryHistory) error {
	app := NewApp(db, cfg, client, store, hist)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
