package screens

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jhlin/deskctl/internal/models"
	"github.com/jhlin/deskctl/internal/service"
)

type Dashboard struct {
	client *service.Client
	width  int
	height int

	summary *models.DashboardSummary
	loading bool
	err     error
}

func NewDashboard(client *service.Client) *Dashboard {
	return &Dashboard{
		client:  client,
		loading: true,
	}
}

func (d *Dashboard) SetSize(width, height int) {
	d.width = width
	d.height = height
}

type dashboardDataMsg struct {
	summary *models.DashboardSummary
	err     error
}

func (d *Dashboard) Init() tea.Cmd {
	d.loading = true
	return d.loadData
}

func (d *Dashboard) loadData() tea.Msg {
	summary, err := d.client.Dashboard(context.Background())
	return dashboardDataMsg{summary: summary, err: err}
}

func (d *Dashboard) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.loading = false
		d.err = msg.err
		d.summary = msg.summary
		return nil

	case RefreshMsg:
		return d.Init()

	case tea.KeyMsg:
		switch msg.String() {
		case "i":
			return Navigate("issues")
		case "b":
			return Navigate("board")
		case "c":
			return Navigate("customers")
		case "v":
			return Navigate("views")
		}
	}

	return nil
}

func (d *Dashboard) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("DESKCTL"))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render("Service Desk Console"))
	b.WriteString("\n\n")

	if d.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if d.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", d.err)))
		b.WriteString("\n")
		b.WriteString(HelpStyle.Render("[i] Issues  [b] Board  [c] Customers  [v] Views  [q] Quit"))
		return b.String()
	}

	if d.summary != nil {
		statsContent := fmt.Sprintf(
			"Total issues: %d\nOpen: %s   In Progress: %s   Pending: %s   Closed: %s",
			d.summary.Total,
			WarningStyle.Render(fmt.Sprintf("%d", d.summary.Open)),
			NormalStyle.Render(fmt.Sprintf("%d", d.summary.InProgress)),
			DimStyle.Render(fmt.Sprintf("%d", d.summary.Pending)),
			SuccessStyle.Render(fmt.Sprintf("%d", d.summary.Closed)),
		)
		if d.summary.CompletionRate != nil {
			statsContent += fmt.Sprintf("\nCompletion rate: %.1f%%", *d.summary.CompletionRate)
		}
		b.WriteString(BoxStyle.Render(statsContent))
		b.WriteString("\n")
	}

	help := "[i] Issues  [b] Board  [c] Customers  [v] Views  [q] Quit"
	b.WriteString(HelpStyle.Render(help))

	return b.String()
}
