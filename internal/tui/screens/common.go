package screens

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jhlin/deskctl/internal/models"
	"github.com/jhlin/deskctl/internal/warranty"
)

// NavigateMsg is sent when navigation to another screen is requested
type NavigateMsg struct {
	Screen string
}

func Navigate(screen string) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Screen: screen}
	}
}

// RefreshMsg is sent when data should be refreshed
type RefreshMsg struct{}

func Refresh() tea.Cmd {
	return func() tea.Msg {
		return RefreshMsg{}
	}
}

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginBottom(1)

	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	NormalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)

	LinkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))
)

// WarrantyStyle maps a warranty badge color to its lipgloss style.
func WarrantyStyle(color warranty.Color) lipgloss.Style {
	switch color {
	case warranty.ColorSuccess:
		return SuccessStyle
	case warranty.ColorWarning:
		return WarningStyle
	case warranty.ColorDanger:
		return ErrorStyle
	default:
		return DimStyle
	}
}

// PriorityStyle maps an issue priority to its list style.
func PriorityStyle(p models.Priority) lipgloss.Style {
	switch p {
	case models.PriorityHigh:
		return ErrorStyle
	case models.PriorityMedium:
		return WarningStyle
	default:
		return DimStyle
	}
}
