package screens

import (
	"database/sql"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jhlin/deskctl/internal/filter"
	"github.com/jhlin/deskctl/internal/models"
	"github.com/jhlin/deskctl/internal/repository"
)

type viewsMode int

const (
	viewsModeList viewsMode = iota
	viewsModeDelete
)

// Views lists the locally saved share links. Applying one resets the
// filter store and hydrates it from the stored query, exactly as if
// the console had been opened with that link.
type Views struct {
	repo  *repository.ViewRepo
	store *filter.Store

	views   []models.SavedView
	cursor  int
	mode    viewsMode
	loading bool
	err     error
	message string
	width   int
	height  int
}

func NewViews(db *sql.DB, store *filter.Store) *Views {
	return &Views{
		repo:  repository.NewViewRepo(db),
		store: store,
	}
}

func (v *Views) SetSize(width, height int) {
	v.width = width
	v.height = height
}

type viewsDataMsg struct {
	views []models.SavedView
	err   error
}

func (v *Views) Init() tea.Cmd {
	v.loading = true
	v.mode = viewsModeList
	v.message = ""
	return v.loadData
}

func (v *Views) loadData() tea.Msg {
	views, err := v.repo.GetAll()
	return viewsDataMsg{views: views, err: err}
}

func (v *Views) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case viewsDataMsg:
		v.loading = false
		v.err = msg.err
		v.views = msg.views
		if v.cursor >= len(v.views) {
			v.cursor = max(0, len(v.views)-1)
		}
		return nil

	case RefreshMsg:
		return v.Init()

	case tea.KeyMsg:
		return v.handleKey(msg)
	}

	return nil
}

func (v *Views) handleKey(msg tea.KeyMsg) tea.Cmd {
	if v.mode == viewsModeDelete {
		switch msg.String() {
		case "y", "Y":
			view := v.views[v.cursor]
			if err := v.repo.Delete(view.ID); err != nil {
				v.err = err
			} else {
				v.message = fmt.Sprintf("Deleted view: %s", view.Name)
			}
			v.mode = viewsModeList
			return v.loadData
		case "n", "N", "esc":
			v.mode = viewsModeList
		}
		return nil
	}

	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.views)-1 {
			v.cursor++
		}
	case "enter":
		if len(v.views) > 0 {
			v.store.Reset()
			filter.Hydrate(v.store, v.views[v.cursor].Query)
			return Navigate("issues")
		}
	case "d":
		if len(v.views) > 0 {
			v.mode = viewsModeDelete
		}
	case "q", "esc":
		return Navigate("dashboard")
	}
	return nil
}

func (v *Views) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("SAVED VIEWS"))
	b.WriteString("\n\n")

	if v.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if v.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", v.err)))
		b.WriteString("\n\n")
		v.err = nil
	}

	if v.message != "" {
		b.WriteString(SuccessStyle.Render(v.message))
		b.WriteString("\n\n")
	}

	if v.mode == viewsModeDelete && len(v.views) > 0 {
		b.WriteString(WarningStyle.Render(fmt.Sprintf(
			"Delete view '%s'? (y/n)",
			v.views[v.cursor].Name,
		)))
		b.WriteString("\n")
		return b.String()
	}

	if len(v.views) == 0 {
		b.WriteString(DimStyle.Render("No saved views. Press 'S' on the issues screen to save one."))
		b.WriteString("\n\n")
	} else {
		for i, view := range v.views {
			cursor := "  "
			style := NormalStyle
			if i == v.cursor {
				cursor = "> "
				style = SelectedStyle
			}

			query := view.Query
			if query == "" {
				query = "(all issues)"
			}
			b.WriteString(style.Render(fmt.Sprintf("%s%s", cursor, view.Name)))
			b.WriteString("  ")
			b.WriteString(LinkStyle.Render("?" + query))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	help := "[enter] Apply  [d] Delete  [q] Back"
	b.WriteString(HelpStyle.Render(help))

	return b.String()
}
