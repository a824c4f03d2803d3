package screens

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jhlin/deskctl/internal/filter"
	"github.com/jhlin/deskctl/internal/models"
	"github.com/jhlin/deskctl/internal/repository"
	"github.com/jhlin/deskctl/internal/service"
)

type issuesMode int

const (
	issuesModeList issuesMode = iota
	issuesModeSearch
	issuesModeSaveView
	issuesModeBatchClose
)

// sortFields is the cycle order of the sort key. A newly chosen field
// starts descending; choosing it again flips the direction.
var sortFields = []string{"created_at", "updated_at", "priority", "status", "id"}

var statusHotkeys = []models.Status{
	models.StatusOpen,
	models.StatusInProgress,
	models.StatusPending,
	models.StatusClosed,
}

type Issues struct {
	client   *service.Client
	store    *filter.Store
	hist     *filter.MemoryHistory
	views    *repository.ViewRepo
	pageSize int
	width    int
	height   int

	issues   []models.Issue
	total    int
	cursor   int
	selected map[int64]bool
	mode     issuesMode
	input    textinput.Model
	loading  bool
	err      error
	message  string
}

func NewIssues(client *service.Client, store *filter.Store, hist *filter.MemoryHistory, db *sql.DB, pageSize int) *Issues {
	ti := textinput.New()
	ti.CharLimit = 100
	ti.Width = 40

	return &Issues{
		client:   client,
		store:    store,
		hist:     hist,
		views:    repository.NewViewRepo(db),
		pageSize: pageSize,
		input:    ti,
		selected: make(map[int64]bool),
	}
}

func (s *Issues) SetSize(width, height int) {
	s.width = width
	s.height = height
}

type issuesDataMsg struct {
	issues []models.Issue
	total  int
	err    error
}

type batchDoneMsg struct {
	updated int
	err     error
}

func (s *Issues) Init() tea.Cmd {
	s.loading = true
	s.mode = issuesModeList
	s.message = ""
	return s.loadData
}

func (s *Issues) loadData() tea.Msg {
	criteria := s.store.Criteria()
	params := service.ListParams(criteria, criteria.Page, s.pageSize)

	list, err := s.client.ListIssues(context.Background(), params)
	if err != nil {
		return issuesDataMsg{err: err}
	}
	return issuesDataMsg{issues: list.Results, total: list.Count}
}

func (s *Issues) Update(msg tea.Msg) tea.Cmd {
	if s.mode == issuesModeSearch || s.mode == issuesModeSaveView {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "enter":
				return s.handleInputKey()
			case "esc":
				s.mode = issuesModeList
				s.input.Blur()
				return nil
			}
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return cmd
	}

	switch msg := msg.(type) {
	case issuesDataMsg:
		s.loading = false
		s.err = msg.err
		if msg.err == nil {
			s.issues = msg.issues
			s.total = msg.total
		}
		if s.cursor >= len(s.issues) {
			s.cursor = max(0, len(s.issues)-1)
		}
		return nil

	case batchDoneMsg:
		if msg.err != nil {
			s.err = msg.err
		} else {
			s.message = fmt.Sprintf("Closed %d issues", msg.updated)
			s.selected = make(map[int64]bool)
		}
		s.loading = true
		return s.loadData

	case RefreshMsg:
		return s.Init()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return nil
}

func (s *Issues) handleKey(msg tea.KeyMsg) tea.Cmd {
	if s.mode == issuesModeBatchClose {
		switch msg.String() {
		case "y", "Y":
			s.mode = issuesModeList
			return s.runBatchClose
		case "n", "N", "esc":
			s.mode = issuesModeList
		}
		return nil
	}

	switch msg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.issues)-1 {
			s.cursor++
		}
	case " ":
		if len(s.issues) > 0 {
			id := s.issues[s.cursor].ID
			s.selected[id] = !s.selected[id]
		}
	case "1", "2", "3", "4":
		idx := int(msg.String()[0] - '1')
		s.toggleStatus(statusHotkeys[idx])
		return s.reload()
	case "/":
		s.mode = issuesModeSearch
		s.input.Placeholder = "Search"
		s.input.SetValue(s.store.Criteria().Search)
		s.input.Focus()
	case "o":
		s.cycleSortField()
		return s.reload()
	case "O":
		s.flipSortOrder()
		return s.reload()
	case "]":
		criteria := s.store.Criteria()
		if criteria.Page*s.pageSize < s.total {
			s.store.SetPage(criteria.Page + 1)
			return s.reload()
		}
	case "[":
		criteria := s.store.Criteria()
		if criteria.Page > 1 {
			s.store.SetPage(criteria.Page - 1)
			return s.reload()
		}
	case "r":
		s.store.Reset()
		return s.reload()
	case "S":
		s.mode = issuesModeSaveView
		s.input.Placeholder = "View name"
		s.input.SetValue("")
		s.input.Focus()
	case "C":
		if len(s.selectedIDs()) > 0 {
			s.mode = issuesModeBatchClose
		}
	case "b":
		return Navigate("board")
	case "q", "esc":
		return Navigate("dashboard")
	}
	return nil
}

func (s *Issues) handleInputKey() tea.Cmd {
	value := strings.TrimSpace(s.input.Value())
	mode := s.mode
	s.mode = issuesModeList
	s.input.Blur()

	switch mode {
	case issuesModeSearch:
		s.store.SetSearch(value)
		s.store.SetPage(1)
		return s.reload()

	case issuesModeSaveView:
		if value == "" {
			return nil
		}
		if _, err := s.views.Create(value, s.hist.Current()); err != nil {
			s.err = err
		} else {
			s.message = fmt.Sprintf("Saved view: %s", value)
		}
	}
	return nil
}

func (s *Issues) runBatchClose() tea.Msg {
	status := models.StatusClosed
	result, err := s.client.BatchUpdateIssues(context.Background(), s.selectedIDs(), &status, nil)
	if err != nil {
		return batchDoneMsg{err: err}
	}
	return batchDoneMsg{updated: result.UpdatedCount}
}

func (s *Issues) reload() tea.Cmd {
	s.loading = true
	return s.loadData
}

// toggleStatus adds or removes one status from the facet; the whole
// set is replaced through the store setter.
func (s *Issues) toggleStatus(status models.Status) {
	current := s.store.Criteria().Status
	var next []string
	found := false
	for _, v := range current {
		if v == string(status) {
			found = true
			continue
		}
		next = append(next, v)
	}
	if !found {
		next = append(next, string(status))
	}
	s.store.SetStatus(next)
	s.store.SetPage(1)
}

// cycleSortField advances to the next sort field; a new field starts
// descending, like the list header clicks it stands in for.
func (s *Issues) cycleSortField() {
	criteria := s.store.Criteria()
	next := sortFields[0]
	for i, f := range sortFields {
		if f == criteria.SortField {
			next = sortFields[(i+1)%len(sortFields)]
			break
		}
	}
	s.store.SetSort(next, filter.SortDesc)
}

func (s *Issues) flipSortOrder() {
	criteria := s.store.Criteria()
	if criteria.SortField == "" {
		return
	}
	order := filter.SortDesc
	if criteria.SortOrder == filter.SortDesc {
		order = filter.SortAsc
	}
	s.store.SetSort(criteria.SortField, order)
}

func (s *Issues) selectedIDs() []int64 {
	var ids []int64
	for id, on := range s.selected {
		if on {
			ids = append(ids, id)
		}
	}
	return ids
}

func (s *Issues) View() string {
	var b strings.Builder

	criteria := s.store.Criteria()
	b.WriteString(TitleStyle.Render("ISSUES"))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render(s.filterSummary(criteria)))
	b.WriteString("\n\n")

	if s.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if s.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", s.err)))
		b.WriteString("\n\n")
		s.err = nil
	}

	if s.message != "" {
		b.WriteString(SuccessStyle.Render(s.message))
		b.WriteString("\n\n")
	}

	if s.mode == issuesModeSearch {
		b.WriteString("Search issues:\n")
		b.WriteString(s.input.View())
		b.WriteString("\n\n")
		b.WriteString(HelpStyle.Render("[enter] Apply  [esc] Cancel"))
		return b.String()
	}

	if s.mode == issuesModeSaveView {
		b.WriteString("Save current filters as:\n")
		b.WriteString(s.input.View())
		b.WriteString("\n\n")
		b.WriteString(HelpStyle.Render("[enter] Save  [esc] Cancel"))
		return b.String()
	}

	if s.mode == issuesModeBatchClose {
		b.WriteString(WarningStyle.Render(fmt.Sprintf(
			"Close %d selected issues? (y/n)",
			len(s.selectedIDs()),
		)))
		b.WriteString("\n")
		return b.String()
	}

	if len(s.issues) == 0 {
		b.WriteString(DimStyle.Render("No issues match the current filters."))
		b.WriteString("\n\n")
	} else {
		for i, issue := range s.issues {
			cursor := "  "
			style := NormalStyle
			if i == s.cursor {
				cursor = "> "
				style = SelectedStyle
			}

			mark := "[ ]"
			if s.selected[issue.ID] {
				mark = "[x]"
			}

			assignee := ""
			if issue.AssigneeName != "" {
				assignee = DimStyle.Render(" @" + issue.AssigneeName)
			}

			line := fmt.Sprintf("%s%s #%d %s %s (%s)%s",
				cursor,
				mark,
				issue.ID,
				PriorityStyle(issue.Priority).Render(string(issue.Priority)),
				issue.Title,
				issue.Status,
				assignee,
			)
			b.WriteString(style.Render(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(DimStyle.Render(fmt.Sprintf("Page %d - %d of %d issues", criteria.Page, len(s.issues), s.total)))
		b.WriteString("\n")
	}

	if link := s.hist.Current(); link != "" {
		b.WriteString(LinkStyle.Render("Link: ?" + link))
		b.WriteString("\n")
	}

	help := "[1-4] Status  [/] Search  [o/O] Sort  [[/]] Page  [space] Select  [C] Close selected  [S] Save view  [r] Reset  [b] Board  [q] Back"
	b.WriteString(HelpStyle.Render(help))

	return b.String()
}

func (s *Issues) filterSummary(c filter.Criteria) string {
	var parts []string
	if len(c.Status) > 0 {
		parts = append(parts, "status: "+strings.Join(c.Status, ","))
	}
	if len(c.Priority) > 0 {
		parts = append(parts, "priority: "+strings.Join(c.Priority, ","))
	}
	if c.Search != "" {
		parts = append(parts, fmt.Sprintf("search: %q", c.Search))
	}
	if c.DateFrom != "" || c.DateTo != "" {
		parts = append(parts, fmt.Sprintf("dates: %s..%s", c.DateFrom, c.DateTo))
	}
	if c.SortField != "" {
		parts = append(parts, "sort: "+filter.Ordering(c.SortField, c.SortOrder))
	}
	if len(parts) == 0 {
		return "All issues"
	}
	return strings.Join(parts, "  ")
}
