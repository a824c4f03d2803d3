package screens

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jhlin/deskctl/internal/board"
	"github.com/jhlin/deskctl/internal/models"
)

// Board renders the kanban columns and drives drag-style moves with
// the keyboard: space picks an issue up, arrows choose the target
// slot, space drops it. The move is applied optimistically and the
// status update is confirmed in the background; a failed confirmation
// reloads the whole board.
type Board struct {
	ctrl   *board.Board
	width  int
	height int

	col     int
	row     int
	carry   *carryState
	pending bool
	loading bool
	err     error
	message string
}

type carryState struct {
	from      models.Status
	fromIndex int
}

func NewBoard(ctrl *board.Board) *Board {
	return &Board{ctrl: ctrl}
}

func (b *Board) SetSize(width, height int) {
	b.width = width
	b.height = height
}

type boardLoadMsg struct {
	req    board.LoadRequest
	issues []models.Issue
	err    error
}

type boardCommitMsg struct {
	err error
}

func (b *Board) Init() tea.Cmd {
	b.loading = true
	b.carry = nil
	b.message = ""
	return b.loadCmd()
}

// loadCmd stamps the load before the fetch goroutine starts, so a
// response that comes back after a newer load is recognizably stale.
func (b *Board) loadCmd() tea.Cmd {
	req := b.ctrl.BeginLoad()
	return func() tea.Msg {
		list, err := b.ctrl.Fetch(context.Background(), req)
		if err != nil {
			return boardLoadMsg{req: req, err: err}
		}
		return boardLoadMsg{req: req, issues: list.Results}
	}
}

func (b *Board) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case boardLoadMsg:
		if msg.err != nil {
			b.loading = false
			b.err = msg.err
			return nil
		}
		if b.ctrl.ApplyLoad(msg.req, msg.issues) {
			b.loading = false
			b.clampCursor()
		}
		return nil

	case boardCommitMsg:
		b.pending = false
		if msg.err != nil {
			b.err = msg.err
			// Roll back by discarding the optimistic state with a
			// fresh stamped load of server truth.
			return b.loadCmd()
		}
		return nil

	case RefreshMsg:
		return b.Init()

	case tea.KeyMsg:
		return b.handleKey(msg)
	}

	return nil
}

func (b *Board) handleKey(msg tea.KeyMsg) tea.Cmd {
	cols := b.ctrl.Columns()

	switch msg.String() {
	case "left", "h":
		if b.col > 0 {
			b.col--
			b.clampCursor()
		}
	case "right", "l":
		if b.col < len(cols)-1 {
			b.col++
			b.clampCursor()
		}
	case "up", "k":
		if b.row > 0 {
			b.row--
		}
	case "down", "j":
		if b.col < len(cols) && b.row < b.maxRow(cols) {
			b.row++
		}
	case " ", "enter":
		return b.handlePickOrDrop(cols)
	case "esc":
		if b.carry != nil {
			b.carry = nil
			return nil
		}
		return Navigate("issues")
	case "R":
		return b.Init()
	case "q":
		return Navigate("dashboard")
	}
	return nil
}

func (b *Board) handlePickOrDrop(cols []board.Column) tea.Cmd {
	if b.pending {
		// One move in flight at a time.
		return nil
	}
	if b.col >= len(cols) {
		return nil
	}

	if b.carry == nil {
		if b.row >= len(cols[b.col].Issues) {
			return nil
		}
		b.carry = &carryState{from: cols[b.col].Status, fromIndex: b.row}
		return nil
	}

	move := board.Move{
		From:      b.carry.from,
		FromIndex: b.carry.fromIndex,
		To:        cols[b.col].Status,
		ToIndex:   b.row,
	}
	b.carry = nil

	transition, changed := b.ctrl.ApplyMove(move)
	if changed {
		b.clampCursor()
	}
	if transition == nil {
		return nil
	}

	// Only the network call runs off the event loop; the rollback
	// load, when needed, is stamped and applied back on it.
	b.pending = true
	return func() tea.Msg {
		return boardCommitMsg{err: b.ctrl.ConfirmMove(context.Background(), transition)}
	}
}

func (b *Board) maxRow(cols []board.Column) int {
	if b.col >= len(cols) {
		return 0
	}
	n := len(cols[b.col].Issues) - 1
	if b.carry != nil {
		// While carrying, the slot one past the end is a valid drop
		// target.
		n++
	}
	return max(0, n)
}

func (b *Board) clampCursor() {
	cols := b.ctrl.Columns()
	if b.col >= len(cols) {
		b.col = max(0, len(cols)-1)
	}
	if len(cols) > 0 && b.row > b.maxRow(cols) {
		b.row = b.maxRow(cols)
	}
}

func (b *Board) View() string {
	var out strings.Builder

	out.WriteString(TitleStyle.Render("BOARD"))
	out.WriteString("\n\n")

	if b.loading && !b.ctrl.Loaded() {
		out.WriteString("Loading...\n")
		return out.String()
	}

	if b.err != nil {
		out.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", b.err)))
		out.WriteString("\n\n")
		b.err = nil
	}

	cols := b.ctrl.Columns()
	rendered := make([]string, 0, len(cols))
	for i, col := range cols {
		rendered = append(rendered, b.renderColumn(col, i == b.col))
	}
	out.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	out.WriteString("\n")

	if b.carry != nil {
		out.WriteString(WarningStyle.Render("Carrying issue - choose a slot and press space to drop, esc to cancel"))
		out.WriteString("\n")
	}
	if b.pending {
		out.WriteString(DimStyle.Render("Saving..."))
		out.WriteString("\n")
	}

	help := "[h/l] Column  [j/k] Row  [space] Pick up / drop  [R] Reload  [esc] Issues  [q] Dashboard"
	out.WriteString(HelpStyle.Render(help))

	return out.String()
}

func (b *Board) renderColumn(col board.Column, active bool) string {
	var sb strings.Builder

	header := fmt.Sprintf("%s (%d)", col.Title, len(col.Issues))
	if active {
		sb.WriteString(SelectedStyle.Render(header))
	} else {
		sb.WriteString(SubtitleStyle.Render(header))
	}
	sb.WriteString("\n")

	for i, issue := range col.Issues {
		cursor := "  "
		style := NormalStyle
		if active && i == b.row {
			cursor = "> "
			style = SelectedStyle
		}
		line := fmt.Sprintf("%s#%d %s", cursor, issue.ID, truncate(issue.Title, 22))
		sb.WriteString(style.Render(line))
		sb.WriteString("\n")
		sb.WriteString(DimStyle.Render("  " + string(issue.Priority)))
		sb.WriteString("\n")
	}
	if active && b.carry != nil && b.row == len(col.Issues) {
		sb.WriteString(SelectedStyle.Render("> (drop here)"))
		sb.WriteString("\n")
	}

	return lipgloss.NewStyle().Width(30).Padding(0, 1).Render(sb.String())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
