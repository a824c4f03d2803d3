// Package board projects a filtered issue set onto fixed status
// columns and manages optimistic drag-style mutations against the
// issue service.
package board

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/jhlin/deskctl/internal/filter"
	"github.com/jhlin/deskctl/internal/models"
	"github.com/jhlin/deskctl/internal/service"
)

// PageSize bounds a board fetch. Large enough to represent "all
// matching issues" for board purposes.
const PageSize = 1000

// Service is the slice of the issue API the board needs.
type Service interface {
	ListIssues(ctx context.Context, params url.Values) (*models.IssueList, error)
	UpdateIssueStatus(ctx context.Context, id int64, status models.Status) (*models.Issue, error)
}

// ColumnOrder is the fixed left-to-right column layout.
var ColumnOrder = []models.Status{
	models.StatusOpen,
	models.StatusInProgress,
	models.StatusPending,
	models.StatusClosed,
}

var columnTitles = map[models.Status]string{
	models.StatusOpen:       "Open",
	models.StatusInProgress: "In Progress",
	models.StatusPending:    "Pending",
	models.StatusClosed:     "Closed",
}

// Column is one status bucket. Issue order within a column follows the
// server's order after a load; same-column reordering is session-local
// and never persisted.
type Column struct {
	Status models.Status
	Title  string
	Issues []models.Issue
}

// Move describes one drag gesture by column and index.
type Move struct {
	From      models.Status
	FromIndex int
	To        models.Status
	ToIndex   int
}

// Transition is a cross-column move that was applied locally and
// still needs server confirmation.
type Transition struct {
	IssueID int64
	To      models.Status
}

// LoadRequest stamps a board fetch with a generation so that a stale
// response can never overwrite newer state when rapid filter changes
// overlap loads.
type LoadRequest struct {
	Gen    uint64
	Params url.Values
}

// Board holds the column projection. Column state is a derived cache
// of server truth: it is authoritative for nothing, except the
// optimistic window while a transition is in flight. The drag UI
// serializes gestures, so at most one move is in flight at a time.
// Methods that read or mutate columns are not safe for concurrent
// use; ConfirmMove and Fetch are the only methods an event-loop
// caller may run off-loop.
type Board struct {
	svc     Service
	store   *filter.Store
	columns []Column
	loaded  bool
	nextGen uint64
	applied uint64
}

func New(svc Service, store *filter.Store) *Board {
	return &Board{svc: svc, store: store}
}

// Loaded reports whether the board holds a completed load.
func (b *Board) Loaded() bool { return b.loaded }

// Columns returns a copy of the current column projection.
func (b *Board) Columns() []Column {
	out := make([]Column, len(b.columns))
	for i, col := range b.columns {
		out[i] = Column{
			Status: col.Status,
			Title:  col.Title,
			Issues: append([]models.Issue(nil), col.Issues...),
		}
	}
	return out
}

// BeginLoad stamps a new load generation and builds the fetch
// parameters from the current filter criteria: every facet applies,
// but the board ignores list paging and ordering and fetches
// everything up to PageSize.
func (b *Board) BeginLoad() LoadRequest {
	b.nextGen++
	criteria := b.store.Criteria()
	criteria.SortField = ""
	return LoadRequest{
		Gen:    b.nextGen,
		Params: service.ListParams(criteria, 0, PageSize),
	}
}

// Fetch performs the list call of a stamped load. Split from
// ApplyLoad so a caller on an event loop can fetch off-thread and
// apply on it.
func (b *Board) Fetch(ctx context.Context, req LoadRequest) (*models.IssueList, error) {
	return b.svc.ListIssues(ctx, req.Params)
}

// ApplyLoad replaces the whole board with the fetched issues,
// partitioned by status in ColumnOrder with server order preserved
// inside each column. A response older than the newest applied one is
// discarded; the return value reports whether the load was adopted.
func (b *Board) ApplyLoad(req LoadRequest, issues []models.Issue) bool {
	if req.Gen <= b.applied {
		return false
	}
	b.applied = req.Gen

	columns := make([]Column, len(ColumnOrder))
	index := make(map[models.Status]int, len(ColumnOrder))
	for i, status := range ColumnOrder {
		columns[i] = Column{Status: status, Title: columnTitles[status]}
		index[status] = i
	}
	for _, issue := range issues {
		i, ok := index[issue.Status]
		if !ok {
			// Unknown status from the server: not representable on
			// the board, drop rather than misfile.
			continue
		}
		columns[i].Issues = append(columns[i].Issues, issue)
	}

	b.columns = columns
	b.loaded = true
	return true
}

// Load fetches and applies synchronously. It is also the rollback
// path after a failed transition.
func (b *Board) Load(ctx context.Context) error {
	req := b.BeginLoad()
	list, err := b.svc.ListIssues(ctx, req.Params)
	if err != nil {
		return err
	}
	b.ApplyLoad(req, list.Results)
	return nil
}

// ApplyMove mutates the board for one gesture, locally only.
//
// A gesture that lands on its own source slot is a no-op. A move
// within one column reorders that column for the current session and
// needs no server call. A move across columns removes the issue from
// its source, overwrites its status with the destination column's,
// inserts it at the destination index, and returns the Transition the
// caller must commit. The returned bool reports whether board state
// changed at all.
func (b *Board) ApplyMove(m Move) (*Transition, bool) {
	if m.From == m.To && m.FromIndex == m.ToIndex {
		return nil, false
	}

	src := b.column(m.From)
	dst := b.column(m.To)
	if src == nil || dst == nil {
		return nil, false
	}
	if m.FromIndex < 0 || m.FromIndex >= len(src.Issues) {
		return nil, false
	}

	issue := src.Issues[m.FromIndex]

	if m.From == m.To {
		reorder(src, m.FromIndex, m.ToIndex)
		return nil, true
	}

	src.Issues = append(src.Issues[:m.FromIndex], src.Issues[m.FromIndex+1:]...)
	issue.Status = dst.Status
	insert(dst, issue, m.ToIndex)
	return &Transition{IssueID: issue.ID, To: dst.Status}, true
}

// ConfirmMove reports the server's verdict on an applied transition.
// It performs only the network call and touches no board state, so a
// caller on an event loop may run it off-loop; on failure the caller
// rolls back with a stamped load of its own.
func (b *Board) ConfirmMove(ctx context.Context, t *Transition) error {
	if _, err := b.svc.UpdateIssueStatus(ctx, t.IssueID, t.To); err != nil {
		return fmt.Errorf("update status of issue %d: %w", t.IssueID, err)
	}
	return nil
}

// CommitMove is the synchronous confirm-and-rollback composition for
// callers outside an event loop. On success the optimistic state
// already matches server truth. On failure the optimistic mutation is
// discarded by reloading the whole board (coarse rollback, not a
// targeted undo) and the update error is returned, joined with the
// reload error if the reload fails too.
func (b *Board) CommitMove(ctx context.Context, t *Transition) error {
	err := b.ConfirmMove(ctx, t)
	if err == nil {
		return nil
	}

	if reloadErr := b.Load(ctx); reloadErr != nil {
		return errors.Join(err, fmt.Errorf("reload after failed update: %w", reloadErr))
	}
	return err
}

// Reorder is the synchronous apply-and-commit composition of one
// gesture.
func (b *Board) Reorder(ctx context.Context, m Move) error {
	t, _ := b.ApplyMove(m)
	if t == nil {
		return nil
	}
	return b.CommitMove(ctx, t)
}

func (b *Board) column(status models.Status) *Column {
	for i := range b.columns {
		if b.columns[i].Status == status {
			return &b.columns[i]
		}
	}
	return nil
}

func reorder(col *Column, from, to int) {
	issue := col.Issues[from]
	col.Issues = append(col.Issues[:from], col.Issues[from+1:]...)
	insert(col, issue, to)
}

func insert(col *Column, issue models.Issue, at int) {
	if at < 0 {
		at = 0
	}
	if at > len(col.Issues) {
		at = len(col.Issues)
	}
	col.Issues = append(col.Issues, models.Issue{})
	copy(col.Issues[at+1:], col.Issues[at:])
	col.Issues[at] = issue
}
