package board

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhlin/deskctl/internal/filter"
	"github.com/jhlin/deskctl/internal/models"
)

// fakeService serves a canned issue set and records calls.
type fakeService struct {
	issues      []models.Issue
	listCalls   int
	listParams  url.Values
	updateCalls int
	updateErr   error
	lastID      int64
	lastStatus  models.Status
}

func (f *fakeService) ListIssues(_ context.Context, params url.Values) (*models.IssueList, error) {
	f.listCalls++
	f.listParams = params
	results := append([]models.Issue(nil), f.issues...)
	return &models.IssueList{Count: len(results), Results: results}, nil
}

func (f *fakeService) UpdateIssueStatus(_ context.Context, id int64, status models.Status) (*models.Issue, error) {
	f.updateCalls++
	f.lastID = id
	f.lastStatus = status
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &models.Issue{ID: id, Status: status}, nil
}

func issueSet() []models.Issue {
	return []models.Issue{
		{ID: 1, Title: "VPN down", Status: models.StatusOpen},
		{ID: 2, Title: "Printer jam", Status: models.StatusOpen},
		{ID: 3, Title: "Slow queries", Status: models.StatusInProgress},
		{ID: 4, Title: "License renewal", Status: models.StatusPending},
		{ID: 5, Title: "Onboarding", Status: models.StatusClosed},
	}
}

func loadedBoard(t *testing.T, svc *fakeService) *Board {
	t.Helper()
	b := New(svc, filter.NewStore())
	require.NoError(t, b.Load(context.Background()))
	return b
}

func allIssueIDs(b *Board) map[int64]int {
	counts := make(map[int64]int)
	for _, col := range b.Columns() {
		for _, issue := range col.Issues {
			counts[issue.ID]++
		}
	}
	return counts
}

func TestLoadPartitionsByStatus(t *testing.T) {
	svc := &fakeService{issues: issueSet()}
	b := loadedBoard(t, svc)

	cols := b.Columns()
	require.Len(t, cols, 4)
	assert.Equal(t, models.StatusOpen, cols[0].Status)
	assert.Equal(t, models.StatusInProgress, cols[1].Status)
	assert.Equal(t, models.StatusPending, cols[2].Status)
	assert.Equal(t, models.StatusClosed, cols[3].Status)

	// Server order preserved within a column.
	require.Len(t, cols[0].Issues, 2)
	assert.EqualValues(t, 1, cols[0].Issues[0].ID)
	assert.EqualValues(t, 2, cols[0].Issues[1].ID)

	// Union of columns equals the fetched set, no duplicates.
	counts := allIssueIDs(b)
	assert.Len(t, counts, len(issueSet()))
	for id, n := range counts {
		assert.Equal(t, 1, n, "issue %d appears %d times", id, n)
	}
}

func TestLoadParams(t *testing.T) {
	svc := &fakeService{issues: issueSet()}
	store := filter.NewStore()
	store.SetStatus([]string{"Open", "Pending"})
	store.SetSort("created_at", filter.SortDesc)
	store.SetPage(3)

	b := New(svc, store)
	require.NoError(t, b.Load(context.Background()))

	assert.Equal(t, "1000", svc.listParams.Get("page_size"))
	assert.False(t, svc.listParams.Has("page"), "board fetch has no paging cursor")
	assert.False(t, svc.listParams.Has("ordering"), "board fetch has no ordering")
	assert.ElementsMatch(t, []string{"Open", "Pending"}, svc.listParams["status"])
}

func TestStaleLoadDiscarded(t *testing.T) {
	svc := &fakeService{issues: issueSet()}
	b := New(svc, filter.NewStore())

	stale := b.BeginLoad()
	fresh := b.BeginLoad()

	require.True(t, b.ApplyLoad(fresh, issueSet()))
	assert.False(t, b.ApplyLoad(stale, nil), "older generation must not overwrite newer state")
	assert.Len(t, allIssueIDs(b), len(issueSet()))
}

func TestMoveToSameSlotIsNoOp(t *testing.T) {
	svc := &fakeService{issues: issueSet()}
	b := loadedBoard(t, svc)
	before := b.Columns()

	tr, changed := b.ApplyMove(Move{From: models.StatusOpen, FromIndex: 0, To: models.StatusOpen, ToIndex: 0})

	assert.Nil(t, tr)
	assert.False(t, changed)
	assert.Equal(t, before, b.Columns())
}

func TestSameColumnReorderIsLocalOnly(t *testing.T) {
	svc := &fakeService{issues: issueSet()}
	b := loadedBoard(t, svc)

	require.NoError(t, b.Reorder(context.Background(), Move{
		From: models.StatusOpen, FromIndex: 0,
		To: models.StatusOpen, ToIndex: 1,
	}))

	open := b.Columns()[0].Issues
	assert.EqualValues(t, 2, open[0].ID)
	assert.EqualValues(t, 1, open[1].ID)
	assert.Equal(t, 0, svc.updateCalls, "pure reorder must not call the server")
}

func TestCrossColumnMoveIsOptimistic(t *testing.T) {
	svc := &fakeService{issues: issueSet()}
	b := loadedBoard(t, svc)

	tr, changed := b.ApplyMove(Move{
		From: models.StatusOpen, FromIndex: 0,
		To: models.StatusInProgress, ToIndex: 0,
	})
	require.NotNil(t, tr)
	assert.True(t, changed)
	assert.Equal(t, 0, svc.updateCalls, "mutation applies before any server call")

	cols := b.Columns()
	require.Len(t, cols[1].Issues, 2)
	assert.EqualValues(t, 1, cols[1].Issues[0].ID)
	assert.Equal(t, models.StatusInProgress, cols[1].Issues[0].Status, "status overwritten on insert")
	require.Len(t, cols[0].Issues, 1)

	require.NoError(t, b.CommitMove(context.Background(), tr))
	assert.Equal(t, 1, svc.updateCalls)
	assert.EqualValues(t, 1, svc.lastID)
	assert.Equal(t, models.StatusInProgress, svc.lastStatus)

	// Success leaves the optimistic state in place: no reload.
	assert.Equal(t, 1, svc.listCalls)
}

func TestConfirmMoveTouchesNoBoardState(t *testing.T) {
	svc := &fakeService{issues: issueSet(), updateErr: errors.New("boom")}
	b := loadedBoard(t, svc)

	tr, _ := b.ApplyMove(Move{
		From: models.StatusOpen, FromIndex: 0,
		To: models.StatusClosed, ToIndex: 0,
	})
	require.NotNil(t, tr)
	before := b.Columns()

	// The TUI runs the confirmation off the event loop while the loop
	// keeps rendering; ConfirmMove must only hit the network.
	done := make(chan error, 1)
	go func() { done <- b.ConfirmMove(context.Background(), tr) }()
	for i := 0; i < 100; i++ {
		_ = b.Columns()
	}
	err := <-done

	require.Error(t, err)
	assert.ErrorContains(t, err, "boom")
	assert.Equal(t, before, b.Columns(), "a failed confirmation alone must not mutate the board")
	assert.Equal(t, 1, svc.listCalls, "rollback is the caller's load, not ConfirmMove's")
}

func TestFailedCommitRollsBackViaReload(t *testing.T) {
	svc := &fakeService{issues: issueSet(), updateErr: errors.New("boom")}
	b := loadedBoard(t, svc)

	err := b.Reorder(context.Background(), Move{
		From: models.StatusOpen, FromIndex: 0,
		To: models.StatusClosed, ToIndex: 0,
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "boom")

	// Board state equals a fresh load of server truth.
	reference := loadedBoard(t, &fakeService{issues: issueSet()})
	assert.Equal(t, reference.Columns(), b.Columns())
	assert.Equal(t, 2, svc.listCalls, "failure triggers exactly one full reload")
}

func TestMoveClampsDestinationIndex(t *testing.T) {
	svc := &fakeService{issues: issueSet()}
	b := loadedBoard(t, svc)

	tr, changed := b.ApplyMove(Move{
		From: models.StatusOpen, FromIndex: 1,
		To: models.StatusPending, ToIndex: 99,
	})
	require.NotNil(t, tr)
	assert.True(t, changed)

	pending := b.Columns()[2].Issues
	require.Len(t, pending, 2)
	assert.EqualValues(t, 2, pending[1].ID, "out-of-range destination appends")
}

func TestMoveRejectsBadSource(t *testing.T) {
	svc := &fakeService{issues: issueSet()}
	b := loadedBoard(t, svc)

	tr, changed := b.ApplyMove(Move{From: models.StatusOpen, FromIndex: 42, To: models.StatusClosed, ToIndex: 0})
	assert.Nil(t, tr)
	assert.False(t, changed)

	tr, changed = b.ApplyMove(Move{From: models.Status("Bogus"), FromIndex: 0, To: models.StatusClosed, ToIndex: 0})
	assert.Nil(t, tr)
	assert.False(t, changed)
}

func TestUnknownServerStatusDropped(t *testing.T) {
	issues := append(issueSet(), models.Issue{ID: 9, Status: models.Status("Archived")})
	svc := &fakeService{issues: issues}
	b := loadedBoard(t, svc)

	counts := allIssueIDs(b)
	assert.NotContains(t, counts, int64(9))
	assert.Len(t, counts, len(issueSet()))
}
