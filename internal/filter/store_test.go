package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetRestoresDefaults(t *testing.T) {
	s := NewStore()
	s.SetStatus([]string{"Open", "Pending"})
	s.SetPriority([]string{"High"})
	s.SetSearch("printer")
	s.SetDateRange("2024-01-01", "2024-06-30")
	s.SetPage(4)
	s.SetSort("created_at", SortAsc)

	s.Reset()

	assert.True(t, s.Criteria().Equal(Default()), "reset store should equal freshly-initialized defaults")
}

func TestSettersReplaceWholeSet(t *testing.T) {
	s := NewStore()
	s.SetStatus([]string{"Open", "Closed"})
	s.SetStatus([]string{"Pending"})

	require.Equal(t, []string{"Pending"}, s.Criteria().Status)
}

func TestEqualTreatsEmptyAsAbsent(t *testing.T) {
	a := Criteria{Status: []string{}, Page: 1, SortOrder: SortDesc}
	b := Criteria{Status: nil, Page: 0}

	assert.True(t, a.Equal(b))
}

func TestEqualSetSemantics(t *testing.T) {
	a := Criteria{Status: []string{"Open", "Pending"}}
	b := Criteria{Status: []string{"Pending", "Open"}}
	c := Criteria{Status: []string{"Open"}}

	assert.True(t, a.Equal(b), "order must not matter")
	assert.False(t, a.Equal(c))
}

func TestSubscribersNotifiedSynchronously(t *testing.T) {
	s := NewStore()

	var seen []Criteria
	unsub := s.Subscribe(func(c Criteria) { seen = append(seen, c) })

	s.SetStatus([]string{"Open"})
	s.SetSearch("vpn")
	require.Len(t, seen, 2, "every mutation notifies, no batching")
	assert.Equal(t, []string{"Open"}, seen[0].Status)
	assert.Equal(t, "vpn", seen[1].Search)

	unsub()
	s.SetPage(3)
	assert.Len(t, seen, 2, "unsubscribed observer must not fire")
}

func TestSubscriberMayReadStore(t *testing.T) {
	s := NewStore()

	var got Criteria
	s.Subscribe(func(Criteria) { got = s.Criteria() })
	s.SetSearch("router")

	assert.Equal(t, "router", got.Search)
}

func TestCriteriaCopyIsolation(t *testing.T) {
	s := NewStore()
	s.SetStatus([]string{"Open"})

	c := s.Criteria()
	c.Status[0] = "Closed"

	assert.Equal(t, []string{"Open"}, s.Criteria().Status, "returned criteria must not alias store state")
}

func TestSetPageClampsToOne(t *testing.T) {
	s := NewStore()
	s.SetPage(0)
	assert.Equal(t, 1, s.Criteria().Page)
}
