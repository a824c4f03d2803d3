package filter

import (
	"sync"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Criteria is the full filter/paging/sort state of the console. Facet
// slices are sets: membership matters, order does not. A nil slice, an
// empty slice, and an empty string all mean "absent".
type Criteria struct {
	Status   []string
	Priority []string
	Category []string
	Source   []string

	ProjectID  *int64
	CustomerID *int64
	AssigneeID *int64

	DateFrom string
	DateTo   string
	Search   string

	Page      int
	SortField string
	SortOrder SortOrder
}

// Default returns the freshly-initialized criteria: first page, no
// facets, descending order for whichever sort field is chosen first.
func Default() Criteria {
	return Criteria{Page: 1, SortOrder: SortDesc}
}

// Normalize maps every representation of an absent facet to its
// canonical form so that Equal and the share-link round trip behave.
func Normalize(c Criteria) Criteria {
	out := c
	out.Status = normalizeSet(c.Status)
	out.Priority = normalizeSet(c.Priority)
	out.Category = normalizeSet(c.Category)
	out.Source = normalizeSet(c.Source)
	if out.Page < 1 {
		out.Page = 1
	}
	if out.SortField == "" {
		out.SortOrder = SortDesc
	} else if out.SortOrder != SortAsc {
		out.SortOrder = SortDesc
	}
	return out
}

func normalizeSet(vals []string) []string {
	var out []string
	seen := make(map[string]bool, len(vals))
	for _, v := range vals {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// Equal compares two criteria facet-by-facet. Multi-value facets
// compare as sets.
func (c Criteria) Equal(o Criteria) bool {
	c, o = Normalize(c), Normalize(o)
	return sameSet(c.Status, o.Status) &&
		sameSet(c.Priority, o.Priority) &&
		sameSet(c.Category, o.Category) &&
		sameSet(c.Source, o.Source) &&
		sameID(c.ProjectID, o.ProjectID) &&
		sameID(c.CustomerID, o.CustomerID) &&
		sameID(c.AssigneeID, o.AssigneeID) &&
		c.DateFrom == o.DateFrom &&
		c.DateTo == o.DateTo &&
		c.Search == o.Search &&
		c.Page == o.Page &&
		c.SortField == o.SortField &&
		c.SortOrder == o.SortOrder
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, v := range a {
		set[v] = true
	}
	for _, v := range b {
		if !set[v] {
			return false
		}
	}
	return true
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (c Criteria) clone() Criteria {
	out := c
	out.Status = append([]string(nil), c.Status...)
	out.Priority = append([]string(nil), c.Priority...)
	out.Category = append([]string(nil), c.Category...)
	out.Source = append([]string(nil), c.Source...)
	return out
}

// Store is the single source of truth for filter/sort/paging state.
// Every mutation goes through a named setter and notifies all
// subscribers synchronously, one mutation at a time.
type Store struct {
	mu       sync.Mutex
	criteria Criteria
	subs     map[int]func(Criteria)
	nextSub  int
}

func NewStore() *Store {
	return &Store{
		criteria: Default(),
		subs:     make(map[int]func(Criteria)),
	}
}

// Criteria returns a copy of the current state.
func (s *Store) Criteria() Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria.clone()
}

// Subscribe registers fn to run synchronously after every mutation.
// The returned func removes the subscription.
func (s *Store) Subscribe(fn func(Criteria)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// mutate applies fn to the criteria and notifies subscribers outside
// the lock, so a subscriber may read the store again.
func (s *Store) mutate(fn func(*Criteria)) {
	s.mu.Lock()
	fn(&s.criteria)
	snapshot := s.criteria.clone()
	subs := make([]func(Criteria), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(snapshot)
	}
}

func (s *Store) SetStatus(status []string) {
	s.mutate(func(c *Criteria) { c.Status = normalizeSet(status) })
}

func (s *Store) SetPriority(priority []string) {
	s.mutate(func(c *Criteria) { c.Priority = normalizeSet(priority) })
}

func (s *Store) SetCategory(category []string) {
	s.mutate(func(c *Criteria) { c.Category = normalizeSet(category) })
}

func (s *Store) SetSource(source []string) {
	s.mutate(func(c *Criteria) { c.Source = normalizeSet(source) })
}

func (s *Store) SetProjectID(id *int64) {
	s.mutate(func(c *Criteria) { c.ProjectID = id })
}

func (s *Store) SetCustomerID(id *int64) {
	s.mutate(func(c *Criteria) { c.CustomerID = id })
}

func (s *Store) SetAssigneeID(id *int64) {
	s.mutate(func(c *Criteria) { c.AssigneeID = id })
}

// SetDateRange replaces both bounds at once. Empty strings clear.
func (s *Store) SetDateRange(from, to string) {
	s.mutate(func(c *Criteria) {
		c.DateFrom = from
		c.DateTo = to
	})
}

func (s *Store) SetDateFrom(from string) {
	s.mutate(func(c *Criteria) { c.DateFrom = from })
}

func (s *Store) SetDateTo(to string) {
	s.mutate(func(c *Criteria) { c.DateTo = to })
}

func (s *Store) SetSearch(search string) {
	s.mutate(func(c *Criteria) { c.Search = search })
}

func (s *Store) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	s.mutate(func(c *Criteria) { c.Page = page })
}

func (s *Store) SetSort(field string, order SortOrder) {
	s.mutate(func(c *Criteria) {
		c.SortField = field
		c.SortOrder = order
	})
}

// Reset restores every facet to the store's initial defaults.
func (s *Store) Reset() {
	s.mutate(func(c *Criteria) { *c = Default() })
}
