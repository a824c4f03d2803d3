package filter

import (
	"net/url"
	"strconv"
	"strings"
	"sync"
)

// Share-link query keys. The multi-value facets are comma-joined here
// (compact, bookmarkable); the list endpoint receives the same facets
// as repeated parameters instead.
const (
	keyStatus     = "status"
	keyPriority   = "priority"
	keyCategory   = "category"
	keySource     = "source"
	keyProjectID  = "project_id"
	keyCustomerID = "customer_id"
	keyAssigneeID = "assignee_id"
	keyFrom       = "from"
	keyTo         = "to"
	keySearch     = "q"
	keyPage       = "page"
	keyOrdering   = "ordering"
)

// ParseQuery decodes a share-link query string into criteria. Unknown
// and malformed keys are ignored; parsing never fails.
func ParseQuery(raw string) Criteria {
	c := Default()
	values, err := url.ParseQuery(raw)
	if err != nil {
		// url.ParseQuery keeps whatever it managed to decode.
		if len(values) == 0 {
			return c
		}
	}

	c.Status = splitList(values.Get(keyStatus))
	c.Priority = splitList(values.Get(keyPriority))
	c.Category = splitList(values.Get(keyCategory))
	c.Source = splitList(values.Get(keySource))
	c.ProjectID = parseID(values.Get(keyProjectID))
	c.CustomerID = parseID(values.Get(keyCustomerID))
	c.AssigneeID = parseID(values.Get(keyAssigneeID))
	c.DateFrom = values.Get(keyFrom)
	c.DateTo = values.Get(keyTo)
	c.Search = values.Get(keySearch)

	if page, err := strconv.Atoi(values.Get(keyPage)); err == nil && page > 1 {
		c.Page = page
	}

	if ordering := values.Get(keyOrdering); ordering != "" && ordering != "-" {
		if field, ok := strings.CutPrefix(ordering, "-"); ok {
			c.SortField = field
			c.SortOrder = SortDesc
		} else {
			c.SortField = ordering
			c.SortOrder = SortAsc
		}
	}

	return Normalize(c)
}

// EncodeQuery serializes criteria into the share-link query string,
// omitting every facet at its default value.
func EncodeQuery(c Criteria) string {
	c = Normalize(c)
	values := url.Values{}

	setList(values, keyStatus, c.Status)
	setList(values, keyPriority, c.Priority)
	setList(values, keyCategory, c.Category)
	setList(values, keySource, c.Source)
	setID(values, keyProjectID, c.ProjectID)
	setID(values, keyCustomerID, c.CustomerID)
	setID(values, keyAssigneeID, c.AssigneeID)
	if c.DateFrom != "" {
		values.Set(keyFrom, c.DateFrom)
	}
	if c.DateTo != "" {
		values.Set(keyTo, c.DateTo)
	}
	if c.Search != "" {
		values.Set(keySearch, c.Search)
	}
	if c.Page > 1 {
		values.Set(keyPage, strconv.Itoa(c.Page))
	}
	if c.SortField != "" {
		values.Set(keyOrdering, Ordering(c.SortField, c.SortOrder))
	}

	return values.Encode()
}

// Ordering encodes a sort field and direction as a single string:
// "field" ascending, "-field" descending.
func Ordering(field string, order SortOrder) string {
	if order == SortDesc {
		return "-" + field
	}
	return field
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	return normalizeSet(strings.Split(raw, ","))
}

func setList(values url.Values, key string, list []string) {
	if len(list) > 0 {
		values.Set(key, strings.Join(list, ","))
	}
}

func parseID(raw string) *int64 {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}

func setID(values url.Values, key string, id *int64) {
	if id != nil {
		values.Set(key, strconv.FormatInt(*id, 10))
	}
}

// History receives the exported share link. Replace overwrites the
// current entry rather than appending, so applying filters never
// pollutes whatever navigation history the sink keeps.
type History interface {
	Replace(query string)
}

// MemoryHistory is the in-process History used by the TUI: it holds
// the single current share link.
type MemoryHistory struct {
	mu      sync.Mutex
	current string
}

func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{}
}

func (h *MemoryHistory) Replace(query string) {
	h.mu.Lock()
	h.current = query
	h.mu.Unlock()
}

func (h *MemoryHistory) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// Syncer binds a Store to a History with strict directionality:
// Start hydrates the store from a link exactly once, and only then
// attaches the continuous store-to-history export. Export can never
// re-trigger hydration, and hydration runs before the export
// subscription exists, so the two directions cannot loop.
type Syncer struct {
	store *Store
	hist  History

	mu      sync.Mutex
	started bool
	unsubFn func()
}

func NewSyncer(store *Store, hist History) *Syncer {
	return &Syncer{store: store, hist: hist}
}

// Start applies the link to the store (merge semantics: only keys
// present in the link overwrite state), seeds the history with the
// resulting link, and attaches the export subscription. Subsequent
// calls are no-ops.
func (s *Syncer) Start(raw string) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	Hydrate(s.store, raw)
	s.hist.Replace(EncodeQuery(s.store.Criteria()))

	s.mu.Lock()
	s.unsubFn = s.store.Subscribe(func(c Criteria) {
		s.hist.Replace(EncodeQuery(c))
	})
	s.mu.Unlock()
}

// Stop detaches the export subscription.
func (s *Syncer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsubFn != nil {
		s.unsubFn()
		s.unsubFn = nil
	}
}

// Hydrate applies the recognized keys of a share link onto the store.
// Keys absent from the link leave the corresponding facet untouched.
func Hydrate(store *Store, raw string) {
	values, err := url.ParseQuery(raw)
	if err != nil && len(values) == 0 {
		return
	}

	if v := values.Get(keyStatus); v != "" {
		store.SetStatus(splitList(v))
	}
	if v := values.Get(keyPriority); v != "" {
		store.SetPriority(splitList(v))
	}
	if v := values.Get(keyCategory); v != "" {
		store.SetCategory(splitList(v))
	}
	if v := values.Get(keySource); v != "" {
		store.SetSource(splitList(v))
	}
	if id := parseID(values.Get(keyProjectID)); id != nil {
		store.SetProjectID(id)
	}
	if id := parseID(values.Get(keyCustomerID)); id != nil {
		store.SetCustomerID(id)
	}
	if id := parseID(values.Get(keyAssigneeID)); id != nil {
		store.SetAssigneeID(id)
	}
	if v := values.Get(keyFrom); v != "" {
		store.SetDateFrom(v)
	}
	if v := values.Get(keyTo); v != "" {
		store.SetDateTo(v)
	}
	if v := values.Get(keySearch); v != "" {
		store.SetSearch(v)
	}
	if page, err := strconv.Atoi(values.Get(keyPage)); err == nil && page > 0 {
		store.SetPage(page)
	}
	if ordering := values.Get(keyOrdering); ordering != "" && ordering != "-" {
		if field, ok := strings.CutPrefix(ordering, "-"); ok {
			store.SetSort(field, SortDesc)
		} else {
			store.SetSort(ordering, SortAsc)
		}
	}
}
