package warranty

import (
	"fmt"
	"time"

	"github.com/jhlin/deskctl/internal/models"
)

type State string

const (
	StateNone     State = "none"
	StateActive   State = "active"
	StateExpiring State = "expiring"
	StateExpired  State = "expired"
)

type Color string

const (
	ColorNeutral Color = "neutral"
	ColorSuccess Color = "success"
	ColorWarning Color = "warning"
	ColorDanger  Color = "danger"
)

// ExpiringWindowDays is the number of remaining days under which a
// warranty counts as expiring instead of active.
const ExpiringWindowDays = 15

// Status is the derived classification of a warranty due date. It is
// computed on demand and never persisted.
type Status struct {
	State    State
	Label    string
	DaysLeft *int
	Color    Color
	DueDate  *time.Time
}

var none = Status{
	State: StateNone,
	Label: "Not set",
	Color: ColorNeutral,
}

// dateFormats are the accepted due-date encodings, tried in order.
var dateFormats = []string{"2006-01-02", time.RFC3339}

func parseDue(due string) (time.Time, bool) {
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, due); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// civilDays returns the whole-day difference between the calendar date
// of due and the calendar date of now. Both sides are truncated to
// their own local midnight, so partial days never influence the count.
func civilDays(due, now time.Time) int {
	dueMidnight := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(dueMidnight.Sub(today) / (24 * time.Hour))
}

// Classify maps a warranty end date to its qualitative status as of
// now. Empty or unparsable input degrades to the none state; the
// function is total and never panics.
func Classify(due string, now time.Time) Status {
	if due == "" {
		return none
	}

	dueDate, ok := parseDue(due)
	if !ok {
		return none
	}

	days := civilDays(dueDate, now)
	return statusFor(stateForDays(days), days, dueDate)
}

// ClassifyPtr is Classify for the nullable date fields of the API
// models.
func ClassifyPtr(due *string, now time.Time) Status {
	if due == nil {
		return none
	}
	return Classify(*due, now)
}

func stateForDays(days int) State {
	switch {
	case days < 0:
		return StateExpired
	case days <= ExpiringWindowDays:
		return StateExpiring
	default:
		return StateActive
	}
}

func statusFor(state State, days int, due time.Time) Status {
	d := days
	s := Status{
		State:    state,
		DaysLeft: &d,
		DueDate:  &due,
	}

	switch state {
	case StateExpired:
		s.Color = ColorDanger
		if days < 0 {
			s.Label = fmt.Sprintf("Expired (%d days ago)", -days)
		} else {
			// Aggregate of mixed batches: expired overall, but the
			// reference date is the next upcoming renewal.
			s.Label = "Expired"
		}
	case StateExpiring:
		s.Color = ColorWarning
		if days == 0 {
			s.Label = "Due today"
		} else {
			s.Label = fmt.Sprintf("Expiring (%d days left)", days)
		}
	default:
		s.Color = ColorSuccess
		s.Label = fmt.Sprintf("Under warranty (%d days left)", days)
	}
	return s
}

// severity orders states by urgency for aggregation.
var severity = map[State]int{
	StateNone:     0,
	StateActive:   1,
	StateExpiring: 2,
	StateExpired:  3,
}

// Summarize aggregates the warranty batches of one type into a single
// status: the most urgent state among the records wins. The summary's
// due date is the soonest upcoming due date among non-expired records,
// or the most recently expired date when every record has lapsed. The
// result does not depend on record order.
func Summarize(records []models.WarrantyRecord, now time.Time) Status {
	aggState := StateNone
	var upcoming *time.Time // soonest non-expired due date
	var lapsed *time.Time   // most recently expired due date

	for _, rec := range records {
		st := ClassifyPtr(rec.EndDate, now)
		if severity[st.State] > severity[aggState] {
			aggState = st.State
		}
		if st.DueDate == nil {
			continue
		}
		if st.State == StateExpired {
			if lapsed == nil || st.DueDate.After(*lapsed) {
				lapsed = st.DueDate
			}
		} else {
			if upcoming == nil || st.DueDate.Before(*upcoming) {
				upcoming = st.DueDate
			}
		}
	}

	if aggState == StateNone {
		return none
	}

	due := upcoming
	if due == nil {
		due = lapsed
	}
	if due == nil {
		// Records classified without a parsable date cannot reach
		// here, but keep the function total.
		return none
	}
	return statusFor(aggState, civilDays(*due, now), *due)
}
