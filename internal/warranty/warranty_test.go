package warranty

import (
	"testing"
	"time"

	"github.com/jhlin/deskctl/internal/models"
)

var testNow = time.Date(2024, 6, 1, 14, 30, 0, 0, time.Local)

func TestClassify(t *testing.T) {
	cases := []struct {
		due      string
		state    State
		color    Color
		daysLeft *int
	}{
		{"2024-06-10", StateExpiring, ColorWarning, intPtr(9)},
		{"2024-06-16", StateExpiring, ColorWarning, intPtr(15)},
		{"2024-06-17", StateActive, ColorSuccess, intPtr(16)},
		{"2099-01-01", StateActive, ColorSuccess, nil},
		{"2024-06-01", StateExpiring, ColorWarning, intPtr(0)},
		{"2024-05-27", StateExpired, ColorDanger, intPtr(-5)},
		{"2024-05-31", StateExpired, ColorDanger, intPtr(-1)},
		{"", StateNone, ColorNeutral, nil},
		{"not-a-date", StateNone, ColorNeutral, nil},
		{"2024-13-45", StateNone, ColorNeutral, nil},
		{"2024-06-10T08:00:00Z", StateExpiring, ColorWarning, intPtr(9)},
	}

	for _, c := range cases {
		got := Classify(c.due, testNow)
		if got.State != c.state {
			t.Errorf("Classify(%q).State == %s, want %s", c.due, got.State, c.state)
		}
		if got.Color != c.color {
			t.Errorf("Classify(%q).Color == %s, want %s", c.due, got.Color, c.color)
		}
		if c.daysLeft != nil {
			if got.DaysLeft == nil {
				t.Errorf("Classify(%q).DaysLeft == nil, want %d", c.due, *c.daysLeft)
			} else if *got.DaysLeft != *c.daysLeft {
				t.Errorf("Classify(%q).DaysLeft == %d, want %d", c.due, *got.DaysLeft, *c.daysLeft)
			}
		}
		if c.state == StateNone && got.DaysLeft != nil {
			t.Errorf("Classify(%q).DaysLeft should be nil in none state", c.due)
		}
	}
}

func TestClassifyLabels(t *testing.T) {
	cases := []struct {
		due   string
		label string
	}{
		{"2024-06-01", "Due today"},
		{"2024-06-10", "Expiring (9 days left)"},
		{"2024-05-27", "Expired (5 days ago)"},
		{"2024-07-20", "Under warranty (49 days left)"},
		{"", "Not set"},
	}

	for _, c := range cases {
		if got := Classify(c.due, testNow); got.Label != c.label {
			t.Errorf("Classify(%q).Label == %q, want %q", c.due, got.Label, c.label)
		}
	}
}

func TestClassifyIsPure(t *testing.T) {
	a := Classify("2024-06-10", testNow)
	b := Classify("2024-06-10", testNow)

	if a.State != b.State || a.Label != b.Label || a.Color != b.Color {
		t.Error("identical inputs produced different statuses")
	}
	if *a.DaysLeft != *b.DaysLeft || !a.DueDate.Equal(*b.DueDate) {
		t.Error("identical inputs produced different days/dates")
	}
}

func TestClassifyIgnoresTimeOfDay(t *testing.T) {
	morning := time.Date(2024, 6, 1, 0, 1, 0, 0, time.Local)
	night := time.Date(2024, 6, 1, 23, 59, 0, 0, time.Local)

	a := Classify("2024-06-10", morning)
	b := Classify("2024-06-10", night)
	if *a.DaysLeft != *b.DaysLeft {
		t.Errorf("time of day changed DaysLeft: %d vs %d", *a.DaysLeft, *b.DaysLeft)
	}
}

func TestSummarize(t *testing.T) {
	cases := []struct {
		name  string
		dates []string
		state State
	}{
		{"empty", nil, StateNone},
		{"expiring wins over active", []string{"2024-06-10", "2024-12-01"}, StateExpiring},
		{"expired wins over active", []string{"2024-05-01", "2024-12-01"}, StateExpired},
		{"expired wins over expiring", []string{"2024-06-05", "2024-05-20"}, StateExpired},
		{"all active", []string{"2024-12-01", "2025-06-01"}, StateActive},
		{"all none", []string{"", ""}, StateNone},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Summarize(recordsFor(c.dates), testNow); got.State != c.state {
				t.Errorf("Summarize(%v).State == %s, want %s", c.dates, got.State, c.state)
			}
			// Aggregation is order-independent.
			reversed := recordsFor(c.dates)
			for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
				reversed[i], reversed[j] = reversed[j], reversed[i]
			}
			if got := Summarize(reversed, testNow); got.State != c.state {
				t.Errorf("Summarize(reversed %v).State == %s, want %s", c.dates, got.State, c.state)
			}
		})
	}
}

func TestSummarizeReferenceDate(t *testing.T) {
	// Soonest upcoming due date among non-expired records.
	got := Summarize(recordsFor([]string{"2024-12-01", "2024-06-20"}), testNow)
	if got.DueDate == nil || got.DueDate.Format("2006-01-02") != "2024-06-20" {
		t.Errorf("summary due date = %v, want 2024-06-20", got.DueDate)
	}

	// Most recently expired date when everything has lapsed.
	got = Summarize(recordsFor([]string{"2024-03-01", "2024-05-15"}), testNow)
	if got.DueDate == nil || got.DueDate.Format("2006-01-02") != "2024-05-15" {
		t.Errorf("summary due date = %v, want 2024-05-15", got.DueDate)
	}
	if got.State != StateExpired {
		t.Errorf("summary state = %s, want expired", got.State)
	}
}

func recordsFor(dates []string) []models.WarrantyRecord {
	var recs []models.WarrantyRecord
	for i, d := range dates {
		rec := models.WarrantyRecord{ID: int64(i + 1), Type: models.WarrantyHardware}
		if d != "" {
			due := d
			rec.EndDate = &due
		}
		recs = append(recs, rec)
	}
	return recs
}

func intPtr(v int) *int { return &v }
