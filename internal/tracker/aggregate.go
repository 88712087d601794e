package tracker

import (
	"math"
	"sort"
	"time"
)

const (
	dateLayout = "2006-01-02"

	// DefaultTopActivities is the number of bars in the activity chart.
	DefaultTopActivities = 6
	// LabelWidth is the rune limit for chart labels.
	LabelWidth = 25
)

// DateKey formats t as the calendar date used by TimeEntry.Date.
func DateKey(t time.Time) string {
	return t.Format(dateLayout)
}

// TotalForDate sums the durations of a user's entries created on date.
func TotalForDate(entries []TimeEntry, userID, date string) int64 {
	var total int64
	for _, e := range entries {
		if e.Deleted() || e.UserID != userID || e.Date != date {
			continue
		}
		total += e.Duration
	}
	return total
}

// InPeriod keeps a user's entries whose date is no older than days calendar
// days before today.
func InPeriod(entries []TimeEntry, userID string, today time.Time, days int) []TimeEntry {
	cutoff := DateKey(today.AddDate(0, 0, -days))
	var out []TimeEntry
	for _, e := range entries {
		if e.Deleted() || e.UserID != userID {
			continue
		}
		if e.Date >= cutoff {
			out = append(out, e)
		}
	}
	return out
}

// TicketRollup groups entries by resolved ticket code in order of first
// occurrence. Entries without a code are left out. Codes with no recorded
// status are open.
func TicketRollup(entries []TimeEntry, statuses []RitmStatus) []TicketSummary {
	known := make(map[string]TicketStatus, len(statuses))
	for _, s := range statuses {
		known[s.Code] = s.Status
	}

	index := make(map[string]int)
	var out []TicketSummary
	for _, e := range entries {
		if e.Deleted() {
			continue
		}
		code := e.TicketCode()
		if code == "" {
			continue
		}
		i, ok := index[code]
		if !ok {
			status, seen := known[code]
			if !seen {
				status = TicketOpen
			}
			index[code] = len(out)
			out = append(out, TicketSummary{Code: code, Status: status})
			i = len(out) - 1
		}
		out[i].Duration += e.Duration
		out[i].Entries++
	}
	return out
}

// TopActivities sums hours per exact activity string and returns the n
// largest, rounded to two decimals. Equal totals keep first-occurrence
// order.
func TopActivities(entries []TimeEntry, n int) []ActivityHours {
	index := make(map[string]int)
	var seconds []int64
	var out []ActivityHours
	for _, e := range entries {
		if e.Deleted() {
			continue
		}
		i, ok := index[e.Activity]
		if !ok {
			i = len(out)
			index[e.Activity] = i
			out = append(out, ActivityHours{Activity: e.Activity, Label: TruncateLabel(e.Activity, LabelWidth)})
			seconds = append(seconds, 0)
		}
		seconds[i] += e.Duration
	}
	for i := range out {
		out[i].Hours = round2(float64(seconds[i]) / 3600)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Hours > out[j].Hours
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// TruncateLabel cuts s to at most width runes.
func TruncateLabel(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width])
}

// Summarize totals a set of entries. The average is rounded to the nearest
// second.
func Summarize(entries []TimeEntry) EntrySummary {
	var sum EntrySummary
	for _, e := range entries {
		if e.Deleted() {
			continue
		}
		sum.TotalSeconds += e.Duration
		sum.Count++
	}
	if sum.Count > 0 {
		sum.AverageSeconds = int64(math.Round(float64(sum.TotalSeconds) / float64(sum.Count)))
	}
	return sum
}

// FilterEntries applies f to entries, preserving order.
func FilterEntries(entries []TimeEntry, f EntryFilter) []TimeEntry {
	var out []TimeEntry
	for _, e := range entries {
		if e.Deleted() {
			continue
		}
		if f.Date != "" && e.Date != f.Date {
			continue
		}
		if f.UserID != "" && e.UserID != f.UserID {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Dates lists the distinct entry dates, newest first.
func Dates(entries []TimeEntry) []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range entries {
		if e.Deleted() || seen[e.Date] {
			continue
		}
		seen[e.Date] = true
		out = append(out, e.Date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out
}

// Users lists the distinct entry owners in order of first occurrence.
func Users(entries []TimeEntry) []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range entries {
		if e.Deleted() || seen[e.UserID] {
			continue
		}
		seen[e.UserID] = true
		out = append(out, e.UserID)
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
