package tracker

import "time"

// TimerStatus is the lifecycle state of a user's timer.
type TimerStatus string

const (
	StatusStopped TimerStatus = "stopped"
	StatusRunning TimerStatus = "running"
	StatusPaused  TimerStatus = "paused"
)

// EntryType records how an entry was produced. It has no effect on aggregation.
type EntryType string

const (
	EntryTimer  EntryType = "timer"
	EntryManual EntryType = "manual"
)

// TicketStatus is the open/closed flag a user sets on a ticket code.
type TicketStatus string

const (
	TicketOpen   TicketStatus = "open"
	TicketClosed TicketStatus = "closed"
)

// Valid reports whether s is a known ticket status.
func (s TicketStatus) Valid() bool {
	return s == TicketOpen || s == TicketClosed
}

// TimeEntry is one completed record of time spent on an activity.
type TimeEntry struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Activity  string     `json:"activity"`
	RitmCode  string     `json:"ritmCode,omitempty"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	Duration  int64      `json:"duration"` // seconds
	Date      string     `json:"date"`     // YYYY-MM-DD of creation
	Type      EntryType  `json:"type"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// Deleted reports whether the entry carries a tombstone.
func (e TimeEntry) Deleted() bool {
	return e.DeletedAt != nil
}

// TicketCode returns the explicit ticket code, or the first code found in
// the activity text.
func (e TimeEntry) TicketCode() string {
	return ResolveTicketCode(e.RitmCode, e.Activity)
}

// TimerState is the persisted form of one user's timer.
type TimerState struct {
	Status          TimerStatus `json:"status"`
	StartTime       *time.Time  `json:"startTime"`
	AccumulatedTime int64       `json:"accumulatedTime"` // milliseconds
	CurrentActivity string      `json:"currentActivity"`
	RitmCode        string      `json:"ritmCode"`
}

// RitmStatus is the status metadata of a ticket code. Time totals are never
// stored here; they are derived from entries.
type RitmStatus struct {
	Code   string       `json:"code"`
	Status TicketStatus `json:"status"`
}

// TicketSummary is one row of a ticket rollup.
type TicketSummary struct {
	Code     string
	Status   TicketStatus
	Duration int64 // seconds
	Entries  int
}

// ActivityHours is one bar of the activity chart.
type ActivityHours struct {
	Activity string
	Label    string
	Hours    float64
}

// EntryFilter narrows a list of entries. Empty fields match everything.
type EntryFilter struct {
	Date   string
	UserID string
}

// EntrySummary holds the headline numbers for a set of entries.
type EntrySummary struct {
	TotalSeconds   int64
	Count          int
	AverageSeconds int64
}
