package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/timedesk/internal/auth"
	"github.com/sadopc/timedesk/internal/tracker"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTimer viewState = iota
	viewManual
	viewStats
	viewTickets
	viewNotes
	viewAdmin
)

var viewNames = []string{"Timer", "Manual", "Stats", "Tickets", "Notes", "Admin"}

// visibleViews returns how many tabs the user may open. Admin is last.
func visibleViews(u auth.User) int {
	if u.IsAdmin() {
		return len(viewNames)
	}
	return len(viewNames) - 1
}

// --- Messages ---

type loginMsg struct {
	user auth.User
}

type timerStartedMsg struct{}

type timerStoppedMsg struct {
	entry tracker.TimeEntry
}

type entryAddedMsg struct {
	entry tracker.TimeEntry
}

type statusMsg struct {
	text    string
	isError bool
}

type warningMsg struct {
	err error
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

func errorStatus(format string, args ...any) tea.Cmd {
	text := fmt.Sprintf(format, args...)
	return func() tea.Msg { return statusMsg{text: text, isError: true} }
}

func infoStatus(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

// --- Helpers ---

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatSeconds(secs int64) string {
	return formatDuration(time.Duration(secs) * time.Second)
}

func formatHours(secs int64) string {
	h := float64(secs) / 3600
	return fmt.Sprintf("%.1fh", h)
}

// activityLabel appends the ticket code to the activity the way entries
// started with a ticket are labelled.
func activityLabel(activity, ticket string) string {
	activity = strings.TrimSpace(activity)
	ticket = strings.ToUpper(strings.TrimSpace(ticket))
	if activity == "" || ticket == "" {
		return activity
	}
	return fmt.Sprintf("%s [%s]", activity, ticket)
}

// recentEntries returns up to n entries, newest date first. Entries on the
// same date keep reverse insertion order.
func recentEntries(entries []tracker.TimeEntry, n int) []tracker.TimeEntry {
	out := make([]tracker.TimeEntry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		out = append(out, entries[i])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func truncate(s string, width int) string {
	return tracker.TruncateLabel(s, width)
}
