package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/timedesk/internal/tracker"
)

const adminPageSize = 12

// adminModel shows every user's entries. Filters cycle through the dates and
// users present in the data; an empty filter means all.
type adminModel struct {
	tracker *tracker.Tracker
	width   int
	height  int

	all     []tracker.TimeEntry
	dates   []string
	users   []string
	tickets []tracker.TicketSummary

	dateIdx int // 0 = all, else dates[dateIdx-1]
	userIdx int // 0 = all, else users[userIdx-1]
	offset  int
}

func newAdminModel(t *tracker.Tracker) adminModel {
	return adminModel{tracker: t}
}

func (a *adminModel) setSize(w, h int) {
	a.width = w
	a.height = h
}

type adminDataMsg struct {
	entries []tracker.TimeEntry
	tickets []tracker.TicketSummary
}

func (a adminModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return adminDataMsg{
			entries: a.tracker.Entries(),
			tickets: a.tracker.Tickets(""),
		}
	}
}

func (a adminModel) filter() tracker.EntryFilter {
	var f tracker.EntryFilter
	if a.dateIdx > 0 && a.dateIdx <= len(a.dates) {
		f.Date = a.dates[a.dateIdx-1]
	}
	if a.userIdx > 0 && a.userIdx <= len(a.users) {
		f.UserID = a.users[a.userIdx-1]
	}
	return f
}

func (a adminModel) filtered() []tracker.TimeEntry {
	return tracker.FilterEntries(a.all, a.filter())
}

func (a adminModel) update(msg tea.Msg) (adminModel, tea.Cmd) {
	switch msg := msg.(type) {
	case adminDataMsg:
		a.all = msg.entries
		a.tickets = msg.tickets
		a.dates = tracker.Dates(msg.entries)
		a.users = tracker.Users(msg.entries)
		if a.dateIdx > len(a.dates) {
			a.dateIdx = 0
		}
		if a.userIdx > len(a.users) {
			a.userIdx = 0
		}
		a.offset = 0
		return a, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.FilterDate):
			a.dateIdx = (a.dateIdx + 1) % (len(a.dates) + 1)
			a.offset = 0
		case key.Matches(msg, keys.FilterUser):
			a.userIdx = (a.userIdx + 1) % (len(a.users) + 1)
			a.offset = 0
		case key.Matches(msg, keys.Up):
			if a.offset > 0 {
				a.offset--
			}
		case key.Matches(msg, keys.Down):
			if a.offset < len(a.filtered())-1 {
				a.offset++
			}
		}
	}
	return a, nil
}

func (a adminModel) view() string {
	w := a.width - 4
	entries := a.filtered()
	sum := tracker.Summarize(entries)
	f := a.filter()

	dateLabel, userLabel := "all dates", "all users"
	if f.Date != "" {
		dateLabel = f.Date
	}
	if f.UserID != "" {
		userLabel = f.UserID
	}

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("All Entries"), "  ",
		highlightStyle.Render(dateLabel), mutedStyle.Render(" · "), highlightStyle.Render(userLabel),
	)
	stats := fmt.Sprintf("  Total %s   Entries %d   Average %s",
		highlightStyle.Render(formatSeconds(sum.TotalSeconds)),
		sum.Count,
		highlightStyle.Render(formatSeconds(sum.AverageSeconds)),
	)

	rows := []string{header, "", stats, ""}
	if len(entries) == 0 {
		rows = append(rows, mutedStyle.Render("  No entries match the filters."))
	} else {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-10s %-10s %-32s %-12s %9s %-6s", "Date", "User", "Activity", "Ticket", "Time", "Type")))
		end := min(len(entries), a.offset+adminPageSize)
		for _, e := range entries[a.offset:end] {
			rows = append(rows, fmt.Sprintf("  %-10s %-10s %-32s %-12s %9s %-6s",
				e.Date, truncate(e.UserID, 10), truncate(e.Activity, 32), e.TicketCode(),
				formatSeconds(e.Duration), e.Type))
		}
		if len(entries) > adminPageSize {
			rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %d-%d of %d", a.offset+1, end, len(entries))))
		}
	}

	rows = append(rows, "", renderTicketTable("Tickets (all users)", a.tickets, -1, false))
	rows = append(rows, "", mutedStyle.Render("  f: cycle date  u: cycle user  ↑/↓: scroll"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
