package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/timedesk/internal/tracker"
)

type ticketsModel struct {
	tracker *tracker.Tracker
	userID  string
	width   int
	height  int

	tickets []tracker.TicketSummary
	cursor  int
}

func newTicketsModel(t *tracker.Tracker) ticketsModel {
	return ticketsModel{tracker: t}
}

func (m *ticketsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m *ticketsModel) setUser(userID string) {
	m.userID = userID
	m.cursor = 0
	m.tickets = nil
}

type ticketsDataMsg struct {
	tickets []tracker.TicketSummary
}

func (m ticketsModel) refresh() tea.Cmd {
	if m.userID == "" {
		return nil
	}
	return func() tea.Msg {
		return ticketsDataMsg{tickets: m.tracker.Tickets(m.userID)}
	}
}

func (m ticketsModel) update(msg tea.Msg) (ticketsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case ticketsDataMsg:
		m.tickets = msg.tickets
		if m.cursor >= len(m.tickets) {
			m.cursor = max(0, len(m.tickets)-1)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.tickets)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Enter):
			return m.toggleSelected()
		}
	}
	return m, nil
}

func (m ticketsModel) toggleSelected() (ticketsModel, tea.Cmd) {
	if len(m.tickets) == 0 {
		return m, nil
	}
	t := m.tickets[m.cursor]
	next := tracker.TicketClosed
	if t.Status == tracker.TicketClosed {
		next = tracker.TicketOpen
	}
	if err := m.tracker.UpdateTicketStatus(t.Code, next); err != nil {
		return m, errorStatus("Error: %v", err)
	}
	return m, tea.Batch(m.refresh(), infoStatus(fmt.Sprintf("%s marked %s", t.Code, next)))
}

func (m ticketsModel) view() string {
	w := m.width - 4
	return panelStyle.Width(w).Render(renderTicketTable("Tickets", m.tickets, m.cursor, true))
}

// renderTicketTable lists ticket rollups. cursor < 0 hides the selection.
func renderTicketTable(title string, tickets []tracker.TicketSummary, cursor int, withHint bool) string {
	rows := []string{titleStyle.Render(title), ""}
	if len(tickets) == 0 {
		rows = append(rows, mutedStyle.Render("No ticket codes found. Tag an activity with RITM followed by digits."))
		return strings.Join(rows, "\n")
	}

	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-16s %-8s %10s %8s", "Ticket", "Status", "Time", "Entries")))
	for i, t := range tickets {
		prefix := "  "
		style := normalItemStyle
		if i == cursor {
			prefix = "> "
			style = selectedItemStyle
		}
		status := successStyle.Render(fmt.Sprintf("%-8s", t.Status))
		if t.Status == tracker.TicketClosed {
			status = mutedStyle.Render(fmt.Sprintf("%-8s", t.Status))
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-16s", prefix, t.Code))+" "+status+
			style.Render(fmt.Sprintf(" %10s %8d", formatSeconds(t.Duration), t.Entries)))
	}
	if withHint {
		rows = append(rows, "", mutedStyle.Render("  enter: open/close ticket"))
	}
	return strings.Join(rows, "\n")
}
