package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/timedesk/internal/tracker"
)

type manualModel struct {
	tracker *tracker.Tracker
	userID  string
	width   int
	height  int

	today []tracker.TimeEntry

	formActive bool
	form       *huh.Form

	formActivity *string
	formStart    *string
	formEnd      *string
	formTicket   *string
}

func newManualModel(t *tracker.Tracker) manualModel {
	activity, start, end, ticket := "", "", "", ""
	return manualModel{
		tracker:      t,
		formActivity: &activity,
		formStart:    &start,
		formEnd:      &end,
		formTicket:   &ticket,
	}
}

func (m *manualModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m *manualModel) setUser(userID string) {
	m.userID = userID
	m.formActive = false
	m.form = nil
}

type manualDataMsg struct {
	today []tracker.TimeEntry
}

// refresh loads the user's manual entries for today.
func (m manualModel) refresh() tea.Cmd {
	if m.userID == "" {
		return nil
	}
	return func() tea.Msg {
		var today []tracker.TimeEntry
		for _, e := range m.tracker.EntriesInPeriod(m.userID, 0) {
			if e.Type == tracker.EntryManual {
				today = append(today, e)
			}
		}
		return manualDataMsg{today: today}
	}
}

func (m manualModel) update(msg tea.Msg) (manualModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case manualDataMsg:
		m.today = msg.today
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.New) || key.Matches(msg, keys.Enter) {
			return m.showForm()
		}
	}
	return m, nil
}

func validateClock(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required (HH:MM)")
	}
	return nil
}

func (m manualModel) showForm() (manualModel, tea.Cmd) {
	*m.formActivity = ""
	*m.formStart = ""
	*m.formEnd = ""
	*m.formTicket = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Activity").Value(m.formActivity),
			huh.NewInput().Title("Start").Placeholder("09:00").Value(m.formStart).Validate(validateClock),
			huh.NewInput().Title("End").Placeholder("10:30").Value(m.formEnd).Validate(validateClock),
			huh.NewInput().Title("Ticket (optional)").Value(m.formTicket),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m manualModel) updateForm(msg tea.Msg) (manualModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.formActive = false
		m.form = nil
		return m.submit()
	case huh.StateAborted:
		m.formActive = false
		m.form = nil
	}
	return m, cmd
}

func (m manualModel) submit() (manualModel, tea.Cmd) {
	entry, err := m.tracker.AddManualEntry(m.userID,
		activityLabel(*m.formActivity, *m.formTicket),
		*m.formStart, *m.formEnd, *m.formTicket)
	if err != nil {
		var verr *tracker.ValidationError
		if errors.As(err, &verr) {
			return m, errorStatus("Not saved: %s %s", verr.Field, verr.Reason)
		}
		return m, errorStatus("Error: %v", err)
	}
	return m, tea.Batch(m.refresh(), func() tea.Msg { return entryAddedMsg{entry: entry} })
}

func (m manualModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		return activePanelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Manual Entry"), "", m.form.View()),
		)
	}

	rows := []string{titleStyle.Render("Manual Entries Today"), ""}
	if len(m.today) == 0 {
		rows = append(rows, mutedStyle.Render("Nothing logged by hand today."))
	}
	var total int64
	for _, e := range m.today {
		end := ""
		if e.EndTime != nil {
			end = e.EndTime.Local().Format("15:04")
		}
		rows = append(rows, fmt.Sprintf("  %s-%s  %-30s %s",
			e.StartTime.Local().Format("15:04"), end, truncate(e.Activity, 30), formatSeconds(e.Duration)))
		total += e.Duration
	}
	if len(m.today) > 0 {
		rows = append(rows, "", fmt.Sprintf("  Total %s", highlightStyle.Render(formatSeconds(total))))
	}
	rows = append(rows, "", mutedStyle.Render("  n: log time for today (start and end as HH:MM)"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
