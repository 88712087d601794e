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

const recentLimit = 8

type dashboardModel struct {
	tracker *tracker.Tracker
	timer   timerModel
	userID  string
	width   int
	height  int

	todayTotal    int64
	recentEntries []tracker.TimeEntry
	cursor        int

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formActivity *string
	formTicket   *string
}

func newDashboardModel(t *tracker.Tracker) dashboardModel {
	activity, ticket := "", ""
	return dashboardModel{
		tracker:      t,
		timer:        newTimerModel(t),
		formActivity: &activity,
		formTicket:   &ticket,
	}
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d *dashboardModel) setUser(userID string) {
	d.userID = userID
	d.timer.userID = userID
	d.cursor = 0
	d.formActive = false
	d.form = nil
}

func (d dashboardModel) isRunning() bool { return d.timer.running() }
func (d dashboardModel) isPaused() bool  { return d.timer.paused() }

type dashboardDataMsg struct {
	todayTotal    int64
	recentEntries []tracker.TimeEntry
}

func (d dashboardModel) loadData() tea.Cmd {
	if d.userID == "" {
		return nil
	}
	return func() tea.Msg {
		return dashboardDataMsg{
			todayTotal:    d.tracker.TodayTotal(d.userID),
			recentEntries: recentEntries(d.tracker.UserEntries(d.userID), recentLimit),
		}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if d.formActive && d.form != nil {
		return d.updateForm(msg)
	}

	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.todayTotal = msg.todayTotal
		d.recentEntries = msg.recentEntries
		if d.cursor >= len(d.recentEntries) {
			d.cursor = max(0, len(d.recentEntries)-1)
		}
		return d, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Start):
			if d.timer.running() {
				return d, infoStatus("Timer already running")
			}
			return d.showStartForm()

		case key.Matches(msg, keys.Stop):
			return d.stopTimer()

		case key.Matches(msg, keys.Pause):
			if err := d.timer.toggle(); err != nil {
				return d, errorStatus("Error: %v", err)
			}
			return d, nil

		case key.Matches(msg, keys.Up):
			if d.cursor > 0 {
				d.cursor--
			}
		case key.Matches(msg, keys.Down):
			if d.cursor < len(d.recentEntries)-1 {
				d.cursor++
			}
		case key.Matches(msg, keys.Delete):
			return d.deleteSelected()
		}
	}
	return d, nil
}

func (d dashboardModel) showStartForm() (dashboardModel, tea.Cmd) {
	*d.formActivity = ""
	*d.formTicket = ""

	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Activity").Value(d.formActivity).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("activity is required")
					}
					return nil
				}),
			huh.NewInput().Title("Ticket (optional)").Placeholder("RITM0012345").Value(d.formTicket),
		),
	).WithShowHelp(true).WithShowErrors(true)

	d.formActive = true
	return d, d.form.Init()
}

func (d dashboardModel) updateForm(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			d.formActive = false
			d.form = nil
			return d, nil
		}
	}

	form, cmd := d.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.form = f
	}

	switch d.form.State {
	case huh.StateCompleted:
		d.formActive = false
		d.form = nil
		return d.startTimer(*d.formActivity, *d.formTicket)
	case huh.StateAborted:
		d.formActive = false
		d.form = nil
		return d, nil
	}
	return d, cmd
}

func (d dashboardModel) startTimer(activity, ticket string) (dashboardModel, tea.Cmd) {
	if err := d.timer.start(activity, ticket); err != nil {
		return d, errorStatus("Error: %v", err)
	}
	return d, func() tea.Msg { return timerStartedMsg{} }
}

func (d dashboardModel) stopTimer() (dashboardModel, tea.Cmd) {
	entry, err := d.timer.stop()
	if errors.Is(err, tracker.ErrInvalidTransition) {
		return d, infoStatus("Timer is not running")
	}
	if err != nil {
		return d, errorStatus("Error: %v", err)
	}
	return d, func() tea.Msg { return timerStoppedMsg{entry: entry} }
}

func (d dashboardModel) deleteSelected() (dashboardModel, tea.Cmd) {
	if len(d.recentEntries) == 0 {
		return d, nil
	}
	e := d.recentEntries[d.cursor]
	if err := d.tracker.DeleteEntry(d.userID, e.ID); err != nil {
		return d, errorStatus("Delete failed: %v", err)
	}
	return d, tea.Batch(d.loadData(), infoStatus("Deleted "+truncate(e.Activity, 30)))
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4

	timerPanel := d.renderTimerPanel(contentWidth)

	if d.formActive && d.form != nil {
		formPanel := activePanelStyle.Width(contentWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Start Timer"), "", d.form.View()),
		)
		return lipgloss.JoinVertical(lipgloss.Left, timerPanel, formPanel)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		timerPanel,
		d.renderSummaryPanel(contentWidth),
		d.renderRecentPanel(contentWidth),
	)
}

func (d dashboardModel) renderTimerPanel(w int) string {
	st := d.timer.state()

	if st.Active() {
		timeStr := formatDuration(d.timer.currentElapsed())

		var timeDisplay, indicator string
		if st.Status == tracker.StatusPaused {
			timeDisplay = timerPausedStyle.Width(w - 6).Render(timeStr)
			indicator = warningStyle.Render("⏸  PAUSED")
		} else {
			timeDisplay = timerRunningStyle.Width(w - 6).Render(timeStr)
			indicator = successStyle.Render("●  RUNNING")
		}

		activity := highlightStyle.Render(st.CurrentActivity)
		if st.RitmCode != "" {
			activity += " " + ticketStyle.Render(st.RitmCode)
		}

		content := lipgloss.JoinVertical(lipgloss.Center,
			timeDisplay,
			indicator,
			activity,
		)
		return activePanelStyle.Width(w).Render(content)
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		timerStyle.Width(w-6).Render("00:00:00"),
		mutedStyle.Render("■  STOPPED"),
		mutedStyle.Render("Press s to start tracking"),
	)
	return panelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderSummaryPanel(w int) string {
	title := titleStyle.Render("Today")
	total := highlightStyle.Render(formatSeconds(d.todayTotal))
	return panelStyle.Width(w).Render(fmt.Sprintf("%s  %s  %s", title, total, mutedStyle.Render(formatHours(d.todayTotal))))
}

func (d dashboardModel) renderRecentPanel(w int) string {
	title := titleStyle.Render("Recent Entries")
	if len(d.recentEntries) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No entries yet. Start the timer to track an activity."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	for i, e := range d.recentEntries {
		cursor := "  "
		style := normalItemStyle
		if i == d.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		kind := "⏱"
		if e.Type == tracker.EntryManual {
			kind = "✎"
		}
		row := fmt.Sprintf("%s%s %s %s  %-30s %s",
			cursor, kind, e.Date, e.StartTime.Local().Format("15:04"),
			truncate(e.Activity, 30), formatSeconds(e.Duration),
		)
		rows = append(rows, style.Render(row))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  s: start  space: pause/resume  x: stop  d: delete entry"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
