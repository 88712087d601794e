package tui

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/timedesk/internal/auth"
	"github.com/sadopc/timedesk/internal/export"
	"github.com/sadopc/timedesk/internal/notes"
	"github.com/sadopc/timedesk/internal/tracker"
)

// Options wires the app to its services.
type Options struct {
	Tracker       *tracker.Tracker
	Auth          *auth.Service
	Notes         *notes.Service
	TickInterval  time.Duration
	TopActivities int
	// Warnings delivers non-fatal persistence errors to the status line.
	Warnings  <-chan error
	ExportDir string
	Log       *slog.Logger
}

// App is the root Bubble Tea model.
type App struct {
	tracker   *tracker.Tracker
	auth      *auth.Service
	log       *slog.Logger
	tick      time.Duration
	warnings  <-chan error
	exportDir string

	width  int
	height int

	user *auth.User

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	login     loginModel
	dashboard dashboardModel
	manual    manualModel
	stats     statsModel
	tickets   ticketsModel
	notes     notesModel
	admin     adminModel

	help      help.Model
	status    string
	statusErr bool
}

func NewApp(opts Options) App {
	h := help.New()
	h.ShowAll = false

	tick := opts.TickInterval
	if tick <= 0 {
		tick = 100 * time.Millisecond
	}
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	dir := opts.ExportDir
	if dir == "" {
		dir, _ = os.UserHomeDir()
	}

	return App{
		tracker:    opts.Tracker,
		auth:       opts.Auth,
		log:        log,
		tick:       tick,
		warnings:   opts.Warnings,
		exportDir:  dir,
		activeView: viewTimer,
		login:      newLoginModel(opts.Auth),
		dashboard:  newDashboardModel(opts.Tracker),
		manual:     newManualModel(opts.Tracker),
		stats:      newStatsModel(opts.Tracker, opts.TopActivities),
		tickets:    newTicketsModel(opts.Tracker),
		notes:      newNotesModel(opts.Notes),
		admin:      newAdminModel(opts.Tracker),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(a.tick), waitForWarning(a.warnings)}
	if u, ok := a.auth.Current(); ok {
		cmds = append(cmds, func() tea.Msg { return loginMsg{user: u} })
	} else {
		cmds = append(cmds, a.login.init())
	}
	return tea.Batch(cmds...)
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForWarning(ch <-chan error) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		err, ok := <-ch
		if !ok {
			return nil
		}
		return warningMsg{err: err}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.login.width = a.width
		a.dashboard.setSize(a.width, contentHeight)
		a.manual.setSize(a.width, contentHeight)
		a.stats.setSize(a.width, contentHeight)
		a.tickets.setSize(a.width, contentHeight)
		a.notes.setSize(a.width, contentHeight)
		a.admin.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.user == nil {
			var cmd tea.Cmd
			a.login, cmd = a.login.update(msg)
			return a, cmd
		}

		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Logout):
			return a.signOut()
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchView(viewTimer)
		case key.Matches(msg, keys.Tab2):
			return a.switchView(viewManual)
		case key.Matches(msg, keys.Tab3):
			return a.switchView(viewStats)
		case key.Matches(msg, keys.Tab4):
			return a.switchView(viewTickets)
		case key.Matches(msg, keys.Tab5):
			return a.switchView(viewNotes)
		case key.Matches(msg, keys.Tab6):
			return a.switchView(viewAdmin)
		case key.Matches(msg, keys.Tab):
			return a.switchView((a.activeView + 1) % viewState(visibleViews(*a.user)))
		}
		return a.updateActiveView(msg)

	case tickMsg:
		// The timer view reads elapsed time from the tracker on render, so a
		// tick only needs to schedule the next one.
		return a, tickCmd(a.tick)

	case loginMsg:
		return a.signIn(msg.user)

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		return a, nil

	case warningMsg:
		a.status = "Warning: " + msg.err.Error()
		a.statusErr = true
		return a, waitForWarning(a.warnings)

	case timerStartedMsg:
		a.status = "Timer started"
		a.statusErr = false
		return a, nil

	case timerStoppedMsg:
		a.status = fmt.Sprintf("Timer stopped: %s on %s", formatSeconds(msg.entry.Duration), truncate(msg.entry.Activity, 30))
		a.statusErr = false
		return a, a.dashboard.loadData()

	case entryAddedMsg:
		a.status = fmt.Sprintf("Logged %s on %s", formatSeconds(msg.entry.Duration), truncate(msg.entry.Activity, 30))
		a.statusErr = false
		return a, a.dashboard.loadData()

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusErr = false
		a.exportPicking = false
		return a, nil

	// Data loads go to their owner whichever view is showing.
	case dashboardDataMsg:
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg)
		return a, cmd
	case manualDataMsg:
		var cmd tea.Cmd
		a.manual, cmd = a.manual.update(msg)
		return a, cmd
	case statsDataMsg:
		var cmd tea.Cmd
		a.stats, cmd = a.stats.update(msg)
		return a, cmd
	case ticketsDataMsg:
		var cmd tea.Cmd
		a.tickets, cmd = a.tickets.update(msg)
		return a, cmd
	case notesDataMsg:
		var cmd tea.Cmd
		a.notes, cmd = a.notes.update(msg)
		return a, cmd
	case adminDataMsg:
		var cmd tea.Cmd
		a.admin, cmd = a.admin.update(msg)
		return a, cmd
	}

	if a.user == nil {
		var cmd tea.Cmd
		a.login, cmd = a.login.update(msg)
		return a, cmd
	}
	return a.updateActiveView(msg)
}

func (a App) signIn(u auth.User) (App, tea.Cmd) {
	a.user = &u
	a.activeView = viewTimer
	a.dashboard.setUser(u.ID)
	a.manual.setUser(u.ID)
	a.stats.setUser(u.ID)
	a.tickets.setUser(u.ID)
	a.notes.setUser(u.ID)
	a.status = "Signed in as " + u.Name
	a.statusErr = false
	a.log.Info("session started", "user_id", u.ID)
	return a, a.dashboard.loadData()
}

func (a App) signOut() (App, tea.Cmd) {
	a.auth.Logout()
	a.user = nil
	a.exportPicking = false
	a.dashboard.setUser("")
	a.manual.setUser("")
	a.stats.setUser("")
	a.tickets.setUser("")
	a.notes.setUser("")
	a.status = "Signed out"
	a.statusErr = false

	var cmd tea.Cmd
	a.login, cmd = a.login.reset()
	return a, cmd
}

func (a App) switchView(v viewState) (App, tea.Cmd) {
	if a.user == nil || int(v) >= visibleViews(*a.user) {
		return a, nil
	}
	a.activeView = v
	return a, a.refreshCurrentView()
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewTimer:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewManual:
		a.manual, cmd = a.manual.update(msg)
	case viewStats:
		a.stats, cmd = a.stats.update(msg)
	case viewTickets:
		a.tickets, cmd = a.tickets.update(msg)
	case viewNotes:
		a.notes, cmd = a.notes.update(msg)
	case viewAdmin:
		a.admin, cmd = a.admin.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewTimer:
		return a.dashboard.formActive
	case viewManual:
		return a.manual.formActive
	case viewNotes:
		return a.notes.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewTimer:
		return a.dashboard.loadData()
	case viewManual:
		return a.manual.refresh()
	case viewStats:
		return a.stats.refresh()
	case viewTickets:
		return a.tickets.refresh()
	case viewNotes:
		return a.notes.refresh()
	case viewAdmin:
		return a.admin.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	if a.user == nil {
		content = lipgloss.Place(a.width, max(a.height-4, 1), lipgloss.Center, lipgloss.Center, a.login.view())
	} else {
		switch a.activeView {
		case viewTimer:
			content = a.dashboard.view()
		case viewManual:
			content = a.manual.view()
		case viewStats:
			content = a.stats.view()
		case viewTickets:
			content = a.tickets.view()
		case viewNotes:
			content = a.notes.view()
		case viewAdmin:
			content = a.admin.view()
		}
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("timedesk")
	if a.user == nil {
		return headerStyle.Render(title)
	}

	var tabs []string
	for i, name := range viewNames[:visibleViews(*a.user)] {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
	who := mutedStyle.Render(fmt.Sprintf("  %s (%s)", a.user.Name, a.user.Role))

	gap := a.width - lipgloss.Width(title) - lipgloss.Width(who) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, who, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		if a.statusErr {
			status = errorStyle.Render(" " + a.status)
		} else {
			status = mutedStyle.Render(" " + a.status)
		}
	}

	timerInfo := ""
	if a.user != nil && a.dashboard.isRunning() {
		elapsed := a.dashboard.timer.currentElapsed()
		timerInfo = successStyle.Render(" ● " + formatDuration(elapsed))
		if a.dashboard.isPaused() {
			timerInfo = warningStyle.Render(" ⏸ " + formatDuration(elapsed))
		}
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

var exportFormats = []string{"CSV", "JSON"}

func (a App) renderExportPicker() string {
	var rows []string
	rows = append(rows, titleStyle.Render("Export Format"))
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	return activePanelStyle.Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// exportEntries is what the signed-in user may see: everything for an
// admin, their own entries otherwise.
func (a App) exportEntries() []tracker.TimeEntry {
	if a.user.IsAdmin() {
		return a.tracker.Entries()
	}
	return a.tracker.UserEntries(a.user.ID)
}

func (a App) doExport(format int) tea.Cmd {
	entries := a.exportEntries()
	userID := a.user.ID
	dir := a.exportDir
	log := a.log
	return func() tea.Msg {
		dateStr := time.Now().Format("2006-01-02")
		base := fmt.Sprintf("timedesk-%s-%s", userID, dateStr)

		var path string
		if format == 0 {
			path = filepath.Join(dir, base+".csv")
			if err := export.ToCSV(entries, path); err != nil {
				log.Error("export failed", "format", "csv", "error", err)
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(dir, base+".json")
			if err := export.ToJSON(entries, path); err != nil {
				log.Error("export failed", "format", "json", "error", err)
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		log.Info("export written", "path", path, "entries", len(entries))
		return exportDoneMsg{path: path}
	}
}
