package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/timedesk/internal/auth"
)

type loginModel struct {
	auth  *auth.Service
	width int

	form     *huh.Form
	username *string
	password *string
	err      string
}

func newLoginModel(a *auth.Service) loginModel {
	u, p := "", ""
	m := loginModel{auth: a, username: &u, password: &p}
	m.form = m.buildForm()
	return m
}

func (m loginModel) buildForm() *huh.Form {
	*m.password = ""
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Username").Value(m.username),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(m.password),
		),
	).WithShowHelp(false)
}

// reset clears the form for the next sign-in.
func (m loginModel) reset() (loginModel, tea.Cmd) {
	*m.username = ""
	m.err = ""
	m.form = m.buildForm()
	return m, m.form.Init()
}

func (m loginModel) init() tea.Cmd {
	return m.form.Init()
}

func (m loginModel) update(msg tea.Msg) (loginModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, keys.Back) {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m.submit()
	case huh.StateAborted:
		return m, tea.Quit
	}
	return m, cmd
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	u, err := m.auth.Login(*m.username, *m.password)
	if err != nil {
		m.err = err.Error()
		m.form = m.buildForm()
		return m, m.form.Init()
	}
	m.err = ""
	return m, func() tea.Msg { return loginMsg{user: u} }
}

func (m loginModel) view() string {
	w := min(max(m.width-4, 20), 50)
	rows := []string{
		titleStyle.Render("Sign in"),
		mutedStyle.Render("Demo accounts: admin / 123, dev / 123"),
		"",
		m.form.View(),
	}
	if m.err != "" {
		rows = append(rows, errorStyle.Render(m.err))
	}
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
