package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/timedesk/internal/notes"
)

type notesModel struct {
	notes  *notes.Service
	userID string
	width  int
	height int

	list   []notes.Note
	cursor int

	formActive bool
	form       *huh.Form
	editingID  string // empty when creating

	formTitle   *string
	formContent *string
}

func newNotesModel(svc *notes.Service) notesModel {
	title, content := "", ""
	return notesModel{
		notes:       svc,
		formTitle:   &title,
		formContent: &content,
	}
}

func (n *notesModel) setSize(w, h int) {
	n.width = w
	n.height = h
}

func (n *notesModel) setUser(userID string) {
	n.userID = userID
	n.list = nil
	n.cursor = 0
	n.formActive = false
	n.form = nil
}

type notesDataMsg struct {
	list []notes.Note
}

func (n notesModel) refresh() tea.Cmd {
	if n.userID == "" {
		return nil
	}
	return func() tea.Msg {
		return notesDataMsg{list: n.notes.List(n.userID)}
	}
}

func (n notesModel) update(msg tea.Msg) (notesModel, tea.Cmd) {
	if n.formActive && n.form != nil {
		return n.updateForm(msg)
	}

	switch msg := msg.(type) {
	case notesDataMsg:
		n.list = msg.list
		if n.cursor >= len(n.list) {
			n.cursor = max(0, len(n.list)-1)
		}
		return n, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if n.cursor > 0 {
				n.cursor--
			}
		case key.Matches(msg, keys.Down):
			if n.cursor < len(n.list)-1 {
				n.cursor++
			}
		case key.Matches(msg, keys.New):
			return n.showForm(notes.Note{})
		case key.Matches(msg, keys.Enter):
			if len(n.list) > 0 {
				return n.showForm(n.list[n.cursor])
			}
		case key.Matches(msg, keys.Delete):
			if len(n.list) > 0 {
				if err := n.notes.Delete(n.userID, n.list[n.cursor].ID); err != nil {
					return n, errorStatus("Error: %v", err)
				}
				return n, n.refresh()
			}
		}
	}
	return n, nil
}

func (n notesModel) showForm(existing notes.Note) (notesModel, tea.Cmd) {
	*n.formTitle = existing.Title
	*n.formContent = existing.Content
	n.editingID = existing.ID

	n.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(n.formTitle),
			huh.NewText().Title("Content").Lines(6).Value(n.formContent),
		),
	).WithShowHelp(true).WithShowErrors(true)

	n.formActive = true
	return n, n.form.Init()
}

func (n notesModel) updateForm(msg tea.Msg) (notesModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			n.formActive = false
			n.form = nil
			return n, nil
		}
	}

	form, cmd := n.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		n.form = f
	}

	switch n.form.State {
	case huh.StateCompleted:
		n.formActive = false
		n.form = nil
		return n.save()
	case huh.StateAborted:
		n.formActive = false
		n.form = nil
	}
	return n, cmd
}

func (n notesModel) save() (notesModel, tea.Cmd) {
	if n.editingID == "" {
		n.notes.Create(n.userID, *n.formTitle, *n.formContent)
		n.cursor = 0
		return n, n.refresh()
	}
	if _, err := n.notes.Update(n.userID, n.editingID, *n.formTitle, *n.formContent); err != nil {
		return n, errorStatus("Error: %v", err)
	}
	return n, n.refresh()
}

func (n notesModel) view() string {
	w := n.width - 4

	if n.formActive && n.form != nil {
		title := titleStyle.Render("New Note")
		if n.editingID != "" {
			title = titleStyle.Render("Edit Note")
		}
		return activePanelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", n.form.View()),
		)
	}

	rows := []string{titleStyle.Render("Notes"), ""}
	if len(n.list) == 0 {
		rows = append(rows, mutedStyle.Render("No notes yet. Press n to write one."))
		return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
	}

	for i, note := range n.list {
		cursor := "  "
		style := normalItemStyle
		if i == n.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		updated := mutedStyle.Render(note.UpdatedAt.Local().Format("Jan 02 15:04"))
		rows = append(rows, style.Render(fmt.Sprintf("%s%-30s", cursor, truncate(note.Title, 30)))+" "+updated)
	}

	if sel := n.list[n.cursor]; sel.Content != "" {
		rows = append(rows, "", mutedStyle.Render(strings.Repeat("─", max(0, min(w-6, 40)))), sel.Content)
	}

	rows = append(rows, "", mutedStyle.Render("  n: new  enter: edit  d: delete"))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
