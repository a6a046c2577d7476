package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zarlcorp/core/pkg/zstyle"
	"github.com/zarlcorp/zpeople/internal/person"
	"github.com/zarlcorp/zpeople/internal/store"
)

// listModel renders the cached people as one row each.
type listModel struct {
	people   []person.Person
	cursor   int
	confirm  bool
	flash    string
	flashErr bool

	// shown in the status line
	sort   store.Sort
	filter string
}

// selectPersonMsg is sent when a row is chosen with enter.
type selectPersonMsg struct {
	person person.Person
}

// deletePersonMsg requests deletion after confirmation.
type deletePersonMsg struct {
	id string
}

// openPromptMsg asks the root to show the add or filter prompt.
type openPromptMsg struct {
	purpose promptPurpose
}

// cycleSortMsg advances the sort field.
type cycleSortMsg struct{}

// reverseSortMsg flips the sort direction.
type reverseSortMsg struct{}

// clearFilterMsg drops the name filter.
type clearFilterMsg struct{}

// withPeople replaces the cached rows, keeping the cursor in range.
func (m listModel) withPeople(people []person.Person) listModel {
	m.people = people
	m.confirm = false
	if m.cursor >= len(people) {
		m.cursor = max(len(people)-1, 0)
	}
	return m
}

// focus moves the cursor to the person with the given ID, if listed.
func (m listModel) focus(id string) listModel {
	for i, p := range m.people {
		if p.ID == id {
			m.cursor = i
			break
		}
	}
	return m
}

func (m listModel) setFlash(msg string, isErr bool) listModel {
	m.flash = msg
	m.flashErr = isErr
	return m
}

func (m listModel) Init() tea.Cmd {
	return nil
}

func (m listModel) Update(msg tea.Msg) (listModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case flashMsg:
		m.flash = ""
		m.flashErr = false
		return m, nil
	}

	return m, nil
}

func (m listModel) handleKey(msg tea.KeyMsg) (listModel, tea.Cmd) {
	if m.confirm {
		return m.handleConfirm(msg)
	}

	if key.Matches(msg, zstyle.KeyQuit) {
		return m, tea.Quit
	}

	switch msg.String() {
	case "a":
		return m, func() tea.Msg { return openPromptMsg{purpose: promptAdd} }
	case "/":
		return m, func() tea.Msg { return openPromptMsg{purpose: promptFilter} }
	case "x":
		if m.filter == "" {
			return m, nil
		}
		return m, func() tea.Msg { return clearFilterMsg{} }
	case "s":
		return m, func() tea.Msg { return cycleSortMsg{} }
	case "r":
		return m, func() tea.Msg { return reverseSortMsg{} }
	}

	if len(m.people) == 0 {
		return m, nil
	}

	if key.Matches(msg, zstyle.KeyUp) {
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	}

	if key.Matches(msg, zstyle.KeyDown) {
		if m.cursor < len(m.people)-1 {
			m.cursor++
		}
		return m, nil
	}

	if key.Matches(msg, zstyle.KeyEnter) {
		p := m.people[m.cursor]
		return m, func() tea.Msg { return selectPersonMsg{person: p} }
	}

	if msg.String() == "d" {
		m.confirm = true
		return m, nil
	}

	return m, nil
}

func (m listModel) handleConfirm(msg tea.KeyMsg) (listModel, tea.Cmd) {
	m.confirm = false
	if msg.String() != "y" {
		return m, nil
	}
	id := m.people[m.cursor].ID
	return m, func() tea.Msg { return deletePersonMsg{id: id} }
}

func (m listModel) statusLine() string {
	dir := "↑"
	if m.sort.Descending {
		dir = "↓"
	}
	s := fmt.Sprintf("%d people  sorted by %s %s", len(m.people), m.sort.Field, dir)
	if m.filter != "" {
		s += fmt.Sprintf("  name contains %q", m.filter)
	}
	return s
}

func (m listModel) View() string {
	accentStyle := lipgloss.NewStyle().Foreground(accent).Bold(true)

	s := "\n  " + zstyle.MutedText.Render(m.statusLine()) + "\n\n"

	if len(m.people) == 0 {
		empty := "no people yet  a to add"
		if m.filter != "" {
			empty = fmt.Sprintf("nobody's name contains %q  x to clear", m.filter)
		}
		s += "  " + zstyle.MutedText.Render(empty) + "\n"
	}

	for i, p := range m.people {
		var line string
		if p.Name == "" {
			line = zstyle.MutedText.Render("unnamed")
		} else {
			line = truncate(p.Name, 40)
		}

		if i == m.cursor {
			s += "  " + accentStyle.Render("▸") + " " + line + "\n"
		} else {
			s += "    " + line + "\n"
		}
	}

	s += "\n"

	// always reserve a line for confirm/flash to prevent layout shift
	switch {
	case m.confirm:
		name := m.people[m.cursor].DisplayName("unnamed")
		s += "  " + zstyle.StatusWarn.Render(fmt.Sprintf("delete %q? this cannot be undone. (y/n)", name)) + "\n"
	case m.flash != "" && m.flashErr:
		s += "  " + zstyle.StatusErr.Render(m.flash) + "\n"
	case m.flash != "":
		s += "  " + zstyle.StatusOK.Render(m.flash) + "\n"
	default:
		s += "\n"
	}

	return s
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
