package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zarlcorp/core/pkg/zstyle"
)

type promptPurpose int

const (
	promptUnlock promptPurpose = iota
	promptCreate
	promptAdd
	promptFilter
)

// promptModel is a single-field text prompt. It serves the vault password,
// the add-person name and the list filter.
type promptModel struct {
	purpose    promptPurpose
	input      textinput.Model
	confirming bool
	firstPass  string
	errMsg     string
}

// promptSubmitMsg carries the value of an add or filter prompt.
type promptSubmitMsg struct {
	purpose promptPurpose
	value   string
}

// passwordSubmitMsg is sent when the user submits the vault password.
type passwordSubmitMsg struct {
	password string
}

// passwordErrMsg reports a failed unlock back to the prompt.
type passwordErrMsg struct {
	err error
}

func newPromptModel(purpose promptPurpose, initial string) promptModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 128
	ti.Width = 40

	if purpose.secret() {
		ti.Prompt = ""
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '*'
	}

	ti.SetValue(initial)
	ti.Focus()

	return promptModel{purpose: purpose, input: ti}
}

func (p promptPurpose) secret() bool {
	return p == promptUnlock || p == promptCreate
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (promptModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// letters belong to the input, so only ctrl+c quits here
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}

		if key.Matches(msg, zstyle.KeyEnter) {
			return m.submit()
		}

		if msg.Type == tea.KeyEsc && !m.purpose.secret() {
			return m, func() tea.Msg { return navigateMsg{view: viewList} }
		}

	case passwordErrMsg:
		m.errMsg = msg.err.Error()
		m.input.SetValue("")
		m.confirming = false
		m.firstPass = ""
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) submit() (promptModel, tea.Cmd) {
	val := m.input.Value()

	switch m.purpose {
	case promptAdd, promptFilter:
		purpose := m.purpose
		return m, func() tea.Msg { return promptSubmitMsg{purpose: purpose, value: val} }
	}

	if val == "" {
		return m, nil
	}

	if m.purpose == promptCreate {
		if !m.confirming {
			m.firstPass = val
			m.confirming = true
			m.errMsg = ""
			m.input.SetValue("")
			return m, nil
		}
		if val != m.firstPass {
			m.errMsg = "passwords do not match"
			m.confirming = false
			m.firstPass = ""
			m.input.SetValue("")
			return m, nil
		}
	}

	m.errMsg = ""
	return m, func() tea.Msg { return passwordSubmitMsg{password: val} }
}

// question is the line shown above the input.
func (m promptModel) question() string {
	switch m.purpose {
	case promptCreate:
		if m.confirming {
			return "confirm password:"
		}
		return "create vault password:"
	case promptUnlock:
		return "vault password:"
	case promptAdd:
		return "What is their name?"
	case promptFilter:
		return "Show people whose name contains:"
	}
	return ""
}

func (m promptModel) View() string {
	var s string

	if m.purpose.secret() {
		indent := lipgloss.NewStyle().MarginLeft(2)
		logo := indent.Render(zstyle.StyledLogo(lipgloss.NewStyle().Foreground(accent)))
		s = fmt.Sprintf("\n%s\n%s\n", logo, indent.Render(zstyle.MutedText.Render("zpeople")))
	}

	s += fmt.Sprintf("\n  %s\n  %s\n", m.question(), m.input.View())

	if m.errMsg != "" {
		s += "\n  " + zstyle.StatusErr.Render(m.errMsg)
	}

	s += "\n"
	return s
}
