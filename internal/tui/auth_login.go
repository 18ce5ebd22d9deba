package tui

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/flagadmin/internal/tui/components"
	"nathanbeddoewebdev/flagadmin/internal/tui/styles"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// VerifyFunc checks a username and password and records the login on
// success.
type VerifyFunc func(username, password string) error

type loginOKMsg struct{ username string }

type loginFailedMsg struct{ err error }

type authLoginModel struct {
	verify VerifyFunc

	inputs []textinput.Model
	focus  int

	width  int
	height int

	err      error
	username string
	quitting bool
}

// AuthLoginResult holds the outcome of the login TUI.
type AuthLoginResult struct {
	Username string
}

func newAuthLoginModel(username string, verify VerifyFunc) authLoginModel {
	user := textinput.New()
	user.Placeholder = "username"
	user.Width = 40
	user.SetValue(username)

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '*'
	pass.Width = 40

	m := authLoginModel{verify: verify, inputs: []textinput.Model{user, pass}}
	if username != "" {
		m.focus = 1
	}
	m.inputs[m.focus].Focus()
	return m
}

// RunAuthLogin prompts for credentials until verify accepts them or the
// user cancels. It returns nil when cancelled.
func RunAuthLogin(username string, verify VerifyFunc) (*AuthLoginResult, error) {
	m := newAuthLoginModel(username, verify)

	result, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return nil, fmt.Errorf("failed to run auth login: %w", err)
	}

	final := result.(authLoginModel)
	if final.username == "" {
		return nil, nil
	}
	return &AuthLoginResult{Username: final.username}, nil
}

func (m authLoginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m authLoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case loginOKMsg:
		m.username = msg.username
		return m, tea.Quit

	case loginFailedMsg:
		m.err = msg.err
		m.inputs[1].SetValue("")
		return m.setFocus(1), textinput.Blink
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m authLoginModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	case "tab", "shift+tab", "up", "down":
		return m.setFocus(1 - m.focus), textinput.Blink
	case "enter":
		username := strings.TrimSpace(m.inputs[0].Value())
		password := m.inputs[1].Value()
		if username == "" {
			m.err = fmt.Errorf("username cannot be empty")
			return m.setFocus(0), nil
		}
		if m.focus == 0 {
			return m.setFocus(1), textinput.Blink
		}
		if password == "" {
			m.err = fmt.Errorf("password cannot be empty")
			return m, nil
		}
		m.err = nil
		return m, m.login(username, password)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.err = nil
	return m, cmd
}

func (m authLoginModel) setFocus(i int) authLoginModel {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
	return m
}

func (m authLoginModel) login(username, password string) tea.Cmd {
	verify := m.verify
	return func() tea.Msg {
		if err := verify(username, password); err != nil {
			return loginFailedMsg{err: err}
		}
		return loginOKMsg{username: username}
	}
}

func (m authLoginModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	header := components.Header(m.width, "auth login", "")
	footer := components.Footer(m.width, []components.KeyBinding{
		{Key: "tab", Desc: "switch field"},
		{Key: "enter", Desc: "log in"},
		{Key: "esc", Desc: "cancel"},
	})

	contentH := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentH < 1 {
		contentH = 1
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, m.renderContent(contentH), footer)
}

func (m authLoginModel) inputView(i int) string {
	style := styles.InputBlurred
	if i == m.focus {
		style = styles.InputFocused
	}
	return style.Render(m.inputs[i].View())
}

func (m authLoginModel) renderContent(height int) string {
	lines := []string{
		styles.Title.Render("Log in"),
		styles.MutedText.Render("Changes you make are recorded under this user"),
		"",
		styles.Label.Render("Username"),
		m.inputView(0),
		"",
		styles.Label.Render("Password"),
		m.inputView(1),
	}
	if m.err != nil {
		lines = append(lines, "", styles.ErrorText.Render(m.err.Error()))
	}

	return lipgloss.Place(
		m.width, height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, lines...),
	)
}
