package tui

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/flagadmin/internal/config"
	"nathanbeddoewebdev/flagadmin/internal/tui/components"
	"nathanbeddoewebdev/flagadmin/internal/tui/styles"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type configSavedMsg struct{ key string }

type configErrorMsg struct{ err error }

// configViewModel lists every config key and edits one value at a time.
// Values are validated by the key's setter before the file is written.
type configViewModel struct {
	cfg  *config.Config
	keys []config.KeySpec
	save func(*config.Config) error

	cursor  int
	editing bool
	editor  textinput.Model

	width  int
	height int

	status  string
	isError bool
}

func newConfigViewModel(cfg *config.Config, save func(*config.Config) error) configViewModel {
	return configViewModel{
		cfg:  cfg,
		keys: config.Keys,
		save: save,
	}
}

// RunConfigView starts the interactive config editor.
func RunConfigView() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	m := newConfigViewModel(cfg, func(c *config.Config) error { return c.Save() })
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m configViewModel) Init() tea.Cmd {
	return nil
}

func (m configViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.handleEditKey(msg)
		}
		return m.handleKey(msg)

	case configSavedMsg:
		m.editing = false
		m.status = fmt.Sprintf("Saved %s", msg.key)
		m.isError = false
		return m, nil

	case configErrorMsg:
		m.status = "Error: " + msg.err.Error()
		m.isError = true
		return m, nil
	}

	if m.editing {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m configViewModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.keys)-1 {
			m.cursor++
		}
	case "enter", "e":
		if len(m.keys) == 0 {
			return m, nil
		}
		ti := textinput.New()
		ti.SetValue(m.keys[m.cursor].Get(m.cfg))
		ti.Placeholder = "enter value"
		ti.Width = 40
		ti.Focus()
		m.editor = ti
		m.editing = true
		m.status = ""
		return m, textinput.Blink
	}
	return m, nil
}

func (m configViewModel) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		return m, nil
	case "enter":
		spec := m.keys[m.cursor]
		value := strings.TrimSpace(m.editor.Value())

		// Validate against a copy so a rejected value never reaches disk.
		next := *m.cfg
		if err := spec.Set(&next, value); err != nil {
			m.status = "Error: " + err.Error()
			m.isError = true
			return m, nil
		}
		*m.cfg = next
		return m, m.saveConfig(spec.Name)
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m configViewModel) saveConfig(key string) tea.Cmd {
	cfg := m.cfg
	save := m.save
	return func() tea.Msg {
		if err := save(cfg); err != nil {
			return configErrorMsg{err: err}
		}
		return configSavedMsg{key: key}
	}
}

func (m configViewModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	header := components.Header(m.width, "config", "")

	bindings := []components.KeyBinding{
		{Key: "j/k", Desc: "navigate"},
		{Key: "e", Desc: "edit"},
		{Key: "q", Desc: "quit"},
	}
	if m.editing {
		bindings = []components.KeyBinding{
			{Key: "enter", Desc: "save"},
			{Key: "esc", Desc: "cancel"},
		}
	}
	footer := components.Footer(m.width, bindings)

	sections := []string{header}
	statusBar := ""
	if m.status != "" {
		statusBar = components.StatusBar(m.width, m.status, m.isError)
	}

	contentH := m.height - lipgloss.Height(header) - lipgloss.Height(footer) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}
	sections = append(sections, m.renderContent(contentH))
	if statusBar != "" {
		sections = append(sections, statusBar)
	}
	sections = append(sections, footer)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m configViewModel) renderContent(height int) string {
	title := styles.Title.Render("Configuration")
	labelWidth := 20

	rows := make([]string, 0, len(m.keys)+1)
	for i, spec := range m.keys {
		value := spec.Get(m.cfg)
		if value == "" {
			value = "(not set)"
		}

		if i != m.cursor {
			rows = append(rows, "  "+
				styles.MutedText.Width(labelWidth).Render(spec.Name)+
				styles.MutedText.Render(value))
			continue
		}

		name := styles.AccentText.Render("> ") + styles.Label.Width(labelWidth).Render(spec.Name)
		if m.editing {
			rows = append(rows, name+m.editor.View())
			continue
		}
		rows = append(rows, name+styles.Value.Bold(true).Render(value))
		rows = append(rows, "    "+styles.MutedText.Italic(true).Render(spec.Description))
	}

	card := styles.Card.Width(60).Render(strings.Join(rows, "\n"))
	return lipgloss.Place(
		m.width, height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, title, "", card),
	)
}
