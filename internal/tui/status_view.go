package tui

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/flagadmin/internal/auditlog"
	"nathanbeddoewebdev/flagadmin/internal/services/admin"
	"nathanbeddoewebdev/flagadmin/internal/tui/components"
	"nathanbeddoewebdev/flagadmin/internal/tui/styles"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// StatusData is everything the status dashboard shows.
type StatusData struct {
	Operator string
	Overview admin.Overview
	// Daily holds one change count per day, oldest first. It is nil when
	// the operator may not read the audit log.
	Daily  []float64
	ByType []auditlog.TypeCount
}

type statusModel struct {
	data StatusData

	width  int
	height int
}

// RunStatus starts the full-window status dashboard.
func RunStatus(data StatusData) error {
	_, err := tea.NewProgram(statusModel{data: data}, tea.WithAltScreen()).Run()
	return err
}

func (m statusModel) Init() tea.Cmd {
	return nil
}

func (m statusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m statusModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	header := components.Header(m.width, "status", m.data.Operator)
	footer := components.Footer(m.width, []components.KeyBinding{{Key: "q", Desc: "quit"}})

	contentH := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentH < 1 {
		contentH = 1
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, m.renderContent(contentH), footer)
}

func (m statusModel) renderContent(height int) string {
	o := m.data.Overview
	labelWidth := 18

	row := func(label, value string) string {
		return styles.Label.Width(labelWidth).Render(label) + styles.Value.Render(value)
	}
	counts := strings.Join([]string{
		row("Users", fmt.Sprint(o.Users)),
		row("Roles", fmt.Sprint(o.Roles)),
		row("Flags", fmt.Sprintf("%d (%d enabled)", o.Flags, o.EnabledFlags)),
		row("Changes (24h)", fmt.Sprint(o.Changes24h)),
	}, "\n")

	operator := styles.WarningText.Render("not logged in")
	if m.data.Operator != "" {
		operator = styles.SuccessText.Render(m.data.Operator)
	}

	cardWidth := 56
	if m.width-4 < cardWidth {
		cardWidth = max(m.width-4, 20)
	}

	sections := []string{
		styles.Title.Render("Overview"),
		"",
		styles.Card.Width(cardWidth).Render(row("Operator", "") + operator + "\n\n" + counts),
	}
	if m.data.Daily != nil {
		chartWidth := cardWidth - 12
		sections = append(sections, "",
			components.ActivityChart("Changes per day", m.data.Daily, chartWidth, true),
			"",
			components.TypeChart("By entity type", m.data.ByType, cardWidth),
		)
	}

	return lipgloss.Place(
		m.width, height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, sections...),
	)
}
