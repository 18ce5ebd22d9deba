package tui

import (
	"context"
	"fmt"
	"strings"

	"nathanbeddoewebdev/flagadmin/internal/auditlog"
	"nathanbeddoewebdev/flagadmin/internal/tui/components"
	"nathanbeddoewebdev/flagadmin/internal/tui/styles"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// AuditLoader fetches audit entries for the browser.
type AuditLoader func(ctx context.Context, f auditlog.Filter) ([]auditlog.AuditEntry, error)

type auditLoadedMsg struct {
	entries []auditlog.AuditEntry
}

type auditErrorMsg struct {
	err error
}

type auditBrowserModel struct {
	ctx      context.Context
	load     AuditLoader
	base     auditlog.Filter
	operator string

	entries   []auditlog.AuditEntry
	cursor    int
	listStart int

	// types are the entity types the filter cycles through; "" means all.
	types      []string
	typeFilter string

	width  int
	height int

	loading bool
	spinner spinner.Model
	err     error
	status  string
}

func newAuditBrowserModel(ctx context.Context, load AuditLoader, base auditlog.Filter, types []string, operator string) auditBrowserModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Blue)

	return auditBrowserModel{
		ctx:        ctx,
		load:       load,
		base:       base,
		operator:   operator,
		types:      append([]string{""}, types...),
		typeFilter: base.EntityType,
		loading:    true,
		spinner:    s,
	}
}

// RunAuditBrowser opens a full-window browser over the audit log. base
// supplies the initial filter; types lists the entity types the "t" key
// cycles through.
func RunAuditBrowser(ctx context.Context, load AuditLoader, base auditlog.Filter, types []string, operator string) error {
	m := newAuditBrowserModel(ctx, load, base, types, operator)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (m auditBrowserModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

func (m auditBrowserModel) loadCmd() tea.Cmd {
	f := m.base
	f.EntityType = m.typeFilter
	ctx, load := m.ctx, m.load
	return func() tea.Msg {
		entries, err := load(ctx, f)
		if err != nil {
			return auditErrorMsg{err: err}
		}
		return auditLoadedMsg{entries: entries}
	}
}

func (m auditBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
		case "g", "home":
			m.cursor = 0
		case "G", "end":
			m.cursor = max(len(m.entries)-1, 0)
		case "t":
			m.typeFilter = m.nextType()
			return m.reload()
		case "r":
			return m.reload()
		}

	case auditLoadedMsg:
		m.loading = false
		m.err = nil
		m.entries = msg.entries
		m.cursor = 0
		m.listStart = 0
		m.status = fmt.Sprintf("Loaded %d entries.", len(m.entries))

	case auditErrorMsg:
		m.loading = false
		m.err = msg.err
		m.status = msg.err.Error()

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m auditBrowserModel) reload() (tea.Model, tea.Cmd) {
	m.loading = true
	m.err = nil
	return m, tea.Batch(m.spinner.Tick, m.loadCmd())
}

func (m auditBrowserModel) nextType() string {
	for i, t := range m.types {
		if t == m.typeFilter {
			return m.types[(i+1)%len(m.types)]
		}
	}
	return ""
}

// selected returns the entry under the cursor.
func (m auditBrowserModel) selected() (auditlog.AuditEntry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return auditlog.AuditEntry{}, false
	}
	return m.entries[m.cursor], true
}

func (m auditBrowserModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	header := components.Header(m.width, "audit", m.operator)
	footer := components.Footer(m.width, []components.KeyBinding{
		{Key: "j/k", Desc: "nav"},
		{Key: "t", Desc: "type filter"},
		{Key: "r", Desc: "reload"},
		{Key: "q", Desc: "quit"},
	})
	statusBar := components.StatusBar(m.width, m.status, m.err != nil)

	contentH := m.height - lipgloss.Height(header) - lipgloss.Height(footer) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.loading:
		content = fmt.Sprintf("\n  %s Loading audit log...", m.spinner.View())
	case m.err != nil:
		content = "\n  " + styles.ErrorText.Render(m.err.Error())
	case len(m.entries) == 0:
		content = m.renderFilterBar() + "\n\n  No audit entries found."
	default:
		listW := m.width * 55 / 100
		list := m.renderList(listW, contentH-2)
		detail := m.renderDetail(m.width - listW - 1)
		content = m.renderFilterBar() + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, list, " ", detail)
	}

	if lines := lipgloss.Height(content); lines < contentH {
		content += lipgloss.NewStyle().Height(contentH - lines).Render("")
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar, footer)
}

func (m auditBrowserModel) renderFilterBar() string {
	parts := []string{"  Type: "}
	for _, t := range m.types {
		label := t
		if label == "" {
			label = "All"
		}
		if t == m.typeFilter {
			parts = append(parts, "["+styles.AccentText.Render(label)+"]")
		} else {
			parts = append(parts, " "+styles.MutedText.Render(label)+" ")
		}
	}
	return strings.Join(parts, "")
}

func (m *auditBrowserModel) renderList(width, height int) string {
	height = max(height, 2)
	if m.cursor < m.listStart {
		m.listStart = m.cursor
	} else if m.cursor >= m.listStart+height-1 {
		m.listStart = m.cursor - height + 2
	}
	end := min(m.listStart+height-1, len(m.entries))

	rows := []string{styles.TableHeader.Render(fmt.Sprintf("  %-19s %-7s %s", "TIME", "ACTION", "ENTITY"))}
	for i := m.listStart; i < end; i++ {
		e := m.entries[i]
		cursor := " "
		rowStyle := styles.TableCell
		if i == m.cursor {
			cursor = styles.AccentText.Render(">")
			rowStyle = styles.TableSelectedRow
		}
		action := styles.ActionStyle(e.Action).Width(7).Render(e.Action)
		line := fmt.Sprintf("%s %s %s %s:%s",
			cursor,
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			action,
			e.EntityType, e.EntityID,
		)
		rows = append(rows, rowStyle.Render(ansi.Truncate(line, max(width-2, 1), "…")))
	}
	return lipgloss.NewStyle().Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m auditBrowserModel) renderDetail(width int) string {
	e, ok := m.selected()
	if !ok {
		return ""
	}
	inner := max(width-6, 10)
	labelW := 10

	field := func(label, value string) string {
		return styles.Label.Width(labelW).Render(label) + ansi.Truncate(value, inner-labelW, "…")
	}
	lines := []string{
		styles.Title.Render(fmt.Sprintf("Entry #%d", e.ID)),
		"",
		field("Entity", e.EntityType+" "+e.EntityID),
		field("Action", styles.ActionStyle(e.Action).Render(e.Action)),
		field("User", dash(e.UserName)),
		field("Trace", dash(e.TraceID)),
		"",
	}

	diffs, err := auditlog.Diff(e)
	switch {
	case err != nil:
		lines = append(lines, styles.ErrorText.Render(err.Error()))
	case len(diffs) == 0:
		lines = append(lines, styles.MutedText.Render("No audited fields changed."))
	default:
		for _, d := range diffs {
			lines = append(lines, styles.Label.Render(d.Field))
			if d.Old != "" {
				lines = append(lines, "  "+styles.ErrorText.Render("- ")+ansi.Truncate(d.Old, inner-4, "…"))
			}
			if d.New != "" {
				lines = append(lines, "  "+styles.SuccessText.Render("+ ")+ansi.Truncate(d.New, inner-4, "…"))
			}
		}
	}

	return styles.Card.Width(max(width-2, 12)).Render(strings.Join(lines, "\n"))
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
