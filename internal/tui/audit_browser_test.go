package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"nathanbeddoewebdev/flagadmin/internal/auditlog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
)

func sampleEntries() []auditlog.AuditEntry {
	ts := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	return []auditlog.AuditEntry{
		{
			ID: 2, Timestamp: ts, EntityType: "FeatureFlag", EntityID: "1", Action: "update",
			UserName:  "root",
			OldValues: `{"ID":1,"Key":"beta","Enabled":false}`,
			NewValues: `{"ID":1,"Key":"beta","Enabled":true}`,
		},
		{
			ID: 1, Timestamp: ts.Add(-time.Hour), EntityType: "FeatureFlag", EntityID: "1", Action: "insert",
			UserName:  "root",
			OldValues: `{}`,
			NewValues: `{"ID":1,"Key":"beta","Enabled":false}`,
		},
	}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loadedBrowser(t *testing.T, load AuditLoader) auditBrowserModel {
	t.Helper()
	m := newAuditBrowserModel(context.Background(), load, auditlog.Filter{Limit: 50}, []string{"FeatureFlag", "User"}, "root")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	msg := m.loadCmd()()
	next, _ = next.Update(msg)
	return next.(auditBrowserModel)
}

func TestAuditBrowser_LoadAndNavigate(t *testing.T) {
	var gotFilter auditlog.Filter
	load := func(ctx context.Context, f auditlog.Filter) ([]auditlog.AuditEntry, error) {
		gotFilter = f
		return sampleEntries(), nil
	}

	m := loadedBrowser(t, load)
	if m.loading {
		t.Fatal("expected loading to finish")
	}
	if gotFilter.Limit != 50 {
		t.Errorf("loader filter limit = %d, want 50", gotFilter.Limit)
	}

	view := m.View()
	for _, want := range []string{"Entry #2", "Enabled", "false", "true", "Loaded 2 entries."} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view:\n%s", want, view)
		}
	}

	next, _ := m.Update(key("j"))
	m = next.(auditBrowserModel)
	e, ok := m.selected()
	if !ok || e.ID != 1 {
		t.Fatalf("selected after down = %+v, want entry 1", e)
	}

	next, _ = m.Update(key("j"))
	if got := next.(auditBrowserModel).cursor; got != 1 {
		t.Errorf("cursor moved past the last entry: %d", got)
	}
}

func TestAuditBrowser_TypeFilterCycles(t *testing.T) {
	var filters []string
	load := func(ctx context.Context, f auditlog.Filter) ([]auditlog.AuditEntry, error) {
		filters = append(filters, f.EntityType)
		return nil, nil
	}

	m := loadedBrowser(t, load)
	for range 3 {
		next, cmd := m.Update(key("t"))
		m = next.(auditBrowserModel)
		if !m.loading {
			t.Fatal("expected a reload after changing the filter")
		}
		if cmd == nil {
			t.Fatal("expected a load command")
		}
		next, _ = m.Update(m.loadCmd()())
		m = next.(auditBrowserModel)
	}

	if diff := cmp.Diff([]string{"", "FeatureFlag", "User", ""}, filters); diff != "" {
		t.Errorf("filters mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(m.View(), "No audit entries found.") {
		t.Errorf("expected empty message in view:\n%s", m.View())
	}
}

func TestAuditBrowser_LoadError(t *testing.T) {
	load := func(ctx context.Context, f auditlog.Filter) ([]auditlog.AuditEntry, error) {
		return nil, errors.New("forbidden")
	}

	m := loadedBrowser(t, load)
	if m.err == nil {
		t.Fatal("expected error to be stored")
	}
	if !strings.Contains(m.View(), "forbidden") {
		t.Errorf("expected error in view:\n%s", m.View())
	}
}

func TestAuditBrowser_Quit(t *testing.T) {
	m := newAuditBrowserModel(context.Background(), nil, auditlog.Filter{}, nil, "")
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}
