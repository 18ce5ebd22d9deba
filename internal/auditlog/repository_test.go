package auditlog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"nathanbeddoewebdev/flagadmin/internal/database"
	"nathanbeddoewebdev/flagadmin/internal/domain"

	"github.com/google/go-cmp/cmp"
)

func tempRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := database.OpenAt(context.Background(), filepath.Join(t.TempDir(), "flagadmin.db"))
	if err != nil {
		t.Fatalf("OpenAt failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db)
}

func save(t *testing.T, r *Repository, entry *AuditEntry) {
	t.Helper()
	if err := r.Save(context.Background(), entry); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
}

func TestSave_AssignsIDAndTimestamp(t *testing.T) {
	r := tempRepo(t)

	entry := &AuditEntry{
		EntityType: "FeatureFlag",
		EntityID:   "1",
		Action:     "insert",
		OldValues:  "{}",
		NewValues:  `{"ID":1}`,
	}
	save(t, r, entry)

	if entry.ID == 0 {
		t.Error("expected ID to be assigned")
	}
	if entry.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}

	got, err := r.Get(context.Background(), entry.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if diff := cmp.Diff(entry.NewValues, got.NewValues); diff != "" {
		t.Errorf("NewValues mismatch (-want +got):\n%s", diff)
	}
	if !got.Timestamp.Equal(entry.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, entry.Timestamp)
	}
}

func TestGet_NotFound(t *testing.T) {
	r := tempRepo(t)

	_, err := r.Get(context.Background(), 99)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Get error = %v, want ErrNotFound", err)
	}
}

func TestList_NewestFirstWithLimit(t *testing.T) {
	r := tempRepo(t)
	base := time.Now().UTC().Add(-time.Hour)

	for i := range 3 {
		save(t, r, &AuditEntry{
			EntityType: "Role",
			EntityID:   "1",
			Action:     "update",
			Timestamp:  base.Add(time.Duration(i) * time.Second),
		})
	}

	entries, err := r.List(context.Background(), Filter{Limit: 2})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Timestamp.Before(entries[1].Timestamp) {
		t.Error("expected entries sorted by timestamp descending")
	}
}

func TestList_Filters(t *testing.T) {
	r := tempRepo(t)
	old := time.Now().UTC().Add(-48 * time.Hour)

	entries := []*AuditEntry{
		{EntityType: "FeatureFlag", EntityID: "1", Action: "insert", UserName: "ada", TraceID: "t1"},
		{EntityType: "FeatureFlag", EntityID: "2", Action: "update", UserName: "bob", TraceID: "t2"},
		{EntityType: "User", EntityID: "1", Action: "update", UserName: "ada", TraceID: "t2"},
		{EntityType: "FeatureFlag", EntityID: "1", Action: "delete", UserName: "ada", Timestamp: old},
	}
	for _, e := range entries {
		save(t, r, e)
	}

	tests := []struct {
		name   string
		filter Filter
		want   []int64
	}{
		{name: "entity type", filter: Filter{EntityType: "FeatureFlag"}, want: []int64{2, 1, 4}},
		{name: "entity", filter: Filter{EntityType: "FeatureFlag", EntityID: "1"}, want: []int64{1, 4}},
		{name: "user", filter: Filter{UserName: "bob"}, want: []int64{2}},
		{name: "action", filter: Filter{Action: "update"}, want: []int64{3, 2}},
		{name: "trace", filter: Filter{TraceID: "t2"}, want: []int64{3, 2}},
		{name: "since", filter: Filter{EntityID: "1", Since: time.Now().Add(-time.Hour)}, want: []int64{3, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.List(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			var ids []int64
			for _, e := range got {
				ids = append(ids, e.ID)
			}
			if diff := cmp.Diff(tt.want, ids); diff != "" {
				t.Errorf("IDs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPrune(t *testing.T) {
	r := tempRepo(t)
	now := time.Now().UTC()

	save(t, r, &AuditEntry{EntityType: "Role", EntityID: "1", Action: "insert", Timestamp: now.Add(-48 * time.Hour)})
	save(t, r, &AuditEntry{EntityType: "Role", EntityID: "1", Action: "update", Timestamp: now})

	removed, err := r.Prune(context.Background(), 24*time.Hour)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 entry removed, got %d", removed)
	}

	remaining, err := r.List(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(remaining) != 1 || remaining[0].Action != "update" {
		t.Errorf("unexpected remaining entries: %+v", remaining)
	}
}

func TestPrune_RejectsNonPositiveAge(t *testing.T) {
	r := tempRepo(t)
	save(t, r, &AuditEntry{EntityType: "Role", EntityID: "1", Action: "insert", Timestamp: time.Now().UTC()})

	days := int64(200000)
	wrapped := time.Duration(days) * 24 * time.Hour
	for _, age := range []time.Duration{0, -time.Hour, wrapped} {
		removed, err := r.Prune(context.Background(), age)
		if !errors.Is(err, domain.ErrInvalid) {
			t.Errorf("Prune(%v) error = %v, want ErrInvalid", age, err)
		}
		if removed != 0 {
			t.Errorf("Prune(%v) removed %d entries, want 0", age, removed)
		}
	}

	remaining, err := r.List(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(remaining) != 1 {
		t.Errorf("expected the entry to survive, got %d entries", len(remaining))
	}
}

func TestCounts(t *testing.T) {
	r := tempRepo(t)
	day1 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)

	save(t, r, &AuditEntry{EntityType: "FeatureFlag", EntityID: "1", Action: "insert", Timestamp: day1})
	save(t, r, &AuditEntry{EntityType: "FeatureFlag", EntityID: "1", Action: "update", Timestamp: day2})
	save(t, r, &AuditEntry{EntityType: "User", EntityID: "1", Action: "insert", Timestamp: day2})

	ctx := context.Background()
	since := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	byDay, err := r.CountByDay(ctx, since)
	if err != nil {
		t.Fatalf("CountByDay failed: %v", err)
	}
	wantDays := []DayCount{{Day: "2024-03-01", Count: 1}, {Day: "2024-03-02", Count: 2}}
	if diff := cmp.Diff(wantDays, byDay); diff != "" {
		t.Errorf("CountByDay mismatch (-want +got):\n%s", diff)
	}

	byType, err := r.CountByEntityType(ctx, since)
	if err != nil {
		t.Fatalf("CountByEntityType failed: %v", err)
	}
	wantTypes := []TypeCount{{EntityType: "FeatureFlag", Count: 2}, {EntityType: "User", Count: 1}}
	if diff := cmp.Diff(wantTypes, byType); diff != "" {
		t.Errorf("CountByEntityType mismatch (-want +got):\n%s", diff)
	}

	n, err := r.Count(ctx, day2)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Count = %d, want 2", n)
	}
}
