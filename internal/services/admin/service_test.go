package admin

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"nathanbeddoewebdev/flagadmin/internal/auditlog"
	"nathanbeddoewebdev/flagadmin/internal/database"
	"nathanbeddoewebdev/flagadmin/internal/domain"
	"nathanbeddoewebdev/flagadmin/internal/tracking"

	"github.com/google/go-cmp/cmp"
)

const testPassword = "correct horse"

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := database.OpenAt(context.Background(), filepath.Join(t.TempDir(), "flagadmin.db"))
	if err != nil {
		t.Fatalf("OpenAt failed: %v", err)
	}
	svc := NewService(db, tracking.NewRecorder(domain.NewAuditRegistry()))
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

// bootstrap creates the first (admin) user and returns a context acting as it.
func bootstrap(t *testing.T, svc *Service) context.Context {
	t.Helper()
	if _, err := svc.CreateUser(context.Background(), NewUser{Username: "root", Password: testPassword}); err != nil {
		t.Fatalf("bootstrap CreateUser failed: %v", err)
	}
	return tracking.WithOperator(context.Background(), "root")
}

func auditEntries(t *testing.T, svc *Service, f auditlog.Filter) []auditlog.AuditEntry {
	t.Helper()
	entries, err := auditlog.NewRepository(svc.db).List(context.Background(), f)
	if err != nil {
		t.Fatalf("List audit failed: %v", err)
	}
	return entries
}

func actions(entries []auditlog.AuditEntry) []string {
	var out []string
	for i := len(entries) - 1; i >= 0; i-- {
		out = append(out, entries[i].EntityType+":"+entries[i].Action)
	}
	return out
}

func TestBootstrapUserIsAdmin(t *testing.T) {
	svc := newTestService(t)
	ctx := bootstrap(t, svc)

	detail, err := svc.GetUser(ctx, "root")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if diff := cmp.Diff([]string{"admin"}, detail.Roles); diff != "" {
		t.Errorf("roles mismatch (-want +got):\n%s", diff)
	}

	entries := auditEntries(t, svc, auditlog.Filter{})
	if diff := cmp.Diff([]string{"User:insert", "UserRole:insert"}, actions(entries)); diff != "" {
		t.Errorf("audit actions mismatch (-want +got):\n%s", diff)
	}
	if entries[0].TraceID == "" || entries[0].TraceID != entries[1].TraceID {
		t.Errorf("expected both rows to share a trace ID, got %q and %q", entries[0].TraceID, entries[1].TraceID)
	}
	for _, e := range entries {
		if e.UserName != "root" {
			t.Errorf("UserName = %q, want root", e.UserName)
		}
		if strings.Contains(e.NewValues, "PasswordHash") {
			t.Errorf("audit row leaked password hash: %s", e.NewValues)
		}
	}
}

func TestCreateUser_RequiresOperatorAfterBootstrap(t *testing.T) {
	svc := newTestService(t)
	ctx := bootstrap(t, svc)

	_, err := svc.CreateUser(context.Background(), NewUser{Username: "eve", Password: testPassword})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("CreateUser without operator error = %v, want ErrUnauthorized", err)
	}

	if _, err := svc.CreateUser(ctx, NewUser{Username: "bob", Password: testPassword}); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	bobCtx := tracking.WithOperator(context.Background(), "bob")
	_, err = svc.CreateFlag(bobCtx, NewFlag{Key: "beta"})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("CreateFlag as bob error = %v, want ErrForbidden", err)
	}
}

func TestCreateUser_Validation(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name string
		in   NewUser
	}{
		{name: "short username", in: NewUser{Username: "ab", Password: testPassword}},
		{name: "bad email", in: NewUser{Username: "ada", Email: "nope", Password: testPassword}},
		{name: "short password", in: NewUser{Username: "ada", Password: "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateUser(context.Background(), tt.in); !errors.Is(err, domain.ErrInvalid) {
				t.Fatalf("CreateUser error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestFlagLifecycleIsAudited(t *testing.T) {
	svc := newTestService(t)
	ctx := bootstrap(t, svc)

	flag, err := svc.CreateFlag(ctx, NewFlag{Key: "New-Checkout", Name: "New checkout", RolloutPercent: 100})
	if err != nil {
		t.Fatalf("CreateFlag failed: %v", err)
	}
	if flag.Key != "new-checkout" {
		t.Errorf("Key = %q, want normalized key", flag.Key)
	}

	toggled, err := svc.ToggleFlag(ctx, "new-checkout")
	if err != nil {
		t.Fatalf("ToggleFlag failed: %v", err)
	}
	if !toggled.Enabled {
		t.Error("expected flag to be enabled after toggle")
	}

	pct := 25
	if _, err := svc.UpdateFlag(ctx, "new-checkout", FlagUpdate{RolloutPercent: &pct}); err != nil {
		t.Fatalf("UpdateFlag failed: %v", err)
	}
	if err := svc.DeleteFlag(ctx, "new-checkout"); err != nil {
		t.Fatalf("DeleteFlag failed: %v", err)
	}

	entries := auditEntries(t, svc, auditlog.Filter{EntityType: domain.EntityFeatureFlag})
	want := []string{"FeatureFlag:insert", "FeatureFlag:update", "FeatureFlag:update", "FeatureFlag:delete"}
	if diff := cmp.Diff(want, actions(entries)); diff != "" {
		t.Fatalf("audit actions mismatch (-want +got):\n%s", diff)
	}

	toggleEntry := entries[2]
	diffs, err := auditlog.Diff(toggleEntry)
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}
	var fields []string
	for _, d := range diffs {
		fields = append(fields, d.Field)
	}
	if diff := cmp.Diff([]string{"Enabled", "UpdatedAt"}, fields); diff != "" {
		t.Errorf("toggle diff fields mismatch (-want +got):\n%s", diff)
	}
	if diffs[0].Old != "false" || diffs[0].New != "true" {
		t.Errorf("Enabled diff = %+v, want false -> true", diffs[0])
	}

	for _, e := range entries {
		if e.EntityID != "1" {
			t.Errorf("EntityID = %q, want 1", e.EntityID)
		}
	}
}

func TestUpdateFlag_NoChangeWritesNothing(t *testing.T) {
	svc := newTestService(t)
	ctx := bootstrap(t, svc)

	if _, err := svc.CreateFlag(ctx, NewFlag{Key: "beta", Name: "Beta", RolloutPercent: 50}); err != nil {
		t.Fatalf("CreateFlag failed: %v", err)
	}
	name := "Beta"
	if _, err := svc.UpdateFlag(ctx, "beta", FlagUpdate{Name: &name}); err != nil {
		t.Fatalf("UpdateFlag failed: %v", err)
	}

	entries := auditEntries(t, svc, auditlog.Filter{EntityType: domain.EntityFeatureFlag})
	if len(entries) != 1 {
		t.Errorf("expected only the insert row, got %v", actions(entries))
	}
}

func TestFailedMutationLeavesNoAuditRow(t *testing.T) {
	svc := newTestService(t)
	ctx := bootstrap(t, svc)

	if _, err := svc.CreateFlag(ctx, NewFlag{Key: "beta"}); err != nil {
		t.Fatalf("CreateFlag failed: %v", err)
	}
	if _, err := svc.CreateFlag(ctx, NewFlag{Key: "beta"}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate CreateFlag error = %v, want ErrConflict", err)
	}

	pct := 101
	if _, err := svc.UpdateFlag(ctx, "beta", FlagUpdate{RolloutPercent: &pct}); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("UpdateFlag error = %v, want ErrInvalid", err)
	}

	entries := auditEntries(t, svc, auditlog.Filter{EntityType: domain.EntityFeatureFlag})
	if len(entries) != 1 {
		t.Errorf("expected one audit row, got %v", actions(entries))
	}
}

func TestSetPasswordNotInSnapshot(t *testing.T) {
	svc := newTestService(t)
	ctx := bootstrap(t, svc)

	if err := svc.SetPassword(ctx, "root", "another secret"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "root", "another secret"); err != nil {
		t.Fatalf("Authenticate with new password failed: %v", err)
	}

	entries := auditEntries(t, svc, auditlog.Filter{EntityType: domain.EntityUser, Action: "update"})
	if len(entries) != 1 {
		t.Fatalf("expected one update row, got %d", len(entries))
	}
	diffs, err := auditlog.Diff(entries[0])
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}
	if len(diffs) != 1 || diffs[0].Field != "UpdatedAt" {
		t.Errorf("password change diff = %+v, want only UpdatedAt", diffs)
	}
}

func TestSetPassword_DeactivatedSelf(t *testing.T) {
	svc := newTestService(t)
	ctx := bootstrap(t, svc)

	if _, err := svc.CreateUser(ctx, NewUser{Username: "bob", Password: testPassword}); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	inactive := false
	if _, err := svc.UpdateUser(ctx, "bob", UserUpdate{Active: &inactive}); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	before := len(auditEntries(t, svc, auditlog.Filter{}))

	bobCtx := tracking.WithOperator(context.Background(), "bob")
	if err := svc.SetPassword(bobCtx, "bob", "brand new secret"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("SetPassword(deactivated self) error = %v, want ErrUnauthorized", err)
	}
	if after := len(auditEntries(t, svc, auditlog.Filter{})); after != before {
		t.Errorf("audit rows = %d, want %d", after, before)
	}

	active := true
	if _, err := svc.UpdateUser(ctx, "bob", UserUpdate{Active: &active}); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if err := svc.SetPassword(bobCtx, "bob", "brand new secret"); err != nil {
		t.Fatalf("SetPassword(active self) failed: %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc := newTestService(t)
	ctx := bootstrap(t, svc)

	if _, err := svc.CreateUser(ctx, NewUser{Username: "bob", Password: testPassword}); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "BOB", testPassword); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "wrong password", username: "bob", password: "wrong password"},
		{name: "unknown user", username: "nobody", password: testPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Authenticate(ctx, tt.username, tt.password); !errors.Is(err, domain.ErrUnauthorized) {
				t.Fatalf("Authenticate error = %v, want ErrUnauthorized", err)
			}
		})
	}

	inactive := false
	if _, err := svc.UpdateUser(ctx, "bob", UserUpdate{Active: &inactive}); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "bob", testPassword); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("Authenticate deactivated error = %v, want ErrUnauthorized", err)
	}
}

func TestSelfProtection(t *testing.T) {
	svc := newTestService(t)
	ctx := bootstrap(t, svc)

	if err := svc.DeleteUser(ctx, "root"); !errors.Is(err, domain.ErrInvalid) {
		t.Errorf("DeleteUser(self) error = %v, want ErrInvalid", err)
	}
	if err := svc.UnassignRole(ctx, "root", "admin"); !errors.Is(err, domain.ErrInvalid) {
		t.Errorf("UnassignRole(self, admin) error = %v, want ErrInvalid", err)
	}
	inactive := false
	if _, err := svc.UpdateUser(ctx, "root", UserUpdate{Active: &inactive}); !errors.Is(err, domain.ErrInvalid) {
		t.Errorf("UpdateUser(self inactive) error = %v, want ErrInvalid", err)
	}
	if err := svc.DeleteRole(ctx, "admin"); !errors.Is(err, domain.ErrInvalid) {
		t.Errorf("DeleteRole(admin) error = %v, want ErrInvalid", err)
	}
}

func TestDeleteRoleAuditsLinks(t *testing.T) {
	svc := newTestService(t)
	ctx := bootstrap(t, svc)

	if _, err := svc.CreateRole(ctx, "release", "Release managers"); err != nil {
		t.Fatalf("CreateRole failed: %v", err)
	}
	if err := svc.GrantPermission(ctx, "release", domain.PermFlagsManage); err != nil {
		t.Fatalf("GrantPermission failed: %v", err)
	}
	if _, err := svc.CreateUser(ctx, NewUser{Username: "bob", Password: testPassword}); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if err := svc.AssignRole(ctx, "bob", "release"); err != nil {
		t.Fatalf("AssignRole failed: %v", err)
	}

	bobCtx := tracking.WithOperator(context.Background(), "bob")
	if _, err := svc.CreateFlag(bobCtx, NewFlag{Key: "bob-flag"}); err != nil {
		t.Fatalf("CreateFlag as release manager failed: %v", err)
	}

	if err := svc.DeleteRole(ctx, "release"); err != nil {
		t.Fatalf("DeleteRole failed: %v", err)
	}

	deletes := auditEntries(t, svc, auditlog.Filter{Action: "delete"})
	want := []string{"RolePermission:delete", "UserRole:delete", "Role:delete"}
	if diff := cmp.Diff(want, actions(deletes)); diff != "" {
		t.Errorf("delete actions mismatch (-want +got):\n%s", diff)
	}

	if _, err := svc.CreateFlag(bobCtx, NewFlag{Key: "bob-flag-2"}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("CreateFlag after role deletion error = %v, want ErrForbidden", err)
	}
}

func TestRevokePermission(t *testing.T) {
	svc := newTestService(t)
	ctx := bootstrap(t, svc)

	if err := svc.RevokePermission(ctx, "admin", domain.PermAuditRead); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("RevokePermission(admin) error = %v, want ErrInvalid", err)
	}

	if _, err := svc.CreateRole(ctx, "auditor", ""); err != nil {
		t.Fatalf("CreateRole failed: %v", err)
	}
	if err := svc.GrantPermission(ctx, "auditor", domain.PermAuditRead); err != nil {
		t.Fatalf("GrantPermission failed: %v", err)
	}
	if err := svc.GrantPermission(ctx, "auditor", domain.PermAuditRead); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate GrantPermission error = %v, want ErrConflict", err)
	}
	if err := svc.RevokePermission(ctx, "auditor", domain.PermAuditRead); err != nil {
		t.Fatalf("RevokePermission failed: %v", err)
	}

	roles, err := svc.ListRoles(ctx)
	if err != nil {
		t.Fatalf("ListRoles failed: %v", err)
	}
	for _, r := range roles {
		if r.Name == "auditor" && len(r.Permissions) != 0 {
			t.Errorf("auditor permissions = %v, want none", r.Permissions)
		}
		if r.Name == "admin" && len(r.Permissions) != 5 {
			t.Errorf("admin permissions = %v, want 5", r.Permissions)
		}
	}
}

func TestAuditReadRequiresPermission(t *testing.T) {
	svc := newTestService(t)
	ctx := bootstrap(t, svc)

	if _, err := svc.CreateUser(ctx, NewUser{Username: "bob", Password: testPassword}); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	bobCtx := tracking.WithOperator(context.Background(), "bob")

	if _, err := svc.ListAudit(bobCtx, auditlog.Filter{}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("ListAudit as bob error = %v, want ErrForbidden", err)
	}
	if _, err := svc.PruneAudit(bobCtx, time.Hour); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("PruneAudit as bob error = %v, want ErrForbidden", err)
	}

	entries, err := svc.ListAudit(ctx, auditlog.Filter{Limit: 1})
	if err != nil {
		t.Fatalf("ListAudit failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	got, err := svc.GetAudit(ctx, entries[0].ID)
	if err != nil {
		t.Fatalf("GetAudit failed: %v", err)
	}
	if got.ID != entries[0].ID {
		t.Errorf("GetAudit ID = %d, want %d", got.ID, entries[0].ID)
	}
}

func TestOverviewAndActivity(t *testing.T) {
	svc := newTestService(t)
	ctx := bootstrap(t, svc)

	if _, err := svc.CreateFlag(ctx, NewFlag{Key: "on-flag", Enabled: true, RolloutPercent: 100}); err != nil {
		t.Fatalf("CreateFlag failed: %v", err)
	}
	if _, err := svc.CreateFlag(ctx, NewFlag{Key: "off-flag"}); err != nil {
		t.Fatalf("CreateFlag failed: %v", err)
	}

	o, err := svc.Overview(ctx)
	if err != nil {
		t.Fatalf("Overview failed: %v", err)
	}
	want := &Overview{Users: 1, Roles: 1, Flags: 2, EnabledFlags: 1, Changes24h: 4}
	if diff := cmp.Diff(want, o); diff != "" {
		t.Errorf("Overview mismatch (-want +got):\n%s", diff)
	}

	a, err := svc.AuditActivity(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("AuditActivity failed: %v", err)
	}
	if len(a.ByDay) == 0 {
		t.Error("expected at least one day of activity")
	}
	wantTypes := []auditlog.TypeCount{
		{EntityType: "FeatureFlag", Count: 2},
		{EntityType: "User", Count: 1},
		{EntityType: "UserRole", Count: 1},
	}
	if diff := cmp.Diff(wantTypes, a.ByType); diff != "" {
		t.Errorf("ByType mismatch (-want +got):\n%s", diff)
	}
}

func TestEvaluateFlag(t *testing.T) {
	svc := newTestService(t)
	ctx := bootstrap(t, svc)

	if _, err := svc.CreateFlag(ctx, NewFlag{Key: "beta", Enabled: true, RolloutPercent: 100}); err != nil {
		t.Fatalf("CreateFlag failed: %v", err)
	}
	r, err := svc.EvaluateFlag(ctx, "beta", "user-42")
	if err != nil {
		t.Fatalf("EvaluateFlag failed: %v", err)
	}
	if !r.On {
		t.Errorf("expected full rollout to be on, got %+v", r)
	}
	if _, err := svc.EvaluateFlag(ctx, "missing", "user-42"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("EvaluateFlag(missing) error = %v, want ErrNotFound", err)
	}
}
