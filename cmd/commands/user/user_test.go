package user

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"nathanbeddoewebdev/flagadmin/cmd/commands/cmdutil"
	"nathanbeddoewebdev/flagadmin/internal/config"
	"nathanbeddoewebdev/flagadmin/internal/database"
	"nathanbeddoewebdev/flagadmin/internal/domain"
	"nathanbeddoewebdev/flagadmin/internal/services/admin"
	"nathanbeddoewebdev/flagadmin/internal/services/auth"

	"github.com/google/go-cmp/cmp"
)

// setupTestEnv points config, database and auth store at temporary
// locations. Nobody is logged in.
func setupTestEnv(t *testing.T) *auth.MockStore {
	t.Helper()
	dir := t.TempDir()
	config.SetPath(filepath.Join(dir, "config.json"))
	database.SetPath(filepath.Join(dir, "flagadmin.db"))
	store := auth.NewMockStore()
	cmdutil.SetStore(store)
	t.Cleanup(func() {
		config.ResetPath()
		database.ResetPath()
		cmdutil.ResetStore()
	})
	return store
}

// execUser runs the user command with the given stdin and args.
func execUser(t *testing.T, stdin string, args ...string) (stdout, stderr string) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	cmd := NewCommand()
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	cmd.Execute()
	return outBuf.String(), errBuf.String()
}

// bootstrapRoot creates the first user through the CLI and logs it in.
func bootstrapRoot(t *testing.T, store *auth.MockStore) {
	t.Helper()
	stdout, stderr := execUser(t, "", "create", "root", "--password", "correct horse")
	if !strings.Contains(stdout, "first user") {
		t.Fatalf("expected bootstrap message, got stdout %q stderr %q", stdout, stderr)
	}
	if err := store.SetOperator("root"); err != nil {
		t.Fatal(err)
	}
}

func TestCreate_Bootstrap(t *testing.T) {
	store := setupTestEnv(t)
	bootstrapRoot(t, store)

	stdout, _ := execUser(t, "", "show", "root", "-o", "json")
	var detail admin.UserDetail
	if err := json.Unmarshal([]byte(stdout), &detail); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout)
	}
	if diff := cmp.Diff([]string{"admin"}, detail.Roles); diff != "" {
		t.Errorf("roles mismatch (-want +got):\n%s", diff)
	}
	if strings.Contains(stdout, "$2a$") {
		t.Errorf("password hash leaked into JSON output: %s", stdout)
	}
}

func TestCreate_SecondUserNeedsLogin(t *testing.T) {
	store := setupTestEnv(t)
	bootstrapRoot(t, store)
	if err := store.Clear(); err != nil {
		t.Fatal(err)
	}

	_, stderr := execUser(t, "", "create", "bob", "--password", "correct horse")
	if !strings.Contains(stderr, domain.ErrUnauthorized.Error()) {
		t.Errorf("expected unauthorized error, got: %s", stderr)
	}
}

func TestCreate_PasswordFromStdin(t *testing.T) {
	store := setupTestEnv(t)
	bootstrapRoot(t, store)

	stdout, stderr := execUser(t, "piped password\n", "create", "ci-bot", "--role", "admin")
	if !strings.Contains(stdout, `User "ci-bot" created.`) {
		t.Fatalf("expected creation message, got stdout %q stderr %q", stdout, stderr)
	}
	if !strings.Contains(stdout, `Role "admin" assigned.`) {
		t.Errorf("expected role assignment, got: %s", stdout)
	}

	store.SetOperator("ci-bot")
	stdout, stderr = execUser(t, "", "list")
	if stderr != "" {
		t.Fatalf("unexpected stderr: %s", stderr)
	}
	for _, want := range []string{"USERNAME", "ci-bot", "root"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in list output:\n%s", want, stdout)
		}
	}
}

func TestAssignUnassign(t *testing.T) {
	store := setupTestEnv(t)
	bootstrapRoot(t, store)
	execUser(t, "", "create", "bob", "--password", "correct horse")

	stdout, stderr := execUser(t, "", "assign", "bob", "admin")
	if stderr != "" || !strings.Contains(stdout, `Role "admin" assigned to "bob".`) {
		t.Fatalf("assign: stdout %q stderr %q", stdout, stderr)
	}

	_, stderr = execUser(t, "", "assign", "bob", "admin")
	if !strings.Contains(stderr, domain.ErrConflict.Error()) {
		t.Errorf("expected conflict on duplicate assignment, got: %s", stderr)
	}

	stdout, stderr = execUser(t, "", "unassign", "bob", "admin")
	if stderr != "" || !strings.Contains(stdout, `Role "admin" removed from "bob".`) {
		t.Fatalf("unassign: stdout %q stderr %q", stdout, stderr)
	}

	_, stderr = execUser(t, "", "unassign", "root", "admin")
	if !strings.Contains(stderr, "cannot remove your own admin role") {
		t.Errorf("expected self-protection error, got: %s", stderr)
	}
}

func TestPasswd_Self(t *testing.T) {
	store := setupTestEnv(t)
	bootstrapRoot(t, store)

	stdout, stderr := execUser(t, "a brand new secret\n", "passwd")
	if !strings.Contains(stdout, `Password for "root" changed.`) {
		t.Fatalf("expected confirmation, got stdout %q stderr %q", stdout, stderr)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	store := setupTestEnv(t)
	bootstrapRoot(t, store)
	execUser(t, "", "create", "bob", "--password", "correct horse")

	stdout, stderr := execUser(t, "", "update", "bob", "--active=false", "--email", "bob@example.com")
	if stderr != "" || !strings.Contains(stdout, `User "bob" updated.`) {
		t.Fatalf("update: stdout %q stderr %q", stdout, stderr)
	}

	stdout, _ = execUser(t, "", "show", "bob")
	for _, want := range []string{"bob@example.com", "false"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in show output:\n%s", want, stdout)
		}
	}

	_, stderr = execUser(t, "", "update", "bob")
	if !strings.Contains(stderr, "nothing to update") {
		t.Errorf("expected 'nothing to update', got: %s", stderr)
	}

	_, stderr = execUser(t, "", "delete", "bob")
	if !strings.Contains(stderr, "pass --yes") {
		t.Errorf("expected confirmation error, got: %s", stderr)
	}

	stdout, stderr = execUser(t, "", "delete", "bob", "--yes")
	if stderr != "" || !strings.Contains(stdout, `User "bob" deleted.`) {
		t.Fatalf("delete: stdout %q stderr %q", stdout, stderr)
	}

	_, stderr = execUser(t, "", "delete", "root", "--yes")
	if !strings.Contains(stderr, "cannot delete yourself") {
		t.Errorf("expected self-delete error, got: %s", stderr)
	}
}
