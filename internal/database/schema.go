package database

import (
	"context"
	"database/sql"
	"fmt"
)

const ddl = `
    CREATE TABLE IF NOT EXISTS users (
        id            INTEGER PRIMARY KEY AUTOINCREMENT,
        username      TEXT    NOT NULL UNIQUE,
        email         TEXT    NOT NULL DEFAULT '',
        display_name  TEXT    NOT NULL DEFAULT '',
        password_hash TEXT    NOT NULL DEFAULT '',
        active        INTEGER NOT NULL DEFAULT 1,
        created_at    TEXT    NOT NULL,
        updated_at    TEXT    NOT NULL
    );

    CREATE TABLE IF NOT EXISTS roles (
        id          INTEGER PRIMARY KEY AUTOINCREMENT,
        name        TEXT    NOT NULL UNIQUE,
        description TEXT    NOT NULL DEFAULT '',
        created_at  TEXT    NOT NULL
    );

    CREATE TABLE IF NOT EXISTS permissions (
        id          INTEGER PRIMARY KEY AUTOINCREMENT,
        name        TEXT    NOT NULL UNIQUE,
        description TEXT    NOT NULL DEFAULT ''
    );

    CREATE TABLE IF NOT EXISTS role_permissions (
        id            INTEGER PRIMARY KEY AUTOINCREMENT,
        role_id       INTEGER NOT NULL REFERENCES roles(id) ON DELETE CASCADE,
        permission_id INTEGER NOT NULL REFERENCES permissions(id) ON DELETE CASCADE,
        UNIQUE (role_id, permission_id)
    );

    CREATE TABLE IF NOT EXISTS user_roles (
        id      INTEGER PRIMARY KEY AUTOINCREMENT,
        user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
        role_id INTEGER NOT NULL REFERENCES roles(id) ON DELETE CASCADE,
        UNIQUE (user_id, role_id)
    );

    CREATE TABLE IF NOT EXISTS feature_flags (
        id              INTEGER PRIMARY KEY AUTOINCREMENT,
        flag_key        TEXT    NOT NULL UNIQUE,
        name            TEXT    NOT NULL DEFAULT '',
        description     TEXT    NOT NULL DEFAULT '',
        enabled         INTEGER NOT NULL DEFAULT 0,
        rollout_percent INTEGER NOT NULL DEFAULT 100,
        created_at      TEXT    NOT NULL,
        updated_at      TEXT    NOT NULL
    );

    CREATE TABLE IF NOT EXISTS audit_log (
        id          INTEGER PRIMARY KEY AUTOINCREMENT,
        timestamp   TEXT    NOT NULL,
        trace_id    TEXT    NOT NULL DEFAULT '',
        entity_type TEXT    NOT NULL,
        entity_id   TEXT    NOT NULL,
        action      TEXT    NOT NULL,
        user_name   TEXT    NOT NULL DEFAULT '',
        old_values  TEXT    NOT NULL DEFAULT '{}',
        new_values  TEXT    NOT NULL DEFAULT '{}'
    );
    CREATE INDEX IF NOT EXISTS idx_audit_log_timestamp ON audit_log(timestamp);
    CREATE INDEX IF NOT EXISTS idx_audit_log_entity ON audit_log(entity_type, entity_id);
    CREATE INDEX IF NOT EXISTS idx_audit_log_user ON audit_log(user_name);
    CREATE INDEX IF NOT EXISTS idx_audit_log_trace ON audit_log(trace_id);
`

// seedPermissions lists the permissions every database starts with.
var seedPermissions = []struct {
	Name        string
	Description string
}{
	{"users.manage", "Create, edit and delete users and their role assignments"},
	{"roles.manage", "Create and delete roles and grant permissions"},
	{"flags.manage", "Create, edit, toggle and delete feature flags"},
	{"audit.read", "Browse the audit log"},
	{"audit.prune", "Delete old audit log entries"},
}

// Migrate creates all tables and seeds the permissions and the admin role.
// It is safe to run on every start.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("database: migration failed: %w", err)
	}

	return WithTx(ctx, db, func(tx *sql.Tx) error {
		for _, p := range seedPermissions {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO permissions (name, description) VALUES (?, ?)`,
				p.Name, p.Description,
			); err != nil {
				return fmt.Errorf("database: seed permission %s: %w", p.Name, err)
			}
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO roles (name, description, created_at)
             VALUES ('admin', 'Full access', strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))`,
		); err != nil {
			return fmt.Errorf("database: seed admin role: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
            INSERT OR IGNORE INTO role_permissions (role_id, permission_id)
            SELECT r.id, p.id FROM roles r CROSS JOIN permissions p
            WHERE r.name = 'admin'`,
		); err != nil {
			return fmt.Errorf("database: seed admin permissions: %w", err)
		}
		return nil
	})
}
