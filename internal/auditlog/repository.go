package auditlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"nathanbeddoewebdev/flagadmin/internal/database"
	"nathanbeddoewebdev/flagadmin/internal/domain"
)

// Repository reads and writes the audit_log table. It runs on either a
// *sql.DB or a *sql.Tx, so entries can be written in the same transaction
// as the change they describe.
type Repository struct {
	db database.DBTX
}

// NewRepository returns a repository bound to db.
func NewRepository(db database.DBTX) *Repository {
	return &Repository{db: db}
}

const selectColumns = `
    SELECT id, timestamp, trace_id, entity_type, entity_id, action, user_name, old_values, new_values
    FROM audit_log`

// Save inserts a new audit entry, assigning its ID and, when unset, its
// timestamp.
func (r *Repository) Save(ctx context.Context, entry *AuditEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx, `
        INSERT INTO audit_log (timestamp, trace_id, entity_type, entity_id, action, user_name, old_values, new_values)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		database.FormatTime(entry.Timestamp), entry.TraceID, entry.EntityType, entry.EntityID,
		entry.Action, entry.UserName, entry.OldValues, entry.NewValues,
	)
	if err != nil {
		return fmt.Errorf("auditlog: insert failed: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("auditlog: failed to get last insert ID: %w", err)
	}
	entry.ID = id
	return nil
}

// Get returns the entry with the given ID.
func (r *Repository) Get(ctx context.Context, id int64) (*AuditEntry, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("auditlog: entry %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("auditlog: query failed: %w", err)
	}
	return &entry, nil
}

// List returns entries matching f, newest first.
func (r *Repository) List(ctx context.Context, f Filter) ([]AuditEntry, error) {
	var (
		where []string
		args  []any
	)
	add := func(clause string, v any) {
		where = append(where, clause)
		args = append(args, v)
	}
	if f.EntityType != "" {
		add("entity_type = ?", f.EntityType)
	}
	if f.EntityID != "" {
		add("entity_id = ?", f.EntityID)
	}
	if f.UserName != "" {
		add("user_name = ?", f.UserName)
	}
	if f.Action != "" {
		add("action = ?", f.Action)
	}
	if f.TraceID != "" {
		add("trace_id = ?", f.TraceID)
	}
	if !f.Since.IsZero() {
		add("timestamp >= ?", database.FormatTime(f.Since))
	}

	query := selectColumns
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY timestamp DESC, id DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("auditlog: query failed: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("auditlog: scan failed: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Prune deletes entries older than the given duration. olderThan must be
// positive.
func (r *Repository) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, fmt.Errorf("auditlog: prune age must be positive, got %v: %w", olderThan, domain.ErrInvalid)
	}
	cutoff := database.FormatTime(time.Now().Add(-olderThan))
	result, err := r.db.ExecContext(ctx, `DELETE FROM audit_log WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("auditlog: delete failed: %w", err)
	}
	return result.RowsAffected()
}

// Count returns the number of entries recorded since the given time.
func (r *Repository) Count(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM audit_log WHERE timestamp >= ?`, database.FormatTime(since),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("auditlog: count failed: %w", err)
	}
	return n, nil
}

// CountByDay returns per-day entry counts since the given time, oldest
// day first. Days without entries are omitted.
func (r *Repository) CountByDay(ctx context.Context, since time.Time) ([]DayCount, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT substr(timestamp, 1, 10) AS day, COUNT(*)
        FROM audit_log WHERE timestamp >= ?
        GROUP BY day ORDER BY day`, database.FormatTime(since))
	if err != nil {
		return nil, fmt.Errorf("auditlog: query failed: %w", err)
	}
	defer rows.Close()

	var counts []DayCount
	for rows.Next() {
		var c DayCount
		if err := rows.Scan(&c.Day, &c.Count); err != nil {
			return nil, fmt.Errorf("auditlog: scan failed: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// CountByEntityType returns entry counts per entity type since the given
// time, largest first.
func (r *Repository) CountByEntityType(ctx context.Context, since time.Time) ([]TypeCount, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT entity_type, COUNT(*) AS n
        FROM audit_log WHERE timestamp >= ?
        GROUP BY entity_type ORDER BY n DESC, entity_type`, database.FormatTime(since))
	if err != nil {
		return nil, fmt.Errorf("auditlog: query failed: %w", err)
	}
	defer rows.Close()

	var counts []TypeCount
	for rows.Next() {
		var c TypeCount
		if err := rows.Scan(&c.EntityType, &c.Count); err != nil {
			return nil, fmt.Errorf("auditlog: scan failed: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (AuditEntry, error) {
	var entry AuditEntry
	var timestampStr string
	err := s.Scan(
		&entry.ID, &timestampStr, &entry.TraceID, &entry.EntityType, &entry.EntityID,
		&entry.Action, &entry.UserName, &entry.OldValues, &entry.NewValues,
	)
	if err != nil {
		return AuditEntry{}, err
	}
	entry.Timestamp = database.ParseTime(timestampStr)
	return entry, nil
}
