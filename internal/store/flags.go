package store

import (
	"context"

	"nathanbeddoewebdev/flagadmin/internal/database"
	"nathanbeddoewebdev/flagadmin/internal/domain"
)

const flagColumns = `id, flag_key, name, description, enabled, rollout_percent, created_at, updated_at`

// InsertFlag inserts f and assigns its ID.
func (q *Queries) InsertFlag(ctx context.Context, f *domain.FeatureFlag) error {
	res, err := q.db.ExecContext(ctx, `
        INSERT INTO feature_flags (flag_key, name, description, enabled, rollout_percent, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.Key, f.Name, f.Description, boolToInt(f.Enabled), f.RolloutPercent,
		database.FormatTime(f.CreatedAt), database.FormatTime(f.UpdatedAt),
	)
	if err != nil {
		return wrapErr("insert flag", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return wrapErr("insert flag", err)
	}
	f.ID = id
	return nil
}

// UpdateFlag overwrites every mutable column of f.
func (q *Queries) UpdateFlag(ctx context.Context, f *domain.FeatureFlag) error {
	res, err := q.db.ExecContext(ctx, `
        UPDATE feature_flags SET name = ?, description = ?, enabled = ?, rollout_percent = ?, updated_at = ?
        WHERE id = ?`,
		f.Name, f.Description, boolToInt(f.Enabled), f.RolloutPercent,
		database.FormatTime(f.UpdatedAt), f.ID,
	)
	if err != nil {
		return wrapErr("update flag", err)
	}
	return requireAffected("update flag", res)
}

// DeleteFlag removes the flag with the given ID.
func (q *Queries) DeleteFlag(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM feature_flags WHERE id = ?`, id)
	if err != nil {
		return wrapErr("delete flag", err)
	}
	return requireAffected("delete flag", res)
}

// GetFlagByKey returns the flag with the given key.
func (q *Queries) GetFlagByKey(ctx context.Context, key string) (*domain.FeatureFlag, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+flagColumns+` FROM feature_flags WHERE flag_key = ?`, key)
	f, err := scanFlag(row)
	if err != nil {
		return nil, wrapErr("get flag "+key, err)
	}
	return f, nil
}

// ListFlags returns flags ordered by key, optionally only enabled ones.
func (q *Queries) ListFlags(ctx context.Context, enabledOnly bool) ([]domain.FeatureFlag, error) {
	query := `SELECT ` + flagColumns + ` FROM feature_flags`
	if enabledOnly {
		query += ` WHERE enabled = 1`
	}
	query += ` ORDER BY flag_key`

	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapErr("list flags", err)
	}
	defer rows.Close()

	var flags []domain.FeatureFlag
	for rows.Next() {
		f, err := scanFlag(rows)
		if err != nil {
			return nil, wrapErr("scan flag", err)
		}
		flags = append(flags, *f)
	}
	return flags, wrapErr("list flags", rows.Err())
}

// CountFlags returns the total and enabled flag counts.
func (q *Queries) CountFlags(ctx context.Context) (total, enabled int, err error) {
	err = q.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(enabled), 0) FROM feature_flags`,
	).Scan(&total, &enabled)
	return total, enabled, wrapErr("count flags", err)
}

func scanFlag(s scanner) (*domain.FeatureFlag, error) {
	var f domain.FeatureFlag
	var enabled int
	var createdStr, updatedStr string
	err := s.Scan(&f.ID, &f.Key, &f.Name, &f.Description, &enabled, &f.RolloutPercent,
		&createdStr, &updatedStr)
	if err != nil {
		return nil, err
	}
	f.Enabled = enabled != 0
	f.CreatedAt = database.ParseTime(createdStr)
	f.UpdatedAt = database.ParseTime(updatedStr)
	return &f, nil
}
