// Package store runs the relational queries behind users, roles,
// permissions and feature flags.
//
// Queries bind to a database.DBTX, so the same methods serve plain reads
// on the pool and writes inside a transaction:
//
//	err := database.WithTx(ctx, db, func(tx *sql.Tx) error {
//		return store.New(tx).UpdateFlag(ctx, flag)
//	})
package store

import (
	"database/sql"
	"errors"
	"fmt"

	"nathanbeddoewebdev/flagadmin/internal/database"
	"nathanbeddoewebdev/flagadmin/internal/domain"
)

// Queries wraps a connection or transaction.
type Queries struct {
	db database.DBTX
}

// New returns Queries bound to db.
func New(db database.DBTX) *Queries {
	return &Queries{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

// wrapErr maps driver errors onto domain sentinels.
func wrapErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("store: %s: %w", op, domain.ErrNotFound)
	case database.IsUniqueViolation(err):
		return fmt.Errorf("store: %s: %w", op, domain.ErrConflict)
	default:
		return fmt.Errorf("store: %s: %w", op, err)
	}
}

// requireAffected returns ErrNotFound when res reports no affected rows.
func requireAffected(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return wrapErr(op, err)
	}
	if n == 0 {
		return fmt.Errorf("store: %s: %w", op, domain.ErrNotFound)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
