// Package admin implements the flagadmin use cases. Every mutation runs in
// a single transaction that checks the operator's permission, applies the
// change and writes its audit rows.
package admin

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"nathanbeddoewebdev/flagadmin/internal/audit"
	"nathanbeddoewebdev/flagadmin/internal/database"
	"nathanbeddoewebdev/flagadmin/internal/domain"
	"nathanbeddoewebdev/flagadmin/internal/store"
	"nathanbeddoewebdev/flagadmin/internal/tracking"
)

// Service wires the store and the audit recorder together.
type Service struct {
	db       *sql.DB
	recorder *tracking.Recorder
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the timestamp source used for created/updated times.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new admin service.
func NewService(db *sql.DB, recorder *tracking.Recorder, opts ...Option) *Service {
	s := &Service{
		db:       db,
		recorder: recorder,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close releases database resources.
func (s *Service) Close() error {
	return s.db.Close()
}

func (s *Service) timestamp() time.Time {
	return s.now().UTC()
}

// txScope carries the state of one mutation.
type txScope struct {
	ctx      context.Context
	tx       *sql.Tx
	q        *store.Queries
	recorder *tracking.Recorder
}

func (t *txScope) record(kind audit.ChangeKind, before, after audit.Trackable) error {
	_, err := t.recorder.Record(t.ctx, t.tx, kind, before, after)
	return err
}

// mutate runs fn in a transaction after checking that the operator holds
// permission. An empty permission skips the check.
func (s *Service) mutate(ctx context.Context, permission string, fn func(t *txScope) error) error {
	ctx = tracking.WithTrace(ctx)
	return database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		t := &txScope{ctx: ctx, tx: tx, q: store.New(tx), recorder: s.recorder}
		if permission != "" {
			if err := authorize(ctx, t.q, permission); err != nil {
				return err
			}
		}
		return fn(t)
	})
}

// authorize checks that the operator on ctx holds permission.
func authorize(ctx context.Context, q *store.Queries, permission string) error {
	operator := tracking.OperatorFromContext(ctx)
	if operator == "" {
		return fmt.Errorf("no operator logged in: %w", domain.ErrUnauthorized)
	}
	ok, err := q.UserHasPermission(ctx, operator, permission)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s lacks permission %s: %w", operator, permission, domain.ErrForbidden)
	}
	return nil
}

// Authorize reports whether the operator on ctx holds permission.
func (s *Service) Authorize(ctx context.Context, permission string) error {
	return authorize(ctx, store.New(s.db), permission)
}

func (s *Service) queries() *store.Queries {
	return store.New(s.db)
}
