// Package tracking turns entity changes into audit log rows written in the
// same transaction as the change.
package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"nathanbeddoewebdev/flagadmin/internal/audit"
	"nathanbeddoewebdev/flagadmin/internal/auditlog"
	"nathanbeddoewebdev/flagadmin/internal/database"

	"github.com/google/uuid"
)

// Recorder builds audit snapshots for tracked entities and persists them.
type Recorder struct {
	registry *audit.Registry
	logger   *log.Logger
	now      func() time.Time
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithLogger sets the logger used to report snapshots that could not be
// serialized.
func WithLogger(l *log.Logger) Option {
	return func(r *Recorder) { r.logger = l }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) { r.now = now }
}

// NewRecorder returns a Recorder for the entity types in registry.
func NewRecorder(registry *audit.Registry, opts ...Option) *Recorder {
	r := &Recorder{
		registry: registry,
		logger:   log.New(io.Discard, "", 0),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record writes one audit row for a change of the given kind. before is nil
// for inserts and after is nil for deletes.
//
// A missing or composite primary key is a schema defect and fails the
// caller's transaction. A value that cannot be serialized does not: the
// affected snapshot is replaced with a placeholder and the failure logged.
func (r *Recorder) Record(ctx context.Context, db database.DBTX, kind audit.ChangeKind, before, after audit.Trackable) (*auditlog.AuditEntry, error) {
	entityType, props, err := r.registry.Changes(kind, before, after)
	if err != nil {
		return nil, fmt.Errorf("tracking: %w", err)
	}

	key, err := audit.PrimaryKey(props)
	if err != nil {
		return nil, fmt.Errorf("tracking: %s: %w", entityType, err)
	}
	entityID := fmt.Sprint(key)

	oldValues := r.snapshot(entityType, entityID, props, false)
	newValues := r.snapshot(entityType, entityID, props, true)

	meta := auditlog.MetadataFromContext(ctx)
	entry := &auditlog.AuditEntry{
		Timestamp:  r.now().UTC(),
		TraceID:    meta.TraceID,
		EntityType: entityType,
		EntityID:   entityID,
		Action:     string(kind),
		UserName:   meta.Operator,
		OldValues:  oldValues,
		NewValues:  newValues,
	}
	if entry.TraceID == "" {
		entry.TraceID = uuid.NewString()
	}

	if err := auditlog.NewRepository(db).Save(ctx, entry); err != nil {
		return nil, fmt.Errorf("tracking: %w", err)
	}
	return entry, nil
}

func (r *Recorder) snapshot(entityType, entityID string, props []audit.PropertyChange, useCurrent bool) string {
	s, err := audit.ToJSON(props, useCurrent)
	if err == nil {
		return s
	}

	var serr *audit.SerializationError
	if !errors.As(err, &serr) {
		serr = &audit.SerializationError{Err: err}
	}
	r.logger.Printf("audit snapshot for %s %s failed: %v", entityType, entityID, serr)
	return Placeholder(serr)
}

// Placeholder is the snapshot stored in place of one that failed to
// serialize.
func Placeholder(err error) string {
	msg, _ := json.Marshal(err.Error())
	return `{"_error":` + string(msg) + `}`
}

// WithTrace returns ctx carrying a fresh trace ID unless one is already set,
// so every row written under it shares the ID.
func WithTrace(ctx context.Context) context.Context {
	if auditlog.MetadataFromContext(ctx).TraceID != "" {
		return ctx
	}
	return auditlog.WithMetadata(ctx, auditlog.Metadata{TraceID: uuid.NewString()})
}

// WithOperator returns ctx carrying the name of the acting user.
func WithOperator(ctx context.Context, operator string) context.Context {
	return auditlog.WithMetadata(ctx, auditlog.Metadata{Operator: operator})
}

// OperatorFromContext returns the acting user's name, or "" when unset.
func OperatorFromContext(ctx context.Context) string {
	return auditlog.MetadataFromContext(ctx).Operator
}
