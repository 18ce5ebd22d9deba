package auditlog

import "context"

// Metadata identifies who made a change and which commit it belongs to.
type Metadata struct {
	Operator string
	TraceID  string
}

type metadataKey struct{}

// WithMetadata attaches audit metadata to a context. Empty fields keep the
// value already present on ctx.
func WithMetadata(ctx context.Context, meta Metadata) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	existing, _ := ctx.Value(metadataKey{}).(Metadata)
	merged := Metadata{
		Operator: pick(meta.Operator, existing.Operator),
		TraceID:  pick(meta.TraceID, existing.TraceID),
	}
	return context.WithValue(ctx, metadataKey{}, merged)
}

// MetadataFromContext returns audit metadata stored in the context.
func MetadataFromContext(ctx context.Context) Metadata {
	if ctx == nil {
		return Metadata{}
	}
	meta, _ := ctx.Value(metadataKey{}).(Metadata)
	return meta
}

func pick(next, fallback string) string {
	if next != "" {
		return next
	}
	return fallback
}
