package audit

import (
	"fmt"
	"slices"
	"sync"
)

// ChangeKind identifies the kind of change applied to a tracked entity.
type ChangeKind string

const (
	Insert ChangeKind = "insert"
	Update ChangeKind = "update"
	Delete ChangeKind = "delete"
)

// Valid reports whether k is one of the known change kinds.
func (k ChangeKind) Valid() bool {
	switch k {
	case Insert, Update, Delete:
		return true
	}
	return false
}

// Field is one named value of an entity snapshot.
type Field struct {
	Name  string
	Value any
}

// Trackable is implemented by entities whose changes are audited.
// AuditFields must return the fields in a stable order.
type Trackable interface {
	AuditType() string
	AuditFields() []Field
}

// EntitySchema holds the static audit metadata for one entity type.
type EntitySchema struct {
	// Type is the entity type name written to the audit log.
	Type string

	// Key is the name of the single key field.
	Key string

	// NoAudit lists fields excluded from the JSON snapshots.
	NoAudit []string
}

// Changes pairs the original and current field lists into PropertyChange
// values. A nil original describes an insert and a nil current a delete.
func (s EntitySchema) Changes(original, current []Field) ([]PropertyChange, error) {
	if original == nil && current == nil {
		return nil, fmt.Errorf("audit: %s: no field values to compare", s.Type)
	}

	before, err := index(s.Type, original)
	if err != nil {
		return nil, err
	}

	fields := current
	if fields == nil {
		fields = original
	} else if _, err := index(s.Type, current); err != nil {
		return nil, err
	}

	props := make([]PropertyChange, 0, len(fields))
	for _, f := range fields {
		p := PropertyChange{
			Name:     f.Name,
			Current:  f.Value,
			Original: f.Value,
			IsKey:    f.Name == s.Key,
			Audited:  !slices.Contains(s.NoAudit, f.Name),
		}
		if current != nil && original != nil {
			p.Original = before[f.Name]
		}
		props = append(props, p)
	}
	return props, nil
}

func index(entityType string, fields []Field) (map[string]any, error) {
	m := make(map[string]any, len(fields))
	for _, f := range fields {
		if _, dup := m[f.Name]; dup {
			return nil, fmt.Errorf("audit: %s: duplicate field %q", entityType, f.Name)
		}
		m[f.Name] = f.Value
	}
	return m, nil
}

// Registry maps entity types to their schemas.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]EntitySchema
}

// NewRegistry returns a registry holding the given schemas.
func NewRegistry(schemas ...EntitySchema) (*Registry, error) {
	r := &Registry{schemas: make(map[string]EntitySchema, len(schemas))}
	for _, s := range schemas {
		if err := r.Register(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a schema. Each entity type may be registered once.
func (r *Registry) Register(s EntitySchema) error {
	if s.Type == "" {
		return fmt.Errorf("audit: schema type must not be empty")
	}
	if s.Key == "" {
		return fmt.Errorf("audit: %s: %w", s.Type, ErrNoPrimaryKey)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.schemas == nil {
		r.schemas = make(map[string]EntitySchema)
	}
	if _, exists := r.schemas[s.Type]; exists {
		return fmt.Errorf("audit: schema %q already registered", s.Type)
	}
	r.schemas[s.Type] = s
	return nil
}

// Lookup returns the schema registered for entityType.
func (r *Registry) Lookup(entityType string) (EntitySchema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[entityType]
	return s, ok
}

// Types returns the registered entity types, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.schemas))
	for t := range r.schemas {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

// Changes builds the property list for a change of the given kind. before
// must be nil for inserts and after must be nil for deletes.
func (r *Registry) Changes(kind ChangeKind, before, after Trackable) (string, []PropertyChange, error) {
	var subject Trackable
	switch kind {
	case Insert:
		if before != nil || after == nil {
			return "", nil, fmt.Errorf("audit: insert requires only the new entity")
		}
		subject = after
	case Delete:
		if before == nil || after != nil {
			return "", nil, fmt.Errorf("audit: delete requires only the old entity")
		}
		subject = before
	case Update:
		if before == nil || after == nil {
			return "", nil, fmt.Errorf("audit: update requires both entities")
		}
		if before.AuditType() != after.AuditType() {
			return "", nil, fmt.Errorf("audit: cannot compare %s with %s", before.AuditType(), after.AuditType())
		}
		subject = after
	default:
		return "", nil, fmt.Errorf("audit: unknown change kind %q", kind)
	}

	entityType := subject.AuditType()
	schema, ok := r.Lookup(entityType)
	if !ok {
		return "", nil, fmt.Errorf("audit: no schema registered for %q", entityType)
	}

	var original, current []Field
	if before != nil {
		original = before.AuditFields()
	}
	if after != nil {
		current = after.AuditFields()
	}
	props, err := schema.Changes(original, current)
	if err != nil {
		return "", nil, err
	}
	return entityType, props, nil
}
