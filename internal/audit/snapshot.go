// Package audit builds the key and JSON snapshots written to the audit log
// for every tracked entity change.
//
// The builder is pure: it never touches the database or the change tracker.
// Callers hand it a flat, ordered list of PropertyChange values with the
// key and audited flags already resolved from an EntitySchema.
package audit

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// PropertyChange is one column of a tracked entity, carrying both its
// pre-change and post-change value.
type PropertyChange struct {
	Name     string
	Current  any
	Original any
	IsKey    bool
	Audited  bool
}

var (
	// ErrNoPrimaryKey is returned by PrimaryKey when no property is flagged
	// as the key.
	ErrNoPrimaryKey = errors.New("audit: no primary key property found")

	// ErrCompositeKey is returned by PrimaryKey when more than one property
	// is flagged as the key.
	ErrCompositeKey = errors.New("audit: composite primary keys are not supported")

	// ErrEmptyProperty is wrapped in a SerializationError when an audited
	// property has no name. Property is then the property's position.
	ErrEmptyProperty = errors.New("audit: property name must not be empty")
)

// SerializationError reports a property whose value cannot be encoded as JSON.
type SerializationError struct {
	Property string
	Err      error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("audit: cannot serialize property %q: %v", e.Property, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// PrimaryKey returns the current value of the property flagged as key.
// Entities with more than one key property are rejected with ErrCompositeKey.
func PrimaryKey(props []PropertyChange) (any, error) {
	var (
		key   any
		found bool
	)
	for _, p := range props {
		if !p.IsKey {
			continue
		}
		if found {
			return nil, ErrCompositeKey
		}
		key, found = p.Current, true
	}
	if !found {
		return nil, ErrNoPrimaryKey
	}
	return key, nil
}

// ToJSON renders the audited properties as a JSON object whose keys keep
// the order of props. When useCurrent is false the original values are
// rendered instead. An empty selection renders as "{}".
func ToJSON(props []PropertyChange, useCurrent bool) (string, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	n := 0
	for i, p := range props {
		if !p.Audited {
			continue
		}
		if p.Name == "" {
			return "", &SerializationError{Property: fmt.Sprintf("#%d", i), Err: ErrEmptyProperty}
		}

		value := p.Current
		if !useCurrent {
			value = p.Original
		}

		name, err := json.Marshal(p.Name)
		if err != nil {
			return "", &SerializationError{Property: p.Name, Err: err}
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return "", &SerializationError{Property: p.Name, Err: err}
		}

		if n > 0 {
			buf.WriteByte(',')
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(encoded)
		n++
	}

	buf.WriteByte('}')
	return buf.String(), nil
}

// Snapshot renders the original and current JSON images of props.
func Snapshot(props []PropertyChange) (oldJSON, newJSON string, err error) {
	oldJSON, err = ToJSON(props, false)
	if err != nil {
		return "", "", err
	}
	newJSON, err = ToJSON(props, true)
	if err != nil {
		return "", "", err
	}
	return oldJSON, newJSON, nil
}
