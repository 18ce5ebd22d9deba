package auditlog

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FieldDiff describes one field whose audited value changed.
type FieldDiff struct {
	Field string `json:"field"`
	Old   string `json:"old,omitempty"`
	New   string `json:"new,omitempty"`
}

// Diff lists the fields that differ between the entry's old and new
// values. Fields appear in the order of the new values, followed by
// fields only present in the old values.
func Diff(entry AuditEntry) ([]FieldDiff, error) {
	oldFields, err := decodeOrdered(entry.OldValues)
	if err != nil {
		return nil, fmt.Errorf("auditlog: entry %d old values: %w", entry.ID, err)
	}
	newFields, err := decodeOrdered(entry.NewValues)
	if err != nil {
		return nil, fmt.Errorf("auditlog: entry %d new values: %w", entry.ID, err)
	}

	oldByName := make(map[string]string, len(oldFields))
	for _, f := range oldFields {
		oldByName[f.name] = f.raw
	}
	newByName := make(map[string]bool, len(newFields))

	var diffs []FieldDiff
	for _, f := range newFields {
		newByName[f.name] = true
		old, ok := oldByName[f.name]
		if ok && old == f.raw && entry.Action == "update" {
			continue
		}
		d := FieldDiff{Field: f.name, New: f.raw}
		if entry.Action != "insert" {
			d.Old = old
		}
		if entry.Action == "delete" {
			d.New = ""
		}
		diffs = append(diffs, d)
	}
	for _, f := range oldFields {
		if !newByName[f.name] {
			diffs = append(diffs, FieldDiff{Field: f.name, Old: f.raw})
		}
	}
	return diffs, nil
}

type orderedField struct {
	name string
	raw  string
}

// decodeOrdered reads a flat JSON object, keeping key order and the
// compact encoding of each value.
func decodeOrdered(s string) ([]orderedField, error) {
	if s == "" {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected JSON object")
	}

	var fields []orderedField
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key")
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		var compact bytes.Buffer
		if err := json.Compact(&compact, raw); err != nil {
			return nil, err
		}
		fields = append(fields, orderedField{name: name, raw: compact.String()})
	}
	return fields, nil
}
