package audit

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestPrimaryKey(t *testing.T) {
	tests := []struct {
		name    string
		props   []PropertyChange
		want    any
		wantErr error
	}{
		{
			name: "single key",
			props: []PropertyChange{
				{Name: "ID", Current: 5, Original: 5, IsKey: true, Audited: true},
				{Name: "Name", Current: "x", Original: "y", Audited: true},
			},
			want: 5,
		},
		{
			name: "key not audited",
			props: []PropertyChange{
				{Name: "Name", Current: "x", Audited: true},
				{Name: "Code", Current: "A1", IsKey: true},
			},
			want: "A1",
		},
		{
			name: "key changed returns current",
			props: []PropertyChange{
				{Name: "ID", Current: 9, Original: 3, IsKey: true},
			},
			want: 9,
		},
		{
			name:    "no key",
			props:   []PropertyChange{{Name: "Name", Current: "x", Audited: true}},
			wantErr: ErrNoPrimaryKey,
		},
		{
			name:    "empty",
			props:   nil,
			wantErr: ErrNoPrimaryKey,
		},
		{
			name: "composite",
			props: []PropertyChange{
				{Name: "RoleID", Current: 1, IsKey: true},
				{Name: "PermissionID", Current: 2, IsKey: true},
			},
			wantErr: ErrCompositeKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PrimaryKey(tt.props)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("PrimaryKey() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("PrimaryKey() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("PrimaryKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToJSON_CurrentAndOriginal(t *testing.T) {
	props := []PropertyChange{
		{Name: "Id", Current: 5, Original: 5, IsKey: true, Audited: true},
		{Name: "Name", Current: "TestName", Original: "OldName", Audited: true},
		{Name: "Value", Current: 42, Original: 41, Audited: true},
	}

	got, err := ToJSON(props, true)
	if err != nil {
		t.Fatalf("ToJSON(current) error: %v", err)
	}
	if want := `{"Id":5,"Name":"TestName","Value":42}`; got != want {
		t.Errorf("ToJSON(current) = %s, want %s", got, want)
	}

	got, err = ToJSON(props, false)
	if err != nil {
		t.Fatalf("ToJSON(original) error: %v", err)
	}
	if want := `{"Id":5,"Name":"OldName","Value":41}`; got != want {
		t.Errorf("ToJSON(original) = %s, want %s", got, want)
	}
}

func TestToJSON_ExcludesUnaudited(t *testing.T) {
	props := []PropertyChange{
		{Name: "Id", Current: 1, IsKey: true, Audited: true},
		{Name: "PasswordHash", Current: "$2a$10$secret", Audited: false},
		{Name: "Email", Current: "a@example.com", Audited: true},
	}

	got, err := ToJSON(props, true)
	if err != nil {
		t.Fatalf("ToJSON error: %v", err)
	}
	if strings.Contains(got, "PasswordHash") || strings.Contains(got, "secret") {
		t.Errorf("ToJSON leaked excluded property: %s", got)
	}
	if want := `{"Id":1,"Email":"a@example.com"}`; got != want {
		t.Errorf("ToJSON = %s, want %s", got, want)
	}
}

func TestToJSON_Empty(t *testing.T) {
	tests := []struct {
		name  string
		props []PropertyChange
	}{
		{name: "nil", props: nil},
		{name: "empty", props: []PropertyChange{}},
		{name: "all excluded", props: []PropertyChange{
			{Name: "Secret", Current: "s", Original: "t"},
			{Name: "Token", Current: "u"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, useCurrent := range []bool{true, false} {
				got, err := ToJSON(tt.props, useCurrent)
				if err != nil {
					t.Fatalf("ToJSON error: %v", err)
				}
				if got != "{}" {
					t.Errorf("ToJSON(%v) = %q, want {}", useCurrent, got)
				}
			}
		})
	}
}

func TestToJSON_PreservesOrder(t *testing.T) {
	names := []string{"Zeta", "Alpha", "Mid", "Beta"}
	props := make([]PropertyChange, len(names))
	for i, n := range names {
		props[i] = PropertyChange{Name: n, Current: i, Audited: true}
	}

	got, err := ToJSON(props, true)
	if err != nil {
		t.Fatalf("ToJSON error: %v", err)
	}
	if want := `{"Zeta":0,"Alpha":1,"Mid":2,"Beta":3}`; got != want {
		t.Errorf("ToJSON = %s, want %s", got, want)
	}
}

func TestToJSON_ValueTypes(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	props := []PropertyChange{
		{Name: "Null", Current: nil, Audited: true},
		{Name: "Bool", Current: true, Audited: true},
		{Name: "Float", Current: 0.5, Audited: true},
		{Name: "Text", Current: `quote " and \ slash`, Audited: true},
		{Name: "At", Current: ts, Audited: true},
	}

	got, err := ToJSON(props, true)
	if err != nil {
		t.Fatalf("ToJSON error: %v", err)
	}
	want := `{"Null":null,"Bool":true,"Float":0.5,"Text":"quote \" and \\ slash","At":"2024-03-01T12:30:00Z"}`
	if got != want {
		t.Errorf("ToJSON = %s, want %s", got, want)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(got), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
}

func TestToJSON_KeySetMatchesAudited(t *testing.T) {
	props := []PropertyChange{
		{Name: "ID", Current: 1, IsKey: true, Audited: true},
		{Name: "Key", Current: "beta", Audited: true},
		{Name: "Internal", Current: "x"},
		{Name: "Enabled", Current: false, Audited: true},
	}

	got, err := ToJSON(props, true)
	if err != nil {
		t.Fatalf("ToJSON error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(got), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	var keys []string
	for k := range decoded {
		keys = append(keys, k)
	}
	want := map[string]bool{"ID": true, "Key": true, "Enabled": true}
	if len(keys) != len(want) {
		t.Fatalf("got keys %v, want %v", keys, want)
	}
	for _, k := range keys {
		if !want[k] {
			t.Errorf("unexpected key %q", k)
		}
	}
}

func TestToJSON_Deterministic(t *testing.T) {
	props := []PropertyChange{
		{Name: "ID", Current: 7, IsKey: true, Audited: true},
		{Name: "Tags", Current: map[string]int{"b": 2, "a": 1}, Audited: true},
		{Name: "List", Current: []string{"x", "y"}, Audited: true},
	}

	first, err := ToJSON(props, true)
	if err != nil {
		t.Fatalf("ToJSON error: %v", err)
	}

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = ToJSON(props, true)
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		if r != first {
			t.Errorf("result %d = %s, want %s", i, r, first)
		}
	}
}

func TestToJSON_CurrentDiffersFromOriginal(t *testing.T) {
	tests := []struct {
		name     string
		props    []PropertyChange
		wantSame bool
	}{
		{
			name: "audited change",
			props: []PropertyChange{
				{Name: "ID", Current: 1, Original: 1, IsKey: true, Audited: true},
				{Name: "Enabled", Current: true, Original: false, Audited: true},
			},
		},
		{
			name: "only unaudited change",
			props: []PropertyChange{
				{Name: "ID", Current: 1, Original: 1, IsKey: true, Audited: true},
				{Name: "PasswordHash", Current: "new", Original: "old"},
			},
			wantSame: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldJSON, newJSON, err := Snapshot(tt.props)
			if err != nil {
				t.Fatalf("Snapshot error: %v", err)
			}
			if same := oldJSON == newJSON; same != tt.wantSame {
				t.Errorf("old %s, new %s: same = %v, want %v", oldJSON, newJSON, same, tt.wantSame)
			}
		})
	}
}

type node struct {
	Next *node
}

func TestToJSON_SerializationError(t *testing.T) {
	cyclic := &node{}
	cyclic.Next = cyclic

	tests := []struct {
		name  string
		value any
	}{
		{name: "channel", value: make(chan int)},
		{name: "func", value: func() {}},
		{name: "nan", value: math.NaN()},
		{name: "cycle", value: cyclic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			props := []PropertyChange{
				{Name: "ID", Current: 1, IsKey: true, Audited: true},
				{Name: "Bad", Current: tt.value, Original: tt.value, Audited: true},
			}
			_, err := ToJSON(props, true)
			var serr *SerializationError
			if !errors.As(err, &serr) {
				t.Fatalf("ToJSON error = %v, want *SerializationError", err)
			}
			if serr.Property != "Bad" {
				t.Errorf("Property = %q, want %q", serr.Property, "Bad")
			}
		})
	}
}

func TestToJSON_EmptyPropertyName(t *testing.T) {
	props := []PropertyChange{
		{Name: "ID", Current: 1, IsKey: true, Audited: true},
		{Name: "", Current: "x", Audited: true},
	}

	_, err := ToJSON(props, true)
	var serr *SerializationError
	if !errors.As(err, &serr) {
		t.Fatalf("ToJSON error = %v, want *SerializationError", err)
	}
	if !errors.Is(err, ErrEmptyProperty) {
		t.Errorf("ToJSON error = %v, want ErrEmptyProperty", err)
	}
	if serr.Property != "#1" {
		t.Errorf("Property = %q, want %q", serr.Property, "#1")
	}
}

func TestToJSON_UnauditedBadValueIgnored(t *testing.T) {
	props := []PropertyChange{
		{Name: "ID", Current: 1, IsKey: true, Audited: true},
		{Name: "Hook", Current: func() {}},
	}

	got, err := ToJSON(props, true)
	if err != nil {
		t.Fatalf("ToJSON error: %v", err)
	}
	if diff := cmp.Diff(`{"ID":1}`, got); diff != "" {
		t.Errorf("ToJSON mismatch (-want +got):\n%s", diff)
	}
}
