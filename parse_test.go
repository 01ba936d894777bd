package schemalogic

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseSchema(t *testing.T) {
	want := obj{
		"type":     "object",
		"required": []any{"id"},
		"properties": obj{
			"id":   obj{"type": "integer", "minimum": 1.0},
			"tags": obj{"type": "array", "maxItems": 3.5},
			"note": obj{"type": []any{"string", "null"}, "default": nil},
			"flag": obj{"const": true},
		},
	}

	tests := []struct {
		name string
		data string
	}{
		{"json", `{
  "type": "object",
  "required": ["id"],
  "properties": {
    "id": {"type": "integer", "minimum": 1},
    "tags": {"type": "array", "maxItems": 3.5},
    "note": {"type": ["string", "null"], "default": null},
    "flag": {"const": true}
  }
}`},
		{"yaml", strings.Join([]string{
			"type: object",
			"required: [id]",
			"properties:",
			"  id: {type: integer, minimum: 1}",
			"  tags:",
			"    type: array",
			"    maxItems: 3.5",
			"  note:",
			"    type: [string, 'null']",
			"    default: ~",
			"  flag: {const: true}",
		}, "\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSchema([]byte(tt.data))
			if err != nil {
				t.Fatalf("ParseSchema failed: %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("ParseSchema() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseSchemaBoolean(t *testing.T) {
	got, err := ParseSchema([]byte("false"))
	if err != nil {
		t.Fatalf("ParseSchema failed: %v", err)
	}
	if got != false {
		t.Errorf("ParseSchema() = %v, want false", got)
	}
}

func TestParseSchemaErrors(t *testing.T) {
	for _, data := range []string{"", "{a: [}", "? [a]\n: b\n"} {
		if _, err := ParseSchema([]byte(data)); err == nil {
			t.Errorf("ParseSchema(%q) succeeded, want error", data)
		}
	}
}

func TestNormalize(t *testing.T) {
	var decoded any
	dec := json.NewDecoder(strings.NewReader(`{"minimum": 5, "enum": [1, "a"]}`))
	dec.UseNumber()
	if err := dec.Decode(&decoded); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	got := Normalize(decoded)
	want := obj{"minimum": 5.0, "enum": []any{1.0, "a"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(obj{"n": 3.0}, Normalize(map[any]any{"n": 3})); diff != "" {
		t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
	}
}
