package schemalogic

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sebdah/goldie/v2"

	"github.com/speakeasy-api/schemalogic/logic"
)

func TestToDNFGolden(t *testing.T) {
	tests := []struct {
		name   string
		schema any
	}{
		{"oneof_number_boolean", obj{"oneOf": []any{obj{"type": "number"}, obj{"type": "boolean"}}}},
		{"nullable_string", obj{"type": "string", "nullable": true}},
		{"enum_duplicates", obj{"enum": []any{"a", "b", "a"}}},
		{"inverted_range", obj{"type": "number", "minimum": 2.0, "maximum": 1.0}},
		{"anything", obj{"description": "no constraints"}},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/dnf"),
		goldie.WithNameSuffix(".golden.json"),
	)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToDNF(tt.schema)
			if err != nil {
				t.Fatalf("ToDNF failed: %v", err)
			}
			data, err := json.MarshalIndent(got, "", "  ")
			if err != nil {
				t.Fatalf("failed to marshal DNF: %v", err)
			}
			g.Assert(t, tt.name, append(data, '\n'))
		})
	}
}

func TestToDNFUnconstrainedTypesMerge(t *testing.T) {
	// minimum only constrains numbers; every other type stays whole.
	got, err := ToDNF(obj{"minimum": 5.0})
	if err != nil {
		t.Fatalf("ToDNF failed: %v", err)
	}
	want := obj{"anyOf": []any{
		obj{"type": []any{"null", "string", "boolean", "array", "object"}},
		obj{"type": "number", "minimum": 5.0},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ToDNF() mismatch (-want +got):\n%s", diff)
	}
}

func TestToDNFIsIdempotent(t *testing.T) {
	for _, schema := range []any{
		obj{"oneOf": []any{obj{"type": "number"}, obj{"type": "boolean"}}},
		obj{"type": []any{"string", "null"}, "minLength": 2.0},
		obj{"not": obj{"type": "object"}},
	} {
		once, err := ToDNF(schema)
		if err != nil {
			t.Fatalf("ToDNF failed: %v", err)
		}
		twice, err := ToDNF(once)
		if err != nil {
			t.Fatalf("ToDNF of DNF failed: %v", err)
		}
		if diff := cmp.Diff(once, twice); diff != "" {
			t.Errorf("ToDNF(ToDNF(%v)) mismatch (-once +twice):\n%s", schema, diff)
		}

		pairs := []struct {
			what string
			a, b any
		}{
			{"DNF of input", schema, once},
			{"double negation", schema, obj{"not": obj{"not": schema}}},
			{"double negation of DNF", once, obj{"not": obj{"not": once}}},
		}
		for _, p := range pairs {
			eq, err := SchemasAreEquivalent(p.a, p.b)
			if err != nil {
				t.Fatalf("SchemasAreEquivalent failed: %v", err)
			}
			if eq != logic.True {
				t.Errorf("%s of %v: SchemasAreEquivalent() = %s, want true", p.what, schema, eq)
			}
		}
	}
}
