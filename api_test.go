package schemalogic

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/speakeasy-api/schemalogic/logic"
	"github.com/speakeasy-api/schemalogic/plugins"
)

type obj = map[string]any

var negZero = math.Copysign(0, -1)

type emptySetCase struct {
	name   string
	schema any
	want   logic.Tri
}

var emptySetCases = []emptySetCase{
	{"false", false, logic.True},
	{"true", true, logic.False},
	{"empty object", obj{}, logic.False},
	{"minimum alone leaves other types", obj{"minimum": 5.0}, logic.False},
	{"open number range", obj{"type": "number", "minimum": 5.0}, logic.Unknown},
	{"inverted number range", obj{"type": "number", "minimum": 2.0, "maximum": 1.0}, logic.True},
	{"disjoint types", obj{"allOf": []any{obj{"type": "string"}, obj{"type": "number"}}}, logic.True},
	{"const outside type", obj{"type": "string", "const": 5.0}, logic.True},
	{"const inside type", obj{"type": "number", "const": 5.0}, logic.False},
	{"const outside enum", obj{"const": "a", "enum": []any{"b"}}, logic.True},
	{"string lengths", obj{"type": "string", "minLength": 3.0, "maxLength": 1.0}, logic.True},
	{"empty string only", obj{"type": "string", "maxLength": 0.0}, logic.False},
	{"empty string rejected by pattern", obj{"type": "string", "maxLength": 0.0, "pattern": "^a"}, logic.True},
	{"not true", obj{"not": true}, logic.True},
	{"not of not", obj{"not": obj{"not": obj{"type": "number", "minimum": 2.0, "maximum": 1.0}}}, logic.True},
	{"boolean without both values", obj{"type": "boolean", "not": obj{"enum": []any{true, false}}}, logic.True},
	{"integer between consecutive bounds", obj{"type": "integer", "exclusiveMinimum": 1.0, "exclusiveMaximum": 2.0}, logic.True},
	{"if then else", obj{
		"type": "string",
		"if":   obj{"type": "string"},
		"then": false,
	}, logic.True},
	{"oneOf of overlapping branches", obj{
		"type":  "string",
		"oneOf": []any{obj{"type": "string"}, obj{"type": "string"}},
	}, logic.True},
	{"required but forbidden", obj{
		"type":       "object",
		"required":   []any{"a"},
		"properties": obj{"a": false},
	}, logic.True},
	{"ref to empty definition", obj{
		"$defs": obj{"never": false},
		"$ref":  "#/$defs/never",
	}, logic.True},
	{"zero and negative zero", obj{"allOf": []any{obj{"const": 0.0}, obj{"const": negZero}}}, logic.False},
	{"zero in enum of negative zero", obj{"const": 0.0, "enum": []any{negZero}}, logic.False},
	{"local ref inside embedded resource", obj{
		"$defs": obj{
			"b": obj{
				"$id":   "nested/b.json",
				"$defs": obj{
					"c": obj{"type": "number"},
					"d": obj{"$ref": "#/$defs/c"},
				},
			},
		},
		"allOf": []any{obj{"type": "string"}, obj{"$ref": "nested/b.json#/$defs/d"}},
	}, logic.True},
}

func TestSchemaDescribesEmptySet(t *testing.T) {
	for _, tt := range emptySetCases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SchemaDescribesEmptySet(tt.schema)
			if err != nil {
				t.Fatalf("SchemaDescribesEmptySet failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("SchemaDescribesEmptySet() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSATPrecheckIsNotNeededForSoundness(t *testing.T) {
	opts := DefaultOptions()
	opts.DisableSATPrecheck = true
	for _, schema := range []any{
		false,
		obj{"allOf": []any{obj{"type": "string"}, obj{"type": "number"}}},
		obj{"type": "number", "minimum": 2.0, "maximum": 1.0},
	} {
		got, err := SchemaDescribesEmptySet(schema, opts)
		if err != nil {
			t.Fatalf("SchemaDescribesEmptySet failed: %v", err)
		}
		if got != logic.True {
			t.Errorf("SchemaDescribesEmptySet(%v) = %s, want true", schema, got)
		}
	}
}

type pairCase struct {
	name string
	a, b any
	want logic.Tri
}

var subsetCases = []pairCase{
	{"const in its type", obj{"const": 5.0}, obj{"type": "number"}, logic.True},
	{"const outside type", obj{"const": 5.0}, obj{"type": "string"}, logic.False},
	{"reflexive", obj{"type": "number", "minimum": 5.0}, obj{"type": "number", "minimum": 5.0}, logic.True},
	{"same $id", obj{"$id": "https://example.com/a.json", "type": "string"}, obj{"$id": "https://example.com/a.json", "type": "string"}, logic.True},
	{"integer in number", obj{"type": "integer"}, obj{"type": "number"}, logic.True},
	{"number not in integer", obj{"type": "number", "const": 1.5}, obj{"type": "integer"}, logic.False},
	{"false in anything", false, obj{"type": "string"}, logic.True},
	{"anything in true", obj{"type": "string"}, true, logic.True},
	{"true not in string", true, obj{"type": "string"}, logic.False},
	{"enum in wider enum", obj{"enum": []any{"a", "b"}}, obj{"enum": []any{"a", "b", "c"}}, logic.True},
	{"enum not in narrower enum", obj{"enum": []any{"a", "b", "c"}}, obj{"enum": []any{"a", "b"}}, logic.False},
	{"nullable string", obj{"type": "string", "nullable": true}, obj{"type": []any{"string", "null"}}, logic.True},
	{"negative zero in zero", obj{"const": negZero}, obj{"enum": []any{0.0}}, logic.True},
}

func TestSchemaDescribesSubset(t *testing.T) {
	for _, tt := range subsetCases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SchemaDescribesSubset(tt.a, tt.b)
			if err != nil {
				t.Fatalf("SchemaDescribesSubset failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("SchemaDescribesSubset() = %s, want %s", got, tt.want)
			}
		})
	}
}

var universeCases = []emptySetCase{
	{"true", true, logic.True},
	{"empty object", obj{}, logic.True},
	{"annotations only", obj{"title": "x", "description": "y"}, logic.True},
	{"false", false, logic.False},
	{"string", obj{"type": "string"}, logic.False},
	{"not false", obj{"not": false}, logic.True},
	{"string or not string", obj{"anyOf": []any{obj{"type": "string"}, obj{"not": obj{"type": "string"}}}}, logic.True},
}

func TestSchemaDescribesUniverse(t *testing.T) {
	for _, tt := range universeCases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SchemaDescribesUniverse(tt.schema)
			if err != nil {
				t.Fatalf("SchemaDescribesUniverse failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("SchemaDescribesUniverse() = %s, want %s", got, tt.want)
			}
		})
	}
}

var equivalentCases = []pairCase{
	{"type list and anyOf", obj{"type": []any{"string", "number"}}, obj{"anyOf": []any{obj{"type": "string"}, obj{"type": "number"}}}, logic.True},
	{"boolean and enum", obj{"type": "boolean"}, obj{"enum": []any{false, true}}, logic.True},
	{"different types", obj{"type": "string"}, obj{"type": "number"}, logic.False},
	{"double negation", obj{"not": obj{"not": obj{"type": "string"}}}, obj{"type": "string"}, logic.True},
}

func TestSchemasAreEquivalent(t *testing.T) {
	for _, tt := range equivalentCases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SchemasAreEquivalent(tt.a, tt.b)
			if err != nil {
				t.Fatalf("SchemasAreEquivalent failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("SchemasAreEquivalent() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestConflictingIDsAreRejected(t *testing.T) {
	a := obj{"$id": "https://example.com/a.json", "type": "string"}
	b := obj{"$id": "https://example.com/a.json", "type": "number"}

	if _, err := SchemaDescribesSubset(a, b); !errors.Is(err, ErrDuplicateResource) {
		t.Errorf("SchemaDescribesSubset() error = %v, want ErrDuplicateResource", err)
	}
	if _, err := SchemasAreEquivalent(a, b); !errors.Is(err, ErrDuplicateResource) {
		t.Errorf("SchemasAreEquivalent() error = %v, want ErrDuplicateResource", err)
	}

	opts := DefaultOptions()
	opts.Definitions = map[string]any{"https://example.com/a.json": b}
	if _, err := SchemaDescribesEmptySet(a, opts); !errors.Is(err, ErrDuplicateResource) {
		t.Errorf("SchemaDescribesEmptySet() error = %v, want ErrDuplicateResource", err)
	}
}

func TestUnsupportedKeyword(t *testing.T) {
	for _, schema := range []any{
		obj{"$dynamicRef": "#node"},
		obj{"properties": obj{"a": obj{"$dynamicAnchor": "node"}}},
	} {
		_, err := SchemaDescribesEmptySet(schema)
		if !errors.Is(err, ErrUnsupportedKeyword) {
			t.Errorf("SchemaDescribesEmptySet(%v) error = %v, want ErrUnsupportedKeyword", schema, err)
		}
	}
}

func TestRecursiveRefStaysSound(t *testing.T) {
	schema := obj{
		"$defs": obj{
			"node": obj{
				"type":       "object",
				"properties": obj{"next": obj{"$ref": "#/$defs/node"}},
			},
		},
		"$ref": "#/$defs/node",
	}
	got, err := SchemaDescribesEmptySet(schema)
	if err != nil {
		t.Fatalf("SchemaDescribesEmptySet failed: %v", err)
	}
	if got == logic.True {
		t.Errorf("recursive schema reported empty")
	}
}

func TestUnresolvedRefIsUnknown(t *testing.T) {
	var logBuf bytes.Buffer
	opts := DefaultOptions()
	opts.Logger = NewLogger(LevelWarn, &logBuf)

	got, err := SchemaDescribesEmptySet(obj{"$ref": "missing.json"}, opts)
	if err != nil {
		t.Fatalf("SchemaDescribesEmptySet failed: %v", err)
	}
	if got != logic.Unknown {
		t.Errorf("SchemaDescribesEmptySet() = %s, want null", got)
	}
	if !strings.Contains(logBuf.String(), "unresolved $ref https://schemalogic.invalid/missing.json") {
		t.Errorf("expected unresolved ref warning, got %q", logBuf.String())
	}
}

func TestDefinitions(t *testing.T) {
	opts := DefaultOptions()
	opts.Definitions = map[string]any{
		"https://example.com/positive.json": obj{"type": "number", "exclusiveMinimum": 0.0},
	}

	got, err := SchemaDescribesSubset(obj{"$ref": "https://example.com/positive.json"}, obj{"type": "number"}, opts)
	if err != nil {
		t.Fatalf("SchemaDescribesSubset failed: %v", err)
	}
	if got != logic.True {
		t.Errorf("SchemaDescribesSubset() = %s, want true", got)
	}

	got, err = SchemaDescribesEmptySet(obj{
		"allOf": []any{
			obj{"$ref": "https://example.com/positive.json"},
			obj{"maximum": 0.0},
		},
	}, opts)
	if err != nil {
		t.Fatalf("SchemaDescribesEmptySet failed: %v", err)
	}
	if got != logic.True {
		t.Errorf("SchemaDescribesEmptySet() = %s, want true", got)
	}
}

func TestOpaqueKeywordsAreKept(t *testing.T) {
	var logBuf bytes.Buffer
	opts := DefaultOptions()
	opts.Logger = NewLogger(LevelWarn, &logBuf)

	// dependentRequired could reject every object; it must not be dropped.
	got, err := SchemaDescribesEmptySet(obj{
		"type":              "object",
		"required":          []any{"a"},
		"dependentRequired": obj{"a": []any{"b"}},
	}, opts)
	if err != nil {
		t.Fatalf("SchemaDescribesEmptySet failed: %v", err)
	}
	if got == logic.True {
		t.Errorf("SchemaDescribesEmptySet() = true for an inhabited schema")
	}
	if !strings.Contains(logBuf.String(), "no extractor for dependentRequired") {
		t.Errorf("expected opaque keyword warning, got %q", logBuf.String())
	}
}

// rejectStrings replaces the string extractor.
type rejectStrings struct{}

func (rejectStrings) ID() string         { return "string" }
func (rejectStrings) Keywords() []string { return []string{"pattern", "minLength", "maxLength"} }

func (rejectStrings) Extract(schema map[string]any, _ plugins.Splitter) (logic.Term, error) {
	if _, ok := schema["pattern"]; ok {
		return logic.Bool(false), nil
	}
	return logic.Bool(true), nil
}

// badKeywords emits a keyword it does not declare.
type badKeywords struct{}

func (badKeywords) ID() string             { return "bad" }
func (badKeywords) Types() logic.TypeSet   { return plugins.Always }
func (badKeywords) Kinds() []logic.Kind    { return nil }
func (badKeywords) Keywords() []string     { return nil }
func (badKeywords) Simplify(*plugins.Input) (plugins.Result, error) {
	return plugins.Partial(map[string]any{"minimum": 1.0}), nil
}

func TestPluginRegistration(t *testing.T) {
	t.Run("override by id", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Extractors = []plugins.Extractor{rejectStrings{}}
		got, err := SchemaDescribesEmptySet(obj{"pattern": "a"}, opts)
		if err != nil {
			t.Fatalf("SchemaDescribesEmptySet failed: %v", err)
		}
		if got != logic.True {
			t.Errorf("SchemaDescribesEmptySet() = %s, want true", got)
		}
	})

	t.Run("disabled plugin turns its keywords opaque", func(t *testing.T) {
		schema := obj{"type": "string", "minLength": 3.0, "maxLength": 1.0}
		opts := DefaultOptions()
		opts.DisabledPlugins = []string{"string"}
		got, err := SchemaDescribesEmptySet(schema, opts)
		if err != nil {
			t.Fatalf("SchemaDescribesEmptySet failed: %v", err)
		}
		if got != logic.Unknown {
			t.Errorf("SchemaDescribesEmptySet() = %s, want null", got)
		}
	})

	t.Run("undeclared keyword", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Simplifiers = []plugins.Simplifier{badKeywords{}}
		_, err := SchemaDescribesEmptySet(obj{"type": "number", "minimum": 1.0}, opts)
		if !errors.Is(err, ErrPluginContract) {
			t.Errorf("error = %v, want ErrPluginContract", err)
		}
	})
}

func TestMaxDepthDegradesToUnknown(t *testing.T) {
	// Deciding the array needs the emptiness of its item schema.
	schema := obj{
		"type":     "array",
		"minItems": 1.0,
		"items":    obj{"type": "number", "minimum": 2.0, "maximum": 1.0},
	}
	got, err := SchemaDescribesEmptySet(schema)
	if err != nil {
		t.Fatalf("SchemaDescribesEmptySet failed: %v", err)
	}
	if got != logic.True {
		t.Fatalf("SchemaDescribesEmptySet() = %s, want true", got)
	}

	q := newQuery(DefaultOptions())
	q.depth = q.opts.MaxDepth
	if v := q.nestedIsEmpty(logic.Type{Types: logic.SetOf(logic.TypeNumber)}); v != logic.Unknown {
		t.Errorf("nestedIsEmpty past the depth limit = %s, want null", v)
	}
}
