package schemalogic

import (
	"errors"
	"net/url"
	"testing"
)

func TestResolver(t *testing.T) {
	doc := obj{
		"$defs": obj{
			"a": obj{"type": "string"},
			"b": obj{
				"$id":   "nested/b.json",
				"$defs": obj{
					"c": obj{"type": "number"},
					"d": obj{"$ref": "#/$defs/c"},
				},
			},
			"anchored": obj{"$anchor": "here", "type": "null"},
			"odd/name": obj{"type": "boolean"},
		},
		"items": []any{obj{"type": "array"}},
	}
	r := newResolver()
	base, err := r.addDocument("https://example.com/root.json", doc)
	if err != nil {
		t.Fatalf("addDocument failed: %v", err)
	}

	tests := []struct {
		ref      string
		wantType any
		wantBase string
	}{
		{"#/$defs/a", "string", "https://example.com/root.json"},
		{"root.json#/$defs/a", "string", "https://example.com/root.json"},
		{"#/$defs/b/$defs/c", "number", "https://example.com/nested/b.json"},
		{"nested/b.json#/$defs/c", "number", "https://example.com/nested/b.json"},
		{"https://example.com/nested/b.json#/$defs/c", "number", "https://example.com/nested/b.json"},
		{"#here", "null", "https://example.com/root.json"},
		{"#/$defs/odd~1name", "boolean", "https://example.com/root.json"},
		{"#/items/0", "array", "https://example.com/root.json"},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			target, targetBase, _, ok := r.resolve(base, tt.ref)
			if !ok {
				t.Fatalf("resolve(%q) failed", tt.ref)
			}
			m, _ := target.(map[string]any)
			if m["type"] != tt.wantType {
				t.Errorf("resolve(%q) type = %v, want %v", tt.ref, m["type"], tt.wantType)
			}
			if targetBase.String() != tt.wantBase {
				t.Errorf("resolve(%q) base = %s, want %s", tt.ref, targetBase, tt.wantBase)
			}
		})
	}

	// a local ref inside the embedded resource resolves against its $id
	d, dBase, _, ok := r.resolve(base, "nested/b.json#/$defs/d")
	if !ok {
		t.Fatal("resolve(nested/b.json#/$defs/d) failed")
	}
	target, _, abs, ok := r.resolve(dBase, d.(map[string]any)["$ref"].(string))
	if !ok {
		t.Fatalf("resolve(#/$defs/c) from %s failed", dBase)
	}
	if abs != "https://example.com/nested/b.json#/$defs/c" {
		t.Errorf("absolute ref = %s, want https://example.com/nested/b.json#/$defs/c", abs)
	}
	if target.(map[string]any)["type"] != "number" {
		t.Errorf("local ref resolved to %v", target)
	}

	for _, ref := range []string{"#/$defs/missing", "#/items/3", "#nowhere", "other.json"} {
		if _, _, _, ok := r.resolve(base, ref); ok {
			t.Errorf("resolve(%q) succeeded, want failure", ref)
		}
	}
}

func TestRootURI(t *testing.T) {
	tests := []struct {
		base string
		i    int
		want string
	}{
		{DefaultBaseURI, 0, DefaultBaseURI},
		{DefaultBaseURI, 1, "https://schemalogic.invalid/schema-2.json"},
		{"https://example.com/api", 2, "https://example.com/api-3"},
	}
	for _, tt := range tests {
		if got := rootURI(tt.base, tt.i); got != tt.want {
			t.Errorf("rootURI(%q, %d) = %q, want %q", tt.base, tt.i, got, tt.want)
		}
	}
}

func TestWithID(t *testing.T) {
	base, _ := url.Parse("https://example.com/dir/root.json")
	tests := []struct {
		id   any
		want string
	}{
		{nil, "https://example.com/dir/root.json"},
		{"#frag", "https://example.com/dir/root.json"},
		{"other.json", "https://example.com/dir/other.json"},
		{"https://other.org/s.json#", "https://other.org/s.json"},
	}
	for _, tt := range tests {
		schema := obj{}
		if tt.id != nil {
			schema["$id"] = tt.id
		}
		if got := withID(schema, base).String(); got != tt.want {
			t.Errorf("withID(%v) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestResolverRejectsDuplicateResources(t *testing.T) {
	a := obj{"$id": "https://example.com/a.json", "type": "string"}

	r := newResolver()
	if _, err := r.addDocument("https://example.com/one.json", a); err != nil {
		t.Fatalf("addDocument failed: %v", err)
	}
	// the same schema again is fine
	if _, err := r.addDocument("https://example.com/two.json", obj{"$id": "https://example.com/a.json", "type": "string"}); err != nil {
		t.Errorf("addDocument of an equal resource failed: %v", err)
	}

	tests := []struct {
		name string
		uri  string
		doc  any
	}{
		{"conflicting $id", "https://example.com/three.json", obj{"$id": "https://example.com/a.json", "type": "number"}},
		{"conflicting retrieval URI", "https://example.com/one.json", obj{"type": "number"}},
		{"conflicting embedded $id", "https://example.com/four.json", obj{
			"$defs": obj{"x": obj{"$id": "a.json"}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.addDocument(tt.uri, tt.doc); !errors.Is(err, ErrDuplicateResource) {
				t.Errorf("addDocument() error = %v, want ErrDuplicateResource", err)
			}
		})
	}
}
