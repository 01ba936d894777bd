package validate

import (
	"strings"
	"testing"
	"time"

	"github.com/speakeasy-api/schemalogic/logic"
)

type obj = map[string]any

func TestValidate(t *testing.T) {
	resources := map[string]any{
		"https://example.com/defs.json": obj{
			"$defs": obj{"n": obj{"type": "number", "minimum": 0.0}},
		},
	}
	v := New(resources, DefaultPlugins()...)

	tests := []struct {
		name     string
		fragment any
		value    any
		want     logic.Tri
	}{
		{"true fragment", true, "x", logic.True},
		{"false fragment", false, "x", logic.False},
		{"type match", obj{"type": "string"}, "x", logic.True},
		{"type mismatch", obj{"type": "string"}, 5.0, logic.False},
		{"const", obj{"const": obj{"a": []any{1.0}}}, obj{"a": []any{1.0}}, logic.True},
		{"allOf", obj{"allOf": []any{obj{"type": "number"}, obj{"not": obj{"const": 1.0}}}}, 1.0, logic.False},
		{"ref into resource", obj{"$ref": "https://example.com/defs.json#/$defs/n"}, 1.0, logic.True},
		{"ref into resource rejects", obj{"$ref": "https://example.com/defs.json#/$defs/n"}, -1.0, logic.False},
		{"unknown resource", obj{"$ref": "https://example.com/missing.json"}, 1.0, logic.Unknown},
		{"invalid fragment", obj{"type": 5.0}, 1.0, logic.Unknown},
		{"ecma lookahead", obj{"pattern": "^(?=a)"}, "ab", logic.True},
		{"ecma lookahead rejects", obj{"pattern": "^(?=a)"}, "ba", logic.False},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.Validate(tt.fragment, tt.value); got != tt.want {
				t.Errorf("Validate() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCompileErrorIsRecorded(t *testing.T) {
	v := New(nil)
	frag := obj{"minLength": "three"}
	if got := v.Validate(frag, "abc"); got != logic.Unknown {
		t.Fatalf("Validate() = %s, want null", got)
	}
	if v.Err(frag) == nil {
		t.Errorf("expected a recorded compile error")
	}
	// the validator recovers for later fragments
	if got := v.Validate(obj{"minLength": 3.0}, "abc"); got != logic.True {
		t.Errorf("Validate() after a failed compile = %s, want true", got)
	}
}

func TestFormatAssertion(t *testing.T) {
	frag := obj{"type": "string", "format": "ipv4"}

	if got := New(nil).Validate(frag, "not an address"); got != logic.True {
		t.Errorf("format as annotation: Validate() = %s, want true", got)
	}
	if got := New(nil, FormatAssertion{}).Validate(frag, "not an address"); got != logic.False {
		t.Errorf("format as assertion: Validate() = %s, want false", got)
	}
	if got := New(nil, FormatAssertion{}).Validate(frag, "10.0.0.1"); got != logic.True {
		t.Errorf("format as assertion: Validate() = %s, want true", got)
	}
}

func TestPatternTimeoutIsUnknown(t *testing.T) {
	v := New(nil, DefaultPlugins()...)
	v.Patterns().Timeout = 10 * time.Millisecond
	frag := obj{"type": "string", "pattern": "^(a+)+$"}

	if got := v.Validate(frag, strings.Repeat("a", 40)+"!"); got != logic.Unknown {
		t.Errorf("Validate() on a timed out match = %s, want null", got)
	}
	// matches that finish are still answered
	if got := v.Validate(frag, "aaa"); got != logic.True {
		t.Errorf("Validate() = %s, want true", got)
	}
	if got := v.Validate(frag, "b"); got != logic.False {
		t.Errorf("Validate() = %s, want false", got)
	}
}
