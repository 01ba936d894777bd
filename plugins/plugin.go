// Package plugins defines the extraction and simplification plugin contracts
// and the built-in keyword catalogue.
package plugins

import (
	"encoding/json"
	"errors"
	"sort"

	"github.com/speakeasy-api/schemalogic/logic"
)

// ErrUnsupportedKeyword is returned by extraction when a keyword cannot be
// analysed soundly. It is never recovered from.
var ErrUnsupportedKeyword = errors.New("unsupported keyword")

// Splitter is the recursive capability handed to extractors.
type Splitter interface {
	// Split turns a sub-schema into a term, relative to the current base URI.
	Split(schema any) (logic.Term, error)
	// ExpandRef resolves a reference against the current base URI and
	// returns the referenced schema's term. Recursive references come back
	// as a logic.Ref atom.
	ExpandRef(ref string) (logic.Term, error)
}

// Extractor turns the keywords it owns into a term. Extractors see the whole
// schema object but must not depend on each other's output.
type Extractor interface {
	ID() string
	Keywords() []string
	// Extract returns logic.Bool(true) when none of its keywords apply.
	Extract(schema map[string]any, s Splitter) (logic.Term, error)
}

// Always is the applicability of a simplifier that runs for every type.
const Always = logic.Universe

// Simplifier collapses the literals of one kind family for one JSON type.
type Simplifier interface {
	ID() string
	Types() logic.TypeSet
	// Kinds lists the predicate kinds the plugin accounts for in its fragment.
	Kinds() []logic.Kind
	// Keywords lists the top-level keywords the fragment may set.
	Keywords() []string
	Simplify(in *Input) (Result, error)
}

// Oracle answers questions that need the validator or recursion.
type Oracle interface {
	// ValidateConst checks a value against the whole conjunction.
	ValidateConst(v any) logic.Tri
	// Validate checks a value against a schema fragment.
	Validate(fragment, v any) logic.Tri
	// IsEmpty decides emptiness of a sub-term.
	IsEmpty(t logic.Term) logic.Tri
	// MatchPattern matches a name against an ECMA-262 pattern.
	MatchPattern(pattern, s string) logic.Tri
}

// Input is what a simplifier sees for one disjunct and one type.
type Input struct {
	Type logic.JSONType
	// Types is the disjunct's narrowed type set, Type included.
	Types logic.TypeSet
	// Group holds the literals applicable to Type.
	Group  logic.Grouping
	Oracle Oracle
}

func (in *Input) Asserted(k logic.Kind) []logic.Predicate { return in.Group.Asserted[k] }

func (in *Input) Negated(k logic.Kind) []logic.Predicate { return in.Group.Negated[k] }

// Has reports whether any literal of one of the kinds is present.
func (in *Input) Has(kinds ...logic.Kind) bool {
	for _, k := range kinds {
		if len(in.Group.Asserted[k]) > 0 || len(in.Group.Negated[k]) > 0 {
			return true
		}
	}
	return false
}

// OnlyKinds reports whether every applicable literal has one of the kinds.
func (in *Input) OnlyKinds(kinds ...logic.Kind) bool {
	allowed := make(map[logic.Kind]bool, len(kinds))
	for _, k := range kinds {
		allowed[k] = true
	}
	for k, ps := range in.Group.Asserted {
		if len(ps) > 0 && !allowed[k] {
			return false
		}
	}
	for k, ps := range in.Group.Negated {
		if len(ps) > 0 && !allowed[k] {
			return false
		}
	}
	return true
}

// Status is what a simplifier learnt about its type.
type Status int

const (
	// StatusUnknown means only the fragment is meaningful.
	StatusUnknown Status = iota
	// StatusEmpty means no value of the type satisfies the conjunction.
	StatusEmpty
	// StatusInhabited means some value of the type satisfies the whole
	// conjunction, proven by a witness or by counting.
	StatusInhabited
)

func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusInhabited:
		return "inhabited"
	default:
		return "unknown"
	}
}

// Result is a simplifier's answer. Fragment must be equivalent, on the
// input type, to the literals of the kinds the plugin consumes.
type Result struct {
	Status   Status
	Fragment map[string]any
}

// Empty reports a contradiction for the type.
func Empty() Result { return Result{Status: StatusEmpty} }

// Inhabited reports a proven non-empty type.
func Inhabited(fragment map[string]any) Result {
	return Result{Status: StatusInhabited, Fragment: fragment}
}

// Partial reports a fragment without deciding emptiness.
func Partial(fragment map[string]any) Result {
	return Result{Status: StatusUnknown, Fragment: fragment}
}

// Certify turns the validator's verdict on a witness into a result. The
// witness must be the only value of the type the consumed literals allow,
// so a rejected witness proves emptiness.
func Certify(verdict logic.Tri, fragment map[string]any) Result {
	switch verdict {
	case logic.True:
		return Inhabited(fragment)
	case logic.False:
		return Empty()
	default:
		return Partial(fragment)
	}
}

// Merge adds src into dst. allOf lists concatenate; any other key that is
// already set moves into allOf as its own single-keyword schema.
func Merge(dst, src map[string]any) {
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := src[k]
		if k == "allOf" {
			if list, ok := v.([]any); ok {
				AppendAllOf(dst, list...)
				continue
			}
		}
		if _, taken := dst[k]; taken {
			AppendAllOf(dst, map[string]any{k: v})
			continue
		}
		dst[k] = v
	}
}

// AppendAllOf appends schemas to the fragment's allOf list.
func AppendAllOf(frag map[string]any, schemas ...any) {
	if len(schemas) == 0 {
		return
	}
	list, _ := frag["allOf"].([]any)
	frag["allOf"] = append(list, schemas...)
}

// Number reads a numeric keyword value.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// Schema reports whether v has the shape of a schema: an object or a boolean.
func Schema(v any) bool {
	switch v.(type) {
	case bool, map[string]any:
		return true
	}
	return false
}

// SchemaList reads a non-empty array of schemas.
func SchemaList(v any) ([]any, bool) {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return nil, false
	}
	for _, s := range list {
		if !Schema(s) {
			return nil, false
		}
	}
	return list, true
}

// SchemaMap reads an object whose values are all schemas.
func SchemaMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	for _, s := range m {
		if !Schema(s) {
			return nil, false
		}
	}
	return m, true
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
