package logic

import (
	"math"
	"sort"
)

var (
	numberOnly = SetOf(TypeNumber)
	stringOnly = SetOf(TypeString)
	arrayOnly  = SetOf(TypeArray)
	objectOnly = SetOf(TypeObject)
)

// Key identifies a predicate structurally. Two predicates with equal keys
// accept the same values.
func Key(p Predicate) string {
	return p.Kind().String() + ":" + CanonicalKey(p.Fragment())
}

// guarded is the full-domain complement of a predicate whose own negation
// only makes sense inside its domain.
func guarded(p Predicate) Term {
	return AllOf{Not{p}, Type{p.Domain()}}
}

// Type restricts values to a set of JSON types.
type Type struct {
	Types TypeSet
}

func (p Type) Fragment() any {
	if p.Types.Empty() {
		return false
	}
	return map[string]any{"type": p.Types.TypeFragment()}
}
func (Type) term() {}
func (Type) Kind() Kind { return KindType }
func (Type) Domain() TypeSet { return Universe }
func (p Type) Negate() Term {
	if p.Types.IsUniverse() {
		return Bool(false)
	}
	return Type{p.Types.Complement()}
}

// Const matches exactly one JSON value.
type Const struct {
	Value any
}

func (p Const) Fragment() any { return map[string]any{"const": p.Value} }
func (Const) term() {}
func (Const) Kind() Kind { return KindConst }
func (p Const) Domain() TypeSet {
	t, ok := TypeOf(p.Value)
	if !ok {
		return Universe
	}
	return SetOf(t)
}
func (p Const) Negate() Term { return Not{p} }

type MultipleOf struct {
	Value float64
}

func (p MultipleOf) Fragment() any { return map[string]any{"multipleOf": p.Value} }
func (MultipleOf) term() {}
func (MultipleOf) Kind() Kind { return KindMultipleOf }
func (MultipleOf) Domain() TypeSet { return numberOnly }
func (p MultipleOf) Negate() Term { return guarded(p) }

// Minimum is a lower bound on numbers, exclusive or not.
type Minimum struct {
	Value     float64
	Exclusive bool
}

func (p Minimum) Fragment() any {
	if p.Exclusive {
		return map[string]any{"exclusiveMinimum": p.Value}
	}
	return map[string]any{"minimum": p.Value}
}
func (Minimum) term() {}
func (Minimum) Kind() Kind { return KindMinimum }
func (Minimum) Domain() TypeSet { return numberOnly }
func (p Minimum) Negate() Term {
	return AllOf{Maximum{Value: p.Value, Exclusive: !p.Exclusive}, Type{numberOnly}}
}

// Maximum is an upper bound on numbers, exclusive or not.
type Maximum struct {
	Value     float64
	Exclusive bool
}

func (p Maximum) Fragment() any {
	if p.Exclusive {
		return map[string]any{"exclusiveMaximum": p.Value}
	}
	return map[string]any{"maximum": p.Value}
}
func (Maximum) term() {}
func (Maximum) Kind() Kind { return KindMaximum }
func (Maximum) Domain() TypeSet { return numberOnly }
func (p Maximum) Negate() Term {
	return AllOf{Minimum{Value: p.Value, Exclusive: !p.Exclusive}, Type{numberOnly}}
}

// Pattern holds an ECMA-262 regular expression source.
type Pattern struct {
	Source string
}

func (p Pattern) Fragment() any { return map[string]any{"pattern": p.Source} }
func (Pattern) term() {}
func (Pattern) Kind() Kind { return KindPattern }
func (Pattern) Domain() TypeSet { return stringOnly }
func (p Pattern) Negate() Term { return guarded(p) }

// negateLowerCount complements "count >= n" inside dom.
func negateLowerCount(n float64, dom TypeSet, upper func(float64) Predicate) Term {
	c := math.Ceil(n)
	if c <= 0 {
		return Bool(false)
	}
	return AllOf{upper(c - 1), Type{dom}}
}

// negateUpperCount complements "count <= n" inside dom.
func negateUpperCount(n float64, dom TypeSet, lower func(float64) Predicate) Term {
	return AllOf{lower(math.Floor(n) + 1), Type{dom}}
}

type MinLength struct {
	Value float64
}

func (p MinLength) Fragment() any { return map[string]any{"minLength": p.Value} }
func (MinLength) term() {}
func (MinLength) Kind() Kind { return KindMinLength }
func (MinLength) Domain() TypeSet { return stringOnly }
func (p MinLength) Negate() Term {
	return negateLowerCount(p.Value, stringOnly, func(n float64) Predicate { return MaxLength{n} })
}

type MaxLength struct {
	Value float64
}

func (p MaxLength) Fragment() any { return map[string]any{"maxLength": p.Value} }
func (MaxLength) term() {}
func (MaxLength) Kind() Kind { return KindMaxLength }
func (MaxLength) Domain() TypeSet { return stringOnly }
func (p MaxLength) Negate() Term {
	return negateUpperCount(p.Value, stringOnly, func(n float64) Predicate { return MinLength{n} })
}

type MinItems struct {
	Value float64
}

func (p MinItems) Fragment() any { return map[string]any{"minItems": p.Value} }
func (MinItems) term() {}
func (MinItems) Kind() Kind { return KindMinItems }
func (MinItems) Domain() TypeSet { return arrayOnly }
func (p MinItems) Negate() Term {
	return negateLowerCount(p.Value, arrayOnly, func(n float64) Predicate { return MaxItems{n} })
}

type MaxItems struct {
	Value float64
}

func (p MaxItems) Fragment() any { return map[string]any{"maxItems": p.Value} }
func (MaxItems) term() {}
func (MaxItems) Kind() Kind { return KindMaxItems }
func (MaxItems) Domain() TypeSet { return arrayOnly }
func (p MaxItems) Negate() Term {
	return negateUpperCount(p.Value, arrayOnly, func(n float64) Predicate { return MinItems{n} })
}

type UniqueItems struct{}

func (UniqueItems) Fragment() any { return map[string]any{"uniqueItems": true} }
func (UniqueItems) term() {}
func (UniqueItems) Kind() Kind { return KindUniqueItems }
func (UniqueItems) Domain() TypeSet { return arrayOnly }
func (p UniqueItems) Negate() Term { return guarded(p) }

// PrefixItem constrains the array element at Index, when there is one.
type PrefixItem struct {
	Index  int
	Schema Term
}

func (p PrefixItem) Fragment() any {
	items := make([]any, p.Index+1)
	for i := 0; i < p.Index; i++ {
		items[i] = true
	}
	items[p.Index] = p.Schema.Fragment()
	return map[string]any{"prefixItems": items}
}
func (PrefixItem) term() {}
func (PrefixItem) Kind() Kind { return KindPrefixItem }
func (PrefixItem) Domain() TypeSet { return arrayOnly }
func (p PrefixItem) Negate() Term { return guarded(p) }

// Items constrains every array element from index Start on.
type Items struct {
	Start  int
	Schema Term
}

func (p Items) Fragment() any {
	frag := map[string]any{"items": p.Schema.Fragment()}
	if p.Start > 0 {
		prefix := make([]any, p.Start)
		for i := range prefix {
			prefix[i] = true
		}
		frag["prefixItems"] = prefix
	}
	return frag
}
func (Items) term() {}
func (Items) Kind() Kind { return KindItems }
func (Items) Domain() TypeSet { return arrayOnly }
func (p Items) Negate() Term { return guarded(p) }

// Contains requires at least one element matching Schema.
type Contains struct {
	Schema Term
}

func (p Contains) Fragment() any { return map[string]any{"contains": p.Schema.Fragment()} }
func (Contains) term() {}
func (Contains) Kind() Kind { return KindContains }
func (Contains) Domain() TypeSet { return arrayOnly }
func (p Contains) Negate() Term { return guarded(p) }

type Required struct {
	Name string
}

func (p Required) Fragment() any { return map[string]any{"required": []any{p.Name}} }
func (Required) term() {}
func (Required) Kind() Kind { return KindRequired }
func (Required) Domain() TypeSet { return objectOnly }
func (p Required) Negate() Term { return guarded(p) }

type MinProperties struct {
	Value float64
}

func (p MinProperties) Fragment() any { return map[string]any{"minProperties": p.Value} }
func (MinProperties) term() {}
func (MinProperties) Kind() Kind { return KindMinProperties }
func (MinProperties) Domain() TypeSet { return objectOnly }
func (p MinProperties) Negate() Term {
	return negateLowerCount(p.Value, objectOnly, func(n float64) Predicate { return MaxProperties{n} })
}

type MaxProperties struct {
	Value float64
}

func (p MaxProperties) Fragment() any { return map[string]any{"maxProperties": p.Value} }
func (MaxProperties) term() {}
func (MaxProperties) Kind() Kind { return KindMaxProperties }
func (MaxProperties) Domain() TypeSet { return objectOnly }
func (p MaxProperties) Negate() Term {
	return negateUpperCount(p.Value, objectOnly, func(n float64) Predicate { return MinProperties{n} })
}

// Property constrains the value of a named property, when present.
type Property struct {
	Name   string
	Schema Term
}

func (p Property) Fragment() any {
	return map[string]any{"properties": map[string]any{p.Name: p.Schema.Fragment()}}
}
func (Property) term() {}
func (Property) Kind() Kind { return KindProperty }
func (Property) Domain() TypeSet { return objectOnly }
func (p Property) Negate() Term { return guarded(p) }

// PatternProperty constrains every property whose name matches Pattern.
type PatternProperty struct {
	Pattern string
	Schema  Term
}

func (p PatternProperty) Fragment() any {
	return map[string]any{"patternProperties": map[string]any{p.Pattern: p.Schema.Fragment()}}
}
func (PatternProperty) term() {}
func (PatternProperty) Kind() Kind { return KindPatternProperty }
func (PatternProperty) Domain() TypeSet { return objectOnly }
func (p PatternProperty) Negate() Term { return guarded(p) }

// AdditionalProperties constrains every property that is neither listed in
// Named nor matched by one of Patterns.
type AdditionalProperties struct {
	Named    []string
	Patterns []string
	Schema   Term
}

// Covers reports whether the property name is excluded from the constraint
// by being listed in Named. Pattern coverage needs a regexp engine and is
// left to callers.
func (p AdditionalProperties) Covers(name string) bool {
	for _, n := range p.Named {
		if n == name {
			return true
		}
	}
	return false
}

func (p AdditionalProperties) Fragment() any {
	frag := map[string]any{"additionalProperties": p.Schema.Fragment()}
	if len(p.Named) > 0 {
		props := make(map[string]any, len(p.Named))
		for _, n := range p.Named {
			props[n] = true
		}
		frag["properties"] = props
	}
	if len(p.Patterns) > 0 {
		pats := make(map[string]any, len(p.Patterns))
		for _, pat := range p.Patterns {
			pats[pat] = true
		}
		frag["patternProperties"] = pats
	}
	return frag
}
func (AdditionalProperties) term() {}
func (AdditionalProperties) Kind() Kind { return KindAdditionalProperties }
func (AdditionalProperties) Domain() TypeSet { return objectOnly }
func (p AdditionalProperties) Negate() Term { return guarded(p) }

// NewAdditionalProperties sorts the name and pattern lists so equal
// constraints share a key.
func NewAdditionalProperties(named, patterns []string, schema Term) AdditionalProperties {
	named = append([]string(nil), named...)
	patterns = append([]string(nil), patterns...)
	sort.Strings(named)
	sort.Strings(patterns)
	return AdditionalProperties{Named: named, Patterns: patterns, Schema: schema}
}

// PropertyNames constrains every property name, seen as a string.
type PropertyNames struct {
	Schema Term
}

func (p PropertyNames) Fragment() any { return map[string]any{"propertyNames": p.Schema.Fragment()} }
func (PropertyNames) term() {}
func (PropertyNames) Kind() Kind { return KindPropertyNames }
func (PropertyNames) Domain() TypeSet { return objectOnly }
func (p PropertyNames) Negate() Term { return guarded(p) }

// Ref is a reference that was not expanded: a recursive reference, one past
// the depth limit, or one that could not be resolved.
type Ref struct {
	URI string
}

func (p Ref) Fragment() any { return map[string]any{"$ref": p.URI} }
func (Ref) term() {}
func (Ref) Kind() Kind { return KindRef }
func (Ref) Domain() TypeSet { return Universe }
func (p Ref) Negate() Term { return Not{p} }

// Opaque carries an assertion keyword the engine does not model. Value is a
// schema that means exactly what the keyword means in its original object.
// Dom is the set of types the keyword can reject.
type Opaque struct {
	Keyword string
	Value   any
	Dom     TypeSet
}

func (p Opaque) Fragment() any { return p.Value }
func (Opaque) term() {}
func (Opaque) Kind() Kind { return KindOpaque }
func (p Opaque) Domain() TypeSet { return p.Dom }
func (p Opaque) Negate() Term {
	if p.Dom.IsUniverse() {
		return Not{p}
	}
	return guarded(p)
}
