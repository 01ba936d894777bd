package plugins

import (
	"sort"

	"github.com/speakeasy-api/schemalogic/logic"
)

// ArraySimplifier folds item counts. Provably empty item schemas cap the
// length; contains and non-unique items raise the minimum.
type ArraySimplifier struct{}

func (ArraySimplifier) ID() string           { return "array" }
func (ArraySimplifier) Types() logic.TypeSet { return logic.SetOf(logic.TypeArray) }
func (ArraySimplifier) Kinds() []logic.Kind {
	return []logic.Kind{
		logic.KindMinItems, logic.KindMaxItems, logic.KindUniqueItems,
		logic.KindPrefixItem, logic.KindItems, logic.KindContains,
	}
}
func (ArraySimplifier) Keywords() []string {
	return []string{"minItems", "maxItems", "uniqueItems", "prefixItems", "items", "contains", "not", "allOf"}
}

func (ArraySimplifier) Simplify(in *Input) (Result, error) {
	r := lengths(in, logic.KindMinItems, logic.KindMaxItems)
	frag := map[string]any{}

	for _, p := range in.Asserted(logic.KindPrefixItem) {
		item := p.(logic.PrefixItem)
		if in.Oracle.IsEmpty(item.Schema) == logic.True {
			r.atMost(float64(item.Index))
		}
		AppendAllOf(frag, item.Fragment())
	}
	for _, p := range in.Asserted(logic.KindItems) {
		items := p.(logic.Items)
		if in.Oracle.IsEmpty(items.Schema) == logic.True {
			r.atMost(float64(items.Start))
		}
		AppendAllOf(frag, items.Fragment())
	}
	for _, p := range in.Asserted(logic.KindContains) {
		c := p.(logic.Contains)
		if in.Oracle.IsEmpty(c.Schema) == logic.True {
			return Empty(), nil
		}
		r.atLeast(1)
		AppendAllOf(frag, c.Fragment())
	}
	if len(in.Negated(logic.KindUniqueItems)) > 0 {
		// a duplicate needs two items
		r.atLeast(2)
		addNot(frag, map[string]any{"uniqueItems": true})
	}
	if len(in.Asserted(logic.KindUniqueItems)) > 0 {
		frag["uniqueItems"] = true
	}
	for _, k := range []logic.Kind{logic.KindPrefixItem, logic.KindItems, logic.KindContains} {
		for _, p := range in.Negated(k) {
			addNot(frag, p.Fragment())
		}
	}
	if r.empty() {
		return Empty(), nil
	}
	r.addTo(frag, "minItems", "maxItems")

	if r.hi == 0 {
		return Certify(in.Oracle.ValidateConst([]any{}), frag), nil
	}
	return Partial(frag), nil
}

// ObjectSimplifier folds required names, property counts and the schemas
// that apply to required properties.
type ObjectSimplifier struct{}

func (ObjectSimplifier) ID() string           { return "object" }
func (ObjectSimplifier) Types() logic.TypeSet { return logic.SetOf(logic.TypeObject) }
func (ObjectSimplifier) Kinds() []logic.Kind {
	return []logic.Kind{
		logic.KindRequired, logic.KindMinProperties, logic.KindMaxProperties, logic.KindProperty,
		logic.KindPatternProperty, logic.KindAdditionalProperties, logic.KindPropertyNames,
	}
}
func (ObjectSimplifier) Keywords() []string {
	return []string{
		"required", "minProperties", "maxProperties", "properties", "patternProperties",
		"additionalProperties", "propertyNames", "not", "allOf",
	}
}

func (ObjectSimplifier) Simplify(in *Input) (Result, error) {
	required := requiredNames(in.Asserted(logic.KindRequired))
	for _, n := range requiredNames(in.Negated(logic.KindRequired)) {
		if containsString(required, n) {
			return Empty(), nil
		}
	}

	r := lengths(in, logic.KindMinProperties, logic.KindMaxProperties)
	if r.empty() || float64(len(required)) > r.hi {
		return Empty(), nil
	}

	for _, name := range required {
		if in.Oracle.IsEmpty(propertySchema(in, name)) == logic.True {
			return Empty(), nil
		}
		for _, p := range in.Asserted(logic.KindPropertyNames) {
			names := p.(logic.PropertyNames).Schema
			if in.Oracle.IsEmpty(logic.AllOf{names, logic.Const{Value: name}}) == logic.True {
				return Empty(), nil
			}
		}
	}

	frag := map[string]any{}
	if len(required) > 0 {
		list := make([]any, len(required))
		for i, n := range required {
			list[i] = n
		}
		frag["required"] = list
	}
	r.addTo(frag, "minProperties", "maxProperties")
	props := map[string]any{}
	for _, p := range in.Asserted(logic.KindProperty) {
		prop := p.(logic.Property)
		if _, taken := props[prop.Name]; taken {
			AppendAllOf(frag, prop.Fragment())
			continue
		}
		props[prop.Name] = prop.Schema.Fragment()
	}
	if len(props) > 0 {
		frag["properties"] = props
	}
	for _, k := range []logic.Kind{logic.KindPatternProperty, logic.KindAdditionalProperties, logic.KindPropertyNames} {
		for _, p := range in.Asserted(k) {
			AppendAllOf(frag, p.Fragment())
		}
	}
	for _, k := range []logic.Kind{
		logic.KindRequired, logic.KindProperty, logic.KindPatternProperty,
		logic.KindAdditionalProperties, logic.KindPropertyNames,
	} {
		for _, p := range in.Negated(k) {
			addNot(frag, p.Fragment())
		}
	}

	if r.hi == 0 {
		return Certify(in.Oracle.ValidateConst(map[string]any{}), frag), nil
	}
	return Partial(frag), nil
}

// propertySchema conjoins every asserted schema that applies to the value
// of a property with the given name. Schemas whose applicability cannot be
// decided are left out, which only weakens the conjunction.
func propertySchema(in *Input, name string) logic.Term {
	var terms []logic.Term
	for _, p := range in.Asserted(logic.KindProperty) {
		if prop := p.(logic.Property); prop.Name == name {
			terms = append(terms, prop.Schema)
		}
	}
	for _, p := range in.Asserted(logic.KindPatternProperty) {
		pp := p.(logic.PatternProperty)
		if in.Oracle.MatchPattern(pp.Pattern, name) == logic.True {
			terms = append(terms, pp.Schema)
		}
	}
	for _, p := range in.Asserted(logic.KindAdditionalProperties) {
		ap := p.(logic.AdditionalProperties)
		if ap.Covers(name) {
			continue
		}
		applies := logic.True
		for _, pat := range ap.Patterns {
			applies = applies.And(in.Oracle.MatchPattern(pat, name).Not())
		}
		if applies == logic.True {
			terms = append(terms, ap.Schema)
		}
	}
	return logic.And(terms...)
}

func requiredNames(ps []logic.Predicate) []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range ps {
		n := p.(logic.Required).Name
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

func containsString(list []string, s string) bool {
	for _, e := range list {
		if e == s {
			return true
		}
	}
	return false
}

// RefSimplifier detects a reference conjoined with its own negation.
type RefSimplifier struct{}

func (RefSimplifier) ID() string           { return "ref" }
func (RefSimplifier) Types() logic.TypeSet { return Always }
func (RefSimplifier) Kinds() []logic.Kind  { return []logic.Kind{logic.KindRef} }
func (RefSimplifier) Keywords() []string   { return []string{"$ref", "not", "allOf"} }

func (RefSimplifier) Simplify(in *Input) (Result, error) {
	asserted := refURIs(in.Asserted(logic.KindRef))
	negated := refURIs(in.Negated(logic.KindRef))
	for _, a := range asserted {
		if containsString(negated, a) {
			return Empty(), nil
		}
	}
	if len(asserted) == 0 && len(negated) == 0 {
		return Partial(nil), nil
	}

	frag := map[string]any{}
	for i, a := range asserted {
		if i == 0 {
			frag["$ref"] = a
			continue
		}
		AppendAllOf(frag, map[string]any{"$ref": a})
	}
	for _, n := range negated {
		addNot(frag, map[string]any{"$ref": n})
	}
	return Partial(frag), nil
}

func refURIs(ps []logic.Predicate) []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range ps {
		u := p.(logic.Ref).URI
		if !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
	}
	return out
}
