package logic

// Term is a node of the schema algebra: a Bool, a Predicate, or one of the
// combinators Not, AllOf and AnyOf. Terms are immutable once built.
type Term interface {
	// Fragment projects the term back onto a JSON Schema value.
	Fragment() any
	term()
}

// Predicate is an atomic constraint. Bool is a predicate too.
type Predicate interface {
	Term
	Kind() Kind
	// Domain is the set of JSON types on which the predicate is not
	// vacuously true.
	Domain() TypeSet
	// Negate returns the complement over every JSON value, not only over
	// Domain. The result has NOT only directly above predicates.
	Negate() Term
}

// Bool is the constant true or false schema.
type Bool bool

func (b Bool) Fragment() any { return bool(b) }
func (Bool) term() {}
func (Bool) Kind() Kind { return KindBool }
func (Bool) Domain() TypeSet { return Universe }
func (b Bool) Negate() Term { return !b }

// Not is logical negation of a term.
type Not struct {
	Term Term
}

func (n Not) Fragment() any { return map[string]any{"not": n.Term.Fragment()} }
func (Not) term() {}

// AllOf is conjunction. An empty AllOf is true.
type AllOf []Term

func (a AllOf) Fragment() any {
	if len(a) == 0 {
		return true
	}
	return map[string]any{"allOf": fragments(a)}
}
func (AllOf) term() {}

// AnyOf is disjunction. An empty AnyOf is false.
type AnyOf []Term

func (a AnyOf) Fragment() any {
	if len(a) == 0 {
		return false
	}
	return map[string]any{"anyOf": fragments(a)}
}
func (AnyOf) term() {}

func fragments(ts []Term) []any {
	out := make([]any, len(ts))
	for i, t := range ts {
		out[i] = t.Fragment()
	}
	return out
}

// And conjoins terms, dropping true operands and collapsing to false as soon
// as one operand is false. It returns the bare operand when only one remains.
func And(ts ...Term) Term {
	out := make(AllOf, 0, len(ts))
	for _, t := range ts {
		if b, ok := t.(Bool); ok {
			if !b {
				return Bool(false)
			}
			continue
		}
		out = append(out, t)
	}
	switch len(out) {
	case 0:
		return Bool(true)
	case 1:
		return out[0]
	}
	return out
}

// Or is the dual of And.
func Or(ts ...Term) Term {
	out := make(AnyOf, 0, len(ts))
	for _, t := range ts {
		if b, ok := t.(Bool); ok {
			if b {
				return Bool(true)
			}
			continue
		}
		out = append(out, t)
	}
	switch len(out) {
	case 0:
		return Bool(false)
	case 1:
		return out[0]
	}
	return out
}

// IsLiteral reports whether t is a predicate or a Not directly wrapping one.
func IsLiteral(t Term) bool {
	switch t := t.(type) {
	case Predicate:
		return true
	case Not:
		_, ok := t.Term.(Predicate)
		return ok
	}
	return false
}
