package logic

import "fmt"

// MoveNotsToLiterals rewrites t so that every Not wraps a predicate.
//
//	NOT (A AND B) = (NOT A) OR (NOT B)
//	NOT (A OR B)  = (NOT A) AND (NOT B)
//	NOT NOT A     = A
//	NOT p         = p.Negate()
//
// Sub-schemas carried inside predicates are left alone.
func MoveNotsToLiterals(t Term) Term {
	switch t := t.(type) {
	case Predicate:
		return t
	case Not:
		return pushNot(t.Term)
	case AllOf:
		out := make(AllOf, len(t))
		for i, c := range t {
			out[i] = MoveNotsToLiterals(c)
		}
		return out
	case AnyOf:
		out := make(AnyOf, len(t))
		for i, c := range t {
			out[i] = MoveNotsToLiterals(c)
		}
		return out
	default:
		panic(fmt.Sprintf("logic: unexpected term %T", t))
	}
}

// pushNot returns the negation of t in negation normal form.
func pushNot(t Term) Term {
	switch t := t.(type) {
	case Predicate:
		// Negate already yields literals; a Not{p} it returns is terminal.
		return t.Negate()
	case Not:
		return MoveNotsToLiterals(t.Term)
	case AllOf:
		out := make(AnyOf, len(t))
		for i, c := range t {
			out[i] = pushNot(c)
		}
		return out
	case AnyOf:
		out := make(AllOf, len(t))
		for i, c := range t {
			out[i] = pushNot(c)
		}
		return out
	default:
		panic(fmt.Sprintf("logic: unexpected term %T", t))
	}
}
