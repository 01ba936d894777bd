package logic

import (
	"slices"
	"strings"
)

// Literal is a predicate, possibly negated once.
type Literal struct {
	Predicate Predicate
	Negated   bool
}

func (l Literal) Term() Term {
	if l.Negated {
		return Not{l.Predicate}
	}
	return l.Predicate
}

func (l Literal) Fragment() any { return l.Term().Fragment() }

func (l Literal) String() string {
	s := Key(l.Predicate)
	if l.Negated {
		return "NOT " + s
	}
	return s
}

// Conjunction is one disjunct of a DNF. An empty conjunction is true.
type Conjunction []Literal

func (c Conjunction) Term() Term {
	out := make(AllOf, len(c))
	for i, l := range c {
		out[i] = l.Term()
	}
	return out
}

func (c Conjunction) String() string {
	if len(c) == 0 {
		return "true"
	}
	parts := make([]string, len(c))
	for i, l := range c {
		parts[i] = l.String()
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, " AND ") + ")"
}

// DNF is an OR of conjunctions, exactly two levels deep. Order carries no
// meaning and duplicates are kept. An empty DNF is false.
type DNF []Conjunction

func (d DNF) Term() Term {
	out := make(AnyOf, len(d))
	for i, c := range d {
		out[i] = c.Term()
	}
	return out
}

func (d DNF) String() string {
	if len(d) == 0 {
		return "false"
	}
	parts := make([]string, len(d))
	for i, c := range d {
		parts[i] = c.String()
	}
	return strings.Join(parts, " OR ")
}

// Normalize is MoveNotsToLiterals followed by ToRawDNF.
func Normalize(t Term) DNF {
	return ToRawDNF(MoveNotsToLiterals(t))
}

// ToRawDNF distributes a term whose NOTs only wrap predicates into an OR of
// ANDs of literals. A Not over anything else is pushed down first.
func ToRawDNF(t Term) DNF {
	switch t := t.(type) {
	case Predicate:
		return DNF{{Literal{Predicate: t}}}
	case Not:
		if p, ok := t.Term.(Predicate); ok {
			return DNF{{Literal{Predicate: p, Negated: true}}}
		}
		return ToRawDNF(pushNot(t.Term))
	case AnyOf:
		var out DNF
		for _, c := range t {
			out = append(out, ToRawDNF(c)...)
		}
		return out
	case AllOf:
		return distribute(t)
	default:
		return ToRawDNF(MoveNotsToLiterals(t))
	}
}

// distribute handles AllOf: literals are collected once and prefixed to every
// combination of the nested disjunctions.
func distribute(t AllOf) DNF {
	var literals Conjunction
	var nested []DNF
	for _, c := range t {
		if IsLiteral(c) {
			literals = append(literals, ToRawDNF(c)[0][0])
			continue
		}
		nested = append(nested, ToRawDNF(c))
	}
	if len(nested) == 0 {
		return DNF{literals}
	}
	return crossProduct(literals, nested)
}

// crossProduct computes the cross-product of the nested disjunctions, each
// combination starting with base.
func crossProduct(base Conjunction, lists []DNF) DNF {
	result := DNF{base}
	for _, list := range lists {
		result = combineLists(result, list)
		if len(result) == 0 {
			return result
		}
	}
	return result
}

func combineLists(a, b DNF) DNF {
	result := make(DNF, 0, len(a)*len(b))
	for _, ca := range a {
		for _, cb := range b {
			result = append(result, slices.Concat(ca, cb))
		}
	}
	return result
}
