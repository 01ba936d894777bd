package logic

import (
	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
)

// Propositional pre-check
//
// A term is abstracted to a boolean circuit: one variable per JSON type with
// an exactly-one constraint, one variable per distinct constant (implying its
// type and excluding every other constant) and one free variable per other
// predicate key. If the circuit is unsatisfiable so is the term, whatever the
// predicates mean. The converse does not hold.

// circuitBuilder builds a gini circuit from a term
type circuitBuilder struct {
	c      *logic.C
	types  map[JSONType]z.Lit
	consts map[string]z.Lit
	constT map[string]JSONType
	atoms  map[string]z.Lit
}

func newCircuitBuilder() *circuitBuilder {
	b := &circuitBuilder{
		c:      logic.NewC(),
		types:  make(map[JSONType]z.Lit, len(allTypes)),
		consts: make(map[string]z.Lit),
		constT: make(map[string]JSONType),
		atoms:  make(map[string]z.Lit),
	}
	for _, t := range allTypes {
		b.types[t] = b.c.Lit()
	}
	return b
}

func (b *circuitBuilder) build(t Term) z.Lit {
	switch t := t.(type) {
	case Bool:
		if t {
			return b.c.T
		}
		return b.c.F
	case Type:
		lits := make([]z.Lit, 0, len(allTypes))
		for _, ty := range t.Types.Types() {
			lits = append(lits, b.types[ty])
		}
		if len(lits) == 0 {
			return b.c.F
		}
		return b.c.Ors(lits...)
	case Const:
		return b.constVar(t)
	case Predicate:
		key := Key(t)
		if lit, ok := b.atoms[key]; ok {
			return lit
		}
		lit := b.c.Lit()
		b.atoms[key] = lit
		return lit
	case Not:
		return b.build(t.Term).Not()
	case AllOf:
		if len(t) == 0 {
			return b.c.T
		}
		lits := make([]z.Lit, len(t))
		for i, c := range t {
			lits[i] = b.build(c)
		}
		return b.c.Ands(lits...)
	case AnyOf:
		if len(t) == 0 {
			return b.c.F
		}
		lits := make([]z.Lit, len(t))
		for i, c := range t {
			lits[i] = b.build(c)
		}
		return b.c.Ors(lits...)
	}
	return b.c.Lit()
}

// constVar gets or creates the variable for a constant. Constants whose
// type is not a JSON type get a free variable.
func (b *circuitBuilder) constVar(p Const) z.Lit {
	key := CanonicalKey(p.Value)
	if lit, ok := b.consts[key]; ok {
		return lit
	}
	lit := b.c.Lit()
	b.consts[key] = lit
	if t, ok := TypeOf(p.Value); ok {
		b.constT[key] = t
	}
	return lit
}

// addTheory adds the clauses relating type and constant variables.
func (b *circuitBuilder) addTheory(g *gini.Gini) {
	// at least one type
	for _, t := range allTypes {
		g.Add(b.types[t])
	}
	g.Add(0)
	// at most one type
	for i := 0; i < len(allTypes); i++ {
		for j := i + 1; j < len(allTypes); j++ {
			g.Add(b.types[allTypes[i]].Not())
			g.Add(b.types[allTypes[j]].Not())
			g.Add(0)
		}
	}
	keys := make([]string, 0, len(b.consts))
	for k := range b.consts {
		keys = append(keys, k)
	}
	for i, k := range keys {
		// const => its type
		if t, ok := b.constT[k]; ok {
			g.Add(b.consts[k].Not())
			g.Add(b.types[t])
			g.Add(0)
		}
		for _, o := range keys[i+1:] {
			g.Add(b.consts[k].Not())
			g.Add(b.consts[o].Not())
			g.Add(0)
		}
	}
}

// Unsatisfiable reports whether the propositional abstraction of t has no
// model. True means t describes the empty set.
func Unsatisfiable(t Term) bool {
	b := newCircuitBuilder()
	formula := b.build(t)
	if formula == b.c.F {
		return true
	}

	g := gini.New()
	b.c.ToCnf(g)
	b.addTheory(g)
	g.Assume(formula)
	return g.Solve() == -1
}
