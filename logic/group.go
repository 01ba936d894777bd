package logic

// Grouping is one conjunction's literals sorted by kind, with the type
// literals folded into a single narrowed set.
type Grouping struct {
	// Resolved is set when the conjunction reduced to a constant; Value
	// holds it. A resolved true conjunction still carries Types.
	Resolved bool
	Value    bool

	Types    TypeSet
	Asserted map[Kind][]Predicate
	Negated  map[Kind][]Predicate

	// Literals is the whole conjunction, type literals included. Witness
	// values are validated against it.
	Literals Conjunction
}

// GroupLiterals partitions a conjunction. A false literal or an empty type
// intersection resolves it to false before anything else is looked at.
func GroupLiterals(c Conjunction) Grouping {
	g := Grouping{
		Types:    Universe,
		Asserted: map[Kind][]Predicate{},
		Negated:  map[Kind][]Predicate{},
		Literals: c,
	}
	for _, l := range c {
		switch p := l.Predicate.(type) {
		case Bool:
			if bool(p) == l.Negated {
				return resolvedFalse(c)
			}
		case Type:
			set := p.Types
			if l.Negated {
				set = set.Complement()
			}
			g.Types = g.Types.Intersect(set)
			if g.Types.Empty() {
				return resolvedFalse(c)
			}
		case Const:
			if !l.Negated {
				// A value equal to the constant has the constant's type.
				g.Types = g.Types.Intersect(p.Domain())
				if g.Types.Empty() {
					return resolvedFalse(c)
				}
			}
			g.add(p, l.Negated)
		default:
			g.add(p, l.Negated)
		}
	}
	if len(g.Asserted) == 0 && len(g.Negated) == 0 {
		g.Resolved, g.Value = true, true
	}
	return g
}

func (g *Grouping) add(p Predicate, negated bool) {
	k := p.Kind()
	if negated {
		g.Negated[k] = append(g.Negated[k], p)
	} else {
		g.Asserted[k] = append(g.Asserted[k], p)
	}
}

func resolvedFalse(c Conjunction) Grouping {
	return Grouping{Resolved: true, Value: false, Literals: c}
}

// Applicable returns the literals of the grouping that can reject a value of
// type t, that is whose domain contains t. Type and Bool literals are never
// returned.
func (g Grouping) Applicable(t JSONType) []Literal {
	var out []Literal
	for _, l := range g.Literals {
		switch l.Predicate.(type) {
		case Bool, Type:
			continue
		}
		if l.Predicate.Domain().Has(t) {
			out = append(out, l)
		}
	}
	return out
}

// Narrow returns a copy restricted to literals applicable to t.
func (g Grouping) Narrow(t JSONType) Grouping {
	n := Grouping{
		Types:    g.Types.Intersect(SetOf(t)),
		Asserted: map[Kind][]Predicate{},
		Negated:  map[Kind][]Predicate{},
		Literals: g.Literals,
	}
	for k, ps := range g.Asserted {
		for _, p := range ps {
			if p.Domain().Has(t) {
				n.Asserted[k] = append(n.Asserted[k], p)
			}
		}
	}
	for k, ps := range g.Negated {
		for _, p := range ps {
			if p.Domain().Has(t) {
				n.Negated[k] = append(n.Negated[k], p)
			}
		}
	}
	return n
}
