package schemalogic

import (
	"github.com/speakeasy-api/schemalogic/logic"
	"github.com/speakeasy-api/schemalogic/plugins"
)

// dnfFragment renders t as a JSON Schema in disjunctive form: false, true, a
// single fragment or {anyOf: [...]}.
func (q *query) dnfFragment(t logic.Term) (any, error) {
	if !q.opts.DisableSATPrecheck && logic.Unsatisfiable(t) {
		return false, nil
	}
	dnf := logic.Normalize(t)

	var out []any
	seen := map[string]bool{}
	add := func(frag any) {
		fp := logic.Fingerprint(frag)
		if seen[fp] {
			return
		}
		seen[fp] = true
		out = append(out, frag)
	}

	for _, c := range dnf {
		r, err := q.simplifyConjunction(c, true)
		if err != nil {
			return nil, err
		}
		frags, universe := disjunctFragments(r)
		if universe {
			return true, nil
		}
		for _, f := range frags {
			add(f)
		}
	}

	switch len(out) {
	case 0:
		return false, nil
	case 1:
		return out[0], nil
	}
	return map[string]any{"anyOf": out}, nil
}

// disjunctFragments lists one fragment per constrained type of a disjunct
// and a single {type: [...]} for the unconstrained ones. universe is set
// when the disjunct accepts everything.
func disjunctFragments(r conjunctionResult) (frags []any, universe bool) {
	var free logic.TypeSet
	for _, t := range r.types {
		if t.Status == plugins.StatusEmpty {
			continue
		}
		if len(t.Fragment) == 0 {
			free = free.Union(logic.SetOf(t.Type))
			continue
		}
		frag := map[string]any{}
		if _, ok := t.Fragment["const"]; !ok {
			frag["type"] = t.Type.String()
		}
		plugins.Merge(frag, t.Fragment)
		frags = append(frags, frag)
	}
	if free.IsUniverse() {
		return nil, true
	}
	if !free.Empty() {
		frags = append([]any{map[string]any{"type": free.TypeFragment()}}, frags...)
	}
	return frags, false
}
