package schemalogic

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/speakeasy-api/schemalogic/logic"
	"github.com/speakeasy-api/schemalogic/plugins"
	"github.com/speakeasy-api/schemalogic/validate"
)

// ErrUnsupportedKeyword is returned when a schema uses a keyword that cannot
// be analysed soundly.
var ErrUnsupportedKeyword = plugins.ErrUnsupportedKeyword

// ErrPluginContract is returned when a simplification plugin emits a keyword
// it did not declare.
var ErrPluginContract = errors.New("plugin contract violation")

// query is the state of one public call. Nothing in it outlives the call.
type query struct {
	opts      Options
	log       Logger
	registry  *registry
	resolver  *resolver
	validator *validate.Validator

	depth int
	// err is the first error met below an oracle call, which cannot return
	// one.
	err error
}

func newQuery(opts Options) *query {
	return &query{
		opts:     opts,
		log:      newQueryLogger(opts),
		registry: newRegistry(opts),
		resolver: newResolver(),
	}
}

// load registers the definitions and the root schemas and splits each root
// against its own document.
func (q *query) load(roots ...any) ([]logic.Term, error) {
	for uri, doc := range q.opts.Definitions {
		if _, err := q.resolver.addDocument(uri, doc); err != nil {
			return nil, fmt.Errorf("failed to register definition: %w", err)
		}
	}
	bases := make([]*url.URL, len(roots))
	for i, root := range roots {
		base, err := q.resolver.addDocument(rootURI(q.opts.BaseURI, i), root)
		if err != nil {
			return nil, fmt.Errorf("failed to register schema: %w", err)
		}
		bases[i] = base
	}
	q.validator = validate.New(q.resolver.docs, q.registry.validators...)

	terms := make([]logic.Term, len(roots))
	for i, root := range roots {
		t, err := q.newSplitter(bases[i]).Split(root)
		if err != nil {
			return nil, fmt.Errorf("failed to extract schema: %w", err)
		}
		terms[i] = t
	}
	return terms, nil
}

// typeResult is the outcome of simplifying one conjunction for one type.
type typeResult struct {
	Type     logic.JSONType
	Status   plugins.Status
	Fragment map[string]any
}

// emptiness maps a status onto the answer to "is it empty".
func (r typeResult) emptiness() logic.Tri {
	switch r.Status {
	case plugins.StatusEmpty:
		return logic.True
	case plugins.StatusInhabited:
		return logic.False
	default:
		return logic.Unknown
	}
}

// conjunctionResult holds the per-type results of one disjunct.
type conjunctionResult struct {
	types []typeResult
}

// emptiness is the Kleene AND of the per-type answers: the disjunct is empty
// only if every type is.
func (r conjunctionResult) emptiness() logic.Tri {
	out := logic.True
	for _, t := range r.types {
		out = out.And(t.emptiness())
		if out == logic.False {
			return out
		}
	}
	return out
}

// isEmpty decides whether t describes the empty set.
func (q *query) isEmpty(t logic.Term) (logic.Tri, error) {
	if !q.opts.DisableSATPrecheck && logic.Unsatisfiable(t) {
		q.log.Debugf("propositional abstraction is unsatisfiable")
		return logic.True, nil
	}
	dnf := logic.Normalize(t)
	q.log.Debugf("raw DNF has %d disjuncts", len(dnf))

	out := logic.True
	for i, c := range dnf {
		r, err := q.simplifyConjunction(c, false)
		if err != nil {
			return logic.Unknown, err
		}
		verdict := r.emptiness()
		q.log.Debugf("disjunct %d [%s] empty=%s", i, conjunctionSummary(c, q.opts.LogMaxLiterals), verdict)
		out = out.And(verdict)
		if out == logic.False {
			break
		}
	}
	return out, nil
}

// nestedIsEmpty is the oracle's recursion into sub-schemas, bounded by
// MaxDepth.
func (q *query) nestedIsEmpty(t logic.Term) logic.Tri {
	if b, ok := t.(logic.Bool); ok {
		return logic.FromBool(!bool(b))
	}
	if q.err != nil {
		return logic.Unknown
	}
	if q.depth >= q.opts.MaxDepth {
		q.log.Debugf("depth limit %d reached", q.opts.MaxDepth)
		return logic.Unknown
	}
	q.depth++
	defer func() { q.depth-- }()

	verdict, err := q.isEmpty(t)
	if err != nil {
		q.err = err
		return logic.Unknown
	}
	return verdict
}

// simplifyConjunction runs the simplification plugins on every type the
// conjunction allows. With all set, types are simplified even after one is
// found inhabited, which ToDNF needs for its fragments.
func (q *query) simplifyConjunction(c logic.Conjunction, all bool) (conjunctionResult, error) {
	g := logic.GroupLiterals(c)
	if g.Resolved && !g.Value {
		return conjunctionResult{}, nil
	}

	var out conjunctionResult
	for _, t := range g.Types.Types() {
		r, err := q.simplifyType(g, t)
		if err != nil {
			return out, err
		}
		out.types = append(out.types, r)
		if !all && r.Status == plugins.StatusInhabited {
			break
		}
	}
	return out, nil
}

func (q *query) simplifyType(g logic.Grouping, t logic.JSONType) (typeResult, error) {
	applicable := g.Applicable(t)
	if len(applicable) == 0 {
		return typeResult{Type: t, Status: plugins.StatusInhabited}, nil
	}

	in := &plugins.Input{
		Type:   t,
		Types:  g.Types,
		Group:  g.Narrow(t),
		Oracle: &oracle{q: q, conjunction: g.Literals.Term().Fragment()},
	}

	consumed := map[logic.Kind]bool{}
	merged := map[string]any{}
	inhabited := false
	for _, s := range q.registry.simplifiersFor(t) {
		for _, k := range s.Kinds() {
			consumed[k] = true
		}
		res, err := s.Simplify(in)
		if err != nil {
			return typeResult{}, fmt.Errorf("simplifier %s: %w", s.ID(), err)
		}
		if q.err != nil {
			return typeResult{}, q.err
		}
		switch res.Status {
		case plugins.StatusEmpty:
			q.log.Debugf("simplifier %s: %s is empty", s.ID(), t)
			return typeResult{Type: t, Status: plugins.StatusEmpty}, nil
		case plugins.StatusInhabited:
			inhabited = true
		}
		if err := checkKeywords(s, res.Fragment); err != nil {
			return typeResult{}, err
		}
		plugins.Merge(merged, res.Fragment)
	}

	leftover := false
	for _, l := range applicable {
		if !consumed[l.Predicate.Kind()] {
			leftover = true
			plugins.AppendAllOf(merged, l.Fragment())
		}
	}

	status := plugins.StatusUnknown
	switch {
	case inhabited:
		status = plugins.StatusInhabited
	case len(merged) == 0 && !leftover:
		status = plugins.StatusInhabited
	}
	return typeResult{Type: t, Status: status, Fragment: merged}, nil
}

func checkKeywords(s plugins.Simplifier, frag map[string]any) error {
	if len(frag) == 0 {
		return nil
	}
	declared := map[string]bool{}
	for _, kw := range s.Keywords() {
		declared[kw] = true
	}
	for kw := range frag {
		if !declared[kw] {
			return fmt.Errorf("%w: simplifier %s produced undeclared keyword %q", ErrPluginContract, s.ID(), kw)
		}
	}
	return nil
}

// oracle answers plugin questions for one conjunction.
type oracle struct {
	q           *query
	conjunction any
}

func (o *oracle) ValidateConst(v any) logic.Tri {
	return o.q.validate(o.conjunction, v)
}

func (o *oracle) Validate(fragment, v any) logic.Tri {
	return o.q.validate(fragment, v)
}

func (o *oracle) IsEmpty(t logic.Term) logic.Tri {
	return o.q.nestedIsEmpty(t)
}

func (o *oracle) MatchPattern(pattern, s string) logic.Tri {
	return o.q.validator.Patterns().Match(pattern, s)
}

func (q *query) validate(fragment, v any) logic.Tri {
	verdict := q.validator.Validate(fragment, v)
	if verdict == logic.Unknown {
		if err := q.validator.Err(fragment); err != nil {
			q.log.Debugf("validator: %v", err)
		}
	}
	return verdict
}
