package schemalogic

import (
	"fmt"
	"net/url"
	"sort"

	"github.com/speakeasy-api/schemalogic/logic"
	"github.com/speakeasy-api/schemalogic/plugins"
)

// splitter turns schema objects into terms. It implements plugins.Splitter
// for one base URI; sub-schemas with an $id get a child splitter.
type splitter struct {
	q    *query
	base *url.URL
	// expanding holds the references currently being expanded, shared by
	// every splitter of the query.
	expanding map[string]bool
	refDepth  int
}

func (q *query) newSplitter(base *url.URL) *splitter {
	return &splitter{q: q, base: base, expanding: map[string]bool{}}
}

func (s *splitter) child(base *url.URL, refDepth int) *splitter {
	return &splitter{q: s.q, base: base, expanding: s.expanding, refDepth: refDepth}
}

// Split runs every registered extractor on schema and conjoins the results.
func (s *splitter) Split(schema any) (logic.Term, error) {
	switch v := schema.(type) {
	case bool:
		return logic.Bool(v), nil
	case map[string]any:
		return s.splitObject(v)
	default:
		// not a schema; accepts everything
		return logic.Bool(true), nil
	}
}

func (s *splitter) splitObject(schema map[string]any) (logic.Term, error) {
	cur := s
	if base := withID(schema, s.base); base != s.base {
		cur = s.child(base, s.refDepth)
	}

	var terms []logic.Term
	for _, e := range s.q.registry.extractors {
		t, err := e.Extract(schema, cur)
		if err != nil {
			return nil, fmt.Errorf("extractor %s: %w", e.ID(), err)
		}
		if t == nil {
			continue
		}
		if b, ok := t.(logic.Bool); ok {
			if !b {
				return logic.Bool(false), nil
			}
			continue
		}
		terms = append(terms, t)
	}
	terms = append(terms, cur.opaque(schema)...)
	return logic.And(terms...), nil
}

// opaque carries assertion keywords no registered extractor owns.
func (s *splitter) opaque(schema map[string]any) []logic.Term {
	keys := make([]string, 0, len(schema))
	for k := range schema {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []logic.Term
	seen := map[string]bool{}
	add := func(p logic.Opaque) {
		key := logic.Key(p)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, p)
	}
	for _, k := range keys {
		if s.q.registry.declared[k] {
			continue
		}
		if k == "format" && s.q.registry.formatAsserted {
			s.q.log.Debugf("carrying format as an opaque string assertion")
			add(logic.Opaque{
				Keyword: k,
				Value:   map[string]any{k: schema[k]},
				Dom:     logic.SetOf(logic.TypeString),
			})
			continue
		}
		p, ok := plugins.OpaqueFor(k, schema)
		if !ok {
			continue
		}
		s.q.log.Warnf("no extractor for %s, carrying it as an opaque predicate", k)
		add(p)
	}
	return out
}

// ExpandRef resolves ref against the current base and splits the target.
// A reference that is already being expanded, that exceeds the depth limit
// or that cannot be resolved becomes a Ref atom.
func (s *splitter) ExpandRef(ref string) (logic.Term, error) {
	target, base, abs, ok := s.q.resolver.resolve(s.base, ref)
	if !ok {
		s.q.log.Warnf("unresolved $ref %s", abs)
		return logic.Ref{URI: abs}, nil
	}
	if s.expanding[abs] {
		return logic.Ref{URI: abs}, nil
	}
	if s.refDepth >= s.q.opts.MaxRefDepth {
		s.q.log.Debugf("$ref %s exceeds depth %d", abs, s.q.opts.MaxRefDepth)
		return logic.Ref{URI: abs}, nil
	}

	s.expanding[abs] = true
	defer delete(s.expanding, abs)
	t, err := s.child(base, s.refDepth+1).Split(target)
	if err != nil {
		return nil, err
	}
	return t, nil
}
