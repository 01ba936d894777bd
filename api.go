// Package schemalogic answers static questions about JSON Schemas: whether a
// schema accepts no value, every value, or only values another schema
// accepts. Answers are three-valued; logic.Unknown means the engine could
// not decide, never that the answer is false.
//
// Example:
//
//	verdict, err := schemalogic.SchemaDescribesEmptySet(map[string]any{
//		"type":    "number",
//		"minimum": 2.0,
//		"maximum": 1.0,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(verdict) // true
package schemalogic

import (
	"fmt"

	"github.com/google/go-cmp/cmp"

	"github.com/speakeasy-api/schemalogic/logic"
)

// SchemaDescribesEmptySet reports whether no JSON value satisfies schema.
func SchemaDescribesEmptySet(schema any, opts ...Options) (logic.Tri, error) {
	q := newQuery(pickOptions(opts))
	terms, err := q.load(schema)
	if err != nil {
		return logic.Unknown, err
	}
	return q.run(terms[0])
}

// SchemaDescribesUniverse reports whether every JSON value satisfies schema.
func SchemaDescribesUniverse(schema any, opts ...Options) (logic.Tri, error) {
	q := newQuery(pickOptions(opts))
	terms, err := q.load(schema)
	if err != nil {
		return logic.Unknown, err
	}
	return q.run(logic.Not{Term: terms[0]})
}

// SchemaDescribesSubset reports whether every value accepted by a is
// accepted by b. Two different schemas claiming the same $id are an error.
func SchemaDescribesSubset(a, b any, opts ...Options) (logic.Tri, error) {
	opt := pickOptions(opts)
	q := newQuery(opt)
	terms, err := q.load(a, b)
	if err != nil {
		return logic.Unknown, err
	}
	// load has rejected different schemas sharing an $id
	if sameResource(a, b, opt.BaseURI) {
		return logic.True, nil
	}
	return q.run(logic.AllOf{terms[0], logic.Not{Term: terms[1]}})
}

// SchemasAreEquivalent reports whether a and b accept the same values.
func SchemasAreEquivalent(a, b any, opts ...Options) (logic.Tri, error) {
	ab, err := SchemaDescribesSubset(a, b, opts...)
	if err != nil || ab == logic.False {
		return ab, err
	}
	ba, err := SchemaDescribesSubset(b, a, opts...)
	if err != nil {
		return logic.Unknown, err
	}
	return ab.And(ba), nil
}

// ToDNF rewrites schema as a disjunction of simplified fragments. The result
// is false, true, a single schema object or {anyOf: [...]}. Fragments that
// the engine could not simplify keep the original constraints under allOf.
func ToDNF(schema any, opts ...Options) (any, error) {
	q := newQuery(pickOptions(opts))
	terms, err := q.load(schema)
	if err != nil {
		return nil, err
	}
	out, err := q.dnfFragment(terms[0])
	if err != nil {
		return nil, fmt.Errorf("failed to build DNF: %w", err)
	}
	if q.err != nil {
		return nil, fmt.Errorf("failed to build DNF: %w", q.err)
	}
	return out, nil
}

func (q *query) run(t logic.Term) (logic.Tri, error) {
	verdict, err := q.isEmpty(t)
	if err == nil {
		err = q.err
	}
	if err != nil {
		return logic.Unknown, fmt.Errorf("failed to decide emptiness: %w", err)
	}
	q.log.Infof("verdict %s", verdict)
	return verdict, nil
}

// sameResource reports whether a and b are the same schema by identity:
// the same $id, the same lone $ref, or equal documents.
func sameResource(a, b any, base string) bool {
	ma, okA := a.(map[string]any)
	mb, okB := b.(map[string]any)
	if okA && okB {
		if ida, ok := ma["$id"].(string); ok && ida != "" {
			if idb, ok := mb["$id"].(string); ok && resolveAgainst(base, ida) == resolveAgainst(base, idb) {
				return true
			}
		}
		if ra, ok := loneRef(ma); ok {
			if rb, ok := loneRef(mb); ok && ra == rb {
				return true
			}
		}
	}
	return cmp.Equal(a, b)
}

func loneRef(m map[string]any) (string, bool) {
	if len(m) != 1 {
		return "", false
	}
	ref, ok := m["$ref"].(string)
	return ref, ok
}
