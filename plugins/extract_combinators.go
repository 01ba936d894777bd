package plugins

import (
	"fmt"

	"github.com/speakeasy-api/schemalogic/logic"
)

// RefExtractor expands $ref. $dynamicRef and $dynamicAnchor depend on the
// dynamic scope of evaluation and are rejected.
type RefExtractor struct{}

func (RefExtractor) ID() string { return "ref" }
func (RefExtractor) Keywords() []string {
	return []string{"$ref", "$dynamicRef", "$dynamicAnchor"}
}

func (RefExtractor) Extract(schema map[string]any, s Splitter) (logic.Term, error) {
	for _, kw := range []string{"$dynamicRef", "$dynamicAnchor"} {
		if _, ok := schema[kw]; ok {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedKeyword, kw)
		}
	}
	ref, ok := schema["$ref"].(string)
	if !ok {
		return logic.Bool(true), nil
	}
	t, err := s.ExpandRef(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to expand $ref %q: %w", ref, err)
	}
	return t, nil
}

// NotExtractor handles not.
type NotExtractor struct{}

func (NotExtractor) ID() string         { return "not" }
func (NotExtractor) Keywords() []string { return []string{"not"} }

func (NotExtractor) Extract(schema map[string]any, s Splitter) (logic.Term, error) {
	sub := schema["not"]
	if !Schema(sub) {
		return logic.Bool(true), nil
	}
	t, err := s.Split(sub)
	if err != nil {
		return nil, fmt.Errorf("failed to split not: %w", err)
	}
	if b, ok := t.(logic.Bool); ok {
		return !b, nil
	}
	return logic.Not{Term: t}, nil
}

func splitAll(keyword string, list []any, s Splitter) ([]logic.Term, error) {
	terms := make([]logic.Term, len(list))
	for i, sub := range list {
		t, err := s.Split(sub)
		if err != nil {
			return nil, fmt.Errorf("failed to split %s[%d]: %w", keyword, i, err)
		}
		terms[i] = t
	}
	return terms, nil
}

// AllOfExtractor handles allOf.
type AllOfExtractor struct{}

func (AllOfExtractor) ID() string         { return "allOf" }
func (AllOfExtractor) Keywords() []string { return []string{"allOf"} }

func (AllOfExtractor) Extract(schema map[string]any, s Splitter) (logic.Term, error) {
	list, ok := SchemaList(schema["allOf"])
	if !ok {
		return logic.Bool(true), nil
	}
	terms, err := splitAll("allOf", list, s)
	if err != nil {
		return nil, err
	}
	return logic.And(terms...), nil
}

// AnyOfExtractor handles anyOf.
type AnyOfExtractor struct{}

func (AnyOfExtractor) ID() string         { return "anyOf" }
func (AnyOfExtractor) Keywords() []string { return []string{"anyOf"} }

func (AnyOfExtractor) Extract(schema map[string]any, s Splitter) (logic.Term, error) {
	list, ok := SchemaList(schema["anyOf"])
	if !ok {
		return logic.Bool(true), nil
	}
	terms, err := splitAll("anyOf", list, s)
	if err != nil {
		return nil, err
	}
	return logic.Or(terms...), nil
}

// OneOfExtractor expands oneOf into n disjuncts, each asserting one branch
// and negating all the others. Exactly-one-of-n has no smaller DNF.
type OneOfExtractor struct{}

func (OneOfExtractor) ID() string         { return "oneOf" }
func (OneOfExtractor) Keywords() []string { return []string{"oneOf"} }

func (OneOfExtractor) Extract(schema map[string]any, s Splitter) (logic.Term, error) {
	list, ok := SchemaList(schema["oneOf"])
	if !ok {
		return logic.Bool(true), nil
	}
	branches, err := splitAll("oneOf", list, s)
	if err != nil {
		return nil, err
	}
	if len(branches) == 1 {
		return branches[0], nil
	}

	alts := make([]logic.Term, len(branches))
	for i, b := range branches {
		conj := logic.AllOf{b}
		for j, other := range branches {
			if j != i {
				conj = append(conj, logic.Not{Term: other})
			}
		}
		alts[i] = conj
	}
	return logic.AnyOf(alts), nil
}

// ConditionalExtractor encodes if/then/else as
// (NOT if OR then) AND (if OR else), each half only when its keyword exists.
type ConditionalExtractor struct{}

func (ConditionalExtractor) ID() string         { return "conditional" }
func (ConditionalExtractor) Keywords() []string { return []string{"if", "then", "else"} }

func (ConditionalExtractor) Extract(schema map[string]any, s Splitter) (logic.Term, error) {
	cond := schema["if"]
	if !Schema(cond) {
		return logic.Bool(true), nil
	}
	thenSchema, hasThen := schema["then"], Schema(schema["then"])
	elseSchema, hasElse := schema["else"], Schema(schema["else"])
	if !hasThen && !hasElse {
		return logic.Bool(true), nil
	}

	ifTerm, err := s.Split(cond)
	if err != nil {
		return nil, fmt.Errorf("failed to split if: %w", err)
	}
	var parts []logic.Term
	if hasThen {
		t, err := s.Split(thenSchema)
		if err != nil {
			return nil, fmt.Errorf("failed to split then: %w", err)
		}
		parts = append(parts, logic.Or(logic.Not{Term: ifTerm}, t))
	}
	if hasElse {
		t, err := s.Split(elseSchema)
		if err != nil {
			return nil, fmt.Errorf("failed to split else: %w", err)
		}
		parts = append(parts, logic.Or(ifTerm, t))
	}
	return logic.And(parts...), nil
}
