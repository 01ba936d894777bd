package plugins

import (
	"fmt"

	"github.com/speakeasy-api/schemalogic/logic"
)

// ArrayExtractor handles the array keywords, including the draft 4 tuple
// form of items with additionalItems.
type ArrayExtractor struct{}

func (ArrayExtractor) ID() string { return "array" }
func (ArrayExtractor) Keywords() []string {
	return []string{"minItems", "maxItems", "uniqueItems", "prefixItems", "items", "additionalItems", "contains"}
}

func (ArrayExtractor) Extract(schema map[string]any, s Splitter) (logic.Term, error) {
	var terms []logic.Term
	if n, ok := Number(schema["minItems"]); ok && n > 0 {
		terms = append(terms, logic.MinItems{Value: n})
	}
	if n, ok := Number(schema["maxItems"]); ok && n >= 0 {
		terms = append(terms, logic.MaxItems{Value: n})
	}
	if u, _ := schema["uniqueItems"].(bool); u {
		terms = append(terms, logic.UniqueItems{})
	}

	// prefixItems, or the tuple form of items followed by additionalItems
	prefix, hasPrefix := SchemaList(schema["prefixItems"])
	rest, restKey := schema["items"], "items"
	if !hasPrefix {
		if tuple, ok := SchemaList(schema["items"]); ok {
			prefix, hasPrefix = tuple, true
			rest, restKey = schema["additionalItems"], "additionalItems"
		}
	}
	if hasPrefix {
		for i, sub := range prefix {
			t, err := s.Split(sub)
			if err != nil {
				return nil, fmt.Errorf("failed to split prefix item %d: %w", i, err)
			}
			if t != logic.Bool(true) {
				terms = append(terms, logic.PrefixItem{Index: i, Schema: t})
			}
		}
	}
	if Schema(rest) {
		t, err := s.Split(rest)
		if err != nil {
			return nil, fmt.Errorf("failed to split %s: %w", restKey, err)
		}
		if t != logic.Bool(true) {
			terms = append(terms, logic.Items{Start: len(prefix), Schema: t})
		}
	}

	// minContains and maxContains change what contains means; without a
	// plugin for them they stay opaque together with contains.
	_, minC := schema["minContains"]
	_, maxC := schema["maxContains"]
	if sub := schema["contains"]; Schema(sub) && !minC && !maxC {
		t, err := s.Split(sub)
		if err != nil {
			return nil, fmt.Errorf("failed to split contains: %w", err)
		}
		terms = append(terms, logic.Contains{Schema: t})
	}
	return logic.And(terms...), nil
}

// ObjectExtractor handles the object keywords.
type ObjectExtractor struct{}

func (ObjectExtractor) ID() string { return "object" }
func (ObjectExtractor) Keywords() []string {
	return []string{
		"required", "minProperties", "maxProperties", "properties",
		"patternProperties", "additionalProperties", "propertyNames",
	}
}

func (ObjectExtractor) Extract(schema map[string]any, s Splitter) (logic.Term, error) {
	var terms []logic.Term
	if req, ok := schema["required"].([]any); ok {
		for _, r := range req {
			if name, ok := r.(string); ok {
				terms = append(terms, logic.Required{Name: name})
			}
		}
	}
	if n, ok := Number(schema["minProperties"]); ok && n > 0 {
		terms = append(terms, logic.MinProperties{Value: n})
	}
	if n, ok := Number(schema["maxProperties"]); ok && n >= 0 {
		terms = append(terms, logic.MaxProperties{Value: n})
	}

	props, _ := SchemaMap(schema["properties"])
	for _, name := range sortedKeys(props) {
		t, err := s.Split(props[name])
		if err != nil {
			return nil, fmt.Errorf("failed to split property %q: %w", name, err)
		}
		if t != logic.Bool(true) {
			terms = append(terms, logic.Property{Name: name, Schema: t})
		}
	}
	patterns, _ := SchemaMap(schema["patternProperties"])
	for _, p := range sortedKeys(patterns) {
		t, err := s.Split(patterns[p])
		if err != nil {
			return nil, fmt.Errorf("failed to split pattern property %q: %w", p, err)
		}
		if t != logic.Bool(true) {
			terms = append(terms, logic.PatternProperty{Pattern: p, Schema: t})
		}
	}
	if sub := schema["additionalProperties"]; Schema(sub) {
		t, err := s.Split(sub)
		if err != nil {
			return nil, fmt.Errorf("failed to split additionalProperties: %w", err)
		}
		if t != logic.Bool(true) {
			terms = append(terms, logic.NewAdditionalProperties(sortedKeys(props), sortedKeys(patterns), t))
		}
	}
	if sub := schema["propertyNames"]; Schema(sub) {
		t, err := s.Split(sub)
		if err != nil {
			return nil, fmt.Errorf("failed to split propertyNames: %w", err)
		}
		if t != logic.Bool(true) {
			terms = append(terms, logic.PropertyNames{Schema: t})
		}
	}
	return logic.And(terms...), nil
}
