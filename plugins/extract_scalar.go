package plugins

import (
	"github.com/speakeasy-api/schemalogic/logic"
)

// StringExtractor handles pattern, minLength and maxLength.
type StringExtractor struct{}

func (StringExtractor) ID() string { return "string" }
func (StringExtractor) Keywords() []string {
	return []string{"pattern", "minLength", "maxLength"}
}

func (StringExtractor) Extract(schema map[string]any, _ Splitter) (logic.Term, error) {
	var terms []logic.Term
	if p, ok := schema["pattern"].(string); ok {
		terms = append(terms, logic.Pattern{Source: p})
	}
	if n, ok := Number(schema["minLength"]); ok && n > 0 {
		terms = append(terms, logic.MinLength{Value: n})
	}
	if n, ok := Number(schema["maxLength"]); ok && n >= 0 {
		terms = append(terms, logic.MaxLength{Value: n})
	}
	return logic.And(terms...), nil
}

// NumberExtractor handles numeric bounds, in both the numeric and the
// draft 4 boolean form of the exclusive keywords, and multipleOf.
type NumberExtractor struct{}

func (NumberExtractor) ID() string { return "number" }
func (NumberExtractor) Keywords() []string {
	return []string{"minimum", "maximum", "exclusiveMinimum", "exclusiveMaximum", "multipleOf"}
}

func (NumberExtractor) Extract(schema map[string]any, _ Splitter) (logic.Term, error) {
	var terms []logic.Term

	exclMin, _ := schema["exclusiveMinimum"].(bool)
	exclMax, _ := schema["exclusiveMaximum"].(bool)
	if n, ok := Number(schema["minimum"]); ok {
		terms = append(terms, logic.Minimum{Value: n, Exclusive: exclMin})
	}
	if n, ok := Number(schema["maximum"]); ok {
		terms = append(terms, logic.Maximum{Value: n, Exclusive: exclMax})
	}
	if n, ok := Number(schema["exclusiveMinimum"]); ok {
		terms = append(terms, logic.Minimum{Value: n, Exclusive: true})
	}
	if n, ok := Number(schema["exclusiveMaximum"]); ok {
		terms = append(terms, logic.Maximum{Value: n, Exclusive: true})
	}
	if n, ok := Number(schema["multipleOf"]); ok && n > 0 {
		terms = append(terms, logic.MultipleOf{Value: n})
	}
	return logic.And(terms...), nil
}
