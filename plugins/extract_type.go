package plugins

import (
	"github.com/speakeasy-api/schemalogic/logic"
)

// TypeExtractor handles type and the OpenAPI 3.0 nullable flag. boolean and
// null become constants; integer becomes number with multipleOf 1.
type TypeExtractor struct{}

func (TypeExtractor) ID() string         { return "type" }
func (TypeExtractor) Keywords() []string { return []string{"type", "nullable"} }

func (TypeExtractor) Extract(schema map[string]any, _ Splitter) (logic.Term, error) {
	names, ok := typeNames(schema["type"])
	if !ok {
		return logic.Bool(true), nil
	}
	if nullable, _ := schema["nullable"].(bool); nullable {
		names = append(names, "null")
	}

	var (
		set     logic.TypeSet
		integer bool
		boolean bool
		null    bool
	)
	for _, name := range names {
		switch name {
		case "integer":
			integer = true
		case "boolean":
			boolean = true
		case "null":
			null = true
		default:
			if t, ok := logic.ParseType(name); ok {
				set |= logic.SetOf(t)
			}
		}
	}

	var alts []logic.Term
	if !set.Empty() {
		alts = append(alts, logic.Type{Types: set})
	}
	if integer && !set.Has(logic.TypeNumber) {
		alts = append(alts, logic.AllOf{logic.Type{Types: logic.SetOf(logic.TypeNumber)}, logic.MultipleOf{Value: 1}})
	}
	if boolean {
		alts = append(alts, logic.Const{Value: true}, logic.Const{Value: false})
	}
	if null {
		alts = append(alts, logic.Const{Value: nil})
	}
	return logic.Or(alts...), nil
}

// typeNames reads a type keyword: a name or a non-empty list of names.
func typeNames(v any) ([]string, bool) {
	switch v := v.(type) {
	case string:
		return []string{v}, true
	case []any:
		if len(v) == 0 {
			return nil, false
		}
		names := make([]string, 0, len(v))
		for _, n := range v {
			s, ok := n.(string)
			if !ok {
				return nil, false
			}
			names = append(names, s)
		}
		return names, true
	default:
		return nil, false
	}
}

// ConstExtractor handles const and enum. A present const wins over enum.
type ConstExtractor struct{}

func (ConstExtractor) ID() string         { return "const" }
func (ConstExtractor) Keywords() []string { return []string{"const", "enum"} }

func (ConstExtractor) Extract(schema map[string]any, _ Splitter) (logic.Term, error) {
	enum, hasEnum := schema["enum"].([]any)
	hasEnum = hasEnum && len(enum) > 0

	if c, ok := schema["const"]; ok {
		if hasEnum && !contains(enum, c) {
			return logic.Bool(false), nil
		}
		return logic.Const{Value: c}, nil
	}
	if !hasEnum {
		return logic.Bool(true), nil
	}

	alts := make([]logic.Term, 0, len(enum))
	seen := make(map[string]bool, len(enum))
	for _, v := range enum {
		key := logic.CanonicalKey(v)
		if seen[key] {
			continue
		}
		seen[key] = true
		alts = append(alts, logic.Const{Value: v})
	}
	return logic.Or(alts...), nil
}

func contains(list []any, v any) bool {
	for _, e := range list {
		if logic.Equal(e, v) {
			return true
		}
	}
	return false
}
