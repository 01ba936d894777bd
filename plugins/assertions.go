package plugins

import (
	"github.com/speakeasy-api/schemalogic/logic"
)

// Assertion describes an assertion keyword well enough to carry it as an
// opaque predicate when no extractor owns it.
type Assertion struct {
	// Domain is the set of types the keyword can reject.
	Domain logic.TypeSet
	// Context lists sibling keywords the keyword's meaning depends on.
	Context []string
	// Whole marks keywords that depend on the entire schema object.
	Whole bool
}

var (
	numbers = logic.SetOf(logic.TypeNumber)
	strs    = logic.SetOf(logic.TypeString)
	arrays  = logic.SetOf(logic.TypeArray)
	objects = logic.SetOf(logic.TypeObject)
)

// Assertions lists every assertion keyword the engine knows about. Keywords
// missing here are annotations or unknown and are ignored.
var Assertions = map[string]Assertion{
	"type":     {Domain: logic.Universe, Context: []string{"nullable"}},
	"nullable": {Domain: logic.Universe, Context: []string{"type"}},
	"const":    {Domain: logic.Universe},
	"enum":     {Domain: logic.Universe},

	"multipleOf":       {Domain: numbers},
	"minimum":          {Domain: numbers, Context: []string{"exclusiveMinimum"}},
	"maximum":          {Domain: numbers, Context: []string{"exclusiveMaximum"}},
	"exclusiveMinimum": {Domain: numbers, Context: []string{"minimum"}},
	"exclusiveMaximum": {Domain: numbers, Context: []string{"maximum"}},

	"pattern":   {Domain: strs},
	"minLength": {Domain: strs},
	"maxLength": {Domain: strs},

	"minItems":        {Domain: arrays},
	"maxItems":        {Domain: arrays},
	"uniqueItems":     {Domain: arrays},
	"prefixItems":     {Domain: arrays},
	"items":           {Domain: arrays, Context: []string{"prefixItems"}},
	"additionalItems": {Domain: arrays, Context: []string{"items"}},
	"contains":        {Domain: arrays, Context: []string{"minContains", "maxContains"}},
	"minContains":     {Domain: arrays, Context: []string{"contains", "maxContains"}},
	"maxContains":     {Domain: arrays, Context: []string{"contains", "minContains"}},
	"unevaluatedItems": {
		Domain: logic.Universe,
		Whole:  true,
	},

	"required":             {Domain: objects},
	"minProperties":        {Domain: objects},
	"maxProperties":        {Domain: objects},
	"properties":           {Domain: objects},
	"patternProperties":    {Domain: objects},
	"additionalProperties": {Domain: objects, Context: []string{"properties", "patternProperties"}},
	"propertyNames":        {Domain: objects},
	"dependentRequired":    {Domain: objects},
	"dependentSchemas":     {Domain: objects},
	"dependencies":         {Domain: objects},
	"unevaluatedProperties": {
		Domain: logic.Universe,
		Whole:  true,
	},

	"$ref":           {Domain: logic.Universe, Whole: true},
	"$dynamicRef":    {Domain: logic.Universe, Whole: true},
	"$dynamicAnchor": {Domain: logic.Universe, Whole: true},
	"not":            {Domain: logic.Universe},
	"allOf":          {Domain: logic.Universe},
	"anyOf":          {Domain: logic.Universe},
	"oneOf":          {Domain: logic.Universe},
	"if":             {Domain: logic.Universe, Context: []string{"then", "else"}},
}

// OpaqueFor builds the opaque predicate standing for keyword in schema. The
// predicate's fragment is the keyword with its context, or the whole object,
// so that it means exactly what the keyword means in place.
func OpaqueFor(keyword string, schema map[string]any) (logic.Opaque, bool) {
	a, ok := Assertions[keyword]
	if !ok {
		return logic.Opaque{}, false
	}
	if _, present := schema[keyword]; !present {
		return logic.Opaque{}, false
	}
	if a.Whole {
		return logic.Opaque{Keyword: keyword, Value: schema, Dom: a.Domain}, true
	}
	frag := map[string]any{keyword: schema[keyword]}
	for _, k := range a.Context {
		if v, ok := schema[k]; ok {
			frag[k] = v
		}
	}
	return logic.Opaque{Keyword: keyword, Value: frag, Dom: a.Domain}, true
}
