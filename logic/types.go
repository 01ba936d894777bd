package logic

import (
	"math"
	"strings"
)

// JSONType is one of the six JSON value types the engine reasons about.
// integer is not a type here: it is number with multipleOf 1.
type JSONType uint8

const (
	TypeNull JSONType = 1 << iota
	TypeNumber
	TypeString
	TypeBoolean
	TypeArray
	TypeObject
)

var allTypes = []JSONType{TypeNull, TypeNumber, TypeString, TypeBoolean, TypeArray, TypeObject}

func (t JSONType) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeBoolean:
		return "boolean"
	case TypeArray:
		return "array"
	case TypeObject:
		return "object"
	default:
		panic(uint8(t))
	}
}

// Finite reports whether the type has finitely many values.
func (t JSONType) Finite() bool {
	return t == TypeNull || t == TypeBoolean
}

// ParseType maps a JSON Schema type name onto a JSONType. "integer" is not
// accepted; callers expand it themselves.
func ParseType(name string) (JSONType, bool) {
	for _, t := range allTypes {
		if t.String() == name {
			return t, true
		}
	}
	return 0, false
}

// TypeSet is a set of JSON types.
type TypeSet uint8

// Universe contains every JSON type.
const Universe = TypeSet(TypeNull | TypeNumber | TypeString | TypeBoolean | TypeArray | TypeObject)

// SetOf builds a TypeSet from individual types.
func SetOf(types ...JSONType) TypeSet {
	var s TypeSet
	for _, t := range types {
		s |= TypeSet(t)
	}
	return s
}

func (s TypeSet) Has(t JSONType) bool { return s&TypeSet(t) != 0 }

func (s TypeSet) Intersect(o TypeSet) TypeSet { return s & o }

func (s TypeSet) Union(o TypeSet) TypeSet { return s | o }

func (s TypeSet) Complement() TypeSet { return Universe &^ s }

func (s TypeSet) Empty() bool { return s&Universe == 0 }

func (s TypeSet) IsUniverse() bool { return s&Universe == Universe }

// Types lists the members in a fixed order.
func (s TypeSet) Types() []JSONType {
	out := make([]JSONType, 0, len(allTypes))
	for _, t := range allTypes {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

// Names lists the member names in the same order as Types.
func (s TypeSet) Names() []string {
	types := s.Types()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return names
}

func (s TypeSet) String() string {
	return "{" + strings.Join(s.Names(), ",") + "}"
}

// TypeFragment renders the set as the value of a "type" keyword.
func (s TypeSet) TypeFragment() any {
	names := s.Names()
	if len(names) == 1 {
		return names[0]
	}
	out := make([]any, len(names))
	for i, n := range names {
		out[i] = n
	}
	return out
}

// TypeOf returns the JSON type of a decoded JSON value.
func TypeOf(v any) (JSONType, bool) {
	switch v := v.(type) {
	case nil:
		return TypeNull, true
	case bool:
		return TypeBoolean, true
	case string:
		return TypeString, true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return TypeNumber, true
	case int, int32, int64, float32, uint, uint32, uint64:
		return TypeNumber, true
	case []any:
		return TypeArray, true
	case map[string]any:
		return TypeObject, true
	default:
		return 0, false
	}
}
