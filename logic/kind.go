package logic

// Kind tags every atomic predicate. The set is closed: grouping, negation and
// projection switch over it exhaustively.
type Kind int

const (
	KindBool Kind = iota
	KindType
	KindConst
	KindMultipleOf
	KindMinimum
	KindMaximum
	KindPattern
	KindMinLength
	KindMaxLength
	KindMinItems
	KindMaxItems
	KindUniqueItems
	KindPrefixItem
	KindItems
	KindContains
	KindRequired
	KindMinProperties
	KindMaxProperties
	KindProperty
	KindPatternProperty
	KindAdditionalProperties
	KindPropertyNames
	KindRef
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindType:
		return "type"
	case KindConst:
		return "const"
	case KindMultipleOf:
		return "multipleOf"
	case KindMinimum:
		return "minimum"
	case KindMaximum:
		return "maximum"
	case KindPattern:
		return "pattern"
	case KindMinLength:
		return "minLength"
	case KindMaxLength:
		return "maxLength"
	case KindMinItems:
		return "minItems"
	case KindMaxItems:
		return "maxItems"
	case KindUniqueItems:
		return "uniqueItems"
	case KindPrefixItem:
		return "prefixItem"
	case KindItems:
		return "items"
	case KindContains:
		return "contains"
	case KindRequired:
		return "required"
	case KindMinProperties:
		return "minProperties"
	case KindMaxProperties:
		return "maxProperties"
	case KindProperty:
		return "property"
	case KindPatternProperty:
		return "patternProperty"
	case KindAdditionalProperties:
		return "additionalProperties"
	case KindPropertyNames:
		return "propertyNames"
	case KindRef:
		return "ref"
	case KindOpaque:
		return "opaque"
	default:
		panic(k)
	}
}
