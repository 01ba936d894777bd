package plugins

// DefaultExtractors returns the built-in extraction plugins in the order
// their terms are conjoined.
func DefaultExtractors() []Extractor {
	return []Extractor{
		TypeExtractor{},
		ConstExtractor{},
		StringExtractor{},
		NumberExtractor{},
		ArrayExtractor{},
		ObjectExtractor{},
		RefExtractor{},
		NotExtractor{},
		AllOfExtractor{},
		AnyOfExtractor{},
		OneOfExtractor{},
		ConditionalExtractor{},
	}
}

// DefaultSimplifiers returns the built-in simplification plugins.
func DefaultSimplifiers() []Simplifier {
	return []Simplifier{
		ConstSimplifier{},
		NumberSimplifier{},
		StringSimplifier{},
		ArraySimplifier{},
		ObjectSimplifier{},
		RefSimplifier{},
	}
}
