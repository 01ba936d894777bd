package validate

import (
	"github.com/dlclark/regexp2"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/speakeasy-api/schemalogic/plugins"
)

// ECMARegexp makes pattern and patternProperties use ECMA-262 semantics
// through regexp2 instead of RE2.
type ECMARegexp struct{}

func (ECMARegexp) ID() string { return "ecma-regexp" }

func (ECMARegexp) Configure(c *jsonschema.Compiler, v *Validator) error {
	c.UseRegexpEngine(func(src string) (jsonschema.Regexp, error) {
		re, err := v.patterns.Compile(src)
		if err != nil {
			return nil, err
		}
		return ecmaRegexp{re: re, patterns: v.patterns}, nil
	})
	return nil
}

type ecmaRegexp struct {
	re       *regexp2.Regexp
	patterns *plugins.Patterns
}

// MatchString reports a timeout as a mismatch; Validate turns it into
// Unknown through the pattern cache's timeout count.
func (r ecmaRegexp) MatchString(s string) bool {
	ok, err := r.patterns.MatchString(r.re, s)
	return err == nil && ok
}

func (r ecmaRegexp) String() string { return r.re.String() }

// FormatAssertion turns format into an assertion. It is off by default;
// when enabled the engine also treats format as an opaque string constraint.
type FormatAssertion struct{}

func (FormatAssertion) ID() string { return "format-assertion" }

func (FormatAssertion) Configure(c *jsonschema.Compiler, _ *Validator) error {
	c.AssertFormat()
	return nil
}

// DefaultPlugins returns the validation plugins enabled by default.
func DefaultPlugins() []Plugin {
	return []Plugin{ECMARegexp{}}
}
