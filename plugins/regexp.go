package plugins

import (
	"time"

	"github.com/dlclark/regexp2"

	"github.com/speakeasy-api/schemalogic/logic"
)

// DefaultMatchTimeout bounds a single pattern match.
const DefaultMatchTimeout = time.Second

// Patterns compiles JSON Schema patterns with ECMA-262 semantics and caches
// them for the lifetime of one query. It is not safe for concurrent use.
type Patterns struct {
	// Timeout bounds each match. Zero means DefaultMatchTimeout.
	Timeout time.Duration

	compiled map[string]*regexp2.Regexp
	failed   map[string]error
	timeouts int
}

func NewPatterns() *Patterns {
	return &Patterns{
		compiled: make(map[string]*regexp2.Regexp),
		failed:   make(map[string]error),
	}
}

// Compile compiles src, or returns the cached result of an earlier call.
func (p *Patterns) Compile(src string) (*regexp2.Regexp, error) {
	if re, ok := p.compiled[src]; ok {
		return re, nil
	}
	if err, ok := p.failed[src]; ok {
		return nil, err
	}
	re, err := regexp2.Compile(src, regexp2.ECMAScript)
	if err != nil {
		p.failed[src] = err
		return nil, err
	}
	re.MatchTimeout = p.Timeout
	if re.MatchTimeout <= 0 {
		re.MatchTimeout = DefaultMatchTimeout
	}
	p.compiled[src] = re
	return re, nil
}

// MatchString runs a compiled pattern. A match that times out is counted
// and reported as an error.
func (p *Patterns) MatchString(re *regexp2.Regexp, s string) (bool, error) {
	ok, err := re.MatchString(s)
	if err != nil {
		p.timeouts++
		return false, err
	}
	return ok, nil
}

// Timeouts returns how many matches have timed out so far.
func (p *Patterns) Timeouts() int { return p.timeouts }

// Match reports whether s matches the pattern. An invalid pattern or a
// match that times out gives Unknown.
func (p *Patterns) Match(pattern, s string) logic.Tri {
	re, err := p.Compile(pattern)
	if err != nil {
		return logic.Unknown
	}
	ok, err := p.MatchString(re, s)
	if err != nil {
		return logic.Unknown
	}
	return logic.FromBool(ok)
}
