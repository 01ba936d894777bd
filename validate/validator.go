// Package validate provides the concrete validator the engine uses to test
// witness values against schema fragments.
package validate

import (
	"errors"
	"fmt"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/speakeasy-api/schemalogic/logic"
	"github.com/speakeasy-api/schemalogic/plugins"
)

// FragmentBase is the URL prefix fragments are compiled under.
const FragmentBase = "mem://schemalogic/fragment-"

// Plugin extends the underlying compiler, for example with another regexp
// engine or format assertions. Configure runs once per compiler the
// validator builds.
type Plugin interface {
	ID() string
	Configure(c *jsonschema.Compiler, v *Validator) error
}

// Validator tests values against schema fragments. Fragments may reference
// the registered resources by absolute URI. A Validator belongs to a single
// query and is not safe for concurrent use.
type Validator struct {
	resources map[string]any
	plugins   []Plugin
	patterns  *plugins.Patterns

	compiler *jsonschema.Compiler
	compiled map[string]*jsonschema.Schema
	failed   map[string]error
	seq      int
}

// New creates a validator over the given resources, keyed by URI.
func New(resources map[string]any, extra ...Plugin) *Validator {
	return &Validator{
		resources: resources,
		plugins:   extra,
		patterns:  plugins.NewPatterns(),
		compiled:  make(map[string]*jsonschema.Schema),
		failed:    make(map[string]error),
	}
}

func (v *Validator) newCompiler() (*jsonschema.Compiler, error) {
	c := jsonschema.NewCompiler()
	c.DefaultDraft(jsonschema.Draft2020)
	for _, p := range v.plugins {
		if err := p.Configure(c, v); err != nil {
			return nil, fmt.Errorf("failed to configure validation plugin %s: %w", p.ID(), err)
		}
	}
	uris := make([]string, 0, len(v.resources))
	for uri := range v.resources {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	for _, uri := range uris {
		if err := c.AddResource(uri, v.resources[uri]); err != nil {
			return nil, fmt.Errorf("failed to add resource %s: %w", uri, err)
		}
	}
	return c, nil
}

// Compile compiles a fragment, caching by structure.
func (v *Validator) Compile(fragment any) (*jsonschema.Schema, error) {
	key := logic.CanonicalKey(fragment)
	if sch, ok := v.compiled[key]; ok {
		return sch, nil
	}
	if err, ok := v.failed[key]; ok {
		return nil, err
	}

	sch, err := v.compile(fragment)
	if err != nil {
		v.failed[key] = err
		// a failed compile may leave partial state behind
		v.compiler = nil
		return nil, err
	}
	v.compiled[key] = sch
	return sch, nil
}

func (v *Validator) compile(fragment any) (*jsonschema.Schema, error) {
	if v.compiler == nil {
		c, err := v.newCompiler()
		if err != nil {
			return nil, err
		}
		v.compiler = c
	}
	v.seq++
	url := fmt.Sprintf("%s%d.json", FragmentBase, v.seq)
	if err := v.compiler.AddResource(url, fragment); err != nil {
		return nil, fmt.Errorf("failed to add fragment: %w", err)
	}
	sch, err := v.compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("failed to compile fragment: %w", err)
	}
	return sch, nil
}

// Validate reports whether value satisfies fragment. Boolean fragments are
// answered directly; anything that fails to compile or evaluate, or whose
// evaluation hits a pattern match timeout, is Unknown.
func (v *Validator) Validate(fragment, value any) logic.Tri {
	if b, ok := fragment.(bool); ok {
		return logic.FromBool(b)
	}
	sch, err := v.Compile(fragment)
	if err != nil {
		return logic.Unknown
	}
	timeouts := v.patterns.Timeouts()
	err = sch.Validate(value)
	if v.patterns.Timeouts() > timeouts {
		// a timed out match reads as a mismatch
		return logic.Unknown
	}
	if err == nil {
		return logic.True
	}
	var verr *jsonschema.ValidationError
	if errors.As(err, &verr) {
		return logic.False
	}
	return logic.Unknown
}

// Patterns returns the pattern cache shared by the validator and the
// engine for one query.
func (v *Validator) Patterns() *plugins.Patterns { return v.patterns }

// Err returns the compile error recorded for a fragment, if any.
func (v *Validator) Err(fragment any) error {
	return v.failed[logic.CanonicalKey(fragment)]
}
