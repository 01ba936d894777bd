package schemalogic

import (
	"github.com/speakeasy-api/schemalogic/logic"
	"github.com/speakeasy-api/schemalogic/plugins"
	"github.com/speakeasy-api/schemalogic/validate"
)

// registry is the plugin set of one query, built from the built-in
// catalogue and the caller's overrides.
type registry struct {
	extractors  []plugins.Extractor
	simplifiers []plugins.Simplifier
	validators  []validate.Plugin

	// declared holds every keyword some extractor owns.
	declared map[string]bool
	// formatAsserted is set when format is validated as an assertion.
	formatAsserted bool
}

type identified interface{ ID() string }

// overlay replaces plugins of base by ID, appends the rest, and drops
// disabled IDs.
func overlay[P identified](base, extra []P, disabled map[string]bool) []P {
	out := make([]P, 0, len(base)+len(extra))
	index := make(map[string]int, len(base))
	for _, p := range base {
		index[p.ID()] = len(out)
		out = append(out, p)
	}
	for _, p := range extra {
		if i, ok := index[p.ID()]; ok {
			out[i] = p
			continue
		}
		index[p.ID()] = len(out)
		out = append(out, p)
	}
	kept := out[:0]
	for _, p := range out {
		if !disabled[p.ID()] {
			kept = append(kept, p)
		}
	}
	return kept
}

func newRegistry(opts Options) *registry {
	disabled := make(map[string]bool, len(opts.DisabledPlugins))
	for _, id := range opts.DisabledPlugins {
		disabled[id] = true
	}
	r := &registry{
		extractors:  overlay(plugins.DefaultExtractors(), opts.Extractors, disabled),
		simplifiers: overlay(plugins.DefaultSimplifiers(), opts.Simplifiers, disabled),
		validators:  overlay(validate.DefaultPlugins(), opts.Validators, disabled),
		declared:    map[string]bool{},
	}
	for _, e := range r.extractors {
		for _, kw := range e.Keywords() {
			r.declared[kw] = true
		}
	}
	for _, v := range r.validators {
		if v.ID() == (validate.FormatAssertion{}).ID() {
			r.formatAsserted = true
		}
	}
	return r
}

// simplifiersFor returns the simplifiers that run for type t.
func (r *registry) simplifiersFor(t logic.JSONType) []plugins.Simplifier {
	var out []plugins.Simplifier
	for _, s := range r.simplifiers {
		if s.Types().Has(t) {
			out = append(out, s)
		}
	}
	return out
}
