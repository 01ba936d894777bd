package schemalogic

import (
	"github.com/speakeasy-api/schemalogic/plugins"
	"github.com/speakeasy-api/schemalogic/validate"
)

// DefaultBaseURI is the retrieval URI of a root schema that has no $id.
const DefaultBaseURI = "https://schemalogic.invalid/schema.json"

// Options configures a query.
type Options struct {
	// BaseURI resolves relative $id and $ref in root schemas (default:
	// DefaultBaseURI). A second root in the same query gets a sibling URI.
	BaseURI string

	// Definitions holds external schema documents keyed by absolute URI.
	Definitions map[string]any

	// Plugins. Entries replace the built-in plugin with the same ID or are
	// appended after the built-ins.
	Extractors  []plugins.Extractor
	Simplifiers []plugins.Simplifier
	Validators  []validate.Plugin
	// DisabledPlugins removes plugins of any of the three kinds by ID.
	DisabledPlugins []string

	// Limits
	MaxRefDepth int // Max nested $ref expansions before a ref stays opaque (default: 16)
	MaxDepth    int // Max nested emptiness checks of sub-schemas (default: 32)

	// DisableSATPrecheck skips the propositional check before DNF expansion.
	DisableSATPrecheck bool

	// Logging configuration
	LogLevel       string // Log level: "error", "warn", "info", "debug" (default: "" = silent)
	LogMaxLiterals int    // Max literals of a conjunction shown in logs (default: 5)
	Logger         Logger // Overrides LogLevel when set
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		BaseURI:        DefaultBaseURI,
		MaxRefDepth:    16,
		MaxDepth:       32,
		LogMaxLiterals: 5,
	}
}

// withDefaults fills zero limits of caller-built options.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.BaseURI == "" {
		o.BaseURI = d.BaseURI
	}
	if o.MaxRefDepth <= 0 {
		o.MaxRefDepth = d.MaxRefDepth
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = d.MaxDepth
	}
	if o.LogMaxLiterals <= 0 {
		o.LogMaxLiterals = d.LogMaxLiterals
	}
	return o
}

func pickOptions(opts []Options) Options {
	opt := DefaultOptions()
	if len(opts) > 0 {
		opt = opts[0].withDefaults()
	}
	return opt
}
