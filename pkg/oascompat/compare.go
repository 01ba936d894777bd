// Package oascompat compares the component schemas of two OpenAPI documents
// using the schemalogic subset and equivalence queries.
package oascompat

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/speakeasy-api/openapi/openapi"

	"github.com/speakeasy-api/schemalogic"
	"github.com/speakeasy-api/schemalogic/logic"
)

const (
	oldURI = "https://schemalogic.invalid/old.yaml"
	newURI = "https://schemalogic.invalid/new.yaml"
)

// Change classifies one component schema.
type Change string

const (
	// Unchanged: both versions accept the same values.
	Unchanged Change = "unchanged"
	// Widened: the new version accepts everything the old one did, and more.
	Widened Change = "widened"
	// Breaking: some value the old version accepted is now rejected.
	Breaking Change = "breaking"
	// Undecided: the engine could not tell.
	Undecided Change = "undecided"
	Added     Change = "added"
	Removed   Change = "removed"
)

// Entry is the comparison of one component schema.
type Entry struct {
	Name   string
	Change Change
	// Subset is whether old accepts only values new accepts.
	Subset logic.Tri
	// Superset is whether new accepts only values old accepts.
	Superset logic.Tri
	// Old and New are the schemas as YAML, for diffing.
	Old, New string
}

// Report lists every component schema of either document, sorted by name.
type Report struct {
	Entries []Entry
}

// Breaking reports whether any entry is a breaking change.
func (r *Report) Breaking() bool {
	for _, e := range r.Entries {
		if e.Change == Breaking || e.Change == Removed {
			return true
		}
	}
	return false
}

// Compare parses and validates both documents and compares their component
// schemas. References inside each document resolve against that document.
func Compare(ctx context.Context, oldDoc, newDoc []byte, opts ...schemalogic.Options) (*Report, error) {
	oldValue, err := load(ctx, oldDoc)
	if err != nil {
		return nil, fmt.Errorf("old document: %w", err)
	}
	newValue, err := load(ctx, newDoc)
	if err != nil {
		return nil, fmt.Errorf("new document: %w", err)
	}

	opt := schemalogic.DefaultOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}
	defs := make(map[string]any, len(opt.Definitions)+2)
	for k, v := range opt.Definitions {
		defs[k] = v
	}
	defs[oldURI] = oldValue
	defs[newURI] = newValue
	opt.Definitions = defs

	oldSchemas := componentSchemas(oldValue)
	newSchemas := componentSchemas(newValue)

	names := map[string]bool{}
	for name := range oldSchemas {
		names[name] = true
	}
	for name := range newSchemas {
		names[name] = true
	}
	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	report := &Report{}
	for _, name := range sorted {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		oldSchema, inOld := oldSchemas[name]
		newSchema, inNew := newSchemas[name]
		e := Entry{Name: name}
		if inOld {
			e.Old = render(oldSchema)
		}
		if inNew {
			e.New = render(newSchema)
		}
		switch {
		case !inOld:
			e.Change = Added
		case !inNew:
			e.Change = Removed
		default:
			if err := compareSchema(&e, opt); err != nil {
				return nil, fmt.Errorf("schema %s: %w", name, err)
			}
		}
		report.Entries = append(report.Entries, e)
	}
	return report, nil
}

func compareSchema(e *Entry, opt schemalogic.Options) error {
	oldRef := map[string]any{"$ref": schemaRef(oldURI, e.Name)}
	newRef := map[string]any{"$ref": schemaRef(newURI, e.Name)}

	subset, err := schemalogic.SchemaDescribesSubset(oldRef, newRef, opt)
	if err != nil {
		return err
	}
	e.Subset = subset
	if subset == logic.False {
		e.Change = Breaking
		return nil
	}
	superset, err := schemalogic.SchemaDescribesSubset(newRef, oldRef, opt)
	if err != nil {
		return err
	}
	e.Superset = superset

	switch {
	case subset == logic.Unknown:
		e.Change = Undecided
	case superset == logic.True:
		e.Change = Unchanged
	default:
		e.Change = Widened
	}
	return nil
}

// load validates an OpenAPI document and decodes it into engine values.
func load(ctx context.Context, data []byte) (map[string]any, error) {
	doc, validationErrs, err := openapi.Unmarshal(ctx, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI document: %w", err)
	}
	if len(validationErrs) > 0 {
		return nil, fmt.Errorf("OpenAPI validation failed: %w", validationErrs[0])
	}

	var buf strings.Builder
	if err := openapi.Marshal(ctx, doc, &buf); err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	v, err := schemalogic.ParseSchema([]byte(buf.String()))
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("document is not an object")
	}
	return m, nil
}

func componentSchemas(doc map[string]any) map[string]any {
	components, _ := doc["components"].(map[string]any)
	schemas, _ := components["schemas"].(map[string]any)
	return schemas
}

// schemaRef builds an absolute reference to a component schema.
func schemaRef(docURI, name string) string {
	ptr := "/components/schemas/" + strings.NewReplacer("~", "~0", "/", "~1").Replace(name)
	return docURI + "#" + (&url.URL{Fragment: ptr}).EscapedFragment()
}
