package schemalogic

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// ErrDuplicateResource is returned when two different schemas claim the
// same URI.
var ErrDuplicateResource = errors.New("duplicate resource")

// resolver indexes the documents of a query by absolute URI. Embedded $id
// resources and $anchor names get their own entries.
type resolver struct {
	index map[string]entry
	// docs are the documents as registered, for the validator.
	docs map[string]any
}

// entry is an indexed schema and the base URI it is evaluated against.
type entry struct {
	node any
	base *url.URL
}

func newResolver() *resolver {
	return &resolver{
		index: map[string]entry{},
		docs:  map[string]any{},
	}
}

// addDocument registers doc under uri and returns the base URI its root
// schema is evaluated against. Registering a different schema under a URI
// that is already taken fails with ErrDuplicateResource.
func (r *resolver) addDocument(uri string, doc any) (*url.URL, error) {
	base, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid document URI %q: %w", uri, err)
	}
	base.Fragment = ""
	if prev, ok := r.docs[base.String()]; ok && !cmp.Equal(prev, doc) {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateResource, base)
	}
	own, err := r.walk(doc, base)
	if err != nil {
		return nil, err
	}
	r.docs[base.String()] = doc
	if err := r.add(base.String(), doc, own); err != nil {
		return nil, err
	}
	return own, nil
}

func (r *resolver) add(key string, node any, base *url.URL) error {
	if prev, ok := r.index[key]; ok && !cmp.Equal(prev.node, node) {
		return fmt.Errorf("%w: %s", ErrDuplicateResource, key)
	}
	r.index[key] = entry{node: node, base: base}
	return nil
}

// keywords whose values are data, not schemas
var dataKeywords = map[string]bool{
	"const":    true,
	"enum":     true,
	"default":  true,
	"examples": true,
	"example":  true,
}

// walk indexes node and returns the base URI node itself is evaluated
// against.
func (r *resolver) walk(node any, base *url.URL) (*url.URL, error) {
	switch n := node.(type) {
	case map[string]any:
		own := withID(n, base)
		if own != base {
			if err := r.add(own.String(), n, own); err != nil {
				return nil, err
			}
		}
		if anchor, ok := n["$anchor"].(string); ok {
			if err := r.add(own.String()+"#"+anchor, n, own); err != nil {
				return nil, err
			}
		}
		for k, v := range n {
			if dataKeywords[k] {
				continue
			}
			if _, err := r.walk(v, own); err != nil {
				return nil, err
			}
		}
		return own, nil
	case []any:
		for _, v := range n {
			if _, err := r.walk(v, base); err != nil {
				return nil, err
			}
		}
	}
	return base, nil
}

// withID returns the base URI of a schema object: base itself, or base
// resolved against the object's $id.
func withID(schema map[string]any, base *url.URL) *url.URL {
	id, ok := schema["$id"].(string)
	if !ok || id == "" || strings.HasPrefix(id, "#") {
		return base
	}
	u, err := base.Parse(id)
	if err != nil {
		return base
	}
	u.Fragment = ""
	return u
}

// resolve looks ref up relative to base. It returns the target schema, the
// base URI the target is evaluated against, and the absolute reference.
func (r *resolver) resolve(base *url.URL, ref string) (any, *url.URL, string, bool) {
	u, err := base.Parse(ref)
	if err != nil {
		return nil, nil, ref, false
	}
	abs := u.String()
	frag := u.Fragment
	doc := *u
	doc.Fragment = ""
	doc.RawFragment = ""
	docURI := doc.String()

	key := docURI
	if frag != "" && !strings.HasPrefix(frag, "/") {
		key += "#" + frag
	}
	e, ok := r.index[key]
	if !ok {
		return nil, nil, abs, false
	}
	if !strings.HasPrefix(frag, "/") {
		return e.node, e.base, abs, true
	}
	target, targetBase, ok := pointer(e.node, e.base, frag)
	return target, targetBase, abs, ok
}

// pointer walks an RFC 6901 JSON pointer from root, whose base is already
// known, following base changes of any $id below it.
func pointer(root any, base *url.URL, ptr string) (any, *url.URL, bool) {
	node := root
	for _, tok := range strings.Split(ptr, "/")[1:] {
		tok = strings.ReplaceAll(strings.ReplaceAll(tok, "~1", "/"), "~0", "~")
		switch n := node.(type) {
		case map[string]any:
			v, ok := n[tok]
			if !ok {
				return nil, nil, false
			}
			node = v
		case []any:
			i, err := strconv.Atoi(tok)
			if err != nil || i < 0 || i >= len(n) {
				return nil, nil, false
			}
			node = n[i]
		default:
			return nil, nil, false
		}
		if m, ok := node.(map[string]any); ok {
			base = withID(m, base)
		}
	}
	return node, base, true
}

// rootURI returns the retrieval URI of the i-th root schema of a query.
// Roots after the first get siblings of base so that their local
// references stay apart.
func rootURI(base string, i int) string {
	if i == 0 {
		return base
	}
	u, err := url.Parse(base)
	if err != nil {
		return fmt.Sprintf("%s-%d", base, i+1)
	}
	u.Fragment = ""
	ext := path.Ext(u.Path)
	u.Path = fmt.Sprintf("%s-%d%s", strings.TrimSuffix(u.Path, ext), i+1, ext)
	return u.String()
}

// resolveAgainst resolves ref against base.
func resolveAgainst(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	u, err := b.Parse(ref)
	if err != nil {
		return ref
	}
	return u.String()
}
