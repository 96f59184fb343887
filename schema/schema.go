// Package schema derives the key paths a JSON Schema document declares, so
// they can be compared with the key paths observed in a corpus.
package schema

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/viant/afs"

	"github.com/calumari/keypath"
)

// Schema is a decoded JSON Schema document.
type Schema struct {
	root keypath.D
}

// Load decodes a JSON Schema document.
func Load(data []byte) (*Schema, error) {
	root, err := keypath.DecodeJSON(data)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	return &Schema{root: root}, nil
}

// LoadURL reads and decodes the JSON Schema document at URL.
func LoadURL(ctx context.Context, fs afs.Service, URL string) (*Schema, error) {
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", URL, err)
	}
	return Load(data)
}

// Root returns the decoded document.
func (s *Schema) Root() keypath.D {
	return s.root
}

// Paths returns the key paths declared by the schema, each prefixed with
// parent, following the collector's conventions: a property is a path
// segment, array items share their property's path, and a property that
// declares no nested properties is a leaf. rules drop ignored properties and
// turn opaque ones into leaves; nil applies no rules.
func (s *Schema) Paths(parent string, rules *keypath.RuleSet) (keypath.Set, error) {
	w := walker{root: s.root, rules: rules, out: keypath.NewSet(), active: map[string]bool{}}
	if _, err := w.node(s.root, parent); err != nil {
		return nil, err
	}
	return w.out, nil
}

type walker struct {
	root   keypath.D
	rules  *keypath.RuleSet
	out    keypath.Set
	active map[string]bool // references being expanded
}

// node walks a subschema and reports whether it declared nested paths.
func (w *walker) node(n keypath.D, parent string) (bool, error) {
	nested := false
	if ref, ok := n.Get("$ref"); ok {
		s, ok := ref.(string)
		if !ok {
			return false, fmt.Errorf("schema %s: $ref must be a string (got %T)", pathOrRoot(parent), ref)
		}
		found, err := w.ref(s, parent)
		if err != nil {
			return false, err
		}
		nested = nested || found
	}

	if props, ok := n.Get("properties"); ok {
		d, ok := props.(keypath.D)
		if !ok {
			return false, fmt.Errorf("schema %s: properties must be an object (got %T)", pathOrRoot(parent), props)
		}
		for _, e := range d {
			found, err := w.property(e.Key, e.Value, parent)
			if err != nil {
				return false, err
			}
			nested = nested || found
		}
	}

	if items, ok := n.Get("items"); ok {
		found, err := w.items(items, parent)
		if err != nil {
			return false, err
		}
		nested = nested || found
	}

	for _, keyword := range []string{"allOf", "anyOf", "oneOf"} {
		v, ok := n.Get(keyword)
		if !ok {
			continue
		}
		list, ok := v.(keypath.A)
		if !ok {
			return false, fmt.Errorf("schema %s: %s must be an array (got %T)", pathOrRoot(parent), keyword, v)
		}
		for _, item := range list {
			sub, ok := item.(keypath.D)
			if !ok {
				continue
			}
			found, err := w.node(sub, parent)
			if err != nil {
				return false, err
			}
			nested = nested || found
		}
	}
	return nested, nil
}

// property records a named property. Always reports true: the property
// itself is a path below parent.
func (w *walker) property(name string, value any, parent string) (bool, error) {
	if w.rules.IsIgnored(name) {
		return false, nil
	}
	path := parent + keypath.Separator + name
	if w.rules.IsOpaque(name) {
		w.out.Add(path)
		return true, nil
	}
	sub, ok := value.(keypath.D)
	if !ok {
		// boolean schemas
		w.out.Add(path)
		return true, nil
	}
	nested, err := w.node(sub, path)
	if err != nil {
		return false, err
	}
	if !nested {
		w.out.Add(path)
	}
	return true, nil
}

func (w *walker) items(items any, parent string) (bool, error) {
	switch v := items.(type) {
	case keypath.D:
		return w.node(v, parent)
	case keypath.A:
		nested := false
		for _, item := range v {
			sub, ok := item.(keypath.D)
			if !ok {
				continue
			}
			found, err := w.node(sub, parent)
			if err != nil {
				return false, err
			}
			nested = nested || found
		}
		return nested, nil
	}
	return false, nil
}

// ref expands a local reference. A reference already being expanded
// contributes nothing.
func (w *walker) ref(ref, parent string) (bool, error) {
	if w.active[ref] {
		return false, nil
	}
	target, err := w.resolve(ref)
	if err != nil {
		return false, fmt.Errorf("schema %s: %w", pathOrRoot(parent), err)
	}
	w.active[ref] = true
	defer delete(w.active, ref)
	return w.node(target, parent)
}

// resolve follows a local JSON pointer such as "#/definitions/glyph".
func (w *walker) resolve(ref string) (keypath.D, error) {
	if !strings.HasPrefix(ref, "#") {
		return nil, fmt.Errorf("unsupported reference %q", ref)
	}
	pointer := strings.TrimPrefix(ref, "#")
	var cur any = w.root
	if pointer != "" {
		if pointer[0] != '/' {
			return nil, fmt.Errorf("invalid reference %q", ref)
		}
		for _, token := range strings.Split(pointer[1:], "/") {
			token = strings.ReplaceAll(strings.ReplaceAll(token, "~1", "/"), "~0", "~")
			switch v := cur.(type) {
			case keypath.D:
				next, ok := v.Get(token)
				if !ok {
					return nil, fmt.Errorf("unresolved reference %q", ref)
				}
				cur = next
			case keypath.A:
				i, err := strconv.Atoi(token)
				if err != nil || i < 0 || i >= len(v) {
					return nil, fmt.Errorf("unresolved reference %q", ref)
				}
				cur = v[i]
			default:
				return nil, fmt.Errorf("unresolved reference %q", ref)
			}
		}
	}
	d, ok := cur.(keypath.D)
	if !ok {
		return nil, fmt.Errorf("reference %q does not point to a schema object", ref)
	}
	return d, nil
}

func pathOrRoot(p string) string {
	if p == "" {
		return "(root)"
	}
	return p
}
