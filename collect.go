package keypath

import "sort"

// Separator joins the keys of a path.
const Separator = "/"

// Collect returns the key paths of every structural position reachable in
// doc, each prefixed with parent.
//
// Mapping values are descended into. Mapping elements of a sequence are
// descended into under the sequence's own path, so siblings share a
// namespace instead of being indexed. A sequence without mapping elements, a
// scalar, and the value of an opaque key each record their path as a leaf.
// Ignored keys are skipped. A nil rules applies no rules.
func Collect(doc D, parent string, rules *RuleSet) Set {
	out := make(Set)
	c := collector{rules: rules, out: out}
	c.document(doc, parent)
	return out
}

type collector struct {
	rules *RuleSet
	out   Set
}

func (c *collector) document(doc D, parent string) {
	for _, e := range doc {
		c.entry(e.Key, e.Value, parent)
	}
}

// mapping visits foreign map values in sorted key order.
func (c *collector) mapping(m map[string]any, parent string) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		c.entry(k, m[k], parent)
	}
}

func (c *collector) entry(key string, value any, parent string) {
	if c.rules.IsIgnored(key) {
		return
	}
	path := parent + Separator + key
	if c.rules.IsOpaque(key) {
		c.out.Add(path)
		return
	}
	switch v := value.(type) {
	case D:
		c.document(v, path)
		return
	case map[string]any:
		c.mapping(v, path)
		return
	case A:
		if c.sequence(v, path) {
			return
		}
	case []any:
		if c.sequence(v, path) {
			return
		}
	}
	c.out.Add(path)
}

// sequence descends into the mapping elements of items and reports whether
// there were any.
func (c *collector) sequence(items []any, path string) bool {
	nested := false
	for _, item := range items {
		switch v := item.(type) {
		case D:
			c.document(v, path)
			nested = true
		case map[string]any:
			c.mapping(v, path)
			nested = true
		}
	}
	return nested
}
