package keypath

import (
	"errors"
	"fmt"
	"sort"
)

// ErrRuleConflict is returned when a key is both ignored and opaque.
var ErrRuleConflict = errors.New("conflicting key rule")

// RuleSet holds the keys the collector ignores or treats as opaque.
//
// An ignored key is neither recorded nor descended into. An opaque key is
// recorded as a single path and its value is never traversed.
type RuleSet struct {
	ignore map[string]struct{}
	opaque map[string]struct{}
}

// Rule is a deferred RuleSet mutation.
type Rule func(rs *RuleSet) error

// NewRuleSet constructs a RuleSet and applies the provided rules. Stops at
// the first error and returns it.
func NewRuleSet(rules ...Rule) (*RuleSet, error) {
	rs := &RuleSet{
		ignore: make(map[string]struct{}),
		opaque: make(map[string]struct{}),
	}
	for _, rule := range rules {
		if err := rule(rs); err != nil {
			return nil, err
		}
	}
	return rs, nil
}

// Bundle groups multiple rules into one.
func Bundle(rules ...Rule) Rule {
	return func(rs *RuleSet) error {
		for _, rule := range rules {
			if err := rule(rs); err != nil {
				return err
			}
		}
		return nil
	}
}

// Ignore excludes keys from both recording and traversal.
func Ignore(keys ...string) Rule {
	return func(rs *RuleSet) error {
		for _, key := range keys {
			if key == "" {
				return fmt.Errorf("ignore: empty key")
			}
			if _, ok := rs.opaque[key]; ok {
				return fmt.Errorf("ignore %q: %w (already opaque)", key, ErrRuleConflict)
			}
			rs.ignore[key] = struct{}{}
		}
		return nil
	}
}

// Opaque records keys as a single leaf path without traversing their value.
func Opaque(keys ...string) Rule {
	return func(rs *RuleSet) error {
		for _, key := range keys {
			if key == "" {
				return fmt.Errorf("opaque: empty key")
			}
			if _, ok := rs.ignore[key]; ok {
				return fmt.Errorf("opaque %q: %w (already ignored)", key, ErrRuleConflict)
			}
			rs.opaque[key] = struct{}{}
		}
		return nil
	}
}

// IsIgnored reports whether key is ignored. A nil RuleSet ignores nothing.
func (rs *RuleSet) IsIgnored(key string) bool {
	if rs == nil {
		return false
	}
	_, ok := rs.ignore[key]
	return ok
}

// IsOpaque reports whether key is opaque. A nil RuleSet has no opaque keys.
func (rs *RuleSet) IsOpaque(key string) bool {
	if rs == nil {
		return false
	}
	_, ok := rs.opaque[key]
	return ok
}

// Ignored returns the ignored keys in sorted order.
func (rs *RuleSet) Ignored() []string {
	if rs == nil {
		return nil
	}
	return sortedKeys(rs.ignore)
}

// OpaqueKeys returns the opaque keys in sorted order.
func (rs *RuleSet) OpaqueKeys() []string {
	if rs == nil {
		return nil
	}
	return sortedKeys(rs.opaque)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
