package keypath

import "sort"

// Set is a set of unique key paths.
type Set map[string]struct{}

// NewSet returns a set holding paths.
func NewSet(paths ...string) Set {
	s := make(Set, len(paths))
	for _, p := range paths {
		s.Add(p)
	}
	return s
}

// Add inserts path into the set.
func (s Set) Add(path string) {
	s[path] = struct{}{}
}

// Has reports whether path is in the set.
func (s Set) Has(path string) bool {
	_, ok := s[path]
	return ok
}

// Len returns the number of paths.
func (s Set) Len() int {
	return len(s)
}

// Merge adds every path of other to s.
func (s Set) Merge(other Set) {
	for p := range other {
		s[p] = struct{}{}
	}
}

// Sorted returns the paths in ascending order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Union returns a new set holding the paths of all sets.
func Union(sets ...Set) Set {
	out := make(Set)
	for _, s := range sets {
		out.Merge(s)
	}
	return out
}
