package keypath

// Difference compares observed key paths against declared ones.
type Difference struct {
	// Undeclared paths were observed but are not declared.
	Undeclared []string
	// Unobserved paths are declared but were never observed.
	Unobserved []string
}

// Empty reports whether both sides agree.
func (d Difference) Empty() bool {
	return len(d.Undeclared) == 0 && len(d.Unobserved) == 0
}

// Compare returns the sorted difference between observed and declared.
func Compare(observed, declared Set) Difference {
	var diff Difference
	for _, p := range observed.Sorted() {
		if !declared.Has(p) {
			diff.Undeclared = append(diff.Undeclared, p)
		}
	}
	for _, p := range declared.Sorted() {
		if !observed.Has(p) {
			diff.Unobserved = append(diff.Unobserved, p)
		}
	}
	return diff
}
