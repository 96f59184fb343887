package keypath

// D represents a document, defined as an ordered collection of key-value
// pairs. Each entry in the document is represented by an E.
type D []E

// A represents an ordered sequence of values of any type.
type A []any

// E represents a single entry in a document. It consists of a string key and
// an associated value of any type.
type E struct {
	Key   string
	Value any
}

// Get returns the value of the first entry with the given key.
func (d D) Get(key string) (any, bool) {
	for _, e := range d {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Keys returns the document keys in order.
func (d D) Keys() []string {
	keys := make([]string, len(d))
	for i, e := range d {
		keys[i] = e.Key
	}
	return keys
}
