package keypath

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
)

// ErrFormatNotRegistered is returned when no decoder is registered for a
// file extension.
var ErrFormatNotRegistered = errors.New("format not registered")

// DecodeFunc decodes raw file content into an ordered document.
type DecodeFunc func(data []byte) (D, error)

// Registry maps file extensions (".glyphs", ".json") to document decoders.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]DecodeFunc
}

func newRegistry() *Registry {
	return &Registry{entries: make(map[string]DecodeFunc)}
}

func validateExtension(ext string) error {
	if len(ext) < 2 || ext[0] != '.' {
		return fmt.Errorf("format %q invalid extension (expected leading '.')", ext)
	}
	if strings.ContainsAny(ext[1:], "./\\ \t\r\n") {
		return fmt.Errorf("format %q invalid extension (unexpected separator)", ext)
	}
	return nil
}

// Register associates fn with the extension ext. Extensions are matched
// case-insensitively.
func (r *Registry) Register(ext string, fn DecodeFunc) error {
	if err := validateExtension(ext); err != nil {
		return err
	}
	if fn == nil {
		return fmt.Errorf("format %q nil decoder", ext)
	}
	key := strings.ToLower(ext)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[key]; exists {
		return fmt.Errorf("format %q already registered", ext)
	}
	r.entries[key] = fn
	return nil
}

// Lookup returns the decoder registered for ext.
func (r *Registry) Lookup(ext string) (DecodeFunc, bool) {
	r.mu.RLock()
	fn, ok := r.entries[strings.ToLower(ext)]
	r.mu.RUnlock()
	return fn, ok
}

// Supports reports whether location has a registered extension.
func (r *Registry) Supports(location string) bool {
	_, ok := r.Lookup(path.Ext(location))
	return ok
}

// Extensions returns the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.entries))
	for ext := range r.entries {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Decode decodes data with the decoder registered for the extension of
// location.
func (r *Registry) Decode(location string, data []byte) (D, error) {
	ext := path.Ext(location)
	fn, ok := r.Lookup(ext)
	if !ok {
		return nil, fmt.Errorf("decode %s: %w (%q)", location, ErrFormatNotRegistered, ext)
	}
	d, err := fn(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", location, err)
	}
	return d, nil
}
