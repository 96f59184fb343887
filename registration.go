package keypath

// Registration is a deferred format registration. Packages that implement
// decoders expose values of this type so callers opt in explicitly instead of
// relying on import side-effects (init functions).
//
// For example, in a package "openstep":
//
//	var Glyphs = keypath.NewFormat(".glyphs", Decode)
//
// Usage:
//
//	r, _ := keypath.NewRegistry(openstep.Glyphs, keypath.JSON)
type Registration func(r *Registry) error

// NewFormat wraps a decoder into a Registration closure for ext.
func NewFormat(ext string, fn DecodeFunc) Registration {
	return func(r *Registry) error {
		return r.Register(ext, fn)
	}
}

// Group groups multiple registrations into one:
//
//	keypath.NewRegistry(keypath.Group(openstep.Glyphs, keypath.JSON))
func Group(regs ...Registration) Registration {
	return func(r *Registry) error { return Apply(r, regs...) }
}

// Apply applies one or more registrations to an existing registry. Stops at the
// first error and returns it.
func Apply(r *Registry, regs ...Registration) error {
	for _, reg := range regs {
		if err := reg(r); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry constructs a new registry and applies the provided registrations.
func NewRegistry(regs ...Registration) (*Registry, error) {
	r := newRegistry()
	if err := Apply(r, regs...); err != nil {
		return nil, err
	}
	return r, nil
}
