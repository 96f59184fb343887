package corpus

import "github.com/viant/afs"

const (
	// DefaultExtension is the Glyphs source file extension.
	DefaultExtension = ".glyphs"
	// DefaultVersionMarker is declared near the top of every Glyphs 3 file.
	DefaultVersionMarker = ".formatVersion = 3;"
	// DefaultVersionWindow is the number of leading bytes searched for the
	// version marker.
	DefaultVersionWindow = 50
	// DefaultMinRootLength rejects roots of ten bytes or fewer, such as "/"
	// or "/Users/me".
	DefaultMinRootLength = 11
)

// Options configures a Scanner.
type Options struct {
	// Extensions lists the file extensions scanned below the root.
	Extensions []string

	// Exclusions lists file paths skipped during the walk.
	Exclusions []string

	// References lists files collected after the walk, such as the format's
	// reference document.
	References []string

	// VersionMarker must occur within the first VersionWindow bytes of a
	// file for it to be collected. An empty marker disables the guard.
	VersionMarker string
	VersionWindow int

	// MinRootLength is the shortest root path Scan accepts.
	MinRootLength int

	fs afs.Service
}

// NewOptions creates a new Options instance with default values.
func NewOptions(opts ...Option) *Options {
	options := &Options{
		VersionMarker: DefaultVersionMarker,
		VersionWindow: DefaultVersionWindow,
		MinRootLength: DefaultMinRootLength,
	}
	for _, opt := range opts {
		opt(options)
	}
	if len(options.Extensions) == 0 {
		options.Extensions = []string{DefaultExtension}
	}
	if options.fs == nil {
		options.fs = afs.New()
	}
	return options
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithExtensions sets the scanned file extensions.
func WithExtensions(exts ...string) Option {
	return func(o *Options) {
		o.Extensions = append(o.Extensions, exts...)
	}
}

// WithExclusions adds excluded file paths.
func WithExclusions(paths ...string) Option {
	return func(o *Options) {
		o.Exclusions = append(o.Exclusions, paths...)
	}
}

// WithReferences adds reference files.
func WithReferences(paths ...string) Option {
	return func(o *Options) {
		o.References = append(o.References, paths...)
	}
}

// WithFormatVersion sets the version marker and the window it must appear
// in. An empty marker disables the guard.
func WithFormatVersion(marker string, window int) Option {
	return func(o *Options) {
		o.VersionMarker = marker
		o.VersionWindow = window
	}
}

// WithMinRootLength sets the shortest accepted root path.
func WithMinRootLength(n int) Option {
	return func(o *Options) {
		o.MinRootLength = n
	}
}

// WithFileSystem sets the storage service used to list and read files.
func WithFileSystem(fs afs.Service) Option {
	return func(o *Options) {
		o.fs = fs
	}
}
