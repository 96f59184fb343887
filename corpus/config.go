package corpus

import (
	"context"
	"fmt"
	"slices"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/calumari/keypath"
)

// Config describes a schema discovery run.
type Config struct {
	Root          string         `yaml:"root"`
	Extensions    []string       `yaml:"extensions,omitempty"`
	Exclude       []string       `yaml:"exclude,omitempty"`
	References    []string       `yaml:"references,omitempty"`
	Schema        string         `yaml:"schema,omitempty"`
	FormatVersion *FormatVersion `yaml:"formatVersion,omitempty"`
	MinRootLength int            `yaml:"minRootLength,omitempty"`
	// Ignore and SkipChildren fall back to the Glyphs 3 lists when absent.
	// An explicitly empty list disables the rule. Keys named in one list are
	// dropped from the other list's defaults.
	Ignore       []string `yaml:"ignore"`
	SkipChildren []string `yaml:"skipChildren"`
}

// FormatVersion configures the version guard.
type FormatVersion struct {
	Marker string `yaml:"marker"`
	Window int    `yaml:"window"`
}

// DecodeConfig parses a YAML config.
func DecodeConfig(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads and parses the YAML config at URL.
func LoadConfig(ctx context.Context, fs afs.Service, URL string) (*Config, error) {
	location, err := Normalize(URL)
	if err != nil {
		return nil, err
	}
	data, err := fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", URL, err)
	}
	return DecodeConfig(data)
}

// Options returns scanner options for the config's non-zero fields.
func (c *Config) Options() []Option {
	var result []Option
	if len(c.Extensions) > 0 {
		result = append(result, WithExtensions(c.Extensions...))
	}
	if len(c.Exclude) > 0 {
		result = append(result, WithExclusions(c.Exclude...))
	}
	if len(c.References) > 0 {
		result = append(result, WithReferences(c.References...))
	}
	if c.FormatVersion != nil {
		result = append(result, WithFormatVersion(c.FormatVersion.Marker, c.FormatVersion.Window))
	}
	if c.MinRootLength > 0 {
		result = append(result, WithMinRootLength(c.MinRootLength))
	}
	return result
}

// Rule returns the collector rules of the config.
func (c *Config) Rule() keypath.Rule {
	ignore := c.Ignore
	if ignore == nil {
		ignore = without(keypath.Glyphs3IgnoredKeys, c.SkipChildren)
	}
	opaque := c.SkipChildren
	if opaque == nil {
		opaque = without(keypath.Glyphs3OpaqueKeys, c.Ignore)
	}
	return keypath.Bundle(keypath.Opaque(opaque...), keypath.Ignore(ignore...))
}

// without returns defaults minus the keys in explicit.
func without(defaults, explicit []string) []string {
	out := make([]string, 0, len(defaults))
	for _, key := range defaults {
		if !slices.Contains(explicit, key) {
			out = append(out, key)
		}
	}
	return out
}
