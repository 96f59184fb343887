package corpus

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/url"

	"github.com/calumari/keypath"
)

// ErrRootTooShort guards against accidentally scanning an unintended root
// such as "/".
var ErrRootTooShort = errors.New("root path too short")

// Skip reasons.
const (
	ReasonExcluded      = "excluded"
	ReasonFormatVersion = "format version"
)

// Skip records a file that was not collected.
type Skip struct {
	Location string
	Reason   string
}

// Result holds the key paths of a corpus.
type Result struct {
	Paths   keypath.Set
	Files   []string
	Skipped []Skip
}

// Scanner collects the key paths of every matching file below a root.
type Scanner struct {
	fs       afs.Service
	registry *keypath.Registry
	rules    *keypath.RuleSet
	options  *Options
}

// New creates a scanner decoding files with registry and collecting them
// with rules.
func New(registry *keypath.Registry, rules *keypath.RuleSet, opts ...Option) *Scanner {
	options := NewOptions(opts...)
	return &Scanner{
		fs:       options.fs,
		registry: registry,
		rules:    rules,
		options:  options,
	}
}

// Scan walks root recursively, then processes the reference files. Any decode
// failure aborts the scan.
func (s *Scanner) Scan(ctx context.Context, root string) (*Result, error) {
	if len(root) < s.options.MinRootLength {
		return nil, fmt.Errorf("scan %q: %w (minimum %d)", root, ErrRootTooShort, s.options.MinRootLength)
	}
	location, err := Normalize(root)
	if err != nil {
		return nil, err
	}
	excluded := make(map[string]bool, len(s.options.Exclusions))
	for _, exclusion := range s.options.Exclusions {
		norm, err := Normalize(exclusion)
		if err != nil {
			return nil, err
		}
		excluded[cleanPath(norm)] = true
	}

	res := &Result{Paths: keypath.NewSet()}
	if err := s.walk(ctx, location, excluded, res); err != nil {
		return nil, err
	}

	for _, ref := range s.options.References {
		refURL, err := Normalize(ref)
		if err != nil {
			return nil, err
		}
		data, err := s.fs.DownloadWithURL(ctx, refURL)
		if err != nil {
			return nil, fmt.Errorf("read reference %s: %w", ref, err)
		}
		if err := s.collect(cleanPath(refURL), data, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (s *Scanner) walk(ctx context.Context, location string, excluded map[string]bool, res *Result) error {
	objects, err := s.fs.List(ctx, location)
	if err != nil {
		return fmt.Errorf("list %s: %w", location, err)
	}
	base := cleanPath(location)
	for _, object := range objects {
		objectPath := cleanPath(object.URL())
		if object.IsDir() {
			if objectPath == base {
				continue
			}
			if err := s.walk(ctx, url.Join(location, object.Name()), excluded, res); err != nil {
				return err
			}
			continue
		}
		if !s.matches(object.Name()) {
			continue
		}
		if excluded[objectPath] {
			res.Skipped = append(res.Skipped, Skip{Location: objectPath, Reason: ReasonExcluded})
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			return fmt.Errorf("read %s: %w", objectPath, err)
		}
		if err := s.collect(objectPath, data, res); err != nil {
			return err
		}
	}
	return nil
}

// collect decodes one file and merges its key paths into res. Files failing
// the version guard are skipped.
func (s *Scanner) collect(location string, data []byte, res *Result) error {
	if !s.declaresVersion(data) {
		res.Skipped = append(res.Skipped, Skip{Location: location, Reason: ReasonFormatVersion})
		return nil
	}
	doc, err := s.registry.Decode(location, data)
	if err != nil {
		return err
	}
	res.Paths.Merge(keypath.Collect(doc, "", s.rules))
	res.Files = append(res.Files, location)
	return nil
}

func (s *Scanner) declaresVersion(data []byte) bool {
	if s.options.VersionMarker == "" {
		return true
	}
	head := data
	if s.options.VersionWindow > 0 && len(head) > s.options.VersionWindow {
		head = head[:s.options.VersionWindow]
	}
	return bytes.Contains(head, []byte(s.options.VersionMarker))
}

func (s *Scanner) matches(name string) bool {
	ext := path.Ext(name)
	for _, candidate := range s.options.Extensions {
		if strings.EqualFold(ext, candidate) {
			return true
		}
	}
	return false
}

// Normalize turns OS paths into file URLs; URLs with a scheme pass through.
func Normalize(location string) (string, error) {
	norm := location
	if url.Scheme(norm, "") == "" && url.IsRelative(norm) {
		abs, err := filepath.Abs(norm)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path for %s: %w", location, err)
		}
		norm = abs
	}
	if url.Scheme(norm, "") == "" && !url.IsRelative(norm) {
		norm = url.ToFileURL(norm)
	}
	return norm, nil
}

func cleanPath(location string) string {
	p := url.Path(location)
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	return p
}
