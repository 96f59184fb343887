// keypaths lists the distinct key paths found in a corpus of Glyphs files.
//
// Usage:
//
//	keypaths [options] [root]
//
// Each key path is printed as a quoted, comma-terminated line followed by a
// "#found: N keypaths" total. With -schema the paths missing from either side
// are listed as well.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/viant/afs"

	"github.com/calumari/keypath"
	"github.com/calumari/keypath/corpus"
	"github.com/calumari/keypath/openstep"
	"github.com/calumari/keypath/schema"
)

func main() {
	os.Exit(run())
}

func run() int {
	return runWithArgs(os.Args[1:], os.Stdout, os.Stderr)
}

func runWithArgs(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("keypaths", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "config yaml (optional)")
	root := fs.String("root", "", "directory to scan (or first argument)")
	exclude := fs.String("exclude", "", "comma-separated files to skip")
	reference := fs.String("reference", "", "comma-separated reference files collected after the scan")
	schemaPath := fs.String("schema", "", "JSON schema to compare against (optional)")
	ext := fs.String("ext", "", "comma-separated file extensions (default .glyphs)")
	verbose := fs.Bool("v", false, "report skipped files on stderr")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [options] [root]\n\n", fs.Name())
		fmt.Fprintln(stderr, "Lists the distinct key paths of every Glyphs file below root.")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Options:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 1 {
		fmt.Fprintln(stderr, "error: at most one root argument is allowed")
		fs.Usage()
		return 2
	}

	ctx := context.Background()
	storage := afs.New()
	cfg := &corpus.Config{}
	if *configPath != "" {
		var err error
		if cfg, err = corpus.LoadConfig(ctx, storage, *configPath); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
	}
	if fs.NArg() == 1 {
		cfg.Root = fs.Arg(0)
	}
	if *root != "" {
		cfg.Root = *root
	}
	if *exclude != "" {
		cfg.Exclude = append(cfg.Exclude, parseCSV(*exclude)...)
	}
	if *reference != "" {
		cfg.References = append(cfg.References, parseCSV(*reference)...)
	}
	if *ext != "" {
		cfg.Extensions = parseCSV(*ext)
	}
	if *schemaPath != "" {
		cfg.Schema = *schemaPath
	}
	if cfg.Root == "" {
		fmt.Fprintln(stderr, "error: root is required")
		fs.Usage()
		return 2
	}

	if err := execute(ctx, storage, cfg, stdout, stderr, *verbose); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		if errors.Is(err, corpus.ErrRootTooShort) {
			return 2
		}
		return 1
	}
	return 0
}

func execute(ctx context.Context, storage afs.Service, cfg *corpus.Config, stdout, stderr io.Writer, verbose bool) error {
	registry, err := keypath.NewRegistry(openstep.Glyphs, keypath.JSON)
	if err != nil {
		return err
	}
	rules, err := keypath.NewRuleSet(cfg.Rule())
	if err != nil {
		return err
	}
	opts := append(cfg.Options(), corpus.WithFileSystem(storage))
	res, err := corpus.New(registry, rules, opts...).Scan(ctx, cfg.Root)
	if err != nil {
		return err
	}
	if verbose {
		for _, skip := range res.Skipped {
			fmt.Fprintf(stderr, "skipped %s (%s)\n", skip.Location, skip.Reason)
		}
		fmt.Fprintf(stderr, "collected %d files\n", len(res.Files))
	}

	writePaths(stdout, res.Paths.Sorted())
	fmt.Fprintf(stdout, "#found: %d keypaths\n", res.Paths.Len())

	if cfg.Schema == "" {
		return nil
	}
	schemaURL, err := corpus.Normalize(cfg.Schema)
	if err != nil {
		return err
	}
	s, err := schema.LoadURL(ctx, storage, schemaURL)
	if err != nil {
		return err
	}
	declared, err := s.Paths("", rules)
	if err != nil {
		return err
	}
	diff := keypath.Compare(res.Paths, declared)
	fmt.Fprintf(stdout, "#undeclared: %d keypaths\n", len(diff.Undeclared))
	writePaths(stdout, diff.Undeclared)
	fmt.Fprintf(stdout, "#unobserved: %d keypaths\n", len(diff.Unobserved))
	writePaths(stdout, diff.Unobserved)
	return nil
}

func writePaths(w io.Writer, paths []string) {
	for _, p := range paths {
		fmt.Fprintf(w, "\"%s\",\n", p)
	}
}

func parseCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
