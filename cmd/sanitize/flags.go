package main

import (
	"fmt"

	flag "github.com/spf13/pflag"
)

// sanitizeFlags holds all CLI flags.
type sanitizeFlags struct {
	config    string
	outputDir string
	suffix    string
	workers   int
	verify    bool
	verbose   bool
	quiet     bool
	version   bool
}

const usageText = `usage: sanitize [flags] <input-path> [output-path]

Normalize LaTeX math in a markdown document so downstream converters
accept it. Input may be a single markdown file or a directory (every
.md/.markdown file inside is sanitized). The input is never overwritten;
by default output lands next to the input as <stem>_fixed<ext>.

Flags:
`

// parseFlags parses CLI arguments, returning flags and positional args.
func parseFlags(args []string) (*sanitizeFlags, []string, error) {
	flags := &sanitizeFlags{}

	fs := flag.NewFlagSet("sanitize", flag.ContinueOnError)
	fs.SortFlags = false

	fs.StringVarP(&flags.config, "config", "c", "", "path to YAML config file")
	fs.StringVarP(&flags.outputDir, "output-dir", "o", "", "directory for sanitized files (default: next to input)")
	fs.StringVar(&flags.suffix, "suffix", "", "output filename suffix (default \"_fixed\")")
	fs.IntVarP(&flags.workers, "workers", "w", 0, "concurrent files in batch mode (default: CPU count)")
	fs.BoolVar(&flags.verify, "verify", false, "compile the output with a MathML math backend and fail if rejected")
	fs.BoolVarP(&flags.verbose, "verbose", "v", false, "print per-region warnings")
	fs.BoolVarP(&flags.quiet, "quiet", "q", false, "suppress non-error output")
	fs.BoolVar(&flags.version, "version", false, "print version and exit")

	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usageText)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args[1:]); err != nil {
		return nil, nil, err
	}
	return flags, fs.Args(), nil
}
