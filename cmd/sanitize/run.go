package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	mdsanitize "github.com/alnah/go-mdsanitize"
	"github.com/alnah/go-mdsanitize/internal/config"
	"github.com/alnah/go-mdsanitize/internal/fileutil"
	"github.com/alnah/go-mdsanitize/internal/hints"
	"github.com/alnah/go-mdsanitize/internal/pipeline"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrInvalidExtension   = errors.New("file must have .md or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// fileToSanitize represents a single file to process.
type fileToSanitize struct {
	inputPath  string
	outputPath string
}

// fileResult holds the outcome of sanitizing one file.
type fileResult struct {
	file     fileToSanitize
	result   *mdsanitize.Result
	err      error
	duration time.Duration
}

// run orchestrates the sanitize command.
func run(ctx context.Context, args []string, flags *sanitizeFlags, stdout, stderr io.Writer) error {
	if flags.version {
		fmt.Fprintf(stdout, "sanitize %s\n", Version)
		return nil
	}
	if len(args) == 0 {
		return fmt.Errorf("%w\n%s", ErrNoInput, "usage: sanitize [flags] <input-path> [output-path]")
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	mergeFlags(flags, cfg)

	workers := resolveWorkers(cfg.Workers)
	if workers < config.MinWorkers || workers > config.MaxWorkers {
		return fmt.Errorf("%w: %d", ErrInvalidWorkerCount, workers)
	}

	files, err := discoverFiles(args, flags.outputDir, cfg)
	if err != nil {
		return err
	}

	opts := serviceOptions(cfg)
	pool := mdsanitize.NewServicePool(workers, opts...)
	defer pool.Close()

	results := sanitizeBatch(ctx, pool, files, workers)

	var compiler *pipeline.Compiler
	if cfg.Verify.Enabled {
		compiler = pipeline.NewCompiler()
	}

	return report(ctx, results, compiler, flags, stdout, stderr)
}

// loadConfig returns the effective configuration: the file named by
// --config when given, defaults otherwise.
func loadConfig(flags *sanitizeFlags) (*config.Config, error) {
	if flags.config == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(flags.config)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(nil))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags overlays CLI flags onto the config; flags win.
func mergeFlags(flags *sanitizeFlags, cfg *config.Config) {
	if flags.suffix != "" {
		cfg.Output.Suffix = flags.suffix
	}
	if flags.outputDir != "" {
		cfg.Output.DefaultDir = flags.outputDir
	}
	if flags.workers > 0 {
		cfg.Workers = flags.workers
	}
	if flags.verify {
		cfg.Verify.Enabled = true
	}
}

// resolveWorkers picks the batch concurrency: the configured count, or the
// CPU count capped to the pool maximum.
func resolveWorkers(configured int) int {
	if configured > 0 {
		return configured
	}
	n := runtime.NumCPU()
	if n > mdsanitize.MaxPoolSize {
		n = mdsanitize.MaxPoolSize
	}
	if n < 1 {
		n = 1
	}
	return n
}

// serviceOptions maps config onto service options.
func serviceOptions(cfg *config.Config) []mdsanitize.Option {
	opts := []mdsanitize.Option{
		mdsanitize.WithOutputSuffix(cfg.Output.Suffix),
	}
	if len(cfg.Rules.Disabled) > 0 {
		opts = append(opts, mdsanitize.WithoutRules(cfg.Rules.Disabled...))
	}
	if len(cfg.Detector.ExtraCommands) > 0 {
		opts = append(opts, mdsanitize.WithExtraMathCommands(cfg.Detector.ExtraCommands...))
	}
	if cfg.Detector.Disabled {
		opts = append(opts, mdsanitize.WithoutDetection())
	}
	return opts
}

// discoverFiles resolves positional arguments into concrete input/output
// pairs. A single markdown file may carry an explicit output path; a
// directory expands to every markdown file inside it, outputs derived.
func discoverFiles(args []string, outputDir string, cfg *config.Config) ([]fileToSanitize, error) {
	inputPath := args[0]

	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s%s", mdsanitize.ErrInputNotFound, inputPath, hints.ForInputNotFound())
	}

	if outputDir == "" {
		outputDir = cfg.Output.DefaultDir
	}

	if !info.IsDir() {
		if !fileutil.IsMarkdownFile(inputPath) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidExtension, inputPath)
		}
		outputPath := ""
		if len(args) > 1 {
			outputPath = args[1]
		} else if outputDir != "" {
			outputPath = filepath.Join(outputDir, filepath.Base(fileutil.DeriveOutputPath(inputPath, cfg.Output.Suffix)))
		}
		return []fileToSanitize{{inputPath: inputPath, outputPath: outputPath}}, nil
	}

	var files []fileToSanitize
	walkErr := filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !fileutil.IsMarkdownFile(path) {
			return nil
		}
		out := ""
		if outputDir != "" {
			out = filepath.Join(outputDir, filepath.Base(fileutil.DeriveOutputPath(path, cfg.Output.Suffix)))
		}
		files = append(files, fileToSanitize{inputPath: path, outputPath: out})
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("discovering files: %w", walkErr)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no markdown files in %s", ErrNoInput, inputPath)
	}

	// WalkDir order is already lexical; keep the guarantee explicit.
	sort.Slice(files, func(i, j int) bool { return files[i].inputPath < files[j].inputPath })
	return files, nil
}

// sanitizeBatch processes files concurrently through the service pool,
// writing results by index so reporting order matches discovery order.
func sanitizeBatch(ctx context.Context, pool *mdsanitize.ServicePool, files []fileToSanitize, workers int) []fileResult {
	if len(files) == 0 {
		return nil
	}
	if workers > len(files) {
		workers = len(files)
	}

	results := make([]fileResult, len(files))
	jobs := make(chan int, len(files))
	for i := range files {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			svc := pool.Acquire()
			if svc == nil {
				for i := range jobs {
					results[i] = fileResult{file: files[i], err: errors.New("service pool closed")}
				}
				return
			}
			defer pool.Release(svc)

			for i := range jobs {
				start := time.Now()
				outPath, res, err := svc.SanitizeFile(ctx, files[i].inputPath, files[i].outputPath)
				results[i] = fileResult{
					file:     fileToSanitize{inputPath: files[i].inputPath, outputPath: outPath},
					result:   res,
					err:      err,
					duration: time.Since(start),
				}
			}
		}()
	}
	wg.Wait()

	return results
}

// report prints per-file outcomes, runs the verification compile when
// enabled, and folds everything into a single exit error.
func report(ctx context.Context, results []fileResult, compiler *pipeline.Compiler, flags *sanitizeFlags, stdout, stderr io.Writer) error {
	var firstErr error
	failed := 0

	for _, r := range results {
		if r.err != nil {
			failed++
			if firstErr == nil {
				firstErr = r.err
			}
			fmt.Fprintf(stderr, "error: %s: %v\n", r.file.inputPath, r.err)
			continue
		}

		if !flags.quiet {
			fmt.Fprintf(stdout, "Sanitized %s -> %s\n", r.file.inputPath, r.file.outputPath)
		}
		for _, w := range r.result.Warnings {
			if flags.quiet {
				continue
			}
			fmt.Fprintf(stderr, "warning: %s:%d: %s (%s)\n", r.file.inputPath, w.Line, w.Message, w.Code)
		}
		if flags.verbose {
			fmt.Fprintf(stderr, "  %s in %s\n", r.file.inputPath, r.duration.Round(time.Millisecond))
		}

		if compiler != nil {
			if err := verifyOutput(ctx, compiler, r.file.outputPath); err != nil {
				failed++
				if firstErr == nil {
					firstErr = err
				}
				fmt.Fprintf(stderr, "error: %s: %v%s\n", r.file.outputPath, err, hints.ForVerifyFailure())
			} else if flags.verbose {
				fmt.Fprintf(stderr, "  verified %s\n", r.file.outputPath)
			}
		}
	}

	if failed > 0 {
		if len(results) > 1 {
			return fmt.Errorf("%d of %d files failed: %w", failed, len(results), firstErr)
		}
		return firstErr
	}
	return nil
}

// verifyOutput compiles a sanitized file with the MathML backend.
func verifyOutput(ctx context.Context, compiler *pipeline.Compiler, path string) error {
	data, err := os.ReadFile(path) // #nosec G304 -- path derived from user input
	if err != nil {
		return fmt.Errorf("reading output for verification: %w", err)
	}
	if _, err := compiler.Compile(ctx, string(data)); err != nil {
		return err
	}
	return nil
}
