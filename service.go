package mdsanitize

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/alnah/go-mdsanitize/internal/detect"
	"github.com/alnah/go-mdsanitize/internal/fileutil"
	"github.com/alnah/go-mdsanitize/internal/pipeline"
	"github.com/alnah/go-mdsanitize/internal/rules"
	"github.com/alnah/go-mdsanitize/internal/segment"
)

// outputFilePerm is the mode for sanitized output files.
const outputFilePerm = 0o644

// Service orchestrates the sanitization pipeline: segmentation, rule
// application, math detection, and reassembly. A Service is stateless
// between documents and safe for concurrent use.
type Service struct {
	cfg      serviceConfig
	engine   *rules.Engine
	detector *detect.Detector
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g., WithWorkers).
func New(opts ...Option) *Service {
	s := &Service{
		cfg: serviceConfig{workers: 1, suffix: defaultSuffix},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.engine = rules.NewEngine(s.cfg.disabledRules)
	if !s.cfg.detectorOff {
		s.detector = detect.New(s.cfg.extraCommands, s.engine.ApplyPromoted)
	}
	return s
}

// Sanitize runs the full pipeline over a document and returns the
// sanitized text. The pass is deterministic and idempotent: sanitizing
// already-sanitized output is a no-op. Malformed content never fails the
// run; only context cancellation produces an error.
func (s *Service) Sanitize(ctx context.Context, input Input) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if input.Markdown == "" {
		return &Result{}, nil
	}

	content := pipeline.NormalizeLineEndings(input.Markdown)

	regions, segWarns := segment.Split(content)
	warnings := make([]Warning, 0, len(segWarns))
	for _, w := range segWarns {
		warnings = append(warnings, Warning{
			Code:    WarnUnbalancedDelimiter,
			Message: w.Message,
			Line:    w.Line,
		})
	}

	warnings = append(warnings, s.applyRules(regions)...)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if s.detector != nil {
		regions = s.detectMath(regions)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := segment.Concat(regions)
	out = pipeline.EnsureBlankAroundDisplayMath(out)
	out = pipeline.CompressBlankLines(out)

	return &Result{Markdown: out, Warnings: warnings}, nil
}

// applyRules runs the rule engine over every transformable region, in
// place. Regions are independent, so with multiple workers they are
// processed concurrently; results are written by index, keeping output
// byte-identical to the sequential order.
func (s *Service) applyRules(regions []segment.Region) []Warning {
	var transformable []int
	for i, r := range regions {
		if !r.Kind.Protected() {
			transformable = append(transformable, i)
		}
	}
	if len(transformable) == 0 {
		return nil
	}

	perRegion := make([][]rules.Warning, len(transformable))

	workers := s.cfg.workers
	if workers > len(transformable) {
		workers = len(transformable)
	}

	if workers <= 1 {
		for j, i := range transformable {
			regions[i].Text, perRegion[j] = s.engine.Apply(regions[i])
		}
	} else {
		jobs := make(chan int, len(transformable))
		for j := range transformable {
			jobs <- j
		}
		close(jobs)

		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := range jobs {
					i := transformable[j]
					regions[i].Text, perRegion[j] = s.engine.Apply(regions[i])
				}
			}()
		}
		wg.Wait()
	}

	var warnings []Warning
	for _, ws := range perRegion {
		for _, w := range ws {
			warnings = append(warnings, Warning{
				Code:    WarnRuleFailure,
				Message: fmt.Sprintf("%s (rule %s)", w.Message, w.Rule),
				Line:    w.Line,
			})
		}
	}
	return warnings
}

// detectMath runs the detector over prose regions in document order,
// splicing promoted spans in place.
func (s *Service) detectMath(regions []segment.Region) []segment.Region {
	out := make([]segment.Region, 0, len(regions))
	for _, r := range regions {
		if r.Kind != segment.KindProse {
			out = append(out, r)
			continue
		}
		out = append(out, s.detector.Scan(r)...)
	}
	return out
}

// SanitizeFile reads inputPath, sanitizes it, and writes the result to
// outputPath. An empty outputPath derives the conventional sibling name
// (stem + suffix + extension). The input file is never overwritten, and
// the output is written all-or-nothing: on failure no partial file exists.
// Returns the resolved output path alongside the result.
func (s *Service) SanitizeFile(ctx context.Context, inputPath, outputPath string) (string, *Result, error) {
	if !fileutil.FileExists(inputPath) {
		return "", nil, fmt.Errorf("%w: %s", ErrInputNotFound, inputPath)
	}

	data, err := os.ReadFile(inputPath) // #nosec G304 -- path comes from the caller
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrReadInput, err)
	}

	if outputPath == "" {
		outputPath = fileutil.DeriveOutputPath(inputPath, s.cfg.suffix)
	}
	if fileutil.SamePath(inputPath, outputPath) {
		return "", nil, fmt.Errorf("%w: %s", ErrSameOutput, outputPath)
	}

	result, err := s.Sanitize(ctx, Input{Markdown: string(data)})
	if err != nil {
		return "", nil, err
	}

	if err := fileutil.WriteFileAtomic(outputPath, []byte(result.Markdown), outputFilePerm); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return outputPath, result, nil
}
