// Package mdsanitize normalizes informally authored Markdown documents with
// embedded LaTeX math so downstream converters accept them without crashing
// or producing garbled math.
//
// Chat-model output and hand-written notes break LaTeX in predictable ways:
// unbalanced delimiters, markdown rule lines inside math blocks, orphaned
// sub/superscript markers, stray punctuation, and math-like parenthesized
// expressions never wrapped in delimiters. mdsanitize repairs all of these
// while guaranteeing code and verbatim content is preserved byte-for-byte.
//
// # Quick Start
//
// Create a service and sanitize markdown:
//
//	svc := mdsanitize.New()
//	result, err := svc.Sanitize(ctx, mdsanitize.Input{
//	    Markdown: "The norm (\\sum_i x_i^2) is $$x^\n$$",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Markdown)
//
// Or sanitize a file directly; the output lands next to the input with a
// "_fixed" suffix, never overwriting the source:
//
//	outPath, result, err := svc.SanitizeFile(ctx, "notes.md", "")
//
// # Pipeline
//
// Sanitization runs a fixed sequence of stages:
//
//  1. Segmentation: the document splits into typed regions (code blocks,
//     inline code, display math, inline math, prose). Code regions are
//     protected and never modified.
//  2. Rule application: an ordered list of idempotent rewrite rules repairs
//     each math region (delimiter normalization, decoration stripping,
//     orphan script removal, absolute-value correction, punctuation and
//     spacing cleanup). A rule that fails internally degrades to identity
//     and is reported as a warning, never as an error.
//  3. Detection: parenthesized prose spans that are very likely math are
//     promoted to inline math and normalized in turn.
//  4. Reassembly: regions are concatenated in order, display math gets
//     breathing room, and excess blank lines are compressed.
//
// The whole pass is deterministic and idempotent: sanitizing sanitized
// output is a no-op.
//
// # Warnings and Errors
//
// Malformed content never aborts a run; it is repaired or passed through
// and noted in Result.Warnings. Errors are reserved for the environment:
// missing input, unreadable files, unwritable destinations. File output is
// all-or-nothing; a partial output file can never exist.
//
// # Batch Processing
//
// For many files, ServicePool bounds concurrency:
//
//	pool := mdsanitize.NewServicePool(4)
//	defer pool.Close()
//
//	svc := pool.Acquire()
//	defer pool.Release(svc)
package mdsanitize
