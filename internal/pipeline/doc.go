// Package pipeline implements the document-level stages that surround
// region transformation:
//   - preprocessing (line-ending normalization) before segmentation
//   - reassembly fixups (display-math spacing, blank-line compression)
//     after transformation
//   - the verification compile, which proves sanitized output is accepted
//     by an extended-Markdown compiler with a strict MathML math backend
//
// Region segmentation and rewriting live in the segment, rules, and detect
// packages; this package only sees the document as a whole.
package pipeline
