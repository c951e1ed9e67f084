// Package segment splits a Markdown document into an ordered sequence of
// typed regions. Concatenating the region texts in order reconstructs the
// input exactly; every byte belongs to exactly one region.
//
// The segmenter never rejects input. Anything it cannot classify with
// confidence is tagged Prose and left for later stages to inspect.
package segment

import "strings"

// Kind classifies a region's content.
type Kind int

// Region kinds. Code kinds are protected: no later stage may alter them.
const (
	KindProse Kind = iota
	KindCodeBlock
	KindInlineCode
	KindMathBlock
	KindMathInline
)

// String returns the kind name for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindProse:
		return "prose"
	case KindCodeBlock:
		return "code-block"
	case KindInlineCode:
		return "inline-code"
	case KindMathBlock:
		return "math-block"
	case KindMathInline:
		return "math-inline"
	}
	return "unknown"
}

// Protected reports whether the region's text must be preserved byte-for-byte.
func (k Kind) Protected() bool {
	return k == KindCodeBlock || k == KindInlineCode
}

// Math reports whether the region holds math content.
func (k Kind) Math() bool {
	return k == KindMathBlock || k == KindMathInline
}

// Region is a contiguous span of the document assigned to one classification.
// Line is the 1-based line where the region starts, used only for diagnostics.
type Region struct {
	Kind Kind
	Text string
	Line int
}

// Warning records a recoverable condition found during segmentation.
type Warning struct {
	Message string
	Line    int
}

// minFenceLen is the minimum run length for a code fence line.
const minFenceLen = 3

// Split partitions content into regions. Display math opened by a "$$" line
// (or a bare "[" line, a form chat models emit) runs to its closing line.
// A display block with no closing marker is closed at the end of its
// paragraph, or at end of document, and reported as a warning; the content
// is never dropped.
func Split(content string) ([]Region, []Warning) {
	if content == "" {
		return nil, nil
	}

	lines := splitLines(content)
	var regions []Region
	var warns []Warning

	i := 0
	for i < len(lines) {
		line := lines[i]
		trimmed := strings.TrimSpace(trimEOL(line))

		if ch, n, ok := CodeFenceOpen(trimmed); ok {
			end := findCodeFenceClose(lines, i+1, ch, n)
			regions = append(regions, Region{
				Kind: KindCodeBlock,
				Text: joinLines(lines[i : end+1]),
				Line: i + 1,
			})
			i = end + 1
			continue
		}

		if isDollarFence(trimmed) {
			end, closed := findDisplayClose(lines, i+1, isDollarFenceLine)
			if !closed {
				warns = append(warns, Warning{
					Message: "display math block has no closing $$",
					Line:    i + 1,
				})
			}
			regions = append(regions, Region{
				Kind: KindMathBlock,
				Text: joinLines(lines[i : end+1]),
				Line: i + 1,
			})
			i = end + 1
			continue
		}

		if trimmed == "[" {
			if end, closed := findDisplayClose(lines, i+1, isBracketClose); closed {
				regions = append(regions, Region{
					Kind: KindMathBlock,
					Text: joinLines(lines[i : end+1]),
					Line: i + 1,
				})
				i = end + 1
				continue
			}
			// No closing bracket anywhere: treat as prose rather than guess.
		}

		regions = append(regions, scanInline(line, i+1)...)
		i++
	}

	return regions, warns
}

// Concat joins region texts in order. The inverse of Split for untouched
// regions, and the reassembly step after transformation.
func Concat(regions []Region) string {
	var b strings.Builder
	for _, r := range regions {
		b.WriteString(r.Text)
	}
	return b.String()
}

// splitLines splits content into lines, each retaining its trailing newline.
func splitLines(content string) []string {
	lines := strings.SplitAfter(content, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func joinLines(lines []string) string {
	return strings.Join(lines, "")
}

func trimEOL(line string) string {
	return strings.TrimSuffix(line, "\n")
}

// CodeFenceOpen reports whether trimmed opens a fenced code block, returning
// the fence character and run length. An info string may follow the fence.
// Exported for the reassembly passes, which must agree with the scanner on
// what counts as a fence.
func CodeFenceOpen(trimmed string) (byte, int, bool) {
	if trimmed == "" {
		return 0, 0, false
	}
	ch := trimmed[0]
	if ch != '`' && ch != '~' {
		return 0, 0, false
	}
	n := 0
	for n < len(trimmed) && trimmed[n] == ch {
		n++
	}
	if n < minFenceLen {
		return 0, 0, false
	}
	return ch, n, true
}

// findCodeFenceClose returns the index of the closing fence line, or the last
// line when the block is unterminated (the block then runs to end of input).
func findCodeFenceClose(lines []string, from int, ch byte, n int) int {
	for j := from; j < len(lines); j++ {
		if CodeFenceClose(strings.TrimSpace(trimEOL(lines[j])), ch, n) {
			return j
		}
	}
	return len(lines) - 1
}

// CodeFenceClose reports whether trimmed closes a code fence opened with
// run length n of ch: a run of the same character, at least as long, and
// nothing else on the line.
func CodeFenceClose(trimmed string, ch byte, n int) bool {
	return len(trimmed) >= n && strings.Count(trimmed, string(ch)) == len(trimmed)
}

// isDollarFence reports whether trimmed is a display-math fence line: a run
// of two or more dollar signs and nothing else.
func isDollarFence(trimmed string) bool {
	if len(trimmed) < 2 {
		return false
	}
	for i := 0; i < len(trimmed); i++ {
		if trimmed[i] != '$' {
			return false
		}
	}
	return true
}

func isDollarFenceLine(trimmed string) bool { return isDollarFence(trimmed) }

func isBracketClose(trimmed string) bool { return trimmed == "]" }

// findDisplayClose scans for the closing line of a display block. When no
// closing line exists, the block is bounded at the first blank line after the
// opener (end of paragraph) or at end of document.
func findDisplayClose(lines []string, from int, isClose func(string) bool) (end int, closed bool) {
	for j := from; j < len(lines); j++ {
		if isClose(strings.TrimSpace(trimEOL(lines[j]))) {
			return j, true
		}
	}
	for j := from; j < len(lines); j++ {
		if strings.TrimSpace(trimEOL(lines[j])) == "" {
			return j - 1, false
		}
	}
	return len(lines) - 1, false
}

// scanInline splits a single line into prose, inline-code, and inline-math
// pieces. Inline code uses matched backtick runs; math uses $$...$$ and
// $...$ pairs closed on the same line. Unclosed markers stay prose.
func scanInline(line string, lineNo int) []Region {
	var regs []Region
	var prose strings.Builder

	flush := func() {
		if prose.Len() > 0 {
			regs = append(regs, Region{Kind: KindProse, Text: prose.String(), Line: lineNo})
			prose.Reset()
		}
	}

	i := 0
	for i < len(line) {
		c := line[i]

		if c == '`' {
			n := runLength(line, i, '`')
			marker := line[i : i+n]
			if rel := strings.Index(line[i+n:], marker); rel >= 0 {
				end := i + n + rel + n
				flush()
				regs = append(regs, Region{Kind: KindInlineCode, Text: line[i:end], Line: lineNo})
				i = end
				continue
			}
			prose.WriteString(marker)
			i += n
			continue
		}

		if c == '$' {
			if strings.HasPrefix(line[i:], "$$") {
				if rel := strings.Index(line[i+2:], "$$"); rel >= 0 {
					end := i + 2 + rel + 2
					flush()
					regs = append(regs, Region{Kind: KindMathBlock, Text: line[i:end], Line: lineNo})
					i = end
					continue
				}
			} else if rel := strings.IndexByte(line[i+1:], '$'); rel >= 0 {
				end := i + 1 + rel + 1
				flush()
				regs = append(regs, Region{Kind: KindMathInline, Text: line[i:end], Line: lineNo})
				i = end
				continue
			}
		}

		prose.WriteByte(c)
		i++
	}

	flush()
	return regs
}

// runLength counts the run of ch starting at i.
func runLength(s string, i int, ch byte) int {
	n := 0
	for i+n < len(s) && s[i+n] == ch {
		n++
	}
	return n
}
