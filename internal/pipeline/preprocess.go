package pipeline

import (
	"regexp"
	"strings"

	"github.com/alnah/go-mdsanitize/internal/segment"
)

// crlfOrCR matches Windows and old-Mac line endings.
var crlfOrCR = regexp.MustCompile(`\r\n?`)

// NormalizeLineEndings converts \r\n and \r to \n. Runs before segmentation
// so every later stage sees one line-ending convention.
func NormalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// fenceTracker follows code-fence state line by line with the same matching
// the segmenter uses: a closing line must repeat the opening character for
// at least the opening run length, so a "```" line inside a "~~~" block
// stays code.
type fenceTracker struct {
	inCode bool
	ch     byte
	n      int
}

// boundary reports whether trimmed opens or closes a fence, updating state.
func (t *fenceTracker) boundary(trimmed string) bool {
	if !t.inCode {
		if ch, n, ok := segment.CodeFenceOpen(trimmed); ok {
			t.inCode, t.ch, t.n = true, ch, n
			return true
		}
		return false
	}
	if segment.CodeFenceClose(trimmed, t.ch, t.n) {
		t.inCode = false
		return true
	}
	return false
}

// EnsureBlankAroundDisplayMath inserts a blank line before an opening "$$"
// fence and after a closing one when the neighbor line is non-blank, so the
// downstream compiler sees display math as its own block. Content inside
// fenced code blocks is never touched.
func EnsureBlankAroundDisplayMath(content string) string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))

	var fence fenceTracker
	inMath := false

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if !inMath && fence.boundary(trimmed) {
			out = append(out, line)
			continue
		}
		if fence.inCode {
			out = append(out, line)
			continue
		}

		if trimmed == "$$" {
			if !inMath {
				if len(out) > 0 && strings.TrimSpace(out[len(out)-1]) != "" {
					out = append(out, "")
				}
				out = append(out, line)
				inMath = true
			} else {
				out = append(out, line)
				inMath = false
				if i+1 < len(lines) && strings.TrimSpace(lines[i+1]) != "" {
					out = append(out, "")
				}
			}
			continue
		}

		out = append(out, line)
	}

	return strings.Join(out, "\n")
}

// CompressBlankLines limits consecutive blank lines to one outside fenced
// code blocks. Code block content is preserved byte-for-byte.
func CompressBlankLines(content string) string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))

	var fence fenceTracker
	blanks := 0

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if fence.boundary(trimmed) {
			blanks = 0
			out = append(out, line)
			continue
		}
		if fence.inCode {
			out = append(out, line)
			continue
		}

		if trimmed == "" {
			blanks++
			if blanks > 1 {
				continue
			}
		} else {
			blanks = 0
		}
		out = append(out, line)
	}

	return strings.Join(out, "\n")
}
