// Package detect heuristically promotes undelimited math in prose to
// inline math regions. Precision is favored over recall: a false positive
// corrupts prose, while a false negative merely leaves text un-normalized.
package detect

import (
	"regexp"
	"strings"

	"github.com/alnah/go-mdsanitize/internal/segment"
)

// defaultCommands is the allow-list of LaTeX command tokens whose presence
// inside a parenthesized span marks it as math. Expanding this list is a
// deliberate, tested change; additions arrive via configuration.
var defaultCommands = []string{
	"frac", "int", "oint", "sum", "prod", "sqrt", "partial", "infty",
	"pm", "mp", "times", "div", "cdot", "circ", "sim", "approx", "equiv",
	"leq", "geq", "neq", "rightarrow", "leftarrow", "leftrightarrow",
	"Rightarrow", "Leftarrow", "to", "mapsto", "boxed", "mid",
	"text", "mathcal", "mathbb", "mathrm", "mathbf",
	"hat", "bar", "vec", "dot", "tilde",
	"lim", "max", "min", "log", "exp", "sin", "cos", "tan",
	"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "eta", "theta",
	"iota", "kappa", "lambda", "mu", "nu", "xi", "pi", "rho", "sigma",
	"tau", "upsilon", "phi", "chi", "psi", "omega",
	"Gamma", "Delta", "Theta", "Lambda", "Xi", "Pi", "Sigma", "Upsilon",
	"Phi", "Psi", "Omega",
}

// sentenceBoundary is a strong prose signal: a period followed by spacing
// and a capital letter. Spans carrying it are never promoted.
var sentenceBoundary = regexp.MustCompile(`\.\s+[A-Z]`)

// Detector classifies parenthesized prose spans as math or prose.
type Detector struct {
	commands  *regexp.Regexp
	normalize func(string) string
}

// New builds a Detector. extra widens the command allow-list; normalize is
// applied to each promoted span's interior before wrapping (the engine's
// promotion-safe rules), so promoted spans are well-formed on arrival.
func New(extra []string, normalize func(string) string) *Detector {
	cmds := make([]string, 0, len(defaultCommands)+len(extra))
	cmds = append(cmds, defaultCommands...)
	cmds = append(cmds, extra...)
	if normalize == nil {
		normalize = func(s string) string { return s }
	}
	return &Detector{
		commands:  regexp.MustCompile(`\\(?:` + strings.Join(cmds, "|") + `)\b`),
		normalize: normalize,
	}
}

// Scan inspects a prose region and returns its replacement sequence:
// either the region unchanged, or prose/math-inline/prose splits with each
// promoted span wrapped in single-dollar delimiters. Already-delimited math
// never reaches the detector; the segmenter extracted it first, so existing
// delimiters always take precedence over detection.
func (d *Detector) Scan(r segment.Region) []segment.Region {
	if r.Kind != segment.KindProse || !strings.Contains(r.Text, "(") {
		return []segment.Region{r}
	}

	var regions []segment.Region
	var prose strings.Builder

	flush := func() {
		if prose.Len() > 0 {
			regions = append(regions, segment.Region{Kind: segment.KindProse, Text: prose.String(), Line: r.Line})
			prose.Reset()
		}
	}

	text := r.Text
	i := 0
	for i < len(text) {
		if text[i] != '(' {
			prose.WriteByte(text[i])
			i++
			continue
		}
		interior, end := parenContent(text, i)
		if end < 0 || !d.isMath(interior) {
			prose.WriteByte(text[i])
			i++
			continue
		}
		flush()
		normalized := strings.TrimSpace(d.normalize(interior))
		regions = append(regions, segment.Region{
			Kind: segment.KindMathInline,
			Text: "$" + normalized + "$",
			Line: r.Line,
		})
		i = end + 1
	}

	flush()
	return regions
}

// isMath applies the promotion heuristic: the span must carry a math signal
// (an allow-listed command, or an = / ^ operator) and no prose signal.
func (d *Detector) isMath(interior string) bool {
	if interior == "" || strings.Contains(interior, "\n") {
		return false
	}
	if sentenceBoundary.MatchString(interior) {
		return false
	}
	if strings.Contains(interior, "](") || strings.Contains(interior, "://") {
		return false
	}
	if d.commands.MatchString(interior) {
		return true
	}
	return strings.ContainsAny(interior, "=^")
}

// parenContent extracts the interior of a balanced parenthesized span
// starting at an opening paren. Returns the index of the closing paren, or
// -1 when unbalanced.
func parenContent(s string, start int) (string, int) {
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s[start+1 : i], i
			}
		}
	}
	return "", -1
}
