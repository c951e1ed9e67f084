// Package rules implements the ordered rewrite rules that repair math
// regions. Each rule is a pure text-to-text transform gated by a cheap
// precondition. The list order is a contract: later rules assume the normal
// forms earlier rules establish. Every transform is idempotent on its own
// output, which makes the whole engine a no-op on already-normalized text.
package rules

import (
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/alnah/go-mdsanitize/internal/segment"
)

// Rule names, used for configuration (disabling) and warnings.
const (
	RuleDelimiters    = "delimiters"
	RuleDecoration    = "decoration"
	RuleOrphanScripts = "orphan-scripts"
	RuleAbsoluteValue = "absolute-value"
	RulePunctuation   = "punctuation"
	RuleSpacing       = "spacing"
	RuleBraces        = "braces"
	RuleNestedDollars = "nested-dollars"
	RuleHashEscape    = "hash-escape"
	RuleWhitespace    = "whitespace"
	RuleRemoteImages  = "remote-images"
)

// Rule is a stateless rewrite over a single region's text. Transform never
// inspects neighboring regions and must be idempotent on its own output.
type Rule struct {
	Name         string
	Kinds        []segment.Kind
	Promotable   bool // also applied to detector-promoted spans
	Precondition func(text string) bool
	Transform    func(text string) string
}

// AppliesTo reports whether the rule fires for regions of kind k.
func (r Rule) AppliesTo(k segment.Kind) bool {
	for _, want := range r.Kinds {
		if want == k {
			return true
		}
	}
	return false
}

// Precompiled patterns. Stdlib regexp where possible; regexp2 where a rule
// needs lookaround, which Go's RE2 engine does not support.
var (
	dollarRun     = regexp.MustCompile(`\${3,}`)
	separatorRun  = regexp.MustCompile(`[=_-]{3,}`)
	integralComma = regexp.MustCompile(`(\\(?:int|oint|sum|prod|lim))\s*,\s*`)
	spacerSemis   = regexp.MustCompile(`;\s*(\\(?:sim|circ|mid|approx|equiv|cdot))\s*;`)
	bareArgument  = regexp.MustCompile(`\\(mathcal|mathbb|mathrm|mathbf|text)\s+([A-Za-z])`)
	absPair       = regexp.MustCompile(`\|([^|]+)\|`)
	innerDollar   = regexp.MustCompile(`\$([^$]*)\$`)
	remoteImage   = regexp.MustCompile(`^\s*!\[[^\]]*\]\(https?://[^)]*\)\s*$`)
	spaceRun      = regexp.MustCompile(`[ \t]{2,}`)

	emptyScriptGroup = regexp2.MustCompile(`(?<!\\)[_^]\s*\{\s*\}`, regexp2.None)
	spacedOrphan     = regexp2.MustCompile(` [_^](?![A-Za-z0-9\\{(])`, regexp2.None)
	bareOrphan       = regexp2.MustCompile(`(?<!\\)[_^](?![A-Za-z0-9\\{(])`, regexp2.None)
	unescapedHash    = regexp2.MustCompile(`(?<!\\)#`, regexp2.None)
	diffComma        = regexp2.MustCompile(`(?<!\\),(\s*)(d[a-zA-Z]\w*)`, regexp2.None)
)

var mathKinds = []segment.Kind{segment.KindMathBlock, segment.KindMathInline}

// Default returns the canonical ordered rule list.
func Default() []Rule {
	return []Rule{
		{
			Name:         RuleDelimiters,
			Kinds:        mathKinds,
			Precondition: func(s string) bool { return true },
			Transform:    normalizeDelimiters,
		},
		{
			Name:         RuleDecoration,
			Kinds:        mathKinds,
			Promotable:   true,
			Precondition: func(s string) bool { return strings.ContainsAny(s, "=-_") },
			Transform:    stripDecoration,
		},
		{
			Name:         RuleOrphanScripts,
			Kinds:        mathKinds,
			Promotable:   true,
			Precondition: func(s string) bool { return strings.ContainsAny(s, "_^") },
			Transform:    removeOrphanScripts,
		},
		{
			Name:       RuleAbsoluteValue,
			Kinds:      mathKinds,
			Promotable: true,
			Precondition: func(s string) bool {
				if !strings.Contains(s, "|") {
					return false
				}
				if strings.Contains(s, `\left`) || strings.Contains(s, `\right`) ||
					strings.Contains(s, `\lvert`) || strings.Contains(s, `\|`) ||
					strings.Contains(s, `\mid`) {
					return false
				}
				return strings.Count(s, "|")%2 == 0
			},
			Transform: rewriteAbsoluteValues,
		},
		{
			Name:         RulePunctuation,
			Kinds:        mathKinds,
			Promotable:   true,
			Precondition: func(s string) bool { return strings.Contains(s, ",") },
			Transform:    cleanPunctuation,
		},
		{
			Name:         RuleSpacing,
			Kinds:        mathKinds,
			Promotable:   true,
			Precondition: func(s string) bool { return strings.Contains(s, ";") },
			Transform:    fixSpacingCommands,
		},
		{
			Name:         RuleBraces,
			Kinds:        mathKinds,
			Promotable:   true,
			Precondition: func(s string) bool { return strings.Contains(s, `\math`) || strings.Contains(s, `\text`) },
			Transform:    braceBareArguments,
		},
		{
			Name:         RuleNestedDollars,
			Kinds:        mathKinds,
			Promotable:   true,
			Precondition: func(s string) bool { return strings.Contains(s, "$") },
			Transform:    stripNestedDollars,
		},
		{
			Name:         RuleHashEscape,
			Kinds:        mathKinds,
			Promotable:   true,
			Precondition: func(s string) bool { return strings.Contains(s, "#") },
			Transform:    escapeHashes,
		},
		{
			Name:         RuleWhitespace,
			Kinds:        []segment.Kind{segment.KindMathBlock},
			Precondition: func(s string) bool { return strings.Contains(s, "\n") },
			Transform:    collapseWhitespace,
		},
		{
			Name:         RuleRemoteImages,
			Kinds:        []segment.Kind{segment.KindProse},
			Precondition: func(s string) bool { return strings.Contains(s, "](http") },
			Transform:    removeRemoteImages,
		},
	}
}

// normalizeDelimiters canonicalizes a math region's delimiters: fence lines
// (runs of $, or the bracket form) become "$$", a missing closing fence is
// appended, and runs of three or more dollar signs collapse to "$$".
func normalizeDelimiters(text string) string {
	hasNL := strings.Contains(text, "\n")
	if !hasNL {
		// Single-line region: delimiters are already paired by segmentation.
		return dollarRun.ReplaceAllString(text, "$$$$")
	}

	trailing := ""
	body := text
	for strings.HasSuffix(body, "\n") {
		trailing += "\n"
		body = body[:len(body)-1]
	}

	lines := strings.Split(body, "\n")
	if len(lines) == 1 && isFenceLine(strings.TrimSpace(lines[0])) {
		// Degenerate block: a lone fence with no content. Drop it.
		return ""
	}

	lines[0] = "$$"
	last := strings.TrimSpace(lines[len(lines)-1])
	if isFenceLine(last) {
		lines[len(lines)-1] = "$$"
	} else {
		lines = append(lines, "$$")
	}

	for i := 1; i < len(lines)-1; i++ {
		lines[i] = dollarRun.ReplaceAllString(lines[i], "$$$$")
	}

	return strings.Join(lines, "\n") + trailing
}

// isFenceLine matches the delimiter lines normalizeDelimiters rewrites:
// dollar runs and the bracket display form.
func isFenceLine(trimmed string) bool {
	if trimmed == "[" || trimmed == "]" {
		return true
	}
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

// stripDecoration removes markdown rule/heading artifacts inside math:
// lines made only of separator characters are dropped, and mid-line runs of
// three or more =, -, or _ collapse to a single space.
func stripDecoration(text string) string {
	if !strings.Contains(text, "\n") {
		return separatorRun.ReplaceAllString(text, " ")
	}

	trailing := strings.HasSuffix(text, "\n")
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	out := lines[:0]
	for _, line := range lines {
		if isSeparatorLine(line) {
			continue
		}
		out = append(out, separatorRun.ReplaceAllString(line, " "))
	}
	joined := strings.Join(out, "\n")
	if trailing {
		joined += "\n"
	}
	return joined
}

// isSeparatorLine reports whether the line contains only separator
// characters (=, -, _, en/em dashes) and spaces.
func isSeparatorLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	for _, r := range trimmed {
		switch r {
		case '=', '-', '_', ' ', '–', '—':
		default:
			return false
		}
	}
	return true
}

// removeOrphanScripts deletes _ and ^ markers that have no argument: a
// trailing marker, a marker followed by whitespace, or an empty {} group.
// These are hard errors in the target renderer.
func removeOrphanScripts(text string) string {
	text = replace2(emptyScriptGroup, text, "")
	text = replace2(spacedOrphan, text, "")
	text = replace2(bareOrphan, text, "")
	return text
}

// rewriteAbsoluteValues converts bare |expr| pairs into the explicit
// \lvert expr \rvert form. A bare pipe is ambiguous and mis-renders under
// the MathML backend; the precondition skips regions that already use
// \left, \lvert, \| or \mid.
func rewriteAbsoluteValues(text string) string {
	return absPair.ReplaceAllString(text, `\lvert $1\rvert`)
}

// cleanPunctuation removes narrative commas that bled into math: a comma
// directly after an operator token is dropped, and a comma before a
// differential (dt, dx, dnu) becomes the thin-space form \,dt.
func cleanPunctuation(text string) string {
	text = integralComma.ReplaceAllString(text, "$1 ")
	text = replace2(diffComma, text, `\,$1$2`)
	return text
}

// fixSpacingCommands rewrites informal spacer tokens like ;\sim; into the
// spaced operator form the renderer expects.
func fixSpacingCommands(text string) string {
	return spacerSemis.ReplaceAllString(text, " $1 ")
}

// braceBareArguments adds braces to single-letter arguments of font
// commands: \mathcal C becomes \mathcal{C}.
func braceBareArguments(text string) string {
	return bareArgument.ReplaceAllString(text, `\${1}{${2}}`)
}

// stripNestedDollars unwraps $...$ pairs nested inside an already-delimited
// math region. Only the region body is touched, never its own delimiters.
func stripNestedDollars(text string) string {
	open, body, close := splitMathDelimiters(text)
	return open + innerDollar.ReplaceAllString(body, "$1") + close
}

// escapeHashes escapes # as \# inside math; the downstream compiler treats
// an unescaped hash specially.
func escapeHashes(text string) string {
	open, body, close := splitMathDelimiters(text)
	return open + replace2(unescapedHash, body, `\#`) + close
}

// collapseWhitespace tidies display-block interiors: runs of spaces and
// tabs collapse to one space, trailing spaces are trimmed, and interior
// lines left empty are dropped. Fence lines are untouched.
func collapseWhitespace(text string) string {
	trailing := strings.HasSuffix(text, "\n")
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	out := lines[:0]
	for i, line := range lines {
		if i == 0 || i == len(lines)-1 {
			out = append(out, line)
			continue
		}
		line = strings.TrimRight(spaceRun.ReplaceAllString(line, " "), " \t")
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	joined := strings.Join(out, "\n")
	if trailing {
		joined += "\n"
	}
	return joined
}

// removeRemoteImages drops prose lines that are remote image references;
// downstream compilers fail on unreachable URLs.
func removeRemoteImages(text string) string {
	trailing := strings.HasSuffix(text, "\n")
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	out := lines[:0]
	for _, line := range lines {
		if remoteImage.MatchString(line) {
			continue
		}
		out = append(out, line)
	}
	if len(out) == 0 {
		return ""
	}
	joined := strings.Join(out, "\n")
	if trailing {
		joined += "\n"
	}
	return joined
}

// splitMathDelimiters separates a math region into its delimiters and body
// so body-only transforms cannot damage the region's own markers. Text with
// no recognizable delimiters (detector-promoted spans) is all body.
func splitMathDelimiters(text string) (open, body, close string) {
	trailing := ""
	rest := text
	for strings.HasSuffix(rest, "\n") {
		trailing = "\n" + trailing
		rest = rest[:len(rest)-1]
	}
	switch {
	case len(rest) >= 4 && strings.HasPrefix(rest, "$$") && strings.HasSuffix(rest, "$$"):
		return "$$", rest[2 : len(rest)-2], "$$" + trailing
	case len(rest) >= 2 && strings.HasPrefix(rest, "$") && strings.HasSuffix(rest, "$"):
		return "$", rest[1 : len(rest)-1], "$" + trailing
	}
	return "", rest, trailing
}

// replace2 applies a regexp2 replacement. An engine error aborts the rule
// via panic; the engine's fail-open boundary recovers it into a warning and
// keeps the original text.
func replace2(re *regexp2.Regexp, text, replacement string) string {
	out, err := re.Replace(text, replacement, -1, -1)
	if err != nil {
		panic(err)
	}
	return out
}
