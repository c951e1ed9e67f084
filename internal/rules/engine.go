package rules

import (
	"fmt"

	"github.com/alnah/go-mdsanitize/internal/segment"
)

// Warning records a rule that failed on a region. The rule's output was
// discarded and the region's text kept as-is (fail-open).
type Warning struct {
	Rule    string
	Message string
	Line    int
}

// Engine applies the ordered rule list to regions. Rule order within a
// region is always sequential; the list is a pipeline, not a set.
type Engine struct {
	rules []Rule
}

// NewEngine builds an engine from the canonical rule list, minus any rules
// named in disabled.
func NewEngine(disabled []string) *Engine {
	skip := make(map[string]bool, len(disabled))
	for _, name := range disabled {
		skip[name] = true
	}

	all := Default()
	kept := make([]Rule, 0, len(all))
	for _, r := range all {
		if !skip[r.Name] {
			kept = append(kept, r)
		}
	}
	return &Engine{rules: kept}
}

// Apply runs every applicable rule over the region's text in order and
// returns the rewritten text. A rule whose precondition fails is skipped; a
// rule that errors internally is recovered, reported as a warning, and its
// input passed through unchanged. Apply never fails: leaving text
// un-normalized is always safer than corrupting it.
func (e *Engine) Apply(r segment.Region) (string, []Warning) {
	if r.Kind.Protected() {
		return r.Text, nil
	}

	text := r.Text
	var warns []Warning
	for _, rule := range e.rules {
		if !rule.AppliesTo(r.Kind) || !rule.Precondition(text) {
			continue
		}
		out, err := applyOne(rule, text)
		if err != nil {
			warns = append(warns, Warning{Rule: rule.Name, Message: err.Error(), Line: r.Line})
			continue
		}
		text = out
	}
	return text, warns
}

// ApplyPromoted runs the promotion-safe subset over a bare span interior
// (no delimiters), used by the detector so promoted spans arrive
// well-formed. Failures degrade to identity silently; promotion is
// best-effort by definition.
func (e *Engine) ApplyPromoted(text string) string {
	for _, rule := range e.rules {
		if !rule.Promotable || !rule.Precondition(text) {
			continue
		}
		if out, err := applyOne(rule, text); err == nil {
			text = out
		}
	}
	return text
}

// applyOne is the fail-open boundary: a panic inside a transform becomes an
// error and the caller keeps the pre-rule text.
func applyOne(rule Rule, text string) (out string, err error) {
	defer func() {
		if p := recover(); p != nil {
			out = text
			err = fmt.Errorf("rule %s: %v", rule.Name, p)
		}
	}()
	return rule.Transform(text), nil
}
