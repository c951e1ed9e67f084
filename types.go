package mdsanitize

// WarningCode classifies a recoverable condition found during sanitization.
type WarningCode string

// Warning codes. Warnings never abort a run; they mark output the caller
// may want to inspect.
const (
	// WarnUnbalancedDelimiter marks a display math block with no closing
	// marker; the block was closed implicitly.
	WarnUnbalancedDelimiter WarningCode = "unbalanced-delimiter"

	// WarnRuleFailure marks a rewrite rule that errored on a region; the
	// region's text was kept unchanged.
	WarnRuleFailure WarningCode = "rule-failure"
)

// Warning is a recoverable condition attached to a sanitization result.
// Line is 1-based in the input document, for diagnostics only.
type Warning struct {
	Code    WarningCode
	Message string
	Line    int
}

// Input contains sanitization parameters.
type Input struct {
	Markdown string // Markdown content (may be empty; empty in, empty out)
}

// Result holds sanitized output and any warnings collected along the way.
type Result struct {
	Markdown string
	Warnings []Warning
}

// Option configures a Service.
type Option func(*Service)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	workers       int
	suffix        string
	extraCommands []string
	disabledRules []string
	detectorOff   bool
}

// defaultSuffix is appended to the input stem when SanitizeFile derives an
// output path.
const defaultSuffix = "_fixed"

// WithWorkers sets the number of goroutines used for region-level rule
// application. Output is byte-identical regardless of worker count; this is
// purely a throughput knob for very large documents.
// Panics if n < 1 (programmer error, similar to time.NewTicker).
func WithWorkers(n int) Option {
	if n < 1 {
		panic("mdsanitize: WithWorkers count must be positive")
	}
	return func(s *Service) {
		s.cfg.workers = n
	}
}

// WithOutputSuffix sets the suffix SanitizeFile splices into the input stem
// when no output path is given.
func WithOutputSuffix(suffix string) Option {
	return func(s *Service) {
		s.cfg.suffix = suffix
	}
}

// WithExtraMathCommands widens the detector's LaTeX command allow-list.
// Command names are bare identifiers without the backslash.
func WithExtraMathCommands(commands ...string) Option {
	return func(s *Service) {
		s.cfg.extraCommands = append(s.cfg.extraCommands, commands...)
	}
}

// WithoutRules disables rewrite rules by name.
func WithoutRules(names ...string) Option {
	return func(s *Service) {
		s.cfg.disabledRules = append(s.cfg.disabledRules, names...)
	}
}

// WithoutDetection disables prose math detection; only already-delimited
// math regions are repaired.
func WithoutDetection() Option {
	return func(s *Service) {
		s.cfg.detectorOff = true
	}
}
