// Package config loads sanitizer configuration from YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/alnah/go-mdsanitize/internal/fileutil"
	"github.com/alnah/go-mdsanitize/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound     = errors.New("config file not found")
	ErrConfigParse        = errors.New("failed to parse config")
	ErrInvalidSuffix      = errors.New("invalid output suffix")
	ErrInvalidWorkers     = errors.New("invalid worker count")
	ErrInvalidCommandName = errors.New("invalid detector command name")
)

// Worker bounds. Region transforms are cheap; more workers than this only
// adds scheduling overhead.
const (
	MinWorkers = 1
	MaxWorkers = 64
)

// DefaultSuffix is appended to the input stem when no output path is given.
const DefaultSuffix = "_fixed"

// commandName restricts detector allow-list additions to plain LaTeX
// command identifiers (no backslash, no metacharacters).
var commandName = regexp.MustCompile(`^[A-Za-z]+$`)

// Config holds all configuration for document sanitization.
type Config struct {
	Output   OutputConfig   `yaml:"output"`
	Rules    RulesConfig    `yaml:"rules"`
	Detector DetectorConfig `yaml:"detector"`
	Verify   VerifyConfig   `yaml:"verify"`
	Workers  int            `yaml:"workers"`
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
	Suffix     string `yaml:"suffix"`     // Appended to the input stem (default: "_fixed")
}

// RulesConfig defines rewrite-rule options.
type RulesConfig struct {
	Disabled []string `yaml:"disabled"` // Rule names to skip
}

// DetectorConfig defines math-detection options.
type DetectorConfig struct {
	Disabled      bool     `yaml:"disabled"`      // Skip prose math detection entirely
	ExtraCommands []string `yaml:"extraCommands"` // Additional allow-listed LaTeX commands
}

// VerifyConfig defines verification-compile options.
type VerifyConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{Suffix: DefaultSuffix},
	}
}

// LoadConfig reads and validates a YAML config file.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrConfigNotFound)
	}
	if !fileutil.FileExists(path) {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the user's own flag
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if cfg.Output.Suffix == "" {
		cfg.Output.Suffix = DefaultSuffix
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values. Called by LoadConfig, but available for
// consumers who construct Config manually.
func (c *Config) Validate() error {
	if err := fileutil.ValidateSuffix(c.Output.Suffix); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSuffix, err)
	}
	if c.Workers != 0 && (c.Workers < MinWorkers || c.Workers > MaxWorkers) {
		return fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidWorkers, c.Workers, MinWorkers, MaxWorkers)
	}
	for _, cmd := range c.Detector.ExtraCommands {
		if !commandName.MatchString(cmd) {
			return fmt.Errorf("%w: %q (letters only, no backslash)", ErrInvalidCommandName, cmd)
		}
	}
	return nil
}
