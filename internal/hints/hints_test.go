package hints

import (
	"strings"
	"testing"
)

func TestHintsFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  string
	}{
		{"input not found", ForInputNotFound()},
		{"config not found", ForConfigNotFound(nil)},
		{"output directory", ForOutputDirectory()},
		{"verify failure", ForVerifyFailure()},
	}
	for _, tt := range tests {
		if !strings.HasPrefix(tt.got, "\n  hint: ") {
			t.Errorf("%s: hint = %q, want \"\\n  hint: \" prefix", tt.name, tt.got)
		}
	}
}

func TestForConfigNotFoundMentionsConfigDir(t *testing.T) {
	t.Parallel()

	paths := []string{
		"/etc/mdsanitize.yaml",
		"/home/u/.config/go-mdsanitize/config.yaml",
	}
	got := ForConfigNotFound(paths)
	if !strings.Contains(got, ".config/go-mdsanitize") {
		t.Errorf("hint = %q, want mention of config directory", got)
	}
	if !strings.Contains(got, "--config") {
		t.Errorf("hint = %q, want mention of --config flag", got)
	}
}
