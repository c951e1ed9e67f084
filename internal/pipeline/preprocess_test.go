package pipeline

import "testing"

func TestNormalizeLineEndings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "LF unchanged",
			input:    "line1\nline2",
			expected: "line1\nline2",
		},
		{
			name:     "CRLF to LF",
			input:    "line1\r\nline2",
			expected: "line1\nline2",
		},
		{
			name:     "CR to LF",
			input:    "line1\rline2",
			expected: "line1\nline2",
		},
		{
			name:     "mixed line endings",
			input:    "a\r\nb\rc\nd",
			expected: "a\nb\nc\nd",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := NormalizeLineEndings(tt.input); got != tt.expected {
				t.Errorf("NormalizeLineEndings() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestEnsureBlankAroundDisplayMath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "blank inserted before and after",
			input:    "text\n$$\nx\n$$\nmore",
			expected: "text\n\n$$\nx\n$$\n\nmore",
		},
		{
			name:     "already spaced unchanged",
			input:    "text\n\n$$\nx\n$$\n\nmore",
			expected: "text\n\n$$\nx\n$$\n\nmore",
		},
		{
			name:     "block at document edges",
			input:    "$$\nx\n$$",
			expected: "$$\nx\n$$",
		},
		{
			name:     "code fence contents untouched",
			input:    "```\ntext\n$$\nx\n$$\n```",
			expected: "```\ntext\n$$\nx\n$$\n```",
		},
		{
			name:     "backtick fence inside tilde block stays code",
			input:    "~~~\n```\n$$\nx\n$$\n~~~",
			expected: "~~~\n```\n$$\nx\n$$\n~~~",
		},
		{
			name:     "inline display line untouched",
			input:    "a\n$$x^2$$\nb",
			expected: "a\n$$x^2$$\nb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := EnsureBlankAroundDisplayMath(tt.input)
			if got != tt.expected {
				t.Errorf("EnsureBlankAroundDisplayMath(%q) = %q, want %q", tt.input, got, tt.expected)
			}
			if again := EnsureBlankAroundDisplayMath(got); again != got {
				t.Errorf("not idempotent: %q then %q", got, again)
			}
		})
	}
}

func TestCompressBlankLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "single blank kept",
			input:    "a\n\nb",
			expected: "a\n\nb",
		},
		{
			name:     "double blank compressed",
			input:    "a\n\n\nb",
			expected: "a\n\nb",
		},
		{
			name:     "many blanks compressed",
			input:    "a\n\n\n\n\nb",
			expected: "a\n\nb",
		},
		{
			name:     "code block blanks preserved",
			input:    "```\na\n\n\n\nb\n```",
			expected: "```\na\n\n\n\nb\n```",
		},
		{
			name:     "backtick fence inside tilde block does not end it",
			input:    "~~~\n```\n\n\ntext in code\n```\n~~~",
			expected: "~~~\n```\n\n\ntext in code\n```\n~~~",
		},
		{
			name:     "shorter run does not close a longer fence",
			input:    "````\na\n\n\n```\n\n\nb\n````",
			expected: "````\na\n\n\n```\n\n\nb\n````",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := CompressBlankLines(tt.input)
			if got != tt.expected {
				t.Errorf("CompressBlankLines(%q) = %q, want %q", tt.input, got, tt.expected)
			}
			if again := CompressBlankLines(got); again != got {
				t.Errorf("not idempotent: %q then %q", got, again)
			}
		})
	}
}
