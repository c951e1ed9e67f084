package pipeline

import (
	"context"
	"strings"
	"testing"
)

func TestCompilerAcceptsSanitizedMarkdown(t *testing.T) {
	t.Parallel()

	c := NewCompiler()

	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "prose with inline math",
			input: "The identity $x^2 + y^2 = z^2$ holds.\n",
		},
		{
			name:  "display math block",
			input: "$$\n\\frac{a}{b} = c\n$$\n",
		},
		{
			name:  "table and footnote",
			input: "| a | b |\n|---|---|\n| 1 | 2 |\n\nnote[^1]\n\n[^1]: detail\n",
		},
		{
			name:  "fenced code",
			input: "```go\nfmt.Println(\"hi\")\n```\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			html, err := c.Compile(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("Compile() error = %v", err)
			}
			if html == "" {
				t.Error("Compile() returned empty HTML")
			}
		})
	}
}

func TestCompilerRendersMathML(t *testing.T) {
	t.Parallel()

	c := NewCompiler()

	html, err := c.Compile(context.Background(), "$$x^2$$\n")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if !strings.Contains(html, "math") {
		t.Errorf("expected MathML output, got %q", html)
	}
}

func TestCompilerCancelledContext(t *testing.T) {
	t.Parallel()

	c := NewCompiler()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Compile(ctx, "# hi\n"); err == nil {
		t.Error("Compile() with cancelled context should fail")
	}
}
