package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	treeblood "github.com/wyatt915/goldmark-treeblood"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// ErrCompile indicates the verification compile rejected the document.
var ErrCompile = errors.New("markdown compilation failed")

// Compiler runs sanitized markdown through the same class of toolchain the
// downstream converters use: extended Markdown (tables, footnotes,
// strikethrough) with math rendered to strict MathML. A document that
// compiles here is renderer-safe.
type Compiler struct {
	md goldmark.Markdown
}

// NewCompiler builds the verification compiler.
func NewCompiler() *Compiler {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
			treeblood.MathML(),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
	return &Compiler{md: md}
}

// Compile converts content to HTML with MathML math, honoring context
// cancellation via a goroutine since goldmark has no native context
// support. The HTML is returned for inspection; callers verifying output
// usually only care about the error.
func (c *Compiler) Compile(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrCompile, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
