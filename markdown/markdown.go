// Package markdown converts post bodies to HTML.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/russross/blackfriday/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Engine names accepted by New.
const (
	Blackfriday = "blackfriday"
	Goldmark    = "goldmark"
)

// A Renderer converts Markdown to HTML. Implementations are safe for concurrent use.
type Renderer interface {
	Render(src []byte) ([]byte, error)
}

// New returns the renderer for the named engine. An empty name selects blackfriday.
func New(engine string) (Renderer, error) {
	switch engine {
	case "", Blackfriday:
		return blackfridayRenderer{}, nil
	case Goldmark:
		return newGoldmarkRenderer(), nil
	}
	return nil, fmt.Errorf("markdown: unknown engine %q", engine)
}

// blackfridayRenderer uses blackfriday with the common extensions and footnotes.
type blackfridayRenderer struct{}

func (blackfridayRenderer) Render(src []byte) ([]byte, error) {
	return blackfriday.Run(src, blackfriday.WithExtensions(blackfriday.CommonExtensions|blackfriday.Footnotes)), nil
}

// goldmarkRenderer uses goldmark with GitHub flavored Markdown and footnotes.
// Raw HTML in posts is passed through.
type goldmarkRenderer struct {
	md goldmark.Markdown
}

func newGoldmarkRenderer() goldmarkRenderer {
	return goldmarkRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Footnote),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

func (g goldmarkRenderer) Render(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := g.md.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("markdown: %w", err)
	}
	return buf.Bytes(), nil
}
