package site

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/blogsmith/blogsmith/internal/config"
	"github.com/blogsmith/blogsmith/internal/foundation/errors"
)

// Renderer turns markdown bodies into HTML through a goldmark instance
// assembled from the configured plugin chain.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer builds a renderer from the markdown configuration. Unknown
// plugin names were already rejected by config validation.
func NewRenderer(cfg config.MarkdownConfig) *Renderer {
	var exts []goldmark.Extender
	var parserOpts []parser.Option
	var rendererOpts []renderer.Option

	for _, plugin := range cfg.Plugins {
		switch plugin {
		case "gfm":
			exts = append(exts, extension.GFM)
		case "typographer":
			exts = append(exts, extension.Typographer)
		case "footnotes":
			exts = append(exts, extension.Footnote)
		case "heading-ids":
			parserOpts = append(parserOpts, parser.WithAutoHeadingID())
		}
	}
	if cfg.UnsafeHTML {
		rendererOpts = append(rendererOpts, html.WithUnsafe())
	}

	md := goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parserOpts...),
		goldmark.WithRendererOptions(rendererOpts...),
	)
	return &Renderer{md: md}
}

// Render converts a markdown body into HTML.
func (r *Renderer) Render(body []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(body, &buf); err != nil {
		return "", errors.ContentError("markdown rendering failed").
			WithCause(err).
			Build()
	}
	return template.HTML(buf.String()), nil
}
