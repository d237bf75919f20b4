// Package mathext is a goldmark extension that parses $...$ and $$...$$ math
// with mdmath and renders the normalized expressions as HTML.
package mathext

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// Extension adds math parsing and rendering to a goldmark.Markdown.
type Extension struct {
	inline bool
	block  bool
}

// Option configures an Extension.
type Option func(*Extension)

// WithInline enables or disables $...$ spans inside paragraphs.
func WithInline(enabled bool) Option {
	return func(e *Extension) {
		e.inline = enabled
	}
}

// WithBlock enables or disables $$...$$ blocks.
func WithBlock(enabled bool) Option {
	return func(e *Extension) {
		e.block = enabled
	}
}

// New returns an Extension with inline spans and blocks enabled.
func New(opts ...Option) *Extension {
	e := &Extension{inline: true, block: true}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extend implements goldmark.Extender.
func (e *Extension) Extend(m goldmark.Markdown) {
	if e.block {
		m.Parser().AddOptions(parser.WithBlockParsers(
			util.Prioritized(blockParser{}, 701),
		))
	}
	if e.inline {
		m.Parser().AddOptions(parser.WithInlineParsers(
			util.Prioritized(inlineParser{}, 501),
		))
	}
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(htmlRenderer{}, 501),
	))
}
