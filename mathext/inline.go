package mathext

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"pkt.systems/mdmath"
)

type inlineParser struct{}

func (inlineParser) Trigger() []byte {
	return []byte{'$'}
}

// Parse matches a span that closes on the current line. Spans that do not
// parse are left as text.
func (inlineParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()
	src := string(line)
	span, ok := mdmath.FindSpan(src, 0)
	if !ok {
		return nil
	}
	m, err := mdmath.ParseMathBlock(span.Content(src), span.Display)
	if err != nil {
		return nil
	}
	block.Advance(span.End)
	return &Inline{Math: m}
}
