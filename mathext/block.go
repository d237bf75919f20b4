package mathext

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"pkt.systems/mdmath"
)

var displayDelim = []byte("$$")

type blockParser struct{}

func (blockParser) Trigger() []byte {
	return []byte{'$'}
}

func (blockParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	w, pos := util.IndentWidth(line, reader.LineOffset())
	if w > 3 || !bytes.HasPrefix(line[pos:], displayDelim) {
		return nil, parser.NoChildren
	}
	start := pos + len(displayDelim)
	rest := line[start:]
	node := &Block{}
	if idx := bytes.Index(rest, displayDelim); idx >= 0 {
		// Text after a same-line close belongs to a paragraph.
		if !util.IsBlank(rest[idx+len(displayDelim):]) {
			return nil, parser.NoChildren
		}
		node.Lines().Append(text.NewSegment(segment.Start+start, segment.Start+start+idx))
		node.closed = true
	} else if !util.IsBlank(rest) {
		node.Lines().Append(text.NewSegment(segment.Start+start, segment.Stop))
	}
	reader.Advance(contentLen(line, segment))
	return node, parser.NoChildren
}

func (blockParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	n := node.(*Block)
	if n.closed {
		return parser.Close
	}
	line, segment := reader.PeekLine()
	if line == nil {
		return parser.Close
	}
	if idx := bytes.Index(line, displayDelim); idx >= 0 {
		n.Lines().Append(text.NewSegment(segment.Start, segment.Start+idx))
		n.closed = true
		reader.Advance(contentLen(line, segment))
		return parser.Close
	}
	n.Lines().Append(segment)
	reader.Advance(contentLen(line, segment))
	return parser.Continue | parser.NoChildren
}

func (blockParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {
	n := node.(*Block)
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(reader.Source()))
	}
	n.Math, n.Err = mdmath.ParseDisplayMath(b.String())
}

func (blockParser) CanInterruptParagraph() bool {
	return true
}

func (blockParser) CanAcceptIndentedLine() bool {
	return false
}

// contentLen is the length of a line without its line ending.
func contentLen(line []byte, segment text.Segment) int {
	n := segment.Len()
	if bytes.HasSuffix(line, []byte("\r\n")) {
		return n - 2
	}
	if bytes.HasSuffix(line, []byte("\n")) {
		return n - 1
	}
	return n
}
