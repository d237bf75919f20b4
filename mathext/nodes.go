package mathext

import (
	"github.com/yuin/goldmark/ast"

	"pkt.systems/mdmath"
)

// KindInline is the NodeKind of Inline.
var KindInline = ast.NewNodeKind("MathInline")

// KindBlock is the NodeKind of Block.
var KindBlock = ast.NewNodeKind("MathBlock")

// Inline is a parsed $...$ span.
type Inline struct {
	ast.BaseInline
	Math mdmath.MathBlock
}

// Kind implements ast.Node.
func (n *Inline) Kind() ast.NodeKind {
	return KindInline
}

// Dump implements ast.Node.
func (n *Inline) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Expr": mdmath.Render(n.Math.Expr)}, nil)
}

// Block is a $$...$$ block. Err is set when its content did not parse.
type Block struct {
	ast.BaseBlock
	Math   mdmath.MathBlock
	Err    error
	closed bool
}

// Kind implements ast.Node.
func (n *Block) Kind() ast.NodeKind {
	return KindBlock
}

// IsRaw implements ast.Node.
func (n *Block) IsRaw() bool {
	return true
}

// Dump implements ast.Node.
func (n *Block) Dump(source []byte, level int) {
	kv := map[string]string{}
	if n.Err != nil {
		kv["Error"] = n.Err.Error()
	} else {
		kv["Expr"] = mdmath.Render(n.Math.Expr)
	}
	ast.DumpHelper(n, source, level, kv, nil)
}
