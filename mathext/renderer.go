package mathext

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"pkt.systems/mdmath"
)

type htmlRenderer struct{}

func (htmlRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindInline, renderInline)
	reg.Register(KindBlock, renderBlock)
}

func renderInline(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*Inline)
	class := "math inline"
	if n.Math.Display {
		class = "math display"
	}
	_, _ = w.WriteString(`<span class="` + class + `">`)
	_, _ = w.Write(util.EscapeHTML([]byte(mdmath.Render(n.Math.Expr))))
	_, _ = w.WriteString("</span>")
	return ast.WalkSkipChildren, nil
}

func renderBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*Block)
	if n.Err != nil {
		_, _ = w.WriteString(`<pre class="math error" title="`)
		_, _ = w.Write(util.EscapeHTML([]byte(n.Err.Error())))
		_, _ = w.WriteString(`">`)
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			_, _ = w.Write(util.EscapeHTML(seg.Value(source)))
		}
		_, _ = w.WriteString("</pre>\n")
		return ast.WalkSkipChildren, nil
	}
	_, _ = w.WriteString(`<div class="math display">`)
	_, _ = w.Write(util.EscapeHTML([]byte(mdmath.Render(n.Math.Expr))))
	_, _ = w.WriteString("</div>\n")
	return ast.WalkSkipChildren, nil
}
