package mdmath

import (
	"strings"
)

// TreeNode is a plain description of an expression node, suitable for
// encoding as JSON or YAML and for printing as an indented outline.
type TreeNode struct {
	Kind     string        `json:"kind" yaml:"kind"`
	Op       string        `json:"op,omitempty" yaml:"op,omitempty"`
	Name     string        `json:"name,omitempty" yaml:"name,omitempty"`
	Value    *float64      `json:"value,omitempty" yaml:"value,omitempty"`
	Children []*TreeNode   `json:"children,omitempty" yaml:"children,omitempty"`
	Rows     [][]*TreeNode `json:"rows,omitempty" yaml:"rows,omitempty"`
}

// Dump converts e into a TreeNode. Optional parts that are absent, such as
// the index of a square root, are left out.
func Dump(e Expr) *TreeNode {
	switch n := e.(type) {
	case *Number:
		v := n.Value
		return &TreeNode{Kind: "Number", Value: &v}
	case *Variable:
		return &TreeNode{Kind: "Variable", Name: n.Name}
	case *BinaryOp:
		return &TreeNode{Kind: "BinaryOp", Op: n.Op.String(), Children: dumpAll(n.Left, n.Right)}
	case *UnaryOp:
		return &TreeNode{Kind: "UnaryOp", Op: n.Op.String(), Children: dumpAll(n.Operand)}
	case *FunctionCall:
		return &TreeNode{Kind: "FunctionCall", Name: n.Name, Children: dumpAll(n.Args...)}
	case *Subscript:
		return &TreeNode{Kind: "Subscript", Children: dumpAll(n.Base, n.Sub)}
	case *Superscript:
		return &TreeNode{Kind: "Superscript", Children: dumpAll(n.Base, n.Sup)}
	case *Fraction:
		return &TreeNode{Kind: "Fraction", Children: dumpAll(n.Num, n.Den)}
	case *Root:
		if n.Index == nil {
			return &TreeNode{Kind: "Root", Children: dumpAll(n.Radicand)}
		}
		return &TreeNode{Kind: "Root", Children: dumpAll(n.Radicand, n.Index)}
	case *Parenthesized:
		return &TreeNode{Kind: "Parenthesized", Children: dumpAll(n.Inner)}
	case *Matrix:
		rows := make([][]*TreeNode, len(n.Rows))
		for i, row := range n.Rows {
			rows[i] = dumpAll(row...)
		}
		return &TreeNode{Kind: "Matrix", Name: string(n.Type), Rows: rows}
	case *Derivative:
		return &TreeNode{Kind: "Derivative", Name: n.Variable, Children: dumpAll(n.Expr)}
	case *DerivativeOperator:
		return &TreeNode{Kind: "DerivativeOperator", Name: n.Variable}
	case *Command:
		return &TreeNode{Kind: "Command", Name: n.Name}
	case *Vector:
		return &TreeNode{Kind: "Vector", Children: dumpAll(n.Inner)}
	case *Fence:
		kind := "FenceLeft"
		if n.Side == FenceRight {
			kind = "FenceRight"
		}
		return &TreeNode{Kind: kind, Name: n.Delim}
	case *Prime:
		return &TreeNode{Kind: "Prime", Children: dumpAll(n.Base)}
	default:
		return nil
	}
}

func dumpAll(exprs ...Expr) []*TreeNode {
	out := make([]*TreeNode, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, Dump(e))
	}
	return out
}

// String prints the tree as an outline with two spaces of indentation per level.
func (n *TreeNode) String() string {
	var b strings.Builder
	n.write(&b, 0)
	return b.String()
}

func (n *TreeNode) write(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(n.Kind)
	for _, part := range []string{n.Op, n.Name} {
		if part != "" {
			b.WriteByte(' ')
			b.WriteString(part)
		}
	}
	if n.Value != nil {
		b.WriteByte(' ')
		b.WriteString(formatNumber(*n.Value))
	}
	b.WriteByte('\n')
	for _, c := range n.Children {
		c.write(b, depth+1)
	}
	for i, row := range n.Rows {
		b.WriteString(strings.Repeat("  ", depth+1))
		b.WriteString("row ")
		b.WriteString(formatNumber(float64(i + 1)))
		b.WriteByte('\n')
		for _, c := range row {
			c.write(b, depth+2)
		}
	}
}
