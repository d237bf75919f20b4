package mdmath

import "strings"

const ansiReset = "\x1b[0m"

var binaryOpText = [...]string{
	OpAdd:        "+",
	OpSubtract:   "-",
	OpMultiply:   "*",
	OpDotProduct: `\cdot`,
	OpDivide:     `\div`,
	OpPower:      "^",
	OpEquals:     "=",
}

func (op BinaryOperator) String() string {
	if int(op) < len(binaryOpText) {
		return binaryOpText[op]
	}
	return "?"
}

func (op UnaryOperator) String() string {
	switch op {
	case OpPlus:
		return "+"
	case OpMinus:
		return "-"
	case OpFactorial:
		return "!"
	default:
		return "?"
	}
}

const (
	precEquals = iota + 1
	precAdd
	precMul
	precPower
	precAtom
)

func (op BinaryOperator) precedence() int {
	switch op {
	case OpEquals:
		return precEquals
	case OpAdd, OpSubtract:
		return precAdd
	case OpPower:
		return precPower
	default:
		return precMul
	}
}

func precedence(e Expr) int {
	switch n := e.(type) {
	case *BinaryOp:
		return n.Op.precedence()
	case *UnaryOp:
		if n.Op == OpFactorial {
			return precAtom
		}
		return precPower
	default:
		return precAtom
	}
}

// Render returns the normalized text form of e.
//
// The output is not the original LaTeX: subscripts use base[sub] and binary
// operators are spaced, with {...} groups only where precedence needs them.
// Reparsing the output of a tree built from numbers, variables, binary
// operators and parentheses yields a tree of the same shape.
func Render(e Expr) string {
	p := printer{}
	p.expr(e)
	return p.b.String()
}

// Highlight renders e like Render, with each atom prefixed by the ANSI style
// the theme assigns to it.
func Highlight(e Expr, theme Theme) string {
	if theme == nil {
		return Render(e)
	}
	styles := theme.Styles()
	p := printer{styles: &styles}
	p.expr(e)
	return p.b.String()
}

func (b MathBlock) String() string {
	if b.Display {
		return "$$ " + Render(b.Expr) + " $$"
	}
	return "$ " + Render(b.Expr) + " $"
}

func (n *Number) String() string             { return Render(n) }
func (n *Variable) String() string           { return Render(n) }
func (n *BinaryOp) String() string           { return Render(n) }
func (n *UnaryOp) String() string            { return Render(n) }
func (n *FunctionCall) String() string       { return Render(n) }
func (n *Subscript) String() string          { return Render(n) }
func (n *Superscript) String() string        { return Render(n) }
func (n *Fraction) String() string           { return Render(n) }
func (n *Root) String() string               { return Render(n) }
func (n *Parenthesized) String() string      { return Render(n) }
func (n *Matrix) String() string             { return Render(n) }
func (n *Derivative) String() string         { return Render(n) }
func (n *DerivativeOperator) String() string { return Render(n) }
func (n *Command) String() string            { return Render(n) }
func (n *Vector) String() string             { return Render(n) }
func (n *Fence) String() string              { return Render(n) }
func (n *Prime) String() string              { return Render(n) }

type printer struct {
	b      strings.Builder
	styles *Styles
}

func (p *printer) styled(s Style, text string) {
	if p.styles == nil || s.Prefix == "" {
		p.b.WriteString(text)
		return
	}
	p.b.WriteString(s.Prefix)
	p.b.WriteString(text)
	p.b.WriteString(ansiReset)
}

func (p *printer) style(pick func(*Styles) Style) Style {
	if p.styles == nil {
		return Style{}
	}
	return pick(p.styles)
}

func (p *printer) op(text string) {
	p.styled(p.style(func(s *Styles) Style { return s.Operator }), text)
}

func (p *printer) delim(text string) {
	p.styled(p.style(func(s *Styles) Style { return s.Delimiter }), text)
}

func (p *printer) command(text string) {
	p.styled(p.style(func(s *Styles) Style { return s.Command }), text)
}

func (p *printer) group(e Expr) {
	p.delim("{")
	p.expr(e)
	p.delim("}")
}

func (p *printer) commandArg(name string, e Expr) {
	p.command(name)
	p.group(e)
}

func (p *printer) expr(e Expr) {
	switch n := e.(type) {
	case *Number:
		p.styled(p.style(func(s *Styles) Style { return s.Number }), formatNumber(n.Value))
	case *Variable:
		p.styled(p.style(func(s *Styles) Style { return s.Variable }), n.Name)
	case *BinaryOp:
		p.binary(n)
	case *UnaryOp:
		p.unary(n)
	case *FunctionCall:
		p.call(n)
	case *Subscript:
		p.expr(n.Base)
		p.delim("[")
		p.expr(n.Sub)
		p.delim("]")
	case *Superscript:
		p.expr(n.Base)
		p.op("^")
		p.group(n.Sup)
	case *Fraction:
		p.commandArg(`\frac`, n.Num)
		p.group(n.Den)
	case *Root:
		p.command(`\sqrt`)
		if n.Index != nil {
			p.delim("[")
			p.expr(n.Index)
			p.delim("]")
		}
		p.group(n.Radicand)
	case *Parenthesized:
		p.delim("(")
		p.expr(n.Inner)
		p.delim(")")
	case *Matrix:
		p.matrix(n)
	case *Derivative:
		p.derivativeOperator(n.Variable)
		p.delim("[")
		p.expr(n.Expr)
		p.delim("]")
	case *DerivativeOperator:
		p.derivativeOperator(n.Variable)
	case *Command:
		p.command(`\` + n.Name)
	case *Vector:
		p.commandArg(`\vec`, n.Inner)
	case *Fence:
		if n.Side == FenceLeft {
			p.command(`\left`)
		} else {
			p.command(`\right`)
		}
		p.delim(n.Delim)
	case *Prime:
		p.expr(n.Base)
		p.op("'")
	}
}

func (p *printer) binary(n *BinaryOp) {
	if n.Op == OpPower {
		p.group(n.Left)
		p.b.WriteByte(' ')
		p.op("^")
		p.b.WriteByte(' ')
		p.group(n.Right)
		return
	}
	prec := n.Op.precedence()
	if precedence(n.Left) < prec {
		p.group(n.Left)
	} else {
		p.expr(n.Left)
	}
	p.b.WriteByte(' ')
	p.op(n.Op.String())
	p.b.WriteByte(' ')
	if precedence(n.Right) <= prec {
		p.group(n.Right)
	} else {
		p.expr(n.Right)
	}
}

func (p *printer) unary(n *UnaryOp) {
	wrap := precedence(n.Operand) < precAtom
	if n.Op == OpFactorial {
		if wrap {
			p.group(n.Operand)
		} else {
			p.expr(n.Operand)
		}
		p.op("!")
		return
	}
	p.op(n.Op.String())
	if wrap {
		p.group(n.Operand)
		return
	}
	p.expr(n.Operand)
}

func (p *printer) call(n *FunctionCall) {
	if len(n.Args) == 1 {
		switch n.Name {
		case AbsName:
			p.delim("|")
			p.expr(n.Args[0])
			p.delim("|")
			return
		case NormName:
			p.delim("||")
			p.expr(n.Args[0])
			p.delim("||")
			return
		}
	}
	p.styled(p.style(func(s *Styles) Style { return s.Function }), n.Name)
	p.delim("(")
	for i, arg := range n.Args {
		if i > 0 {
			p.b.WriteString(", ")
		}
		p.expr(arg)
	}
	p.delim(")")
}

func (p *printer) matrix(n *Matrix) {
	p.command(`\begin`)
	p.delim("{")
	p.b.WriteString(string(n.Type))
	p.delim("}")
	for i, row := range n.Rows {
		if i > 0 {
			p.b.WriteByte(' ')
			p.op(`\\`)
		}
		for j, cell := range row {
			if j > 0 {
				p.b.WriteByte(' ')
				p.op("&")
			}
			p.b.WriteByte(' ')
			p.expr(cell)
		}
	}
	p.b.WriteByte(' ')
	p.command(`\end`)
	p.delim("{")
	p.b.WriteString(string(n.Type))
	p.delim("}")
}

func (p *printer) derivativeOperator(variable string) {
	p.command(`\frac`)
	p.delim("{")
	p.b.WriteString("d")
	p.delim("}")
	p.delim("{")
	p.b.WriteString("d" + variable)
	p.delim("}")
}
