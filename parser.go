package mdmath

import "fmt"

// Parse parses a math expression written in the supported LaTeX subset.
//
// The whole input must form one expression; the first error aborts the parse
// and no partial tree is returned.
func Parse(text string) (Expr, error) {
	e, _, err := parse(text)
	return e, err
}

// ParseMathBlock parses text and pairs the tree with its display mode.
func ParseMathBlock(text string, display bool) (MathBlock, error) {
	e, err := Parse(text)
	if err != nil {
		return MathBlock{}, err
	}
	return MathBlock{Expr: e, Display: display}, nil
}

// ParseInlineMath parses the contents of a $...$ span.
func ParseInlineMath(text string) (MathBlock, error) {
	return ParseMathBlock(text, false)
}

// ParseDisplayMath parses the contents of a $$...$$ span.
func ParseDisplayMath(text string) (MathBlock, error) {
	return ParseMathBlock(text, true)
}

func parse(text string) (Expr, []Diagnostic, error) {
	p := &parser{lex: NewLexer(text)}
	e, err := p.parse()
	return e, p.lex.Diagnostics(), err
}

// parser is a recursive descent parser over a lazily filled token buffer.
//
// stop holds the tokens that end an operator loop without being consumed.
// Entering |...| adds the pipe; entering any bracketed group clears the set.
// Where an operand is required a pipe always opens a new delimiter.
type parser struct {
	lex  *Lexer
	buf  []Token
	pos  int
	stop tokenSet
	// pipes caches the outcome of delimited by the position after its opening
	// pipe, so each ||...|| is tried as a norm at most once.
	pipes map[int]delimitedResult
}

type delimitedResult struct {
	expr Expr
	end  int
	err  error
}

var primaryStarts = setOf(
	tokenNumber, tokenIdent, tokenMatrixType,
	tokenLParen, tokenLBracket, tokenBackslash, tokenBegin, tokenPipe,
)

func (p *parser) peek() (Token, bool) {
	for p.pos >= len(p.buf) {
		tok, ok := p.lex.Next()
		if !ok {
			return Token{}, false
		}
		p.buf = append(p.buf, tok)
	}
	return p.buf[p.pos], true
}

func (p *parser) next() (Token, bool) {
	tok, ok := p.peek()
	if ok {
		p.pos++
	}
	return tok, ok
}

func (p *parser) check(k tokenKind) bool {
	tok, ok := p.peek()
	return ok && tok.Kind == k
}

func (p *parser) accept(k tokenKind) bool {
	if p.check(k) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expect(k tokenKind) error {
	tok, ok := p.peek()
	if !ok || tok.Kind != k {
		return expected(k, tok, ok)
	}
	p.pos++
	return nil
}

// peekOp returns the kind of the next token for an operator loop. It reports
// tokenEOF at end of input and for tokens in the stop set.
func (p *parser) peekOp() tokenKind {
	tok, ok := p.peek()
	if !ok || p.stop.has(tok.Kind) {
		return tokenEOF
	}
	return tok.Kind
}

// errEOF reports a missing operand. Inside |...| with no bracketed group in
// between, the absolute value is what was left open.
func (p *parser) errEOF() error {
	if p.stop.has(tokenPipe) {
		return ErrUnclosedAbsoluteValue
	}
	return ErrUnexpectedEOF
}

func (p *parser) parse() (Expr, error) {
	e, err := p.expression()
	if err != nil {
		return nil, err
	}
	if tok, ok := p.peek(); ok {
		return nil, unexpected(tok)
	}
	return e, nil
}

func (p *parser) expression() (Expr, error) {
	return p.equality()
}

func (p *parser) equality() (Expr, error) {
	left, err := p.additive()
	if err != nil {
		return nil, err
	}
	for p.peekOp() == tokenEquals {
		p.pos++
		right, err := p.additive()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Left: left, Op: OpEquals, Right: right}
	}
	return left, nil
}

func (p *parser) additive() (Expr, error) {
	left, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var op BinaryOperator
		switch p.peekOp() {
		case tokenPlus:
			op = OpAdd
		case tokenMinus:
			op = OpSubtract
		default:
			return left, nil
		}
		p.pos++
		right, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Left: left, Op: op, Right: right}
	}
}

func (p *parser) multiplicative() (Expr, error) {
	left, err := p.power()
	if err != nil {
		return nil, err
	}
	for {
		kind := p.peekOp()
		var op BinaryOperator
		switch kind {
		case tokenStar, tokenTimes:
			op = OpMultiply
		case tokenCdot:
			op = OpDotProduct
		case tokenDiv:
			op = OpDivide
		case tokenSlash:
		default:
			return left, nil
		}
		p.pos++
		right, err := p.power()
		if err != nil {
			return nil, err
		}
		if kind != tokenSlash {
			left = &BinaryOp{Left: left, Op: op, Right: right}
			continue
		}
		if v, ok := derivativeVariable(left, right); ok {
			left = &DerivativeOperator{Variable: v}
			continue
		}
		left = &Fraction{Num: left, Den: right}
	}
}

// derivativeVariable reports whether num/den spells d/dx and returns x.
func derivativeVariable(num, den Expr) (string, bool) {
	n, ok := num.(*Variable)
	if !ok || n.Name != "d" {
		return "", false
	}
	d, ok := den.(*Variable)
	if !ok || len(d.Name) < 2 || d.Name[0] != 'd' {
		return "", false
	}
	return d.Name[1:], true
}

func (p *parser) power() (Expr, error) {
	base, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.peekOp() == tokenCaret {
		p.pos++
		var exp Expr
		if p.accept(tokenLBrace) {
			exp, err = p.grouped(tokenRBrace)
		} else {
			exp, err = p.unary()
		}
		if err != nil {
			return nil, err
		}
		base = &BinaryOp{Left: base, Op: OpPower, Right: exp}
	}
	return base, nil
}

func (p *parser) unary() (Expr, error) {
	var op UnaryOperator
	switch {
	case p.check(tokenPlus):
		op = OpPlus
	case p.check(tokenMinus):
		op = OpMinus
	case p.check(tokenBang):
		op = OpFactorial
	default:
		return p.factor()
	}
	p.pos++
	operand, err := p.unary()
	if err != nil {
		return nil, err
	}
	return &UnaryOp{Op: op, Operand: operand}, nil
}

// factor joins adjacent operands with implicit multiplication: 2x, |a| |b|.
func (p *parser) factor() (Expr, error) {
	left, err := p.operand()
	if err != nil {
		return nil, err
	}
	for primaryStarts.has(p.peekOp()) {
		right, err := p.operand()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Left: left, Op: OpMultiply, Right: right}
	}
	return left, nil
}

func (p *parser) operand() (Expr, error) {
	e, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.peekOp() == tokenBang {
		p.pos++
		e = &UnaryOp{Op: OpFactorial, Operand: e}
	}
	return e, nil
}

func (p *parser) primary() (Expr, error) {
	e, scripts, err := p.atom(false)
	if err != nil || !scripts {
		return e, err
	}
	return p.postfix(e)
}

// atom parses one primary without trailing scripts. The returned bool tells
// whether the atom accepts _ and ^ postfixes. Inside a script an identifier
// followed by ( is not taken as a function call.
func (p *parser) atom(inScript bool) (Expr, bool, error) {
	tok, ok := p.next()
	if !ok {
		return nil, false, p.errEOF()
	}
	switch tok.Kind {
	case tokenNumber:
		return &Number{Value: tok.Value}, true, nil
	case tokenIdent, tokenMatrixType:
		if !inScript && p.accept(tokenLParen) {
			args, err := p.arguments()
			if err != nil {
				return nil, false, err
			}
			return &FunctionCall{Name: tok.Text, Args: args}, true, nil
		}
		return &Variable{Name: tok.Text}, true, nil
	case tokenLParen, tokenLBracket:
		closer := tokenRParen
		if tok.Kind == tokenLBracket {
			closer = tokenRBracket
		}
		inner, err := p.grouped(closer)
		if err != nil {
			return nil, false, err
		}
		return &Parenthesized{Inner: inner}, true, nil
	case tokenLBrace:
		inner, err := p.grouped(tokenRBrace)
		return inner, false, err
	case tokenPipe:
		e, err := p.delimited()
		return e, false, err
	case tokenBegin:
		e, err := p.matrix()
		return e, true, err
	case tokenBackslash:
		e, err := p.command(inScript)
		return e, true, err
	case tokenMinus, tokenPlus, tokenBang:
		op := OpMinus
		switch tok.Kind {
		case tokenPlus:
			op = OpPlus
		case tokenBang:
			op = OpFactorial
		}
		operand, err := p.unary()
		if err != nil {
			return nil, false, err
		}
		return &UnaryOp{Op: op, Operand: operand}, false, nil
	default:
		return nil, false, unexpected(tok)
	}
}

// postfix applies _ and ^ left to right, then any primes: x_1^2 is
// (x_1)^2 and x^2^3 is (x^2)^3.
func (p *parser) postfix(e Expr) (Expr, error) {
	for {
		switch {
		case p.accept(tokenUnderscore):
			sub, err := p.script()
			if err != nil {
				return nil, err
			}
			e = &Subscript{Base: e, Sub: sub}
		case p.accept(tokenCaret):
			sup, err := p.script()
			if err != nil {
				return nil, err
			}
			e = &Superscript{Base: e, Sup: sup}
		default:
			for p.accept(tokenPrime) {
				e = &Prime{Base: e}
			}
			return e, nil
		}
	}
}

// script parses a subscript or superscript operand: a braced expression, or
// a single optionally signed atom, so x^2y is x^2 times y.
func (p *parser) script() (Expr, error) {
	if p.accept(tokenLBrace) {
		return p.grouped(tokenRBrace)
	}
	if p.check(tokenMinus) || p.check(tokenPlus) {
		op := OpMinus
		if p.check(tokenPlus) {
			op = OpPlus
		}
		p.pos++
		operand, err := p.script()
		if err != nil {
			return nil, err
		}
		return &UnaryOp{Op: op, Operand: operand}, nil
	}
	e, _, err := p.atom(true)
	return e, err
}

// grouped parses an expression up to closer with the stop set cleared.
func (p *parser) grouped(closer tokenKind) (Expr, error) {
	saved := p.stop
	p.stop = 0
	e, err := p.expression()
	p.stop = saved
	if err != nil {
		return nil, err
	}
	if err := p.expect(closer); err != nil {
		return nil, err
	}
	return e, nil
}

func (p *parser) braced() (Expr, error) {
	if err := p.expect(tokenLBrace); err != nil {
		return nil, err
	}
	return p.grouped(tokenRBrace)
}

func (p *parser) arguments() ([]Expr, error) {
	saved := p.stop
	p.stop = 0
	defer func() { p.stop = saved }()
	var args []Expr
	if p.accept(tokenRParen) {
		return args, nil
	}
	for {
		arg, err := p.expression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.accept(tokenComma) {
			break
		}
	}
	if err := p.expect(tokenRParen); err != nil {
		return nil, err
	}
	return args, nil
}

// delimited parses the rest of |...| or ||...|| after the first pipe.
//
// A second pipe first tries a norm. If that fails the parser rewinds and reads
// an absolute value whose content starts with a nested one, so ||x|+|y|| is
// abs(abs(x)+abs(y)).
func (p *parser) delimited() (Expr, error) {
	start := p.pos
	if r, ok := p.pipes[start]; ok {
		if r.err != nil {
			return nil, r.err
		}
		p.pos = r.end
		return r.expr, nil
	}
	e, err := p.delimitedAt()
	if p.pipes == nil {
		p.pipes = make(map[int]delimitedResult)
	}
	p.pipes[start] = delimitedResult{expr: e, end: p.pos, err: err}
	return e, err
}

func (p *parser) delimitedAt() (Expr, error) {
	if p.check(tokenPipe) {
		mark := p.pos
		p.pos++
		if inner, err := p.enclosed(2); err == nil {
			return norm(inner), nil
		}
		p.pos = mark
	}
	inner, err := p.enclosed(1)
	if err != nil {
		return nil, err
	}
	return abs(inner), nil
}

func (p *parser) enclosed(pipes int) (Expr, error) {
	saved := p.stop
	p.stop |= setOf(tokenPipe)
	inner, err := p.expression()
	p.stop = saved
	if err != nil {
		return nil, err
	}
	for i := 0; i < pipes; i++ {
		tok, ok := p.next()
		if !ok {
			return nil, ErrUnclosedAbsoluteValue
		}
		if tok.Kind != tokenPipe {
			return nil, expected(tokenPipe, tok, true)
		}
	}
	return inner, nil
}

// command parses an escaped command after the backslash.
func (p *parser) command(inScript bool) (Expr, error) {
	tok, ok := p.next()
	if !ok {
		return nil, p.errEOF()
	}
	if tok.Kind != tokenIdent && tok.Kind != tokenMatrixType {
		return nil, fmt.Errorf("%w: command name after \\, found %s", ErrExpectedToken, tok)
	}
	switch tok.Text {
	case "frac":
		return p.fraction()
	case "sqrt":
		var index Expr
		if p.accept(tokenLBracket) {
			var err error
			if index, err = p.grouped(tokenRBracket); err != nil {
				return nil, err
			}
		}
		radicand, err := p.braced()
		if err != nil {
			return nil, err
		}
		return &Root{Radicand: radicand, Index: index}, nil
	case "vec":
		inner, err := p.braced()
		if err != nil {
			return nil, err
		}
		return &Vector{Inner: inner}, nil
	case "left":
		return p.fence(FenceLeft), nil
	case "right":
		return p.fence(FenceRight), nil
	}
	if !inScript && p.accept(tokenLParen) {
		args, err := p.arguments()
		if err != nil {
			return nil, err
		}
		return &FunctionCall{Name: `\` + tok.Text, Args: args}, nil
	}
	return &Command{Name: tok.Text}, nil
}

func (p *parser) fraction() (Expr, error) {
	num, err := p.braced()
	if err != nil {
		return nil, err
	}
	den, err := p.braced()
	if err != nil {
		return nil, err
	}
	v, ok := derivativeVariable(num, den)
	if !ok {
		return &Fraction{Num: num, Den: den}, nil
	}
	if !p.accept(tokenLBracket) {
		return &DerivativeOperator{Variable: v}, nil
	}
	operand, err := p.grouped(tokenRBracket)
	if err != nil {
		return nil, err
	}
	return &Derivative{Variable: v, Expr: operand}, nil
}

// fence consumes the single token after \left or \right, which may be the
// empty delimiter ".". An escaped delimiter such as \{ takes the following
// token too.
func (p *parser) fence(side FenceSide) Expr {
	f := &Fence{Side: side}
	tok, ok := p.next()
	if !ok {
		return f
	}
	f.Delim = tok.String()
	if tok.Kind == tokenBackslash {
		if esc, ok := p.next(); ok {
			f.Delim += esc.String()
		}
	}
	return f
}

func (p *parser) matrix() (Expr, error) {
	typ, err := p.environmentType()
	if err != nil {
		return nil, err
	}
	saved := p.stop
	p.stop = 0
	defer func() { p.stop = saved }()
	var rows [][]Expr
	var row []Expr
	for {
		if p.accept(tokenEnd) {
			endTyp, err := p.environmentType()
			if err != nil {
				return nil, err
			}
			if endTyp != typ {
				return nil, fmt.Errorf("%w: \\begin{%s} closed by \\end{%s}", ErrMismatchedEnvironment, typ, endTyp)
			}
			if len(row) > 0 {
				rows = append(rows, row)
			}
			return &Matrix{Rows: rows, Type: typ}, nil
		}
		cell, err := p.expression()
		if err != nil {
			return nil, err
		}
		row = append(row, cell)
		switch {
		case p.accept(tokenAmp):
		case p.accept(tokenRowSep):
			rows = append(rows, row)
			row = nil
		case p.check(tokenEnd):
		default:
			tok, ok := p.peek()
			if !ok {
				return nil, expected(tokenEnd, tok, false)
			}
			return nil, unexpected(tok)
		}
	}
}

func (p *parser) environmentType() (MatrixType, error) {
	if err := p.expect(tokenLBrace); err != nil {
		return "", err
	}
	tok, ok := p.next()
	if !ok {
		return "", expected(tokenMatrixType, tok, false)
	}
	if tok.Kind != tokenMatrixType {
		return "", expected(tokenMatrixType, tok, true)
	}
	if err := p.expect(tokenRBrace); err != nil {
		return "", err
	}
	return MatrixType(tok.Text), nil
}
