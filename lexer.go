package mdmath

import (
	"strconv"
	"unicode/utf8"
)

var keywordTokens = map[string]tokenKind{
	"cdot":  tokenCdot,
	"times": tokenTimes,
	"div":   tokenDiv,
	"begin": tokenBegin,
	"end":   tokenEnd,
}

var matrixTypes = map[string]struct{}{
	"matrix":  {},
	"pmatrix": {},
	"bmatrix": {},
	"vmatrix": {},
	"Vmatrix": {},
}

var punctTokens = [128]tokenKind{
	'+':  tokenPlus,
	'-':  tokenMinus,
	'*':  tokenStar,
	'/':  tokenSlash,
	'^':  tokenCaret,
	'!':  tokenBang,
	'=':  tokenEquals,
	'\'': tokenPrime,
	'(':  tokenLParen,
	')':  tokenRParen,
	'[':  tokenLBracket,
	']':  tokenRBracket,
	'{':  tokenLBrace,
	'}':  tokenRBrace,
	'|':  tokenPipe,
	'&':  tokenAmp,
	',':  tokenComma,
	';':  tokenSemicolon,
	'_':  tokenUnderscore,
}

// Lexer produces tokens lazily from a math expression.
//
// Characters that start no token are skipped and recorded as diagnostics.
type Lexer struct {
	src   string
	pos   int
	prev  tokenKind
	diags []Diagnostic
	// fence is set right after \left or \right, where "." is the empty delimiter.
	fence bool
}

// NewLexer returns a lexer over src.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, prev: tokenEOF}
}

// Tokenize returns every token in src along with the characters that were dropped.
func Tokenize(src string) ([]Token, []Diagnostic) {
	l := NewLexer(src)
	var toks []Token
	for {
		tok, ok := l.Next()
		if !ok {
			break
		}
		toks = append(toks, tok)
	}
	return toks, l.Diagnostics()
}

// Diagnostics returns the characters dropped so far.
func (l *Lexer) Diagnostics() []Diagnostic {
	return l.diags
}

// Next returns the next token, or false at end of input.
func (l *Lexer) Next() (Token, bool) {
	tok, ok := l.scan()
	if ok {
		l.fence = l.prev == tokenBackslash && tok.Kind == tokenIdent &&
			(tok.Text == "left" || tok.Text == "right")
		l.prev = tok.Kind
	}
	return tok, ok
}

func (l *Lexer) scan() (Token, bool) {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case isSpace(c):
			l.pos++
		case isDigit(c):
			return l.number(l.pos), true
		case c == '-' && l.peekDigit(l.pos+1) && !canEndOperand(l.prev):
			return l.number(l.pos + 1), true
		case isLetter(c):
			name := l.word()
			if _, ok := matrixTypes[name]; ok {
				return Token{Kind: tokenMatrixType, Text: name}, true
			}
			return Token{Kind: tokenIdent, Text: name}, true
		case c == '\\':
			tok, ok := l.escape()
			if ok {
				return tok, true
			}
		case c == '.' && l.fence:
			l.pos++
			return Token{Kind: tokenDot}, true
		case c < utf8.RuneSelf && punctTokens[c] != tokenEOF:
			l.pos++
			return Token{Kind: punctTokens[c]}, true
		default:
			r, size := utf8.DecodeRuneInString(l.src[l.pos:])
			l.diags = append(l.diags, Diagnostic{Offset: l.pos, Char: r})
			l.pos += size
		}
	}
	return Token{}, false
}

// escape handles a backslash at l.pos. It returns false for spacing commands,
// which produce no token.
func (l *Lexer) escape() (Token, bool) {
	next := byte(0)
	if l.pos+1 < len(l.src) {
		next = l.src[l.pos+1]
	}
	switch {
	case next == '\\':
		l.pos += 2
		return Token{Kind: tokenRowSep}, true
	case next == ',' || next == ';' || next == ':' || next == '!' || next == ' ':
		l.pos += 2
		return Token{}, false
	case isLetter(next):
		end := l.pos + 1
		for end < len(l.src) && isAlnum(l.src[end]) {
			end++
		}
		if kind, ok := keywordTokens[l.src[l.pos+1:end]]; ok {
			l.pos = end
			return Token{Kind: kind}, true
		}
	}
	l.pos++
	return Token{Kind: tokenBackslash}, true
}

func (l *Lexer) number(digits int) Token {
	start := l.pos
	i := digits
	for i < len(l.src) && isDigit(l.src[i]) {
		i++
	}
	if i < len(l.src) && l.src[i] == '.' {
		i++
		for i < len(l.src) && isDigit(l.src[i]) {
			i++
		}
	}
	l.pos = i
	// The literal is always well formed; ParseFloat only fails on range and
	// then returns ±Inf, which is kept.
	v, _ := strconv.ParseFloat(l.src[start:i], 64)
	return Token{Kind: tokenNumber, Value: v}
}

func (l *Lexer) word() string {
	start := l.pos
	for l.pos < len(l.src) && isAlnum(l.src[l.pos]) {
		l.pos++
	}
	return l.src[start:l.pos]
}

func (l *Lexer) peekDigit(i int) bool {
	return i < len(l.src) && isDigit(l.src[i])
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlnum(c byte) bool {
	return isLetter(c) || isDigit(c)
}
