package mdmath

import "strconv"

// Token is a lexical unit of a math expression.
//
// Tokens carry no position. Text holds the identifier or matrix type for
// TokenIdent and TokenMatrixType; Value holds the number for TokenNumber.
type Token struct {
	Kind  tokenKind
	Text  string
	Value float64
}

type tokenKind uint8

// TokenKind is the exported alias of tokenKind for tooling and tests.
type TokenKind = tokenKind

const (
	tokenEOF tokenKind = iota
	tokenNumber
	tokenIdent
	tokenPlus
	tokenMinus
	tokenStar
	tokenSlash
	tokenCaret
	tokenBang
	tokenEquals
	tokenCdot
	tokenTimes
	tokenDiv
	tokenPrime
	tokenLParen
	tokenRParen
	tokenLBracket
	tokenRBracket
	tokenLBrace
	tokenRBrace
	tokenPipe
	tokenAmp
	tokenRowSep
	tokenBegin
	tokenEnd
	tokenMatrixType
	tokenBackslash
	tokenComma
	tokenSemicolon
	tokenUnderscore
	tokenDot
)

const (
	// TokenEOF marks the end of input. The lexer never emits it.
	TokenEOF tokenKind = tokenEOF
	// TokenNumber is a signed or unsigned decimal number.
	TokenNumber tokenKind = tokenNumber
	// TokenIdent is a run of letters and digits starting with a letter.
	TokenIdent tokenKind = tokenIdent
	// TokenPlus is "+".
	TokenPlus tokenKind = tokenPlus
	// TokenMinus is "-".
	TokenMinus tokenKind = tokenMinus
	// TokenStar is "*".
	TokenStar tokenKind = tokenStar
	// TokenSlash is "/".
	TokenSlash tokenKind = tokenSlash
	// TokenCaret is "^".
	TokenCaret tokenKind = tokenCaret
	// TokenBang is "!".
	TokenBang tokenKind = tokenBang
	// TokenEquals is "=".
	TokenEquals tokenKind = tokenEquals
	// TokenCdot is the dot product keyword "\cdot".
	TokenCdot tokenKind = tokenCdot
	// TokenTimes is the "\times" keyword.
	TokenTimes tokenKind = tokenTimes
	// TokenDiv is the "\div" keyword.
	TokenDiv tokenKind = tokenDiv
	// TokenPrime is the derivative prime "'".
	TokenPrime tokenKind = tokenPrime
	// TokenLParen is "(".
	TokenLParen tokenKind = tokenLParen
	// TokenRParen is ")".
	TokenRParen tokenKind = tokenRParen
	// TokenLBracket is "[".
	TokenLBracket tokenKind = tokenLBracket
	// TokenRBracket is "]".
	TokenRBracket tokenKind = tokenRBracket
	// TokenLBrace is "{".
	TokenLBrace tokenKind = tokenLBrace
	// TokenRBrace is "}".
	TokenRBrace tokenKind = tokenRBrace
	// TokenPipe is "|".
	TokenPipe tokenKind = tokenPipe
	// TokenAmp is the matrix column separator "&".
	TokenAmp tokenKind = tokenAmp
	// TokenRowSep is the matrix row separator "\\".
	TokenRowSep tokenKind = tokenRowSep
	// TokenBegin is "\begin".
	TokenBegin tokenKind = tokenBegin
	// TokenEnd is "\end".
	TokenEnd tokenKind = tokenEnd
	// TokenMatrixType is one of matrix, pmatrix, bmatrix, vmatrix or Vmatrix.
	TokenMatrixType tokenKind = tokenMatrixType
	// TokenBackslash is the escape marker "\".
	TokenBackslash tokenKind = tokenBackslash
	// TokenComma is ",".
	TokenComma tokenKind = tokenComma
	// TokenSemicolon is ";".
	TokenSemicolon tokenKind = tokenSemicolon
	// TokenUnderscore is "_".
	TokenUnderscore tokenKind = tokenUnderscore
	// TokenDot is the empty delimiter "." after \left or \right.
	TokenDot tokenKind = tokenDot
)

var tokenKindText = [...]string{
	tokenEOF:        "end of input",
	tokenNumber:     "number",
	tokenIdent:      "identifier",
	tokenPlus:       "+",
	tokenMinus:      "-",
	tokenStar:       "*",
	tokenSlash:      "/",
	tokenCaret:      "^",
	tokenBang:       "!",
	tokenEquals:     "=",
	tokenCdot:       `\cdot`,
	tokenTimes:      `\times`,
	tokenDiv:        `\div`,
	tokenPrime:      "'",
	tokenLParen:     "(",
	tokenRParen:     ")",
	tokenLBracket:   "[",
	tokenRBracket:   "]",
	tokenLBrace:     "{",
	tokenRBrace:     "}",
	tokenPipe:       "|",
	tokenAmp:        "&",
	tokenRowSep:     `\\`,
	tokenBegin:      `\begin`,
	tokenEnd:        `\end`,
	tokenMatrixType: "matrix type",
	tokenBackslash:  `\`,
	tokenComma:      ",",
	tokenSemicolon:  ";",
	tokenUnderscore: "_",
	tokenDot:        ".",
}

func (k tokenKind) String() string {
	if int(k) < len(tokenKindText) {
		return tokenKindText[k]
	}
	return "token(" + strconv.Itoa(int(k)) + ")"
}

// String returns the textual form of the token as it would appear in source.
func (t Token) String() string {
	switch t.Kind {
	case tokenNumber:
		return formatNumber(t.Value)
	case tokenIdent, tokenMatrixType:
		return t.Text
	default:
		return t.Kind.String()
	}
}

// tokenSet is a bit set of token kinds.
type tokenSet uint64

func setOf(kinds ...tokenKind) tokenSet {
	var s tokenSet
	for _, k := range kinds {
		s |= 1 << k
	}
	return s
}

func (s tokenSet) has(k tokenKind) bool {
	return s&(1<<k) != 0
}

// canEndOperand reports whether a token of kind k can close an operand. A
// minus sign after such a token is a binary operator, never a number sign.
func canEndOperand(k tokenKind) bool {
	switch k {
	case tokenNumber, tokenIdent, tokenMatrixType,
		tokenRParen, tokenRBracket, tokenRBrace,
		tokenPipe, tokenBang, tokenPrime:
		return true
	default:
		return false
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
