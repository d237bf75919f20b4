package mdmath

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedEOF reports input that ended where more was required.
	ErrUnexpectedEOF = errors.New("unexpected end of input")
	// ErrUnexpectedToken reports a token that cannot appear where it was found.
	ErrUnexpectedToken = errors.New("unexpected token")
	// ErrUnclosedAbsoluteValue reports a |...| or ||...|| left open at end of input.
	ErrUnclosedAbsoluteValue = errors.New("unclosed absolute value")
	// ErrExpectedToken reports a missing bracket, brace, parenthesis or matrix type.
	ErrExpectedToken = errors.New("expected token")
	// ErrMismatchedEnvironment reports \end{...} naming a different matrix type than \begin{...}.
	ErrMismatchedEnvironment = errors.New("mismatched matrix environment")
)

// Diagnostic records a character that matched no token and was skipped.
type Diagnostic struct {
	// Offset is the byte offset of the character in the parsed text.
	Offset int
	Char   rune
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("offset %d: unrecognized character %q", d.Offset, d.Char)
}

func unexpected(tok Token) error {
	return fmt.Errorf("%w: %s", ErrUnexpectedToken, tok)
}

func expected(want tokenKind, got Token, ok bool) error {
	if !ok {
		return fmt.Errorf("%w: %s, found end of input", ErrExpectedToken, want)
	}
	return fmt.Errorf("%w: %s, found %s", ErrExpectedToken, want, got)
}
