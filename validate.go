package mdmath

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrInvalidUTF8 reports invalid UTF-8 input.
	ErrInvalidUTF8 = errors.New("invalid utf-8 input")
	// ErrBinaryInput reports input that appears to be binary.
	ErrBinaryInput = errors.New("binary input detected")
)

const (
	minBinarySample = 64
	maxControlPct   = 2
)

// ValidateInput returns an error if the input is not valid UTF-8 or appears
// binary. Errors for a specific byte carry its offset and wrap ErrInvalidUTF8
// or ErrBinaryInput.
func ValidateInput(src []byte) error {
	var total, control int
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRune(src[i:])
		if r == utf8.RuneError && size == 1 {
			return fmt.Errorf("%w at offset %d", ErrInvalidUTF8, i)
		}
		if r == 0 {
			return fmt.Errorf("%w: NUL at offset %d", ErrBinaryInput, i)
		}
		total += size
		if isControlRune(r) {
			control++
		}
		i += size
	}
	if total >= minBinarySample && control*100 >= total*maxControlPct {
		return ErrBinaryInput
	}
	return nil
}

func isControlRune(r rune) bool {
	if r == '\n' || r == '\r' || r == '\t' {
		return false
	}
	return r < 0x20 || r == 0x7F
}
