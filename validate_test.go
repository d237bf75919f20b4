package mdmath

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateInputRejectsInvalidUTF8(t *testing.T) {
	data := []byte{'$', 'x', 0xff, 0xfe, '$'}
	err := ValidateInput(data)
	if !errors.Is(err, ErrInvalidUTF8) {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}
	if !strings.Contains(err.Error(), "offset 2") {
		t.Fatalf("expected offset in error, got %v", err)
	}
}

func TestValidateInputRejectsBinary(t *testing.T) {
	data := append([]byte("hello"), 0x00)
	if err := ValidateInput(data); !errors.Is(err, ErrBinaryInput) {
		t.Fatalf("expected ErrBinaryInput, got %v", err)
	}
	noisy := []byte(strings.Repeat("\x01abc", 32))
	if err := ValidateInput(noisy); !errors.Is(err, ErrBinaryInput) {
		t.Fatalf("expected ErrBinaryInput for control-heavy input, got %v", err)
	}
}

func TestValidateInputAcceptsMarkdown(t *testing.T) {
	if err := ValidateInput([]byte("# Title\n\n$é = x^2$\r\n\tindented\n")); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestScanWithValidation(t *testing.T) {
	_, err := Scan(ScanRequest{
		Reader:  strings.NewReader("$x$\x00"),
		Options: []ScanOption{WithValidation(true)},
	})
	if !errors.Is(err, ErrBinaryInput) {
		t.Fatalf("expected ErrBinaryInput, got %v", err)
	}
	res, err := Scan(ScanRequest{Reader: strings.NewReader("$x$\x00")})
	if err != nil {
		t.Fatalf("expected no error without validation, got %v", err)
	}
	if len(res.Formulas) != 1 {
		t.Fatalf("expected 1 formula, got %d", len(res.Formulas))
	}
}
