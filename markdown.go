package mdmath

import (
	"fmt"
	"io"
	"strings"
)

// Span locates a math region in a Markdown document by byte offsets.
// Start is the offset of the opening $ and End the offset just past the
// closing delimiter.
type Span struct {
	Start   int
	End     int
	Display bool
}

func (s Span) width() int {
	if s.Display {
		return 2
	}
	return 1
}

// Content returns the text between the delimiters of s in src.
func (s Span) Content(src string) string {
	return src[s.Start+s.width() : s.End-s.width()]
}

// Position returns the 1-based line and column of the span start in src.
func (s Span) Position(src string) (line, col int) {
	head := src[:s.Start]
	line = strings.Count(head, "\n") + 1
	col = s.Start - strings.LastIndexByte(head, '\n')
	return line, col
}

// Formula is a math span that parsed successfully.
type Formula struct {
	MathBlock
	Span Span
	// Diagnostics lists characters inside the span that matched no token.
	// Offsets are relative to the document.
	Diagnostics []Diagnostic
}

// SpanError is a math span whose content failed to parse.
type SpanError struct {
	Span Span
	Err  error
}

func (e *SpanError) Error() string {
	return fmt.Sprintf("math at offset %d: %v", e.Span.Start, e.Err)
}

func (e *SpanError) Unwrap() error {
	return e.Err
}

// ScanResult holds everything found by Scan.
type ScanResult struct {
	Formulas []Formula
	// Failures lists spans that were found but did not parse. ParseMarkdownMath
	// drops them.
	Failures []*SpanError
	// FrontMatter is set when front matter handling is enabled and the document
	// starts with a front matter block.
	FrontMatter *FrontMatter
}

// Blocks returns the parsed formulas in document order.
func (r *ScanResult) Blocks() []MathBlock {
	var blocks []MathBlock
	for _, f := range r.Formulas {
		blocks = append(blocks, f.MathBlock)
	}
	return blocks
}

// ScanRequest configures Scan.
type ScanRequest struct {
	Reader  io.Reader
	Options []ScanOption
}

// ParseMarkdownMath extracts and parses every $...$ and $$...$$ span of a
// Markdown document in order. Spans that fail to parse are skipped.
func ParseMarkdownMath(markdown string) []MathBlock {
	return scanString(markdown, scanConfig{}).Blocks()
}

// Scan reads a Markdown document and reports both parsed formulas and the
// spans that failed to parse.
func Scan(req ScanRequest) (*ScanResult, error) {
	if req.Reader == nil {
		return nil, fmt.Errorf("scan: reader is nil")
	}
	cfg := newScanConfig(req.Options)
	src, err := io.ReadAll(req.Reader)
	if err != nil {
		return nil, fmt.Errorf("scan: read: %w", err)
	}
	if cfg.validate {
		if err := ValidateInput(src); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
	}
	return scanString(string(src), cfg), nil
}

func scanString(src string, cfg scanConfig) *ScanResult {
	res := &ScanResult{}
	i := 0
	if cfg.frontMatter {
		if fm, body, ok := splitFrontMatter(src); ok {
			res.FrontMatter = fm
			i = body
		}
	}
	for i < len(src) {
		if cfg.skipCode {
			if next, ok := skipCode(src, i); ok {
				i = next
				continue
			}
		}
		if src[i] != '$' {
			i++
			continue
		}
		span, ok := FindSpan(src, i)
		if !ok {
			i++
			continue
		}
		content := span.Content(src)
		e, diags, err := parse(content)
		if err != nil {
			res.Failures = append(res.Failures, &SpanError{Span: span, Err: err})
		} else {
			base := span.Start + span.width()
			for k := range diags {
				diags[k].Offset += base
			}
			res.Formulas = append(res.Formulas, Formula{
				MathBlock:   MathBlock{Expr: e, Display: span.Display},
				Span:        span,
				Diagnostics: diags,
			})
		}
		i = span.End
	}
	return res
}

// FindSpan looks for a math span opening at src[i], which must be '$'.
//
// A second '$' makes a display span closed by the next "$$". Otherwise the
// span is closed by the next '$', even when that '$' starts a "$$" pair; so
// "$$$$" is an empty display span and "$a$$b$" holds the inline spans a and b.
func FindSpan(src string, i int) (Span, bool) {
	if i >= len(src) || src[i] != '$' {
		return Span{}, false
	}
	if i+1 < len(src) && src[i+1] == '$' {
		if j := strings.Index(src[i+2:], "$$"); j >= 0 {
			return Span{Start: i, End: i + 2 + j + 2, Display: true}, true
		}
		return Span{}, false
	}
	if j := strings.IndexByte(src[i+1:], '$'); j >= 0 {
		return Span{Start: i, End: i + 1 + j + 1}, true
	}
	return Span{}, false
}

// skipCode returns the offset past a fenced code block or inline code span
// starting at src[i].
func skipCode(src string, i int) (int, bool) {
	if i == 0 || src[i-1] == '\n' {
		if end, ok := skipFence(src, i); ok {
			return end, true
		}
	}
	if src[i] != '`' {
		return 0, false
	}
	n := runLength(src, i, '`')
	for j := i + n; j < len(src); {
		if src[j] != '`' {
			j++
			continue
		}
		m := runLength(src, j, '`')
		if m == n {
			return j + m, true
		}
		j += m
	}
	return i + n, true
}

func skipFence(src string, i int) (int, bool) {
	k := i
	for k < len(src) && k-i < 3 && src[k] == ' ' {
		k++
	}
	if k >= len(src) || (src[k] != '`' && src[k] != '~') {
		return 0, false
	}
	c := src[k]
	n := runLength(src, k, c)
	if n < 3 {
		return 0, false
	}
	for pos := lineEnd(src, k); pos < len(src); {
		end := lineEnd(src, pos)
		line := strings.TrimRight(src[pos:end], "\r\n")
		trimmed := strings.TrimLeft(line, " ")
		if len(line)-len(trimmed) <= 3 {
			m := runLength(trimmed, 0, c)
			if m >= n && strings.TrimSpace(trimmed[m:]) == "" {
				return end, true
			}
		}
		pos = end
	}
	return len(src), true
}

func runLength(s string, i int, c byte) int {
	n := 0
	for i+n < len(s) && s[i+n] == c {
		n++
	}
	return n
}

// lineEnd returns the offset just past the newline ending the line at i.
func lineEnd(src string, i int) int {
	if j := strings.IndexByte(src[i:], '\n'); j >= 0 {
		return i + j + 1
	}
	return len(src)
}
