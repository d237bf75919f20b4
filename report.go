package mdmath

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
)

const (
	reportIndent   = 4
	minReportWidth = 20
)

// ReportRequest configures WriteReport.
type ReportRequest struct {
	Writer io.Writer
	// Source is the scanned document; it is used to turn offsets into
	// line and column numbers.
	Source string
	Result *ScanResult
	// Width limits the output width. Zero disables wrapping.
	Width int
	// Theme styles the rendered formulas. Nil writes plain text.
	Theme Theme
}

// WriteReport writes one entry per formula and failed span in document
// order. Each formula is rendered with Highlight and word wrapped under a
// line:column header; failures are kept to a single line.
func WriteReport(req ReportRequest) error {
	if req.Writer == nil {
		return fmt.Errorf("report: Writer is nil")
	}
	if req.Result == nil {
		return fmt.Errorf("report: Result is nil")
	}
	width := req.Width
	if width > 0 && width < minReportWidth {
		width = minReportWidth
	}
	var b strings.Builder
	fi, ei := 0, 0
	for fi < len(req.Result.Formulas) || ei < len(req.Result.Failures) {
		if ei >= len(req.Result.Failures) ||
			(fi < len(req.Result.Formulas) && req.Result.Formulas[fi].Span.Start < req.Result.Failures[ei].Span.Start) {
			writeFormula(&b, req, req.Result.Formulas[fi], width)
			fi++
			continue
		}
		writeFailure(&b, req, req.Result.Failures[ei], width)
		ei++
	}
	if _, err := io.WriteString(req.Writer, b.String()); err != nil {
		return fmt.Errorf("report: write: %w", err)
	}
	return nil
}

func writeFormula(b *strings.Builder, req ReportRequest, f Formula, width int) {
	line, col := f.Span.Position(req.Source)
	mode := "inline"
	if f.Display {
		mode = "display"
	}
	b.WriteString(fitLine(fmt.Sprintf("%d:%d %s", line, col, mode), width))
	b.WriteByte('\n')
	body := Highlight(f.Expr, req.Theme)
	if width > 0 {
		body = wordwrap.String(body, width-reportIndent)
	}
	b.WriteString(indent.String(body, reportIndent))
	b.WriteByte('\n')
	for _, d := range f.Diagnostics {
		dl, dc := Span{Start: d.Offset}.Position(req.Source)
		b.WriteString(fitLine(fmt.Sprintf("%*sdropped %q at %d:%d", reportIndent, "", d.Char, dl, dc), width))
		b.WriteByte('\n')
	}
}

func writeFailure(b *strings.Builder, req ReportRequest, e *SpanError, width int) {
	line, col := e.Span.Position(req.Source)
	b.WriteString(fitLine(fmt.Sprintf("%d:%d error: %v", line, col, e.Err), width))
	b.WriteByte('\n')
	src := strings.Join(strings.Fields(req.Source[e.Span.Start:e.Span.End]), " ")
	b.WriteString(fitLine(strings.Repeat(" ", reportIndent)+src, width))
	b.WriteByte('\n')
}

// fitLine truncates text to width printable cells, ending with an ellipsis.
func fitLine(text string, width int) string {
	if width <= 0 || ansi.PrintableRuneWidth(text) <= width {
		return text
	}
	return truncate.StringWithTail(text, uint(width), "…")
}
