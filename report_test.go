package mdmath

import (
	"bytes"
	"strings"
	"testing"
)

func report(t *testing.T, src string, width int, theme Theme) string {
	t.Helper()
	res, err := Scan(ScanRequest{Reader: strings.NewReader(src)})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	var out bytes.Buffer
	if err := WriteReport(ReportRequest{Writer: &out, Source: src, Result: res, Width: width, Theme: theme}); err != nil {
		t.Fatalf("report: %v", err)
	}
	return out.String()
}

func TestWriteReportOrdersEntries(t *testing.T) {
	got := report(t, "$|x$ then\n$y ≤ z$", 0, nil)
	want := "1:1 error: unclosed absolute value\n" +
		"    $|x$\n" +
		"2:1 inline\n" +
		"    y * z\n" +
		"    dropped '≤' at 2:4\n"
	if got != want {
		t.Fatalf("expected\n%s\ngot\n%s", want, got)
	}
}

func TestWriteReportWrapsAndTruncates(t *testing.T) {
	src := "$$" + strings.Repeat("a + ", 12) + "a$$ and $(" + strings.Repeat("b", 40) + "$"
	out := report(t, src, 24, nil)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) < 4 {
		t.Fatalf("expected wrapped output, got %q", out)
	}
	for _, line := range lines {
		if len([]rune(line)) > 24 {
			t.Fatalf("line exceeds width: %q", line)
		}
	}
	if !strings.HasSuffix(lines[len(lines)-1], "…") {
		t.Fatalf("expected truncated failure source, got %q", lines[len(lines)-1])
	}
}

func TestWriteReportHighlights(t *testing.T) {
	out := report(t, "$x$", 0, DefaultTheme())
	if !strings.Contains(out, DefaultTheme().Styles().Variable.Prefix) {
		t.Fatalf("expected styled variable, got %q", out)
	}
	if stripANSI(out) != "1:1 inline\n    x\n" {
		t.Fatalf("unexpected plain text %q", stripANSI(out))
	}
}

func TestWriteReportValidatesRequest(t *testing.T) {
	if err := WriteReport(ReportRequest{Result: &ScanResult{}}); err == nil {
		t.Fatalf("expected error for nil writer")
	}
	if err := WriteReport(ReportRequest{Writer: &bytes.Buffer{}}); err == nil {
		t.Fatalf("expected error for nil result")
	}
}
