package mdmath

import (
	"strings"
	"testing"
)

func scanFrontMatter(t *testing.T, src string) *ScanResult {
	t.Helper()
	res, err := Scan(ScanRequest{
		Reader:  strings.NewReader(src),
		Options: []ScanOption{WithFrontMatter(true)},
	})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	return res
}

func TestScanDecodesFrontMatter(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		format string
	}{
		{"yaml", "---\ntitle: Post\ncost: $5$\n---\n\nBody $x$\n", FrontMatterYAML},
		{"toml", "+++\ntitle = \"Post\"\ncost = \"$5$\"\n+++\n\nBody $x$\n", FrontMatterTOML},
		{"json", ";;;\n{\"title\": \"Post\", \"cost\": \"$5$\"}\n;;;\n\nBody $x$\n", FrontMatterJSON},
		{"json without braces", ";;;\n\"title\": \"Post\",\n\"cost\": \"$5$\"\n;;;\nBody $x$\n", FrontMatterJSON},
		{"crlf and bom", "\ufeff---\r\ntitle: Post\r\ncost: $5$\r\n---\r\nBody $x$\r\n", FrontMatterYAML},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := scanFrontMatter(t, tc.src)
			fm := res.FrontMatter
			if fm == nil {
				t.Fatalf("expected front matter")
			}
			if fm.Err != nil {
				t.Fatalf("expected front matter to decode, got %v", fm.Err)
			}
			if fm.Format != tc.format {
				t.Fatalf("expected format %q, got %q", tc.format, fm.Format)
			}
			if fm.Data["title"] != "Post" {
				t.Fatalf("expected title Post, got %v", fm.Data["title"])
			}
			if len(res.Formulas) != 1 || Render(res.Formulas[0].Expr) != "x" {
				t.Fatalf("expected only the body formula, got %d formulas", len(res.Formulas))
			}
		})
	}
}

func TestScanFrontMatterDecodeError(t *testing.T) {
	res := scanFrontMatter(t, "---\ntitle: [unclosed\n---\n$x$\n")
	if res.FrontMatter == nil || res.FrontMatter.Err == nil {
		t.Fatalf("expected a front matter decode error")
	}
	if !strings.HasPrefix(res.FrontMatter.Err.Error(), "front matter yaml: ") {
		t.Fatalf("unexpected error text %q", res.FrontMatter.Err.Error())
	}
	if len(res.Formulas) != 1 {
		t.Fatalf("expected body formula, got %d", len(res.Formulas))
	}
}

func TestScanFrontMatterNotRecognized(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		formulas int
	}{
		{"not at start", "# Intro\n\n---\nprice: $5$\n---\n", 1},
		{"unclosed", "---\nprice: $5$\n\nBody\n", 1},
		{"no metadata", "---\n$x$\n---\n", 1},
		{"thematic break", "---\n\n$x$\n", 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := scanFrontMatter(t, tc.src)
			if res.FrontMatter != nil {
				t.Fatalf("expected no front matter, got %+v", res.FrontMatter)
			}
			if len(res.Formulas) != tc.formulas {
				t.Fatalf("expected %d formulas, got %d", tc.formulas, len(res.Formulas))
			}
		})
	}
}

func TestScanWithoutFrontMatterOptionScansHeader(t *testing.T) {
	res, err := Scan(ScanRequest{Reader: strings.NewReader("---\ncost: $5$\n---\n$x$\n")})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if res.FrontMatter != nil {
		t.Fatalf("expected front matter to be ignored")
	}
	if len(res.Formulas) != 2 {
		t.Fatalf("expected 2 formulas, got %d", len(res.Formulas))
	}
}
