package mathext

import (
	"bytes"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

func convert(t *testing.T, src string, opts ...Option) string {
	t.Helper()
	md := goldmark.New(goldmark.WithExtensions(New(opts...)))
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		t.Fatalf("convert: %v", err)
	}
	return buf.String()
}

func TestConvertMath(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "inline",
			src:  "Energy $E = mc^2$ here.\n",
			want: "<p>Energy <span class=\"math inline\">E = mc^{2}</span> here.</p>\n",
		},
		{
			name: "inline display",
			src:  "See $$x + 1$$ inline.\n",
			want: "<p>See <span class=\"math display\">x + 1</span> inline.</p>\n",
		},
		{
			name: "block",
			src:  "$$\nx + 1\n$$\n",
			want: "<div class=\"math display\">x + 1</div>\n",
		},
		{
			name: "single line block",
			src:  "$$a^2$$\n",
			want: "<div class=\"math display\">a^{2}</div>\n",
		},
		{
			name: "failed inline stays text",
			src:  "a $+$ b\n",
			want: "<p>a $+$ b</p>\n",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := convert(t, tc.src); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestConvertBlockError(t *testing.T) {
	out := convert(t, "$$\n|x\n$$\n")
	if !strings.HasPrefix(out, `<pre class="math error" title="unclosed absolute value">`) {
		t.Fatalf("expected error block, got %q", out)
	}
	if !strings.Contains(out, "|x") {
		t.Fatalf("expected raw source in error block, got %q", out)
	}
}

func TestConvertWithInlineDisabled(t *testing.T) {
	out := convert(t, "Value $x$.\n", WithInline(false))
	if out != "<p>Value $x$.</p>\n" {
		t.Fatalf("expected untouched paragraph, got %q", out)
	}
}

func TestBlockNodeCarriesTree(t *testing.T) {
	src := []byte("$$\n\\frac{1}{2}\n$$\n")
	md := goldmark.New(goldmark.WithExtensions(New()))
	doc := md.Parser().Parse(text.NewReader(src))
	var found *Block
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if b, ok := n.(*Block); ok && entering {
			found = b
		}
		return ast.WalkContinue, nil
	})
	if found == nil {
		t.Fatalf("expected a math block node")
	}
	if found.Err != nil {
		t.Fatalf("expected no error, got %v", found.Err)
	}
	if !found.Math.Display {
		t.Fatalf("expected display block")
	}
	if got := found.Math.Expr.String(); got != `\frac{1}{2}` {
		t.Fatalf("expected \\frac{1}{2}, got %q", got)
	}
}
