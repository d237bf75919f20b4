package mdmath

import "testing"

func TestRenderParsed(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"2+3*4", "2 + 3 * 4"},
		{"(2+3)*4", "(2 + 3) * 4"},
		{"x_1", "x[1]"},
		{"x_1^2", "x[1]^{2}"},
		{`\frac{a}{b}`, `\frac{a}{b}`},
		{`\sqrt{x}`, `\sqrt{x}`},
		{`\sqrt[3]{x}`, `\sqrt[3]{x}`},
		{`\vec{v}`, `\vec{v}`},
		{"|x| + ||y||", "|x| + ||y||"},
		{"|x|^2", "{|x|} ^ {2}"},
		{`\frac{d}{dx}[x^2]`, `\frac{d}{dx}[x^{2}]`},
		{"d/dx", `\frac{d}{dx}`},
		{`\begin{pmatrix} 1 & 2 \\ 3 & 4 \end{pmatrix}`, `\begin{pmatrix} 1 & 2 \\ 3 & 4 \end{pmatrix}`},
		{"-(a+b)", "-(a + b)"},
		{"n!", "n!"},
		{"f'", "f'"},
		{"f(x,y)", "f(x, y)"},
		{`\sin(x)`, `\sin(x)`},
		{`\pi`, `\pi`},
		{`a \cdot b \div c`, `a \cdot b \div c`},
		{`\left( x \right)`, `\left( * x * \right)`},
		{`\left. x \right|`, `\left. * x * \right|`},
		{"3.25", "3.25"},
	}
	for _, tc := range tests {
		e := mustParse(t, tc.src)
		if got := Render(e); got != tc.want {
			t.Fatalf("%q: expected %q, got %q", tc.src, tc.want, got)
		}
		if got := e.String(); got != tc.want {
			t.Fatalf("%q: expected String() %q, got %q", tc.src, tc.want, got)
		}
	}
}

func TestRenderGroupsByPrecedence(t *testing.T) {
	tests := []struct {
		tree Expr
		want string
	}{
		{bin(bin(v("a"), OpAdd, v("b")), OpMultiply, v("c")), "{a + b} * c"},
		{bin(v("a"), OpSubtract, bin(v("b"), OpSubtract, v("c"))), "a - {b - c}"},
		{bin(v("a"), OpEquals, bin(v("b"), OpAdd, v("c"))), "a = b + c"},
		{&UnaryOp{Op: OpMinus, Operand: bin(v("a"), OpAdd, v("b"))}, "-{a + b}"},
		{&UnaryOp{Op: OpFactorial, Operand: bin(v("a"), OpAdd, v("b"))}, "{a + b}!"},
		{bin(bin(v("a"), OpPower, v("b")), OpPower, v("c")), "{{a} ^ {b}} ^ {c}"},
	}
	for _, tc := range tests {
		if got := Render(tc.tree); got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
}

func TestRenderRedesignedNodes(t *testing.T) {
	tests := []struct {
		tree Expr
		want string
	}{
		{&Fence{Side: FenceLeft, Delim: "("}, `\left(`},
		{&Fence{Side: FenceRight, Delim: `\}`}, `\right\}`},
		{&Command{Name: "infty"}, `\infty`},
		{&Prime{Base: v("g")}, "g'"},
		{&DerivativeOperator{Variable: "t"}, `\frac{d}{dt}`},
		{&FunctionCall{Name: "max", Args: []Expr{v("a"), v("b"), v("c")}}, "max(a, b, c)"},
	}
	for _, tc := range tests {
		if got := Render(tc.tree); got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
}

func TestMathBlockString(t *testing.T) {
	inline := MathBlock{Expr: v("x")}
	if got := inline.String(); got != "$ x $" {
		t.Fatalf("expected inline form, got %q", got)
	}
	display := MathBlock{Expr: bin(v("x"), OpAdd, num(1)), Display: true}
	if got := display.String(); got != "$$ x + 1 $$" {
		t.Fatalf("expected display form, got %q", got)
	}
}

func TestOperatorStrings(t *testing.T) {
	if OpDotProduct.String() != `\cdot` || OpEquals.String() != "=" {
		t.Fatalf("unexpected binary operator text")
	}
	if BinaryOperator(99).String() != "?" || UnaryOperator(99).String() != "?" {
		t.Fatalf("expected ? for unknown operators")
	}
	if OpFactorial.String() != "!" {
		t.Fatalf("unexpected factorial text %q", OpFactorial.String())
	}
}
