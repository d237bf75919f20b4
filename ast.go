package mdmath

// Expr is a node of a parsed expression tree.
//
// Nodes are built by the parser and never modified afterwards. Every node owns
// its children; trees are finite and acyclic.
type Expr interface {
	String() string
	expr()
}

// BinaryOperator is the operator of a BinaryOp.
type BinaryOperator uint8

const (
	OpAdd BinaryOperator = iota
	OpSubtract
	OpMultiply
	OpDotProduct
	OpDivide
	OpPower
	OpEquals
)

// UnaryOperator is the operator of a UnaryOp.
type UnaryOperator uint8

const (
	OpPlus UnaryOperator = iota
	OpMinus
	OpFactorial
)

// MatrixType names the environment a Matrix was written in.
type MatrixType string

const (
	MatrixPlain   MatrixType = "matrix"
	MatrixParen   MatrixType = "pmatrix"
	MatrixBracket MatrixType = "bmatrix"
	MatrixVBar    MatrixType = "vmatrix"
	MatrixDoubleV MatrixType = "Vmatrix"
)

// FenceSide tells whether a Fence came from \left or \right.
type FenceSide uint8

const (
	FenceLeft FenceSide = iota
	FenceRight
)

// Names used by FunctionCall for the delimiter constructs.
const (
	AbsName  = "abs"
	NormName = "norm"
)

type (
	// Number is a numeric literal.
	Number struct {
		Value float64
	}

	// Variable is a bare identifier.
	Variable struct {
		Name string
	}

	// BinaryOp applies Op to Left and Right.
	BinaryOp struct {
		Left  Expr
		Op    BinaryOperator
		Right Expr
	}

	// UnaryOp applies Op to Operand.
	UnaryOp struct {
		Op      UnaryOperator
		Operand Expr
	}

	// FunctionCall is name(args). Absolute value and norm are calls named
	// AbsName and NormName with exactly one argument.
	FunctionCall struct {
		Name string
		Args []Expr
	}

	// Subscript is Base_Sub.
	Subscript struct {
		Base Expr
		Sub  Expr
	}

	// Superscript is Base^Sup.
	Superscript struct {
		Base Expr
		Sup  Expr
	}

	// Fraction is \frac{Num}{Den} or Num/Den.
	Fraction struct {
		Num Expr
		Den Expr
	}

	// Root is \sqrt[Index]{Radicand}. Index is nil for a square root.
	Root struct {
		Radicand Expr
		Index    Expr
	}

	// Parenthesized keeps an explicit (...) or [...] group.
	Parenthesized struct {
		Inner Expr
	}

	// Matrix is a matrix environment. Rows are not required to have equal length.
	Matrix struct {
		Rows [][]Expr
		Type MatrixType
	}

	// Derivative is \frac{d}{dVariable}[Expr].
	Derivative struct {
		Variable string
		Expr     Expr
	}

	// DerivativeOperator is d/dVariable without an operand.
	DerivativeOperator struct {
		Variable string
	}

	// Command is an escaped name with no structured form, such as \pi or \int.
	Command struct {
		Name string
	}

	// Vector is \vec{Inner}.
	Vector struct {
		Inner Expr
	}

	// Fence is the delimiter following \left or \right. It has no grouping effect.
	Fence struct {
		Side  FenceSide
		Delim string
	}

	// Prime is Base'.
	Prime struct {
		Base Expr
	}
)

func (*Number) expr()             {}
func (*Variable) expr()           {}
func (*BinaryOp) expr()           {}
func (*UnaryOp) expr()            {}
func (*FunctionCall) expr()       {}
func (*Subscript) expr()          {}
func (*Superscript) expr()        {}
func (*Fraction) expr()           {}
func (*Root) expr()               {}
func (*Parenthesized) expr()      {}
func (*Matrix) expr()             {}
func (*Derivative) expr()         {}
func (*DerivativeOperator) expr() {}
func (*Command) expr()            {}
func (*Vector) expr()             {}
func (*Fence) expr()              {}
func (*Prime) expr()              {}

// MathBlock is a parsed formula together with its display mode.
type MathBlock struct {
	Expr Expr
	// Display is true for $$...$$ blocks and false for inline $...$.
	Display bool
}

func abs(e Expr) *FunctionCall {
	return &FunctionCall{Name: AbsName, Args: []Expr{e}}
}

func norm(e Expr) *FunctionCall {
	return &FunctionCall{Name: NormName, Args: []Expr{e}}
}
