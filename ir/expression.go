package ir

// Expr is an expression node. Type and Symbol are filled in by the checker.
type Expr interface {
	Node
	// Type is nil until the expression has been verified.
	Type() Type
	// Symbol is the declaration a name-like expression refers to.
	Symbol() Decl
	exprNode()
}

type exprBase struct {
	loc      Location
	typ      Type
	sym      Decl
	verified bool
}

func (e *exprBase) Pos() Location   { return e.loc }
func (e *exprBase) Type() Type       { return e.typ }
func (e *exprBase) Symbol() Decl     { return e.sym }
func (e *exprBase) base() *exprBase { return e }

type baser interface{ base() *exprBase }

// IntLiteral is a decimal integer literal.
type IntLiteral struct {
	exprBase
	Value int32
}

// BoolLiteral is true or false.
type BoolLiteral struct {
	exprBase
	Value bool
}

// FloatLiteral keeps the literal text so backends print it unchanged.
type FloatLiteral struct {
	exprBase
	Text  string
	Value float64
}

// ScientificLiteral is a number in exponent notation, e.g. 1.5e-3.
type ScientificLiteral struct {
	exprBase
	Text string
}

// HexLiteral is a hexadecimal integer, e.g. 0xFF or 0xFFu.
type HexLiteral struct {
	exprBase
	Text string
}

// BinOp is a binary operation, including member access.
type BinOp struct {
	exprBase
	Op  BinOpKind
	LHS Expr
	RHS Expr

	arraySize    int
	hasArraySize bool
}

// ArraySize returns the element count when the operation is an
// array's ".size" member access.
func (e *BinOp) ArraySize() (int, bool) { return e.arraySize, e.hasArraySize }

// UnaryOp is -x or !x.
type UnaryOp struct {
	exprBase
	Op      UnaryOpKind
	Operand Expr
}

// SymAccess names a symbol. As the right-hand side of a member access it
// names a member of its ancestor's type.
type SymAccess struct {
	exprBase
	Name string

	ancestor  Expr
	swizzle   bool
	arraySize bool
}

// Ancestor returns the member access base, if any.
func (e *SymAccess) Ancestor() Expr { return e.ancestor }

// IsSwizzle reports whether the access is a vector swizzle.
func (e *SymAccess) IsSwizzle() bool { return e.swizzle }

// IsArraySizeAccess reports whether the access is an array's ".size".
func (e *SymAccess) IsArraySizeAccess() bool { return e.arraySize }

// FunctionCall calls a function or constructor.
type FunctionCall struct {
	exprBase
	Callee *SymAccess
	Args   []Expr
}

// Function returns the resolved callee.
func (e *FunctionCall) Function() *FunctionDecl {
	f, _ := e.sym.(*FunctionDecl)
	return f
}

// Subscript is base[index].
type Subscript struct {
	exprBase
	Base  Expr
	Index Expr
}

// Paren is a parenthesized expression.
type Paren struct {
	exprBase
	Inner Expr
}

// Ternary is cond ? a : b.
type Ternary struct {
	exprBase
	Cond  Expr
	True  Expr
	False Expr
}

// Range is start..end, used by for loops. End is exclusive.
type Range struct {
	exprBase
	Start Expr
	End   Expr
}

// ArrayExpr is the array literal [T, size].
type ArrayExpr struct {
	exprBase
	ElemType Type
	Size     Expr
}

func (*IntLiteral) exprNode()        {}
func (*BoolLiteral) exprNode()       {}
func (*FloatLiteral) exprNode()      {}
func (*ScientificLiteral) exprNode() {}
func (*HexLiteral) exprNode()        {}
func (*BinOp) exprNode()             {}
func (*UnaryOp) exprNode()           {}
func (*SymAccess) exprNode()         {}
func (*FunctionCall) exprNode()      {}
func (*Subscript) exprNode()         {}
func (*Paren) exprNode()             {}
func (*Ternary) exprNode()           {}
func (*Range) exprNode()             {}
func (*ArrayExpr) exprNode()         {}

// Constructors used by the parser.

func NewIntLiteral(loc Location, v int32) *IntLiteral {
	return &IntLiteral{exprBase: exprBase{loc: loc, typ: Int}, Value: v}
}

func NewBoolLiteral(loc Location, v bool) *BoolLiteral {
	return &BoolLiteral{exprBase: exprBase{loc: loc, typ: Bool}, Value: v}
}

func NewFloatLiteral(loc Location, text string, v float64) *FloatLiteral {
	return &FloatLiteral{exprBase: exprBase{loc: loc, typ: Float}, Text: text, Value: v}
}

func NewScientificLiteral(loc Location, text string) *ScientificLiteral {
	return &ScientificLiteral{exprBase: exprBase{loc: loc, typ: Float}, Text: text}
}

func NewHexLiteral(loc Location, text string) *HexLiteral {
	return &HexLiteral{exprBase: exprBase{loc: loc, typ: Int}, Text: text}
}

func NewBinOp(loc Location, op BinOpKind, lhs, rhs Expr) *BinOp {
	return &BinOp{exprBase: exprBase{loc: loc}, Op: op, LHS: lhs, RHS: rhs}
}

func NewUnaryOp(loc Location, op UnaryOpKind, operand Expr) *UnaryOp {
	return &UnaryOp{exprBase: exprBase{loc: loc}, Op: op, Operand: operand}
}

func NewSymAccess(loc Location, name string) *SymAccess {
	return &SymAccess{exprBase: exprBase{loc: loc}, Name: name}
}

func NewFunctionCall(loc Location, callee *SymAccess, args []Expr) *FunctionCall {
	return &FunctionCall{exprBase: exprBase{loc: loc}, Callee: callee, Args: args}
}

func NewSubscript(loc Location, base, index Expr) *Subscript {
	return &Subscript{exprBase: exprBase{loc: loc}, Base: base, Index: index}
}

func NewParen(loc Location, inner Expr) *Paren {
	return &Paren{exprBase: exprBase{loc: loc}, Inner: inner}
}

func NewTernary(loc Location, cond, t, f Expr) *Ternary {
	return &Ternary{exprBase: exprBase{loc: loc}, Cond: cond, True: t, False: f}
}

func NewRange(loc Location, start, end Expr) *Range {
	return &Range{exprBase: exprBase{loc: loc}, Start: start, End: end}
}

func NewArrayExpr(loc Location, elem Type, size Expr) *ArrayExpr {
	return &ArrayExpr{exprBase: exprBase{loc: loc}, ElemType: elem, Size: size}
}

// IsLiteral reports whether e is a literal of any kind.
func IsLiteral(e Expr) bool {
	switch e.(type) {
	case *IntLiteral, *BoolLiteral, *FloatLiteral, *ScientificLiteral, *HexLiteral:
		return true
	}
	return false
}
