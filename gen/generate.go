// Package gen holds the parts of source generation that every text
// backend shares: the indenting Writer, the statement and expression
// walker, declaration gathering, uniform-buffer packing and the parameter
// list handed back to the host.
//
// A backend implements Dialect. Generate walks the declarations the entry
// point needs and calls the dialect for everything that differs between
// shading languages: the file prologue, function signatures, global
// constants, the entry point's return and the spelling of symbols and
// calls. Everything else is written by the Generator itself.
package gen

import (
	"strconv"
	"strings"

	"github.com/polly2d/shaderc/ir"
)

// Style configures the target-independent part of generation.
type Style struct {
	// TypeNames spells each primitive type in the target language.
	TypeNames map[ir.Primitive]string
	// FloatSuffix appends 'f' to decimal float literals.
	FloatSuffix bool
	// SwapMatrixVectorMults reverses the operands of multiplications
	// involving a matrix, converting between row- and column-major
	// conventions.
	SwapMatrixVectorMults bool
	// LocalConst keeps the const qualifier on local variables.
	LocalConst bool
	// Reserved reports whether an identifier is a target-language keyword.
	// Such user identifiers get a trailing underscore.
	Reserved func(name string) bool
}

// Dialect is implemented by each backend.
type Dialect interface {
	// Style returns the backend's fixed settings.
	Style() Style
	// Prologue writes everything before the first declaration.
	Prologue(g *Generator)
	// Function writes a user function, g.Fn is set to fn.
	Function(g *Generator, fn *ir.FunctionDecl)
	// GlobalConst writes a top-level constant.
	GlobalConst(g *Generator, v *ir.VarDecl)
	// Return writes a return statement of the current function.
	Return(g *Generator, s *ir.ReturnStmt)
	// SymAccess writes e if the backend spells it specially and reports
	// whether it did.
	SymAccess(g *Generator, e *ir.SymAccess) bool
	// Call writes e if the backend lowers it specially and reports whether
	// it did.
	Call(g *Generator, e *ir.FunctionCall) bool
}

// BinOpLowerer is implemented by dialects that spell some binary
// operations as calls.
type BinOpLowerer interface {
	// BinOp writes e if the backend lowers it specially and reports
	// whether it did.
	BinOp(g *Generator, e *ir.BinOp) bool
}

// Generator is the state of one generation run.
type Generator struct {
	W        *Writer
	Ast      *ir.Ast
	Checker  *ir.Checker
	Builtins *ir.Builtins
	// Entry is the shader entry point.
	Entry *ir.FunctionDecl
	// Fn is the function currently being written, nil between
	// declarations.
	Fn *ir.FunctionDecl
	// Usage records which system values the shader reads.
	Usage ir.SystemValueUsage

	dialect  Dialect
	style    Style
	temps    []*TempVarNameGen
	accessed map[*ir.FunctionDecl]ir.AccessedParams
	promoted map[ir.Expr]bool
	err      error
}

// Generate writes the source for entry and everything it depends on.
// The tree must have been verified by c.
func Generate(d Dialect, c *ir.Checker, entry *ir.FunctionDecl) (string, error) {
	ast := c.Ast()
	if !ast.Verified() {
		return "", ir.Internalf("cannot generate code for an unverified shader")
	}
	decls, err := GatherDecls(ast, entry)
	if err != nil {
		return "", err
	}
	if !entry.IsShader() {
		return "", ir.Internalf("function '%s' is not a shader entry point", entry.Name)
	}

	g := &Generator{
		W:        NewWriter(),
		Ast:      ast,
		Checker:  c,
		Builtins: c.Builtins(),
		Entry:    entry,
		Usage:    c.Builtins().SystemValueUsage(ast),
		dialect:  d,
		style:    d.Style(),
		accessed: make(map[*ir.FunctionDecl]ir.AccessedParams),
	}

	d.Prologue(g)
	for _, decl := range decls {
		before := g.W.Len()

		switch decl := decl.(type) {
		case *ir.ShaderParamDecl:
			// Parameters are written by the prologue as one buffer.
			continue
		case *ir.FunctionDecl:
			if decl.IsBuiltin() {
				continue
			}
			g.Fn = decl
			d.Function(g, decl)
			g.Fn = nil
		case *ir.VarDecl:
			d.GlobalConst(g, decl)
		default:
			g.Failf("unexpected top-level declaration '%s'", decl.DeclName())
		}

		if g.err != nil {
			return "", g.err
		}
		if g.W.Len() > before {
			g.W.Newline()
			g.W.Newline()
		}
	}

	return Finish(g.W.String()), nil
}

// Finish trims leading and trailing newlines and ends non-empty code with
// exactly one.
func Finish(code string) string {
	code = strings.Trim(code, "\n")
	if code == "" {
		return ""
	}
	return code + "\n"
}

// Failf records an internal error. Only the first one is kept and
// returned by Generate.
func (g *Generator) Failf(format string, args ...any) {
	if g.err == nil {
		g.err = ir.Internalf(format, args...)
	}
}

// Accessed returns the shader parameters fn transitively reads.
func (g *Generator) Accessed(fn *ir.FunctionDecl) ir.AccessedParams {
	if p, ok := g.accessed[fn]; ok {
		return p
	}
	p := g.Ast.ParamsAccessedByFunction(fn)
	g.accessed[fn] = p
	return p
}

// Name returns a user identifier as it is written in the target.
func (g *Generator) Name(name string) string {
	if g.style.Reserved != nil && g.style.Reserved(name) {
		return name + "_"
	}
	return name
}

// TypeName spells t in the target language.
func (g *Generator) TypeName(t ir.Type) string {
	switch t := t.(type) {
	case ir.Primitive:
		if name, ok := g.style.TypeNames[t]; ok {
			return name
		}
	case *ir.ArrayType:
		return g.TypeName(t.Elem) + "[" + strconv.Itoa(t.Size()) + "]"
	}
	g.Failf("type '%s' has no representation in the target language", typeName(t))
	return "<error>"
}

// Declarator writes "T name", or "T name[N]" for arrays.
func (g *Generator) Declarator(t ir.Type, name string) string {
	if a, ok := t.(*ir.ArrayType); ok {
		return g.TypeName(a.Elem) + " " + name + "[" + strconv.Itoa(a.Size()) + "]"
	}
	return g.TypeName(t) + " " + name
}

// TempVar returns a fresh temporary name in the innermost block.
func (g *Generator) TempVar(hint string) string {
	if len(g.temps) == 0 {
		g.temps = append(g.temps, NewTempVarNameGen(nil))
	}
	return g.temps[len(g.temps)-1].Next(hint)
}

// -----------------------------------------------------------------------------
// Statements
// -----------------------------------------------------------------------------

// Block writes the statements of b, one per line.
func (g *Generator) Block(b *ir.CodeBlock) {
	var temps *TempVarNameGen
	if n := len(g.temps); n > 0 {
		temps = g.temps[n-1].Nested(b)
	} else {
		temps = NewTempVarNameGen(b)
	}
	g.temps = append(g.temps, temps)

	for _, s := range b.Stmts {
		g.Stmt(s)
		g.W.Newline()
	}

	g.temps = g.temps[:len(g.temps)-1]
}

// Body writes b between braces.
func (g *Generator) Body(b *ir.CodeBlock) {
	g.W.OpenBrace()
	g.Block(b)
	g.W.CloseBrace(false)
}

// Stmt writes a single statement without the trailing newline.
func (g *Generator) Stmt(s ir.Stmt) {
	w := g.W
	switch s := s.(type) {
	case *ir.VarStmt:
		g.varStmt(s)
	case *ir.IfStmt:
		g.ifStmt(s)
	case *ir.ForStmt:
		g.forStmt(s)
	case *ir.ReturnStmt:
		g.dialect.Return(g, s)
	case *ir.CompoundAssignment:
		g.Expr(s.LHS)
		w.Write(" " + s.Kind.String() + " ")
		g.Expr(s.RHS)
		w.Write(";")
	case *ir.Assignment:
		g.Expr(s.LHS)
		w.Write(" = ")
		g.Expr(s.RHS)
		w.Write(";")
	case *ir.BreakStmt:
		w.Write("break;")
	case *ir.ContinueStmt:
		w.Write("continue;")
	default:
		g.Failf("cannot generate statement %T", s)
	}
}

// DefaultReturn writes "return expr;".
func (g *Generator) DefaultReturn(s *ir.ReturnStmt) {
	g.W.Write("return ")
	g.Expr(s.Expr)
	g.W.Write(";")
}

// GlobalConstWith writes "<qualifier> T name = expr;".
func (g *Generator) GlobalConstWith(qualifier string, v *ir.VarDecl) {
	if qualifier != "" {
		g.W.Write(qualifier + " ")
	}
	g.W.Write(g.Declarator(v.Type, g.Name(v.Name)) + " = ")
	g.Expr(v.Expr)
	g.W.Write(";")
}

func (g *Generator) varStmt(s *ir.VarStmt) {
	v := s.Var
	if v.IsSystemValue {
		return
	}
	if _, ok := v.Expr.(*ir.ArrayExpr); ok {
		g.W.Write(g.Declarator(v.Type, g.Name(v.Name)) + ";")
		return
	}
	if v.IsConst && g.style.LocalConst {
		g.W.Write("const ")
	}
	g.W.Write(g.Declarator(v.Type, g.Name(v.Name)) + " = ")
	g.Expr(v.Expr)
	g.W.Write(";")
}

func (g *Generator) ifStmt(s *ir.IfStmt) {
	for branch := s; branch != nil; branch = branch.Next {
		if branch != s {
			g.W.Write(" else ")
		}
		if branch.Cond != nil {
			g.W.Write("if (")
			g.Expr(branch.Cond)
			g.W.Write(") ")
		}
		g.Body(branch.Body)
	}
}

// forStmt writes a counting loop. A range end that may have side effects
// or is expensive to evaluate is stored in a temporary first, so it is
// evaluated once.
func (g *Generator) forStmt(s *ir.ForStmt) {
	w := g.W
	name := g.Name(s.Var.Name)
	typ := g.TypeName(s.Range.Type())

	end := func() { g.Expr(s.Range.End) }
	if needsTemp(s.Range.End) {
		tmp := g.TempVar("end")
		w.Write(typ + " " + tmp + " = ")
		g.Expr(s.Range.End)
		w.Write(";")
		w.Newline()
		end = func() { w.Write(tmp) }
	}

	w.Write("for (" + typ + " " + name + " = ")
	g.Expr(s.Range.Start)
	w.Write("; " + name + " < ")
	end()
	w.Write("; ++" + name + ") ")
	g.Body(s.Body)
}

func needsTemp(e ir.Expr) bool {
	switch e := e.(type) {
	case *ir.IntLiteral, *ir.HexLiteral, *ir.SymAccess:
		return false
	case *ir.Paren:
		return needsTemp(e.Inner)
	case *ir.BinOp:
		if _, ok := e.ArraySize(); ok {
			return false
		}
		return needsTemp(e.LHS) || needsTemp(e.RHS)
	case *ir.UnaryOp:
		return needsTemp(e.Operand)
	}
	return true
}

// -----------------------------------------------------------------------------
// Expressions
// -----------------------------------------------------------------------------

// Expr writes e.
func (g *Generator) Expr(e ir.Expr) {
	w := g.W
	if g.promoted[e] {
		delete(g.promoted, e)
		w.Write(g.TypeName(ir.Vec4) + "(")
		g.Expr(e)
		w.Write(", 0, 1)")
		return
	}
	switch e := e.(type) {
	case *ir.Paren:
		w.Write("(")
		g.Expr(e.Inner)
		w.Write(")")
	case *ir.IntLiteral:
		w.WriteInt(int(e.Value))
	case *ir.FloatLiteral:
		w.Write(e.Text)
		if g.style.FloatSuffix {
			w.Write("f")
		}
	case *ir.BoolLiteral:
		if e.Value {
			w.Write("true")
		} else {
			w.Write("false")
		}
	case *ir.ScientificLiteral:
		w.Write(e.Text)
	case *ir.HexLiteral:
		w.Write(e.Text)
	case *ir.SymAccess:
		if !g.dialect.SymAccess(g, e) {
			w.Write(g.SymbolName(e))
		}
	case *ir.Ternary:
		w.Write("(")
		g.Expr(e.Cond)
		w.Write(" ? ")
		g.Expr(e.True)
		w.Write(" : ")
		g.Expr(e.False)
		w.Write(")")
	case *ir.UnaryOp:
		w.Write(e.Op.String())
		switch op := e.Operand.(type) {
		case *ir.UnaryOp:
			g.parenExpr(op)
		case *ir.BinOp:
			if _, ok := op.ArraySize(); ok || op.Op == ir.BinMemberAccess {
				g.Expr(op)
			} else {
				g.parenExpr(op)
			}
		default:
			g.Expr(op)
		}
	case *ir.FunctionCall:
		if !g.dialect.Call(g, e) {
			g.Call(e)
		}
	case *ir.BinOp:
		g.binOp(e)
	case *ir.Subscript:
		g.Expr(e.Base)
		w.Write("[")
		g.Expr(e.Index)
		w.Write("]")
	case nil:
		g.Failf("missing expression")
	default:
		g.Failf("cannot generate expression %T", e)
	}
}

// Args writes a comma-separated argument list.
func (g *Generator) Args(args []ir.Expr) {
	for i, a := range args {
		if i > 0 {
			g.W.Write(", ")
		}
		g.Expr(a)
	}
}

// Call writes callee(args).
func (g *Generator) Call(e *ir.FunctionCall) {
	g.Expr(e.Callee)
	g.W.Write("(")
	g.Args(e.Args)
	g.W.Write(")")
}

// BoolReduction writes a call to the all or any intrinsic with its float
// argument converted to booleans first, and reports whether e was such a
// call. boolVec spells the n-component bool type, n == 1 being the scalar.
// A matrix is reduced column by column.
func (g *Generator) BoolReduction(e *ir.FunctionCall, boolVec func(n int) string) bool {
	fn := e.Function()
	if len(e.Args) != 1 || !g.Builtins.IsIntrinsic(fn) || (fn.Name != "all" && fn.Name != "any") {
		return false
	}
	w := g.W
	arg := e.Args[0]
	t := arg.Type()
	switch {
	case ir.IsScalar(t):
		w.Write(boolVec(1) + "(")
		g.Expr(arg)
		w.Write(")")
	case ir.IsVector(t):
		w.Write(fn.Name + "(" + boolVec(ir.VectorDim(t)) + "(")
		g.Expr(arg)
		w.Write("))")
	case ir.IsMatrix(t):
		join := " && "
		if fn.Name == "any" {
			join = " || "
		}
		w.Write("(")
		for i := range 4 {
			if i > 0 {
				w.Write(join)
			}
			w.Write(fn.Name + "(" + boolVec(4) + "(")
			if _, ok := arg.(*ir.SymAccess); ok {
				g.Expr(arg)
			} else {
				g.parenExpr(arg)
			}
			w.Write("[")
			w.WriteInt(i)
			w.Write("]))")
		}
		w.Write(")")
	default:
		return false
	}
	return true
}

// SymbolName is the default spelling of a symbol access: constructors
// become target type names, intrinsics are lowercased and user symbols
// are escaped.
func (g *Generator) SymbolName(e *ir.SymAccess) string {
	switch sym := e.Symbol().(type) {
	case nil:
		g.Failf("symbol '%s' was not resolved", e.Name)
		return e.Name
	case *ir.VectorSwizzlingDecl:
		return e.Name
	case *ir.FunctionDecl:
		if t, ok := g.Builtins.VectorCtorType(sym); ok {
			return g.TypeName(t)
		}
		if sym == g.Builtins.FloatCtor || sym == g.Builtins.IntCtor {
			return g.TypeName(sym.ReturnType)
		}
		if sym.IsBuiltin() {
			return strings.ToLower(sym.Name)
		}
		return g.Name(sym.Name)
	case *ir.VarDecl:
		if sym.IsSystemValue {
			return sym.Name
		}
	}
	return g.Name(e.Name)
}

func (g *Generator) binOp(e *ir.BinOp) {
	if n, ok := e.ArraySize(); ok {
		g.W.WriteInt(n)
		return
	}
	// Matrix values are 4x4. A Vec2 operand is taken as the point
	// (x, y, 0, 1) and the product is cut back to two components.
	if v := vec2MatrixOperand(e); v != nil {
		if g.promoted == nil {
			g.promoted = make(map[ir.Expr]bool)
		}
		g.promoted[v] = true
		g.W.Write("(")
		g.lowerBinOp(e)
		g.W.Write(").xy")
		return
	}
	g.lowerBinOp(e)
}

func (g *Generator) lowerBinOp(e *ir.BinOp) {
	if l, ok := g.dialect.(BinOpLowerer); ok && l.BinOp(g, e) {
		return
	}

	lhs, rhs := e.LHS, e.RHS
	if g.style.SwapMatrixVectorMults && e.Op == ir.BinMultiply {
		lt, rt := lhs.Type(), rhs.Type()
		if (ir.IsMatrix(lt) && (ir.IsMatrix(rt) || ir.IsVector(rt))) || (ir.IsVector(lt) && ir.IsMatrix(rt)) {
			lhs, rhs = rhs, lhs
		}
	}

	if e.Op == ir.BinMemberAccess {
		g.operand(lhs, e.Op, false)
		g.W.Write(".")
		g.Expr(rhs)
		return
	}
	g.operand(lhs, e.Op, false)
	g.W.Write(" " + e.Op.String() + " ")
	g.operand(rhs, e.Op, true)
}

// operand writes a child of a binary operation, grouping it when the
// target's C-style precedence would otherwise bind it differently.
func (g *Generator) operand(e ir.Expr, parent ir.BinOpKind, right bool) {
	child, ok := e.(*ir.BinOp)
	if !ok || child.Op == ir.BinMemberAccess {
		g.Expr(e)
		return
	}
	if _, ok := child.ArraySize(); ok {
		g.Expr(e)
		return
	}
	cp, pp := precedence(child.Op), precedence(parent)
	if cp < pp || (right && cp == pp) {
		g.parenExpr(e)
		return
	}
	g.Expr(e)
}

func (g *Generator) parenExpr(e ir.Expr) {
	g.W.Write("(")
	g.Expr(e)
	g.W.Write(")")
}

// precedence ranks op the way GLSL, HLSL and MSL parse it.
func precedence(op ir.BinOpKind) int {
	switch op {
	case ir.BinMemberAccess:
		return 12
	case ir.BinMultiply, ir.BinDivide:
		return 10
	case ir.BinAdd, ir.BinSubtract:
		return 9
	case ir.BinLeftShift, ir.BinRightShift:
		return 8
	case ir.BinLessThan, ir.BinLessThanOrEqual, ir.BinGreaterThan, ir.BinGreaterThanOrEqual:
		return 7
	case ir.BinEqual, ir.BinNotEqual:
		return 6
	case ir.BinBitwiseAnd:
		return 5
	case ir.BinBitwiseXor:
		return 4
	case ir.BinBitwiseOr:
		return 3
	case ir.BinLogicalAnd:
		return 2
	case ir.BinLogicalOr:
		return 1
	}
	return 0
}

// vec2MatrixOperand returns the Vec2 side of a Matrix by Vec2 product.
func vec2MatrixOperand(e *ir.BinOp) ir.Expr {
	if e.Op != ir.BinMultiply {
		return nil
	}
	lt, rt := e.LHS.Type(), e.RHS.Type()
	switch {
	case ir.IsMatrix(lt) && rt == ir.Vec2:
		return e.RHS
	case lt == ir.Vec2 && ir.IsMatrix(rt):
		return e.LHS
	}
	return nil
}

func typeName(t ir.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.TypeName()
}
