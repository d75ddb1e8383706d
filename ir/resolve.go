package ir

import (
	"strconv"
	"strings"
)

// -----------------------------------------------------------------------------
// Types
// -----------------------------------------------------------------------------

// resolveType replaces unresolved names with their scope entries and
// validates array sizes.
func (c *Checker) resolveType(t Type, e env) (Type, error) {
	switch t := t.(type) {
	case Primitive:
		return t, nil
	case *UnresolvedType:
		resolved := e.scope.FindType(t.Name)
		if resolved == nil {
			return nil, Errorf(t.Loc, "Undefined type '%s'.", t.Name)
		}
		return resolved, nil
	case *ArrayType:
		return c.resolveArray(t, e)
	case nil:
		return nil, Internalf("missing type")
	}
	return nil, Internalf("unknown type %T", t)
}

func (c *Checker) resolveArray(t *ArrayType, e env) (Type, error) {
	if t.resolved {
		return c.types.intern(t), nil
	}

	elem, err := c.resolveType(t.Elem, e)
	if err != nil {
		return nil, err
	}
	t.Elem = elem

	if err := c.verifyExpr(t.SizeExpr, e); err != nil {
		return nil, err
	}
	if st := t.SizeExpr.Type(); st != Int {
		return nil, Errorf(t.SizeExpr.Pos(), "Values of type '%s' cannot be used as an array size; expected '%s'.",
			st.TypeName(), Int.TypeName())
	}

	size, err := c.arraySize(t.Loc, c.ConstantValue(t.SizeExpr))
	if err != nil {
		return nil, err
	}
	t.size = size
	t.resolved = true
	return c.types.intern(t), nil
}

func (c *Checker) arraySize(loc Location, value Value) (int, error) {
	if !value.IsValid() {
		return 0, Errorf(loc, "Expression does not evaluate to a constant integer value.")
	}
	if value.Kind != ValueInt {
		return 0, Errorf(loc, "This expression doesn't represent a valid array size. Array sizes must be specified as 'int' values.")
	}
	size := int(value.Int)
	switch {
	case size < 0:
		return 0, Errorf(loc, "Negative array sizes are not allowed (specified size = %d).", size)
	case size == 0:
		return 0, Errorf(loc, "Zero array sizes are not allowed.")
	case size > MaxArraySize:
		return 0, Errorf(loc, "Array size (= %d) exceeds the maximum allowed array size (= %d). If you need more elements than is allowed, try to split them up into multiple arrays instead.",
			size, MaxArraySize)
	}
	return size, nil
}

// ResolveType resolves t in scope. It is used by tools that need to look
// a type name up outside of a full verification pass.
func (c *Checker) ResolveType(t Type, scope *Scope) (Type, error) {
	return c.resolveType(t, env{scope: scope})
}

// -----------------------------------------------------------------------------
// Assignment rules
// -----------------------------------------------------------------------------

// CanAssign reports whether the value of rhs may be stored in a target of
// type target. With implicitCast, int literal arithmetic widens to float.
func CanAssign(target Type, rhs Expr, implicitCast bool) bool {
	src := rhs.Type()
	if implicitCast && target == Float && src == Int && isIntLiteralArithmetic(rhs) {
		return true
	}
	ta, ok1 := target.(*ArrayType)
	ra, ok2 := src.(*ArrayType)
	if ok1 && ok2 {
		return SameType(ta.Elem, ra.Elem) && ta.size == ra.size
	}
	return SameType(target, src)
}

func isIntLiteralArithmetic(e Expr) bool {
	switch e := e.(type) {
	case *IntLiteral:
		return true
	case *UnaryOp:
		_, ok := e.Operand.(*IntLiteral)
		return ok
	case *BinOp:
		_, ok1 := e.LHS.(*IntLiteral)
		_, ok2 := e.RHS.(*IntLiteral)
		return ok1 && ok2
	}
	return false
}

func (c *Checker) verifyTypeAssignment(target Type, rhs Expr, implicitCast bool) error {
	if !CanAssign(target, rhs, implicitCast) {
		return Errorf(rhs.Pos(), "cannot assign type '%s' to '%s' and no implicit conversion exists",
			rhs.Type().TypeName(), target.TypeName())
	}
	return nil
}

// -----------------------------------------------------------------------------
// Expressions
// -----------------------------------------------------------------------------

func (c *Checker) verifyExpr(x Expr, e env) error {
	b := x.(baser).base()
	if b.verified {
		return nil
	}
	if err := c.verifyExprKind(x, e); err != nil {
		return err
	}
	if b.typ == nil {
		return Internalf("expression at %s has no type after verification", b.loc)
	}
	b.verified = true
	return nil
}

func (c *Checker) verifyExprKind(x Expr, e env) error {
	switch x := x.(type) {
	case *IntLiteral, *BoolLiteral, *FloatLiteral, *ScientificLiteral:
		return nil

	case *HexLiteral:
		if _, ok := ParseHexLiteral(x.Text); !ok {
			return Errorf(x.loc, "Invalid hexadecimal literal '%s'.", x.Text)
		}
		return nil

	case *BinOp:
		return c.verifyBinOp(x, e)

	case *UnaryOp:
		if err := c.verifyExpr(x.Operand, e); err != nil {
			return err
		}
		t := x.Operand.Type()
		switch x.Op {
		case UnaryNegate:
			if !IsScalar(t) && !IsVector(t) && !IsMatrix(t) {
				return Errorf(x.loc, "The operator '%s' cannot be applied to type '%s'.", x.Op, t.TypeName())
			}
		case UnaryLogicalNot:
			if t != Bool {
				return Errorf(x.loc, "The operator '%s' cannot be applied to type '%s'.", x.Op, t.TypeName())
			}
		}
		x.typ = t
		x.sym = x.Operand.Symbol()
		return nil

	case *SymAccess:
		return c.verifySymAccess(x, e)

	case *FunctionCall:
		return c.verifyCall(x, e)

	case *Subscript:
		return c.verifySubscript(x, e)

	case *Paren:
		if err := c.verifyExpr(x.Inner, e); err != nil {
			return err
		}
		x.typ = x.Inner.Type()
		x.sym = x.Inner.Symbol()
		return nil

	case *Ternary:
		for _, sub := range []Expr{x.Cond, x.True, x.False} {
			if err := c.verifyExpr(sub, e); err != nil {
				return err
			}
		}
		if x.Cond.Type() != Bool {
			return Errorf(x.Cond.Pos(), "Condition must evaluate to type '%s'.", Bool.TypeName())
		}
		if !SameType(x.True.Type(), x.False.Type()) {
			return Errorf(x.loc, "Type mismatch between true-expression ('%s') and false-expression ('%s'); both expressions must be of the same type.",
				x.True.Type().TypeName(), x.False.Type().TypeName())
		}
		x.typ = x.True.Type()
		return nil

	case *Range:
		if err := c.verifyExpr(x.Start, e); err != nil {
			return err
		}
		if err := c.verifyExpr(x.End, e); err != nil {
			return err
		}
		if !SameType(x.Start.Type(), x.End.Type()) {
			return Errorf(x.loc, "Type mismatch between range start and end (%s to %s).",
				x.Start.Type().TypeName(), x.End.Type().TypeName())
		}
		x.typ = x.Start.Type()
		return nil

	case *ArrayExpr:
		if err := c.verifyExpr(x.Size, e); err != nil {
			return err
		}
		elem, err := c.resolveType(x.ElemType, e)
		if err != nil {
			return err
		}
		x.ElemType = elem
		size, err := c.arraySize(x.Size.Pos(), c.ConstantValue(x.Size))
		if err != nil {
			return err
		}
		lit := NewIntLiteral(x.Size.Pos(), int32(size))
		lit.verified = true
		arr, err := c.resolveArray(c.types.Array(x.loc, elem, lit), e)
		if err != nil {
			return err
		}
		x.typ = arr
		return nil
	}
	return Internalf("unknown expression %T", x)
}

func (c *Checker) verifyBinOp(x *BinOp, e env) error {
	if err := c.verifyExpr(x.LHS, e); err != nil {
		return err
	}

	if x.Op == BinMemberAccess {
		member, ok := x.RHS.(*SymAccess)
		if !ok {
			return Errorf(x.RHS.Pos(), "Expected a member name after '.'.")
		}
		member.ancestor = x.LHS
		if err := c.verifyExpr(member, e); err != nil {
			return err
		}
		x.typ = member.Type()
		x.sym = member.Symbol()
		if member.arraySize {
			x.arraySize = x.LHS.Type().(*ArrayType).Size()
			x.hasArraySize = true
		}
		return nil
	}

	if err := c.verifyExpr(x.RHS, e); err != nil {
		return err
	}
	lt, rt := x.LHS.Type(), x.RHS.Type()
	res, ok := c.ops.ResultType(x.Op, lt, rt)
	if !ok {
		return Errorf(x.loc, "The operator '%s' is not defined between the types '%s' and '%s'.",
			x.Op, lt.TypeName(), rt.TypeName())
	}
	x.typ = res
	return nil
}

func swizzleType(name string) Type {
	if len(name) > 4 {
		return nil
	}
	return [...]Type{nil, Float, Vec2, Vec3, Vec4}[len(name)]
}

func isSwizzle(name string) bool {
	return name != "" && strings.Trim(name, "xyzw") == ""
}

// findMember returns the member symbol called name on t.
func (c *Checker) findMember(t Type, name string) Decl {
	switch {
	case IsVector(t):
		if isSwizzle(name) {
			return c.builtins.Swizzle
		}
	case IsArray(t):
		if name == ArraySizeMember {
			return c.builtins.ArraySize
		}
	}
	return nil
}

func (c *Checker) verifySymAccess(x *SymAccess, e env) error {
	if x.ancestor != nil {
		at := x.ancestor.Type()
		member := c.findMember(at, x.Name)
		if member == nil {
			return Errorf(x.loc, "type '%s' has no member named '%s'", at.TypeName(), x.Name)
		}
		x.sym = member
		switch member.(type) {
		case *VectorSwizzlingDecl:
			x.swizzle = true
			x.typ = swizzleType(x.Name)
			if x.typ == nil {
				return Errorf(x.loc, "invalid vector swizzling '%s' (too many components)", x.Name)
			}
		case *ArraySizeDecl:
			x.arraySize = true
			x.typ = Int
		}
		return nil
	}

	sym := e.scope.FindSymbol(x.Name, true)
	if sym == nil {
		return c.symbolNotFound(x, e)
	}
	x.sym = sym
	x.typ = sym.DeclType()
	if x.typ == nil {
		return Errorf(x.loc, "'%s' cannot be used as a value.", x.Name)
	}
	return nil
}

func (c *Checker) symbolNotFound(x *SymAccess, e env) error {
	if similar := e.scope.FindSymbolWithSimilarName(x.Name); similar != nil && len(x.Name) > 2 {
		return Errorf(x.loc, "Unable to find a symbol named '%s' not found; did you mean '%s'?", x.Name, similar.DeclName())
	}
	return Errorf(x.loc, "Unable to find a symbol named '%s'.", x.Name)
}

// calleeName maps type aliases to the constructor they stand for.
func calleeName(name string) string {
	if p, ok := TypeAliases[name]; ok {
		return p.TypeName()
	}
	return name
}

func (c *Checker) verifyCall(x *FunctionCall, e env) error {
	for _, arg := range x.Args {
		if err := c.verifyExpr(arg, e); err != nil {
			return err
		}
	}

	fn, err := c.resolveOverload(x, e)
	if err != nil {
		return err
	}
	callee := x.Callee
	callee.sym = fn
	callee.typ = fn.ReturnType
	callee.verified = true

	if fn.IsShader() {
		return Errorf(x.loc, "Calling a shader main function is not allowed.")
	}

	x.sym = fn
	x.typ = fn.ReturnType
	return nil
}

func (c *Checker) resolveOverload(x *FunctionCall, e env) (*FunctionDecl, error) {
	name := calleeName(x.Callee.Name)

	var matches []*FunctionDecl
	found := false
	for _, sym := range e.scope.FindSymbols(name) {
		fn, ok := sym.(*FunctionDecl)
		if !ok {
			continue
		}
		found = true
		if len(fn.Params) != len(x.Args) {
			continue
		}
		implicit := c.builtins.AcceptsImplicitCasts(fn)
		match := true
		for i, arg := range x.Args {
			if !CanAssign(fn.Params[i].Type, arg, implicit) {
				match = false
				break
			}
		}
		if match {
			matches = append(matches, fn)
		}
	}

	switch {
	case len(matches) == 1:
		return matches[0], nil
	case len(matches) > 1:
		return nil, Errorf(x.Callee.loc, "This function call for '%s' is ambiguous (I found more than one suitable candidate).", callString(x))
	case found:
		return nil, Errorf(x.Callee.loc, "Unable to find a matching overload for function call '%s'", callString(x))
	}
	return nil, Errorf(x.Callee.loc, "Unable to find a function named '%s'.", x.Callee.Name)
}

func callString(x *FunctionCall) string {
	types := make([]string, len(x.Args))
	for i, arg := range x.Args {
		types[i] = arg.Type().TypeName()
	}
	return x.Callee.Name + "(" + strings.Join(types, ", ") + ")"
}

func (c *Checker) verifySubscript(x *Subscript, e env) error {
	if err := c.verifyExpr(x.Base, e); err != nil {
		return err
	}
	x.sym = x.Base.Symbol()

	if err := c.verifyExpr(x.Index, e); err != nil {
		return err
	}
	if it := x.Index.Type(); it != Int {
		return Errorf(x.Index.Pos(), "'%s' cannot be used to index into an array; expected '%s'.", it.TypeName(), Int.TypeName())
	}

	arr, ok := x.Base.Type().(*ArrayType)
	if !ok {
		return Errorf(x.Index.Pos(), "Cannot index into non-array type '%s'.", x.Base.Type().TypeName())
	}
	size := arr.Size()

	if idx := c.ConstantValue(x.Index); idx.Kind == ValueInt {
		if idx.Int < 0 {
			return Errorf(x.loc, "You're attempting to access an array with size %d at index %d, which would be out of bounds.", size, idx.Int)
		}
		if int(idx.Int) >= size {
			return Errorf(x.loc, "index (= %d) exceeds the array's size (= %d)", idx.Int, size)
		}
	}

	if lv, ok := x.Index.Symbol().(*ForLoopVariableDecl); ok {
		for _, binding := range e.loops {
			if binding.v != lv {
				continue
			}
			start := c.ConstantValue(binding.rng.Start)
			end := c.ConstantValue(binding.rng.End)
			if start.Kind == ValueInt && start.Int < 0 {
				return Errorf(x.loc, "The loop variable '%s' would access the array with size %d at index %d, which would be out of bounds.", lv.Name, size, start.Int)
			}
			if end.Kind == ValueInt && int(end.Int) > size {
				return Errorf(x.loc, "The loop variable '%s' would access the array with size %d at index %d, which would be out of bounds.", lv.Name, size, end.Int-1)
			}
		}
	}

	x.typ = arr.Elem
	return nil
}

// -----------------------------------------------------------------------------
// Constant folding
// -----------------------------------------------------------------------------

// ConstantValue folds a verified expression. The zero Value means the
// expression is not a compile-time constant.
func (c *Checker) ConstantValue(x Expr) Value {
	switch x := x.(type) {
	case *IntLiteral:
		return IntValue(x.Value)
	case *BoolLiteral:
		return BoolValue(x.Value)
	case *FloatLiteral:
		return FloatValue(x.Value)
	case *ScientificLiteral:
		f, err := strconv.ParseFloat(x.Text, 64)
		if err != nil {
			return Value{}
		}
		return FloatValue(f)
	case *HexLiteral:
		v, ok := ParseHexLiteral(x.Text)
		if !ok {
			return Value{}
		}
		return IntValue(v)
	case *BinOp:
		if x.hasArraySize {
			return IntValue(int32(x.arraySize))
		}
		if x.Op == BinMemberAccess {
			return c.swizzleValue(x)
		}
		return foldBinary(x.Op, c.ConstantValue(x.LHS), c.ConstantValue(x.RHS))
	case *UnaryOp:
		return foldUnary(x.Op, c.ConstantValue(x.Operand))
	case *Paren:
		return c.ConstantValue(x.Inner)
	case *Ternary:
		cond := c.ConstantValue(x.Cond)
		t := c.ConstantValue(x.True)
		f := c.ConstantValue(x.False)
		if cond.Kind != ValueBool || !t.IsValid() || !f.IsValid() {
			return Value{}
		}
		if cond.Bool {
			return t
		}
		return f
	case *SymAccess:
		if v, ok := x.sym.(*VarDecl); ok && v.Expr != nil {
			return c.ConstantValue(v.Expr)
		}
		return Value{}
	case *FunctionCall:
		return c.callValue(x)
	case *ArrayExpr:
		return c.ConstantValue(x.Size)
	}
	return Value{}
}

func (c *Checker) swizzleValue(x *BinOp) Value {
	member, ok := x.RHS.(*SymAccess)
	if !ok || !member.swizzle {
		return Value{}
	}
	base := c.ConstantValue(x.LHS)
	if base.dim() == 0 {
		return Value{}
	}
	out := make([]float64, len(member.Name))
	for i, ch := range member.Name {
		idx := strings.IndexRune("xyzw", ch)
		if idx >= base.dim() {
			return Value{}
		}
		out[i] = base.Vec[idx]
	}
	if len(out) == 1 {
		return FloatValue(out[0])
	}
	return VecValue(out...)
}

func (c *Checker) callValue(x *FunctionCall) Value {
	fn := x.Function()
	if fn == nil {
		return Value{}
	}

	args := make([]Value, len(x.Args))
	for i, arg := range x.Args {
		args[i] = c.ConstantValue(arg)
		if !args[i].IsValid() {
			return Value{}
		}
	}

	switch {
	case fn == c.builtins.FloatCtor:
		f, ok := args[0].AsFloat()
		if !ok {
			return Value{}
		}
		return FloatValue(f)

	case fn == c.builtins.IntCtor:
		f, ok := args[0].AsFloat()
		if !ok {
			return Value{}
		}
		return IntValue(int32(f))
	}

	vt, ok := c.builtins.VectorCtorType(fn)
	if !ok {
		return Value{}
	}
	dim := VectorDim(vt)

	var comps []float64
	for _, a := range args {
		if f, ok := a.AsFloat(); ok {
			comps = append(comps, f)
			continue
		}
		if a.dim() == 0 {
			return Value{}
		}
		comps = append(comps, a.Components()...)
	}

	switch len(comps) {
	case 0:
		return VecValue(make([]float64, dim)...)
	case 1:
		splat := make([]float64, dim)
		for i := range splat {
			splat[i] = comps[0]
		}
		return VecValue(splat...)
	case dim:
		return VecValue(comps...)
	}
	return Value{}
}
