package ir

// Checker performs semantic analysis: it resolves types and symbols and
// enforces the language rules, stopping at the first error.
type Checker struct {
	ast      *Ast
	builtins *Builtins
	ops      *BinOpTable
	types    *TypeCache

	allowReserved bool
}

// env is the verification context threaded through the walk.
type env struct {
	scope     *Scope
	fn        *FunctionDecl
	loopDepth int
	loops     []loopBinding
}

// loopBinding ties a loop variable to the range it iterates.
type loopBinding struct {
	v   *ForLoopVariableDecl
	rng *Range
}

func (e env) in(scope *Scope) env {
	e.scope = scope
	return e
}

// NewChecker creates a checker for ast.
func NewChecker(ast *Ast, builtins *Builtins, ops *BinOpTable, types *TypeCache) *Checker {
	return &Checker{ast: ast, builtins: builtins, ops: ops, types: types}
}

// Ast returns the tree being checked.
func (c *Checker) Ast() *Ast { return c.ast }

// Builtins returns the built-in symbol registry.
func (c *Checker) Builtins() *Builtins { return c.builtins }

// Ops returns the operator table.
func (c *Checker) Ops() *BinOpTable { return c.ops }

// Types returns the type cache.
func (c *Checker) Types() *TypeCache { return c.types }

// VerifyBuiltins declares every built-in in global. System values are
// verified too but then removed again; they are only visible inside the
// shader entry point.
func (c *Checker) VerifyBuiltins(global *Scope) error {
	c.allowReserved = true
	defer func() { c.allowReserved = false }()

	e := env{scope: global}
	for _, d := range c.builtins.All() {
		if err := c.verifyDecl(d, e); err != nil {
			return err
		}
	}
	for _, d := range c.builtins.All() {
		if v, ok := d.(*VarDecl); ok && v.IsSystemValue {
			global.RemoveSymbol(v)
		}
	}
	return nil
}

// Verify checks every top-level declaration in order.
func (c *Checker) Verify(global *Scope) error {
	if c.ast.verified {
		return nil
	}
	e := env{scope: global}
	for _, d := range c.ast.Decls {
		if err := c.verifyDecl(d, e); err != nil {
			return err
		}
	}
	c.ast.verified = true
	return nil
}

func (c *Checker) verifySymbolName(loc Location, name string) error {
	if !c.allowReserved && IsReservedIdentifier(name) {
		return Errorf(loc, "Prefix '%s' is reserved and cannot be used for identifiers.", ReservedPrefix)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Declarations
// -----------------------------------------------------------------------------

func (c *Checker) verifyDecl(d Decl, e env) error {
	switch d := d.(type) {
	case *ShaderTypeDecl:
		if _, ok := ParseShaderType(d.ID); !ok {
			return Errorf(d.Loc, "Invalid shader type '%s' specified; valid types are: '%s', '%s', '%s'.",
				d.ID, ShaderTypeSprite, ShaderTypePolygon, ShaderTypeMesh)
		}
		return nil
	case *FunctionDecl:
		return c.verifyFunction(d, e)
	case *FunctionParamDecl:
		return c.verifyFunctionParam(d, e)
	case *ShaderParamDecl:
		return c.verifyShaderParam(d, e)
	case *VarDecl:
		return c.verifyVar(d, e)
	case *ForLoopVariableDecl, *VectorSwizzlingDecl, *ArraySizeDecl:
		return nil
	}
	return Internalf("unknown declaration %T", d)
}

func (c *Checker) verifyFunctionParam(p *FunctionParamDecl, e env) error {
	if p.verified {
		return nil
	}
	typ, err := c.resolveType(p.Type, e)
	if err != nil {
		return err
	}
	p.Type = typ
	if e.fn != nil && e.fn.Body != nil && IsImage(typ) {
		return Errorf(p.Loc, "Invalid type for function parameter; expected a scalar, vector, matrix or array type.")
	}
	p.verified = true
	return nil
}

func (c *Checker) verifyFunction(fn *FunctionDecl, e env) error {
	if fn.verified {
		return nil
	}
	if fn.Name == EntryPointName {
		fn.Kind = FunctionShader
	}
	if err := c.verifySymbolName(fn.Loc, fn.Name); err != nil {
		return err
	}

	builtin := fn.IsBuiltin()
	if !builtin && e.scope.ContainsSymbolHere(fn.Name) {
		return Errorf(fn.Loc, "Symbol '%s' is already defined.", fn.Name)
	}

	e.fn = fn
	paramScope := e.scope
	if !builtin {
		paramScope = e.scope.PushChild()
	}
	for _, p := range fn.Params {
		if !builtin {
			if err := c.verifySymbolName(p.Loc, p.Name); err != nil {
				return err
			}
			if paramScope.ContainsSymbolHere(p.Name) {
				return Errorf(p.Loc, "Symbol '%s' is already defined.", p.Name)
			}
			paramScope.AddSymbol(p)
		}
		if err := c.verifyFunctionParam(p, e); err != nil {
			return err
		}
	}

	ret, err := c.resolveType(fn.ReturnType, e)
	if err != nil {
		return err
	}
	fn.ReturnType = ret
	if IsArray(ret) || IsImage(ret) {
		return Errorf(fn.Loc, "Invalid function return type; expected a scalar, vector or matrix type.")
	}

	if !builtin {
		var extras []Decl
		if fn.IsShader() {
			for _, sv := range c.builtins.SystemValues(c.ast.ShaderType) {
				extras = append(extras, sv)
			}
		}
		if err := c.verifyBlock(fn.Body, e.in(paramScope), extras); err != nil {
			return err
		}
		if len(fn.Body.Stmts) == 0 {
			return Errorf(fn.Loc, "A function (in this case '%s') must contain at least one statement.", fn.Name)
		}
		e.scope.PopChild()
	}

	e.scope.AddSymbol(fn)

	if fn.IsShader() {
		if _, ok := fn.Body.Last().(*ReturnStmt); !ok || countReturns(fn.Body) != 1 {
			return Errorf(fn.Loc, "A shader (in this case '%s') must return exactly one value, at the end.", fn.Name)
		}
		if fn.ReturnType != Vec4 {
			return Errorf(fn.Loc, "A pixel shader must return a value of type '%s'.", Vec4.TypeName())
		}
	}

	if !builtin {
		last, ok := fn.Body.Last().(*ReturnStmt)
		if !ok {
			return Errorf(fn.Body.Last().Pos(), "Expected a 'return' statement at the end of a function.")
		}
		if err := c.verifyTypeAssignment(fn.ReturnType, last.Expr, false); err != nil {
			return err
		}
		if fn.IsShader() {
			fn.UsesSystemValues = c.builtins.SystemValueUsage(c.ast).Any()
		}
	}

	fn.verified = true
	return nil
}

// countReturns counts return statements in b and its nested blocks.
func countReturns(b *CodeBlock) int {
	n := 0
	for _, s := range b.Stmts {
		if _, ok := s.(*ReturnStmt); ok {
			n++
		}
		for _, nested := range NestedBlocks(s) {
			n += countReturns(nested)
		}
	}
	return n
}

func (c *Checker) verifyShaderParam(p *ShaderParamDecl, e env) error {
	if p.verified {
		return nil
	}
	if err := c.verifySymbolName(p.Loc, p.Name); err != nil {
		return err
	}
	if e.scope.ContainsSymbolHere(p.Name) {
		return Errorf(p.Loc, "Symbol '%s' is already defined.", p.Name)
	}

	typ, err := c.resolveType(p.Type, e)
	if err != nil {
		return err
	}
	p.Type = typ
	if !CanBeShaderParameter(typ) {
		return Errorf(p.Loc, "Type '%s' cannot be used as a shader parameter.", typ.TypeName())
	}

	if p.Default != nil {
		if err := c.verifyExpr(p.Default, e); err != nil {
			return err
		}
		if IsImage(typ) {
			return Errorf(p.Default.Pos(), "Image parameters cannot have a default value.")
		}
		if err := c.verifyTypeAssignment(typ, p.Default, false); err != nil {
			return err
		}
		value := c.ConstantValue(p.Default)
		if !value.IsValid() {
			return Errorf(p.Default.Pos(), "The default value of a shader parameter must be a constant expression.")
		}
		p.DefaultValue = value
	}

	e.scope.AddSymbol(p)
	p.verified = true
	return nil
}

func (c *Checker) verifyVar(v *VarDecl, e env) error {
	if v.verified {
		return nil
	}
	if v.IsSystemValue {
		if IsUnresolved(v.Type) {
			return Internalf("system value '%s' has an unresolved type", v.Name)
		}
	} else {
		if err := c.verifySymbolName(v.Loc, v.Name); err != nil {
			return err
		}
		if e.scope.ContainsSymbolHere(v.Name) {
			return Errorf(v.Loc, "Symbol '%s' is already defined.", v.Name)
		}
		if err := c.verifyExpr(v.Expr, e); err != nil {
			return err
		}
		if v.Expr.Type() == Void {
			return Errorf(v.Expr.Pos(), "Cannot declare variable '%s' of type 'void'.", v.Name)
		}
		v.Type = v.Expr.Type()
		if e.fn == nil && !c.ConstantValue(v.Expr).IsValid() {
			return Errorf(v.Expr.Pos(), "The value of the global constant '%s' must be a constant expression.", v.Name)
		}
	}
	e.scope.AddSymbol(v)
	v.verified = true
	return nil
}

// -----------------------------------------------------------------------------
// Statements
// -----------------------------------------------------------------------------

func (c *Checker) verifyBlock(b *CodeBlock, e env, extras []Decl) error {
	child := e.scope.PushChild()
	defer e.scope.PopChild()
	for _, d := range extras {
		child.AddSymbol(d)
	}

	var jump Stmt
	for _, s := range b.Stmts {
		if jump != nil {
			name := "break"
			if _, ok := jump.(*ContinueStmt); ok {
				name = "continue"
			}
			return Errorf(s.Pos(), "unreachable code due to previous '%s' statement in line %d", name, jump.Pos().Line)
		}
		if err := c.verifyStmt(s, e.in(child)); err != nil {
			return err
		}
		switch s.(type) {
		case *BreakStmt, *ContinueStmt:
			jump = s
		}
	}
	return nil
}

func (c *Checker) verifyStmt(s Stmt, e env) error {
	switch s := s.(type) {
	case *CompoundAssignment:
		if err := c.verifyExpr(s.LHS, e); err != nil {
			return err
		}
		if err := c.verifyExpr(s.RHS, e); err != nil {
			return err
		}
		lt, rt := s.LHS.Type(), s.RHS.Type()
		res, ok := c.ops.ResultType(s.Kind.BinOp(), lt, rt)
		if !ok {
			return Errorf(s.Loc, "The operator '%s' is not defined between the types '%s' and '%s'.",
				s.Kind.BinOp(), lt.TypeName(), rt.TypeName())
		}
		if !SameType(res, lt) {
			return Errorf(s.RHS.Pos(), "cannot assign type '%s' to '%s' and no implicit conversion exists",
				res.TypeName(), lt.TypeName())
		}
		return c.verifySymbolAssignment(s.LHS)

	case *Assignment:
		if err := c.verifyExpr(s.LHS, e); err != nil {
			return err
		}
		if err := c.verifyExpr(s.RHS, e); err != nil {
			return err
		}
		if err := c.verifyTypeAssignment(s.LHS.Type(), s.RHS, false); err != nil {
			return err
		}
		return c.verifySymbolAssignment(s.LHS)

	case *ReturnStmt:
		if err := c.verifyExpr(s.Expr, e); err != nil {
			return err
		}
		if e.fn != nil && e.fn.ReturnType != nil && !IsUnresolved(e.fn.ReturnType) {
			return c.verifyTypeAssignment(e.fn.ReturnType, s.Expr, false)
		}
		return nil

	case *ForStmt:
		if e.scope.ContainsSymbolHereOrUp(s.Var.Name) {
			return Errorf(s.Loc, "symbol named '%s' already exists", s.Var.Name)
		}
		if err := c.verifySymbolName(s.Var.Loc, s.Var.Name); err != nil {
			return err
		}
		if err := c.verifyExpr(s.Range, e); err != nil {
			return err
		}
		s.Var.Type = s.Range.Type()
		e.scope.AddSymbol(s.Var)
		defer e.scope.RemoveSymbol(s.Var)

		inner := e
		inner.loopDepth++
		inner.loops = append(append([]loopBinding(nil), e.loops...), loopBinding{v: s.Var, rng: s.Range})
		return c.verifyBlock(s.Body, inner, nil)

	case *IfStmt:
		for branch := s; branch != nil; branch = branch.Next {
			if branch.Cond != nil {
				if err := c.verifyExpr(branch.Cond, e); err != nil {
					return err
				}
				if branch.Cond.Type() != Bool {
					return Errorf(branch.Cond.Pos(), "Condition must evaluate to type '%s'.", Bool.TypeName())
				}
			}
			if err := c.verifyBlock(branch.Body, e, nil); err != nil {
				return err
			}
		}
		return nil

	case *VarStmt:
		return c.verifyVar(s.Var, e)

	case *BreakStmt:
		if e.loopDepth == 0 {
			return Errorf(s.Loc, "A 'break' statement may only exist inside of a loop.")
		}
		return nil

	case *ContinueStmt:
		if e.loopDepth == 0 {
			return Errorf(s.Loc, "A 'continue' statement may only exist inside of a loop.")
		}
		return nil
	}
	return Internalf("unknown statement %T", s)
}

func (c *Checker) verifySymbolAssignment(lhs Expr) error {
	if b, ok := lhs.(*BinOp); ok && b.Op == BinMemberAccess {
		if member, ok := b.RHS.(*SymAccess); ok && member.swizzle {
			return c.verifySymbolAssignment(b.LHS)
		}
	}
	sym := lhs.Symbol()
	switch {
	case sym == nil:
		return Errorf(lhs.Pos(), "Can't assign a value to an unnamed value.")
	case isSubscript(lhs):
		return Errorf(lhs.Pos(), "Assignment to subscript expressions is not supported yet.")
	case !isSymAccess(lhs):
		return Errorf(lhs.Pos(), "Can't assign a value to something that's not a variable.")
	}
	switch d := sym.(type) {
	case *VarDecl:
		if d.IsConst {
			return Errorf(lhs.Pos(), "Can't assign a value to the constant '%s'.", d.Name)
		}
	case *ShaderParamDecl:
		return Errorf(lhs.Pos(), "Can't assign a value to the shader parameter '%s'.", d.Name)
	case *ForLoopVariableDecl:
		return Errorf(lhs.Pos(), "Can't assign a value to the loop variable '%s'.", d.Name)
	case *FunctionDecl:
		return Errorf(lhs.Pos(), "Can't assign a value to something that's not a variable.")
	}
	return nil
}

func isSubscript(e Expr) bool {
	_, ok := e.(*Subscript)
	return ok
}

func isSymAccess(e Expr) bool {
	_, ok := e.(*SymAccess)
	return ok
}
