package ir

// accessWalker answers "does this subtree read symbol". Transitive walks
// follow calls into callee bodies and global constants into their
// initializers; visiting guards against revisiting a declaration.
type accessWalker struct {
	symbol     Decl
	transitive bool
	visiting   map[Decl]struct{}
}

// FunctionAccesses reports whether fn transitively accesses symbol.
func FunctionAccesses(fn *FunctionDecl, symbol Decl) bool {
	if fn.Body == nil {
		return false
	}
	w := &accessWalker{symbol: symbol, transitive: true}
	w.enter(fn)
	return w.block(fn.Body)
}

// BlockAccesses reports whether b accesses symbol.
func BlockAccesses(b *CodeBlock, symbol Decl, transitive bool) bool {
	w := &accessWalker{symbol: symbol, transitive: transitive}
	return w.block(b)
}

// StmtAccesses reports whether s accesses symbol.
func StmtAccesses(s Stmt, symbol Decl, transitive bool) bool {
	w := &accessWalker{symbol: symbol, transitive: transitive}
	return w.stmt(s)
}

// ExprAccesses reports whether e accesses symbol.
func ExprAccesses(e Expr, symbol Decl, transitive bool) bool {
	w := &accessWalker{symbol: symbol, transitive: transitive}
	return w.expr(e)
}

func (w *accessWalker) enter(d Decl) bool {
	if w.visiting == nil {
		w.visiting = make(map[Decl]struct{})
	}
	if _, ok := w.visiting[d]; ok {
		return false
	}
	w.visiting[d] = struct{}{}
	return true
}

func (w *accessWalker) block(b *CodeBlock) bool {
	if b == nil {
		return false
	}
	for _, s := range b.Stmts {
		if w.stmt(s) {
			return true
		}
	}
	return false
}

func (w *accessWalker) stmt(s Stmt) bool {
	switch s := s.(type) {
	case *CompoundAssignment:
		return w.expr(s.LHS) || w.expr(s.RHS)
	case *Assignment:
		return w.expr(s.LHS) || w.expr(s.RHS)
	case *ReturnStmt:
		return w.expr(s.Expr)
	case *ForStmt:
		return w.expr(s.Range) || w.block(s.Body)
	case *IfStmt:
		for branch := s; branch != nil; branch = branch.Next {
			if branch.Cond != nil && w.expr(branch.Cond) {
				return true
			}
			if w.block(branch.Body) {
				return true
			}
		}
		return false
	case *VarStmt:
		// A declaration's initializer always counts, regardless of mode.
		saved := w.transitive
		w.transitive = true
		found := s.Var.Expr != nil && w.expr(s.Var.Expr)
		w.transitive = saved
		return found
	}
	return false
}

func (w *accessWalker) expr(e Expr) bool {
	if e == nil {
		return false
	}
	switch e := e.(type) {
	case *BinOp:
		return w.expr(e.LHS) || w.expr(e.RHS)
	case *UnaryOp:
		return w.expr(e.Operand)
	case *SymAccess:
		if e.sym == w.symbol {
			return true
		}
		if w.transitive {
			if v, ok := e.sym.(*VarDecl); ok && v.Expr != nil && !v.IsSystemValue && w.enter(v) {
				return w.expr(v.Expr)
			}
		}
		return false
	case *FunctionCall:
		if w.expr(e.Callee) {
			return true
		}
		if w.transitive && e.Callee.verified {
			if fn, ok := e.Callee.sym.(*FunctionDecl); ok && fn.Body != nil && w.enter(fn) {
				if w.block(fn.Body) {
					return true
				}
			}
		}
		for _, arg := range e.Args {
			if w.expr(arg) {
				return true
			}
		}
		return false
	case *Subscript:
		return w.expr(e.Base) || w.expr(e.Index)
	case *Paren:
		return w.expr(e.Inner)
	case *Ternary:
		return w.expr(e.Cond) || w.expr(e.True) || w.expr(e.False)
	case *Range:
		return w.expr(e.Start) || w.expr(e.End)
	case *ArrayExpr:
		return e.sym == w.symbol || w.expr(e.Size)
	}
	return e.Symbol() == w.symbol
}
