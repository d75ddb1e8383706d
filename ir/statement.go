package ir

// Stmt is a statement inside a code block.
type Stmt interface {
	Node
	stmtNode()
}

// CompoundAssignment is lhs op= rhs.
type CompoundAssignment struct {
	Loc  Location
	Kind CompoundKind
	LHS  Expr
	RHS  Expr
}

// Assignment is lhs = rhs.
type Assignment struct {
	Loc Location
	LHS Expr
	RHS Expr
}

// ReturnStmt returns a value.
type ReturnStmt struct {
	Loc  Location
	Expr Expr
}

// ForStmt iterates Var over Range.
type ForStmt struct {
	Loc   Location
	Var   *ForLoopVariableDecl
	Range *Range
	Body  *CodeBlock
}

// IfStmt is an if, else-if or else branch. Cond is nil for a final else.
type IfStmt struct {
	Loc  Location
	Cond Expr
	Body *CodeBlock
	Next *IfStmt
}

// VarStmt declares a local variable.
type VarStmt struct {
	Loc Location
	Var *VarDecl
}

// BreakStmt leaves the innermost loop.
type BreakStmt struct {
	Loc Location
}

// ContinueStmt jumps to the next loop iteration.
type ContinueStmt struct {
	Loc Location
}

func (s *CompoundAssignment) Pos() Location { return s.Loc }
func (s *Assignment) Pos() Location         { return s.Loc }
func (s *ReturnStmt) Pos() Location         { return s.Loc }
func (s *ForStmt) Pos() Location            { return s.Loc }
func (s *IfStmt) Pos() Location             { return s.Loc }
func (s *VarStmt) Pos() Location            { return s.Loc }
func (s *BreakStmt) Pos() Location          { return s.Loc }
func (s *ContinueStmt) Pos() Location       { return s.Loc }

func (*CompoundAssignment) stmtNode() {}
func (*Assignment) stmtNode()         {}
func (*ReturnStmt) stmtNode()         {}
func (*ForStmt) stmtNode()            {}
func (*IfStmt) stmtNode()             {}
func (*VarStmt) stmtNode()            {}
func (*BreakStmt) stmtNode()          {}
func (*ContinueStmt) stmtNode()       {}

// CodeBlock is a braced sequence of statements with its own scope.
type CodeBlock struct {
	Loc   Location
	Stmts []Stmt
}

// IsSingleStatement reports whether the block holds exactly one statement.
func (b *CodeBlock) IsSingleStatement() bool { return len(b.Stmts) == 1 }

// Variables returns the block's own variable statements.
func (b *CodeBlock) Variables() []*VarStmt {
	var vars []*VarStmt
	for _, s := range b.Stmts {
		if v, ok := s.(*VarStmt); ok {
			vars = append(vars, v)
		}
	}
	return vars
}

// RemoveStmt removes s from the block. It reports whether s was found.
func (b *CodeBlock) RemoveStmt(s Stmt) bool {
	for i, e := range b.Stmts {
		if e == s {
			b.Stmts = append(b.Stmts[:i], b.Stmts[i+1:]...)
			return true
		}
	}
	return false
}

// Last returns the final statement, or nil for an empty block.
func (b *CodeBlock) Last() Stmt {
	if len(b.Stmts) == 0 {
		return nil
	}
	return b.Stmts[len(b.Stmts)-1]
}

// NestedBlocks returns the code blocks directly owned by s.
func NestedBlocks(s Stmt) []*CodeBlock {
	switch s := s.(type) {
	case *ForStmt:
		return []*CodeBlock{s.Body}
	case *IfStmt:
		var blocks []*CodeBlock
		for branch := s; branch != nil; branch = branch.Next {
			blocks = append(blocks, branch.Body)
		}
		return blocks
	}
	return nil
}
