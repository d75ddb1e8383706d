package lsp

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"

	"github.com/polly2d/shaderc"
	"github.com/polly2d/shaderc/ir"
)

func (s *server) hover(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.TextDocumentPositionParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	text, ok := s.document(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	ast, _, err := shaderc.Verify(text, filenameOf(params.TextDocument.URI))
	if err != nil {
		return nil, nil
	}
	offset := offsetOf(text, params.Position)
	e, width := exprAt(ast, offset)
	if e == nil || e.Type() == nil {
		return nil, nil
	}

	start := e.Pos()
	rng := lspRangeFromLocation(text, start)
	rng.End.Character = rng.Start.Character + lspCharacter(text[start.Offset:start.Offset+width], width)
	return lsp.Hover{
		Contents: []lsp.MarkedString{{Language: "polly", Value: describe(e)}},
		Range:    &rng,
	}, nil
}

// offsetOf converts an LSP position to a byte offset in text.
func offsetOf(text string, pos lsp.Position) int {
	offset := 0
	for range pos.Line {
		i := strings.IndexByte(text[offset:], '\n')
		if i < 0 {
			return len(text)
		}
		offset += i + 1
	}
	return offset + byteOffset(lineAt(text[offset:], 0), pos.Character)
}

func describe(e ir.Expr) string {
	typ := e.Type().TypeName()
	switch e := e.(type) {
	case *ir.SymAccess:
		switch sym := e.Symbol().(type) {
		case *ir.FunctionDecl:
			return typ + " " + e.Name + "(" + strconv.Itoa(len(sym.Params)) + " parameters)"
		case *ir.ShaderParamDecl:
			return "parameter " + typ + " " + e.Name
		case *ir.VarDecl:
			if sym.IsSystemValue {
				return "system value " + typ + " " + e.Name
			}
			if sym.IsConst {
				return "const " + typ + " " + e.Name
			}
		}
		return typ + " " + e.Name
	}
	return typ
}

// exprAt returns the innermost identifier or literal covering offset, and
// its width in bytes.
func exprAt(ast *ir.Ast, offset int) (ir.Expr, int) {
	f := &exprFinder{offset: offset}
	for _, d := range ast.Decls {
		switch d := d.(type) {
		case *ir.FunctionDecl:
			f.block(d.Body)
		case *ir.VarDecl:
			f.expr(d.Expr)
		case *ir.ShaderParamDecl:
			f.expr(d.Default)
		}
	}
	return f.found, f.width
}

type exprFinder struct {
	offset int
	found  ir.Expr
	width  int
}

func (f *exprFinder) block(b *ir.CodeBlock) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		f.stmt(s)
	}
}

func (f *exprFinder) stmt(s ir.Stmt) {
	switch s := s.(type) {
	case *ir.CompoundAssignment:
		f.expr(s.LHS)
		f.expr(s.RHS)
	case *ir.Assignment:
		f.expr(s.LHS)
		f.expr(s.RHS)
	case *ir.ReturnStmt:
		f.expr(s.Expr)
	case *ir.ForStmt:
		f.expr(s.Range)
		f.block(s.Body)
	case *ir.IfStmt:
		for branch := s; branch != nil; branch = branch.Next {
			f.expr(branch.Cond)
			f.block(branch.Body)
		}
	case *ir.VarStmt:
		f.expr(s.Var.Expr)
	}
}

func (f *exprFinder) expr(e ir.Expr) {
	switch e := e.(type) {
	case nil:
	case *ir.SymAccess:
		f.leaf(e, len(e.Name))
	case *ir.FloatLiteral:
		f.leaf(e, len(e.Text))
	case *ir.ScientificLiteral:
		f.leaf(e, len(e.Text))
	case *ir.HexLiteral:
		f.leaf(e, len(e.Text))
	case *ir.IntLiteral:
		f.leaf(e, len(strconv.Itoa(int(e.Value))))
	case *ir.BoolLiteral:
		f.leaf(e, len(strconv.FormatBool(e.Value)))
	case *ir.BinOp:
		f.expr(e.LHS)
		f.expr(e.RHS)
	case *ir.UnaryOp:
		f.expr(e.Operand)
	case *ir.FunctionCall:
		f.expr(e.Callee)
		for _, a := range e.Args {
			f.expr(a)
		}
	case *ir.Subscript:
		f.expr(e.Base)
		f.expr(e.Index)
	case *ir.Paren:
		f.expr(e.Inner)
	case *ir.Ternary:
		f.expr(e.Cond)
		f.expr(e.True)
		f.expr(e.False)
	case *ir.Range:
		f.expr(e.Start)
		f.expr(e.End)
	case *ir.ArrayExpr:
		f.expr(e.Size)
	}
}

func (f *exprFinder) leaf(e ir.Expr, width int) {
	start := e.Pos().Offset
	if f.offset >= start && f.offset < start+width {
		f.found, f.width = e, width
	}
}
