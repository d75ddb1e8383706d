package syntax

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/polly2d/shaderc/ir"
)

func parse(t *testing.T, src string) []ir.Decl {
	t.Helper()
	decls, err := Parse(src, "test.shd", ir.NewTypeCache())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return decls
}

func parseErr(t *testing.T, src string) *ir.Error {
	t.Helper()
	_, err := Parse(src, "test.shd", ir.NewTypeCache())
	if err == nil {
		t.Fatalf("expected parse error for:\n%s", src)
	}
	var cerr *ir.Error
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *ir.Error, got %T: %v", err, err)
	}
	return cerr
}

// render prints an expression with explicit grouping.
func render(e ir.Expr) string {
	switch e := e.(type) {
	case *ir.IntLiteral:
		return strconv.Itoa(int(e.Value))
	case *ir.FloatLiteral:
		return e.Text
	case *ir.BoolLiteral:
		if e.Value {
			return "true"
		}
		return "false"
	case *ir.SymAccess:
		return e.Name
	case *ir.BinOp:
		return "(" + render(e.LHS) + " " + e.Op.String() + " " + render(e.RHS) + ")"
	case *ir.UnaryOp:
		return e.Op.String() + render(e.Operand)
	case *ir.Paren:
		return "[" + render(e.Inner) + "]"
	case *ir.Ternary:
		return "(" + render(e.Cond) + " ? " + render(e.True) + " : " + render(e.False) + ")"
	case *ir.FunctionCall:
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			args[i] = render(a)
		}
		return e.Callee.Name + "(" + strings.Join(args, ", ") + ")"
	case *ir.Subscript:
		return render(e.Base) + "{" + render(e.Index) + "}"
	}
	return "?"
}

func returnExpr(t *testing.T, src string) ir.Expr {
	t.Helper()
	decls := parse(t, "#type sprite\nfloat4 main() { return "+src+"; }")
	fn := decls[1].(*ir.FunctionDecl)
	return fn.Body.Stmts[0].(*ir.ReturnStmt).Expr
}

func TestParseExpressionPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a + b * c", "(a + (b * c))"},
		{"a * b + c", "((a * b) + c)"},
		{"a - b - c", "((a - b) - c)"},
		{"a < b && c == d", "((a < b) && (c == d))"},
		{"a || b && c", "(a || (b && c))"},
		{"v.x * 2", "((v . x) * 2)"},
		{"(a + b) * c", "([(a + b)] * c)"},
		{"-a + b", "(-a + b)"},
		{"!a && b", "(!a && b)"},
		{"a & b ^ c | d", "(((a & b) ^ c) | d)"},
		{"1 << 2 + 3", "(1 << (2 + 3))"},
		{"f(a, b + 1)", "f(a, (b + 1))"},
		{"arr[i + 1]", "arr{(i + 1)}"},
		{"x < a * b ? 1 : 2", "((x < (a * b)) ? 1 : 2)"},
		{"c ? x : y ? 1 : 2", "(c ? x : (y ? 1 : 2))"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := render(returnExpr(t, tt.input)); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseDeclarations(t *testing.T) {
	src := `#type sprite

float Intensity = 1.0;
Vec4[4] Colors;
Image Mask;
const Scale = 2.0;

float helper(float x, Vec2 y) {
  return x * Scale;
}

Vec4 main() {
  auto c = sample(pl_spriteImage, pl_spriteUV);
  return c * Intensity;
}
`
	decls := parse(t, src)
	if len(decls) != 7 {
		t.Fatalf("expected 7 declarations, got %d", len(decls))
	}

	if st, ok := decls[0].(*ir.ShaderTypeDecl); !ok || st.ID != "sprite" {
		t.Errorf("decl 0: got %#v", decls[0])
	}

	intensity := decls[1].(*ir.ShaderParamDecl)
	if intensity.Name != "Intensity" || intensity.IndexInUbo != 0 || intensity.Default == nil {
		t.Errorf("Intensity: got %+v", intensity)
	}

	colors := decls[2].(*ir.ShaderParamDecl)
	arr, ok := colors.Type.(*ir.ArrayType)
	if !ok {
		t.Fatalf("Colors: expected array type, got %T", colors.Type)
	}
	if arr.Elem.TypeName() != "Vec4" || colors.IndexInUbo != 1 {
		t.Errorf("Colors: got elem %s index %d", arr.Elem.TypeName(), colors.IndexInUbo)
	}

	if mask := decls[3].(*ir.ShaderParamDecl); mask.IndexInUbo != 2 || mask.Default != nil {
		t.Errorf("Mask: got %+v", mask)
	}

	if scale := decls[4].(*ir.VarDecl); !scale.IsConst || scale.Name != "Scale" {
		t.Errorf("Scale: got %+v", scale)
	}

	helper := decls[5].(*ir.FunctionDecl)
	if helper.Name != "helper" || len(helper.Params) != 2 || helper.Params[1].Name != "y" {
		t.Errorf("helper: got %+v", helper)
	}

	main := decls[6].(*ir.FunctionDecl)
	if main.Name != "main" || len(main.Body.Stmts) != 2 {
		t.Errorf("main: got %+v", main)
	}
	if _, ok := main.Body.Stmts[0].(*ir.VarStmt); !ok {
		t.Errorf("main: first statement is %T", main.Body.Stmts[0])
	}
}

func TestParseStatements(t *testing.T) {
	src := `#type polygon
Vec4 main() {
  auto v = Vec4(0);
  const k = 3;
  v.xy = Vec2(1, 2);
  v.x += 0.5;
  v -= Vec4(1);
  for (i in 0..10) {
    if (i == 2) {
      continue;
    } else if (i == 5) {
      break;
    } else {
      v *= 2.0;
    }
  }
  return v;
}`
	decls := parse(t, src)
	body := decls[1].(*ir.FunctionDecl).Body

	want := []string{"*ir.VarStmt", "*ir.VarStmt", "*ir.Assignment", "*ir.CompoundAssignment",
		"*ir.CompoundAssignment", "*ir.ForStmt", "*ir.ReturnStmt"}
	if len(body.Stmts) != len(want) {
		t.Fatalf("expected %d statements, got %d", len(want), len(body.Stmts))
	}
	for i, s := range body.Stmts {
		if got := typeName(s); got != want[i] {
			t.Errorf("statement %d: got %s, want %s", i, got, want[i])
		}
	}

	if k := body.Stmts[1].(*ir.VarStmt).Var; !k.IsConst {
		t.Error("const local not marked const")
	}
	if ca := body.Stmts[3].(*ir.CompoundAssignment); ca.Kind != ir.CompoundAdd {
		t.Errorf("got compound kind %v", ca.Kind)
	}

	loop := body.Stmts[5].(*ir.ForStmt)
	if loop.Var.Name != "i" || render(loop.Range.Start) != "0" || render(loop.Range.End) != "10" {
		t.Errorf("for: got var %s range %s..%s", loop.Var.Name, render(loop.Range.Start), render(loop.Range.End))
	}

	chain := loop.Body.Stmts[0].(*ir.IfStmt)
	n := 0
	for s := chain; s != nil; s = s.Next {
		n++
	}
	if n != 3 || chain.Next.Next.Cond != nil {
		t.Errorf("if chain: got %d branches", n)
	}
	if _, ok := chain.Body.Stmts[0].(*ir.ContinueStmt); !ok {
		t.Errorf("expected continue, got %T", chain.Body.Stmts[0])
	}
	if _, ok := chain.Next.Body.Stmts[0].(*ir.BreakStmt); !ok {
		t.Errorf("expected break, got %T", chain.Next.Body.Stmts[0])
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *ir.VarStmt:
		return "*ir.VarStmt"
	case *ir.Assignment:
		return "*ir.Assignment"
	case *ir.CompoundAssignment:
		return "*ir.CompoundAssignment"
	case *ir.ForStmt:
		return "*ir.ForStmt"
	case *ir.ReturnStmt:
		return "*ir.ReturnStmt"
	case *ir.IfStmt:
		return "*ir.IfStmt"
	}
	return "?"
}

func TestParseLiterals(t *testing.T) {
	tests := []struct {
		input string
		check func(ir.Expr) bool
	}{
		{"12", func(e ir.Expr) bool { l, ok := e.(*ir.IntLiteral); return ok && l.Value == 12 }},
		{"1.25", func(e ir.Expr) bool { l, ok := e.(*ir.FloatLiteral); return ok && l.Text == "1.25" && l.Value == 1.25 }},
		{"1.0e-2", func(e ir.Expr) bool { l, ok := e.(*ir.ScientificLiteral); return ok && l.Text == "1.0e-2" }},
		{"0xFF", func(e ir.Expr) bool { l, ok := e.(*ir.HexLiteral); return ok && l.Text == "0xFF" }},
		{"true", func(e ir.Expr) bool { l, ok := e.(*ir.BoolLiteral); return ok && l.Value }},
		{"[float, 4]", func(e ir.Expr) bool { _, ok := e.(*ir.ArrayExpr); return ok }},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if e := returnExpr(t, tt.input); !tt.check(e) {
				t.Errorf("unexpected expression %T", e)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{
			name: "mutable global",
			src:  "#type sprite\nauto x = 1;",
			msg:  "Invalid declaration 'x' at global scope; Variables at global scope must be const.",
		},
		{
			name: "unknown directive",
			src:  "#include foo",
			msg:  "Invalid preprocessor token '#include'.",
		},
		{
			name: "missing semicolon",
			src:  "#type sprite\nVec4 main() { return 1 }",
			msg:  "expected ';'",
		},
		{
			name: "missing identifier",
			src:  "#type sprite\nVec4 (",
			msg:  "Expected an identifier.",
		},
		{
			name: "identifier at eof",
			src:  "#type sprite\nVec4",
			msg:  "Expected an identifier, but reached end-of-file.",
		},
		{
			name: "missing range",
			src:  "#type sprite\nVec4 main() { for (i in ) {} }",
			msg:  "Expected a range expression.",
		},
		{
			name: "missing assignment rhs",
			src:  "#type sprite\nVec4 main() { a = ; }",
			msg:  "Expected a right-hand-side expression for the assignment.",
		},
		{
			name: "missing default",
			src:  "#type sprite\nfloat a = ;",
			msg:  "Expected a default parameter value expression.",
		},
		{
			name: "missing false branch",
			src:  "#type sprite\nVec4 main() { return a ? b : ; }",
			msg:  "Expected a false-expression.",
		},
		{
			name: "missing code block",
			src:  "#type sprite\nVec4 main() return 1;",
			msg:  "Expected a code block.",
		},
		{
			name: "bad call argument",
			src:  "#type sprite\nVec4 main() { return f(1, ;); }",
			msg:  "Expected a function call argument.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := parseErr(t, tt.src); err.Message != tt.msg {
				t.Errorf("got %q, want %q", err.Message, tt.msg)
			}
		})
	}
}

func TestParseInvalidStatement(t *testing.T) {
	err := parseErr(t, "#type sprite\nVec4 main() { foo; }")
	if !strings.Contains(err.Message, "expected a statement, but found 'foo' instead") {
		t.Errorf("unexpected message %q", err.Message)
	}
}

func TestParseErrorLocation(t *testing.T) {
	err := parseErr(t, "#type sprite\n\nVec4 main() {\n  auto = 3;\n}")
	if err.Location.Line != 4 || err.Location.Column != 8 {
		t.Errorf("got location %s", err.Location)
	}
	if got := err.Error(); got != "test.shd(4, 8): error: Expected an identifier." {
		t.Errorf("got %q", got)
	}
}
