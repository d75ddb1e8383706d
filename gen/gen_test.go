package gen_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/polly2d/shaderc"
	"github.com/polly2d/shaderc/gen"
	"github.com/polly2d/shaderc/ir"
)

// =============================================================================
// Writer
// =============================================================================

func TestWriter(t *testing.T) {
	w := gen.NewWriter()
	w.Write("void f() ")
	w.OpenBrace()
	w.Line("int a = %d;", 1)
	w.Write("if (a) ")
	w.OpenBrace()
	w.Write("a = ")
	w.WriteInt(2)
	w.Write(";")
	w.Newline()
	w.CloseBrace(false)
	w.Newline()
	w.CloseBrace(false)
	w.Newline()
	w.Write("struct S ")
	w.OpenBrace()
	w.Write("int")
	w.Pad(3)
	w.Write("x;")
	w.Newline()
	w.CloseBrace(true)

	want := "void f() {\n  int a = 1;\n  if (a) {\n    a = 2;\n  }\n}\nstruct S {\n  int   x;\n};"
	if diff := cmp.Diff(want, w.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
	if w.Len() != len(want) {
		t.Errorf("Len() = %d, want %d", w.Len(), len(want))
	}
}

func TestWriterEmptyLinesAreNotIndented(t *testing.T) {
	w := gen.NewWriter()
	w.Indent()
	w.Newline()
	w.Write("x")
	w.Unindent()
	w.Unindent()
	w.Newline()
	w.Write("y")

	if diff := cmp.Diff("\n  x\ny", w.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestFinish(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"\n\n", ""},
		{"a", "a\n"},
		{"\na\n\n\n", "a\n"},
	}
	for _, tt := range tests {
		if got := gen.Finish(tt.in); got != tt.want {
			t.Errorf("Finish(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// =============================================================================
// Uniform buffer packing
// =============================================================================

func TestPackCBuffer(t *testing.T) {
	tests := []struct {
		name    string
		types   []ir.Type
		maxSize bool
		offsets []int
		size    int
	}{
		{"empty", nil, true, []int{}, 0},
		{"float vec3 float", []ir.Type{ir.Float, ir.Vec3, ir.Float}, true, []int{0, 16, 32}, 48},
		{"scalars share a register", []ir.Type{ir.Float, ir.Int, ir.Vec2}, true, []int{0, 4, 8}, 16},
		{"vec2 then vec3", []ir.Type{ir.Vec2, ir.Vec3}, true, []int{0, 16}, 32},
		{"matrix", []ir.Type{ir.Matrix, ir.Float}, true, []int{0, 64}, 80},
		{"tight vec3", []ir.Type{ir.Vec3, ir.Float}, false, []int{0, 12}, 16},
		{"padded vec3", []ir.Type{ir.Vec3, ir.Float}, true, []int{0, 16}, 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout, err := gen.PackCBuffer(tt.types, gen.CBufferAlignment, tt.maxSize)
			if err != nil {
				t.Fatalf("PackCBuffer failed: %v", err)
			}
			if diff := cmp.Diff(tt.offsets, layout.Offsets); diff != "" {
				t.Errorf("offsets mismatch (-want +got):\n%s", diff)
			}
			if layout.Size != tt.size {
				t.Errorf("Size = %d, want %d", layout.Size, tt.size)
			}
		})
	}
}

func TestPackCBufferRejectsImage(t *testing.T) {
	_, err := gen.PackCBuffer([]ir.Type{ir.Float, ir.Image}, gen.CBufferAlignment, true)
	var cerr *ir.Error
	if !errors.As(err, &cerr) || !cerr.Internal {
		t.Fatalf("expected an internal error, got %v", err)
	}
}

// =============================================================================
// Temporary names
// =============================================================================

func TestTempVarNameGen(t *testing.T) {
	g := gen.NewTempVarNameGen(nil)
	got := []string{g.Next(""), g.Next("end"), g.Next("")}
	if diff := cmp.Diff([]string{"pl_var0", "pl_var1_end", "pl_var2"}, got); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestTempVarNameGenSkipsDeclared(t *testing.T) {
	block := &ir.CodeBlock{Stmts: []ir.Stmt{
		&ir.VarStmt{Var: &ir.VarDecl{Name: "pl_var3_x"}},
		&ir.VarStmt{Var: &ir.VarDecl{Name: "pl_var1"}},
		&ir.VarStmt{Var: &ir.VarDecl{Name: "pl_variable"}},
		&ir.VarStmt{Var: &ir.VarDecl{Name: "other"}},
	}}
	g := gen.NewTempVarNameGen(block)
	if got := g.Next(""); got != "pl_var4" {
		t.Errorf("Next() = %q, want pl_var4", got)
	}

	inner := &ir.CodeBlock{Stmts: []ir.Stmt{
		&ir.VarStmt{Var: &ir.VarDecl{Name: "pl_var2"}},
	}}
	n := g.Nested(inner)
	if got := n.Next("i"); got != "pl_var5_i" {
		t.Errorf("nested Next() = %q, want pl_var5_i", got)
	}
	if got := g.Next(""); got != "pl_var5" {
		t.Errorf("parent Next() after nested = %q, want pl_var5", got)
	}
}

// =============================================================================
// Declarations and parameters
// =============================================================================

const paramShader = `#type sprite
float A = 2.0;
Vec3 B;
float[3] Weights;
Image Mask;
Vec4 Unused;

const K = 0.5;
const Unreferenced = 1.0;

float weight(int i) {
  return Weights[i] * K;
}

float dead() {
  return Unused.x;
}

Vec4 main() {
  auto m = sample(Mask, pl_spriteUV);
  return Vec4(B * A * weight(1), m.a);
}
`

func verify(t *testing.T, src string) (*ir.Ast, *ir.Checker) {
	t.Helper()
	ast, c, err := shaderc.Verify(src, "gen.shd")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	return ast, c
}

func TestGatherDecls(t *testing.T) {
	ast, _ := verify(t, paramShader)
	decls, err := gen.GatherDecls(ast, ast.EntryPoint())
	if err != nil {
		t.Fatalf("GatherDecls failed: %v", err)
	}

	var names []string
	for _, d := range decls {
		names = append(names, d.DeclName())
	}
	want := []string{"A", "B", "Weights", "Mask", "K", "weight", "main"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("declarations mismatch (-want +got):\n%s", diff)
	}
}

func TestGatherDeclsWithoutBody(t *testing.T) {
	ast, _ := verify(t, paramShader)
	_, err := gen.GatherDecls(ast, &ir.FunctionDecl{Name: "main"})
	var cerr *ir.Error
	if !errors.As(err, &cerr) || !cerr.Internal {
		t.Fatalf("expected an internal error, got %v", err)
	}
	if cerr.Message != "Internal compiler error: Failed to gather children to generate." {
		t.Errorf("message = %q", cerr.Message)
	}
}

func TestExtractParameters(t *testing.T) {
	ast, _ := verify(t, paramShader)
	list, err := gen.ExtractParameters(ast, ast.EntryPoint())
	if err != nil {
		t.Fatalf("ExtractParameters failed: %v", err)
	}

	want := gen.ParameterList{
		Params: []gen.Parameter{
			{Name: "A", Type: "float", Offset: 0, SizeInBytes: 4, Default: "2"},
			{Name: "B", Type: "Vec3", Offset: 16, SizeInBytes: 12},
			{Name: "Weights", Type: "float[]", Offset: 32, SizeInBytes: 12, ArraySize: 3},
			{Name: "Mask", Type: "Image", Resource: true},
		},
		CBufferSize: 48,
	}
	if diff := cmp.Diff(want, list); diff != "" {
		t.Errorf("parameters mismatch (-want +got):\n%s", diff)
	}

	if got := len(list.Scalars()); got != 3 {
		t.Errorf("len(Scalars()) = %d, want 3", got)
	}
	if _, ok := list.Find("Unused"); ok {
		t.Error("Unused reported as a parameter")
	}
	if p, ok := list.Find("Mask"); !ok || !p.Resource {
		t.Errorf("Find(Mask) = %+v, %v", p, ok)
	}
}
