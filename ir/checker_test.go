package ir_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/polly2d/shaderc/ir"
	"github.com/polly2d/shaderc/syntax"
)

type checked struct {
	ast     *ir.Ast
	checker *ir.Checker
	global  *ir.Scope
}

func check(src string) (*checked, error) {
	types := ir.NewTypeCache()
	decls, err := syntax.Parse(src, "test.shd", types)
	if err != nil {
		return nil, err
	}
	ast, err := ir.NewAst("test.shd", decls)
	if err != nil {
		return nil, err
	}
	c := ir.NewChecker(ast, ir.NewBuiltins(), ir.NewBinOpTable(), types)
	global := ir.NewGlobalScope()
	if err := c.VerifyBuiltins(global); err != nil {
		return nil, err
	}
	if err := c.Verify(global); err != nil {
		return nil, err
	}
	return &checked{ast: ast, checker: c, global: global}, nil
}

func mustCheck(t *testing.T, src string) *checked {
	t.Helper()
	res, err := check(src)
	if err != nil {
		t.Fatalf("verification failed: %v", err)
	}
	return res
}

func checkErr(t *testing.T, src string) *ir.Error {
	t.Helper()
	_, err := check(src)
	if err == nil {
		t.Fatalf("expected an error for:\n%s", src)
	}
	var cerr *ir.Error
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *ir.Error, got %T: %v", err, err)
	}
	return cerr
}

// =============================================================================
// End-to-end scenarios
// =============================================================================

func TestBreakInsideLoop(t *testing.T) {
	mustCheck(t, `#type sprite
Vec4 main() {
  for (i in 0..4) {
    break;
  }
  return Vec4(1);
}`)
}

func TestBreakOutsideLoop(t *testing.T) {
	err := checkErr(t, "#type sprite\nVec4 main() {\n  break;\n  return Vec4(1);\n}")
	if err.Message != "A 'break' statement may only exist inside of a loop." {
		t.Errorf("unexpected message %q", err.Message)
	}
	if err.Location.Line != 3 || err.Location.Column != 3 {
		t.Errorf("unexpected location %s", err.Location)
	}
}

func TestContinueOutsideLoop(t *testing.T) {
	err := checkErr(t, "#type sprite\nVec4 main() {\n  continue;\n  return Vec4(1);\n}")
	if err.Message != "A 'continue' statement may only exist inside of a loop." {
		t.Errorf("unexpected message %q", err.Message)
	}
}

func TestUnreachableAfterBreak(t *testing.T) {
	src := `#type sprite
Vec4 main() {
  for (i in 0..4) {
    break;
    auto x = 1;
  }
  return Vec4(1);
}`
	err := checkErr(t, src)
	if err.Message != "unreachable code due to previous 'break' statement in line 4" {
		t.Errorf("unexpected message %q", err.Message)
	}
	if err.Location.Line != 5 {
		t.Errorf("unexpected location %s", err.Location)
	}
}

func TestShaderTypeDirective(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{
			name: "twice",
			src:  "#type sprite\n#type sprite\nVec4 main() { return Vec4(1); }",
			msg:  "Shader type specified more than once.",
		},
		{
			name: "missing",
			src:  "Vec4 main() { return Vec4(1); }",
			msg:  "No shader type specified; please specify one at the top of the shader, e.g. #type sprite.",
		},
		{
			name: "invalid",
			src:  "#type lines\nVec4 main() { return Vec4(1); }",
			msg:  "Invalid shader type 'lines' specified; valid types are: 'sprite', 'polygon', 'mesh'.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := checkErr(t, tt.src); err.Message != tt.msg {
				t.Errorf("got %q, want %q", err.Message, tt.msg)
			}
		})
	}
}

// =============================================================================
// Semantic errors
// =============================================================================

func TestCheckerErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{
			name: "zero array size",
			src:  "#type sprite\nfloat[0] A;\nVec4 main() { return Vec4(1); }",
			msg:  "Zero array sizes are not allowed.",
		},
		{
			name: "negative array size",
			src:  "#type sprite\nfloat[-1] A;\nVec4 main() { return Vec4(1); }",
			msg:  "Negative array sizes are not allowed (specified size = -1).",
		},
		{
			name: "array size too large",
			src:  "#type sprite\nfloat[256] A;\nVec4 main() { return Vec4(1); }",
			msg:  "Array size (= 256) exceeds the maximum allowed array size (= 255). If you need more elements than is allowed, try to split them up into multiple arrays instead.",
		},
		{
			name: "float array size",
			src:  "#type sprite\nfloat[1.5] A;\nVec4 main() { return Vec4(1); }",
			msg:  "Values of type 'float' cannot be used as an array size; expected 'int'.",
		},
		{
			name: "undefined type",
			src:  "#type sprite\nColor A;\nVec4 main() { return Vec4(1); }",
			msg:  "Undefined type 'Color'.",
		},
		{
			name: "index out of bounds",
			src:  "#type sprite\nfloat[4] A;\nVec4 main() { auto x = A[4]; return Vec4(x); }",
			msg:  "index (= 4) exceeds the array's size (= 4)",
		},
		{
			name: "negative index",
			src:  "#type sprite\nfloat[4] A;\nVec4 main() { auto x = A[-1]; return Vec4(x); }",
			msg:  "You're attempting to access an array with size 4 at index -1, which would be out of bounds.",
		},
		{
			name: "loop variable out of bounds",
			src:  "#type sprite\nfloat[4] A;\nVec4 main() { auto s = 0.0; for (i in 0..5) { s += A[i]; } return Vec4(s); }",
			msg:  "The loop variable 'i' would access the array with size 4 at index 4, which would be out of bounds.",
		},
		{
			name: "non-int index",
			src:  "#type sprite\nfloat[4] A;\nVec4 main() { auto x = A[1.0]; return Vec4(x); }",
			msg:  "'float' cannot be used to index into an array; expected 'int'.",
		},
		{
			name: "index into non-array",
			src:  "#type sprite\nVec4 main() { auto v = 1.0; auto x = v[0]; return Vec4(x); }",
			msg:  "Cannot index into non-array type 'float'.",
		},
		{
			name: "return type mismatch",
			src:  "#type sprite\nVec4 main() { return 1.0; }",
			msg:  "cannot assign type 'float' to 'Vec4' and no implicit conversion exists",
		},
		{
			name: "pixel shader must return Vec4",
			src:  "#type sprite\nfloat main() { return 1.0; }",
			msg:  "A pixel shader must return a value of type 'Vec4'.",
		},
		{
			name: "shader returns twice",
			src:  "#type sprite\nVec4 main() { if (true) { return Vec4(1); } return Vec4(0); }",
			msg:  "A shader (in this case 'main') must return exactly one value, at the end.",
		},
		{
			name: "missing return",
			src:  "#type sprite\nfloat f() { auto x = 1.0; }\nVec4 main() { return Vec4(1); }",
			msg:  "Expected a 'return' statement at the end of a function.",
		},
		{
			name: "empty function",
			src:  "#type sprite\nfloat f() { }\nVec4 main() { return Vec4(1); }",
			msg:  "A function (in this case 'f') must contain at least one statement.",
		},
		{
			name: "operator not defined",
			src:  "#type sprite\nVec4 main() { auto x = true + 1; return Vec4(1); }",
			msg:  "The operator '+' is not defined between the types 'bool' and 'int'.",
		},
		{
			name: "no matching overload",
			src:  "#type sprite\nVec4 main() { return Vec4(true); }",
			msg:  "Unable to find a matching overload for function call 'Vec4(bool)'",
		},
		{
			name: "unknown function",
			src:  "#type sprite\nVec4 main() { return foo(1); }",
			msg:  "Unable to find a function named 'foo'.",
		},
		{
			name: "calling main",
			src:  "#type sprite\nVec4 main() { return Vec4(1); }\nfloat f() { auto v = main(); return v.x; }",
			msg:  "Calling a shader main function is not allowed.",
		},
		{
			name: "similar symbol",
			src:  "#type sprite\nVec4 main() { auto brightness = 1.0; return Vec4(brightnes); }",
			msg:  "Unable to find a symbol named 'brightnes' not found; did you mean 'brightness'?",
		},
		{
			name: "unknown symbol",
			src:  "#type sprite\nVec4 main() { return Vec4(zz); }",
			msg:  "Unable to find a symbol named 'zz'.",
		},
		{
			name: "too many swizzle components",
			src:  "#type sprite\nVec4 main() { auto v = Vec4(1).xyzwx; return Vec4(1); }",
			msg:  "invalid vector swizzling 'xyzwx' (too many components)",
		},
		{
			name: "unknown member",
			src:  "#type sprite\nVec4 main() { auto v = Vec4(1).rgb; return Vec4(1); }",
			msg:  "type 'Vec4' has no member named 'rgb'",
		},
		{
			name: "ternary mismatch",
			src:  "#type sprite\nVec4 main() { auto v = true ? 1 : 2.0; return Vec4(1); }",
			msg:  "Type mismatch between true-expression ('int') and false-expression ('float'); both expressions must be of the same type.",
		},
		{
			name: "range mismatch",
			src:  "#type sprite\nVec4 main() { for (i in 0..4.0) { } return Vec4(1); }",
			msg:  "Type mismatch between range start and end (int to float).",
		},
		{
			name: "if condition not bool",
			src:  "#type sprite\nVec4 main() { if (1) { } return Vec4(1); }",
			msg:  "Condition must evaluate to type 'bool'.",
		},
		{
			name: "assign to constant",
			src:  "#type sprite\nVec4 main() { const k = 1; k = 2; return Vec4(1); }",
			msg:  "Can't assign a value to the constant 'k'.",
		},
		{
			name: "assign to shader parameter",
			src:  "#type sprite\nfloat P;\nVec4 main() { P = 2.0; return Vec4(P); }",
			msg:  "Can't assign a value to the shader parameter 'P'.",
		},
		{
			name: "assign to subscript",
			src:  "#type sprite\nVec4 main() { auto a = [float, 2]; a[0] = 1.0; return Vec4(1); }",
			msg:  "Assignment to subscript expressions is not supported yet.",
		},
		{
			name: "duplicate symbol",
			src:  "#type sprite\nfloat A;\nfloat A;\nVec4 main() { return Vec4(1); }",
			msg:  "Symbol 'A' is already defined.",
		},
		{
			name: "loop variable shadows",
			src:  "#type sprite\nVec4 main() { auto i = 0; for (i in 0..4) { } return Vec4(1); }",
			msg:  "symbol named 'i' already exists",
		},
		{
			name: "reserved prefix",
			src:  "#type sprite\nfloat pl_value;\nVec4 main() { return Vec4(1); }",
			msg:  fmt.Sprintf("Prefix '%s' is reserved and cannot be used for identifiers.", ir.ReservedPrefix),
		},
		{
			name: "image default value",
			src:  "#type sprite\nImage Mask = 1;\nVec4 main() { return Vec4(1); }",
			msg:  "Image parameters cannot have a default value.",
		},
		{
			name: "non-constant default",
			src:  "#type sprite\nfloat A;\nfloat B = A;\nVec4 main() { return Vec4(1); }",
			msg:  "The default value of a shader parameter must be a constant expression.",
		},
		{
			name: "non-constant global",
			src:  "#type sprite\nconst K = 7 / 0;\nVec4 main() { return Vec4(1); }",
			msg:  "The value of the global constant 'K' must be a constant expression.",
		},
		{
			name: "image function parameter",
			src:  "#type sprite\nVec4 f(Image img) { return Vec4(1); }\nVec4 main() { return Vec4(1); }",
			msg:  "Invalid type for function parameter; expected a scalar, vector, matrix or array type.",
		},
		{
			name: "system value outside shader",
			src:  "#type sprite\nVec2 f() { return pl_pixelPos; }\nVec4 main() { return Vec4(1); }",
			msg:  "Unable to find a symbol named 'pl_pixelPos'.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := checkErr(t, tt.src); err.Message != tt.msg {
				t.Errorf("got  %q\nwant %q", err.Message, tt.msg)
			}
		})
	}
}

func TestErrorRendering(t *testing.T) {
	src := "#type sprite\nVec4 main() {\n  return Vec4(zz);\n}"
	err := checkErr(t, src)
	if got, want := err.Error(), "test.shd(3, 15): error: Unable to find a symbol named 'zz'."; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	ctx := err.FormatWithContext(src)
	if !strings.Contains(ctx, "return Vec4(zz);") || !strings.Contains(ctx, "^") {
		t.Errorf("context rendering missing source line or caret:\n%s", ctx)
	}
}

// =============================================================================
// Successful verification
// =============================================================================

func TestVerifyScenarioA(t *testing.T) {
	res := mustCheck(t, "#type sprite\nfloat4 main() { return float4(1,0,0,1); }")
	main := res.ast.EntryPoint()
	if main == nil || !main.IsShader() {
		t.Fatal("entry point not recognized")
	}
	if main.ReturnType != ir.Vec4 {
		t.Errorf("alias not resolved: %s", main.ReturnType.TypeName())
	}
	if main.UsesSystemValues {
		t.Error("UsesSystemValues set without system value access")
	}
	if !res.ast.Verified() {
		t.Error("ast not marked verified")
	}
}

func TestVerifySwizzleAssignment(t *testing.T) {
	mustCheck(t, `#type polygon
Vec4 main() {
  auto v = pl_polygonColor;
  v.xy = Vec2(0.5, 0.25);
  v.z += 1.0;
  return v;
}`)
}

func TestVerifyUsesSystemValues(t *testing.T) {
	res := mustCheck(t, "#type sprite\nVec4 main() { return Vec4(pl_pixelPosNormalized, 0, 1); }")
	if !res.ast.EntryPoint().UsesSystemValues {
		t.Error("UsesSystemValues not set")
	}
	usage := res.checker.Builtins().SystemValueUsage(res.ast)
	want := ir.SystemValueUsage{PixelPos: true, PixelPosNormalized: true, ViewportSizeInv: true}
	if diff := cmp.Diff(want, usage); diff != "" {
		t.Errorf("usage mismatch (-want +got):\n%s", diff)
	}
}

func TestArrayTypesAreInterned(t *testing.T) {
	res := mustCheck(t, "#type sprite\nfloat[4] A;\nfloat[2 + 2] B;\nfloat[3] C;\nVec4 main() { return Vec4(A[0] + B[1] + C[2]); }")
	params := res.ast.ShaderParams()
	if params[0].Type != params[1].Type {
		t.Error("float[4] and float[2 + 2] should share one type")
	}
	if params[0].Type == params[2].Type {
		t.Error("float[4] and float[3] must differ")
	}
	arr := params[0].Type.(*ir.ArrayType)
	if arr.Size() != 4 || !arr.Resolved() {
		t.Errorf("got size %d resolved %v", arr.Size(), arr.Resolved())
	}
}

func TestMaxArraySizeAccepted(t *testing.T) {
	res := mustCheck(t, "#type sprite\nfloat[255] A;\nVec4 main() { return Vec4(A[254]); }")
	if n := res.ast.ShaderParams()[0].Type.(*ir.ArrayType).Size(); n != ir.MaxArraySize {
		t.Errorf("got size %d", n)
	}
}

func TestShaderParamDefaults(t *testing.T) {
	res := mustCheck(t, `#type sprite
float Intensity = 0.5;
Vec2 Offset = Vec2(1, 2);
int Count = 0xF;
Image Mask;
Vec4 main() { return Vec4(Intensity); }`)

	params := res.ast.ShaderParams()
	want := []string{"0.5", "Vec2(1, 2)", "15", "<none>"}
	got := make([]string, len(params))
	for i, p := range params {
		got[i] = p.DefaultValue.String()
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestConstantValue(t *testing.T) {
	tests := []struct {
		expr string
		want ir.Value
	}{
		{"2 * 3 + 1", ir.IntValue(7)},
		{"-(3 + 4)", ir.IntValue(-7)},
		{"1 << 4", ir.IntValue(16)},
		{"0xFF", ir.IntValue(255)},
		{"1.5 * 2.0", ir.FloatValue(3)},
		{"1.0e+2", ir.FloatValue(100)},
		{"true ? 1 : 2", ir.IntValue(1)},
		{"!false", ir.BoolValue(true)},
		{"3 < 4", ir.BoolValue(true)},
		{"float(3)", ir.FloatValue(3)},
		{"int(2.7)", ir.IntValue(2)},
		{"Vec2(2.0)", ir.VecValue(2, 2)},
		{"Vec3(1, 2, 3)", ir.VecValue(1, 2, 3)},
		{"Vec4(Vec2(1, 2), Vec2(3, 4))", ir.VecValue(1, 2, 3, 4)},
		{"Vec4()", ir.VecValue(0, 0, 0, 0)},
		{"Vec3(1, 2, 3).zy", ir.VecValue(3, 2)},
		{"Vec2(1, 2) + Vec2(3, 4)", ir.VecValue(4, 6)},
		{"Base * 2", ir.IntValue(8)},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			src := "#type sprite\nconst Base = 4;\nconst K = " + tt.expr + ";\nVec4 main() { return Vec4(1); }"
			res := mustCheck(t, src)
			k := res.ast.FindDecl("K").(*ir.VarDecl)
			if diff := cmp.Diff(tt.want, res.checker.ConstantValue(k.Expr)); diff != "" {
				t.Errorf("value mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestArraySizeMemberFolds(t *testing.T) {
	res := mustCheck(t, "#type sprite\nfloat[6] A;\nconst N = A.size;\nVec4 main() { return Vec4(A[N - 1]); }")
	n := res.ast.FindDecl("N").(*ir.VarDecl)
	if got := res.checker.ConstantValue(n.Expr); got != ir.IntValue(6) {
		t.Errorf("got %v", got)
	}
	if n.Type != ir.Int {
		t.Errorf("got type %s", n.Type.TypeName())
	}
}

func TestImplicitIntToFloatInVectorCtor(t *testing.T) {
	mustCheck(t, "#type sprite\nVec4 main() { return Vec4(1, 0, -1, 2 * 3); }")

	// Only int literal arithmetic converts; an int variable does not.
	err := checkErr(t, "#type sprite\nVec4 main() { auto i = 1; return Vec4(i); }")
	if err.Message != "Unable to find a matching overload for function call 'Vec4(int)'" {
		t.Errorf("unexpected message %q", err.Message)
	}
}

func TestLoopVariableInRange(t *testing.T) {
	mustCheck(t, `#type sprite
float[4] A;
Vec4 main() {
  auto s = 0.0;
  for (i in 0..A.size) {
    s += A[i];
  }
  return Vec4(s);
}`)
}

func TestFunctionsResolveInOrder(t *testing.T) {
	src := `#type mesh
float lum(Vec3 c) {
  return dot(c, Vec3(0.299, 0.587, 0.114));
}

Vec4 main() {
  auto c = sample(pl_meshImage, pl_meshUV) * pl_meshColor;
  auto l = lum(c.xyz);
  return Vec4(l, l, l, c.w);
}`
	res := mustCheck(t, src)
	lum := res.ast.FindDecl("lum").(*ir.FunctionDecl)
	if !ir.FunctionAccesses(res.ast.EntryPoint(), lum) {
		t.Error("main should access lum")
	}
	if ir.FunctionAccesses(lum, res.ast.EntryPoint()) {
		t.Error("lum does not access main")
	}
}

func TestParamsAccessedByFunction(t *testing.T) {
	src := `#type sprite
float A;
Image Mask;
float Unused;
float helper() { return A; }
Vec4 main() {
  return sample(Mask, pl_spriteUV) * helper();
}`
	res := mustCheck(t, src)
	got := res.ast.ParamsAccessedByFunction(res.ast.EntryPoint())
	names := func(ps []*ir.ShaderParamDecl) []string {
		var out []string
		for _, p := range ps {
			out = append(out, p.Name)
		}
		return out
	}
	if diff := cmp.Diff([]string{"A"}, names(got.Scalars)); diff != "" {
		t.Errorf("scalars mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Mask"}, names(got.Resources)); diff != "" {
		t.Errorf("resources mismatch (-want +got):\n%s", diff)
	}
}

func TestVerifyIsIdempotent(t *testing.T) {
	res := mustCheck(t, "#type sprite\nVec4 main() { return Vec4(1); }")
	if err := res.checker.Verify(res.global); err != nil {
		t.Fatalf("second Verify failed: %v", err)
	}
}

// =============================================================================
// Overloads and operators
// =============================================================================

func TestOverloadResolution(t *testing.T) {
	res := mustCheck(t, `#type sprite
Vec4 main() {
  auto a = abs(-1.5);
  auto b = abs(Vec2(1.0, -2.0));
  return Vec4(a + b.x);
}`)
	vars := res.ast.EntryPoint().Body.Variables()
	want := []ir.Type{ir.Float, ir.Vec2}
	if len(vars) != len(want) {
		t.Fatalf("got %d variables, want %d", len(vars), len(want))
	}
	for i, v := range vars {
		call, ok := v.Var.Expr.(*ir.FunctionCall)
		if !ok {
			t.Fatalf("%s: expected a call, got %T", v.Var.Name, v.Var.Expr)
		}
		if got := call.Type(); got != want[i] {
			t.Errorf("%s: call type %s, want %s", v.Var.Name, got.TypeName(), want[i].TypeName())
		}
		fn := call.Function()
		if fn == nil || len(fn.Params) != 1 || fn.Params[0].Type != want[i] {
			t.Errorf("%s: resolved to the wrong abs overload", v.Var.Name)
		}
	}
}

func TestBinOpTable(t *testing.T) {
	table := ir.NewBinOpTable()
	tests := []struct {
		name     string
		op       ir.BinOpKind
		lhs, rhs ir.Type
		want     ir.Type // nil when undefined
	}{
		{"matrix times vec2", ir.BinMultiply, ir.Matrix, ir.Vec2, ir.Vec2},
		{"vec2 times matrix", ir.BinMultiply, ir.Vec2, ir.Matrix, ir.Vec2},
		{"matrix times vec4", ir.BinMultiply, ir.Matrix, ir.Vec4, ir.Vec4},
		{"float times vec2", ir.BinMultiply, ir.Float, ir.Vec2, ir.Vec2},
		{"vec3 divided by float", ir.BinDivide, ir.Vec3, ir.Float, ir.Vec3},
		{"int plus float", ir.BinAdd, ir.Int, ir.Float, ir.Float},
		{"logical and", ir.BinLogicalAnd, ir.Bool, ir.Bool, ir.Bool},
		{"float comparison", ir.BinLessThan, ir.Float, ir.Float, ir.Bool},
		{"int shift", ir.BinLeftShift, ir.Int, ir.Int, ir.Int},
		{"vec2 plus matrix", ir.BinAdd, ir.Vec2, ir.Matrix, nil},
		{"float divided by vec2", ir.BinDivide, ir.Float, ir.Vec2, nil},
		{"float shift", ir.BinLeftShift, ir.Float, ir.Float, nil},
		{"matrix times vec3", ir.BinMultiply, ir.Matrix, ir.Vec3, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := table.ResultType(tt.op, tt.lhs, tt.rhs)
			if tt.want == nil {
				if ok {
					t.Errorf("got %s, want undefined", got.TypeName())
				}
				return
			}
			if !ok || got != tt.want {
				t.Errorf("got (%v, %v), want %s", got, ok, tt.want.TypeName())
			}
		})
	}
}

func TestBinOpTypes(t *testing.T) {
	res := mustCheck(t, `#type sprite
Matrix M;
Vec4 main() {
  auto a = M * Vec2(1.0, 2.0);
  auto b = 2.0 * a;
  auto c = a.x > 0.0 && b.y < 1.0;
  return Vec4(b.x);
}`)
	vars := res.ast.EntryPoint().Body.Variables()
	want := []ir.Type{ir.Vec2, ir.Vec2, ir.Bool}
	if len(vars) != len(want) {
		t.Fatalf("got %d variables, want %d", len(vars), len(want))
	}
	for i, v := range vars {
		if got := v.Var.Expr.Type(); got != want[i] {
			t.Errorf("%s: got %s, want %s", v.Var.Name, got.TypeName(), want[i].TypeName())
		}
	}
}

func TestBinOpErrorNamesBothTypes(t *testing.T) {
	err := checkErr(t, "#type sprite\nMatrix M;\nVec4 main() {\n  auto x = Vec2(1.0) + M;\n  return Vec4(1);\n}")
	for _, name := range []string{"Vec2", "Matrix"} {
		if !strings.Contains(err.Message, name) {
			t.Errorf("message %q does not name %s", err.Message, name)
		}
	}
}

func TestBuiltinTypeNamesResolveToSameType(t *testing.T) {
	res := mustCheck(t, "#type sprite\nVec4 main() { return Vec4(1); }")
	types := ir.NewTypeCache()
	tests := []struct {
		name string
		want ir.Type
	}{
		{"int", ir.Int},
		{"float", ir.Float},
		{"bool", ir.Bool},
		{"Vec2", ir.Vec2},
		{"Vec3", ir.Vec3},
		{"Vec4", ir.Vec4},
		{"Matrix", ir.Matrix},
		{"Image", ir.Image},
		{"float4x4", ir.Matrix},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, err := res.checker.ResolveType(types.Unresolved(ir.Location{}, tt.name), res.global)
			if err != nil {
				t.Fatalf("first resolve: %v", err)
			}
			second, err := res.checker.ResolveType(types.Unresolved(ir.Location{}, tt.name), res.global)
			if err != nil {
				t.Fatalf("second resolve: %v", err)
			}
			if first != second || first != tt.want {
				t.Errorf("got %v and %v, want %v twice", first, second, tt.want)
			}
			if found := res.global.FindType(tt.name); found != tt.want {
				t.Errorf("FindType(%q) = %v", tt.name, found)
			}
		})
	}
}

func TestArraySizeInCbufferIsTightlyPacked(t *testing.T) {
	res := mustCheck(t, "#type sprite\nfloat[3] A;\nVec2[2] B;\nVec4 main() { return Vec4(A[0] + B[1].x); }")
	tests := []struct {
		name        string
		size, align int
	}{
		{"A", 12, 16},
		{"B", 16, 16},
	}
	for i, p := range res.ast.ShaderParams() {
		tt := tests[i]
		size, ok := p.Type.SizeInCbuffer()
		if !ok || size != tt.size {
			t.Errorf("%s: size %d, want %d", tt.name, size, tt.size)
		}
		if align, _ := p.Type.AlignmentInCbuffer(); align != tt.align {
			t.Errorf("%s: alignment %d, want %d", tt.name, align, tt.align)
		}
	}
}
