package msl

import (
	"strconv"
	"strings"

	"github.com/polly2d/shaderc/gen"
	"github.com/polly2d/shaderc/ir"
)

const (
	entryPointName   = "ps_main"
	systemValuesName = ir.ReservedPrefix + "SystemValues"
	systemValuesArg  = ir.ReservedPrefix + "sv"
	paramsName       = ir.ReservedPrefix + "Params"
	paramsArg        = ir.ReservedPrefix + "params"
	vsOutputName     = ir.ReservedPrefix + "VSOutput"

	helperQualifier = "static inline __attribute__((always_inline))"
)

var typeNames = map[ir.Primitive]string{
	ir.Int:    "int",
	ir.Bool:   "bool",
	ir.Float:  "float",
	ir.Vec2:   "float2",
	ir.Vec3:   "float3",
	ir.Vec4:   "float4",
	ir.Matrix: "float4x4",
}

// Writer is the Metal dialect of the shared generator.
type Writer struct {
	options  *Options
	textures map[string]int
}

func newWriter(options *Options) *Writer {
	return &Writer{
		options:  options,
		textures: make(map[string]int),
	}
}

// Style implements gen.Dialect.
func (w *Writer) Style() gen.Style {
	return gen.Style{
		TypeNames:             typeNames,
		FloatSuffix:           true,
		SwapMatrixVectorMults: true,
		LocalConst:            true,
		Reserved:              isKeyword,
	}
}

// Prologue implements gen.Dialect.
func (w *Writer) Prologue(g *gen.Generator) {
	out := g.W
	if w.options.DebugInfo {
		out.Line("// %s", g.Ast.Filename)
	}
	out.Line("#include <metal_stdlib>")
	out.Line("#include <simd/simd.h>")
	out.Newline()
	out.Line("using namespace metal;")
	out.Newline()

	if w.usesViewport(g) {
		w.structDecl(g, systemValuesName, func() {
			out.Line("float4x4 %s;", ir.SVTransformation)
			out.Line("float2 %s;", ir.SVViewportSize)
			out.Line("float2 %s;", ir.SVViewportSizeInv)
		})
	}

	if scalars := g.Accessed(g.Entry).Scalars; len(scalars) > 0 {
		w.structDecl(g, paramsName, func() {
			for _, p := range scalars {
				out.Line("%s;", g.Declarator(p.Type, g.Name(p.Name)))
			}
		})
	}

	w.structDecl(g, vsOutputName, func() {
		out.Line("float4 position [[position]];")
		switch g.Ast.ShaderType {
		case ir.ShaderSprite:
			out.Line("float4 color;")
			out.Line("float2 uv;")
		case ir.ShaderPolygon:
			out.Line("float4 color;")
		case ir.ShaderMesh:
			out.Line("float2 uv [[center_no_perspective]];")
			out.Line("float4 color;")
		}
	})
}

func (w *Writer) usesViewport(g *gen.Generator) bool {
	return g.Usage.ViewportSize || g.Usage.ViewportSizeInv
}

func (w *Writer) structDecl(g *gen.Generator, name string, body func()) {
	g.W.Write("struct " + name + " ")
	g.W.OpenBrace()
	body()
	g.W.CloseBrace(true)
	g.W.Newline()
	g.W.Newline()
}

// resourceArgs returns the extra arguments a function receives for the
// shader parameters it reads, as declarations when decl is set and as
// plain names otherwise.
func (w *Writer) resourceArgs(g *gen.Generator, fn *ir.FunctionDecl, decl bool) []string {
	accessed := g.Accessed(fn)
	var args []string
	if len(accessed.Scalars) > 0 {
		if decl {
			args = append(args, "constant "+paramsName+"& "+paramsArg)
		} else {
			args = append(args, paramsArg)
		}
	}
	for _, p := range accessed.Resources {
		if decl {
			args = append(args, "texture2d<float> "+g.Name(p.Name))
		} else {
			args = append(args, g.Name(p.Name))
		}
	}
	if len(accessed.Resources) > 0 {
		if decl {
			args = append(args, "sampler "+ir.ImageSamplerParam)
		} else {
			args = append(args, ir.ImageSamplerParam)
		}
	}
	return args
}

// Function implements gen.Dialect.
func (w *Writer) Function(g *gen.Generator, fn *ir.FunctionDecl) {
	out := g.W
	if !fn.IsShader() {
		out.Line(helperQualifier)
		out.Write(g.TypeName(fn.ReturnType) + " " + g.Name(fn.Name) + "(")
		params := make([]string, 0, len(fn.Params))
		for _, p := range fn.Params {
			params = append(params, g.Declarator(p.Type, g.Name(p.Name)))
		}
		params = append(params, w.resourceArgs(g, fn, true)...)
		out.Write(strings.Join(params, ", "))
		out.Write(") ")
		g.Body(fn.Body)
		return
	}

	out.Line("fragment float4 %s(", entryPointName)
	args := w.entryArgs(g)
	for i, arg := range args {
		out.Pad(4)
		out.Write(arg)
		if i < len(args)-1 {
			out.Write(",")
			out.Newline()
		}
	}
	out.Write(") ")
	out.OpenBrace()

	if g.Usage.ViewportSize {
		out.Line("const float2 %s = %s.%s;", ir.SVViewportSize, systemValuesArg, ir.SVViewportSize)
	}
	if g.Usage.ViewportSizeInv {
		out.Line("const float2 %s = %s.%s;", ir.SVViewportSizeInv, systemValuesArg, ir.SVViewportSizeInv)
	}
	if g.Usage.PixelPos {
		out.Line("const float2 %s = %s.position.xy;", ir.SVPixelPos, ir.ShaderInputParam)
	}
	if g.Usage.PixelPosNormalized {
		out.Line("const float2 %s = %s * %s;", ir.SVPixelPosNormalized, ir.SVPixelPos, ir.SVViewportSizeInv)
	}
	g.Block(fn.Body)
	out.CloseBrace(false)
}

func (w *Writer) entryArgs(g *gen.Generator) []string {
	args := []string{vsOutputName + " " + ir.ShaderInputParam + " [[stage_in]]"}
	if w.usesViewport(g) {
		args = append(args, "constant "+systemValuesName+"& "+systemValuesArg+" [[buffer(0)]]")
	}

	texture := func(name string, slot int) {
		w.textures[name] = slot
		args = append(args, "texture2d<float> "+name+" [[texture("+strconv.Itoa(slot)+")]]")
	}

	accessed := g.Accessed(g.Entry)
	batchImage := false
	switch g.Ast.ShaderType {
	case ir.ShaderSprite:
		texture(ir.SpriteImageParam, SpriteImageTextureSlot)
		batchImage = true
	case ir.ShaderMesh:
		texture(ir.MeshImageParam, MeshImageTextureSlot)
		batchImage = true
	}
	if batchImage || len(accessed.Resources) > 0 {
		args = append(args, "sampler "+ir.ImageSamplerParam+" [[sampler("+strconv.Itoa(SamplerSlot)+")]]")
	}
	if len(accessed.Scalars) > 0 {
		args = append(args, "constant "+paramsName+"& "+paramsArg+" [[buffer("+strconv.Itoa(ParamsBufferSlot)+")]]")
	}
	for i, p := range accessed.Resources {
		texture(g.Name(p.Name), UserTextureSlotBase+i)
	}
	return args
}

// GlobalConst implements gen.Dialect.
func (w *Writer) GlobalConst(g *gen.Generator, v *ir.VarDecl) {
	g.GlobalConstWith("constant", v)
}

// Return implements gen.Dialect.
func (w *Writer) Return(g *gen.Generator, s *ir.ReturnStmt) {
	g.DefaultReturn(s)
}

// SymAccess implements gen.Dialect.
func (w *Writer) SymAccess(g *gen.Generator, e *ir.SymAccess) bool {
	sym := e.Symbol()
	b := g.Builtins
	switch {
	case b.IsColorAttrib(sym):
		g.W.Write(ir.ShaderInputParam + ".color")
	case b.IsUVAttrib(sym):
		g.W.Write(ir.ShaderInputParam + ".uv")
	default:
		switch sym := sym.(type) {
		case *ir.ShaderParamDecl:
			if !ir.CanBeInCbuffer(sym.Type) {
				return false
			}
			g.W.Write(paramsArg + "." + g.Name(sym.Name))
		case *ir.FunctionDecl:
			if !b.IsIntrinsic(sym) || sym.Name != "lerp" {
				return false
			}
			g.W.Write("mix")
		default:
			return false
		}
	}
	return true
}

// Call implements gen.Dialect.
func (w *Writer) Call(g *gen.Generator, e *ir.FunctionCall) bool {
	fn := e.Function()
	out := g.W

	if g.Builtins.IsImageSample(fn) {
		g.Expr(e.Args[0])
		out.Write(".sample(" + ir.ImageSamplerParam + ", ")
		g.Expr(e.Args[1])
		out.Write(")")
		return true
	}

	if g.BoolReduction(e, boolVecName) {
		return true
	}
	if fn == nil || fn.IsBuiltin() {
		return false
	}
	extra := w.resourceArgs(g, fn, false)
	if len(extra) == 0 {
		return false
	}
	g.Expr(e.Callee)
	out.Write("(")
	g.Args(e.Args)
	if len(e.Args) > 0 {
		out.Write(", ")
	}
	out.Write(strings.Join(extra, ", "))
	out.Write(")")
	return true
}

func boolVecName(n int) string {
	if n == 1 {
		return "bool"
	}
	return "bool" + strconv.Itoa(n)
}
