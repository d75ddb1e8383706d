// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"strconv"

	"github.com/polly2d/shaderc/gen"
	"github.com/polly2d/shaderc/ir"
)

// Names of the interface the engine's vertex shaders provide.
const (
	uboName          = "UBO"
	systemValuesName = ir.ReservedPrefix + "SystemValues"
	imageName        = ir.ReservedPrefix + "image"
	imageSamplerName = ir.ReservedPrefix + "imageSampler"
	v2fColor         = ir.ReservedPrefix + "v2f_color"
	v2fUV            = ir.ReservedPrefix + "v2f_uv"
	outColor         = ir.ReservedPrefix + "outColor"
)

var typeNames = map[ir.Primitive]string{
	ir.Int:    "int",
	ir.Bool:   "bool",
	ir.Float:  "float",
	ir.Vec2:   "vec2",
	ir.Vec3:   "vec3",
	ir.Vec4:   "vec4",
	ir.Matrix: "mat4",
}

// renamedIntrinsics maps intrinsics whose GLSL name differs.
var renamedIntrinsics = map[string]string{
	"lerp":   "mix",
	"sample": "texture",
	"atan2":  "atan",
	"fmod":   "mod",
}

// Writer is the GLSL dialect of the shared generator.
type Writer struct {
	options *Options
}

func newWriter(options *Options) *Writer {
	return &Writer{options: options}
}

// Style implements gen.Dialect.
func (w *Writer) Style() gen.Style {
	return gen.Style{
		TypeNames:             typeNames,
		SwapMatrixVectorMults: true,
		Reserved:              isKeyword,
	}
}

func (w *Writer) hasBatchImage(g *gen.Generator) bool {
	return g.Ast.ShaderType == ir.ShaderSprite || g.Ast.ShaderType == ir.ShaderMesh
}

// Prologue implements gen.Dialect.
func (w *Writer) Prologue(g *gen.Generator) {
	out := g.W
	if w.options.DebugInfo {
		out.Line("// %s", g.Ast.Filename)
	}
	out.Line("#version %s", w.options.LangVersion)
	out.Line("precision highp float;")
	out.Line("precision highp sampler2D;")
	out.Newline()

	resources := g.Accessed(g.Entry).Resources
	w.writeImages(g, resources)
	w.writeSystemValues(g)
	w.writeUniformBuffer(g, g.Accessed(g.Entry).Scalars)

	switch g.Ast.ShaderType {
	case ir.ShaderSprite, ir.ShaderMesh:
		w.input(g, "vec4", v2fColor, ColorLocation)
		w.input(g, "vec2", v2fUV, UVLocation)
	case ir.ShaderPolygon:
		w.input(g, "vec4", v2fColor, ColorLocation)
	}
	out.Newline()

	out.Line("layout(location = 0) out vec4 %s;", outColor)
	out.Newline()
}

// input declares a vertex shader output. SPIR-V requires explicit
// locations.
func (w *Writer) input(g *gen.Generator, typ, name string, location int) {
	if w.options.Vulkan {
		g.W.Line("layout(location = %d) in %s %s;", location, typ, name)
	} else {
		g.W.Line("in %s %s;", typ, name)
	}
}

func (w *Writer) writeImages(g *gen.Generator, resources []*ir.ShaderParamDecl) {
	out := g.W
	batchImage := w.hasBatchImage(g)
	if !batchImage && len(resources) == 0 {
		return
	}

	if !w.options.Vulkan {
		if batchImage {
			out.Line("uniform sampler2D %s;", imageName)
		}
		for _, p := range resources {
			out.Line("uniform sampler2D %s;", g.Name(p.Name))
		}
		out.Newline()
		return
	}

	if batchImage {
		out.Line("layout(set = %d, binding = %d) uniform texture2D %s;", ImageSet, ImageBinding, imageName)
	}
	out.Line("layout(set = %d, binding = %d) uniform sampler %s;", SamplerSet, SamplerBinding, imageSamplerName)
	for i, p := range resources {
		out.Line("layout(set = %d, binding = %d) uniform texture2D %s;", UserSet, UserImageBindingBase+i, g.Name(p.Name))
	}
	out.Newline()
}

func (w *Writer) writeSystemValues(g *gen.Generator) {
	if !g.Usage.ViewportSize && !g.Usage.ViewportSizeInv {
		return
	}
	w.blockHeader(g, systemValuesName, UserSystemValuesBinding)
	g.W.Line("vec2 %s;", ir.SVViewportSize)
	g.W.Line("vec2 %s;", ir.SVViewportSizeInv)
	g.W.CloseBrace(true)
	g.W.Newline()
	g.W.Newline()
}

func (w *Writer) writeUniformBuffer(g *gen.Generator, scalars []*ir.ShaderParamDecl) {
	if len(scalars) == 0 {
		return
	}
	w.blockHeader(g, uboName, UserParamsBinding)
	for _, p := range scalars {
		g.W.Line("%s;", g.Declarator(p.Type, g.Name(p.Name)))
	}
	g.W.CloseBrace(true)
	g.W.Newline()
	g.W.Newline()
}

func (w *Writer) blockHeader(g *gen.Generator, name string, binding int) {
	if w.options.Vulkan {
		g.W.Writef("layout(std140, set = %d, binding = %d) uniform %s ", UserSet, binding, name)
	} else {
		g.W.Writef("layout(std140) uniform %s ", name)
	}
	g.W.OpenBrace()
}

// Function implements gen.Dialect.
func (w *Writer) Function(g *gen.Generator, fn *ir.FunctionDecl) {
	out := g.W
	if !fn.IsShader() {
		out.Write(g.TypeName(fn.ReturnType) + " " + g.Name(fn.Name) + "(")
		for i, p := range fn.Params {
			if i > 0 {
				out.Write(", ")
			}
			out.Write(g.Declarator(p.Type, g.Name(p.Name)))
		}
		out.Write(") ")
		g.Body(fn.Body)
		return
	}

	out.Write("void main() ")
	out.OpenBrace()
	if g.Usage.PixelPos {
		out.Line("vec2 %s = gl_FragCoord.xy;", ir.SVPixelPos)
	}
	if g.Usage.PixelPosNormalized {
		out.Line("vec2 %s = %s * %s;", ir.SVPixelPosNormalized, ir.SVPixelPos, ir.SVViewportSizeInv)
	}
	g.Block(fn.Body)
	out.CloseBrace(false)
}

// GlobalConst implements gen.Dialect.
func (w *Writer) GlobalConst(g *gen.Generator, v *ir.VarDecl) {
	g.GlobalConstWith("const", v)
}

// Return implements gen.Dialect. The entry point writes its result to
// the fragment output instead of returning it.
func (w *Writer) Return(g *gen.Generator, s *ir.ReturnStmt) {
	if g.Fn == nil || !g.Fn.IsShader() {
		g.DefaultReturn(s)
		return
	}
	g.W.Write(outColor + " = ")
	g.Expr(s.Expr)
	g.W.Write(";")
}

// SymAccess implements gen.Dialect.
func (w *Writer) SymAccess(g *gen.Generator, e *ir.SymAccess) bool {
	sym := e.Symbol()
	b := g.Builtins
	var name string
	switch {
	case b.IsBatchImage(sym):
		name = imageName
	case b.IsColorAttrib(sym):
		name = v2fColor
	case b.IsUVAttrib(sym):
		name = v2fUV
	default:
		fn, ok := sym.(*ir.FunctionDecl)
		if !ok || !b.IsIntrinsic(fn) {
			return false
		}
		if name, ok = renamedIntrinsics[fn.Name]; !ok {
			return false
		}
	}
	g.W.Write(name)
	return true
}

// Call implements gen.Dialect.
func (w *Writer) Call(g *gen.Generator, e *ir.FunctionCall) bool {
	fn := e.Function()
	out := g.W
	switch {
	case g.Builtins.IsImageSample(fn):
		out.Write("texture(")
		if w.options.Vulkan {
			out.Write("sampler2D(")
			g.Expr(e.Args[0])
			out.Write(", " + imageSamplerName + "), ")
		} else {
			g.Expr(e.Args[0])
			out.Write(", ")
		}
		g.Expr(e.Args[1])
		out.Write(")")
		return true

	case g.Builtins.IsIntrinsic(fn) && fn.Name == "saturate":
		out.Write("clamp(")
		g.Expr(e.Args[0])
		out.Write(", 0.0, 1.0)")
		return true
	}
	return g.BoolReduction(e, boolVecName)
}

func boolVecName(n int) string {
	if n == 1 {
		return "bool"
	}
	return "bvec" + strconv.Itoa(n)
}
