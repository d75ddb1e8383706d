// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"github.com/polly2d/shaderc/gen"
	"github.com/polly2d/shaderc/ir"
)

const (
	paramsBufferName = "CBuffer2"
	systemValuesName = ir.ReservedPrefix + "SystemValues"
	vsOutputName     = ir.ReservedPrefix + "VSOutput"
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

// Writer is the HLSL dialect of the shared generator.
type Writer struct {
	options  *Options
	bindings map[string]BindTarget
}

func newWriter(options *Options) *Writer {
	return &Writer{
		options:  options,
		bindings: make(map[string]BindTarget),
	}
}

// Style implements gen.Dialect.
func (w *Writer) Style() gen.Style {
	return gen.Style{
		TypeNames:   typeNames,
		FloatSuffix: true,
		LocalConst:  true,
		Reserved:    isKeyword,
	}
}

// Prologue implements gen.Dialect.
func (w *Writer) Prologue(g *gen.Generator) {
	out := g.W
	if w.options.DebugInfo {
		out.Line("// %s", g.Ast.Filename)
	}

	if g.Usage.ViewportSize || g.Usage.ViewportSizeInv {
		w.cbuffer(g, systemValuesName, SystemValuesTarget, func() {
			out.Line("float4x4 %s;", ir.SVTransformation)
			out.Line("float2 %s;", ir.SVViewportSize)
			out.Line("float2 %s;", ir.SVViewportSizeInv)
		})
	}

	accessed := g.Accessed(g.Entry)
	if len(accessed.Scalars) > 0 {
		w.cbuffer(g, paramsBufferName, ParamsTarget, func() {
			for _, p := range accessed.Scalars {
				out.Line("%s;", g.Declarator(p.Type, g.Name(p.Name)))
			}
		})
	}

	w.writeVSOutput(g)
	w.writeResources(g, accessed.Resources)
}

func (w *Writer) cbuffer(g *gen.Generator, name string, target BindTarget, body func()) {
	w.bindings[name] = target
	g.W.Writef("cbuffer %s : %s ", name, target)
	g.W.OpenBrace()
	body()
	g.W.CloseBrace(true)
	g.W.Newline()
	g.W.Newline()
}

// writeVSOutput declares the vertex shader output the engine's vertex
// shaders write for each shader type.
func (w *Writer) writeVSOutput(g *gen.Generator) {
	out := g.W
	out.Write("struct " + vsOutputName + " ")
	out.OpenBrace()
	out.Line("float4 position : SV_Position;")
	switch g.Ast.ShaderType {
	case ir.ShaderSprite:
		out.Line("float4 color : TEXCOORD0;")
		out.Line("float2 uv : TEXCOORD1;")
	case ir.ShaderPolygon:
		out.Line("float4 color : TEXCOORD0;")
	case ir.ShaderMesh:
		out.Line("noperspective float2 uv : TEXCOORD0;")
		out.Line("float4 color : TEXCOORD1;")
	}
	out.CloseBrace(true)
	out.Newline()
	out.Newline()
}

func (w *Writer) writeResources(g *gen.Generator, resources []*ir.ShaderParamDecl) {
	out := g.W
	var batchImage string
	var batchTarget BindTarget
	switch g.Ast.ShaderType {
	case ir.ShaderSprite:
		batchImage, batchTarget = ir.SpriteImageParam, SpriteImageTarget
	case ir.ShaderMesh:
		batchImage, batchTarget = ir.MeshImageParam, MeshImageTarget
	}

	texture := func(name string, target BindTarget) {
		w.bindings[name] = target
		out.Line("Texture2D %s : %s;", name, target)
	}

	if batchImage != "" {
		texture(batchImage, batchTarget)
	}
	for i, p := range resources {
		texture(g.Name(p.Name), userImageTarget(i))
	}
	if batchImage != "" || len(resources) > 0 {
		w.bindings[ir.ImageSamplerParam] = SamplerTarget
		out.Line("SamplerState %s : %s;", ir.ImageSamplerParam, SamplerTarget)
		out.Newline()
	}
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

	out.Writef("float4 main(%s %s) : SV_Target0 ", vsOutputName, ir.ShaderInputParam)
	out.OpenBrace()
	if g.Usage.PixelPos {
		out.Line("const float2 %s = %s.position.xy;", ir.SVPixelPos, ir.ShaderInputParam)
	}
	if g.Usage.PixelPosNormalized {
		out.Line("const float2 %s = %s * %s;", ir.SVPixelPosNormalized, ir.SVPixelPos, ir.SVViewportSizeInv)
	}
	g.Block(fn.Body)
	out.CloseBrace(false)
}

// GlobalConst implements gen.Dialect.
func (w *Writer) GlobalConst(g *gen.Generator, v *ir.VarDecl) {
	g.GlobalConstWith("static const", v)
}

// Return implements gen.Dialect.
func (w *Writer) Return(g *gen.Generator, s *ir.ReturnStmt) {
	g.DefaultReturn(s)
}

// SymAccess implements gen.Dialect.
func (w *Writer) SymAccess(g *gen.Generator, e *ir.SymAccess) bool {
	sym := e.Symbol()
	switch {
	case g.Builtins.IsColorAttrib(sym):
		g.W.Write(ir.ShaderInputParam + ".color")
	case g.Builtins.IsUVAttrib(sym):
		g.W.Write(ir.ShaderInputParam + ".uv")
	default:
		return false
	}
	return true
}

// Call implements gen.Dialect.
func (w *Writer) Call(g *gen.Generator, e *ir.FunctionCall) bool {
	fn := e.Function()
	out := g.W

	if g.Builtins.IsImageSample(fn) {
		g.Expr(e.Args[0])
		out.Write(".Sample(" + ir.ImageSamplerParam + ", ")
		g.Expr(e.Args[1])
		out.Write(")")
		return true
	}

	// HLSL has no single-argument vector constructors; splat by casting.
	if t, ok := g.Builtins.VectorCtorType(fn); ok && len(e.Args) == 1 && !ir.IsVector(e.Args[0].Type()) {
		out.Write("((" + g.TypeName(t) + ")(")
		g.Expr(e.Args[0])
		out.Write("))")
		return true
	}
	return false
}

// BinOp implements gen.BinOpLowerer. Products involving a matrix become
// mul() with swapped operands, because '*' is component-wise in HLSL.
func (w *Writer) BinOp(g *gen.Generator, e *ir.BinOp) bool {
	if e.Op != ir.BinMultiply || (!ir.IsMatrix(e.LHS.Type()) && !ir.IsMatrix(e.RHS.Type())) {
		return false
	}
	g.W.Write("mul(")
	g.Expr(e.RHS)
	g.W.Write(", ")
	g.Expr(e.LHS)
	g.W.Write(")")
	return true
}
