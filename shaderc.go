// Package shaderc compiles Polly shaders to GLSL, HLSL and Metal.
//
// A Polly shader is a small C-like program with a #type directive, a set of
// shader parameters and a main function returning the pixel colour:
//
//	#type sprite
//
//	Vec4 tint = Vec4(1);
//
//	Vec4 main() {
//	    return sample(spriteImage, spriteUV) * spriteColor * tint;
//	}
//
// Compile runs the whole pipeline for one target:
//
//	res, err := shaderc.Compile(source, "tint.shd", shaderc.TargetHLSL)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(res.Code)
//
// Transform exposes the verified tree to a caller-chosen generator, and the
// syntax, ir, optimize and backend packages give access to the individual
// stages.
package shaderc

import (
	"fmt"
	"log"
	"time"

	"github.com/polly2d/shaderc/gen"
	"github.com/polly2d/shaderc/glsl"
	"github.com/polly2d/shaderc/hlsl"
	"github.com/polly2d/shaderc/ir"
	"github.com/polly2d/shaderc/logutil"
	"github.com/polly2d/shaderc/msl"
	"github.com/polly2d/shaderc/optimize"
	"github.com/polly2d/shaderc/syntax"
)

// Version identifies the compiler release. Cached results are keyed by it.
const Version = "0.1.0-dev"

// Target selects the shading language to generate.
type Target uint8

const (
	// TargetGLSL is desktop OpenGL GLSL 3.30.
	TargetGLSL Target = iota
	// TargetVulkanGLSL is GLSL 4.50 with explicit descriptor sets.
	TargetVulkanGLSL
	// TargetHLSL is Direct3D 11 HLSL.
	TargetHLSL
	// TargetMSL is Metal Shading Language.
	TargetMSL
)

var targetNames = [...]string{
	TargetGLSL:       "glsl",
	TargetVulkanGLSL: "vulkan-glsl",
	TargetHLSL:       "hlsl",
	TargetMSL:        "msl",
}

// Targets lists every supported target.
var Targets = []Target{TargetGLSL, TargetVulkanGLSL, TargetHLSL, TargetMSL}

func (t Target) String() string {
	if int(t) < len(targetNames) {
		return targetNames[t]
	}
	return fmt.Sprintf("Target(%d)", t)
}

// ParseTarget returns the target called name.
func ParseTarget(name string) (Target, error) {
	for i, n := range targetNames {
		if n == name {
			return Target(i), nil
		}
	}
	return 0, fmt.Errorf("unknown target %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (t Target) MarshalText() ([]byte, error) {
	if int(t) >= len(targetNames) {
		return nil, fmt.Errorf("unknown target %d", t)
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Target) UnmarshalText(text []byte) error {
	v, err := ParseTarget(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Options configures CompileWithOptions.
type Options struct {
	Target Target

	// Optimize removes unused helpers, locals and parameters before
	// generation.
	Optimize bool

	// DebugInfo adds a comment naming the source file to the output.
	DebugInfo bool

	// Logger receives stage traces. Nil discards them.
	Logger *log.Logger
}

// DefaultOptions returns optimized GLSL output.
func DefaultOptions() Options {
	return Options{
		Target:   TargetGLSL,
		Optimize: true,
	}
}

// Result is the output of a compile.
type Result struct {
	Target Target `yaml:"target"`
	Code   string `yaml:"code"`

	// Parameters lists the scalars and resources the entry point reads,
	// with their uniform-buffer layout.
	Parameters gen.ParameterList `yaml:"parameters"`

	// UsesSystemValues is set when the shader reads pixel position or
	// viewport values.
	UsesSystemValues bool `yaml:"uses-system-values"`
}

// Compile compiles source for target using default options.
func Compile(source, filename string, target Target) (Result, error) {
	opts := DefaultOptions()
	opts.Target = target
	return CompileWithOptions(source, filename, opts)
}

// CompileWithOptions compiles source with custom options.
//
// The compilation pipeline is:
//  1. Lex and parse the source
//  2. Verify the tree against the built-in symbols
//  3. Optimize (if enabled)
//  4. Generate code for the target
func CompileWithOptions(source, filename string, opts Options) (Result, error) {
	logger := logutil.OrDiscard(opts.Logger)
	start := time.Now()

	return Transform(source, filename, func(ast *ir.Ast, c *ir.Checker) (Result, error) {
		logger.Printf("%s: verified in %v", filename, time.Since(start))

		entry := ast.EntryPoint()
		if entry == nil {
			return Result{}, ir.Errorf(ir.Location{Filename: filename},
				"No shader entry point found; please define a function called '%s'.", ir.EntryPointName)
		}

		if opts.Optimize {
			stats := optimize.Optimize(ast)
			logger.Printf("%s: optimizer removed %d functions, %d variables, %d parameters in %d steps",
				filename, stats.Functions, stats.Variables, stats.Parameters, stats.Steps)
		}

		genStart := time.Now()
		res, err := Generate(c, entry, opts)
		if err != nil {
			return Result{}, err
		}
		logger.Printf("%s: generated %s in %v", filename, opts.Target, time.Since(genStart))
		return res, nil
	})
}

// Generate runs the backend for opts.Target on a verified tree.
func Generate(c *ir.Checker, entry *ir.FunctionDecl, opts Options) (Result, error) {
	res := Result{Target: opts.Target}
	switch opts.Target {
	case TargetGLSL, TargetVulkanGLSL:
		o := glsl.DefaultOptions()
		o.Vulkan = opts.Target == TargetVulkanGLSL
		o.DebugInfo = opts.DebugInfo
		code, info, err := glsl.Compile(c, entry, o)
		if err != nil {
			return Result{}, fmt.Errorf("generate: %w", err)
		}
		res.Code, res.Parameters, res.UsesSystemValues = code, info.Parameters, info.UsesSystemValues

	case TargetHLSL:
		o := hlsl.DefaultOptions()
		o.DebugInfo = opts.DebugInfo
		code, info, err := hlsl.Compile(c, entry, o)
		if err != nil {
			return Result{}, fmt.Errorf("generate: %w", err)
		}
		res.Code, res.Parameters, res.UsesSystemValues = code, info.Parameters, info.UsesSystemValues

	case TargetMSL:
		o := msl.DefaultOptions()
		o.DebugInfo = opts.DebugInfo
		code, info, err := msl.Compile(c, entry, o)
		if err != nil {
			return Result{}, fmt.Errorf("generate: %w", err)
		}
		res.Code, res.Parameters, res.UsesSystemValues = code, info.Parameters, info.UsesSystemValues

	default:
		return Result{}, fmt.Errorf("generate: unknown target %v", opts.Target)
	}
	return res, nil
}

// Transform parses and verifies source, then hands the verified tree and
// its checker to callback. The tree is owned by this call; callback may
// modify it but must not keep it.
func Transform[T any](source, filename string, callback func(*ir.Ast, *ir.Checker) (T, error)) (T, error) {
	var zero T
	ast, c, err := Verify(source, filename)
	if err != nil {
		return zero, err
	}
	return callback(ast, c)
}

// Parse lexes and parses source and derives the shader type. The returned
// tree is not verified.
func Parse(source, filename string) (*ir.Ast, *ir.TypeCache, error) {
	types := ir.NewTypeCache()
	decls, err := syntax.Parse(source, filename, types)
	if err != nil {
		return nil, nil, fmt.Errorf("parse: %w", err)
	}
	ast, err := ir.NewAst(filename, decls)
	if err != nil {
		return nil, nil, fmt.Errorf("parse: %w", err)
	}
	return ast, types, nil
}

// Verify parses source and runs semantic analysis on it.
func Verify(source, filename string) (*ir.Ast, *ir.Checker, error) {
	ast, types, err := Parse(source, filename)
	if err != nil {
		return nil, nil, err
	}

	c := ir.NewChecker(ast, ir.NewBuiltins(), ir.NewBinOpTable(), types)
	global := ir.NewGlobalScope()
	if err := c.VerifyBuiltins(global); err != nil {
		return nil, nil, fmt.Errorf("verify: %w", err)
	}
	if err := c.Verify(global); err != nil {
		return nil, nil, fmt.Errorf("verify: %w", err)
	}
	return ast, c, nil
}
