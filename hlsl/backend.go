// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"

	"github.com/polly2d/shaderc/gen"
	"github.com/polly2d/shaderc/ir"
)

// Options configures HLSL code generation.
type Options struct {
	// ShaderModel selects the profile reported in TranslationInfo.
	// Defaults to ShaderModel4_0.
	ShaderModel ShaderModel

	// DebugInfo adds a comment naming the source file.
	DebugInfo bool
}

// DefaultOptions returns options for Shader Model 4.0.
func DefaultOptions() Options {
	return Options{ShaderModel: ShaderModel4_0}
}

// TranslationInfo contains metadata about the HLSL translation.
type TranslationInfo struct {
	// Parameters lists the shader parameters the entry point reads.
	Parameters gen.ParameterList

	// Profile is the D3DCompile target, e.g. "ps_4_0".
	Profile string

	// RegisterBindings maps every emitted buffer, texture and sampler to
	// its register.
	RegisterBindings map[string]BindTarget

	// UsesSystemValues is set when the shader reads pixel position or
	// viewport values.
	UsesSystemValues bool
}

// Compile generates HLSL source code for entry. The shader must have been
// verified by c.
func Compile(c *ir.Checker, entry *ir.FunctionDecl, options Options) (string, TranslationInfo, error) {
	params, err := gen.ExtractParameters(c.Ast(), entry)
	if err != nil {
		return "", TranslationInfo{}, fmt.Errorf("hlsl: %w", err)
	}

	w := newWriter(&options)
	source, err := gen.Generate(w, c, entry)
	if err != nil {
		return "", TranslationInfo{}, fmt.Errorf("hlsl: %w", err)
	}

	info := TranslationInfo{
		Parameters:       params,
		Profile:          options.ShaderModel.PixelProfile(),
		RegisterBindings: w.bindings,
		UsesSystemValues: entry.UsesSystemValues,
	}
	return source, info, nil
}
