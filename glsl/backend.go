// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"

	"github.com/polly2d/shaderc/gen"
	"github.com/polly2d/shaderc/ir"
)

// Version represents a desktop GLSL version.
type Version struct {
	Major uint8
	Minor uint8
}

// Supported GLSL versions.
var (
	Version330 = Version{Major: 3, Minor: 30} // OpenGL 3.3 Core
	Version450 = Version{Major: 4, Minor: 50} // OpenGL 4.5, required by Vulkan GLSL
)

// String returns the version as written after #version.
func (v Version) String() string {
	return fmt.Sprintf("%d%02d", v.Major, v.Minor)
}

// Vulkan binding layout shared with the engine's sprite batch and user
// shader pipelines.
const (
	ImageSet          = 0
	ImageBinding      = 0
	SamplerSet        = 1
	SamplerBinding    = 0
	UserSet           = 2
	UserParamsBinding = 0
	// UserSystemValuesBinding holds the viewport values.
	UserSystemValuesBinding = 1
	// UserImageBindingBase is the binding of the first user image.
	UserImageBindingBase = 2

	// Locations of the interpolated vertex color and texture coordinates.
	ColorLocation = 0
	UVLocation    = 1
)

// Options configures GLSL code generation.
type Options struct {
	// Vulkan emits Vulkan-flavoured GLSL: explicit descriptor sets,
	// separate textures and samplers, and version 450.
	Vulkan bool

	// LangVersion is the target GLSL version for OpenGL output.
	// Defaults to Version330 if zero. Ignored when Vulkan is set.
	LangVersion Version

	// DebugInfo adds a comment naming the source file.
	DebugInfo bool
}

// DefaultOptions returns the options for OpenGL 3.3.
func DefaultOptions() Options {
	return Options{LangVersion: Version330}
}

// TranslationInfo contains metadata about the translation.
type TranslationInfo struct {
	// Parameters lists the shader parameters the entry point reads.
	Parameters gen.ParameterList

	// Version is the #version the output declares.
	Version Version

	// UsesSystemValues is set when the shader reads pixel position or
	// viewport values.
	UsesSystemValues bool
}

// Compile generates GLSL source code for entry. The shader must have been
// verified by c.
func Compile(c *ir.Checker, entry *ir.FunctionDecl, options Options) (string, TranslationInfo, error) {
	if options.Vulkan {
		options.LangVersion = Version450
	} else if options.LangVersion.Major == 0 {
		options.LangVersion = Version330
	}

	params, err := gen.ExtractParameters(c.Ast(), entry)
	if err != nil {
		return "", TranslationInfo{}, fmt.Errorf("glsl: %w", err)
	}

	source, err := gen.Generate(newWriter(&options), c, entry)
	if err != nil {
		return "", TranslationInfo{}, fmt.Errorf("glsl: %w", err)
	}

	info := TranslationInfo{
		Parameters:       params,
		Version:          options.LangVersion,
		UsesSystemValues: entry.UsesSystemValues,
	}
	return source, info, nil
}
