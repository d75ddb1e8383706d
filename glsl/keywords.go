// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

// glslKeywords holds the GLSL words a shader identifier may collide with:
// keywords, reserved words and the built-in functions the generated code
// calls. Based on GLSL 4.60.
var glslKeywords = map[string]struct{}{
	// Types
	"void": {}, "bool": {}, "int": {}, "uint": {}, "float": {}, "double": {},
	"vec2": {}, "vec3": {}, "vec4": {}, "ivec2": {}, "ivec3": {}, "ivec4": {},
	"uvec2": {}, "uvec3": {}, "uvec4": {}, "bvec2": {}, "bvec3": {}, "bvec4": {},
	"dvec2": {}, "dvec3": {}, "dvec4": {},
	"mat2": {}, "mat3": {}, "mat4": {}, "mat2x2": {}, "mat3x3": {}, "mat4x4": {},
	"sampler": {}, "sampler2D": {}, "sampler3D": {}, "samplerCube": {},
	"texture2D": {}, "texture3D": {}, "textureCube": {},
	"image2D": {}, "atomic_uint": {}, "struct": {},

	// Qualifiers
	"attribute": {}, "const": {}, "uniform": {}, "varying": {}, "buffer": {},
	"shared": {}, "coherent": {}, "volatile": {}, "restrict": {},
	"readonly": {}, "writeonly": {}, "layout": {}, "centroid": {}, "flat": {},
	"smooth": {}, "noperspective": {}, "patch": {}, "sample": {},
	"in": {}, "out": {}, "inout": {}, "invariant": {}, "precise": {},
	"lowp": {}, "mediump": {}, "highp": {}, "precision": {}, "subroutine": {},

	// Control flow
	"break": {}, "continue": {}, "do": {}, "for": {}, "while": {}, "switch": {},
	"case": {}, "default": {}, "if": {}, "else": {}, "discard": {}, "return": {},
	"true": {}, "false": {},

	// Reserved for future use
	"common": {}, "partition": {}, "active": {}, "asm": {}, "class": {},
	"union": {}, "enum": {}, "typedef": {}, "template": {}, "this": {},
	"resource": {}, "goto": {}, "inline": {}, "noinline": {}, "public": {},
	"static": {}, "extern": {}, "external": {}, "interface": {}, "long": {},
	"short": {}, "half": {}, "fixed": {}, "unsigned": {}, "superp": {},
	"input": {}, "output": {}, "filter": {}, "sizeof": {}, "cast": {},
	"namespace": {}, "using": {},

	// Built-in functions the generator emits
	"main": {}, "texture": {}, "mix": {}, "mod": {}, "atan": {}, "clamp": {},
	"dFdx": {}, "dFdy": {}, "fwidth": {}, "inversesqrt": {}, "fract": {},
	"step": {}, "reflect": {}, "refract": {}, "cross": {}, "inverse": {},
}

// isKeyword reports whether name is reserved in GLSL.
func isKeyword(name string) bool {
	_, ok := glslKeywords[name]
	return ok
}
