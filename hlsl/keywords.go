// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import "strings"

// reservedKeywords contains the HLSL keywords, reserved words and the
// intrinsics the generator may emit. A user identifier with one of these
// names is renamed.
var reservedKeywords = map[string]struct{}{
	// Keywords
	"AppendStructuredBuffer": {}, "asm": {}, "asm_fragment": {}, "BlendState": {},
	"bool": {}, "break": {}, "Buffer": {}, "ByteAddressBuffer": {}, "case": {},
	"cbuffer": {}, "centroid": {}, "class": {}, "column_major": {}, "compile": {},
	"compile_fragment": {}, "CompileShader": {}, "const": {}, "continue": {},
	"ComputeShader": {}, "ConsumeStructuredBuffer": {}, "default": {},
	"DepthStencilState": {}, "DepthStencilView": {}, "discard": {}, "do": {},
	"double": {}, "DomainShader": {}, "dword": {}, "else": {}, "export": {},
	"extern": {}, "false": {}, "float": {}, "for": {}, "fxgroup": {},
	"GeometryShader": {}, "groupshared": {}, "half": {}, "Hullshader": {},
	"if": {}, "in": {}, "inline": {}, "inout": {}, "InputPatch": {}, "int": {},
	"interface": {}, "line": {}, "lineadj": {}, "linear": {}, "LineStream": {},
	"matrix": {}, "min16float": {}, "min10float": {}, "min16int": {},
	"min12int": {}, "min16uint": {}, "namespace": {}, "nointerpolation": {},
	"noperspective": {}, "NULL": {}, "out": {}, "OutputPatch": {},
	"packoffset": {}, "pass": {}, "pixelfragment": {}, "PixelShader": {},
	"point": {}, "PointStream": {}, "precise": {}, "RasterizerState": {},
	"RenderTargetView": {}, "return": {}, "register": {}, "row_major": {},
	"RWBuffer": {}, "RWByteAddressBuffer": {}, "RWStructuredBuffer": {},
	"RWTexture1D": {}, "RWTexture1DArray": {}, "RWTexture2D": {},
	"RWTexture2DArray": {}, "RWTexture3D": {}, "sample": {}, "sampler": {},
	"SamplerState": {}, "SamplerComparisonState": {}, "shared": {}, "snorm": {},
	"stateblock": {}, "stateblock_state": {}, "static": {}, "string": {},
	"struct": {}, "switch": {}, "StructuredBuffer": {}, "tbuffer": {},
	"technique": {}, "technique10": {}, "technique11": {}, "texture": {},
	"Texture1D": {}, "Texture1DArray": {}, "Texture2D": {}, "Texture2DArray": {},
	"Texture2DMS": {}, "Texture2DMSArray": {}, "Texture3D": {},
	"TextureCube": {}, "TextureCubeArray": {}, "true": {}, "typedef": {},
	"triangle": {}, "triangleadj": {}, "TriangleStream": {}, "uint": {},
	"uniform": {}, "unorm": {}, "unsigned": {}, "vector": {}, "vertexfragment": {},
	"VertexShader": {}, "void": {}, "volatile": {}, "while": {},

	// Reserved words
	"auto": {}, "catch": {}, "char": {}, "const_cast": {}, "delete": {},
	"dynamic_cast": {}, "enum": {}, "explicit": {}, "friend": {}, "goto": {},
	"long": {}, "mutable": {}, "new": {}, "operator": {}, "private": {},
	"protected": {}, "public": {}, "reinterpret_cast": {}, "short": {},
	"signed": {}, "sizeof": {}, "static_cast": {}, "template": {}, "this": {},
	"throw": {}, "try": {}, "typename": {}, "union": {}, "using": {},
	"virtual": {},

	// Intrinsics without a counterpart in the source language
	"mul": {}, "clip": {}, "ddx": {}, "ddy": {}, "fwidth": {}, "frac": {},
	"rsqrt": {}, "lit": {}, "reflect": {}, "refract": {}, "step": {},
	"main": {},
}

// caseInsensitiveKeywords are legacy effect-framework keywords that FXC
// matches in any case.
var caseInsensitiveKeywords = map[string]struct{}{
	"asm":         {},
	"decl":        {},
	"pass":        {},
	"technique":   {},
	"texture1d":   {},
	"texture2d":   {},
	"texture3d":   {},
	"texturecube": {},
}

var typeShorthandBases = []string{"bool", "int", "uint", "dword", "half", "float", "double"}

// isTypeShorthand reports whether name is a vector or matrix type such as
// float3 or half4x4.
func isTypeShorthand(name string) bool {
	for _, base := range typeShorthandBases {
		rest, ok := strings.CutPrefix(name, base)
		if !ok {
			continue
		}
		switch {
		case len(rest) == 1:
			return rest[0] >= '1' && rest[0] <= '4'
		case len(rest) == 3:
			return rest[0] >= '1' && rest[0] <= '4' && rest[1] == 'x' && rest[2] >= '1' && rest[2] <= '4'
		}
	}
	return false
}

// isKeyword reports whether name must not be used as an identifier.
func isKeyword(name string) bool {
	if _, ok := reservedKeywords[name]; ok {
		return true
	}
	if _, ok := caseInsensitiveKeywords[strings.ToLower(name)]; ok {
		return true
	}
	return isTypeShorthand(name)
}
