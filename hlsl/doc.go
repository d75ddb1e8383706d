// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package hlsl generates Direct3D 11 HLSL pixel shaders.
//
// # Usage
//
//	ast, c, err := shaderc.Verify(source, "tint.shd")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	code, info, err := hlsl.Compile(c, ast.EntryPoint(), hlsl.DefaultOptions())
//
// The output is compiled with D3DCompile using info.Profile and the entry
// point "main".
//
// # Register Binding
//
// The layout matches the engine's vertex shaders and painter:
//
//	cbuffer pl_SystemValues : register(b0)  // transformation, viewport
//	cbuffer CBuffer2        : register(b1)  // shader parameters
//	Texture2D pl_spriteImage : register(t0)
//	Texture2D pl_meshImage   : register(t1)
//	Texture2D <user images>  : register(t2), register(t3), ...
//	SamplerState pl_sampler  : register(s0)
//
// Shader parameters are packed in declaration order; the offsets are
// reported in TranslationInfo.Parameters.
package hlsl
