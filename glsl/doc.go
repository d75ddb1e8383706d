// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package glsl generates GLSL fragment shaders for OpenGL and Vulkan.
//
// # Basic Usage
//
//	source, info, err := glsl.Compile(checker, ast.EntryPoint(), glsl.DefaultOptions())
//
// The output declares the interface the engine's vertex shaders provide:
// the vertex color and texture coordinates as pl_v2f_color and pl_v2f_uv,
// the sprite or mesh image as pl_image, and the result as pl_outColor.
// Shader parameters that live in the uniform buffer are members of the
// std140 block UBO.
//
// # Vulkan
//
// With Options.Vulkan the output targets GLSL 4.50 with explicit
// descriptor sets. Images are separate texture2D objects combined with
// the shared pl_imageSampler at each sampling site.
//
// # Reserved Words
//
// User identifiers that collide with GLSL keywords or built-in functions
// get a trailing underscore.
package glsl
