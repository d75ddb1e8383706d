// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import "fmt"

// ShaderModel represents a Direct3D 11 Shader Model version. The generated
// code only needs SM 4.0; the model selects the D3DCompile profile.
type ShaderModel uint8

// Supported Shader Model versions.
const (
	// ShaderModel4_0 is the Direct3D 10 level baseline (default).
	ShaderModel4_0 ShaderModel = iota

	// ShaderModel4_1 is Direct3D 10.1.
	ShaderModel4_1

	// ShaderModel5_0 is Direct3D 11.
	ShaderModel5_0
)

// String returns a human-readable representation of the shader model.
// Example: "SM 4.0", "SM 5.0"
func (sm ShaderModel) String() string {
	major, minor := sm.version()
	return fmt.Sprintf("SM %d.%d", major, minor)
}

// ProfileSuffix returns the shader profile suffix for this model.
// Example: "4_0", "5_0"
func (sm ShaderModel) ProfileSuffix() string {
	major, minor := sm.version()
	return fmt.Sprintf("%d_%d", major, minor)
}

// PixelProfile returns the D3DCompile target for pixel shaders, e.g.
// "ps_4_0".
func (sm ShaderModel) PixelProfile() string {
	return "ps_" + sm.ProfileSuffix()
}

func (sm ShaderModel) version() (major, minor uint8) {
	switch sm {
	case ShaderModel4_1:
		return 4, 1
	case ShaderModel5_0:
		return 5, 0
	default:
		return 4, 0
	}
}
