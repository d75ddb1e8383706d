// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import "fmt"

// RegisterType represents the HLSL register type.
type RegisterType uint8

const (
	// RegisterTypeB is for constant buffers (cbuffer).
	RegisterTypeB RegisterType = iota

	// RegisterTypeT is for textures.
	RegisterTypeT

	// RegisterTypeS is for samplers.
	RegisterTypeS
)

// String returns the single-character register prefix.
func (rt RegisterType) String() string {
	switch rt {
	case RegisterTypeT:
		return "t"
	case RegisterTypeS:
		return "s"
	default:
		return "b"
	}
}

// BindTarget specifies the HLSL register a resource is bound to.
type BindTarget struct {
	Type     RegisterType
	Register uint32
}

// String returns the register clause, e.g. "register(t0)".
func (bt BindTarget) String() string {
	return fmt.Sprintf("register(%s%d)", bt.Type, bt.Register)
}

// Register layout shared with the engine's Direct3D 11 painter.
var (
	SystemValuesTarget = BindTarget{Type: RegisterTypeB, Register: 0}
	ParamsTarget       = BindTarget{Type: RegisterTypeB, Register: 1}
	SpriteImageTarget  = BindTarget{Type: RegisterTypeT, Register: 0}
	MeshImageTarget    = BindTarget{Type: RegisterTypeT, Register: 1}
	SamplerTarget      = BindTarget{Type: RegisterTypeS, Register: 0}
)

// UserImageRegisterBase is the texture register of the first user image.
const UserImageRegisterBase = 2

// userImageTarget returns the register of the i-th user image.
func userImageTarget(i int) BindTarget {
	return BindTarget{Type: RegisterTypeT, Register: uint32(UserImageRegisterBase + i)}
}
