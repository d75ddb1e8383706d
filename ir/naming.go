package ir

import "strings"

// Reserved and well-known identifiers.
const (
	ReservedPrefix   = "pl_"
	EntryPointName   = "main"
	ArraySizeMember  = "size"
	ShaderInputParam = "pl_in"

	ShaderTypeSprite  = "sprite"
	ShaderTypePolygon = "polygon"
	ShaderTypeMesh    = "mesh"

	SVPixelPos           = "pl_pixelPos"
	SVPixelPosNormalized = "pl_pixelPosNormalized"
	SVTransformation     = "pl_transformation"
	SVViewportSize       = "pl_viewportSize"
	SVViewportSizeInv    = "pl_viewportSizeInv"

	ImageSamplerParam  = "pl_sampler"
	SpriteImageParam   = "pl_spriteImage"
	SpriteColorAttrib  = "pl_spriteColor"
	SpriteUVAttrib     = "pl_spriteUV"
	PolygonColorAttrib = "pl_polygonColor"
	MeshImageParam     = "pl_meshImage"
	MeshColorAttrib    = "pl_meshColor"
	MeshUVAttrib       = "pl_meshUV"
)

// IsReservedIdentifier reports whether name uses the compiler's prefix.
func IsReservedIdentifier(name string) bool {
	return strings.HasPrefix(name, ReservedPrefix)
}
