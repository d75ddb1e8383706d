package ir

// Builtins is the registry of intrinsic functions and system values. It is
// built once per compile and compared by identity during generation.
type Builtins struct {
	all []Decl

	FloatCtor *FunctionDecl
	IntCtor   *FunctionDecl
	Sample    *FunctionDecl

	// Vector constructors keyed by their declaration.
	vecCtors map[*FunctionDecl]Primitive

	SVPixelPos           *VarDecl
	SVPixelPosNormalized *VarDecl
	SVViewportSize       *VarDecl
	SVViewportSizeInv    *VarDecl
	SVSpriteImage        *VarDecl
	SVSpriteColor        *VarDecl
	SVSpriteUV           *VarDecl
	SVPolygonColor       *VarDecl
	SVMeshImage          *VarDecl
	SVMeshColor          *VarDecl
	SVMeshUV             *VarDecl

	ArraySize *ArraySizeDecl
	Swizzle   *VectorSwizzlingDecl
}

// TypeAliases maps alternative type spellings to primitive names.
var TypeAliases = map[string]Primitive{
	"float2":   Vec2,
	"float3":   Vec3,
	"float4":   Vec4,
	"float4x4": Matrix,
}

type param struct {
	name string
	typ  Type
}

// NewBuiltins creates the intrinsic library.
func NewBuiltins() *Builtins {
	b := &Builtins{
		all:      make([]Decl, 0, 160),
		vecCtors: make(map[*FunctionDecl]Primitive, 16),
	}

	b.FloatCtor = b.addFunc(Float.TypeName(), Float, param{"value", Int})
	b.IntCtor = b.addFunc(Int.TypeName(), Int, param{"value", Float})

	b.addVecCtor(Vec2)
	b.addVecCtor(Vec2, param{"xy", Float})
	b.addVecCtor(Vec2, param{"x", Float}, param{"y", Float})

	b.addVecCtor(Vec3)
	b.addVecCtor(Vec3, param{"x", Float}, param{"y", Float}, param{"z", Float})
	b.addVecCtor(Vec3, param{"xy", Vec2}, param{"z", Float})
	b.addVecCtor(Vec3, param{"xyz", Float})

	b.addVecCtor(Vec4)
	b.addVecCtor(Vec4, param{"x", Float}, param{"y", Float}, param{"z", Float}, param{"w", Float})
	b.addVecCtor(Vec4, param{"xy", Vec2}, param{"zw", Vec2})
	b.addVecCtor(Vec4, param{"xy", Vec2}, param{"z", Float}, param{"w", Float})
	b.addVecCtor(Vec4, param{"xyz", Vec3}, param{"w", Float})
	b.addVecCtor(Vec4, param{"xyzw", Float})

	floatToVec4 := []Primitive{Float, Vec2, Vec3, Vec4}
	allVecs := []Primitive{Vec2, Vec3, Vec4}
	floatToMatrix := []Primitive{Float, Vec2, Vec3, Vec4, Matrix}

	unary := func(name string, types []Primitive) {
		for _, t := range types {
			b.addFunc(name, t, param{"value", t})
		}
	}
	binary := func(name, a1, a2 string, types []Primitive) {
		for _, t := range types {
			b.addFunc(name, t, param{a1, t}, param{a2, t})
		}
	}

	unary("abs", floatToVec4)
	unary("acos", floatToVec4)
	for _, t := range floatToMatrix {
		b.addFunc("all", Bool, param{"value", t})
		b.addFunc("any", Bool, param{"value", t})
	}
	unary("ceil", floatToMatrix)
	unary("asin", floatToVec4)
	unary("atan", floatToVec4)
	binary("atan2", "y", "x", floatToVec4)
	for _, t := range floatToVec4 {
		b.addFunc("clamp", t, param{"value", t}, param{"start", t}, param{"end", t})
	}
	unary("cos", floatToVec4)
	unary("degrees", floatToVec4)
	b.addFunc("determinant", Float, param{"value", Matrix})
	for _, t := range allVecs {
		b.addFunc("distance", Float, param{"lhs", t}, param{"rhs", t})
	}
	for _, t := range allVecs {
		b.addFunc("dot", Float, param{"lhs", t}, param{"rhs", t})
	}
	unary("exp", floatToVec4)
	unary("exp2", floatToVec4)
	unary("floor", floatToVec4)
	binary("fmod", "x", "y", floatToVec4)
	for _, t := range allVecs {
		b.addFunc("length", Float, param{"value", t})
	}
	for _, t := range floatToVec4 {
		b.addFunc("lerp", t, param{"start", t}, param{"stop", t}, param{"t", Float})
	}
	unary("log", floatToVec4)
	unary("log2", floatToVec4)
	binary("max", "lhs", "rhs", floatToVec4)
	binary("min", "lhs", "rhs", floatToVec4)
	unary("normalize", allVecs)
	binary("pow", "x", "y", floatToVec4)
	unary("radians", floatToVec4)
	unary("round", floatToVec4)
	b.Sample = b.addFunc("sample", Vec4, param{"image", Image}, param{"coords", Vec2})
	unary("saturate", floatToVec4)
	unary("sign", floatToVec4)
	unary("sin", floatToVec4)
	for _, t := range floatToVec4 {
		b.addFunc("smoothstep", t, param{"min", t}, param{"max", t}, param{"value", t})
	}
	unary("sqrt", floatToVec4)
	unary("tan", floatToVec4)
	b.addFunc("transpose", Matrix, param{"matrix", Matrix})
	unary("trunc", floatToVec4)

	b.SVPixelPos = b.addSystemValue(SVPixelPos, Vec2)
	b.SVPixelPosNormalized = b.addSystemValue(SVPixelPosNormalized, Vec2)
	b.SVViewportSize = b.addSystemValue(SVViewportSize, Vec2)
	b.SVViewportSizeInv = b.addSystemValue(SVViewportSizeInv, Vec2)
	b.SVSpriteImage = b.addSystemValue(SpriteImageParam, Image)
	b.SVSpriteColor = b.addSystemValue(SpriteColorAttrib, Vec4)
	b.SVSpriteUV = b.addSystemValue(SpriteUVAttrib, Vec2)
	b.SVPolygonColor = b.addSystemValue(PolygonColorAttrib, Vec4)
	b.SVMeshImage = b.addSystemValue(MeshImageParam, Image)
	b.SVMeshColor = b.addSystemValue(MeshColorAttrib, Vec4)
	b.SVMeshUV = b.addSystemValue(MeshUVAttrib, Vec2)

	b.ArraySize = &ArraySizeDecl{}
	b.Swizzle = &VectorSwizzlingDecl{}

	return b
}

func (b *Builtins) addFunc(name string, ret Type, params ...param) *FunctionDecl {
	fn := &FunctionDecl{Loc: StdLocation, Name: name, ReturnType: ret}
	for _, p := range params {
		fn.Params = append(fn.Params, &FunctionParamDecl{Loc: StdLocation, Name: p.name, Type: p.typ})
	}
	b.all = append(b.all, fn)
	return fn
}

func (b *Builtins) addVecCtor(t Primitive, params ...param) {
	fn := b.addFunc(t.TypeName(), t, params...)
	b.vecCtors[fn] = t
}

func (b *Builtins) addSystemValue(name string, t Type) *VarDecl {
	v := NewSystemValue(name, t)
	b.all = append(b.all, v)
	return v
}

// All returns every built-in declaration.
func (b *Builtins) All() []Decl { return b.all }

// Contains reports whether d is a built-in declaration.
func (b *Builtins) Contains(d Decl) bool {
	if d == Decl(b.ArraySize) || d == Decl(b.Swizzle) {
		return true
	}
	for _, e := range b.all {
		if e == d {
			return true
		}
	}
	return false
}

// SystemValues returns the system values visible in a shader of type t.
func (b *Builtins) SystemValues(t ShaderType) []*VarDecl {
	values := []*VarDecl{b.SVPixelPos, b.SVPixelPosNormalized, b.SVViewportSize, b.SVViewportSizeInv}
	switch t {
	case ShaderSprite:
		values = append(values, b.SVSpriteImage, b.SVSpriteColor, b.SVSpriteUV)
	case ShaderPolygon:
		values = append(values, b.SVPolygonColor)
	case ShaderMesh:
		values = append(values, b.SVMeshImage, b.SVMeshColor, b.SVMeshUV)
	}
	return values
}

// VectorCtorType returns the constructed type when d is a vector
// constructor.
func (b *Builtins) VectorCtorType(d Decl) (Primitive, bool) {
	fn, ok := d.(*FunctionDecl)
	if !ok {
		return 0, false
	}
	t, ok := b.vecCtors[fn]
	return t, ok
}

// IsVectorCtor reports whether d constructs a vector.
func (b *Builtins) IsVectorCtor(d Decl) bool {
	_, ok := b.VectorCtorType(d)
	return ok
}

// AcceptsImplicitCasts reports whether int literal arguments may widen to
// float when calling fn.
func (b *Builtins) AcceptsImplicitCasts(fn *FunctionDecl) bool {
	return b.IsVectorCtor(fn)
}

// IsIntrinsic reports whether d is a built-in function other than a
// vector constructor.
func (b *Builtins) IsIntrinsic(d Decl) bool {
	fn, ok := d.(*FunctionDecl)
	if !ok || !fn.IsBuiltin() || b.IsVectorCtor(fn) {
		return false
	}
	return b.Contains(fn)
}

// IsImageSample reports whether d is the sample(image, coords) intrinsic.
func (b *Builtins) IsImageSample(d Decl) bool { return d == Decl(b.Sample) }

// IsColorAttrib reports whether d is a vertex color system value.
func (b *Builtins) IsColorAttrib(d Decl) bool {
	return d == Decl(b.SVSpriteColor) || d == Decl(b.SVPolygonColor) || d == Decl(b.SVMeshColor)
}

// IsUVAttrib reports whether d is a texture coordinate system value.
func (b *Builtins) IsUVAttrib(d Decl) bool {
	return d == Decl(b.SVSpriteUV) || d == Decl(b.SVMeshUV)
}

// IsBatchImage reports whether d is the sprite or mesh image.
func (b *Builtins) IsBatchImage(d Decl) bool {
	return d == Decl(b.SVSpriteImage) || d == Decl(b.SVMeshImage)
}

// SystemValueUsage records which pixel-position and viewport values a
// shader reads.
type SystemValueUsage struct {
	PixelPos           bool
	PixelPosNormalized bool
	ViewportSize       bool
	ViewportSizeInv    bool
}

// Any reports whether any value is used.
func (u SystemValueUsage) Any() bool {
	return u.PixelPos || u.PixelPosNormalized || u.ViewportSize || u.ViewportSizeInv
}

// SystemValueUsage computes which system values a reads anywhere. The
// normalized pixel position implies the pixel position and the inverse
// viewport size.
func (b *Builtins) SystemValueUsage(a *Ast) SystemValueUsage {
	var u SystemValueUsage
	u.PixelPosNormalized = a.IsSymbolAccessedAnywhere(b.SVPixelPosNormalized)
	u.PixelPos = u.PixelPosNormalized || a.IsSymbolAccessedAnywhere(b.SVPixelPos)
	u.ViewportSize = a.IsSymbolAccessedAnywhere(b.SVViewportSize)
	u.ViewportSizeInv = u.PixelPosNormalized || a.IsSymbolAccessedAnywhere(b.SVViewportSizeInv)
	return u
}
