package ir

// MaxArraySize is the largest element count an array type may declare.
const MaxArraySize = 255

// Type is implemented by Primitive, *ArrayType and *UnresolvedType.
type Type interface {
	// TypeName is the name as written in shader source.
	TypeName() string
	// SizeInCbuffer is the number of bytes the type occupies in a
	// uniform buffer; ok is false when the type cannot be placed there.
	SizeInCbuffer() (size int, ok bool)
	// AlignmentInCbuffer is the base alignment inside a uniform buffer.
	AlignmentInCbuffer() (align int, ok bool)
	// ScalarCount is the number of scalar components.
	ScalarCount() (n int, ok bool)
	typeNode()
}

// Primitive enumerates the built-in types. Values compare by identity.
type Primitive uint8

const (
	Void Primitive = iota
	Int
	Bool
	Float
	Vec2
	Vec3
	Vec4
	Matrix
	Image
)

// Primitives lists every primitive that can be named in source, in the
// order they are registered in the global scope.
var Primitives = []Primitive{Int, Float, Bool, Vec2, Vec3, Vec4, Matrix, Image}

var primitiveNames = [...]string{
	Void:   "void",
	Int:    "int",
	Bool:   "bool",
	Float:  "float",
	Vec2:   "Vec2",
	Vec3:   "Vec3",
	Vec4:   "Vec4",
	Matrix: "Matrix",
	Image:  "Image",
}

// primitive layout: size, alignment, scalar components
var primitiveLayout = [...][3]int{
	Int:    {4, 4, 1},
	Bool:   {4, 4, 1},
	Float:  {4, 4, 1},
	Vec2:   {8, 8, 2},
	Vec3:   {12, 16, 3},
	Vec4:   {16, 16, 4},
	Matrix: {64, 16, 16},
}

func (Primitive) typeNode() {}

// TypeName implements Type.
func (p Primitive) TypeName() string {
	if int(p) < len(primitiveNames) {
		return primitiveNames[p]
	}
	return "<invalid>"
}

// String implements fmt.Stringer.
func (p Primitive) String() string { return p.TypeName() }

// SizeInCbuffer implements Type.
func (p Primitive) SizeInCbuffer() (int, bool) {
	if p == Void || p == Image {
		return 0, false
	}
	return primitiveLayout[p][0], true
}

// AlignmentInCbuffer implements Type.
func (p Primitive) AlignmentInCbuffer() (int, bool) {
	if p == Void || p == Image {
		return 0, false
	}
	return primitiveLayout[p][1], true
}

// ScalarCount implements Type.
func (p Primitive) ScalarCount() (int, bool) {
	if p == Void || p == Image {
		return 0, false
	}
	return primitiveLayout[p][2], true
}

// ArrayType is a fixed-size array. Its size is only known after the
// checker has resolved it.
type ArrayType struct {
	Loc      Location
	Elem     Type
	SizeExpr Expr

	size     int
	resolved bool
}

func (*ArrayType) typeNode() {}

// Size returns the element count of a resolved array.
func (t *ArrayType) Size() int { return t.size }

// Resolved reports whether the checker has resolved the array.
func (t *ArrayType) Resolved() bool { return t.resolved }

// TypeName implements Type.
func (t *ArrayType) TypeName() string { return t.Elem.TypeName() + "[]" }

// SizeInCbuffer implements Type. Elements are packed tightly at
// element size times count, matching the offsets reported to the host.
// std140 and HLSL cbuffers place each array element at a 16-byte stride,
// so arrays of scalars or Vec2 are smaller here than in those layouts.
// TODO: emit arrays with a 16-byte element stride and report the padded
// offsets to the host.
func (t *ArrayType) SizeInCbuffer() (int, bool) {
	elem, ok := t.Elem.SizeInCbuffer()
	if !ok {
		return 0, false
	}
	return elem * t.size, true
}

// AlignmentInCbuffer implements Type. Arrays always start on a 16-byte
// register boundary.
func (t *ArrayType) AlignmentInCbuffer() (int, bool) { return 16, true }

// ScalarCount implements Type.
func (t *ArrayType) ScalarCount() (int, bool) { return 0, false }

// UnresolvedType is a type name recorded by the parser and looked up in
// scope during checking.
type UnresolvedType struct {
	Loc  Location
	Name string
}

func (*UnresolvedType) typeNode() {}

// TypeName implements Type.
func (t *UnresolvedType) TypeName() string { return t.Name }

// SizeInCbuffer implements Type.
func (t *UnresolvedType) SizeInCbuffer() (int, bool) { return 0, false }

// AlignmentInCbuffer implements Type.
func (t *UnresolvedType) AlignmentInCbuffer() (int, bool) { return 0, false }

// ScalarCount implements Type.
func (t *UnresolvedType) ScalarCount() (int, bool) { return 0, false }

// IsScalar reports whether t is int or float.
func IsScalar(t Type) bool { return t == Int || t == Float }

// IsVector reports whether t is Vec2, Vec3 or Vec4.
func IsVector(t Type) bool { return t == Vec2 || t == Vec3 || t == Vec4 }

// IsMatrix reports whether t is Matrix.
func IsMatrix(t Type) bool { return t == Matrix }

// IsImage reports whether t is Image.
func IsImage(t Type) bool { return t == Image }

// IsArray reports whether t is an array type.
func IsArray(t Type) bool {
	_, ok := t.(*ArrayType)
	return ok
}

// IsUnresolved reports whether t still needs resolving.
func IsUnresolved(t Type) bool {
	_, ok := t.(*UnresolvedType)
	return ok
}

// CanBeInCbuffer reports whether values of t live in the uniform buffer.
func CanBeInCbuffer(t Type) bool {
	_, ok := t.SizeInCbuffer()
	return ok
}

// CanBeShaderParameter reports whether t may be the type of a shader
// parameter. Image arrays are not supported.
func CanBeShaderParameter(t Type) bool {
	switch t := t.(type) {
	case Primitive:
		return t != Void
	case *ArrayType:
		return !IsImage(t.Elem)
	}
	return false
}

// VectorDim returns the component count of a vector type, or 0.
func VectorDim(t Type) int {
	switch t {
	case Vec2:
		return 2
	case Vec3:
		return 3
	case Vec4:
		return 4
	}
	return 0
}

// SameType reports whether a and b denote the same type. Arrays are equal
// when their element types and sizes are.
func SameType(a, b Type) bool {
	if a == b {
		return true
	}
	aa, ok1 := a.(*ArrayType)
	ba, ok2 := b.(*ArrayType)
	if ok1 && ok2 {
		return aa.resolved && ba.resolved && aa.size == ba.size && SameType(aa.Elem, ba.Elem)
	}
	return false
}
