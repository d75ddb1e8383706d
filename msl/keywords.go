package msl

// reservedNames holds the C++14 keywords, Metal attribute and address
// space keywords and the metal namespace functions the generated code may
// collide with.
var reservedNames = map[string]struct{}{
	// C++
	"alignas": {}, "alignof": {}, "and": {}, "and_eq": {}, "asm": {}, "auto": {},
	"bitand": {}, "bitor": {}, "bool": {}, "break": {}, "case": {}, "catch": {},
	"char": {}, "char16_t": {}, "char32_t": {}, "class": {}, "compl": {},
	"const": {}, "constexpr": {}, "const_cast": {}, "continue": {},
	"decltype": {}, "default": {}, "delete": {}, "do": {}, "double": {},
	"dynamic_cast": {}, "else": {}, "enum": {}, "explicit": {}, "export": {},
	"extern": {}, "false": {}, "float": {}, "for": {}, "friend": {}, "goto": {},
	"if": {}, "inline": {}, "int": {}, "long": {}, "mutable": {},
	"namespace": {}, "new": {}, "noexcept": {}, "not": {}, "not_eq": {},
	"nullptr": {}, "operator": {}, "or": {}, "or_eq": {}, "private": {},
	"protected": {}, "public": {}, "register": {}, "reinterpret_cast": {},
	"return": {}, "short": {}, "signed": {}, "sizeof": {}, "static": {},
	"static_assert": {}, "static_cast": {}, "struct": {}, "switch": {},
	"template": {}, "this": {}, "thread_local": {}, "throw": {}, "true": {},
	"try": {}, "typedef": {}, "typeid": {}, "typename": {}, "union": {},
	"unsigned": {}, "using": {}, "virtual": {}, "void": {}, "volatile": {},
	"wchar_t": {}, "while": {}, "xor": {}, "xor_eq": {},

	// Metal
	"kernel": {}, "vertex": {}, "fragment": {}, "compute": {}, "device": {},
	"constant": {}, "thread": {}, "threadgroup": {}, "threadgroup_imageblock": {},
	"ray_data": {}, "object_data": {}, "metal": {}, "stage_in": {},
	"half": {}, "uint": {}, "ushort": {}, "uchar": {}, "size_t": {},
	"ptrdiff_t": {}, "texture2d": {}, "sampler": {}, "array": {},
	"float2": {}, "float3": {}, "float4": {}, "float2x2": {}, "float3x3": {},
	"float4x4": {}, "int2": {}, "int3": {}, "int4": {}, "bool2": {},
	"bool3": {}, "bool4": {}, "half2": {}, "half3": {}, "half4": {},

	// Functions the generator emits or that shadow metal:: overloads
	"mix": {}, "fract": {}, "rsqrt": {}, "select": {}, "step": {},
	"dfdx": {}, "dfdy": {}, "fwidth": {}, "discard_fragment": {},
	"main": {},
}

// isKeyword reports whether name must not be used as an identifier.
func isKeyword(name string) bool {
	_, ok := reservedNames[name]
	return ok
}
