package ir

// Node is implemented by every tree node.
type Node interface {
	Pos() Location
}

// Decl is a named declaration.
type Decl interface {
	Node
	DeclName() string
	// DeclType is nil until the declaration has been verified.
	DeclType() Type
	declNode()
}

// ShaderTypeDecl is the "#type <id>" directive.
type ShaderTypeDecl struct {
	Loc Location
	ID  string
}

// FunctionParamDecl is a function parameter.
type FunctionParamDecl struct {
	Loc  Location
	Name string
	Type Type

	verified bool
}

// ForLoopVariableDecl is the variable bound by a for statement. Its type
// is taken from the loop's range.
type ForLoopVariableDecl struct {
	Loc  Location
	Name string
	Type Type
}

// FunctionKind distinguishes the shader entry point from helpers.
type FunctionKind uint8

const (
	FunctionNormal FunctionKind = iota
	FunctionShader
)

// FunctionDecl is a function. Built-in intrinsics have a nil Body.
type FunctionDecl struct {
	Loc        Location
	Name       string
	Params     []*FunctionParamDecl
	ReturnType Type
	Body       *CodeBlock
	Kind       FunctionKind

	// UsesSystemValues is set when the function reads pixel position or
	// viewport values.
	UsesSystemValues bool

	verified bool
}

// IsBuiltin reports whether the function is a compiler intrinsic.
func (f *FunctionDecl) IsBuiltin() bool { return f.Body == nil }

// IsShader reports whether the function is the shader entry point.
func (f *FunctionDecl) IsShader() bool { return f.Kind == FunctionShader }

// FindParam returns the parameter called name.
func (f *FunctionDecl) FindParam(name string) *FunctionParamDecl {
	for _, p := range f.Params {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// ShaderParamDecl is a user-tunable shader parameter.
type ShaderParamDecl struct {
	Loc  Location
	Name string
	Type Type
	// Default is the optional default-value expression.
	Default Expr
	// DefaultValue is the folded value of Default.
	DefaultValue Value
	// IndexInUbo is the declaration order among shader parameters.
	IndexInUbo int

	verified bool
}

// ArraySize returns the element count when the parameter is an array.
func (p *ShaderParamDecl) ArraySize() (int, bool) {
	if a, ok := p.Type.(*ArrayType); ok {
		return a.Size(), true
	}
	return 0, false
}

// VarDecl is a local or global variable, or a compiler-provided system
// value (which has no Expr).
type VarDecl struct {
	Loc     Location
	Name    string
	Type    Type
	Expr    Expr
	IsConst bool
	// IsSystemValue marks read-only values injected by the compiler.
	IsSystemValue bool

	verified bool
}

// NewSystemValue creates a system value of the given type.
func NewSystemValue(name string, typ Type) *VarDecl {
	return &VarDecl{Loc: StdLocation, Name: name, Type: typ, IsConst: true, IsSystemValue: true}
}

// VectorSwizzlingDecl is the symbol of every vector swizzle member.
type VectorSwizzlingDecl struct{}

// ArraySizeDecl is the symbol of the array ".size" member.
type ArraySizeDecl struct{}

func (d *ShaderTypeDecl) Pos() Location      { return d.Loc }
func (d *FunctionParamDecl) Pos() Location   { return d.Loc }
func (d *ForLoopVariableDecl) Pos() Location { return d.Loc }
func (d *FunctionDecl) Pos() Location        { return d.Loc }
func (d *ShaderParamDecl) Pos() Location     { return d.Loc }
func (d *VarDecl) Pos() Location             { return d.Loc }
func (*VectorSwizzlingDecl) Pos() Location   { return StdLocation }
func (*ArraySizeDecl) Pos() Location         { return StdLocation }

func (*ShaderTypeDecl) DeclName() string        { return "#type" }
func (d *FunctionParamDecl) DeclName() string   { return d.Name }
func (d *ForLoopVariableDecl) DeclName() string { return d.Name }
func (d *FunctionDecl) DeclName() string        { return d.Name }
func (d *ShaderParamDecl) DeclName() string     { return d.Name }
func (d *VarDecl) DeclName() string             { return d.Name }
func (*VectorSwizzlingDecl) DeclName() string   { return "<swizzling>" }
func (*ArraySizeDecl) DeclName() string         { return ArraySizeMember }

func (*ShaderTypeDecl) DeclType() Type        { return nil }
func (d *FunctionParamDecl) DeclType() Type   { return d.Type }
func (d *ForLoopVariableDecl) DeclType() Type { return d.Type }
func (d *FunctionDecl) DeclType() Type        { return d.ReturnType }
func (d *ShaderParamDecl) DeclType() Type     { return d.Type }
func (d *VarDecl) DeclType() Type             { return d.Type }
func (*VectorSwizzlingDecl) DeclType() Type   { return nil }
func (*ArraySizeDecl) DeclType() Type         { return Int }

func (*ShaderTypeDecl) declNode()      {}
func (*FunctionParamDecl) declNode()   {}
func (*ForLoopVariableDecl) declNode() {}
func (*FunctionDecl) declNode()        {}
func (*ShaderParamDecl) declNode()     {}
func (*VarDecl) declNode()             {}
func (*VectorSwizzlingDecl) declNode() {}
func (*ArraySizeDecl) declNode()       {}
