package ir

// ShaderType is the rendering domain selected by the #type directive.
type ShaderType uint8

const (
	ShaderSprite ShaderType = iota
	ShaderPolygon
	ShaderMesh
)

// String returns the directive spelling.
func (t ShaderType) String() string {
	switch t {
	case ShaderSprite:
		return ShaderTypeSprite
	case ShaderPolygon:
		return ShaderTypePolygon
	case ShaderMesh:
		return ShaderTypeMesh
	}
	return "<invalid>"
}

// ParseShaderType maps a #type identifier to a ShaderType.
func ParseShaderType(id string) (ShaderType, bool) {
	switch id {
	case ShaderTypeSprite:
		return ShaderSprite, true
	case ShaderTypePolygon:
		return ShaderPolygon, true
	case ShaderTypeMesh:
		return ShaderMesh, true
	}
	return 0, false
}

// Ast is a parsed shader: the flat list of top-level declarations.
type Ast struct {
	Filename   string
	Decls      []Decl
	ShaderType ShaderType

	verified bool
}

// NewAst wraps decls and derives the shader type from the single #type
// directive among them.
func NewAst(filename string, decls []Decl) (*Ast, error) {
	a := &Ast{Filename: filename, Decls: decls}

	var found *ShaderTypeDecl
	for _, d := range decls {
		st, ok := d.(*ShaderTypeDecl)
		if !ok {
			continue
		}
		if found != nil {
			return nil, Errorf(st.Loc, "Shader type specified more than once.")
		}
		found = st
		typ, ok := ParseShaderType(st.ID)
		if !ok {
			return nil, Errorf(st.Loc, "Invalid shader type '%s' specified; valid types are: '%s', '%s', '%s'.",
				st.ID, ShaderTypeSprite, ShaderTypePolygon, ShaderTypeMesh)
		}
		a.ShaderType = typ
	}

	if found == nil {
		return nil, Errorf(Location{Filename: filename},
			"No shader type specified; please specify one at the top of the shader, e.g. #type sprite.")
	}

	return a, nil
}

// Verified reports whether the checker has verified the tree.
func (a *Ast) Verified() bool { return a.verified }

// FindDecl returns the first top-level declaration called name.
func (a *Ast) FindDecl(name string) Decl {
	for _, d := range a.Decls {
		if d.DeclName() == name {
			return d
		}
	}
	return nil
}

// EntryPoint returns the shader entry function, if declared.
func (a *Ast) EntryPoint() *FunctionDecl {
	for _, d := range a.Decls {
		if f, ok := d.(*FunctionDecl); ok && f.Name == EntryPointName {
			return f
		}
	}
	return nil
}

// Functions returns every top-level function in declaration order.
func (a *Ast) Functions() []*FunctionDecl {
	var fns []*FunctionDecl
	for _, d := range a.Decls {
		if f, ok := d.(*FunctionDecl); ok {
			fns = append(fns, f)
		}
	}
	return fns
}

// ShaderParams returns the shader parameters in declaration order.
func (a *Ast) ShaderParams() []*ShaderParamDecl {
	var params []*ShaderParamDecl
	for _, d := range a.Decls {
		if p, ok := d.(*ShaderParamDecl); ok {
			params = append(params, p)
		}
	}
	return params
}

// HasParameters reports whether any shader parameter is declared.
func (a *Ast) HasParameters() bool {
	return len(a.ShaderParams()) > 0
}

// IsTopLevel reports whether d is one of the tree's own declarations.
func (a *Ast) IsTopLevel(d Decl) bool {
	for _, e := range a.Decls {
		if e == d {
			return true
		}
	}
	return false
}

// RemoveDecl removes d. It reports whether d was found.
func (a *Ast) RemoveDecl(d Decl) bool {
	for i, e := range a.Decls {
		if e == d {
			a.Decls = append(a.Decls[:i], a.Decls[i+1:]...)
			return true
		}
	}
	return false
}

// IsSymbolAccessedAnywhere reports whether any function transitively
// accesses symbol.
func (a *Ast) IsSymbolAccessedAnywhere(symbol Decl) bool {
	for _, d := range a.Decls {
		if f, ok := d.(*FunctionDecl); ok && FunctionAccesses(f, symbol) {
			return true
		}
	}
	return false
}

// AccessedParams splits the shader parameters a function reads into
// uniform-buffer scalars and bound resources.
type AccessedParams struct {
	Scalars   []*ShaderParamDecl
	Resources []*ShaderParamDecl
}

// ParamsAccessedByFunction returns the shader parameters fn transitively
// reads, in declaration order.
func (a *Ast) ParamsAccessedByFunction(fn *FunctionDecl) AccessedParams {
	var params AccessedParams
	if fn.Body == nil {
		return params
	}
	for _, d := range a.Decls {
		p, ok := d.(*ShaderParamDecl)
		if !ok || !BlockAccesses(fn.Body, p, true) {
			continue
		}
		switch {
		case CanBeInCbuffer(p.Type):
			params.Scalars = append(params.Scalars, p)
		case IsImage(p.Type):
			params.Resources = append(params.Resources, p)
		}
	}
	return params
}
