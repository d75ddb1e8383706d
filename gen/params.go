package gen

import (
	"github.com/polly2d/shaderc/ir"
)

// Parameter describes one shader parameter the entry point reads, as the
// host needs it to fill the uniform buffer or bind a resource.
type Parameter struct {
	Name string `yaml:"name"`
	// Type is the source spelling, e.g. "float", "Vec4" or "float[]".
	Type string `yaml:"type"`
	// Offset is the byte offset inside the uniform buffer. Resources have
	// no offset.
	Offset      int `yaml:"offset"`
	SizeInBytes int `yaml:"size"`
	ArraySize   int `yaml:"array-size,omitempty"`
	// Default is the folded default value, empty when none was declared.
	Default  string `yaml:"default,omitempty"`
	Resource bool   `yaml:"resource,omitempty"`
}

// ParameterList is the parameter interface of a compiled shader.
type ParameterList struct {
	Params      []Parameter `yaml:"params"`
	CBufferSize int         `yaml:"cbuffer-size"`
}

// Scalars returns the uniform-buffer parameters.
func (l ParameterList) Scalars() []Parameter {
	var out []Parameter
	for _, p := range l.Params {
		if !p.Resource {
			out = append(out, p)
		}
	}
	return out
}

// Find returns the parameter called name.
func (l ParameterList) Find(name string) (Parameter, bool) {
	for _, p := range l.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}

// ExtractParameters lists the shader parameters entry transitively reads:
// uniform-buffer scalars first, in declaration order, then resources.
func ExtractParameters(ast *ir.Ast, entry *ir.FunctionDecl) (ParameterList, error) {
	accessed := ast.ParamsAccessedByFunction(entry)

	types := make([]ir.Type, len(accessed.Scalars))
	for i, p := range accessed.Scalars {
		types[i] = p.Type
	}
	layout, err := PackCBuffer(types, CBufferAlignment, true)
	if err != nil {
		return ParameterList{}, err
	}

	list := ParameterList{CBufferSize: layout.Size}
	for i, p := range accessed.Scalars {
		size, _ := p.Type.SizeInCbuffer()
		param := Parameter{
			Name:        p.Name,
			Type:        p.Type.TypeName(),
			Offset:      layout.Offsets[i],
			SizeInBytes: size,
		}
		if n, ok := p.ArraySize(); ok {
			param.ArraySize = n
		}
		if p.DefaultValue.IsValid() {
			param.Default = p.DefaultValue.String()
		}
		list.Params = append(list.Params, param)
	}
	for _, p := range accessed.Resources {
		list.Params = append(list.Params, Parameter{
			Name:     p.Name,
			Type:     p.Type.TypeName(),
			Resource: true,
		})
	}
	return list, nil
}

// GatherDecls returns the top-level declarations entry depends on, in
// declaration order, followed by entry itself.
func GatherDecls(ast *ir.Ast, entry *ir.FunctionDecl) ([]ir.Decl, error) {
	if entry == nil || entry.Body == nil {
		return nil, ir.Internalf("Failed to gather children to generate.")
	}

	decls := make([]ir.Decl, 0, len(ast.Decls)+1)
	seen := make(map[ir.Decl]bool, len(ast.Decls)+1)
	add := func(d ir.Decl) {
		if !seen[d] {
			seen[d] = true
			decls = append(decls, d)
		}
	}

	for _, d := range ast.Decls {
		if _, ok := d.(*ir.ShaderTypeDecl); ok || d == ir.Decl(entry) {
			continue
		}
		if ir.BlockAccesses(entry.Body, d, true) {
			add(d)
		}
	}
	add(entry)

	return decls, nil
}
