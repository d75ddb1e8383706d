package msl

import (
	"fmt"

	"github.com/polly2d/shaderc/gen"
	"github.com/polly2d/shaderc/ir"
)

// Version represents an MSL language version.
type Version struct {
	Major uint8
	Minor uint8
}

// Common MSL versions.
var (
	Version1_2 = Version{Major: 1, Minor: 2}
	Version2_0 = Version{Major: 2, Minor: 0}
	Version2_1 = Version{Major: 2, Minor: 1}
	Version2_3 = Version{Major: 2, Minor: 3}
	Version3_0 = Version{Major: 3, Minor: 0}
)

// String returns the version as "major.minor".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Binding slots shared with the engine's Metal painter.
const (
	SystemValuesBufferSlot = 0
	ParamsBufferSlot       = 4
	SpriteImageTextureSlot = 0
	MeshImageTextureSlot   = 1
	SamplerSlot            = 0

	// UserTextureSlotBase is the slot of the first Image parameter.
	UserTextureSlotBase = 2
)

// Options configures MSL code generation.
type Options struct {
	// LangVersion is the language version the host compiles with.
	// It is reported back in TranslationInfo and does not change the
	// generated code.
	LangVersion Version

	// DebugInfo adds a comment naming the source file.
	DebugInfo bool
}

// DefaultOptions returns options targeting MSL 2.1.
func DefaultOptions() Options {
	return Options{LangVersion: Version2_1}
}

// TranslationInfo contains metadata about the MSL translation.
type TranslationInfo struct {
	// EntryPoint is the name of the fragment function.
	EntryPoint string

	// LangVersion is copied from Options.
	LangVersion Version

	// Parameters lists the shader parameters the entry point reads.
	Parameters gen.ParameterList

	// TextureSlots maps each texture argument of the entry point to its
	// [[texture(n)]] slot.
	TextureSlots map[string]int

	// UsesSystemValues is set when the shader reads pixel position or
	// viewport values.
	UsesSystemValues bool
}

// Compile generates MSL source code for entry. The shader must have been
// verified by c.
func Compile(c *ir.Checker, entry *ir.FunctionDecl, options Options) (string, TranslationInfo, error) {
	params, err := gen.ExtractParameters(c.Ast(), entry)
	if err != nil {
		return "", TranslationInfo{}, fmt.Errorf("msl: %w", err)
	}

	w := newWriter(&options)
	source, err := gen.Generate(w, c, entry)
	if err != nil {
		return "", TranslationInfo{}, fmt.Errorf("msl: %w", err)
	}

	info := TranslationInfo{
		EntryPoint:       entryPointName,
		LangVersion:      options.LangVersion,
		Parameters:       params,
		TextureSlots:     w.textures,
		UsesSystemValues: entry.UsesSystemValues,
	}
	return source, info, nil
}
