package gen

import (
	"strconv"
	"strings"

	"github.com/polly2d/shaderc/ir"
)

// TempVarPrefix starts every compiler-generated local variable name.
const TempVarPrefix = ir.ReservedPrefix + "var"

// TempVarNameGen hands out unique temporary variable names for one code
// block: pl_var0, pl_var1_hint, ...
type TempVarNameGen struct {
	counter int
}

// NewTempVarNameGen returns a generator whose counter starts after every
// pl_varN name already declared in b.
func NewTempVarNameGen(b *ir.CodeBlock) *TempVarNameGen {
	g := &TempVarNameGen{}
	g.skipDeclared(b)
	return g
}

// Nested returns a generator for a block inside g's block. Its names never
// shadow the ones g has handed out.
func (g *TempVarNameGen) Nested(b *ir.CodeBlock) *TempVarNameGen {
	n := &TempVarNameGen{counter: g.counter}
	n.skipDeclared(b)
	return n
}

func (g *TempVarNameGen) skipDeclared(b *ir.CodeBlock) {
	if b == nil {
		return
	}
	for _, v := range b.Variables() {
		rest, ok := strings.CutPrefix(v.Var.Name, TempVarPrefix)
		if !ok {
			continue
		}
		if i := strings.IndexByte(rest, '_'); i >= 0 {
			rest = rest[:i]
		}
		if n, err := strconv.Atoi(rest); err == nil && n >= g.counter {
			g.counter = n + 1
		}
	}
}

// Next returns a fresh name. A non-empty hint is appended after an
// underscore.
func (g *TempVarNameGen) Next(hint string) string {
	name := TempVarPrefix + strconv.Itoa(g.counter)
	if hint != "" {
		name += "_" + hint
	}
	g.counter++
	return name
}
