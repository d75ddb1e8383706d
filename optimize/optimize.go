// Package optimize removes dead code from a verified shader tree.
//
// Optimize runs a work-list to a fixed point. Two kinds of work exist:
//
//   - pruning top-level helper functions that nothing references, and
//   - pruning local variables in the shader entry point that are never
//     read inside their own block.
//
// Removing a variable re-queues its block, the enclosing blocks and the
// function pass, because the variable may have been the only reader of
// another variable or the only caller of a helper. Removing a helper
// re-queues the function pass. When the list is empty, shader parameters
// that are no longer accessed anywhere are dropped.
//
// The tree is modified in place. Running Optimize on its own output
// removes nothing.
package optimize

import (
	"github.com/polly2d/shaderc/ir"
)

// Stats reports what a single Optimize call removed.
type Stats struct {
	Functions  int
	Variables  int
	Parameters int

	// Steps is the number of work items processed.
	Steps int
}

// Removed returns the total number of removed declarations and
// statements.
func (s Stats) Removed() int {
	return s.Functions + s.Variables + s.Parameters
}

// workItem is either a code block (block != nil) or the function pass.
type workItem struct {
	block *ir.CodeBlock
}

var functionPass = workItem{}

type optimizer struct {
	ast     *ir.Ast
	parents map[*ir.CodeBlock]*ir.CodeBlock
	queue   []workItem
	pending map[workItem]bool
	stats   Stats
}

// Optimize removes unreferenced helper functions, unused local variables
// of the shader entry point and unused shader parameters from ast.
func Optimize(ast *ir.Ast) Stats {
	o := &optimizer{
		ast:     ast,
		parents: make(map[*ir.CodeBlock]*ir.CodeBlock),
		pending: make(map[workItem]bool),
	}

	o.push(functionPass)
	for _, fn := range ast.Functions() {
		if fn.IsShader() && fn.Body != nil {
			o.collectBlocks(fn.Body, nil)
		}
	}

	for len(o.queue) > 0 {
		item := o.queue[0]
		o.queue = o.queue[1:]
		delete(o.pending, item)
		o.stats.Steps++

		if item.block == nil {
			o.removeUnusedFunctions()
		} else {
			o.removeUnusedVariables(item.block)
		}
	}

	o.removeUnusedParameters()
	return o.stats
}

func (o *optimizer) push(item workItem) {
	if o.pending[item] {
		return
	}
	o.pending[item] = true
	o.queue = append(o.queue, item)
}

func (o *optimizer) collectBlocks(b *ir.CodeBlock, parent *ir.CodeBlock) {
	o.parents[b] = parent
	o.push(workItem{block: b})
	for _, s := range b.Stmts {
		for _, nested := range ir.NestedBlocks(s) {
			o.collectBlocks(nested, b)
		}
	}
}

func (o *optimizer) removeUnusedFunctions() {
	removed := 0
	for _, fn := range o.ast.Functions() {
		if fn.IsBuiltin() || fn.IsShader() {
			continue
		}
		if !o.ast.IsSymbolAccessedAnywhere(fn) {
			o.ast.RemoveDecl(fn)
			removed++
		}
	}
	if removed > 0 {
		o.stats.Functions += removed
		o.push(functionPass)
	}
}

func (o *optimizer) removeUnusedVariables(b *ir.CodeBlock) {
	var unused []*ir.VarStmt
	for _, v := range b.Variables() {
		if !ir.BlockAccesses(b, v.Var, false) {
			unused = append(unused, v)
		}
	}
	if len(unused) == 0 {
		return
	}

	for _, v := range unused {
		b.RemoveStmt(v)
	}
	o.stats.Variables += len(unused)

	for blk := b; blk != nil; blk = o.parents[blk] {
		o.push(workItem{block: blk})
	}
	o.push(functionPass)
}

func (o *optimizer) removeUnusedParameters() {
	for _, p := range o.ast.ShaderParams() {
		if !o.ast.IsSymbolAccessedAnywhere(p) {
			o.ast.RemoveDecl(p)
			o.stats.Parameters++
		}
	}
}
