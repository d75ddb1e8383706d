// Package ir holds the shared data model of the shader compiler: source
// locations and errors, the type system, the declaration/expression/statement
// tree, scopes and built-in symbols, and the semantic checker that verifies a
// parsed tree before it is optimized and handed to a backend.
//
// # Structure
//
// An Ast owns the flat list of top-level declarations:
//   - ShaderTypeDecl: the mandatory #type directive
//   - ShaderParamDecl: user shader parameters, laid out in a uniform buffer
//   - FunctionDecl: helper functions and the main entry point
//   - VarDecl: global constants
//
// Function bodies are CodeBlocks of Stmt values, which in turn hold Expr
// trees. Every node is a closed set of concrete types behind a sealed
// interface.
//
// # Verification
//
// A Checker resolves types and symbols in place. After Verify succeeds every
// Expr reports a non-nil Type and every name-like Expr reports the Decl it
// refers to. Errors are returned as *Error values carrying a Location.
package ir
