// Package funcs implements the query engine's function catalog: the
// builtin string/array/scalar functions ported from FuncString/FuncArray,
// plus the patch/hash/verify/wasm extensions described in SPEC_FULL.md's
// domain stack.
package funcs

import "github.com/aadamsx/josson/internal/node"

// Fn is a single catalog entry. cur is the node the function step was
// navigated onto (the "subject"); args are the already-evaluated argument
// nodes, in source order.
type Fn func(cur *node.Node, args []*node.Node) (*node.Node, error)

// Catalog maps a bare function name (as written in a path step, e.g.
// "upperCase()") to its implementation.
type Catalog map[string]Fn

// Lookup returns the function registered under name, if any.
func (c Catalog) Lookup(name string) (Fn, bool) {
	fn, ok := c[name]
	return fn, ok
}

// Builtins returns the standard catalog: string, array, scalar and crypto
// functions, plus patch(). WASM-loaded functions are merged in separately
// via LoadWasmModule, since they require an on-disk/embedded module.
func Builtins() Catalog {
	c := make(Catalog)
	registerStringFuncs(c)
	registerArrayFuncs(c)
	registerScalarFuncs(c)
	registerCryptoFuncs(c)
	registerPatchFunc(c)
	return c
}
