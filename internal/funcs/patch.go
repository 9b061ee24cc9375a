package funcs

import (
	jsonpatch "github.com/evanphx/json-patch"

	"github.com/aadamsx/josson/internal/node"
)

// registerPatchFunc registers patch(), applying an RFC 6902 JSON Patch
// document (given as the function's argument, a JSON array of operations)
// to the current node. This is the json-patch entry of SPEC_FULL.md's
// domain stack.
func registerPatchFunc(c Catalog) {
	c["patch"] = func(cur *node.Node, args []*node.Node) (*node.Node, error) {
		if len(args) < 1 {
			return cur, nil
		}
		patch, err := jsonpatch.DecodePatch([]byte(node.Marshal(args[0])))
		if err != nil {
			return nil, err
		}
		patched, err := patch.Apply([]byte(node.Marshal(cur)))
		if err != nil {
			return nil, err
		}
		return node.ParseString(string(patched))
	}
}
