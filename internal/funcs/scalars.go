package funcs

import (
	"math"

	"github.com/aadamsx/josson/internal/node"
)

// registerScalarFuncs registers the null-coalescing and numeric rounding
// entries of the function registry.
func registerScalarFuncs(c Catalog) {
	c["isNull"] = func(cur *node.Node, args []*node.Node) (*node.Node, error) {
		return node.NewBool(cur.IsNull()), nil
	}
	c["notNull"] = func(cur *node.Node, args []*node.Node) (*node.Node, error) {
		return node.NewBool(!cur.IsNull()), nil
	}
	c["coalesce"] = func(cur *node.Node, args []*node.Node) (*node.Node, error) {
		if !cur.IsNull() {
			return cur, nil
		}
		for _, a := range args {
			if !a.IsNull() {
				return a, nil
			}
		}
		return node.NewNull(), nil
	}
	c["round"] = func(cur *node.Node, args []*node.Node) (*node.Node, error) {
		f, ok := node.AsDouble(cur)
		if !ok {
			return nil, nil
		}
		places := argInt(args, 0, 0)
		scale := math.Pow(10, float64(places))
		return node.NewNumber(math.Round(f*scale) / scale), nil
	}
	c["abs"] = func(cur *node.Node, args []*node.Node) (*node.Node, error) {
		f, ok := node.AsDouble(cur)
		if !ok {
			return nil, nil
		}
		return node.NewNumber(math.Abs(f)), nil
	}
	c["not"] = func(cur *node.Node, args []*node.Node) (*node.Node, error) {
		return node.NewBool(!node.AsBool(cur)), nil
	}
}
