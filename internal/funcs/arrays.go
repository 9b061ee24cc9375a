package funcs

import (
	"strings"

	"github.com/aadamsx/josson/internal/node"
)

// registerArrayFuncs registers the array-shaped entries of the function
// registry (spec.md §5): each is a thin JSON-to-JSON transform over an
// array node, in the style of FuncString's applyWithoutArgument/
// applyWithArguments helpers.
func registerArrayFuncs(c Catalog) {
	c["size"] = func(cur *node.Node, args []*node.Node) (*node.Node, error) {
		return node.NewNumber(float64(cur.Len())), nil
	}

	c["first"] = func(cur *node.Node, args []*node.Node) (*node.Node, error) {
		return cur.At(0), nil
	}
	c["last"] = func(cur *node.Node, args []*node.Node) (*node.Node, error) {
		return cur.At(-1), nil
	}

	c["reverse"] = func(cur *node.Node, args []*node.Node) (*node.Node, error) {
		elems := cur.Elems()
		out := make([]*node.Node, len(elems))
		for i, e := range elems {
			out[len(elems)-1-i] = e
		}
		return node.NewArray(out...), nil
	}

	c["distinct"] = func(cur *node.Node, args []*node.Node) (*node.Node, error) {
		var out []*node.Node
		for _, e := range cur.Elems() {
			dup := false
			for _, o := range out {
				if node.Equal(e, o) {
					dup = true
					break
				}
			}
			if !dup {
				out = append(out, e)
			}
		}
		return node.NewArray(out...), nil
	}

	c["sum"] = aggregateFn(func(acc float64, v float64) float64 { return acc + v }, 0)
	c["min"] = reduceFn(func(a, b float64) bool { return a < b })
	c["max"] = reduceFn(func(a, b float64) bool { return a > b })

	c["avg"] = func(cur *node.Node, args []*node.Node) (*node.Node, error) {
		elems := cur.Elems()
		if len(elems) == 0 {
			return node.NewNumber(0), nil
		}
		var total float64
		n := 0
		for _, e := range elems {
			if f, ok := node.AsDouble(e); ok {
				total += f
				n++
			}
		}
		if n == 0 {
			return node.NewNumber(0), nil
		}
		return node.NewNumber(total / float64(n)), nil
	}

	c["sort"] = func(cur *node.Node, args []*node.Node) (*node.Node, error) {
		elems := append([]*node.Node(nil), cur.Elems()...)
		sortNodes(elems)
		return node.NewArray(elems...), nil
	}

	c["join"] = func(cur *node.Node, args []*node.Node) (*node.Node, error) {
		sep := argText(args, 0, ",")
		var parts []string
		for _, e := range cur.Elems() {
			parts = append(parts, node.AsText(e))
		}
		return node.NewText(strings.Join(parts, sep)), nil
	}
}

func aggregateFn(combine func(acc, v float64) float64, start float64) Fn {
	return func(cur *node.Node, args []*node.Node) (*node.Node, error) {
		total := start
		for _, e := range cur.Elems() {
			if f, ok := node.AsDouble(e); ok {
				total = combine(total, f)
			}
		}
		return node.NewNumber(total), nil
	}
}

func reduceFn(better func(candidate, current float64) bool) Fn {
	return func(cur *node.Node, args []*node.Node) (*node.Node, error) {
		elems := cur.Elems()
		if len(elems) == 0 {
			return nil, nil
		}
		best := elems[0]
		bestVal, _ := node.AsDouble(best)
		for _, e := range elems[1:] {
			v, ok := node.AsDouble(e)
			if ok && better(v, bestVal) {
				best, bestVal = e, v
			}
		}
		return best, nil
	}
}

// sortNodes sorts value nodes ascending: numbers by value, text
// lexicographically, numbers before text.
func sortNodes(nodes []*node.Node) {
	for i := 1; i < len(nodes); i++ {
		for j := i; j > 0 && nodeLess(nodes[j], nodes[j-1]); j-- {
			nodes[j-1], nodes[j] = nodes[j], nodes[j-1]
		}
	}
}

func nodeLess(a, b *node.Node) bool {
	if a.IsNumber() && b.IsNumber() {
		return a.Number() < b.Number()
	}
	if a.IsText() && b.IsText() {
		return a.Text() < b.Text()
	}
	return a.IsNumber() && !b.IsNumber()
}
