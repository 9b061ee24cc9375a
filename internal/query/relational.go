package query

import (
	"strings"

	"github.com/aadamsx/josson/internal/node"
)

// relationalCompare implements spec.md §4.1's relational comparison
// rules, ported from OperationStep.relationalCompare.
func relationalCompare(left *node.Node, op string, right *node.Node) *node.Node {
	if left.IsContainer() || right.IsContainer() {
		return node.NewBool(relationalCompareContainer(left, op, right))
	}
	if right.IsText() {
		if left.IsText() {
			cmp := strings.Compare(left.Text(), right.Text())
			return node.NewBool(compareResult(cmp, op))
		}
		left, right = right, left
		op = swapOrder(op)
	}
	if right.IsNumber() {
		lf, ok := node.AsDouble(left)
		if !ok {
			return node.NewBool(op == "!=")
		}
		return node.NewBool(compareDouble(lf, right.Number(), op))
	}
	if right.IsBool() {
		switch op {
		case "=":
			return node.NewBool(node.AsBool(left) == right.Bool())
		case "!=":
			return node.NewBool(node.AsBool(left) != right.Bool())
		}
		return node.NewBool(false)
	}
	switch op {
	case "=":
		return node.NewBool(left.IsNull() && right.IsNull())
	case "!=":
		return node.NewBool(left.IsNull() != right.IsNull())
	}
	return node.NewBool(false)
}

// relationalCompareContainer implements the container-vs-container rule:
// defined only for = and !=, requiring matching kind and size, multiset
// equality for arrays and recursive key-wise equality for objects.
func relationalCompareContainer(left *node.Node, op string, right *node.Node) bool {
	if op != "=" && op != "!=" {
		return op == "!="
	}
	if left.Kind() != right.Kind() || left.Len() != right.Len() {
		return op == "!="
	}
	return node.Equal(left, right) == (op == "=")
}

func compareResult(cmp int, op string) bool {
	switch op {
	case "=":
		return cmp == 0
	case "!=":
		return cmp != 0
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	}
	return false
}

func compareDouble(l, r float64, op string) bool {
	switch op {
	case "=":
		return l == r
	case "!=":
		return l != r
	case ">":
		return l > r
	case ">=":
		return l >= r
	case "<":
		return l < r
	case "<=":
		return l <= r
	}
	return false
}

func swapOrder(op string) string {
	switch op {
	case ">":
		return "<"
	case ">=":
		return "<="
	case "<":
		return ">"
	case "<=":
		return ">="
	}
	return op
}

// arithmetic implements §4.1's arithmetic operators: numeric operands,
// text coerced via parse, failure yields a neutral (nil) result rather
// than an error.
func arithmetic(left *node.Node, op string, right *node.Node) *node.Node {
	lf, lok := node.AsDouble(left)
	rf, rok := node.AsDouble(right)
	if !lok || !rok {
		return nil
	}
	switch op {
	case "+":
		return node.NewNumber(lf + rf)
	case "-":
		return node.NewNumber(lf - rf)
	case "*":
		return node.NewNumber(lf * rf)
	case "/":
		if rf == 0 {
			return nil
		}
		return node.NewNumber(lf / rf)
	case "%":
		if rf == 0 {
			return nil
		}
		li, ri := int64(lf), int64(rf)
		return node.NewNumber(float64(li % ri))
	}
	return nil
}
