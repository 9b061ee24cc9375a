package query

import (
	"strings"

	"github.com/aadamsx/josson/internal/node"
)

type joinArity int

const (
	arityOne joinArity = iota
	arityMany
)

type joinPlan struct {
	arity  joinArity
	inner  bool // true only for ">=<"; left/right-one are non-inner
	swap   bool // true for the right-* variants, normalised to their left-* twin
}

var joinPlans = map[string]joinPlan{
	">=<":  {arity: arityOne, inner: true},
	"<=<":  {arity: arityOne},
	">=>":  {arity: arityOne, swap: true},
	"<=<<": {arity: arityMany},
	">>=>": {arity: arityMany, swap: true},
}

// TryJoin attempts to evaluate query as a join expression (spec.md §4.3):
// two or more "query{keys}" segments separated by one of the five join
// operator symbols. ok is false when query does not have this shape, in
// which case the caller should fall through to a plain statement/query
// evaluation.
func (ev *Evaluator) TryJoin(query string) (result *node.Node, ok bool, err error) {
	conds := decomposeJoinConditions(query)
	if len(conds) < 2 {
		return nil, false, nil
	}
	leftQuery, leftKeysPart, matched := matchJoinOperation(conds[0].Text)
	if !matched {
		return nil, false, nil
	}
	leftNode, err := ev.EvaluateQuery(leftQuery)
	if err != nil {
		return nil, true, err
	}
	leftArrayField, leftKeys := parseKeyList(leftKeysPart)
	acc := leftNode
	accArrayField := leftArrayField
	accLastName := getLastElementName(leftQuery)

	for _, cond := range conds[1:] {
		rightQuery, rightKeysPart, matched := matchJoinOperation(cond.Text)
		if !matched {
			return nil, true, errIllegalArgument("malformed join segment %q", cond.Text)
		}
		rightNode, err := ev.EvaluateQuery(rightQuery)
		if err != nil {
			return nil, true, err
		}
		rightArrayField, rightKeys := parseKeyList(rightKeysPart)
		if rightArrayField == "" {
			rightArrayField = getLastElementName(rightQuery)
		}
		if accArrayField == "" {
			accArrayField = accLastName
		}

		plan, known := joinPlans[cond.Op]
		if !known {
			return nil, true, errIllegalArgument("unknown join operator %q", cond.Op)
		}

		// Jossons.joinNodes swaps an inner-one join's sides when the left
		// operand is an array and the right is a bare object, so the
		// object drives a single merged row instead of wrapping as an
		// array of rows.
		swap := plan.swap
		if plan.inner && plan.arity == arityOne && !acc.IsObject() && rightNode.IsObject() {
			swap = !swap
		}
		leftSide, leftSideKeys, leftField := acc, leftKeys, accArrayField
		rightSide, rightSideKeys, rightField := rightNode, rightKeys, rightArrayField
		if swap {
			leftSide, rightSide = rightSide, leftSide
			leftSideKeys, rightSideKeys = rightSideKeys, leftSideKeys
			leftField, rightField = rightField, leftField
		}

		acc, err = ev.executeJoin(leftSide, leftSideKeys, plan, rightSide, rightSideKeys, rightField)
		if err != nil {
			return nil, true, err
		}
		accArrayField = leftField
		accLastName = rightQuery
		leftKeys = leftSideKeys
	}
	return acc, true, nil
}

// parseKeyList splits a join operation's comma-separated key list, peeling
// off an optional "arrayField:" prefix from the first key.
func parseKeyList(keysPart string) (arrayField string, keys []string) {
	parts := splitArgs(keysPart)
	if len(parts) > 0 {
		if idx := strings.IndexByte(parts[0], ':'); idx >= 0 {
			candidate := strings.TrimSpace(parts[0][:idx])
			if checkElementName(candidate) == nil {
				arrayField = candidate
				parts[0] = strings.TrimSpace(parts[0][idx+1:])
			}
		}
	}
	return arrayField, parts
}

// executeJoin implements the per-row construction rule of §4.3 for a
// single pairwise join: for every left object, build a synthetic
// "rightKey=leftValue & ..." predicate and evaluate it against the right
// side in first (one) or collect-all (many) mode.
func (ev *Evaluator) executeJoin(left *node.Node, leftKeys []string, plan joinPlan, right *node.Node, rightKeys []string, arrayField string) (*node.Node, error) {
	if len(leftKeys) == 0 || len(rightKeys) == 0 || len(leftKeys) != len(rightKeys) {
		return nil, errIllegalArgument("join key list size mismatch: %d vs %d", len(leftKeys), len(rightKeys))
	}
	leftArr := asRows(left)
	rightArr := asRows(right)
	if leftArr == nil || rightArr == nil {
		return nil, errIllegalArgument("join operands must be container nodes")
	}

	mode := ModeFirst
	if plan.arity == arityMany {
		mode = ModeCollectAll
	}

	var out []*node.Node
	for _, row := range leftArr.Elems() {
		predicate, err := ev.buildJoinPredicate(row, leftKeys, rightKeys)
		if err != nil {
			return nil, err
		}
		matched, err := ev.matchAgainst(rightArr, predicate, mode)
		if err != nil {
			return nil, err
		}
		switch plan.arity {
		case arityOne:
			if matched == nil || !matched.IsObject() {
				if plan.inner {
					continue
				}
				out = append(out, row)
				continue
			}
			merged := node.DeepCopy(row)
			merged.SetAll(matched)
			out = append(out, merged)
		case arityMany:
			merged := node.DeepCopy(row)
			if merged.IsObject() {
				field := arrayField
				if field == "" {
					field = "items"
				}
				merged.Set(field, matched)
			}
			out = append(out, merged)
		}
	}
	if left.IsObject() {
		if len(out) == 0 {
			return nil, nil
		}
		return out[0], nil
	}
	return node.NewArray(out...), nil
}

// buildJoinPredicate renders "rightKey1=<quoted leftValue1> & ...", the
// key-equality filter evaluated against the right side's rows.
func (ev *Evaluator) buildJoinPredicate(row *node.Node, leftKeys, rightKeys []string) (string, error) {
	var parts []string
	for i, lk := range leftKeys {
		v, err := ev.Navigate(row, lk)
		if err != nil {
			return "", err
		}
		var lit string
		switch {
		case v == nil || v.IsNull():
			lit = "null"
		case v.IsText():
			lit = quoteLit(v.Text())
		default:
			lit = node.AsText(v)
		}
		parts = append(parts, rightKeys[i]+"="+lit)
	}
	return strings.Join(parts, " & "), nil
}

// matchAgainst evaluates predicate against every element of arr, collecting
// according to mode (mirrors navigateFilter's predicate loop, but over an
// already-resolved array rather than a path step).
func (ev *Evaluator) matchAgainst(arr *node.Node, predicate string, mode FilterMode) (*node.Node, error) {
	var matched []*node.Node
	for i, e := range arr.Elems() {
		ok, err := ev.evaluateFilterPredicate(predicate, e, i)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, e)
			if mode == ModeFirst {
				break
			}
		}
	}
	if mode == ModeFirst {
		if len(matched) == 0 {
			return nil, nil
		}
		return matched[0], nil
	}
	return node.NewArray(matched...), nil
}

// asRows normalises a join operand to an array of rows: an object wraps to
// a single-element array, an array passes through, anything else is not a
// valid join operand.
func asRows(n *node.Node) *node.Node {
	if n == nil {
		return nil
	}
	if n.IsArray() {
		return n
	}
	if n.IsObject() {
		return node.NewArray(n)
	}
	return nil
}
