package query

import (
	"strconv"
	"strings"

	"github.com/aadamsx/josson/internal/node"
)

// FilterMode controls how an array-filter step shapes its result, per
// spec.md §4.2.
type FilterMode int

const (
	ModeFirst FilterMode = iota
	ModeCollectAll
	ModeDivertAll
)

type stepKind int

const (
	stepName stepKind = iota
	stepFilter
	stepFunc
)

type pathStep struct {
	kind   stepKind
	name   string
	filter string
	mode   FilterMode
	fnName string
	fnArgs string
}

// parsePath splits a dotted path into its steps.
func parsePath(path string) ([]pathStep, error) {
	segs, _ := splitTopLevel(path, []string{"."})
	steps := make([]pathStep, 0, len(segs))
	for _, seg := range segs {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		step, err := parsePathSegment(seg)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func parsePathSegment(seg string) (pathStep, error) {
	if fn, args, ok := matchFunctionCall(seg); ok {
		return pathStep{kind: stepFunc, fnName: fn, fnArgs: args}, nil
	}
	i := strings.IndexByte(seg, '[')
	if i < 0 {
		return pathStep{kind: stepName, name: seg}, nil
	}
	depth := 0
	close := -1
	for k := i; k < len(seg); k++ {
		switch seg[k] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				close = k
			}
		}
		if close >= 0 {
			break
		}
	}
	if close < 0 {
		return pathStep{}, errIllegalArgument("unbalanced filter brackets in %q", seg)
	}
	mode := ModeFirst
	if close+1 < len(seg) {
		switch seg[close+1] {
		case '*':
			mode = ModeCollectAll
		case '@':
			mode = ModeDivertAll
		}
	}
	return pathStep{
		kind:   stepFilter,
		name:   strings.TrimSpace(seg[:i]),
		filter: strings.TrimSpace(seg[i+1 : close]),
		mode:   mode,
	}, nil
}

// Navigate resolves path against n, per spec.md §4.2.
func (ev *Evaluator) Navigate(n *node.Node, path string) (*node.Node, error) {
	steps, err := parsePath(path)
	if err != nil {
		return nil, err
	}
	cur := n
	diverted := false
	for _, st := range steps {
		cur, diverted, err = ev.navigateStep(cur, st, diverted)
		if err != nil {
			return nil, err
		}
		if cur == nil {
			return nil, nil
		}
	}
	return cur, nil
}

// navigateStep applies one path step to cur. diverted tracks whether the
// current value is an array produced by a divert-all ("@") filter: a
// collect-all array is one result that downstream steps treat as a single
// container, while a divert-all array stays marked so a later function
// step maps across its elements instead of receiving the whole array.
func (ev *Evaluator) navigateStep(cur *node.Node, st pathStep, diverted bool) (*node.Node, bool, error) {
	switch st.kind {
	case stepFunc:
		if diverted && cur.IsArray() {
			out := node.NewArray()
			for _, e := range cur.Elems() {
				v, err := ev.callFunction(e, st.fnName, st.fnArgs)
				if err != nil {
					return nil, false, err
				}
				out.Append(v)
			}
			return out, true, nil
		}
		v, err := ev.callFunction(cur, st.fnName, st.fnArgs)
		return v, false, err
	case stepName:
		return navigateName(cur, st.name), diverted, nil
	case stepFilter:
		target := cur
		if st.name != "" {
			target = navigateName(cur, st.name)
		}
		v, err := ev.navigateFilter(target, st)
		return v, st.mode == ModeDivertAll, err
	}
	return nil, false, nil
}

// navigateName implements the plain name step: object field lookup, or a
// per-element map across an array.
func navigateName(cur *node.Node, name string) *node.Node {
	if cur == nil {
		return nil
	}
	switch cur.Kind() {
	case node.Object:
		return cur.Get(name)
	case node.Array:
		out := node.NewArray()
		for _, e := range cur.Elems() {
			if v := navigateName(e, name); v != nil {
				out.Append(v)
			}
		}
		return out
	}
	return nil
}

// navigateFilter implements the array-filter step: index filters,
// multi-key join filters, and general boolean predicates, in first /
// collect-all / divert-all mode.
func (ev *Evaluator) navigateFilter(target *node.Node, st pathStep) (*node.Node, error) {
	if target == nil {
		return nil, nil
	}
	arr := target
	if target.IsObject() {
		arr = node.NewArray(target)
	} else if !target.IsArray() {
		return nil, nil
	}

	if idx, ok := parseIndexFilter(st.filter); ok {
		return arr.At(idx), nil
	}

	var matched []*node.Node
	elems := arr.Elems()
	for i, e := range elems {
		ok, err := ev.evaluateFilterPredicate(st.filter, e, i)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, e)
		}
	}
	switch st.mode {
	case ModeFirst:
		if len(matched) == 0 {
			return nil, nil
		}
		return matched[0], nil
	case ModeCollectAll, ModeDivertAll:
		return node.NewArray(matched...), nil
	}
	return nil, nil
}

func parseIndexFilter(filter string) (int, bool) {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return 0, false
	}
	n, err := strconv.Atoi(filter)
	if err != nil {
		return 0, false
	}
	return n, true
}

// evaluateFilterPredicate evaluates filter as a statement with elem pushed
// as the implicit context and idx as the implicit index variable.
func (ev *Evaluator) evaluateFilterPredicate(filter string, elem *node.Node, idx int) (bool, error) {
	ev.pushContext(elem, idx)
	defer ev.popContext()
	result, err := ev.EvaluateStatement(filter)
	if err != nil {
		if _, ok := AsUnresolvedDataset(err); ok {
			return false, err
		}
		return false, nil
	}
	return node.AsBool(result), nil
}
