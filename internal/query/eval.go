package query

import (
	"strconv"
	"strings"

	"github.com/aadamsx/josson/internal/funcs"
	"github.com/aadamsx/josson/internal/node"
)

// Evaluator evaluates queries and statements against a Registry. It is
// the Go counterpart of Jossons/LogicalOpStack/OperationStep: a
// recursive-descent evaluator built on a two-stack (operand/operator)
// reduction for the flat relational/logical/arithmetic grammar.
type Evaluator struct {
	Reg   *Registry
	Funcs funcs.Catalog

	ctxStack []ctxFrame
}

type ctxFrame struct {
	node *node.Node
	idx  int
}

// NewEvaluator returns an Evaluator over reg using the given function
// catalog (pass funcs.Builtins() for the standard catalog).
func NewEvaluator(reg *Registry, cat funcs.Catalog) *Evaluator {
	return &Evaluator{Reg: reg, Funcs: cat}
}

func (ev *Evaluator) pushContext(n *node.Node, idx int) { ev.ctxStack = append(ev.ctxStack, ctxFrame{n, idx}) }
func (ev *Evaluator) popContext()                       { ev.ctxStack = ev.ctxStack[:len(ev.ctxStack)-1] }
func (ev *Evaluator) topContext() *ctxFrame {
	if len(ev.ctxStack) == 0 {
		return nil
	}
	return &ev.ctxStack[len(ev.ctxStack)-1]
}

// EvaluateQuery evaluates a full ternary-chained query, per spec.md §4.1
// and Jossons.evaluateQuery: the result is the first step whose condition
// is truthy/non-empty, honouring the ifTrue-is-null cascade-to-next-step
// rule documented in SPEC_FULL.md's "ternary fallback" note.
func (ev *Evaluator) EvaluateQuery(query string) (*node.Node, error) {
	steps := decomposeTernarySteps(query)
	var lastIfTrue *string
	for _, step := range steps {
		lastIfTrue = step.IfTrue
		val, err := ev.EvaluateStatement(step.Cond)
		if err != nil {
			return nil, err
		}
		if step.IfTrue == nil {
			return val, nil
		}
		if val == nil {
			continue
		}
		if *step.IfTrue == "" {
			if !(val.IsText() && val.Text() == "") {
				return val, nil
			}
			continue
		}
		if node.AsBool(val) {
			res, err := ev.EvaluateStatement(*step.IfTrue)
			if err != nil {
				return nil, err
			}
			if res != nil {
				return res, nil
			}
		}
	}
	if lastIfTrue == nil {
		return nil, nil
	}
	return node.NewText(""), nil
}

// EvaluateStatement evaluates a single relational/logical/arithmetic
// statement (no ternary), per spec.md §4.1.
func (ev *Evaluator) EvaluateStatement(statement string) (*node.Node, error) {
	statement = strings.TrimSpace(statement)
	if v, ok := parseLiteral(statement); ok {
		return v, nil
	}
	operands, operators, err := tokenizeStatement(statement)
	if err != nil {
		return nil, err
	}
	// Repeated operands within this one statement are evaluated once.
	memo := make(map[string]*node.Node)
	values := make([]*node.Node, len(operands))
	for i, opnd := range operands {
		if v, cached := memo[opnd]; cached {
			values[i] = v
			continue
		}
		v, err := ev.evaluateOperand(opnd)
		if err != nil {
			return nil, err
		}
		memo[opnd] = v
		values[i] = v
	}
	return reduceStack(values, operators)
}

// reduceStack implements the two-stack precedence reduction described in
// spec.md §4.1.
func reduceStack(values []*node.Node, operators []string) (*node.Node, error) {
	operandStack := []*node.Node{values[0]}
	var operatorStack []string
	reduceOne := func() error {
		op := operatorStack[len(operatorStack)-1]
		operatorStack = operatorStack[:len(operatorStack)-1]
		right := operandStack[len(operandStack)-1]
		left := operandStack[len(operandStack)-2]
		operandStack = operandStack[:len(operandStack)-2]
		result, err := applyOperator(left, op, right)
		if err != nil {
			return err
		}
		operandStack = append(operandStack, result)
		return nil
	}
	for i, op := range operators {
		for len(operatorStack) > 0 && precedence(op) <= precedence(operatorStack[len(operatorStack)-1]) {
			if err := reduceOne(); err != nil {
				return nil, err
			}
		}
		operatorStack = append(operatorStack, op)
		operandStack = append(operandStack, values[i+1])
	}
	for len(operatorStack) > 0 {
		if err := reduceOne(); err != nil {
			return nil, err
		}
	}
	return operandStack[0], nil
}

func precedence(op string) int {
	switch op {
	case "*", "/", "%":
		return 5
	case "+", "-":
		return 4
	case "=", "!=", ">", ">=", "<", "<=":
		return 3
	case "&":
		return 2
	case "|":
		return 1
	}
	return 0
}

func applyOperator(left *node.Node, op string, right *node.Node) (*node.Node, error) {
	switch op {
	case "=", "!=", ">", ">=", "<", "<=":
		return relationalCompare(left, op, right), nil
	case "&":
		return node.NewBool(node.AsBool(left) && node.AsBool(right)), nil
	case "|":
		return node.NewBool(node.AsBool(left) || node.AsBool(right)), nil
	case "+", "-", "*", "/", "%":
		return arithmetic(left, op, right), nil
	}
	return nil, errIllegalArgument("unknown operator %q", op)
}

// parseLiteral recognizes a quoted string, number, boolean or null literal,
// per spec.md §4.1's grammar for Operand.
func parseLiteral(text string) (*node.Node, bool) {
	switch text {
	case "true":
		return node.NewBool(true), true
	case "false":
		return node.NewBool(false), true
	case "null":
		return node.NewNull(), true
	}
	if len(text) >= 2 && text[0] == '\'' && scanQuoted(text, 0) == len(text) {
		return node.NewText(unquote(text)), true
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return node.NewNumberRepr(f, text), true
	}
	return nil, false
}

// tokenizeStatement splits a flat relational/logical/arithmetic statement
// into its operands and the operators between them, honoring quoted
// strings, bracket/paren nesting, and the sign-vs-operator ambiguity of a
// leading '+'/'-' (treated as part of the operand when it is not preceded
// by a completed operand).
func tokenizeStatement(s string) ([]string, []string, error) {
	var operands []string
	var operators []string
	start := 0
	expectOperand := true
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t':
			i++
			continue
		case c == '\'':
			i = scanQuoted(s, i)
			expectOperand = false
			continue
		case c == '(' || c == '[':
			open := c
			depth := 1
			j := i + 1
			for j < len(s) && depth > 0 {
				if s[j] == '\'' {
					j = scanQuoted(s, j)
					continue
				}
				switch s[j] {
				case '(', '[':
					depth++
				case ')', ']':
					depth--
				}
				j++
			}
			// A '*'/'@' directly after a closing ']' is the filter's
			// collect-all/divert-all mode suffix (spec.md §4.2), not a
			// multiplication operator - it belongs to this operand.
			if open == '[' && j < len(s) && (s[j] == '*' || s[j] == '@') {
				j++
			}
			i = j
			expectOperand = false
			continue
		}
		if op := matchStatementOperator(s, i, expectOperand); op != "" {
			operands = append(operands, strings.TrimSpace(s[start:i]))
			operators = append(operators, op)
			i += len(op)
			start = i
			expectOperand = true
			continue
		}
		expectOperand = false
		i++
	}
	operands = append(operands, strings.TrimSpace(s[start:]))
	if len(operands) != len(operators)+1 {
		return nil, nil, errIllegalArgument("malformed statement %q", s)
	}
	for _, o := range operands {
		if o == "" {
			return nil, nil, errIllegalArgument("empty operand in statement %q", s)
		}
	}
	return operands, operators, nil
}

var statementOperators = []string{"!=", ">=", "<=", "=", ">", "<", "&", "|", "+", "-", "*", "/", "%"}

// matchStatementOperator returns the operator symbol at s[i], or "" if none
// matches there. A unary '+'/'-' immediately before an operand (rather than
// between two operands) is not treated as a binary operator.
func matchStatementOperator(s string, i int, expectOperand bool) string {
	op := matchAny(s, i, statementOperators)
	if op == "" {
		return ""
	}
	if (op == "+" || op == "-") && expectOperand {
		return ""
	}
	return op
}

// evaluateOperand resolves a single operand: a unary-negated sub-operand, a
// parenthesized sub-statement, a literal, a function call applied to the
// current implicit context, a path relative to the
// current filter context (leading '.'), or a dataset lookup followed by
// path navigation, per spec.md §4.1/§4.2/§5.
func (ev *Evaluator) evaluateOperand(text string) (*node.Node, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errIllegalArgument("empty operand")
	}
	if text[0] == '!' {
		v, err := ev.evaluateOperand(strings.TrimSpace(text[1:]))
		if err != nil {
			return nil, err
		}
		return node.NewBool(!node.AsBool(v)), nil
	}
	if text[0] == '(' && text[len(text)-1] == ')' && isBalancedParen(text) {
		return ev.EvaluateStatement(text[1 : len(text)-1])
	}
	if v, ok := parseLiteral(text); ok {
		return v, nil
	}

	var result *node.Node
	var err error
	switch {
	case strings.HasPrefix(text, "."):
		ctx := ev.topContext()
		if ctx == nil {
			return nil, errIllegalArgument("relative path %q used outside a filter context", text)
		}
		rest := strings.TrimPrefix(text, ".")
		if rest == "" {
			result = ctx.node
		} else {
			result, err = ev.Navigate(ctx.node, rest)
		}
	default:
		result, err = ev.evaluateDatasetPath(text)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// evaluateDatasetPath resolves "name.path.to.value" by looking the leading
// dataset name up in the registry and navigating the remainder of the path
// against it, falling back to the current implicit context (e.g. inside an
// array filter predicate) when no leading segment names a known dataset.
func (ev *Evaluator) evaluateDatasetPath(text string) (*node.Node, error) {
	name, rest := splitLeadingName(text)
	if name != "" {
		if v, known := ev.Reg.Lookup(name); known {
			if v == nil {
				return nil, nil
			}
			if rest == "" {
				return v, nil
			}
			return ev.Navigate(v, rest)
		}
	}
	if ctx := ev.topContext(); ctx != nil {
		if text == "?" {
			return node.NewNumber(float64(ctx.idx)), nil
		}
		return ev.Navigate(ctx.node, text)
	}
	if name != "" && !ev.Reg.Has(name) {
		return nil, unresolved(name)
	}
	return nil, nil
}

// splitLeadingName splits "name.rest.of.path" into its leading bare
// identifier and the remaining path, or ("", text) if text does not start
// with a bare identifier (e.g. it starts with a function call or filter).
func splitLeadingName(text string) (name, rest string) {
	i := 0
	for i < len(text) {
		c := text[i]
		if c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || (i > 0 && c >= '0' && c <= '9') {
			i++
			continue
		}
		break
	}
	if i == 0 {
		return "", text
	}
	name = text[:i]
	if i == len(text) {
		return name, ""
	}
	switch text[i] {
	case '.':
		return name, text[i+1:]
	case '[':
		// "name[filter]..." applies the filter directly to the dataset
		// itself (spec.md §4.2's step grammar allows the very first path
		// step to carry a filter), so the bracket stays part of rest.
		return name, text[i:]
	}
	return "", text
}

func isBalancedParen(text string) bool {
	depth := 0
	for i, c := range text {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i == len(text)-1
			}
		}
	}
	return false
}

// callFunction dispatches a function-call path step to the evaluator's
// function catalog, evaluating each argument as its own statement against
// the current implicit context before invoking it.
func (ev *Evaluator) callFunction(cur *node.Node, name string, rawArgs string) (*node.Node, error) {
	fn, ok := ev.Funcs.Lookup(name)
	if !ok {
		return nil, errIllegalArgument("unknown function %q", name)
	}
	argTexts := splitArgs(rawArgs)
	args := make([]*node.Node, len(argTexts))
	for i, a := range argTexts {
		v, err := ev.EvaluateStatement(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return fn(cur, args)
}
