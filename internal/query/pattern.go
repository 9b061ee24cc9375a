package query

import "strings"

// TernaryStep is one `cond ? ifTrue` segment of a ternary chain; a final
// default step after the last ':' has a nil IfTrue.
type TernaryStep struct {
	Cond   string
	IfTrue *string
}

// decomposeTernarySteps splits a query "a ? b : c ? d : e" into the steps
// (a, b), (c, d) and the default (e, nil). A query ending in "? x" has no
// default step.
func decomposeTernarySteps(query string) []TernaryStep {
	pieces, _ := splitTopLevel(query, []string{"?"})
	var steps []TernaryStep
	cond := strings.TrimSpace(pieces[0])
	pending := true
	for _, piece := range pieces[1:] {
		ifTrue, next := piece, ""
		idx := findTopLevel(piece, ":")
		if idx >= 0 {
			ifTrue, next = piece[:idx], piece[idx+1:]
		}
		ifTrue = strings.TrimSpace(ifTrue)
		steps = append(steps, TernaryStep{Cond: cond, IfTrue: &ifTrue})
		cond, pending = strings.TrimSpace(next), idx >= 0
	}
	if pending {
		steps = append(steps, TernaryStep{Cond: cond})
	}
	return steps
}

var joinOperatorSymbols = []string{">>=>", "<=<<", ">=<", "<=<", ">=>"}

// joinCondition is one piece of a decomposed join query, with the join
// operator symbol that preceded it (empty for the first piece).
type joinCondition struct {
	Op   string
	Text string
}

// decomposeJoinConditions splits a dictionary-resolved query into segments
// around the five join operator symbols, longest-match first so "<=<<"
// (left-many) isn't mistaken for "<=<" (left-one) plus a stray "<".
func decomposeJoinConditions(query string) []joinCondition {
	parts, ops := splitTopLevel(query, joinOperatorSymbols)
	conds := make([]joinCondition, len(parts))
	for i, p := range parts {
		conds[i] = joinCondition{Text: strings.TrimSpace(p)}
		if i > 0 {
			conds[i].Op = ops[i-1]
		}
	}
	return conds
}

// matchJoinOperation parses "query{keys}" (optionally "query{name:key,...}")
// into its query and comma-separated keys parts.
func matchJoinOperation(text string) (queryPart, keysPart string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasSuffix(text, "}") {
		return "", "", false
	}
	depth := 0
	for i := len(text) - 1; i >= 0; i-- {
		switch text[i] {
		case '}':
			depth++
		case '{':
			depth--
			if depth == 0 {
				queryPart = strings.TrimSpace(text[:i])
				keysPart = strings.TrimSpace(text[i+1 : len(text)-1])
				return queryPart, keysPart, queryPart != "" && keysPart != ""
			}
		}
	}
	return "", "", false
}

// matchDbQuery parses "<collectionName>{<symbol>}<payload>" where symbol is
// "?" (find-one) or "[]" (find-many). collectionName may be empty.
func matchDbQuery(query string) (collection, symbol, payload string, ok bool) {
	i := strings.IndexByte(query, '{')
	if i < 0 {
		return "", "", "", false
	}
	j := strings.IndexByte(query[i:], '}')
	if j < 0 {
		return "", "", "", false
	}
	j += i
	sym := query[i+1 : j]
	if sym != "?" && sym != "[]" {
		return "", "", "", false
	}
	collection = query[:i]
	if !isSimpleIdentOrEmpty(collection) {
		return "", "", "", false
	}
	return collection, sym, query[j+1:], true
}

func isSimpleIdentOrEmpty(s string) bool {
	if s == "" {
		return true
	}
	for _, c := range s {
		if !(c == '_' || c == '.' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}

// getLastElementName returns the trailing path segment's bare name, used
// to derive a default embedding field name for *-many joins, e.g.
// "a.b.things[x=1]*" -> "things".
func getLastElementName(query string) string {
	parts, _ := splitTopLevel(query, []string{"."})
	last := parts[len(parts)-1]
	if i := strings.IndexAny(last, "([{"); i >= 0 {
		last = last[:i]
	}
	return strings.TrimSpace(last)
}

// checkElementName validates that name is a bare identifier suitable as an
// object field name (used for an explicit "arrayField:" join prefix).
func checkElementName(name string) error {
	if name == "" || !isSimpleIdentOrEmpty(name) || strings.Contains(name, ".") {
		return errIllegalArgument("invalid array field name %q", name)
	}
	return nil
}

// matchFunctionCall parses "name(args)" into the function name and the raw
// argument text (not yet split into individual arguments).
func matchFunctionCall(s string) (name, args string, ok bool) {
	s = strings.TrimSpace(s)
	if !strings.HasSuffix(s, ")") {
		return "", "", false
	}
	i := strings.IndexByte(s, '(')
	if i < 0 {
		return "", "", false
	}
	name = strings.TrimSpace(s[:i])
	if name == "" || !isSimpleIdentOrEmpty(name) {
		return "", "", false
	}
	depth := 0
	for k := i; k < len(s); k++ {
		switch s[k] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				if k != len(s)-1 {
					return "", "", false
				}
				return name, s[i+1 : k], true
			}
		}
	}
	return "", "", false
}

// splitArgs splits a function call's argument text on top-level commas.
func splitArgs(args string) []string {
	if strings.TrimSpace(args) == "" {
		return nil
	}
	parts, _ := splitTopLevel(args, []string{","})
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

// separateXmlTags splits s into alternating tag ("<...>") and non-tag
// pieces, used by the XML-aware placeholder scanner.
func separateXmlTags(s string) []string {
	var out []string
	i := 0
	start := 0
	for i < len(s) {
		if s[i] == '<' {
			if i > start {
				out = append(out, s[start:i])
			}
			j := strings.IndexByte(s[i:], '>')
			if j < 0 {
				out = append(out, s[i:])
				return out
			}
			j += i
			out = append(out, s[i:j+1])
			i = j + 1
			start = i
			continue
		}
		i++
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}
