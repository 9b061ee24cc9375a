package query

import (
	"strings"

	"github.com/aadamsx/josson/internal/node"
)

// placeholderSpan is one {{...}} region found by scanPlaceholder: [start,end)
// covers the opening brace pair through the closing "}}", inner is the text
// between them.
type placeholderSpan struct {
	start, end int
	inner      string
	malformed  bool // true when no closing "}}" was found; end==len(s)
}

// scanPlaceholder finds the next placeholder in s starting at or after
// from, per spec.md §4.4 point 1: the opener is the last '{' in a run of
// two or more consecutive '{' characters; the closer is the first "}}"
// after it.
func scanPlaceholder(s string, from int) (span placeholderSpan, ok bool) {
	i := strings.Index(s[from:], "{{")
	if i < 0 {
		return placeholderSpan{}, false
	}
	i += from
	for i+2 < len(s) && s[i+2] == '{' {
		i++
	}
	contentStart := i + 2
	closeIdx := strings.Index(s[contentStart:], "}}")
	if closeIdx < 0 {
		return placeholderSpan{start: i, end: len(s), inner: s[contentStart:], malformed: true}, true
	}
	closeIdx += contentStart
	return placeholderSpan{start: i, end: closeIdx + 2, inner: s[contentStart:closeIdx]}, true
}

// fillPassResult is the outcome of one linear placeholder-substitution
// pass over a template.
type fillPassResult struct {
	text                     string
	unresolvedDatasets       map[string]struct{}
	unresolvablePlaceholders map[string]struct{}
	progressed               bool
}

// FillInPlaceholderLoop implements spec.md §4.4: a linear scan that
// evaluates every placeholder against ev's registry (no dictionary/data
// callbacks — those belong to the resolver driver in resolver.go),
// recursing on its own output until no further progress is possible.
func (ev *Evaluator) FillInPlaceholderLoop(template string, xmlMode bool) (string, *NoValuePresentError) {
	pass := ev.fillPass(template, xmlMode)
	failed := len(pass.unresolvedDatasets) > 0 || len(pass.unresolvablePlaceholders) > 0
	if !failed && !(pass.progressed && strings.Contains(pass.text, "{{")) {
		return pass.text, nil
	}
	if pass.progressed && strings.Contains(pass.text, "{{") {
		nested, nestedErr := ev.FillInPlaceholderLoop(pass.text, xmlMode)
		if nestedErr == nil {
			return nested, nil
		}
		return nested, newNoValuePresent(
			union(pass.unresolvedDatasets, nestedErr.UnresolvedDatasets),
			union(pass.unresolvablePlaceholders, nestedErr.UnresolvablePlaceholders),
			nestedErr.PartialMergedText,
		)
	}
	return pass.text, newNoValuePresent(pass.unresolvedDatasets, pass.unresolvablePlaceholders, pass.text)
}

// fillPass runs a single left-to-right scan, per the outcomes enumerated in
// spec.md §4.4 point 3.
func (ev *Evaluator) fillPass(template string, xmlMode bool) fillPassResult {
	var b strings.Builder
	unresolvedDatasets := make(map[string]struct{})
	unresolvablePlaceholders := make(map[string]struct{})
	appended := false
	progressed := false

	pos := 0
	for {
		span, found := scanPlaceholder(template, pos)
		if !found {
			b.WriteString(template[pos:])
			if template[pos:] != "" {
				appended = true
			}
			break
		}
		if span.start > pos {
			b.WriteString(template[pos:span.start])
			appended = true
		}
		if span.malformed {
			unresolvablePlaceholders[span.inner] = struct{}{}
			b.WriteString("**")
			b.WriteString(span.inner)
			appended = true
			progressed = true
			pos = span.end
			break
		}

		query, tagText := span.inner, ""
		if xmlMode {
			query, tagText = extractXmlQuery(span.inner)
		}
		b.WriteString(tagText)
		val, err := ev.EvaluateQuery(query)
		switch {
		case err != nil:
			if u, isUnresolved := AsUnresolvedDataset(err); isUnresolved {
				unresolvedDatasets[u.Name] = struct{}{}
				b.WriteString("{{")
				b.WriteString(span.inner)
				b.WriteString("}}")
				appended = true
			} else {
				unresolvablePlaceholders[query] = struct{}{}
				b.WriteString("**")
				b.WriteString(query)
				b.WriteString("**")
				appended = true
				progressed = true
			}
		case val == nil:
			ev.Reg.Put(query, nil)
			unresolvablePlaceholders[query] = struct{}{}
			b.WriteString("**")
			b.WriteString(query)
			b.WriteString("**")
			appended = true
			progressed = true
		default:
			b.WriteString(renderValue(val))
			appended = true
			progressed = true
		}
		pos = span.end
	}

	if !appended {
		return fillPassResult{text: template, unresolvedDatasets: unresolvedDatasets, unresolvablePlaceholders: unresolvablePlaceholders}
	}
	return fillPassResult{
		text:                     b.String(),
		unresolvedDatasets:       unresolvedDatasets,
		unresolvablePlaceholders: unresolvablePlaceholders,
		progressed:               progressed,
	}
}

// renderValue renders a resolved node for template substitution: value
// nodes use their text form, array nodes their JSON serialization.
func renderValue(n *node.Node) string {
	if n.IsArray() {
		return node.Marshal(n)
	}
	return node.AsText(n)
}

// extractXmlQuery partitions a placeholder's inner text into its query
// residue and the XML tag runs that should be re-emitted as literal
// template text (spec.md §4.4 point 2).
func extractXmlQuery(inner string) (query string, tagText string) {
	pieces := separateXmlTags(inner)
	var q, t strings.Builder
	for _, p := range pieces {
		if strings.HasPrefix(p, "<") && strings.HasSuffix(p, ">") {
			t.WriteString(p)
		} else {
			q.WriteString(unescapeXml(p))
		}
	}
	return q.String(), t.String()
}

func unescapeXml(s string) string {
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&quot;", "\"")
	s = strings.ReplaceAll(s, "&apos;", "'")
	s = strings.ReplaceAll(s, "&amp;", "&")
	return s
}
