package query

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// UnresolvedDatasetError is raised by the pure evaluator when a required
// dataset name is absent from the registry and not explicitly poisoned to
// nil. The resolution driver catches it and drives a callback round.
type UnresolvedDatasetError struct {
	Name string
}

func (e *UnresolvedDatasetError) Error() string {
	return fmt.Sprintf("unresolved dataset %q", e.Name)
}

func unresolved(name string) error { return &UnresolvedDatasetError{Name: name} }

// AsUnresolvedDataset unwraps err into an *UnresolvedDatasetError, if any.
func AsUnresolvedDataset(err error) (*UnresolvedDatasetError, bool) {
	u, ok := err.(*UnresolvedDatasetError)
	return u, ok
}

// IllegalArgumentError reports malformed query input: bad join arity,
// non-object constructor argument, malformed function arguments.
type IllegalArgumentError struct {
	Msg string
}

func (e *IllegalArgumentError) Error() string { return e.Msg }

func errIllegalArgument(format string, args ...interface{}) error {
	return &IllegalArgumentError{Msg: fmt.Sprintf(format, args...)}
}

// NoValuePresentError is the terminal failure of a merge: some dataset
// names never resolved, and/or some placeholders evaluated to nothing and
// were rewritten as "**query**" in the partially merged text.
type NoValuePresentError struct {
	UnresolvedDatasets       map[string]struct{}
	UnresolvablePlaceholders map[string]struct{}
	PartialMergedText        string
}

func newNoValuePresent(datasets, placeholders map[string]struct{}, text string) *NoValuePresentError {
	return &NoValuePresentError{
		UnresolvedDatasets:       datasets,
		UnresolvablePlaceholders: placeholders,
		PartialMergedText:        text,
	}
}

func (e *NoValuePresentError) Error() string {
	var b strings.Builder
	b.WriteString("no value present")
	if len(e.UnresolvedDatasets) > 0 {
		b.WriteString("; unresolved datasets: ")
		b.WriteString(strings.Join(sortedKeys(e.UnresolvedDatasets), ", "))
	}
	if len(e.UnresolvablePlaceholders) > 0 {
		b.WriteString("; unresolvable placeholders: ")
		b.WriteString(strings.Join(sortedKeys(e.UnresolvablePlaceholders), ", "))
	}
	return b.String()
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	// simple insertion sort; these sets are small (placeholder/dataset counts)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func setOf(items ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

func union(a, b map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		out[k] = struct{}{}
	}
	for k := range b {
		out[k] = struct{}{}
	}
	return out
}

// joinErrors combines independent failures collected within one
// resolution round (e.g. several join batches failing for unrelated
// reasons) without losing any of them, unlike returning only the first.
func joinErrors(errs ...error) error {
	var combined error
	for _, e := range errs {
		if e != nil {
			combined = multierr.Append(combined, e)
		}
	}
	return combined
}
