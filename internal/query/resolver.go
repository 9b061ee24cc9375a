package query

import (
	"fmt"

	"github.com/aadamsx/josson/internal/node"
)

// DictionaryFinder maps an unresolved dataset name to a query string that
// defines it, or found=false if the caller has no definition.
type DictionaryFinder func(name string) (query string, found bool)

// DataFinder resolves a DB-query pattern's collection name and payload to
// a dataset, or returns a nil node if the collection has no such record.
type DataFinder func(collection, payload string) (*node.Node, error)

// Resolver drives the multi-round resolution loop of spec.md §4.5: it
// interleaves placeholder scanning, query evaluation, and on-demand
// dataset loading via caller callbacks, stopping via a cycle detector when
// a dictionary chain is self-referential.
type Resolver struct {
	Dictionary DictionaryFinder
	Data       DataFinder
	Progress   *Progress

	history []string
	errs    error // accumulated non-fatal per-name failures, via multierr
}

// Errs returns every non-fatal failure accumulated across resolution
// rounds (dictionary lookup errors, join failures) as a single combined
// error, or nil if none occurred. These do not abort the merge - a
// poisoned name is still reported through NoValuePresentError - but a
// caller diagnosing why a name went unresolved can inspect the detail
// here instead of just seeing "Unresolvable name" in the progress log.
func (r *Resolver) Errs() error { return r.errs }

// NewResolver returns a Resolver over the given callbacks. progress may
// be nil, in which case diagnostics are discarded.
func NewResolver(dict DictionaryFinder, data DataFinder, progress *Progress) *Resolver {
	if progress == nil {
		progress = NewProgress()
	}
	return &Resolver{Dictionary: dict, Data: data, Progress: progress}
}

// ResolveTemplate implements resolveTemplate from spec.md §4.5.
func (r *Resolver) ResolveTemplate(ev *Evaluator, template string, xmlMode bool) (string, error) {
	defer func() {
		if r.Progress.AutoMarkEnd {
			r.Progress.MarkEnd()
		}
	}()
	for {
		text, failure := ev.FillInPlaceholderLoop(template, xmlMode)
		if failure == nil {
			return text, nil
		}
		progressed := r.resolveRound(ev, failure.UnresolvedDatasets)
		if !progressed {
			return failure.PartialMergedText, failure
		}
		template = failure.PartialMergedText
		r.Progress.nextRound()
	}
}

// EvaluateQueryWithResolver mirrors ResolveTemplate but returns the final
// node for a single query rather than a merged template, per spec.md
// §4.5's description of the join planner's sub-query entry point.
func (r *Resolver) EvaluateQueryWithResolver(ev *Evaluator, query string) (*node.Node, error) {
	defer func() {
		if r.Progress.AutoMarkEnd {
			r.Progress.MarkEnd()
		}
	}()
	for {
		val, err := ev.EvaluateQuery(query)
		if err == nil {
			r.Progress.addQueryResult(val)
			return val, nil
		}
		u, ok := AsUnresolvedDataset(err)
		if !ok {
			return nil, err
		}
		progressed := r.resolveRound(ev, setOf(u.Name))
		if !progressed {
			return nil, unresolved(u.Name)
		}
		r.Progress.nextRound()
	}
}

// resolveRound processes every unresolved dataset name reported by one
// failing pass, per spec.md §4.5 steps 3-4, and reports whether any name
// in names became known (resolved or poisoned) in the registry.
func (r *Resolver) resolveRound(ev *Evaluator, names map[string]struct{}) bool {
	before := make(map[string]bool, len(names))
	for name := range names {
		before[name] = ev.Reg.Has(name)
	}

	var batch []batchEntry
	for _, name := range sortedKeys(names) {
		if before[name] {
			continue // already resolved by an earlier name's dictionary chain this round
		}
		if r.checkCycle(name) {
			ev.Reg.Put(name, nil)
			r.Progress.addResolvedNode(name, nil)
			continue
		}
		query, found := "", false
		if r.Dictionary != nil {
			query, found = r.Dictionary(name)
		}
		if !found || query == "" {
			ev.Reg.Put(name, nil)
			r.Progress.addResolvedNode(name, nil)
			continue
		}
		resolvedQuery, qerr := r.ResolveTemplate(ev, query, false)
		if qerr != nil {
			ev.Reg.Put(name, nil)
			r.Progress.addResolvedNode(name, nil)
			r.errs = joinErrors(r.errs, fmt.Errorf("dictionary query for %q: %w", name, qerr))
			continue
		}
		if collection, symbol, payload, ok := matchDbQuery(resolvedQuery); ok {
			if collection == "" {
				collection = name
			}
			r.Progress.addResolvingFrom(name, resolvedQuery)
			n, derr := r.callDataFinder(collection, symbol, payload)
			if derr != nil {
				r.errs = joinErrors(r.errs, fmt.Errorf("data finder for %q: %w", name, derr))
			}
			ev.Reg.Put(name, n)
			r.Progress.addResolvedNode(name, n)
			continue
		}
		if result, isJoin, jerr := ev.TryJoin(resolvedQuery); isJoin {
			if jerr != nil {
				ev.Reg.Put(name, nil)
				r.Progress.addResolvedNode(name, nil)
				r.errs = joinErrors(r.errs, fmt.Errorf("join for %q: %w", name, jerr))
				continue
			}
			ev.Reg.Put(name, result)
			r.Progress.addResolvedNode(name, result)
			continue
		}
		batch = append(batch, batchEntry{name: name, query: resolvedQuery})
	}
	r.resolveBatch(ev, batch)

	for name := range names {
		if ev.Reg.Has(name) {
			return true
		}
	}
	return false
}

type batchEntry struct {
	name  string
	query string
}

// resolveBatch evaluates every queued named-query from this round, per
// spec.md §4.5 step 4.
func (r *Resolver) resolveBatch(ev *Evaluator, batch []batchEntry) {
	for _, e := range batch {
		r.Progress.addResolvingFrom(e.name, e.query)
		val, err := ev.EvaluateQuery(e.query)
		if err != nil {
			if _, ok := AsUnresolvedDataset(err); ok {
				continue // retried next round; registry stays unknown for name
			}
			ev.Reg.Put(e.name, nil)
			r.Progress.addResolvedNode(e.name, nil)
			r.errs = joinErrors(r.errs, fmt.Errorf("named query %q: %w", e.name, err))
			continue
		}
		ev.Reg.Put(e.name, val)
		r.Progress.addResolvedNode(e.name, val)
	}
}

func (r *Resolver) callDataFinder(collection, symbol, payload string) (*node.Node, error) {
	if r.Data == nil {
		return nil, nil
	}
	// symbol rides along as a suffix on collection ("name?" or "name[]") so
	// a DataFinder can tell a find-one request from a find-many one without
	// a third parameter.
	return r.Data(collection+symbol, payload)
}

// checkCycle implements spec.md §4.5's repeating-suffix cycle detector: n
// is pushed onto a linear name history; if the last k entries equal the k
// entries before them, for some k up to half the history length, the
// history is declared cyclic.
func (r *Resolver) checkCycle(n string) bool {
	r.history = append(r.history, n)
	size := len(r.history)
	h := size / 2
	for k := 1; k <= h; k++ {
		prevStart := size - 2*k
		if prevStart < 0 {
			continue
		}
		suffixStart := size - k
		equal := true
		for i := 0; i < k; i++ {
			if r.history[prevStart+i] != r.history[suffixStart+i] {
				equal = false
				break
			}
		}
		if equal {
			return true
		}
	}
	return false
}
