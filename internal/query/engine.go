package query

import (
	"github.com/aadamsx/josson/internal/funcs"
	"github.com/aadamsx/josson/internal/node"
)

// Engine is the top-level object described in spec.md §6: a dataset
// registry plus an expression evaluator over a fixed function catalog,
// exposing the placeholder-merge and query-evaluation entry points.
type Engine struct {
	Reg *Registry
	Ev  *Evaluator
}

// NewEngine returns an empty Engine with an empty registry, for building up
// via PutDataset.
func NewEngine(cat funcs.Catalog) *Engine {
	reg := NewRegistry()
	return &Engine{Reg: reg, Ev: NewEvaluator(reg, cat)}
}

// NewEngineFromObject seeds the registry from an object node's fields.
func NewEngineFromObject(obj *node.Node, cat funcs.Catalog) (*Engine, error) {
	reg, err := NewRegistryFromObject(obj)
	if err != nil {
		return nil, err
	}
	return &Engine{Reg: reg, Ev: NewEvaluator(reg, cat)}, nil
}

// NewEngineFromText seeds the registry from a name->text mapping.
func NewEngineFromText(m map[string]string, cat funcs.Catalog) *Engine {
	reg := NewRegistryFromText(m)
	return &Engine{Reg: reg, Ev: NewEvaluator(reg, cat)}
}

// NewEngineFromInt seeds the registry from a name->int mapping.
func NewEngineFromInt(m map[string]int64, cat funcs.Catalog) *Engine {
	reg := NewRegistryFromInt(m)
	return &Engine{Reg: reg, Ev: NewEvaluator(reg, cat)}
}

// PutDataset stores a dataset by name (a nil node poisons the name).
func (e *Engine) PutDataset(name string, n *node.Node) { e.Reg.Put(name, n) }

// FillInPlaceholder merges template using only the registry: it still runs
// the resolver driver of spec.md §4.5, but with no dictionary/data
// callbacks, so any dataset name the registry does not already know is
// immediately poisoned (rather than left as a retried "{{name}}") on the
// first round - this is what lets an undefined name surface as a rewritten
// "**name**" placeholder in NoValuePresentError's partial text instead of
// only ever being reported as an unresolved dataset name.
func (e *Engine) FillInPlaceholder(template string) (string, error) {
	r := NewResolver(nil, nil, nil)
	return r.ResolveTemplate(e.Ev, template, false)
}

// FillInXmlPlaceholder is FillInPlaceholder's XML-aware variant.
func (e *Engine) FillInXmlPlaceholder(template string) (string, error) {
	r := NewResolver(nil, nil, nil)
	return r.ResolveTemplate(e.Ev, template, true)
}

// FillInPlaceholderWithResolver runs the full multi-round resolution loop
// described in spec.md §4.5.
func (e *Engine) FillInPlaceholderWithResolver(template string, dict DictionaryFinder, data DataFinder, progress *Progress) (string, error) {
	r := NewResolver(dict, data, progress)
	return r.ResolveTemplate(e.Ev, template, false)
}

// FillInXmlPlaceholderWithResolver is the XML-aware variant.
func (e *Engine) FillInXmlPlaceholderWithResolver(template string, dict DictionaryFinder, data DataFinder, progress *Progress) (string, error) {
	r := NewResolver(dict, data, progress)
	return r.ResolveTemplate(e.Ev, template, true)
}

// EvaluateQuery evaluates query against the registry only, failing with
// *UnresolvedDatasetError if a required dataset is absent.
func (e *Engine) EvaluateQuery(query string) (*node.Node, error) {
	if result, ok, err := e.Ev.TryJoin(query); ok {
		return result, err
	}
	return e.Ev.EvaluateQuery(query)
}

// EvaluateQueryWithResolver evaluates query, driving the resolver's
// callbacks for any dataset the registry does not already know.
func (e *Engine) EvaluateQueryWithResolver(query string, dict DictionaryFinder, data DataFinder, progress *Progress) (*node.Node, error) {
	r := NewResolver(dict, data, progress)
	if result, ok, err := e.Ev.TryJoin(query); ok {
		return result, err
	}
	return r.EvaluateQueryWithResolver(e.Ev, query)
}
