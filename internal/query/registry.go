// Package query implements the resolution engine: placeholder scanning,
// query evaluation (path navigation, ternary/logical/relational
// expressions, joins), and the callback-driven multi-round resolver.
package query

import "github.com/aadamsx/josson/internal/node"

// Registry is the dataset name -> node mapping described in spec.md §3.
// Presence with a nil *node.Node means "known unresolvable" (poisons
// further lookups for that name within one merge); absence means
// "unknown", which triggers the resolver callbacks.
type Registry struct {
	data map[string]*entry
}

type entry struct {
	node   *node.Node
	absent bool // true once resolution has been attempted and failed
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{data: make(map[string]*entry)}
}

// NewRegistryFromObject seeds a registry from an object node, one dataset
// per field, as in the Jossons.create(JsonNode) constructor.
func NewRegistryFromObject(obj *node.Node) (*Registry, error) {
	r := NewRegistry()
	if obj == nil {
		return r, nil
	}
	if !obj.IsObject() {
		return nil, errIllegalArgument("constructor argument is not an object node")
	}
	for _, m := range obj.Members() {
		r.Put(m.Key, m.Value)
	}
	return r, nil
}

// NewRegistryFromText seeds a registry from a name->text mapping.
func NewRegistryFromText(m map[string]string) *Registry {
	r := NewRegistry()
	for k, v := range m {
		r.Put(k, node.NewText(v))
	}
	return r
}

// NewRegistryFromInt seeds a registry from a name->int mapping.
func NewRegistryFromInt(m map[string]int64) *Registry {
	r := NewRegistry()
	for k, v := range m {
		r.Put(k, node.NewNumberRepr(float64(v), itoa(v)))
	}
	return r
}

// Put stores a dataset by name. A nil value marks the name as known
// unresolvable, per the registry invariant in spec.md §3.
func (r *Registry) Put(name string, n *node.Node) {
	r.data[name] = &entry{node: n, absent: n == nil}
}

// Lookup returns (value, known). known is false when name has never been
// stored (the "unknown" state that should trigger a resolver
// callback); when known is true, value may still be nil ("known
// unresolvable").
func (r *Registry) Lookup(name string) (*node.Node, bool) {
	e, ok := r.data[name]
	if !ok {
		return nil, false
	}
	return e.node, true
}

// Has reports whether name has any entry, resolved or poisoned.
func (r *Registry) Has(name string) bool {
	_, ok := r.data[name]
	return ok
}

// Names returns every dataset name currently present, resolved or
// poisoned, in no particular order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.data))
	for name := range r.data {
		names = append(names, name)
	}
	return names
}

// ToObject snapshots every resolved (non-poisoned) dataset into a single
// object node keyed by name, for use by internal/bundle.
func (r *Registry) ToObject() *node.Node {
	obj := node.NewObject()
	for name, e := range r.data {
		if e.absent {
			continue
		}
		obj.Set(name, e.node)
	}
	return obj
}

func itoa(v int64) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
