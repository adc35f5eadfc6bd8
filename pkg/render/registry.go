package render

import (
	"sort"

	"github.com/vango-dev/nodeview/pkg/dom"
)

// Registry maps attachment points to their live instance.
type Registry struct {
	instances map[dom.Element]*Instance
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{instances: make(map[dom.Element]*Instance)}
}

// Get returns the instance mounted at el.
func (r *Registry) Get(el dom.Element) (*Instance, bool) {
	inst, ok := r.instances[el]
	return inst, ok
}

// Insert records inst at el, replacing any previous entry.
func (r *Registry) Insert(el dom.Element, inst *Instance) {
	r.instances[el] = inst
}

// Remove drops the entry for el, if any.
func (r *Registry) Remove(el dom.Element) {
	delete(r.instances, el)
}

// Len returns the number of mounted instances.
func (r *Registry) Len() int {
	return len(r.instances)
}

// Elements returns the occupied elements in ascending order.
func (r *Registry) Elements() []dom.Element {
	out := make([]dom.Element, 0, len(r.instances))
	for el := range r.instances {
		out = append(out, el)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
