package render

import (
	"sort"

	"github.com/vango-dev/nodeview/pkg/vdom"
)

// Props is a key/value prop snapshot.
type Props map[string]any

// Clone returns a shallow copy of p.
func (p Props) Clone() Props {
	out := make(Props, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Merge applies patch on top of p in place; later keys overwrite earlier ones.
func (p Props) Merge(patch Props) {
	for k, v := range patch {
		p[k] = v
	}
}

// Keys returns the prop names in sorted order.
func (p Props) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Component is a UI component the renderer can mount.
type Component interface {
	// SetProp assigns a single prop.
	SetProp(key string, value any)

	// Render produces the component's current tree.
	Render() *vdom.VNode
}

// Factory constructs a component with zero arguments.
type Factory func() Component

// Updater is implemented by components that want the lifecycle
// notification fired after each completed paint.
type Updater interface {
	Updated(changed Props)
}

// Disposer is implemented by components holding resources to release on unmount.
type Disposer interface {
	Dispose()
}

// ComponentBase stores assigned props. Embed it and read props back with
// Prop or the typed helpers.
type ComponentBase struct {
	props Props
}

// SetProp implements Component.
func (b *ComponentBase) SetProp(key string, value any) {
	if b.props == nil {
		b.props = make(Props)
	}
	b.props[key] = value
}

// Prop returns the assigned value for key.
func (b *ComponentBase) Prop(key string) any {
	return b.props[key]
}

// PropString returns the prop as a string, or "".
func (b *ComponentBase) PropString(key string) string {
	s, _ := b.props[key].(string)
	return s
}

// PropBool returns the prop as a bool, or false.
func (b *ComponentBase) PropBool(key string) bool {
	v, _ := b.props[key].(bool)
	return v
}
