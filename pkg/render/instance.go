package render

import (
	"github.com/vango-dev/nodeview/pkg/dom"
	"github.com/vango-dev/nodeview/pkg/vdom"
)

// Instance is one live component mounted at an attachment point.
type Instance struct {
	element   dom.Element
	component Component
	props     Props
	changed   Props
	tree      *vdom.VNode
	hids      *vdom.HIDGenerator
	listeners []func()
	scheduled bool
	disposed  bool
	paints    int
}

// Element returns the attachment point the instance is mounted at.
func (i *Instance) Element() dom.Element {
	return i.element
}

// Component returns the mounted component.
func (i *Instance) Component() Component {
	return i.component
}

// Props returns a copy of the last applied prop snapshot.
func (i *Instance) Props() Props {
	return i.props.Clone()
}

// Tree returns the tree produced by the latest paint, or nil before the first one.
func (i *Instance) Tree() *vdom.VNode {
	return i.tree
}

// Paints returns the number of completed paints.
func (i *Instance) Paints() int {
	return i.paints
}

// Disposed reports whether the instance has been unmounted.
func (i *Instance) Disposed() bool {
	return i.disposed
}

// OnUpdated registers fn to run after every completed paint.
func (i *Instance) OnUpdated(fn func()) {
	i.listeners = append(i.listeners, fn)
}

func (i *Instance) assign(patch Props) {
	for _, key := range patch.Keys() {
		value := patch[key]
		i.props[key] = value
		i.changed[key] = value
		i.component.SetProp(key, value)
	}
}
