package vdom

import "strconv"

// HIDGenerator generates hydration IDs for the elements of one tree.
// A generator is owned by a single mounted instance, so it is not locked.
type HIDGenerator struct {
	counter uint32
}

// NewHIDGenerator creates a new HIDGenerator.
func NewHIDGenerator() *HIDGenerator {
	return &HIDGenerator{}
}

// Next returns the next hydration ID (e.g., "h1", "h2", ...).
func (g *HIDGenerator) Next() string {
	g.counter++
	return "h" + strconv.FormatUint(uint64(g.counter), 10)
}

// Current returns the current counter value without incrementing.
func (g *HIDGenerator) Current() uint32 {
	return g.counter
}

// AssignHIDs gives every element and text node without a HID a fresh one.
// Nodes that already carry a HID (copied over by Diff) keep it.
func AssignHIDs(node *VNode, gen *HIDGenerator) {
	if node == nil {
		return
	}
	if node.HID == "" && (node.Kind == KindElement || node.Kind == KindText) {
		node.HID = gen.Next()
	}
	for _, child := range node.Children {
		AssignHIDs(child, gen)
	}
}

// FindByHID returns the node with the given HID, or nil.
func FindByHID(node *VNode, hid string) *VNode {
	return node.Find(func(n *VNode) bool { return n.HID == hid })
}
