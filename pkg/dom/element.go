package dom

import (
	"strconv"
	"sync/atomic"
)

// Element identifies an attachment point. The zero value means "none".
type Element uint64

// IsZero reports whether e is the zero element.
func (e Element) IsZero() bool {
	return e == 0
}

// String returns the decimal form of the element ID.
func (e Element) String() string {
	return strconv.FormatUint(uint64(e), 10)
}

// Allocator issues fresh element IDs. IDs are never reused, so a stale ID
// held by the editor can never alias a newer attachment point.
type Allocator struct {
	last atomic.Uint64
}

// NewAllocator creates an Allocator starting at 1.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// Next returns a new, unique element.
func (a *Allocator) Next() Element {
	return Element(a.last.Add(1))
}

// Observe records that id is in use so later IDs never collide with it.
// Used when IDs come from outside (replay scripts, remote editors).
func (a *Allocator) Observe(id Element) {
	for {
		cur := a.last.Load()
		if uint64(id) <= cur || a.last.CompareAndSwap(cur, uint64(id)) {
			return
		}
	}
}
