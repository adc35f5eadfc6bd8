// Package dataflow carries values between node ports. An Output broadcasts
// to any number of subscribers; an Input accepts at most one connection.
package dataflow

import (
	"sort"
	"sync"

	"github.com/vango-dev/nodeview/internal/errors"
)

// SubID identifies a subscription within one Output.
type SubID uint64

// Output is a broadcast port.
type Output[T any] struct {
	name string

	// subs is the subscription arena, keyed by id.
	subs   map[SubID]func(T)
	nextID SubID

	// last holds the most recent value, if any.
	last    T
	hasLast bool

	mu sync.RWMutex
}

// NewOutput creates an output port.
func NewOutput[T any](name string) *Output[T] {
	return &Output[T]{name: name, subs: make(map[SubID]func(T))}
}

// Name returns the port name.
func (o *Output[T]) Name() string {
	return o.name
}

// Subscribe registers fn and returns its id. A nil fn is ignored and
// yields the zero id.
func (o *Output[T]) Subscribe(fn func(T)) SubID {
	if fn == nil {
		return 0
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	o.nextID++
	o.subs[o.nextID] = fn
	return o.nextID
}

// Unsubscribe removes a subscription. Unknown ids are ignored.
func (o *Output[T]) Unsubscribe(id SubID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.subs, id)
}

// Subscribers returns the number of live subscriptions.
func (o *Output[T]) Subscribers() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.subs)
}

// Emit sends v to every subscriber in subscription order.
func (o *Output[T]) Emit(v T) {
	o.mu.Lock()
	o.last, o.hasLast = v, true
	ids := make([]SubID, 0, len(o.subs))
	for id := range o.subs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]func(T), len(ids))
	for i, id := range ids {
		fns[i] = o.subs[id]
	}
	o.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Last returns the most recently emitted value.
func (o *Output[T]) Last() (T, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.last, o.hasLast
}

// Input is a single-connection port.
type Input[T any] struct {
	name    string
	handler func(T)

	source *Output[T]
	sub    SubID

	value    T
	hasValue bool

	mu sync.Mutex
}

// NewInput creates an input port. handler, if not nil, runs for every
// received value.
func NewInput[T any](name string, handler func(T)) *Input[T] {
	return &Input[T]{name: name, handler: handler}
}

// Name returns the port name.
func (in *Input[T]) Name() string {
	return in.name
}

// Connect subscribes the input to out. An input that is already connected
// fails with E401 and keeps its existing connection.
func (in *Input[T]) Connect(out *Output[T]) error {
	if out == nil {
		return errors.Newf(errors.CategoryDataflow, "input %q: nil output", in.name)
	}

	in.mu.Lock()
	if in.source != nil {
		current := in.source.name
		in.mu.Unlock()
		return errors.New("E401").WithDetailf("input %q is connected to %q", in.name, current)
	}
	in.source = out
	in.sub = out.Subscribe(in.receive)
	in.mu.Unlock()
	return nil
}

// Disconnect drops the current connection. It is a no-op when the input
// is not connected.
func (in *Input[T]) Disconnect() {
	in.mu.Lock()
	source, id := in.source, in.sub
	in.source, in.sub = nil, 0
	in.mu.Unlock()

	if source != nil {
		source.Unsubscribe(id)
	}
}

// Connected reports whether the input holds a subscription.
func (in *Input[T]) Connected() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.source != nil
}

// Value returns the last value received.
func (in *Input[T]) Value() (T, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.value, in.hasValue
}

func (in *Input[T]) receive(v T) {
	in.mu.Lock()
	in.value, in.hasValue = v, true
	handler := in.handler
	in.mu.Unlock()

	if handler != nil {
		handler(v)
	}
}
