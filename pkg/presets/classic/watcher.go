package classic

import (
	"context"
	"sort"

	"github.com/vango-dev/nodeview/pkg/dataflow"
	"github.com/vango-dev/nodeview/pkg/dom"
	"github.com/vango-dev/nodeview/pkg/plugin"
	"github.com/vango-dev/nodeview/pkg/scope"
)

// SocketRef identifies a socket on screen.
type SocketRef struct {
	Element dom.Element `json:"element"`
	NodeID  string      `json:"nodeId"`
	Side    Side        `json:"side"`
	Key     string      `json:"key"`
}

// SocketEvent reports a socket appearing on screen or going away.
type SocketEvent struct {
	Ref     SocketRef
	Removed bool
}

// SocketWatcher tracks which sockets completed a paint. It listens on the
// editor scope for "rendered" and "unmount" signals and publishes every
// change on Changes.
type SocketWatcher struct {
	sockets map[dom.Element]SocketRef
	changes *dataflow.Output[SocketEvent]
}

// NewSocketWatcher creates an empty watcher.
func NewSocketWatcher() *SocketWatcher {
	return &SocketWatcher{
		sockets: make(map[dom.Element]SocketRef),
		changes: dataflow.NewOutput[SocketEvent]("sockets"),
	}
}

// Changes is the output carrying socket events. Repaints of an unchanged
// socket publish nothing.
func (w *SocketWatcher) Changes() *dataflow.Output[SocketEvent] {
	return w.changes
}

// Pipe observes signals without altering them.
func (w *SocketWatcher) Pipe(ctx context.Context, s *scope.Signal) (*scope.Signal, error) {
	if s == nil {
		return nil, nil
	}
	switch s.Type {
	case plugin.TypeRendered:
		data, ok := s.Data.(*plugin.RenderData)
		if !ok || data.Kind != KindSocket {
			break
		}
		if sock, ok := payloadAs[Socket](data.Payload); ok {
			w.track(SocketRef{
				Element: data.Element,
				NodeID:  sock.NodeID,
				Side:    sock.Side,
				Key:     sock.Key,
			})
		}
	case plugin.TypeUnmount:
		switch d := s.Data.(type) {
		case *plugin.UnmountData:
			if d != nil {
				w.forget(d.Element)
			}
		case plugin.UnmountData:
			w.forget(d.Element)
		}
	}
	return s, nil
}

func (w *SocketWatcher) track(ref SocketRef) {
	if prev, ok := w.sockets[ref.Element]; ok && prev == ref {
		return
	}
	w.sockets[ref.Element] = ref
	w.changes.Emit(SocketEvent{Ref: ref})
}

func (w *SocketWatcher) forget(el dom.Element) {
	ref, ok := w.sockets[el]
	if !ok {
		return
	}
	delete(w.sockets, el)
	w.changes.Emit(SocketEvent{Ref: ref, Removed: true})
}

// Find returns the element of the socket with the given address.
func (w *SocketWatcher) Find(nodeID string, side Side, key string) (dom.Element, bool) {
	for el, ref := range w.sockets {
		if ref.NodeID == nodeID && ref.Side == side && ref.Key == key {
			return el, true
		}
	}
	return 0, false
}

// Sockets returns every tracked socket ordered by element.
func (w *SocketWatcher) Sockets() []SocketRef {
	out := make([]SocketRef, 0, len(w.sockets))
	for _, ref := range w.sockets {
		out = append(out, ref)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Element < out[j].Element })
	return out
}

// Len returns the number of tracked sockets.
func (w *SocketWatcher) Len() int {
	return len(w.sockets)
}
