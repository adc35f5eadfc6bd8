// Package render implements the mount/update/unmount primitive.
//
// A Renderer owns the attachment registry: one live Instance per
// dom.Element. Mount constructs a component from a zero-argument Factory,
// assigns its initial props and schedules the first paint. Update merges a
// partial prop patch and schedules a repaint. Unmount disposes the instance
// and releases the element; unmounting an empty element is a no-op.
//
// Painting is deferred through a Scheduler, the equivalent of a microtask
// queue. A paint renders the component to a vdom tree, diffs it against the
// previous paint and hands the result to the Host, then notifies the
// instance's listeners. The renderer never blocks waiting for a paint.
//
//	q := render.NewQueue()
//	r := render.New(render.Config{Host: doc, Scheduler: q})
//	inst, _ := r.Mount(el, NewLabel, render.Props{"text": "hi"}, onRendered)
//	q.Flush() // first paint, onRendered fires
//
// A Renderer is confined to one goroutine, like the plugin that drives it.
package render
