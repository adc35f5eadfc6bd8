package render

import (
	"testing"

	"github.com/vango-dev/nodeview/internal/errors"
	"github.com/vango-dev/nodeview/pkg/dom"
	"github.com/vango-dev/nodeview/pkg/vdom"
)

// label renders its "text" prop and records lifecycle calls.
type label struct {
	ComponentBase
	updated  []Props
	disposed bool
}

func (l *label) Render() *vdom.VNode {
	return vdom.Span(vdom.Class("label"), l.PropString("text"))
}

func (l *label) Updated(changed Props) { l.updated = append(l.updated, changed) }
func (l *label) Dispose()              { l.disposed = true }

func newTestRenderer() (*Renderer, *dom.Document, *Queue) {
	doc := dom.NewDocument()
	q := NewQueue()
	return New(Config{Host: doc, Scheduler: q}), doc, q
}

func TestMountPaintsOnFlush(t *testing.T) {
	r, doc, q := newTestRenderer()
	var comp *label
	rendered := 0

	inst, err := r.Mount(1, func() Component {
		comp = &label{}
		return comp
	}, Props{"text": "hello"}, func() { rendered++ })
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}

	if got, ok := r.Get(1); !ok || got != inst {
		t.Fatal("Get(1) should return the mounted instance")
	}
	if doc.Has(1) {
		t.Error("host should not be painted before the scheduler runs")
	}
	if rendered != 0 {
		t.Error("onRendered fired before first paint")
	}

	if n := q.Flush(); n != 1 {
		t.Errorf("Flush() ran %d tasks, want 1", n)
	}
	if rendered != 1 {
		t.Errorf("rendered = %d, want 1", rendered)
	}
	html, _ := doc.HTML(1)
	if html != `<span class="label">hello</span>` {
		t.Errorf("HTML = %q", html)
	}
	if inst.Paints() != 1 || inst.Tree() == nil || inst.Tree().HID == "" {
		t.Errorf("instance after paint: paints=%d tree=%v", inst.Paints(), inst.Tree())
	}
	if len(comp.updated) != 1 || comp.updated[0]["text"] != "hello" {
		t.Errorf("Updated hook = %v", comp.updated)
	}
}

func TestMountOccupiedFails(t *testing.T) {
	r, _, _ := newTestRenderer()
	factory := func() Component { return &label{} }

	if _, err := r.Mount(1, factory, nil, nil); err != nil {
		t.Fatalf("first Mount() error = %v", err)
	}
	_, err := r.Mount(1, factory, nil, nil)
	if !errors.HasCode(err, "E201") {
		t.Errorf("second Mount() error = %v, want E201", err)
	}
}

func TestMountNilComponent(t *testing.T) {
	r, _, _ := newTestRenderer()
	_, err := r.Mount(1, func() Component { return nil }, nil, nil)
	if !errors.HasCode(err, "E202") {
		t.Errorf("Mount() error = %v, want E202", err)
	}
	if _, ok := r.Get(1); ok {
		t.Error("failed mount must not register an instance")
	}
}

func TestUpdateMergesAndRepaints(t *testing.T) {
	r, doc, q := newTestRenderer()
	rendered := 0
	inst, _ := r.Mount(3, func() Component { return &label{} }, Props{"text": "a", "color": "red"}, func() { rendered++ })
	q.Flush()

	r.Update(inst, Props{"text": "b"})
	r.Update(inst, Props{"text": "c"})
	if q.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1 (repaints coalesce)", q.Pending())
	}
	q.Flush()

	props := inst.Props()
	if props["text"] != "c" || props["color"] != "red" {
		t.Errorf("Props() = %v, want text=c color=red", props)
	}
	if rendered != 2 {
		t.Errorf("rendered = %d, want 2", rendered)
	}
	if doc.Paints(3) != 2 || doc.PatchCount(3) != 1 {
		t.Errorf("Paints=%d PatchCount=%d, want 2, 1", doc.Paints(3), doc.PatchCount(3))
	}
	html, _ := doc.HTML(3)
	if html != `<span class="label">c</span>` {
		t.Errorf("HTML = %q", html)
	}
}

func TestUnmount(t *testing.T) {
	r, doc, q := newTestRenderer()
	var comp *label
	inst, _ := r.Mount(5, func() Component { comp = &label{}; return comp }, nil, nil)
	q.Flush()

	r.Unmount(5)
	if _, ok := r.Get(5); ok {
		t.Error("Get(5) should be absent after Unmount")
	}
	if doc.Has(5) {
		t.Error("host content should be removed")
	}
	if !comp.disposed || !inst.Disposed() {
		t.Error("component should be disposed")
	}

	r.Update(inst, Props{"text": "late"})
	if q.Pending() != 0 {
		t.Error("updates to disposed instances must not schedule paints")
	}
}

func TestUnmountBeforeFirstPaint(t *testing.T) {
	r, doc, q := newTestRenderer()
	rendered := 0
	r.Mount(8, func() Component { return &label{} }, nil, func() { rendered++ })
	r.Unmount(8)
	q.Flush()

	if rendered != 0 || doc.Has(8) {
		t.Error("pending paint of an unmounted instance must be dropped")
	}
}

func TestAbsentElementIsNotAnError(t *testing.T) {
	r, _, _ := newTestRenderer()
	if _, ok := r.Get(42); ok {
		t.Error("Get of never-mounted element should be absent")
	}
	r.Unmount(42)
	r.Update(nil, Props{"x": 1})
	if r.Registry().Len() != 0 {
		t.Error("registry should stay empty")
	}
}

func TestImmediateScheduler(t *testing.T) {
	r := New(Config{Scheduler: Immediate{}})
	rendered := 0
	inst, err := r.Mount(1, func() Component { return &label{} }, Props{"text": "x"}, func() { rendered++ })
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	if rendered != 1 || inst.Paints() != 1 {
		t.Errorf("Immediate should paint during Mount: rendered=%d paints=%d", rendered, inst.Paints())
	}
	if doc, ok := r.Host().(*dom.Document); !ok || !doc.Has(1) {
		t.Error("default host should be a Document holding the paint")
	}
}

func TestQueueRunsNestedWork(t *testing.T) {
	q := NewQueue()
	var order []int
	q.Schedule(func() {
		order = append(order, 1)
		q.Schedule(func() { order = append(order, 3) })
	})
	q.Schedule(func() { order = append(order, 2) })

	if n := q.Flush(); n != 3 {
		t.Errorf("Flush() = %d, want 3", n)
	}
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("order = %v, want [1 2 3]", order)
	}
}

func TestRegistryElementsSorted(t *testing.T) {
	reg := NewRegistry()
	reg.Insert(9, &Instance{})
	reg.Insert(2, &Instance{})
	els := reg.Elements()
	if len(els) != 2 || els[0] != 2 || els[1] != 9 {
		t.Errorf("Elements() = %v", els)
	}
	reg.Remove(9)
	reg.Remove(9)
	if reg.Len() != 1 {
		t.Errorf("Len() = %d, want 1", reg.Len())
	}
}

func TestPropsHelpers(t *testing.T) {
	p := Props{"b": 1, "a": 2}
	clone := p.Clone()
	clone.Merge(Props{"a": 3, "c": 4})
	if p["a"] != 2 {
		t.Error("Clone must not alias the original")
	}
	keys := clone.Keys()
	if len(keys) != 3 || keys[0] != "a" || keys[2] != "c" {
		t.Errorf("Keys() = %v", keys)
	}
}
