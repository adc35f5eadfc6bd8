package render

import (
	"log/slog"

	"github.com/vango-dev/nodeview/internal/errors"
	"github.com/vango-dev/nodeview/pkg/dom"
	"github.com/vango-dev/nodeview/pkg/vdom"
)

// Host receives painted trees. *dom.Document is the default.
type Host interface {
	Insert(el dom.Element, tree *vdom.VNode)
	Patch(el dom.Element, tree *vdom.VNode, patches []vdom.Patch)
	Remove(el dom.Element)
}

// Config configures a Renderer.
type Config struct {
	// Host receives painted trees. Defaults to a fresh dom.Document.
	Host Host

	// Scheduler defers paints. Defaults to a Queue the caller must flush.
	Scheduler Scheduler

	// Logger receives debug output. Defaults to slog.Default().
	Logger *slog.Logger
}

// Renderer mounts, updates and unmounts component instances.
type Renderer struct {
	registry  *Registry
	host      Host
	scheduler Scheduler
	logger    *slog.Logger
}

// New creates a Renderer.
func New(config Config) *Renderer {
	if config.Host == nil {
		config.Host = dom.NewDocument()
	}
	if config.Scheduler == nil {
		config.Scheduler = NewQueue()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Renderer{
		registry:  NewRegistry(),
		host:      config.Host,
		scheduler: config.Scheduler,
		logger:    config.Logger,
	}
}

// Host returns the host the renderer paints into.
func (r *Renderer) Host() Host {
	return r.host
}

// Scheduler returns the scheduler paints are deferred through.
func (r *Renderer) Scheduler() Scheduler {
	return r.scheduler
}

// Registry returns the attachment registry. Callers must not mutate it.
func (r *Renderer) Registry() *Registry {
	return r.registry
}

// Get returns the instance mounted at el.
func (r *Renderer) Get(el dom.Element) (*Instance, bool) {
	return r.registry.Get(el)
}

// Mount creates a component at el, assigns props and schedules its first
// paint. onRendered, if not nil, runs after every completed paint.
// Mounting over an occupied element fails with E201.
func (r *Renderer) Mount(el dom.Element, factory Factory, props Props, onRendered func()) (*Instance, error) {
	if _, ok := r.registry.Get(el); ok {
		return nil, errors.New("E201").WithDetailf("element %d already holds an instance", el)
	}

	component := factory()
	if component == nil {
		return nil, errors.New("E202").WithDetailf("element %d", el)
	}

	inst := &Instance{
		element:   el,
		component: component,
		props:     make(Props, len(props)),
		changed:   make(Props, len(props)),
		hids:      vdom.NewHIDGenerator(),
	}
	inst.assign(props)
	if onRendered != nil {
		inst.OnUpdated(onRendered)
	}

	r.registry.Insert(el, inst)
	r.logger.Debug("instance mounted", "element", el, "props", len(props))

	r.requestPaint(inst)
	return inst, nil
}

// Update merges patch into the instance's props and schedules a repaint.
// Updating a disposed instance is a no-op.
func (r *Renderer) Update(inst *Instance, patch Props) {
	if inst == nil || inst.disposed {
		return
	}
	inst.assign(patch)
	r.requestPaint(inst)
}

// Unmount disposes the instance at el and releases the element.
// It is a no-op when nothing is mounted there.
func (r *Renderer) Unmount(el dom.Element) {
	inst, ok := r.registry.Get(el)
	if !ok {
		return
	}

	inst.disposed = true
	if d, ok := inst.component.(Disposer); ok {
		d.Dispose()
	}
	r.host.Remove(el)
	r.registry.Remove(el)
	r.logger.Debug("instance unmounted", "element", el, "paints", inst.paints)
}

// requestPaint schedules a paint unless one is already pending.
func (r *Renderer) requestPaint(inst *Instance) {
	if inst.scheduled {
		return
	}
	inst.scheduled = true
	r.scheduler.Schedule(func() { r.paint(inst) })
}

func (r *Renderer) paint(inst *Instance) {
	inst.scheduled = false
	if inst.disposed {
		return
	}

	tree := inst.component.Render()
	if tree == nil {
		tree = vdom.Fragment()
	}

	if inst.tree == nil {
		vdom.AssignHIDs(tree, inst.hids)
		r.host.Insert(inst.element, tree)
	} else {
		patches := vdom.Diff(inst.tree, tree)
		vdom.AssignHIDs(tree, inst.hids)
		r.host.Patch(inst.element, tree, patches)
	}
	inst.tree = tree
	inst.paints++

	changed := inst.changed
	inst.changed = make(Props)
	if u, ok := inst.component.(Updater); ok {
		u.Updated(changed)
	}
	for _, fn := range inst.listeners {
		fn()
	}
}
