package plugin

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vango-dev/nodeview/internal/errors"
	"github.com/vango-dev/nodeview/pkg/dom"
	"github.com/vango-dev/nodeview/pkg/render"
	"github.com/vango-dev/nodeview/pkg/scope"
)

// DefaultName is the scope name used when none is configured.
const DefaultName = "render"

// Plugin reconciles render requests against mounted instances.
type Plugin struct {
	*scope.Scope

	renderer *render.Renderer
	presets  []Preset

	// owners maps each mounted element to the index of the preset that
	// mounted it. Entries are removed explicitly on unmount.
	owners map[dom.Element]int

	logger *slog.Logger
}

type options struct {
	name       string
	host       render.Host
	scheduler  render.Scheduler
	logger     *slog.Logger
	middleware []scope.Middleware
}

// Option configures a Plugin.
type Option func(*options)

// WithName sets the scope name.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithHost sets the host the renderer paints into.
func WithHost(host render.Host) Option {
	return func(o *options) { o.host = host }
}

// WithScheduler sets the paint scheduler.
func WithScheduler(s render.Scheduler) Option {
	return func(o *options) { o.scheduler = s }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMiddleware wraps the plugin's pipe.
func WithMiddleware(mw ...scope.Middleware) Option {
	return func(o *options) { o.middleware = append(o.middleware, mw...) }
}

// New creates a Plugin with an empty preset chain.
func New(opts ...Option) *Plugin {
	o := options{name: DefaultName}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	p := &Plugin{
		Scope:  scope.New(o.name),
		owners: make(map[dom.Element]int),
		logger: o.logger.With("scope", o.name),
	}
	p.renderer = render.New(render.Config{
		Host:      o.host,
		Scheduler: o.scheduler,
		Logger:    p.logger,
	})

	p.UseMiddleware(o.middleware...)
	p.AddPipe(p.handle)
	return p
}

// Renderer returns the renderer owned by the plugin.
func (p *Plugin) Renderer() *render.Renderer {
	return p.renderer
}

// AddPreset appends preset to the chain. Order is significant: the first
// preset producing a Mount wins. A preset added after the plugin joined a
// parent scope is attached immediately.
func (p *Plugin) AddPreset(preset Preset) {
	p.presets = append(p.presets, preset)
	if p.HasParent() {
		p.attach(preset)
	}
}

// Presets returns the chain in registration order.
func (p *Plugin) Presets() []Preset {
	out := make([]Preset, len(p.presets))
	copy(out, p.presets)
	return out
}

// Owner returns the preset that mounted the instance at el.
func (p *Plugin) Owner(el dom.Element) (Preset, bool) {
	idx, ok := p.owners[el]
	if !ok {
		return nil, false
	}
	return p.presets[idx], true
}

// SetParent links the plugin under parent and attaches every preset in
// chain order.
func (p *Plugin) SetParent(parent *scope.Scope) {
	p.Scope.SetParent(parent)
	for _, preset := range p.presets {
		p.attach(preset)
	}
}

func (p *Plugin) attach(preset Preset) {
	if a, ok := preset.(Attacher); ok {
		a.Attach(p)
	}
}

// handle is the plugin's pipe.
func (p *Plugin) handle(ctx context.Context, s *scope.Signal) (*scope.Signal, error) {
	if s == nil {
		return nil, nil
	}

	switch s.Type {
	case TypeUnmount:
		if el, ok := unmountData(s); ok && !el.IsZero() {
			p.unmount(el)
		}
		return s, nil

	case TypeRender:
		data, ok := renderData(s)
		if !ok || data.Filled {
			return s, nil
		}
		if data.Element.IsZero() {
			return nil, errors.New("E301").WithDetailf("render kind %q", data.Kind)
		}
		handled, err := p.mount(data)
		if err != nil {
			return nil, err
		}
		if !handled {
			return s, nil
		}
		return &scope.Signal{Type: s.Type, Data: data.filled()}, nil
	}

	return s, nil
}

func (p *Plugin) mount(data *RenderData) (bool, error) {
	el := data.Element

	if inst, ok := p.renderer.Get(el); ok {
		idx, owned := p.owners[el]
		if !owned {
			p.logger.Warn("instance without owner", "element", el, "kind", data.Kind)
			return true, nil
		}
		preset := p.presets[idx]
		u, ok := preset.(Updater)
		if !ok {
			return true, nil
		}
		patch, err := u.Update(data, p)
		if err != nil {
			return false, fmt.Errorf("preset %s: update %s: %w", preset.Name(), data.Kind, err)
		}
		if patch != nil {
			p.renderer.Update(inst, patch)
			p.logger.Debug("instance updated", "element", el, "preset", preset.Name(), "kind", data.Kind)
		}
		return true, nil
	}

	for idx, preset := range p.presets {
		prod, ok := preset.(Producer)
		if !ok {
			continue
		}
		m, err := prod.Render(data, p)
		if err != nil {
			return false, fmt.Errorf("preset %s: render %s: %w", preset.Name(), data.Kind, err)
		}
		if m == nil || m.Component == nil {
			continue
		}

		// The owner is recorded first: an immediate scheduler paints, and
		// notifies the parent, before Mount returns.
		p.owners[el] = idx
		rendered := *data
		if _, err := p.renderer.Mount(el, m.Component, m.Props, func() { p.notifyRendered(&rendered) }); err != nil {
			delete(p.owners, el)
			return false, err
		}
		p.logger.Debug("instance mounted", "element", el, "preset", preset.Name(), "kind", data.Kind)
		return true, nil
	}

	p.logger.Debug("render declined", "element", el, "kind", data.Kind)
	return false, nil
}

func (p *Plugin) unmount(el dom.Element) {
	delete(p.owners, el)
	p.renderer.Unmount(el)
}

// notifyRendered tells the parent scope that el completed a paint.
func (p *Plugin) notifyRendered(data *RenderData) {
	parent := p.Parent()
	if parent == nil {
		return
	}
	sig := &scope.Signal{Type: TypeRendered, Data: data}
	if _, err := parent.Emit(context.Background(), sig); err != nil {
		p.logger.Error("rendered signal failed", "element", data.Element, "kind", data.Kind, "error", err)
	}
}
