package plugin

import "github.com/vango-dev/nodeview/pkg/render"

// Preset is a pluggable strategy supplying components for some render kinds.
// Capabilities are optional and discovered by type assertion.
type Preset interface {
	Name() string
}

// Mount is what a preset's render step yields: a component factory and its
// initial props.
type Mount struct {
	Component render.Factory
	Props     render.Props
}

// Producer is implemented by presets that can mount components.
// A nil Mount declines the request.
type Producer interface {
	Render(data *RenderData, p *Plugin) (*Mount, error)
}

// Updater is implemented by presets that patch instances they mounted.
// A nil patch leaves the instance untouched.
type Updater interface {
	Update(data *RenderData, p *Plugin) (render.Props, error)
}

// Attacher is implemented by presets needing shared services once the
// plugin joins a parent scope.
type Attacher interface {
	Attach(p *Plugin)
}

// Funcs adapts plain functions to a preset. Nil fields are treated as
// declining (render, update) or absent (attach).
type Funcs struct {
	ID         string
	RenderFunc func(data *RenderData, p *Plugin) (*Mount, error)
	UpdateFunc func(data *RenderData, p *Plugin) (render.Props, error)
	AttachFunc func(p *Plugin)
}

// Name implements Preset.
func (f *Funcs) Name() string {
	if f.ID == "" {
		return "funcs"
	}
	return f.ID
}

// Render implements Producer.
func (f *Funcs) Render(data *RenderData, p *Plugin) (*Mount, error) {
	if f.RenderFunc == nil {
		return nil, nil
	}
	return f.RenderFunc(data, p)
}

// Update implements Updater.
func (f *Funcs) Update(data *RenderData, p *Plugin) (render.Props, error) {
	if f.UpdateFunc == nil {
		return nil, nil
	}
	return f.UpdateFunc(data, p)
}

// Attach implements Attacher.
func (f *Funcs) Attach(p *Plugin) {
	if f.AttachFunc != nil {
		f.AttachFunc(p)
	}
}
