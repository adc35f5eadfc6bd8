// Package classic renders the standard editor pieces: nodes, sockets,
// connections and controls.
package classic

import (
	"log/slog"

	"github.com/vango-dev/nodeview/pkg/plugin"
	"github.com/vango-dev/nodeview/pkg/render"
)

// Name is the catalog name of the preset.
const Name = "classic"

// Preset mounts the classic components.
type Preset struct {
	path    PathFunc
	watcher *SocketWatcher
	logger  *slog.Logger
}

// Option configures the preset.
type Option func(*Preset)

// WithPath sets how connection paths are drawn.
func WithPath(fn PathFunc) Option {
	return func(p *Preset) {
		if fn != nil {
			p.path = fn
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Preset) { p.logger = logger }
}

// New creates the classic preset. Connections fail with E101 until a path
// function is supplied with WithPath.
func New(opts ...Option) *Preset {
	p := &Preset{
		path:    unwiredPath,
		watcher: NewSocketWatcher(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements plugin.Preset.
func (p *Preset) Name() string { return Name }

// Sockets returns the shared socket watcher.
func (p *Preset) Sockets() *SocketWatcher { return p.watcher }

// Attach installs the socket watcher on the editor scope.
func (p *Preset) Attach(pl *plugin.Plugin) {
	parent := pl.Parent()
	if parent == nil {
		return
	}
	parent.AddPipe(p.watcher.Pipe)
	p.logger.Debug("socket watcher attached", "scope", parent.Name())
}

// Render implements plugin.Producer.
func (p *Preset) Render(data *plugin.RenderData, _ *plugin.Plugin) (*plugin.Mount, error) {
	switch data.Kind {
	case KindNode:
		n, ok := payloadAs[Node](data.Payload)
		if !ok {
			return nil, nil
		}
		return &plugin.Mount{Component: NewNodeView, Props: render.Props{propData: n}}, nil

	case KindSocket:
		s, ok := payloadAs[Socket](data.Payload)
		if !ok {
			return nil, nil
		}
		return &plugin.Mount{Component: NewSocketView, Props: render.Props{propData: s}}, nil

	case KindConnection:
		c, ok := payloadAs[Connection](data.Payload)
		if !ok {
			return nil, nil
		}
		d, err := p.path(c.Start, c.End)
		if err != nil {
			return nil, err
		}
		return &plugin.Mount{
			Component: NewConnectionView,
			Props:     render.Props{propData: c, propPath: d},
		}, nil

	case KindControl:
		c, ok := payloadAs[Control](data.Payload)
		if !ok {
			return nil, nil
		}
		return &plugin.Mount{Component: NewControlView, Props: render.Props{propData: c}}, nil
	}
	return nil, nil
}

// Update implements plugin.Updater. Nodes, sockets and controls take the
// new payload; connections also recompute their path.
func (p *Preset) Update(data *plugin.RenderData, _ *plugin.Plugin) (render.Props, error) {
	switch data.Kind {
	case KindNode:
		if n, ok := payloadAs[Node](data.Payload); ok {
			return render.Props{propData: n}, nil
		}
	case KindSocket:
		if s, ok := payloadAs[Socket](data.Payload); ok {
			return render.Props{propData: s}, nil
		}
	case KindConnection:
		c, ok := payloadAs[Connection](data.Payload)
		if !ok {
			return nil, nil
		}
		d, err := p.path(c.Start, c.End)
		if err != nil {
			return nil, err
		}
		return render.Props{propData: c, propPath: d}, nil
	case KindControl:
		if c, ok := payloadAs[Control](data.Payload); ok {
			return render.Props{propData: c}, nil
		}
	}
	return nil, nil
}
