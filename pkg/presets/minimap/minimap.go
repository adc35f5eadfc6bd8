// Package minimap renders a scaled overview of the editor.
package minimap

import (
	"encoding/json"
	"fmt"

	"github.com/vango-dev/nodeview/internal/errors"
	"github.com/vango-dev/nodeview/pkg/plugin"
	"github.com/vango-dev/nodeview/pkg/render"
	"github.com/vango-dev/nodeview/pkg/vdom"
)

const (
	Name = "minimap"
	Kind = "minimap"
)

// DefaultSize is the minimap width in pixels.
const DefaultSize = 200

// Rect is an area in minimap-relative units: 0..1 across the width, and
// 0..Ratio down the height.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Map is the payload of a "minimap" render.
type Map struct {
	// Ratio is height divided by width.
	Ratio    float64 `json:"ratio"`
	Nodes    []Rect  `json:"nodes"`
	Viewport Rect    `json:"viewport"`
}

// Decode parses a JSON minimap payload.
func Decode(kind string, raw json.RawMessage) (any, bool, error) {
	if kind != Kind {
		return nil, false, nil
	}
	m := &Map{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, m); err != nil {
			return nil, true, errors.New("E103").WithDetailf("kind %q", kind).Wrap(err)
		}
	}
	return m, true, nil
}

// Preset mounts the minimap.
type Preset struct {
	size float64
}

// Option configures the preset.
type Option func(*Preset)

// WithSize sets the minimap width in pixels.
func WithSize(px float64) Option {
	return func(p *Preset) {
		if px > 0 {
			p.size = px
		}
	}
}

// New creates the preset.
func New(opts ...Option) *Preset {
	p := &Preset{size: DefaultSize}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements plugin.Preset.
func (p *Preset) Name() string { return Name }

// Render implements plugin.Producer.
func (p *Preset) Render(data *plugin.RenderData, _ *plugin.Plugin) (*plugin.Mount, error) {
	if data.Kind != Kind {
		return nil, nil
	}
	m, ok := mapOf(data.Payload)
	if !ok {
		return nil, nil
	}
	return &plugin.Mount{
		Component: func() render.Component { return &View{} },
		Props:     render.Props{"map": m, "size": p.size},
	}, nil
}

// Update implements plugin.Updater.
func (p *Preset) Update(data *plugin.RenderData, _ *plugin.Plugin) (render.Props, error) {
	if m, ok := mapOf(data.Payload); ok {
		return render.Props{"map": m}, nil
	}
	return nil, nil
}

func mapOf(payload any) (*Map, bool) {
	switch v := payload.(type) {
	case *Map:
		return v, v != nil
	case Map:
		return &v, true
	}
	return nil, false
}

// View renders the minimap box with its nodes and viewport.
type View struct {
	render.ComponentBase
}

func (v *View) Render() *vdom.VNode {
	m, ok := v.Prop("map").(*Map)
	if !ok {
		return nil
	}
	size, _ := v.Prop("size").(float64)

	return vdom.Div(
		vdom.Class("minimap"),
		vdom.Data("testid", "minimap"),
		vdom.Style("width", px(size), "height", px(size*m.Ratio)),
		vdom.Range(m.Nodes, func(r Rect, _ int) *vdom.VNode {
			return vdom.Div(vdom.Class("mini-node"), rectStyle(r, size))
		}),
		vdom.Div(vdom.Class("mini-viewport"), rectStyle(m.Viewport, size)),
	)
}

func rectStyle(r Rect, scale float64) vdom.Attr {
	return vdom.Style(
		"left", px(r.Left*scale),
		"top", px(r.Top*scale),
		"width", px(r.Width*scale),
		"height", px(r.Height*scale),
	)
}

func px(v float64) string {
	return fmt.Sprintf("%gpx", v)
}
