// Package reroute renders the pins placed on rerouted connections.
package reroute

import (
	"encoding/json"
	"fmt"

	"github.com/vango-dev/nodeview/internal/errors"
	"github.com/vango-dev/nodeview/pkg/plugin"
	"github.com/vango-dev/nodeview/pkg/render"
	"github.com/vango-dev/nodeview/pkg/vdom"
)

const (
	Name = "reroute"
	Kind = "reroute-pins"
)

// Pin is one draggable point on a connection.
type Pin struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Selected bool    `json:"selected,omitempty"`
}

// Pins is the payload of a "reroute-pins" render.
type Pins struct {
	ConnectionID string `json:"connectionId"`
	Pins         []Pin  `json:"pins"`
}

// Decode parses a JSON pins payload.
func Decode(kind string, raw json.RawMessage) (any, bool, error) {
	if kind != Kind {
		return nil, false, nil
	}
	pins := &Pins{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, pins); err != nil {
			return nil, true, errors.New("E103").WithDetailf("kind %q", kind).Wrap(err)
		}
	}
	return pins, true, nil
}

// Preset mounts pin groups.
type Preset struct{}

// New creates the preset.
func New() *Preset { return &Preset{} }

// Name implements plugin.Preset.
func (p *Preset) Name() string { return Name }

// Render implements plugin.Producer.
func (p *Preset) Render(data *plugin.RenderData, _ *plugin.Plugin) (*plugin.Mount, error) {
	if data.Kind != Kind {
		return nil, nil
	}
	pins, ok := pinsOf(data.Payload)
	if !ok {
		return nil, nil
	}
	return &plugin.Mount{
		Component: func() render.Component { return &View{} },
		Props:     render.Props{"pins": pins},
	}, nil
}

// Update implements plugin.Updater.
func (p *Preset) Update(data *plugin.RenderData, _ *plugin.Plugin) (render.Props, error) {
	if pins, ok := pinsOf(data.Payload); ok {
		return render.Props{"pins": pins}, nil
	}
	return nil, nil
}

func pinsOf(payload any) (*Pins, bool) {
	switch v := payload.(type) {
	case *Pins:
		return v, v != nil
	case Pins:
		return &v, true
	}
	return nil, false
}

// View renders every pin of a connection.
type View struct {
	render.ComponentBase
}

func (v *View) Render() *vdom.VNode {
	pins, ok := v.Prop("pins").(*Pins)
	if !ok {
		return nil
	}
	return vdom.Fragment(vdom.Range(pins.Pins, func(pin Pin, _ int) *vdom.VNode {
		return vdom.Div(
			vdom.Class("pin", selected(pin.Selected)),
			vdom.Key(pin.ID),
			vdom.Data("testid", "pin"),
			vdom.Data("connection", pins.ConnectionID),
			vdom.Style("transform", fmt.Sprintf("translate(%gpx, %gpx)", pin.X, pin.Y)),
		)
	})...)
}

func selected(ok bool) string {
	if ok {
		return "selected"
	}
	return ""
}
