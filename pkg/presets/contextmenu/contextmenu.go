// Package contextmenu renders the editor's context menu.
package contextmenu

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/vango-dev/nodeview/internal/errors"
	"github.com/vango-dev/nodeview/pkg/plugin"
	"github.com/vango-dev/nodeview/pkg/render"
	"github.com/vango-dev/nodeview/pkg/vdom"
)

const (
	// Name is the catalog name of the preset.
	Name = "contextmenu"

	// Kind is the render kind handled by the preset.
	Kind = "contextmenu"
)

// DefaultDelay is how long the menu stays open after the pointer leaves.
const DefaultDelay = 1000 * time.Millisecond

// Item is a menu entry. Entries with sub-items open a nested list.
type Item struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Subitems []Item `json:"subitems,omitempty"`
}

// Menu is the payload of a "contextmenu" render.
type Menu struct {
	Items     []Item `json:"items"`
	Searchbar bool   `json:"searchbar,omitempty"`
	Query     string `json:"query,omitempty"`
}

// Decode parses a JSON menu payload.
func Decode(kind string, raw json.RawMessage) (any, bool, error) {
	if kind != Kind {
		return nil, false, nil
	}
	m := &Menu{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, m); err != nil {
			return nil, true, errors.New("E103").WithDetailf("kind %q", kind).Wrap(err)
		}
	}
	return m, true, nil
}

// Preset mounts the menu component.
type Preset struct {
	delay time.Duration
}

// Option configures the preset.
type Option func(*Preset)

// WithDelay sets the hide delay advertised to the host.
func WithDelay(d time.Duration) Option {
	return func(p *Preset) { p.delay = d }
}

// New creates the preset.
func New(opts ...Option) *Preset {
	p := &Preset{delay: DefaultDelay}
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
	m, ok := menuOf(data.Payload)
	if !ok {
		return nil, nil
	}
	return &plugin.Mount{
		Component: func() render.Component { return &View{} },
		Props:     render.Props{"menu": m, "delay": p.delay},
	}, nil
}

// Update implements plugin.Updater.
func (p *Preset) Update(data *plugin.RenderData, _ *plugin.Plugin) (render.Props, error) {
	m, ok := menuOf(data.Payload)
	if !ok {
		return nil, nil
	}
	return render.Props{"menu": m}, nil
}

func menuOf(payload any) (*Menu, bool) {
	switch v := payload.(type) {
	case *Menu:
		return v, v != nil
	case Menu:
		return &v, true
	}
	return nil, false
}

// View renders the menu.
type View struct {
	render.ComponentBase
}

func (v *View) Render() *vdom.VNode {
	m, ok := v.Prop("menu").(*Menu)
	if !ok {
		return nil
	}
	delay, _ := v.Prop("delay").(time.Duration)

	var search *vdom.VNode
	if m.Searchbar {
		search = vdom.Input(vdom.Class("search"), vdom.Type("text"), vdom.Value(m.Query))
	}
	return vdom.Div(
		vdom.Class("menu"),
		vdom.Data("testid", "context-menu"),
		vdom.Data("delay", delay.String()),
		search,
		vdom.Range(Filter(m.Items, m.Query), func(item Item, _ int) *vdom.VNode {
			return itemNode(item)
		}),
	)
}

func itemNode(item Item) *vdom.VNode {
	var sub *vdom.VNode
	if len(item.Subitems) > 0 {
		sub = vdom.Div(vdom.Class("subitems"), vdom.Range(item.Subitems, func(s Item, _ int) *vdom.VNode {
			return itemNode(s)
		}))
	}
	return vdom.Div(
		vdom.Class("item", hasSubitems(item)),
		vdom.Key(item.Key),
		vdom.Data("testid", "context-menu-item"),
		item.Label,
		sub,
	)
}

func hasSubitems(item Item) string {
	if len(item.Subitems) > 0 {
		return "hasSubitems"
	}
	return ""
}

// Filter keeps items whose label contains query, ignoring case. A parent
// survives when any of its sub-items match; only matching sub-items are kept.
func Filter(items []Item, query string) []Item {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}
	var out []Item
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Label), q) {
			out = append(out, item)
			continue
		}
		if sub := Filter(item.Subitems, q); len(sub) > 0 {
			item.Subitems = sub
			out = append(out, item)
		}
	}
	return out
}
