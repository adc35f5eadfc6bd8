package classic

import (
	"fmt"

	"github.com/vango-dev/nodeview/pkg/render"
	"github.com/vango-dev/nodeview/pkg/vdom"
)

// Prop names shared by the classic components.
const (
	propData = "data"
	propPath = "path"
)

// NodeView renders a node card: title, outputs, controls, then inputs.
type NodeView struct {
	render.ComponentBase
}

// NewNodeView is a render.Factory.
func NewNodeView() render.Component { return &NodeView{} }

func (v *NodeView) Render() *vdom.VNode {
	n, ok := payloadAs[Node](v.Prop(propData))
	if !ok {
		return nil
	}
	var size vdom.Attr
	if n.Width > 0 || n.Height > 0 {
		size = vdom.Style("width", px(n.Width), "height", px(n.Height))
	}
	return vdom.Div(
		vdom.Class("node", selectedClass(n.Selected)),
		vdom.Data("testid", "node"),
		vdom.Data("node-id", n.ID),
		size,
		vdom.Div(vdom.Class("title"), vdom.Data("testid", "title"), n.Label),
		vdom.Range(n.Outputs, func(p Port, _ int) *vdom.VNode {
			return portRow(SideOutput, p)
		}),
		vdom.Range(n.Controls, func(c Control, _ int) *vdom.VNode {
			return vdom.Div(vdom.Class("control"), vdom.Key(c.Key), vdom.Data("control", c.Key))
		}),
		vdom.Range(n.Inputs, func(p Port, _ int) *vdom.VNode {
			return portRow(SideInput, p)
		}),
	)
}

func portRow(side Side, p Port) *vdom.VNode {
	title := vdom.Div(vdom.Class(string(side)+"-title"), p.Label)
	slot := vdom.Span(vdom.Class(string(side)+"-socket"), vdom.Data("socket", string(side)+":"+p.Key))
	if side == SideInput {
		return vdom.Div(vdom.Class(string(side)), vdom.Key(string(side)+":"+p.Key), slot, title)
	}
	return vdom.Div(vdom.Class(string(side)), vdom.Key(string(side)+":"+p.Key), title, slot)
}

// SocketView renders a socket handle.
type SocketView struct {
	render.ComponentBase
}

// NewSocketView is a render.Factory.
func NewSocketView() render.Component { return &SocketView{} }

func (v *SocketView) Render() *vdom.VNode {
	s, ok := payloadAs[Socket](v.Prop(propData))
	if !ok {
		return nil
	}
	return vdom.Div(
		vdom.Class("socket", string(s.Side)),
		vdom.TitleAttr(s.Name),
		vdom.Data("testid", "socket"),
	)
}

// ConnectionView renders a connection as an SVG path.
type ConnectionView struct {
	render.ComponentBase
}

// NewConnectionView is a render.Factory.
func NewConnectionView() render.Component { return &ConnectionView{} }

func (v *ConnectionView) Render() *vdom.VNode {
	return vdom.Svg(
		vdom.Class("connection"),
		vdom.Data("testid", "connection"),
		vdom.Path(vdom.D(v.PropString(propPath))),
	)
}

// ControlView renders a text input control.
type ControlView struct {
	render.ComponentBase
}

// NewControlView is a render.Factory.
func NewControlView() render.Component { return &ControlView{} }

func (v *ControlView) Render() *vdom.VNode {
	c, ok := payloadAs[Control](v.Prop(propData))
	if !ok {
		return nil
	}
	typ := c.Type
	if typ == "" {
		typ = "text"
	}
	var readonly vdom.Attr
	if c.Readonly {
		readonly = vdom.Readonly()
	}
	return vdom.Input(vdom.Type(typ), vdom.Value(c.Value), readonly, vdom.Data("testid", "control"))
}

func selectedClass(selected bool) string {
	if selected {
		return "selected"
	}
	return ""
}

func px(v float64) string {
	if v <= 0 {
		return ""
	}
	return fmt.Sprintf("%gpx", v)
}
