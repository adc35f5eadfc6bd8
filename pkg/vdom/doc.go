// Package vdom provides the virtual node tree that preset components render.
//
// Components never touch a host directly. They return a *VNode tree from
// Render; the renderer assigns hydration IDs, diffs the tree against the
// previous paint and hands the resulting patches to the host.
//
//	func (c *Socket) Render() *vdom.VNode {
//	    return vdom.Div(
//	        vdom.Class("socket"),
//	        vdom.Data("side", c.side),
//	        vdom.TitleAttr(c.name),
//	    )
//	}
package vdom
