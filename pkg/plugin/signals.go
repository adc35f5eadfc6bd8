package plugin

import (
	"github.com/vango-dev/nodeview/pkg/dom"
	"github.com/vango-dev/nodeview/pkg/scope"
)

// Signal types handled or produced by the plugin.
const (
	TypeRender   = "render"
	TypeUnmount  = "unmount"
	TypeRendered = "rendered"
)

// RenderData is the payload of a "render" signal.
type RenderData struct {
	// Element is the attachment point to fill.
	Element dom.Element

	// Kind names what is rendered ("node", "socket", "connection", ...).
	// Only presets interpret it.
	Kind string

	// Payload is preset-specific data.
	Payload any

	// Filled is set once a plugin handled the request.
	Filled bool
}

// IsFilled implements scope.Filler.
func (d *RenderData) IsFilled() bool {
	return d != nil && d.Filled
}

// filled returns a copy of d marked as handled.
func (d *RenderData) filled() *RenderData {
	cp := *d
	cp.Filled = true
	return &cp
}

// UnmountData is the payload of an "unmount" signal.
type UnmountData struct {
	Element dom.Element
}

// Render builds a "render" signal.
func Render(el dom.Element, kind string, payload any) *scope.Signal {
	return &scope.Signal{
		Type: TypeRender,
		Data: &RenderData{Element: el, Kind: kind, Payload: payload},
	}
}

// Unmount builds an "unmount" signal.
func Unmount(el dom.Element) *scope.Signal {
	return &scope.Signal{
		Type: TypeUnmount,
		Data: &UnmountData{Element: el},
	}
}

// renderData extracts the render payload, accepting values and pointers.
func renderData(s *scope.Signal) (*RenderData, bool) {
	switch d := s.Data.(type) {
	case *RenderData:
		return d, d != nil
	case RenderData:
		return &d, true
	default:
		return nil, false
	}
}

func unmountData(s *scope.Signal) (dom.Element, bool) {
	switch d := s.Data.(type) {
	case *UnmountData:
		if d == nil {
			return 0, false
		}
		return d.Element, true
	case UnmountData:
		return d.Element, true
	default:
		return 0, false
	}
}
