package classic

import (
	"encoding/json"

	"github.com/vango-dev/nodeview/internal/errors"
)

// Render kinds handled by the classic preset.
const (
	KindNode       = "node"
	KindSocket     = "socket"
	KindConnection = "connection"
	KindControl    = "control"
)

// Kinds lists every kind the preset renders.
var Kinds = []string{KindNode, KindSocket, KindConnection, KindControl}

// Side tells inputs from outputs.
type Side string

const (
	SideInput  Side = "input"
	SideOutput Side = "output"
)

// Port is one input or output row of a node.
type Port struct {
	Key    string `json:"key"`
	Label  string `json:"label,omitempty"`
	Socket string `json:"socket,omitempty"`
}

// Node is the payload of a "node" render.
type Node struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	Selected bool      `json:"selected,omitempty"`
	Width    float64   `json:"width,omitempty"`
	Height   float64   `json:"height,omitempty"`
	Inputs   []Port    `json:"inputs,omitempty"`
	Outputs  []Port    `json:"outputs,omitempty"`
	Controls []Control `json:"controls,omitempty"`
}

// Socket is the payload of a "socket" render.
type Socket struct {
	Name   string `json:"name"`
	NodeID string `json:"nodeId"`
	Side   Side   `json:"side"`
	Key    string `json:"key"`
}

// Point is a position in editor coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Connection is the payload of a "connection" render.
type Connection struct {
	ID    string `json:"id"`
	Start Point  `json:"start"`
	End   Point  `json:"end"`
}

// Control is the payload of a "control" render.
type Control struct {
	Key      string `json:"key"`
	Type     string `json:"type,omitempty"`
	Value    string `json:"value,omitempty"`
	Readonly bool   `json:"readonly,omitempty"`
}

// Decode parses a JSON payload for kind. ok is false for kinds the preset
// does not handle.
func Decode(kind string, raw json.RawMessage) (payload any, ok bool, err error) {
	switch kind {
	case KindNode:
		payload, err = decode[Node](kind, raw)
	case KindSocket:
		payload, err = decode[Socket](kind, raw)
	case KindConnection:
		payload, err = decode[Connection](kind, raw)
	case KindControl:
		payload, err = decode[Control](kind, raw)
	default:
		return nil, false, nil
	}
	return payload, true, err
}

func decode[T any](kind string, raw json.RawMessage) (*T, error) {
	v := new(T)
	if len(raw) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return nil, errors.New("E103").WithDetailf("kind %q", kind).Wrap(err)
	}
	return v, nil
}

// payloadAs accepts T or *T.
func payloadAs[T any](payload any) (*T, bool) {
	switch v := payload.(type) {
	case *T:
		return v, v != nil
	case T:
		return &v, true
	default:
		return nil, false
	}
}
