package bridge

import (
	"encoding/json"

	"github.com/vango-dev/nodeview/pkg/dom"
	"github.com/vango-dev/nodeview/pkg/presets/classic"
)

// Outbound message types.
const (
	MsgHello    = "hello"
	MsgInsert   = "insert"
	MsgPatch    = "patch"
	MsgRemove   = "remove"
	MsgRendered = "rendered"
	MsgSocket   = "socket"
	MsgAck      = "ack"
	MsgError    = "error"
)

// MsgSnapshot is the inbound type that persists the session document.
const MsgSnapshot = "snapshot"

// Inbound is a message from the editor core.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// RenderBody is the data of "render" and "unmount" messages.
type RenderBody struct {
	Element dom.Element     `json:"element"`
	Kind    string          `json:"kind,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// SnapshotBody is the data of a "snapshot" message.
type SnapshotBody struct {
	Key string `json:"key"`
}

// Outbound is a message to the editor core.
type Outbound struct {
	Type    string      `json:"type"`
	Session string      `json:"session,omitempty"`
	Element dom.Element `json:"element,omitempty"`
	Kind    string      `json:"kind,omitempty"`
	HTML    string      `json:"html,omitempty"`
	Patches int         `json:"patches,omitempty"`
	Filled  bool        `json:"filled,omitempty"`
	Removed bool        `json:"removed,omitempty"`
	Key     string      `json:"key,omitempty"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`

	Socket *classic.SocketRef `json:"socket,omitempty"`
}
