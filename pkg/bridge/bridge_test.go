package bridge

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/nodeview/internal/errors"
	"github.com/vango-dev/nodeview/pkg/middleware"
	"github.com/vango-dev/nodeview/pkg/snapshot"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type client struct {
	t    *testing.T
	conn *websocket.Conn
}

func startBridge(t *testing.T, config Config) (*Server, *client) {
	t.Helper()
	if config.Presets == nil {
		config.Presets = []string{"classic"}
	}
	config.Logger = quietLogger()

	srv, err := New(config)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	c := &client{t: t, conn: conn}
	hello := c.read()
	if hello.Type != MsgHello || hello.Session == "" {
		t.Fatalf("first message = %+v, want hello with session id", hello)
	}
	return srv, c
}

func (c *client) send(raw string) {
	c.t.Helper()
	if err := c.conn.WriteMessage(websocket.TextMessage, []byte(raw)); err != nil {
		c.t.Fatalf("write error = %v", err)
	}
}

func (c *client) read() Outbound {
	c.t.Helper()
	c.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var m Outbound
	if err := c.conn.ReadJSON(&m); err != nil {
		c.t.Fatalf("read error = %v", err)
	}
	return m
}

// readUntilAck collects messages up to and including the next ack or error.
func (c *client) readUntilAck() []Outbound {
	c.t.Helper()
	var out []Outbound
	for {
		m := c.read()
		out = append(out, m)
		if m.Type == MsgAck || m.Type == MsgError {
			return out
		}
	}
}

func types(msgs []Outbound) string {
	names := make([]string, len(msgs))
	for i, m := range msgs {
		names[i] = m.Type
	}
	return strings.Join(names, ",")
}

const renderNode = `{"type":"render","data":{"element":1,"kind":"node","payload":{"id":"n1","label":"Add"}}}`

func TestRenderInsertsAndAcks(t *testing.T) {
	_, c := startBridge(t, Config{})

	c.send(renderNode)
	msgs := c.readUntilAck()

	if got := types(msgs); got != "insert,rendered,ack" {
		t.Fatalf("messages = %s, want insert,rendered,ack", got)
	}
	if msgs[0].Element != 1 || !strings.Contains(msgs[0].HTML, "Add") {
		t.Errorf("insert = %+v, want element 1 with node html", msgs[0])
	}
	if msgs[1].Kind != "node" {
		t.Errorf("rendered kind = %q, want node", msgs[1].Kind)
	}
	if !msgs[2].Filled {
		t.Error("ack not filled")
	}
}

func TestRerenderPatches(t *testing.T) {
	_, c := startBridge(t, Config{})

	c.send(renderNode)
	c.readUntilAck()

	c.send(`{"type":"render","data":{"element":1,"kind":"node","payload":{"id":"n1","label":"Sum"}}}`)
	msgs := c.readUntilAck()

	if got := types(msgs); got != "patch,rendered,ack" {
		t.Fatalf("messages = %s, want patch,rendered,ack", got)
	}
	if msgs[0].Patches == 0 || !strings.Contains(msgs[0].HTML, "Sum") {
		t.Errorf("patch = %+v, want patches and new label", msgs[0])
	}
}

func TestUnmountRemoves(t *testing.T) {
	_, c := startBridge(t, Config{})

	c.send(renderNode)
	c.readUntilAck()

	c.send(`{"type":"unmount","data":{"element":1}}`)
	msgs := c.readUntilAck()
	if got := types(msgs); got != "remove,ack" {
		t.Fatalf("messages = %s, want remove,ack", got)
	}

	// Unmounting again is a no-op.
	c.send(`{"type":"unmount","data":{"element":1}}`)
	if got := types(c.readUntilAck()); got != "ack" {
		t.Errorf("second unmount = %s, want ack", got)
	}
}

func TestSocketChangesForwarded(t *testing.T) {
	_, c := startBridge(t, Config{})

	c.send(`{"type":"render","data":{"element":7,"kind":"socket","payload":{"name":"number","nodeId":"n1","side":"output","key":"sum"}}}`)
	msgs := c.readUntilAck()
	if got := types(msgs); got != "insert,socket,rendered,ack" {
		t.Fatalf("messages = %s, want insert,socket,rendered,ack", got)
	}
	added := msgs[1]
	if added.Removed || added.Socket == nil || added.Socket.NodeID != "n1" || added.Socket.Key != "sum" {
		t.Errorf("socket message = %+v, want n1 output sum added", added)
	}

	c.send(`{"type":"unmount","data":{"element":7}}`)
	msgs = c.readUntilAck()
	if got := types(msgs); got != "socket,remove,ack" {
		t.Fatalf("messages = %s, want socket,remove,ack", got)
	}
	if !msgs[0].Removed || msgs[0].Element != 7 {
		t.Errorf("socket message = %+v, want element 7 removed", msgs[0])
	}
}

func TestUnknownKindNotFilled(t *testing.T) {
	_, c := startBridge(t, Config{})

	c.send(`{"type":"render","data":{"element":2,"kind":"gauge","payload":{"v":1}}}`)
	msgs := c.readUntilAck()
	if got := types(msgs); got != "ack" {
		t.Fatalf("messages = %s, want ack", got)
	}
	if msgs[0].Filled {
		t.Error("ack filled for a kind no preset handles")
	}
}

func TestCustomSignalPassesThrough(t *testing.T) {
	_, c := startBridge(t, Config{})

	c.send(`{"type":"zoom","data":{"k":2}}`)
	if got := types(c.readUntilAck()); got != "ack" {
		t.Errorf("messages = %s, want ack", got)
	}
}

func TestMalformedMessages(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		code string
	}{
		{"not json", `{"type":`, "E302"},
		{"no type", `{"data":{}}`, "E302"},
		{"zero element", `{"type":"render","data":{"kind":"node"}}`, "E301"},
		{"bad payload", `{"type":"render","data":{"element":3,"kind":"node","payload":[1]}}`, "E103"},
	}

	_, c := startBridge(t, Config{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.t = t
			c.send(tt.raw)
			m := c.read()
			if m.Type != MsgError || m.Code != tt.code {
				t.Errorf("reply = %+v, want error %s", m, tt.code)
			}
		})
	}
}

func TestSnapshotToDisk(t *testing.T) {
	store, err := snapshot.NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore() error = %v", err)
	}
	_, c := startBridge(t, Config{Store: store})

	c.send(renderNode)
	c.readUntilAck()

	c.send(`{"type":"snapshot","data":{"key":"graphs/one"}}`)
	m := c.read()
	if m.Type != MsgAck || m.Key != "graphs/one" {
		t.Fatalf("reply = %+v, want ack for graphs/one", m)
	}

	info, err := store.Stat("graphs/one")
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Size == 0 {
		t.Error("snapshot is empty")
	}
}

func TestSnapshotWithoutStore(t *testing.T) {
	_, c := startBridge(t, Config{})

	c.send(`{"type":"snapshot","data":{"key":"x"}}`)
	m := c.read()
	if m.Type != MsgError || m.Code != "E501" {
		t.Errorf("reply = %+v, want E501", m)
	}
}

func TestImmediateMode(t *testing.T) {
	_, c := startBridge(t, Config{Immediate: true})

	c.send(renderNode)
	msgs := c.readUntilAck()
	if got := types(msgs); got != "insert,rendered,ack" {
		t.Errorf("messages = %s, want insert,rendered,ack", got)
	}
}

func TestUnknownPresetFailsNew(t *testing.T) {
	_, err := New(Config{Presets: []string{"classic", "bogus"}})
	if !errors.HasCode(err, "E102") {
		t.Errorf("New() error = %v, want E102", err)
	}
}

func TestSessionsTracked(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := middleware.NewMetrics(middleware.WithRegistry(reg))
	srv, c := startBridge(t, Config{Metrics: metrics})

	if n := srv.Sessions(); n != 1 {
		t.Errorf("Sessions() = %d, want 1", n)
	}

	c.conn.Close()
	deadline := time.Now().Add(5 * time.Second)
	for srv.Sessions() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if n := srv.Sessions(); n != 0 {
		t.Errorf("Sessions() after close = %d, want 0", n)
	}
}
