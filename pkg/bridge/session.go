package bridge

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/nodeview/internal/errors"
	"github.com/vango-dev/nodeview/pkg/dataflow"
	"github.com/vango-dev/nodeview/pkg/dom"
	"github.com/vango-dev/nodeview/pkg/plugin"
	"github.com/vango-dev/nodeview/pkg/presets"
	"github.com/vango-dev/nodeview/pkg/presets/classic"
	"github.com/vango-dev/nodeview/pkg/render"
	"github.com/vango-dev/nodeview/pkg/scope"
	"github.com/vango-dev/nodeview/pkg/snapshot"
)

// Session binds one websocket connection to its own plugin.
type Session struct {
	ID string

	server *Server
	conn   *websocket.Conn
	logger *slog.Logger

	root   *scope.Scope
	plugin *plugin.Plugin
	doc    *dom.Document
	queue  *render.Queue

	// sockets forwards socket changes of the classic preset, if installed.
	sockets *dataflow.Input[classic.SocketEvent]

	// pending collects outbound messages produced while handling one
	// inbound message.
	pending []Outbound

	writeMu   sync.Mutex
	closeOnce sync.Once
}

func newSession(s *Server, conn *websocket.Conn) (*Session, error) {
	id := uuid.NewString()
	sess := &Session{
		ID:     id,
		server: s,
		conn:   conn,
		logger: s.logger.With("session", id),
		root:   scope.New("editor"),
		doc:    dom.NewDocument(),
	}

	var scheduler render.Scheduler = render.Immediate{}
	if !s.config.Immediate {
		sess.queue = render.NewQueue()
		scheduler = sess.queue
	}

	sess.plugin = plugin.New(
		plugin.WithHost(sess.doc),
		plugin.WithScheduler(scheduler),
		plugin.WithLogger(sess.logger),
		plugin.WithMiddleware(s.config.Middleware...),
	)
	opts := s.config.PresetOptions
	if opts.Logger == nil {
		opts.Logger = sess.logger
	}
	if err := presets.Install(sess.plugin, s.config.Presets, opts); err != nil {
		return nil, err
	}
	if err := sess.root.Use(sess.plugin); err != nil {
		return nil, err
	}
	sess.root.AddPipe(sess.observeRendered)
	sess.doc.Observe(sess.observeChange)
	if err := sess.watchSockets(); err != nil {
		return nil, err
	}

	return sess, nil
}

// Plugin returns the session's plugin.
func (s *Session) Plugin() *plugin.Plugin {
	return s.plugin
}

// ReadLoop reads messages until the connection closes. Each message is
// handled, paints are flushed, and the resulting messages are written
// followed by an ack.
func (s *Session) ReadLoop() {
	defer s.Close()

	if err := s.write(Outbound{Type: MsgHello, Session: s.ID}); err != nil {
		return
	}

	for {
		s.conn.SetReadDeadline(time.Now().Add(s.server.config.ReadTimeout))

		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
				s.server.config.Metrics.RecordWebSocketError("read")
			}
			return
		}

		reply := s.handle(msg)
		if s.queue != nil {
			s.queue.Flush()
		}

		out := append(s.pending, reply)
		s.pending = nil
		for _, m := range out {
			if err := s.write(m); err != nil {
				return
			}
		}
	}
}

// handle processes one inbound message and returns the final reply.
func (s *Session) handle(msg []byte) Outbound {
	var in Inbound
	if err := json.Unmarshal(msg, &in); err != nil {
		s.server.config.Metrics.RecordWebSocketError("decode")
		return errorMessage(errors.New("E302").Wrap(err))
	}
	if in.Type == "" {
		return errorMessage(errors.New("E302").WithDetail("message has no type"))
	}

	ctx := context.Background()
	switch in.Type {
	case MsgSnapshot:
		return s.handleSnapshot(ctx, in.Data)
	case plugin.TypeRender, plugin.TypeUnmount:
		sig, err := s.signal(in)
		if err != nil {
			return errorMessage(err)
		}
		return s.emit(ctx, sig)
	default:
		return s.emit(ctx, &scope.Signal{Type: in.Type, Data: in.Data})
	}
}

func (s *Session) signal(in Inbound) (*scope.Signal, error) {
	var body RenderBody
	if len(in.Data) > 0 {
		if err := json.Unmarshal(in.Data, &body); err != nil {
			return nil, errors.New("E302").WithDetailf("%s data", in.Type).Wrap(err)
		}
	}
	if body.Element.IsZero() {
		return nil, errors.New("E301").WithDetailf("%s message", in.Type)
	}

	if in.Type == plugin.TypeUnmount {
		return plugin.Unmount(body.Element), nil
	}
	payload, err := presets.Decode(body.Kind, body.Payload)
	if err != nil {
		return nil, err
	}
	return plugin.Render(body.Element, body.Kind, payload), nil
}

func (s *Session) emit(ctx context.Context, sig *scope.Signal) Outbound {
	out, err := s.root.Emit(ctx, sig)
	if err != nil {
		s.logger.Warn("signal failed", "type", sig.Type, "error", err)
		return errorMessage(err)
	}

	ack := Outbound{Type: MsgAck}
	if out != nil {
		if f, ok := out.Data.(scope.Filler); ok {
			ack.Filled = f.IsFilled()
		}
	}
	return ack
}

func (s *Session) handleSnapshot(ctx context.Context, data json.RawMessage) Outbound {
	var body SnapshotBody
	if err := json.Unmarshal(data, &body); err != nil {
		return errorMessage(errors.New("E302").WithDetail("snapshot data").Wrap(err))
	}
	store := s.server.config.Store
	if store == nil {
		return errorMessage(errors.New("E501").WithDetail("no snapshot store configured"))
	}
	info, err := snapshot.Write(ctx, store, body.Key, s.doc)
	if err != nil {
		return errorMessage(err)
	}
	s.logger.Info("snapshot saved", "key", info.Key, "size", info.Size)
	return Outbound{Type: MsgAck, Key: info.Key}
}

// observeChange queues document changes for the client.
func (s *Session) observeChange(c dom.Change) {
	m := Outbound{Type: c.Op.String(), Element: c.Element}
	if c.Op != dom.ChangeRemove {
		html, err := s.doc.HTML(c.Element)
		if err != nil {
			s.logger.Error("serialize failed", "element", c.Element, "error", err)
			return
		}
		m.HTML = html
	}
	if c.Op == dom.ChangePatch {
		m.Patches = len(c.Patches)
		s.server.config.Metrics.RecordPatches(len(c.Patches))
	}
	s.pending = append(s.pending, m)
}

// watchSockets connects the session to the socket watcher of the first
// classic preset in the chain.
func (s *Session) watchSockets() error {
	for _, p := range s.plugin.Presets() {
		c, ok := p.(*classic.Preset)
		if !ok {
			continue
		}
		s.sockets = dataflow.NewInput("bridge", s.observeSocket)
		return s.sockets.Connect(c.Sockets().Changes())
	}
	return nil
}

func (s *Session) observeSocket(ev classic.SocketEvent) {
	ref := ev.Ref
	s.pending = append(s.pending, Outbound{
		Type:    MsgSocket,
		Element: ref.Element,
		Removed: ev.Removed,
		Socket:  &ref,
	})
}

// observeRendered forwards "rendered" signals reaching the editor scope.
func (s *Session) observeRendered(ctx context.Context, sig *scope.Signal) (*scope.Signal, error) {
	if sig.Type == plugin.TypeRendered {
		if d, ok := sig.Data.(*plugin.RenderData); ok {
			s.pending = append(s.pending, Outbound{Type: MsgRendered, Element: d.Element, Kind: d.Kind})
		}
	}
	return sig, nil
}

func (s *Session) write(m Outbound) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.conn.WriteJSON(m); err != nil {
		s.logger.Warn("write failed", "type", m.Type, "error", err)
		s.server.config.Metrics.RecordWebSocketError("write")
		return err
	}
	return nil
}

// Close closes the connection. It is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		if s.sockets != nil {
			s.sockets.Disconnect()
		}
		s.writeMu.Lock()
		s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		s.writeMu.Unlock()
		s.conn.Close()
	})
}

func errorMessage(err error) Outbound {
	code := errors.CodeOf(err)
	if code == "" {
		code = "internal"
	}
	return Outbound{Type: MsgError, Code: code, Message: err.Error()}
}
