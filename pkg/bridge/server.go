// Package bridge exposes a plugin to a remote editor core over a websocket.
// Each connection gets its own plugin, document and paint queue; messages
// from one connection are processed in order.
package bridge

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/nodeview/pkg/middleware"
	"github.com/vango-dev/nodeview/pkg/presets"
	"github.com/vango-dev/nodeview/pkg/scope"
	"github.com/vango-dev/nodeview/pkg/snapshot"
)

// Config configures a Server.
type Config struct {
	// Presets are catalog names installed on every session's plugin.
	Presets []string

	// PresetOptions tune the built-in presets.
	PresetOptions presets.Options

	// Immediate paints synchronously instead of flushing a queue after
	// each message.
	Immediate bool

	// Middleware wraps every session's plugin pipe.
	Middleware []scope.Middleware

	// Metrics records session and transport metrics. Optional.
	Metrics *middleware.Metrics

	// Store persists "snapshot" requests. Optional.
	Store snapshot.Store

	// ReadTimeout closes idle connections (default: 60s).
	ReadTimeout time.Duration

	// MaxMessageSize limits inbound messages in bytes (default: 1MB).
	MaxMessageSize int64

	// ReadBufferSize and WriteBufferSize size the websocket buffers.
	ReadBufferSize  int
	WriteBufferSize int

	// CheckOrigin validates the Origin header. Nil applies gorilla's
	// same-origin check.
	CheckOrigin func(r *http.Request) bool

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Server upgrades HTTP requests and runs one session per connection.
type Server struct {
	config   Config
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// New creates a Server. Preset names are checked up front so a bad chain
// fails at startup rather than on the first connection.
func New(config Config) (*Server, error) {
	if _, err := presets.BuildAll(config.Presets, config.PresetOptions); err != nil {
		return nil, err
	}
	if config.ReadTimeout == 0 {
		config.ReadTimeout = 60 * time.Second
	}
	if config.MaxMessageSize == 0 {
		config.MaxMessageSize = 1 << 20
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Server{
		config: config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		logger:   config.Logger.With("component", "bridge"),
		sessions: make(map[string]*Session),
	}, nil
}

// ServeHTTP upgrades the request and blocks until the session ends.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		s.config.Metrics.RecordWebSocketError("upgrade")
		return
	}
	conn.SetReadLimit(s.config.MaxMessageSize)

	sess, err := newSession(s, conn)
	if err != nil {
		s.logger.Error("session setup failed", "error", err)
		conn.Close()
		return
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	s.config.Metrics.RecordSessionCreate()

	defer func() {
		s.mu.Lock()
		delete(s.sessions, sess.ID)
		s.mu.Unlock()
		s.config.Metrics.RecordSessionDestroy()
	}()

	sess.ReadLoop()
}

// Sessions returns the number of open sessions.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close ends every open session.
func (s *Server) Close() {
	s.mu.Lock()
	open := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		open = append(open, sess)
	}
	s.mu.Unlock()

	for _, sess := range open {
		sess.Close()
	}
}
