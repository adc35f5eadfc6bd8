package middleware

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/nodeview/internal/errors"
	"github.com/vango-dev/nodeview/pkg/scope"
)

// MetricsConfig configures the Prometheus middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "nodeview").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for pipe duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "nodeview",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Signal outcomes used as the "outcome" label.
const (
	OutcomeFilled  = "filled"
	OutcomePassed  = "passed"
	OutcomeDropped = "dropped"
	OutcomeError   = "error"
)

// Metrics holds the collectors. A nil *Metrics records nothing, so callers
// can keep an optional reference without checks.
type Metrics struct {
	signalsTotal   *prometheus.CounterVec
	signalDuration *prometheus.HistogramVec
	signalErrors   *prometheus.CounterVec
	patchesSent    prometheus.Counter
	activeSessions prometheus.Gauge
	wsErrors       *prometheus.CounterVec
}

// NewMetrics registers the collectors on the configured registry.
// Registering twice on the same registry panics.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		signalsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "signals_total",
			Help:        "Total number of signals processed by scope pipes",
			ConstLabels: config.ConstLabels,
		}, []string{"scope", "type", "outcome"}),

		signalDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "signal_duration_seconds",
			Help:        "Pipe processing duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"scope", "type"}),

		signalErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "signal_errors_total",
			Help:        "Total number of pipe failures by error code",
			ConstLabels: config.ConstLabels,
		}, []string{"scope", "code"}),

		patchesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patches_sent_total",
			Help:        "Total number of patches sent to bridge clients",
			ConstLabels: config.ConstLabels,
		}),

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_sessions",
			Help:        "Number of open bridge sessions",
			ConstLabels: config.ConstLabels,
		}),

		wsErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "websocket_errors_total",
			Help:        "Total bridge WebSocket errors by type",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),
	}
}

// Prometheus is shorthand for NewMetrics(opts...).Middleware().
func Prometheus(opts ...MetricsOption) scope.Middleware {
	return NewMetrics(opts...).Middleware()
}

// Middleware returns the pipe instrumentation.
func (m *Metrics) Middleware() scope.Middleware {
	return func(scopeName string, next scope.Pipe) scope.Pipe {
		if m == nil {
			return next
		}
		return func(ctx context.Context, s *scope.Signal) (*scope.Signal, error) {
			typ := signalType(s)
			wasFilled := isFilled(s)

			start := time.Now()
			out, err := next(ctx, s)
			m.signalDuration.WithLabelValues(scopeName, typ).Observe(time.Since(start).Seconds())

			m.signalsTotal.WithLabelValues(scopeName, typ, outcome(wasFilled, out, err)).Inc()
			if err != nil {
				m.signalErrors.WithLabelValues(scopeName, errorCode(err)).Inc()
			}
			return out, err
		}
	}
}

func outcome(wasFilled bool, out *scope.Signal, err error) string {
	switch {
	case err != nil:
		return OutcomeError
	case out == nil:
		return OutcomeDropped
	case !wasFilled && isFilled(out):
		return OutcomeFilled
	default:
		return OutcomePassed
	}
}

func signalType(s *scope.Signal) string {
	if s == nil || s.Type == "" {
		return "unknown"
	}
	return s.Type
}

func isFilled(s *scope.Signal) bool {
	if s == nil {
		return false
	}
	f, ok := s.Data.(scope.Filler)
	return ok && f.IsFilled()
}

// errorCode keeps the label set bounded: coded errors use their code,
// everything else is "internal".
func errorCode(err error) string {
	if code := errors.CodeOf(err); code != "" {
		return code
	}
	return "internal"
}

// RecordPatches records patches pushed to a bridge client.
func (m *Metrics) RecordPatches(count int) {
	if m != nil {
		m.patchesSent.Add(float64(count))
	}
}

// RecordSessionCreate records an opened bridge session.
func (m *Metrics) RecordSessionCreate() {
	if m != nil {
		m.activeSessions.Inc()
	}
}

// RecordSessionDestroy records a closed bridge session.
func (m *Metrics) RecordSessionDestroy() {
	if m != nil {
		m.activeSessions.Dec()
	}
}

// RecordWebSocketError records a bridge transport error.
func (m *Metrics) RecordWebSocketError(errorType string) {
	if m != nil {
		m.wsErrors.WithLabelValues(errorType).Inc()
	}
}
