package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	nverrors "github.com/vango-dev/nodeview/internal/errors"
	"github.com/vango-dev/nodeview/pkg/plugin"
	"github.com/vango-dev/nodeview/pkg/scope"
)

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func metricGaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	return m.GetGauge().GetValue()
}

func metricHistogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func fill(ctx context.Context, s *scope.Signal) (*scope.Signal, error) {
	d := *s.Data.(*plugin.RenderData)
	d.Filled = true
	return &scope.Signal{Type: s.Type, Data: &d}, nil
}

func TestPrometheusOutcomes(t *testing.T) {
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()))
	sc := scope.New("render")
	sc.UseMiddleware(m.Middleware())
	sc.AddPipe(func(ctx context.Context, s *scope.Signal) (*scope.Signal, error) {
		switch s.Type {
		case "drop":
			return nil, nil
		case "fail":
			return nil, nverrors.New("E201")
		case "boom":
			return nil, errors.New("boom")
		case plugin.TypeRender:
			return fill(ctx, s)
		}
		return s, nil
	})

	ctx := context.Background()
	sc.Emit(ctx, plugin.Render(1, "node", nil))
	sc.Emit(ctx, &scope.Signal{Type: "other"})
	sc.Emit(ctx, &scope.Signal{Type: "drop"})
	sc.Emit(ctx, &scope.Signal{Type: "fail"})
	sc.Emit(ctx, &scope.Signal{Type: "boom"})

	tests := []struct {
		typ, outcome string
	}{
		{plugin.TypeRender, OutcomeFilled},
		{"other", OutcomePassed},
		{"drop", OutcomeDropped},
		{"fail", OutcomeError},
		{"boom", OutcomeError},
	}
	for _, tt := range tests {
		if got := metricCounterValue(t, m.signalsTotal.WithLabelValues("render", tt.typ, tt.outcome)); got != 1 {
			t.Errorf("signals_total(%s, %s) = %v, want 1", tt.typ, tt.outcome, got)
		}
	}
	if got := metricCounterValue(t, m.signalErrors.WithLabelValues("render", "E201")); got != 1 {
		t.Errorf("signal_errors_total(E201) = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.signalErrors.WithLabelValues("render", "internal")); got != 1 {
		t.Errorf("signal_errors_total(internal) = %v, want 1", got)
	}
	if got := metricHistogramCount(t, m.signalDuration.WithLabelValues("render", "other")); got != 1 {
		t.Errorf("signal_duration_seconds count = %d, want 1", got)
	}
}

func TestPrometheusFilledPassesThrough(t *testing.T) {
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()))
	pipe := m.Middleware()("render", func(ctx context.Context, s *scope.Signal) (*scope.Signal, error) {
		return s, nil
	})

	in := &scope.Signal{Type: plugin.TypeRender, Data: &plugin.RenderData{Element: 1, Filled: true}}
	if _, err := pipe(context.Background(), in); err != nil {
		t.Fatal(err)
	}
	if got := metricCounterValue(t, m.signalsTotal.WithLabelValues("render", plugin.TypeRender, OutcomePassed)); got != 1 {
		t.Errorf("already filled signal should count as passed, got %v", got)
	}
}

func TestMetricsRecordFunctions(t *testing.T) {
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()), WithNamespace("test"))

	m.RecordPatches(3)
	m.RecordSessionCreate()
	m.RecordSessionCreate()
	m.RecordSessionDestroy()
	m.RecordWebSocketError("read")

	if got := metricCounterValue(t, m.patchesSent); got != 3 {
		t.Errorf("patches_sent_total = %v, want 3", got)
	}
	if got := metricGaugeValue(t, m.activeSessions); got != 1 {
		t.Errorf("active_sessions = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.wsErrors.WithLabelValues("read")); got != 1 {
		t.Errorf("websocket_errors_total(read) = %v, want 1", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordPatches(1)
	m.RecordSessionCreate()
	m.RecordSessionDestroy()
	m.RecordWebSocketError("x")

	called := false
	pipe := m.Middleware()("s", func(ctx context.Context, s *scope.Signal) (*scope.Signal, error) {
		called = true
		return s, nil
	})
	pipe(context.Background(), &scope.Signal{Type: "x"})
	if !called {
		t.Error("nil metrics should still call next")
	}
}
