package middleware

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/embedded"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vango-dev/nodeview/pkg/plugin"
	"github.com/vango-dev/nodeview/pkg/scope"
)

type startedSpan struct {
	name  string
	attrs []attribute.KeyValue
}

type recordingTracer struct {
	embedded.Tracer
	spans []startedSpan
}

func (r *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	r.spans = append(r.spans, startedSpan{name: name, attrs: cfg.Attributes()})
	return noop.NewTracerProvider().Tracer("").Start(ctx, name, opts...)
}

type recordingProvider struct {
	embedded.TracerProvider
	names  []string
	tracer *recordingTracer
}

func (p *recordingProvider) Tracer(name string, _ ...trace.TracerOption) trace.Tracer {
	p.names = append(p.names, name)
	return p.tracer
}

func newRecordingProvider() *recordingProvider {
	return &recordingProvider{tracer: &recordingTracer{}}
}

func attrValue(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestOpenTelemetrySpanPerSignal(t *testing.T) {
	tp := newRecordingProvider()
	sc := scope.New("render")
	sc.UseMiddleware(OpenTelemetry(
		WithTracerProvider(tp),
		WithTracerName("nodeview-test"),
		WithAttributeExtractor(func(*scope.Signal) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("test.attr", "ok")}
		}),
	))
	sc.AddPipe(func(ctx context.Context, s *scope.Signal) (*scope.Signal, error) { return s, nil })

	if _, err := sc.Emit(context.Background(), plugin.Render(7, "node", nil)); err != nil {
		t.Fatal(err)
	}

	if len(tp.names) != 1 || tp.names[0] != "nodeview-test" {
		t.Errorf("tracer names = %v", tp.names)
	}
	spans := tp.tracer.spans
	if len(spans) != 1 || spans[0].name != "render.render" {
		t.Fatalf("spans = %+v", spans)
	}
	if v, ok := attrValue(spans[0].attrs, "nodeview.element"); !ok || v.AsInt64() != 7 {
		t.Errorf("nodeview.element = %v, %v", v, ok)
	}
	if v, ok := attrValue(spans[0].attrs, "nodeview.kind"); !ok || v.AsString() != "node" {
		t.Errorf("nodeview.kind = %v, %v", v, ok)
	}
	if _, ok := attrValue(spans[0].attrs, "test.attr"); !ok {
		t.Error("custom attribute missing")
	}
}

func TestOpenTelemetryFilterAndErrors(t *testing.T) {
	tp := newRecordingProvider()
	boom := errors.New("boom")
	pipe := OpenTelemetry(
		WithTracerProvider(tp),
		WithIncludePayload(false),
		WithSignalFilter(func(s *scope.Signal) bool { return s.Type != "skip" }),
	)("render", func(ctx context.Context, s *scope.Signal) (*scope.Signal, error) {
		if s.Type == "fail" {
			return nil, boom
		}
		return s, nil
	})

	if _, err := pipe(context.Background(), &scope.Signal{Type: "skip"}); err != nil {
		t.Fatal(err)
	}
	if len(tp.tracer.spans) != 0 {
		t.Errorf("filtered signal opened %d spans", len(tp.tracer.spans))
	}

	if _, err := pipe(context.Background(), &scope.Signal{Type: "fail"}); !errors.Is(err, boom) {
		t.Errorf("error = %v, want boom", err)
	}
	if len(tp.tracer.spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(tp.tracer.spans))
	}
	if _, ok := attrValue(tp.tracer.spans[0].attrs, "nodeview.element"); ok {
		t.Error("payload attributes should be off")
	}
}

func TestSpanFromContextWithoutSpan(t *testing.T) {
	if span := SpanFromContext(context.Background()); span.IsRecording() {
		t.Error("background context should carry a non-recording span")
	}
}
