package middleware

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/nodeview/pkg/plugin"
	"github.com/vango-dev/nodeview/pkg/scope"
)

// Default tracer name.
const defaultTracerName = "nodeview"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "nodeview").
	TracerName string

	// TracerProvider supplies the tracer. Defaults to the global provider.
	TracerProvider trace.TracerProvider

	// IncludePayload adds the render kind and element to spans.
	// Enabled by default.
	IncludePayload bool

	// Filter determines which signals to trace.
	// If nil, all signals are traced.
	Filter func(s *scope.Signal) bool

	// AttributeExtractor adds custom attributes per signal.
	AttributeExtractor func(s *scope.Signal) []attribute.KeyValue
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithIncludePayload enables or disables render attributes.
func WithIncludePayload(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.IncludePayload = include
	}
}

// WithSignalFilter sets a filter function for signals.
func WithSignalFilter(filter func(s *scope.Signal) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(s *scope.Signal) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName:     defaultTracerName,
		IncludePayload: true,
	}
}

// OpenTelemetry creates middleware that opens a span per signal.
//
// The tracer comes from the global provider unless WithTracerProvider is
// used. Configure the provider in main() before building scopes:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
func OpenTelemetry(opts ...OTelOption) scope.Middleware {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}

	var tracer trace.Tracer
	if config.TracerProvider != nil {
		tracer = config.TracerProvider.Tracer(config.TracerName)
	} else {
		tracer = otel.Tracer(config.TracerName)
	}

	return func(scopeName string, next scope.Pipe) scope.Pipe {
		return func(ctx context.Context, s *scope.Signal) (*scope.Signal, error) {
			if s == nil || (config.Filter != nil && !config.Filter(s)) {
				return next(ctx, s)
			}

			attrs := []attribute.KeyValue{
				attribute.String("nodeview.scope", scopeName),
				attribute.String("nodeview.signal_type", s.Type),
			}
			if config.IncludePayload {
				attrs = append(attrs, payloadAttributes(s)...)
			}
			if config.AttributeExtractor != nil {
				attrs = append(attrs, config.AttributeExtractor(s)...)
			}

			spanCtx, span := tracer.Start(ctx,
				fmt.Sprintf("%s.%s", scopeName, s.Type),
				trace.WithSpanKind(trace.SpanKindInternal),
				trace.WithAttributes(attrs...),
			)
			defer span.End()

			wasFilled := isFilled(s)
			out, err := next(spanCtx, s)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			} else {
				span.SetStatus(codes.Ok, "")
			}
			span.SetAttributes(attribute.String("nodeview.outcome", outcome(wasFilled, out, err)))
			return out, err
		}
	}
}

func payloadAttributes(s *scope.Signal) []attribute.KeyValue {
	switch d := s.Data.(type) {
	case *plugin.RenderData:
		if d == nil {
			return nil
		}
		return []attribute.KeyValue{
			attribute.Int64("nodeview.element", int64(d.Element)),
			attribute.String("nodeview.kind", d.Kind),
		}
	case *plugin.UnmountData:
		if d == nil {
			return nil
		}
		return []attribute.KeyValue{attribute.Int64("nodeview.element", int64(d.Element))}
	}
	return nil
}

// SpanFromContext returns the span opened for the current signal. It is a
// non-recording span when tracing is off.
func SpanFromContext(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}
