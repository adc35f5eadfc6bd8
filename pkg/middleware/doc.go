// Package middleware instruments scope pipes.
//
// Both middlewares have the scope.Middleware shape and wrap every pipe added
// to a scope after registration:
//
//	m := middleware.NewMetrics(middleware.WithNamespace("nodeview"))
//	p := plugin.New(plugin.WithMiddleware(
//	    m.Middleware(),
//	    middleware.OpenTelemetry(middleware.WithTracerName("nodeview")),
//	))
//
// # Prometheus
//
// Metrics collected:
//   - nodeview_signals_total: signals by scope, type and outcome
//     (filled, passed, dropped, error)
//   - nodeview_signal_duration_seconds: pipe duration by scope and type
//   - nodeview_signal_errors_total: failures by scope and error code
//   - nodeview_patches_sent_total: patches pushed to bridge clients
//   - nodeview_active_sessions: open bridge sessions
//   - nodeview_websocket_errors_total: bridge transport errors by type
//
// Expose them with promhttp:
//
//	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
//
// # OpenTelemetry
//
// One span per signal, named "<scope>.<type>". The span context is passed
// to the wrapped pipe, so presets and nested scopes inherit the trace.
package middleware
