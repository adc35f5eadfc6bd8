package main

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/nodeview/internal/config"
	"github.com/vango-dev/nodeview/pkg/middleware"
	"github.com/vango-dev/nodeview/pkg/presets"
	"github.com/vango-dev/nodeview/pkg/scope"
	"github.com/vango-dev/nodeview/pkg/snapshot"
)

// presetOptions maps the render section onto catalog options.
func presetOptions(cfg *config.Config, logger *slog.Logger) (presets.Options, error) {
	delay, err := cfg.MenuDelay()
	if err != nil {
		return presets.Options{}, err
	}
	return presets.Options{
		Logger:         logger,
		ConnectionPath: cfg.Render.ConnectionPath,
		Curvature:      cfg.Render.Curvature,
		MinimapSize:    cfg.Render.MinimapSize,
		MenuDelay:      delay,
	}, nil
}

// openSnapshots opens the configured snapshot store. It returns nil when
// snapshots are not configured.
func openSnapshots(cfg *config.Config) (snapshot.Store, error) {
	s3 := cfg.Snapshot.S3
	return snapshot.Open(snapshot.Options{
		Dir:          cfg.SnapshotDir(),
		Bucket:       s3.Bucket,
		Prefix:       s3.Prefix,
		Region:       s3.Region,
		Endpoint:     s3.Endpoint,
		UsePathStyle: s3.UsePathStyle,
	})
}

// instrumentation builds the plugin middleware chain. metrics is nil when
// metrics are disabled.
func instrumentation(cfg *config.Config, reg prometheus.Registerer) ([]scope.Middleware, *middleware.Metrics) {
	var (
		mws     []scope.Middleware
		metrics *middleware.Metrics
	)
	if cfg.Tracing.Enabled {
		mws = append(mws, middleware.OpenTelemetry(middleware.WithTracerName(cfg.Tracing.TracerName)))
	}
	if cfg.Metrics.Enabled && reg != nil {
		metrics = middleware.NewMetrics(
			middleware.WithNamespace(cfg.Metrics.Namespace),
			middleware.WithRegistry(reg),
		)
		mws = append(mws, metrics.Middleware())
	}
	return mws, metrics
}
