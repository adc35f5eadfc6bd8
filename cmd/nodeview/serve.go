package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vango-dev/nodeview/internal/config"
	"github.com/vango-dev/nodeview/pkg/bridge"
)

func serveCmd(load func() (*config.Config, error)) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the websocket bridge",
		Long: `Serve the websocket bridge that a remote editor core drives.

Routes:
  /ws       websocket bridge, one plugin per connection
  /metrics  Prometheus metrics (when metrics.enabled)
  /healthz  liveness probe

Examples:
  nodeview serve
  nodeview serve --port=8080 --host=0.0.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			return runServe(cmd.Context(), cfg, newLogger(cfg))
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from nodeview.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from nodeview.json)")

	return cmd
}

// newHandler builds the HTTP routes and the bridge behind /ws.
func newHandler(cfg *config.Config, logger *slog.Logger) (http.Handler, *bridge.Server, error) {
	opts, err := presetOptions(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	store, err := openSnapshots(cfg)
	if err != nil {
		return nil, nil, err
	}

	var reg *prometheus.Registry
	if cfg.Metrics.Enabled {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	var registerer prometheus.Registerer
	if reg != nil {
		registerer = reg
	}
	mws, metrics := instrumentation(cfg, registerer)

	bridgeServer, err := bridge.New(bridge.Config{
		Presets:         cfg.Render.Presets,
		PresetOptions:   opts,
		Immediate:       cfg.Render.Scheduler == config.SchedulerImmediate,
		Middleware:      mws,
		Metrics:         metrics,
		Store:           store,
		ReadBufferSize:  cfg.Server.ReadBufferSize,
		WriteBufferSize: cfg.Server.WriteBufferSize,
		CheckOrigin:     checkOrigin(cfg.Server.AllowedOrigins),
		Logger:          logger,
	})
	if err != nil {
		return nil, nil, err
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if reg != nil {
		r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	}
	r.Handle("/ws", bridgeServer)

	return r, bridgeServer, nil
}

// checkOrigin allows the listed origins. An empty list keeps gorilla's
// same-origin default.
func checkOrigin(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return nil
	}
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set["*"] || set[origin]
	}
}

func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	handler, bridgeServer, err := newHandler(cfg, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	success("Serving on http://%s", cfg.Address())
	info("websocket: ws://%s/ws", cfg.Address())
	if cfg.Metrics.Enabled {
		info("metrics:   http://%s/metrics", cfg.Address())
	}

	select {
	case err := <-errCh:
		if err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	info("Shutting down...")
	bridgeServer.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
