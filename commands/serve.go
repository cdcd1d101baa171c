package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/cat-mip/cat-mip/site"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

// serveMetrics holds the Prometheus instruments for the docs server.
type serveMetrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	rebuilds        prometheus.Counter
	rebuildDuration prometheus.Histogram
}

func newServeMetrics() *serveMetrics {
	m := &serveMetrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catmip_http_requests_total",
			Help: "HTTP requests served, by status code.",
		}, []string{"code"}),
		rebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catmip_site_rebuilds_total",
			Help: "Site rebuilds triggered by standards tree changes.",
		}),
		rebuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "catmip_site_rebuild_duration_seconds",
			Help:    "Time taken to rebuild the documentation site.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	m.registry.MustRegister(m.requests, m.rebuilds, m.rebuildDuration)
	return m
}

// NewServeCmd creates the serve command. It serves the generated docs
// over HTTP and optionally rebuilds them when the standards tree
// changes.
func NewServeCmd(app *App) *cobra.Command {
	var (
		address string
		watch   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generated documentation site",
		Long: `Serve exposes the generated site from build/docs over HTTP, with
Prometheus metrics on /metrics. With --watch, the standards tree is
watched and the site is rebuilt when term records change.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config()
			logger := app.Logger()

			if address == "" {
				address = cfg.Serve.Address
			}

			metrics := newServeMetrics()

			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(metrics.registry, promhttp.HandlerOpts{}))
			mux.Handle("/", promhttp.InstrumentHandlerCounter(metrics.requests,
				http.FileServer(http.Dir(cfg.DocsDir()))))

			server := &http.Server{
				Addr:              address,
				Handler:           mux,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if watch {
				if err := startWatchRebuild(ctx, app, metrics); err != nil {
					return err
				}
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Serving docs", "address", address, "dir", cfg.DocsDir())
				if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			select {
			case err := <-errCh:
				return fmt.Errorf("serve docs: %w", err)
			case <-ctx.Done():
			}

			logger.Info("Shutting down")
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			return server.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "Listen address (defaults to serve.address from config)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Rebuild the site when the standards tree changes")

	return cmd
}

// startWatchRebuild builds the site once, then rebuilds it whenever
// the watcher reports changes. The watcher stops when ctx is done.
func startWatchRebuild(ctx context.Context, app *App, metrics *serveMetrics) error {
	cfg := app.Config()
	logger := app.Logger()

	rebuild := func() {
		start := time.Now()
		reg, err := app.loadRegistry()
		if err != nil {
			logger.Error("Rebuild failed", "error", err)
			return
		}
		builder := site.NewBuilder(cfg.DocsDir(), cfg.Paths.Assets, logger)
		if err := builder.Build(reg); err != nil {
			logger.Error("Rebuild failed", "error", err)
			return
		}
		elapsed := time.Since(start)
		metrics.rebuilds.Inc()
		metrics.rebuildDuration.Observe(elapsed.Seconds())
		logger.Info("Site rebuilt", "terms", len(reg.Terms), "elapsed", elapsed)
	}

	// Initial build so the server has content to serve.
	rebuild()

	watchConfig := site.DefaultWatchConfig()
	if cfg.Serve.WatchDebounce > 0 {
		watchConfig.DebounceDelay = cfg.Serve.WatchDebounce
	}

	watcher, err := site.NewWatcher(watchConfig, cfg.Paths.Standards, logger)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}

	go func() {
		defer watcher.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case change, ok := <-watcher.Changes():
				if !ok {
					return
				}
				logger.Debug("Standards tree changed", "paths", len(change.Paths))
				rebuild()
			}
		}
	}()

	return nil
}
