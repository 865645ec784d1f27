package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	ferrors "git.home.luguber.info/inful/hookdoc/internal/foundation/errors"
	"git.home.luguber.info/inful/hookdoc/internal/logfields"
	"git.home.luguber.info/inful/hookdoc/internal/metrics"
	"git.home.luguber.info/inful/hookdoc/internal/readme"
	"git.home.luguber.info/inful/hookdoc/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Target TargetFlags `embed:""`

	Debounce      time.Duration `help:"Quiet period after the last change (overrides watch.debounce)"`
	Interval      time.Duration `help:"Also regenerate on this interval (overrides watch.interval)"`
	MetricsListen string        `name:"metrics-listen" help:"Serve Prometheus metrics on host:port (overrides metrics.listen)" placeholder:"ADDR"`
}

// Run executes the watch command until interrupted.
func (w *WatchCmd) Run(globals *Global, root *CLI) error {
	cfg, err := loadConfig(root, w.Target)
	if err != nil {
		return err
	}
	debounce := cfg.Watch.DebounceDuration()
	if w.Debounce > 0 {
		debounce = w.Debounce
	}
	interval := cfg.Watch.IntervalDuration()
	if w.Interval > 0 {
		interval = w.Interval
	}
	if w.MetricsListen != "" {
		cfg.Metrics.Listen = w.MetricsListen
	}

	registry := prom.NewRegistry()
	gen, err := readme.NewGenerator(cfg,
		readme.WithRecorder(metrics.NewPrometheusRecorder(registry)),
		readme.WithLogger(globals.Logger))
	if err != nil {
		return err
	}

	ignore := []string{cfg.Output.Path}
	if cfg.Metrics.Textfile != "" {
		ignore = append(ignore, cfg.Metrics.Textfile)
	}
	watcher, err := watch.New(watch.Options{
		Root:     cfg.Hooks.Directory,
		Debounce: debounce,
		Interval: interval,
		Ignore:   ignore,
	}, func(ctx context.Context, _ watch.Reason) error {
		_, err := gen.Generate(ctx)
		if cfg.Metrics.Textfile != "" {
			exportTextfile(cfg, registry)
		}
		return err
	})
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	if cfg.Metrics.Listen != "" {
		stop, err := serveMetrics(cfg.Metrics.Listen, registry)
		if err != nil {
			return err
		}
		defer stop()
	}

	return watcher.Run(ctx)
}

// serveMetrics starts a /metrics endpoint and returns a function that shuts it down.
func serveMetrics(addr string, g prom.Gatherer) (func(), error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(g))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			// Failures after startup have no caller left to return to.
			slog.Error("Metrics server failed", slog.String("listen", addr), logfields.Error(err))
			errCh <- err
		}
		close(errCh)
	}()

	// Surface immediate bind failures.
	select {
	case err, ok := <-errCh:
		if ok {
			return nil, ferrors.RuntimeError("start metrics server").
				WithCause(err).
				WithContext("listen", addr).
				Build()
		}
	case <-time.After(100 * time.Millisecond):
	}
	slog.Info("Serving metrics", slog.String("listen", addr))

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Metrics server shutdown error", logfields.Error(err))
		}
	}, nil
}
