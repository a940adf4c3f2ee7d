package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"shotchart/internal/cache"
	"shotchart/internal/handler"
	"shotchart/internal/jobs"
	"shotchart/internal/session"
	"shotchart/internal/telemetry"
	"shotchart/internal/watcher"
)

// Background job names
const (
	JobDirectorySync = "directory-sync"
	JobCacheWarm     = "cache-warm"
	JobCacheSweep    = "cache-sweep"
	JobSessionSweep  = "session-sweep"
)

func serveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) error {
	a, err := openApp(ctx, opts, os.Stderr)
	if err != nil {
		return err
	}
	defer a.close()
	cfg := a.cfg
	logger := a.logger

	logger.Info("starting shotchart", "version", Version)
	logger.Debug("configuration", "summary", cfg.Summary())

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.Endpoint)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("failed to flush traces", "error", err)
		}
	}()

	n, err := a.players.Bootstrap(ctx, cfg.Players.SeedPath)
	if err != nil {
		return fmt.Errorf("load player directory: %w", err)
	}
	if n > 0 {
		logger.Info("player directory loaded", "players", n)
	}

	sessions := session.NewManager(session.Config{
		CookieName:  cfg.Session.CookieName,
		Secret:      cfg.Session.Secret,
		IdleTimeout: cfg.Session.IdleTimeout.Duration(),
		Secure:      cfg.Session.Secure,
	})

	registry := jobs.NewRegistry(logger)
	if err := registerJobs(registry, a, sessions); err != nil {
		return err
	}
	registry.Start(ctx)
	defer registry.Stop()

	if cfg.Players.Watch && cfg.Players.SeedPath != "" {
		w := watcher.New(cfg.Players.SeedPath, a.players.ReloadRoster(cfg.Players.SeedPath)).WithLogger(logger)
		go func() {
			if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("roster watcher stopped", "error", err)
			}
		}()
		logger.Info("watching roster file", "path", cfg.Players.SeedPath)
	}

	h := handler.New(a.players, sessions, handler.Config{
		Debug:         cfg.Server.Debug,
		CORSOrigins:   cfg.CORS.Origins,
		DefaultSeason: cfg.Defaults.Season,
		Printer:       message.NewPrinter(language.English),
		Version:       Version,
		Environment:   cfg.Server.Environment,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      h.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout.Duration(),
		WriteTimeout: cfg.Server.WriteTimeout.Duration(),
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
	defer cancel()
	if err := server.Shutdown(sctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// registerJobs adds the background jobs configured for serve
func registerJobs(r *jobs.Registry, a *app, sessions *session.Manager) error {
	cfg := a.cfg

	syncEvery := cfg.Players.SyncInterval.Duration()
	if err := r.Register(syncJob(a, cfg.Defaults.Season), jobs.Config{
		Enabled:  syncEvery > 0,
		Interval: syncEvery,
	}); err != nil {
		return err
	}

	warmEvery := cfg.Cache.WarmInterval.Duration()
	if err := r.Register(warmJob(a, cfg.Cache.WarmPlayers, []string{cfg.Defaults.Season}), jobs.Config{
		Enabled:  warmEvery > 0 && len(cfg.Cache.WarmPlayers) > 0,
		Interval: warmEvery,
	}); err != nil {
		return err
	}

	if err := r.Register(jobs.NewFunc(JobSessionSweep, func(context.Context) (jobs.Result, error) {
		return jobs.Result{Affected: sessions.Sweep()}, nil
	}), jobs.Config{Enabled: true, Interval: sessions.SweepInterval()}); err != nil {
		return err
	}

	if mem, ok := a.store.(*cache.MemoryStore); ok {
		if err := r.Register(jobs.NewFunc(JobCacheSweep, func(context.Context) (jobs.Result, error) {
			return jobs.Result{Affected: mem.Sweep()}, nil
		}), jobs.Config{Enabled: true, Interval: cache.DefaultTTL}); err != nil {
			return err
		}
	}
	return nil
}

func syncJob(a *app, season string) jobs.Job {
	return jobs.NewFunc(JobDirectorySync, func(ctx context.Context) (jobs.Result, error) {
		n, err := a.players.SyncDirectory(ctx, season, true)
		return jobs.Result{Affected: n}, err
	})
}

func warmJob(a *app, ids []int, seasons []string) jobs.Job {
	return jobs.NewFunc(JobCacheWarm, func(ctx context.Context) (jobs.Result, error) {
		res := a.players.WarmCache(ctx, ids, seasons)
		out := jobs.Result{Affected: res.Players}
		if res.Errors > 0 {
			out.Errors = append(out.Errors, fmt.Sprintf("%d fetches failed", res.Errors))
		}
		return out, ctx.Err()
	})
}
