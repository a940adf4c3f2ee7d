package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"shotchart/internal/cache"
	"shotchart/internal/config"
	"shotchart/internal/logging"
	"shotchart/internal/nbastats"
	"shotchart/internal/repository/sqlite"
	"shotchart/internal/service"
)

// app holds the dependencies shared by every command
type app struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger
	repo    *sqlite.Repository
	store   cache.Store
	cache   *cache.Cache
	players *service.PlayerService
}

func loadConfig(opts *rootOptions) (*config.Config, string, error) {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if opts.configPath != "" {
		cfg, path, err = config.LoadFromPath(opts.configPath)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return nil, path, err
	}
	if opts.debug {
		cfg.Server.Debug = true
		cfg.Log.Level = "debug"
	}
	return cfg, path, nil
}

// openApp loads config, sets up logging and opens the directory, cache and
// upstream client. The caller must call close.
func openApp(ctx context.Context, opts *rootOptions, logOut io.Writer) (*app, error) {
	cfg, path, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	logger, err := logging.Setup(logOut, logging.Options{
		Level:     cfg.LogLevel(),
		Format:    cfg.Log.Format,
		AddSource: cfg.Server.Debug,
	})
	if err != nil {
		return nil, err
	}
	if path != "" {
		logger.Debug("loaded config", "path", path)
	}

	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		repo.Close()
		return nil, err
	}

	ttls, err := cfg.CacheTTLs()
	if err != nil {
		store.Close()
		repo.Close()
		return nil, err
	}
	kinds := make(map[cache.Kind]time.Duration, len(ttls))
	for k, v := range ttls {
		kinds[cache.Kind(k)] = v
	}
	c := cache.New(store, kinds)

	stats := nbastats.New(
		nbastats.WithBaseURL(cfg.Upstream.BaseURL),
		nbastats.WithTimeout(cfg.Upstream.Timeout.Duration()),
		nbastats.WithRetries(cfg.Upstream.Retries),
		nbastats.WithRequestDelay(cfg.Upstream.RequestDelay.Duration()),
	)

	return &app{
		cfg:     cfg,
		cfgPath: path,
		logger:  logger,
		repo:    repo,
		store:   store,
		cache:   c,
		players: service.NewPlayerService(repo, stats, c, service.WithLogger(logger)),
	}, nil
}

func openStore(ctx context.Context, cfg *config.Config) (cache.Store, error) {
	if cfg.Cache.Backend != config.CacheRedis {
		return cache.NewMemoryStore(), nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	store, err := cache.OpenRedis(ctx, cfg.Cache.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("open redis cache: %w", err)
	}
	return store, nil
}

func (a *app) close() {
	if err := a.cache.Close(); err != nil {
		a.logger.Warn("failed to close cache", "error", err)
	}
	if err := a.repo.Close(); err != nil {
		a.logger.Warn("failed to close database", "error", err)
	}
}

// withApp opens the app for the duration of fn. Logs go to stderr so command
// output stays clean.
func withApp(ctx context.Context, opts *rootOptions, fn func(*app) error) error {
	a, err := openApp(ctx, opts, os.Stderr)
	if err != nil {
		return err
	}
	defer a.close()
	return fn(a)
}
