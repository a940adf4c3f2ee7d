package service

import (
	"context"
	"log/slog"
	"time"

	"shotchart/internal/cache"
	"shotchart/internal/domain"
	"shotchart/internal/repository"
)

// StatsSource is the upstream statistics provider
type StatsSource interface {
	ShotChart(ctx context.Context, playerID int, season, seasonType string) ([]domain.Shot, error)
	PlayerInfo(ctx context.Context, playerID int) (domain.Player, error)
	CareerTotals(ctx context.Context, playerID int) ([]domain.SeasonTotals, error)
	AllPlayers(ctx context.Context, season string, currentOnly bool) ([]domain.Player, error)
}

// Search limits
const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 50
	minQueryLength     = 2
	maxQueryLength     = 100
)

// PlayerService provides player lookups for search, selection and charts
type PlayerService struct {
	dir    repository.PlayerRepository
	stats  StatsSource
	cache  *cache.Cache
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a PlayerService
type Option func(*PlayerService)

// WithClock overrides the clock used for season lists
func WithClock(now func() time.Time) Option {
	return func(s *PlayerService) {
		s.now = now
	}
}

// WithLogger sets the service logger
func WithLogger(l *slog.Logger) Option {
	return func(s *PlayerService) {
		s.logger = l
	}
}

// NewPlayerService creates a new player service. A nil cache disables
// caching.
func NewPlayerService(dir repository.PlayerRepository, stats StatsSource, c *cache.Cache, opts ...Option) *PlayerService {
	s := &PlayerService{
		dir:    dir,
		stats:  stats,
		cache:  c,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "players")
	return s
}

// Ready reports whether the directory can serve requests
func (s *PlayerService) Ready(ctx context.Context) error {
	return s.dir.Ping(ctx)
}

// CacheReady reports whether the cache backend is reachable. It is nil when
// caching is disabled.
func (s *PlayerService) CacheReady(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Ping(ctx)
}
