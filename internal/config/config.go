// Package config provides configuration management for shotchart.
//
// Configuration comes from an optional YAML file, then environment variable
// overrides, then defaults for anything still unset.
//
// Config file locations (priority order):
//  1. $SHOTCHART_CONFIG
//  2. ./shotchart.yaml
//  3. $XDG_CONFIG_HOME/shotchart/config.yaml
//  4. ~/.config/shotchart/config.yaml
//  5. /etc/shotchart/config.yaml
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"shotchart/internal/domain"
)

// Defaults
const (
	DefaultAddr         = ":5000"
	DefaultDatabasePath = "./shotchart.db"
	DefaultServiceName  = "shotchart"
)

// Load finds and loads the config file, or starts from defaults if none is
// found. Environment overrides are applied in both cases.
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		cfg := DefaultConfig()
		if err := cfg.applyEnv(); err != nil {
			return nil, "", err
		}
		cfg.applyDefaults()
		return cfg, "", cfg.Validate()
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, path, err
	}
	cfg.applyDefaults()

	return &cfg, path, cfg.Validate()
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyEnv overlays environment variables. PORT is honoured for platforms
// that assign one, unless SHOTCHART_ADDR is set.
func (c *Config) applyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	type portEnv struct {
		Port string `env:"PORT"`
	}
	p, err := env.ParseAs[portEnv]()
	if err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if p.Port != "" && os.Getenv("SHOTCHART_ADDR") == "" {
		c.Server.Addr = net.JoinHostPort("", p.Port)
	}
	return nil
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}

	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	setDuration(&c.Server.ReadTimeout, 15*time.Second)
	setDuration(&c.Server.WriteTimeout, 60*time.Second)
	setDuration(&c.Server.ShutdownTimeout, 10*time.Second)

	if c.Database.Path == "" {
		c.Database.Path = DefaultDatabasePath
	}

	if c.Upstream.BaseURL == "" {
		c.Upstream.BaseURL = "https://stats.nba.com/stats"
	}
	setDuration(&c.Upstream.Timeout, 30*time.Second)
	if c.Upstream.Retries == 0 {
		c.Upstream.Retries = 3
	}
	setDuration(&c.Upstream.RequestDelay, 600*time.Millisecond)

	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheMemory
		if c.Cache.RedisURL != "" {
			c.Cache.Backend = CacheRedis
		}
	}

	if c.Session.CookieName == "" {
		c.Session.CookieName = "shotchart_session"
	}
	setDuration(&c.Session.IdleTimeout, 12*time.Hour)

	if len(c.CORS.Origins) == 0 {
		c.CORS.Origins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	}

	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = DefaultServiceName
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
		if c.Server.Debug {
			c.Log.Level = "debug"
		}
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.Defaults.Season == "" {
		c.Defaults.Season = domain.DefaultSeason
	}
}

func setDuration(d *Duration, def time.Duration) {
	if *d <= 0 {
		*d = Duration(def)
	}
}

// Validate reports every invalid setting
func (c *Config) Validate() error {
	var errs []error

	switch c.Cache.Backend {
	case CacheMemory:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			errs = append(errs, errors.New("cache.redis_url is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.backend must be %q or %q, got %q", CacheMemory, CacheRedis, c.Cache.Backend))
	}

	if _, err := c.CacheTTLs(); err != nil {
		errs = append(errs, err)
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}

	if c.Upstream.Retries < 0 {
		errs = append(errs, errors.New("upstream.retries must not be negative"))
	}

	for _, id := range c.Cache.WarmPlayers {
		if err := domain.ValidatePlayerID(id); err != nil {
			errs = append(errs, fmt.Errorf("cache.warm_players: %w", err))
		}
	}
	if c.Cache.WarmInterval < 0 || c.Players.SyncInterval < 0 {
		errs = append(errs, errors.New("intervals must not be negative"))
	}

	if err := domain.ValidateSeason(c.Defaults.Season); err != nil {
		errs = append(errs, fmt.Errorf("defaults.season: %w", err))
	}

	return errors.Join(errs...)
}

// knownTTLKinds are the accepted keys of cache.ttls
var knownTTLKinds = []string{"player_search", "player_info", "player_shots", "player_stats", "seasons"}

// CacheTTLs returns the configured per-kind TTL overrides
func (c *Config) CacheTTLs() (map[string]time.Duration, error) {
	out := make(map[string]time.Duration, len(c.Cache.TTLs))
	for kind, d := range c.Cache.TTLs {
		known := false
		for _, k := range knownTTLKinds {
			if k == kind {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("cache.ttls: unknown kind %q", kind)
		}
		out[kind] = d.Duration()
	}
	return out, nil
}

// LogLevel returns the configured slog level, defaulting to info
func (c *Config) LogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	summary := fmt.Sprintf("Listen: %s, Database: %s\n", c.Server.Addr, c.Database.Path)
	summary += fmt.Sprintf("Cache: %s, Upstream: %s (timeout %s, retries %d)\n",
		c.Cache.Backend, c.Upstream.BaseURL, c.Upstream.Timeout.Duration(), c.Upstream.Retries)
	summary += fmt.Sprintf("Default season: %s", c.Defaults.Season)
	if c.Players.SeedPath != "" {
		summary += fmt.Sprintf(", Roster: %s (watch=%v)", c.Players.SeedPath, c.Players.Watch)
	}
	return summary
}
