package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearEnv isolates a test from the caller's environment
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvConfigPath, "PORT", "SHOTCHART_ADDR", "SHOTCHART_DB", "SHOTCHART_REDIS_URL",
		"SHOTCHART_CACHE_BACKEND", "SHOTCHART_CORS_ORIGINS", "SHOTCHART_SESSION_SECRET",
		"SHOTCHART_DEBUG", "SHOTCHART_LOG_LEVEL", "SHOTCHART_LOG_FORMAT", "SHOTCHART_OTEL_ENDPOINT",
		"SHOTCHART_SEED_PATH", "SHOTCHART_DEFAULT_SEASON", "NBA_API_TIMEOUT", "NBA_API_RETRIES",
		"NBA_API_BASE_URL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Server.Addr = %s, want %s", cfg.Server.Addr, DefaultAddr)
	}
	if cfg.Database.Path != DefaultDatabasePath {
		t.Errorf("Database.Path = %s, want %s", cfg.Database.Path, DefaultDatabasePath)
	}
	if cfg.Cache.Backend != CacheMemory {
		t.Errorf("Cache.Backend = %s, want memory", cfg.Cache.Backend)
	}
	if cfg.Upstream.Timeout.Duration() != 30*time.Second || cfg.Upstream.Retries != 3 {
		t.Errorf("unexpected upstream defaults: %+v", cfg.Upstream)
	}
	if cfg.Session.IdleTimeout.Duration() != 12*time.Hour {
		t.Errorf("Session.IdleTimeout = %s, want 12h", cfg.Session.IdleTimeout.Duration())
	}
	if cfg.Defaults.Season != "2023-24" {
		t.Errorf("Defaults.Season = %s, want 2023-24", cfg.Defaults.Season)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFromPath(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  addr: ":8080"
  read_timeout: 5s
database:
  path: /var/lib/shotchart/players.db
upstream:
  timeout: 10
  retries: 5
cache:
  redis_url: redis://localhost:6379/0
  ttls:
    player_shots: 1h
players:
  seed_path: ./roster.yaml
  watch: true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, loadedPath, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if loadedPath != path {
		t.Errorf("loaded path = %s, want %s", loadedPath, path)
	}
	if cfg.Server.Addr != ":8080" || cfg.Server.ReadTimeout.Duration() != 5*time.Second {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Upstream.Timeout.Duration() != 10*time.Second || cfg.Upstream.Retries != 5 {
		t.Errorf("unexpected upstream config: %+v", cfg.Upstream)
	}
	if cfg.Cache.Backend != CacheRedis {
		t.Errorf("expected redis backend inferred from URL, got %s", cfg.Cache.Backend)
	}
	ttls, err := cfg.CacheTTLs()
	if err != nil || ttls["player_shots"] != time.Hour {
		t.Errorf("unexpected TTLs %v (err %v)", ttls, err)
	}
	if !cfg.Players.Watch || cfg.Players.SeedPath != "./roster.yaml" {
		t.Errorf("unexpected players config: %+v", cfg.Players)
	}
	// Unset values still get defaults
	if cfg.Server.WriteTimeout.Duration() != 60*time.Second {
		t.Errorf("WriteTimeout = %s, want 60s", cfg.Server.WriteTimeout.Duration())
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  addr: \":8080\"\ndatabase:\n  path: file.db\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	t.Setenv("SHOTCHART_DB", "/tmp/env.db")
	t.Setenv("SHOTCHART_DEBUG", "true")
	t.Setenv("SHOTCHART_CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("NBA_API_TIMEOUT", "45")
	t.Setenv("NBA_API_RETRIES", "1")

	cfg, _, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if cfg.Database.Path != "/tmp/env.db" {
		t.Errorf("Database.Path = %s, want env override", cfg.Database.Path)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %s, want file value", cfg.Server.Addr)
	}
	if !cfg.Server.Debug || cfg.Log.Level != "debug" {
		t.Errorf("expected debug mode with debug logging, got debug=%v level=%s", cfg.Server.Debug, cfg.Log.Level)
	}
	if len(cfg.CORS.Origins) != 2 || cfg.CORS.Origins[1] != "https://b.example" {
		t.Errorf("unexpected origins: %v", cfg.CORS.Origins)
	}
	if cfg.Upstream.Timeout.Duration() != 45*time.Second || cfg.Upstream.Retries != 1 {
		t.Errorf("unexpected upstream config: %+v", cfg.Upstream)
	}
}

func TestPortEnv(t *testing.T) {
	t.Run("PORT sets the listen address", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PORT", "9000")

		cfg, _, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Server.Addr != ":9000" {
			t.Errorf("Server.Addr = %s, want :9000", cfg.Server.Addr)
		}
	})

	t.Run("SHOTCHART_ADDR wins over PORT", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PORT", "9000")
		t.Setenv("SHOTCHART_ADDR", "127.0.0.1:7000")

		cfg, _, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Server.Addr != "127.0.0.1:7000" {
			t.Errorf("Server.Addr = %s, want 127.0.0.1:7000", cfg.Server.Addr)
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }, "cache.backend"},
		{"redis without url", func(c *Config) { c.Cache.Backend = CacheRedis }, "redis_url"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"bad season", func(c *Config) { c.Defaults.Season = "2023" }, "defaults.season"},
		{"unknown ttl kind", func(c *Config) { c.Cache.TTLs = map[string]Duration{"players": Duration(time.Minute)} }, "unknown kind"},
		{"bad warm player", func(c *Config) { c.Cache.WarmPlayers = []int{2544, 0} }, "cache.warm_players"},
		{"negative interval", func(c *Config) { c.Players.SyncInterval = Duration(-time.Minute) }, "intervals"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestDurationUnmarshal(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
		err   bool
	}{
		{"30", 30 * time.Second, false},
		{"1m30s", 90 * time.Second, false},
		{"250ms", 250 * time.Millisecond, false},
		{"soon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))
			if tt.err {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("UnmarshalText() error = %v", err)
			}
			if d.Duration() != tt.want {
				t.Errorf("got %s, want %s", d.Duration(), tt.want)
			}
		})
	}
}

func TestFindConfigPath(t *testing.T) {
	clearEnv(t)

	t.Run("explicit path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("version: 1\n"), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		t.Setenv(EnvConfigPath, path)

		if got := FindConfigPath(); got != path {
			t.Errorf("FindConfigPath() = %s, want %s", got, path)
		}
	})

	t.Run("xdg config home", func(t *testing.T) {
		xdg := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", xdg)
		path := filepath.Join(xdg, ConfigDirName, "config.yaml")
		if err := EnsureConfigDir(path); err != nil {
			t.Fatalf("EnsureConfigDir() error = %v", err)
		}
		if err := os.WriteFile(path, []byte("version: 1\n"), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if got := FindConfigPath(); got != path {
			t.Errorf("FindConfigPath() = %s, want %s", got, path)
		}
	})
}

func TestSaveAndReload(t *testing.T) {
	clearEnv(t)

	cfg := DefaultConfig()
	cfg.Server.Addr = ":6000"
	cfg.Upstream.RequestDelay = Duration(time.Second)

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, _, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if loaded.Server.Addr != ":6000" || loaded.Upstream.RequestDelay.Duration() != time.Second {
		t.Errorf("unexpected reloaded config: %+v", loaded)
	}
}
