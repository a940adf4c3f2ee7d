package config

import (
	"strconv"
	"time"
)

// Config is the root configuration structure. Fields with an env tag can be
// overridden from the environment after the file is loaded.
type Config struct {
	Version   int             `yaml:"version"`
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Upstream  UpstreamConfig  `yaml:"upstream"`
	Cache     CacheConfig     `yaml:"cache"`
	Session   SessionConfig   `yaml:"session"`
	CORS      CORSConfig      `yaml:"cors"`
	Players   PlayersConfig   `yaml:"players"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Log       LogConfig       `yaml:"log"`
	Defaults  DefaultsConfig  `yaml:"defaults"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Addr            string   `yaml:"addr" env:"SHOTCHART_ADDR"`
	ReadTimeout     Duration `yaml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
	Environment     string   `yaml:"environment,omitempty" env:"SHOTCHART_ENV"`
	// Debug adds error details to API responses.
	Debug bool `yaml:"debug" env:"SHOTCHART_DEBUG"`
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	Path string `yaml:"path" env:"SHOTCHART_DB"`
}

// UpstreamConfig configures the stats API client
type UpstreamConfig struct {
	BaseURL      string   `yaml:"base_url" env:"NBA_API_BASE_URL"`
	Timeout      Duration `yaml:"timeout" env:"NBA_API_TIMEOUT"`
	Retries      int      `yaml:"retries" env:"NBA_API_RETRIES"`
	RequestDelay Duration `yaml:"request_delay"`
}

// Cache backends
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// CacheConfig selects and tunes the response cache
type CacheConfig struct {
	Backend  string              `yaml:"backend" env:"SHOTCHART_CACHE_BACKEND"`
	RedisURL string              `yaml:"redis_url" env:"SHOTCHART_REDIS_URL"`
	TTLs     map[string]Duration `yaml:"ttls,omitempty"`

	// WarmPlayers are prefetched every WarmInterval. A zero interval disables warming.
	WarmPlayers  []int    `yaml:"warm_players,omitempty" env:"SHOTCHART_WARM_PLAYERS"`
	WarmInterval Duration `yaml:"warm_interval,omitempty"`
}

// SessionConfig configures browser sessions
type SessionConfig struct {
	CookieName  string   `yaml:"cookie_name"`
	Secret      string   `yaml:"secret,omitempty" env:"SHOTCHART_SESSION_SECRET"`
	IdleTimeout Duration `yaml:"idle_timeout"`
	Secure      bool     `yaml:"secure"`
}

// CORSConfig lists origins allowed to call the API
type CORSConfig struct {
	Origins []string `yaml:"origins" env:"SHOTCHART_CORS_ORIGINS"`
}

// PlayersConfig controls the player directory seed
type PlayersConfig struct {
	SeedPath string `yaml:"seed_path,omitempty" env:"SHOTCHART_SEED_PATH"`
	Watch    bool   `yaml:"watch"`

	// SyncInterval refreshes the directory from upstream. Zero disables it.
	SyncInterval Duration `yaml:"sync_interval,omitempty"`
}

// TelemetryConfig configures trace export. An empty endpoint disables it.
type TelemetryConfig struct {
	Endpoint    string `yaml:"endpoint,omitempty" env:"SHOTCHART_OTEL_ENDPOINT"`
	ServiceName string `yaml:"service_name"`
}

// LogConfig configures the default logger
type LogConfig struct {
	Level  string `yaml:"level" env:"SHOTCHART_LOG_LEVEL"`
	Format string `yaml:"format" env:"SHOTCHART_LOG_FORMAT"`
}

// DefaultsConfig holds UI defaults
type DefaultsConfig struct {
	Season string `yaml:"season" env:"SHOTCHART_DEFAULT_SEASON"`
}

// Duration wraps time.Duration for YAML and environment parsing. A bare
// integer is read as seconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)
	if secs, err := strconv.Atoi(s); err == nil {
		*d = Duration(time.Duration(secs) * time.Second)
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
