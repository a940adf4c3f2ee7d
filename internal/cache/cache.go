// Package cache stores upstream responses for a bounded time.
//
// Values are JSON-encoded and kept in a Store: MemoryStore for a single
// process, RedisStore when several server instances share one cache. Keys are
// namespaced per Kind and each Kind has its own TTL.
package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Prefix namespaces every key written by this package.
const Prefix = "shotchart:"

// maxKeyLength bounds the variable part of a key before it is hashed.
const maxKeyLength = 100

// Kind groups cache entries that share a TTL.
type Kind string

const (
	KindSearch  Kind = "player_search"
	KindInfo    Kind = "player_info"
	KindShots   Kind = "player_shots"
	KindStats   Kind = "player_stats"
	KindSeasons Kind = "seasons"
)

// DefaultTTL applies to kinds without an explicit TTL.
const DefaultTTL = 15 * time.Minute

// DefaultTTLs are the per-kind lifetimes.
func DefaultTTLs() map[Kind]time.Duration {
	return map[Kind]time.Duration{
		KindSearch:  time.Hour,
		KindInfo:    time.Hour,
		KindShots:   30 * time.Minute,
		KindStats:   30 * time.Minute,
		KindSeasons: 24 * time.Hour,
	}
}

// Store is a byte-oriented key/value store with expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) (int, error)
	Ping(ctx context.Context) error
	Close() error
}

// Key builds the full key for kind and parts. Long keys are replaced by an
// md5 digest of their variable part.
func Key(kind Kind, parts ...any) string {
	strs := make([]string, len(parts))
	for i, p := range parts {
		strs[i] = fmt.Sprint(p)
	}
	rest := strings.Join(strs, ":")
	if len(rest) > maxKeyLength {
		sum := md5.Sum([]byte(rest))
		rest = "hash:" + hex.EncodeToString(sum[:])
	}
	return Prefix + string(kind) + ":" + rest
}

// Cache encodes values into a Store with per-kind TTLs.
type Cache struct {
	store Store
	ttls  map[Kind]time.Duration
}

// New wraps store. ttls overrides entries of DefaultTTLs.
func New(store Store, ttls map[Kind]time.Duration) *Cache {
	merged := DefaultTTLs()
	for k, v := range ttls {
		if v > 0 {
			merged[k] = v
		}
	}
	return &Cache{store: store, ttls: merged}
}

// TTL returns the lifetime of entries of kind.
func (c *Cache) TTL(kind Kind) time.Duration {
	if ttl, ok := c.ttls[kind]; ok {
		return ttl
	}
	return DefaultTTL
}

// Get decodes the entry at key into dst and reports whether it was present.
func (c *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	data, ok, err := c.store.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	return true, nil
}

// Set stores v at key with the TTL of kind.
func (c *Cache) Set(ctx context.Context, kind Kind, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", key, err)
	}
	return c.store.Set(ctx, key, data, c.TTL(kind))
}

// Delete removes keys and returns how many existed.
func (c *Cache) Delete(ctx context.Context, keys ...string) (int, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	return c.store.Delete(ctx, keys...)
}

// Ping checks the backing store.
func (c *Cache) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}

// Close releases the backing store.
func (c *Cache) Close() error {
	return c.store.Close()
}

// Remember returns the cached value for kind/parts, or calls load and caches
// its result. Cache failures are logged and never fail the call; load errors
// are returned as is and nothing is cached.
func Remember[T any](ctx context.Context, c *Cache, kind Kind, parts []any, load func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return load(ctx)
	}
	key := Key(kind, parts...)

	var cached T
	ok, err := c.Get(ctx, key, &cached)
	if err != nil {
		slog.WarnContext(ctx, "cache read failed", "key", key, "error", err)
	}
	if ok {
		slog.DebugContext(ctx, "cache hit", "key", key)
		return cached, nil
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if err := c.Set(ctx, kind, key, v); err != nil {
		slog.WarnContext(ctx, "cache write failed", "key", key, "error", err)
	}
	return v, nil
}
