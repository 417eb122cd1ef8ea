// Package cache holds rendered directory data between requests. Entries can
// belong to named groups so a mutation can expire every dependent entry at once.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// Well-known group and key names.
const (
	GroupTags = "tags"
)

// PersonKey is the cache key for a profile's viewer-independent data.
func PersonKey(stub string) string {
	return "person:" + stub
}

// Cache is a TTL key/value store with group expiry.
type Cache interface {
	// Get returns the value and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key and registers it in groups.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration, groups ...string) error
	// Delete removes a single key.
	Delete(ctx context.Context, key string) error
	// ExpireGroup removes every key registered in group.
	ExpireGroup(ctx context.Context, group string) error
	// Version sums the invalidation counters of key and groups. Delete bumps
	// the key's counter and ExpireGroup the group's, both before removing
	// anything, so a changed sum means an entry stored meanwhile may be stale.
	Version(ctx context.Context, key string, groups ...string) (uint64, error)
	Close() error
}

// Loader computes a value on a cache miss.
type Loader[T any] func(ctx context.Context) (T, error)

// GetOrLoad reads key as JSON, falling back to load and storing its result.
// Cache failures are logged and never fail the read. A result whose key or
// groups were invalidated while it loaded is returned but not kept.
func GetOrLoad[T any](ctx context.Context, c Cache, logger *slog.Logger, key string, ttl time.Duration, groups []string, load Loader[T]) (T, error) {
	if raw, ok, err := c.Get(ctx, key); err != nil {
		logger.Warn("cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	} else if ok {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, nil
		}
		logger.Warn("cache entry undecodable, reloading", slog.String("key", key))
	}

	version, versionErr := c.Version(ctx, key, groups...)

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if versionErr != nil {
		logger.Warn("cache version read failed, not storing", slog.String("key", key), slog.String("error", versionErr.Error()))
		return v, nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return v, fmt.Errorf("encode cache entry %q: %w", key, err)
	}
	if err := c.Set(ctx, key, raw, ttl, groups...); err != nil {
		logger.Warn("cache write failed", slog.String("key", key), slog.String("error", err.Error()))
		return v, nil
	}

	if now, err := c.Version(ctx, key, groups...); err != nil || now != version {
		logger.Debug("cache entry invalidated during load", slog.String("key", key))
		if err := c.Delete(ctx, key); err != nil {
			logger.Warn("cache rollback failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	}
	return v, nil
}

// Noop never stores anything.
type Noop struct{}

// NewNoop returns a cache that always misses.
func NewNoop() *Noop { return &Noop{} }

func (*Noop) Get(context.Context, string) ([]byte, bool, error)                   { return nil, false, nil }
func (*Noop) Set(context.Context, string, []byte, time.Duration, ...string) error { return nil }
func (*Noop) Delete(context.Context, string) error                                { return nil }
func (*Noop) ExpireGroup(context.Context, string) error                           { return nil }
func (*Noop) Version(context.Context, string, ...string) (uint64, error)          { return 0, nil }
func (*Noop) Close() error                                                        { return nil }
