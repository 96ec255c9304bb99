// Package cache provides the two-tier suggestion cache: a fast in-process
// map in front of a durable SQLite store. Entries are keyed by normalized
// source+query strings and expire after a TTL.
package cache

import (
	"context"
	"strings"
	"time"
)

// DefaultTTL is how long upstream fetch results stay valid.
const DefaultTTL = 24 * time.Hour

// Cache is the persistence boundary the suggestion sources require: string
// lists with per-entry expiry. Implementations must tolerate concurrent
// access to distinct keys; concurrent writes to the same key may race but
// both writers store the same derivation, so the loser's write is harmless.
type Cache interface {
	Get(ctx context.Context, key string) ([]string, bool)
	Set(ctx context.Context, key string, values []string, ttl time.Duration)
}

// Key builds a normalized, source-prefixed cache key.
func Key(source, query string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	return source + ":" + normalized
}

// Noop is a cache that stores nothing. Used in tests and when caching is
// disabled.
type Noop struct{}

// Get always misses.
func (Noop) Get(_ context.Context, _ string) ([]string, bool) { return nil, false }

// Set discards the entry.
func (Noop) Set(_ context.Context, _ string, _ []string, _ time.Duration) {}
