package cache

import (
	"context"
	"time"
)

// Tiered layers the in-process tier in front of the durable tier. Reads
// check memory first and promote durable hits; writes go through to both.
type Tiered struct {
	memory  Cache
	durable Cache
}

// NewTiered builds a two-tier cache. Either tier may be nil, in which case
// the other serves alone.
func NewTiered(memory, durable Cache) *Tiered {
	if memory == nil {
		memory = Noop{}
	}
	if durable == nil {
		durable = Noop{}
	}
	return &Tiered{memory: memory, durable: durable}
}

// Get checks the memory tier, then the durable tier. Durable hits are
// promoted into memory with the remaining default TTL.
func (t *Tiered) Get(ctx context.Context, key string) ([]string, bool) {
	if values, ok := t.memory.Get(ctx, key); ok {
		return values, true
	}

	values, ok := t.durable.Get(ctx, key)
	if !ok {
		return nil, false
	}

	t.memory.Set(ctx, key, values, DefaultTTL)
	return values, true
}

// Set writes through to both tiers.
func (t *Tiered) Set(ctx context.Context, key string, values []string, ttl time.Duration) {
	t.memory.Set(ctx, key, values, ttl)
	t.durable.Set(ctx, key, values, ttl)
}
