package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	expiry time.Time
	values []string
}

// Memory is the in-process cache tier: a mutex-guarded map with lazy
// expiry on read and a periodic cleanup goroutine.
type Memory struct {
	entries map[string]memoryEntry
	stopCh  chan struct{}
	now     func() time.Time
	mu      sync.RWMutex
}

// NewMemory creates an in-process cache and starts its cleanup goroutine.
func NewMemory() *Memory {
	c := &Memory{
		entries: make(map[string]memoryEntry),
		stopCh:  make(chan struct{}),
		now:     time.Now,
	}

	go c.cleanup()

	return c
}

// Get retrieves an entry if it exists and hasn't expired.
func (c *Memory) Get(_ context.Context, key string) ([]string, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		return nil, false
	}

	// Expiry matches the durable tier: an entry is dead at the exact instant.
	if !c.now().Before(entry.expiry) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}

	return entry.values, true
}

// Set stores an entry with the given TTL.
func (c *Memory) Set(_ context.Context, key string, values []string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memoryEntry{
		values: values,
		expiry: c.now().Add(ttl),
	}
}

// Size returns the number of entries currently held.
func (c *Memory) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes all entries.
func (c *Memory) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]memoryEntry)
}

// cleanup periodically removes expired entries.
func (c *Memory) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := c.now()
			for key, entry := range c.entries {
				if !now.Before(entry.expiry) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

// Close stops the cleanup goroutine.
func (c *Memory) Close() {
	close(c.stopCh)
}
