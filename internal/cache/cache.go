// Package cache is a process-local TTL map used to memoize the admin
// analytics responses. It is intentionally not shared or invalidated across
// instances; entries simply age out.
package cache

import (
	"sync"
	"time"
)

const (
	DefaultTTL           = 5 * time.Minute
	DefaultSweepInterval = 5 * time.Minute
)

type entry struct {
	value     interface{}
	expiresAt time.Time
}

type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
}

// New builds a cache and starts the background sweeper.
func New(ttl, sweepInterval time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}

	c := &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
	}

	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			c.sweep(time.Now())
		}
	}()

	return c
}

func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

func (c *Cache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{value: value, expiresAt: time.Now().Add(c.ttl)}
}

func (c *Cache) sweep(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}
