package gateway

import (
	"sync"
	"time"
)

// ttlCache holds a single value for a bounded time. It backs the channel
// and stats reads, which change rarely but render on every screen visit.
type ttlCache[T any] struct {
	ttl time.Duration

	mu      sync.RWMutex
	value   T
	ok      bool
	expires time.Time
}

// newTTLCache returns a cache with the provided TTL; a non-positive TTL
// yields a disabled cache.
func newTTLCache[T any](ttl time.Duration) *ttlCache[T] {
	if ttl <= 0 {
		return nil
	}
	return &ttlCache[T]{ttl: ttl}
}

func (c *ttlCache[T]) get() (T, bool) {
	var zero T
	if c == nil {
		return zero, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.ok || time.Now().After(c.expires) {
		return zero, false
	}
	return c.value, true
}

func (c *ttlCache[T]) set(value T) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.value = value
	c.ok = true
	c.expires = time.Now().Add(c.ttl)
	c.mu.Unlock()
}

func (c *ttlCache[T]) invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.ok = false
	c.mu.Unlock()
}
