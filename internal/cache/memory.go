package cache

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

var SystemClock Clock = systemClock{}

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// TTLCache is an in-process cache whose entries expire a fixed duration
// after insertion. Freshness is judged by the injected clock; the backing
// go-cache janitor only reclaims memory.
type TTLCache[V any] struct {
	mu    sync.Mutex
	items *gocache.Cache
	ttl   time.Duration
	clock Clock
}

func NewTTLCache[V any](ttl time.Duration, clock Clock) *TTLCache[V] {
	if clock == nil {
		clock = SystemClock
	}
	return &TTLCache[V]{
		items: gocache.New(ttl, cleanupInterval(ttl)),
		ttl:   ttl,
		clock: clock,
	}
}

func cleanupInterval(ttl time.Duration) time.Duration {
	if ttl < time.Minute {
		return time.Minute
	}
	return ttl
}

func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	raw, found := c.items.Get(key)
	if !found {
		return zero, false
	}

	e := raw.(entry[V])
	if !c.clock.Now().Before(e.storedAt.Add(c.ttl)) {
		c.items.Delete(key)
		return zero, false
	}

	return e.value, true
}

func (c *TTLCache[V]) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

func (c *TTLCache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Real-time expiry is 2*ttl; Get decides freshness from the clock.
	c.items.Set(key, entry[V]{value: value, storedAt: c.clock.Now()}, 2*c.ttl)
}

func (c *TTLCache[V]) Delete(key string) {
	c.mu.Lock()
	c.items.Delete(key)
	c.mu.Unlock()
}

func (c *TTLCache[V]) Clear() {
	c.mu.Lock()
	c.items.Flush()
	c.mu.Unlock()
}

// Len counts entries that are still fresh.
func (c *TTLCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	n := 0
	for _, item := range c.items.Items() {
		if e, ok := item.Object.(entry[V]); ok && now.Before(e.storedAt.Add(c.ttl)) {
			n++
		}
	}
	return n
}
