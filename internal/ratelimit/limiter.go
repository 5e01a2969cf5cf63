package ratelimit

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"
)

// Limit is a token bucket setting.
type Limit struct {
	RequestsPerSecond float64
	Burst             int
}

func (l Limit) valid() bool {
	return l.RequestsPerSecond > 0 && l.Burst > 0
}

// Config holds the bucket used for any endpoint without an override, plus
// the overrides keyed by endpoint name.
type Config struct {
	Default   Limit
	Endpoints map[string]Limit
}

func DefaultConfig() Config {
	return Config{Default: Limit{RequestsPerSecond: 5, Burst: 10}}
}

// EndpointLimiter keeps one token bucket per upstream endpoint so that the
// chatty suggestion endpoints cannot starve searches of quota.
type EndpointLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	fallback Limit
}

// New builds a limiter from cfg. Invalid limits fall back to the defaults
// of DefaultConfig.
func New(cfg Config) *EndpointLimiter {
	fallback := cfg.Default
	if !fallback.valid() {
		fallback = DefaultConfig().Default
	}

	l := &EndpointLimiter{
		limiters: make(map[string]*rate.Limiter, len(cfg.Endpoints)),
		fallback: fallback,
	}
	for endpoint, lim := range cfg.Endpoints {
		if !lim.valid() {
			lim = fallback
		}
		l.limiters[endpoint] = rate.NewLimiter(rate.Limit(lim.RequestsPerSecond), lim.Burst)
	}
	return l
}

func (l *EndpointLimiter) limiter(endpoint string) *rate.Limiter {
	l.mu.RLock()
	lim, ok := l.limiters[endpoint]
	l.mu.RUnlock()
	if ok {
		return lim
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if lim, ok = l.limiters[endpoint]; ok {
		return lim
	}
	lim = rate.NewLimiter(rate.Limit(l.fallback.RequestsPerSecond), l.fallback.Burst)
	l.limiters[endpoint] = lim
	return lim
}

// Limit reports the bucket currently applied to endpoint.
func (l *EndpointLimiter) Limit(endpoint string) Limit {
	lim := l.limiter(endpoint)
	return Limit{RequestsPerSecond: float64(lim.Limit()), Burst: lim.Burst()}
}

// SetLimit changes endpoint's bucket in place; callers already waiting on it
// see the new rate.
func (l *EndpointLimiter) SetLimit(endpoint string, lim Limit) {
	if !lim.valid() {
		return
	}
	bucket := l.limiter(endpoint)
	bucket.SetLimit(rate.Limit(lim.RequestsPerSecond))
	bucket.SetBurst(lim.Burst)
}

// Wait blocks until endpoint has a token or ctx is done.
func (l *EndpointLimiter) Wait(ctx context.Context, endpoint string) error {
	if err := l.limiter(endpoint).Wait(ctx); err != nil {
		return fmt.Errorf("rate limit %s: %w", endpoint, err)
	}
	return nil
}
