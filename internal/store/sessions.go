package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

const DefaultSessionTTL = 30 * time.Minute

// Sessions is a registry of values keyed by generated session id. Reads
// extend a session's lifetime; idle sessions expire after the TTL.
type Sessions[V any] struct {
	mu    sync.Mutex
	items *gocache.Cache
	ttl   time.Duration
}

func NewSessions[V any](ttl time.Duration) *Sessions[V] {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Sessions[V]{
		items: gocache.New(ttl, ttl/2),
		ttl:   ttl,
	}
}

// OnExpire registers fn to run when a session expires or is deleted.
func (s *Sessions[V]) OnExpire(fn func(id string, v V)) {
	s.items.OnEvicted(func(id string, obj any) {
		if v, ok := obj.(V); ok {
			fn(id, v)
		}
	})
}

func (s *Sessions[V]) Create(v V) string {
	id := uuid.NewString()
	s.items.Set(id, v, s.ttl)
	return id
}

func (s *Sessions[V]) Get(id string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.items.Get(id)
	if !ok {
		var zero V
		return zero, false
	}
	s.items.Set(id, obj, s.ttl)
	return obj.(V), true
}

func (s *Sessions[V]) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items.Get(id); !ok {
		return false
	}
	s.items.Delete(id)
	return true
}

func (s *Sessions[V]) Len() int {
	return s.items.ItemCount()
}
