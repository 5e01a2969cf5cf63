package autocomplete

import (
	"errors"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

const (
	StreamOrigin           = "origin"
	StreamDestination      = "destination"
	StreamHotelDestination = "hotel_destination"

	DefaultIdleTTL = 10 * time.Minute
)

var ErrUnknownStream = errors.New("unknown suggestion stream")

// Registry holds one Stream per client and stream name. Streams idle for
// longer than the TTL are evicted and closed.
type Registry struct {
	mu       sync.Mutex
	streams  *gocache.Cache
	lookups  map[string]*Lookup
	debounce time.Duration
	idleTTL  time.Duration
	log      logrus.FieldLogger
}

func NewRegistry(lookups map[string]*Lookup, debounce, idleTTL time.Duration, logger logrus.FieldLogger) *Registry {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	streams := gocache.New(idleTTL, idleTTL/2)
	streams.OnEvicted(func(key string, v any) {
		if s, ok := v.(*Stream); ok {
			s.Close()
		}
	})

	return &Registry{
		streams:  streams,
		lookups:  lookups,
		debounce: debounce,
		idleTTL:  idleTTL,
		log:      logger,
	}
}

// Lookup returns the shared lookup behind a stream name.
func (r *Registry) Lookup(name string) (*Lookup, error) {
	l, ok := r.lookups[name]
	if !ok {
		return nil, ErrUnknownStream
	}
	return l, nil
}

// Stream returns the client's stream, creating it on first use. Each access
// extends the stream's idle deadline.
func (r *Registry) Stream(clientID, name string) (*Stream, error) {
	lookup, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}

	key := clientID + ":" + name

	r.mu.Lock()
	defer r.mu.Unlock()

	var s *Stream
	if v, ok := r.streams.Get(key); ok {
		s = v.(*Stream)
	} else {
		s = NewStream(lookup, r.debounce, r.log)
	}
	r.streams.Set(key, s, r.idleTTL)

	return s, nil
}

func (r *Registry) Len() int {
	return r.streams.ItemCount()
}

// Close closes every stream.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range r.streams.Items() {
		if s, ok := item.Object.(*Stream); ok {
			s.Close()
		}
	}
	r.streams.Flush()
}
