package autocomplete

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/dharmasatrya/travelsearch/internal/cache"
	"github.com/dharmasatrya/travelsearch/internal/models"
)

const (
	MinQueryLength  = 2
	DefaultCacheTTL = 5 * time.Minute
	DefaultCooldown = 10 * time.Second
)

// Fetcher queries the upstream suggestion endpoint.
type Fetcher func(ctx context.Context, query string) ([]models.Place, error)

type Result struct {
	Query       string
	Options     []models.Place
	FromCache   bool
	CoolingDown bool
}

type LookupConfig struct {
	CacheTTL time.Duration
	Cooldown time.Duration
	Clock    cache.Clock
	Logger   logrus.FieldLogger
}

// Lookup answers suggestion queries from a TTL cache, short-circuits
// queries that failed recently, and otherwise calls the fetcher.
type Lookup struct {
	name    string
	fetch   Fetcher
	results *cache.TTLCache[[]models.Place]
	failed  *cache.TTLCache[struct{}]
	log     logrus.FieldLogger
}

func NewLookup(name string, fetch Fetcher, cfg LookupConfig) *Lookup {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultCooldown
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Lookup{
		name:    name,
		fetch:   fetch,
		results: cache.NewTTLCache[[]models.Place](cfg.CacheTTL, cfg.Clock),
		failed:  cache.NewTTLCache[struct{}](cfg.Cooldown, cfg.Clock),
		log:     logger.WithField("stream", name),
	}
}

func (l *Lookup) Name() string {
	return l.name
}

// Normalize lower-cases and trims a query; cache and cooldown keys use this form.
func Normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// TooShort reports whether a normalized query is below the minimum length.
func TooShort(query string) bool {
	return utf8.RuneCountInString(query) < MinQueryLength
}

// Find resolves query without any debouncing.
func (l *Lookup) Find(ctx context.Context, query string) (Result, error) {
	q := Normalize(query)
	if TooShort(q) {
		return Result{Query: q, Options: []models.Place{}}, nil
	}
	if res, ok := l.peek(q); ok {
		return res, nil
	}
	return l.fetchAndStore(ctx, q)
}

// peek answers q from the cache or the cooldown set without a network call.
func (l *Lookup) peek(q string) (Result, bool) {
	if opts, ok := l.results.Get(q); ok {
		return Result{Query: q, Options: opts, FromCache: true}, true
	}
	if l.failed.Has(q) {
		return Result{Query: q, Options: []models.Place{}, CoolingDown: true}, true
	}
	return Result{}, false
}

func (l *Lookup) fetchAndStore(ctx context.Context, q string) (Result, error) {
	opts, err := l.fetch(ctx, q)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return Result{Query: q}, err
		}
		l.failed.Set(q, struct{}{})
		l.log.WithFields(logrus.Fields{
			"query": q,
			"error": err.Error(),
		}).Warn("suggestion fetch failed, query cooling down")
		return Result{Query: q}, err
	}

	if ctx.Err() != nil {
		return Result{Query: q}, ctx.Err()
	}

	if opts == nil {
		opts = []models.Place{}
	}
	l.results.Set(q, opts)
	return Result{Query: q, Options: opts}, nil
}

// Reset drops cached suggestions and cooldowns.
func (l *Lookup) Reset() {
	l.results.Clear()
	l.failed.Clear()
}
