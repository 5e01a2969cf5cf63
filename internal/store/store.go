package store

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	ErrNotFound   = errors.New("item not found")
	ErrSuperseded = errors.New("search superseded")
)

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Batch is one upstream answer: the items plus the token needed for
// follow-up detail calls.
type Batch[T any] struct {
	Items []T
	Token string
}

type FetchFunc[T any] func(ctx context.Context) (Batch[T], error)

type Snapshot[T any] struct {
	Results    []T
	Token      string
	Status     Status
	Err        error
	SelectedID string
	UpdatedAt  time.Time
}

// Store owns the results of the latest search. A new Search cancels the one
// in flight; a stale fetch never overwrites newer state.
type Store[T any] struct {
	idOf func(T) string

	mu        sync.Mutex
	gen       uint64
	cancel    context.CancelFunc
	results   []T
	token     string
	status    Status
	err       error
	selected  string
	updatedAt time.Time
}

func New[T any](idOf func(T) string) *Store[T] {
	return &Store[T]{idOf: idOf}
}

// Search replaces the current results with whatever fetch returns. It returns
// ErrSuperseded when a later Search or Clear won the race.
func (s *Store[T]) Search(ctx context.Context, fetch FetchFunc[T]) error {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	if s.cancel != nil {
		s.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.results = nil
	s.token = ""
	s.status = StatusLoading
	s.err = nil
	s.selected = ""
	s.mu.Unlock()

	batch, err := fetch(fetchCtx)

	s.mu.Lock()
	defer s.mu.Unlock()

	cancel()
	if gen != s.gen {
		return ErrSuperseded
	}
	s.cancel = nil
	s.updatedAt = time.Now()

	if err != nil {
		s.status = StatusFailed
		s.err = err
		return err
	}

	s.results = batch.Items
	s.token = batch.Token
	s.status = StatusReady
	return nil
}

// Select marks the item with the given id as selected.
func (s *Store[T]) Select(id string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.results {
		if s.idOf(item) == id {
			s.selected = id
			return item, nil
		}
	}
	var zero T
	return zero, ErrNotFound
}

func (s *Store[T]) Selected() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	if s.selected == "" {
		return zero, false
	}
	for _, item := range s.results {
		if s.idOf(item) == s.selected {
			return item, true
		}
	}
	return zero, false
}

// Clear drops results and selection and cancels any search in flight.
func (s *Store[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.results = nil
	s.token = ""
	s.status = StatusIdle
	s.err = nil
	s.selected = ""
	s.updatedAt = time.Now()
}

func (s *Store[T]) Snapshot() Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot[T]{
		Results:    append([]T(nil), s.results...),
		Token:      s.token,
		Status:     s.status,
		Err:        s.err,
		SelectedID: s.selected,
		UpdatedAt:  s.updatedAt,
	}
}
