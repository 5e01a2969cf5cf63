package autocomplete

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dharmasatrya/travelsearch/internal/models"
)

const DefaultDebounce = 350 * time.Millisecond

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDebouncing
	PhaseFetching
	PhaseSettled
)

func (p Phase) String() string {
	switch p {
	case PhaseDebouncing:
		return "debouncing"
	case PhaseFetching:
		return "fetching"
	case PhaseSettled:
		return "settled"
	default:
		return "idle"
	}
}

type State struct {
	Phase     Phase
	Query     string
	Loading   bool
	Options   []models.Place
	FromCache bool
	Err       error
}

// Outcome is what a Search call settled with.
type Outcome struct {
	Result
	Err error
}

// Stream is one logical suggestion stream, such as the origin field. Each
// Search restarts the debounce timer and cancels the request in flight; only
// the latest generation may change state.
type Stream struct {
	lookup   *Lookup
	debounce time.Duration
	log      logrus.FieldLogger

	mu      sync.Mutex
	gen     uint64
	timer   *time.Timer
	cancel  context.CancelFunc
	pending chan Outcome
	state   State
	closed  bool
}

func NewStream(lookup *Lookup, debounce time.Duration, logger logrus.FieldLogger) *Stream {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Stream{
		lookup:   lookup,
		debounce: debounce,
		log:      logger.WithField("stream", lookup.Name()),
	}
}

// Search schedules a lookup for query. The returned channel receives the
// outcome once this call settles, or is closed empty if a later Search or
// Close supersedes it.
func (s *Stream) Search(query string) <-chan Outcome {
	out := make(chan Outcome, 1)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		close(out)
		return out
	}

	s.gen++
	gen := s.gen
	s.abortLocked()
	s.pending = out

	q := Normalize(query)
	if TooShort(q) {
		s.state = State{Phase: PhaseIdle, Query: q}
		s.deliverLocked(Outcome{Result: Result{Query: q, Options: []models.Place{}}})
		return out
	}

	s.state.Phase = PhaseDebouncing
	s.state.Query = q
	s.state.Loading = false
	s.timer = time.AfterFunc(s.debounce, func() { s.fire(gen, q) })

	return out
}

func (s *Stream) fire(gen uint64, q string) {
	s.mu.Lock()
	if gen != s.gen || s.closed {
		s.mu.Unlock()
		return
	}
	s.timer = nil

	if res, ok := s.lookup.peek(q); ok {
		s.settleLocked(res, nil)
		s.mu.Unlock()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.state.Phase = PhaseFetching
	s.state.Loading = true
	s.mu.Unlock()

	res, err := s.lookup.fetchAndStore(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()

	superseded := ctx.Err() != nil || gen != s.gen
	cancel()
	if superseded {
		s.log.WithField("query", q).Debug("discarding superseded suggestions")
		return
	}
	s.cancel = nil
	s.settleLocked(res, err)
}

func (s *Stream) settleLocked(res Result, err error) {
	if err != nil {
		res.Options = []models.Place{}
	}
	s.state = State{
		Phase:     PhaseSettled,
		Query:     res.Query,
		Options:   res.Options,
		FromCache: res.FromCache,
		Err:       err,
	}
	s.deliverLocked(Outcome{Result: res, Err: err})
}

func (s *Stream) deliverLocked(o Outcome) {
	if s.pending == nil {
		return
	}
	s.pending <- o
	close(s.pending)
	s.pending = nil
}

// abortLocked stops the timer, cancels the request in flight and releases
// the superseded caller.
func (s *Stream) abortLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.pending != nil {
		close(s.pending)
		s.pending = nil
	}
}

func (s *Stream) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	st.Options = append([]models.Place(nil), s.state.Options...)
	return st
}

// Close cancels any pending timer and request. Later Search calls return a
// closed channel.
func (s *Stream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.gen++
	s.abortLocked()
	s.state = State{Phase: PhaseIdle}
}
