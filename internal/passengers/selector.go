package passengers

import (
	"fmt"
	"sync"

	"github.com/dharmasatrya/travelsearch/internal/models"
)

const MaxTotal = 10

type Kind string

const (
	Adults   Kind = "adults"
	Children Kind = "children"
	Infants  Kind = "infants"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case Adults, Children, Infants:
		return k, nil
	}
	return "", fmt.Errorf("unknown passenger kind %q", s)
}

// Selector holds passenger counts and only applies changes that keep them
// valid: at least one adult, no negative counts, no more infants than
// adults and at most MaxTotal travellers.
type Selector struct {
	mu       sync.Mutex
	counts   models.PassengerCounts
	onChange func(models.PassengerCounts)
}

func NewSelector(initial models.PassengerCounts, onChange func(models.PassengerCounts)) *Selector {
	if !Valid(initial) {
		initial = models.PassengerCounts{Adults: 1}
	}
	return &Selector{counts: initial, onChange: onChange}
}

func Valid(c models.PassengerCounts) bool {
	return c.Adults >= 1 &&
		c.Children >= 0 &&
		c.Infants >= 0 &&
		c.Infants <= c.Adults &&
		c.Total() <= MaxTotal
}

func (s *Selector) Counts() models.PassengerCounts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts
}

// Increment adds one passenger of kind. It reports whether anything changed.
func (s *Selector) Increment(kind Kind) bool {
	return s.apply(kind, 1)
}

func (s *Selector) Decrement(kind Kind) bool {
	return s.apply(kind, -1)
}

func (s *Selector) apply(kind Kind, delta int) bool {
	s.mu.Lock()
	next := s.counts
	switch kind {
	case Adults:
		next.Adults += delta
	case Children:
		next.Children += delta
	case Infants:
		next.Infants += delta
	default:
		s.mu.Unlock()
		return false
	}

	if !Valid(next) {
		s.mu.Unlock()
		return false
	}
	s.counts = next
	cb := s.onChange
	s.mu.Unlock()

	if cb != nil {
		cb(next)
	}
	return true
}
