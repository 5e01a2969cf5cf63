package filter

import (
	"math"
	"sort"

	"github.com/dharmasatrya/travelsearch/internal/models"
)

// TwoOrMoreStops is the stop-count bucket that accepts any leg with at least
// StopsBucketFloor stops.
const (
	TwoOrMoreStops   = -1
	StopsBucketFloor = 2
)

// Range is an inclusive [Min, Max] interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// FullDay is the unconstrained time-of-day range in hours.
var FullDay = Range{Min: 0, Max: 24}

func (r Range) coversFullDay() bool {
	return r.Min <= FullDay.Min && r.Max >= FullDay.Max
}

type TriState string

const (
	Either TriState = ""
	Yes    TriState = "yes"
	No     TriState = "no"
)

func (t TriState) allows(v bool) bool {
	switch t {
	case Yes:
		return v
	case No:
		return !v
	default:
		return true
	}
}

// Criteria holds the active flight filters. A nil range or empty set places no
// constraint on its dimension.
type Criteria struct {
	Stops          []int    `json:"stops,omitempty"`
	Airlines       []string `json:"airlines,omitempty"`
	Price          *Range   `json:"price,omitempty"`
	Duration       *Range   `json:"duration,omitempty"`
	DepartureHours *Range   `json:"departure_hours,omitempty"`
	ArrivalHours   *Range   `json:"arrival_hours,omitempty"`
	Refundable     TriState `json:"refundable,omitempty"`
	Changeable     TriState `json:"changeable,omitempty"`
}

// Bounds summarises a result set; filter sliders are initialised from it.
type Bounds struct {
	Price    Range    `json:"price"`
	Duration Range    `json:"duration"`
	Airlines []string `json:"airlines"`
	Stops    []int    `json:"stops"`
}

func ComputeBounds(results []models.Itinerary) Bounds {
	b := Bounds{
		Airlines: []string{},
		Stops:    []int{},
	}
	if len(results) == 0 {
		return b
	}

	b.Price = Range{Min: math.MaxFloat64, Max: -math.MaxFloat64}
	b.Duration = Range{Min: math.MaxFloat64, Max: -math.MaxFloat64}
	airlines := make(map[string]bool)
	stops := make(map[int]bool)

	for _, it := range results {
		b.Price.Min = math.Min(b.Price.Min, it.Price.Amount)
		b.Price.Max = math.Max(b.Price.Max, it.Price.Amount)

		d := float64(it.MaxLegDuration())
		b.Duration.Min = math.Min(b.Duration.Min, d)
		b.Duration.Max = math.Max(b.Duration.Max, d)

		for _, l := range it.Legs {
			if l.Carrier.Name != "" {
				airlines[l.Carrier.Name] = true
			}
			stops[l.Stops] = true
		}
	}

	for name := range airlines {
		b.Airlines = append(b.Airlines, name)
	}
	sort.Strings(b.Airlines)
	for n := range stops {
		b.Stops = append(b.Stops, n)
	}
	sort.Ints(b.Stops)

	return b
}

// DefaultCriteria returns the criteria a fresh search or a reset starts from.
func DefaultCriteria(b Bounds) Criteria {
	price := b.Price
	duration := b.Duration
	departure := FullDay
	arrival := FullDay

	return Criteria{
		Price:          &price,
		Duration:       &duration,
		DepartureHours: &departure,
		ArrivalHours:   &arrival,
	}
}
