package filter

import (
	"sort"
	"strings"
	"time"

	"github.com/dharmasatrya/travelsearch/internal/models"
	"github.com/dharmasatrya/travelsearch/internal/ranking"
)

type SortKey string

const (
	SortBest              SortKey = "best"
	SortPrice             SortKey = "price_high"
	SortDuration          SortKey = "duration"
	SortOutboundDeparture SortKey = "outbound_departure"
	SortOutboundArrival   SortKey = "outbound_arrival"
	SortReturnDeparture   SortKey = "return_departure"
	SortReturnArrival     SortKey = "return_arrival"
)

var sortAliases = map[string]SortKey{
	"":          SortBest,
	"price":     SortPrice,
	"price_asc": SortPrice,
	"cheapest":  SortPrice,
	"fastest":   SortDuration,
}

// ParseSortKey resolves a sort key. Unknown keys fall back to SortBest and
// report false.
func ParseSortKey(s string) (SortKey, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if k, ok := sortAliases[s]; ok {
		return k, true
	}
	switch k := SortKey(s); k {
	case SortBest, SortPrice, SortDuration, SortOutboundDeparture,
		SortOutboundArrival, SortReturnDeparture, SortReturnArrival:
		return k, true
	}
	return SortBest, false
}

// Sort returns a stably sorted copy of results using the default composite weights.
func Sort(results []models.Itinerary, key SortKey) []models.Itinerary {
	return SortWithWeights(results, key, ranking.DefaultWeights())
}

func SortWithWeights(results []models.Itinerary, key SortKey, w ranking.Weights) []models.Itinerary {
	sorted := make([]models.Itinerary, len(results))
	copy(sorted, results)
	if len(sorted) <= 1 {
		return sorted
	}

	if key == SortBest || key == "" {
		sortByScore(sorted, w)
		return sorted
	}

	cmp := comparator(key)
	sort.SliceStable(sorted, func(i, j int) bool {
		return cmp(sorted[i], sorted[j]) < 0
	})

	return sorted
}

func sortByScore(its []models.Itinerary, w ranking.Weights) {
	type scored struct {
		it    models.Itinerary
		score float64
	}

	scores := ranking.CalculateScores(its, w)
	tmp := make([]scored, len(its))
	for i, it := range its {
		tmp[i] = scored{it: it, score: scores[i]}
	}

	sort.SliceStable(tmp, func(i, j int) bool {
		return tmp[i].score < tmp[j].score
	})

	for i := range tmp {
		its[i] = tmp[i].it
	}
}

func comparator(key SortKey) func(a, b models.Itinerary) int {
	switch key {
	case SortPrice:
		return func(a, b models.Itinerary) int {
			return compareFloat(a.Price.Amount, b.Price.Amount)
		}
	case SortDuration:
		return func(a, b models.Itinerary) int {
			return compareFloat(float64(a.Outbound().DurationMinutes), float64(b.Outbound().DurationMinutes))
		}
	case SortOutboundDeparture:
		return func(a, b models.Itinerary) int {
			return compareTime(a.Outbound().Departure, b.Outbound().Departure)
		}
	case SortOutboundArrival:
		return func(a, b models.Itinerary) int {
			return compareTime(a.Outbound().Arrival, b.Outbound().Arrival)
		}
	case SortReturnDeparture:
		return returnComparator(func(l models.Leg) time.Time { return l.Departure })
	case SortReturnArrival:
		return returnComparator(func(l models.Leg) time.Time { return l.Arrival })
	default:
		return func(a, b models.Itinerary) int {
			return compareFloat(a.Price.Amount, b.Price.Amount)
		}
	}
}

// returnComparator orders by the return leg. Itineraries with a return leg
// sort before those without; two one-way itineraries are equal.
func returnComparator(at func(models.Leg) time.Time) func(a, b models.Itinerary) int {
	return func(a, b models.Itinerary) int {
		ra, okA := a.Return()
		rb, okB := b.Return()
		switch {
		case okA && okB:
			return compareTime(at(ra), at(rb))
		case okA:
			return -1
		case okB:
			return 1
		default:
			return 0
		}
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareTime(a, b time.Time) int {
	return a.Compare(b)
}

type HotelSortKey string

const (
	HotelSortRelevance HotelSortKey = "relevance"
	HotelSortPrice     HotelSortKey = "price"
	HotelSortPriceDesc HotelSortKey = "price_desc"
	HotelSortRating    HotelSortKey = "rating"
	HotelSortStars     HotelSortKey = "stars"
)

func ParseHotelSortKey(s string) (HotelSortKey, bool) {
	switch k := HotelSortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return HotelSortRelevance, true
	case HotelSortRelevance, HotelSortPrice, HotelSortPriceDesc, HotelSortRating, HotelSortStars:
		return k, true
	}
	return HotelSortRelevance, false
}

// SortHotels returns a stably sorted copy. Relevance keeps the upstream order.
func SortHotels(hotels []models.Hotel, key HotelSortKey) []models.Hotel {
	sorted := make([]models.Hotel, len(hotels))
	copy(sorted, hotels)

	var less func(a, b models.Hotel) bool
	switch key {
	case HotelSortPrice:
		less = func(a, b models.Hotel) bool { return a.Price.Amount < b.Price.Amount }
	case HotelSortPriceDesc:
		less = func(a, b models.Hotel) bool { return a.Price.Amount > b.Price.Amount }
	case HotelSortRating:
		less = func(a, b models.Hotel) bool { return a.ReviewScore > b.ReviewScore }
	case HotelSortStars:
		less = func(a, b models.Hotel) bool { return a.Stars > b.Stars }
	default:
		return sorted
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})

	return sorted
}
