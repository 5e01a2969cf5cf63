package filter

import (
	"math"
	"sort"
	"strings"

	"github.com/dharmasatrya/travelsearch/internal/models"
)

// HotelCriteria holds the active hotel filters. Star ratings, discounts,
// accommodation types and popular-with tags accept a hotel matching any
// selected value; amenities require every selected amenity.
type HotelCriteria struct {
	Price              *Range   `json:"price,omitempty"`
	MinReviewScore     float64  `json:"min_review_score,omitempty"`
	Stars              []int    `json:"stars,omitempty"`
	Discounts          []string `json:"discounts,omitempty"`
	Amenities          []string `json:"amenities,omitempty"`
	AccommodationTypes []string `json:"accommodation_types,omitempty"`
	PopularWith        []string `json:"popular_with,omitempty"`
}

type HotelBounds struct {
	Price              Range    `json:"price"`
	MaxReviewScore     float64  `json:"max_review_score"`
	Stars              []int    `json:"stars"`
	Discounts          []string `json:"discounts"`
	Amenities          []string `json:"amenities"`
	AccommodationTypes []string `json:"accommodation_types"`
	PopularWith        []string `json:"popular_with"`
}

func ComputeHotelBounds(hotels []models.Hotel) HotelBounds {
	b := HotelBounds{}
	stars := make(map[int]bool)
	discounts := make(map[string]bool)
	amenities := make(map[string]bool)
	types := make(map[string]bool)
	popular := make(map[string]bool)

	if len(hotels) > 0 {
		b.Price = Range{Min: math.MaxFloat64, Max: -math.MaxFloat64}
	}

	for _, h := range hotels {
		b.Price.Min = math.Min(b.Price.Min, h.Price.Amount)
		b.Price.Max = math.Max(b.Price.Max, h.Price.Amount)
		b.MaxReviewScore = math.Max(b.MaxReviewScore, h.ReviewScore)
		stars[h.Stars] = true
		addAll(discounts, h.Discounts)
		addAll(amenities, h.Amenities)
		addAll(popular, h.PopularWith)
		if h.AccommodationType != "" {
			types[h.AccommodationType] = true
		}
	}

	for s := range stars {
		b.Stars = append(b.Stars, s)
	}
	sort.Ints(b.Stars)
	b.Discounts = sortedKeys(discounts)
	b.Amenities = sortedKeys(amenities)
	b.AccommodationTypes = sortedKeys(types)
	b.PopularWith = sortedKeys(popular)
	if b.Stars == nil {
		b.Stars = []int{}
	}

	return b
}

func DefaultHotelCriteria(b HotelBounds) HotelCriteria {
	price := b.Price
	return HotelCriteria{Price: &price}
}

func ApplyHotels(hotels []models.Hotel, c HotelCriteria) []models.Hotel {
	filtered := make([]models.Hotel, 0, len(hotels))

	for _, h := range hotels {
		if matchesHotel(h, c) {
			filtered = append(filtered, h)
		}
	}

	return filtered
}

func matchesHotel(h models.Hotel, c HotelCriteria) bool {
	if c.Price != nil && !c.Price.Contains(h.Price.Amount) {
		return false
	}

	if h.ReviewScore < c.MinReviewScore {
		return false
	}

	if len(c.Stars) > 0 && !containsInt(c.Stars, h.Stars) {
		return false
	}

	if len(c.Discounts) > 0 && !overlaps(c.Discounts, h.Discounts) {
		return false
	}

	for _, a := range c.Amenities {
		if !containsFold(h.Amenities, a) {
			return false
		}
	}

	if len(c.AccommodationTypes) > 0 && !containsFold(c.AccommodationTypes, h.AccommodationType) {
		return false
	}

	if len(c.PopularWith) > 0 && !overlaps(c.PopularWith, h.PopularWith) {
		return false
	}

	return true
}

func containsInt(set []int, v int) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func overlaps(want, have []string) bool {
	for _, h := range have {
		if containsFold(want, h) {
			return true
		}
	}
	return false
}

func addAll(set map[string]bool, values []string) {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			set[v] = true
		}
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
