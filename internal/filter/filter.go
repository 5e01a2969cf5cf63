package filter

import (
	"strings"

	"github.com/dharmasatrya/travelsearch/internal/models"
	"github.com/dharmasatrya/travelsearch/internal/timezone"
)

// Apply returns the itineraries matching every active predicate in c, in their
// original order. The input is not modified.
func Apply(results []models.Itinerary, c Criteria) []models.Itinerary {
	filtered := make([]models.Itinerary, 0, len(results))

	for _, it := range results {
		if matches(it, c) {
			filtered = append(filtered, it)
		}
	}

	return filtered
}

func matches(it models.Itinerary, c Criteria) bool {
	if len(c.Stops) > 0 && !anyLeg(it, func(l models.Leg) bool { return stopsAccepted(c.Stops, l.Stops) }) {
		return false
	}

	if c.Price != nil && !c.Price.Contains(it.Price.Amount) {
		return false
	}

	if c.Duration != nil && !c.Duration.Contains(float64(it.MaxLegDuration())) {
		return false
	}

	if c.DepartureHours != nil && !c.DepartureHours.coversFullDay() {
		r := *c.DepartureHours
		if !anyLeg(it, func(l models.Leg) bool { return r.Contains(float64(timezone.HourOfDay(l.Departure))) }) {
			return false
		}
	}

	if c.ArrivalHours != nil && !c.ArrivalHours.coversFullDay() {
		r := *c.ArrivalHours
		if !anyLeg(it, func(l models.Leg) bool { return r.Contains(float64(timezone.HourOfDay(l.Arrival))) }) {
			return false
		}
	}

	if len(c.Airlines) > 0 && !anyLeg(it, func(l models.Leg) bool { return containsFold(c.Airlines, l.Carrier.Name) }) {
		return false
	}

	if !c.Refundable.allows(it.FarePolicy.Refundable) || !c.Changeable.allows(it.FarePolicy.Changeable) {
		return false
	}

	return true
}

func anyLeg(it models.Itinerary, pred func(models.Leg) bool) bool {
	for _, l := range it.Legs {
		if pred(l) {
			return true
		}
	}
	return false
}

func stopsAccepted(accepted []int, stops int) bool {
	for _, s := range accepted {
		if s == stops {
			return true
		}
		if s == TwoOrMoreStops && stops >= StopsBucketFloor {
			return true
		}
	}
	return false
}

func containsFold(set []string, v string) bool {
	for _, s := range set {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}
