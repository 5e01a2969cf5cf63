package ranking

import (
	"github.com/dharmasatrya/travelsearch/internal/models"
)

// Default composite weights. These are product choices, not derived optima;
// override them through Weights.
const (
	PriceWeight    = 0.7
	DurationWeight = 0.3

	// A price of PriceUnit weighs the same as DurationUnit minutes of flying.
	PriceUnit    = 100.0
	DurationUnit = 60.0
)

type Weights struct {
	Price        float64
	Duration     float64
	PriceUnit    float64
	DurationUnit float64
}

func DefaultWeights() Weights {
	return Weights{
		Price:        PriceWeight,
		Duration:     DurationWeight,
		PriceUnit:    PriceUnit,
		DurationUnit: DurationUnit,
	}
}

// Score returns the composite best score of an itinerary. Lower is better.
// Only the outbound leg duration counts.
func (w Weights) Score(it models.Itinerary) float64 {
	priceUnit := w.PriceUnit
	if priceUnit <= 0 {
		priceUnit = PriceUnit
	}
	durationUnit := w.DurationUnit
	if durationUnit <= 0 {
		durationUnit = DurationUnit
	}

	outbound := 0.0
	if len(it.Legs) > 0 {
		outbound = float64(it.Legs[0].DurationMinutes)
	}

	return w.Price*(it.Price.Amount/priceUnit) + w.Duration*(outbound/durationUnit)
}

func CalculateScores(itineraries []models.Itinerary, w Weights) []float64 {
	scores := make([]float64, len(itineraries))
	for i, it := range itineraries {
		scores[i] = w.Score(it)
	}
	return scores
}
