package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dharmasatrya/travelsearch/internal/models"
)

func itinerary(price float64, outbound int, legs ...int) models.Itinerary {
	it := models.Itinerary{
		Price: models.Price{Amount: price},
		Legs:  []models.Leg{{DurationMinutes: outbound}},
	}
	for _, d := range legs {
		it.Legs = append(it.Legs, models.Leg{DurationMinutes: d})
	}
	return it
}

func TestScore_DefaultWeights(t *testing.T) {
	w := DefaultWeights()

	// 0.7 * 200/100 + 0.3 * 120/60
	assert.InDelta(t, 2.0, w.Score(itinerary(200, 120)), 1e-9)
}

func TestScore_IgnoresReturnLeg(t *testing.T) {
	w := DefaultWeights()
	assert.InDelta(t, w.Score(itinerary(150, 90)), w.Score(itinerary(150, 90, 600)), 1e-9)
}

func TestScore_CustomWeights(t *testing.T) {
	w := Weights{Price: 1, Duration: 0, PriceUnit: 1, DurationUnit: 1}
	assert.InDelta(t, 321.0, w.Score(itinerary(321, 999)), 1e-9)
}

func TestScore_ZeroUnitsFallBackToDefaults(t *testing.T) {
	w := Weights{Price: PriceWeight, Duration: DurationWeight}
	assert.InDelta(t, DefaultWeights().Score(itinerary(100, 60)), w.Score(itinerary(100, 60)), 1e-9)
}

func TestCalculateScores(t *testing.T) {
	scores := CalculateScores([]models.Itinerary{itinerary(100, 60), itinerary(300, 60)}, DefaultWeights())
	assert.Len(t, scores, 2)
	assert.Less(t, scores[0], scores[1])
}
