package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dharmasatrya/travelsearch/internal/models"
)

func sampleHotels() []models.Hotel {
	return []models.Hotel{
		{ID: "ritz", Price: models.Price{Amount: 420}, ReviewScore: 4.7, Stars: 5,
			Amenities: []string{"Pool", "Spa", "Wifi"}, AccommodationType: "Hotel", PopularWith: []string{"Couples"}},
		{ID: "hostel", Price: models.Price{Amount: 35}, ReviewScore: 3.9, Stars: 1,
			Amenities: []string{"Wifi"}, AccommodationType: "Hostel", PopularWith: []string{"Solo travellers"}, Discounts: []string{"Deal"}},
		{ID: "inn", Price: models.Price{Amount: 130}, ReviewScore: 4.2, Stars: 3,
			Amenities: []string{"Wifi", "Parking"}, AccommodationType: "Hotel", PopularWith: []string{"Families", "Couples"}, Discounts: []string{"Member price"}},
	}
}

func hotelIDs(hs []models.Hotel) []string {
	out := make([]string, len(hs))
	for i, h := range hs {
		out[i] = h.ID
	}
	return out
}

func TestApplyHotels(t *testing.T) {
	tests := []struct {
		name string
		c    HotelCriteria
		want []string
	}{
		{"no filters", HotelCriteria{}, []string{"ritz", "hostel", "inn"}},
		{"price", HotelCriteria{Price: &Range{Min: 30, Max: 150}}, []string{"hostel", "inn"}},
		{"review score", HotelCriteria{MinReviewScore: 4.2}, []string{"ritz", "inn"}},
		{"stars", HotelCriteria{Stars: []int{1, 5}}, []string{"ritz", "hostel"}},
		{"discounts any", HotelCriteria{Discounts: []string{"deal", "member price"}}, []string{"hostel", "inn"}},
		{"amenities all", HotelCriteria{Amenities: []string{"wifi", "parking"}}, []string{"inn"}},
		{"types", HotelCriteria{AccommodationTypes: []string{"hostel"}}, []string{"hostel"}},
		{"popular with", HotelCriteria{PopularWith: []string{"Couples"}}, []string{"ritz", "inn"}},
		{"combined", HotelCriteria{PopularWith: []string{"Couples"}, Price: &Range{Min: 0, Max: 200}}, []string{"inn"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hotelIDs(ApplyHotels(sampleHotels(), tt.c)))
		})
	}
}

func TestApplyHotels_DefaultCriteriaIsIdentity(t *testing.T) {
	hotels := sampleHotels()
	c := DefaultHotelCriteria(ComputeHotelBounds(hotels))
	assert.Equal(t, hotels, ApplyHotels(hotels, c))
}

func TestComputeHotelBounds(t *testing.T) {
	b := ComputeHotelBounds(sampleHotels())

	assert.Equal(t, Range{Min: 35, Max: 420}, b.Price)
	assert.Equal(t, 4.7, b.MaxReviewScore)
	assert.Equal(t, []int{1, 3, 5}, b.Stars)
	assert.Equal(t, []string{"Parking", "Pool", "Spa", "Wifi"}, b.Amenities)
	assert.Equal(t, []string{"Deal", "Member price"}, b.Discounts)
	assert.Equal(t, []string{"Hostel", "Hotel"}, b.AccommodationTypes)
	assert.Equal(t, []string{"Couples", "Families", "Solo travellers"}, b.PopularWith)
}

func TestApplyHotels_Empty(t *testing.T) {
	assert.Empty(t, ApplyHotels(nil, HotelCriteria{MinReviewScore: 4}))
}
