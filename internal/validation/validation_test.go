package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/travelsearch/internal/models"
)

var fixedNow = time.Date(2026, 10, 15, 18, 30, 0, 0, time.UTC)

func newTestValidator() *Validator {
	return New(func() time.Time { return fixedNow })
}

func day(offset int) string {
	return fixedNow.AddDate(0, 0, offset).Format("2006-01-02")
}

func london() *models.Place {
	return &models.Place{Label: "London (Any)", Value: "LOND", City: "London", Country: "United Kingdom", EntityID: "27544008"}
}

func newYork() *models.Place {
	return &models.Place{Label: "New York (Any)", Value: "NYCA", City: "New York", Country: "United States", EntityID: "27537542"}
}

func validFlightForm() models.FlightSearchForm {
	return models.FlightSearchForm{
		TripType:      models.TripRoundTrip,
		Origin:        london(),
		Destination:   newYork(),
		DepartureDate: day(7),
		ReturnDate:    day(14),
		Passengers:    models.PassengerCounts{Adults: 2, Children: 1},
		CabinClass:    "economy",
	}
}

func validHotelForm() models.HotelSearchForm {
	return models.HotelSearchForm{
		Destination: "Rome",
		EntityID:    "27539793",
		CheckIn:     day(1),
		CheckOut:    day(4),
		Adults:      2,
		Rooms:       1,
	}
}

func TestValidateFlightSearch_Accepts(t *testing.T) {
	form := validFlightForm()
	form.CabinClass = "  Business "
	form.Origin.Label = " London (Any) "

	req, errs := newTestValidator().ValidateFlightSearch(form)
	require.Empty(t, errs)

	assert.Equal(t, "business", req.CabinClass)
	assert.Equal(t, "London (Any)", req.Origin.Label)
	assert.Equal(t, "NYCA", req.Destination.Value)
	assert.Equal(t, time.Date(2026, 10, 22, 0, 0, 0, 0, time.UTC), req.DepartureDate)
	require.NotNil(t, req.ReturnDate)
	assert.True(t, req.RoundTrip())
	assert.Equal(t, 3, req.Passengers.Total())
}

func TestValidateFlightSearch_DepartureTodayIsAllowed(t *testing.T) {
	form := validFlightForm()
	form.TripType = models.TripOneWay
	form.DepartureDate = day(0)
	form.ReturnDate = ""

	req, errs := newTestValidator().ValidateFlightSearch(form)
	require.Empty(t, errs)
	assert.False(t, req.RoundTrip())
}

func TestValidateFlightSearch_OneWayIgnoresReturnDate(t *testing.T) {
	form := validFlightForm()
	form.TripType = models.TripOneWay
	form.ReturnDate = day(-30)

	req, errs := newTestValidator().ValidateFlightSearch(form)
	require.Empty(t, errs)
	assert.Nil(t, req.ReturnDate)
}

func TestValidateFlightSearch_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *models.FlightSearchForm)
		field  string
		msg    string
	}{
		{"missing origin", func(f *models.FlightSearchForm) { f.Origin = nil }, "origin", "is required"},
		{"incomplete destination", func(f *models.FlightSearchForm) { f.Destination.EntityID = "" }, "destination", "must be selected from the suggestions"},
		{"missing departure", func(f *models.FlightSearchForm) { f.DepartureDate = "" }, "departure_date", "is required"},
		{"bad departure", func(f *models.FlightSearchForm) { f.DepartureDate = "22/10/2026" }, "departure_date", "must be a date in YYYY-MM-DD format"},
		{"past departure", func(f *models.FlightSearchForm) { f.DepartureDate = day(-1) }, "departure_date", "cannot be in the past"},
		{"round trip without return", func(f *models.FlightSearchForm) { f.ReturnDate = "" }, "return_date", "is required for round trips"},
		{"return before departure", func(f *models.FlightSearchForm) { f.ReturnDate = day(6) }, "return_date", "must be on or after the departure date"},
		{"no adults", func(f *models.FlightSearchForm) { f.Passengers = models.PassengerCounts{Children: 2} }, "passengers", "must be at least 1 adult"},
		{"too many passengers", func(f *models.FlightSearchForm) { f.Passengers = models.PassengerCounts{Adults: 6, Children: 5} }, "passengers", "must be between 1 and 10 travellers"},
		{"infants outnumber adults", func(f *models.FlightSearchForm) { f.Passengers = models.PassengerCounts{Adults: 1, Infants: 2} }, "passengers", "each infant must travel with an adult"},
		{"negative children", func(f *models.FlightSearchForm) { f.Passengers.Children = -1 }, "passengers", "cannot be negative"},
		{"unknown cabin", func(f *models.FlightSearchForm) { f.CabinClass = "luxury" }, "cabin_class", "must be one of: economy, premium_economy, business, first"},
		{"unknown trip type", func(f *models.FlightSearchForm) { f.TripType = "multi_city" }, "trip_type", "must be one of: one_way, round_trip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validFlightForm()
			tt.mutate(&form)

			_, errs := newTestValidator().ValidateFlightSearch(form)
			require.Contains(t, errs, tt.field)
			assert.Equal(t, tt.msg, errs[tt.field])
		})
	}
}

func TestValidateFlightSearch_ReportsEveryField(t *testing.T) {
	form := models.FlightSearchForm{
		TripType:      models.TripRoundTrip,
		DepartureDate: day(-2),
		Passengers:    models.PassengerCounts{},
	}

	_, errs := newTestValidator().ValidateFlightSearch(form)

	for _, field := range []string{"origin", "destination", "departure_date", "return_date", "passengers", "cabin_class"} {
		assert.Contains(t, errs, field)
	}
	assert.Len(t, errs, 6)
}

func TestValidateFlightSearch_ReturnNotCheckedAgainstInvalidDeparture(t *testing.T) {
	form := validFlightForm()
	form.DepartureDate = "soon"

	_, errs := newTestValidator().ValidateFlightSearch(form)
	assert.Contains(t, errs, "departure_date")
	assert.NotContains(t, errs, "return_date")
}

func TestValidateHotelSearch_Accepts(t *testing.T) {
	req, errs := newTestValidator().ValidateHotelSearch(validHotelForm())
	require.Empty(t, errs)

	assert.Equal(t, "Rome", req.Destination)
	assert.Equal(t, 3, req.Nights())
	assert.Equal(t, 1, req.Rooms)
}

func TestValidateHotelSearch_CheckOutBeforeCheckIn(t *testing.T) {
	form := validHotelForm()
	form.CheckIn = day(3)
	form.CheckOut = day(1)

	_, errs := newTestValidator().ValidateHotelSearch(form)

	assert.Equal(t, "must be after check-in", errs["check_out"])
	assert.NotContains(t, errs, "check_in")
}

func TestValidateHotelSearch_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *models.HotelSearchForm)
		field  string
		msg    string
	}{
		{"blank destination", func(f *models.HotelSearchForm) { f.Destination = "   " }, "destination", "is required"},
		{"past check-in", func(f *models.HotelSearchForm) { f.CheckIn = day(-1) }, "check_in", "cannot be in the past"},
		{"same-day check-out", func(f *models.HotelSearchForm) { f.CheckOut = f.CheckIn }, "check_out", "must be after check-in"},
		{"missing check-out", func(f *models.HotelSearchForm) { f.CheckOut = "" }, "check_out", "is required"},
		{"no adults", func(f *models.HotelSearchForm) { f.Adults = 0; f.Rooms = 0 }, "adults", "must be at least 1"},
		{"negative children", func(f *models.HotelSearchForm) { f.Children = -1 }, "children", "must be at least 0"},
		{"no rooms", func(f *models.HotelSearchForm) { f.Rooms = 0 }, "rooms", "must be at least 1"},
		{"more rooms than adults", func(f *models.HotelSearchForm) { f.Rooms = 3 }, "rooms", "cannot exceed adults"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validHotelForm()
			tt.mutate(&form)

			_, errs := newTestValidator().ValidateHotelSearch(form)
			require.Contains(t, errs, tt.field)
			assert.Equal(t, tt.msg, errs[tt.field])
		})
	}
}

func TestFieldErrors_Error(t *testing.T) {
	errs := FieldErrors{"rooms": "must be at least 1", "check_out": "is required"}
	assert.Equal(t, "check_out: is required; rooms: must be at least 1", errs.Error())
}
