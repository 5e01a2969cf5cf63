package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/travelsearch/internal/models"
	"github.com/dharmasatrya/travelsearch/internal/providers"
	"github.com/dharmasatrya/travelsearch/internal/providers/providertest"
)

const flightForm = `{
	"trip_type": "one_way",
	"origin": {"label": "London (Any)", "value": "LOND", "city": "London", "country": "United Kingdom", "entity_id": "27544008"},
	"destination": {"label": "New York (Any)", "value": "NYCA", "city": "New York", "country": "United States", "entity_id": "27537542"},
	"departure_date": "2026-11-20",
	"passengers": {"adults": 1},
	"cabin_class": "economy"
}`

func itinerary(id string, price float64, minutes, stops, departHour int, carrier string) models.Itinerary {
	dep := time.Date(2026, 11, 20, departHour, 0, 0, 0, time.UTC)
	return models.Itinerary{
		ID:    id,
		Price: models.Price{Amount: price, Formatted: fmt.Sprintf("$%.0f", price)},
		Legs: []models.Leg{{
			Origin:          models.Airport{Code: "LHR"},
			Destination:     models.Airport{Code: "JFK"},
			DurationMinutes: minutes,
			Stops:           stops,
			Departure:       dep,
			Arrival:         dep.Add(time.Duration(minutes) * time.Minute),
			Carrier:         models.Carrier{Name: carrier},
		}},
	}
}

func manyItineraries(n int) []models.Itinerary {
	out := make([]models.Itinerary, n)
	for i := range out {
		out[i] = itinerary(fmt.Sprintf("it-%02d", i), float64(100+i*10), 420, i%3, 8, "British Airways")
	}
	return out
}

func startFlightSearch(t *testing.T, s *testServer) FlightResultsView {
	t.Helper()
	rec := s.do(http.MethodPost, "/api/v1/flights/search", flightForm)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[FlightResultsView](t, rec)
}

func TestFlightSearch_FirstPage(t *testing.T) {
	fake := &providertest.Fake{Flights: models.FlightSearch{SessionID: "upstream-1", Results: manyItineraries(23)}}
	s := newTestServer(t, fake)

	view := startFlightSearch(t, s)

	assert.NotEmpty(t, view.SessionID)
	assert.Equal(t, "best", view.SortBy)
	assert.Equal(t, 1, view.Page.Page)
	assert.Equal(t, 3, view.Page.TotalPages)
	assert.Equal(t, 23, view.Page.TotalResults)
	assert.True(t, view.Page.ShowControls)
	assert.Len(t, view.Results, 10)
	assert.Equal(t, 100.0, view.Bounds.Price.Min)
	assert.Equal(t, 320.0, view.Bounds.Price.Max)
	require.NotNil(t, view.Criteria.Price)
	assert.Equal(t, view.Bounds.Price, *view.Criteria.Price)
	assert.Empty(t, view.Message)
}

func TestFlightSearch_ValidationErrors(t *testing.T) {
	s := newTestServer(t, &providertest.Fake{})

	rec := s.do(http.MethodPost, "/api/v1/flights/search", `{"trip_type":"round_trip","departure_date":"2026-10-01","passengers":{"adults":1},"cabin_class":"economy"}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decode[models.ErrorResponse](t, rec)
	assert.Equal(t, "validation_error", resp.Error)
	assert.Equal(t, "is required", resp.Fields["origin"])
	assert.Equal(t, "cannot be in the past", resp.Fields["departure_date"])
	assert.Equal(t, "is required for round trips", resp.Fields["return_date"])
	assert.Equal(t, 0, s.fake.Calls(providers.EndpointSearchFlights))
}

func TestFlightSearch_MalformedBody(t *testing.T) {
	s := newTestServer(t, &providertest.Fake{})
	rec := s.do(http.MethodPost, "/api/v1/flights/search", `{"trip_type":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFlightSearch_UpstreamFailure(t *testing.T) {
	fake := &providertest.Fake{
		SearchFlightsFunc: func(ctx context.Context, req models.FlightSearchRequest) (models.FlightSearch, error) {
			return models.FlightSearch{}, &providers.ParseError{Endpoint: providers.EndpointSearchFlights, Reason: "missing data"}
		},
	}
	s := newTestServer(t, fake)

	rec := s.do(http.MethodPost, "/api/v1/flights/search", flightForm)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, upstreamFailureMessage, decode[models.ErrorResponse](t, rec).Message)
}

func TestFlightSearch_EmptyResults(t *testing.T) {
	s := newTestServer(t, &providertest.Fake{})

	view := startFlightSearch(t, s)

	assert.Empty(t, view.Results)
	assert.Equal(t, models.NoResultsMessage, view.Message)
	assert.Equal(t, 1, view.Page.Page)
	assert.False(t, view.Page.ShowControls)
}

func TestFlightResults_FilterSortPaginate(t *testing.T) {
	fake := &providertest.Fake{Flights: models.FlightSearch{Results: []models.Itinerary{
		itinerary("a", 150, 300, 0, 7, "KLM"),
		itinerary("b", 200, 300, 1, 12, "Delta"),
		itinerary("c", 100, 300, 2, 22, "KLM"),
	}}}
	s := newTestServer(t, fake)
	view := startFlightSearch(t, s)
	base := "/api/v1/flights/searches/" + view.SessionID

	rec := s.do(http.MethodGet, base+"?sort=price_high", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[FlightResultsView](t, rec)
	assert.Equal(t, []string{"c", "a", "b"}, ids(got.Results))

	rec = s.do(http.MethodGet, base+"?stops=0", "")
	got = decode[FlightResultsView](t, rec)
	assert.Equal(t, []string{"a"}, ids(got.Results))

	rec = s.do(http.MethodGet, base+"?stops=1,2%2B&airlines=KLM", "")
	got = decode[FlightResultsView](t, rec)
	assert.Equal(t, []string{"c"}, ids(got.Results))

	rec = s.do(http.MethodGet, base+"?departure_from=6&departure_to=13&sort=price", "")
	got = decode[FlightResultsView](t, rec)
	assert.Equal(t, []string{"a", "b"}, ids(got.Results))

	rec = s.do(http.MethodGet, base+"?price_max=50", "")
	got = decode[FlightResultsView](t, rec)
	assert.Empty(t, got.Results)
	assert.Equal(t, models.NoResultsMessage, got.Message)
}

func TestFlightResults_PageResetsWhenViewChanges(t *testing.T) {
	fake := &providertest.Fake{Flights: models.FlightSearch{Results: manyItineraries(23)}}
	s := newTestServer(t, fake)
	view := startFlightSearch(t, s)
	base := "/api/v1/flights/searches/" + view.SessionID

	got := decode[FlightResultsView](t, s.do(http.MethodGet, base+"?sort=price", ""))
	assert.Equal(t, 1, got.Page.Page)

	got = decode[FlightResultsView](t, s.do(http.MethodGet, base+"?sort=price&page=3", ""))
	assert.Equal(t, 3, got.Page.Page)
	assert.Len(t, got.Results, 3)

	got = decode[FlightResultsView](t, s.do(http.MethodGet, base+"?sort=price&page=2", ""))
	assert.Equal(t, 2, got.Page.Page)

	got = decode[FlightResultsView](t, s.do(http.MethodGet, base+"?sort=price", ""))
	assert.Equal(t, 2, got.Page.Page)

	got = decode[FlightResultsView](t, s.do(http.MethodGet, base+"?sort=duration&page=2", ""))
	assert.Equal(t, 1, got.Page.Page)

	got = decode[FlightResultsView](t, s.do(http.MethodGet, base+"?sort=duration&page=9", ""))
	assert.Equal(t, 3, got.Page.Page)
}

func TestFlightResults_DeepLinkKeepsPage(t *testing.T) {
	fake := &providertest.Fake{Flights: models.FlightSearch{Results: manyItineraries(23)}}
	s := newTestServer(t, fake)
	view := startFlightSearch(t, s)
	base := "/api/v1/flights/searches/" + view.SessionID

	got := decode[FlightResultsView](t, s.do(http.MethodGet, base+"?sort=duration&page=2", ""))
	assert.Equal(t, 2, got.Page.Page)

	got = decode[FlightResultsView](t, s.do(http.MethodGet, base+"?sort=price&page=3", ""))
	assert.Equal(t, 1, got.Page.Page)
}

func TestFlightResults_BadParams(t *testing.T) {
	fake := &providertest.Fake{Flights: models.FlightSearch{Results: manyItineraries(3)}}
	s := newTestServer(t, fake)
	view := startFlightSearch(t, s)
	base := "/api/v1/flights/searches/" + view.SessionID

	for _, q := range []string{"?sort=random", "?stops=x", "?stops=3%2B", "?price_min=abc", "?price_min=500&price_max=100", "?refundable=maybe", "?page=0"} {
		rec := s.do(http.MethodGet, base+q, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}

	rec := s.do(http.MethodGet, "/api/v1/flights/searches/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFlightDetail(t *testing.T) {
	var got providers.DetailRequest
	fake := &providertest.Fake{
		Flights: models.FlightSearch{SessionID: "upstream-1", Results: manyItineraries(2)},
		FlightDetailsFunc: func(ctx context.Context, req providers.DetailRequest) (models.FlightDetail, error) {
			got = req
			return models.FlightDetail{ItineraryID: req.ItineraryID}, nil
		},
	}
	s := newTestServer(t, fake)
	view := startFlightSearch(t, s)

	rec := s.do(http.MethodGet, "/api/v1/flights/searches/"+view.SessionID+"/itineraries/it-01", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "it-01", decode[models.FlightDetail](t, rec).ItineraryID)
	assert.Equal(t, "upstream-1", got.SessionID)

	rec = s.do(http.MethodGet, "/api/v1/flights/searches/"+view.SessionID+"/itineraries/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFlightDetail_UpstreamFailure(t *testing.T) {
	fake := &providertest.Fake{
		Flights: models.FlightSearch{Results: manyItineraries(1)},
		FlightDetailsFunc: func(ctx context.Context, req providers.DetailRequest) (models.FlightDetail, error) {
			return models.FlightDetail{}, errors.New("session expired")
		},
	}
	s := newTestServer(t, fake)
	view := startFlightSearch(t, s)

	rec := s.do(http.MethodGet, "/api/v1/flights/searches/"+view.SessionID+"/itineraries/it-00", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestFlightClear(t *testing.T) {
	fake := &providertest.Fake{Flights: models.FlightSearch{Results: manyItineraries(1)}}
	s := newTestServer(t, fake)
	view := startFlightSearch(t, s)
	path := "/api/v1/flights/searches/" + view.SessionID

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, path, "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, path, "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, path, "").Code)
}

func TestNearbyAirports(t *testing.T) {
	var asked models.Coordinates
	fake := &providertest.Fake{
		NearbyAirportsFunc: func(ctx context.Context, at models.Coordinates) (providers.NearbyAirports, error) {
			asked = at
			return providers.NearbyAirports{Nearby: []models.Place{{Value: "LHR"}}}, nil
		},
	}
	s := newTestServer(t, fake)

	rec := s.do(http.MethodGet, "/api/v1/flights/airports/nearby?lat=51.47&lng=-0.45", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[models.NearbyAirportsResponse](t, rec)
	assert.False(t, resp.Fallback)
	assert.Equal(t, 51.47, asked.Latitude)

	rec = s.do(http.MethodGet, "/api/v1/flights/airports/nearby", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decode[models.NearbyAirportsResponse](t, rec)
	assert.True(t, resp.Fallback)
	assert.NotEmpty(t, resp.Warning)
	assert.Equal(t, 40.71, asked.Latitude)
}

func ids(its []models.Itinerary) []string {
	out := make([]string, len(its))
	for i, it := range its {
		out[i] = it.ID
	}
	return out
}
