package aggregator

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/travelsearch/internal/cache"
	"github.com/dharmasatrya/travelsearch/internal/models"
	"github.com/dharmasatrya/travelsearch/internal/providers"
	"github.com/dharmasatrya/travelsearch/internal/providers/providertest"
)

var rome = models.Coordinates{Latitude: 41.9, Longitude: 12.49}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func newTestAggregator(fake *providertest.Fake, c cache.Cache) *Aggregator {
	return NewAggregator(fake, fake, c, Config{
		Timeout:         time.Second,
		MaxRetries:      2,
		RetryDelays:     []time.Duration{time.Millisecond, 2 * time.Millisecond},
		DefaultLocation: rome,
		Logger:          quietLogger(),
	})
}

func flightRequest() models.FlightSearchRequest {
	return models.FlightSearchRequest{
		Origin:        models.Place{Value: "LOND", EntityID: "27544008"},
		Destination:   models.Place{Value: "NYCA", EntityID: "27537542"},
		DepartureDate: time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC),
		Passengers:    models.PassengerCounts{Adults: 1},
		CabinClass:    "economy",
	}
}

func sampleFlights() models.FlightSearch {
	return models.FlightSearch{
		SessionID: "session-1",
		Complete:  true,
		Results: []models.Itinerary{{
			ID:    "it-1",
			Price: models.Price{Amount: 420, Formatted: "$420"},
			Legs: []models.Leg{{
				Origin:          models.Airport{Code: "LHR"},
				Destination:     models.Airport{Code: "JFK"},
				DurationMinutes: 480,
				Departure:       time.Date(2026, 11, 20, 9, 0, 0, 0, time.UTC),
			}},
		}},
	}
}

func TestSearchFlights_CachesResponse(t *testing.T) {
	mr := miniredis.RunT(t)
	rc, err := cache.NewRedisCache(cache.RedisConfig{Host: mr.Host(), Port: mr.Port(), TTL: time.Minute})
	require.NoError(t, err)
	defer rc.Close()

	fake := &providertest.Fake{Flights: sampleFlights()}
	agg := newTestAggregator(fake, rc)

	first, hit, err := agg.SearchFlights(context.Background(), flightRequest())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, first.Results, 1)

	second, hit, err := agg.SearchFlights(context.Background(), flightRequest())
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, "it-1", second.Results[0].ID)
	assert.Equal(t, 1, fake.Calls(providers.EndpointSearchFlights))
}

func TestSearchFlights_RetriesTransientFailures(t *testing.T) {
	attempts := 0
	fake := &providertest.Fake{
		SearchFlightsFunc: func(ctx context.Context, req models.FlightSearchRequest) (models.FlightSearch, error) {
			attempts++
			if attempts < 3 {
				return models.FlightSearch{}, providers.NewProviderError(providers.EndpointSearchFlights, http.StatusBadGateway, errors.New("bad gateway"))
			}
			return sampleFlights(), nil
		},
	}
	agg := newTestAggregator(fake, nil)

	result, _, err := agg.SearchFlights(context.Background(), flightRequest())
	require.NoError(t, err)
	assert.Len(t, result.Results, 1)
	assert.Equal(t, 3, attempts)
}

func TestSearchFlights_GivesUpAfterMaxRetries(t *testing.T) {
	fake := &providertest.Fake{
		SearchFlightsFunc: func(ctx context.Context, req models.FlightSearchRequest) (models.FlightSearch, error) {
			return models.FlightSearch{}, providers.NewProviderError(providers.EndpointSearchFlights, http.StatusServiceUnavailable, errors.New("down"))
		},
	}
	agg := newTestAggregator(fake, nil)

	_, _, err := agg.SearchFlights(context.Background(), flightRequest())
	require.Error(t, err)
	assert.Equal(t, 3, fake.Calls(providers.EndpointSearchFlights))
}

func TestSearchFlights_NoRetryOnFinalErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"client error", providers.NewProviderError(providers.EndpointSearchFlights, http.StatusForbidden, errors.New("forbidden"))},
		{"parse error", &providers.ParseError{Endpoint: providers.EndpointSearchFlights, Reason: "missing data"}},
		{"cancelled", context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &providertest.Fake{
				SearchFlightsFunc: func(ctx context.Context, req models.FlightSearchRequest) (models.FlightSearch, error) {
					return models.FlightSearch{}, tt.err
				},
			}
			agg := newTestAggregator(fake, nil)

			_, _, err := agg.SearchFlights(context.Background(), flightRequest())
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, 1, fake.Calls(providers.EndpointSearchFlights))
		})
	}
}

func TestSearchHotels_CachesResponse(t *testing.T) {
	mr := miniredis.RunT(t)
	rc, err := cache.NewRedisCache(cache.RedisConfig{Host: mr.Host(), Port: mr.Port(), TTL: time.Minute})
	require.NoError(t, err)
	defer rc.Close()

	fake := &providertest.Fake{Hotels: models.HotelSearch{Results: []models.Hotel{{ID: "h1", Name: "Hotel Artemide"}}}}
	agg := newTestAggregator(fake, rc)
	req := models.HotelSearchRequest{EntityID: "27539793", Adults: 2, Rooms: 1}

	_, hit, err := agg.SearchHotels(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, hit)

	result, hit, err := agg.SearchHotels(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "h1", result.Results[0].ID)
	assert.Equal(t, 1, fake.Calls(providers.EndpointSearchHotels))
}

func TestFlightDetail_PassesSessionAndLegs(t *testing.T) {
	var got providers.DetailRequest
	fake := &providertest.Fake{
		FlightDetailsFunc: func(ctx context.Context, req providers.DetailRequest) (models.FlightDetail, error) {
			got = req
			return models.FlightDetail{ItineraryID: req.ItineraryID}, nil
		},
	}
	agg := newTestAggregator(fake, nil)
	it := sampleFlights().Results[0]

	detail, err := agg.FlightDetail(context.Background(), it, "session-1", flightRequest())
	require.NoError(t, err)
	assert.Equal(t, "it-1", detail.ItineraryID)
	assert.Equal(t, "session-1", got.SessionID)
	assert.Equal(t, "economy", got.CabinClass)
	require.Len(t, got.Legs, 1)
	assert.Equal(t, providers.DetailLegQuery{Origin: "LHR", Destination: "JFK", Date: "2026-11-20"}, got.Legs[0])
}

func TestHotelOverview(t *testing.T) {
	hotel := models.Hotel{ID: "h1", Name: "Hotel Artemide", Latitude: 41.9, Longitude: 12.49}
	req := models.HotelSearchRequest{
		EntityID: "27539793",
		CheckIn:  time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2026, 11, 23, 0, 0, 0, 0, time.UTC),
		Adults:   2,
		Rooms:    1,
	}

	t.Run("detail and map", func(t *testing.T) {
		fake := &providertest.Fake{
			HotelDetailsFunc: func(ctx context.Context, r providers.HotelDetailRequest) (models.HotelDetail, error) {
				assert.Equal(t, "2026-11-20", r.CheckIn)
				assert.Equal(t, "2026-11-23", r.CheckOut)
				return models.HotelDetail{ID: r.HotelID, Name: "Hotel Artemide"}, nil
			},
			Map: models.NearbyMap{PointsOfInterest: []models.PointOfInterest{{Name: "Colosseum"}}},
		}
		agg := newTestAggregator(fake, nil)

		overview, err := agg.HotelOverview(context.Background(), hotel, req)
		require.NoError(t, err)
		assert.Equal(t, "h1", overview.Detail.ID)
		require.NotNil(t, overview.Nearby)
		assert.Equal(t, "Colosseum", overview.Nearby.PointsOfInterest[0].Name)
		assert.Empty(t, overview.Warning)
	})

	t.Run("map failure is a warning", func(t *testing.T) {
		fake := &providertest.Fake{
			HotelDetail: models.HotelDetail{ID: "h1"},
			NearbyMapFunc: func(ctx context.Context, cityID string, at models.Coordinates) (models.NearbyMap, error) {
				return models.NearbyMap{}, errors.New("map down")
			},
		}
		agg := newTestAggregator(fake, nil)

		overview, err := agg.HotelOverview(context.Background(), hotel, req)
		require.NoError(t, err)
		assert.Nil(t, overview.Nearby)
		assert.NotEmpty(t, overview.Warning)
	})

	t.Run("detail failure is an error", func(t *testing.T) {
		fake := &providertest.Fake{
			HotelDetailsFunc: func(ctx context.Context, r providers.HotelDetailRequest) (models.HotelDetail, error) {
				return models.HotelDetail{}, providers.NewProviderError(providers.EndpointHotelDetails, http.StatusNotFound, errors.New("not found"))
			},
		}
		agg := newTestAggregator(fake, nil)

		_, err := agg.HotelOverview(context.Background(), hotel, req)
		assert.Error(t, err)
	})
}

func TestNearbyAirports(t *testing.T) {
	heathrow := models.Place{Label: "London Heathrow", Value: "LHR"}

	t.Run("uses the given location", func(t *testing.T) {
		var asked models.Coordinates
		fake := &providertest.Fake{
			NearbyAirportsFunc: func(ctx context.Context, at models.Coordinates) (providers.NearbyAirports, error) {
				asked = at
				return providers.NearbyAirports{Current: &heathrow, Nearby: []models.Place{heathrow}}, nil
			},
		}
		agg := newTestAggregator(fake, nil)
		london := models.Coordinates{Latitude: 51.47, Longitude: -0.45}

		resp, err := agg.NearbyAirports(context.Background(), &london)
		require.NoError(t, err)
		assert.Equal(t, london, asked)
		assert.False(t, resp.Fallback)
		assert.Empty(t, resp.Warning)
		assert.Equal(t, "LHR", resp.Current.Value)
	})

	t.Run("falls back without a location", func(t *testing.T) {
		var asked models.Coordinates
		fake := &providertest.Fake{
			NearbyAirportsFunc: func(ctx context.Context, at models.Coordinates) (providers.NearbyAirports, error) {
				asked = at
				return providers.NearbyAirports{}, nil
			},
		}
		agg := newTestAggregator(fake, nil)

		resp, err := agg.NearbyAirports(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, rome, asked)
		assert.True(t, resp.Fallback)
		assert.Equal(t, LocationUnavailableWarning, resp.Warning)
		assert.NotNil(t, resp.Nearby)
	})
}

func TestWithRetry_StopsOnContextCancel(t *testing.T) {
	agg := NewAggregator(nil, nil, nil, Config{
		MaxRetries:  5,
		RetryDelays: []time.Duration{time.Hour},
		Logger:      quietLogger(),
	})
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	_, err := withRetry(ctx, agg, "test", func(ctx context.Context) (int, error) {
		calls++
		cancel()
		return 0, providers.NewProviderError("test", http.StatusBadGateway, errors.New("boom"))
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
