// Package providertest provides an in-memory flight and hotel provider for tests.
package providertest

import (
	"context"
	"sync"

	"github.com/dharmasatrya/travelsearch/internal/models"
	"github.com/dharmasatrya/travelsearch/internal/providers"
)

// Fake implements providers.FlightProvider and providers.HotelProvider. Each
// hook, when set, replaces the canned response; calls are counted per endpoint.
type Fake struct {
	mu    sync.Mutex
	calls map[string]int

	Airports     []models.Place
	Destinations []models.Place
	Flights      models.FlightSearch
	Hotels       models.HotelSearch
	Detail       models.FlightDetail
	HotelDetail  models.HotelDetail
	Map          models.NearbyMap
	Nearby       providers.NearbyAirports

	SearchAirportFunc      func(ctx context.Context, query string) ([]models.Place, error)
	SearchDestinationsFunc func(ctx context.Context, query string) ([]models.Place, error)
	SearchFlightsFunc      func(ctx context.Context, req models.FlightSearchRequest) (models.FlightSearch, error)
	SearchHotelsFunc       func(ctx context.Context, req models.HotelSearchRequest) (models.HotelSearch, error)
	FlightDetailsFunc      func(ctx context.Context, req providers.DetailRequest) (models.FlightDetail, error)
	HotelDetailsFunc       func(ctx context.Context, req providers.HotelDetailRequest) (models.HotelDetail, error)
	NearbyMapFunc          func(ctx context.Context, cityID string, at models.Coordinates) (models.NearbyMap, error)
	NearbyAirportsFunc     func(ctx context.Context, at models.Coordinates) (providers.NearbyAirports, error)
}

func (f *Fake) record(endpoint string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[endpoint]++
}

// Calls returns how many times endpoint was invoked.
func (f *Fake) Calls(endpoint string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[endpoint]
}

func (f *Fake) SearchAirport(ctx context.Context, query string) ([]models.Place, error) {
	f.record(providers.EndpointSearchAirport)
	if f.SearchAirportFunc != nil {
		return f.SearchAirportFunc(ctx, query)
	}
	return f.Airports, nil
}

func (f *Fake) NearbyAirports(ctx context.Context, at models.Coordinates) (providers.NearbyAirports, error) {
	f.record(providers.EndpointNearbyAirports)
	if f.NearbyAirportsFunc != nil {
		return f.NearbyAirportsFunc(ctx, at)
	}
	return f.Nearby, nil
}

func (f *Fake) SearchFlights(ctx context.Context, req models.FlightSearchRequest) (models.FlightSearch, error) {
	f.record(providers.EndpointSearchFlights)
	if f.SearchFlightsFunc != nil {
		return f.SearchFlightsFunc(ctx, req)
	}
	return f.Flights, nil
}

func (f *Fake) FlightDetails(ctx context.Context, req providers.DetailRequest) (models.FlightDetail, error) {
	f.record(providers.EndpointFlightDetails)
	if f.FlightDetailsFunc != nil {
		return f.FlightDetailsFunc(ctx, req)
	}
	return f.Detail, nil
}

func (f *Fake) SearchDestinations(ctx context.Context, query string) ([]models.Place, error) {
	f.record(providers.EndpointSearchDestinations)
	if f.SearchDestinationsFunc != nil {
		return f.SearchDestinationsFunc(ctx, query)
	}
	return f.Destinations, nil
}

func (f *Fake) SearchHotels(ctx context.Context, req models.HotelSearchRequest) (models.HotelSearch, error) {
	f.record(providers.EndpointSearchHotels)
	if f.SearchHotelsFunc != nil {
		return f.SearchHotelsFunc(ctx, req)
	}
	return f.Hotels, nil
}

func (f *Fake) HotelDetails(ctx context.Context, req providers.HotelDetailRequest) (models.HotelDetail, error) {
	f.record(providers.EndpointHotelDetails)
	if f.HotelDetailsFunc != nil {
		return f.HotelDetailsFunc(ctx, req)
	}
	return f.HotelDetail, nil
}

func (f *Fake) NearbyMap(ctx context.Context, cityID string, at models.Coordinates) (models.NearbyMap, error) {
	f.record(providers.EndpointNearbyMap)
	if f.NearbyMapFunc != nil {
		return f.NearbyMapFunc(ctx, cityID, at)
	}
	return f.Map, nil
}
