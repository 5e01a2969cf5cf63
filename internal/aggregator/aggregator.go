package aggregator

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dharmasatrya/travelsearch/internal/cache"
	"github.com/dharmasatrya/travelsearch/internal/models"
	"github.com/dharmasatrya/travelsearch/internal/providers"
	"github.com/dharmasatrya/travelsearch/internal/timezone"
)

const LocationUnavailableWarning = "Location unavailable, showing airports near the default location"

type Config struct {
	Timeout         time.Duration
	MaxRetries      int
	RetryDelays     []time.Duration
	DefaultLocation models.Coordinates
	Logger          logrus.FieldLogger
}

// Aggregator runs upstream calls with a timeout, retries and the shared
// response cache.
type Aggregator struct {
	flights providers.FlightProvider
	hotels  providers.HotelProvider
	cache   cache.Cache
	config  Config
	log     logrus.FieldLogger
}

func NewAggregator(flights providers.FlightProvider, hotels providers.HotelProvider, c cache.Cache, config Config) *Aggregator {
	if c == nil {
		c = cache.NewNoOpCache()
	}
	if config.Timeout <= 0 {
		config.Timeout = 20 * time.Second
	}
	logger := config.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Aggregator{
		flights: flights,
		hotels:  hotels,
		cache:   c,
		config:  config,
		log:     logger.WithField("component", "aggregator"),
	}
}

// SearchFlights returns the itineraries for req and whether they came from cache.
func (a *Aggregator) SearchFlights(ctx context.Context, req models.FlightSearchRequest) (models.FlightSearch, bool, error) {
	key := cache.Key("flight", req)

	var cached models.FlightSearch
	if a.cache.Get(ctx, key, &cached) {
		return cached, true, nil
	}

	searchCtx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	result, err := withRetry(searchCtx, a, providers.EndpointSearchFlights, func(ctx context.Context) (models.FlightSearch, error) {
		return a.flights.SearchFlights(ctx, req)
	})
	if err != nil {
		return models.FlightSearch{}, false, err
	}

	if err := a.cache.Set(ctx, key, result); err != nil {
		a.log.WithError(err).Warn("failed to cache flight search")
	}

	return result, false, nil
}

func (a *Aggregator) SearchHotels(ctx context.Context, req models.HotelSearchRequest) (models.HotelSearch, bool, error) {
	key := cache.Key("hotel", req)

	var cached models.HotelSearch
	if a.cache.Get(ctx, key, &cached) {
		return cached, true, nil
	}

	searchCtx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	result, err := withRetry(searchCtx, a, providers.EndpointSearchHotels, func(ctx context.Context) (models.HotelSearch, error) {
		return a.hotels.SearchHotels(ctx, req)
	})
	if err != nil {
		return models.HotelSearch{}, false, err
	}

	if err := a.cache.Set(ctx, key, result); err != nil {
		a.log.WithError(err).Warn("failed to cache hotel search")
	}

	return result, false, nil
}

// FlightDetail fetches the full detail of one itinerary from a previous search session.
func (a *Aggregator) FlightDetail(ctx context.Context, it models.Itinerary, sessionID string, req models.FlightSearchRequest) (models.FlightDetail, error) {
	detailCtx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	detailReq := providers.DetailRequest{
		ItineraryID: it.ID,
		SessionID:   sessionID,
		Legs:        providers.DetailLegs(it),
		Passengers:  req.Passengers,
		CabinClass:  req.CabinClass,
	}

	return withRetry(detailCtx, a, providers.EndpointFlightDetails, func(ctx context.Context) (models.FlightDetail, error) {
		return a.flights.FlightDetails(ctx, detailReq)
	})
}

// HotelOverview fetches hotel details and the nearby map concurrently. A
// failed map is reported as a warning, a failed detail call as an error.
func (a *Aggregator) HotelOverview(ctx context.Context, hotel models.Hotel, req models.HotelSearchRequest) (models.HotelOverview, error) {
	overviewCtx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	var (
		wg        sync.WaitGroup
		detail    models.HotelDetail
		detailErr error
		nearby    models.NearbyMap
		nearbyErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		detail, detailErr = withRetry(overviewCtx, a, providers.EndpointHotelDetails, func(ctx context.Context) (models.HotelDetail, error) {
			return a.hotels.HotelDetails(ctx, providers.HotelDetailRequest{
				HotelID:  hotel.ID,
				EntityID: req.EntityID,
				CheckIn:  timezone.FormatAPIDate(req.CheckIn),
				CheckOut: timezone.FormatAPIDate(req.CheckOut),
				Adults:   req.Adults,
				Rooms:    req.Rooms,
			})
		})
	}()
	go func() {
		defer wg.Done()
		nearby, nearbyErr = a.hotels.NearbyMap(overviewCtx, req.EntityID, models.Coordinates{
			Latitude:  hotel.Latitude,
			Longitude: hotel.Longitude,
		})
	}()
	wg.Wait()

	if detailErr != nil {
		return models.HotelOverview{}, detailErr
	}

	overview := models.HotelOverview{Hotel: hotel, Detail: detail}
	if nearbyErr != nil {
		a.log.WithFields(logrus.Fields{
			"hotel": hotel.ID,
			"error": nearbyErr.Error(),
		}).Warn("nearby map unavailable")
		overview.Warning = "Nearby places are unavailable right now"
	} else {
		overview.Nearby = &nearby
	}

	return overview, nil
}

// NearbyAirports lists airports around at. A nil location means geolocation
// was denied or unavailable; the default location is used instead.
func (a *Aggregator) NearbyAirports(ctx context.Context, at *models.Coordinates) (models.NearbyAirportsResponse, error) {
	resp := models.NearbyAirportsResponse{Nearby: []models.Place{}}

	location := a.config.DefaultLocation
	if at != nil {
		location = *at
	} else {
		resp.Fallback = true
		resp.Warning = LocationUnavailableWarning
	}

	nearbyCtx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	result, err := withRetry(nearbyCtx, a, providers.EndpointNearbyAirports, func(ctx context.Context) (providers.NearbyAirports, error) {
		return a.flights.NearbyAirports(ctx, location)
	})
	if err != nil {
		return resp, err
	}

	resp.Current = result.Current
	if result.Nearby != nil {
		resp.Nearby = result.Nearby
	}
	return resp, nil
}
