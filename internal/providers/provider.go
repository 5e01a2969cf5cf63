package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dharmasatrya/travelsearch/internal/models"
)

type FlightProvider interface {
	SearchAirport(ctx context.Context, query string) ([]models.Place, error)
	NearbyAirports(ctx context.Context, at models.Coordinates) (NearbyAirports, error)
	SearchFlights(ctx context.Context, req models.FlightSearchRequest) (models.FlightSearch, error)
	FlightDetails(ctx context.Context, req DetailRequest) (models.FlightDetail, error)
}

type HotelProvider interface {
	SearchDestinations(ctx context.Context, query string) ([]models.Place, error)
	SearchHotels(ctx context.Context, req models.HotelSearchRequest) (models.HotelSearch, error)
	HotelDetails(ctx context.Context, req HotelDetailRequest) (models.HotelDetail, error)
	NearbyMap(ctx context.Context, cityID string, at models.Coordinates) (models.NearbyMap, error)
}

type NearbyAirports struct {
	Current *models.Place
	Nearby  []models.Place
}

// DetailLegQuery identifies one leg of an itinerary for a detail lookup.
type DetailLegQuery struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Date        string `json:"date"`
}

type DetailRequest struct {
	ItineraryID string
	SessionID   string
	Legs        []DetailLegQuery
	Passengers  models.PassengerCounts
	CabinClass  string
}

type HotelDetailRequest struct {
	HotelID  string
	EntityID string
	CheckIn  string
	CheckOut string
	Adults   int
	Rooms    int
}

// ProviderError is a failed upstream call: a transport failure (StatusCode 0),
// a non-2xx response, or an envelope reporting status=false.
type ProviderError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return e.Endpoint + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Temporary reports whether retrying the call may succeed.
func (e *ProviderError) Temporary() bool {
	return e.StatusCode == 0 ||
		e.StatusCode == http.StatusTooManyRequests ||
		e.StatusCode >= http.StatusInternalServerError
}

func NewProviderError(endpoint string, statusCode int, err error) *ProviderError {
	return &ProviderError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Err:        err,
	}
}

// ParseError is an upstream response that does not have the expected shape.
type ParseError struct {
	Endpoint string
	Reason   string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: malformed response: %s: %v", e.Endpoint, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: malformed response: %s", e.Endpoint, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is a transient upstream failure. Parse
// errors, client errors and cancellations are final.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr.Temporary()
	}
	return false
}
