package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dharmasatrya/travelsearch/internal/models"
	"github.com/dharmasatrya/travelsearch/internal/timezone"
	"github.com/dharmasatrya/travelsearch/pkg/currency"
)

const (
	EndpointSearchAirport  = "searchAirport"
	EndpointNearbyAirports = "getNearByAirports"
	EndpointSearchFlights  = "searchFlights"
	EndpointFlightDetails  = "getFlightDetails"
)

type rawPlace struct {
	SkyID        string `json:"skyId"`
	EntityID     string `json:"entityId"`
	Presentation struct {
		Title           string `json:"title"`
		SuggestionTitle string `json:"suggestionTitle"`
		Subtitle        string `json:"subtitle"`
	} `json:"presentation"`
	Navigation struct {
		EntityType    string `json:"entityType"`
		LocalizedName string `json:"localizedName"`
	} `json:"navigation"`
}

func (p rawPlace) toPlace() (models.Place, bool) {
	if p.SkyID == "" || p.EntityID == "" {
		return models.Place{}, false
	}

	label := p.Presentation.SuggestionTitle
	if label == "" {
		label = p.Presentation.Title
	}
	city := p.Navigation.LocalizedName
	if city == "" {
		city = p.Presentation.Title
	}

	return models.Place{
		Label:    label,
		Value:    p.SkyID,
		City:     city,
		Country:  p.Presentation.Subtitle,
		EntityID: p.EntityID,
		Type:     strings.ToLower(p.Navigation.EntityType),
	}, true
}

func toPlaces(raw []rawPlace) []models.Place {
	places := make([]models.Place, 0, len(raw))
	for _, r := range raw {
		if p, ok := r.toPlace(); ok {
			places = append(places, p)
		}
	}
	return places
}

func (c *RapidAPIClient) SearchAirport(ctx context.Context, query string) ([]models.Place, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("locale", c.cfg.Locale)

	var raw []rawPlace
	if err := c.get(ctx, EndpointSearchAirport, "/api/v1/flights/searchAirport", params, &raw); err != nil {
		return nil, err
	}

	return toPlaces(raw), nil
}

func (c *RapidAPIClient) NearbyAirports(ctx context.Context, at models.Coordinates) (NearbyAirports, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(at.Latitude, 'f', -1, 64))
	params.Set("lng", strconv.FormatFloat(at.Longitude, 'f', -1, 64))
	params.Set("locale", c.cfg.Locale)

	var raw struct {
		Current *rawPlace  `json:"current"`
		Nearby  []rawPlace `json:"nearby"`
	}
	if err := c.get(ctx, EndpointNearbyAirports, "/api/v1/flights/getNearByAirports", params, &raw); err != nil {
		return NearbyAirports{}, err
	}

	result := NearbyAirports{Nearby: toPlaces(raw.Nearby)}
	if raw.Current != nil {
		if p, ok := raw.Current.toPlace(); ok {
			result.Current = &p
		}
	}
	return result, nil
}

type rawAirport struct {
	ID          string `json:"id"`
	EntityID    string `json:"entityId"`
	Name        string `json:"name"`
	DisplayCode string `json:"displayCode"`
	City        string `json:"city"`
	Country     string `json:"country"`
}

func (a rawAirport) toAirport() models.Airport {
	code := a.ID
	if code == "" {
		code = a.DisplayCode
	}
	return models.Airport{
		Code:     code,
		EntityID: a.EntityID,
		Name:     a.Name,
		City:     a.City,
		Country:  a.Country,
	}
}

type rawCarrier struct {
	AlternateID string `json:"alternateId"`
	DisplayCode string `json:"displayCode"`
	LogoURL     string `json:"logoUrl"`
	Logo        string `json:"logo"`
	Name        string `json:"name"`
}

func (r rawCarrier) toCarrier() models.Carrier {
	code := r.AlternateID
	if code == "" {
		code = r.DisplayCode
	}
	logo := r.LogoURL
	if logo == "" {
		logo = r.Logo
	}
	return models.Carrier{Name: r.Name, Code: code, LogoURL: logo}
}

type rawLeg struct {
	ID                string     `json:"id"`
	Origin            rawAirport `json:"origin"`
	Destination       rawAirport `json:"destination"`
	DurationInMinutes int        `json:"durationInMinutes"`
	StopCount         int        `json:"stopCount"`
	Departure         string     `json:"departure"`
	Arrival           string     `json:"arrival"`
	Carriers          struct {
		Marketing []rawCarrier `json:"marketing"`
	} `json:"carriers"`
}

type rawItinerary struct {
	ID    string `json:"id"`
	Price struct {
		Raw       float64 `json:"raw"`
		Formatted string  `json:"formatted"`
	} `json:"price"`
	Legs       []rawLeg `json:"legs"`
	FarePolicy struct {
		IsChangeAllowed       bool `json:"isChangeAllowed"`
		IsPartiallyChangeable bool `json:"isPartiallyChangeable"`
		IsCancellationAllowed bool `json:"isCancellationAllowed"`
		IsPartiallyRefundable bool `json:"isPartiallyRefundable"`
	} `json:"farePolicy"`
	Tags []string `json:"tags"`
}

func (c *RapidAPIClient) normalizeItinerary(r rawItinerary) (models.Itinerary, error) {
	if r.ID == "" {
		return models.Itinerary{}, errors.New("missing id")
	}
	if len(r.Legs) == 0 {
		return models.Itinerary{}, errors.New("no legs")
	}

	legs := make([]models.Leg, len(r.Legs))
	for i, l := range r.Legs {
		if l.DurationInMinutes < 0 || l.StopCount < 0 {
			return models.Itinerary{}, fmt.Errorf("leg %d: negative duration or stop count", i)
		}
		dep, err := timezone.ParseTimestamp(l.Departure)
		if err != nil {
			return models.Itinerary{}, fmt.Errorf("leg %d departure: %w", i, err)
		}
		arr, err := timezone.ParseTimestamp(l.Arrival)
		if err != nil {
			return models.Itinerary{}, fmt.Errorf("leg %d arrival: %w", i, err)
		}

		var carrier models.Carrier
		if len(l.Carriers.Marketing) > 0 {
			carrier = l.Carriers.Marketing[0].toCarrier()
		}

		legs[i] = models.Leg{
			ID:              l.ID,
			Origin:          l.Origin.toAirport(),
			Destination:     l.Destination.toAirport(),
			DurationMinutes: l.DurationInMinutes,
			Stops:           l.StopCount,
			Departure:       dep,
			Arrival:         arr,
			Carrier:         carrier,
		}
	}

	formatted := r.Price.Formatted
	if formatted == "" {
		formatted = currency.Format(r.Price.Raw, c.cfg.Currency)
	}

	return models.Itinerary{
		ID:    r.ID,
		Price: models.Price{Amount: r.Price.Raw, Formatted: formatted},
		Legs:  legs,
		FarePolicy: models.FarePolicy{
			Refundable: r.FarePolicy.IsCancellationAllowed || r.FarePolicy.IsPartiallyRefundable,
			Changeable: r.FarePolicy.IsChangeAllowed || r.FarePolicy.IsPartiallyChangeable,
		},
		Tags: r.Tags,
	}, nil
}

func (c *RapidAPIClient) SearchFlights(ctx context.Context, req models.FlightSearchRequest) (models.FlightSearch, error) {
	params := url.Values{}
	params.Set("originSkyId", req.Origin.Value)
	params.Set("destinationSkyId", req.Destination.Value)
	params.Set("originEntityId", req.Origin.EntityID)
	params.Set("destinationEntityId", req.Destination.EntityID)
	params.Set("date", timezone.FormatAPIDate(req.DepartureDate))
	if req.ReturnDate != nil {
		params.Set("returnDate", timezone.FormatAPIDate(*req.ReturnDate))
	}
	params.Set("cabinClass", req.CabinClass)
	params.Set("adults", strconv.Itoa(req.Passengers.Adults))
	if req.Passengers.Children > 0 {
		params.Set("childrens", strconv.Itoa(req.Passengers.Children))
	}
	if req.Passengers.Infants > 0 {
		params.Set("infants", strconv.Itoa(req.Passengers.Infants))
	}
	params.Set("sortBy", "best")
	params.Set("currency", c.cfg.Currency)
	params.Set("market", c.cfg.Market)
	params.Set("countryCode", c.cfg.CountryCode)

	var raw struct {
		Context struct {
			Status    string `json:"status"`
			SessionID string `json:"sessionId"`
		} `json:"context"`
		Itineraries []rawItinerary `json:"itineraries"`
	}
	if err := c.get(ctx, EndpointSearchFlights, "/api/v2/flights/searchFlights", params, &raw); err != nil {
		return models.FlightSearch{}, err
	}

	result := models.FlightSearch{
		Results:   make([]models.Itinerary, 0, len(raw.Itineraries)),
		SessionID: raw.Context.SessionID,
		Complete:  raw.Context.Status == "complete",
	}
	for _, r := range raw.Itineraries {
		it, err := c.normalizeItinerary(r)
		if err != nil {
			c.log.WithFields(logrus.Fields{
				"itinerary": r.ID,
				"error":     err.Error(),
			}).Warn("dropping malformed itinerary")
			continue
		}
		result.Results = append(result.Results, it)
	}

	return result, nil
}

type rawSegment struct {
	FlightNumber     string     `json:"flightNumber"`
	Origin           rawAirport `json:"origin"`
	Destination      rawAirport `json:"destination"`
	Duration         int        `json:"duration"`
	Departure        string     `json:"departure"`
	Arrival          string     `json:"arrival"`
	MarketingCarrier rawCarrier `json:"marketingCarrier"`
	OperatingCarrier rawCarrier `json:"operatingCarrier"`
}

type rawDetailLeg struct {
	ID          string       `json:"id"`
	Origin      rawAirport   `json:"origin"`
	Destination rawAirport   `json:"destination"`
	Duration    int          `json:"duration"`
	StopCount   int          `json:"stopCount"`
	Departure   string       `json:"departure"`
	Arrival     string       `json:"arrival"`
	Segments    []rawSegment `json:"segments"`
}

type rawAgent struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	IsCarrier bool    `json:"isCarrier"`
	URL       string  `json:"url"`
	Price     float64 `json:"price"`
	Rating    struct {
		Value float64 `json:"value"`
		Count int     `json:"count"`
	} `json:"rating"`
}

func (c *RapidAPIClient) FlightDetails(ctx context.Context, req DetailRequest) (models.FlightDetail, error) {
	legs, err := json.Marshal(req.Legs)
	if err != nil {
		return models.FlightDetail{}, err
	}

	adults := req.Passengers.Adults
	if adults < 1 {
		adults = 1
	}

	params := url.Values{}
	params.Set("itineraryId", req.ItineraryID)
	params.Set("legs", string(legs))
	params.Set("sessionId", req.SessionID)
	params.Set("adults", strconv.Itoa(adults))
	if req.Passengers.Children > 0 {
		params.Set("children", strconv.Itoa(req.Passengers.Children))
	}
	if req.Passengers.Infants > 0 {
		params.Set("infants", strconv.Itoa(req.Passengers.Infants))
	}
	if req.CabinClass != "" {
		params.Set("cabinClass", req.CabinClass)
	}
	params.Set("currency", c.cfg.Currency)
	params.Set("locale", c.cfg.Locale)
	params.Set("market", c.cfg.Market)
	params.Set("countryCode", c.cfg.CountryCode)

	var raw struct {
		Itinerary struct {
			Legs           []rawDetailLeg `json:"legs"`
			PricingOptions []struct {
				TotalPrice float64    `json:"totalPrice"`
				Agents     []rawAgent `json:"agents"`
			} `json:"pricingOptions"`
			DestinationImage string `json:"destinationImage"`
		} `json:"itinerary"`
		PollingCompleted bool `json:"pollingCompleted"`
	}
	if err := c.get(ctx, EndpointFlightDetails, "/api/v1/flights/getFlightDetails", params, &raw); err != nil {
		return models.FlightDetail{}, err
	}
	if len(raw.Itinerary.Legs) == 0 {
		return models.FlightDetail{}, &ParseError{Endpoint: EndpointFlightDetails, Reason: "itinerary has no legs"}
	}

	detail := models.FlightDetail{
		ItineraryID:      req.ItineraryID,
		DestinationImage: raw.Itinerary.DestinationImage,
		PollingComplete:  raw.PollingCompleted,
	}

	for _, l := range raw.Itinerary.Legs {
		dl := models.DetailLeg{
			ID:              l.ID,
			Origin:          l.Origin.toAirport(),
			Destination:     l.Destination.toAirport(),
			DurationMinutes: l.Duration,
			Stops:           l.StopCount,
		}
		// Unparseable timestamps leave the zero time; the itinerary stays usable.
		dl.Departure, _ = timezone.ParseTimestamp(l.Departure)
		dl.Arrival, _ = timezone.ParseTimestamp(l.Arrival)

		for _, s := range l.Segments {
			seg := models.Segment{
				FlightNumber:    s.FlightNumber,
				Origin:          s.Origin.toAirport(),
				Destination:     s.Destination.toAirport(),
				DurationMinutes: s.Duration,
				Marketing:       s.MarketingCarrier.toCarrier(),
				Operating:       s.OperatingCarrier.toCarrier(),
			}
			seg.Departure, _ = timezone.ParseTimestamp(s.Departure)
			seg.Arrival, _ = timezone.ParseTimestamp(s.Arrival)
			dl.Segments = append(dl.Segments, seg)
		}
		detail.Legs = append(detail.Legs, dl)
	}

	for _, po := range raw.Itinerary.PricingOptions {
		opt := models.PricingOption{
			TotalPrice: po.TotalPrice,
			Formatted:  currency.Format(po.TotalPrice, c.cfg.Currency),
		}
		for _, a := range po.Agents {
			opt.Agents = append(opt.Agents, models.BookingAgent{
				ID:          a.ID,
				Name:        a.Name,
				IsCarrier:   a.IsCarrier,
				URL:         a.URL,
				Price:       a.Price,
				Rating:      a.Rating.Value,
				RatingCount: a.Rating.Count,
			})
		}
		detail.PricingOptions = append(detail.PricingOptions, opt)
	}

	return detail, nil
}

// DetailLegs derives the leg queries a detail lookup needs from a search result.
func DetailLegs(it models.Itinerary) []DetailLegQuery {
	legs := make([]DetailLegQuery, len(it.Legs))
	for i, l := range it.Legs {
		legs[i] = DetailLegQuery{
			Origin:      l.Origin.Code,
			Destination: l.Destination.Code,
			Date:        l.Departure.Format(timezone.APIDateLayout),
		}
	}
	return legs
}
