package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/dharmasatrya/travelsearch/internal/models"
	"github.com/dharmasatrya/travelsearch/internal/timezone"
	"github.com/dharmasatrya/travelsearch/pkg/currency"
)

const (
	EndpointSearchDestinations = "searchDestinationOrHotel"
	EndpointSearchHotels       = "searchHotels"
	EndpointHotelDetails       = "getHotelDetails"
	EndpointNearbyMap          = "nearbyMap"
)

// flexFloat accepts a JSON number or a numeric string.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

type rawDestination struct {
	Hierarchy  string `json:"hierarchy"`
	EntityName string `json:"entityName"`
	EntityID   string `json:"entityId"`
	Class      string `json:"class"`
}

func (d rawDestination) toPlace() (models.Place, bool) {
	if d.EntityID == "" || d.EntityName == "" {
		return models.Place{}, false
	}

	parts := strings.Split(d.Hierarchy, "|")
	country := strings.TrimSpace(parts[len(parts)-1])
	city := d.EntityName
	if len(parts) > 1 && !strings.EqualFold(d.Class, "city") {
		city = strings.TrimSpace(parts[0])
	}

	return models.Place{
		Label:    d.EntityName,
		Value:    d.EntityID,
		City:     city,
		Country:  country,
		EntityID: d.EntityID,
		Type:     strings.ToLower(d.Class),
	}, true
}

func (c *RapidAPIClient) SearchDestinations(ctx context.Context, query string) ([]models.Place, error) {
	params := url.Values{}
	params.Set("query", query)

	var raw []rawDestination
	if err := c.get(ctx, EndpointSearchDestinations, "/api/v1/hotels/searchDestinationOrHotel", params, &raw); err != nil {
		return nil, err
	}

	places := make([]models.Place, 0, len(raw))
	for _, d := range raw {
		if p, ok := d.toPlace(); ok {
			places = append(places, p)
		}
	}
	return places, nil
}

type rawHotel struct {
	HotelID           string    `json:"hotelId"`
	Name              string    `json:"name"`
	Stars             int       `json:"stars"`
	HeroImage         string    `json:"heroImage"`
	Distance          string    `json:"distance"`
	Price             string    `json:"price"`
	RawPrice          flexFloat `json:"rawPrice"`
	Coordinates       []float64 `json:"coordinates"`
	Discounts         []string  `json:"discounts"`
	Amenities         []string  `json:"amenities"`
	AccommodationType string    `json:"accommodationType"`
	PopularWith       []string  `json:"popularWith"`
	Rating            *struct {
		Value       flexFloat `json:"value"`
		Count       int       `json:"count"`
		Description string    `json:"description"`
	} `json:"rating"`
}

func (c *RapidAPIClient) normalizeHotel(r rawHotel) (models.Hotel, error) {
	if r.HotelID == "" {
		return models.Hotel{}, errors.New("missing hotelId")
	}

	formatted := r.Price
	if formatted == "" {
		formatted = currency.Format(float64(r.RawPrice), c.cfg.Currency)
	}

	h := models.Hotel{
		ID:                r.HotelID,
		Name:              r.Name,
		Stars:             r.Stars,
		Price:             models.Price{Amount: float64(r.RawPrice), Formatted: formatted},
		Discounts:         r.Discounts,
		Amenities:         r.Amenities,
		AccommodationType: r.AccommodationType,
		PopularWith:       r.PopularWith,
		ImageURL:          r.HeroImage,
		Distance:          r.Distance,
	}
	// coordinates are [longitude, latitude]
	if len(r.Coordinates) == 2 {
		h.Longitude = r.Coordinates[0]
		h.Latitude = r.Coordinates[1]
	}
	if r.Rating != nil {
		h.ReviewScore = float64(r.Rating.Value)
		h.ReviewCount = r.Rating.Count
		h.ReviewLabel = r.Rating.Description
	}

	return h, nil
}

func (c *RapidAPIClient) SearchHotels(ctx context.Context, req models.HotelSearchRequest) (models.HotelSearch, error) {
	params := url.Values{}
	params.Set("entityId", req.EntityID)
	params.Set("checkin", timezone.FormatAPIDate(req.CheckIn))
	params.Set("checkout", timezone.FormatAPIDate(req.CheckOut))
	params.Set("adults", strconv.Itoa(req.Adults))
	params.Set("rooms", strconv.Itoa(req.Rooms))
	if req.Children > 0 {
		params.Set("children", strconv.Itoa(req.Children))
	}
	params.Set("currency", c.cfg.Currency)
	params.Set("market", c.cfg.Market)
	params.Set("countryCode", c.cfg.CountryCode)

	var raw struct {
		Hotels []rawHotel `json:"hotels"`
	}
	if err := c.get(ctx, EndpointSearchHotels, "/api/v1/hotels/searchHotels", params, &raw); err != nil {
		return models.HotelSearch{}, err
	}

	result := models.HotelSearch{Results: make([]models.Hotel, 0, len(raw.Hotels))}
	for _, r := range raw.Hotels {
		h, err := c.normalizeHotel(r)
		if err != nil {
			c.log.WithField("error", err.Error()).Warn("dropping malformed hotel")
			continue
		}
		result.Results = append(result.Results, h)
	}

	return result, nil
}

func (c *RapidAPIClient) HotelDetails(ctx context.Context, req HotelDetailRequest) (models.HotelDetail, error) {
	params := url.Values{}
	params.Set("hotelId", req.HotelID)
	params.Set("entityId", req.EntityID)
	if req.CheckIn != "" {
		params.Set("checkin", req.CheckIn)
	}
	if req.CheckOut != "" {
		params.Set("checkout", req.CheckOut)
	}
	if req.Adults > 0 {
		params.Set("adults", strconv.Itoa(req.Adults))
	}
	if req.Rooms > 0 {
		params.Set("rooms", strconv.Itoa(req.Rooms))
	}
	params.Set("currency", c.cfg.Currency)
	params.Set("market", c.cfg.Market)
	params.Set("countryCode", c.cfg.CountryCode)

	var raw struct {
		General struct {
			Name  string `json:"name"`
			Stars int    `json:"stars"`
		} `json:"general"`
		Location struct {
			Address     string `json:"address"`
			Coordinates struct {
				Lat flexFloat `json:"lat"`
				Lng flexFloat `json:"lng"`
			} `json:"coordinates"`
		} `json:"location"`
		Reviews struct {
			Rating flexFloat `json:"rating"`
			Count  int       `json:"count"`
		} `json:"reviews"`
		Amenities struct {
			Contents []struct {
				Description string `json:"description"`
			} `json:"contents"`
		} `json:"amenities"`
		Gallery struct {
			Images []struct {
				Dynamic string `json:"dynamic"`
			} `json:"images"`
		} `json:"gallery"`
		CityID string `json:"cityId"`
	}
	if err := c.get(ctx, EndpointHotelDetails, "/api/v1/hotels/getHotelDetails", params, &raw); err != nil {
		return models.HotelDetail{}, err
	}
	if raw.General.Name == "" {
		return models.HotelDetail{}, &ParseError{Endpoint: EndpointHotelDetails, Reason: "missing hotel name"}
	}

	detail := models.HotelDetail{
		ID:          req.HotelID,
		Name:        raw.General.Name,
		Stars:       raw.General.Stars,
		Address:     raw.Location.Address,
		Latitude:    float64(raw.Location.Coordinates.Lat),
		Longitude:   float64(raw.Location.Coordinates.Lng),
		ReviewScore: float64(raw.Reviews.Rating),
		ReviewCount: raw.Reviews.Count,
		CityID:      raw.CityID,
	}
	for _, a := range raw.Amenities.Contents {
		if a.Description != "" {
			detail.Amenities = append(detail.Amenities, a.Description)
		}
	}
	for _, img := range raw.Gallery.Images {
		if img.Dynamic != "" {
			detail.Images = append(detail.Images, img.Dynamic)
		}
	}

	return detail, nil
}

type rawPOI struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Distance string `json:"distance"`
}

func toPOIs(raw []rawPOI) []models.PointOfInterest {
	pois := make([]models.PointOfInterest, 0, len(raw))
	for _, p := range raw {
		if p.Name == "" {
			continue
		}
		pois = append(pois, models.PointOfInterest{Name: p.Name, Type: p.Type, Distance: p.Distance})
	}
	return pois
}

func (c *RapidAPIClient) NearbyMap(ctx context.Context, cityID string, at models.Coordinates) (models.NearbyMap, error) {
	params := url.Values{}
	params.Set("cityId", cityID)
	params.Set("latitude", strconv.FormatFloat(at.Latitude, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(at.Longitude, 'f', -1, 64))
	params.Set("currency", c.cfg.Currency)
	params.Set("market", c.cfg.Market)
	params.Set("countryCode", c.cfg.CountryCode)

	var raw struct {
		POIs            []rawPOI `json:"pois"`
		Transportations []rawPOI `json:"transportations"`
	}
	if err := c.get(ctx, EndpointNearbyMap, "/api/v1/hotels/nearbyMap", params, &raw); err != nil {
		return models.NearbyMap{}, err
	}

	return models.NearbyMap{
		PointsOfInterest: toPOIs(raw.POIs),
		Transportation:   toPOIs(raw.Transportations),
	}, nil
}
