package models

import "time"

type Airport struct {
	Code     string `json:"code"`
	EntityID string `json:"entity_id"`
	Name     string `json:"name"`
	City     string `json:"city"`
	Country  string `json:"country"`
}

type Carrier struct {
	Name    string `json:"name"`
	Code    string `json:"code"`
	LogoURL string `json:"logo_url,omitempty"`
}

type Price struct {
	Amount    float64 `json:"amount"`
	Formatted string  `json:"formatted"`
}

type FarePolicy struct {
	Refundable bool `json:"refundable"`
	Changeable bool `json:"changeable"`
}

type Leg struct {
	ID              string    `json:"id"`
	Origin          Airport   `json:"origin"`
	Destination     Airport   `json:"destination"`
	DurationMinutes int       `json:"duration_minutes"`
	Stops           int       `json:"stops"`
	Departure       time.Time `json:"departure"`
	Arrival         time.Time `json:"arrival"`
	Carrier         Carrier   `json:"carrier"`
}

// Itinerary is one priced search result. Legs[0] is the outbound leg and
// Legs[1], when present, the return leg.
type Itinerary struct {
	ID         string     `json:"id"`
	Price      Price      `json:"price"`
	Legs       []Leg      `json:"legs"`
	FarePolicy FarePolicy `json:"fare_policy"`
	Tags       []string   `json:"tags,omitempty"`
}

func (it Itinerary) Outbound() Leg {
	return it.Legs[0]
}

func (it Itinerary) Return() (Leg, bool) {
	if len(it.Legs) < 2 {
		return Leg{}, false
	}
	return it.Legs[1], true
}

func (it Itinerary) MaxLegDuration() int {
	max := 0
	for _, l := range it.Legs {
		if l.DurationMinutes > max {
			max = l.DurationMinutes
		}
	}
	return max
}

// Place is an autocomplete option for airports, cities, or hotel destinations.
type Place struct {
	Label    string `json:"label" validate:"required"`
	Value    string `json:"value" validate:"required"`
	City     string `json:"city" validate:"required"`
	Country  string `json:"country" validate:"required"`
	EntityID string `json:"entity_id" validate:"required"`
	Type     string `json:"type,omitempty"`
}

type FlightSearch struct {
	Results   []Itinerary `json:"results"`
	SessionID string      `json:"session_id"`
	Complete  bool        `json:"complete"`
}

type Segment struct {
	FlightNumber    string    `json:"flight_number"`
	Origin          Airport   `json:"origin"`
	Destination     Airport   `json:"destination"`
	DurationMinutes int       `json:"duration_minutes"`
	Departure       time.Time `json:"departure"`
	Arrival         time.Time `json:"arrival"`
	Marketing       Carrier   `json:"marketing_carrier"`
	Operating       Carrier   `json:"operating_carrier"`
}

type DetailLeg struct {
	ID              string    `json:"id"`
	Origin          Airport   `json:"origin"`
	Destination     Airport   `json:"destination"`
	DurationMinutes int       `json:"duration_minutes"`
	Stops           int       `json:"stops"`
	Departure       time.Time `json:"departure"`
	Arrival         time.Time `json:"arrival"`
	Segments        []Segment `json:"segments"`
}

type BookingAgent struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	IsCarrier   bool    `json:"is_carrier"`
	URL         string  `json:"url"`
	Price       float64 `json:"price"`
	Rating      float64 `json:"rating"`
	RatingCount int     `json:"rating_count"`
}

type PricingOption struct {
	TotalPrice float64        `json:"total_price"`
	Formatted  string         `json:"formatted"`
	Agents     []BookingAgent `json:"agents"`
}

type FlightDetail struct {
	ItineraryID      string          `json:"itinerary_id"`
	Legs             []DetailLeg     `json:"legs"`
	PricingOptions   []PricingOption `json:"pricing_options"`
	DestinationImage string          `json:"destination_image,omitempty"`
	PollingComplete  bool            `json:"polling_complete"`
}
