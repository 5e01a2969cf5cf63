package models

import "time"

const (
	TripOneWay    = "one_way"
	TripRoundTrip = "round_trip"
)

type PassengerCounts struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Infants  int `json:"infants"`
}

func (p PassengerCounts) Total() int {
	return p.Adults + p.Children + p.Infants
}

// FlightSearchForm is the raw flight form as submitted. Dates are YYYY-MM-DD.
type FlightSearchForm struct {
	TripType      string          `json:"trip_type" validate:"required,oneof=one_way round_trip"`
	Origin        *Place          `json:"origin" validate:"required"`
	Destination   *Place          `json:"destination" validate:"required"`
	DepartureDate string          `json:"departure_date"`
	ReturnDate    string          `json:"return_date,omitempty"`
	Passengers    PassengerCounts `json:"passengers"`
	CabinClass    string          `json:"cabin_class" validate:"required,oneof=economy premium_economy business first"`
}

type FlightSearchRequest struct {
	Origin        Place           `json:"origin"`
	Destination   Place           `json:"destination"`
	DepartureDate time.Time       `json:"departure_date"`
	ReturnDate    *time.Time      `json:"return_date,omitempty"`
	Passengers    PassengerCounts `json:"passengers"`
	CabinClass    string          `json:"cabin_class"`
}

func (r FlightSearchRequest) RoundTrip() bool {
	return r.ReturnDate != nil
}

type HotelSearchForm struct {
	Destination string `json:"destination" validate:"required"`
	EntityID    string `json:"entity_id" validate:"required"`
	CheckIn     string `json:"check_in"`
	CheckOut    string `json:"check_out"`
	Adults      int    `json:"adults" validate:"min=1"`
	Children    int    `json:"children" validate:"min=0"`
	Rooms       int    `json:"rooms" validate:"min=1,ltefield=Adults"`
}

type HotelSearchRequest struct {
	Destination string    `json:"destination"`
	EntityID    string    `json:"entity_id"`
	CheckIn     time.Time `json:"check_in"`
	CheckOut    time.Time `json:"check_out"`
	Adults      int       `json:"adults"`
	Children    int       `json:"children"`
	Rooms       int       `json:"rooms"`
}

func (r HotelSearchRequest) Nights() int {
	return int(r.CheckOut.Sub(r.CheckIn).Hours() / 24)
}

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
