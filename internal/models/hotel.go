package models

type Hotel struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Stars             int      `json:"stars"`
	Price             Price    `json:"price"`
	ReviewScore       float64  `json:"review_score"`
	ReviewCount       int      `json:"review_count"`
	ReviewLabel       string   `json:"review_label,omitempty"`
	Discounts         []string `json:"discounts,omitempty"`
	Amenities         []string `json:"amenities,omitempty"`
	AccommodationType string   `json:"accommodation_type,omitempty"`
	PopularWith       []string `json:"popular_with,omitempty"`
	Latitude          float64  `json:"latitude"`
	Longitude         float64  `json:"longitude"`
	ImageURL          string   `json:"image_url,omitempty"`
	Distance          string   `json:"distance,omitempty"`
}

type HotelSearch struct {
	Results []Hotel `json:"results"`
}

type HotelDetail struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Stars       int      `json:"stars"`
	Address     string   `json:"address"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	ReviewScore float64  `json:"review_score"`
	ReviewCount int      `json:"review_count"`
	Amenities   []string `json:"amenities,omitempty"`
	Images      []string `json:"images,omitempty"`
	CityID      string   `json:"city_id,omitempty"`
}

type PointOfInterest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Distance string `json:"distance"`
}

type NearbyMap struct {
	PointsOfInterest []PointOfInterest `json:"points_of_interest"`
	Transportation   []PointOfInterest `json:"transportation"`
}

type HotelOverview struct {
	Hotel  Hotel       `json:"hotel"`
	Detail HotelDetail `json:"detail"`
	Nearby *NearbyMap  `json:"nearby,omitempty"`
	// Warning is set when the nearby map could not be loaded.
	Warning string `json:"warning,omitempty"`
}
