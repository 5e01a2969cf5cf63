package models

type PageInfo struct {
	Page         int  `json:"page"`
	PageSize     int  `json:"page_size"`
	TotalPages   int  `json:"total_pages"`
	TotalResults int  `json:"total_results"`
	ShowControls bool `json:"show_controls"`
}

type FlightResultsResponse struct {
	SessionID string      `json:"session_id"`
	SortBy    string      `json:"sort_by"`
	Page      PageInfo    `json:"page"`
	Results   []Itinerary `json:"results"`
	Message   string      `json:"message,omitempty"`
}

type HotelResultsResponse struct {
	SessionID string   `json:"session_id"`
	SortBy    string   `json:"sort_by"`
	Page      PageInfo `json:"page"`
	Results   []Hotel  `json:"results"`
	Message   string   `json:"message,omitempty"`
}

type SuggestionsResponse struct {
	Query     string  `json:"query"`
	Options   []Place `json:"options"`
	FromCache bool    `json:"from_cache"`
}

type NearbyAirportsResponse struct {
	Current  *Place  `json:"current,omitempty"`
	Nearby   []Place `json:"nearby"`
	Fallback bool    `json:"fallback"`
	Warning  string  `json:"warning,omitempty"`
}

type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Code    int               `json:"code"`
	Fields  map[string]string `json:"fields,omitempty"`
}

const NoResultsMessage = "No results found, try adjusting your search criteria"
