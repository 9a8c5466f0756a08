package handlers

import "github.com/vzahanych/weather-lookup/internal/weather"

// CoordinateParams binds lat/lon on /weather when no city is given.
type CoordinateParams struct {
	Lat *float64 `form:"lat" json:"lat"`
	Lon *float64 `form:"lon" json:"lon"`
}

// CoordinateQuery is validated once both coordinates are known.
type CoordinateQuery struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lon float64 `json:"lon" validate:"longitude"`
}

type SearchResponse struct {
	Suggestions []weather.CitySuggestion `json:"suggestions"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp,omitempty"`
}
