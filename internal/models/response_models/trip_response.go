package response_models

import (
	"wayfarer/internal/models/request_models"
)

type StartTripResponse struct {
	ThreadID  string     `json:"thread_id"`
	Locations []Location `json:"locations"`
}

type GenerateItineraryResponse struct {
	Itinerary     *Itinerary `json:"itinerary"`
	RouteWarnings []string   `json:"route_warnings"`
}

// TripStateResponse reports where a planning session currently stands.
// Phase is one of "editing", "generating", "complete".
type TripStateResponse struct {
	ThreadID   string                         `json:"thread_id"`
	Phase      string                         `json:"phase"`
	TripParams *request_models.TripParameters `json:"trip_params,omitempty"`
	Locations  []Location                     `json:"locations"`
	Itinerary  *Itinerary                     `json:"itinerary,omitempty"`
}

type PlacePrediction struct {
	Name        string `json:"name"`
	PlaceID     string `json:"place_id"`
	Description string `json:"description"`
}

type PlaceAutocompleteResponse struct {
	Predictions []PlacePrediction `json:"predictions"`
}

type PlaceDetailsResponse struct {
	Name             string  `json:"name"`
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	PlaceID          string  `json:"place_id"`
	FormattedAddress string  `json:"formatted_address"`
}
