package request_models

// TravelStyle is the pacing of a trip. The closed set maps to the stop
// budgets used during discovery and validation.
type TravelStyle string

const (
	StyleRelaxed  TravelStyle = "relaxed"
	StyleBalanced TravelStyle = "balanced"
	StylePacked   TravelStyle = "packed"
)

// MaxStopsPerDay is the pacing ceiling enforced by itinerary validation.
func (s TravelStyle) MaxStopsPerDay() int {
	switch s {
	case StyleRelaxed:
		return 4
	case StylePacked:
		return 7
	default:
		return 5
	}
}

func (s TravelStyle) locationsPerDay() float64 {
	switch s {
	case StyleRelaxed:
		return 2.5
	case StylePacked:
		return 4.5
	default:
		return 3.5
	}
}

// DiscoveryTarget is how many candidate locations discovery should aim for,
// clamped to a range that keeps the suggestion list reviewable.
func (s TravelStyle) DiscoveryTarget(numDays int) int {
	n := int(float64(numDays) * s.locationsPerDay())
	if n < 8 {
		n = 8
	}
	if n > 20 {
		n = 20
	}
	return n
}

type TripParameters struct {
	Destination string      `json:"destination" binding:"required"`
	NumDays     int         `json:"num_days" binding:"required,min=1,max=14"`
	TravelStyle TravelStyle `json:"travel_style" binding:"required,oneof=relaxed balanced packed"`
	Interests   []string    `json:"interests"`
	Constraints []string    `json:"constraints"`
	Notes       string      `json:"notes"`
}

type StartTripRequest struct {
	TripParams TripParameters `json:"trip_params" binding:"required"`
}

// NewLocation is a user-supplied location in an edit diff. A missing ID is
// minted server-side; UserAdded is always forced true.
type NewLocation struct {
	ID             string  `json:"id"`
	Name           string  `json:"name" binding:"required"`
	Lat            float64 `json:"lat" binding:"min=-90,max=90"`
	Lng            float64 `json:"lng" binding:"min=-180,max=180"`
	WhyThisFitsYou string  `json:"why_this_fits_you"`
	PlaceID        *string `json:"place_id"`
	UserNote       *string `json:"user_note"`
}

type LocationEditDiff struct {
	RemovedIDs     []string      `json:"removed_ids"`
	AddedLocations []NewLocation `json:"added_locations"`
}

type GenerateItineraryRequest struct {
	Edits *LocationEditDiff `json:"edits"`
}

// LocationSummary is the compact shape handed to planner providers.
type LocationSummary struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}
