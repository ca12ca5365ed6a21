package response_models

// Location is one candidate stop, either discovered by the planner or added
// by the user. IDs are unique within a planning session; once a location is
// placed into a day it is never mutated, only replaced on regeneration.
type Location struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
	WhyThisFitsYou string  `json:"why_this_fits_you"`
	PlaceID        *string `json:"place_id,omitempty"`
	UserAdded      bool    `json:"user_added"`
	UserNote       *string `json:"user_note,omitempty"`
}

// TravelSegment is one directed leg between two consecutive stops of a day.
// Polyline is present only when the leg came from the directions provider;
// estimated legs carry nil.
type TravelSegment struct {
	FromLocationID  string  `json:"from_location_id"`
	ToLocationID    string  `json:"to_location_id"`
	DurationMinutes int     `json:"duration_minutes"`
	DistanceKm      float64 `json:"distance_km"`
	Polyline        *string `json:"polyline,omitempty"`
}

// DayPlan holds one day's visit order. TravelTimes always has len(Locations)-1
// entries, or zero when the day has fewer than two stops.
type DayPlan struct {
	DayNumber      int             `json:"day_number"`
	Locations      []Location      `json:"locations"`
	TravelTimes    []TravelSegment `json:"travel_times"`
	RouteOptimized bool            `json:"route_optimized"`
	AreaLabel      *string         `json:"area_label,omitempty"`
}

// Itinerary is the full generated plan, days ascending by DayNumber.
type Itinerary struct {
	Days            []DayPlan `json:"days"`
	TotalLocations  int       `json:"total_locations"`
	ValidationNotes []string  `json:"validation_notes"`
}
