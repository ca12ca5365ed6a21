package services

import (
	"fmt"

	"wayfarer/internal/models/request_models"
	"wayfarer/internal/models/response_models"
)

// ValidatorServiceInterface checks a generated itinerary against the trip
// parameters. All checks run independently and accumulate; only an
// incomplete itinerary blocks delivery.
type ValidatorServiceInterface interface {
	Validate(itinerary *response_models.Itinerary, finalLocations []response_models.Location, params request_models.TripParameters) (bool, []string, *response_models.Itinerary)
}

type ValidatorService struct{}

func NewValidatorService() ValidatorServiceInterface {
	return &ValidatorService{}
}

// Validate returns (passed, issues, finalized). Missing locations and a nil
// itinerary are the only critical failures: an imperfect-but-complete
// itinerary still ships, with the remaining issues attached as notes; an
// incomplete one does not ship at all.
func (v *ValidatorService) Validate(itinerary *response_models.Itinerary, finalLocations []response_models.Location, params request_models.TripParameters) (bool, []string, *response_models.Itinerary) {
	if itinerary == nil {
		return false, []string{"No itinerary was generated"}, nil
	}

	var issues []string
	days := itinerary.Days

	if len(days) != params.NumDays {
		issues = append(issues, fmt.Sprintf("Itinerary has %d days but trip is %d days", len(days), params.NumDays))
	}

	expected := make(map[string]bool, len(finalLocations))
	for _, loc := range finalLocations {
		expected[loc.ID] = true
	}
	actual := make(map[string]bool)
	for _, day := range days {
		for _, loc := range day.Locations {
			actual[loc.ID] = true
		}
	}

	missing := 0
	for id := range expected {
		if !actual[id] {
			missing++
		}
	}
	extra := 0
	for id := range actual {
		if !expected[id] {
			extra++
		}
	}
	if missing > 0 {
		issues = append(issues, fmt.Sprintf("Missing %d locations from itinerary", missing))
	}
	if extra > 0 {
		issues = append(issues, fmt.Sprintf("Itinerary contains %d locations not in final list", extra))
	}

	var emptyDays []int
	for i, day := range days {
		if len(day.Locations) == 0 {
			emptyDays = append(emptyDays, i+1)
		}
	}
	if len(emptyDays) > 0 {
		issues = append(issues, fmt.Sprintf("Days %v have no locations assigned", emptyDays))
	}

	styleMax := params.TravelStyle.MaxStopsPerDay()
	var overPacked []int
	for i, day := range days {
		if len(day.Locations) > styleMax {
			overPacked = append(overPacked, i+1)
		}
	}
	if len(overPacked) > 0 {
		issues = append(issues, fmt.Sprintf("Days %v exceed max locations for '%s' style (max %d)", overPacked, params.TravelStyle, styleMax))
	}

	if missing > 0 {
		return false, issues, nil
	}

	// Full copy down to the per-day slices: a finalized itinerary must never
	// write through to the generated one it was built from.
	finalized := *itinerary
	finalized.Days = make([]response_models.DayPlan, len(itinerary.Days))
	for i, day := range itinerary.Days {
		day.Locations = append([]response_models.Location{}, day.Locations...)
		day.TravelTimes = append([]response_models.TravelSegment{}, day.TravelTimes...)
		finalized.Days[i] = day
	}
	finalized.ValidationNotes = append(append([]string{}, itinerary.ValidationNotes...), issues...)
	return true, issues, &finalized
}
