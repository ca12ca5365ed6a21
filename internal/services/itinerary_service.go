package services

import (
	"context"
	"fmt"
	"log"
	"math"

	"wayfarer/internal/models/request_models"
	"wayfarer/internal/models/response_models"
	"wayfarer/pkg/utils"
)

// DayGroupingProvider proposes a day-to-locations split, typically backed by
// an LLM. A nil provider, an error, or a proposal that does not cover the
// exact location set all fall back to geographic clustering.
type DayGroupingProvider interface {
	ProposeDayGrouping(ctx context.Context, locations []request_models.LocationSummary, numDays int, style string, pairMinutes map[string]map[string]int) ([][]string, error)
}

// ItineraryServiceInterface is the single entry point outer layers call to
// turn a final location list into a day-by-day itinerary. It never errors
// for degraded runs; only structurally invalid input is fatal.
type ItineraryServiceInterface interface {
	GenerateItinerary(ctx context.Context, finalLocations []response_models.Location, numDays int, style request_models.TravelStyle) (*response_models.Itinerary, []string, error)
}

type ItineraryService struct {
	clusterer  ClusterServiceInterface
	optimizer  RouteOptimizerInterface
	directions DirectionsService   // nil when no routing credentials are configured
	grouping   DayGroupingProvider // nil when no planner provider is configured
}

func NewItineraryService(
	clusterer ClusterServiceInterface,
	optimizer RouteOptimizerInterface,
	directions DirectionsService,
	grouping DayGroupingProvider,
) ItineraryServiceInterface {
	return &ItineraryService{
		clusterer:  clusterer,
		optimizer:  optimizer,
		directions: directions,
		grouping:   grouping,
	}
}

func (s *ItineraryService) GenerateItinerary(ctx context.Context, finalLocations []response_models.Location, numDays int, style request_models.TravelStyle) (*response_models.Itinerary, []string, error) {
	if numDays <= 0 {
		return nil, nil, fmt.Errorf("%w: num_days must be positive", utils.ErrInvalidInput)
	}
	seen := make(map[string]bool, len(finalLocations))
	for _, loc := range finalLocations {
		if loc.ID == "" {
			return nil, nil, fmt.Errorf("%w: location %q has an empty id", utils.ErrInvalidInput, loc.Name)
		}
		if seen[loc.ID] {
			return nil, nil, fmt.Errorf("%w: duplicate location id %s", utils.ErrInvalidInput, loc.ID)
		}
		seen[loc.ID] = true
	}

	if len(finalLocations) == 0 {
		return &response_models.Itinerary{
			Days:            []response_models.DayPlan{},
			TotalLocations:  0,
			ValidationNotes: []string{"No locations provided"},
		}, nil, nil
	}

	lookup := make(map[string]response_models.Location, len(finalLocations))
	for _, loc := range finalLocations {
		lookup[loc.ID] = loc
	}

	// The clusterer grouping is always computed, so it is available the
	// moment the external proposal turns out missing or malformed.
	groups := s.clusterer.Cluster(finalLocations, numDays)
	if proposed := s.proposeGrouping(ctx, finalLocations, numDays, style, lookup); proposed != nil {
		groups = proposed
	}

	// Cap at numDays: surplus groups fold into the final day. Too few
	// groups pad with empty days, which validation flags later.
	if len(groups) > numDays {
		for _, extra := range groups[numDays:] {
			groups[numDays-1] = append(groups[numDays-1], extra...)
		}
		groups = groups[:numDays]
	}
	for len(groups) < numDays {
		groups = append(groups, []response_models.Location{})
	}

	var warnings []string
	if s.directions == nil {
		for _, group := range groups {
			if len(group) >= 2 {
				warnings = append(warnings, "Directions provider not configured, travel times are estimates")
				break
			}
		}
	}

	days := make([]response_models.DayPlan, 0, numDays)
	for i, group := range groups {
		days = append(days, s.assembleDay(ctx, i+1, group, lookup, &warnings))
	}

	return &response_models.Itinerary{
		Days:            days,
		TotalLocations:  len(finalLocations),
		ValidationNotes: []string{},
	}, warnings, nil
}

// proposeGrouping consults the external grouping provider and returns nil
// whenever its answer cannot be used as-is.
func (s *ItineraryService) proposeGrouping(ctx context.Context, locations []response_models.Location, numDays int, style request_models.TravelStyle, lookup map[string]response_models.Location) [][]response_models.Location {
	if s.grouping == nil {
		return nil
	}

	summaries := make([]request_models.LocationSummary, 0, len(locations))
	for _, loc := range locations {
		summaries = append(summaries, request_models.LocationSummary{ID: loc.ID, Name: loc.Name, Lat: loc.Lat, Lng: loc.Lng})
	}

	idGroups, err := s.grouping.ProposeDayGrouping(ctx, summaries, numDays, string(style), s.pairMinutes(ctx, locations))
	if err != nil {
		log.Printf("Day grouping proposal failed, using geographic clusters: %v", err)
		return nil
	}

	// The proposal must cover the exact id set, each id exactly once.
	used := make(map[string]bool, len(locations))
	groups := make([][]response_models.Location, 0, len(idGroups))
	for _, ids := range idGroups {
		group := make([]response_models.Location, 0, len(ids))
		for _, id := range ids {
			loc, known := lookup[id]
			if !known || used[id] {
				log.Printf("Day grouping proposal rejected: unknown or repeated id %s", id)
				return nil
			}
			used[id] = true
			group = append(group, loc)
		}
		if len(group) > 0 {
			groups = append(groups, group)
		}
	}
	if len(used) != len(locations) {
		log.Printf("Day grouping proposal rejected: %d of %d locations assigned", len(used), len(locations))
		return nil
	}
	return groups
}

// pairMinutes fetches a best-effort driving-time matrix to inform the
// grouping prompt. Any failure just means the prompt goes out without it.
func (s *ItineraryService) pairMinutes(ctx context.Context, locations []response_models.Location) map[string]map[string]int {
	if s.directions == nil || len(locations) < 2 {
		return nil
	}
	coords := make([]string, 0, len(locations))
	for _, loc := range locations {
		coords = append(coords, coordString(loc))
	}
	matrix, err := s.directions.DistanceMatrix(ctx, coords, coords, "driving")
	if err != nil {
		log.Printf("Distance matrix unavailable for grouping prompt: %v", err)
		return nil
	}
	minutes := make(map[string]map[string]int, len(locations))
	for i, from := range locations {
		row := make(map[string]int, len(locations))
		for j, to := range locations {
			if i == j || i >= len(matrix) || j >= len(matrix[i]) || !matrix[i][j].OK {
				continue
			}
			row[to.ID] = int(math.Round(float64(matrix[i][j].DurationSeconds) / 60))
		}
		minutes[from.ID] = row
	}
	return minutes
}

func (s *ItineraryService) assembleDay(ctx context.Context, dayNumber int, group []response_models.Location, lookup map[string]response_models.Location, warnings *[]string) response_models.DayPlan {
	day := response_models.DayPlan{
		DayNumber:   dayNumber,
		Locations:   group,
		TravelTimes: []response_models.TravelSegment{},
	}
	if len(group) > 0 {
		label := "Around " + group[0].Name
		day.AreaLabel = &label
	}
	if len(group) < 2 {
		return day
	}
	if s.directions == nil {
		day.TravelTimes = estimateSegments(group)
		return day
	}

	routed, err := s.routeDay(ctx, group)
	if err != nil || len(routed.Legs) != len(group)-1 {
		if err != nil {
			log.Printf("Routing failed for day %d: %v", dayNumber, err)
		}
		*warnings = append(*warnings, fmt.Sprintf("Day %d: routing unavailable, using distance estimates", dayNumber))
		day.TravelTimes = estimateSegments(group)
		return day
	}
	segments := segmentsFromLegs(group, routed.Legs)

	if len(group) >= 3 {
		order := make([]string, 0, len(group))
		for _, loc := range group {
			order = append(order, loc.ID)
		}
		optimized := s.optimizer.Optimize(order, lookup, segments)
		if !sameOrder(optimized, order) {
			reordered := make([]response_models.Location, 0, len(optimized))
			for _, id := range optimized {
				reordered = append(reordered, lookup[id])
			}
			rerouted, err := s.routeDay(ctx, reordered)
			if err == nil && len(rerouted.Legs) == len(reordered)-1 {
				day.Locations = reordered
				day.TravelTimes = segmentsFromLegs(reordered, rerouted.Legs)
				day.RouteOptimized = true
				return day
			}
			// Keep the pre-optimization order and segments; the optimized
			// order has no confirmed route.
			if err != nil {
				log.Printf("Re-routing optimized order failed for day %d: %v", dayNumber, err)
			}
			*warnings = append(*warnings, fmt.Sprintf("Day %d: optimized route could not be confirmed, keeping original order", dayNumber))
		}
	}

	day.TravelTimes = segments
	return day
}

func (s *ItineraryService) routeDay(ctx context.Context, stops []response_models.Location) (*RouteResult, error) {
	origin := coordString(stops[0])
	destination := coordString(stops[len(stops)-1])
	var waypoints []string
	for _, loc := range stops[1 : len(stops)-1] {
		waypoints = append(waypoints, coordString(loc))
	}
	return s.directions.GetDirections(ctx, origin, destination, waypoints, "driving")
}

func coordString(loc response_models.Location) string {
	return fmt.Sprintf("%f,%f", loc.Lat, loc.Lng)
}

func segmentsFromLegs(stops []response_models.Location, legs []RouteLeg) []response_models.TravelSegment {
	segments := make([]response_models.TravelSegment, 0, len(legs))
	for i, leg := range legs {
		segments = append(segments, response_models.TravelSegment{
			FromLocationID:  stops[i].ID,
			ToLocationID:    stops[i+1].ID,
			DurationMinutes: int(math.Round(float64(leg.DurationSeconds) / 60)),
			DistanceKm:      utils.RoundKm(float64(leg.DistanceMeters) / 1000),
			Polyline:        leg.Polyline,
		})
	}
	return segments
}

func estimateSegments(stops []response_models.Location) []response_models.TravelSegment {
	segments := make([]response_models.TravelSegment, 0, len(stops)-1)
	for i := 0; i+1 < len(stops); i++ {
		km := utils.HaversineKm(stops[i].Lat, stops[i].Lng, stops[i+1].Lat, stops[i+1].Lng)
		segments = append(segments, response_models.TravelSegment{
			FromLocationID:  stops[i].ID,
			ToLocationID:    stops[i+1].ID,
			DurationMinutes: utils.EstimatedMinutes(km),
			DistanceKm:      utils.RoundKm(km),
		})
	}
	return segments
}

func sameOrder(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
