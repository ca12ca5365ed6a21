package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfarer/internal/models/request_models"
	"wayfarer/internal/models/response_models"
	"wayfarer/pkg/utils"
)

// fakeDirections serves canned routes. Every leg is 600 seconds and 5 km
// unless overridden, and origins listed in failOrigins error out.
type fakeDirections struct {
	failOrigins  map[string]bool
	failAfter    int // fail every call once this many calls have happened; 0 disables
	calls        int
	legDurations map[string][]int // origin -> per-leg seconds
}

func (f *fakeDirections) GetDirections(ctx context.Context, origin, destination string, waypoints []string, mode string) (*RouteResult, error) {
	f.calls++
	if f.failOrigins[origin] {
		return nil, errors.New("routing backend unavailable")
	}
	if f.failAfter > 0 && f.calls > f.failAfter {
		return nil, errors.New("routing backend unavailable")
	}
	numLegs := len(waypoints) + 1
	poly := "fake_polyline"
	legs := make([]RouteLeg, 0, numLegs)
	for i := 0; i < numLegs; i++ {
		duration := 600
		if durations, ok := f.legDurations[origin]; ok && i < len(durations) {
			duration = durations[i]
		}
		legs = append(legs, RouteLeg{DurationSeconds: duration, DistanceMeters: 5000, Polyline: &poly})
	}
	return &RouteResult{Legs: legs}, nil
}

func (f *fakeDirections) DistanceMatrix(ctx context.Context, origins, destinations []string, mode string) ([][]MatrixElement, error) {
	matrix := make([][]MatrixElement, len(origins))
	for i := range origins {
		matrix[i] = make([]MatrixElement, len(destinations))
		for j := range destinations {
			matrix[i][j] = MatrixElement{DurationSeconds: 600, DistanceMeters: 5000, OK: i != j}
		}
	}
	return matrix, nil
}

// fakeGrouping returns a fixed proposal or an error.
type fakeGrouping struct {
	groups [][]string
	err    error
}

func (f *fakeGrouping) ProposeDayGrouping(ctx context.Context, locations []request_models.LocationSummary, numDays int, style string, pairMinutes map[string]map[string]int) ([][]string, error) {
	return f.groups, f.err
}

func sixLocations() []response_models.Location {
	return []response_models.Location{
		loc("a", 48.8606, 2.3376),
		loc("b", 48.8584, 2.2945),
		loc("c", 48.8530, 2.3499),
		loc("d", 48.8867, 2.3431),
		loc("e", 48.8738, 2.2950),
		loc("f", 48.8462, 2.3372),
	}
}

func coveredIDs(itinerary *response_models.Itinerary) map[string]bool {
	ids := make(map[string]bool)
	for _, day := range itinerary.Days {
		for _, l := range day.Locations {
			ids[l.ID] = true
		}
	}
	return ids
}

func TestGenerateItinerary_InvalidInput(t *testing.T) {
	svc := NewItineraryService(NewClusterService(), NewRouteOptimizer(), nil, nil)

	t.Run("non-positive day count", func(t *testing.T) {
		_, _, err := svc.GenerateItinerary(context.Background(), sixLocations(), 0, request_models.StyleBalanced)
		assert.ErrorIs(t, err, utils.ErrInvalidInput)
	})

	t.Run("duplicate location id", func(t *testing.T) {
		locations := []response_models.Location{loc("a", 1, 1), loc("a", 2, 2)}
		_, _, err := svc.GenerateItinerary(context.Background(), locations, 1, request_models.StyleBalanced)
		assert.ErrorIs(t, err, utils.ErrInvalidInput)
	})

	t.Run("empty location id", func(t *testing.T) {
		locations := []response_models.Location{loc("", 1, 1)}
		_, _, err := svc.GenerateItinerary(context.Background(), locations, 1, request_models.StyleBalanced)
		assert.ErrorIs(t, err, utils.ErrInvalidInput)
	})
}

func TestGenerateItinerary_EmptyLocationList(t *testing.T) {
	svc := NewItineraryService(NewClusterService(), NewRouteOptimizer(), nil, nil)

	itinerary, warnings, err := svc.GenerateItinerary(context.Background(), nil, 3, request_models.StyleBalanced)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Empty(t, itinerary.Days)
	assert.Equal(t, 0, itinerary.TotalLocations)
	assert.Equal(t, []string{"No locations provided"}, itinerary.ValidationNotes)
}

func TestGenerateItinerary_NoProvidersUsesEstimates(t *testing.T) {
	svc := NewItineraryService(NewClusterService(), NewRouteOptimizer(), nil, nil)

	itinerary, warnings, err := svc.GenerateItinerary(context.Background(), sixLocations(), 3, request_models.StyleBalanced)
	require.NoError(t, err)
	require.NotNil(t, itinerary)

	require.Len(t, itinerary.Days, 3)
	assert.Len(t, coveredIDs(itinerary), 6)
	assert.Equal(t, 6, itinerary.TotalLocations)

	for _, day := range itinerary.Days {
		assert.NotEmpty(t, day.Locations)
		assert.False(t, day.RouteOptimized)
		require.Len(t, day.TravelTimes, len(day.Locations)-1)
		for _, seg := range day.TravelTimes {
			assert.Nil(t, seg.Polyline)
			assert.Greater(t, seg.DistanceKm, 0.0)
		}
	}

	// One aggregate warning no matter how many days needed estimating.
	require.Len(t, warnings, 1)
	assert.Equal(t, "Directions provider not configured, travel times are estimates", warnings[0])
}

func TestGenerateItinerary_SingleDayPair(t *testing.T) {
	directions := &fakeDirections{}
	svc := NewItineraryService(NewClusterService(), NewRouteOptimizer(), directions, nil)

	locations := []response_models.Location{loc("a", 48.8606, 2.3376), loc("b", 48.8584, 2.2945)}
	itinerary, warnings, err := svc.GenerateItinerary(context.Background(), locations, 1, request_models.StyleRelaxed)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	require.Len(t, itinerary.Days, 1)
	day := itinerary.Days[0]
	assert.False(t, day.RouteOptimized)
	require.Len(t, day.TravelTimes, 1)
	assert.Equal(t, 10, day.TravelTimes[0].DurationMinutes)
	assert.Equal(t, 5.0, day.TravelTimes[0].DistanceKm)
	require.NotNil(t, day.TravelTimes[0].Polyline)
}

func TestGenerateItinerary_PaddedDaysMarshalAsEmptyLists(t *testing.T) {
	svc := NewItineraryService(NewClusterService(), NewRouteOptimizer(), nil, nil)

	locations := []response_models.Location{loc("a", 48.8606, 2.3376), loc("b", 48.8584, 2.2945)}
	itinerary, _, err := svc.GenerateItinerary(context.Background(), locations, 3, request_models.StyleBalanced)
	require.NoError(t, err)
	require.Len(t, itinerary.Days, 3)

	padded := itinerary.Days[2]
	assert.Empty(t, padded.Locations)
	assert.NotNil(t, padded.Locations)
	assert.NotNil(t, padded.TravelTimes)

	encoded, err := json.Marshal(padded)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"locations":[]`)
	assert.NotContains(t, string(encoded), `"locations":null`)
}

func TestGenerateItinerary_SegmentsCarryProviderDurations(t *testing.T) {
	locations := []response_models.Location{loc("a", 48.8606, 2.3376), loc("b", 48.8584, 2.2945)}
	grouping := &fakeGrouping{groups: [][]string{{"a", "b"}}}
	origin := fmt.Sprintf("%f,%f", locations[0].Lat, locations[0].Lng)
	directions := &fakeDirections{legDurations: map[string][]int{origin: {330}}}
	svc := NewItineraryService(NewClusterService(), NewRouteOptimizer(), directions, grouping)

	itinerary, _, err := svc.GenerateItinerary(context.Background(), locations, 1, request_models.StyleRelaxed)
	require.NoError(t, err)
	require.Len(t, itinerary.Days, 1)
	require.Len(t, itinerary.Days[0].TravelTimes, 1)
	// 330 seconds rounds to 6 minutes.
	assert.Equal(t, 6, itinerary.Days[0].TravelTimes[0].DurationMinutes)
}

func TestGenerateItinerary_AdoptsValidGroupingProposal(t *testing.T) {
	grouping := &fakeGrouping{groups: [][]string{{"a", "d"}, {"b", "e"}, {"c", "f"}}}
	svc := NewItineraryService(NewClusterService(), NewRouteOptimizer(), nil, grouping)

	itinerary, _, err := svc.GenerateItinerary(context.Background(), sixLocations(), 3, request_models.StyleBalanced)
	require.NoError(t, err)
	require.Len(t, itinerary.Days, 3)
	assert.Equal(t, "a", itinerary.Days[0].Locations[0].ID)
	assert.Equal(t, "d", itinerary.Days[0].Locations[1].ID)
	assert.Equal(t, "b", itinerary.Days[1].Locations[0].ID)
	assert.Equal(t, "c", itinerary.Days[2].Locations[0].ID)
	require.NotNil(t, itinerary.Days[0].AreaLabel)
	assert.Equal(t, "Around Location a", *itinerary.Days[0].AreaLabel)
}

func TestGenerateItinerary_RejectsBadGroupingProposals(t *testing.T) {
	tests := []struct {
		name     string
		grouping *fakeGrouping
	}{
		{"provider error", &fakeGrouping{err: errors.New("model overloaded")}},
		{"unknown id", &fakeGrouping{groups: [][]string{{"a", "zz"}, {"b", "c"}, {"d", "e", "f"}}}},
		{"repeated id", &fakeGrouping{groups: [][]string{{"a", "a"}, {"b", "c"}, {"d", "e", "f"}}}},
		{"incomplete coverage", &fakeGrouping{groups: [][]string{{"a"}, {"b"}, {"c"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewItineraryService(NewClusterService(), NewRouteOptimizer(), nil, tt.grouping)
			itinerary, _, err := svc.GenerateItinerary(context.Background(), sixLocations(), 3, request_models.StyleBalanced)
			require.NoError(t, err)
			// Clustering fallback still covers everything.
			require.Len(t, itinerary.Days, 3)
			assert.Len(t, coveredIDs(itinerary), 6)
		})
	}
}

func TestGenerateItinerary_SurplusGroupsFoldIntoFinalDay(t *testing.T) {
	grouping := &fakeGrouping{groups: [][]string{{"a"}, {"b"}, {"c"}, {"d"}, {"e"}, {"f"}}}
	svc := NewItineraryService(NewClusterService(), NewRouteOptimizer(), nil, grouping)

	itinerary, _, err := svc.GenerateItinerary(context.Background(), sixLocations(), 2, request_models.StylePacked)
	require.NoError(t, err)
	require.Len(t, itinerary.Days, 2)
	assert.Len(t, itinerary.Days[0].Locations, 1)
	assert.Len(t, itinerary.Days[1].Locations, 5)
	assert.Len(t, coveredIDs(itinerary), 6)
}

func TestGenerateItinerary_OneDayRoutingFailureDegrades(t *testing.T) {
	locations := sixLocations()
	grouping := &fakeGrouping{groups: [][]string{{"a", "b"}, {"c", "d"}, {"e", "f"}}}
	// Day 2 starts at c; routing for it fails, the others succeed.
	directions := &fakeDirections{failOrigins: map[string]bool{
		fmt.Sprintf("%f,%f", locations[2].Lat, locations[2].Lng): true,
	}}
	svc := NewItineraryService(NewClusterService(), NewRouteOptimizer(), directions, grouping)

	itinerary, warnings, err := svc.GenerateItinerary(context.Background(), locations, 3, request_models.StyleBalanced)
	require.NoError(t, err)
	require.Len(t, itinerary.Days, 3)

	require.Len(t, warnings, 1)
	assert.Equal(t, "Day 2: routing unavailable, using distance estimates", warnings[0])

	require.Len(t, itinerary.Days[1].TravelTimes, 1)
	assert.Nil(t, itinerary.Days[1].TravelTimes[0].Polyline)
	require.Len(t, itinerary.Days[0].TravelTimes, 1)
	assert.NotNil(t, itinerary.Days[0].TravelTimes[0].Polyline)
}

func TestGenerateItinerary_OptimizedOrderIsRerouted(t *testing.T) {
	// Input order a, b, c with b far away and c adjacent to a: the first
	// routed legs make a->b->c expensive, so the optimizer flips to a, c, b.
	locations := []response_models.Location{
		loc("a", 0, 0),
		loc("b", 1, 0),
		loc("c", 0.001, 0),
	}
	grouping := &fakeGrouping{groups: [][]string{{"a", "b", "c"}}}

	t.Run("reroute succeeds and the day is marked optimized", func(t *testing.T) {
		directions := &fakeDirections{}
		svc := NewItineraryService(NewClusterService(), NewRouteOptimizer(), directions, grouping)

		itinerary, warnings, err := svc.GenerateItinerary(context.Background(), locations, 1, request_models.StylePacked)
		require.NoError(t, err)
		assert.Empty(t, warnings)

		day := itinerary.Days[0]
		assert.True(t, day.RouteOptimized)
		assert.Equal(t, []string{"a", "c", "b"}, []string{day.Locations[0].ID, day.Locations[1].ID, day.Locations[2].ID})
		require.Len(t, day.TravelTimes, 2)
		assert.Equal(t, "a", day.TravelTimes[0].FromLocationID)
		assert.Equal(t, "c", day.TravelTimes[0].ToLocationID)
	})

	t.Run("reroute failure keeps the original order", func(t *testing.T) {
		directions := &fakeDirections{failAfter: 1}
		svc := NewItineraryService(NewClusterService(), NewRouteOptimizer(), directions, grouping)

		itinerary, warnings, err := svc.GenerateItinerary(context.Background(), locations, 1, request_models.StylePacked)
		require.NoError(t, err)

		day := itinerary.Days[0]
		assert.False(t, day.RouteOptimized)
		assert.Equal(t, []string{"a", "b", "c"}, []string{day.Locations[0].ID, day.Locations[1].ID, day.Locations[2].ID})

		require.Len(t, warnings, 1)
		assert.True(t, strings.HasPrefix(warnings[0], "Day 1: optimized route could not be confirmed"))
	})
}
