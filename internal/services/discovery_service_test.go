package services

import (
	"context"
	"errors"
	"testing"

	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfarer/internal/models/request_models"
	"wayfarer/internal/models/response_models"
)

type fakePlanner struct {
	discoverResponse string
	discoverErr      error
}

func (f *fakePlanner) ProposeDayGrouping(ctx context.Context, locations []request_models.LocationSummary, numDays int, style string, pairMinutes map[string]map[string]int) ([][]string, error) {
	return nil, errors.New("not used")
}

func (f *fakePlanner) DiscoverLocations(ctx context.Context, prompt string) (string, error) {
	return f.discoverResponse, f.discoverErr
}

func (f *fakePlanner) GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	return pgvector.NewVector(make([]float32, 1536)), nil
}

type fakePlaces struct {
	results []PlaceResult
}

func (f *fakePlaces) Autocomplete(ctx context.Context, input string) ([]response_models.PlacePrediction, error) {
	return nil, nil
}

func (f *fakePlaces) TextSearch(ctx context.Context, query, location string) ([]PlaceResult, error) {
	return f.results, nil
}

func (f *fakePlaces) Details(ctx context.Context, placeID string) (*response_models.PlaceDetailsResponse, error) {
	return nil, nil
}

func discoveryParams() request_models.TripParameters {
	return request_models.TripParameters{
		Destination: "Kyoto",
		NumDays:     3,
		TravelStyle: request_models.StyleBalanced,
		Interests:   []string{"temples", "gardens"},
	}
}

func TestParseDiscoveredLocations(t *testing.T) {
	t.Run("valid entries get fresh ids", func(t *testing.T) {
		raw := `[
			{"name":"Fushimi Inari","lat":34.9671,"lng":135.7727,"why_this_fits_you":"Iconic gates","place_id":"pid-1"},
			{"name":"Kinkaku-ji","lat":35.0394,"lng":135.7292,"why_this_fits_you":"Golden pavilion"}
		]`
		locations := parseDiscoveredLocations(raw, 10)
		require.Len(t, locations, 2)
		assert.NotEmpty(t, locations[0].ID)
		assert.NotEqual(t, locations[0].ID, locations[1].ID)
		assert.False(t, locations[0].UserAdded)
		require.NotNil(t, locations[0].PlaceID)
		assert.Equal(t, "pid-1", *locations[0].PlaceID)
		assert.Nil(t, locations[1].PlaceID)
	})

	t.Run("out-of-range coordinates and empty names are skipped", func(t *testing.T) {
		raw := `[
			{"name":"","lat":35.0,"lng":135.7},
			{"name":"Bad Lat","lat":91.0,"lng":135.7},
			{"name":"Bad Lng","lat":35.0,"lng":181.0},
			{"name":"Good","lat":35.0,"lng":135.7}
		]`
		locations := parseDiscoveredLocations(raw, 10)
		require.Len(t, locations, 1)
		assert.Equal(t, "Good", locations[0].Name)
	})

	t.Run("capped at target", func(t *testing.T) {
		raw := `[
			{"name":"One","lat":35.0,"lng":135.7},
			{"name":"Two","lat":35.1,"lng":135.8},
			{"name":"Three","lat":35.2,"lng":135.9}
		]`
		assert.Len(t, parseDiscoveredLocations(raw, 2), 2)
	})

	t.Run("garbage yields nothing", func(t *testing.T) {
		assert.Empty(t, parseDiscoveredLocations("not json at all", 10))
	})
}

func TestDiscoverLocations(t *testing.T) {
	t.Run("planner output wins", func(t *testing.T) {
		planner := &fakePlanner{discoverResponse: `[{"name":"Fushimi Inari","lat":34.9671,"lng":135.7727,"why_this_fits_you":"Iconic gates"}]`}
		svc := NewDiscoveryService(planner, nil, nil, nil)

		locations, err := svc.DiscoverLocations(context.Background(), discoveryParams())
		require.NoError(t, err)
		require.Len(t, locations, 1)
		assert.Equal(t, "Fushimi Inari", locations[0].Name)
	})

	t.Run("planner failure falls back to place search", func(t *testing.T) {
		planner := &fakePlanner{discoverErr: errors.New("quota exceeded")}
		places := &fakePlaces{results: []PlaceResult{
			{PlaceID: "pid-1", Name: "Nijo Castle", Lat: 35.0142, Lng: 135.7481, FormattedAddress: "Nakagyo Ward, Kyoto"},
		}}
		svc := NewDiscoveryService(planner, places, nil, nil)

		locations, err := svc.DiscoverLocations(context.Background(), discoveryParams())
		require.NoError(t, err)
		require.Len(t, locations, 1)
		assert.Equal(t, "Nijo Castle", locations[0].Name)
		require.NotNil(t, locations[0].PlaceID)
		assert.Equal(t, "pid-1", *locations[0].PlaceID)
	})

	t.Run("no providers at all returns an empty list", func(t *testing.T) {
		svc := NewDiscoveryService(nil, nil, nil, nil)
		locations, err := svc.DiscoverLocations(context.Background(), discoveryParams())
		require.NoError(t, err)
		assert.Empty(t, locations)
	})
}
