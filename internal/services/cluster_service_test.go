package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfarer/internal/models/response_models"
)

func loc(id string, lat, lng float64) response_models.Location {
	return response_models.Location{ID: id, Name: "Location " + id, Lat: lat, Lng: lng}
}

func idsOf(groups [][]response_models.Location) map[string]bool {
	ids := make(map[string]bool)
	for _, group := range groups {
		for _, l := range group {
			ids[l.ID] = true
		}
	}
	return ids
}

func TestClusterService(t *testing.T) {
	svc := NewClusterService()

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, svc.Cluster(nil, 3))
	})

	t.Run("non-positive target puts everything in one group", func(t *testing.T) {
		locations := []response_models.Location{loc("a", 1, 1), loc("b", 2, 2)}
		groups := svc.Cluster(locations, 0)
		require.Len(t, groups, 1)
		assert.Len(t, groups[0], 2)
	})

	t.Run("fewer locations than days become singletons", func(t *testing.T) {
		locations := []response_models.Location{loc("a", 1, 1), loc("b", 2, 2)}
		groups := svc.Cluster(locations, 5)
		require.Len(t, groups, 2)
		for _, group := range groups {
			assert.Len(t, group, 1)
		}
	})

	t.Run("partitions without losing or duplicating locations", func(t *testing.T) {
		// Six Paris-ish points spread around a center.
		locations := []response_models.Location{
			loc("a", 48.8606, 2.3376),
			loc("b", 48.8584, 2.2945),
			loc("c", 48.8530, 2.3499),
			loc("d", 48.8867, 2.3431),
			loc("e", 48.8738, 2.2950),
			loc("f", 48.8462, 2.3372),
		}
		groups := svc.Cluster(locations, 3)

		require.Len(t, groups, 3)
		total := 0
		for _, group := range groups {
			assert.NotEmpty(t, group)
			total += len(group)
		}
		assert.Equal(t, len(locations), total)
		assert.Len(t, idsOf(groups), len(locations))
	})

	t.Run("all identical coordinates still split across days", func(t *testing.T) {
		var locations []response_models.Location
		for i := 0; i < 7; i++ {
			locations = append(locations, loc(fmt.Sprintf("p%d", i), 10.5, 20.5))
		}
		groups := svc.Cluster(locations, 2)

		require.Len(t, groups, 2)
		assert.Len(t, idsOf(groups), 7)
		for _, group := range groups {
			assert.NotEmpty(t, group)
		}
	})

	t.Run("deterministic for identical input", func(t *testing.T) {
		locations := []response_models.Location{
			loc("a", 48.8606, 2.3376),
			loc("b", 48.8584, 2.2945),
			loc("c", 48.8530, 2.3499),
			loc("d", 48.8867, 2.3431),
		}
		first := svc.Cluster(locations, 2)
		second := svc.Cluster(locations, 2)
		assert.Equal(t, first, second)
	})
}
