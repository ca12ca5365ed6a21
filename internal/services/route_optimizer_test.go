package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfarer/internal/models/response_models"
)

func lookupOf(locations ...response_models.Location) map[string]response_models.Location {
	m := make(map[string]response_models.Location, len(locations))
	for _, l := range locations {
		m[l.ID] = l
	}
	return m
}

func TestRouteOptimizer(t *testing.T) {
	opt := NewRouteOptimizer()

	t.Run("two or fewer stops are untouched", func(t *testing.T) {
		lookup := lookupOf(loc("a", 0, 0), loc("b", 1, 1))
		assert.Equal(t, []string{"a", "b"}, opt.Optimize([]string{"a", "b"}, lookup, nil))
		assert.Equal(t, []string{"a"}, opt.Optimize([]string{"a"}, lookup, nil))
		assert.Empty(t, opt.Optimize(nil, lookup, nil))
	})

	t.Run("nearest neighbor on haversine estimates", func(t *testing.T) {
		// b is far north, c is right next to a; greedy goes a, c, b.
		lookup := lookupOf(loc("a", 0, 0), loc("b", 1, 0), loc("c", 0.01, 0))
		got := opt.Optimize([]string{"a", "b", "c"}, lookup, nil)
		assert.Equal(t, []string{"a", "c", "b"}, got)
	})

	t.Run("known durations override estimates both ways", func(t *testing.T) {
		// Geographically b is closest to a, but a routed segment says the
		// far stop c is one minute away.
		lookup := lookupOf(loc("a", 0, 0), loc("b", 0.01, 0), loc("c", 1, 0))
		known := []response_models.TravelSegment{
			{FromLocationID: "c", ToLocationID: "a", DurationMinutes: 1},
		}
		got := opt.Optimize([]string{"a", "b", "c"}, lookup, known)
		assert.Equal(t, []string{"a", "c", "b"}, got)
	})

	t.Run("ties keep input order", func(t *testing.T) {
		// Identical coordinates make every pair cost zero.
		lookup := lookupOf(loc("a", 5, 5), loc("b", 5, 5), loc("c", 5, 5), loc("d", 5, 5))
		got := opt.Optimize([]string{"a", "b", "c", "d"}, lookup, nil)
		assert.Equal(t, []string{"a", "b", "c", "d"}, got)
	})

	t.Run("cost holes fall back to input order without dropping stops", func(t *testing.T) {
		// Only a is in the lookup, so no pair has a cost.
		lookup := lookupOf(loc("a", 0, 0))
		got := opt.Optimize([]string{"a", "b", "c", "d"}, lookup, nil)
		assert.Equal(t, []string{"a", "b", "c", "d"}, got)
	})

	t.Run("always a permutation of the input", func(t *testing.T) {
		lookup := lookupOf(
			loc("a", 48.8606, 2.3376),
			loc("b", 48.8584, 2.2945),
			loc("c", 48.8530, 2.3499),
			loc("d", 48.8867, 2.3431),
			loc("e", 48.8738, 2.2950),
		)
		got := opt.Optimize([]string{"a", "b", "c", "d", "e"}, lookup, nil)
		require.Len(t, got, 5)
		seen := make(map[string]bool)
		for _, id := range got {
			seen[id] = true
		}
		assert.Len(t, seen, 5)
		assert.Equal(t, "a", got[0])
	})
}
