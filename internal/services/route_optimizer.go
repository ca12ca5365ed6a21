package services

import (
	"math"

	"wayfarer/internal/models/response_models"
	"wayfarer/pkg/utils"
)

// RouteOptimizerInterface reorders one day's stops to reduce total
// sequential travel time. The returned slice always holds the same id set
// as the input.
type RouteOptimizerInterface interface {
	Optimize(ids []string, lookup map[string]response_models.Location, known []response_models.TravelSegment) []string
}

type RouteOptimizer struct{}

func NewRouteOptimizer() RouteOptimizerInterface {
	return &RouteOptimizer{}
}

// Optimize runs a nearest-neighbor pass over a pairwise minute-cost table.
// Known routed durations are applied to both directions of their pair; every
// uncovered pair falls back to the haversine estimate, so an ordering is
// always computable with zero prior routing data. Starting from ids[0] and
// skipping 2-opt refinement is deliberate: days hold at most ~7 stops, so
// the heuristic's gap to optimal is not worth the extra calls.
func (o *RouteOptimizer) Optimize(ids []string, lookup map[string]response_models.Location, known []response_models.TravelSegment) []string {
	if len(ids) <= 2 {
		return ids
	}

	cost := make(map[string]map[string]float64, len(ids))
	for _, id := range ids {
		cost[id] = make(map[string]float64, len(ids))
	}
	for _, seg := range known {
		if _, ok := cost[seg.FromLocationID]; !ok {
			continue
		}
		if _, ok := cost[seg.ToLocationID]; !ok {
			continue
		}
		d := float64(seg.DurationMinutes)
		cost[seg.FromLocationID][seg.ToLocationID] = d
		cost[seg.ToLocationID][seg.FromLocationID] = d
	}
	for i, a := range ids {
		for _, b := range ids[i+1:] {
			if _, ok := cost[a][b]; ok {
				continue
			}
			from, okA := lookup[a]
			to, okB := lookup[b]
			if !okA || !okB {
				continue
			}
			est := float64(utils.EstimatedMinutes(utils.HaversineKm(from.Lat, from.Lng, to.Lat, to.Lng)))
			cost[a][b] = est
			cost[b][a] = est
		}
	}

	ordered := make([]string, 0, len(ids))
	visited := make(map[string]bool, len(ids))
	current := ids[0]
	ordered = append(ordered, current)
	visited[current] = true

	for len(ordered) < len(ids) {
		next := ""
		best := math.Inf(1)
		for _, candidate := range ids {
			if visited[candidate] {
				continue
			}
			c, ok := cost[current][candidate]
			if !ok {
				continue
			}
			// Strict less-than: the first candidate in input order wins ties.
			if c < best {
				best = c
				next = candidate
			}
		}
		if next == "" {
			// Cost table has a hole; keep the remaining stops in their
			// original relative order rather than failing the day.
			for _, candidate := range ids {
				if !visited[candidate] {
					ordered = append(ordered, candidate)
					visited[candidate] = true
				}
			}
			break
		}
		ordered = append(ordered, next)
		visited[next] = true
		current = next
	}
	return ordered
}
