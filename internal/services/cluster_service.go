package services

import (
	"math"
	"sort"

	"wayfarer/internal/models/response_models"
	"wayfarer/pkg/utils"
)

// ClusterServiceInterface partitions candidate locations into day-sized
// groups. It is the guaranteed fallback grouping: always computed, never
// errors, degrades to coarser groupings instead.
type ClusterServiceInterface interface {
	Cluster(locations []response_models.Location, targetCount int) [][]response_models.Location
}

type ClusterService struct{}

func NewClusterService() ClusterServiceInterface {
	return &ClusterService{}
}

// Cluster slices locations into at most targetCount groups by angular
// position around their centroid. Contiguous angular sectors stand in for
// true k-means here: deterministic, O(n log n), no convergence loop, and
// good enough because nearby attractions cluster along the same bearing
// from the city center.
func (s *ClusterService) Cluster(locations []response_models.Location, targetCount int) [][]response_models.Location {
	if len(locations) == 0 {
		return nil
	}
	if targetCount <= 0 {
		return [][]response_models.Location{append([]response_models.Location{}, locations...)}
	}
	if len(locations) <= targetCount {
		groups := make([][]response_models.Location, 0, len(locations))
		for _, loc := range locations {
			groups = append(groups, []response_models.Location{loc})
		}
		return groups
	}

	var sumLat, sumLng float64
	for _, loc := range locations {
		sumLat += loc.Lat
		sumLng += loc.Lng
	}
	centLat := sumLat / float64(len(locations))
	centLng := sumLng / float64(len(locations))

	type polarPoint struct {
		loc    response_models.Location
		angle  float64
		fromKm float64
	}
	points := make([]polarPoint, 0, len(locations))
	for _, loc := range locations {
		points = append(points, polarPoint{
			loc:   loc,
			angle: math.Atan2(loc.Lng-centLng, loc.Lat-centLat),
			// Not used for grouping yet; kept for a density-aware split.
			fromKm: utils.HaversineKm(centLat, centLng, loc.Lat, loc.Lng),
		})
	}
	// Stable sort keeps input order for identical angles, which also covers
	// the degenerate all-same-coordinate case (every angle is zero).
	sort.SliceStable(points, func(i, j int) bool { return points[i].angle < points[j].angle })

	buckets := make([][]response_models.Location, targetCount)
	for i, p := range points {
		b := i * targetCount / len(points)
		buckets[b] = append(buckets[b], p.loc)
	}

	groups := make([][]response_models.Location, 0, targetCount)
	for _, bucket := range buckets {
		if len(bucket) > 0 {
			groups = append(groups, bucket)
		}
	}
	return groups
}
