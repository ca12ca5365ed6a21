package utils

import (
	"math"

	"github.com/golang/geo/s2"
)

// earthRadiusKm is the mean Earth radius used for great-circle distances.
const earthRadiusKm = 6371.0

// minutesPerKm approximates urban driving time when no routed duration is
// available. This is a deliberate simplification, not a calibrated model;
// real durations from the directions provider always take precedence.
const minutesPerKm = 2.0

// HaversineKm returns the great-circle distance in kilometers between two
// WGS84 coordinates. Out-of-range input is the caller's responsibility.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	if lat1 == lat2 && lng1 == lng2 {
		return 0
	}
	a := s2.LatLngFromDegrees(lat1, lng1)
	b := s2.LatLngFromDegrees(lat2, lng2)
	return a.Distance(b).Radians() * earthRadiusKm
}

// EstimatedMinutes converts a distance into a rough travel-time estimate.
func EstimatedMinutes(km float64) int {
	return int(math.Round(km * minutesPerKm))
}

// RoundKm rounds a distance to one decimal place for API output.
func RoundKm(km float64) float64 {
	return math.Round(km*10) / 10
}
