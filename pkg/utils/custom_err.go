package utils

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrSessionNotFound     = errors.New("trip session not found")
	ErrDatabaseError       = errors.New("database error")
	ErrPlannerError        = errors.New("planner provider error")
	ErrPlacesNotConfigured = errors.New("places provider not configured")
	ErrValidationFailed    = errors.New("itinerary validation failed")
)
