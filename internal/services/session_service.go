package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"wayfarer/internal/models/db_models"
	"wayfarer/internal/models/request_models"
	"wayfarer/internal/models/response_models"
	"wayfarer/internal/repositories"
	"wayfarer/pkg/utils"
)

// maxValidationErrors caps attempts across regenerations. Once a session has
// accumulated more than this many validation errors, generation gives up
// instead of burning provider quota on a list that cannot be scheduled.
const maxValidationErrors = 5

type SessionServiceInterface interface {
	StartTrip(ctx context.Context, req request_models.StartTripRequest) (*response_models.StartTripResponse, error)
	GenerateItinerary(ctx context.Context, threadID string, req request_models.GenerateItineraryRequest) (*response_models.GenerateItineraryResponse, error)
	GetTripState(ctx context.Context, threadID string) (*response_models.TripStateResponse, error)
}

type SessionService struct {
	sessionRepo repositories.SessionRepository
	discovery   DiscoveryServiceInterface
	itinerary   ItineraryServiceInterface
	validator   ValidatorServiceInterface
}

func NewSessionService(
	sessionRepo repositories.SessionRepository,
	discovery DiscoveryServiceInterface,
	itinerary ItineraryServiceInterface,
	validator ValidatorServiceInterface,
) SessionServiceInterface {
	return &SessionService{
		sessionRepo: sessionRepo,
		discovery:   discovery,
		itinerary:   itinerary,
		validator:   validator,
	}
}

// StartTrip opens a planning thread: persists the intake parameters, runs
// location discovery, and returns the draft suggestion list for editing.
func (s *SessionService) StartTrip(ctx context.Context, req request_models.StartTripRequest) (*response_models.StartTripResponse, error) {
	params := req.TripParams

	locations, err := s.discovery.DiscoverLocations(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%w: discovery failed: %v", utils.ErrPlannerError, err)
	}

	draft, err := json.Marshal(locations)
	if err != nil {
		return nil, err
	}

	session := &db_models.TripSession{
		Destination:    params.Destination,
		NumDays:        params.NumDays,
		TravelStyle:    string(params.TravelStyle),
		Interests:      params.Interests,
		Constraints:    params.Constraints,
		Notes:          params.Notes,
		Phase:          db_models.PhaseEditing,
		DraftLocations: draft,
	}
	if err := s.sessionRepo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	return &response_models.StartTripResponse{
		ThreadID:  session.ID.String(),
		Locations: locations,
	}, nil
}

// GenerateItinerary applies the caller's edits to the draft list, freezes the
// result as the final location set, and assembles an itinerary from it.
// Validation failures accumulate on the session; past the cap the session
// drops back to editing and the caller gets the collected errors.
func (s *SessionService) GenerateItinerary(ctx context.Context, threadID string, req request_models.GenerateItineraryRequest) (*response_models.GenerateItineraryResponse, error) {
	session, err := s.loadSession(ctx, threadID)
	if err != nil {
		return nil, err
	}

	finalLocations, err := applyEdits(session.DraftLocations, req.Edits)
	if err != nil {
		return nil, err
	}

	finalJSON, err := json.Marshal(finalLocations)
	if err != nil {
		return nil, err
	}
	session.FinalLocations = finalJSON
	session.Phase = db_models.PhaseGenerating
	if err := s.sessionRepo.UpdateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	params := sessionParams(session)
	for {
		itinerary, warnings, err := s.itinerary.GenerateItinerary(ctx, finalLocations, session.NumDays, params.TravelStyle)
		if err != nil {
			session.Phase = db_models.PhaseEditing
			if updateErr := s.sessionRepo.UpdateSession(ctx, session); updateErr != nil {
				log.Printf("Failed to persist session %s after generation error: %v", threadID, updateErr)
			}
			return nil, err
		}

		passed, issues, finalized := s.validator.Validate(itinerary, finalLocations, params)
		if passed {
			itineraryJSON, err := json.Marshal(finalized)
			if err != nil {
				return nil, err
			}
			session.FinalItinerary = itineraryJSON
			session.Phase = db_models.PhaseComplete
			if err := s.sessionRepo.UpdateSession(ctx, session); err != nil {
				return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
			}
			return &response_models.GenerateItineraryResponse{
				Itinerary:     finalized,
				RouteWarnings: warnings,
			}, nil
		}

		session.ValidationErrors = append(session.ValidationErrors, issues...)
		log.Printf("Itinerary validation failed for session %s (%d errors so far): %v", threadID, len(session.ValidationErrors), issues)
		if len(session.ValidationErrors) > maxValidationErrors {
			break
		}
	}

	session.Phase = db_models.PhaseEditing
	if err := s.sessionRepo.UpdateSession(ctx, session); err != nil {
		log.Printf("Failed to persist session %s after validation failure: %v", threadID, err)
	}
	return nil, fmt.Errorf("%w: %s", utils.ErrValidationFailed, strings.Join(session.ValidationErrors, "; "))
}

// GetTripState returns the current snapshot of a planning thread.
func (s *SessionService) GetTripState(ctx context.Context, threadID string) (*response_models.TripStateResponse, error) {
	session, err := s.loadSession(ctx, threadID)
	if err != nil {
		return nil, err
	}

	state := &response_models.TripStateResponse{
		ThreadID: session.ID.String(),
		Phase:    session.Phase,
	}
	params := sessionParams(session)
	state.TripParams = &params

	locationsJSON := session.FinalLocations
	if len(locationsJSON) == 0 {
		locationsJSON = session.DraftLocations
	}
	if len(locationsJSON) > 0 {
		if err := json.Unmarshal(locationsJSON, &state.Locations); err != nil {
			return nil, err
		}
	}
	if len(session.FinalItinerary) > 0 {
		var itinerary response_models.Itinerary
		if err := json.Unmarshal(session.FinalItinerary, &itinerary); err != nil {
			return nil, err
		}
		state.Itinerary = &itinerary
	}
	return state, nil
}

func (s *SessionService) loadSession(ctx context.Context, threadID string) (*db_models.TripSession, error) {
	id, err := uuid.Parse(threadID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed thread id %q", utils.ErrInvalidInput, threadID)
	}
	session, err := s.sessionRepo.GetSessionByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if session == nil {
		return nil, utils.ErrSessionNotFound
	}
	return session, nil
}

func sessionParams(session *db_models.TripSession) request_models.TripParameters {
	return request_models.TripParameters{
		Destination: session.Destination,
		NumDays:     session.NumDays,
		TravelStyle: request_models.TravelStyle(session.TravelStyle),
		Interests:   session.Interests,
		Constraints: session.Constraints,
		Notes:       session.Notes,
	}
}

// applyEdits removes and adds locations relative to the stored draft.
// User-added locations always carry UserAdded regardless of what the client
// sent, and get a fresh id when none was supplied.
func applyEdits(draft json.RawMessage, edits *request_models.LocationEditDiff) ([]response_models.Location, error) {
	var locations []response_models.Location
	if len(draft) > 0 {
		if err := json.Unmarshal(draft, &locations); err != nil {
			return nil, err
		}
	}
	if edits == nil {
		return locations, nil
	}

	removed := make(map[string]bool, len(edits.RemovedIDs))
	for _, id := range edits.RemovedIDs {
		removed[id] = true
	}
	kept := locations[:0]
	for _, loc := range locations {
		if !removed[loc.ID] {
			kept = append(kept, loc)
		}
	}

	for _, added := range edits.AddedLocations {
		id := added.ID
		if id == "" {
			id = uuid.New().String()
		}
		kept = append(kept, response_models.Location{
			ID:             id,
			Name:           added.Name,
			Lat:            added.Lat,
			Lng:            added.Lng,
			WhyThisFitsYou: added.WhyThisFitsYou,
			PlaceID:        added.PlaceID,
			UserAdded:      true,
			UserNote:       added.UserNote,
		})
	}
	return kept, nil
}
