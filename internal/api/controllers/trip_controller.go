package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"wayfarer/internal/models/request_models"
	"wayfarer/internal/services"
	"wayfarer/pkg/utils"
)

type TripController struct {
	sessionService services.SessionServiceInterface
}

func NewTripController(sessionService services.SessionServiceInterface) *TripController {
	return &TripController{
		sessionService: sessionService,
	}
}

// StartTrip godoc
// @Summary Start a trip planning session
// @Description Create a new planning thread and discover candidate locations for the given destination
// @Tags Trip
// @Accept json
// @Produce json
// @Param request body request_models.StartTripRequest true "Trip parameters"
// @Success 200 {object} response_models.StartTripResponse
// @Failure 400 {object} utils.APIResponse
// @Router /trip/start [post]
func (t *TripController) StartTrip(c *gin.Context) {

	var req request_models.StartTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid trip parameters: "+err.Error())
		return
	}

	resp, err := t.sessionService.StartTrip(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "Trip session started successfully")
}

// GenerateItinerary godoc
// @Summary Generate an itinerary for a session
// @Description Apply location edits and assemble a validated day-by-day itinerary
// @Tags Trip
// @Accept json
// @Produce json
// @Param threadId path string true "Thread ID"
// @Param request body request_models.GenerateItineraryRequest false "Optional location edits"
// @Success 200 {object} response_models.GenerateItineraryResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Router /trip/{threadId}/generate [post]
func (t *TripController) GenerateItinerary(c *gin.Context) {
	threadID := c.Param("threadId")
	if threadID == "" {
		utils.RespondError(c, http.StatusBadRequest, "Thread ID is required")
		return
	}

	// An empty body means "generate with the draft as-is".
	var req request_models.GenerateItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondError(c, http.StatusBadRequest, "Invalid edit payload: "+err.Error())
		return
	}

	resp, err := t.sessionService.GenerateItinerary(c.Request.Context(), threadID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "Itinerary generated successfully")
}

// GetTripState godoc
// @Summary Get the state of a trip session
// @Description Fetch the current phase, locations and itinerary of a planning thread
// @Tags Trip
// @Accept json
// @Produce json
// @Param threadId path string true "Thread ID"
// @Success 200 {object} response_models.TripStateResponse
// @Failure 404 {object} utils.APIResponse
// @Router /trip/{threadId} [get]
func (t *TripController) GetTripState(c *gin.Context) {
	threadID := c.Param("threadId")
	if threadID == "" {
		utils.RespondError(c, http.StatusBadRequest, "Thread ID is required")
		return
	}

	state, err := t.sessionService.GetTripState(c.Request.Context(), threadID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, state, "Trip state fetched successfully")
}
