package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wayfarer/internal/models/response_models"
	"wayfarer/internal/services"
	"wayfarer/pkg/utils"
)

type PlacesController struct {
	placesService services.PlacesServiceInterface
}

// NewPlacesController accepts a nil service; requests then fail with a
// configuration error instead of panicking.
func NewPlacesController(placesService services.PlacesServiceInterface) *PlacesController {
	return &PlacesController{
		placesService: placesService,
	}
}

// Autocomplete godoc
// @Summary Autocomplete destination names
// @Description Suggest destination regions matching the given input
// @Tags Places
// @Produce json
// @Param input query string true "Partial destination name"
// @Success 200 {object} response_models.PlaceAutocompleteResponse
// @Failure 503 {object} utils.APIResponse
// @Router /places/autocomplete [get]
func (p *PlacesController) Autocomplete(c *gin.Context) {
	input := c.Query("input")
	if input == "" {
		utils.RespondError(c, http.StatusBadRequest, "Query parameter 'input' is required")
		return
	}
	if p.placesService == nil {
		utils.HandleServiceError(c, utils.ErrPlacesNotConfigured)
		return
	}

	predictions, err := p.placesService.Autocomplete(c.Request.Context(), input)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.PlaceAutocompleteResponse{Predictions: predictions}, "Predictions fetched successfully")
}

// Details godoc
// @Summary Get place details
// @Description Fetch name, coordinates and address for a place ID
// @Tags Places
// @Produce json
// @Param place_id query string true "Google place ID"
// @Success 200 {object} response_models.PlaceDetailsResponse
// @Failure 503 {object} utils.APIResponse
// @Router /places/details [get]
func (p *PlacesController) Details(c *gin.Context) {
	placeID := c.Query("place_id")
	if placeID == "" {
		utils.RespondError(c, http.StatusBadRequest, "Query parameter 'place_id' is required")
		return
	}
	if p.placesService == nil {
		utils.HandleServiceError(c, utils.ErrPlacesNotConfigured)
		return
	}

	details, err := p.placesService.Details(c.Request.Context(), placeID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, details, "Place details fetched successfully")
}
