package session_fx

import (
	"go.uber.org/fx"

	"wayfarer/internal/api/controllers"
	"wayfarer/internal/repositories"
	"wayfarer/internal/services"
)

var Module = fx.Provide(
	provideSessionService,
	provideTripController)

func provideSessionService(
	sessionRepo repositories.SessionRepository,
	discovery services.DiscoveryServiceInterface,
	itinerary services.ItineraryServiceInterface,
	validator services.ValidatorServiceInterface,
) services.SessionServiceInterface {
	return services.NewSessionService(sessionRepo, discovery, itinerary, validator)
}

func provideTripController(sessionService services.SessionServiceInterface) *controllers.TripController {
	return controllers.NewTripController(sessionService)
}
