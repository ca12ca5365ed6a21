package directions_fx

import (
	"go.uber.org/fx"

	"wayfarer/internal/api/controllers"
	"wayfarer/internal/services"
	"wayfarer/pkg/memcache"
)

var Module = fx.Provide(
	provideRouteCache,
	provideDirectionsService,
	providePlacesService,
	providePlacesController)

func provideRouteCache() *memcache.RouteEdgeCache {
	return memcache.NewRouteEdgeCache()
}

func provideDirectionsService(cache *memcache.RouteEdgeCache) services.DirectionsService {
	return services.NewGoogleMapsClient(cache)
}

func providePlacesService() services.PlacesServiceInterface {
	return services.NewGooglePlacesClient()
}

func providePlacesController(placesService services.PlacesServiceInterface) *controllers.PlacesController {
	return controllers.NewPlacesController(placesService)
}
