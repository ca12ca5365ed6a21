package discovery_fx

import (
	"go.uber.org/fx"

	"wayfarer/internal/repositories"
	"wayfarer/internal/services"
	"wayfarer/pkg/utils"
)

var Module = fx.Provide(
	provideTavilyClient,
	provideDiscoveryService)

func provideTavilyClient() *services.TavilyClient {
	return services.NewTavilyClient()
}

func provideDiscoveryService(
	planner utils.PlannerClientInterface,
	places services.PlacesServiceInterface,
	placeRepo repositories.PlaceEmbeddingRepository,
	tavily *services.TavilyClient,
) services.DiscoveryServiceInterface {
	return services.NewDiscoveryService(planner, places, placeRepo, tavily)
}
