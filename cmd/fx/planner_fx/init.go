package planner_fx

import (
	"fmt"
	"log"
	"os"
	"strings"

	"go.uber.org/fx"

	"wayfarer/internal/services"
	"wayfarer/pkg/utils"
)

var Module = fx.Provide(
	ProvidePlannerClient,
	provideGroupingProvider,
	provideClusterService,
	provideRouteOptimizer,
	provideValidatorService,
	provideItineraryService)

// PlannerConfig holds configuration for planner clients
type PlannerConfig struct {
	Provider string
	APIKey   string
	Model    string
}

// ProvidePlannerClient creates a planner client based on environment
// variables. A missing API key disables the planner instead of aborting;
// the rest of the service degrades to clustering and place search.
func ProvidePlannerClient() (utils.PlannerClientInterface, error) {
	config := getPlannerConfig()
	if config.APIKey == "" {
		log.Printf("No API key for planner provider %q, running without a planner", config.Provider)
		return nil, nil
	}

	log.Printf("Initializing %s planner client with model: %s", config.Provider, config.Model)

	switch strings.ToLower(config.Provider) {
	case "openai":
		return utils.NewOpenAIPlannerClient(config.APIKey, config.Model), nil
	case "gemini":
		client, err := utils.NewGeminiPlannerClient(config.APIKey, config.Model)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported planner provider: %s. Use 'openai' or 'gemini'", config.Provider)
	}
}

func provideGroupingProvider(planner utils.PlannerClientInterface) services.DayGroupingProvider {
	if planner == nil {
		return nil
	}
	return planner
}

func provideClusterService() services.ClusterServiceInterface {
	return services.NewClusterService()
}

func provideRouteOptimizer() services.RouteOptimizerInterface {
	return services.NewRouteOptimizer()
}

func provideValidatorService() services.ValidatorServiceInterface {
	return services.NewValidatorService()
}

func provideItineraryService(
	clusterer services.ClusterServiceInterface,
	optimizer services.RouteOptimizerInterface,
	directions services.DirectionsService,
	grouping services.DayGroupingProvider,
) services.ItineraryServiceInterface {
	return services.NewItineraryService(clusterer, optimizer, directions, grouping)
}

// getPlannerConfig reads configuration from environment variables
func getPlannerConfig() PlannerConfig {
	provider := getEnvWithDefault("PLANNER_PROVIDER", "gemini")

	var apiKey, model string

	switch strings.ToLower(provider) {
	case "openai":
		apiKey = os.Getenv("OPENAI_API_KEY")
		model = getEnvWithDefault("OPENAI_MODEL", "gpt-4o")
	case "gemini":
		apiKey = os.Getenv("GEMINI_API_KEY")
		model = getEnvWithDefault("GEMINI_MODEL", "gemini-1.5-flash")
	}

	return PlannerConfig{
		Provider: provider,
		APIKey:   apiKey,
		Model:    model,
	}
}

// getEnvWithDefault returns environment variable or default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
