package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"wayfarer/internal/models/db_models"
	"wayfarer/internal/models/request_models"
	"wayfarer/internal/models/response_models"
	"wayfarer/internal/repositories"
	"wayfarer/pkg/utils"
)

// DiscoveryServiceInterface finds candidate locations for a trip. Discovery
// never blocks a session: any provider failure degrades to whatever sources
// remain, possibly an empty suggestion list.
type DiscoveryServiceInterface interface {
	DiscoverLocations(ctx context.Context, params request_models.TripParameters) ([]response_models.Location, error)
}

type DiscoveryService struct {
	planner   utils.PlannerClientInterface          // nil when no planner provider is configured
	places    PlacesServiceInterface                // nil when no places key is configured
	placeRepo repositories.PlaceEmbeddingRepository // nil disables the embedding seed/cache
	tavily    *TavilyClient                         // nil when no Tavily key is configured
}

func NewDiscoveryService(
	planner utils.PlannerClientInterface,
	places PlacesServiceInterface,
	placeRepo repositories.PlaceEmbeddingRepository,
	tavily *TavilyClient,
) DiscoveryServiceInterface {
	return &DiscoveryService{
		planner:   planner,
		places:    places,
		placeRepo: placeRepo,
		tavily:    tavily,
	}
}

func (s *DiscoveryService) DiscoverLocations(ctx context.Context, params request_models.TripParameters) ([]response_models.Location, error) {
	target := params.TravelStyle.DiscoveryTarget(params.NumDays)

	var placeResults []PlaceResult
	if s.places != nil {
		results, err := s.places.TextSearch(ctx, "top attractions", params.Destination)
		if err != nil {
			log.Printf("Places search failed during discovery: %v", err)
		} else {
			placeResults = results
		}
	}

	if s.planner == nil {
		return s.locationsFromPlaces(placeResults, target), nil
	}

	prompt := s.buildDiscoveryPrompt(ctx, params, target, placeResults)
	raw, err := s.planner.DiscoverLocations(ctx, prompt)
	if err != nil {
		log.Printf("Planner discovery failed, falling back to place search results: %v", err)
		return s.locationsFromPlaces(placeResults, target), nil
	}

	locations := parseDiscoveredLocations(raw, target)
	if len(locations) == 0 {
		log.Printf("Planner discovery returned no usable locations, falling back to place search results")
		return s.locationsFromPlaces(placeResults, target), nil
	}

	s.cacheDiscoveredPlaces(ctx, params.Destination, locations)
	return locations, nil
}

func (s *DiscoveryService) buildDiscoveryPrompt(ctx context.Context, params request_models.TripParameters, target int, placeResults []PlaceResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a travel expert. Find %d great locations for a %d-day trip to %s.\n", target, params.NumDays, params.Destination)
	fmt.Fprintf(&b, "Travel style: %s.\n", params.TravelStyle)
	if len(params.Interests) > 0 {
		fmt.Fprintf(&b, "Interests: %s.\n", strings.Join(params.Interests, ", "))
	}
	if len(params.Constraints) > 0 {
		fmt.Fprintf(&b, "Constraints: %s.\n", strings.Join(params.Constraints, ", "))
	}
	if params.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s.\n", params.Notes)
	}

	if seeds := s.seedFromCache(ctx, params); len(seeds) > 0 {
		b.WriteString("\nPlaces that matched similar interests before (consider including):\n")
		for _, seed := range seeds {
			fmt.Fprintf(&b, "- %s\n", seed)
		}
	}
	if len(placeResults) > 0 {
		b.WriteString("\nVerified places with exact coordinates (prefer these coordinates):\n")
		for i, p := range placeResults {
			if i >= 10 {
				break
			}
			fmt.Fprintf(&b, "- %s | place_id:%s | %.5f,%.5f\n", p.Name, p.PlaceID, p.Lat, p.Lng)
		}
	}
	if s.tavily != nil {
		if summary, err := s.tavily.Search(ctx, fmt.Sprintf("best things to do in %s", params.Destination)); err == nil && summary != "" {
			b.WriteString("\nWeb research:\n")
			b.WriteString(summary)
			b.WriteString("\n")
		}
	}

	b.WriteString("\nReturn ONLY a JSON array in this exact format:\n")
	b.WriteString(`[{"name":"Location Name","lat":48.8584,"lng":2.2945,"why_this_fits_you":"one sentence","place_id":"optional"}]`)
	return b.String()
}

func (s *DiscoveryService) seedFromCache(ctx context.Context, params request_models.TripParameters) []string {
	if s.placeRepo == nil {
		return nil
	}
	vector, err := s.planner.GetEmbedding(ctx, strings.Join(append([]string{params.Destination}, params.Interests...), " "))
	if err != nil {
		return nil
	}
	cached, err := s.placeRepo.ListNearestByVector(ctx, params.Destination, vector, 10)
	if err != nil {
		log.Printf("Place embedding lookup failed: %v", err)
		return nil
	}
	seeds := make([]string, 0, len(cached))
	for _, place := range cached {
		seeds = append(seeds, place.Name)
	}
	return seeds
}

func (s *DiscoveryService) cacheDiscoveredPlaces(ctx context.Context, destination string, locations []response_models.Location) {
	if s.placeRepo == nil {
		return
	}
	for _, loc := range locations {
		vector, err := s.planner.GetEmbedding(ctx, loc.Name+" "+loc.WhyThisFitsYou)
		if err != nil {
			continue
		}
		placeID := loc.ID
		if loc.PlaceID != nil && *loc.PlaceID != "" {
			placeID = *loc.PlaceID
		}
		place := db_models.PlaceEmbedding{
			PlaceID:     placeID,
			Name:        loc.Name,
			Destination: destination,
			Lat:         loc.Lat,
			Lng:         loc.Lng,
			Summary:     loc.WhyThisFitsYou,
			Embedding:   vector,
		}
		if err := s.placeRepo.UpsertPlace(ctx, place); err != nil {
			log.Printf("Caching discovered place %q failed: %v", loc.Name, err)
		}
	}
}

func (s *DiscoveryService) locationsFromPlaces(placeResults []PlaceResult, target int) []response_models.Location {
	locations := make([]response_models.Location, 0, target)
	for _, p := range placeResults {
		if len(locations) >= target {
			break
		}
		placeID := p.PlaceID
		locations = append(locations, response_models.Location{
			ID:             uuid.New().String(),
			Name:           p.Name,
			Lat:            p.Lat,
			Lng:            p.Lng,
			WhyThisFitsYou: "Popular spot near " + p.FormattedAddress,
			PlaceID:        &placeID,
		})
	}
	return locations
}

func parseDiscoveredLocations(raw string, target int) []response_models.Location {
	var parsed []struct {
		Name           string  `json:"name"`
		Lat            float64 `json:"lat"`
		Lng            float64 `json:"lng"`
		WhyThisFitsYou string  `json:"why_this_fits_you"`
		PlaceID        string  `json:"place_id"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		log.Printf("Discovery response parse failed: %v", err)
		return nil
	}

	locations := make([]response_models.Location, 0, len(parsed))
	for _, p := range parsed {
		if p.Name == "" || p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
			continue
		}
		loc := response_models.Location{
			ID:             uuid.New().String(),
			Name:           p.Name,
			Lat:            p.Lat,
			Lng:            p.Lng,
			WhyThisFitsYou: p.WhyThisFitsYou,
		}
		if p.PlaceID != "" {
			placeID := p.PlaceID
			loc.PlaceID = &placeID
		}
		locations = append(locations, loc)
		if len(locations) >= target {
			break
		}
	}
	return locations
}

// TavilyClient is a minimal client for the Tavily web-search API, used only
// to enrich the discovery prompt with current local tips.
type TavilyClient struct {
	http   *http.Client
	apiKey string
	url    string
}

// NewTavilyClient returns nil when TAVILY_API_KEY is unset.
func NewTavilyClient() *TavilyClient {
	key := os.Getenv("TAVILY_API_KEY")
	if key == "" {
		return nil
	}
	return &TavilyClient{
		http:   &http.Client{Timeout: 30 * time.Second},
		apiKey: key,
		url:    "https://api.tavily.com/search",
	}
}

func (c *TavilyClient) Search(ctx context.Context, query string) (string, error) {
	body, err := json.Marshal(map[string]interface{}{
		"api_key":        c.apiKey,
		"query":          query,
		"search_depth":   "advanced",
		"include_answer": true,
		"max_results":    5,
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("tavily http error: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("tavily bad status: %s", resp.Status)
	}

	var payload struct {
		Answer  string `json:"answer"`
		Results []struct {
			Title   string `json:"title"`
			Content string `json:"content"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}

	var parts []string
	if payload.Answer != "" {
		parts = append(parts, "Summary: "+payload.Answer)
	}
	for i, r := range payload.Results {
		if i >= 3 {
			break
		}
		content := r.Content
		if len(content) > 500 {
			content = content[:500]
		}
		parts = append(parts, fmt.Sprintf("- %s: %s", r.Title, content))
	}
	return strings.Join(parts, "\n"), nil
}
