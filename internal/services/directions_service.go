package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	gopolyline "github.com/twpayne/go-polyline"

	"wayfarer/pkg/memcache"
)

type RouteLeg struct {
	DurationSeconds int
	DistanceMeters  int
	Polyline        *string
}

type RouteResult struct {
	Legs             []RouteLeg
	OverviewPolyline *string
}

type MatrixElement struct {
	DurationSeconds int
	DistanceMeters  int
	OK              bool
}

// DirectionsService is the routing collaborator. Leg order always matches
// waypoint order. "No route" surfaces as an empty Legs slice or an error;
// the assembler treats both the same way.
type DirectionsService interface {
	GetDirections(ctx context.Context, origin, destination string, waypoints []string, mode string) (*RouteResult, error)
	DistanceMatrix(ctx context.Context, origins, destinations []string, mode string) ([][]MatrixElement, error)
}

// GoogleMapsClient talks to the Google Maps Directions and Distance Matrix
// APIs. The client and key are process-wide read-only configuration; all
// per-request state lives in the arguments.
type GoogleMapsClient struct {
	http     *http.Client
	apiKey   string
	baseURL  string
	cache    *memcache.RouteEdgeCache
	cacheTTL time.Duration
}

// NewGoogleMapsClient returns nil when GOOGLE_MAPS_API_KEY is unset; callers
// degrade to distance estimates in that case.
func NewGoogleMapsClient(cache *memcache.RouteEdgeCache) DirectionsService {
	key := os.Getenv("GOOGLE_MAPS_API_KEY")
	if key == "" {
		return nil
	}
	return &GoogleMapsClient{
		http:     &http.Client{Timeout: 15 * time.Second},
		apiKey:   key,
		baseURL:  "https://maps.googleapis.com/maps/api",
		cache:    cache,
		cacheTTL: 7 * 24 * time.Hour,
	}
}

func (c *GoogleMapsClient) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	params.Set("key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("google maps http error: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("google maps bad status: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *GoogleMapsClient) GetDirections(ctx context.Context, origin, destination string, waypoints []string, mode string) (*RouteResult, error) {
	params := url.Values{}
	params.Set("origin", origin)
	params.Set("destination", destination)
	params.Set("mode", mode)
	if len(waypoints) > 0 {
		params.Set("waypoints", strings.Join(waypoints, "|"))
	}

	var payload struct {
		Status string `json:"status"`
		Routes []struct {
			OverviewPolyline struct {
				Points string `json:"points"`
			} `json:"overview_polyline"`
			Legs []struct {
				Duration struct {
					Value int `json:"value"`
				} `json:"duration"`
				Distance struct {
					Value int `json:"value"`
				} `json:"distance"`
				Steps []directionsStep `json:"steps"`
			} `json:"legs"`
		} `json:"routes"`
	}
	if err := c.getJSON(ctx, "/directions/json", params, &payload); err != nil {
		return nil, err
	}
	if payload.Status == "ZERO_RESULTS" {
		return &RouteResult{Legs: []RouteLeg{}}, nil
	}
	if payload.Status != "OK" || len(payload.Routes) == 0 {
		return nil, fmt.Errorf("google directions error: %s", payload.Status)
	}

	route := payload.Routes[0]
	result := &RouteResult{Legs: make([]RouteLeg, 0, len(route.Legs))}
	if route.OverviewPolyline.Points != "" {
		p := route.OverviewPolyline.Points
		result.OverviewPolyline = &p
	}
	for _, leg := range route.Legs {
		result.Legs = append(result.Legs, RouteLeg{
			DurationSeconds: leg.Duration.Value,
			DistanceMeters:  leg.Distance.Value,
			Polyline:        combineStepPolylines(leg.Steps),
		})
	}
	return result, nil
}

type directionsStep struct {
	Polyline struct {
		Points string `json:"points"`
	} `json:"polyline"`
}

// combineStepPolylines decodes every step polyline of a leg and re-encodes
// them as one geometry, dropping the duplicated joint point between steps.
func combineStepPolylines(steps []directionsStep) *string {
	var all [][]float64
	for _, step := range steps {
		if step.Polyline.Points == "" {
			continue
		}
		coords, _, err := gopolyline.DecodeCoords([]byte(step.Polyline.Points))
		if err != nil {
			continue
		}
		if len(all) > 0 && len(coords) > 0 &&
			all[len(all)-1][0] == coords[0][0] && all[len(all)-1][1] == coords[0][1] {
			coords = coords[1:]
		}
		all = append(all, coords...)
	}
	if len(all) == 0 {
		return nil
	}
	encoded := string(gopolyline.EncodeCoords(all))
	return &encoded
}

func (c *GoogleMapsClient) DistanceMatrix(ctx context.Context, origins, destinations []string, mode string) ([][]MatrixElement, error) {
	matrix := make([][]MatrixElement, len(origins))
	for i := range matrix {
		matrix[i] = make([]MatrixElement, len(destinations))
	}

	needCall := false
	for i, from := range origins {
		for j, to := range destinations {
			if from == to {
				matrix[i][j] = MatrixElement{OK: true}
				continue
			}
			if edge, ok := c.cache.Get(memcache.EdgeKey{Mode: mode, From: from, To: to}); ok {
				matrix[i][j] = MatrixElement{DurationSeconds: edge.DurationSeconds, DistanceMeters: edge.DistanceMeters, OK: true}
			} else {
				needCall = true
			}
		}
	}
	if !needCall {
		return matrix, nil
	}

	params := url.Values{}
	params.Set("origins", strings.Join(origins, "|"))
	params.Set("destinations", strings.Join(destinations, "|"))
	params.Set("mode", mode)

	var payload struct {
		Status string `json:"status"`
		Rows   []struct {
			Elements []struct {
				Status   string `json:"status"`
				Duration struct {
					Value int `json:"value"`
				} `json:"duration"`
				Distance struct {
					Value int `json:"value"`
				} `json:"distance"`
			} `json:"elements"`
		} `json:"rows"`
	}
	if err := c.getJSON(ctx, "/distancematrix/json", params, &payload); err != nil {
		return nil, err
	}
	if payload.Status != "OK" {
		return nil, fmt.Errorf("google distance matrix error: %s", payload.Status)
	}

	for i, row := range payload.Rows {
		if i >= len(origins) {
			break
		}
		for j, elem := range row.Elements {
			if j >= len(destinations) {
				break
			}
			if elem.Status != "OK" {
				matrix[i][j] = MatrixElement{}
				continue
			}
			matrix[i][j] = MatrixElement{DurationSeconds: elem.Duration.Value, DistanceMeters: elem.Distance.Value, OK: true}
			if origins[i] != destinations[j] {
				c.cache.Set(
					memcache.EdgeKey{Mode: mode, From: origins[i], To: destinations[j]},
					memcache.Edge{DurationSeconds: elem.Duration.Value, DistanceMeters: elem.Distance.Value},
					c.cacheTTL,
				)
			}
		}
	}
	return matrix, nil
}
