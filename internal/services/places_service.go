package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"wayfarer/internal/models/response_models"
)

type PlaceResult struct {
	Name             string
	PlaceID          string
	FormattedAddress string
	Lat              float64
	Lng              float64
	Rating           float64
	Types            []string
}

// PlacesServiceInterface is the place-search collaborator, used during
// discovery and by the autocomplete/details proxy endpoints that keep the
// API key server-side.
type PlacesServiceInterface interface {
	Autocomplete(ctx context.Context, input string) ([]response_models.PlacePrediction, error)
	TextSearch(ctx context.Context, query, location string) ([]PlaceResult, error)
	Details(ctx context.Context, placeID string) (*response_models.PlaceDetailsResponse, error)
}

type GooglePlacesClient struct {
	http    *http.Client
	apiKey  string
	baseURL string
}

// NewGooglePlacesClient returns nil when GOOGLE_MAPS_API_KEY is unset.
func NewGooglePlacesClient() PlacesServiceInterface {
	key := os.Getenv("GOOGLE_MAPS_API_KEY")
	if key == "" {
		return nil
	}
	return &GooglePlacesClient{
		http:    &http.Client{Timeout: 10 * time.Second},
		apiKey:  key,
		baseURL: "https://maps.googleapis.com/maps/api",
	}
}

func (c *GooglePlacesClient) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	params.Set("key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("google places http error: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("google places bad status: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *GooglePlacesClient) Autocomplete(ctx context.Context, input string) ([]response_models.PlacePrediction, error) {
	params := url.Values{}
	params.Set("input", input)
	params.Set("types", "(regions)")

	var payload struct {
		Status      string `json:"status"`
		Predictions []struct {
			PlaceID              string `json:"place_id"`
			Description          string `json:"description"`
			StructuredFormatting struct {
				MainText string `json:"main_text"`
			} `json:"structured_formatting"`
		} `json:"predictions"`
	}
	if err := c.getJSON(ctx, "/place/autocomplete/json", params, &payload); err != nil {
		return nil, err
	}
	if payload.Status == "ZERO_RESULTS" {
		return []response_models.PlacePrediction{}, nil
	}
	if payload.Status != "OK" {
		return nil, fmt.Errorf("google places error: %s", payload.Status)
	}

	predictions := make([]response_models.PlacePrediction, 0, len(payload.Predictions))
	for _, p := range payload.Predictions {
		name := p.StructuredFormatting.MainText
		if name == "" {
			name = p.Description
		}
		predictions = append(predictions, response_models.PlacePrediction{
			Name:        name,
			PlaceID:     p.PlaceID,
			Description: p.Description,
		})
	}
	return predictions, nil
}

func (c *GooglePlacesClient) TextSearch(ctx context.Context, query, location string) ([]PlaceResult, error) {
	params := url.Values{}
	if location != "" {
		params.Set("query", fmt.Sprintf("%s in %s", query, location))
	} else {
		params.Set("query", query)
	}

	var payload struct {
		Status  string `json:"status"`
		Results []struct {
			Name             string   `json:"name"`
			PlaceID          string   `json:"place_id"`
			FormattedAddress string   `json:"formatted_address"`
			Rating           float64  `json:"rating"`
			Types            []string `json:"types"`
			Geometry         struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := c.getJSON(ctx, "/place/textsearch/json", params, &payload); err != nil {
		return nil, err
	}
	if payload.Status != "OK" && payload.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("google places error: %s", payload.Status)
	}

	results := make([]PlaceResult, 0, len(payload.Results))
	for _, r := range payload.Results {
		results = append(results, PlaceResult{
			Name:             r.Name,
			PlaceID:          r.PlaceID,
			FormattedAddress: r.FormattedAddress,
			Lat:              r.Geometry.Location.Lat,
			Lng:              r.Geometry.Location.Lng,
			Rating:           r.Rating,
			Types:            r.Types,
		})
	}
	return results, nil
}

func (c *GooglePlacesClient) Details(ctx context.Context, placeID string) (*response_models.PlaceDetailsResponse, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", "name,geometry,formatted_address")

	var payload struct {
		Status string `json:"status"`
		Result struct {
			Name             string `json:"name"`
			FormattedAddress string `json:"formatted_address"`
			Geometry         struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"result"`
	}
	if err := c.getJSON(ctx, "/place/details/json", params, &payload); err != nil {
		return nil, err
	}
	if payload.Status != "OK" {
		return nil, fmt.Errorf("google places error: %s", payload.Status)
	}

	return &response_models.PlaceDetailsResponse{
		Name:             payload.Result.Name,
		Lat:              payload.Result.Geometry.Location.Lat,
		Lng:              payload.Result.Geometry.Location.Lng,
		PlaceID:          placeID,
		FormattedAddress: payload.Result.FormattedAddress,
	}, nil
}
