package utils

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/pgvector/pgvector-go"
	"google.golang.org/api/option"

	"wayfarer/internal/models/request_models"
)

// GeminiPlannerClient implements PlannerClientInterface using Google's
// Gemini models.
type GeminiPlannerClient struct {
	client *genai.Client
	model  string
}

func NewGeminiPlannerClient(apiKey, model string) (PlannerClientInterface, error) {
	if model == "" {
		model = "gemini-1.5-flash" // Free tier model
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiPlannerClient{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiPlannerClient) generateJSON(ctx context.Context, prompt string) (string, error) {
	m := c.client.GenerativeModel(c.model)
	// Force JSON-only output so brace-matching stays a safety net, not the
	// primary parse path.
	m.ResponseMIMEType = "application/json"
	m.SetTemperature(0.1)
	m.SetTopP(0.5)
	m.SetTopK(20)

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: no content")
	}

	content := cleanJSONResponse(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]))
	if !json.Valid([]byte(content)) {
		return "", fmt.Errorf("gemini: not valid json")
	}
	return content, nil
}

func (c *GeminiPlannerClient) ProposeDayGrouping(ctx context.Context, locations []request_models.LocationSummary, numDays int, style string, pairMinutes map[string]map[string]int) ([][]string, error) {
	if numDays < 1 || numDays > 14 {
		return nil, fmt.Errorf("bad numDays")
	}
	if len(locations) == 0 {
		return nil, fmt.Errorf("no locations")
	}

	content, err := c.generateJSON(ctx, buildGroupingPrompt(locations, numDays, style, pairMinutes))
	if err != nil {
		return nil, err
	}
	return parseGrouping(content)
}

func (c *GeminiPlannerClient) DiscoverLocations(ctx context.Context, prompt string) (string, error) {
	return c.generateJSON(ctx, prompt)
}

// GetEmbedding falls back to a hash-based vector since the Gemini free tier
// has no dedicated embedding endpoint.
func (c *GeminiPlannerClient) GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	return textToVector(text), nil
}
