package utils

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pgvector/pgvector-go"
	openai "github.com/sashabaranov/go-openai"

	"wayfarer/internal/models/request_models"
)

// OpenAIPlannerClient implements PlannerClientInterface using OpenAI chat
// completions and embeddings.
type OpenAIPlannerClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIPlannerClient(apiKey, model string) PlannerClientInterface {
	if model == "" {
		model = openai.GPT4o
	}
	return &OpenAIPlannerClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (c *OpenAIPlannerClient) complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.3,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices")
	}

	content := cleanJSONResponse(resp.Choices[0].Message.Content)
	if !json.Valid([]byte(content)) {
		return "", fmt.Errorf("openai: not valid json")
	}
	return content, nil
}

func (c *OpenAIPlannerClient) ProposeDayGrouping(ctx context.Context, locations []request_models.LocationSummary, numDays int, style string, pairMinutes map[string]map[string]int) ([][]string, error) {
	if numDays < 1 || numDays > 14 {
		return nil, fmt.Errorf("bad numDays")
	}
	if len(locations) == 0 {
		return nil, fmt.Errorf("no locations")
	}

	content, err := c.complete(ctx,
		buildGroupingPrompt(locations, numDays, style, pairMinutes),
		"Generate the day grouping now.")
	if err != nil {
		return nil, err
	}
	return parseGrouping(content)
}

func (c *OpenAIPlannerClient) DiscoverLocations(ctx context.Context, prompt string) (string, error) {
	return c.complete(ctx, prompt, "Find the locations now.")
}

func (c *OpenAIPlannerClient) GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.SmallEmbedding3,
	})
	if err != nil {
		return pgvector.Vector{}, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(resp.Data) == 0 {
		return pgvector.Vector{}, fmt.Errorf("openai embeddings: empty response")
	}
	return pgvector.NewVector(resp.Data[0].Embedding), nil
}
