package internal

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"
)

// GeminiClient talks to the Gemini API for generation, embeddings and model
// listing. The underlying client is created lazily on first use.
type GeminiClient struct {
	apiKey         string
	model          string
	embeddingModel string

	clientOnce sync.Once
	client     *genai.Client
	clientErr  error
}

// NewGeminiClient creates a Gemini-backed client
func NewGeminiClient(apiKey, model, embeddingModel string) *GeminiClient {
	return &GeminiClient{
		apiKey:         apiKey,
		model:          model,
		embeddingModel: embeddingModel,
	}
}

func (g *GeminiClient) ensureClient(ctx context.Context) (*genai.Client, error) {
	g.clientOnce.Do(func() {
		g.client, g.clientErr = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  g.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
	})
	return g.client, g.clientErr
}

// Generate implements GenerationClient
func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	client, err := g.ensureClient(ctx)
	if err != nil {
		return "", fmt.Errorf("creating Gemini client: %w", err)
	}

	resp, err := client.Models.GenerateContent(
		ctx,
		g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		nil,
	)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(resp.Text()), nil
}

// Embed implements EmbeddingClient
func (g *GeminiClient) Embed(ctx context.Context, text, taskType string) ([]float32, error) {
	client, err := g.ensureClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	var config *genai.EmbedContentConfig
	if taskType != "" {
		config = &genai.EmbedContentConfig{TaskType: taskType}
	}

	resp, err := client.Models.EmbedContent(
		ctx,
		g.embeddingModel,
		[]*genai.Content{{Parts: []*genai.Part{{Text: text}}}},
		config,
	)
	if err != nil {
		return nil, err
	}

	if len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
		return nil, fmt.Errorf("no embedding values returned")
	}

	return resp.Embeddings[0].Values, nil
}

// ListModels implements ModelLister, returning models that support content
// generation
func (g *GeminiClient) ListModels(ctx context.Context) ([]ModelInfo, error) {
	client, err := g.ensureClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	var models []ModelInfo
	for model, err := range client.Models.All(ctx) {
		if err != nil {
			return nil, fmt.Errorf("listing models: %w", err)
		}

		supported := false
		for _, action := range model.SupportedActions {
			if action == "generateContent" {
				supported = true
				break
			}
		}
		if !supported {
			continue
		}

		models = append(models, ModelInfo{
			Name:        model.Name,
			DisplayName: model.DisplayName,
		})
	}

	return models, nil
}
