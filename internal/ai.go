package internal

import (
	"context"
	"fmt"
	"time"
)

// GenerationClient produces text from a prompt
type GenerationClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// EmbeddingClient produces embedding vectors for text
type EmbeddingClient interface {
	Embed(ctx context.Context, text, taskType string) ([]float32, error)
}

// ModelLister enumerates the generative models available to a provider
type ModelLister interface {
	ListModels(ctx context.Context) ([]ModelInfo, error)
}

// ModelInfo describes one available model
type ModelInfo struct {
	Name        string
	DisplayName string
}

// Embedding task types, matching the Gemini API's retrieval task hints
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// AI wraps a generation client with a call timeout
type AI struct {
	client  GenerationClient
	timeout time.Duration
	verbose bool
}

// NewAI creates a new AI processor
func NewAI(client GenerationClient, timeout time.Duration, verbose bool) *AI {
	return &AI{client: client, timeout: timeout, verbose: verbose}
}

// Generate runs a generation call under the configured timeout
func (ai *AI) Generate(ctx context.Context, prompt string) (string, error) {
	if ai.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ai.timeout)
		defer cancel()
	}

	if ai.verbose {
		fmt.Printf("Generating answer (%d prompt characters)\n", len(prompt))
	}

	content, err := ai.client.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}

	return content, nil
}

// NewGenerationClient builds the generation client selected by config.
// Credentials are validated by Config.ValidateCredentials before this point.
func NewGenerationClient(config *Config) (GenerationClient, error) {
	switch config.Provider {
	case "gemini":
		return NewGeminiClient(config.GoogleAPIKey, config.Model, config.EmbeddingModel), nil
	case "openai":
		return NewOpenAIClient(config.OpenAIAPIKey, config.Model), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", config.Provider)
	}
}
