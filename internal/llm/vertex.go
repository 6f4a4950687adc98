package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// VertexClient implements Client for Vertex AI through the unified genai SDK
type VertexClient struct {
	client *genai.Client
	model  string
}

// NewVertexClient creates a Vertex AI client using application default credentials
func NewVertexClient(ctx context.Context, config *Config) (*VertexClient, error) {
	if config.Project == "" || config.Location == "" {
		return nil, fmt.Errorf("project and location are required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  config.Project,
		Location: config.Location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, &ProviderError{Provider: ProviderVertex, Message: "failed to create client", Err: err}
	}

	return &VertexClient{
		client: client,
		model:  config.GetModel(),
	}, nil
}

// GenerateText generates plain text for prompt
func (c *VertexClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: PlainTextMIMEType,
	})
	if err != nil {
		return "", &ProviderError{Provider: ProviderVertex, Message: "failed to generate content", Err: err}
	}
	if result == nil || len(result.Candidates) == 0 {
		return "", nil
	}

	text, err := result.Text()
	if err != nil {
		return "", &ProviderError{Provider: ProviderVertex, Message: "failed to extract response text", Err: err}
	}
	return text, nil
}

// Provider returns ProviderVertex
func (c *VertexClient) Provider() Provider {
	return ProviderVertex
}

// Close is a no-op; the genai client holds no closable resources.
func (c *VertexClient) Close() error {
	return nil
}
