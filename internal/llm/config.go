// Package llm wraps the generative text backends and turns their raw replies
// into typed values.
package llm

import "fmt"

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Gemini API, authenticated with an API key
	ProviderGemini Provider = "gemini"
	// ProviderVertex is Vertex AI, authenticated with application default credentials
	ProviderVertex Provider = "vertex"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// PlainTextMIMEType is the response MIME type requested from every backend.
const PlainTextMIMEType = "text/plain"

// Config holds the backend selection and its credentials
type Config struct {
	Provider Provider
	Model    string
	APIKey   string
	Project  string
	Location string
}

// DefaultConfig returns a Gemini API configuration using DefaultModel.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Model:    DefaultModel,
		Location: "us-central1",
	}
}

// GetModel returns the configured model, falling back to DefaultModel.
func (c *Config) GetModel() string {
	if c.Model == "" {
		return DefaultModel
	}
	return c.Model
}

// Validate reports missing credentials for the selected provider.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGemini, "":
		if c.APIKey == "" {
			return fmt.Errorf("gemini provider requires an API key")
		}
	case ProviderVertex:
		if c.Project == "" {
			return fmt.Errorf("vertex provider requires a project")
		}
		if c.Location == "" {
			return fmt.Errorf("vertex provider requires a location")
		}
	default:
		return fmt.Errorf("unknown LLM provider %q", c.Provider)
	}
	return nil
}
