// Package config loads the service configuration from the environment, with an
// optional JSON file supplying values the environment leaves unset.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/PrintfR/HardCode/internal/llm"
)

// Store backends selected by DATABASE_URL.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

// Defaults.
const (
	DefaultPort               = 8080
	DefaultDatabaseURL        = BackendMemory
	DefaultLogLevel           = "info"
	DefaultLogFormat          = "json"
	DefaultMaxCallMinutes     = 30
	DefaultJWTExpirationHours = 720
)

// Config is the full service configuration. JSON tags name the keys of the
// optional config file.
type Config struct {
	Port               int      `json:"port,omitempty"`
	DatabaseURL        string   `json:"database_url,omitempty"`
	MongoDatabase      string   `json:"mongo_database,omitempty"`
	RedisURL           string   `json:"redis_url,omitempty"`
	LLMProvider        string   `json:"llm_provider,omitempty"`
	GeminiAPIKey       string   `json:"gemini_api_key,omitempty"`
	GeminiModel        string   `json:"gemini_model,omitempty"`
	VertexProject      string   `json:"vertex_project,omitempty"`
	VertexLocation     string   `json:"vertex_location,omitempty"`
	GoogleClientID     string   `json:"google_client_id,omitempty"`
	CORSAllowedOrigins []string `json:"cors_allowed_origins,omitempty"`
	LogLevel           string   `json:"log_level,omitempty"`
	LogFormat          string   `json:"log_format,omitempty"`
	MaxCallMinutes     int      `json:"max_call_minutes,omitempty"`

	JWT JWTConfig `json:"jwt"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Port:           DefaultPort,
		DatabaseURL:    DefaultDatabaseURL,
		LLMProvider:    string(llm.ProviderGemini),
		GeminiModel:    llm.DefaultModel,
		VertexLocation: "us-central1",
		LogLevel:       DefaultLogLevel,
		LogFormat:      DefaultLogFormat,
		MaxCallMinutes: DefaultMaxCallMinutes,
		JWT:            JWTConfig{ExpirationHours: DefaultJWTExpirationHours},
	}
}

// Load builds the configuration: defaults, then the JSON file at path (when
// path is non-empty), then environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"DATABASE_URL":     &c.DatabaseURL,
		"MONGO_DATABASE":   &c.MongoDatabase,
		"REDIS_URL":        &c.RedisURL,
		"LLM_PROVIDER":     &c.LLMProvider,
		"GEMINI_API_KEY":   &c.GeminiAPIKey,
		"GEMINI_MODEL":     &c.GeminiModel,
		"VERTEX_PROJECT":   &c.VertexProject,
		"VERTEX_LOCATION":  &c.VertexLocation,
		"GOOGLE_CLIENT_ID": &c.GoogleClientID,
		"LOG_LEVEL":        &c.LogLevel,
		"LOG_FORMAT":       &c.LogFormat,
		"JWT_SECRET":       &c.JWT.Secret,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"PORT":                 &c.Port,
		"MAX_CALL_MINUTES":     &c.MaxCallMinutes,
		"JWT_EXPIRATION_HOURS": &c.JWT.ExpirationHours,
	}
	for key, dst := range ints {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = n
	}

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.CORSAllowedOrigins = splitList(v)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Backend returns the store backend DatabaseURL selects, or "" when the URL
// has an unsupported scheme.
func (c *Config) Backend() string {
	url := strings.ToLower(c.DatabaseURL)
	switch {
	case url == "" || url == BackendMemory:
		return BackendMemory
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return BackendPostgres
	case strings.HasPrefix(url, "mongodb://"), strings.HasPrefix(url, "mongodb+srv://"):
		return BackendMongo
	}
	return ""
}

// LLM returns the generative backend configuration.
func (c *Config) LLM() *llm.Config {
	return &llm.Config{
		Provider: llm.Provider(c.LLMProvider),
		Model:    c.GeminiModel,
		APIKey:   c.GeminiAPIKey,
		Project:  c.VertexProject,
		Location: c.VertexLocation,
	}
}

// ValidateLLM reports a misconfigured generative backend.
func (c *Config) ValidateLLM() error {
	if err := c.LLM().Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// Validate reports every misconfiguration the API server would hit.
func (c *Config) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("config error: PORT must be between 1 and 65535, got %d", c.Port))
	}
	if c.Backend() == "" {
		errs = append(errs, fmt.Errorf("config error: unsupported DATABASE_URL scheme"))
	}
	if err := c.ValidateLLM(); err != nil {
		errs = append(errs, err)
	}
	if c.GoogleClientID == "" {
		errs = append(errs, fmt.Errorf("config error: GOOGLE_CLIENT_ID is required"))
	}
	if c.MaxCallMinutes < 0 {
		errs = append(errs, fmt.Errorf("config error: MAX_CALL_MINUTES must be non-negative"))
	}
	if err := c.JWT.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("config error: %w", err))
	}
	return errors.Join(errs...)
}
