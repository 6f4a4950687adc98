package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/PrintfR/HardCode/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"PORT", "DATABASE_URL", "MONGO_DATABASE", "REDIS_URL", "LLM_PROVIDER",
	"GEMINI_API_KEY", "GEMINI_MODEL", "VERTEX_PROJECT", "VERTEX_LOCATION",
	"GOOGLE_CLIENT_ID", "CORS_ALLOWED_ORIGINS", "LOG_LEVEL", "LOG_FORMAT",
	"MAX_CALL_MINUTES", "JWT_SECRET", "JWT_EXPIRATION_HOURS",
}

// clearEnv blanks every config variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvKeys {
		t.Setenv(key, "")
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func validConfig() *Config {
	cfg := Default()
	cfg.GeminiAPIKey = "key"
	cfg.GoogleClientID = "client.apps.googleusercontent.com"
	cfg.JWT.Secret = "secret"
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, BackendMemory, cfg.Backend())
	assert.Equal(t, llm.DefaultModel, cfg.GeminiModel)
	assert.Equal(t, DefaultJWTExpirationHours, cfg.JWT.ExpirationHours)
	assert.Equal(t, DefaultMaxCallMinutes, cfg.MaxCallMinutes)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, `{
		"port": 9000,
		"database_url": "postgres://file/db",
		"gemini_api_key": "from-file",
		"cors_allowed_origins": ["https://file.example"],
		"jwt": {"secret": "file-secret", "expiration_hours": 12}
	}`)
	t.Setenv("GEMINI_API_KEY", "from-env")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("JWT_EXPIRATION_HOURS", "48")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, BackendPostgres, cfg.Backend())
	assert.Equal(t, "from-env", cfg.GeminiAPIKey)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "file-secret", cfg.JWT.Secret)
	assert.Equal(t, 48, cfg.JWT.ExpirationHours)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel, "unset keys keep their defaults")
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Load("/nonexistent/path/config.json")
	assert.ErrorContains(t, err, "failed to read config file")

	_, err = Load(writeConfigFile(t, `{ invalid json }`))
	assert.ErrorContains(t, err, "failed to parse config JSON")

	t.Setenv("PORT", "eighty")
	_, err = Load("")
	assert.ErrorContains(t, err, "invalid PORT")
}

func TestBackend(t *testing.T) {
	tests := map[string]string{
		"":                                BackendMemory,
		"memory":                          BackendMemory,
		"postgres://u:p@localhost/db":     BackendPostgres,
		"postgresql://localhost/db":       BackendPostgres,
		"mongodb://localhost:27017":       BackendMongo,
		"mongodb+srv://cluster.example/x": BackendMongo,
		"mysql://localhost/db":            "",
	}
	for url, want := range tests {
		cfg := &Config{DatabaseURL: url}
		assert.Equal(t, want, cfg.Backend(), url)
	}
}

func TestLLM(t *testing.T) {
	cfg := Default()
	cfg.LLMProvider = "vertex"
	cfg.VertexProject = "proj"

	got := cfg.LLM()
	assert.Equal(t, llm.ProviderVertex, got.Provider)
	assert.Equal(t, "proj", got.Project)
	assert.Equal(t, "us-central1", got.Location)
	assert.NoError(t, cfg.ValidateLLM())
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	cfg := validConfig()
	cfg.Port = 0
	cfg.DatabaseURL = "mysql://nope"
	cfg.GeminiAPIKey = ""
	cfg.GoogleClientID = ""
	cfg.JWT.Secret = ""

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"PORT", "DATABASE_URL", "API key", "GOOGLE_CLIENT_ID", "JWT_SECRET"} {
		assert.Contains(t, err.Error(), want)
	}
}
