package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "knowledge_maps", cfg.TableName)
	assert.Equal(t, "https://api.perplexity.ai", cfg.PerplexityBaseURL)
	assert.Equal(t, "sonar", cfg.LLMModel)
	assert.Equal(t, 45*time.Second, cfg.LLMTimeout)
	assert.Equal(t, 4, cfg.MaxExplorationsPerUser)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9999")
	t.Setenv("LLM_MODEL", "sonar-pro")
	t.Setenv("LLM_TIMEOUT", "90s")
	t.Setenv("MAX_EXPLORATIONS_PER_USER", "10")
	t.Setenv("ENABLE_CORS", "false")
	t.Setenv("FRONTEND_ORIGIN", "https://nodal.example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.ServerAddress)
	assert.Equal(t, "sonar-pro", cfg.LLMModel)
	assert.Equal(t, 90*time.Second, cfg.LLMTimeout)
	assert.Equal(t, 10, cfg.MaxExplorationsPerUser)
	assert.False(t, cfg.EnableCORS)
	assert.Equal(t, []string{"https://nodal.example.com"}, cfg.AllowedOrigins)
}

func TestLoadConfigIgnoresMalformedValues(t *testing.T) {
	t.Setenv("MAX_EXPLORATIONS_PER_USER", "lots")
	t.Setenv("LLM_TIMEOUT", "soon")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.MaxExplorationsPerUser)
	assert.Equal(t, 45*time.Second, cfg.LLMTimeout)
}

func TestValidateProductionRequirements(t *testing.T) {
	cfg := &Config{
		Environment:            "production",
		MaxExplorationsPerUser: 4,
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SUPABASE_URL")

	cfg.SupabaseURL = "https://project.supabase.co"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SUPABASE_SERVICE_ROLE_KEY")

	cfg.SupabaseServiceKey = "service-key"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PERPLEXITY_API_KEY")

	cfg.PerplexityAPIKey = "api-key"
	assert.NoError(t, cfg.Validate())
}

func TestValidateQuotaFloor(t *testing.T) {
	cfg := &Config{Environment: "development", MaxExplorationsPerUser: 0}
	assert.Error(t, cfg.Validate())
}
