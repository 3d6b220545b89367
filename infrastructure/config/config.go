package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// Supabase configuration (auth + persistence)
	SupabaseURL        string
	SupabaseServiceKey string
	TableName          string

	// LLM collaborator configuration
	PerplexityAPIKey  string
	PerplexityBaseURL string
	LLMModel          string
	LLMTimeout        time.Duration

	// Business limits
	MaxExplorationsPerUser int

	// Abuse protection for LLM-backed endpoints
	MutationRateLimit  int // tokens per user
	MutationRefillRate time.Duration

	// Dynamic overrides file (optional, watched for changes)
	DynamicConfigPath string

	// Logging
	LogLevel string

	// Observability
	MetricsNamespace string
	TracingEndpoint  string

	// Feature flags
	EnableCORS     bool
	AllowedOrigins []string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		SupabaseURL:        getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
		TableName:          getEnv("KNOWLEDGE_MAPS_TABLE", "knowledge_maps"),

		PerplexityAPIKey:  getEnv("PERPLEXITY_API_KEY", ""),
		PerplexityBaseURL: getEnv("PERPLEXITY_BASE_URL", "https://api.perplexity.ai"),
		LLMModel:          getEnv("LLM_MODEL", "sonar"),
		LLMTimeout:        getEnvDuration("LLM_TIMEOUT", 45*time.Second),

		MaxExplorationsPerUser: getEnvInt("MAX_EXPLORATIONS_PER_USER", 4),

		MutationRateLimit:  getEnvInt("MUTATION_RATE_LIMIT", 10),
		MutationRefillRate: getEnvDuration("MUTATION_REFILL_RATE", 30*time.Second),

		DynamicConfigPath: getEnv("DYNAMIC_CONFIG_PATH", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		MetricsNamespace: getEnv("METRICS_NAMESPACE", "nodal"),
		TracingEndpoint:  getEnv("TRACING_ENDPOINT", ""),

		EnableCORS:     getEnvBool("ENABLE_CORS", true),
		AllowedOrigins: []string{getEnv("FRONTEND_ORIGIN", "http://localhost:3000")},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.MaxExplorationsPerUser < 1 {
		return fmt.Errorf("MAX_EXPLORATIONS_PER_USER must be at least 1")
	}
	if c.Environment == "production" {
		if c.SupabaseURL == "" {
			return fmt.Errorf("SUPABASE_URL is required in production")
		}
		if c.SupabaseServiceKey == "" {
			return fmt.Errorf("SUPABASE_SERVICE_ROLE_KEY is required in production")
		}
		if c.PerplexityAPIKey == "" {
			return fmt.Errorf("PERPLEXITY_API_KEY is required in production")
		}
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
