// Package di wires the application together. The graph is small enough to
// assemble by hand, so providers are called directly instead of generated.
package di

import (
	"context"
	"fmt"

	supa "github.com/supabase-community/supabase-go"
	"go.uber.org/zap"

	"nodal-backend/application/ports"
	"nodal-backend/application/services"
	"nodal-backend/infrastructure/config"
	"nodal-backend/infrastructure/llm"
	"nodal-backend/infrastructure/persistence/supabase"
	"nodal-backend/pkg/auth"
	"nodal-backend/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	Settings    *config.DynamicSettings
	Supabase    *supa.Client
	Repository  ports.ExplorationRepository
	Provider    ports.LLMProvider
	Validator   *services.QuestionValidator
	Service     *services.ExplorationService
	Metrics     *observability.Collector
	Tracer      *observability.TracerProvider
	RateLimiter *auth.TokenBucketLimiter

	stopWatcher func()
}

// ProvideLogger creates the process logger
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideSupabaseClient creates the hosted backend client used for both
// token verification and persistence
func ProvideSupabaseClient(cfg *config.Config) (*supa.Client, error) {
	client, err := supa.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return client, nil
}

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	client, err := ProvideSupabaseClient(cfg)
	if err != nil {
		return nil, err
	}

	metrics := observability.NewCollector(cfg.MetricsNamespace)

	tracer, err := observability.InitTracing(ctx, observability.TracingConfig{
		ServiceName: "nodal-backend",
		Environment: cfg.Environment,
		Endpoint:    cfg.TracingEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	settings := config.NewDynamicSettings(cfg)
	stopWatcher := func() {}
	if cfg.DynamicConfigPath != "" {
		stopWatcher, err = settings.Watch(cfg.DynamicConfigPath, logger)
		if err != nil {
			logger.Warn("dynamic config watcher disabled",
				zap.String("path", cfg.DynamicConfigPath),
				zap.Error(err),
			)
			stopWatcher = func() {}
		}
	}

	repository := supabase.NewExplorationRepository(client, cfg.TableName, logger)
	provider := llm.NewPerplexityClient(cfg, metrics, logger)
	validator := services.NewQuestionValidator(provider, settings, logger)
	service := services.NewExplorationService(repository, provider, validator, settings, metrics, tracer, logger)
	limiter := auth.NewTokenBucketLimiter(cfg.MutationRateLimit, cfg.MutationRefillRate)

	return &Container{
		Config:      cfg,
		Logger:      logger,
		Settings:    settings,
		Supabase:    client,
		Repository:  repository,
		Provider:    provider,
		Validator:   validator,
		Service:     service,
		Metrics:     metrics,
		Tracer:      tracer,
		RateLimiter: limiter,
		stopWatcher: stopWatcher,
	}, nil
}

// Shutdown releases background resources in reverse dependency order
func (c *Container) Shutdown(ctx context.Context) {
	c.stopWatcher()
	if err := c.Tracer.Shutdown(ctx); err != nil {
		c.Logger.Warn("tracer shutdown failed", zap.Error(err))
	}
	_ = c.Logger.Sync()
}
