// Package llm implements the search-augmented language model collaborator
// over the Perplexity chat-completions API.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"nodal-backend/application/ports"
	"nodal-backend/infrastructure/config"
	pkgerrors "nodal-backend/pkg/errors"
	"nodal-backend/pkg/observability"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// PerplexityClient implements ports.LLMProvider against the Perplexity API.
// Calls are bounded by the configured timeout and guarded by a circuit
// breaker so a degraded upstream fails fast instead of tying up requests.
type PerplexityClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	breaker    *gobreaker.CircuitBreaker
	metrics    *observability.Collector
	logger     *zap.Logger
}

// NewPerplexityClient creates a client from the application config
func NewPerplexityClient(cfg *config.Config, metrics *observability.Collector, logger *zap.Logger) *PerplexityClient {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "perplexity",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.8
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &PerplexityClient{
		httpClient: &http.Client{Timeout: cfg.LLMTimeout},
		baseURL:    cfg.PerplexityBaseURL,
		apiKey:     cfg.PerplexityAPIKey,
		breaker:    breaker,
		metrics:    metrics,
		logger:     logger,
	}
}

// Complete sends a system/user prompt pair and returns the assistant's text
func (c *PerplexityClient) Complete(ctx context.Context, systemPrompt, userPrompt string, options ports.CompletionOptions) (string, error) {
	start := time.Now()
	result, err := c.breaker.Execute(func() (any, error) {
		return c.complete(ctx, systemPrompt, userPrompt, options)
	})

	status := "success"
	if err != nil {
		status = "failure"
	}
	c.metrics.LLMRequests.WithLabelValues("chat_completion", status).Inc()
	c.metrics.LLMDuration.WithLabelValues("chat_completion").Observe(time.Since(start).Seconds())

	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (c *PerplexityClient) complete(ctx context.Context, systemPrompt, userPrompt string, options ports.CompletionOptions) (string, error) {
	payload := chatRequest{
		Model: options.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: options.Temperature,
		MaxTokens:   options.MaxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", pkgerrors.NewInternalError("failed to encode completion request").WithCause(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", pkgerrors.NewInternalError("failed to build completion request").WithCause(err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", pkgerrors.NewExternalError("perplexity", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("perplexity returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", snippet),
		)
		return "", pkgerrors.NewExternalError("perplexity",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", pkgerrors.NewExternalError("perplexity", err)
	}
	if len(parsed.Choices) == 0 {
		return "", pkgerrors.NewExternalError("perplexity", fmt.Errorf("response contained no choices"))
	}

	return parsed.Choices[0].Message.Content, nil
}
