package ports

import "context"

// CompletionOptions configures one LLM completion request
type CompletionOptions struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// LLMProvider defines the interface for the search-augmented language model
// collaborator (Perplexity in production, mocks in tests)
type LLMProvider interface {
	// Complete sends a system/user prompt pair and returns the assistant's
	// text content. Implementations are expected to bound the call with a
	// timeout; callers decide whether to retry.
	Complete(ctx context.Context, systemPrompt, userPrompt string, options CompletionOptions) (string, error)
}
