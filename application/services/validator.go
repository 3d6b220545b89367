package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"nodal-backend/application/ports"
	pkgerrors "nodal-backend/pkg/errors"
)

const (
	validatorMaxAttempts = 3
	validatorBackoffBase = 1 * time.Second
	validatorMaxTokens   = 5
)

// QuestionValidator classifies free-text input as a well-formed question
// before the expensive graph generation runs. The classifier call is retried
// with linear backoff because it is cheap and transient upstream failures are
// common; graph generation itself is never retried.
type QuestionValidator struct {
	provider ports.LLMProvider
	settings ports.Settings
	logger   *zap.Logger

	// sleep is swapped out in tests to observe backoff without waiting
	sleep func(ctx context.Context, d time.Duration) error
}

// NewQuestionValidator creates a validator backed by the given provider
func NewQuestionValidator(provider ports.LLMProvider, settings ports.Settings, logger *zap.Logger) *QuestionValidator {
	return &QuestionValidator{
		provider: provider,
		settings: settings,
		logger:   logger,
		sleep:    sleepContext,
	}
}

// Validate returns whether the input is a valid question. The classifier's
// answer must equal "VALID" after trimming and uppercasing; a substring test
// would accept "INVALID" too, since it contains "VALID". Any other non-empty
// answer is a negative classification, not an error. Empty content after a
// successful call counts as an upstream failure and is retried.
func (v *QuestionValidator) Validate(ctx context.Context, question string) (bool, error) {
	if strings.TrimSpace(question) == "" {
		return false, pkgerrors.NewValidationError("question is required")
	}

	var lastErr error
	for attempt := 1; attempt <= validatorMaxAttempts; attempt++ {
		content, err := v.provider.Complete(ctx, questionCheckSystemPrompt, buildQuestionCheckPrompt(question), ports.CompletionOptions{
			Model:       v.settings.Model(),
			Temperature: 0,
			MaxTokens:   validatorMaxTokens,
		})
		if err == nil {
			answer := strings.ToUpper(strings.TrimSpace(content))
			if answer != "" {
				return answer == "VALID", nil
			}
			err = pkgerrors.NewExternalError("classifier", nil).WithCode("EMPTY_RESPONSE")
		}

		lastErr = err
		v.logger.Warn("question classification attempt failed",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		if attempt < validatorMaxAttempts {
			// Linear backoff: 1s after the first failure, 2s after the second.
			if sleepErr := v.sleep(ctx, validatorBackoffBase*time.Duration(attempt)); sleepErr != nil {
				return false, sleepErr
			}
		}
	}

	return false, pkgerrors.NewExternalError("classifier", lastErr)
}

// sleepContext waits for d or until the context is cancelled
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
