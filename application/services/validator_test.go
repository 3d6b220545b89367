package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nodal-backend/application/ports"
	pkgerrors "nodal-backend/pkg/errors"
)

type stubSettings struct {
	model string
	quota int
}

func (s stubSettings) Model() string               { return s.model }
func (s stubSettings) MaxExplorationsPerUser() int { return s.quota }

// scriptedProvider returns one scripted result per call, in order.
type scriptedProvider struct {
	results []scriptedResult
	calls   []ports.CompletionOptions
}

type scriptedResult struct {
	content string
	err     error
}

func (p *scriptedProvider) Complete(ctx context.Context, systemPrompt, userPrompt string, options ports.CompletionOptions) (string, error) {
	p.calls = append(p.calls, options)
	if len(p.results) == 0 {
		return "", errors.New("no scripted result")
	}
	next := p.results[0]
	p.results = p.results[1:]
	return next.content, next.err
}

func newTestValidator(provider ports.LLMProvider) (*QuestionValidator, *[]time.Duration) {
	v := NewQuestionValidator(provider, stubSettings{model: "sonar", quota: 4}, zap.NewNop())
	var sleeps []time.Duration
	v.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}
	return v, &sleeps
}

func TestValidateAcceptsValidAnswer(t *testing.T) {
	provider := &scriptedProvider{results: []scriptedResult{{content: "VALID"}}}
	v, sleeps := newTestValidator(provider)

	isValid, err := v.Validate(context.Background(), "What is the big bang?")
	require.NoError(t, err)
	assert.True(t, isValid)
	assert.Len(t, provider.calls, 1)
	assert.Empty(t, *sleeps)

	// The classifier call is pinned to a tiny deterministic completion.
	assert.Equal(t, "sonar", provider.calls[0].Model)
	assert.Equal(t, 0.0, provider.calls[0].Temperature)
	assert.Equal(t, validatorMaxTokens, provider.calls[0].MaxTokens)
}

func TestValidateTrimsAndUppercases(t *testing.T) {
	provider := &scriptedProvider{results: []scriptedResult{{content: "  valid \n"}}}
	v, _ := newTestValidator(provider)

	isValid, err := v.Validate(context.Background(), "How do computers work?")
	require.NoError(t, err)
	assert.True(t, isValid)
}

func TestValidateRejectsInvalidAnswer(t *testing.T) {
	// "INVALID" contains "VALID" as a substring; only exact equality may
	// count as acceptance.
	provider := &scriptedProvider{results: []scriptedResult{{content: "INVALID"}}}
	v, _ := newTestValidator(provider)

	isValid, err := v.Validate(context.Background(), "banana")
	require.NoError(t, err)
	assert.False(t, isValid)
	assert.Len(t, provider.calls, 1)
}

func TestValidateUnexpectedAnswerIsRejection(t *testing.T) {
	provider := &scriptedProvider{results: []scriptedResult{{content: "I think this is a great question"}}}
	v, _ := newTestValidator(provider)

	isValid, err := v.Validate(context.Background(), "What is love?")
	require.NoError(t, err)
	assert.False(t, isValid)
}

func TestValidateRetriesWithLinearBackoff(t *testing.T) {
	provider := &scriptedProvider{results: []scriptedResult{
		{err: errors.New("upstream 502")},
		{err: errors.New("upstream 502")},
		{content: "VALID"},
	}}
	v, sleeps := newTestValidator(provider)

	isValid, err := v.Validate(context.Background(), "What is entropy?")
	require.NoError(t, err)
	assert.True(t, isValid)
	assert.Len(t, provider.calls, 3)
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, *sleeps)
}

func TestValidateEmptyContentIsRetried(t *testing.T) {
	provider := &scriptedProvider{results: []scriptedResult{
		{content: "   "},
		{content: "VALID"},
	}}
	v, sleeps := newTestValidator(provider)

	isValid, err := v.Validate(context.Background(), "What is entropy?")
	require.NoError(t, err)
	assert.True(t, isValid)
	assert.Len(t, provider.calls, 2)
	assert.Equal(t, []time.Duration{1 * time.Second}, *sleeps)
}

func TestValidateExhaustsAttempts(t *testing.T) {
	provider := &scriptedProvider{results: []scriptedResult{
		{err: errors.New("boom")},
		{err: errors.New("boom")},
		{err: errors.New("boom")},
	}}
	v, sleeps := newTestValidator(provider)

	_, err := v.Validate(context.Background(), "What is entropy?")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsExternal(err))
	assert.Len(t, provider.calls, validatorMaxAttempts)
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, *sleeps)
}

func TestValidateEmptyQuestion(t *testing.T) {
	provider := &scriptedProvider{}
	v, _ := newTestValidator(provider)

	_, err := v.Validate(context.Background(), "   ")
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Empty(t, provider.calls)
}

func TestValidateHonorsContextDuringBackoff(t *testing.T) {
	provider := &scriptedProvider{results: []scriptedResult{
		{err: errors.New("boom")},
	}}
	v := NewQuestionValidator(provider, stubSettings{model: "sonar"}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := v.Validate(ctx, "What is entropy?")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, provider.calls, 1)
}
