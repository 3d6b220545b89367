package services

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*-[a-zA-Z0-9]{8}$`)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		name       string
		question   string
		wantPrefix string
	}{
		{
			name:       "simple question",
			question:   "What is the big bang?",
			wantPrefix: "what-is-the-big-bang-",
		},
		{
			name:       "punctuation stripped",
			question:   "How do computers work?!",
			wantPrefix: "how-do-computers-work-",
		},
		{
			name:       "mixed case and extra spaces",
			question:   "  Why   IS the Sky   Blue  ",
			wantPrefix: "why-is-the-sky-blue-",
		},
		{
			name:       "only symbols falls back",
			question:   "???!!!",
			wantPrefix: "exploration-",
		},
		{
			name:       "unicode stripped",
			question:   "Qué es la vida",
			wantPrefix: "qu-es-la-vida-",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slug := generateSlug(tt.question)
			assert.True(t, strings.HasPrefix(slug, tt.wantPrefix),
				"slug %q does not start with %q", slug, tt.wantPrefix)
			assert.Regexp(t, slugPattern, slug)
		})
	}
}

func TestGenerateSlugUniqueness(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		slug := generateSlug("What is the big bang?")
		_, dup := seen[slug]
		require.False(t, dup, "slug %q generated twice", slug)
		seen[slug] = struct{}{}
	}
}

func TestRandomSuffixLength(t *testing.T) {
	assert.Len(t, randomSuffix(8), 8)
	assert.Len(t, randomSuffix(1), 1)
}
