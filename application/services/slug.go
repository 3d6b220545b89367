package services

import (
	"math/rand"
	"regexp"
	"strings"
)

const slugSuffixChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var repeatedHyphens = regexp.MustCompile(`-+`)

// generateSlug derives a URL-safe identifier from a question: lower-case,
// whitespace to hyphens, everything outside [a-z0-9-] stripped, repeated
// hyphens collapsed, then an 8-character random suffix so the same question
// asked twice still yields globally unique slugs.
func generateSlug(question string) string {
	slug := strings.ToLower(question)
	slug = strings.Join(strings.Fields(slug), "-")

	var b strings.Builder
	for _, r := range slug {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	slug = repeatedHyphens.ReplaceAllString(b.String(), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "exploration"
	}

	return slug + "-" + randomSuffix(8)
}

// randomSuffix returns size random alphanumeric characters
func randomSuffix(size int) string {
	b := make([]byte, size)
	for i := range b {
		b[i] = slugSuffixChars[rand.Intn(len(slugSuffixChars))]
	}
	return string(b)
}
