package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"nodal-backend/pkg/auth"
)

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{
			name:   "bearer header",
			header: "Bearer abc123",
			want:   "abc123",
		},
		{
			name:   "cookie fallback",
			cookie: "cookie-token",
			want:   "cookie-token",
		},
		{
			name:   "header wins over cookie",
			header: "Bearer header-token",
			cookie: "cookie-token",
			want:   "header-token",
		},
		{
			name:   "non-bearer header ignored",
			header: "Basic dXNlcjpwYXNz",
			want:   "",
		},
		{
			name: "nothing present",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: tt.cookie})
			}
			assert.Equal(t, tt.want, extractToken(req))
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := auth.NewTokenBucketLimiter(1, time.Hour)
	handler := RateLimit(limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	authedRequest := func(userID string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		ctx := auth.WithUserContext(req.Context(), &auth.UserContext{UserID: userID})
		return req.WithContext(ctx)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest("user-1"))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest("user-1"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"too many requests, slow down"}`, rec.Body.String())

	// Another user is unaffected.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest("user-2"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitRequiresAuthenticatedUser(t *testing.T) {
	limiter := auth.NewTokenBucketLimiter(1, time.Hour)
	handler := RateLimit(limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
