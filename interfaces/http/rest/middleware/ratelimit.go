package middleware

import (
	"net/http"

	"nodal-backend/pkg/auth"
	"nodal-backend/pkg/common"
)

// RateLimit applies the per-user token bucket to LLM-backed mutation
// routes. It must run after authentication.
func RateLimit(limiter *auth.TokenBucketLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := auth.GetUserFromContext(r.Context())
			if err != nil {
				common.RespondError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			allowed, err := limiter.Allow(r.Context(), user.UserID)
			if err != nil {
				common.RespondError(w, http.StatusInternalServerError, "internal server error")
				return
			}
			if !allowed {
				common.RespondError(w, http.StatusTooManyRequests, "too many requests, slow down")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
