// Package middleware provides HTTP middleware for the REST interface.
package middleware

import (
	"net/http"
	"strings"

	supa "github.com/supabase-community/supabase-go"
	"go.uber.org/zap"

	"nodal-backend/pkg/auth"
	"nodal-backend/pkg/common"
)

const accessTokenCookie = "sb-access-token"

// Authenticator verifies Supabase access tokens and attaches the resolved
// user to the request context.
type Authenticator struct {
	client *supa.Client
	logger *zap.Logger
}

func NewAuthenticator(client *supa.Client, logger *zap.Logger) *Authenticator {
	return &Authenticator{client: client, logger: logger}
}

// Middleware rejects requests without a verifiable token. The token comes
// from the Authorization header, or from the session cookie the hosted auth
// SDK sets for browser clients.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			common.RespondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		// GetUser chained with WithToken carries no context argument; the
		// underlying HTTP request uses the client's own transport.
		user, err := a.client.Auth.WithToken(token).GetUser()
		if err != nil {
			a.logger.Debug("token verification failed", zap.Error(err))
			common.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := auth.WithUserContext(r.Context(), &auth.UserContext{
			UserID: user.ID.String(),
			Email:  user.Email,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := r.Cookie(accessTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}
