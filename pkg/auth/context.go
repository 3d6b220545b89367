package auth

import (
	"context"

	"nodal-backend/pkg/errors"
)

type contextKey string

const userContextKey contextKey = "user"

// UserContext carries the authenticated principal through a request
type UserContext struct {
	UserID string
	Email  string
}

// WithUserContext stores the authenticated user on the request context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext retrieves the authenticated user from the context
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	if !ok || user == nil {
		return nil, errors.NewUnauthorizedError("authentication required")
	}
	return user, nil
}
