// Package utils holds small helpers shared across layers: typed context keys,
// JSON response writing, token signing, password hashing and id generation.
package utils

import (
	"context"

	"github.com/MKhiriev/go-vidtube/models"
)

// contextKey is a private type for context keys so that values stored here
// never collide with string keys set by other packages.
type contextKey string

func (c contextKey) String() string {
	return string(c)
}

var (
	// UserIDCtxKey stores the authenticated user's id (string).
	UserIDCtxKey = contextKey("userID")

	// UserCtxKey stores the authenticated principal (models.User).
	UserCtxKey = contextKey("user")
)

// GetUserIDFromContext returns the authenticated user's id.
// ok is false when the value is missing, empty or of another type.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(string)
	return userID, ok && userID != ""
}

// GetUserFromContext returns the principal attached by the auth middleware.
func GetUserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(UserCtxKey).(models.User)
	return user, ok
}

// WithUser attaches the principal and its id to ctx.
func WithUser(ctx context.Context, user models.User) context.Context {
	ctx = context.WithValue(ctx, UserCtxKey, user)
	return context.WithValue(ctx, UserIDCtxKey, user.ID)
}
