// Package session supplies the acting identity and ties store lifecycles
// to it: a session starts when an identity first shows up and ends when it
// is explicitly closed, at which point the in-memory collections are
// discarded (persisted data is not).
package session

import (
	"context"

	"arquivo/internal/domain"
)

type contextKey struct{}

// WithUserID returns a context carrying the acting identity.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserID extracts the acting identity from the context.
func UserID(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(contextKey{}).(string)
	if !ok || userID == "" {
		return "", domain.ErrNoSession
	}
	return userID, nil
}
