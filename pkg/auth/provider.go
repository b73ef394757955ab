package auth

import (
	"context"
	"net/http"
)

type contextKey string

const (
	UserContextKey  contextKey = "auth.user"
	EmailContextKey contextKey = "auth.email"
)

// Provider verifies the caller of an analysis request. On success it returns
// a context enriched with the caller identity, which downstream code attaches
// to remote inference calls as the user id.
type Provider interface {
	Authenticate(ctx context.Context, r *http.Request) (context.Context, error)
}

// User returns the authenticated caller identity, if any.
func User(ctx context.Context) string {
	user, _ := ctx.Value(UserContextKey).(string)
	return user
}
