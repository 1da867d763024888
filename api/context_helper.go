package api

import (
	"context"
	"time"

	"github.com/linesmerrill/court-management-api/models"
)

// QueryTimeout is the default timeout for database queries
const QueryTimeout = 10 * time.Second

type identityContextKey struct{}

// WithQueryTimeout creates a context with query timeout
func WithQueryTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, QueryTimeout)
}

// ContextWithIdentity attaches the authenticated user to the request context
func ContextWithIdentity(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, identityContextKey{}, user)
}

// IdentityFromContext returns the authenticated user attached by the auth
// middleware, or nil when the request is unauthenticated
func IdentityFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(identityContextKey{}).(*models.User)
	return user
}
