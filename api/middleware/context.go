package middleware

import (
	"context"

	"github.com/fieldbook-dev/fieldbook-backend/internal/authz"
)

type contextKey string

const (
	ctxActor    contextKey = "actor"
	ctxAccessID contextKey = "access_id"
)

// ActorFromContext returns the authenticated actor, or nil when the request
// is unauthenticated. Services treat nil as deny.
func ActorFromContext(ctx context.Context) *authz.Actor {
	if ctx == nil {
		return nil
	}
	if actor, ok := ctx.Value(ctxActor).(*authz.Actor); ok {
		return actor
	}
	return nil
}

// AccessIDFromContext returns the jti of the request's access token.
func AccessIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAccessID).(string); ok {
		return v
	}
	return ""
}

// WithActor injects an actor into the context. Exposed for handler tests.
func WithActor(ctx context.Context, actor *authz.Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxActor, actor)
}

// WithAccessID injects the access token id into the context.
func WithAccessID(ctx context.Context, accessID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAccessID, accessID)
}
