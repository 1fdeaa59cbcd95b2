package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/fieldbook-dev/fieldbook-backend/api/responses"
	"github.com/fieldbook-dev/fieldbook-backend/internal/authz"
	pkgAuth "github.com/fieldbook-dev/fieldbook-backend/pkg/auth"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/auth/session"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/config"
	pkgerrors "github.com/fieldbook-dev/fieldbook-backend/pkg/errors"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/logger"
	"github.com/google/uuid"
)

// ActorLoader resolves the stored actor for a user id. The middleware loads
// the actor on every request instead of trusting token claims, so permission
// toggles and deactivation cut access without waiting for token expiry.
type ActorLoader interface {
	LoadActor(ctx context.Context, id uuid.UUID) (*authz.Actor, error)
}

// Auth validates a bearer token, checks the refresh session is still alive,
// and seeds the request context with the live actor.
func Auth(cfg config.JWTConfig, verifier session.AccessSessionChecker, loader ActorLoader, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if claims.ID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}

			if verifier != nil {
				ok, err := verifier.HasSession(r.Context(), claims.ID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !ok {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable"))
					return
				}
			}

			actor, err := loader.LoadActor(r.Context(), claims.UserID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if actor == nil || !actor.IsActive {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "account unavailable"))
				return
			}

			ctx := WithActor(r.Context(), actor)
			ctx = WithAccessID(ctx, claims.ID)

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    actor.ID.String(),
					"actor_role": string(actor.Role),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
