package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/YashRajNegi/Uttranjali/internal/auth"
	"github.com/YashRajNegi/Uttranjali/internal/domain"
)

type contextKey string

const identityKey contextKey = "identity"

// AuthMiddleware resolves the bearer token via the identity provider
// and stores the identity on the request context. No token, no entry.
func AuthMiddleware(provider auth.Provider, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if token == "" {
				respondError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
				return
			}

			identity, err := provider.Authenticate(r.Context(), token)
			if err != nil {
				if errors.Is(err, auth.ErrUnauthenticated) {
					respondError(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
					return
				}
				logger.Error("identity provider failure", "error", err)
				respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, *identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireStaff gates the fulfillment-side operations. It says "not
// authorized" without confirming anything about the target resource.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := identityFromContext(r.Context())
		if !ok || !identity.IsStaff() {
			respondError(w, http.StatusForbidden, "not_authorized", "staff role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func identityFromContext(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(domain.Identity)
	return identity, ok
}

// WithIdentity is used by handler tests to seed the request context.
func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}
