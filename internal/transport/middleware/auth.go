package middleware

import (
	"context"
	"net/http"

	"github.com/frahmantamala/hiring-gateway/internal"
	"github.com/frahmantamala/hiring-gateway/internal/transport"
	"github.com/frahmantamala/hiring-gateway/pkg/logger"
	"github.com/frahmantamala/hiring-gateway/pkg/permission"
)

// Authenticator resolves a bearer token into the calling principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*internal.Principal, error)
}

// RequireAuth rejects requests without a valid bearer token with 401 and
// stores the resolved principal in the request context.
func RequireAuth(authn Authenticator, h *transport.BaseHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := transport.BearerToken(r)
			if token == "" {
				h.WriteError(w, r, internal.ErrMissingToken)
				return
			}

			principal, err := authn.Authenticate(r.Context(), token)
			if err != nil {
				h.WriteError(w, r, err)
				return
			}

			ctx := internal.ContextWithPrincipal(r.Context(), principal)
			ctx = logger.With(ctx, "user_id", principal.ID, "role", string(principal.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireFeature answers 403 when the authenticated role lacks feature.
// It must run after RequireAuth.
func RequireFeature(feature string, h *transport.BaseHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := internal.PrincipalFromContext(r.Context())
			if !ok {
				h.WriteError(w, r, internal.ErrMissingToken)
				return
			}

			if !permission.HasFeatureAccess(&principal.Role, feature) {
				logger.From(r.Context()).Warn("access denied: role lacks feature",
					"user_id", principal.ID,
					"role", principal.Role,
					"feature", feature)
				h.WriteError(w, r, internal.ErrInsufficientRole.WithDetails(map[string]string{"feature": feature}))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
