package middleware

import (
	"context"
	"net/http"
	"strings"

	"clipcraft/internal/util"

	"github.com/rs/zerolog"
)

// Injected key type to avoid context collisions
type contextKey string

const ClaimsContextKey = contextKey("claims")

// ClaimsFromContext returns the verified token claims attached by the auth
// middleware, if any.
func ClaimsFromContext(ctx context.Context) (*util.Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*util.Claims)
	return claims, ok && claims != nil
}

// AuthMiddleware verifies the Bearer token and embeds the claims into the
// request context. Requests without a valid token are rejected with 401.
func AuthMiddleware(jwtKey string, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := claimsFromRequest(r, jwtKey)
			if err != nil {
				logger.Warn().Err(err).Str("path", r.URL.Path).Msg("Rejected unauthenticated request")
				writeAuthError(w, "Authentication required")
				return
			}
			ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthMiddleware attaches claims when a valid Bearer token is
// present but lets anonymous requests through untouched. Used by the contact
// form, where linking the message to a user is best effort.
func OptionalAuthMiddleware(jwtKey string, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := claimsFromRequest(r, jwtKey)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func claimsFromRequest(r *http.Request, jwtKey string) (*util.Claims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, errAuthHeaderMissing
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, errAuthHeaderInvalid
	}
	return util.ValidateJWT(parts[1], jwtKey)
}
