package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
)

var (
	errAuthHeaderMissing = errors.New("authorization header missing")
	errAuthHeaderInvalid = errors.New("invalid authorization header")
)

// SubscriptionChecker reports whether the identity behind clerkID has an
// active subscription. Implemented by the user service.
type SubscriptionChecker interface {
	IsSubscribed(ctx context.Context, clerkID string) (bool, error)
}

// RequireSubscription gates a route on an active subscription. Must run
// after AuthMiddleware. A 403 is distinct from the 401 auth failure and
// carries a hint that billing checkout is required.
func RequireSubscription(checker SubscriptionChecker, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeAuthError(w, "Authentication required")
				return
			}
			subscribed, err := checker.IsSubscribed(r.Context(), claims.Subject)
			if err != nil {
				logger.Error().Err(err).Str("clerk_id", claims.Subject).Msg("Failed to check subscription status")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]any{"message": "Server error checking subscription status"})
				return
			}
			if !subscribed {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(map[string]any{
					"message":             "Subscription required",
					"requireSubscription": true,
					"redirectUrl":         "/api/subscription/checkout",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{"message": msg})
}
