package handler

import (
	"errors"
	"net/http"

	"clipcraft/internal/middleware"
	"clipcraft/internal/model"
	"clipcraft/internal/service"

	"github.com/rs/zerolog"
)

// SubscriptionHandler handles billing session creation and the Stripe
// webhook receiver.
type SubscriptionHandler struct {
	stripeSvc   *service.StripeService
	userService service.UserService
	logger      zerolog.Logger
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(stripeSvc *service.StripeService, userService service.UserService, logger zerolog.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{stripeSvc: stripeSvc, userService: userService, logger: logger}
}

// RegisterRoutes registers the subscription endpoints. The webhook endpoint
// is unauthenticated; its signature check is the authentication.
func (h *SubscriptionHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("POST /subscription/checkout", authMw(http.HandlerFunc(h.checkout)))
	mux.Handle("POST /subscription/portal", authMw(http.HandlerFunc(h.portal)))
	mux.Handle("POST /webhook", http.HandlerFunc(h.stripeSvc.HandleWebhook))
}

func (h *SubscriptionHandler) checkout(w http.ResponseWriter, r *http.Request) {
	user, ok := h.resolveUser(w, r)
	if !ok {
		return
	}
	url, err := h.stripeSvc.CreateCheckoutSession(r.Context(), user.ID)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to create Stripe checkout session")
		writeError(w, http.StatusInternalServerError, "Failed to create checkout session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (h *SubscriptionHandler) portal(w http.ResponseWriter, r *http.Request) {
	user, ok := h.resolveUser(w, r)
	if !ok {
		return
	}
	url, err := h.stripeSvc.CreatePortalSession(r.Context(), user.ID)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to create Stripe portal session")
		writeError(w, http.StatusInternalServerError, "Failed to create portal session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (h *SubscriptionHandler) resolveUser(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	claims, found := middleware.ClaimsFromContext(r.Context())
	if !found {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return nil, false
	}
	u, err := h.userService.GetOrCreate(r.Context(), claims)
	if err != nil {
		if errors.Is(err, service.ErrNoPrimaryEmail) {
			writeError(w, http.StatusBadRequest, "User has no primary email address")
			return nil, false
		}
		h.logger.Error().Err(err).Str("clerk_id", claims.Subject).Msg("Failed to resolve user")
		writeError(w, http.StatusInternalServerError, "Failed to resolve user")
		return nil, false
	}
	return u, true
}
