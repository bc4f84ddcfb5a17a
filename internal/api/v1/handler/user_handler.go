package handler

import (
	"errors"
	"net/http"

	"clipcraft/internal/api/v1/dto"
	"clipcraft/internal/middleware"
	"clipcraft/internal/service"

	"github.com/rs/zerolog"
)

// UserHandler serves the auth/me bootstrap endpoint.
type UserHandler struct {
	userService service.UserService
	logger      zerolog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{userService: userService, logger: logger}
}

// RegisterRoutes mounts user routes
func (h *UserHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("GET /auth/me", authMw(http.HandlerFunc(h.me)))
}

// me returns the local user record for the current identity, creating it on
// first sight. Repeat calls for the same identity return the same row.
func (h *UserHandler) me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	user, err := h.userService.GetOrCreate(r.Context(), claims)
	if err != nil {
		if errors.Is(err, service.ErrNoPrimaryEmail) {
			writeError(w, http.StatusBadRequest, "User has no primary email address")
			return
		}
		h.logger.Error().Err(err).Str("clerk_id", claims.Subject).Msg("Failed to bootstrap user")
		writeError(w, http.StatusInternalServerError, "Failed to fetch user")
		return
	}
	resp := dto.UserResponseDTO{
		ID:                 user.ID,
		Email:              user.Email,
		Username:           user.Username,
		IsSubscribed:       user.IsSubscribed(),
		SubscriptionStatus: user.SubscriptionStatus,
	}
	writeJSON(w, http.StatusOK, resp)
}
