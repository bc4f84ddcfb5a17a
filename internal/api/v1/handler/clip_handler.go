package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"clipcraft/internal/api/v1/dto"
	"clipcraft/internal/middleware"
	"clipcraft/internal/model"
	"clipcraft/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// ClipHandler handles clip CRUD and the public share lookup.
type ClipHandler struct {
	clipService service.ClipService
	userService service.UserService
	validate    *validator.Validate
	logger      zerolog.Logger
}

// NewClipHandler creates a new ClipHandler.
func NewClipHandler(clipService service.ClipService, userService service.UserService, v *validator.Validate, logger zerolog.Logger) *ClipHandler {
	return &ClipHandler{clipService: clipService, userService: userService, validate: v, logger: logger}
}

// RegisterRoutes mounts clip routes. Creation additionally requires an
// active subscription; the share lookup is the only unauthenticated route.
func (h *ClipHandler) RegisterRoutes(mux *http.ServeMux, authMw, subMw func(http.Handler) http.Handler) {
	mux.Handle("GET /clips", authMw(http.HandlerFunc(h.listClips)))
	mux.Handle("POST /clips", authMw(subMw(http.HandlerFunc(h.createClip))))
	mux.Handle("GET /clips/share/{shareId}", http.HandlerFunc(h.getClipByShareID))
	mux.Handle("GET /clips/{id}", authMw(http.HandlerFunc(h.getClip)))
	mux.Handle("DELETE /clips/{id}", authMw(http.HandlerFunc(h.deleteClip)))
}

// currentUser resolves the local user for the authenticated request,
// bootstrapping the row on first sight of the identity.
func (h *ClipHandler) currentUser(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return nil, false
	}
	user, err := h.userService.GetOrCreate(r.Context(), claims)
	if err != nil {
		if errors.Is(err, service.ErrNoPrimaryEmail) {
			writeError(w, http.StatusBadRequest, "User has no primary email address")
			return nil, false
		}
		h.logger.Error().Err(err).Str("clerk_id", claims.Subject).Msg("Failed to resolve user")
		writeError(w, http.StatusInternalServerError, "Failed to resolve user")
		return nil, false
	}
	return user, true
}

func (h *ClipHandler) listClips(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	clips, err := h.clipService.ListForOwner(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch clips")
		return
	}
	resp := make([]dto.ClipResponseDTO, 0, len(clips))
	for _, c := range clips {
		resp = append(resp, clipToDTO(&c))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ClipHandler) createClip(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var req dto.ClipCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeValidationError(w, "Invalid clip data", err)
		return
	}

	input := service.ClipInput{
		VideoID:    req.VideoID,
		VideoTitle: req.VideoTitle,
		ClipTitle:  req.ClipTitle,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	}
	if req.IncludeSubtitles != nil {
		input.IncludeSubtitles = *req.IncludeSubtitles
	}

	clip, err := h.clipService.Create(r.Context(), input, user.ID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRange) {
			writeError(w, http.StatusBadRequest, "Invalid clip data: start time must be before end time")
			return
		}
		if errors.Is(err, service.ErrShareIDConflict) {
			writeError(w, http.StatusConflict, "Could not allocate a share link, please retry")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create clip")
		return
	}
	writeJSON(w, http.StatusCreated, clipToDTO(clip))
}

func (h *ClipHandler) getClip(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Clip not found")
		return
	}
	clip, err := h.clipService.GetByID(r.Context(), id, user.ID)
	if err != nil {
		if errors.Is(err, service.ErrClipNotFound) {
			writeError(w, http.StatusNotFound, "Clip not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to fetch clip")
		return
	}
	writeJSON(w, http.StatusOK, clipToDTO(clip))
}

func (h *ClipHandler) getClipByShareID(w http.ResponseWriter, r *http.Request) {
	shareID := r.PathValue("shareId")
	clip, err := h.clipService.GetByShareID(r.Context(), shareID)
	if err != nil {
		if errors.Is(err, service.ErrClipNotFound) {
			writeError(w, http.StatusNotFound, "Clip not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to fetch clip")
		return
	}
	writeJSON(w, http.StatusOK, clipToDTO(clip))
}

func (h *ClipHandler) deleteClip(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Clip not found")
		return
	}
	if err := h.clipService.Delete(r.Context(), id, user.ID); err != nil {
		if errors.Is(err, service.ErrClipNotFound) {
			writeError(w, http.StatusNotFound, "Clip not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete clip")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Clip deleted"})
}

func clipToDTO(c *model.Clip) dto.ClipResponseDTO {
	return dto.ClipResponseDTO{
		ID:               c.ID,
		VideoID:          c.VideoID,
		VideoTitle:       c.VideoTitle,
		ClipTitle:        c.ClipTitle,
		StartTime:        c.StartTime,
		EndTime:          c.EndTime,
		IncludeSubtitles: c.IncludeSubtitles,
		ShareID:          c.ShareID,
		CreatedAt:        c.CreatedAt,
	}
}
