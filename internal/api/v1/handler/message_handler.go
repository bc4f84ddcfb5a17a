package handler

import (
	"encoding/json"
	"net/http"

	"clipcraft/internal/api/v1/dto"
	"clipcraft/internal/middleware"
	"clipcraft/internal/model"
	"clipcraft/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// MessageHandler handles contact-form submissions.
type MessageHandler struct {
	messageService service.MessageService
	userService    service.UserService
	validate       *validator.Validate
	logger         zerolog.Logger
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(messageService service.MessageService, userService service.UserService, v *validator.Validate, logger zerolog.Logger) *MessageHandler {
	return &MessageHandler{messageService: messageService, userService: userService, validate: v, logger: logger}
}

// RegisterRoutes mounts the contact-form route. Auth is optional: signed-in
// submitters get their message linked to their account.
func (h *MessageHandler) RegisterRoutes(mux *http.ServeMux, optionalAuthMw func(http.Handler) http.Handler) {
	mux.Handle("POST /messages", optionalAuthMw(http.HandlerFunc(h.createMessage)))
}

func (h *MessageHandler) createMessage(w http.ResponseWriter, r *http.Request) {
	var req dto.MessageCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeValidationError(w, "Invalid message data", err)
		return
	}

	msg := &model.UserMessage{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	}
	// Linking to the signed-in user is best effort; an unresolvable
	// identity never blocks a contact message.
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		if user, err := h.userService.GetOrCreate(r.Context(), claims); err == nil {
			msg.UserID = &user.ID
		} else {
			h.logger.Warn().Err(err).Str("clerk_id", claims.Subject).Msg("Could not link contact message to user")
		}
	}

	created, err := h.messageService.Create(r.Context(), msg)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store message")
		return
	}
	writeJSON(w, http.StatusCreated, dto.MessageResponseDTO{
		ID:        created.ID,
		Name:      created.Name,
		Email:     created.Email,
		Message:   created.Message,
		CreatedAt: created.CreatedAt,
	})
}
