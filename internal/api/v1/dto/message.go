package dto

import "time"

// MessageCreateDTO is the contact-form request body.
type MessageCreateDTO struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
}

// MessageResponseDTO is the stored submission as returned to the client. The
// linked user, if any, stays internal.
type MessageResponseDTO struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
