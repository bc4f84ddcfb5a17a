package model

import "time"

// UserMessage is a contact-form submission. Write-once: there is no update
// or delete path.
type UserMessage struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Message   string    `db:"message" json:"message"`
	UserID    *int      `db:"user_id" json:"userId,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
