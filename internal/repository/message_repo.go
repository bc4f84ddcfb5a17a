package repository

import (
	"context"
	"fmt"

	"clipcraft/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MessageRepository stores contact-form submissions. Write-once: there is no
// read-back path in the application.
type MessageRepository interface {
	CreateMessage(ctx context.Context, m *model.UserMessage) error
}

type messageRepo struct {
	pool *pgxpool.Pool
}

// NewMessageRepo creates a new MessageRepository.
func NewMessageRepo(pool *pgxpool.Pool) MessageRepository {
	return &messageRepo{pool: pool}
}

func (r *messageRepo) CreateMessage(ctx context.Context, m *model.UserMessage) error {
	const q = `
        INSERT INTO user_messages (name, email, message, user_id)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, q, m.Name, m.Email, m.Message, m.UserID).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("create user message: %w", err)
	}
	return nil
}
