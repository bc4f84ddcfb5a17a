package service

import (
	"context"

	"clipcraft/internal/model"
	"clipcraft/internal/repository"

	"github.com/rs/zerolog"
)

// MessageService stores contact-form submissions, optionally linked to the
// signed-in user.
type MessageService interface {
	Create(ctx context.Context, m *model.UserMessage) (*model.UserMessage, error)
}

type messageService struct {
	messageRepo repository.MessageRepository
	logger      zerolog.Logger
}

// NewMessageService creates a new MessageService with a scoped logger.
func NewMessageService(messageRepo repository.MessageRepository, logger zerolog.Logger) MessageService {
	return &messageService{
		messageRepo: messageRepo,
		logger:      logger.With().Str("service", "MessageService").Logger(),
	}
}

func (s *messageService) Create(ctx context.Context, m *model.UserMessage) (*model.UserMessage, error) {
	if err := s.messageRepo.CreateMessage(ctx, m); err != nil {
		s.logger.Error().Err(err).Str("email", m.Email).Msg("Failed to store contact message")
		return nil, err
	}
	return m, nil
}
