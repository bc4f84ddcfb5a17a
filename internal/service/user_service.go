package service

import (
	"context"
	"errors"
	"strings"

	"clipcraft/internal/model"
	"clipcraft/internal/repository"
	"clipcraft/internal/util"

	"github.com/rs/zerolog"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrNoPrimaryEmail = errors.New("user has no primary email address")
)

// UserService reconciles Clerk identities with locally mirrored user rows.
// It performs no password handling or token issuance of its own.
type UserService interface {
	// GetOrCreate returns the local user for the token's subject, creating
	// the row from the token's profile claims on first sight.
	GetOrCreate(ctx context.Context, claims *util.Claims) (*model.User, error)
	Get(ctx context.Context, id int) (*model.User, error)
	IsSubscribed(ctx context.Context, clerkID string) (bool, error)
}

type userService struct {
	userRepo repository.UserRepository
	logger   zerolog.Logger
}

// NewUserService creates a new UserService with a scoped logger.
func NewUserService(userRepo repository.UserRepository, logger zerolog.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		logger:   logger.With().Str("service", "UserService").Logger(),
	}
}

func (s *userService) GetOrCreate(ctx context.Context, claims *util.Claims) (*model.User, error) {
	u, err := s.userRepo.GetUserByClerkID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if u != nil {
		return u, nil
	}

	if claims.Email == "" {
		return nil, ErrNoPrimaryEmail
	}
	username := claims.Username
	if username == "" {
		username = strings.SplitN(claims.Email, "@", 2)[0]
	}

	u = &model.User{
		ClerkID:            claims.Subject,
		Email:              claims.Email,
		Username:           username,
		SubscriptionStatus: model.SubscriptionInactive,
	}
	if err := s.userRepo.CreateUser(ctx, u); err != nil {
		// A concurrent first request may have created the row between the
		// lookup and the insert; the unique clerk_id constraint resolves the
		// race, so re-read instead of failing.
		if repository.IsUniqueViolation(err) {
			existing, lookupErr := s.userRepo.GetUserByClerkID(ctx, claims.Subject)
			if lookupErr == nil && existing != nil {
				return existing, nil
			}
		}
		s.logger.Error().Err(err).Str("clerk_id", claims.Subject).Msg("Failed to create local user")
		return nil, err
	}
	s.logger.Info().Str("clerk_id", claims.Subject).Int("user_id", u.ID).Msg("Created local user for new identity")
	return u, nil
}

func (s *userService) Get(ctx context.Context, id int) (*model.User, error) {
	u, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// IsSubscribed checks the locally mirrored subscription status. The stored
// status string is the source of truth; a stripe customer id alone never
// grants access.
func (s *userService) IsSubscribed(ctx context.Context, clerkID string) (bool, error) {
	u, err := s.userRepo.GetUserByClerkID(ctx, clerkID)
	if err != nil {
		return false, err
	}
	if u == nil {
		return false, nil
	}
	return u.IsSubscribed(), nil
}
