package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"clipcraft/internal/model"
	"clipcraft/internal/repository"

	"github.com/rs/zerolog"
)

var (
	ErrClipNotFound    = errors.New("clip not found")
	ErrInvalidRange    = errors.New("start time must be before end time")
	ErrShareIDConflict = errors.New("could not allocate a unique share id")
)

// shareIDLength matches the share token length the share links were minted
// with; changing it would not break old links but keeps URLs uniform.
const shareIDLength = 12

const shareIDCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

// shareIDMintAttempts bounds how many fresh tokens Create mints when the
// unique constraint reports a collision.
const shareIDMintAttempts = 2

// ClipInput is the validated shape of a clip creation request.
type ClipInput struct {
	VideoID          string
	VideoTitle       string
	ClipTitle        string
	StartTime        int
	EndTime          int
	IncludeSubtitles bool
}

// ClipService implements the clip creation/lookup contract. Clips are
// immutable after creation except for owner-scoped deletion.
type ClipService interface {
	Create(ctx context.Context, input ClipInput, ownerID int) (*model.Clip, error)
	ListForOwner(ctx context.Context, ownerID int) ([]model.Clip, error)
	// GetByID is owner-scoped: clips belonging to other users are reported
	// as not found.
	GetByID(ctx context.Context, id, ownerID int) (*model.Clip, error)
	// GetByShareID is the only read path available to non-owners.
	GetByShareID(ctx context.Context, shareID string) (*model.Clip, error)
	Delete(ctx context.Context, id, ownerID int) error
}

type clipService struct {
	clipRepo repository.ClipRepository
	logger   zerolog.Logger
}

// NewClipService creates a new ClipService with a scoped logger.
func NewClipService(clipRepo repository.ClipRepository, logger zerolog.Logger) ClipService {
	return &clipService{
		clipRepo: clipRepo,
		logger:   logger.With().Str("service", "ClipService").Logger(),
	}
}

// generateShareID returns a random lowercase-alphanumeric token. Collisions
// are not pre-checked; the unique constraint on clips.share_id reports them
// and Create mints a fresh token.
func generateShareID(length int) (string, error) {
	max := big.NewInt(int64(len(shareIDCharset)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate share id: %w", err)
		}
		b[i] = shareIDCharset[n.Int64()]
	}
	return string(b), nil
}

func (s *clipService) Create(ctx context.Context, input ClipInput, ownerID int) (*model.Clip, error) {
	// The DTO schema already checks ordering, but the range invariant must
	// hold regardless of which caller produced the input.
	if input.StartTime < 0 || input.StartTime >= input.EndTime {
		return nil, ErrInvalidRange
	}

	clipTitle := input.ClipTitle
	if clipTitle == "" {
		clipTitle = input.VideoTitle
	}

	for attempt := 0; attempt < shareIDMintAttempts; attempt++ {
		shareID, err := generateShareID(shareIDLength)
		if err != nil {
			return nil, err
		}

		clip := &model.Clip{
			VideoID:          input.VideoID,
			VideoTitle:       input.VideoTitle,
			ClipTitle:        clipTitle,
			StartTime:        input.StartTime,
			EndTime:          input.EndTime,
			IncludeSubtitles: input.IncludeSubtitles,
			ShareID:          shareID,
			UserID:           ownerID,
		}
		err = s.clipRepo.CreateClip(ctx, clip)
		if err == nil {
			return clip, nil
		}
		if !repository.IsUniqueViolation(err) {
			s.logger.Error().Err(err).Int("user_id", ownerID).Str("video_id", input.VideoID).Msg("Failed to create clip")
			return nil, err
		}
		s.logger.Warn().Str("share_id", shareID).Msg("Share id collision, minting a new token")
	}
	return nil, ErrShareIDConflict
}

func (s *clipService) ListForOwner(ctx context.Context, ownerID int) ([]model.Clip, error) {
	clips, err := s.clipRepo.GetClipsByUserID(ctx, ownerID)
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", ownerID).Msg("Failed to list clips")
		return nil, err
	}
	return clips, nil
}

func (s *clipService) GetByID(ctx context.Context, id, ownerID int) (*model.Clip, error) {
	clip, err := s.clipRepo.GetClipByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Ownership is masked: "not yours" and "doesn't exist" are identical.
	if clip == nil || clip.UserID != ownerID {
		return nil, ErrClipNotFound
	}
	return clip, nil
}

func (s *clipService) GetByShareID(ctx context.Context, shareID string) (*model.Clip, error) {
	clip, err := s.clipRepo.GetClipByShareID(ctx, shareID)
	if err != nil {
		return nil, err
	}
	if clip == nil {
		return nil, ErrClipNotFound
	}
	return clip, nil
}

func (s *clipService) Delete(ctx context.Context, id, ownerID int) error {
	deleted, err := s.clipRepo.DeleteClipByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		s.logger.Error().Err(err).Int("clip_id", id).Int("user_id", ownerID).Msg("Failed to delete clip")
		return err
	}
	if !deleted {
		return ErrClipNotFound
	}
	return nil
}
