package repository

import (
	"context"
	"errors"
	"fmt"

	"clipcraft/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ClipRepository defines methods for accessing clip data.
type ClipRepository interface {
	CreateClip(ctx context.Context, c *model.Clip) error
	GetClipByID(ctx context.Context, id int) (*model.Clip, error)
	GetClipByShareID(ctx context.Context, shareID string) (*model.Clip, error)
	GetClipsByUserID(ctx context.Context, userID int) ([]model.Clip, error)
	// DeleteClipByIDAndOwner removes the clip only when it belongs to userID
	// and reports whether a row was deleted, so callers can treat someone
	// else's clip the same as a missing one.
	DeleteClipByIDAndOwner(ctx context.Context, id, userID int) (bool, error)
}

type clipRepo struct {
	pool *pgxpool.Pool
}

// NewClipRepo creates a new ClipRepository.
func NewClipRepo(pool *pgxpool.Pool) ClipRepository {
	return &clipRepo{pool: pool}
}

const clipColumns = `id, video_id, video_title, clip_title, start_time, end_time, include_subtitles, share_id, user_id, created_at`

func scanClip(row pgx.Row) (*model.Clip, error) {
	var c model.Clip
	err := row.Scan(
		&c.ID,
		&c.VideoID,
		&c.VideoTitle,
		&c.ClipTitle,
		&c.StartTime,
		&c.EndTime,
		&c.IncludeSubtitles,
		&c.ShareID,
		&c.UserID,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *clipRepo) CreateClip(ctx context.Context, c *model.Clip) error {
	const q = `
        INSERT INTO clips (video_id, video_title, clip_title, start_time, end_time, include_subtitles, share_id, user_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING ` + clipColumns
	row := r.pool.QueryRow(ctx, q,
		c.VideoID, c.VideoTitle, c.ClipTitle, c.StartTime, c.EndTime, c.IncludeSubtitles, c.ShareID, c.UserID)
	created, err := scanClip(row)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("create clip with share id %s: %w", c.ShareID, ErrDuplicate)
		}
		return fmt.Errorf("create clip: %w", err)
	}
	*c = *created
	return nil
}

func (r *clipRepo) GetClipByID(ctx context.Context, id int) (*model.Clip, error) {
	const q = `SELECT ` + clipColumns + ` FROM clips WHERE id = $1`
	c, err := scanClip(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		return nil, fmt.Errorf("fetch clip %d: %w", id, err)
	}
	return c, nil
}

func (r *clipRepo) GetClipByShareID(ctx context.Context, shareID string) (*model.Clip, error) {
	const q = `SELECT ` + clipColumns + ` FROM clips WHERE share_id = $1`
	c, err := scanClip(r.pool.QueryRow(ctx, q, shareID))
	if err != nil {
		return nil, fmt.Errorf("fetch clip by share id %s: %w", shareID, err)
	}
	return c, nil
}

func (r *clipRepo) GetClipsByUserID(ctx context.Context, userID int) ([]model.Clip, error) {
	const q = `
        SELECT ` + clipColumns + `
        FROM clips
        WHERE user_id = $1
        ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch clips for user %d: %w", userID, err)
	}
	defer rows.Close()

	var clips []model.Clip
	for rows.Next() {
		var c model.Clip
		if err := rows.Scan(
			&c.ID,
			&c.VideoID,
			&c.VideoTitle,
			&c.ClipTitle,
			&c.StartTime,
			&c.EndTime,
			&c.IncludeSubtitles,
			&c.ShareID,
			&c.UserID,
			&c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan clip for user %d: %w", userID, err)
		}
		clips = append(clips, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clips for user %d: %w", userID, err)
	}

	// If no clips found, return an empty slice, not nil
	if len(clips) == 0 {
		return []model.Clip{}, nil
	}
	return clips, nil
}

func (r *clipRepo) DeleteClipByIDAndOwner(ctx context.Context, id, userID int) (bool, error) {
	const q = `DELETE FROM clips WHERE id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, q, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete clip %d for user %d: %w", id, userID, err)
	}
	return tag.RowsAffected() > 0, nil
}
