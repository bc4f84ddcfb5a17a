package repository

import (
	"context"
	"errors"
	"fmt"

	"clipcraft/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository defines methods for accessing locally mirrored user data.
type UserRepository interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUserByID(ctx context.Context, id int) (*model.User, error)
	GetUserByClerkID(ctx context.Context, clerkID string) (*model.User, error)
	GetUserByStripeCustomerID(ctx context.Context, customerID string) (*model.User, error)
	UpdateStripeCustomerID(ctx context.Context, userID int, customerID string) error
	// UpdateSubscription mirrors billing state from a webhook event. A nil
	// subscriptionID clears the stored subscription.
	UpdateSubscription(ctx context.Context, userID int, subscriptionID *string, status string) error
}

type userRepo struct {
	pool *pgxpool.Pool
}

// NewUserRepo creates a new UserRepository.
func NewUserRepo(pool *pgxpool.Pool) UserRepository {
	return &userRepo{pool: pool}
}

const userColumns = `id, clerk_id, email, username, stripe_customer_id, stripe_subscription_id, subscription_status, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.ClerkID,
		&u.Email,
		&u.Username,
		&u.StripeCustomerID,
		&u.StripeSubscriptionID,
		&u.SubscriptionStatus,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) CreateUser(ctx context.Context, u *model.User) error {
	const q = `
        INSERT INTO users (clerk_id, email, username, subscription_status)
        VALUES ($1, $2, $3, $4)
        RETURNING ` + userColumns
	row := r.pool.QueryRow(ctx, q, u.ClerkID, u.Email, u.Username, u.SubscriptionStatus)
	created, err := scanUser(row)
	if err != nil {
		return fmt.Errorf("create user for clerk id %s: %w", u.ClerkID, err)
	}
	*u = *created
	return nil
}

func (r *userRepo) GetUserByID(ctx context.Context, id int) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		return nil, fmt.Errorf("fetch user %d: %w", id, err)
	}
	return u, nil
}

func (r *userRepo) GetUserByClerkID(ctx context.Context, clerkID string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE clerk_id = $1`
	u, err := scanUser(r.pool.QueryRow(ctx, q, clerkID))
	if err != nil {
		return nil, fmt.Errorf("fetch user by clerk id %s: %w", clerkID, err)
	}
	return u, nil
}

func (r *userRepo) GetUserByStripeCustomerID(ctx context.Context, customerID string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE stripe_customer_id = $1`
	u, err := scanUser(r.pool.QueryRow(ctx, q, customerID))
	if err != nil {
		return nil, fmt.Errorf("fetch user by stripe customer %s: %w", customerID, err)
	}
	return u, nil
}

func (r *userRepo) UpdateStripeCustomerID(ctx context.Context, userID int, customerID string) error {
	const q = `
        UPDATE users
        SET stripe_customer_id = $2, updated_at = NOW()
        WHERE id = $1`
	if _, err := r.pool.Exec(ctx, q, userID, customerID); err != nil {
		return fmt.Errorf("store stripe customer id for user %d: %w", userID, err)
	}
	return nil
}

func (r *userRepo) UpdateSubscription(ctx context.Context, userID int, subscriptionID *string, status string) error {
	const q = `
        UPDATE users
        SET stripe_subscription_id = $2, subscription_status = $3, updated_at = NOW()
        WHERE id = $1`
	if _, err := r.pool.Exec(ctx, q, userID, subscriptionID, status); err != nil {
		return fmt.Errorf("update subscription for user %d: %w", userID, err)
	}
	return nil
}
