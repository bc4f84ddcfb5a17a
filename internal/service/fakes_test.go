package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"clipcraft/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
)

// fakeUserRepo is an in-memory UserRepository mirroring the constraints of
// the users table, including the unique clerk_id index.
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[int]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]*model.User)}
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.ClerkID == u.ClerkID {
			return uniqueViolation("users_clerk_id_key")
		}
		if existing.Email == u.Email {
			return uniqueViolation("users_email_key")
		}
	}
	r.nextID++
	u.ID = r.nextID
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id int) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) GetUserByClerkID(_ context.Context, clerkID string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ClerkID == clerkID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetUserByStripeCustomerID(_ context.Context, customerID string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.StripeCustomerID != nil && *u.StripeCustomerID == customerID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdateStripeCustomerID(_ context.Context, userID int, customerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		u.StripeCustomerID = &customerID
		u.UpdatedAt = time.Now()
	}
	return nil
}

func (r *fakeUserRepo) UpdateSubscription(_ context.Context, userID int, subscriptionID *string, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		u.StripeSubscriptionID = subscriptionID
		u.SubscriptionStatus = status
		u.UpdatedAt = time.Now()
	}
	return nil
}

func (r *fakeUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// fakeClipRepo is an in-memory ClipRepository with the share_id unique
// constraint.
type fakeClipRepo struct {
	mu     sync.Mutex
	nextID int
	clips  map[int]*model.Clip
}

func newFakeClipRepo() *fakeClipRepo {
	return &fakeClipRepo{clips: make(map[int]*model.Clip)}
}

func (r *fakeClipRepo) CreateClip(_ context.Context, c *model.Clip) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.clips {
		if existing.ShareID == c.ShareID {
			return uniqueViolation("clips_share_id_key")
		}
	}
	r.nextID++
	c.ID = r.nextID
	c.CreatedAt = time.Now()
	cp := *c
	r.clips[c.ID] = &cp
	return nil
}

func (r *fakeClipRepo) GetClipByID(_ context.Context, id int) (*model.Clip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.clips[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeClipRepo) GetClipByShareID(_ context.Context, shareID string) (*model.Clip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.clips {
		if c.ShareID == shareID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeClipRepo) GetClipsByUserID(_ context.Context, userID int) ([]model.Clip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clips := []model.Clip{}
	for _, c := range r.clips {
		if c.UserID == userID {
			clips = append(clips, *c)
		}
	}
	sort.Slice(clips, func(i, j int) bool {
		return clips[i].CreatedAt.After(clips[j].CreatedAt)
	})
	return clips, nil
}

func (r *fakeClipRepo) DeleteClipByIDAndOwner(_ context.Context, id, userID int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clips[id]
	if !ok || c.UserID != userID {
		return false, nil
	}
	delete(r.clips, id)
	return true, nil
}
