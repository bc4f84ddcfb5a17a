package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"clipcraft/internal/middleware"
	"clipcraft/internal/model"
	"clipcraft/internal/repository"
	"clipcraft/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

const testJWTKey = "handler-test-secret"

// In-memory repositories backing the full handler stack. They mirror the
// unique constraints the real tables enforce.

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[int]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]*model.User)}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.ClerkID == u.ClerkID || existing.Email == u.Email {
			return fmt.Errorf("create user: %w", repository.ErrDuplicate)
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
	}
	return nil
}

func (r *fakeUserRepo) UpdateSubscription(_ context.Context, userID int, subscriptionID *string, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		u.StripeSubscriptionID = subscriptionID
		u.SubscriptionStatus = status
	}
	return nil
}

func (r *fakeUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

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
			return fmt.Errorf("create clip: %w", repository.ErrDuplicate)
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

type fakeMessageRepo struct {
	mu       sync.Mutex
	nextID   int
	messages []model.UserMessage
}

func (r *fakeMessageRepo) CreateMessage(_ context.Context, m *model.UserMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	m.ID = r.nextID
	m.CreatedAt = time.Now()
	r.messages = append(r.messages, *m)
	return nil
}

// api wires the real middleware, services, and handlers over the in-memory
// repositories, matching the production router minus the HTTP server.
type api struct {
	mux      *http.ServeMux
	userRepo *fakeUserRepo
	clipRepo *fakeClipRepo
	msgRepo  *fakeMessageRepo
}

func newTestAPI(t *testing.T) *api {
	t.Helper()
	logger := zerolog.Nop()
	userRepo := newFakeUserRepo()
	clipRepo := newFakeClipRepo()
	msgRepo := &fakeMessageRepo{}

	userSvc := service.NewUserService(userRepo, logger)
	clipSvc := service.NewClipService(clipRepo, logger)
	msgSvc := service.NewMessageService(msgRepo, logger)

	v := validator.New(validator.WithRequiredStructEnabled())
	authMw := middleware.AuthMiddleware(testJWTKey, logger)
	optionalAuthMw := middleware.OptionalAuthMiddleware(testJWTKey, logger)
	subMw := middleware.RequireSubscription(userSvc, logger)

	mux := http.NewServeMux()
	NewClipHandler(clipSvc, userSvc, v, logger).RegisterRoutes(mux, authMw, subMw)
	NewUserHandler(userSvc, logger).RegisterRoutes(mux, authMw)
	NewMessageHandler(msgSvc, userSvc, v, logger).RegisterRoutes(mux, optionalAuthMw)

	return &api{mux: mux, userRepo: userRepo, clipRepo: clipRepo, msgRepo: msgRepo}
}

// signToken issues an HS256 session token the auth middleware accepts.
func signToken(t *testing.T, subject, email, username string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":      subject,
		"email":    email,
		"username": username,
		"exp":      time.Now().Add(time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTKey))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

// seedUser inserts a user row directly, bypassing the bootstrap path.
func (a *api) seedUser(t *testing.T, clerkID, email, status string) *model.User {
	t.Helper()
	u := &model.User{
		ClerkID:            clerkID,
		Email:              email,
		Username:           "seeded",
		SubscriptionStatus: status,
	}
	if err := a.userRepo.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func (a *api) seedClip(t *testing.T, userID int, shareID string) *model.Clip {
	t.Helper()
	c := &model.Clip{
		VideoID:    "dQw4w9WgXcQ",
		VideoTitle: "Some Video",
		ClipTitle:  "Best part",
		StartTime:  10,
		EndTime:    40,
		ShareID:    shareID,
		UserID:     userID,
	}
	if err := a.clipRepo.CreateClip(context.Background(), c); err != nil {
		t.Fatalf("seed clip: %v", err)
	}
	return c
}

// do performs a request against the test mux. A non-empty token is sent as a
// Bearer credential; a non-nil body is JSON encoded.
func (a *api) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	a.mux.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), into); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}
