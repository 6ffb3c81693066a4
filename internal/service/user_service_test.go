package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"post-muse/internal/domain"
)

type fakeUserRepo struct {
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (r *fakeUserRepo) Init(ctx context.Context) error { return nil }

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	if _, ok := r.byEmail[user.Email]; ok {
		return fmt.Errorf("user already exists")
	}
	user.CreatedAt = time.Now().UTC()
	r.byID[user.ID] = user
	r.byEmail[user.Email] = user
	return nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("user not found")
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("user not found")
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) UpdateAccessToken(ctx context.Context, id, token string) error {
	user, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("user not found")
	}
	user.AccessToken = token
	return nil
}

func (r *fakeUserRepo) ResetQuotaIfDue(ctx context.Context, id string, now, nextReset time.Time) error {
	return nil
}

func (r *fakeUserRepo) IncrementQuotaBelow(ctx context.Context, id string, limit int) (bool, error) {
	return true, nil
}

func (r *fakeUserRepo) IncrementQuota(ctx context.Context, id string) error { return nil }

func newTestUserService(repo *fakeUserRepo) UserService {
	return NewUserService(repo, "test-jwt-secret", "admin-secret")
}

func TestRegisterFreeUser(t *testing.T) {
	svc := newTestUserService(newFakeUserRepo())

	user, err := svc.Register(context.Background(), "Alice@Example.com", "password123", "password123", "", false)
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, domain.TierFree, user.Tier)
	assert.NotEmpty(t, user.ID)
	assert.NotEmpty(t, user.AccessToken)
	assert.True(t, user.QuotaResetAt.After(time.Now()))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
}

func TestRegisterIssuesVerifiableToken(t *testing.T) {
	svc := newTestUserService(newFakeUserRepo())

	user, err := svc.Register(context.Background(), "a@b.com", "password123", "password123", "", false)
	require.NoError(t, err)

	parsed, err := jwt.Parse(user.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-jwt-secret"), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, user.ID, claims["user_id"])
	assert.Equal(t, "free", claims["tier"])
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestUserService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "not-an-email", "password123", "password123", "", false)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register(ctx, "a@b.com", "short", "short", "", false)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register(ctx, "a@b.com", "password123", "different", "", false)
	require.ErrorIs(t, err, ErrPasswordMismatch)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestUserService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@b.com", "password123", "password123", "", false)
	require.NoError(t, err)

	_, err = svc.Register(ctx, "a@b.com", "password123", "password123", "", false)
	require.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestRegisterAdmin(t *testing.T) {
	svc := newTestUserService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@b.com", "password123", "password123", "wrong", true)
	require.ErrorIs(t, err, ErrInvalidAdminSecret)

	user, err := svc.Register(ctx, "a@b.com", "password123", "password123", "admin-secret", true)
	require.NoError(t, err)
	assert.Equal(t, domain.TierAdmin, user.Tier)
	assert.True(t, user.IsAdmin())
}

func TestAuthenticate(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "a@b.com", "password123", "password123", "", false)
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "A@B.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.Equal(t, registered.AccessToken, user.AccessToken)

	_, err = svc.Authenticate(ctx, "a@b.com", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@b.com", "password123")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
