package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"post-muse/internal/domain"
	"post-muse/internal/quota"
	"post-muse/internal/repository"
)

var (
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidAdminSecret indicates the admin registration secret is incorrect.
	ErrInvalidAdminSecret = errors.New("invalid admin secret")
	// ErrUserAlreadyExists is returned when registering an email that is taken.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrPasswordMismatch indicates password and confirmation differ.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrInvalidInput marks registration input the caller must correct.
	ErrInvalidInput = errors.New("invalid input")
)

// UserService describes user lifecycle operations.
type UserService interface {
	Register(ctx context.Context, email, password, confirm, providedAdminSecret string, wantAdmin bool) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type userService struct {
	users       repository.UserRepository
	jwtSecret   []byte
	adminSecret string
	now         func() time.Time
}

func NewUserService(users repository.UserRepository, jwtSecret, adminSecret string) UserService {
	return &userService{
		users:       users,
		jwtSecret:   []byte(jwtSecret),
		adminSecret: strings.TrimSpace(adminSecret),
		now:         time.Now,
	}
}

func (s *userService) Register(ctx context.Context, email, password, confirm, providedAdminSecret string, wantAdmin bool) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	password = strings.TrimSpace(password)

	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}
	if strings.TrimSpace(confirm) != password {
		return nil, ErrPasswordMismatch
	}

	tier := domain.TierFree
	if wantAdmin {
		if s.adminSecret == "" {
			return nil, fmt.Errorf("admin registration secret is not configured")
		}
		if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(providedAdminSecret)), []byte(s.adminSecret)) != 1 {
			return nil, ErrInvalidAdminSecret
		}
		tier = domain.TierAdmin
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Tier:         tier,
		QuotaResetAt: quota.NextReset(s.now()),
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	user.AccessToken = token

	if err := s.users.Create(ctx, user); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "already exists") {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	return user, nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if user.AccessToken == "" {
		token, err := s.issueToken(user)
		if err != nil {
			return nil, err
		}
		if err := s.users.UpdateAccessToken(ctx, user.ID, token); err != nil {
			return nil, err
		}
		user.AccessToken = token
	}

	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// issueToken signs the user's access token. The token is also persisted on
// the user row, so validation compares against storage and a reissue
// revokes the old one.
func (s *userService) issueToken(user *domain.User) (string, error) {
	if len(s.jwtSecret) == 0 {
		return "", fmt.Errorf("jwt secret is not configured")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"tier":    string(user.Tier),
		"iat":     s.now().Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}
