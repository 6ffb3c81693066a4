package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"post-muse/internal/domain"
	"post-muse/internal/service"
)

type stubUserService struct {
	registerUser *domain.User
	registerErr  error
}

func (s *stubUserService) Register(ctx context.Context, email, password, confirm, providedAdminSecret string, wantAdmin bool) (*domain.User, error) {
	return s.registerUser, s.registerErr
}

func (s *stubUserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	return nil, fmt.Errorf("not implemented")
}

func (s *stubUserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return nil, fmt.Errorf("user not found")
}

func postRegister(users *stubUserService) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewHandler(users, nil, nil, nil, nil, nil, nil, testJWTSecret, 100, 100)
	handler.RegisterRoutes(router)

	body := `{"email":"a@b.com","password":"password123","confirm_password":"password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/user", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRegisterMapsValidationTo400(t *testing.T) {
	users := &stubUserService{registerErr: fmt.Errorf("%w: a valid email is required", service.ErrInvalidInput)}
	assert.Equal(t, http.StatusBadRequest, postRegister(users).Code)

	users = &stubUserService{registerErr: service.ErrUserAlreadyExists}
	assert.Equal(t, http.StatusBadRequest, postRegister(users).Code)
}

func TestRegisterMapsAdminSecretTo401(t *testing.T) {
	users := &stubUserService{registerErr: service.ErrInvalidAdminSecret}
	assert.Equal(t, http.StatusUnauthorized, postRegister(users).Code)
}

func TestRegisterMapsPersistenceFailureTo500(t *testing.T) {
	users := &stubUserService{registerErr: errors.New("insert user: disk I/O error")}
	assert.Equal(t, http.StatusInternalServerError, postRegister(users).Code)
}

func TestRegisterSuccess(t *testing.T) {
	users := &stubUserService{registerUser: &domain.User{
		ID: "u1", Email: "a@b.com", Tier: domain.TierFree, AccessToken: "tok",
	}}
	rec := postRegister(users)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"access_token":"tok"`)
}
