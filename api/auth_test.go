package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avilov/skybooker/internal/domain"
	"github.com/avilov/skybooker/internal/service/token"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	args := m.Called(ctx, name, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthUseCase) Login(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthUseCase) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	args := m.Called(ctx, userID, currentPassword, newPassword)
	return args.Error(0)
}

func (m *MockAuthUseCase) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthUseCase) UpdateProfile(ctx context.Context, userID, name string) error {
	args := m.Called(ctx, userID, name)
	return args.Error(0)
}

func (m *MockAuthUseCase) UpdateRole(ctx context.Context, userID string, role domain.Role) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}

func newAuthRouter(authSvc *MockAuthUseCase, tokens token.TokenUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	handler := NewAuthHandler(authSvc, tokens, 3600, zerolog.Nop())
	handler.Register(engine.Group("/api/auth"))
	return engine
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == AuthCookie {
			return cookie
		}
	}
	return nil
}

func TestAuthHandler_register_setsSessionCookie(t *testing.T) {
	mockAuth := &MockAuthUseCase{}
	tokens := token.NewService("test-secret", time.Hour)
	engine := newAuthRouter(mockAuth, tokens)

	user := &domain.User{ID: "user-1", Name: "Anna", Email: "anna@example.com", Role: domain.RolePassenger}
	mockAuth.On("Register", mock.Anything, "Anna", "anna@example.com", "secret123").Return(user, nil).Once()

	body, _ := json.Marshal(registerRequest{Name: "Anna", Email: "anna@example.com", Password: "secret123"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	cookie := sessionCookie(t, w)
	assert.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.NotNil(t, tokens.Verify(cookie.Value))

	// Password hash must not leak into the response.
	assert.NotContains(t, w.Body.String(), "passwordHash")
	mockAuth.AssertExpectations(t)
}

func TestAuthHandler_login(t *testing.T) {
	mockAuth := &MockAuthUseCase{}
	tokens := token.NewService("test-secret", time.Hour)
	engine := newAuthRouter(mockAuth, tokens)

	user := &domain.User{ID: "user-1", Email: "anna@example.com", Role: domain.RolePassenger}
	mockAuth.On("Login", mock.Anything, "anna@example.com", "secret123").Return(user, nil).Once()
	mockAuth.On("Login", mock.Anything, "anna@example.com", "wrong").Return(nil, domain.ErrInvalidCredentials).Once()

	body, _ := json.Marshal(loginRequest{Email: "anna@example.com", Password: "secret123"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, sessionCookie(t, w))

	body, _ = json.Marshal(loginRequest{Email: "anna@example.com", Password: "wrong"})
	w = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, sessionCookie(t, w))
}

func TestAuthHandler_logout_expiresCookie(t *testing.T) {
	engine := newAuthRouter(&MockAuthUseCase{}, token.NewService("test-secret", time.Hour))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("POST", "/api/auth/logout", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	cookie := sessionCookie(t, w)
	assert.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}
