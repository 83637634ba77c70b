package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avilov/skybooker/internal/domain"
	"github.com/avilov/skybooker/internal/service/token"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newProtectedRouter(tokens token.TokenUseCase, roles ...domain.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	handlers := []gin.HandlerFunc{Authenticate(tokens)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRoles(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		claims := ClaimsFrom(c)
		respondData(c, http.StatusOK, claims.UserID)
	})
	engine.GET("/protected", handlers...)
	return engine
}

func requestWithCookie(value string) *http.Request {
	req := httptest.NewRequest("GET", "/protected", nil)
	if value != "" {
		req.AddCookie(&http.Cookie{Name: AuthCookie, Value: value})
	}
	return req
}

func TestAuthenticate(t *testing.T) {
	tokens := token.NewService("test-secret", time.Hour)
	engine := newProtectedRouter(tokens)

	tok, err := tokens.Issue(&domain.User{ID: "user-1", Role: domain.RolePassenger})
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, requestWithCookie(tok))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, requestWithCookie(""))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, requestWithCookie("garbage"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_RejectsForeignSignature(t *testing.T) {
	tokens := token.NewService("test-secret", time.Hour)
	foreign := token.NewService("other-secret", time.Hour)
	engine := newProtectedRouter(tokens)

	tok, err := foreign.Issue(&domain.User{ID: "user-1", Role: domain.RolePassenger})
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, requestWithCookie(tok))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoles(t *testing.T) {
	tokens := token.NewService("test-secret", time.Hour)
	engine := newProtectedRouter(tokens, domain.RoleAdmin, domain.RoleAirlineStaff)

	testCases := []struct {
		role         domain.Role
		expectedCode int
	}{
		{role: domain.RolePassenger, expectedCode: http.StatusForbidden},
		{role: domain.RoleAirlineStaff, expectedCode: http.StatusOK},
		{role: domain.RoleAdmin, expectedCode: http.StatusOK},
	}

	for _, tc := range testCases {
		tok, err := tokens.Issue(&domain.User{ID: "user-1", Role: tc.role})
		assert.NoError(t, err)

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, requestWithCookie(tok))
		assert.Equal(t, tc.expectedCode, w.Code, "role %s", tc.role)
	}
}
