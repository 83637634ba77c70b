package token

import (
	"testing"
	"time"

	"github.com/avilov/skybooker/internal/domain"
	"github.com/stretchr/testify/assert"
)

func testUser() *domain.User {
	return &domain.User{
		ID:    "user-1",
		Name:  "Anna",
		Email: "anna@example.com",
		Role:  domain.RoleAirlineStaff,
	}
}

func TestService_IssueAndVerify(t *testing.T) {
	service := NewService("test-secret", time.Hour)

	tok, err := service.Issue(testUser())
	assert.NoError(t, err)
	assert.NotEmpty(t, tok)

	claims := service.Verify(tok)
	assert.NotNil(t, claims)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "anna@example.com", claims.Email)
	assert.Equal(t, domain.RoleAirlineStaff, claims.Role)
}

func TestService_Verify_Expired(t *testing.T) {
	service := NewService("test-secret", -time.Minute)

	tok, err := service.Issue(testUser())
	assert.NoError(t, err)

	assert.Nil(t, service.Verify(tok))
}

func TestService_Verify_WrongSecret(t *testing.T) {
	issuer := NewService("secret-a", time.Hour)
	verifier := NewService("secret-b", time.Hour)

	tok, err := issuer.Issue(testUser())
	assert.NoError(t, err)

	assert.Nil(t, verifier.Verify(tok))
}

func TestService_Verify_Garbage(t *testing.T) {
	service := NewService("test-secret", time.Hour)

	assert.Nil(t, service.Verify(""))
	assert.Nil(t, service.Verify("not.a.token"))
}
