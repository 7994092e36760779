package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orgconsole/admin-api/internal/model"
)

func testUser() *model.User {
	return &model.User{
		Base:           model.Base{ID: uuid.New()},
		OrganizationID: uuid.New(),
		Email:          "admin@example.com",
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := NewJWTService(Config{Secret: "test-secret", Issuer: "admin-api"})
	user := testUser()

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.OrganizationID, claims.OrganizationID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, "access", claims.TokenType)
	assert.Equal(t, "admin-api", claims.Issuer)
}

func TestRefreshTokenRejectedAsAccess(t *testing.T) {
	svc := NewJWTService(Config{Secret: "test-secret"})

	token, err := svc.GenerateRefreshToken(testUser())
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	claims, err := svc.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "refresh", claims.TokenType)
}

func TestTokenWrongSecret(t *testing.T) {
	svc := NewJWTService(Config{Secret: "test-secret"})

	token, err := svc.GenerateAccessToken(testUser())
	require.NoError(t, err)

	other := NewJWTService(Config{Secret: "different-secret"})
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := NewJWTService(Config{Secret: "test-secret", AccessExpiry: -time.Minute})

	token, err := svc.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGarbageTokenRejected(t *testing.T) {
	svc := NewJWTService(Config{Secret: "test-secret"})

	_, err := svc.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDefaultExpiries(t *testing.T) {
	svc := NewJWTService(Config{Secret: "test-secret"})
	assert.Equal(t, 24*time.Hour, svc.AccessTokenTTL())
}
