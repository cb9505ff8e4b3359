package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/backoffice-service/internal/domain"
)

func TestGenerateAndParseToken(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	token, expiresAt, err := tm.GenerateToken("acc-1", "admin@example.com", domain.RoleAdmin)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", claims.ID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.Equal(t, TokenTypeAdmin, claims.TokenType)
	assert.Equal(t, "acc-1", claims.Subject)
}

func TestParseTokenWrongSecret(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	other := NewTokenManager("other-secret", 60)

	token, _, err := tm.GenerateToken("acc-1", "admin@example.com", domain.RoleAdmin)
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	claims := &Claims{
		ID:        "acc-1",
		Email:     "admin@example.com",
		Role:      domain.RoleAdmin,
		TokenType: TokenTypeAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = tm.ParseToken(signed)
	assert.Error(t, err)
}

func TestParseTokenRejectsUnexpectedMethod(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	claims := &Claims{ID: "acc-1", TokenType: TokenTypeAdmin}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = tm.ParseToken(signed)
	assert.Error(t, err)
}
