package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/medremind/medremind/internal/config"
	"github.com/medremind/medremind/internal/domain"
)

func testManager() *JWTManager {
	return NewJWTManager(config.JWTConfig{
		Secret:          "test-secret-test-secret-test-secret!",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		Issuer:          "medremind-test",
	})
}

func TestTokenRoundTrip(t *testing.T) {
	m := testManager()

	pair, err := m.GenerateTokenPair(&domain.Claims{
		UserKey:   "PAT12345",
		LoginName: "asha",
		Role:      domain.RolePatient,
	})
	assert.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)

	claims, err := m.ValidateAccessToken(pair.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, "PAT12345", claims.UserKey)
	assert.Equal(t, "asha", claims.LoginName)
	assert.Equal(t, domain.RolePatient, claims.Role)
}

func TestRefreshTokenRejectedAsAccessToken(t *testing.T) {
	m := testManager()

	pair, err := m.GenerateTokenPair(&domain.Claims{UserKey: "DOC54321", Role: domain.RoleDoctor})
	assert.NoError(t, err)

	_, err = m.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenTypeMismatch)

	_, err = m.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenTypeMismatch)
}

func TestTamperedTokenRejected(t *testing.T) {
	m := testManager()

	pair, err := m.GenerateTokenPair(&domain.Claims{UserKey: "PAT12345", Role: domain.RolePatient})
	assert.NoError(t, err)

	_, err = m.ValidateAccessToken(pair.AccessToken + "x")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestWrongIssuerRejected(t *testing.T) {
	other := NewJWTManager(config.JWTConfig{
		Secret:          "test-secret-test-secret-test-secret!",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		Issuer:          "someone-else",
	})

	pair, err := other.GenerateTokenPair(&domain.Claims{UserKey: "PAT12345", Role: domain.RolePatient})
	assert.NoError(t, err)

	_, err = testManager().ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
