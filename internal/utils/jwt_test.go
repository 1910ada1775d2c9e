// internal/utils/jwt_test.go
package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestJWTRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")
	userID := uuid.New()

	token, err := GenerateJWT(userID, "Maria Silva", "user", "verified", 1)
	assert.NoError(t, err)

	claims, err := ValidateJWT(token)
	assert.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "Maria Silva", claims.Name)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, "verified", claims.KYCStatus)
	assert.Equal(t, "cincoin-platform", claims.Issuer)
}

func TestJWTTamperedTokenRejected(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateJWT(uuid.New(), "Maria Silva", "user", "verified", 1)
	assert.NoError(t, err)

	_, err = ValidateJWT(token + "x")
	assert.Error(t, err)
}

func TestJWTWrongSecretRejected(t *testing.T) {
	SetJWTSecret("secret-a")
	token, err := GenerateJWT(uuid.New(), "Maria Silva", "user", "verified", 1)
	assert.NoError(t, err)

	SetJWTSecret("secret-b")
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")
	userID := uuid.New()

	token, err := GenerateRefreshToken(userID, 24)
	assert.NoError(t, err)

	subject, err := ValidateRefreshToken(token)
	assert.NoError(t, err)
	assert.Equal(t, userID.String(), subject)
}
