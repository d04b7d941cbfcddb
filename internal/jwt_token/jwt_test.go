package jwttoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "accredit/pkg/domain"
	dErrors "accredit/pkg/domain-errors"
)

var jwtService = NewJWTService("test-signing-key", "test-issuer", "test-audience")

func TestGenerateAndValidate(t *testing.T) {
	userID := id.UserID(uuid.New())

	token, err := jwtService.GenerateAccessToken(userID, time.Hour)
	require.NoError(t, err)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.AdvocateID())
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)

	adapted, err := NewJWTServiceAdapter(jwtService).ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), adapted.UserID)
	assert.Equal(t, claims.ID, adapted.JTI)
}

func TestValidateToken(t *testing.T) {
	userID := id.UserID(uuid.New())

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := jwtService.ValidateToken("invalid-token-string")
		require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "invalid token"))
	})

	t.Run("expired tokens are rejected", func(t *testing.T) {
		token, err := jwtService.GenerateAccessToken(userID, -time.Hour)
		require.NoError(t, err)

		_, err = jwtService.ValidateToken(token)
		require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "token has expired"))
	})

	t.Run("foreign signing key is rejected", func(t *testing.T) {
		other := NewJWTService("other-key", "test-issuer", "test-audience")
		token, err := other.GenerateAccessToken(userID, time.Hour)
		require.NoError(t, err)

		_, err = jwtService.ValidateToken(token)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("wrong audience is rejected", func(t *testing.T) {
		other := NewJWTService("test-signing-key", "test-issuer", "someone-else")
		token, err := other.GenerateAccessToken(userID, time.Hour)
		require.NoError(t, err)

		_, err = jwtService.ValidateToken(token)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("sub is accepted when user_id is absent", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    "test-issuer",
			Audience:  []string{"test-audience"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		signed, err := token.SignedString([]byte("test-signing-key"))
		require.NoError(t, err)

		claims, err := jwtService.ValidateToken(signed)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), claims.AdvocateID())
	})
}
