package jwt

import (
	"testing"
	"time"

	"doctor-connect/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: time.Minute})
	doctorID := 2

	t.Run("round trip", func(t *testing.T) {
		token, tokenID, err := svc.GenerateAccessToken(7, "doc@clinic.test", "doctor", &doctorID)
		require.NoError(t, err)
		require.NotEmpty(t, tokenID)

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, 7, claims.UserID)
		assert.Equal(t, "doctor", claims.Role)
		assert.Equal(t, tokenID, claims.TokenID)
		require.NotNil(t, claims.DoctorID)
		assert.Equal(t, 2, *claims.DoctorID)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{Secret: "other", AccessExpiry: time.Minute})
		token, _, err := other.GenerateAccessToken(1, "a@b.test", "patient", nil)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		expired := NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: time.Minute})
		expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
		token, _, err := expired.GenerateAccessToken(1, "a@b.test", "patient", nil)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})
}
