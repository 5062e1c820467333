package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T, ttl time.Duration) TokenService {
	t.Helper()

	service, err := NewTokenService(ttl, "workforce-suite", "workforce-api", false, "", "", "test-secret-key-for-hmac-signing")
	require.NoError(t, err)
	return service
}

func TestNewTokenService(t *testing.T) {
	tests := []struct {
		name       string
		useRSAKeys bool
		secretKey  string
		wantErr    bool
	}{
		{
			name:       "HMAC with secret",
			useRSAKeys: false,
			secretKey:  "some-secret",
			wantErr:    false,
		},
		{
			name:       "HMAC without secret",
			useRSAKeys: false,
			secretKey:  "",
			wantErr:    true,
		},
		{
			name:       "RSA without keys",
			useRSAKeys: true,
			secretKey:  "",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, err := NewTokenService(time.Hour, "issuer", "audience", tt.useRSAKeys, "", "", tt.secretKey)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, service)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, service)
		})
	}
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	service := newTestTokenService(t, time.Hour)

	userID := uuid.New()
	token, err := service.GenerateAccessToken(userID, 42, "Jamie Doe", "jamie@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, uint(42), claims.TenantID)
	assert.Equal(t, "Jamie Doe", claims.Name)
	assert.Equal(t, "jamie@example.com", claims.Email)
	assert.NotEmpty(t, claims.TokenID)
	assert.True(t, claims.ExpiresAt.After(claims.IssuedAt))
}

func TestGenerateAccessTokenUniqueIDs(t *testing.T) {
	service := newTestTokenService(t, time.Hour)
	userID := uuid.New()

	first, err := service.GenerateAccessToken(userID, 1, "A", "a@example.com")
	require.NoError(t, err)
	second, err := service.GenerateAccessToken(userID, 1, "A", "a@example.com")
	require.NoError(t, err)

	firstClaims, err := service.ValidateToken(first)
	require.NoError(t, err)
	secondClaims, err := service.ValidateToken(second)
	require.NoError(t, err)

	assert.NotEqual(t, firstClaims.TokenID, secondClaims.TokenID)
}

func TestValidateTokenErrors(t *testing.T) {
	service := newTestTokenService(t, time.Hour)

	t.Run("garbage token", func(t *testing.T) {
		_, err := service.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("expired token", func(t *testing.T) {
		expiring := newTestTokenService(t, -time.Hour)

		token, err := expiring.GenerateAccessToken(uuid.New(), 1, "A", "a@example.com")
		require.NoError(t, err)

		_, err = service.ValidateToken(token)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewTokenService(time.Hour, "workforce-suite", "workforce-api", false, "", "", "a-different-secret")
		require.NoError(t, err)

		token, err := other.GenerateAccessToken(uuid.New(), 1, "A", "a@example.com")
		require.NoError(t, err)

		_, err = service.ValidateToken(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}
