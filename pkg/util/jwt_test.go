package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-testing"

func TestValidateToken(t *testing.T) {
	token, err := GenerateToken("user-123", "shopper@example.com", "user", testSecret, 120*time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	tests := []struct {
		name    string
		token   string
		secret  string
		wantErr error
	}{
		{name: "Valid token", token: token, secret: testSecret},
		{name: "Wrong secret", token: token, secret: "other-secret", wantErr: ErrInvalidToken},
		{name: "Garbage", token: "invalid.token.format", secret: testSecret, wantErr: ErrInvalidToken},
		{name: "Empty", token: "", secret: testSecret, wantErr: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token, tt.secret)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "user-123", claims.UserID)
			assert.Equal(t, "shopper@example.com", claims.Email)
			assert.Equal(t, "user", claims.Role)
		})
	}
}

func TestValidateToken_Expired(t *testing.T) {
	token, err := GenerateToken("user-1", "a@example.com", "user", testSecret, time.Nanosecond)
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond)

	claims, err := ValidateToken(token, testSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}

func TestGenerateToken_FiveDayLifetime(t *testing.T) {
	token, err := GenerateToken("user-42", "admin@example.com", "admin", testSecret, 120*time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testSecret)
	require.NoError(t, err)

	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	assert.Equal(t, 120*time.Hour, lifetime)
	assert.InDelta(t, (120 * time.Hour).Seconds(), TokenTTL(claims).Seconds(), 5)
}

func TestTokenTTL_Nil(t *testing.T) {
	assert.Zero(t, TokenTTL(nil))
	assert.Zero(t, TokenTTL(&Claims{}))
}
