package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenService("secret", time.Hour)

	token, err := tokens.Generate("user-42")
	require.NoError(t, err)

	userID, err := tokens.UserID(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
}

func TestTokenRejected(t *testing.T) {
	tokens := NewTokenService("secret", time.Hour)

	expired, err := NewTokenService("secret", -time.Hour).Generate("user-42")
	require.NoError(t, err)

	foreign, err := NewTokenService("other", time.Hour).Generate("user-42")
	require.NoError(t, err)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "expired", token: expired},
		{name: "wrong secret", token: foreign},
		{name: "missing user", token: noUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tokens.UserID(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
