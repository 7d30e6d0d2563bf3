package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel-booking-server/config"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)

	assert.NotEqual(t, "hunter22", hash)
	assert.True(t, CheckPasswordHash("hunter22", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestIsHashed(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)

	assert.True(t, IsHashed(hash))
	assert.False(t, IsHashed("hunter22"))
	assert.False(t, IsHashed(""))
}

func TestTokenRoundTrip(t *testing.T) {
	config.Load()

	token, err := GenerateToken(42, "guide")
	require.NoError(t, err)

	claims, err := VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "guide", claims.Role)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	config.Load()

	_, err := VerifyToken("not-a-token")
	assert.Error(t, err)
}
