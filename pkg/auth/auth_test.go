package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hendryprasetyo/storefront/pkg/auth"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := auth.GenerateToken("64f0c2a1b3d4e5f601234567")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "64f0c2a1b3d4e5f601234567", claims.UserID)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := auth.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	token, err := auth.GenerateToken("64f0c2a1b3d4e5f601234567")
	require.NoError(t, err)

	// Flip a character in the signature segment.
	tampered := token[:len(token)-2] + "xx"
	_, err = auth.ValidateToken(tampered)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("longpassword")
	require.NoError(t, err)
	assert.NotEqual(t, "longpassword", hash)

	assert.True(t, auth.CheckPassword(hash, "longpassword"))
	assert.False(t, auth.CheckPassword(hash, "wrongpassword"))
}

func TestResetToken(t *testing.T) {
	raw, hash, err := auth.NewResetToken()
	require.NoError(t, err)
	assert.Len(t, raw, 40) // 20 random bytes, hex encoded
	assert.NotEqual(t, raw, hash)

	// The stored hash must be recomputable from the presented raw token.
	assert.Equal(t, hash, auth.HashResetToken(raw))

	// Two tokens never collide.
	raw2, hash2, err := auth.NewResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, raw, raw2)
	assert.NotEqual(t, hash, hash2)
}
