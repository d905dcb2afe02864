package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)

	assert.NotEqual(t, "hunter22", hash)
	assert.NotContains(t, hash, "hunter22")

	assert.True(t, CheckPassword("hunter22", hash))
	assert.False(t, CheckPassword("hunter23", hash))
	assert.False(t, CheckPassword("", hash))
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	h1, err := HashPassword("same-password")
	require.NoError(t, err)
	h2, err := HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}
