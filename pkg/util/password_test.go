package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashCredential(t *testing.T) {
	hash, err := HashCredential("correct-horse-battery")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "correct-horse-battery", hash)
}

func TestVerifyCredential(t *testing.T) {
	hash, err := HashCredential("correct-horse-battery")
	require.NoError(t, err)

	assert.True(t, VerifyCredential(hash, "correct-horse-battery"))
	assert.False(t, VerifyCredential(hash, "wrong-password"))
	assert.False(t, VerifyCredential("not-a-hash", "correct-horse-battery"))
}

func TestVerifyCredential_EmptyStoredHash(t *testing.T) {
	assert.False(t, VerifyCredential("", "anything"))
	assert.False(t, VerifyCredential("", ""))
}
