package service

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	t.Parallel()

	hasher := NewPasswordHasher(MinHashCost)

	hash, err := hasher.Hash("secret1")
	require.NoError(t, err)
	require.NotEqual(t, "secret1", hash)

	require.True(t, hasher.Verify("secret1", hash))
	require.False(t, hasher.Verify("wrongpass", hash))
}

func TestPasswordHasher_InvalidHashIsMismatch(t *testing.T) {
	t.Parallel()

	hasher := NewPasswordHasher(MinHashCost)

	require.False(t, hasher.Verify("secret1", "not-a-bcrypt-hash"))
	require.False(t, hasher.Verify("secret1", ""))
}

func TestPasswordHasher_CostFloor(t *testing.T) {
	t.Parallel()

	hasher := NewPasswordHasher(1)

	hash, err := hasher.Hash("secret1")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	require.GreaterOrEqual(t, cost, MinHashCost)
}
