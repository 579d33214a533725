package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevocationRegistry_RevokeAndCheck(t *testing.T) {
	t.Parallel()

	registry := NewRevocationRegistry()
	expiresAt := time.Now().Add(time.Hour)

	require.False(t, registry.IsRevoked("token-a"))

	registry.Revoke("token-a", expiresAt)
	require.True(t, registry.IsRevoked("token-a"))
	require.False(t, registry.IsRevoked("token-b"))
}

func TestRevocationRegistry_RevokeIsIdempotent(t *testing.T) {
	t.Parallel()

	registry := NewRevocationRegistry()
	expiresAt := time.Now().Add(time.Hour)

	registry.Revoke("token-a", expiresAt)
	registry.Revoke("token-a", expiresAt.Add(time.Hour))

	require.True(t, registry.IsRevoked("token-a"))
	require.Equal(t, 1, registry.Len())
}

func TestRevocationRegistry_ExpiredEntryPrunedLazily(t *testing.T) {
	t.Parallel()

	registry := NewRevocationRegistry()
	registry.Revoke("stale", time.Now().Add(-time.Minute))

	require.Equal(t, 1, registry.Len())
	require.False(t, registry.IsRevoked("stale"))
	require.Equal(t, 0, registry.Len())
}

func TestRevocationRegistry_Sweep(t *testing.T) {
	t.Parallel()

	registry := NewRevocationRegistry()
	now := time.Now()
	registry.Revoke("dead-1", now.Add(-time.Minute))
	registry.Revoke("dead-2", now.Add(-time.Second))
	registry.Revoke("alive", now.Add(time.Hour))

	removed := registry.sweep(now)
	require.Equal(t, 2, removed)
	require.Equal(t, 1, registry.Len())
	require.True(t, registry.IsRevoked("alive"))
}

func TestRevocationRegistry_StartSweeper(t *testing.T) {
	t.Parallel()

	registry := NewRevocationRegistry()
	registry.Revoke("stale", time.Now().Add(-time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go registry.StartSweeper(ctx, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		return registry.Len() == 0
	}, time.Second, 10*time.Millisecond)
}
