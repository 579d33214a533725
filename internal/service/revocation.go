package service

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// RevocationRegistry is the deny-list consulted on every protected access.
// A token can be fully valid by signature and expiry yet rejected because it
// is present here. The interface exists so a shared backing store can replace
// the in-memory set for multi-instance deployments without touching callers.
type RevocationRegistry interface {
	Revoke(tokenString string, expiresAt time.Time)
	IsRevoked(tokenString string) bool
}

// InMemoryRevocationRegistry keys revoked tokens by their literal string and
// remembers each token's own expiry so entries can be pruned once the token
// would have died naturally anyway. State is process-local: a restart clears
// it, which matches the non-durable token model.
type InMemoryRevocationRegistry struct {
	mu      sync.RWMutex
	entries map[string]time.Time
}

func NewRevocationRegistry() *InMemoryRevocationRegistry {
	return &InMemoryRevocationRegistry{
		entries: make(map[string]time.Time),
	}
}

// Revoke is idempotent; revoking an already revoked token keeps the earlier
// recorded expiry.
func (r *InMemoryRevocationRegistry) Revoke(tokenString string, expiresAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[tokenString]; !exists {
		r.entries[tokenString] = expiresAt
	}
}

func (r *InMemoryRevocationRegistry) IsRevoked(tokenString string) bool {
	r.mu.RLock()
	expiresAt, exists := r.entries[tokenString]
	r.mu.RUnlock()

	if !exists {
		return false
	}

	// Lazy prune: once the token's own expiry passed, signature verification
	// rejects it anyway and the entry is dead weight.
	if time.Now().After(expiresAt) {
		r.mu.Lock()
		delete(r.entries, tokenString)
		r.mu.Unlock()
		return false
	}

	return true
}

func (r *InMemoryRevocationRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}

// StartSweeper prunes expired entries in the background so the deny-list
// does not grow without bound in a long-running process.
func (r *InMemoryRevocationRegistry) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := r.sweep(time.Now()); removed > 0 {
				slog.Debug("revocation registry swept", "removed", removed)
			}
		}
	}
}

func (r *InMemoryRevocationRegistry) sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for tokenString, expiresAt := range r.entries {
		if now.After(expiresAt) {
			delete(r.entries, tokenString)
			removed++
		}
	}

	return removed
}
