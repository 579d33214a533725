// Package testutil provides in-memory doubles for tests that exercise the
// service and transport layers without a live Postgres.
package testutil

import (
	"context"
	"sync"

	"github.com/robertgriman1702/daka-technical-assessment/internal/model"
)

// FakeUserStore enforces username uniqueness atomically under its own lock,
// mirroring the database constraint the real repository relies on.
type FakeUserStore struct {
	mu         sync.Mutex
	byID       map[string]model.User
	byUsername map[string]model.User

	// FailWith, when set, makes every call return that error. Used to test
	// fail-closed behavior on infrastructure trouble.
	FailWith error
}

func NewFakeUserStore() *FakeUserStore {
	return &FakeUserStore{
		byID:       map[string]model.User{},
		byUsername: map[string]model.User{},
	}
}

func (s *FakeUserStore) FindByUsername(_ context.Context, username string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return model.User{}, s.FailWith
	}

	user, ok := s.byUsername[username]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return user, nil
}

func (s *FakeUserStore) FindByID(_ context.Context, id string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return model.User{}, s.FailWith
	}

	user, ok := s.byID[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return user, nil
}

func (s *FakeUserStore) Create(_ context.Context, user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return s.FailWith
	}

	if _, exists := s.byUsername[user.Username]; exists {
		return model.ErrUserAlreadyExists
	}

	s.byID[user.ID] = user
	s.byUsername[user.Username] = user
	return nil
}

// Delete removes a user so tests can simulate a token whose subject no
// longer exists.
func (s *FakeUserStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user, ok := s.byID[id]; ok {
		delete(s.byUsername, user.Username)
		delete(s.byID, id)
	}
}

// Count returns the number of stored users.
func (s *FakeUserStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.byID)
}
