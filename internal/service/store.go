package service

import (
	"context"

	"github.com/robertgriman1702/daka-technical-assessment/internal/model"
)

// UserStore is the persistence contract for user records. The store owns
// username uniqueness: Create must fail with model.ErrUserAlreadyExists even
// when two inserts race, which the Postgres implementation guarantees via a
// unique constraint.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (model.User, error)
	FindByID(ctx context.Context, id string) (model.User, error)
	Create(ctx context.Context, user model.User) error
}
