package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/robertgriman1702/daka-technical-assessment/internal/model"
	"github.com/robertgriman1702/daka-technical-assessment/internal/token"
	"github.com/robertgriman1702/daka-technical-assessment/pkg/apierror"
)

// AuthService coordinates the credential store, password hasher, token
// manager and revocation registry. It is stateless per request; the only
// shared mutable state is the revocation registry.
type AuthService struct {
	users   UserStore
	hasher  *PasswordHasher
	tokens  *token.Manager
	revoked RevocationRegistry
}

func NewAuthService(users UserStore, hasher *PasswordHasher, tokens *token.Manager, revoked RevocationRegistry) *AuthService {
	return &AuthService{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		revoked: revoked,
	}
}

// Register hashes the password and persists the user. A duplicate username,
// prior or racing, is reported as the same generic bad-request as any other
// credential problem so the endpoint cannot be used to enumerate usernames.
func (s *AuthService) Register(ctx context.Context, username string, password string) error {
	username = strings.TrimSpace(username)

	hash, err := s.hasher.Hash(password)
	if err != nil {
		slog.Error("password hashing failed", "error", err)
		return apierror.Internal("unable to register user")
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrUserAlreadyExists) {
			return apierror.BadRequest("invalid credentials")
		}
		slog.Error("user registration failed", "error", err)
		return apierror.Internal("unable to register user")
	}

	return nil
}

// ValidateCredentials is fail-closed: a missing user, a store failure and a
// password mismatch are indistinguishable to the caller.
func (s *AuthService) ValidateCredentials(ctx context.Context, username string, password string) (model.AuthUser, bool) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if !errors.Is(err, model.ErrUserNotFound) {
			slog.Warn("credential lookup degraded to mismatch", "error", err)
		}
		return model.AuthUser{}, false
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return model.AuthUser{}, false
	}

	return model.AuthUser{ID: user.ID, Username: user.Username}, true
}

func (s *AuthService) Login(ctx context.Context, username string, password string) (model.LoginResult, error) {
	identity, ok := s.ValidateCredentials(ctx, username, password)
	if !ok {
		return model.LoginResult{}, apierror.Unauthorized("invalid credentials")
	}

	accessToken, err := s.tokens.Issue(identity.ID, identity.Username)
	if err != nil {
		slog.Error("token issuance failed", "error", err)
		return model.LoginResult{}, apierror.Internal("unable to login")
	}

	return model.LoginResult{AccessToken: accessToken, User: identity}, nil
}

// Logout revokes the token unconditionally and never fails: revoking an
// already invalid or expired token is a no-op from the caller's perspective.
func (s *AuthService) Logout(tokenString string) {
	if tokenString == "" {
		return
	}

	expiresAt := time.Now().Add(s.tokens.TTL())
	if claims, err := s.tokens.Verify(tokenString); err == nil && claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	s.revoked.Revoke(tokenString, expiresAt)
}

// ResolveIdentity is the single enforcement contract shared by the HTTP
// middleware and the websocket gateway. Checks run cheapest first: signature
// and expiry, then the revocation set, then the store round-trip for the
// encoded subject. Every failure maps to the same unauthorized error.
func (s *AuthService) ResolveIdentity(ctx context.Context, tokenString string) (model.AuthUser, error) {
	claims, err := s.tokens.Verify(tokenString)
	if err != nil {
		return model.AuthUser{}, errUnauthorized()
	}

	if s.revoked.IsRevoked(tokenString) {
		return model.AuthUser{}, errUnauthorized()
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if !errors.Is(err, model.ErrUserNotFound) {
			slog.Warn("identity lookup degraded to unauthorized", "error", err)
		}
		return model.AuthUser{}, errUnauthorized()
	}

	return model.AuthUser{ID: user.ID, Username: user.Username}, nil
}

func errUnauthorized() *apierror.APIError {
	return apierror.Unauthorized("invalid or expired token")
}
