package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robertgriman1702/daka-technical-assessment/internal/model"
)

type stubResolver struct {
	identity model.AuthUser
	err      error
	lastSeen string
}

func (s *stubResolver) ResolveIdentity(_ context.Context, tokenString string) (model.AuthUser, error) {
	s.lastSeen = tokenString
	if s.err != nil {
		return model.AuthUser{}, s.err
	}
	return s.identity, nil
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	t.Parallel()

	mw := NewAuthMiddleware(&stubResolver{})
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("protected handler must not run")
	}))

	for _, header := range []string{"", "Basic abc", "Bearer ", "token-without-scheme"} {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	t.Parallel()

	mw := NewAuthMiddleware(&stubResolver{err: errors.New("bad token")})
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("protected handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.JSONEq(t,
		`{"error":{"code":"UNAUTHORIZED","message":"invalid or expired token"}}`,
		rec.Body.String())
}

func TestRequireAuth_AttachesIdentityAndToken(t *testing.T) {
	t.Parallel()

	resolver := &stubResolver{identity: model.AuthUser{ID: "u1", Username: "alice"}}
	mw := NewAuthMiddleware(resolver)

	var gotIdentity model.AuthUser
	var gotToken string
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		gotIdentity = identity

		tokenString, ok := TokenFromContext(r.Context())
		require.True(t, ok)
		gotToken = tokenString

		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer the-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, model.AuthUser{ID: "u1", Username: "alice"}, gotIdentity)
	require.Equal(t, "the-token", gotToken)
	require.Equal(t, "the-token", resolver.lastSeen)
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc.def.ghi")

	tokenString, ok := BearerToken(req)
	require.True(t, ok)
	require.Equal(t, "abc.def.ghi", tokenString)

	req.Header.Set("Authorization", "bearer lower-scheme")
	tokenString, ok = BearerToken(req)
	require.True(t, ok)
	require.Equal(t, "lower-scheme", tokenString)
}
