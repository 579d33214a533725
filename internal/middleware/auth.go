package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/robertgriman1702/daka-technical-assessment/internal/model"
)

// identityResolver is satisfied by the auth service. Resolution covers
// signature, expiry, revocation and subject existence in one call so the
// HTTP and websocket gateways cannot drift apart.
type identityResolver interface {
	ResolveIdentity(ctx context.Context, tokenString string) (model.AuthUser, error)
}

type contextKey string

const (
	identityContextKey contextKey = "auth_identity"
	tokenContextKey    contextKey = "auth_token"
)

type AuthMiddleware struct {
	resolver identityResolver
}

func NewAuthMiddleware(resolver identityResolver) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver}
}

// RequireAuth admits the request only when the bearer token resolves to a
// live identity. The identity is attached to this request's context only;
// nothing carries over to subsequent calls.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := BearerToken(r)
		if !ok {
			writeUnauthorized(w)
			return
		}

		identity, err := m.resolver.ResolveIdentity(r.Context(), tokenString)
		if err != nil {
			writeUnauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), identityContextKey, identity)
		ctx = context.WithValue(ctx, tokenContextKey, tokenString)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return "", false
	}

	tokenString := strings.TrimSpace(header[7:])
	return tokenString, tokenString != ""
}

func IdentityFromContext(ctx context.Context) (model.AuthUser, bool) {
	identity, ok := ctx.Value(identityContextKey).(model.AuthUser)
	return identity, ok
}

func TokenFromContext(ctx context.Context) (string, bool) {
	tokenString, ok := ctx.Value(tokenContextKey).(string)
	return tokenString, ok
}

// writeUnauthorized emits the uniform authentication failure. The body is
// the same for a missing header, a bad signature, an expired token, a
// revoked token and a vanished subject.
func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{
		Error: &model.APIError{
			Code:    "UNAUTHORIZED",
			Message: "invalid or expired token",
		},
	})
}
