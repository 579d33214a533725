package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/robertgriman1702/daka-technical-assessment/internal/model"
	"github.com/robertgriman1702/daka-technical-assessment/internal/service"
)

// IdentityResolver is the same contract the HTTP middleware uses, so both
// enforcement points share identical revocation and expiry semantics.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, tokenString string) (model.AuthUser, error)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(_ *http.Request) bool { return true },
}

// ServeWS authenticates the handshake and hands the connection to the hub.
// An invalid or missing token is refused with 401 before the upgrade, so a
// rejected caller never exchanges a single websocket message.
func ServeWS(hub *Hub, resolver IdentityResolver, sprites *service.SpriteService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString := extractToken(r)
		if tokenString == "" {
			writeUnauthorized(w)
			return
		}

		identity, err := resolver.ResolveIdentity(r.Context(), tokenString)
		if err != nil {
			writeUnauthorized(w)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Warn("websocket upgrade failed", "error", err)
			return
		}

		client := &Client{
			hub:      hub,
			conn:     conn,
			send:     make(chan []byte, 16),
			resolver: resolver,
			sprites:  sprites,
			token:    tokenString,
			identity: identity,
		}
		hub.register <- client

		go client.writePump()
		go client.readPump()

		slog.Info("websocket client connected", "username", identity.Username)
	}
}

// extractToken checks the handshake credential field, then the
// authorization header, then the query parameter, in that order.
func extractToken(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get("X-Auth-Token")); v != "" {
		return v
	}

	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header != "" && strings.HasPrefix(strings.ToLower(header), "bearer ") {
		if v := strings.TrimSpace(header[7:]); v != "" {
			return v
		}
	}

	return strings.TrimSpace(r.URL.Query().Get("token"))
}

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
