package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/robertgriman1702/daka-technical-assessment/internal/model"
	"github.com/robertgriman1702/daka-technical-assessment/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
)

// Frame is the wire format on the socket channel: an event name plus an
// event-specific payload.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outFrame struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// Client is one authenticated connection. The token presented at handshake
// is kept for the connection's lifetime and re-validated on every inbound
// message, so a token revoked after the handshake stops working on the very
// next message, not just on the next connection attempt.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	resolver IdentityResolver
	sprites  *service.SpriteService
	token    string
	identity model.AuthUser
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
		slog.Info("websocket client disconnected", "username", c.identity.Username)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("websocket read failed", "error", err)
			}
			return
		}

		var frame Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.sendError("invalid message")
			continue
		}

		// Re-resolve the connection token before every operation. This is
		// the same check the HTTP middleware runs, so revocation takes
		// effect immediately on established connections too.
		if _, err := c.resolver.ResolveIdentity(context.Background(), c.token); err != nil {
			c.sendError("invalid or expired token")
			return
		}

		c.handleFrame(frame)
	}
}

func (c *Client) handleFrame(frame Frame) {
	switch frame.Event {
	case "request-sprite":
		sprite, err := c.sprites.FetchRandom(context.Background())
		if err != nil {
			c.sendError("Error fetching pokemon from PokeAPI")
			return
		}
		c.sendFrame("sprite-served", sprite)
	case "delete-sprite":
		var id int64
		if err := json.Unmarshal(frame.Data, &id); err != nil {
			c.sendError("invalid sprite id")
			return
		}
		if err := c.sprites.Remove(id); err != nil {
			c.sendError("Pokemon not found")
			return
		}
		c.sendFrame("sprite-deleted", model.DeleteResult{Deleted: true, ID: id})
	default:
		c.sendError("unknown event")
	}
}

func (c *Client) sendFrame(eventName string, data any) {
	message, err := json.Marshal(outFrame{Event: eventName, Data: data})
	if err != nil {
		slog.Error("failed to marshal frame", "event", eventName, "error", err)
		return
	}

	select {
	case c.send <- message:
	default:
	}
}

func (c *Client) sendError(message string) {
	c.sendFrame("error", errorPayload{Message: message})
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
