// Package ws streams board events to browsers over WebSocket.
package ws

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"board-service/internal/auth"
	"board-service/internal/domain"
	"board-service/internal/infrastructure/messaging"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Handler upgrades authenticated requests and forwards hub events as JSON
// text frames. Clients only listen; anything they send is discarded.
type Handler struct {
	registry   *auth.Registry
	hub        *messaging.Hub
	upgrader   websocket.Upgrader
	pingPeriod time.Duration
	conns      map[*websocket.Conn]struct{}
	connsMu    sync.Mutex
	log        *slog.Logger
}

// NewHandler accepts connections from allowedOrigins; "*" allows any.
func NewHandler(registry *auth.Registry, hub *messaging.Hub, allowedOrigins []string, log *slog.Logger) *Handler {
	return &Handler{
		registry: registry,
		hub:      hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
			},
		},
		pingPeriod: pingPeriod,
		conns:      make(map[*websocket.Conn]struct{}),
		log:        log,
	}
}

// Serve handles GET /ws?token=<tok>&project_id=<uuid>. The token may come
// from the Authorization header instead, for non-browser clients.
func (h *Handler) Serve(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		var err error
		if token, err = auth.TokenFromHeader(c.Request().Header.Get(auth.HeaderName)); err != nil {
			return err
		}
	}
	user, err := h.registry.Resolve(c.Request().Context(), token)
	if err != nil {
		return err
	}

	var projectID *uuid.UUID
	if raw := c.QueryParam("project_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return domain.NotFound("Project not found")
		}
		projectID = &id
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// The upgrader has already answered the client.
		h.log.Warn("websocket upgrade failed", "error", err)
		return nil
	}

	h.connsMu.Lock()
	h.conns[conn] = struct{}{}
	h.connsMu.Unlock()

	sub := h.hub.Subscribe(user.Id, token, projectID)
	h.log.Info("event stream opened", "user_id", user.Id)

	go h.readLoop(conn, sub)
	h.writeLoop(conn, sub, token)
	return nil
}

// readLoop consumes control frames until the client goes away, then ends
// the subscription so writeLoop returns.
func (h *Handler) readLoop(conn *websocket.Conn, sub *messaging.Subscription) {
	defer h.hub.Unsubscribe(sub)

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.NextReader(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("event stream read failed", "error", err)
			}
			return
		}
	}
}

// writeLoop forwards events and pings. Each ping re-resolves the token, so a
// stream ends once its token is revoked anywhere the store is shared.
func (h *Handler) writeLoop(conn *websocket.Conn, sub *messaging.Subscription, token string) {
	ticker := time.NewTicker(h.pingPeriod)
	defer func() {
		ticker.Stop()
		h.hub.Unsubscribe(sub)
		h.connsMu.Lock()
		delete(h.conns, conn)
		h.connsMu.Unlock()
		conn.Close()
	}()

	for {
		select {
		case event, ok := <-sub.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				h.log.Warn("event stream write failed", "error", err)
				return
			}
		case <-ticker.C:
			if h.revoked(token) {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "token revoked"))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// revoked reports whether token no longer resolves. Store outages keep the
// stream open.
func (h *Handler) revoked(token string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), writeWait)
	defer cancel()

	_, err := h.registry.Resolve(ctx, token)
	if err == nil {
		return false
	}
	if errors.Is(err, auth.ErrInvalidToken) {
		return true
	}
	h.log.Warn("event stream token check failed", "error", err)
	return false
}

// Close closes all open WebSocket connections
func (h *Handler) Close() {
	h.connsMu.Lock()
	defer h.connsMu.Unlock()

	for conn := range h.conns {
		conn.Close()
	}
}
