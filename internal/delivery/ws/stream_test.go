package ws

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"board-service/internal/auth"
	"board-service/internal/delivery/handler"
	"board-service/internal/domain/entities"
	"board-service/internal/infrastructure/messaging"
)

type users map[uuid.UUID]*entities.User

func (u users) FindById(_ context.Context, id uuid.UUID) (*entities.User, error) {
	return u[id], nil
}

type fixture struct {
	url      string
	hub      *messaging.Hub
	registry *auth.Registry
	token    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	alice := entities.NewUser("alice@x.com", "Alice", "pw")
	registry := auth.NewRegistry(auth.NewMemoryStore(), users{alice.Id: alice})
	token, err := registry.Issue(context.Background(), alice)
	require.NoError(t, err)

	hub := messaging.NewHub(log)
	h := NewHandler(registry, hub, []string{"*"}, log)
	h.pingPeriod = 50 * time.Millisecond

	e := echo.New()
	e.HTTPErrorHandler = handler.NewErrorHandler(log)
	e.GET("/ws", h.Serve)
	srv := httptest.NewServer(e)
	t.Cleanup(func() {
		h.Close()
		srv.Close()
	})

	return &fixture{url: "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws", hub: hub, registry: registry, token: token}
}

func waitForSubscribers(t *testing.T, hub *messaging.Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.Count() == n }, 2*time.Second, 10*time.Millisecond)
}

func TestStream_DeliversProjectEvents(t *testing.T) {
	f := newFixture(t)
	project, other := uuid.New(), uuid.New()

	conn, _, err := websocket.DefaultDialer.Dial(f.url+"?token="+f.token+"&project_id="+project.String(), nil)
	require.NoError(t, err)
	defer conn.Close()
	waitForSubscribers(t, f.hub, 1)

	ctx := context.Background()
	require.NoError(t, f.hub.Publish(ctx, messaging.NewEvent(messaging.TicketCreated, other, nil)))
	require.NoError(t, f.hub.Publish(ctx, messaging.NewEvent(messaging.TicketUpdated, project, map[string]int{"id": 3})))

	var got struct {
		Type      messaging.EventType `json:"type"`
		ProjectId uuid.UUID           `json:"project_id"`
		Payload   map[string]int      `json:"payload"`
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, messaging.TicketUpdated, got.Type)
	assert.Equal(t, project, got.ProjectId)
	assert.Equal(t, 3, got.Payload["id"])
}

func TestStream_HeaderTokenAndDisconnect(t *testing.T) {
	f := newFixture(t)

	header := http.Header{}
	header.Set(auth.HeaderName, "Token "+f.token)
	conn, _, err := websocket.DefaultDialer.Dial(f.url, header)
	require.NoError(t, err)
	waitForSubscribers(t, f.hub, 1)

	conn.Close()
	waitForSubscribers(t, f.hub, 0)
}

func TestStream_RejectsBadCredentials(t *testing.T) {
	f := newFixture(t)

	_, resp, err := websocket.DefaultDialer.Dial(f.url+"?token=bogus", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(f.url, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(f.url+"?token="+f.token+"&project_id=nope", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStream_ClosedWhenHubDropsToken(t *testing.T) {
	f := newFixture(t)

	conn, _, err := websocket.DefaultDialer.Dial(f.url+"?token="+f.token, nil)
	require.NoError(t, err)
	defer conn.Close()
	waitForSubscribers(t, f.hub, 1)

	ctx := context.Background()
	f.hub.DropToken(f.token)
	require.NoError(t, f.hub.Publish(ctx, messaging.NewEvent(messaging.TicketCreated, uuid.New(), nil)))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
	waitForSubscribers(t, f.hub, 0)
}

func TestStream_ClosedWhenTokenStopsResolving(t *testing.T) {
	f := newFixture(t)

	conn, _, err := websocket.DefaultDialer.Dial(f.url+"?token="+f.token, nil)
	require.NoError(t, err)
	defer conn.Close()
	waitForSubscribers(t, f.hub, 1)

	// Revoked without touching the hub, as another instance sharing the
	// token store would.
	require.NoError(t, f.registry.Revoke(context.Background(), f.token))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.ClosePolicyViolation), "got %v", err)
	waitForSubscribers(t, f.hub, 0)
}
