package messaging

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

const subscriberBuffer = 32

// Subscription receives events on C until it is cancelled through the hub.
type Subscription struct {
	C         <-chan Event
	ch        chan Event
	projectID *uuid.UUID
	userID    uuid.UUID
	token     string
}

func (s *Subscription) wants(e Event) bool {
	return s.projectID == nil || *s.projectID == e.ProjectId
}

// Hub is the in-process publisher. Slow subscribers lose events rather than
// stall the request that produced them.
type Hub struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
	log  *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{subs: make(map[*Subscription]struct{}), log: log}
}

// Subscribe registers a listener opened with token. A nil projectID receives
// every event.
func (h *Hub) Subscribe(userID uuid.UUID, token string, projectID *uuid.UUID) *Subscription {
	ch := make(chan Event, subscriberBuffer)
	sub := &Subscription{C: ch, ch: ch, projectID: projectID, userID: userID, token: token}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub]; !ok {
		return
	}
	delete(h.subs, sub)
	close(sub.ch)
}

// DropUser closes every subscription held by userID, used when the account
// goes away.
func (h *Hub) DropUser(userID uuid.UUID) {
	h.dropWhere(func(sub *Subscription) bool { return sub.userID == userID })
}

// DropToken closes every subscription opened with token, used on logout.
func (h *Hub) DropToken(token string) {
	h.dropWhere(func(sub *Subscription) bool { return sub.token == token })
}

func (h *Hub) dropWhere(match func(*Subscription) bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		if match(sub) {
			delete(h.subs, sub)
			close(sub.ch)
		}
	}
}

func (h *Hub) Publish(_ context.Context, e Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs {
		if !sub.wants(e) {
			continue
		}
		select {
		case sub.ch <- e:
		default:
			h.log.Warn("dropping event for slow subscriber", "type", e.Type, "user_id", sub.userID)
		}
	}
	return nil
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
