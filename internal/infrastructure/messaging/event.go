// Package messaging fans domain events out to WebSocket subscribers and,
// when configured, to NATS.
package messaging

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	ProjectCreated EventType = "project.created"
	ProjectUpdated EventType = "project.updated"
	ProjectDeleted EventType = "project.deleted"
	TicketCreated  EventType = "ticket.created"
	TicketUpdated  EventType = "ticket.updated"
	TicketDeleted  EventType = "ticket.deleted"
	CommentCreated EventType = "comment.created"
	CommentUpdated EventType = "comment.updated"
	CommentDeleted EventType = "comment.deleted"
)

type Event struct {
	Type       EventType `json:"type"`
	ProjectId  uuid.UUID `json:"project_id"`
	Payload    any       `json:"payload"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewEvent(t EventType, projectID uuid.UUID, payload any) Event {
	return Event{Type: t, ProjectId: projectID, Payload: payload, OccurredAt: time.Now().UTC()}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Multi publishes to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type Noop struct{}

func (Noop) Publish(context.Context, Event) error {
	return nil
}
