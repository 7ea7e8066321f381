package messaging

import (
	"context"

	natsclient "board-service/libs/go/messaging/nats"
)

const subjectPrefix = "board."

type NATSPublisher struct {
	client *natsclient.Client
}

func NewNATSPublisher(client *natsclient.Client) *NATSPublisher {
	return &NATSPublisher{client: client}
}

// Publish sends e to "board.<type>", e.g. board.ticket.created.
func (p *NATSPublisher) Publish(_ context.Context, e Event) error {
	return p.client.PublishJSON(Subject(e.Type), e)
}

func Subject(t EventType) string {
	return subjectPrefix + string(t)
}
