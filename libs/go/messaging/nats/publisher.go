package nats

import (
	"encoding/json"
	"fmt"
	"time"

	natsgo "github.com/nats-io/nats.go"
)

func (c *Client) Publish(subject string, data []byte) error {
	if c.conn == nil || !c.conn.IsConnected() {
		return natsgo.ErrConnectionClosed
	}
	if err := c.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

func (c *Client) PublishJSON(subject string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", subject, err)
	}
	return c.Publish(subject, data)
}

// RespondHealth answers requests on subject with a status document so other
// services can check this one over the bus.
func (c *Client) RespondHealth(subject, service string) (*natsgo.Subscription, error) {
	return c.conn.Subscribe(subject, func(msg *natsgo.Msg) {
		body, _ := json.Marshal(map[string]string{
			"status":    "healthy",
			"service":   service,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		if err := msg.Respond(body); err != nil {
			c.log.Warn("health respond failed", "error", err)
		}
	})
}
