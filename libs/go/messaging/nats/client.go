// Package nats wraps a NATS connection with the options every service uses.
package nats

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	natsgo "github.com/nats-io/nats.go"
)

type Options struct {
	Name              string
	ConnectionTimeout time.Duration
	ReconnectWait     time.Duration
	MaxReconnects     int
	DrainTimeout      time.Duration
}

func DefaultOptions(name string) Options {
	return Options{
		Name:              name,
		ConnectionTimeout: 5 * time.Second,
		ReconnectWait:     time.Second,
		MaxReconnects:     10,
		DrainTimeout:      10 * time.Second,
	}
}

// Client owns one connection. It is safe for concurrent use.
type Client struct {
	conn *natsgo.Conn
	log  *slog.Logger
}

func Connect(url string, opts Options, log *slog.Logger) (*Client, error) {
	if url == "" {
		return nil, errors.New("nats: empty url")
	}
	conn, err := natsgo.Connect(url,
		natsgo.Name(opts.Name),
		natsgo.Timeout(opts.ConnectionTimeout),
		natsgo.ReconnectWait(opts.ReconnectWait),
		natsgo.MaxReconnects(opts.MaxReconnects),
		natsgo.DrainTimeout(opts.DrainTimeout),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			log.Warn("nats disconnected", "error", err)
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			log.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
		natsgo.ErrorHandler(func(_ *natsgo.Conn, sub *natsgo.Subscription, err error) {
			subject := ""
			if sub != nil {
				subject = sub.Subject
			}
			log.Error("nats error", "subject", subject, "error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect %s: %w", url, err)
	}
	log.Info("connected to nats", "url", conn.ConnectedUrl())
	return &Client{conn: conn, log: log}, nil
}

func (c *Client) Conn() *natsgo.Conn {
	return c.conn
}

// Close drains pending publishes before closing.
func (c *Client) Close() {
	if c.conn == nil || c.conn.IsClosed() {
		return
	}
	if err := c.conn.Drain(); err != nil {
		c.log.Warn("nats drain failed, closing", "error", err)
		c.conn.Close()
		return
	}
	c.log.Info("nats connection closed")
}
