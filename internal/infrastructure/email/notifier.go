// Package email delivers transactional mail about board activity.
package email

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"
)

const (
	ProviderSendGrid = "sendgrid"
	ProviderResend   = "resend"
	ProviderNone     = "none"

	DefaultSender  = "ticket-update@cloud-collab.com"
	commentSubject = "New comment on your ticket"
)

// CommentNotification tells a ticket's assignee someone commented.
type CommentNotification struct {
	To            string
	CommentorName string
	TicketName    string
	Preview       string
}

func (n CommentNotification) subject() string {
	return commentSubject
}

func (n CommentNotification) text() string {
	return fmt.Sprintf("%s commented on your ticket %s:\n\n%q", n.CommentorName, n.TicketName, n.Preview)
}

func (n CommentNotification) html() string {
	return fmt.Sprintf(`<strong>%s</strong> commented on your ticket <strong>%s</strong>:<br><br>"%s"`,
		html.EscapeString(n.CommentorName), html.EscapeString(n.TicketName), html.EscapeString(n.Preview))
}

type Notifier interface {
	NotifyComment(ctx context.Context, n CommentNotification) error
}

// New builds the notifier for provider. Without an API key every provider
// degrades to a LogNotifier so local runs work without credentials.
func New(provider, apiKey, sender string, log *slog.Logger) (Notifier, error) {
	if sender == "" {
		sender = DefaultSender
	}
	provider = strings.ToLower(provider)
	if provider == ProviderNone || provider == "" || apiKey == "" {
		return &LogNotifier{log: log}, nil
	}

	log.Info("email notifier configured", "provider", provider, "sender", sender, "api_key", maskKey(apiKey))
	switch provider {
	case ProviderSendGrid:
		return NewSendGridNotifier(apiKey, sender), nil
	case ProviderResend:
		return NewResendNotifier(apiKey, sender), nil
	}
	return nil, fmt.Errorf("unknown email provider %q", provider)
}

// LogNotifier records notifications instead of sending them.
type LogNotifier struct {
	log *slog.Logger
}

func (l *LogNotifier) NotifyComment(_ context.Context, n CommentNotification) error {
	l.log.Info("comment notification (not sent)", "to", n.To, "ticket", n.TicketName)
	return nil
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}
