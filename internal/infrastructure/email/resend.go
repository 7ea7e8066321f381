package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

type ResendNotifier struct {
	sender string
	client *resend.Client
}

func NewResendNotifier(apiKey, sender string) *ResendNotifier {
	return &ResendNotifier{sender: sender, client: resend.NewClient(apiKey)}
}

func (r *ResendNotifier) NotifyComment(ctx context.Context, n CommentNotification) error {
	params := &resend.SendEmailRequest{
		From:    r.sender,
		To:      []string{n.To},
		Subject: n.subject(),
		Html:    n.html(),
		Text:    n.text(),
	}

	if _, err := r.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}
