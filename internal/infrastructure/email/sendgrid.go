package email

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const sendGridHost = "https://api.sendgrid.com"

type SendGridNotifier struct {
	apiKey string
	sender string
	host   string
}

func NewSendGridNotifier(apiKey, sender string) *SendGridNotifier {
	return &SendGridNotifier{apiKey: apiKey, sender: sender, host: sendGridHost}
}

func (s *SendGridNotifier) NotifyComment(ctx context.Context, n CommentNotification) error {
	from := mail.NewEmail("Board", s.sender)
	to := mail.NewEmail("", n.To)
	message := mail.NewSingleEmail(from, n.subject(), to, n.text(), n.html())

	request := sendgrid.GetRequest(s.apiKey, "/v3/mail/send", s.host)
	request.Method = "POST"
	request.Body = mail.GetRequestBody(message)

	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}
