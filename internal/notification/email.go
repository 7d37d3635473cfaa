package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// mailClient is satisfied by *sendgrid.Client.
type mailClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// EmailSender mails confirmations through SendGrid. Confirmations without an address go to fallback.
type EmailSender struct {
	client   mailClient
	from     *mail.Email
	fallback Sender
	logger   *slog.Logger
}

func NewEmailSender(apiKey, fromAddress, fromName string, fallback Sender, logger *slog.Logger) *EmailSender {
	return newEmailSender(sendgrid.NewSendClient(apiKey), fromAddress, fromName, fallback, logger)
}

func newEmailSender(client mailClient, fromAddress, fromName string, fallback Sender, logger *slog.Logger) *EmailSender {
	return &EmailSender{
		client:   client,
		from:     mail.NewEmail(fromName, fromAddress),
		fallback: fallback,
		logger:   logger.With("component", "notification"),
	}
}

func (s *EmailSender) Send(ctx context.Context, c Confirmation) error {
	if c.Email == "" {
		return s.fallback.Send(ctx, c)
	}
	body := c.Body + "\n\n" + c.Summary
	message := mail.NewSingleEmail(s.from, c.Title, mail.NewEmail("", c.Email), body, fmt.Sprintf("<p>%s</p><pre>%s</pre>", c.Body, c.Summary))
	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d, body=%s", response.StatusCode, response.Body)
	}
	s.logger.InfoContext(ctx, "Order confirmation mailed",
		slog.String("order_id", c.OrderID.String()),
		slog.Int("status", response.StatusCode))
	return nil
}
