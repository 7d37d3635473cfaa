// Package notification sends order confirmations for placed orders.
package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/sweetbloom/storefront/pkg/messaging/events"
)

const (
	confirmationTitle = "Merci! 🎉"
	confirmationBody  = "Votre commande a été passée avec succès!"
)

// Confirmation is the message delivered to a customer once their order is placed.
type Confirmation struct {
	OrderID uuid.UUID
	UserID  string
	Email   string
	Title   string
	Body    string
	Summary string
}

// Sender delivers confirmations to customers.
type Sender interface {
	Send(ctx context.Context, c Confirmation) error
}

// Compose builds the confirmation for an order event.
func Compose(e events.OrderPlacedEvent) Confirmation {
	items := 0
	for _, l := range e.Lines {
		items += l.Qty
	}
	return Confirmation{
		OrderID: e.OrderID,
		UserID:  e.UserID,
		Email:   e.Email,
		Title:   confirmationTitle,
		Body:    confirmationBody,
		Summary: fmt.Sprintf("Total: %.2f DH\n%d article(s)", e.Total, items),
	}
}

// LogSender writes confirmations to the log. It stands in for a push or email channel.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger.With("component", "notification")}
}

func (s *LogSender) Send(ctx context.Context, c Confirmation) error {
	s.logger.InfoContext(ctx, "Order confirmation sent",
		slog.String("order_id", c.OrderID.String()),
		slog.String("uid", c.UserID),
		slog.String("title", c.Title),
		slog.String("body", c.Body),
		slog.String("summary", c.Summary))
	return nil
}
