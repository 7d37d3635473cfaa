// Package messaging defines the domain events published by the storefront and the publisher port.
package messaging

import (
	"context"
	"log/slog"
)

const (
	// OrdersStream is the JetStream stream that captures order subjects.
	OrdersStream = "ORDERS"
	// OrdersPlacedSubject carries OrderPlacedEvent payloads.
	OrdersPlacedSubject = "orders.placed"
)

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// LogPublisher writes events to the log instead of a broker. Used when NATS is disabled.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With("component", "log-publisher")}
}

func (p *LogPublisher) Publish(ctx context.Context, event Event) error {
	data, err := event.Payload()
	if err != nil {
		return err
	}
	p.logger.InfoContext(ctx, "Event published", "subject", event.Subject(), "payload", string(data))
	return nil
}
