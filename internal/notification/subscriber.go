package notification

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/sweetbloom/storefront/pkg/config"
	"github.com/sweetbloom/storefront/pkg/messaging"
	"github.com/sweetbloom/storefront/pkg/messaging/events"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"golang.org/x/sync/errgroup"
)

// message is the part of jetstream.Msg the handler relies on.
type message interface {
	Data() []byte
	Subject() string
	Headers() nats.Header
	Ack() error
	Nak() error
	Term() error
}

type Subscriber struct {
	sender Sender
	cfg    config.SubscriberConfig
	logger *slog.Logger
}

func NewSubscriber(sender Sender, cfg config.SubscriberConfig, logger *slog.Logger) *Subscriber {
	return &Subscriber{
		sender: sender,
		cfg:    cfg,
		logger: logger.With("component", "notification-subscriber"),
	}
}

// Start creates the durable consumer on stream and runs the configured number of workers until ctx is done.
func (s *Subscriber) Start(ctx context.Context, js jetstream.JetStream, stream string) error {
	consumer, err := js.CreateOrUpdateConsumer(ctx, stream, jetstream.ConsumerConfig{
		FilterSubject: messaging.OrdersPlacedSubject,
		Durable:       s.cfg.Consumer,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return err
	}
	g, gCtx := errgroup.WithContext(ctx)
	for i := 0; i < s.cfg.Workers; i++ {
		g.Go(func() error {
			return s.runWorker(gCtx, consumer)
		})
	}
	return g.Wait()
}

func (s *Subscriber) runWorker(ctx context.Context, consumer jetstream.Consumer) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			batch, err := consumer.Fetch(s.cfg.Batch, jetstream.FetchMaxWait(s.cfg.Timeout))
			if err != nil {
				if errors.Is(err, nats.ErrTimeout) {
					continue
				}
				s.logger.ErrorContext(ctx, "failed to fetch messages", "error", err)
				sleep(ctx, s.cfg.Interval)
				continue
			}
			for msg := range batch.Messages() {
				s.handleMessage(ctx, msg)
			}
		}
	}
}

// handleMessage terminates undecodable payloads and asks for redelivery when sending fails.
func (s *Subscriber) handleMessage(ctx context.Context, msg message) {
	if msg == nil {
		s.logger.ErrorContext(ctx, "received nil message")
		return
	}
	ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.HeaderCarrier(msg.Headers()))
	var event events.OrderPlacedEvent
	if err := json.Unmarshal(msg.Data(), &event); err != nil {
		s.logger.ErrorContext(ctx, "failed to unmarshal message", "error", err, "subject", msg.Subject())
		if err := msg.Term(); err != nil {
			s.logger.ErrorContext(ctx, "failed to terminate message", "error", err)
		}
		return
	}

	s.logger.InfoContext(ctx, "received order placed event",
		slog.String("subject", msg.Subject()),
		slog.String("order_id", event.OrderID.String()),
		slog.String("uid", event.UserID),
		slog.String("placed_at", event.PlacedAt.Format(time.RFC3339)))

	if err := s.sender.Send(ctx, Compose(event)); err != nil {
		s.logger.ErrorContext(ctx, "failed to send order confirmation", "error", err, "order_id", event.OrderID.String())
		if err := msg.Nak(); err != nil {
			s.logger.ErrorContext(ctx, "failed to nack message", "error", err)
		}
		return
	}
	if err := msg.Ack(); err != nil {
		s.logger.ErrorContext(ctx, "failed to ack message", "error", err)
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
