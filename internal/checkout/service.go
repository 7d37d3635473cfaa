// Package checkout turns a user's cart into a placed order.
package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sweetbloom/storefront/internal/cart"
	storeerrors "github.com/sweetbloom/storefront/internal/errors"
	"github.com/sweetbloom/storefront/pkg/messaging"
	"github.com/sweetbloom/storefront/pkg/messaging/events"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// CheckoutService defines the checkout operations.
type CheckoutService interface {
	// Checkout places an order for the customer's cart and empties it.
	// Returns ErrEmptyCart if the cart has no items.
	Checkout(ctx context.Context, customer Customer) (*Order, error)

	// Preview returns the totals the user would pay now.
	Preview(ctx context.Context, userID string) cart.Summary
}

// Customer is the signed-in user placing an order. Email receives the confirmation and may be empty.
type Customer struct {
	UID   string
	Email string
}

// Order is a placed order. Orders are announced on the event bus and not stored.
type Order struct {
	ID       uuid.UUID    `json:"id"`
	UserID   string       `json:"user_id"`
	Email    string       `json:"email,omitempty"`
	Items    []cart.Item  `json:"items"`
	Summary  cart.Summary `json:"summary"`
	PlacedAt time.Time    `json:"placed_at"`
}

// Service implements CheckoutService.
type Service struct {
	carts         *cart.Registry
	pricing       cart.Pricing
	publisher     messaging.Publisher
	logger        *slog.Logger
	ordersCounter metric.Int64Counter
	now           func() time.Time
}

func NewService(carts *cart.Registry, pricing cart.Pricing, publisher messaging.Publisher, logger *slog.Logger) *Service {
	meter := otel.Meter("storefront")
	ordersCounter, err := meter.Int64Counter("orders_placed", metric.WithDescription("Total number of placed orders"))
	if err != nil {
		panic(fmt.Sprintf("failed to create orders_placed counter: %v", err))
	}
	return &Service{
		carts:         carts,
		pricing:       pricing,
		publisher:     publisher,
		logger:        logger.With("component", "checkout"),
		ordersCounter: ordersCounter,
		now:           time.Now,
	}
}

func (s *Service) Checkout(ctx context.Context, customer Customer) (*Order, error) {
	items := s.carts.For(customer.UID).Take()
	if len(items) == 0 {
		return nil, storeerrors.ErrEmptyCart
	}

	order := &Order{
		ID:       uuid.New(),
		UserID:   customer.UID,
		Email:    customer.Email,
		Items:    items,
		Summary:  cart.Summarize(items, s.pricing),
		PlacedAt: s.now().UTC(),
	}

	if err := s.publisher.Publish(ctx, toEvent(order)); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish OrderPlacedEvent", "orderID", order.ID, "error", err)
	}
	// increase the number of placed orders
	s.ordersCounter.Add(ctx, 1)

	s.logger.InfoContext(ctx, "Order placed", "orderID", order.ID, "total", order.Summary.Total)
	return order, nil
}

func (s *Service) Preview(_ context.Context, userID string) cart.Summary {
	return cart.Summarize(s.carts.For(userID).Items(), s.pricing)
}

func toEvent(order *Order) events.OrderPlacedEvent {
	lines := make([]events.OrderLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, events.OrderLine{
			ProductID: item.ID,
			Title:     item.Title,
			Price:     item.Price,
			Qty:       item.Qty,
		})
	}
	return events.OrderPlacedEvent{
		OrderID:     order.ID,
		UserID:      order.UserID,
		Email:       order.Email,
		Lines:       lines,
		Subtotal:    order.Summary.Subtotal,
		DeliveryFee: order.Summary.DeliveryFee,
		Total:       order.Summary.Total,
		PlacedAt:    order.PlacedAt,
	}
}
