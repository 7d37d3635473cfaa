// Package events contains the serialized event payloads.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sweetbloom/storefront/pkg/messaging"
)

// OrderLine is one purchased product inside an OrderPlacedEvent.
type OrderLine struct {
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Qty       int     `json:"qty"`
}

// OrderPlacedEvent is emitted after a successful checkout.
type OrderPlacedEvent struct {
	OrderID     uuid.UUID   `json:"order_id"`
	UserID      string      `json:"user_id"`
	Email       string      `json:"email,omitempty"`
	Lines       []OrderLine `json:"lines"`
	Subtotal    float64     `json:"subtotal"`
	DeliveryFee float64     `json:"delivery_fee"`
	Total       float64     `json:"total"`
	PlacedAt    time.Time   `json:"placed_at"`
}

func (o OrderPlacedEvent) Subject() string {
	return messaging.OrdersPlacedSubject
}

func (o OrderPlacedEvent) Payload() ([]byte, error) {
	return json.Marshal(o)
}
