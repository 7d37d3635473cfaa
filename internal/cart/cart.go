// Package cart holds the shopping cart: pure transitions over line items, derived totals
// and an observable per-user store.
package cart

import (
	"math"

	"github.com/sweetbloom/storefront/internal/catalog"
)

// Item is a cart line: a product snapshot and its quantity (always >= 1).
type Item struct {
	catalog.Product
	Qty int `json:"qty"`
}

// Add increments the quantity of product's line, or appends a new line with quantity 1.
func Add(items []Item, product catalog.Product) []Item {
	next := make([]Item, 0, len(items)+1)
	found := false
	for _, it := range items {
		if it.ID == product.ID {
			it.Qty++
			found = true
		}
		next = append(next, it)
	}
	if !found {
		next = append(next, Item{Product: product, Qty: 1})
	}
	return next
}

// Decrement lowers the quantity of the line with id by one and removes the line when it reaches zero.
func Decrement(items []Item, id string) []Item {
	next := make([]Item, 0, len(items))
	for _, it := range items {
		if it.ID == id {
			if it.Qty <= 1 {
				continue
			}
			it.Qty--
		}
		next = append(next, it)
	}
	return next
}

// Remove drops the line with id.
func Remove(items []Item, id string) []Item {
	next := make([]Item, 0, len(items))
	for _, it := range items {
		if it.ID != id {
			next = append(next, it)
		}
	}
	return next
}

// Clear returns an empty cart.
func Clear() []Item {
	return []Item{}
}

// Count is the total number of units in the cart.
func Count(items []Item) int {
	n := 0
	for _, it := range items {
		n += it.Qty
	}
	return n
}

// Amount is the sum of price times quantity over all lines.
func Amount(items []Item) float64 {
	total := 0.0
	for _, it := range items {
		total += it.Price * float64(it.Qty)
	}
	return round2(total)
}

// Pricing holds the delivery rule: orders at or above FreeDeliveryThreshold ship for free,
// others pay DeliveryFee.
type Pricing struct {
	FreeDeliveryThreshold float64 `json:"free_delivery_threshold"`
	DeliveryFee           float64 `json:"delivery_fee"`
}

// DefaultPricing is 200 DH for free delivery and a 20 DH fee otherwise.
var DefaultPricing = Pricing{FreeDeliveryThreshold: 200, DeliveryFee: 20}

// Summary is the checkout view of a cart.
type Summary struct {
	ItemCount                int     `json:"item_count"`
	Subtotal                 float64 `json:"subtotal"`
	DeliveryFee              float64 `json:"delivery_fee"`
	Total                    float64 `json:"total"`
	FreeDelivery             bool    `json:"free_delivery"`
	RemainingForFreeDelivery float64 `json:"remaining_for_free_delivery"`
	Progress                 float64 `json:"progress"`
}

// Summarize computes totals and applies the delivery rule.
func Summarize(items []Item, pricing Pricing) Summary {
	subtotal := Amount(items)
	remaining := math.Max(0, pricing.FreeDeliveryThreshold-subtotal)
	free := remaining <= 0
	fee := pricing.DeliveryFee
	if free {
		fee = 0
	}
	progress := 100.0
	if pricing.FreeDeliveryThreshold > 0 {
		progress = math.Min(100, subtotal/pricing.FreeDeliveryThreshold*100)
	}
	return Summary{
		ItemCount:                Count(items),
		Subtotal:                 subtotal,
		DeliveryFee:              fee,
		Total:                    round2(subtotal + fee),
		FreeDelivery:             free,
		RemainingForFreeDelivery: round2(remaining),
		Progress:                 round2(progress),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
