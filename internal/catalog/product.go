// Package catalog serves the product catalog from the remote document store with a static fallback.
package catalog

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	storeerrors "github.com/sweetbloom/storefront/internal/errors"
)

// Product categories.
const (
	CategoryFlowers    = "fleurs"
	CategoryChocolates = "chocolats"
	CategoryCakes      = "gateaux"
)

// Categories lists the categories in display order.
var Categories = []string{CategoryFlowers, CategoryChocolates, CategoryCakes}

// Product is a catalog record. Records coming from the remote store are validated before use.
type Product struct {
	ID          string  `json:"id" firestore:"-" validate:"required"`
	Title       string  `json:"title" firestore:"title" validate:"required"`
	Price       float64 `json:"price" firestore:"price" validate:"gte=0"`
	Description string  `json:"description" firestore:"description"`
	Category    string  `json:"category" firestore:"category" validate:"oneof=fleurs chocolats gateaux"`
	Image       string  `json:"image" firestore:"image" validate:"omitempty,url"`
}

// Source is a provider of catalog records.
type Source interface {
	// List returns all products, or those of one category when category is not empty.
	List(ctx context.Context, category string) ([]Product, error)
	// Get returns one product. Returns ErrProductNotFound if the ID is unknown.
	Get(ctx context.Context, id string) (*Product, error)
}

var validate = validator.New()

// Validate checks a record against the catalog schema.
func (p Product) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w %q: %v", storeerrors.ErrInvalidProduct, p.ID, err)
	}
	return nil
}

// IsCategory reports whether c is a known category.
func IsCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}
