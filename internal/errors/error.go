// Package errors provides the sentinel errors shared by the storefront services.
package errors

import "errors"

var ErrProductNotFound = errors.New("product not found")
var ErrInvalidProduct = errors.New("invalid product record")
var ErrCatalogUnavailable = errors.New("catalog unavailable")

var ErrEmptyCart = errors.New("cart is empty")

var ErrUnauthenticated = errors.New("unauthenticated")
var ErrInvalidToken = errors.New("invalid token")
