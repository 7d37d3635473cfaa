package rest

import (
	"errors"
	"net/http"

	"github.com/sweetbloom/storefront/internal/cart"
	"github.com/sweetbloom/storefront/internal/checkout"
	storeerrors "github.com/sweetbloom/storefront/internal/errors"
	"github.com/sweetbloom/storefront/pkg/web"
)

type cartResponse struct {
	Items   []cart.Item  `json:"items"`
	Summary cart.Summary `json:"summary"`
}

func (h *Handler) cartResponse(items []cart.Item) cartResponse {
	return cartResponse{Items: items, Summary: cart.Summarize(items, h.pricing)}
}

// Cart returns the caller's cart with its totals.
func (h *Handler) Cart(w http.ResponseWriter, r *http.Request) {
	userID, ok := web.GetUserID(w, r, h.logger)
	if !ok {
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, h.cartResponse(h.carts.For(userID).Items()))
}

// AddToCart adds one unit of the referenced product.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := web.GetUserID(w, r, h.logger)
	if !ok {
		return
	}
	var req productRequest
	if !web.DecodeAndValidate(w, r, h.logger, h.validate, &req) {
		return
	}
	product, ok := h.findProduct(w, r, req.ProductID)
	if !ok {
		return
	}
	items := h.carts.For(userID).Add(*product)
	h.logger.DebugContext(r.Context(), "Product added to cart", "ID", product.ID)
	web.RespondJSON(w, h.logger, http.StatusOK, h.cartResponse(items))
}

// DecrementInCart removes one unit, dropping the line when it reaches zero.
func (h *Handler) DecrementInCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := web.GetUserID(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := web.PathID(w, r, h.logger)
	if !ok {
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, h.cartResponse(h.carts.For(userID).Decrement(id)))
}

// RemoveFromCart drops the line whatever its quantity.
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := web.GetUserID(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := web.PathID(w, r, h.logger)
	if !ok {
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, h.cartResponse(h.carts.For(userID).Remove(id)))
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := web.GetUserID(w, r, h.logger)
	if !ok {
		return
	}
	h.carts.For(userID).Clear()
	w.WriteHeader(http.StatusNoContent)
}

// CheckoutPreview returns what placing the order now would charge.
func (h *Handler) CheckoutPreview(w http.ResponseWriter, r *http.Request) {
	userID, ok := web.GetUserID(w, r, h.logger)
	if !ok {
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, h.checkout.Preview(r.Context(), userID))
}

// Checkout places an order for the caller's cart.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := web.GetUserID(w, r, h.logger)
	if !ok {
		return
	}
	principal, _ := web.PrincipalFrom(r.Context())
	order, err := h.checkout.Checkout(r.Context(), checkout.Customer{UID: userID, Email: principal.Email})
	if err != nil {
		if errors.Is(err, storeerrors.ErrEmptyCart) {
			h.logger.WarnContext(r.Context(), "Checkout of an empty cart")
			web.RespondError(w, h.logger, http.StatusUnprocessableEntity, "Cart is empty")
			return
		}
		h.logger.ErrorContext(r.Context(), "Error placing order", "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Failed to place order")
		return
	}
	h.logger.InfoContext(r.Context(), "Order placed successfully", "orderID", order.ID)
	web.RespondJSON(w, h.logger, http.StatusCreated, order)
}
