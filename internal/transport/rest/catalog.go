package rest

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sweetbloom/storefront/internal/catalog"
	storeerrors "github.com/sweetbloom/storefront/internal/errors"
	"github.com/sweetbloom/storefront/pkg/web"
)

// Products lists the catalog, optionally filtered by ?category= and capped by ?limit=.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category != "" && !catalog.IsCategory(category) {
		h.logger.WarnContext(r.Context(), "Unknown category", "category", category)
		web.RespondError(w, h.logger, http.StatusBadRequest, fmt.Sprintf("Unknown category: %s", category))
		return
	}
	limit, ok := web.ParseOptionalGt(r, w, h.logger, "limit", 0, 0)
	if !ok {
		return
	}

	h.logger.DebugContext(r.Context(), "Received request to list products", "category", category, "limit", limit)
	list, err := h.catalog.GetAll(r.Context(), category)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Error retrieving product list", "error", err)
		web.RespondError(w, h.logger, http.StatusServiceUnavailable, "Failed to fetch products")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, capped(list, limit))
}

// Search matches ?q= against product titles and descriptions.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit, ok := web.ParseOptionalGt(r, w, h.logger, "limit", 0, 0)
	if !ok {
		return
	}

	h.logger.DebugContext(r.Context(), "Received request to search products", "query", query)
	list, err := h.catalog.Search(r.Context(), query)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Error searching products", "query", query, "error", err)
		web.RespondError(w, h.logger, http.StatusServiceUnavailable, "Failed to search products")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, capped(list, limit))
}

// Product retrieves a product by its ID.
func (h *Handler) Product(w http.ResponseWriter, r *http.Request) {
	id, ok := web.PathID(w, r, h.logger)
	if !ok {
		return
	}
	product, ok := h.findProduct(w, r, id)
	if !ok {
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, product)
}

func (h *Handler) Categories(w http.ResponseWriter, _ *http.Request) {
	web.RespondJSON(w, h.logger, http.StatusOK, h.catalog.Categories())
}

// findProduct resolves id through the catalog and writes the error response on failure.
func (h *Handler) findProduct(w http.ResponseWriter, r *http.Request, id string) (*catalog.Product, bool) {
	product, err := h.catalog.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, storeerrors.ErrProductNotFound) {
			h.logger.WarnContext(r.Context(), "Product not found", "ID", id)
			web.RespondError(w, h.logger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", id))
			return nil, false
		}
		h.logger.ErrorContext(r.Context(), "Error retrieving product", "ID", id, "error", err)
		web.RespondError(w, h.logger, http.StatusServiceUnavailable, fmt.Sprintf("Failed to retrieve product with ID %s", id))
		return nil, false
	}
	return product, true
}

func capped(list []catalog.Product, limit int) []catalog.Product {
	if limit > 0 && len(list) > limit {
		return list[:limit]
	}
	return list
}
