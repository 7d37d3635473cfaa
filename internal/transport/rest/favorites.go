package rest

import (
	"net/http"

	"github.com/sweetbloom/storefront/pkg/web"
)

func (h *Handler) Favorites(w http.ResponseWriter, r *http.Request) {
	userID, ok := web.GetUserID(w, r, h.logger)
	if !ok {
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, h.favorites.For(userID).GetAll(r.Context()))
}

// IsFavorite answers {"favorite": bool} for one product.
func (h *Handler) IsFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := web.GetUserID(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := web.PathID(w, r, h.logger)
	if !ok {
		return
	}
	favorite := h.favorites.For(userID).Contains(r.Context(), id)
	web.RespondJSON(w, h.logger, http.StatusOK, map[string]bool{"favorite": favorite})
}

func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
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
	web.RespondJSON(w, h.logger, http.StatusOK, h.favorites.For(userID).Add(r.Context(), *product))
}

// ToggleFavorite removes the product from the favorites if present and adds it otherwise.
func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := web.GetUserID(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := web.PathID(w, r, h.logger)
	if !ok {
		return
	}
	store := h.favorites.For(userID)
	if store.Contains(r.Context(), id) {
		web.RespondJSON(w, h.logger, http.StatusOK, store.Remove(r.Context(), id))
		return
	}
	product, ok := h.findProduct(w, r, id)
	if !ok {
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, store.Toggle(r.Context(), *product))
}

func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := web.GetUserID(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := web.PathID(w, r, h.logger)
	if !ok {
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, h.favorites.For(userID).Remove(r.Context(), id))
}

func (h *Handler) ClearFavorites(w http.ResponseWriter, r *http.Request) {
	userID, ok := web.GetUserID(w, r, h.logger)
	if !ok {
		return
	}
	h.favorites.For(userID).Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
