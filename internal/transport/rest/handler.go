// Package rest provides the HTTP API of the storefront.
package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/sweetbloom/storefront/internal/auth"
	"github.com/sweetbloom/storefront/internal/cart"
	"github.com/sweetbloom/storefront/internal/catalog"
	"github.com/sweetbloom/storefront/internal/checkout"
	"github.com/sweetbloom/storefront/internal/favorites"
	"github.com/sweetbloom/storefront/pkg/web"
)

// Check is a named readiness check.
type Check struct {
	Name string
	Fn   func(ctx context.Context) error
}

// Services are the domain services behind the API.
type Services struct {
	Catalog   catalog.CatalogService
	Carts     *cart.Registry
	Pricing   cart.Pricing
	Favorites *favorites.Service
	Auth      auth.AuthService
	Checkout  checkout.CheckoutService
	Checks    []Check
}

type Handler struct {
	catalog   catalog.CatalogService
	carts     *cart.Registry
	pricing   cart.Pricing
	favorites *favorites.Service
	auth      auth.AuthService
	checkout  checkout.CheckoutService
	checks    []Check
	validate  *validator.Validate
	logger    *slog.Logger
}

// NewHandler creates the API handler over the given services.
func NewHandler(s Services, logger *slog.Logger) *Handler {
	return &Handler{
		catalog:   s.Catalog,
		carts:     s.Carts,
		pricing:   s.Pricing,
		favorites: s.Favorites,
		auth:      s.Auth,
		checkout:  s.Checkout,
		checks:    s.Checks,
		validate:  validator.New(),
		logger:    logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the public routes and, behind bearer authentication, the per-user ones.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/categories", h.Categories)
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Products)
			r.Get("/search", h.Search)
			r.Get("/{id}", h.Product)
		})
		r.Post("/auth/login", h.Login)
		r.Post("/auth/register", h.Register)

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(h.auth, h.logger))

			r.Get("/auth/me", h.Me)
			r.Post("/auth/logout", h.Logout)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.Cart)
				r.Delete("/", h.ClearCart)
				r.Post("/items", h.AddToCart)
				r.Post("/items/{id}/decrement", h.DecrementInCart)
				r.Delete("/items/{id}", h.RemoveFromCart)
				r.Get("/checkout", h.CheckoutPreview)
				r.Post("/checkout", h.Checkout)
			})

			r.Route("/favorites", func(r chi.Router) {
				r.Get("/", h.Favorites)
				r.Post("/", h.AddFavorite)
				r.Delete("/", h.ClearFavorites)
				r.Get("/{id}", h.IsFavorite)
				r.Delete("/{id}", h.RemoveFavorite)
				r.Post("/{id}/toggle", h.ToggleFavorite)
			})
		})
	})

	r.Get("/healthz", h.HealthCheck)
	r.Get("/readyz", h.ReadinessCheck)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// ReadinessCheck reports 503 while the auth provider is loading or any dependency is down.
func (h *Handler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if h.auth.Loading() {
		web.RespondJSON(w, h.logger, http.StatusServiceUnavailable, map[string]string{"status": "loading"})
		return
	}
	failed := make(map[string]string)
	for _, check := range h.checks {
		if err := check.Fn(r.Context()); err != nil {
			h.logger.WarnContext(r.Context(), "Readiness check failed", "check", check.Name, "error", err)
			failed[check.Name] = err.Error()
		}
	}
	if len(failed) > 0 {
		web.RespondJSON(w, h.logger, http.StatusServiceUnavailable, map[string]any{"status": "unavailable", "checks": failed})
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, map[string]string{"status": "ready"})
}

// productRequest references a catalog product in a request body.
type productRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}
