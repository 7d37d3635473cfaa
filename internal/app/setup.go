// Package app wires the storefront services, the HTTP API and the gRPC health server.
package app

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sweetbloom/storefront/internal/auth"
	"github.com/sweetbloom/storefront/internal/cart"
	"github.com/sweetbloom/storefront/internal/catalog"
	"github.com/sweetbloom/storefront/internal/checkout"
	"github.com/sweetbloom/storefront/internal/config"
	"github.com/sweetbloom/storefront/internal/favorites"
	"github.com/sweetbloom/storefront/internal/kv"
	"github.com/sweetbloom/storefront/internal/transport/rest"
	"github.com/sweetbloom/storefront/pkg/messaging"
	"github.com/sweetbloom/storefront/pkg/server"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthService is the name reported by the gRPC health server.
const HealthService = "storefront"

// Backends are the external resources the services run on.
type Backends struct {
	KV        kv.Store
	Remote    catalog.Source // nil serves the built-in catalog only
	Provider  auth.Provider
	Publisher messaging.Publisher
}

type Dependencies struct {
	Catalog     catalog.CatalogService
	Carts       *cart.Registry
	Pricing     cart.Pricing
	Favorites   *favorites.Service
	Auth        *auth.Service
	Checkout    checkout.CheckoutService
	Checks      []rest.Check
	Metrics     http.Handler
	MetricsPath string
	Logger      *slog.Logger
}

func SetupDependencies(b Backends, cfg *config.Config, logger *slog.Logger) *Dependencies {
	remote := b.Remote
	if remote != nil {
		remote = catalog.NewBreakerSource(remote, cfg.Catalog.CircuitBreaker, logger)
	}
	pricing := cart.Pricing{
		FreeDeliveryThreshold: cfg.Delivery.FreeThreshold,
		DeliveryFee:           cfg.Delivery.Fee,
	}
	carts := cart.NewRegistry(logCartChanges(logger))

	authService := auth.NewService(b.Provider, logger)
	authService.Subscribe(func(uid string, user *auth.User) {
		logger.Info("Auth state changed", "uid", uid, "signedIn", user != nil)
	})

	return &Dependencies{
		Catalog:   catalog.NewService(remote, catalog.NewStaticSource(), logger),
		Carts:     carts,
		Pricing:   pricing,
		Favorites: favorites.NewService(b.KV, cfg.Favorites.Key, logger),
		Auth:      authService,
		Checkout:  checkout.NewService(carts, pricing, b.Publisher, logger),
		Checks: []rest.Check{
			{Name: "favorites", Fn: b.KV.Ping},
		},
		Logger: logger,
	}
}

// logCartChanges traces every cart transition at debug level.
func logCartChanges(logger *slog.Logger) cart.Hook {
	return func(userID string, store *cart.Store) {
		store.Subscribe(func(items []cart.Item) {
			logger.Debug("Cart updated", "uid", userID, "count", cart.Count(items), "amount", cart.Amount(items))
		})
	}
}

// SetupHttpHandler builds the router with every route of the storefront.
// Used by tests to exercise the API without a listening server.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	handler := rest.NewHandler(rest.Services{
		Catalog:   deps.Catalog,
		Carts:     deps.Carts,
		Pricing:   deps.Pricing,
		Favorites: deps.Favorites,
		Auth:      deps.Auth,
		Checkout:  deps.Checkout,
		Checks:    deps.Checks,
	}, deps.Logger)
	handler.RegisterRoutes(mux)
	if deps.Metrics != nil {
		mux.Handle(deps.MetricsPath, deps.Metrics)
	}
}

// SetupHttpServer creates the traced HTTP server.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	return server.NewHTTPServer(cfg.HTTPServer, HealthService, SetupHttpHandler(deps), deps.Logger)
}

// SetupGrpcServer serves grpc.health.v1. The storefront service reports NOT_SERVING until
// the auth provider is ready.
func SetupGrpcServer(cfg *config.Config, logger *slog.Logger) (*grpc.Server, *health.Server) {
	healthServer := health.NewServer()
	healthServer.SetServingStatus(HealthService, healthpb.HealthCheckResponse_NOT_SERVING)
	return server.NewGRPCServer(logger, cfg.GrpcServer.ReflectionEnabled, server.WithHealth(healthServer)), healthServer
}

// StartAuth initializes the auth provider and flips the health status once it is ready.
// On failure the service keeps serving in the loading state.
func StartAuth(ctx context.Context, deps *Dependencies, healthServer *health.Server) bool {
	if err := deps.Auth.Start(ctx); err != nil {
		deps.Logger.ErrorContext(ctx, "Auth provider unavailable, staying in loading state", "error", err)
		return false
	}
	healthServer.SetServingStatus(HealthService, healthpb.HealthCheckResponse_SERVING)
	return true
}
