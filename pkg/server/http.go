// Package server constructs the HTTP and gRPC servers with the shared middleware stack.
package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sweetbloom/storefront/pkg/config"
	"github.com/sweetbloom/storefront/pkg/web"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewHTTPServer returns a server whose handler is traced under operation and whose
// internal errors (TLS handshakes, malformed requests) go to logger at warn level.
func NewHTTPServer(cfg config.HTTPConfig, operation string, handler http.Handler, logger *slog.Logger) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           otelhttp.NewHandler(handler, operation),
		ReadTimeout:       cfg.Timeout.Read,
		WriteTimeout:      cfg.Timeout.Write,
		IdleTimeout:       cfg.Timeout.Idle,
		ReadHeaderTimeout: cfg.Timeout.ReadHeader,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}
}

// NewChiRouter creates a chi router that cleans paths, resolves the client IP,
// assigns request IDs, logs every request and recovers from panics.
func NewChiRouter(logger *slog.Logger) *chi.Mux {
	mux := chi.NewRouter()
	mux.Use(middleware.CleanPath)
	mux.Use(middleware.RealIP)
	mux.Use(web.RequestIDInjector)
	mux.Use(web.StructuredLogger(logger))
	mux.Use(web.Recoverer(logger))
	return mux
}
