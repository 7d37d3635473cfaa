// Package main runs the SweetBloom storefront API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "net/http/pprof"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/sweetbloom/storefront/internal/app"
	"github.com/sweetbloom/storefront/internal/auth"
	"github.com/sweetbloom/storefront/internal/catalog"
	"github.com/sweetbloom/storefront/internal/config"
	"github.com/sweetbloom/storefront/internal/kv"
	"github.com/sweetbloom/storefront/internal/notification"
	"github.com/sweetbloom/storefront/pkg/bootstrap"
	pkgconfig "github.com/sweetbloom/storefront/pkg/config"
	"github.com/sweetbloom/storefront/pkg/config/configloader"
	"github.com/sweetbloom/storefront/pkg/messaging"
	natsclient "github.com/sweetbloom/storefront/pkg/nats"
	"github.com/sweetbloom/storefront/pkg/telemetry"
	"golang.org/x/sync/errgroup"
)

const serviceName = "storefront"

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("application run failed: %v", err)
		os.Exit(1)
	}
	log.Println("application stopped gracefully")
}

// run loads the configuration, connects the backends and serves HTTP, gRPC and pprof until ctx is done.
func run(ctx context.Context) error {
	cfg, cfgErr := configloader.Load[*config.Config](serviceName)
	if cfgErr != nil {
		return fmt.Errorf("failed to load configuration: %w", cfgErr)
	}
	log.Printf("Configuration loaded: %v", cfg)

	logger := bootstrap.NewLogger(cfg.Log)
	slog.SetDefault(logger)

	if cfg.Telemetry.Traces.Enabled {
		tp, err := telemetry.NewTracerProvider(ctx, serviceName, cfg.Telemetry)
		if err != nil {
			return fmt.Errorf("failed to create tracer provider: %w", err)
		}
		defer shutdownWithTimeout(logger, "tracer provider", cfg.Shutdown.Timeout, tp.Shutdown)
	}
	var metrics *telemetry.Metrics
	if cfg.Telemetry.Metrics.Enabled {
		m, err := telemetry.NewMeterProvider(serviceName)
		if err != nil {
			return fmt.Errorf("failed to create meter provider: %w", err)
		}
		defer shutdownWithTimeout(logger, "meter provider", cfg.Shutdown.Timeout, m.Provider.Shutdown)
		metrics = m
	}

	store, closeStore, err := newKVStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	remote, closeRemote, err := newRemoteCatalog(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRemote()

	provider, err := newAuthProvider(ctx, cfg, logger)
	if err != nil {
		return err
	}

	js, closeNats, err := connectNats(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeNats()
	var publisher messaging.Publisher = messaging.NewLogPublisher(logger)
	if js != nil {
		publisher = natsclient.NewNatsPublisher(js)
	}

	deps := app.SetupDependencies(app.Backends{
		KV:        store,
		Remote:    remote,
		Provider:  provider,
		Publisher: publisher,
	}, cfg, logger)
	if metrics != nil {
		deps.Metrics = metrics.Handler
		deps.MetricsPath = cfg.Telemetry.Metrics.Path
	}

	httpServer := app.SetupHttpServer(deps, cfg)
	grpcServer, healthServer := app.SetupGrpcServer(cfg, logger)
	pprofServer := &http.Server{
		Addr: cfg.PProf.Addr,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Start the HTTP server
	g.Go(func() error {
		logger.Info("HTTP server listening", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	// gracefully shutdown HTTP server on context cancellation
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	// Start the gRPC health server
	g.Go(func() error {
		grpcAddr := ":" + cfg.GrpcServer.Port
		lis, err := net.Listen("tcp", grpcAddr)
		if err != nil {
			return fmt.Errorf("failed to listen on gRPC port: %w", err)
		}
		logger.Info("gRPC server listening", slog.String("addr", grpcAddr))
		return grpcServer.Serve(lis)
	})
	// gracefully shutdown gRPC server on context cancellation
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down gRPC server...")
		healthServer.Shutdown()
		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
			logger.Info("gRPC server stopped gracefully.")
			return nil
		case <-time.After(cfg.Shutdown.Timeout):
			logger.Warn("gRPC server graceful stop timed out. Forcing stop.")
			grpcServer.Stop()
			return fmt.Errorf("grpc server graceful stop timed out")
		}
	})

	// Initialize the auth provider; readiness flips once it is done.
	g.Go(func() error {
		app.StartAuth(gCtx, deps, healthServer)
		return nil
	})

	// Send order confirmations if enabled
	if cfg.Notify.Enabled {
		subscriber := notification.NewSubscriber(newSender(cfg.Mail, logger), cfg.Notify, logger)
		g.Go(func() error {
			logger.Info("Order confirmation subscriber started")
			return subscriber.Start(gCtx, js, cfg.Nats.Stream)
		})
	}

	// Start the pprof server if enabled
	if cfg.PProf.Enabled {
		g.Go(func() error {
			logger.Info("Pprof server listening", slog.String("addr", pprofServer.Addr))
			if err := pprofServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("pprof server failed: %w", err)
			}
			return nil
		})
		// gracefully shutdown pprof server on context cancellation
		g.Go(func() error {
			<-gCtx.Done()
			logger.Info("Shutting down pprof server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
			defer cancel()
			return pprofServer.Shutdown(shutdownCtx)
		})
	}
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("errgroup encountered an error: %w", err)
	}
	return nil
}

// newKVStore opens the favorites backend selected by favorites.backend.
func newKVStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (kv.Store, func(), error) {
	switch cfg.Favorites.Backend {
	case kv.BackendPostgres:
		if cfg.Database.Migrate {
			if err := kv.Migrate(cfg.Database.URL); err != nil {
				return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
			}
		}
		pool, err := bootstrap.NewDbPool(ctx, cfg.Database.URL, cfg.Database.Timeout)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create database connection pool: %w", err)
		}
		logger.Info("Successfully connected to the database!")
		return kv.NewPgStore(pool), pool.Close, nil
	case kv.BackendRedis:
		client, err := bootstrap.NewRedisClient(ctx, cfg.Redis.URL, cfg.Redis.Timeout)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		logger.Info("Successfully connected to redis!")
		return kv.NewRedisStore(client, ""), func() {
			if err := client.Close(); err != nil {
				logger.Warn("failed to close redis client", "error", err)
			}
		}, nil
	default:
		return kv.NewMemoryStore(), func() {}, nil
	}
}

// newRemoteCatalog returns a nil source when the remote catalog is disabled.
func newRemoteCatalog(ctx context.Context, cfg *config.Config, logger *slog.Logger) (catalog.Source, func(), error) {
	if !cfg.Catalog.Remote {
		return nil, func() {}, nil
	}
	client, err := catalog.NewFirestoreClient(ctx, cfg.Catalog.Firebase.ProjectID, cfg.Catalog.Firebase.CredentialsFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return catalog.NewFirestoreSource(client, cfg.Catalog.Timeout, logger), func() {
		if err := client.Close(); err != nil {
			logger.Warn("failed to close firestore client", "error", err)
		}
	}, nil
}

func newAuthProvider(ctx context.Context, cfg *config.Config, logger *slog.Logger) (auth.Provider, error) {
	if cfg.Auth.Provider == auth.ProviderFirebase {
		p, err := auth.NewFirebaseProvider(ctx, cfg.Auth.Firebase, cfg.Auth.JWKS, cfg.Auth.CheckRevoked, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create firebase auth provider: %w", err)
		}
		return p, nil
	}
	account := auth.DefaultDemoAccount
	if cfg.Auth.Demo.Email != "" {
		account = auth.DemoAccount{
			UID:      cfg.Auth.Demo.UID,
			Email:    cfg.Auth.Demo.Email,
			Password: cfg.Auth.Demo.Password,
		}
	}
	p, err := auth.NewDemoProvider(logger, account)
	if err != nil {
		return nil, fmt.Errorf("failed to create demo auth provider: %w", err)
	}
	return p, nil
}

// connectNats returns a nil JetStream when NATS is disabled.
func connectNats(ctx context.Context, cfg *config.Config, logger *slog.Logger) (jetstream.JetStream, func(), error) {
	if !cfg.Nats.Enabled {
		return nil, func() {}, nil
	}
	nc, err := natsclient.NewClient(cfg.Nats.Url, cfg.Nats.Timeout)
	if err != nil {
		return nil, nil, err
	}
	// NewJetStreamContext closes nc when it fails.
	js, err := natsclient.NewJetStreamContext(nc)
	if err != nil {
		return nil, nil, err
	}
	if err := natsclient.EnsureStream(ctx, js, cfg.Nats.Stream, messaging.OrdersPlacedSubject); err != nil {
		nc.Close()
		return nil, nil, err
	}
	logger.Info("Connected to NATS", slog.String("url", cfg.Nats.Url))
	return js, func() {
		if err := nc.Drain(); err != nil {
			logger.Warn("failed to drain NATS connection", "error", err)
		}
	}, nil
}

// newSender mails confirmations when SendGrid is configured and logs them otherwise.
func newSender(cfg pkgconfig.MailConfig, logger *slog.Logger) notification.Sender {
	logSender := notification.NewLogSender(logger)
	if cfg.Provider != pkgconfig.MailSendGrid {
		return logSender
	}
	return notification.NewEmailSender(cfg.APIKey, cfg.From, cfg.FromName, logSender, logger)
}

func shutdownWithTimeout(logger *slog.Logger, name string, timeout time.Duration, shutdown func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		logger.Error("failed to shutdown "+name, "error", err)
	}
}
