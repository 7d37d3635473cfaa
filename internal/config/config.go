// Package config defines the storefront service configuration.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/sweetbloom/storefront/internal/auth"
	"github.com/sweetbloom/storefront/internal/kv"
	"github.com/sweetbloom/storefront/pkg/config"
	"github.com/sweetbloom/storefront/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	HTTPServer config.HTTPConfig       `koanf:"server"`
	GrpcServer config.GrpcServerConfig `koanf:"grpc"`
	Log        config.LogConfig        `koanf:"log"`
	PProf      config.PProfConfig      `koanf:"pprof"`
	Shutdown   config.ShutdownConfig   `koanf:"shutdown"`
	Telemetry  config.TelemetryConfig  `koanf:"telemetry"`
	Nats       config.NATSConfig       `koanf:"nats"`
	Notify     config.SubscriberConfig `koanf:"notifications"`
	Mail       config.MailConfig       `koanf:"mail"`
	Database   config.DatabaseConfig   `koanf:"database"`
	Redis      config.RedisConfig      `koanf:"redis"`
	Favorites  FavoritesConfig         `koanf:"favorites"`
	Catalog    CatalogConfig           `koanf:"catalog"`
	Auth       AuthConfig              `koanf:"auth"`
	Delivery   DeliveryConfig          `koanf:"delivery"`
}

// FavoritesConfig selects the key-value backend holding favorites.
type FavoritesConfig struct {
	Backend string `koanf:"backend"`
	Key     string `koanf:"key"`
}

// CatalogConfig controls the remote document store. With Remote off only the built-in catalog is served.
type CatalogConfig struct {
	Remote         bool                        `koanf:"remote"`
	Timeout        time.Duration               `koanf:"timeout"`
	Firebase       config.FirebaseConfig       `koanf:"firebase"`
	CircuitBreaker config.CircuitBreakerConfig `koanf:"circuitbreaker"`
}

// AuthConfig selects the identity provider. CheckRevoked makes Firebase reject ID tokens issued
// before the last logout.
type AuthConfig struct {
	Provider     string                `koanf:"provider"`
	Firebase     config.FirebaseConfig `koanf:"firebase"`
	JWKS         config.JWKSConfig     `koanf:"jwks"`
	CheckRevoked bool                  `koanf:"checkrevoked"`
	Demo         DemoConfig            `koanf:"demo"`
}

// DemoConfig is the account seeded into the demo provider.
type DemoConfig struct {
	UID      string `koanf:"uid"`
	Email    string `koanf:"email"`
	Password string `koanf:"password"`
}

// DeliveryConfig is the delivery fee rule applied to cart totals.
type DeliveryConfig struct {
	FreeThreshold float64 `koanf:"freethreshold"`
	Fee           float64 `koanf:"fee"`
}

func (c *Config) String() string {
	var b strings.Builder

	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.GrpcServer.String())

	b.WriteString("\n--- Favorites ---\n")
	b.WriteString(fmt.Sprintf("  favorites.backend: %s\n", c.Favorites.Backend))
	b.WriteString(fmt.Sprintf("  favorites.key: %s\n", c.Favorites.Key))
	switch c.Favorites.Backend {
	case kv.BackendPostgres:
		b.WriteString(c.Database.String())
	case kv.BackendRedis:
		b.WriteString(c.Redis.String())
	}

	b.WriteString("\n--- Catalog ---\n")
	b.WriteString(fmt.Sprintf("  catalog.remote: %t\n", c.Catalog.Remote))
	b.WriteString(fmt.Sprintf("  catalog.timeout: %s\n", c.Catalog.Timeout))
	if c.Catalog.Remote {
		b.WriteString(c.Catalog.Firebase.String())
		b.WriteString(c.Catalog.CircuitBreaker.String())
	}

	b.WriteString("\n--- Auth ---\n")
	b.WriteString(fmt.Sprintf("  auth.provider: %s\n", c.Auth.Provider))
	switch c.Auth.Provider {
	case auth.ProviderFirebase:
		b.WriteString(c.Auth.Firebase.String())
		b.WriteString(c.Auth.JWKS.String())
		b.WriteString(fmt.Sprintf("  auth.checkrevoked: %t\n", c.Auth.CheckRevoked))
	case auth.ProviderDemo:
		b.WriteString(fmt.Sprintf("  auth.demo.email: %s\n", c.Auth.Demo.Email))
	}

	b.WriteString("\n--- Delivery ---\n")
	b.WriteString(fmt.Sprintf("  delivery.freethreshold: %.2f\n", c.Delivery.FreeThreshold))
	b.WriteString(fmt.Sprintf("  delivery.fee: %.2f\n", c.Delivery.Fee))

	b.WriteString(c.Nats.String())
	b.WriteString(c.Notify.String())
	b.WriteString(c.Mail.String())
	b.WriteString(c.Telemetry.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Shutdown.String())

	return b.String()
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	if err := c.HTTPServer.Validate(); err != nil {
		return err
	}
	if err := c.GrpcServer.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.PProf.Validate(); err != nil {
		return err
	}
	if err := c.Shutdown.Validate(); err != nil {
		return err
	}
	if err := c.Telemetry.Validate(); err != nil {
		return err
	}
	if err := c.Nats.Validate(); err != nil {
		return err
	}
	if err := c.Notify.Validate(); err != nil {
		return err
	}
	if err := c.Mail.Validate(); err != nil {
		return err
	}
	if c.Notify.Enabled && !c.Nats.Enabled {
		return fmt.Errorf("notifications require nats to be enabled")
	}
	if err := c.validateFavorites(); err != nil {
		return err
	}
	if err := c.Catalog.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return c.Delivery.Validate()
}

func (c *Config) validateFavorites() error {
	switch c.Favorites.Backend {
	case kv.BackendMemory:
		return nil
	case kv.BackendPostgres:
		return c.Database.Validate()
	case kv.BackendRedis:
		return c.Redis.Validate()
	default:
		return fmt.Errorf("unknown favorites backend %q, expected one of: %s, %s, %s",
			c.Favorites.Backend, kv.BackendMemory, kv.BackendRedis, kv.BackendPostgres)
	}
}

func (c *CatalogConfig) Validate() error {
	if !c.Remote {
		return nil
	}
	if c.Timeout < 0 {
		return fmt.Errorf("catalog timeout cannot be negative")
	}
	if err := c.Firebase.Validate(); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	return c.CircuitBreaker.Validate()
}

// Validate checks the selected provider. JWKS endpoints default to the Firebase ones when left empty.
func (c *AuthConfig) Validate() error {
	switch c.Provider {
	case auth.ProviderDemo:
		return nil
	case auth.ProviderFirebase:
		if err := c.Firebase.Validate(); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
		if c.Firebase.APIKey == "" {
			return fmt.Errorf("auth: firebase API key is not configured")
		}
		if c.JWKS.MinInterval <= 0 {
			return fmt.Errorf("auth: JWKS minimum refresh interval must be greater than zero")
		}
		return nil
	default:
		return fmt.Errorf("unknown auth provider %q, expected %s or %s", c.Provider, auth.ProviderFirebase, auth.ProviderDemo)
	}
}

func (c *DeliveryConfig) Validate() error {
	if c.FreeThreshold < 0 {
		return fmt.Errorf("delivery free threshold cannot be negative")
	}
	if c.Fee < 0 {
		return fmt.Errorf("delivery fee cannot be negative")
	}
	return nil
}
