package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sweetbloom/storefront/pkg/config/configloader"
)

func loadDefault(t *testing.T) *Config {
	t.Helper()
	cfg, err := configloader.LoadFiles[*Config]("storefront", filepath.Join("..", "..", "config.yaml"), filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)
	return cfg
}

func Test_DefaultConfig(t *testing.T) {
	// when
	cfg := loadDefault(t)

	// then
	assert.Equal(t, 8080, cfg.HTTPServer.Port)
	assert.Equal(t, 10*time.Second, cfg.HTTPServer.Timeout.Read)
	assert.Equal(t, "memory", cfg.Favorites.Backend)
	assert.Equal(t, "@sweetbloom_favorites", cfg.Favorites.Key)
	assert.Equal(t, "demo", cfg.Auth.Provider)
	assert.Equal(t, "demo@sweetbloom.com", cfg.Auth.Demo.Email)
	assert.Equal(t, 200.0, cfg.Delivery.FreeThreshold)
	assert.Equal(t, 20.0, cfg.Delivery.Fee)
	assert.Equal(t, uint32(5), cfg.Catalog.CircuitBreaker.ConsecutiveFailures)
	assert.Equal(t, 5*time.Minute, cfg.Auth.JWKS.MinInterval)
	assert.True(t, cfg.Auth.CheckRevoked)
	assert.False(t, cfg.Notify.Enabled)
	assert.Equal(t, "order-confirmations", cfg.Notify.Consumer)
}

func Test_EnvOverrides(t *testing.T) {
	// given
	t.Setenv("STOREFRONT_FAVORITES_BACKEND", "redis")
	t.Setenv("STOREFRONT_DELIVERY_FEE", "25")

	// when
	cfg := loadDefault(t)

	// then
	assert.Equal(t, "redis", cfg.Favorites.Backend)
	assert.Equal(t, 25.0, cfg.Delivery.Fee)
}

func Test_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "unknown favorites backend", mutate: func(c *Config) { c.Favorites.Backend = "sqlite" }, wantErr: "unknown favorites backend"},
		{name: "postgres backend needs a database url", mutate: func(c *Config) {
			c.Favorites.Backend = "postgres"
			c.Database.URL = ""
		}, wantErr: "database"},
		{name: "redis backend needs a redis url", mutate: func(c *Config) {
			c.Favorites.Backend = "redis"
			c.Redis.URL = ""
		}, wantErr: "edis"},
		{name: "unknown auth provider", mutate: func(c *Config) { c.Auth.Provider = "ldap" }, wantErr: "unknown auth provider"},
		{name: "firebase auth needs an api key", mutate: func(c *Config) { c.Auth.Provider = "firebase" }, wantErr: "API key"},
		{name: "firebase auth with api key", mutate: func(c *Config) {
			c.Auth.Provider = "firebase"
			c.Auth.Firebase.APIKey = "key"
		}},
		{name: "remote catalog needs a project", mutate: func(c *Config) {
			c.Catalog.Remote = true
			c.Catalog.Firebase.ProjectID = ""
		}, wantErr: "catalog"},
		{name: "remote catalog needs a breaker", mutate: func(c *Config) {
			c.Catalog.Remote = true
			c.Catalog.CircuitBreaker.ConsecutiveFailures = 0
		}, wantErr: "consecutivefailures"},
		{name: "notifications need nats", mutate: func(c *Config) { c.Notify.Enabled = true }, wantErr: "require nats"},
		{name: "notifications need workers", mutate: func(c *Config) {
			c.Nats.Enabled = true
			c.Notify.Enabled = true
			c.Notify.Workers = 0
		}, wantErr: "workers"},
		{name: "sendgrid needs an api key", mutate: func(c *Config) { c.Mail.Provider = "sendgrid" }, wantErr: "sendgrid API key"},
		{name: "sendgrid with api key", mutate: func(c *Config) {
			c.Mail.Provider = "sendgrid"
			c.Mail.APIKey = "SG.key"
		}},
		{name: "unknown mail provider", mutate: func(c *Config) { c.Mail.Provider = "smtp" }, wantErr: "unknown mail provider"},
		{name: "negative delivery fee", mutate: func(c *Config) { c.Delivery.Fee = -1 }, wantErr: "delivery fee"},
		{name: "invalid port", mutate: func(c *Config) { c.HTTPServer.Port = 0 }, wantErr: "port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// given
			cfg := loadDefault(t)
			tt.mutate(cfg)

			// when
			err := cfg.Validate()

			// then
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func Test_StringMasksSecrets(t *testing.T) {
	// given
	cfg := loadDefault(t)
	cfg.Favorites.Backend = "postgres"
	cfg.Auth.Provider = "firebase"
	cfg.Auth.Firebase.APIKey = "super-secret"
	cfg.Mail.APIKey = "SG.mail-secret"

	// when
	out := cfg.String()

	// then
	assert.NotContains(t, out, "super-secret")
	assert.NotContains(t, out, "SG.mail-secret")
	assert.NotContains(t, out, "storefront:storefront")
	assert.Contains(t, out, "favorites.backend: postgres")
}
