package config

import (
	"fmt"
	"strings"
	"time"
)

// JWKSConfig describes how ID tokens are verified against a JSON Web Key Set.
type JWKSConfig struct {
	URL         string        `koanf:"url"`
	Issuer      string        `koanf:"issuer"`
	Audience    string        `koanf:"audience"`
	MinInterval time.Duration `koanf:"mininterval"`
}

// String returns a string representation of the JWKS configuration.
func (c *JWKSConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- JWKS ---\n")
	b.WriteString(fmt.Sprintf("  jwks.url: %s\n", c.URL))
	b.WriteString(fmt.Sprintf("  jwks.issuer: %s\n", c.Issuer))
	b.WriteString(fmt.Sprintf("  jwks.audience: %s\n", c.Audience))
	b.WriteString(fmt.Sprintf("  jwks.mininterval: %s\n", c.MinInterval))
	return b.String()
}

func (c *JWKSConfig) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("JWKS URL cannot be empty")
	}
	if c.Issuer == "" {
		return fmt.Errorf("JWKS issuer cannot be empty")
	}
	if c.Audience == "" {
		return fmt.Errorf("JWKS audience cannot be empty")
	}
	if c.MinInterval <= 0 {
		return fmt.Errorf("JWKS minimum refresh interval must be greater than zero")
	}
	return nil
}
