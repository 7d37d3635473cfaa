package config

import (
	"fmt"
	"strings"
	"time"
)

// RedisConfig configures the Redis key-value backend.
type RedisConfig struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
}

// String returns a string representation of the Redis configuration.
func (c *RedisConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Redis ---\n")
	b.WriteString(fmt.Sprintf("  redis.url: %s\n", MaskURL(c.URL)))
	b.WriteString(fmt.Sprintf("  redis.timeout: %s\n", c.Timeout))
	return b.String()
}

func (c *RedisConfig) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("redis URL is not configured")
	}
	if !strings.HasPrefix(c.URL, "redis://") && !strings.HasPrefix(c.URL, "rediss://") {
		return fmt.Errorf("redis URL must start with 'redis://' or 'rediss://'")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("redis timeout is not configured")
	}
	return nil
}
