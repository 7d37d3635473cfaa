package config

import (
	"fmt"
	"strings"
	"time"
)

// NATSConfig is the JetStream connection. Events are logged instead of published when Enabled is false.
type NATSConfig struct {
	Enabled bool          `koanf:"enabled"`
	Url     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
	Stream  string        `koanf:"stream"`
}

// SubscriberConfig configures a durable JetStream pull consumer. The stream comes from NATSConfig.
type SubscriberConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Consumer string        `koanf:"consumer"`
	Batch    int           `koanf:"batch"`
	Timeout  time.Duration `koanf:"timeout"` // max wait of a single fetch
	Interval time.Duration `koanf:"interval"`
	Workers  int           `koanf:"workers"`
}

func (c *NATSConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- NATS ---\n")
	fmt.Fprintf(&b, "  nats.enabled: %t\n", c.Enabled)
	fmt.Fprintf(&b, "  nats.url: %s\n", c.Url)
	fmt.Fprintf(&b, "  nats.timeout: %s\n", c.Timeout)
	fmt.Fprintf(&b, "  nats.stream: %s\n", c.Stream)
	return b.String()
}

func (c *NATSConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	switch {
	case c.Url == "":
		return fmt.Errorf("NATS URL is not configured")
	case c.Timeout <= 0:
		return fmt.Errorf("nats dial timeout is not configured")
	case c.Stream == "":
		return fmt.Errorf("nats stream is not configured")
	}
	return nil
}

func (c *SubscriberConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Notifications ---\n")
	fmt.Fprintf(&b, "  notifications.enabled: %t\n", c.Enabled)
	fmt.Fprintf(&b, "  notifications.consumer: %s\n", c.Consumer)
	fmt.Fprintf(&b, "  notifications.batch: %d, workers: %d\n", c.Batch, c.Workers)
	fmt.Fprintf(&b, "  notifications.timeout: %s, interval: %s\n", c.Timeout, c.Interval)
	return b.String()
}

func (c *SubscriberConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Consumer == "" {
		return fmt.Errorf("notifications consumer is not configured")
	}
	positive := []struct {
		name string
		ok   bool
	}{
		{"batch", c.Batch > 0},
		{"workers", c.Workers > 0},
		{"timeout", c.Timeout > 0},
		{"interval", c.Interval > 0},
	}
	for _, p := range positive {
		if !p.ok {
			return fmt.Errorf("notifications %s must be greater than zero", p.name)
		}
	}
	return nil
}
