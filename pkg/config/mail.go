package config

import (
	"fmt"
	"net/mail"
	"strings"
)

// Mail providers.
const (
	MailLog      = "log"
	MailSendGrid = "sendgrid"
)

// MailConfig selects how order confirmations reach customers.
type MailConfig struct {
	Provider string `koanf:"provider"`
	APIKey   string `koanf:"apikey"`
	From     string `koanf:"from"`
	FromName string `koanf:"fromname"`
}

// String returns a string representation of the mail configuration with the API key masked.
func (c *MailConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Mail ---\n")
	fmt.Fprintf(&b, "  mail.provider: %s\n", c.Provider)
	fmt.Fprintf(&b, "  mail.apikey: %s\n", maskSecret(c.APIKey))
	fmt.Fprintf(&b, "  mail.from: %s <%s>\n", c.FromName, c.From)
	return b.String()
}

func (c *MailConfig) Validate() error {
	switch c.Provider {
	case "", MailLog:
		return nil
	case MailSendGrid:
		if c.APIKey == "" {
			return fmt.Errorf("mail: sendgrid API key is not configured")
		}
		if _, err := mail.ParseAddress(c.From); err != nil {
			return fmt.Errorf("mail: invalid from address %q: %w", c.From, err)
		}
		return nil
	default:
		return fmt.Errorf("unknown mail provider %q, expected %s or %s", c.Provider, MailLog, MailSendGrid)
	}
}
