package config

import (
	"fmt"
	"strings"
)

// FirebaseConfig identifies the Firebase project backing the catalog and authentication.
// An empty CredentialsFile means Application Default Credentials.
type FirebaseConfig struct {
	ProjectID       string `koanf:"projectid"`
	APIKey          string `koanf:"apikey"`
	CredentialsFile string `koanf:"credentialsfile"`
}

// String returns a string representation of the Firebase configuration with the API key masked.
func (c *FirebaseConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Firebase ---\n")
	b.WriteString(fmt.Sprintf("  firebase.projectid: %s\n", c.ProjectID))
	b.WriteString(fmt.Sprintf("  firebase.apikey: %s\n", maskSecret(c.APIKey)))
	b.WriteString(fmt.Sprintf("  firebase.credentialsfile: %s\n", c.CredentialsFile))
	return b.String()
}

func (c *FirebaseConfig) Validate() error {
	if c.ProjectID == "" {
		return fmt.Errorf("firebase project ID is not configured")
	}
	return nil
}

func maskSecret(s string) string {
	if s == "" {
		return "<not configured>"
	}
	return "****"
}
