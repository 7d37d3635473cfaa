// Package auth signs users in and out through a pluggable identity provider and reports
// authentication state changes to subscribers.
package auth

import "context"

// Provider names accepted in configuration.
const (
	ProviderFirebase = "firebase"
	ProviderDemo     = "demo"
)

// User is an authenticated account.
type User struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// Session is the result of a successful sign-in or registration.
type Session struct {
	User         User   `json:"user"`
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
}

// Provider is an identity provider. Failures are returned as *Error with one of the Code constants.
type Provider interface {
	Login(ctx context.Context, email, password string) (*Session, error)
	Register(ctx context.Context, email, password string) (*Session, error)
	// Logout invalidates every session of uid.
	Logout(ctx context.Context, uid string) error
	// Verify resolves an ID token to its user.
	// Returns ErrInvalidToken if the token is unknown, expired or forged.
	Verify(ctx context.Context, idToken string) (*User, error)
}

// Initializer is implemented by providers that need to reach remote services before serving.
type Initializer interface {
	Init(ctx context.Context) error
}
