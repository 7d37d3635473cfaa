// Package auth verifies ID tokens issued by an OpenID provider against its published JWKS.
package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/sweetbloom/storefront/pkg/config"
)

// Claims are the identity claims the storefront reads from a verified token.
type Claims struct {
	Subject string
	Email   string
}

type Verifier interface {
	Verify(ctx context.Context, tokenString string) (*Claims, error)
}

// JWTVerifier verifies tokens with a cached JWKS that is refetched at most once per minInterval.
type JWTVerifier struct {
	mu sync.RWMutex

	jwksURL  string
	issuer   string
	audience string

	cachedSet     jwk.Set
	lastRefreshed time.Time
	minInterval   time.Duration
}

// NewJWTVerifier fetches the key set once so that a misconfigured URL fails at startup.
func NewJWTVerifier(ctx context.Context, cfg config.JWKSConfig) (*JWTVerifier, error) {
	v := &JWTVerifier{
		jwksURL:     cfg.URL,
		issuer:      cfg.Issuer,
		audience:    cfg.Audience,
		minInterval: cfg.MinInterval,
	}
	if _, err := v.getKeySet(ctx); err != nil {
		return nil, fmt.Errorf("initial JWKS fetch failed: %w", err)
	}
	return v, nil
}

func (v *JWTVerifier) getKeySet(ctx context.Context) (jwk.Set, error) {
	v.mu.RLock()
	if v.cachedSet != nil && time.Since(v.lastRefreshed) < v.minInterval {
		set := v.cachedSet
		v.mu.RUnlock()
		return set, nil
	}
	v.mu.RUnlock()

	v.mu.Lock()
	defer v.mu.Unlock()
	// another goroutine may have refreshed while we waited for the lock
	if v.cachedSet != nil && time.Since(v.lastRefreshed) < v.minInterval {
		return v.cachedSet, nil
	}
	set, err := jwk.Fetch(ctx, v.jwksURL)
	if err != nil {
		// keep serving with stale keys while the endpoint is down
		if v.cachedSet != nil {
			return v.cachedSet, nil
		}
		return nil, fmt.Errorf("failed to fetch JWKS from %s: %w", v.jwksURL, err)
	}
	v.cachedSet = set
	v.lastRefreshed = time.Now()
	return v.cachedSet, nil
}

// Verify checks signature, expiry, issuer and audience and returns the subject and email claims.
func (v *JWTVerifier) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	set, err := v.getKeySet(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get keyset for verification: %w", err)
	}

	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKeySet(set),
		jwt.WithValidate(true),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	claims := &Claims{Subject: subject}
	var email string
	if err := token.Get("email", &email); err == nil {
		claims.Email = email
	}
	return claims, nil
}
