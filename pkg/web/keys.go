package web

import "context"

type userKey struct{}

// Principal is the authenticated caller attached to a request context.
type Principal struct {
	UserID string
	Email  string
}

// WithPrincipal adds the authenticated caller to the context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, userKey{}, p)
}

// PrincipalFrom returns the caller stored by WithPrincipal.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(userKey{}).(Principal)
	return p, ok && p.UserID != ""
}

// UserID returns the authenticated user ID from the context.
func UserID(ctx context.Context) (string, bool) {
	p, ok := PrincipalFrom(ctx)
	return p.UserID, ok
}
