package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sweetbloom/storefront/internal/auth"
	"github.com/sweetbloom/storefront/pkg/logger"
	"github.com/sweetbloom/storefront/pkg/web"
)

// TokenVerifier resolves a bearer token to its user.
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*auth.User, error)
}

// Authenticate verifies the bearer token in the Authorization header and stores the caller in
// the request context. Requests without a valid token get 401.
func Authenticate(verifier TokenVerifier, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				web.RespondError(w, log, http.StatusUnauthorized, "Authorization header is required")
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader || tokenString == "" {
				web.RespondError(w, log, http.StatusUnauthorized, "Bearer token is required")
				return
			}

			user, err := verifier.Verify(r.Context(), tokenString)
			if err != nil {
				log.WarnContext(r.Context(), "Token rejected", "error", err)
				web.RespondError(w, log, http.StatusUnauthorized, "Invalid token")
				return
			}

			ctx := web.WithPrincipal(r.Context(), web.Principal{UserID: user.UID, Email: user.Email})
			ctx = logger.WithUserID(ctx, user.UID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
