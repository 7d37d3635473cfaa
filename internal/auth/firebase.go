package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strings"
	"sync"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	storeerrors "github.com/sweetbloom/storefront/internal/errors"
	jwtauth "github.com/sweetbloom/storefront/pkg/auth"
	"github.com/sweetbloom/storefront/pkg/config"
	"google.golang.org/api/googleapi"
	identitytoolkit "google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

// FirebaseJWKSURL publishes the keys that sign Firebase ID tokens.
const FirebaseJWKSURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"

// FirebaseIssuer returns the ID token issuer of a Firebase project.
func FirebaseIssuer(projectID string) string {
	return "https://securetoken.google.com/" + projectID
}

// passwordSigner signs in with email and password.
type passwordSigner interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
}

// accountAdmin is the subset of the Firebase Admin auth client the provider uses.
type accountAdmin interface {
	CreateUser(ctx context.Context, user *fbauth.UserToCreate) (*fbauth.UserRecord, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
	VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// FirebaseProvider authenticates against Firebase Authentication.
type FirebaseProvider struct {
	signer passwordSigner
	admin  accountAdmin
	jwks   config.JWKSConfig
	logger *slog.Logger
	// checkRevoked asks the Admin SDK about every token that passes the local check.
	checkRevoked bool

	mu       sync.RWMutex
	verifier jwtauth.Verifier
}

// NewFirebaseProvider connects the Admin SDK and the Identity Toolkit API. Token verification
// becomes available after Init. With checkRevoked, tokens stop working as soon as the user logs out.
func NewFirebaseProvider(ctx context.Context, fb config.FirebaseConfig, jwks config.JWKSConfig, checkRevoked bool, logger *slog.Logger) (*FirebaseProvider, error) {
	var opts []option.ClientOption
	if fb.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(fb.CredentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: fb.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firebase app: %w", err)
	}
	admin, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create firebase auth client: %w", err)
	}
	toolkit, err := identitytoolkit.NewService(ctx, option.WithAPIKey(fb.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create identity toolkit client: %w", err)
	}

	if jwks.URL == "" {
		jwks.URL = FirebaseJWKSURL
	}
	if jwks.Issuer == "" {
		jwks.Issuer = FirebaseIssuer(fb.ProjectID)
	}
	if jwks.Audience == "" {
		jwks.Audience = fb.ProjectID
	}
	p := newFirebaseProvider(&toolkitSigner{svc: toolkit}, admin, nil, jwks, logger)
	p.checkRevoked = checkRevoked
	return p, nil
}

func newFirebaseProvider(signer passwordSigner, admin accountAdmin, verifier jwtauth.Verifier, jwks config.JWKSConfig, logger *slog.Logger) *FirebaseProvider {
	return &FirebaseProvider{
		signer:   signer,
		admin:    admin,
		verifier: verifier,
		jwks:     jwks,
		logger:   logger.With("component", "firebase_auth"),
	}
}

// Init fetches the token signing keys.
func (p *FirebaseProvider) Init(ctx context.Context) error {
	verifier, err := jwtauth.NewJWTVerifier(ctx, p.jwks)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.verifier = verifier
	p.mu.Unlock()
	return nil
}

func (p *FirebaseProvider) Login(ctx context.Context, email, password string) (*Session, error) {
	session, err := p.signer.SignIn(ctx, email, password)
	if err != nil {
		return nil, classifyFirebaseError(err)
	}
	return session, nil
}

func (p *FirebaseProvider) Register(ctx context.Context, email, password string) (*Session, error) {
	record, err := p.admin.CreateUser(ctx, (&fbauth.UserToCreate{}).Email(email).Password(password))
	if err != nil {
		return nil, classifyFirebaseError(err)
	}
	p.logger.InfoContext(ctx, "Account created", "uid", record.UID)
	return p.Login(ctx, email, password)
}

func (p *FirebaseProvider) Logout(ctx context.Context, uid string) error {
	if err := p.admin.RevokeRefreshTokens(ctx, uid); err != nil {
		return classifyFirebaseError(err)
	}
	return nil
}

// Verify checks the token signature and claims locally, then asks Firebase whether the user's
// tokens were revoked when checkRevoked is set.
func (p *FirebaseProvider) Verify(ctx context.Context, idToken string) (*User, error) {
	p.mu.RLock()
	verifier := p.verifier
	p.mu.RUnlock()
	if verifier == nil {
		return nil, fmt.Errorf("%w: signing keys not loaded", storeerrors.ErrInvalidToken)
	}
	claims, err := verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storeerrors.ErrInvalidToken, err)
	}
	if p.checkRevoked {
		if _, err := p.admin.VerifyIDTokenAndCheckRevoked(ctx, idToken); err != nil {
			return nil, fmt.Errorf("%w: revocation check: %v", storeerrors.ErrInvalidToken, err)
		}
	}
	return &User{UID: claims.Subject, Email: claims.Email}, nil
}

type toolkitSigner struct {
	svc *identitytoolkit.Service
}

func (s *toolkitSigner) SignIn(ctx context.Context, email, password string) (*Session, error) {
	resp, err := s.svc.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return &Session{
		User:         User{UID: resp.LocalId, Email: resp.Email},
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
	}, nil
}

// identity toolkit reports failures as an upper-case reason at the start of the message,
// optionally followed by " : <detail>".
var toolkitReasons = map[string]string{
	"EMAIL_NOT_FOUND":             CodeUserNotFound,
	"INVALID_PASSWORD":            CodeWrongPassword,
	"INVALID_LOGIN_CREDENTIALS":   CodeInvalidCredential,
	"INVALID_EMAIL":               CodeInvalidEmail,
	"MISSING_PASSWORD":            CodeMissingFields,
	"EMAIL_EXISTS":                CodeEmailAlreadyInUse,
	"WEAK_PASSWORD":               CodeWeakPassword,
	"TOO_MANY_ATTEMPTS_TRY_LATER": CodeTooManyRequests,
}

func classifyFirebaseError(err error) error {
	var authErr *Error
	if errors.As(err, &authErr) {
		return err
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		reason, _, _ := strings.Cut(apiErr.Message, " ")
		if code, ok := toolkitReasons[reason]; ok {
			return newError(code, err)
		}
		return newError(CodeInternal, err)
	}

	switch {
	case fbauth.IsEmailAlreadyExists(err):
		return newError(CodeEmailAlreadyInUse, err)
	case fbauth.IsUserNotFound(err):
		return newError(CodeUserNotFound, err)
	}

	// the admin SDK validates arguments before calling the backend
	msg := err.Error()
	switch {
	case strings.Contains(msg, "malformed email"):
		return newError(CodeInvalidEmail, err)
	case strings.Contains(msg, "password must be"):
		return newError(CodeWeakPassword, err)
	}

	var netErr net.Error
	var urlErr *url.Error
	if errors.As(err, &netErr) || errors.As(err, &urlErr) ||
		errors.Is(err, context.DeadlineExceeded) {
		return newError(CodeNetworkFailed, err)
	}
	return newError(CodeInternal, err)
}
