package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	storeerrors "github.com/sweetbloom/storefront/internal/errors"
	jwtauth "github.com/sweetbloom/storefront/pkg/auth"
	"github.com/sweetbloom/storefront/pkg/config"
	"google.golang.org/api/googleapi"
)

// MockSigner is a mock implementation of passwordSigner
type MockSigner struct {
	mock.Mock
}

func (m *MockSigner) SignIn(ctx context.Context, email, password string) (*Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}

// MockAdmin is a mock implementation of accountAdmin
type MockAdmin struct {
	mock.Mock
}

func (m *MockAdmin) CreateUser(ctx context.Context, user *fbauth.UserToCreate) (*fbauth.UserRecord, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fbauth.UserRecord), args.Error(1)
}

func (m *MockAdmin) RevokeRefreshTokens(ctx context.Context, uid string) error {
	args := m.Called(ctx, uid)
	return args.Error(0)
}

func (m *MockAdmin) VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*fbauth.Token, error) {
	args := m.Called(ctx, idToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fbauth.Token), args.Error(1)
}

// MockVerifier is a mock implementation of jwtauth.Verifier
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, token string) (*jwtauth.Claims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jwtauth.Claims), args.Error(1)
}

func toolkitError(message string) error {
	return &googleapi.Error{Code: 400, Message: message}
}

func Test_classifyFirebaseError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{name: "email not found", err: toolkitError("EMAIL_NOT_FOUND"), code: CodeUserNotFound},
		{name: "invalid password", err: toolkitError("INVALID_PASSWORD"), code: CodeWrongPassword},
		{name: "invalid credentials", err: toolkitError("INVALID_LOGIN_CREDENTIALS"), code: CodeInvalidCredential},
		{name: "invalid email", err: toolkitError("INVALID_EMAIL"), code: CodeInvalidEmail},
		{name: "email exists", err: toolkitError("EMAIL_EXISTS"), code: CodeEmailAlreadyInUse},
		{name: "weak password with detail", err: toolkitError("WEAK_PASSWORD : Password should be at least 6 characters"), code: CodeWeakPassword},
		{name: "throttled", err: toolkitError("TOO_MANY_ATTEMPTS_TRY_LATER : Access disabled"), code: CodeTooManyRequests},
		{name: "unknown reason", err: toolkitError("OPERATION_NOT_ALLOWED"), code: CodeInternal},
		{name: "malformed email from admin sdk", err: errors.New("malformed email string: \"bob\""), code: CodeInvalidEmail},
		{name: "short password from admin sdk", err: errors.New("password must be a string at least 6 characters long"), code: CodeWeakPassword},
		{name: "network", err: fmt.Errorf("post: %w", &net.OpError{Op: "dial", Err: errors.New("connection refused")}), code: CodeNetworkFailed},
		{name: "deadline", err: context.DeadlineExceeded, code: CodeNetworkFailed},
		{name: "already classified", err: newError(CodeWrongPassword, nil), code: CodeWrongPassword},
		{name: "anything else", err: errors.New("boom"), code: CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, Code(classifyFirebaseError(tt.err)))
		})
	}
}

func Test_FirebaseProvider_Login(t *testing.T) {
	// given
	ctx := context.Background()
	signer := new(MockSigner)
	session := &Session{User: User{UID: "u1", Email: "alice@sweetbloom.com"}, IDToken: "id", RefreshToken: "refresh", ExpiresIn: 3600}
	signer.On("SignIn", ctx, "alice@sweetbloom.com", "secret1").Return(session, nil)
	signer.On("SignIn", ctx, "alice@sweetbloom.com", "bad").Return(nil, toolkitError("INVALID_LOGIN_CREDENTIALS"))
	p := newFirebaseProvider(signer, new(MockAdmin), nil, config.JWKSConfig{}, testLogger())

	// when
	ok, err := p.Login(ctx, "alice@sweetbloom.com", "secret1")
	_, failErr := p.Login(ctx, "alice@sweetbloom.com", "bad")

	// then
	require.NoError(t, err)
	assert.Equal(t, session, ok)
	assert.Equal(t, CodeInvalidCredential, Code(failErr))
	signer.AssertExpectations(t)
}

func Test_FirebaseProvider_Register(t *testing.T) {
	t.Run("creates the account then signs in", func(t *testing.T) {
		// given
		ctx := context.Background()
		signer := new(MockSigner)
		admin := new(MockAdmin)
		admin.On("CreateUser", ctx, mock.Anything).Return(&fbauth.UserRecord{UserInfo: &fbauth.UserInfo{UID: "u2"}}, nil)
		session := &Session{User: User{UID: "u2", Email: "bob@sweetbloom.com"}, IDToken: "id"}
		signer.On("SignIn", ctx, "bob@sweetbloom.com", "secret1").Return(session, nil)
		p := newFirebaseProvider(signer, admin, nil, config.JWKSConfig{}, testLogger())

		// when
		got, err := p.Register(ctx, "bob@sweetbloom.com", "secret1")

		// then
		require.NoError(t, err)
		assert.Equal(t, session, got)
		admin.AssertExpectations(t)
		signer.AssertExpectations(t)
	})

	t.Run("does not sign in when creation fails", func(t *testing.T) {
		// given
		ctx := context.Background()
		signer := new(MockSigner)
		admin := new(MockAdmin)
		admin.On("CreateUser", ctx, mock.Anything).Return(nil, errors.New("malformed email string: \"bob\""))
		p := newFirebaseProvider(signer, admin, nil, config.JWKSConfig{}, testLogger())

		// when
		_, err := p.Register(ctx, "bob", "secret1")

		// then
		assert.Equal(t, CodeInvalidEmail, Code(err))
		signer.AssertNotCalled(t, "SignIn", mock.Anything, mock.Anything, mock.Anything)
	})
}

func Test_FirebaseProvider_Logout(t *testing.T) {
	// given
	ctx := context.Background()
	admin := new(MockAdmin)
	admin.On("RevokeRefreshTokens", ctx, "u1").Return(nil)
	admin.On("RevokeRefreshTokens", ctx, "u2").Return(&net.OpError{Op: "dial", Err: errors.New("timeout")})
	p := newFirebaseProvider(new(MockSigner), admin, nil, config.JWKSConfig{}, testLogger())

	// when / then
	assert.NoError(t, p.Logout(ctx, "u1"))
	assert.Equal(t, CodeNetworkFailed, Code(p.Logout(ctx, "u2")))
}

func Test_FirebaseProvider_Verify(t *testing.T) {
	tests := []struct {
		name     string
		verifier func() jwtauth.Verifier
		expected *User
		err      error
	}{
		{
			name: "valid token",
			verifier: func() jwtauth.Verifier {
				v := new(MockVerifier)
				v.On("Verify", mock.Anything, "token").Return(&jwtauth.Claims{Subject: "u1", Email: "alice@sweetbloom.com"}, nil)
				return v
			},
			expected: &User{UID: "u1", Email: "alice@sweetbloom.com"},
		},
		{
			name: "rejected token",
			verifier: func() jwtauth.Verifier {
				v := new(MockVerifier)
				v.On("Verify", mock.Anything, "token").Return(nil, errors.New("token is expired"))
				return v
			},
			err: storeerrors.ErrInvalidToken,
		},
		{
			name:     "keys not loaded",
			verifier: func() jwtauth.Verifier { return nil },
			err:      storeerrors.ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// given
			p := newFirebaseProvider(new(MockSigner), new(MockAdmin), tt.verifier(), config.JWKSConfig{}, testLogger())

			// when
			user, err := p.Verify(context.Background(), "token")

			// then
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, user)
		})
	}
}

func Test_FirebaseProvider_Verify_Revocation(t *testing.T) {
	validClaims := &jwtauth.Claims{Subject: "u1", Email: "alice@sweetbloom.com"}
	tests := []struct {
		name         string
		checkRevoked bool
		setup        func(admin *MockAdmin)
		err          error
	}{
		{
			name:         "token of a signed-out user is rejected",
			checkRevoked: true,
			setup: func(admin *MockAdmin) {
				admin.On("VerifyIDTokenAndCheckRevoked", mock.Anything, "token").Return(nil, errors.New("ID token has been revoked")).Once()
			},
			err: storeerrors.ErrInvalidToken,
		},
		{
			name:         "live token is accepted",
			checkRevoked: true,
			setup: func(admin *MockAdmin) {
				admin.On("VerifyIDTokenAndCheckRevoked", mock.Anything, "token").Return(&fbauth.Token{UID: "u1"}, nil).Once()
			},
		},
		{
			name:  "check disabled skips the admin call",
			setup: func(admin *MockAdmin) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// given
			verifier := new(MockVerifier)
			verifier.On("Verify", mock.Anything, "token").Return(validClaims, nil)
			admin := new(MockAdmin)
			tt.setup(admin)
			p := newFirebaseProvider(new(MockSigner), admin, verifier, config.JWKSConfig{}, testLogger())
			p.checkRevoked = tt.checkRevoked

			// when
			user, err := p.Verify(context.Background(), "token")

			// then
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "u1", user.UID)
			}
			admin.AssertExpectations(t)
			if !tt.checkRevoked {
				admin.AssertNotCalled(t, "VerifyIDTokenAndCheckRevoked", mock.Anything, mock.Anything)
			}
		})
	}
}

func Test_FirebaseIssuer(t *testing.T) {
	assert.Equal(t, "https://securetoken.google.com/sweetbloom", FirebaseIssuer("sweetbloom"))
}
