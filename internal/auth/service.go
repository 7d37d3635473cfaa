package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
)

// AuthService defines the authentication operations exposed to transports.
type AuthService interface {
	// Login signs in with email and password.
	// Returns *Error with CodeMissingFields if either is empty.
	Login(ctx context.Context, dto LoginDto) (*Session, error)

	// Register creates an account and signs it in.
	// Returns *Error with CodeMissingFields, CodePasswordMismatch, CodeWeakPassword or
	// CodeInvalidEmail when the input is rejected before reaching the provider.
	Register(ctx context.Context, dto RegisterDto) (*Session, error)

	// Logout ends every session of uid.
	Logout(ctx context.Context, uid string) error

	// Verify resolves an ID token to its user.
	Verify(ctx context.Context, idToken string) (*User, error)

	// Loading reports whether the provider is still initializing.
	Loading() bool
}

type LoginDto struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterDto struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// Observer is told about sign-in (user set) and sign-out (user nil) of uid.
type Observer func(uid string, user *User)

type subscription struct {
	id       uint64
	observer Observer
}

// Service validates input, delegates to the provider and notifies subscribers of auth state changes.
type Service struct {
	provider Provider
	validate *validator.Validate
	logger   *slog.Logger

	loading atomic.Bool
	ready   chan struct{}
	once    sync.Once

	mu     sync.RWMutex
	nextID uint64
	subs   []subscription
}

// NewService creates the service in the loading state. Call Start to initialize the provider.
func NewService(provider Provider, logger *slog.Logger) *Service {
	s := &Service{
		provider: provider,
		validate: validator.New(),
		logger:   logger.With("component", "auth"),
		ready:    make(chan struct{}),
	}
	s.loading.Store(true)
	return s
}

// Start initializes the provider and leaves the loading state. The service stays loading if
// initialization fails.
func (s *Service) Start(ctx context.Context) error {
	if init, ok := s.provider.(Initializer); ok {
		if err := init.Init(ctx); err != nil {
			s.logger.ErrorContext(ctx, "Auth provider initialization failed", "error", err)
			return err
		}
	}
	s.once.Do(func() {
		s.loading.Store(false)
		close(s.ready)
	})
	s.logger.InfoContext(ctx, "Auth provider ready")
	return nil
}

func (s *Service) Loading() bool {
	return s.loading.Load()
}

// Ready is closed once the provider is initialized.
func (s *Service) Ready() <-chan struct{} {
	return s.ready
}

// Subscribe registers observer and returns a function that removes it.
func (s *Service) Subscribe(observer Observer) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, observer: observer})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Service) Login(ctx context.Context, dto LoginDto) (*Session, error) {
	if err := s.validate.Struct(dto); err != nil {
		return nil, s.validationError(err)
	}
	if err := s.waitReady(ctx); err != nil {
		return nil, err
	}
	session, err := s.provider.Login(ctx, dto.Email, dto.Password)
	if err != nil {
		s.logger.WarnContext(ctx, "Login failed", "code", Code(err), "error", err)
		return nil, err
	}
	s.notify(session.User.UID, &session.User)
	return session, nil
}

func (s *Service) Register(ctx context.Context, dto RegisterDto) (*Session, error) {
	// rules apply in order: missing fields, mismatch, password strength, email syntax
	if err := s.validate.Struct(dto); err != nil {
		vErr := s.validationError(err)
		if Code(vErr) == CodeMissingFields || dto.Password == dto.ConfirmPassword {
			return nil, vErr
		}
	}
	if dto.Password != dto.ConfirmPassword {
		return nil, newError(CodePasswordMismatch, nil)
	}
	if err := s.waitReady(ctx); err != nil {
		return nil, err
	}
	session, err := s.provider.Register(ctx, dto.Email, dto.Password)
	if err != nil {
		s.logger.WarnContext(ctx, "Registration failed", "code", Code(err), "error", err)
		return nil, err
	}
	s.notify(session.User.UID, &session.User)
	return session, nil
}

func (s *Service) Logout(ctx context.Context, uid string) error {
	if err := s.waitReady(ctx); err != nil {
		return err
	}
	if err := s.provider.Logout(ctx, uid); err != nil {
		s.logger.ErrorContext(ctx, "Logout failed", "uid", uid, "error", err)
		return err
	}
	s.notify(uid, nil)
	return nil
}

func (s *Service) Verify(ctx context.Context, idToken string) (*User, error) {
	if err := s.waitReady(ctx); err != nil {
		return nil, err
	}
	return s.provider.Verify(ctx, idToken)
}

func (s *Service) waitReady(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return newError(CodeNetworkFailed, ctx.Err())
	}
}

func (s *Service) notify(uid string, user *User) {
	s.mu.RLock()
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()
	for _, sub := range subs {
		sub.observer(uid, user)
	}
}

// validationError maps failed rules to an auth code: missing fields, then password, then email.
func (s *Service) validationError(err error) error {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return newError(CodeInternal, err)
	}
	for _, fe := range vErrs {
		if fe.Tag() == "required" {
			return newError(CodeMissingFields, err)
		}
	}
	for _, fe := range vErrs {
		if fe.Field() == "Password" {
			return newError(CodeWeakPassword, err)
		}
	}
	if vErrs[0].Field() == "Email" {
		return newError(CodeInvalidEmail, err)
	}
	return newError(CodeInternal, err)
}
