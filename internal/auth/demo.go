package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	storeerrors "github.com/sweetbloom/storefront/internal/errors"
	"golang.org/x/crypto/bcrypt"
)

// DemoAccount is an account the demo provider knows at startup.
type DemoAccount struct {
	UID      string
	Email    string
	Password string
}

// DefaultDemoAccount is seeded when no account is configured.
var DefaultDemoAccount = DemoAccount{UID: "demo-user-123", Email: "demo@sweetbloom.com", Password: "sweetbloom"}

type demoAccount struct {
	uid  string
	hash []byte
}

// DemoProvider keeps accounts and sessions in memory. Tokens are opaque and live until logout or restart.
type DemoProvider struct {
	mu       sync.RWMutex
	accounts map[string]demoAccount
	sessions map[string]User
	validate *validator.Validate
	logger   *slog.Logger
}

func NewDemoProvider(logger *slog.Logger, seed ...DemoAccount) (*DemoProvider, error) {
	p := &DemoProvider{
		accounts: make(map[string]demoAccount),
		sessions: make(map[string]User),
		validate: validator.New(),
		logger:   logger.With("component", "demo_auth"),
	}
	for _, account := range seed {
		if _, err := p.create(account.UID, account.Email, account.Password); err != nil {
			return nil, fmt.Errorf("failed to seed demo account %q: %w", account.Email, err)
		}
	}
	return p, nil
}

func (p *DemoProvider) Login(_ context.Context, email, password string) (*Session, error) {
	key := normalizeEmail(email)
	p.mu.RLock()
	account, ok := p.accounts[key]
	p.mu.RUnlock()
	if !ok {
		return nil, newError(CodeUserNotFound, nil)
	}
	if err := bcrypt.CompareHashAndPassword(account.hash, []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, newError(CodeWrongPassword, nil)
		}
		return nil, newError(CodeInternal, err)
	}
	p.logger.Debug("Demo login", "uid", account.uid)
	return p.issue(User{UID: account.uid, Email: key}), nil
}

func (p *DemoProvider) Register(_ context.Context, email, password string) (*Session, error) {
	user, err := p.create(uuid.NewString(), email, password)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("Demo register", "uid", user.UID)
	return p.issue(*user), nil
}

func (p *DemoProvider) Logout(_ context.Context, uid string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for token, user := range p.sessions {
		if user.UID == uid {
			delete(p.sessions, token)
		}
	}
	return nil
}

func (p *DemoProvider) Verify(_ context.Context, idToken string) (*User, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	user, ok := p.sessions[idToken]
	if !ok {
		return nil, storeerrors.ErrInvalidToken
	}
	return &user, nil
}

func (p *DemoProvider) create(uid, email, password string) (*User, error) {
	key := normalizeEmail(email)
	if err := p.validate.Var(key, "required,email"); err != nil {
		return nil, newError(CodeInvalidEmail, nil)
	}
	if len(password) < minimumPasswordLength {
		return nil, newError(CodeWeakPassword, nil)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, newError(CodeInternal, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.accounts[key]; exists {
		return nil, newError(CodeEmailAlreadyInUse, nil)
	}
	p.accounts[key] = demoAccount{uid: uid, hash: hash}
	return &User{UID: uid, Email: key}, nil
}

func (p *DemoProvider) issue(user User) *Session {
	token := uuid.NewString()
	p.mu.Lock()
	p.sessions[token] = user
	p.mu.Unlock()
	return &Session{User: user, IDToken: token}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
