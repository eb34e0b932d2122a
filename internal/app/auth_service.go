// Package app holds the application services and business logic.
package app

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"

	"microblog/internal/domain"
	"microblog/internal/token"
)

var (
	// ErrEmailTaken indicates that an account with that email already exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials indicates that the email or password was
	// incorrect. Which of the two failed is deliberately not revealed.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserNotFound indicates that the account behind a token no longer exists.
	ErrUserNotFound = errors.New("user not found")
)

// AuthService handles account lifecycle and bearer-token authentication.
type AuthService struct {
	users  domain.UserRepository
	tokens *token.Manager
}

// NewAuthService creates a new authentication service.
func NewAuthService(users domain.UserRepository, tokens *token.Manager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Signup registers a new account and returns a bearer token for it. Email
// matching is case-sensitive: the stored email must match literally.
func (s *AuthService) Signup(ctx context.Context, email, password string) (string, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", ErrEmailTaken
	}

	hash, err := HashPassword(password)
	if err != nil {
		return "", err
	}

	user, err := s.users.Create(context.WithoutCancel(ctx), email, hash)
	if err != nil {
		// Two signups can race past the lookup; the unique constraint wins.
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return "", ErrEmailTaken
		}
		return "", err
	}

	return s.tokens.Issue(user.ID)
}

// Login authenticates a user and returns a bearer token. Unknown email and
// wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil || !CheckPassword(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}
	return s.tokens.Issue(user.ID)
}

// ResolveToken verifies a bearer token and returns the live account record.
// Token verification failures propagate unchanged from the token package.
// Callers must not hold the returned record beyond the request.
func (s *AuthService) ResolveToken(ctx context.Context, tok string) (*domain.User, error) {
	id, err := s.tokens.Verify(tok)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// LoginWithIdentity issues a token for an externally authenticated identity
// (SSO), auto-provisioning the account on first login. Provisioned accounts
// get an unusable random password until one is set through another channel.
func (s *AuthService) LoginWithIdentity(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		hash, err := HashPassword(randomSecret())
		if err != nil {
			return "", err
		}
		user, err = s.users.Create(context.WithoutCancel(ctx), email, hash)
		if errors.Is(err, domain.ErrDuplicateEmail) {
			// Lost a provisioning race; the account exists now.
			user, err = s.users.GetByEmail(ctx, email)
		}
		if err != nil {
			return "", err
		}
		if user == nil {
			return "", ErrUserNotFound
		}
	}
	return s.tokens.Issue(user.ID)
}

func randomSecret() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
