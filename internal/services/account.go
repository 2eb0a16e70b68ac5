package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/vidtube/internal/models"
	"github.com/desertthunder/vidtube/internal/repositories"
	"github.com/desertthunder/vidtube/internal/shared"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest accepted local password.
const MinPasswordLength = 8

// AccountService manages sign-in accounts.
type AccountService struct {
	users *repositories.UserRepository
	cost  int
}

// NewAccountService creates an AccountService hashing with [bcrypt.DefaultCost].
func NewAccountService(users *repositories.UserRepository) *AccountService {
	return &AccountService{users: users, cost: bcrypt.DefaultCost}
}

// WithCost returns a copy hashing at cost, for tests that need fast hashing.
func (s *AccountService) WithCost(cost int) *AccountService {
	return &AccountService{users: s.users, cost: cost}
}

// Register creates a local account.
func (s *AccountService) Register(ctx context.Context, email, name, password string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", shared.ErrInvalidInput, MinPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.NewUser(0, normalizeEmail(email), strings.TrimSpace(name))
	user.SetPasswordHash(string(hash))

	if err := s.users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate returns the local account matching email and password.
//
// Unknown emails and wrong passwords both yield [shared.ErrInvalidCredentials].
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(normalizeEmail(email))
	if errors.Is(err, shared.ErrUserNotFound) {
		return nil, shared.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if user.Provider() != models.ProviderLocal {
		return nil, fmt.Errorf("%w: account uses %s sign-in", shared.ErrInvalidCredentials, user.Provider())
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash()), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}

	return user, nil
}

// EnsureOAuthUser returns the account for email, creating an OAuth account on first sign-in.
func (s *AccountService) EnsureOAuthUser(ctx context.Context, email, name string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	email = normalizeEmail(email)
	user, err := s.users.GetByEmail(email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, shared.ErrUserNotFound) {
		return nil, err
	}

	user = models.NewUser(0, email, name)
	user.SetProvider(models.ProviderOAuth)
	if err := s.users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Lookup returns the account for uid.
func (s *AccountService) Lookup(uid string) (*models.User, error) {
	return s.users.Get(uid)
}

// FindByEmail returns the account registered with email.
func (s *AccountService) FindByEmail(email string) (*models.User, error) {
	return s.users.GetByEmail(normalizeEmail(email))
}

// List returns accounts, optionally only those signing in with provider.
func (s *AccountService) List(provider string) ([]*models.User, error) {
	criteria := map[string]any{}
	if provider != "" {
		criteria["provider"] = provider
	}
	return s.users.List(criteria)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
