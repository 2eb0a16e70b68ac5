package models

import (
	"fmt"
	"net/mail"
	"time"
)

// Account providers
const (
	ProviderLocal = "local"
	ProviderOAuth = "oauth"
)

// User is an account that can sign in. Its ID is the uid carried by [Session].
type User struct {
	id           string
	sequence     int
	email        string
	name         string
	passwordHash string
	provider     string
	createdAt    time.Time
	updatedAt    time.Time
	deletedAt    *time.Time
}

var _ Model = (*User)(nil)

// NewUser creates a local [User]. The ID is assigned by the repository on create.
func NewUser(sequence int, email, name string) *User {
	now := time.Now()
	return &User{
		sequence:  sequence,
		email:     email,
		name:      name,
		provider:  ProviderLocal,
		createdAt: now,
		updatedAt: now,
	}
}

func (u *User) ID() string                { return u.id }
func (u *User) Sequence() int             { return u.sequence }
func (u *User) Email() string             { return u.email }
func (u *User) Name() string              { return u.name }
func (u *User) PasswordHash() string      { return u.passwordHash }
func (u *User) Provider() string          { return u.provider }
func (u *User) CreatedAt() time.Time      { return u.createdAt }
func (u *User) UpdatedAt() time.Time      { return u.updatedAt }
func (u *User) DeletedAt() *time.Time     { return u.deletedAt }
func (u *User) SetID(id string)           { u.id = id }
func (u *User) SetSequence(seq int)       { u.sequence = seq }
func (u *User) SetName(name string)       { u.name = name }
func (u *User) SetPasswordHash(h string)  { u.passwordHash = h }
func (u *User) SetProvider(p string)      { u.provider = p }
func (u *User) SetCreatedAt(t time.Time)  { u.createdAt = t }
func (u *User) SetUpdatedAt(t time.Time)  { u.updatedAt = t }
func (u *User) SetDeletedAt(t *time.Time) { u.deletedAt = t }

// Validate checks the email address and provider.
func (u *User) Validate() error {
	if u.email == "" {
		return fmt.Errorf("email is required")
	}
	if _, err := mail.ParseAddress(u.email); err != nil {
		return fmt.Errorf("invalid email %q: %w", u.email, err)
	}
	switch u.provider {
	case ProviderLocal:
		if u.passwordHash == "" {
			return fmt.Errorf("password is required for local accounts")
		}
	case ProviderOAuth:
	default:
		return fmt.Errorf("unknown provider %q", u.provider)
	}
	return nil
}
