package models

import (
	"fmt"
	"time"
)

// Profile holds the durable per-user attributes the route guard consults.
//
// IsAdult is nil until the viewer has supplied a date of birth.
type Profile struct {
	uid         string
	sequence    int
	AgeVerified bool
	IsAdult     *bool
	DateOfBirth string
	createdAt   time.Time
	updatedAt   time.Time
}

var _ Model = (*Profile)(nil)

// NewProfile creates an unverified [Profile] for uid.
func NewProfile(uid string) *Profile {
	now := time.Now()
	return &Profile{uid: uid, createdAt: now, updatedAt: now}
}

func (p *Profile) ID() string               { return p.uid }
func (p *Profile) UID() string              { return p.uid }
func (p *Profile) Sequence() int            { return p.sequence }
func (p *Profile) CreatedAt() time.Time     { return p.createdAt }
func (p *Profile) UpdatedAt() time.Time     { return p.updatedAt }
func (p *Profile) SetSequence(seq int)      { p.sequence = seq }
func (p *Profile) SetCreatedAt(t time.Time) { p.createdAt = t }
func (p *Profile) SetUpdatedAt(t time.Time) { p.updatedAt = t }

// Underage reports whether the profile is explicitly flagged as not adult.
func (p *Profile) Underage() bool {
	return p.IsAdult != nil && !*p.IsAdult
}

// Validate requires a uid and a date of birth on verified profiles.
func (p *Profile) Validate() error {
	if p.uid == "" {
		return fmt.Errorf("uid is required")
	}
	if p.AgeVerified && p.DateOfBirth == "" {
		return fmt.Errorf("verified profile requires a date of birth")
	}
	return nil
}

// Bool returns a pointer to b, for optional flags such as [Profile.IsAdult].
func Bool(b bool) *bool { return &b }
