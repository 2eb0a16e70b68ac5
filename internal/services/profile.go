package services

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/vidtube/internal/models"
	"github.com/desertthunder/vidtube/internal/repositories"
	"github.com/desertthunder/vidtube/internal/shared"
)

// AdultAge is the age in whole years at which a profile is flagged adult.
const AdultAge = 18

const dateOfBirthLayout = "2006-01-02"

// ProfileService implements [ProfileFetcher] over a [repositories.ProfileRepository].
type ProfileService struct {
	repo *repositories.ProfileRepository
	now  func() time.Time
}

var _ ProfileFetcher = (*ProfileService)(nil)

// NewProfileService creates a ProfileService.
func NewProfileService(repo *repositories.ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo, now: time.Now}
}

// FetchOrCreateProfile returns the profile for uid, creating an unverified one on first access.
func (s *ProfileService) FetchOrCreateProfile(ctx context.Context, uid string) (*models.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrProfileFetch, err)
	}
	if uid == "" {
		return nil, fmt.Errorf("%w: empty uid", shared.ErrProfileFetch)
	}

	profile, err := s.repo.FetchOrCreate(uid)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrProfileFetch, err)
	}
	return profile, nil
}

// VerifyAge records dob (YYYY-MM-DD) on the profile for uid, marks it verified, and derives the adult flag.
func (s *ProfileService) VerifyAge(ctx context.Context, uid, dob string) (*models.Profile, error) {
	born, err := time.Parse(dateOfBirthLayout, dob)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", shared.ErrInvalidDateOfBirth, dob)
	}

	now := s.now()
	if born.After(now) {
		return nil, fmt.Errorf("%w: %s is in the future", shared.ErrInvalidDateOfBirth, dob)
	}

	profile, err := s.FetchOrCreateProfile(ctx, uid)
	if err != nil {
		return nil, err
	}

	profile.AgeVerified = true
	profile.IsAdult = models.Bool(IsAdult(born, now))
	profile.DateOfBirth = dob

	if err := s.repo.Update(profile); err != nil {
		return nil, fmt.Errorf("failed to save verification: %w", err)
	}
	return profile, nil
}

// IsAdult reports whether someone born on born has reached [AdultAge] by now.
//
// Both are compared as UTC calendar dates, using the date now falls on in its own location.
func IsAdult(born, now time.Time) bool {
	born = time.Date(born.Year(), born.Month(), born.Day(), 0, 0, 0, 0, time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return !born.AddDate(AdultAge, 0, 0).After(today)
}
