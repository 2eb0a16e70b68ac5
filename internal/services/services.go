// package services defines the auth, profile, and account collaborators of the route guard
package services

import (
	"context"

	"github.com/desertthunder/vidtube/internal/models"
)

// AuthSubscriber is an auth-state stream.
type AuthSubscriber interface {
	// Subscribe calls onChange with the current session and on every change until unsubscribed.
	Subscribe(onChange func(models.Session)) (unsubscribe func())
}

// ProfileFetcher loads the profile for a signed-in uid.
type ProfileFetcher interface {
	// FetchOrCreateProfile returns the profile for uid, creating it on first access.
	FetchOrCreateProfile(ctx context.Context, uid string) (*models.Profile, error)
}

// SessionSink receives session and profile updates. guard.Guard implements it.
type SessionSink interface {
	SetSession(s models.Session)
	SetProfile(p *models.Profile)
	SetProfileError(err error)
	SetLoading(loading bool)
}
