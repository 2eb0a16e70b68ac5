package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/vidtube/internal/models"
	"github.com/desertthunder/vidtube/internal/shared"
	"github.com/urfave/cli/v3"
)

type profileView struct {
	UID         string    `json:"uid"`
	AgeVerified bool      `json:"age_verified"`
	IsAdult     *bool     `json:"is_adult"`
	DateOfBirth string    `json:"date_of_birth,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newProfileView(p *models.Profile) profileView {
	return profileView{
		UID:         p.UID(),
		AgeVerified: p.AgeVerified,
		IsAdult:     p.IsAdult,
		DateOfBirth: p.DateOfBirth,
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
}

// ProfileShow prints the profile for a uid, creating it if needed.
func (r *Runner) ProfileShow(ctx context.Context, cmd *cli.Command) error {
	uid := cmd.StringArg("uid")
	if uid == "" {
		return fmt.Errorf("%w: uid", shared.ErrMissingArgument)
	}

	profiles, err := r.profileService()
	if err != nil {
		return err
	}

	profile, err := profiles.FetchOrCreateProfile(ctx, uid)
	if err != nil {
		return err
	}

	return r.writeJSON(newProfileView(profile), cmd.Bool("pretty"))
}

// ProfileVerify records a date of birth for a uid.
func (r *Runner) ProfileVerify(ctx context.Context, cmd *cli.Command) error {
	uid := cmd.StringArg("uid")
	if uid == "" {
		return fmt.Errorf("%w: uid", shared.ErrMissingArgument)
	}

	profiles, err := r.profileService()
	if err != nil {
		return err
	}

	profile, err := profiles.VerifyAge(ctx, uid, cmd.String("dob"))
	if err != nil {
		return err
	}

	r.logger.Info("profile verified", "uid", uid, "underage", profile.Underage())
	if profile.Underage() {
		r.writePlain("%s is verified but under 18; the guard will send them to sign-in\n", uid)
	} else {
		r.writePlain("%s is verified\n", uid)
	}
	return nil
}
