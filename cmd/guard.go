package main

import (
	"context"
	"fmt"
	"slices"

	"github.com/desertthunder/vidtube/internal/guard"
	"github.com/desertthunder/vidtube/internal/models"
	"github.com/desertthunder/vidtube/internal/shared"
	"github.com/urfave/cli/v3"
)

type decisionView struct {
	Path                 string `json:"path"`
	UID                  string `json:"uid,omitempty"`
	SignedIn             bool   `json:"signed_in"`
	Allowed              bool   `json:"allowed"`
	Redirect             string `json:"redirect,omitempty"`
	Reason               string `json:"reason"`
	Message              string `json:"message"`
	NeedsAgeVerification bool   `json:"needs_age_verification"`
	ProfileError         string `json:"profile_error,omitempty"`
}

type routesView struct {
	Public     []string `json:"public"`
	Unverified []string `json:"unverified"`
	Prefix     string   `json:"prefix"`
}

// GuardCheck evaluates a single route the way the server middleware would.
func (r *Runner) GuardCheck(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}

	policy := guard.DefaultPolicy
	policy.FailClosed = r.config.Guard.FailClosed

	in := guard.Input{Session: models.SignedOut(), Path: path}
	if uid := cmd.String("uid"); uid != "" {
		in.Session = models.SignedInAs(uid)

		profiles, err := r.profileService()
		if err != nil {
			return err
		}
		in.Profile, in.ProfileErr = profiles.FetchOrCreateProfile(ctx, uid)
		if in.ProfileErr != nil {
			r.logger.Warn("profile fetch failed", "uid", uid, "error", in.ProfileErr)
			in.Profile = nil
		}
	}

	_, tr, err := r.translator()
	if err != nil {
		return err
	}

	d := policy.Evaluate(in)
	view := decisionView{
		Path:                 path,
		UID:                  in.Session.UID,
		SignedIn:             in.Session.SignedIn,
		Allowed:              d.Allowed(),
		Redirect:             d.Redirect,
		Reason:               d.Reason.String(),
		Message:              tr.Reason(d.Reason),
		NeedsAgeVerification: in.Session.SignedIn && in.Profile != nil && !in.Profile.AgeVerified,
	}
	if in.ProfileErr != nil {
		view.ProfileError = in.ProfileErr.Error()
	}

	if cmd.Bool("json") {
		return r.writeJSON(view, false)
	}

	r.writePlainHeader(fmt.Sprintf("Guard decision for %s", path))
	if view.SignedIn {
		r.writePlain("Session:  signed in as %s\n", view.UID)
	} else {
		r.writePlain("Session:  signed out\n")
	}
	if view.Allowed {
		r.writePlain("Decision: allow (%s)\n", view.Reason)
	} else {
		r.writePlain("Decision: redirect to %s (%s)\n", view.Redirect, view.Reason)
	}
	r.writePlain("Message:  %s\n", view.Message)
	if view.NeedsAgeVerification {
		r.writePlain("Age verification required\n")
	}
	return nil
}

// GuardRoutes lists the allow-lists the guard uses.
func (r *Runner) GuardRoutes(ctx context.Context, cmd *cli.Command) error {
	view := routesView{
		Public:     guard.PublicRoutes.Paths(),
		Unverified: guard.UnverifiedRoutes.Paths(),
		Prefix:     guard.WatchPrefix,
	}
	slices.Sort(view.Public)
	slices.Sort(view.Unverified)

	if cmd.Bool("json") {
		return r.writeJSON(view, false)
	}

	r.writePlainHeader("Public routes")
	for _, p := range view.Public {
		r.writePlain("  %s\n", p)
	}
	r.writePlain("  %s*\n", view.Prefix)

	r.writePlainHeader("Routes open before age verification")
	for _, p := range view.Unverified {
		r.writePlain("  %s\n", p)
	}
	r.writePlain("  %s*\n", view.Prefix)
	return nil
}
