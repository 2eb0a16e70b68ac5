package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidtube/internal/server"
	"github.com/desertthunder/vidtube/internal/shared"
	"github.com/urfave/cli/v3"
)

const insecureSecret = "change-me"

// Serve runs the web front-end until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("debug") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	if r.config.Auth.JWTSecret == insecureSecret {
		r.logger.Warn("auth.jwt_secret is still the example value; sessions can be forged")
	}

	accounts, err := r.accountService()
	if err != nil {
		return err
	}
	profiles, err := r.profileService()
	if err != nil {
		return err
	}
	catalog, _, err := r.translator()
	if err != nil {
		return err
	}

	srv, err := server.New(r.config, server.Deps{
		Accounts: accounts,
		Profiles: profiles,
		Catalog:  catalog,
		Logger:   shared.WithLogger(r.logger, "component", "server"),
	})
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cmd.Bool("open") {
		url := "http://" + srv.Addr()
		time.AfterFunc(250*time.Millisecond, func() {
			if err := r.openBrowser(url); err != nil {
				r.logger.Warn("failed to open browser", "url", url, "error", err)
			}
		})
	}

	return srv.Run(ctx)
}
