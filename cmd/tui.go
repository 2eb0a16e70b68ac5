package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/vidtube/internal/services"
	"github.com/desertthunder/vidtube/internal/shared"
	"github.com/desertthunder/vidtube/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal front-end.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	profiles, err := r.profileService()
	if err != nil {
		return err
	}
	accounts, err := r.accountService()
	if err != nil {
		return err
	}
	_, tr, err := r.translator()
	if err != nil {
		return err
	}

	var uid string
	if email := cmd.String("email"); email != "" {
		user, err := accounts.FindByEmail(email)
		if err != nil {
			return fmt.Errorf("failed to find account %s: %w", email, err)
		}
		uid = user.ID()
	}

	model, err := ui.NewModel(ctx, ui.Options{
		Hub:        services.NewSessionHub(),
		Profiles:   profiles,
		Translator: tr,
		UID:        uid,
		Start:      cmd.String("start"),
		PanelDelay: r.config.Navigation.PanelDelay(),
		PlainDelay: r.config.Navigation.PlainDelay(),
		FailClosed: r.config.Guard.FailClosed,
		Logger:     fileLogger,
	})
	if err != nil {
		return err
	}
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.SetSender(p.Send)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
