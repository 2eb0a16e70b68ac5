package main

import (
	"context"
	"time"

	"github.com/desertthunder/vidtube/internal/models"
	"github.com/urfave/cli/v3"
)

type accountView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Provider  string    `json:"provider"`
	CreatedAt time.Time `json:"created_at"`
}

func newAccountView(u *models.User) accountView {
	return accountView{
		ID:        u.ID(),
		Email:     u.Email(),
		Name:      u.Name(),
		Provider:  u.Provider(),
		CreatedAt: u.CreatedAt(),
	}
}

// AccountRegister creates a local account.
func (r *Runner) AccountRegister(ctx context.Context, cmd *cli.Command) error {
	accounts, err := r.accountService()
	if err != nil {
		return err
	}

	user, err := accounts.Register(ctx, cmd.String("email"), cmd.String("name"), cmd.String("password"))
	if err != nil {
		return err
	}

	r.logger.Info("account registered", "id", user.ID(), "email", user.Email())
	r.writePlain("%s\n", user.ID())
	return nil
}

// AccountList prints accounts, optionally filtered by provider.
func (r *Runner) AccountList(ctx context.Context, cmd *cli.Command) error {
	accounts, err := r.accountService()
	if err != nil {
		return err
	}

	users, err := accounts.List(cmd.String("provider"))
	if err != nil {
		return err
	}

	views := make([]accountView, 0, len(users))
	for _, u := range users {
		views = append(views, newAccountView(u))
	}

	if cmd.Bool("json") {
		return r.writeJSON(views, false)
	}

	r.writePlainHeader("Accounts")
	if len(views) == 0 {
		r.writePlain("No accounts\n")
		return nil
	}
	for _, v := range views {
		r.writePlain("%-36s  %-8s  %s\n", v.ID, v.Provider, v.Email)
	}
	return nil
}
