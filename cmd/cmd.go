// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles database setup and migrations.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Create the config file if missing, initialize the database, and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "status",
				Usage: "Show applied and pending migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SetupStatus,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent migration",
				Action: r.SetupRollback,
			},
		},
	}
}

// serveCommand starts the web front-end.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the guarded web front-end",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the site in the default browser once listening",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Log guard redirects and session decisions",
			},
		},
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive terminal front-end",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "email",
				Usage: "Account the s key signs in as",
			},
			&cli.StringFlag{
				Name:  "start",
				Usage: "Initial route",
				Value: "/",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where to write logs while the TUI owns the terminal",
				Value: "./tmp/vidtube-tui.log",
			},
		},
		Action: r.TUI,
	}
}

// guardCommand evaluates routes without a front-end.
func guardCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "guard",
		Usage: "Route guard diagnostics",
		Commands: []*cli.Command{
			{
				Name:  "check",
				Usage: "Show the guard decision for a route",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "uid",
						Usage: "Evaluate as this signed-in account (signed out when empty)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.GuardCheck,
			},
			{
				Name:  "routes",
				Usage: "List routes reachable without sign-in or age verification",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.GuardRoutes,
			},
		},
	}
}

// profileCommand inspects and updates profiles.
func profileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Profile operations",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Fetch (or create) the profile for an account",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "uid",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.ProfileShow,
			},
			{
				Name:  "verify",
				Usage: "Record a date of birth and mark the profile age-verified",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "uid",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "dob",
						Usage:    "Date of birth as YYYY-MM-DD",
						Required: true,
					},
				},
				Action: r.ProfileVerify,
			},
		},
	}
}

// accountCommand manages local accounts.
func accountCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "account",
		Usage: "Account operations",
		Commands: []*cli.Command{
			{
				Name:  "register",
				Usage: "Create a local account",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Display name",
					},
					&cli.StringFlag{
						Name:     "password",
						Usage:    "Account password",
						Required: true,
					},
				},
				Action: r.AccountRegister,
			},
			{
				Name:  "list",
				Usage: "List accounts",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "provider",
						Usage: "Only accounts using this sign-in provider (local or oauth)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.AccountList,
			},
		},
	}
}
