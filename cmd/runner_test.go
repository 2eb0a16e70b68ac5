package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/desertthunder/vidtube/internal/guard"
	"github.com/desertthunder/vidtube/internal/shared"
	tu "github.com/desertthunder/vidtube/internal/testing"
	"github.com/urfave/cli/v3"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	shared.ConfigureDatabase(db, 1, 1)
	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// run executes args against a fresh CLI tree backed by db.
func run(t *testing.T, db *sql.DB, args ...string) (string, error) {
	t.Helper()

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{Output: output, DB: db})
	app := &cli.Command{Name: "vidtube", Commands: runner.register()}

	err := app.Run(context.Background(), append([]string{"vidtube"}, args...))
	return output.String(), err
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			db := setupTestDB(t)

			runner := NewRunner(RunnerOpts{
				Config: config,
				Logger: logger,
				Output: output,
				DB:     db,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if got, err := runner.database(); err != nil || got != db {
				t.Errorf("expected injected database, got %v (%v)", got, err)
			}
		})

		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.openBrowser == nil {
				t.Error("expected browser opener to be set")
			}
		})

		t.Run("with configPath sets field", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				ConfigPath: "/test/path/config.toml",
			})

			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
		})

		t.Run("Close leaves injected database open", func(t *testing.T) {
			db := setupTestDB(t)
			runner := NewRunner(RunnerOpts{DB: db})
			runner.Close()

			if err := db.Ping(); err != nil {
				t.Errorf("expected injected database to stay open, got %v", err)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if result := output.String(); result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if result := output.String(); result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		commands := NewRunner(RunnerOpts{}).register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}

		for _, want := range []string{"setup", "serve", "tui", "guard", "profile", "account"} {
			if !names[want] {
				t.Errorf("expected %q command to be registered", want)
			}
		}
	})
}

func TestGuardCommands(t *testing.T) {
	decode := func(t *testing.T, out string) decisionView {
		t.Helper()
		var view decisionView
		if err := json.Unmarshal([]byte(out), &view); err != nil {
			t.Fatalf("failed to decode %q: %v", out, err)
		}
		return view
	}

	t.Run("check signed out", func(t *testing.T) {
		db := setupTestDB(t)

		out, err := run(t, db, "guard", "check", "--json", "/settings")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		view := decode(t, out)
		if view.Allowed || view.Redirect != guard.RouteLogin || view.Reason != "signed_out" {
			t.Errorf("expected redirect to sign-in, got %+v", view)
		}
		if view.Message == "" || view.Message == "reason_signed_out" {
			t.Errorf("expected localized message, got %q", view.Message)
		}
	})

	t.Run("check public route", func(t *testing.T) {
		db := setupTestDB(t)

		out, err := run(t, db, "guard", "check", "--json", "/watch/abc123")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if view := decode(t, out); !view.Allowed || view.Reason != "public" {
			t.Errorf("expected public allow, got %+v", view)
		}
	})

	t.Run("check follows verification", func(t *testing.T) {
		db := setupTestDB(t)

		out, err := run(t, db, "guard", "check", "--uid", "u1", "--json", "/settings")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		view := decode(t, out)
		if view.Redirect != guard.RouteVerifyAge || !view.NeedsAgeVerification {
			t.Errorf("expected verify-age redirect, got %+v", view)
		}

		if _, err := run(t, db, "profile", "verify", "--dob", "1990-03-02", "u1"); err != nil {
			t.Fatalf("expected verify to succeed, got %v", err)
		}

		out, err = run(t, db, "guard", "check", "--uid", "u1", "--json", "/settings")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if view := decode(t, out); !view.Allowed || view.NeedsAgeVerification {
			t.Errorf("expected verified adult to be allowed, got %+v", view)
		}
	})

	t.Run("check underage", func(t *testing.T) {
		db := setupTestDB(t)

		out, err := run(t, db, "profile", "verify", "--dob", "2015-06-01", "kid")
		if err != nil {
			t.Fatalf("expected verify to succeed, got %v", err)
		}
		if !strings.Contains(out, "under 18") {
			t.Errorf("expected underage notice, got %q", out)
		}

		out, err = run(t, db, "guard", "check", "--uid", "kid", "/settings")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out, guard.RouteUnderage) {
			t.Errorf("expected redirect to %s, got %q", guard.RouteUnderage, out)
		}
	})

	t.Run("check requires a path", func(t *testing.T) {
		_, err := run(t, setupTestDB(t), "guard", "check")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("routes", func(t *testing.T) {
		out, err := run(t, setupTestDB(t), "guard", "routes", "--json")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var view routesView
		if err := json.Unmarshal([]byte(out), &view); err != nil {
			t.Fatalf("failed to decode routes: %v", err)
		}
		if view.Prefix != guard.WatchPrefix {
			t.Errorf("expected prefix %s, got %s", guard.WatchPrefix, view.Prefix)
		}
		if len(view.Unverified) != len(view.Public)+1 {
			t.Errorf("expected unverified list to add logout, got %v vs %v", view.Unverified, view.Public)
		}
	})
}

func TestProfileCommands(t *testing.T) {
	t.Run("show creates an unverified profile", func(t *testing.T) {
		out, err := run(t, setupTestDB(t), "profile", "show", "u1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var view profileView
		if err := json.Unmarshal([]byte(out), &view); err != nil {
			t.Fatalf("failed to decode profile: %v", err)
		}
		if view.UID != "u1" || view.AgeVerified || view.IsAdult != nil {
			t.Errorf("expected fresh profile, got %+v", view)
		}
	})

	t.Run("verify rejects a bad date", func(t *testing.T) {
		_, err := run(t, setupTestDB(t), "profile", "verify", "--dob", "03/02/1990", "u1")
		if !errors.Is(err, shared.ErrInvalidDateOfBirth) {
			t.Errorf("expected ErrInvalidDateOfBirth, got %v", err)
		}
	})
}

func TestAccountCommands(t *testing.T) {
	db := setupTestDB(t)

	out, err := run(t, db, "account", "register", "--email", "Viewer@Example.com", "--name", "Viewer", "--password", "correct-horse")
	if err != nil {
		t.Fatalf("expected register to succeed, got %v", err)
	}
	id := strings.TrimSpace(out)
	if id == "" {
		t.Fatal("expected account id on output")
	}

	t.Run("duplicate email", func(t *testing.T) {
		_, err := run(t, db, "account", "register", "--email", "viewer@example.com", "--password", "correct-horse")
		if !errors.Is(err, shared.ErrDuplicateEmail) {
			t.Errorf("expected ErrDuplicateEmail, got %v", err)
		}
	})

	t.Run("list", func(t *testing.T) {
		out, err := run(t, db, "account", "list", "--json")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var views []accountView
		if err := json.Unmarshal([]byte(out), &views); err != nil {
			t.Fatalf("failed to decode accounts: %v", err)
		}
		if len(views) != 1 || views[0].ID != id || views[0].Email != "viewer@example.com" {
			t.Errorf("expected the registered account, got %+v", views)
		}
	})

	t.Run("list by provider", func(t *testing.T) {
		out, err := run(t, db, "account", "list", "--provider", "oauth")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out, "No accounts") {
			t.Errorf("expected no oauth accounts, got %q", out)
		}
	})
}

func TestSetupCommands(t *testing.T) {
	db := setupTestDB(t)

	out, err := run(t, db, "setup", "status", "--json")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var rows []migrationRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("failed to decode migrations: %v", err)
	}
	if len(rows) == 0 {
		t.Fatal("expected at least one migration")
	}
	for _, row := range rows {
		if !row.Applied || row.AppliedAt == nil {
			t.Errorf("expected migration %d to be applied, got %+v", row.Version, row)
		}
	}

	if _, err := run(t, db, "setup", "rollback"); err != nil {
		t.Fatalf("expected rollback to succeed, got %v", err)
	}

	statuses, err := shared.Migrations(db)
	if err != nil {
		t.Fatalf("failed to read migrations: %v", err)
	}
	if last := statuses[len(statuses)-1]; last.Applied {
		t.Errorf("expected latest migration %d to be rolled back", last.Version)
	}
}
