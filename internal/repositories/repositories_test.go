package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/desertthunder/vidtube/internal/models"
	"github.com/desertthunder/vidtube/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	shared.ConfigureDatabase(db, 1, 1)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func newLocalUser(email string) *models.User {
	user := models.NewUser(0, email, "Test User")
	user.SetPasswordHash("$2a$10$hash")
	return user
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(db, "users")
		if err != nil {
			t.Fatalf("failed to get sequence: %v", err)
		}
		if got != want {
			t.Errorf("expected sequence %d, got %d", want, got)
		}
	}

	if _, err := NextSequence(db, "missing"); err == nil {
		t.Error("expected error for table without sequence")
	}
}

func TestUserRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))
		user := newLocalUser("test@example.com")

		if err := repo.Create(user); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		if user.ID() == "" {
			t.Error("user ID should be set after creation")
		}
		if user.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", user.Sequence())
		}
	})

	t.Run("Create validation error", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))

		err := repo.Create(newLocalUser("not-an-email"))
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}

		err = repo.Create(models.NewUser(0, "nopass@example.com", "No Pass"))
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for missing password, got %v", err)
		}
	})

	t.Run("Create duplicate email", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))

		if err := repo.Create(newLocalUser("dup@example.com")); err != nil {
			t.Fatalf("failed to create first user: %v", err)
		}

		err := repo.Create(newLocalUser("dup@example.com"))
		if !errors.Is(err, shared.ErrDuplicateEmail) {
			t.Errorf("expected ErrDuplicateEmail, got %v", err)
		}
	})

	t.Run("Get and GetByEmail", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))
		user := newLocalUser("test@example.com")
		if err := repo.Create(user); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		byID, err := repo.Get(user.ID())
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}
		if byID.Email() != user.Email() {
			t.Errorf("expected email %s, got %s", user.Email(), byID.Email())
		}
		if byID.PasswordHash() != user.PasswordHash() {
			t.Error("expected password hash to round trip")
		}

		byEmail, err := repo.GetByEmail("test@example.com")
		if err != nil {
			t.Fatalf("failed to get user by email: %v", err)
		}
		if byEmail.ID() != user.ID() {
			t.Errorf("expected ID %s, got %s", user.ID(), byEmail.ID())
		}

		if _, err := repo.Get("missing"); !errors.Is(err, shared.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("Update", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))
		user := newLocalUser("test@example.com")
		if err := repo.Create(user); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		user.SetName("Renamed")
		if err := repo.Update(user); err != nil {
			t.Fatalf("failed to update user: %v", err)
		}

		got, err := repo.Get(user.ID())
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}
		if got.Name() != "Renamed" {
			t.Errorf("expected name Renamed, got %s", got.Name())
		}

		ghost := newLocalUser("ghost@example.com")
		ghost.SetID("ghost")
		if err := repo.Update(ghost); !errors.Is(err, shared.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))
		user := newLocalUser("test@example.com")
		if err := repo.Create(user); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		if err := repo.Delete(user.ID()); err != nil {
			t.Fatalf("failed to delete user: %v", err)
		}

		if _, err := repo.Get(user.ID()); err == nil {
			t.Error("expected error when getting deleted user")
		}

		if err := repo.Delete(user.ID()); !errors.Is(err, shared.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound on second delete, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))

		for _, email := range []string{"a@example.com", "b@example.com"} {
			if err := repo.Create(newLocalUser(email)); err != nil {
				t.Fatalf("failed to create user: %v", err)
			}
		}
		oauthUser := models.NewUser(0, "c@example.com", "OAuth")
		oauthUser.SetProvider(models.ProviderOAuth)
		if err := repo.Create(oauthUser); err != nil {
			t.Fatalf("failed to create oauth user: %v", err)
		}

		all, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list users: %v", err)
		}
		if len(all) != 3 {
			t.Errorf("expected 3 users, got %d", len(all))
		}
		if all[0].Email() != "a@example.com" {
			t.Errorf("expected users ordered by sequence, got %s first", all[0].Email())
		}

		oauth, err := repo.List(map[string]any{"provider": models.ProviderOAuth})
		if err != nil {
			t.Fatalf("failed to list users: %v", err)
		}
		if len(oauth) != 1 {
			t.Errorf("expected 1 oauth user, got %d", len(oauth))
		}
	})
}

func TestProfileRepository(t *testing.T) {
	t.Run("FetchOrCreate creates unverified profile", func(t *testing.T) {
		repo := NewProfileRepository(setupTestDB(t))

		profile, err := repo.FetchOrCreate("uid-1")
		if err != nil {
			t.Fatalf("failed to fetch or create profile: %v", err)
		}

		if profile.UID() != "uid-1" {
			t.Errorf("expected uid uid-1, got %s", profile.UID())
		}
		if profile.AgeVerified {
			t.Error("new profile should not be age verified")
		}
		if profile.IsAdult != nil {
			t.Error("new profile should have no adult flag")
		}
	})

	t.Run("FetchOrCreate returns existing", func(t *testing.T) {
		repo := NewProfileRepository(setupTestDB(t))

		first, err := repo.FetchOrCreate("uid-1")
		if err != nil {
			t.Fatalf("failed to create profile: %v", err)
		}
		second, err := repo.FetchOrCreate("uid-1")
		if err != nil {
			t.Fatalf("failed to fetch profile: %v", err)
		}
		if first.Sequence() != second.Sequence() {
			t.Errorf("expected same profile, got sequences %d and %d", first.Sequence(), second.Sequence())
		}
	})

	t.Run("Update round trips adult flag", func(t *testing.T) {
		repo := NewProfileRepository(setupTestDB(t))

		profile, err := repo.FetchOrCreate("uid-1")
		if err != nil {
			t.Fatalf("failed to create profile: %v", err)
		}

		profile.AgeVerified = true
		profile.IsAdult = models.Bool(false)
		profile.DateOfBirth = "2015-04-01"
		if err := repo.Update(profile); err != nil {
			t.Fatalf("failed to update profile: %v", err)
		}

		got, err := repo.Get("uid-1")
		if err != nil {
			t.Fatalf("failed to get profile: %v", err)
		}
		if !got.AgeVerified {
			t.Error("expected profile to be verified")
		}
		if !got.Underage() {
			t.Error("expected explicit underage flag to round trip")
		}
	})

	t.Run("Update validation", func(t *testing.T) {
		repo := NewProfileRepository(setupTestDB(t))

		profile, err := repo.FetchOrCreate("uid-1")
		if err != nil {
			t.Fatalf("failed to create profile: %v", err)
		}
		profile.AgeVerified = true
		if err := repo.Update(profile); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput without date of birth, got %v", err)
		}
	})

	t.Run("Get missing", func(t *testing.T) {
		repo := NewProfileRepository(setupTestDB(t))

		if _, err := repo.Get("nobody"); !errors.Is(err, shared.ErrProfileNotFound) {
			t.Errorf("expected ErrProfileNotFound, got %v", err)
		}
	})

	t.Run("Delete and List", func(t *testing.T) {
		repo := NewProfileRepository(setupTestDB(t))

		for _, uid := range []string{"a", "b"} {
			if _, err := repo.FetchOrCreate(uid); err != nil {
				t.Fatalf("failed to create profile: %v", err)
			}
		}

		if err := repo.Delete("a"); err != nil {
			t.Fatalf("failed to delete profile: %v", err)
		}
		if err := repo.Delete("a"); !errors.Is(err, shared.ErrProfileNotFound) {
			t.Errorf("expected ErrProfileNotFound, got %v", err)
		}

		unverified, err := repo.List(map[string]any{"age_verified": false})
		if err != nil {
			t.Fatalf("failed to list profiles: %v", err)
		}
		if len(unverified) != 1 || unverified[0].UID() != "b" {
			t.Errorf("expected only profile b, got %d profiles", len(unverified))
		}
	})
}
