package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/vidtube/internal/models"
	"github.com/desertthunder/vidtube/internal/shared"
)

// ProfileRepository implements [models.Repository] for [models.Profile] persistence, keyed by uid.
type ProfileRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.Profile] = (*ProfileRepository)(nil)

// NewProfileRepository creates a new [ProfileRepository] with the given database connection
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `uid, sequence, age_verified, is_adult, date_of_birth, created_at, updated_at`

// Create inserts a new profile and assigns its sequence.
func (r *ProfileRepository) Create(profile *models.Profile) error {
	if err := profile.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	sequence, err := NextSequence(r.db, "profiles")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	query := `
		INSERT INTO profiles (uid, sequence, age_verified, is_adult, date_of_birth, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, profile.UID(), sequence, profile.AgeVerified, nullBool(profile.IsAdult),
		profile.DateOfBirth, profile.CreatedAt(), profile.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert profile: %w", err)
	}

	profile.SetSequence(sequence)
	return nil
}

// Get retrieves the profile for uid, returning [shared.ErrProfileNotFound] when absent.
func (r *ProfileRepository) Get(uid string) (*models.Profile, error) {
	row := r.db.QueryRow(`SELECT `+profileColumns+` FROM profiles WHERE uid = ?`, uid)

	profile, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrProfileNotFound, uid)
	}
	return profile, err
}

// FetchOrCreate returns the profile for uid, creating an unverified one on first access.
//
// A concurrent create for the same uid is resolved by re-reading the winner's row.
func (r *ProfileRepository) FetchOrCreate(uid string) (*models.Profile, error) {
	profile, err := r.Get(uid)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, shared.ErrProfileNotFound) {
		return nil, err
	}

	profile = models.NewProfile(uid)
	if err := r.Create(profile); err != nil {
		if isUniqueViolation(err) {
			return r.Get(uid)
		}
		return nil, err
	}

	return profile, nil
}

// Update persists the verification attributes of an existing profile.
func (r *ProfileRepository) Update(profile *models.Profile) error {
	if err := profile.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	now := time.Now()

	query := `
		UPDATE profiles
		SET age_verified = ?, is_adult = ?, date_of_birth = ?, updated_at = ?
		WHERE uid = ?
	`

	result, err := r.db.Exec(query, profile.AgeVerified, nullBool(profile.IsAdult), profile.DateOfBirth, now, profile.UID())
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	if err := expectRow(result, shared.ErrProfileNotFound, profile.UID()); err != nil {
		return err
	}

	profile.SetUpdatedAt(now)
	return nil
}

// Delete removes the profile for uid.
func (r *ProfileRepository) Delete(uid string) error {
	result, err := r.db.Exec(`DELETE FROM profiles WHERE uid = ?`, uid)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	return expectRow(result, shared.ErrProfileNotFound, uid)
}

// List retrieves profiles matching the given criteria ("age_verified" bool).
func (r *ProfileRepository) List(criteria map[string]any) ([]*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE 1 = 1`
	args := []any{}

	if verified, ok := criteria["age_verified"].(bool); ok {
		query += " AND age_verified = ?"
		args = append(args, verified)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*models.Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return profiles, nil
}

func scanProfile(s scanner) (*models.Profile, error) {
	var (
		uid         string
		sequence    int
		ageVerified bool
		isAdult     sql.NullBool
		dob         string
		createdAt   time.Time
		updatedAt   time.Time
	)

	err := s.Scan(&uid, &sequence, &ageVerified, &isAdult, &dob, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan profile: %w", err)
	}

	profile := models.NewProfile(uid)
	profile.SetSequence(sequence)
	profile.AgeVerified = ageVerified
	if isAdult.Valid {
		profile.IsAdult = models.Bool(isAdult.Bool)
	}
	profile.DateOfBirth = dob
	profile.SetCreatedAt(createdAt)
	profile.SetUpdatedAt(updatedAt)

	return profile, nil
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}
