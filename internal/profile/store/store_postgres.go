package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"pulseboard/internal/platform/postgres"
	"pulseboard/internal/profile/models"
	id "pulseboard/pkg/domain"
	"pulseboard/pkg/platform/sentinel"
)

// Postgres persists profiles in the profiles table. The UNIQUE index on
// user_id is the authoritative guard for the one-profile-per-user invariant;
// concurrent create attempts race at the index, not in application code.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const profileColumns = `
	id, user_id, phone, address, city, country, postal_code, about_me,
	picture_url, twitter_url, facebook_url, instagram_url, linkedin_url,
	date_of_birth, gender, created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (` + profileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(profile.ID), uuid.UUID(profile.UserID),
		profile.Phone, profile.Address, profile.City, profile.Country,
		profile.PostalCode, profile.AboutMe, profile.PictureURL,
		profile.TwitterURL, profile.FacebookURL, profile.InstagramURL,
		profile.LinkedInURL, profile.DateOfBirth, nullString(string(profile.Gender)),
		profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert profile: %w", postgres.MapError(err))
	}
	return nil
}

func (s *Postgres) FindByUser(ctx context.Context, userID id.UserID) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`
	row := s.db.QueryRowContext(ctx, query, uuid.UUID(userID))

	profile, err := scanProfile(row)
	if err != nil {
		return nil, fmt.Errorf("find profile by user: %w", postgres.MapError(err))
	}
	return profile, nil
}

func (s *Postgres) Update(ctx context.Context, profile *models.Profile) error {
	query := `
		UPDATE profiles SET
			phone = $3, address = $4, city = $5, country = $6, postal_code = $7,
			about_me = $8, picture_url = $9, twitter_url = $10, facebook_url = $11,
			instagram_url = $12, linkedin_url = $13, date_of_birth = $14,
			gender = $15, updated_at = $16
		WHERE id = $1 AND user_id = $2
	`
	res, err := s.db.ExecContext(ctx, query,
		uuid.UUID(profile.ID), uuid.UUID(profile.UserID),
		profile.Phone, profile.Address, profile.City, profile.Country,
		profile.PostalCode, profile.AboutMe, profile.PictureURL,
		profile.TwitterURL, profile.FacebookURL, profile.InstagramURL,
		profile.LinkedInURL, profile.DateOfBirth, nullString(string(profile.Gender)),
		profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", postgres.MapError(err))
	}
	return requireRow(res)
}

// DeleteByUser removes the user's profile row. The schema cascades the delete
// to notifications and user_activities.
func (s *Postgres) DeleteByUser(ctx context.Context, userID id.UserID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = $1`, uuid.UUID(userID))
	if err != nil {
		return fmt.Errorf("delete profile: %w", postgres.MapError(err))
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*models.Profile, error) {
	var (
		p         models.Profile
		profileID uuid.UUID
		userID    uuid.UUID
		dob       sql.NullTime
		gender    sql.NullString
	)
	err := row.Scan(
		&profileID, &userID, &p.Phone, &p.Address, &p.City, &p.Country,
		&p.PostalCode, &p.AboutMe, &p.PictureURL, &p.TwitterURL,
		&p.FacebookURL, &p.InstagramURL, &p.LinkedInURL,
		&dob, &gender, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.ID = id.ProfileID(profileID)
	p.UserID = id.UserID(userID)
	if dob.Valid {
		t := dob.Time
		p.DateOfBirth = &t
	}
	if gender.Valid {
		p.Gender = models.Gender(gender.String)
	}
	return &p, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
