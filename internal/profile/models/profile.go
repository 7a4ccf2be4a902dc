package models

import (
	"net/url"
	"strings"
	"time"

	id "pulseboard/pkg/domain"
	dErrors "pulseboard/pkg/domain-errors"
)

// Gender is the enumerated optional gender field. Empty means unset.
type Gender string

const (
	GenderMale           Gender = "male"
	GenderFemale         Gender = "female"
	GenderOther          Gender = "other"
	GenderPreferNotToSay Gender = "prefer_not_to_say"
)

var validGenders = map[Gender]bool{
	GenderMale:           true,
	GenderFemale:         true,
	GenderOther:          true,
	GenderPreferNotToSay: true,
}

// ParseGender constructs a Gender from external input. Empty input is allowed
// and keeps the field unset.
func ParseGender(s string) (Gender, error) {
	if s == "" {
		return "", nil
	}
	g := Gender(s)
	if !validGenders[g] {
		return "", dErrors.New(dErrors.CodeValidation, "invalid gender")
	}
	return g, nil
}

func (g Gender) IsValid() bool { return g == "" || validGenders[g] }

// Profile is the derived extension record for one user.
//
// Invariants:
//   - Exactly one Profile exists per surviving user (UNIQUE on UserID at the
//     storage layer)
//   - Created only by the consistency coordinator, never by a direct request
//   - CreatedAt is immutable after construction; UpdatedAt moves on every save
//   - Destroyed only by the user-deletion cascade
type Profile struct {
	ID           id.ProfileID `json:"id"`
	UserID       id.UserID    `json:"user_id"`
	Phone        string       `json:"phone,omitempty"`
	Address      string       `json:"address,omitempty"`
	City         string       `json:"city,omitempty"`
	Country      string       `json:"country,omitempty"`
	PostalCode   string       `json:"postal_code,omitempty"`
	AboutMe      string       `json:"about_me,omitempty"`
	PictureURL   string       `json:"picture_url,omitempty"`
	TwitterURL   string       `json:"twitter_url,omitempty"`
	FacebookURL  string       `json:"facebook_url,omitempty"`
	InstagramURL string       `json:"instagram_url,omitempty"`
	LinkedInURL  string       `json:"linkedin_url,omitempty"`
	DateOfBirth  *time.Time   `json:"date_of_birth,omitempty"`
	Gender       Gender       `json:"gender,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// NewProfile constructs the empty profile the coordinator creates reactively.
// All optional fields start unset.
func NewProfile(profileID id.ProfileID, userID id.UserID, now time.Time) *Profile {
	return &Profile{
		ID:        profileID,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch bumps the update timestamp without changing any field. The save
// lifecycle handler uses it to propagate derived recomputation.
func (p *Profile) Touch(now time.Time) {
	p.UpdatedAt = now
}

// FullName derives the display name from the owning identity: trimmed
// "first last", falling back to the username when both parts are blank.
func FullName(firstName, lastName, username string) string {
	full := strings.TrimSpace(strings.TrimSpace(firstName) + " " + strings.TrimSpace(lastName))
	if full == "" {
		return username
	}
	return full
}

// View is the presentation-layer read model: the stored profile plus fields
// derived from the identity record.
type View struct {
	Profile
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

// UpdateRequest carries the self-service profile edits from the profile page.
// Pointer fields distinguish "leave unchanged" (nil) from "set to empty".
type UpdateRequest struct {
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
	City         *string `json:"city"`
	Country      *string `json:"country"`
	PostalCode   *string `json:"postal_code"`
	AboutMe      *string `json:"about_me"`
	PictureURL   *string `json:"picture_url"`
	TwitterURL   *string `json:"twitter_url"`
	FacebookURL  *string `json:"facebook_url"`
	InstagramURL *string `json:"instagram_url"`
	LinkedInURL  *string `json:"linkedin_url"`
	DateOfBirth  *string `json:"date_of_birth"` // YYYY-MM-DD
	Gender       *string `json:"gender"`
}

// Normalize trims whitespace on all provided text fields.
func (r *UpdateRequest) Normalize() {
	for _, f := range []*string{
		r.Phone, r.Address, r.City, r.Country, r.PostalCode, r.AboutMe,
		r.PictureURL, r.TwitterURL, r.FacebookURL, r.InstagramURL,
		r.LinkedInURL, r.DateOfBirth, r.Gender,
	} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}

// Validate rejects malformed fields before anything is persisted.
func (r *UpdateRequest) Validate(now time.Time) error {
	for name, f := range map[string]*string{
		"picture_url":   r.PictureURL,
		"twitter_url":   r.TwitterURL,
		"facebook_url":  r.FacebookURL,
		"instagram_url": r.InstagramURL,
		"linkedin_url":  r.LinkedInURL,
	} {
		if f != nil && *f != "" && !isValidURL(*f) {
			return dErrors.Newf(dErrors.CodeValidation, "%s is not a valid URL", name)
		}
	}
	if r.Gender != nil {
		if _, err := ParseGender(*r.Gender); err != nil {
			return err
		}
	}
	if r.DateOfBirth != nil && *r.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", *r.DateOfBirth)
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, "date_of_birth must be YYYY-MM-DD")
		}
		if dob.After(now) {
			return dErrors.New(dErrors.CodeValidation, "date_of_birth cannot be in the future")
		}
	}
	if r.Phone != nil && len(*r.Phone) > 20 {
		return dErrors.New(dErrors.CodeValidation, "phone must be 20 characters or less")
	}
	return nil
}

// Apply copies the provided fields onto the profile and bumps UpdatedAt.
// Call Validate first.
func (r *UpdateRequest) Apply(p *Profile, now time.Time) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setString(&p.Phone, r.Phone)
	setString(&p.Address, r.Address)
	setString(&p.City, r.City)
	setString(&p.Country, r.Country)
	setString(&p.PostalCode, r.PostalCode)
	setString(&p.AboutMe, r.AboutMe)
	setString(&p.PictureURL, r.PictureURL)
	setString(&p.TwitterURL, r.TwitterURL)
	setString(&p.FacebookURL, r.FacebookURL)
	setString(&p.InstagramURL, r.InstagramURL)
	setString(&p.LinkedInURL, r.LinkedInURL)

	if r.Gender != nil {
		g, _ := ParseGender(*r.Gender)
		p.Gender = g
	}
	if r.DateOfBirth != nil {
		if *r.DateOfBirth == "" {
			p.DateOfBirth = nil
		} else {
			dob, _ := time.Parse("2006-01-02", *r.DateOfBirth)
			p.DateOfBirth = &dob
		}
	}
	p.UpdatedAt = now
}

func isValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
