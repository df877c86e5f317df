package models

import (
	"regexp"
	"strings"
	"time"

	"slated/pkg/domain"
	dErrors "slated/pkg/domain-errors"
)

// Profile is a named entity that can participate in events.
//
// Invariants:
//   - Name is trimmed, 2-50 characters, starts with two letters, and the
//     rest is letters, digits or whitespace
//   - Name is unique case-insensitively (enforced by the store)
//   - Timezone is a valid IANA identifier, defaulting to UTC
type Profile struct {
	ID        domain.ProfileID `json:"id"`
	Name      string           `json:"name"`
	Timezone  domain.Timezone  `json:"timezone"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

var namePattern = regexp.MustCompile(`^[A-Za-z]{2}[A-Za-z0-9\s]*$`)

// ValidateName normalizes and validates a candidate profile name.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", dErrors.New(dErrors.CodeValidation, "Profile name is required")
	}
	if len(name) < 2 {
		return "", dErrors.New(dErrors.CodeValidation, "Name must be at least 2 characters long")
	}
	if len(name) > 50 {
		return "", dErrors.New(dErrors.CodeValidation, "Name cannot exceed 50 characters")
	}
	if !namePattern.MatchString(name) {
		return "", dErrors.New(dErrors.CodeValidation, "Name must start with two letters and may only contain letters, numbers and spaces")
	}
	return name, nil
}

// NewProfile constructs a valid profile or fails with a validation error.
func NewProfile(id domain.ProfileID, name string, now time.Time) (*Profile, error) {
	name, err := ValidateName(name)
	if err != nil {
		return nil, err
	}
	return &Profile{
		ID:        id,
		Name:      name,
		Timezone:  domain.TimezoneUTC,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ApplyTimezone mutates the display timezone in place.
func (p *Profile) ApplyTimezone(tz domain.Timezone, now time.Time) {
	p.Timezone = tz
	p.UpdatedAt = now
}
