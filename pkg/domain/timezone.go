package domain

import (
	"fmt"
	"strings"
	"time"

	dErrors "slated/pkg/domain-errors"
)

// Timezone is a canonical IANA zone identifier such as "America/New_York".
// Human labels like "Eastern Time (ET)" are a presentation concern and never
// reach this type.
//
// Invariant: a non-zero Timezone always resolves via time.LoadLocation.
type Timezone string

// TimezoneUTC is the default zone for new profiles.
const TimezoneUTC Timezone = "UTC"

// ParseTimezone validates external input against the IANA database.
//
// Errors: CodeMissingTimezone when empty, CodeValidation when the identifier
// is not a recognized zone.
func ParseTimezone(s string) (Timezone, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeMissingTimezone, "Timezone is required")
	}
	if _, err := time.LoadLocation(s); err != nil {
		return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unrecognized timezone %q", s))
	}
	return Timezone(s), nil
}

// Location resolves the zone. The parse invariant makes failure impossible
// for values built through ParseTimezone; a zero or cast-in value falls back
// to UTC rather than panicking in display paths.
func (tz Timezone) Location() *time.Location {
	loc, err := time.LoadLocation(string(tz))
	if err != nil {
		return time.UTC
	}
	return loc
}

func (tz Timezone) String() string { return string(tz) }

func (tz Timezone) IsNil() bool { return tz == "" }
