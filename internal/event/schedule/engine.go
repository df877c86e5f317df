// Package schedule validates and normalizes event date ranges.
//
// All wall-clock inputs are interpreted in the single timezone declared for
// the event, then converted to UTC instants for storage. Validating against
// the declared zone (not the server's) matters because one event can involve
// profiles in different zones; the event's own zone is the contract.
package schedule

import (
	"strings"
	"time"

	"slated/internal/event/models"
	"slated/internal/platform/clock"
	"slated/pkg/domain"
	dErrors "slated/pkg/domain-errors"
)

// Engine validates candidate events against the temporal invariants.
type Engine struct {
	clock clock.Clock
}

// New builds an engine on the given clock.
func New(clk clock.Clock) *Engine {
	return &Engine{clock: clk}
}

// CreateInput is the raw candidate for a new event.
type CreateInput struct {
	Profiles  []domain.ProfileID
	Timezone  string
	StartDate string
	EndDate   string
}

// Normalized is a validated create input with UTC instants.
type Normalized struct {
	Profiles []domain.ProfileID
	Timezone domain.Timezone
	StartAt  time.Time
	EndAt    time.Time
}

// PatchInput is the raw candidate for a partial update. Nil means the field
// is absent from the patch.
type PatchInput struct {
	Profiles  []domain.ProfileID
	Timezone  *string
	StartDate *string
	EndDate   *string
}

// ValidateCreate checks a candidate event and returns normalized UTC
// instants.
//
// Errors, in check order: CodeMissingProfiles, CodeMissingTimezone,
// CodeMissingDates, CodeInvalidDateFormat, CodeInvalidDateRange,
// CodePastStartDate.
func (e *Engine) ValidateCreate(in CreateInput) (Normalized, error) {
	if len(in.Profiles) == 0 {
		return Normalized{}, dErrors.New(dErrors.CodeMissingProfiles, "At least one profile is required")
	}

	tz, err := domain.ParseTimezone(in.Timezone)
	if err != nil {
		return Normalized{}, err
	}

	if strings.TrimSpace(in.StartDate) == "" || strings.TrimSpace(in.EndDate) == "" {
		return Normalized{}, dErrors.New(dErrors.CodeMissingDates, "Start date and end date are required")
	}

	loc := tz.Location()
	start, err := parseInZone(in.StartDate, loc)
	if err != nil {
		return Normalized{}, err
	}
	end, err := parseInZone(in.EndDate, loc)
	if err != nil {
		return Normalized{}, err
	}

	if !end.After(start) {
		return Normalized{}, dErrors.New(dErrors.CodeInvalidDateRange, "End date must be after start date")
	}

	// "Now" is evaluated in the event's declared zone. For offset-less
	// wall-clock inputs this makes the same wall-clock time pass in one
	// zone and fail in another, which is the intended contract.
	now := e.clock.Now().In(loc)
	if start.Before(now) {
		return Normalized{}, dErrors.New(dErrors.CodePastStartDate, "Start date cannot be in the past")
	}

	return Normalized{
		Profiles: in.Profiles,
		Timezone: tz,
		StartAt:  start.UTC(),
		EndAt:    end.UTC(),
	}, nil
}

// ValidatePatch normalizes a partial update against the existing event.
// The range check runs on patch values merged over existing ones; the
// past-start rule deliberately does not apply to updates, so edits to
// already-running events remain possible.
func (e *Engine) ValidatePatch(existing *models.Event, in PatchInput) (models.Patch, error) {
	var patch models.Patch

	if in.Profiles != nil {
		if len(in.Profiles) == 0 {
			return models.Patch{}, dErrors.New(dErrors.CodeMissingProfiles, "At least one profile is required")
		}
		patch.Profiles = in.Profiles
	}

	effectiveTZ := existing.Timezone
	if in.Timezone != nil {
		tz, err := domain.ParseTimezone(*in.Timezone)
		if err != nil {
			return models.Patch{}, err
		}
		patch.Timezone = &tz
		effectiveTZ = tz
	}

	// Patched wall-clock dates resolve in the patch's new zone when one is
	// provided, otherwise in the existing zone.
	loc := effectiveTZ.Location()

	start := existing.StartAt
	if in.StartDate != nil {
		t, err := parseInZone(*in.StartDate, loc)
		if err != nil {
			return models.Patch{}, err
		}
		t = t.UTC()
		patch.StartAt = &t
		start = t
	}

	end := existing.EndAt
	if in.EndDate != nil {
		t, err := parseInZone(*in.EndDate, loc)
		if err != nil {
			return models.Patch{}, err
		}
		t = t.UTC()
		patch.EndAt = &t
		end = t
	}

	if !end.After(start) {
		return models.Patch{}, dErrors.New(dErrors.CodeInvalidDateRange, "End date must be after start date")
	}

	return patch, nil
}

// Layouts accepted for date-time input. Offset-carrying forms resolve to
// their own instant; the rest are wall-clock in the event's zone.
var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
}

var wallClockLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseInZone(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range wallClockLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, dErrors.New(dErrors.CodeInvalidDateFormat, "Invalid date format")
}
