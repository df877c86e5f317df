// Package domain holds shared domain primitives: typed identifiers and the
// Timezone value object. Construct them via the Parse functions at trust
// boundaries; direct casting bypasses validation.
package domain

import (
	"github.com/google/uuid"

	dErrors "slated/pkg/domain-errors"
)

// ProfileID identifies a profile. Typed to prevent mixing with other ids.
type ProfileID uuid.UUID

// EventID identifies a scheduled event.
type EventID uuid.UUID

// LogID identifies an audit log entry.
type LogID uuid.UUID

// NewProfileID returns a fresh random ProfileID.
func NewProfileID() ProfileID { return ProfileID(uuid.New()) }

// NewEventID returns a fresh random EventID.
func NewEventID() EventID { return EventID(uuid.New()) }

// NewLogID returns a fresh random LogID.
func NewLogID() LogID { return LogID(uuid.New()) }

// ParseProfileID parses external input into a ProfileID.
func ParseProfileID(s string) (ProfileID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ProfileID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid profile id")
	}
	return ProfileID(u), nil
}

// ParseEventID parses external input into an EventID.
func ParseEventID(s string) (EventID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return EventID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid event id")
	}
	return EventID(u), nil
}

// ParseLogID parses external input into a LogID.
func ParseLogID(s string) (LogID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return LogID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid log id")
	}
	return LogID(u), nil
}

func (id ProfileID) String() string { return uuid.UUID(id).String() }
func (id EventID) String() string   { return uuid.UUID(id).String() }
func (id LogID) String() string     { return uuid.UUID(id).String() }

func (id ProfileID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id EventID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id LogID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }

// Text marshaling keeps ids as canonical uuid strings in JSON payloads.

func (id ProfileID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id EventID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id LogID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }

func (id *ProfileID) UnmarshalText(b []byte) error {
	parsed, err := ParseProfileID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *EventID) UnmarshalText(b []byte) error {
	parsed, err := ParseEventID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *LogID) UnmarshalText(b []byte) error {
	parsed, err := ParseLogID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
