// Package eventlog computes and records the audit trail of event changes.
// Entries are immutable once written; an update yields one entry per
// changed field, never one entry covering several fields.
package eventlog

import (
	"time"

	"slated/pkg/domain"
)

// Field names the event attribute an entry describes. Values match the
// wire-level field names clients patch with.
type Field string

const (
	FieldTimezone  Field = "timezone"
	FieldProfiles  Field = "profiles"
	FieldStartDate Field = "startDate"
	FieldEndDate   Field = "endDate"
)

// Metadata is the structured half of an entry: which field changed and the
// display forms of both sides.
type Metadata struct {
	Field    Field  `json:"field"`
	OldValue string `json:"oldValue"`
	NewValue string `json:"newValue"`
}

// Entry is one immutable audit record. The event id is an owning reference
// only in the sense of lookup; entries survive independently once written.
type Entry struct {
	ID        domain.LogID
	EventID   domain.EventID
	Message   string
	Metadata  *Metadata
	CreatedAt time.Time
}

// Change is a computed field-level difference, before being assigned an id
// and timestamp.
type Change struct {
	Message  string
	Metadata Metadata
}
