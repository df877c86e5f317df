package models

import (
	"sort"
	"time"

	"slated/pkg/domain"
)

// ProfileRef is an event's reference to a participating profile.
// References start unresolved (id only) and stores expand them to resolved
// form (id, name, timezone) before diffing or display logic runs.
type ProfileRef struct {
	ID       domain.ProfileID
	Name     string
	Timezone domain.Timezone
	resolved bool
}

// UnresolvedRef builds a reference carrying only the profile id.
func UnresolvedRef(id domain.ProfileID) ProfileRef {
	return ProfileRef{ID: id}
}

// ResolvedRef builds a reference with display attributes attached.
func ResolvedRef(id domain.ProfileID, name string, tz domain.Timezone) ProfileRef {
	return ProfileRef{ID: id, Name: name, Timezone: tz, resolved: true}
}

// Resolved reports whether display attributes are attached.
func (r ProfileRef) Resolved() bool { return r.resolved }

// Event is a scheduled interval involving one or more profiles. Instants are
// stored in UTC; Timezone records the zone the event was declared in, for
// re-projection when displaying.
//
// Invariants (enforced on create and update by the schedule engine):
//   - Profiles is non-empty
//   - Timezone is a recognized IANA zone
//   - EndAt is strictly after StartAt
type Event struct {
	ID        domain.EventID
	Profiles  []ProfileRef
	Timezone  domain.Timezone
	StartAt   time.Time
	EndAt     time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProfileIDs returns the ids of all referenced profiles, in stored order.
func (e *Event) ProfileIDs() []domain.ProfileID {
	ids := make([]domain.ProfileID, len(e.Profiles))
	for i, ref := range e.Profiles {
		ids[i] = ref.ID
	}
	return ids
}

// SortedProfileIDStrings returns the canonical form used for set
// comparison: each id's string form, sorted. Two events reference the same
// profile set exactly when these slices are equal element-wise.
func SortedProfileIDStrings(ids []domain.ProfileID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	sort.Strings(out)
	return out
}

// Patch is a validated, normalized partial update. Nil fields are absent
// from the patch; instants are UTC.
type Patch struct {
	Profiles []domain.ProfileID
	Timezone *domain.Timezone
	StartAt  *time.Time
	EndAt    *time.Time
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Profiles == nil && p.Timezone == nil && p.StartAt == nil && p.EndAt == nil
}

// Apply folds the patch into the event in place.
func (p Patch) Apply(e *Event, now time.Time) {
	if p.Profiles != nil {
		refs := make([]ProfileRef, len(p.Profiles))
		for i, id := range p.Profiles {
			refs[i] = UnresolvedRef(id)
		}
		e.Profiles = refs
	}
	if p.Timezone != nil {
		e.Timezone = *p.Timezone
	}
	if p.StartAt != nil {
		e.StartAt = p.StartAt.UTC()
	}
	if p.EndAt != nil {
		e.EndAt = p.EndAt.UTC()
	}
	e.UpdatedAt = now
}
