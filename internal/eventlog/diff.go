package eventlog

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"slated/internal/event/models"
	"slated/pkg/domain"
)

// profilesPlaceholder stands in when no display name could be resolved for
// a side of a profile change.
const profilesPlaceholder = "updated profiles"

// displayLayout renders instants for human-readable audit values. The zone
// abbreviation keeps entries meaningful when the event's timezone changes.
const displayLayout = "Jan 2, 2006 3:04 PM MST"

// DiffUpdate compares an event's persisted state against an accepted patch
// and returns one Change per differing field, in fixed order: timezone,
// profiles, start, end. Entry order is persisted, so the order here is the
// order readers see.
//
// Comparisons run on normalized values (instants, canonical sorted id
// lists), never raw input strings: re-submitting an equivalent value in a
// different representation produces no change. newNames are the display
// names of the patch's profiles, resolved by the caller; this function
// performs no lookups of its own and degrades to a placeholder when names
// are missing.
func DiffUpdate(existing *models.Event, patch models.Patch, newNames []string) []Change {
	var changes []Change

	if patch.Timezone != nil && *patch.Timezone != existing.Timezone {
		oldTZ, newTZ := existing.Timezone.String(), patch.Timezone.String()
		changes = append(changes, Change{
			Message: fmt.Sprintf("Timezone changed from %q to %q", oldTZ, newTZ),
			Metadata: Metadata{
				Field:    FieldTimezone,
				OldValue: oldTZ,
				NewValue: newTZ,
			},
		})
	}

	if patch.Profiles != nil {
		oldIDs := models.SortedProfileIDStrings(existing.ProfileIDs())
		newIDs := models.SortedProfileIDStrings(patch.Profiles)
		if !slices.Equal(oldIDs, newIDs) {
			newJoined := joinOrPlaceholder(newNames)
			oldJoined := joinOrPlaceholder(resolvedNames(existing.Profiles))
			changes = append(changes, Change{
				Message: fmt.Sprintf("Profiles changed to: %s", newJoined),
				Metadata: Metadata{
					Field:    FieldProfiles,
					OldValue: oldJoined,
					NewValue: newJoined,
				},
			})
		}
	}

	// Old instants render in the existing zone; new ones in the patch's
	// zone when it carries one, since that is the zone the new wall-clock
	// value was declared in.
	newSideTZ := existing.Timezone
	if patch.Timezone != nil {
		newSideTZ = *patch.Timezone
	}

	if patch.StartAt != nil && !patch.StartAt.Equal(existing.StartAt) {
		changes = append(changes, Change{
			Message: "Start date/time updated",
			Metadata: Metadata{
				Field:    FieldStartDate,
				OldValue: formatIn(existing.StartAt, existing.Timezone),
				NewValue: formatIn(*patch.StartAt, newSideTZ),
			},
		})
	}

	if patch.EndAt != nil && !patch.EndAt.Equal(existing.EndAt) {
		changes = append(changes, Change{
			Message: "End date/time updated",
			Metadata: Metadata{
				Field:    FieldEndDate,
				OldValue: formatIn(existing.EndAt, existing.Timezone),
				NewValue: formatIn(*patch.EndAt, newSideTZ),
			},
		})
	}

	return changes
}

func resolvedNames(refs []models.ProfileRef) []string {
	var names []string
	for _, ref := range refs {
		if ref.Resolved() && ref.Name != "" {
			names = append(names, ref.Name)
		}
	}
	return names
}

func joinOrPlaceholder(names []string) string {
	if len(names) == 0 {
		return profilesPlaceholder
	}
	return strings.Join(names, ", ")
}

func formatIn(t time.Time, tz domain.Timezone) string {
	return t.In(tz.Location()).Format(displayLayout)
}
