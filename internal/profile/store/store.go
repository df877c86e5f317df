// Package store persists profiles. Implementations return sentinel errors;
// the service layer translates them into domain errors.
package store

import (
	"context"
	"time"

	"slated/internal/profile/models"
	"slated/pkg/domain"
)

// Store is the profile persistence contract.
type Store interface {
	// CreateIfNameAvailable inserts the profile unless another profile
	// already holds the name (case-insensitive). Returns
	// sentinel.ErrAlreadyUsed on a name collision.
	CreateIfNameAvailable(ctx context.Context, p *models.Profile) error

	// FindByID returns sentinel.ErrNotFound when absent.
	FindByID(ctx context.Context, id domain.ProfileID) (*models.Profile, error)

	// FindByName matches case-insensitively on the exact trimmed name.
	// Returns sentinel.ErrNotFound when absent.
	FindByName(ctx context.Context, name string) (*models.Profile, error)

	// List returns profiles whose name contains the filter
	// (case-insensitive substring; empty filter matches all), newest first.
	List(ctx context.Context, nameFilter string) ([]*models.Profile, error)

	// UpdateTimezone sets the timezone and returns the updated profile.
	// Returns sentinel.ErrNotFound when absent.
	UpdateTimezone(ctx context.Context, id domain.ProfileID, tz domain.Timezone, now time.Time) (*models.Profile, error)
}
