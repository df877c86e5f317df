// Package store persists events. Results come back with profile references
// expanded to resolved form where the profile still exists.
package store

import (
	"context"
	"time"

	"slated/internal/event/models"
	"slated/pkg/domain"
)

// Store is the event persistence contract.
type Store interface {
	Create(ctx context.Context, e *models.Event) error

	// FindByID returns sentinel.ErrNotFound when absent.
	FindByID(ctx context.Context, id domain.EventID) (*models.Event, error)

	// FindAll returns every event sorted by start instant ascending.
	FindAll(ctx context.Context) ([]*models.Event, error)

	// FindByProfile returns the profile's events sorted by start instant
	// ascending.
	FindByProfile(ctx context.Context, profileID domain.ProfileID) ([]*models.Event, error)

	// Update applies the patch and returns the updated event.
	// Returns sentinel.ErrNotFound when absent.
	Update(ctx context.Context, id domain.EventID, patch models.Patch, now time.Time) (*models.Event, error)
}
