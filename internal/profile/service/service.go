// Package service implements the profile directory use cases.
package service

import (
	"context"
	"errors"
	"log/slog"

	"slated/internal/platform/clock"
	"slated/internal/platform/metrics"
	"slated/internal/profile/models"
	"slated/internal/profile/store"
	"slated/pkg/domain"
	dErrors "slated/pkg/domain-errors"
	"slated/pkg/platform/sentinel"
)

// Service orchestrates the profile directory.
type Service struct {
	profiles store.Store
	clock    clock.Clock
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// Option configures the Service.
type Option func(*Service)

// WithMetrics attaches the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New builds the profile service.
func New(profiles store.Store, clk clock.Clock, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{profiles: profiles, clock: clk, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create registers a new profile with the default UTC timezone.
func (s *Service) Create(ctx context.Context, name string) (*models.Profile, error) {
	p, err := models.NewProfile(domain.NewProfileID(), name, s.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := s.profiles.CreateIfNameAvailable(ctx, p); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "Profile with this name already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create profile")
	}

	if s.metrics != nil {
		s.metrics.ProfilesCreated.Inc()
	}
	s.logger.InfoContext(ctx, "profile created", "profile_id", p.ID.String(), "name", p.Name)
	return p, nil
}

// List returns profiles matching the optional case-insensitive name filter,
// newest first.
func (s *Service) List(ctx context.Context, nameFilter string) ([]*models.Profile, error) {
	out, err := s.profiles.List(ctx, nameFilter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list profiles")
	}
	return out, nil
}

// Get retrieves one profile by id.
func (s *Service) Get(ctx context.Context, id domain.ProfileID) (*models.Profile, error) {
	p, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		return nil, wrapLookupErr(err)
	}
	return p, nil
}

// GetByName retrieves one profile by exact name, case-insensitively.
func (s *Service) GetByName(ctx context.Context, name string) (*models.Profile, error) {
	p, err := s.profiles.FindByName(ctx, name)
	if err != nil {
		return nil, wrapLookupErr(err)
	}
	return p, nil
}

// UpdateTimezone changes a profile's display timezone.
func (s *Service) UpdateTimezone(ctx context.Context, id domain.ProfileID, timezone string) (*models.Profile, error) {
	tz, err := domain.ParseTimezone(timezone)
	if err != nil {
		return nil, err
	}

	p, err := s.profiles.UpdateTimezone(ctx, id, tz, s.clock.Now())
	if err != nil {
		return nil, wrapLookupErr(err)
	}
	s.logger.InfoContext(ctx, "profile timezone updated", "profile_id", id.String(), "timezone", tz.String())
	return p, nil
}

func wrapLookupErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "Profile not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "profile lookup failed")
}
