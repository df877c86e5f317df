// Package service orchestrates event use cases: temporal validation, audit
// recording and persistence, in that order.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"slated/internal/event/models"
	"slated/internal/event/schedule"
	"slated/internal/event/store"
	"slated/internal/eventlog"
	"slated/internal/platform/clock"
	"slated/internal/platform/metrics"
	profilemodels "slated/internal/profile/models"
	"slated/pkg/domain"
	dErrors "slated/pkg/domain-errors"
	"slated/pkg/platform/sentinel"
)

// ProfileDirectory is the slice of the profile service this orchestrator
// needs: resolving ids to profiles for audit display names.
type ProfileDirectory interface {
	Get(ctx context.Context, id domain.ProfileID) (*profilemodels.Profile, error)
}

// AuditLog records field-level changes. Recording is fail-closed: an error
// here must abort the event update.
type AuditLog interface {
	RecordUpdate(ctx context.Context, existing *models.Event, patch models.Patch, newNames []string) ([]*eventlog.Entry, error)
}

// Service implements the event scheduling use cases. It is stateless;
// everything lives in the injected stores.
type Service struct {
	events   store.Store
	profiles ProfileDirectory
	audit    AuditLog
	engine   *schedule.Engine
	clock    clock.Clock
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

// Option configures the Service.
type Option func(*Service)

// WithMetrics attaches the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New builds the event service.
func New(events store.Store, profiles ProfileDirectory, audit AuditLog, engine *schedule.Engine, clk clock.Clock, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		events:   events,
		profiles: profiles,
		audit:    audit,
		engine:   engine,
		clock:    clk,
		logger:   logger,
		tracer:   otel.Tracer("slated/event"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateEvent validates the candidate and persists a new event.
func (s *Service) CreateEvent(ctx context.Context, in schedule.CreateInput) (*models.Event, error) {
	ctx, span := s.tracer.Start(ctx, "event.create")
	defer span.End()

	normalized, err := s.engine.ValidateCreate(in)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	refs := make([]models.ProfileRef, len(normalized.Profiles))
	for i, id := range normalized.Profiles {
		refs[i] = models.UnresolvedRef(id)
	}
	event := &models.Event{
		ID:        domain.NewEventID(),
		Profiles:  refs,
		Timezone:  normalized.Timezone,
		StartAt:   normalized.StartAt,
		EndAt:     normalized.EndAt,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.events.Create(ctx, event); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create event")
	}

	if s.metrics != nil {
		s.metrics.EventsCreated.Inc()
	}
	span.SetAttributes(attribute.String("event.id", event.ID.String()))
	s.logger.InfoContext(ctx, "event created",
		"event_id", event.ID.String(),
		"timezone", event.Timezone.String(),
		"start_at", event.StartAt,
	)
	return event, nil
}

// GetEvents lists every event sorted by start instant ascending.
func (s *Service) GetEvents(ctx context.Context) ([]*models.Event, error) {
	events, err := s.events.FindAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to fetch events")
	}
	return events, nil
}

// GetEventsByProfile lists a profile's events sorted by start instant
// ascending, with profile references resolved.
func (s *Service) GetEventsByProfile(ctx context.Context, profileID domain.ProfileID) ([]*models.Event, error) {
	events, err := s.events.FindByProfile(ctx, profileID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to fetch events")
	}
	return events, nil
}

// UpdateEvent applies a partial patch to an event.
//
// Pipeline: load existing → validate patch → resolve patched profile names
// → record audit entries → persist patch. The audit write happens before
// the event write, so the log always reflects a transition about to be
// committed; if audit persistence fails the update does not proceed.
func (s *Service) UpdateEvent(ctx context.Context, id domain.EventID, in schedule.PatchInput) (*models.Event, error) {
	ctx, span := s.tracer.Start(ctx, "event.update",
		trace.WithAttributes(attribute.String("event.id", id.String())))
	defer span.End()

	existing, err := s.events.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "Event not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "event lookup failed")
	}

	patch, err := s.engine.ValidatePatch(existing, in)
	if err != nil {
		return nil, err
	}

	// Every patched profile id must resolve; partial resolution would
	// leave the audit trail naming only some participants.
	var newNames []string
	if patch.Profiles != nil {
		newNames = make([]string, 0, len(patch.Profiles))
		for _, pid := range patch.Profiles {
			p, err := s.profiles.Get(ctx, pid)
			if err != nil {
				if dErrors.Is(err, dErrors.CodeNotFound) {
					return nil, err
				}
				return nil, dErrors.Wrap(err, dErrors.CodeInternal, "profile resolution failed")
			}
			newNames = append(newNames, p.Name)
		}
	}

	entries, err := s.audit.RecordUpdate(ctx, existing, patch, newNames)
	if err != nil {
		return nil, err
	}

	updated, err := s.events.Update(ctx, id, patch, s.clock.Now())
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "Event not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update event")
	}

	if s.metrics != nil {
		s.metrics.EventsUpdated.Inc()
	}
	span.SetAttributes(attribute.Int("audit.entries", len(entries)))
	s.logger.InfoContext(ctx, "event updated",
		"event_id", id.String(),
		"audit_entries", len(entries),
	)
	return updated, nil
}
