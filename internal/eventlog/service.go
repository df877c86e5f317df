package eventlog

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"slated/internal/event/models"
	"slated/internal/platform/clock"
	"slated/internal/platform/metrics"
	"slated/pkg/domain"
	dErrors "slated/pkg/domain-errors"
)

// Store is the append-only persistence contract for audit entries.
type Store interface {
	Append(ctx context.Context, entry *Entry) error
	// ListByEvent returns entries newest first.
	ListByEvent(ctx context.Context, eventID domain.EventID) ([]*Entry, error)
}

// Publisher fans persisted entries out to downstream consumers.
// Publishing is best-effort; the store append is the source of truth.
type Publisher interface {
	Publish(ctx context.Context, key string, value []byte)
}

// Service records and reads the audit trail.
type Service struct {
	store     Store
	clock     clock.Clock
	logger    *slog.Logger
	publisher Publisher
	metrics   *metrics.Metrics
}

// Option configures the Service.
type Option func(*Service)

// WithPublisher attaches a fan-out publisher for persisted entries.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithMetrics attaches the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New builds the audit log service.
func New(store Store, clk clock.Clock, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{store: store, clock: clk, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordUpdate diffs the existing event against the accepted patch and
// persists one entry per changed field, in diff order. This is fail-closed:
// any append error aborts the whole recording, and the caller must not
// proceed with the event update.
//
// A patch that changes nothing records nothing and returns an empty slice.
func (s *Service) RecordUpdate(ctx context.Context, existing *models.Event, patch models.Patch, newNames []string) ([]*Entry, error) {
	changes := DiffUpdate(existing, patch, newNames)
	if len(changes) == 0 {
		return nil, nil
	}

	now := s.clock.Now()
	entries := make([]*Entry, 0, len(changes))
	for _, change := range changes {
		meta := change.Metadata
		entry := &Entry{
			ID:        domain.NewLogID(),
			EventID:   existing.ID,
			Message:   change.Message,
			Metadata:  &meta,
			CreatedAt: now,
		}
		if err := s.store.Append(ctx, entry); err != nil {
			s.logger.ErrorContext(ctx, "audit append failed, aborting event update",
				"event_id", existing.ID.String(),
				"field", string(meta.Field),
				"error", err.Error(),
			)
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit log")
		}
		entries = append(entries, entry)
	}

	if s.metrics != nil {
		s.metrics.AuditEntries.Add(float64(len(entries)))
	}
	s.fanOut(ctx, entries)
	return entries, nil
}

// ListByEvent returns an event's audit trail, newest first.
func (s *Service) ListByEvent(ctx context.Context, eventID domain.EventID) ([]*Entry, error) {
	entries, err := s.store.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to fetch event logs")
	}
	return entries, nil
}

type publishedEntry struct {
	ID        string    `json:"id"`
	EventID   string    `json:"eventId"`
	Message   string    `json:"message"`
	Field     string    `json:"field,omitempty"`
	OldValue  string    `json:"oldValue,omitempty"`
	NewValue  string    `json:"newValue,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *Service) fanOut(ctx context.Context, entries []*Entry) {
	if s.publisher == nil {
		return
	}
	for _, entry := range entries {
		payload := publishedEntry{
			ID:        entry.ID.String(),
			EventID:   entry.EventID.String(),
			Message:   entry.Message,
			CreatedAt: entry.CreatedAt,
		}
		if entry.Metadata != nil {
			payload.Field = string(entry.Metadata.Field)
			payload.OldValue = entry.Metadata.OldValue
			payload.NewValue = entry.Metadata.NewValue
		}
		raw, err := json.Marshal(payload)
		if err != nil {
			s.logger.ErrorContext(ctx, "marshal audit entry for publish", "error", err.Error())
			continue
		}
		s.publisher.Publish(ctx, entry.EventID.String(), raw)
	}
}
