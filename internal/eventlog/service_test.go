package eventlog

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"slated/internal/event/models"
	"slated/internal/platform/clock"
	"slated/pkg/domain"
	dErrors "slated/pkg/domain-errors"
)

// fakeStore appends into a slice and can be told to fail after N appends,
// which is how the fail-closed contract gets exercised.
type fakeStore struct {
	entries   []*Entry
	failAfter int
	failErr   error
}

func (f *fakeStore) Append(_ context.Context, entry *Entry) error {
	if f.failErr != nil && len(f.entries) >= f.failAfter {
		return f.failErr
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeStore) ListByEvent(_ context.Context, eventID domain.EventID) ([]*Entry, error) {
	var out []*Entry
	for i := len(f.entries) - 1; i >= 0; i-- {
		if f.entries[i].EventID == eventID {
			out = append(out, f.entries[i])
		}
	}
	return out, nil
}

type fakePublisher struct {
	keys     []string
	payloads [][]byte
}

func (f *fakePublisher) Publish(_ context.Context, key string, value []byte) {
	f.keys = append(f.keys, key)
	f.payloads = append(f.payloads, value)
}

// =============================================================================
// Audit Service Test Suite
// =============================================================================

type AuditServiceSuite struct {
	suite.Suite
	ctx       context.Context
	now       time.Time
	store     *fakeStore
	publisher *fakePublisher
	service   *Service
}

func TestAuditServiceSuite(t *testing.T) {
	suite.Run(t, new(AuditServiceSuite))
}

func (s *AuditServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)
	s.store = &fakeStore{}
	s.publisher = &fakePublisher{}
	s.service = New(s.store, clock.NewFixed(s.now), slog.New(slog.DiscardHandler),
		WithPublisher(s.publisher))
}

func (s *AuditServiceSuite) existingEvent() *models.Event {
	return &models.Event{
		ID: domain.NewEventID(),
		Profiles: []models.ProfileRef{
			models.ResolvedRef(domain.NewProfileID(), "Alice", domain.TimezoneUTC),
		},
		Timezone: domain.TimezoneUTC,
		StartAt:  time.Date(2026, time.July, 10, 9, 0, 0, 0, time.UTC),
		EndAt:    time.Date(2026, time.July, 10, 10, 0, 0, 0, time.UTC),
	}
}

func (s *AuditServiceSuite) TestRecordUpdate() {
	s.Run("no-op patch records nothing", func() {
		entries, err := s.service.RecordUpdate(s.ctx, s.existingEvent(), models.Patch{}, nil)
		s.NoError(err)
		s.Empty(entries)
		s.Empty(s.store.entries)
		s.Empty(s.publisher.keys)
	})

	s.Run("one entry per changed field, stamped with the clock", func() {
		existing := s.existingEvent()
		tz := domain.Timezone("Asia/Tokyo")
		newStart := existing.StartAt.Add(time.Hour)
		patch := models.Patch{Timezone: &tz, StartAt: &newStart}

		entries, err := s.service.RecordUpdate(s.ctx, existing, patch, nil)
		s.Require().NoError(err)
		s.Require().Len(entries, 2)

		for _, entry := range entries {
			s.False(entry.ID.IsNil())
			s.Equal(existing.ID, entry.EventID)
			s.Equal(s.now, entry.CreatedAt)
			s.NotNil(entry.Metadata)
		}
		s.Equal(FieldTimezone, entries[0].Metadata.Field)
		s.Equal(FieldStartDate, entries[1].Metadata.Field)
	})

	s.Run("persisted entries fan out keyed by event id", func() {
		s.SetupTest()
		existing := s.existingEvent()
		tz := domain.Timezone("Asia/Tokyo")

		_, err := s.service.RecordUpdate(s.ctx, existing, models.Patch{Timezone: &tz}, nil)
		s.Require().NoError(err)

		s.Require().Len(s.publisher.keys, 1)
		s.Equal(existing.ID.String(), s.publisher.keys[0])
		s.Contains(string(s.publisher.payloads[0]), `"field":"timezone"`)
	})

	s.Run("append failure aborts recording and publishes nothing", func() {
		s.SetupTest()
		s.store.failAfter = 1
		s.store.failErr = errors.New("disk full")

		existing := s.existingEvent()
		tz := domain.Timezone("Asia/Tokyo")
		newStart := existing.StartAt.Add(time.Hour)

		entries, err := s.service.RecordUpdate(s.ctx, existing, models.Patch{Timezone: &tz, StartAt: &newStart}, nil)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
		s.Equal("failed to record audit log", dErrors.MessageOf(err))
		s.Nil(entries)
		s.Empty(s.publisher.keys)
	})
}

func (s *AuditServiceSuite) TestListByEvent() {
	existing := s.existingEvent()
	tz := domain.Timezone("Asia/Tokyo")

	_, err := s.service.RecordUpdate(s.ctx, existing, models.Patch{Timezone: &tz}, nil)
	s.Require().NoError(err)

	entries, err := s.service.ListByEvent(s.ctx, existing.ID)
	s.Require().NoError(err)
	s.Len(entries, 1)

	other, err := s.service.ListByEvent(s.ctx, domain.NewEventID())
	s.Require().NoError(err)
	s.Empty(other)
}
