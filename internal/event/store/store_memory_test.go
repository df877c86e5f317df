package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"slated/internal/event/models"
	profilemodels "slated/internal/profile/models"
	profilestore "slated/internal/profile/store"
	"slated/pkg/domain"
	"slated/pkg/platform/sentinel"
)

type EventStoreSuite struct {
	suite.Suite
	ctx      context.Context
	profiles *profilestore.InMemoryStore
	store    *InMemoryStore
}

func TestEventStoreSuite(t *testing.T) {
	suite.Run(t, new(EventStoreSuite))
}

func (s *EventStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.profiles = profilestore.NewInMemoryStore()
	s.store = NewInMemoryStore(s.profiles)
}

func (s *EventStoreSuite) addProfile(name string) *profilemodels.Profile {
	p, err := profilemodels.NewProfile(domain.NewProfileID(), name, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.profiles.CreateIfNameAvailable(s.ctx, p))
	return p
}

func (s *EventStoreSuite) newEvent(start time.Time, profileIDs ...domain.ProfileID) *models.Event {
	refs := make([]models.ProfileRef, len(profileIDs))
	for i, id := range profileIDs {
		refs[i] = models.UnresolvedRef(id)
	}
	return &models.Event{
		ID:        domain.NewEventID(),
		Profiles:  refs,
		Timezone:  domain.TimezoneUTC,
		StartAt:   start,
		EndAt:     start.Add(time.Hour),
		CreatedAt: start,
		UpdatedAt: start,
	}
}

func (s *EventStoreSuite) TestCreateAndFind() {
	alice := s.addProfile("Alice")
	start := time.Date(2026, time.July, 10, 9, 0, 0, 0, time.UTC)

	event := s.newEvent(start, alice.ID)
	s.Require().NoError(s.store.Create(s.ctx, event))

	s.Run("finds by id with resolved references", func() {
		found, err := s.store.FindByID(s.ctx, event.ID)
		s.Require().NoError(err)
		s.Require().Len(found.Profiles, 1)
		s.True(found.Profiles[0].Resolved())
		s.Equal("Alice", found.Profiles[0].Name)
	})

	s.Run("unknown id yields sentinel not found", func() {
		_, err := s.store.FindByID(s.ctx, domain.NewEventID())
		s.True(errors.Is(err, sentinel.ErrNotFound))
	})

	s.Run("missing profile leaves the reference unresolved", func() {
		ghost := s.newEvent(start.Add(time.Hour), domain.NewProfileID())
		s.Require().NoError(s.store.Create(s.ctx, ghost))

		found, err := s.store.FindByID(s.ctx, ghost.ID)
		s.Require().NoError(err)
		s.False(found.Profiles[0].Resolved())
	})
}

func (s *EventStoreSuite) TestFindAllSortsByStart() {
	alice := s.addProfile("Alice")
	base := time.Date(2026, time.July, 10, 9, 0, 0, 0, time.UTC)

	late := s.newEvent(base.Add(2*time.Hour), alice.ID)
	early := s.newEvent(base, alice.ID)
	s.Require().NoError(s.store.Create(s.ctx, late))
	s.Require().NoError(s.store.Create(s.ctx, early))

	all, err := s.store.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal(early.ID, all[0].ID)
	s.Equal(late.ID, all[1].ID)
}

func (s *EventStoreSuite) TestFindByProfile() {
	alice := s.addProfile("Alice")
	bob := s.addProfile("Bob")
	base := time.Date(2026, time.July, 10, 9, 0, 0, 0, time.UTC)

	shared := s.newEvent(base, alice.ID, bob.ID)
	solo := s.newEvent(base.Add(time.Hour), bob.ID)
	s.Require().NoError(s.store.Create(s.ctx, shared))
	s.Require().NoError(s.store.Create(s.ctx, solo))

	aliceEvents, err := s.store.FindByProfile(s.ctx, alice.ID)
	s.Require().NoError(err)
	s.Require().Len(aliceEvents, 1)
	s.Equal(shared.ID, aliceEvents[0].ID)

	bobEvents, err := s.store.FindByProfile(s.ctx, bob.ID)
	s.Require().NoError(err)
	s.Len(bobEvents, 2)
}

func (s *EventStoreSuite) TestUpdate() {
	alice := s.addProfile("Alice")
	base := time.Date(2026, time.July, 10, 9, 0, 0, 0, time.UTC)
	event := s.newEvent(base, alice.ID)
	s.Require().NoError(s.store.Create(s.ctx, event))

	s.Run("applies the patch and bumps updated at", func() {
		tz := domain.Timezone("Asia/Tokyo")
		now := base.Add(time.Minute)

		updated, err := s.store.Update(s.ctx, event.ID, models.Patch{Timezone: &tz}, now)
		s.Require().NoError(err)
		s.Equal(tz, updated.Timezone)
		s.Equal(now, updated.UpdatedAt)
		s.Equal(base, updated.StartAt) // untouched fields survive
	})

	s.Run("unknown id yields sentinel not found", func() {
		_, err := s.store.Update(s.ctx, domain.NewEventID(), models.Patch{}, base)
		s.True(errors.Is(err, sentinel.ErrNotFound))
	})
}

func (s *EventStoreSuite) TestReadsReturnCopies() {
	alice := s.addProfile("Alice")
	base := time.Date(2026, time.July, 10, 9, 0, 0, 0, time.UTC)
	event := s.newEvent(base, alice.ID)
	s.Require().NoError(s.store.Create(s.ctx, event))

	found, err := s.store.FindByID(s.ctx, event.ID)
	s.Require().NoError(err)
	found.Timezone = domain.Timezone("Europe/Paris")

	again, err := s.store.FindByID(s.ctx, event.ID)
	s.Require().NoError(err)
	s.Equal(domain.TimezoneUTC, again.Timezone)
}
