package service

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"slated/internal/platform/clock"
	"slated/internal/profile/store"
	"slated/pkg/domain"
	dErrors "slated/pkg/domain-errors"
)

// =============================================================================
// Profile Service Test Suite
// =============================================================================

type ProfileServiceSuite struct {
	suite.Suite
	ctx     context.Context
	now     time.Time
	store   *store.InMemoryStore
	service *Service
}

func TestProfileServiceSuite(t *testing.T) {
	suite.Run(t, new(ProfileServiceSuite))
}

func (s *ProfileServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)
	s.store = store.NewInMemoryStore()
	s.service = New(s.store, clock.NewFixed(s.now), slog.New(slog.DiscardHandler))
}

func (s *ProfileServiceSuite) TestCreate() {
	s.Run("defaults new profiles to UTC", func() {
		p, err := s.service.Create(s.ctx, "  Alice Smith  ")
		s.Require().NoError(err)
		s.Equal("Alice Smith", p.Name)
		s.Equal(domain.TimezoneUTC, p.Timezone)
		s.Equal(s.now, p.CreatedAt)
		s.False(p.ID.IsNil())
	})

	s.Run("rejects invalid names", func() {
		cases := map[string]string{
			"empty":          "",
			"too short":      "A",
			"digit first":    "1Alice",
			"punctuation":    "Al!ce",
			"over max chars": "Aa" + strings.Repeat("a", 60),
		}
		for label, name := range cases {
			_, err := s.service.Create(s.ctx, name)
			s.Truef(dErrors.HasCode(err, dErrors.CodeValidation), "case %q", label)
		}
	})

	s.Run("duplicate name conflicts case-insensitively", func() {
		_, err := s.service.Create(s.ctx, "Bob")
		s.Require().NoError(err)

		_, err = s.service.Create(s.ctx, "BOB")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.Equal("Profile with this name already exists", dErrors.MessageOf(err))
	})
}

func (s *ProfileServiceSuite) TestList() {
	for _, name := range []string{"Alice", "Alina", "Bob"} {
		_, err := s.service.Create(s.ctx, name)
		s.Require().NoError(err)
	}

	s.Run("no filter returns everything", func() {
		out, err := s.service.List(s.ctx, "")
		s.Require().NoError(err)
		s.Len(out, 3)
	})

	s.Run("filter matches substrings case-insensitively", func() {
		out, err := s.service.List(s.ctx, "ali")
		s.Require().NoError(err)
		s.Require().Len(out, 2)
		for _, p := range out {
			s.Contains([]string{"Alice", "Alina"}, p.Name)
		}
	})
}

func (s *ProfileServiceSuite) TestGet() {
	created, err := s.service.Create(s.ctx, "Alice")
	s.Require().NoError(err)

	s.Run("returns the stored profile", func() {
		p, err := s.service.Get(s.ctx, created.ID)
		s.Require().NoError(err)
		s.Equal(created.Name, p.Name)
	})

	s.Run("unknown id maps to not found", func() {
		_, err := s.service.Get(s.ctx, domain.NewProfileID())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		s.Equal("Profile not found", dErrors.MessageOf(err))
	})

	s.Run("by name ignores case", func() {
		p, err := s.service.GetByName(s.ctx, "ALICE")
		s.Require().NoError(err)
		s.Equal(created.ID, p.ID)
	})

	s.Run("unknown name maps to not found", func() {
		_, err := s.service.GetByName(s.ctx, "nobody")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ProfileServiceSuite) TestUpdateTimezone() {
	created, err := s.service.Create(s.ctx, "Alice")
	s.Require().NoError(err)

	s.Run("applies a valid zone", func() {
		p, err := s.service.UpdateTimezone(s.ctx, created.ID, "Asia/Tokyo")
		s.Require().NoError(err)
		s.Equal(domain.Timezone("Asia/Tokyo"), p.Timezone)
		s.Equal(s.now, p.UpdatedAt)
	})

	s.Run("rejects an empty zone before touching the store", func() {
		_, err := s.service.UpdateTimezone(s.ctx, created.ID, "")
		s.True(dErrors.HasCode(err, dErrors.CodeMissingTimezone))
	})

	s.Run("rejects an unknown zone", func() {
		_, err := s.service.UpdateTimezone(s.ctx, created.ID, "Not/AZone")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("unknown profile maps to not found", func() {
		_, err := s.service.UpdateTimezone(s.ctx, domain.NewProfileID(), "UTC")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
