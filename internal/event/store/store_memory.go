package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"slated/internal/event/models"
	profilestore "slated/internal/profile/store"
	"slated/pkg/domain"
	"slated/pkg/platform/sentinel"
)

// InMemoryStore keeps events in process memory, resolving profile
// references through the profile store on read. Used by unit tests and as
// the dev fallback when no database is configured.
type InMemoryStore struct {
	mu       sync.RWMutex
	events   map[domain.EventID]*models.Event
	profiles profilestore.Store
}

func NewInMemoryStore(profiles profilestore.Store) *InMemoryStore {
	return &InMemoryStore{
		events:   make(map[domain.EventID]*models.Event),
		profiles: profiles,
	}
}

func (s *InMemoryStore) Create(_ context.Context, e *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := cloneEvent(e)
	s.events[e.ID] = cp
	return nil
}

func (s *InMemoryStore) FindByID(ctx context.Context, id domain.EventID) (*models.Event, error) {
	s.mu.RLock()
	e, ok := s.events[id]
	var cp *models.Event
	if ok {
		cp = cloneEvent(e)
	}
	s.mu.RUnlock()

	if !ok {
		return nil, sentinel.ErrNotFound
	}
	s.resolveRefs(ctx, cp)
	return cp, nil
}

func (s *InMemoryStore) FindAll(ctx context.Context) ([]*models.Event, error) {
	s.mu.RLock()
	out := make([]*models.Event, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, cloneEvent(e))
	}
	s.mu.RUnlock()

	sortByStart(out)
	for _, e := range out {
		s.resolveRefs(ctx, e)
	}
	return out, nil
}

func (s *InMemoryStore) FindByProfile(ctx context.Context, profileID domain.ProfileID) ([]*models.Event, error) {
	s.mu.RLock()
	var out []*models.Event
	for _, e := range s.events {
		for _, ref := range e.Profiles {
			if ref.ID == profileID {
				out = append(out, cloneEvent(e))
				break
			}
		}
	}
	s.mu.RUnlock()

	sortByStart(out)
	for _, e := range out {
		s.resolveRefs(ctx, e)
	}
	return out, nil
}

func (s *InMemoryStore) Update(ctx context.Context, id domain.EventID, patch models.Patch, now time.Time) (*models.Event, error) {
	s.mu.Lock()
	e, ok := s.events[id]
	var cp *models.Event
	if ok {
		patch.Apply(e, now)
		cp = cloneEvent(e)
	}
	s.mu.Unlock()

	if !ok {
		return nil, sentinel.ErrNotFound
	}
	s.resolveRefs(ctx, cp)
	return cp, nil
}

// resolveRefs expands profile references in place. A reference whose profile
// no longer resolves stays unresolved rather than failing the read.
func (s *InMemoryStore) resolveRefs(ctx context.Context, e *models.Event) {
	for i, ref := range e.Profiles {
		p, err := s.profiles.FindByID(ctx, ref.ID)
		if err != nil {
			continue
		}
		e.Profiles[i] = models.ResolvedRef(p.ID, p.Name, p.Timezone)
	}
}

func cloneEvent(e *models.Event) *models.Event {
	cp := *e
	cp.Profiles = append([]models.ProfileRef(nil), e.Profiles...)
	return &cp
}

func sortByStart(events []*models.Event) {
	sort.Slice(events, func(i, j int) bool {
		if !events[i].StartAt.Equal(events[j].StartAt) {
			return events[i].StartAt.Before(events[j].StartAt)
		}
		return events[i].ID.String() < events[j].ID.String()
	})
}
