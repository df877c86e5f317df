package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"slated/internal/profile/models"
	"slated/pkg/domain"
	"slated/pkg/platform/sentinel"
)

// InMemoryStore keeps profiles in process memory. Used by unit tests and as
// the dev fallback when no database is configured.
type InMemoryStore struct {
	mu       sync.RWMutex
	profiles map[domain.ProfileID]*models.Profile
	byName   map[string]domain.ProfileID // key is lowercased name
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		profiles: make(map[domain.ProfileID]*models.Profile),
		byName:   make(map[string]domain.ProfileID),
	}
}

func (s *InMemoryStore) CreateIfNameAvailable(_ context.Context, p *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(p.Name)
	if _, taken := s.byName[key]; taken {
		return sentinel.ErrAlreadyUsed
	}
	cp := *p
	s.profiles[p.ID] = &cp
	s.byName[key] = p.ID
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.ProfileID) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *InMemoryStore) FindByName(_ context.Context, name string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *s.profiles[id]
	return &cp, nil
}

func (s *InMemoryStore) List(_ context.Context, nameFilter string) ([]*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filter := strings.ToLower(strings.TrimSpace(nameFilter))
	out := make([]*models.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		if filter != "" && !strings.Contains(strings.ToLower(p.Name), filter) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *InMemoryStore) UpdateTimezone(_ context.Context, id domain.ProfileID, tz domain.Timezone, now time.Time) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	p.ApplyTimezone(tz, now)
	cp := *p
	return &cp, nil
}
