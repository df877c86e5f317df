// Package store persists audit log entries.
package store

import (
	"context"
	"sync"

	"slated/internal/eventlog"
	"slated/pkg/domain"
)

// InMemoryStore keeps audit entries in process memory, preserving append
// order per event.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[domain.EventID][]*eventlog.Entry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[domain.EventID][]*eventlog.Entry)}
}

func (s *InMemoryStore) Append(_ context.Context, entry *eventlog.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *entry
	if entry.Metadata != nil {
		meta := *entry.Metadata
		cp.Metadata = &meta
	}
	s.entries[entry.EventID] = append(s.entries[entry.EventID], &cp)
	return nil
}

// ListByEvent returns entries newest first: reverse append order, so two
// entries written in the same instant still come back most-recent-first.
func (s *InMemoryStore) ListByEvent(_ context.Context, eventID domain.EventID) ([]*eventlog.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.entries[eventID]
	out := make([]*eventlog.Entry, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		cp := *stored[i]
		if stored[i].Metadata != nil {
			meta := *stored[i].Metadata
			cp.Metadata = &meta
		}
		out = append(out, &cp)
	}
	return out, nil
}

// Count reports the total number of entries across all events.
func (s *InMemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, entries := range s.entries {
		n += len(entries)
	}
	return n
}
