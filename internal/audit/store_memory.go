package audit

import (
	"context"
	"sync"

	id "stableford/pkg/domain"
)

type InMemoryStore struct {
	mu     sync.RWMutex
	events map[id.PlayerID][]Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[id.PlayerID][]Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.PlayerID] = append(s.events[event.PlayerID], event)
	return nil
}

func (s *InMemoryStore) ListByPlayer(_ context.Context, playerID id.PlayerID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.events[playerID]...), nil
}
