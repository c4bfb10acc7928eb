package store

import (
	"context"
	"sync"

	"stableford/internal/player/models"
	id "stableford/pkg/domain"
	"stableford/pkg/platform/sentinel"
)

// InMemory is a player directory for tests and local runs.
type InMemory struct {
	mu      sync.RWMutex
	players map[id.PlayerID]*models.Player
}

func NewInMemory() *InMemory {
	return &InMemory{players: make(map[id.PlayerID]*models.Player)}
}

func (s *InMemory) Save(_ context.Context, p *models.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *p
	s.players[p.ID] = &c
	return nil
}

func (s *InMemory) FindPlayer(_ context.Context, playerID id.PlayerID) (*models.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[playerID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	c := *p
	return &c, nil
}
