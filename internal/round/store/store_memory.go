package store

import (
	"context"
	"sort"
	"sync"

	"stableford/internal/round/models"
	id "stableford/pkg/domain"
	"stableford/pkg/platform/sentinel"
)

// InMemoryStore keeps rounds in process memory. Rounds are cloned on the way
// in and out.
type InMemoryStore struct {
	mu       sync.RWMutex
	rounds   map[id.RoundID]*models.Round
	byPlayer map[id.PlayerID]map[id.RoundID]struct{}
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		rounds:   make(map[id.RoundID]*models.Round),
		byPlayer: make(map[id.PlayerID]map[id.RoundID]struct{}),
	}
}

func (s *InMemoryStore) FindByID(_ context.Context, roundID id.RoundID) (*models.Round, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rounds[roundID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return r.Clone(), nil
}

func (s *InMemoryStore) Save(_ context.Context, round *models.Round) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.rounds[round.ID]; ok && existing.PlayerID != round.PlayerID {
		return sentinel.ErrConflict
	}
	seen := make(map[int]struct{}, len(round.Scores))
	for _, score := range round.Scores {
		if _, dup := seen[score.HoleNumber]; dup {
			return sentinel.ErrDuplicate
		}
		seen[score.HoleNumber] = struct{}{}
	}
	s.rounds[round.ID] = round.Clone()
	ids, ok := s.byPlayer[round.PlayerID]
	if !ok {
		ids = make(map[id.RoundID]struct{})
		s.byPlayer[round.PlayerID] = ids
	}
	ids[round.ID] = struct{}{}
	return nil
}

// ListByPlayer returns rounds most recently played first.
func (s *InMemoryStore) ListByPlayer(_ context.Context, playerID id.PlayerID) ([]*models.Round, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.byPlayer[playerID]
	out := make([]*models.Round, 0, len(ids))
	for roundID := range ids {
		out = append(out, s.rounds[roundID].Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DatePlayed.Equal(out[j].DatePlayed) {
			return out[i].DatePlayed.After(out[j].DatePlayed)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Delete removes a round and its scores.
func (s *InMemoryStore) Delete(_ context.Context, roundID id.RoundID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rounds[roundID]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.rounds, roundID)
	if ids := s.byPlayer[r.PlayerID]; ids != nil {
		delete(ids, roundID)
		if len(ids) == 0 {
			delete(s.byPlayer, r.PlayerID)
		}
	}
	return nil
}
