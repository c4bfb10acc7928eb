package record

import (
	"context"
	"sort"
	"sync"

	"stableford/internal/handicap/models"
	id "stableford/pkg/domain"
	"stableford/pkg/platform/sentinel"
)

// InMemoryStore keeps handicap records in process memory. Records are cloned
// on the way in and out so callers never share state with the store.
type InMemoryStore struct {
	mu       sync.RWMutex
	records  map[id.HandicapRecordID]*models.Record
	byPlayer map[id.PlayerID]map[id.HandicapRecordID]struct{}
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		records:  make(map[id.HandicapRecordID]*models.Record),
		byPlayer: make(map[id.PlayerID]map[id.HandicapRecordID]struct{}),
	}
}

func (s *InMemoryStore) ListByPlayer(_ context.Context, playerID id.PlayerID) ([]*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.byPlayer[playerID]
	out := make([]*models.Record, 0, len(ids))
	for recordID := range ids {
		out = append(out, s.records[recordID].Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, recordID id.HandicapRecordID) (*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[recordID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return rec.Clone(), nil
}

// SaveRecords upserts every record under one lock.
func (s *InMemoryStore) SaveRecords(_ context.Context, records []*models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range records {
		if existing, ok := s.records[rec.ID]; ok && existing.PlayerID != rec.PlayerID {
			return sentinel.ErrConflict
		}
	}
	for _, rec := range records {
		s.records[rec.ID] = rec.Clone()
		ids, ok := s.byPlayer[rec.PlayerID]
		if !ok {
			ids = make(map[id.HandicapRecordID]struct{})
			s.byPlayer[rec.PlayerID] = ids
		}
		ids[rec.ID] = struct{}{}
	}
	return nil
}

// DeleteRecords removes the given records. Unknown IDs are ignored.
func (s *InMemoryStore) DeleteRecords(_ context.Context, recordIDs []id.HandicapRecordID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, recordID := range recordIDs {
		rec, ok := s.records[recordID]
		if !ok {
			continue
		}
		delete(s.records, recordID)
		delete(s.byPlayer[rec.PlayerID], recordID)
	}
	return nil
}
