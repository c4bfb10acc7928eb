package store

import (
	"context"
	"sort"
	"sync"

	"stableford/internal/course/models"
	id "stableford/pkg/domain"
	"stableford/pkg/platform/sentinel"
)

// InMemory serves course layouts and tee sets for tests and local runs.
type InMemory struct {
	mu      sync.RWMutex
	courses map[id.CourseID]models.Course
	holes   map[id.CourseID][]models.Hole
	teeSets map[id.TeeSetID]models.TeeSet
}

func NewInMemory() *InMemory {
	return &InMemory{
		courses: make(map[id.CourseID]models.Course),
		holes:   make(map[id.CourseID][]models.Hole),
		teeSets: make(map[id.TeeSetID]models.TeeSet),
	}
}

// SaveCourse replaces a course and its full hole layout.
func (s *InMemory) SaveCourse(_ context.Context, course models.Course, holes []models.Hole) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sorted := append([]models.Hole(nil), holes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Number < sorted[j].Number })
	s.courses[course.ID] = course
	s.holes[course.ID] = sorted
	return nil
}

func (s *InMemory) SaveTeeSet(_ context.Context, tee models.TeeSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[tee.CourseID]; !ok {
		return sentinel.ErrNotFound
	}
	if tee.Women != nil {
		w := *tee.Women
		tee.Women = &w
	}
	s.teeSets[tee.ID] = tee
	return nil
}

func (s *InMemory) FindCourse(_ context.Context, courseID id.CourseID) (*models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.courses[courseID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &c, nil
}

func (s *InMemory) HolesForCourse(_ context.Context, courseID id.CourseID) ([]models.Hole, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.courses[courseID]; !ok {
		return nil, sentinel.ErrNotFound
	}
	return append([]models.Hole(nil), s.holes[courseID]...), nil
}

func (s *InMemory) FindTeeSet(_ context.Context, teeSetID id.TeeSetID) (*models.TeeSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.teeSets[teeSetID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if t.Women != nil {
		w := *t.Women
		t.Women = &w
	}
	return &t, nil
}
