package storage

import (
	"context"
	"slices"
	"sync"

	"github.com/gaqzi/review-service/internal/reviewing"
)

// MemoryStore keeps reviews in insertion order for the lifetime of the process.
type MemoryStore struct {
	mu   sync.RWMutex
	data []reviewing.Review
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) FindByID(_ context.Context, id string) (reviewing.Review, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return reviewing.Review{}, false, nil
	}

	return s.data[idx], true, nil
}

func (s *MemoryStore) FindAll(_ context.Context) ([]reviewing.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append(make([]reviewing.Review, 0, len(s.data)), s.data...), nil
}

func (s *MemoryStore) Save(_ context.Context, review reviewing.Review) (reviewing.Review, error) {
	if err := checkID(review.ID()); err != nil {
		return reviewing.Review{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexOf(review.ID()); idx >= 0 {
		s.data[idx] = review
	} else {
		s.data = append(s.data, review)
	}

	return review, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false, nil
	}
	s.data = slices.Delete(s.data, idx, idx+1)

	return true, nil
}

func (s *MemoryStore) Exists(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.indexOf(id) >= 0, nil
}

// indexOf must be called while holding the lock.
func (s *MemoryStore) indexOf(id string) int {
	return slices.IndexFunc(s.data, func(r reviewing.Review) bool { return r.ID() == id })
}
