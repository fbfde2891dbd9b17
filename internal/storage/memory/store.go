package memory

import (
	"context"
	"sync"

	"mempoolScope/internal/model"
)

// Store keeps the most recent classified events in a bounded ring. It backs
// deployments without a Postgres DSN and the test suites.
type Store struct {
	mu       sync.RWMutex
	capacity int
	events   []model.ClassifiedEvent
	next     int
	filled   bool
}

func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = 1024
	}
	return &Store{
		capacity: capacity,
		events:   make([]model.ClassifiedEvent, capacity),
	}
}

// SaveEvent records an event, overwriting the oldest once the ring is full.
func (s *Store) SaveEvent(_ context.Context, event model.ClassifiedEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events[s.next] = event
	s.next = (s.next + 1) % s.capacity
	if s.next == 0 {
		s.filled = true
	}
	return nil
}

// RecentEvents returns up to limit events, most recent first.
func (s *Store) RecentEvents(_ context.Context, limit int) ([]model.ClassifiedEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	size := s.next
	if s.filled {
		size = s.capacity
	}
	if limit <= 0 || limit > size {
		limit = size
	}

	out := make([]model.ClassifiedEvent, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (s.next - i + s.capacity) % s.capacity
		out = append(out, s.events[idx])
	}
	return out, nil
}
