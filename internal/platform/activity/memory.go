package activity

import (
	"context"
	"sync"
)

// DefaultMemoryCapacity is how many entries the in-memory journal keeps.
const DefaultMemoryCapacity = 500

// MemoryRepository is a bounded in-process journal used when no database is
// configured. The oldest entries are dropped first.
type MemoryRepository struct {
	mu       sync.RWMutex
	capacity int
	entries  []Entry
}

// NewMemoryRepository creates an in-memory journal
func NewMemoryRepository(capacity int) *MemoryRepository {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &MemoryRepository{capacity: capacity}
}

func (r *MemoryRepository) Insert(_ context.Context, entry *Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, *entry)
	if over := len(r.entries) - r.capacity; over > 0 {
		r.entries = append([]Entry(nil), r.entries[over:]...)
	}
	return nil
}

func (r *MemoryRepository) List(_ context.Context, limit int) ([]Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, 0, min(limit, len(r.entries)))
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}
