package activity

import "context"

// Repository defines the interface for journal persistence
type Repository interface {
	// Insert appends an entry
	Insert(ctx context.Context, entry *Entry) error

	// List returns the newest entries first, at most limit
	List(ctx context.Context, limit int) ([]Entry, error)
}
