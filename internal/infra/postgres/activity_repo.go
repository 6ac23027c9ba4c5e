package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fraudguard/console/internal/platform/activity"
)

// ActivityRepository implements the activity journal using PostgreSQL
type ActivityRepository struct {
	pool *pgxpool.Pool
}

var _ activity.Repository = (*ActivityRepository)(nil)

// NewActivityRepository creates a new PostgreSQL activity repository
func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

// Insert appends an entry
func (r *ActivityRepository) Insert(ctx context.Context, e *activity.Entry) error {
	query := `
		INSERT INTO activity_log (id, analyst, event_type, transaction_id, case_id, description, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	metadata := e.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	_, err = r.pool.Exec(ctx, query,
		e.ID,
		e.Analyst,
		string(e.EventType),
		e.TransactionID,
		e.CaseID,
		e.Description,
		raw,
		e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}

	return nil
}

// List returns the newest entries first
func (r *ActivityRepository) List(ctx context.Context, limit int) ([]activity.Entry, error) {
	query := `
		SELECT id, analyst, event_type, transaction_id, case_id, description, metadata, created_at
		FROM activity_log
		ORDER BY created_at DESC, id
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	entries := make([]activity.Entry, 0)
	for rows.Next() {
		var (
			e         activity.Entry
			eventType string
			raw       []byte
		)
		if err := rows.Scan(
			&e.ID,
			&e.Analyst,
			&eventType,
			&e.TransactionID,
			&e.CaseID,
			&e.Description,
			&raw,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		e.EventType = activity.EventType(eventType)
		if err := json.Unmarshal(raw, &e.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode metadata: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity: %w", err)
	}

	return entries, nil
}
