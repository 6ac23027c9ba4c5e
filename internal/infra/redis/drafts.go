package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fraudguard/console/internal/platform/draft"
	"github.com/fraudguard/console/pkg/logger"
)

// KeyPrefix is the prefix for draft keys
const KeyPrefix = "fraud-console:draft:"

// DraftStore is a Redis-backed draft.Store
type DraftStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

var _ draft.Store = (*DraftStore)(nil)

// NewDraftStore creates a new draft store with the default TTL
func NewDraftStore(client *redis.Client, log *logger.Logger) *DraftStore {
	return NewDraftStoreWithTTL(client, draft.DefaultTTL, log)
}

// NewDraftStoreWithTTL creates a new draft store with custom TTL
func NewDraftStoreWithTTL(client *redis.Client, ttl time.Duration, log *logger.Logger) *DraftStore {
	return &DraftStore{
		client: client,
		ttl:    ttl,
		logger: log.Component("draft_store"),
	}
}

// NewClient opens a client for addr and checks it answers.
func NewClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// Get retrieves a draft. Each read refreshes the TTL.
func (s *DraftStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.client.GetEx(ctx, KeyPrefix+key, s.ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		s.logger.Debug("draft miss", "key", key)
		return nil, false, nil
	}
	if err != nil {
		s.logger.Error("draft store error", "operation", "get", "key", key, "error", err)
		return nil, false, fmt.Errorf("failed to get draft: %w", err)
	}
	return val, true, nil
}

// Set stores a draft with the store TTL
func (s *DraftStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, KeyPrefix+key, value, s.ttl).Err(); err != nil {
		s.logger.Error("draft store error", "operation", "set", "key", key, "error", err)
		return fmt.Errorf("failed to set draft: %w", err)
	}
	return nil
}

// Delete removes a draft
func (s *DraftStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, KeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

// Clear removes every draft
func (s *DraftStore) Clear(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, KeyPrefix+"*", 0).Iterator()

	pipe := s.client.Pipeline()
	count := 0
	for iter.Next(ctx) {
		pipe.Del(ctx, iter.Val())
		count++
		if count >= 100 {
			if _, err := pipe.Exec(ctx); err != nil {
				return fmt.Errorf("failed to clear drafts: %w", err)
			}
			pipe = s.client.Pipeline()
			count = 0
		}
	}

	if count > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("failed to clear drafts: %w", err)
		}
	}

	return iter.Err()
}
