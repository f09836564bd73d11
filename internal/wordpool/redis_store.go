package wordpool

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// redisRecentStore keeps per-room recent words in a capped Redis list so that
// word exclusion survives restarts and is shared between server instances.
type redisRecentStore struct {
	client *redis.Client
}

// NewRedisRecentStore creates a RecentStore backed by the given Redis client.
func NewRedisRecentStore(client *redis.Client) RecentStore {
	return &redisRecentStore{client: client}
}

func recentKey(roomID string) string {
	return fmt.Sprintf("scrawl:recent-words:%s", roomID)
}

func (s *redisRecentStore) Remember(ctx context.Context, roomID, word string) error {
	key := recentKey(roomID)

	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, word)
	pipe.LTrim(ctx, key, 0, RecentWindow-1)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record recent word for room %s: %w", roomID, err)
	}

	return nil
}

func (s *redisRecentStore) Recent(ctx context.Context, roomID string) ([]string, error) {
	words, err := s.client.LRange(ctx, recentKey(roomID), 0, RecentWindow-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load recent words for room %s: %w", roomID, err)
	}

	return words, nil
}

func (s *redisRecentStore) Forget(ctx context.Context, roomID string) error {
	if err := s.client.Del(ctx, recentKey(roomID)).Err(); err != nil {
		return fmt.Errorf("failed to clear recent words for room %s: %w", roomID, err)
	}

	return nil
}
