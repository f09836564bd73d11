/*
Package directory publishes room listing notifications for external lobby UIs.

The game core only announces rooms becoming active or closed; browsing and
rendering the room list is outside this server. The Redis implementation keeps
one hash per room plus an index set; a no-op implementation serves deployments
without Redis.
*/
package directory

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RoomMetadata describes a room for the external room list.
type RoomMetadata struct {
	Name       string
	Private    bool
	Players    int
	MaxPlayers int
}

// Announcer receives room lifecycle notifications.
type Announcer interface {
	// RoomActive announces that a room is open, or refreshes its metadata.
	RoomActive(ctx context.Context, roomID string, meta RoomMetadata) error

	// RoomClosed announces that a room no longer accepts joins.
	RoomClosed(ctx context.Context, roomID string) error
}

const indexKey = "scrawl:rooms"

func roomKey(roomID string) string {
	return fmt.Sprintf("scrawl:room:%s", roomID)
}

// RedisAnnouncer publishes room state to Redis.
type RedisAnnouncer struct {
	client *redis.Client
}

// NewRedisAnnouncer creates an Announcer backed by the given Redis client.
func NewRedisAnnouncer(client *redis.Client) *RedisAnnouncer {
	return &RedisAnnouncer{client: client}
}

// RoomActive writes the room's metadata hash and adds it to the index set.
func (a *RedisAnnouncer) RoomActive(ctx context.Context, roomID string, meta RoomMetadata) error {
	pipe := a.client.TxPipeline()
	pipe.HSet(ctx, roomKey(roomID),
		"name", meta.Name,
		"private", strconv.FormatBool(meta.Private),
		"players", meta.Players,
		"max_players", meta.MaxPlayers,
	)
	pipe.SAdd(ctx, indexKey, roomID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to announce room %s active: %w", roomID, err)
	}

	return nil
}

// RoomClosed removes the room's metadata hash and index entry.
func (a *RedisAnnouncer) RoomClosed(ctx context.Context, roomID string) error {
	pipe := a.client.TxPipeline()
	pipe.Del(ctx, roomKey(roomID))
	pipe.SRem(ctx, indexKey, roomID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to announce room %s closed: %w", roomID, err)
	}

	return nil
}

// NopAnnouncer discards all announcements.
type NopAnnouncer struct{}

// NewNopAnnouncer creates an Announcer that does nothing.
func NewNopAnnouncer() *NopAnnouncer {
	return &NopAnnouncer{}
}

// RoomActive implements Announcer.
func (*NopAnnouncer) RoomActive(context.Context, string, RoomMetadata) error { return nil }

// RoomClosed implements Announcer.
func (*NopAnnouncer) RoomClosed(context.Context, string) error { return nil }
