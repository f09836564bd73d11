package wordpool

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextWordComesFromPool(t *testing.T) {
	pool := New(nil, NewMemoryRecentStore(), 1)

	word, err := pool.NextWord(context.Background(), "room-1")
	require.NoError(t, err)

	assert.Contains(t, defaultWords, word)
}

func TestExtrasAreNormalizedAndIncluded(t *testing.T) {
	pool := New([]string{"  Spaceship ", "", "ROBOT"}, NewMemoryRecentStore(), 1)

	assert.Contains(t, pool.words, "spaceship")
	assert.Contains(t, pool.words, "robot")
	assert.NotContains(t, pool.words, "")
}

func TestRecentWordsAreExcluded(t *testing.T) {
	// A pool of exactly three words, drawn three times, must yield all three:
	// the recent window blocks immediate repeats.
	store := NewMemoryRecentStore()
	pool := New(nil, store, 42)
	pool.words = []string{"one", "two", "three"}

	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		word, err := pool.NextWord(context.Background(), "room-1")
		require.NoError(t, err)
		require.False(t, seen[word], "word %q repeated within the recent window", word)
		seen[word] = true
	}
}

func TestExhaustedPoolFallsBackToFullList(t *testing.T) {
	store := NewMemoryRecentStore()
	pool := New(nil, store, 7)
	pool.words = []string{"only"}

	first, err := pool.NextWord(context.Background(), "room-1")
	require.NoError(t, err)
	require.Equal(t, "only", first)

	// Everything is recent now; the pool must still produce a word.
	second, err := pool.NextWord(context.Background(), "room-1")
	require.NoError(t, err)
	assert.Equal(t, "only", second)
}

func TestRoomsTrackRecentWordsIndependently(t *testing.T) {
	store := NewMemoryRecentStore()
	pool := New(nil, store, 3)
	pool.words = []string{"shared"}

	_, err := pool.NextWord(context.Background(), "room-1")
	require.NoError(t, err)

	recent, err := store.Recent(context.Background(), "room-2")
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestReleaseForgetsRoomState(t *testing.T) {
	store := NewMemoryRecentStore()
	pool := New(nil, store, 3)

	_, err := pool.NextWord(context.Background(), "room-1")
	require.NoError(t, err)

	require.NoError(t, pool.Release(context.Background(), "room-1"))

	recent, err := store.Recent(context.Background(), "room-1")
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestMemoryStoreTrimsToWindow(t *testing.T) {
	store := NewMemoryRecentStore()
	ctx := context.Background()

	for i := 0; i < RecentWindow+5; i++ {
		require.NoError(t, store.Remember(ctx, "room-1", string(rune('a'+i))))
	}

	recent, err := store.Recent(ctx, "room-1")
	require.NoError(t, err)
	assert.Len(t, recent, RecentWindow)
}

func newRedisStore(t *testing.T) RecentStore {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisRecentStore(client)
}

func TestRedisStoreRememberAndRecent(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Remember(ctx, "room-1", "apple"))
	require.NoError(t, store.Remember(ctx, "room-1", "banana"))

	recent, err := store.Recent(ctx, "room-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"banana", "apple"}, recent, "most recent word comes first")
}

func TestRedisStoreTrimsToWindow(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()

	for i := 0; i < RecentWindow+5; i++ {
		require.NoError(t, store.Remember(ctx, "room-1", string(rune('a'+i))))
	}

	recent, err := store.Recent(ctx, "room-1")
	require.NoError(t, err)
	assert.Len(t, recent, RecentWindow)
}

func TestRedisStoreForget(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Remember(ctx, "room-1", "apple"))
	require.NoError(t, store.Forget(ctx, "room-1"))

	recent, err := store.Recent(ctx, "room-1")
	require.NoError(t, err)
	assert.Empty(t, recent)
}
