/*
Package wordpool supplies secret words for drawing turns.

A Pool draws uniformly from a word list while excluding words recently used in
the same room. Recent-word bookkeeping lives behind the RecentStore interface
so it can be shared across server instances via Redis or kept in process.
*/
package wordpool

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
)

// RecentWindow is the number of recently used words remembered per room.
const RecentWindow = 16

// ErrPoolExhausted is returned when every word in the pool is excluded.
var ErrPoolExhausted = errors.New("word pool exhausted for room")

// defaultWords is the built-in pool used when no extra words are configured.
var defaultWords = []string{
	"apple", "banana", "bridge", "candle", "castle", "cloud", "dragon",
	"elephant", "flower", "guitar", "hammer", "island", "jacket", "kite",
	"ladder", "mountain", "needle", "ocean", "pencil", "pirate", "queen",
	"rocket", "sandwich", "telescope", "umbrella", "violin", "whale",
	"window", "zebra", "anchor", "balloon", "camera", "dolphin", "engine",
	"forest", "glacier", "helmet", "igloo", "jungle", "keyboard", "lantern",
	"mirror", "notebook", "octopus", "penguin", "rainbow", "snowman",
	"tractor", "volcano", "wizard",
}

// RecentStore remembers which words a room used recently.
type RecentStore interface {
	// Remember records a word as used by the room, trimming to RecentWindow.
	Remember(ctx context.Context, roomID, word string) error

	// Recent returns the room's recently used words, most recent first.
	Recent(ctx context.Context, roomID string) ([]string, error)

	// Forget drops all recent-word state for the room.
	Forget(ctx context.Context, roomID string) error
}

// Pool selects words for drawing turns.
type Pool struct {
	words  []string
	recent RecentStore

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Pool over the built-in word list plus any extras, with recent
// words tracked in the given store.
func New(extras []string, recent RecentStore, seed int64) *Pool {
	words := make([]string, 0, len(defaultWords)+len(extras))
	words = append(words, defaultWords...)

	for _, word := range extras {
		trimmed := strings.ToLower(strings.TrimSpace(word))
		if trimmed != "" {
			words = append(words, trimmed)
		}
	}

	return &Pool{
		words:  words,
		recent: recent,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// NextWord picks a word for the room, excluding recently used ones, and
// records the pick. When every word is excluded it falls back to a uniform
// pick rather than stalling the turn.
func (p *Pool) NextWord(ctx context.Context, roomID string) (string, error) {
	recentWords, err := p.recent.Recent(ctx, roomID)
	if err != nil {
		return "", err
	}

	excluded := make(map[string]struct{}, len(recentWords))
	for _, word := range recentWords {
		excluded[word] = struct{}{}
	}

	candidates := make([]string, 0, len(p.words))
	for _, word := range p.words {
		if _, ok := excluded[word]; !ok {
			candidates = append(candidates, word)
		}
	}

	if len(candidates) == 0 {
		candidates = p.words
	}

	p.mu.Lock()
	word := candidates[p.rng.Intn(len(candidates))]
	p.mu.Unlock()

	if err := p.recent.Remember(ctx, roomID, word); err != nil {
		return "", err
	}

	return word, nil
}

// Release discards recent-word state for a room that has closed.
func (p *Pool) Release(ctx context.Context, roomID string) error {
	return p.recent.Forget(ctx, roomID)
}

// memoryRecentStore is the in-process RecentStore used when Redis is not configured.
type memoryRecentStore struct {
	mu     sync.Mutex
	recent map[string][]string
}

// NewMemoryRecentStore creates an in-process RecentStore.
func NewMemoryRecentStore() RecentStore {
	return &memoryRecentStore{recent: make(map[string][]string)}
}

func (s *memoryRecentStore) Remember(_ context.Context, roomID, word string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	words := append([]string{word}, s.recent[roomID]...)
	if len(words) > RecentWindow {
		words = words[:RecentWindow]
	}
	s.recent[roomID] = words

	return nil
}

func (s *memoryRecentStore) Recent(_ context.Context, roomID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	words := s.recent[roomID]
	out := make([]string, len(words))
	copy(out, words)

	return out, nil
}

func (s *memoryRecentStore) Forget(_ context.Context, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.recent, roomID)

	return nil
}
