/*
Package game contains the core logic for realtime drawing rooms.

This file defines the ScoreBoard, which accumulates per-participant points
across turns and produces the final ranking.
*/
package game

import "sort"

// ScoreBoard tracks accumulated points per participant user ID.
type ScoreBoard struct {
	scores map[string]int
}

// NewScoreBoard creates an empty ScoreBoard.
func NewScoreBoard() *ScoreBoard {
	return &ScoreBoard{scores: make(map[string]int)}
}

// Add credits points to the participant.
func (b *ScoreBoard) Add(userID string, points int) {
	b.scores[userID] += points
}

// Score returns the participant's accumulated points.
func (b *ScoreBoard) Score(userID string) int {
	return b.scores[userID]
}

// Remove drops the participant's entry, used on permanent removal.
func (b *ScoreBoard) Remove(userID string) {
	delete(b.scores, userID)
}

// Reset clears all scores for a fresh game.
func (b *ScoreBoard) Reset() {
	b.scores = make(map[string]int)
}

// RankEntry is one row of the final ranking.
type RankEntry struct {
	UserID string
	Score  int
}

// Ranking returns entries ordered by descending score; ties are broken by
// ascending join order, supplied by the caller.
func (b *ScoreBoard) Ranking(joinIndex func(userID string) int) []RankEntry {
	entries := make([]RankEntry, 0, len(b.scores))
	for userID, score := range b.scores {
		entries = append(entries, RankEntry{UserID: userID, Score: score})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return joinIndex(entries[i].UserID) < joinIndex(entries[j].UserID)
	})

	return entries
}
