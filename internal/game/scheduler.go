/*
Package game contains the core logic for realtime drawing rooms.

This file defines the turn Scheduler: the state machine driving
Lobby → Intermission → Drawing → Intermission → … → GameOver, including the
countdown, guess judging, and per-turn score awards. The Scheduler is a pure
state machine; the Room feeds it ticks and guesses from its serialized event
loop.
*/
package game

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Phase is the scheduler's current state.
type Phase int

// Scheduler phases.
const (
	PhaseLobby Phase = iota
	PhaseIntermission
	PhaseDrawing
	PhaseGameOver
)

// String returns the wire name of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseLobby:
		return "lobby"
	case PhaseIntermission:
		return "intermission"
	case PhaseDrawing:
		return "drawing"
	case PhaseGameOver:
		return "game-over"
	default:
		return "unknown"
	}
}

// Guess scoring: award = GuessBaseScore + remaining*GuessBonusScore/total.
// Strictly decreasing in elapsed ticks, so faster guesses always score more.
const (
	GuessBaseScore  = 50
	GuessBonusScore = 150

	// CloseGuessDistance is the maximum edit distance treated as a near miss.
	CloseGuessDistance = 2
)

// GuessVerdict classifies a chat message judged during a drawing turn.
type GuessVerdict int

// Guess verdicts.
const (
	// GuessNotJudged means the message was not a guess: no active turn, the
	// sender is the drawer, or the sender already guessed this turn.
	GuessNotJudged GuessVerdict = iota
	GuessWrong
	GuessClose
	GuessCorrect
)

// GuessResult is the outcome of judging one chat message.
type GuessResult struct {
	Verdict GuessVerdict

	// Award is the credited score for a correct guess.
	Award int

	// Distance is the edit distance for a close guess.
	Distance int

	// MatchesWord reports whether the text equals the secret word regardless
	// of verdict, so the Room can avoid leaking it through plain chat.
	MatchesWord bool
}

// TurnOutcome is published when a turn ends.
type TurnOutcome struct {
	Word      string
	TurnIndex int

	// Awards maps guesser user IDs to the points earned this turn.
	Awards map[string]int
}

// Scheduler drives turn rotation and the countdown for one room.
type Scheduler struct {
	phase Phase

	turnTicks int

	turnIndex      int
	turnsRemaining int

	drawerID       string
	word           string
	remainingTicks int

	// guessed tracks which participants already guessed correctly this turn.
	guessed map[string]bool
	awards  map[string]int
}

// NewScheduler creates a Scheduler in the lobby phase with the given
// countdown length per turn.
func NewScheduler(turnTicks int) *Scheduler {
	return &Scheduler{
		phase:     PhaseLobby,
		turnTicks: turnTicks,
		guessed:   make(map[string]bool),
		awards:    make(map[string]int),
	}
}

// Phase returns the current phase.
func (s *Scheduler) Phase() Phase { return s.phase }

// DrawerID returns the current drawer's user ID, or "" outside a turn.
func (s *Scheduler) DrawerID() string { return s.drawerID }

// Word returns the current secret word, visible only to the drawer.
func (s *Scheduler) Word() string { return s.word }

// RemainingTicks returns the countdown remaining in the current turn.
func (s *Scheduler) RemainingTicks() int { return s.remainingTicks }

// TurnIndex returns the monotonically increasing turn counter.
func (s *Scheduler) TurnIndex() int { return s.turnIndex }

// TurnsRemaining returns how many turns are left in the game.
func (s *Scheduler) TurnsRemaining() int { return s.turnsRemaining }

// HasGuessed reports whether the participant already guessed correctly this turn.
func (s *Scheduler) HasGuessed(userID string) bool { return s.guessed[userID] }

// StartGame transitions Lobby (or GameOver, for a reset) into Intermission
// with the given total number of turns.
func (s *Scheduler) StartGame(turns int) {
	s.phase = PhaseIntermission
	s.turnsRemaining = turns
	s.turnIndex = 0
}

// BeginTurn enters the Drawing phase with the given drawer and word, starting
// a fresh countdown and clearing per-turn guess state.
func (s *Scheduler) BeginTurn(drawerID, word string) {
	s.phase = PhaseDrawing
	s.drawerID = drawerID
	s.word = word
	s.remainingTicks = s.turnTicks
	s.turnIndex++
	s.turnsRemaining--
	s.guessed = make(map[string]bool)
	s.awards = make(map[string]int)
}

// Tick advances the countdown by one tick and reports whether it expired.
// Ticks outside the Drawing phase are ignored.
func (s *Scheduler) Tick() bool {
	if s.phase != PhaseDrawing {
		return false
	}

	if s.remainingTicks > 0 {
		s.remainingTicks--
	}

	return s.remainingTicks == 0
}

// Guess judges a chat message from the given participant. A participant is
// credited at most once per turn; drawers and repeat guessers get
// GuessNotJudged with MatchesWord set so the Room can keep the word out of
// plain chat.
func (s *Scheduler) Guess(userID, text string) GuessResult {
	matches := s.phase == PhaseDrawing && equalsWord(text, s.word)

	if s.phase != PhaseDrawing || userID == s.drawerID || s.guessed[userID] {
		return GuessResult{Verdict: GuessNotJudged, MatchesWord: matches}
	}

	if matches {
		award := GuessBaseScore + s.remainingTicks*GuessBonusScore/s.turnTicks
		s.guessed[userID] = true
		s.awards[userID] = award

		return GuessResult{Verdict: GuessCorrect, Award: award, MatchesWord: true}
	}

	distance := levenshtein.ComputeDistance(normalizeGuess(text), s.word)
	if distance <= CloseGuessDistance {
		return GuessResult{Verdict: GuessClose, Distance: distance}
	}

	return GuessResult{Verdict: GuessWrong}
}

// AllGuessed reports whether every one of the stillGuessing participants has
// guessed correctly this turn.
func (s *Scheduler) AllGuessed(stillGuessing int) bool {
	return s.phase == PhaseDrawing && stillGuessing > 0 && len(s.guessed) >= stillGuessing
}

// EndTurn leaves the Drawing phase and publishes the turn outcome. The next
// turn, game over, or lobby transition is the Room's call.
func (s *Scheduler) EndTurn() TurnOutcome {
	outcome := TurnOutcome{
		Word:      s.word,
		TurnIndex: s.turnIndex,
		Awards:    s.awards,
	}

	s.phase = PhaseIntermission
	s.drawerID = ""
	s.word = ""
	s.remainingTicks = 0
	s.guessed = make(map[string]bool)
	s.awards = make(map[string]int)

	return outcome
}

// EndGame transitions into the terminal GameOver phase.
func (s *Scheduler) EndGame() {
	s.phase = PhaseGameOver
	s.drawerID = ""
	s.word = ""
	s.remainingTicks = 0
	s.turnsRemaining = 0
}

// ForceLobby aborts any running game, e.g. when fewer than two participants
// remain connected.
func (s *Scheduler) ForceLobby() {
	s.phase = PhaseLobby
	s.drawerID = ""
	s.word = ""
	s.remainingTicks = 0
	s.turnsRemaining = 0
	s.guessed = make(map[string]bool)
	s.awards = make(map[string]int)
}

// equalsWord compares a guess to the secret word case-insensitively after
// trimming surrounding whitespace.
func equalsWord(text, word string) bool {
	return word != "" && normalizeGuess(text) == word
}

// normalizeGuess lowercases and trims a guess for comparison. Words in the
// pool are stored lowercase.
func normalizeGuess(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
